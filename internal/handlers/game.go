package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"social-casino-backend/internal/models"
	"social-casino-backend/internal/services"
)

type GameHandler struct {
	store *services.Store
}

func NewGameHandler(store *services.Store) *GameHandler {
	return &GameHandler{store: store}
}

func (h *GameHandler) ListGames(c *gin.Context) {
	category := c.Query("category")
	games := h.store.Games()
	if category != "" {
		filtered := games[:0]
		for _, g := range games {
			if g.Category == category {
				filtered = append(filtered, g)
			}
		}
		games = filtered
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

func (h *GameHandler) GetGame(c *gin.Context) {
	game, err := h.store.Game(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game": game, "comments": h.store.Comments(game.ID)})
}

func (h *GameHandler) Spin(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	var req models.SpinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	result, err := sess.ProcessGameSpin(c.Request.Context(), c.Param("id"), req.Bet, req.Currency)
	if err != nil {
		respondError(c, err)
		return
	}

	// Insufficient funds is a normal outcome, not a failed request.
	c.JSON(http.StatusOK, gin.H{
		"success": result.Reason == "",
		"result":  result,
	})
}

func (h *GameHandler) GetJackpots(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Jackpots())
}

func (h *GameHandler) GetTicker(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"wins": h.store.Ticker()})
}

func (h *GameHandler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": h.store.Categories(),
		"packages":   h.store.Packages(),
		"promotions": h.store.Promotions(),
	})
}

func (h *GameHandler) GetStatus(c *gin.Context) {
	status, lastSync := h.store.SyncStatus()
	settings := h.store.Settings()
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"sync":        status,
		"last_sync":   lastSync,
		"maintenance": settings.MaintenanceMode,
	})
}
