package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"social-casino-backend/internal/models"
	"social-casino-backend/internal/services"
)

// AdminHandler serves the admin console. Routes are mounted behind
// middleware.AdminOnly; the store re-checks the role.
type AdminHandler struct {
	store    *services.Store
	ingestor *services.Ingestor
}

func NewAdminHandler(store *services.Store, ingestor *services.Ingestor) *AdminHandler {
	return &AdminHandler{store: store, ingestor: ingestor}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	users, err := sess.AdminListUsers()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *AdminHandler) AdjustBalance(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := sess.AdminAdjustBalance(c.Request.Context(), c.Param("id"), req.Currency, req.Amount, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.UserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := sess.AdminUpdateUserStatus(c.Request.Context(), c.Param("id"), req.Status, req.KYCStatus)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AdminHandler) ListTransactions(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	txs, err := sess.AdminListTransactions(c.Query("user_id"), models.Currency(c.Query("currency")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

func (h *AdminHandler) ListRedemptions(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	redemptions, err := sess.AdminListRedemptions()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redemptions": redemptions})
}

func (h *AdminHandler) ProcessRedemption(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.ProcessRedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	redemption, err := sess.AdminProcessRedemption(c.Request.Context(), c.Param("id"), req.Approve)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redemption": redemption})
}

func (h *AdminHandler) AddGame(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var game models.Game
	if err := c.ShouldBindJSON(&game); err != nil {
		respondBindError(c, err)
		return
	}

	created, err := sess.AdminAddGame(c.Request.Context(), game)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"game": created})
}

func (h *AdminHandler) UpdateGame(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var update models.GameUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBindError(c, err)
		return
	}

	game, err := sess.AdminUpdateGame(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game": game})
}

func (h *AdminHandler) UpsertGames(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var games []models.Game
	if err := c.ShouldBindJSON(&games); err != nil {
		respondBindError(c, err)
		return
	}

	added, updated, err := sess.AdminUpsertGames(c.Request.Context(), games)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added, "updated": updated})
}

func (h *AdminHandler) DeleteGame(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	if err := sess.AdminDeleteGame(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) ListAlerts(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	alerts, err := sess.AdminListAlerts()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

func (h *AdminHandler) ResolveAlert(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	alert, err := sess.AdminResolveAlert(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alert": alert})
}

func (h *AdminHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": h.store.Settings()})
}

func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var patch models.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err)
		return
	}

	settings, err := sess.AdminUpdateSettings(c.Request.Context(), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *AdminHandler) SendEmail(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	logs, err := sess.AdminSendEmail(c.Request.Context(), req.Target, req.Subject, req.Body, req.Type)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": len(logs), "emails": logs})
}

func (h *AdminHandler) ListEmails(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	logs, err := sess.AdminEmailLogs()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"emails": logs})
}

func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	logs, err := sess.AdminAuditLogs()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit": logs})
}

func (h *AdminHandler) RunIngestion(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	logs, err := h.ingestor.Run(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingestion": logs})
}

func (h *AdminHandler) ListIngestionLogs(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	logs, err := sess.AdminIngestionLogs()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingestion": logs})
}

func (h *AdminHandler) Sync(c *gin.Context) {
	if err := h.store.Sync(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	status, lastSync := h.store.SyncStatus()
	c.JSON(http.StatusOK, gin.H{"sync": status, "last_sync": lastSync})
}
