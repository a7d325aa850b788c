package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"social-casino-backend/internal/models"
	"social-casino-backend/internal/services"
)

type UserHandler struct {
	store *services.Store
}

func NewUserHandler(store *services.Store) *UserHandler {
	return &UserHandler{store: store}
}

func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	user, err := sess.CurrentUser()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"session": gin.H{"session_id": sess.ID()},
	})
}

func (h *UserHandler) GetBalance(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	user, err := sess.CurrentUser()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.BalanceResponse{
		UserID:  user.ID,
		Balance: user.Balances(),
		XP:      user.XP,
		Level:   user.Level,
	})
}

func (h *UserHandler) GetTransactions(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	currency := models.Currency(c.Query("currency"))
	if currency != "" && !currency.Valid() {
		respondError(c, models.ErrInvalidCurrency)
		return
	}

	txs, err := sess.Transactions(currency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

func (h *UserHandler) ClaimDailyReward(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	reward, err := sess.ClaimDailyReward(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reward": reward})
}

func (h *UserHandler) PurchasePackage(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	var req models.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := sess.PurchasePackage(c.Request.Context(), req.PackageID, req.Method, req.PaymentData)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "balance": user.Balances()})
}

func (h *UserHandler) RequestRedemption(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	var req models.RedemptionBody
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	redemption, err := sess.RequestRedemption(c.Request.Context(), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "redemption": redemption})
}

func (h *UserHandler) GetRedemptions(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	redemptions, err := sess.Redemptions()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redemptions": redemptions})
}
