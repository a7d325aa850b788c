package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"social-casino-backend/internal/models"
	"social-casino-backend/internal/services"
)

type AuthHandler struct {
	store      *services.Store
	jwtService *services.JWTService
}

func NewAuthHandler(store *services.Store, jwtService *services.JWTService) *AuthHandler {
	return &AuthHandler{
		store:      store,
		jwtService: jwtService,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	sess, err := h.store.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusOK, sess)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	sess, err := h.store.Signup(c.Request.Context(), req.Email, req.Name, req.ReferralCode)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, sess)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, sess *services.Session) {
	user, err := sess.CurrentUser()
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID, sess.ID())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(status, gin.H{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	sess.Logout()
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}
