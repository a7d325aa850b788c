package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"social-casino-backend/internal/middleware"
	"social-casino-backend/internal/models"
	"social-casino-backend/internal/services"
)

// Error codes returned in the "code" field of error bodies.
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInsufficientFunds  = models.ReasonInsufficientFunds
	CodeBelowMinimum       = "BELOW_MINIMUM"
	CodeKYCRequired        = "KYC_REQUIRED"
	CodeCooldownActive     = "COOLDOWN_ACTIVE"
	CodeInvalidAmount      = "INVALID_AMOUNT"
	CodeInvalidCurrency    = "INVALID_CURRENCY"
	CodeMaintenance        = "MAINTENANCE_MODE"
	CodeFeatureDisabled    = "FEATURE_DISABLED"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountLocked      = "ACCOUNT_LOCKED"
	CodeLoginRequired      = "LOGIN_REQUIRED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternalError      = "INTERNAL_ERROR"
)

type httpError struct {
	status int
	code   string
}

func toHTTPError(err error) httpError {
	switch {
	case errors.Is(err, models.ErrInsufficientFunds):
		return httpError{http.StatusUnprocessableEntity, CodeInsufficientFunds}
	case errors.Is(err, models.ErrBelowMinimum):
		return httpError{http.StatusUnprocessableEntity, CodeBelowMinimum}
	case errors.Is(err, models.ErrKYCRequired):
		return httpError{http.StatusForbidden, CodeKYCRequired}
	case errors.Is(err, models.ErrCooldownActive):
		return httpError{http.StatusConflict, CodeCooldownActive}
	case errors.Is(err, models.ErrInvalidAmount):
		return httpError{http.StatusBadRequest, CodeInvalidAmount}
	case errors.Is(err, models.ErrInvalidCurrency):
		return httpError{http.StatusBadRequest, CodeInvalidCurrency}
	case errors.Is(err, models.ErrInvalidInput):
		return httpError{http.StatusBadRequest, CodeInvalidRequest}
	case errors.Is(err, models.ErrMaintenanceMode):
		return httpError{http.StatusServiceUnavailable, CodeMaintenance}
	case errors.Is(err, models.ErrFeatureDisabled):
		return httpError{http.StatusServiceUnavailable, CodeFeatureDisabled}
	case errors.Is(err, models.ErrEmailTaken):
		return httpError{http.StatusConflict, CodeEmailTaken}
	case errors.Is(err, models.ErrInvalidCredentials):
		return httpError{http.StatusUnauthorized, CodeInvalidCredentials}
	case errors.Is(err, models.ErrAccountLocked):
		return httpError{http.StatusForbidden, CodeAccountLocked}
	case errors.Is(err, models.ErrLoginRequired),
		errors.Is(err, models.ErrSessionNotFound),
		errors.Is(err, services.ErrInvalidToken):
		return httpError{http.StatusUnauthorized, CodeLoginRequired}
	case errors.Is(err, models.ErrForbidden):
		return httpError{http.StatusForbidden, CodeForbidden}
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrGameNotFound),
		errors.Is(err, models.ErrPackageNotFound),
		errors.Is(err, models.ErrAlertNotFound),
		errors.Is(err, models.ErrRedemptionNotFound):
		return httpError{http.StatusNotFound, CodeNotFound}
	case errors.Is(err, models.ErrGameExists),
		errors.Is(err, models.ErrRedemptionClosed):
		return httpError{http.StatusConflict, CodeConflict}
	}
	return httpError{http.StatusInternalServerError, CodeInternalError}
}

// respondError writes err as {"error": ..., "code": ...}. Internal errors
// never expose their message.
func respondError(c *gin.Context, err error) {
	he := toHTTPError(err)
	msg := err.Error()
	if he.status == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = "Internal server error"
	}
	c.AbortWithStatusJSON(he.status, gin.H{"error": msg, "code": he.code})
}

func respondBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request",
		"code":    CodeInvalidRequest,
		"details": err.Error(),
	})
}

// sessionFrom returns the store session attached by the auth middleware.
func sessionFrom(c *gin.Context) (*services.Session, bool) {
	v, ok := c.Get(middleware.ContextSession)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*services.Session)
	return sess, ok
}

func requireSession(c *gin.Context) (*services.Session, bool) {
	sess, ok := sessionFrom(c)
	if !ok {
		respondError(c, models.ErrLoginRequired)
		return nil, false
	}
	return sess, true
}
