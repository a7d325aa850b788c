package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"social-casino-backend/internal/services"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID    = "user_id"
	ContextSessionID = "session_id"
	ContextSession   = "session"
)

func AuthMiddleware(jwtService *services.JWTService, store *services.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		var tokenString string

		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format", "code": "LOGIN_REQUIRED"})
				return
			}
			tokenString = parts[1]
		} else {
			// Browsers cannot set headers on websocket upgrades.
			tokenString = c.Query("token")
			if tokenString == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required", "code": "LOGIN_REQUIRED"})
				return
			}
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "code": "LOGIN_REQUIRED"})
			return
		}

		sess, err := store.Session(claims.SessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired or invalid", "code": "LOGIN_REQUIRED"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextSessionID, claims.SessionID)
		c.Set(ContextSession, sess)

		c.Next()
	}
}

// AdminOnly rejects callers whose session user is not an admin. The store
// checks the role again on every admin operation.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := c.MustGet(ContextSession).(*services.Session)
		if !ok || !sess.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin role required", "code": "FORBIDDEN"})
			return
		}
		c.Next()
	}
}

// RateLimitMiddleware caps how often one user may perform action inside
// window. Limiter failures fail closed.
func RateLimitMiddleware(limiter services.RateLimiter, action string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ContextUserID)
		if userID == "" {
			c.Next()
			return
		}

		allowed, err := limiter.CheckRateLimit(c.Request.Context(), userID, action, limit, window)
		if err != nil || !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"code":        "RATE_LIMITED",
				"retry_after": window.Seconds(),
			})
			return
		}

		c.Next()
	}
}

// RequestLogger logs one line per request.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		}
		if userID := c.GetString(ContextUserID); userID != "" {
			attrs = append(attrs, slog.String("user_id", userID))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("error", c.Errors.String()))
			logger.Error("request failed", attrs...)
			return
		}
		logger.Info("request", attrs...)
	}
}

// CORS mirrors the permissive policy used by the game surfaces.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
