package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"social-casino-backend/internal/middleware"
	"social-casino-backend/internal/services"
)

type RouterConfig struct {
	Logger     *slog.Logger
	Store      *services.Store
	JWTService *services.JWTService
	Limiter    services.RateLimiter
	Ingestor   *services.Ingestor
	WebSocket  *WebSocketHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	authHandler := NewAuthHandler(cfg.Store, cfg.JWTService)
	userHandler := NewUserHandler(cfg.Store)
	gameHandler := NewGameHandler(cfg.Store)
	adminHandler := NewAdminHandler(cfg.Store, cfg.Ingestor)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Logger))
	router.Use(middleware.CORS())

	router.GET("/health", gameHandler.GetStatus)

	auth := router.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/signup", authHandler.Signup)
	}

	public := router.Group("/api")
	{
		public.GET("/games", gameHandler.ListGames)
		public.GET("/games/:id", gameHandler.GetGame)
		public.GET("/jackpots", gameHandler.GetJackpots)
		public.GET("/ticker", gameHandler.GetTicker)
		public.GET("/catalog", gameHandler.GetCatalog)
	}

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(cfg.JWTService, cfg.Store))
	{
		protected.GET("/me", userHandler.GetCurrentUser)
		protected.POST("/logout", authHandler.Logout)

		protected.GET("/wallet/balance", userHandler.GetBalance)
		protected.GET("/wallet/transactions", userHandler.GetTransactions)
		protected.POST("/wallet/purchase", userHandler.PurchasePackage)
		protected.POST("/rewards/daily", userHandler.ClaimDailyReward)
		protected.GET("/redemptions", userHandler.GetRedemptions)
		protected.POST("/redemptions", userHandler.RequestRedemption)

		protected.POST("/games/:id/spin",
			middleware.RateLimitMiddleware(cfg.Limiter, "spin", services.DefaultRateLimitSpins, services.DefaultRateLimitWindow),
			gameHandler.Spin)

		if cfg.WebSocket != nil {
			protected.GET("/bridge/ws", cfg.WebSocket.HandleWebSocket)
		}

		admin := protected.Group("/admin")
		admin.Use(middleware.AdminOnly())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users/:id/balance", adminHandler.AdjustBalance)
			admin.PUT("/users/:id/status", adminHandler.UpdateUserStatus)

			admin.GET("/transactions", adminHandler.ListTransactions)
			admin.GET("/redemptions", adminHandler.ListRedemptions)
			admin.POST("/redemptions/:id", adminHandler.ProcessRedemption)

			admin.POST("/games", adminHandler.AddGame)
			admin.PUT("/games", adminHandler.UpsertGames)
			admin.PATCH("/games/:id", adminHandler.UpdateGame)
			admin.DELETE("/games/:id", adminHandler.DeleteGame)

			admin.GET("/alerts", adminHandler.ListAlerts)
			admin.POST("/alerts/:id/resolve", adminHandler.ResolveAlert)

			admin.GET("/settings", adminHandler.GetSettings)
			admin.PATCH("/settings", adminHandler.UpdateSettings)

			admin.POST("/emails", adminHandler.SendEmail)
			admin.GET("/emails", adminHandler.ListEmails)
			admin.GET("/audit", adminHandler.ListAuditLogs)

			admin.POST("/ingestion", adminHandler.RunIngestion)
			admin.GET("/ingestion", adminHandler.ListIngestionLogs)

			admin.POST("/sync", adminHandler.Sync)
		}
	}

	return router
}
