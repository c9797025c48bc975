package routes

import (
	"time"

	"rewardtrack-backend/handlers"
	"rewardtrack-backend/middleware"
	"rewardtrack-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, notifier *services.Notifier, verifier handlers.GoogleVerifier) {
	ledger := services.NewLedgerService(db, notifier)
	history := services.NewHistoryService(db)

	// Initialize handlers
	authHandler := &handlers.AuthHandler{DB: db, Verifier: verifier}
	memberHandler := &handlers.MemberHandler{Ledger: ledger}
	pointsHandler := &handlers.PointsHandler{Ledger: ledger}
	settingsHandler := &handlers.SettingsHandler{Ledger: ledger}
	historyHandler := &handlers.HistoryHandler{History: history}
	exportHandler := &handlers.ExportHandler{Ledger: ledger, History: history}
	streamHandler := &handlers.StreamHandler{Ledger: ledger, Notifier: notifier}

	// Public routes; login attempts are rate limited per client IP.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.Use(loginLimiter.Middleware())
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/google", authHandler.GoogleLogin)
	}

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		// User profile
		protected.GET("/auth/profile", authHandler.GetProfile)

		// Member routes
		protected.GET("/members", memberHandler.ListMembers)
		protected.POST("/members", memberHandler.CreateMember)
		protected.GET("/members/:id", memberHandler.GetMember)
		protected.DELETE("/members/:id", memberHandler.RemoveMember)

		// Ledger routes
		protected.POST("/members/:id/points", pointsHandler.RecordPoints)
		protected.POST("/members/:id/redemptions", pointsHandler.RedeemReward)

		// History routes
		protected.GET("/members/:id/points", historyHandler.ListPointTransactions)
		protected.GET("/members/:id/redemptions", historyHandler.ListRewardRedemptions)

		// Settings routes
		protected.GET("/settings", settingsHandler.GetSettings)
		protected.PUT("/settings", settingsHandler.UpdateSettings)

		// CSV export routes
		protected.GET("/export/members", exportHandler.ExportMembers)
		protected.GET("/export/points", exportHandler.ExportPointTransactions)
		protected.GET("/export/redemptions", exportHandler.ExportRewardRedemptions)

		// Live streams (Server-Sent Events)
		protected.GET("/stream/members", streamHandler.StreamMembers)
		protected.GET("/stream/settings", streamHandler.StreamSettings)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
