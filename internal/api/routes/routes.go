package routes

import (
	"netvault/internal/api/handlers"
	"netvault/internal/api/middleware"
	"netvault/internal/config"
	"netvault/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Initialize services
	auditService := services.NewAuditService(db)
	authService := services.NewAuthService(db, cfg, auditService)
	configService := services.NewConfigurationService(db, auditService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	configHandler := handlers.NewConfigHandler(configService)
	templateHandler := handlers.NewTemplateHandler(configService)
	adminHandler := handlers.NewAdminHandler(auditService)

	// Middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware(cfg))

	// Public routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"version": Version,
			})
		})

		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthRequired(authService))
	{
		// Auth routes (protected)
		protected.GET("/auth/me", authHandler.GetMe)
		protected.POST("/auth/logout", authHandler.Logout)

		// Configuration routes
		configs := protected.Group("/configs")
		{
			configs.GET("", configHandler.List)
			configs.POST("", configHandler.Create)
			configs.GET("/:id", configHandler.Get)
			configs.PUT("/:id", configHandler.Update)
			configs.DELETE("/:id", configHandler.Delete)
			configs.GET("/:id/versions", configHandler.ListVersions)
			configs.GET("/:id/versions/:version", configHandler.GetVersion)
		}

		// Template routes
		templates := protected.Group("/templates")
		{
			templates.GET("", templateHandler.List)
			templates.POST("/:id/create", templateHandler.CreateFromTemplate)
		}

		// Admin routes
		admin := protected.Group("/admin")
		admin.Use(middleware.AdminRequired(authService))
		{
			admin.GET("/audit-logs", adminHandler.ListAuditLogs)
			admin.GET("/audit-logs/export", adminHandler.ExportAuditLogs)
		}
	}
}
