package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Lanszs/QuickDART/internal/handlers"
	"github.com/Lanszs/QuickDART/internal/middleware"
	"github.com/Lanszs/QuickDART/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/login", handlers.Login)
		}

		// Field reporting stays open so agents can file before signing in.
		api.GET("/reports", handlers.ListReports)
		api.POST("/reports", handlers.CreateReport)
		api.GET("/resources", handlers.ListResources)
		api.POST("/analyze", handlers.Analyze)
		api.GET("/chat/history/:room", handlers.ChatHistory)

		protected := api.Group("", middleware.AuthMiddleware())
		{
			protected.PUT("/reports/:id", handlers.UpdateReport)

			protected.POST("/teams", handlers.CreateTeam)
			protected.DELETE("/teams/:id", handlers.DeleteTeam)
			protected.PUT("/teams/:id/deploy", handlers.DeployTeam)
			protected.POST("/teams/:id/notify", handlers.NotifyTeam)

			protected.POST("/assets", handlers.CreateAsset)
			protected.DELETE("/assets/:id", handlers.DeleteAsset)
			protected.PUT("/assets/:id/deploy", handlers.DeployAsset)
			protected.POST("/assets/:id/notify", handlers.NotifyAsset)
		}
	}

	return r
}
