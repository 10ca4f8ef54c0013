package server

import (
	"github.com/gin-gonic/gin"

	"github.com/Sahiljangra115/Aurora-chat/internal/platform/metrics"
	v1 "github.com/Sahiljangra115/Aurora-chat/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	healthHandler := v1.NewHealthHandler()
	s.router.GET("/health", healthHandler.Health)

	if s.config.Metrics.Enabled {
		s.router.GET(s.config.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	api := s.router.Group("/api")
	{
		configHandler := v1.NewConfigHandler(s.config.Server.APIBaseURL, s.service)
		api.GET("/config", configHandler.Get)

		modelsHandler := v1.NewModelHandler(s.service)
		api.GET("/models", modelsHandler.ListModels)

		chatHandler := v1.NewChatHandler(s.service, s.validator)
		api.POST("/chat", chatHandler.CreateCompletion)

		if s.analytics != nil {
			analyticsHandler := v1.NewAnalyticsHandler(s.analytics)
			api.GET("/requests", analyticsHandler.Recent)
			api.GET("/requests/stats", analyticsHandler.Stats)
		}
	}
}
