package server

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Sahiljangra115/Aurora-chat/internal/analytics"
	"github.com/Sahiljangra115/Aurora-chat/internal/config"
	"github.com/Sahiljangra115/Aurora-chat/internal/gateway"
	"github.com/Sahiljangra115/Aurora-chat/internal/platform/metrics"
	"github.com/Sahiljangra115/Aurora-chat/internal/server/middleware"
	"github.com/Sahiljangra115/Aurora-chat/internal/server/validator"
)

type Server struct {
	router    *gin.Engine
	config    *config.Config
	logger    *zap.Logger
	service   gateway.Service
	analytics analytics.Service
	validator *validator.Validator
}

// New builds the gin engine. analyticsService may be nil, in which case the
// request log routes are not mounted.
func New(cfg *config.Config, logger *zap.Logger, service gateway.Service, analyticsService analytics.Service) *Server {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(logger))
	engine.Use(ginzap.RecoveryWithZap(logger, true))
	if cfg.Tracing.Enabled {
		engine.Use(middleware.Tracing(cfg.Tracing.ServiceName, "/health", cfg.Metrics.Path)...)
	}
	if cfg.Metrics.Enabled {
		engine.Use(metrics.Middleware())
	}
	engine.Use(middleware.ErrorHandler(logger))

	s := &Server{
		router:    engine,
		config:    cfg,
		logger:    logger,
		service:   service,
		analytics: analyticsService,
		validator: validator.New(),
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer wraps the engine with timeouts sized for the slowest upstream
// call, a local chat that may take up to two minutes.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              ":" + s.config.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      150 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
