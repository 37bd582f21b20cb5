package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/legal-assistant/internal/domain/auth"
	"github.com/yanqian/legal-assistant/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
// authSvc may be nil when cfg.Auth.Enabled is false.
func NewRouter(cfg *config.Config, handler *Handler, authSvc auth.Service, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
	)

	router.GET("/", handler.Root)
	router.GET("/ping", handler.Ping)

	protected := router.Group("/")
	if cfg.Auth.Enabled && authSvc != nil {
		protected.Use(authMiddleware(authSvc))
	}
	{
		protected.POST("/analyze", handler.Analyze)
		protected.POST("/analyze-text", handler.AnalyzeText)
		protected.POST("/analyze-pdf", handler.AnalyzePDF)
		protected.GET("/api/v1/analyses", handler.ListAnalyses)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
