package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"critique-backend/internal/analyses"
	"critique-backend/internal/extract"
	"critique-backend/internal/llm/gemini"
	"critique-backend/internal/shared/config"
	"critique-backend/internal/shared/httpjson"
	"critique-backend/internal/shared/metrics"
	"critique-backend/internal/shared/server/middleware"
	"critique-backend/internal/shared/server/respond"
	"critique-backend/internal/shared/telemetry"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	// Dependencies
	httpClient := httpjson.NewClient(120 * time.Second)
	httpClient.OnRetry = metrics.IncLLMRetry

	llmClient, err := gemini.NewClient(gemini.Config{
		APIKey:       cfg.GeminiAPIKey,
		Model:        cfg.LLMModel,
		BaseURL:      cfg.GeminiBaseURL,
		MaxRetries:   cfg.LLMMaxRetries,
		InitialDelay: cfg.LLMInitialDelay,
		HTTP:         httpClient,
	})
	if err != nil {
		if cfg.Env == "production" {
			return nil, err
		}
		telemetry.Warn("llm.not_configured", map[string]any{"error": err.Error()})
	}

	svc := &analyses.Service{
		Extractor: extract.NewService(),
		Slot:      analyses.NewReportSlot(),
	}
	if llmClient != nil {
		svc.LLM = llmClient
	}
	handler := analyses.NewHandler(svc)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	limiter := middleware.NewRateLimiter(nil)
	limited := api.Group("")
	limited.Use(middleware.RateLimit(limiter, middleware.RateLimitRule{Rate: 0.5, Burst: 3}))
	handler.RegisterRoutes(limited)

	return r, nil
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
