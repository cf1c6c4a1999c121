package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/prepdesk/prepdesk-backend/internal/config"
	"github.com/prepdesk/prepdesk-backend/internal/handler"
	"github.com/prepdesk/prepdesk-backend/internal/middleware"
	"github.com/prepdesk/prepdesk-backend/internal/ratelimit"
	"github.com/prepdesk/prepdesk-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Session   *handler.SessionHandler
	Question  *handler.QuestionHandler
	Analytics *handler.AnalyticsHandler
	System    *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	handlers *Handlers,
	limiter *ratelimit.Limiter,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	defaultRule := ratelimit.Rule{
		Name:        "default",
		MaxRequests: cfg.DefaultRateLimit.MaxRequests,
		Window:      cfg.DefaultRateLimit.Window,
	}
	generateRule := ratelimit.Rule{
		Name:        "generate",
		MaxRequests: cfg.GenerateRateLimit.MaxRequests,
		Window:      cfg.GenerateRateLimit.Window,
	}

	// ─── 1. Session and Analytics Group (JWT, default budget) ──────────
	api := router.Group("/api/v1")
	api.Use(
		middleware.RequireAuth(cfg.JWTSecret),
		middleware.RateLimit(limiter, defaultRule, log),
	)
	{
		api.POST("/sessions", handlers.Session.CreateSession)
		api.GET("/sessions", handlers.Session.ListSessions)
		api.GET("/sessions/:session_id", handlers.Session.GetSession)
		api.POST("/sessions/:session_id/answers", handlers.Session.SubmitAnswer)
		api.POST("/sessions/:session_id/complete", handlers.Session.CompleteSession)

		api.GET("/analytics/overview", handlers.Analytics.Overview)
		api.GET("/analytics/exams", handlers.Analytics.ByExam)
		api.GET("/analytics/subjects", handlers.Analytics.BySubject)

		api.GET("/system/metrics", handlers.System.SystemMetricsSSE)
	}

	// ─── 2. Question Group (JWT, tight generation budget) ──────────────
	// Question supply can fan out to a paid model provider, so it gets
	// its own much smaller window.
	questions := router.Group("/api/v1/questions")
	questions.Use(
		middleware.RequireAuth(cfg.JWTSecret),
		middleware.RateLimit(limiter, generateRule, log),
	)
	{
		questions.POST("/next", handlers.Question.NextQuestion)
	}

	return router
}
