package router

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gabarita/gabarita-backend/internal/config"
	"github.com/gabarita/gabarita-backend/internal/handler"
	"github.com/gabarita/gabarita-backend/internal/middleware"
	"github.com/gabarita/gabarita-backend/internal/response"
	"github.com/gabarita/gabarita-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Simulado *handler.SimuladoHandler
	Question *handler.QuestionHandler
	Class    *handler.ClassHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background work owned by the router (rate limiter sweeps).
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.GinMode != gin.TestMode {
		router.Use(gin.Logger())
	}

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", middleware.NoStore(), handlers.Health.Health)

	v1 := router.Group("/api/v1")

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	auth := v1.Group("/auth")
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
	}

	// ─── 1. Authenticated Group (Students and Teachers) ────────────────
	requireAuth := middleware.RequireAuth(authService)
	compress := middleware.Brotli(5, middleware.DefaultCompressMinLength)

	v1.GET("/auth/me", requireAuth, handlers.Auth.Me)

	simulados := v1.Group("/simulados", requireAuth)
	{
		simulados.GET("", middleware.CacheControl(60), handlers.Simulado.List)
		simulados.GET("/:exam_id", compress, handlers.Simulado.Paper)

		submitLimiter := middleware.NewRateLimiter(ctx, cfg.SubmitRateLimit, time.Minute)
		simulados.POST("/:exam_id/submit", submitLimiter.Middleware(), handlers.Simulado.Submit)
	}

	me := v1.Group("/me", requireAuth, middleware.NoStore())
	{
		me.GET("/history", handlers.Simulado.History)
		me.GET("/attempts/:attempt_id", handlers.Simulado.Attempt)
	}

	questions := v1.Group("/questions", requireAuth)
	{
		questions.GET("", compress, handlers.Question.Browse)
		questions.GET("/facets", middleware.CacheControl(300), handlers.Question.Facets)
		questions.POST("/import", middleware.RequireTeacher(), handlers.Question.Import)
	}

	customExams := v1.Group("/custom-exams", requireAuth)
	{
		customExams.POST("", handlers.Question.CreateCustomExam)
		customExams.GET("", handlers.Question.ListCustomExams)
	}

	// ─── 2. Teacher Group ──────────────────────────────────────────────
	classes := v1.Group("/classes", requireAuth, middleware.RequireTeacher(), middleware.NoStore())
	{
		classes.POST("", handlers.Class.Create)
		classes.GET("", handlers.Class.List)
		classes.POST("/:id/students", handlers.Class.AddStudent)
		classes.GET("/:id/report", handlers.Class.Report)
	}

	return router
}
