package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/gabarita/gabarita-backend/internal/config"
	"github.com/gabarita/gabarita-backend/internal/database"
	"github.com/gabarita/gabarita-backend/internal/handler"
	"github.com/gabarita/gabarita-backend/internal/logger"
	"github.com/gabarita/gabarita-backend/internal/router"
	"github.com/gabarita/gabarita-backend/internal/service"
	"github.com/gabarita/gabarita-backend/internal/store"
	"github.com/gabarita/gabarita-backend/internal/validator"
	"github.com/gabarita/gabarita-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("storage", cfg.StorageDriver).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Gabarita Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Open Storage ──────────────────────────────────────────────────
	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer st.Close()

	// ─── Connect to Redis (optional) ───────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())

	bank := st.Questions
	if rdb != nil {
		defer rdb.Close()
		cached := service.NewCachedQuestionBank(st.Questions, rdb, cfg.QuestionCacheTTL, log)

		// ─── Prewarm Redis Cache ───────────────────────────────────────
		// Load the whole bank BEFORE accepting traffic.
		if err := cached.Prewarm(ctx); err != nil {
			log.Warn().Err(err).Msg("Cache prewarm failed")
		}
		go worker.NewCacheRefreshWorker(cached, cfg.QuestionCacheTTL/2, log).Start(workerCtx)
		bank = cached
	}

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, st.Users, log)
	simuladoService := service.NewSimuladoService(bank, st.Attempts, st.CustomExams, log)
	questionService := service.NewQuestionService(bank, st.CustomExams, log)
	classService := service.NewClassService(st.Classes, st.Users, log)
	reportService := service.NewReportService(st.Classes, st.Users, st.Attempts, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Health:   handler.NewHealthHandler(rdb, cfg.StorageDriver, log),
		Auth:     handler.NewAuthHandler(authService, log),
		Simulado: handler.NewSimuladoHandler(simuladoService, log),
		Question: handler.NewQuestionHandler(questionService, log),
		Class:    handler.NewClassHandler(classService, reportService, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
