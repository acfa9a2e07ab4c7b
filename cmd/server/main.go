package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/0xarg/openscope/internal"
	"github.com/0xarg/openscope/internal/ai"
	"github.com/0xarg/openscope/internal/ai/mock"
	"github.com/0xarg/openscope/internal/ai/openai"
	"github.com/0xarg/openscope/internal/github"
	"github.com/0xarg/openscope/internal/handler"
	"github.com/0xarg/openscope/internal/metrics"
	"github.com/0xarg/openscope/internal/middleware"
	"github.com/0xarg/openscope/internal/repository"
	"github.com/0xarg/openscope/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	if err := internal.RunMigrations(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready")

	// Initialize repository
	queries := repository.New(db)

	// Initialize AI provider
	provider, err := newAIProvider(cfg, logger)
	if err != nil {
		return fmt.Errorf("AI provider initialization failed: %w", err)
	}
	logger.Info("AI provider ready", "provider", cfg.AIProvider)

	// Initialize GitHub client
	githubClient := github.New(github.Config{
		BaseURL: cfg.GitHubBaseURL,
		Token:   cfg.GitHubToken,
	}, logger)

	// Initialize services
	userService := service.NewUserService(db, queries, logger)
	quotaService := service.NewQuotaService(queries, logger)
	insightService := service.NewInsightService(quotaService, provider, queries, logger)

	// Initialize middleware
	isSecure := cfg.Env != "development"
	authMw := middleware.NewAuthMiddleware(userService, logger, isSecure)
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure)
	metricsAuthMw := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
	authLimiter := middleware.NewAuthRateLimiter(logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService, logger, isSecure)
	profileHandler := handler.NewProfileHandler(userService, logger)
	usageHandler := handler.NewUsageHandler(quotaService, logger)
	insightHandler := handler.NewInsightHandler(insightService, logger)
	githubHandler := handler.NewGitHubHandler(githubClient, logger)
	trackedHandler := handler.NewTrackedIssueHandler(queries, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics (optionally behind basic auth)
	mux.Handle("GET /metrics", metricsAuthMw.Handler(promhttp.Handler()))

	// Auth routes (public, rate limited per IP)
	authHandler.RegisterRoutes(mux, authLimiter)

	// Protected routes
	requireUser := middleware.Stack(authMw.WithUser, authMw.RequireUser)
	profileHandler.RegisterRoutes(mux, requireUser)
	usageHandler.RegisterRoutes(mux, requireUser)
	insightHandler.RegisterRoutes(mux, requireUser)
	githubHandler.RegisterRoutes(mux, requireUser)
	trackedHandler.RegisterRoutes(mux, requireUser)

	// Outer middleware applied to everything
	root := middleware.Stack(
		securityMw.Handler,
		metrics.Middleware,
		loggingMw.Handler,
	)(mux)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: root,
	}

	// Expired sessions are cleaned up in the background.
	go sessionCleanupLoop(ctx, userService, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

// newAIProvider selects the configured AI provider implementation.
func newAIProvider(cfg *internal.Config, logger *slog.Logger) (ai.Provider, error) {
	switch cfg.AIProvider {
	case "mock":
		return mock.New(logger), nil
	default:
		return openai.New(openai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			ProviderConfig: ai.ProviderConfig{
				RequestTimeout: cfg.AIRequestTimeout,
			},
		}, logger)
	}
}

// sessionCleanupLoop deletes expired sessions once an hour.
func sessionCleanupLoop(ctx context.Context, userService service.UserService, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := userService.DeleteExpiredSessions(ctx); err != nil {
				logger.Error("session cleanup failed", "error", err)
			}
		}
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
