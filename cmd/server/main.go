package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EgehanKilicarslan/bookreview/internal/api"
	"github.com/EgehanKilicarslan/bookreview/internal/auth"
	"github.com/EgehanKilicarslan/bookreview/internal/config"
	"github.com/EgehanKilicarslan/bookreview/internal/database"
	"github.com/EgehanKilicarslan/bookreview/internal/database/repository"
	"github.com/EgehanKilicarslan/bookreview/internal/database/service"
	internalgrpc "github.com/EgehanKilicarslan/bookreview/internal/grpc"
	"github.com/EgehanKilicarslan/bookreview/internal/handler"
	"github.com/EgehanKilicarslan/bookreview/internal/logger"
	"github.com/EgehanKilicarslan/bookreview/internal/metrics"
	"github.com/EgehanKilicarslan/bookreview/internal/middleware"
	"github.com/EgehanKilicarslan/bookreview/internal/validation"
	"github.com/EgehanKilicarslan/bookreview/internal/worker"
)

func main() {
	// 1. Config
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Logger
	appLogger := logger.New(cfg)

	appLogger.Info("🚀 [Go] Starting Book Review API...",
		"environment", cfg.AppEnv,
		"api_prefix", cfg.APIPrefix(),
	)

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("❌ Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, appLogger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTimeout := time.Duration(cfg.ShutdownTimeout) * time.Second

	// 3. Connect to Database
	db, err := database.ConnectDatabase(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer database.Close(db)

	// 4. Redis side stores, degrading to no-ops
	var (
		bookCache    database.BookCache
		loginLimiter middleware.LoginLimiter
	)
	redisClient, err := database.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Warn("⚠️ Failed to connect to Redis", "error", err)
		appLogger.Info("💡 Book details will be read from Postgres and login attempts will not be limited")
		bookCache = database.NewNoOpBookCache(appLogger)
		loginLimiter = middleware.NewNoOpLoginLimiter(appLogger)
	} else {
		bookCache = redisClient
		loginLimiter = middleware.NewLoginLimiter(redisClient.Client(), cfg, appLogger)
	}
	defer bookCache.Close()

	// 5. Background workers
	pool := worker.NewPool(appLogger)
	defer pool.Shutdown(shutdownTimeout)

	appMetrics := metrics.New()

	// 6. Repositories
	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// 7. Services
	authService := service.NewAuthService(userRepo, auth.NewPasswordHasher(cfg), auth.NewTokenService(cfg), appLogger)
	bookService := service.NewBookService(bookRepo, reviewRepo, bookCache, appLogger)
	reviewService := service.NewReviewService(reviewRepo, bookRepo, bookCache, pool, appLogger)

	// 8. Handlers, middleware and router
	if err := validation.Register(); err != nil {
		return fmt.Errorf("validation: %w", err)
	}

	handlers := api.Handlers{
		Auth:   handler.NewAuthHandler(authService, loginLimiter, appMetrics, cfg, appLogger),
		Book:   handler.NewBookHandler(bookService, appLogger),
		Review: handler.NewReviewHandler(reviewService, appMetrics, appLogger),
	}
	authMiddleware := middleware.NewAuthMiddleware(authService, appMetrics, appLogger)
	router := api.SetupRouter(cfg, handlers, authMiddleware, appMetrics)

	// 9. gRPC health server
	healthServer := internalgrpc.NewHealthServer(appLogger)
	grpcServer := internalgrpc.NewServer(healthServer)

	grpcListener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.ApiGrpcPort))
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC: %w", err)
	}

	healthServer.StartReporter(pool, time.Duration(cfg.HealthCheckInterval)*time.Second, func(ctx context.Context) error {
		return database.Ping(ctx, db)
	})

	errCh := make(chan error, 2)

	go func() {
		appLogger.Info("🔌 [Go] gRPC Server running...", "port", cfg.ApiGrpcPort)
		if err := grpcServer.Serve(grpcListener); err != nil {
			errCh <- fmt.Errorf("gRPC server: %w", err)
		}
	}()

	// 10. HTTP server
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ApiServicePort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("🌍 [Go] HTTP Server running on port...", "port", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		appLogger.Info("🛑 [Go] Shutdown signal received")
	case runErr = <-errCh:
	}

	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("❌ HTTP Server shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()

	appLogger.Info("👋 [Go] Server stopped")
	return runErr
}
