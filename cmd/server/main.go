package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iudanet/brainrot/internal/server/config"
	"github.com/iudanet/brainrot/internal/server/generator"
	"github.com/iudanet/brainrot/internal/server/handlers"
	"github.com/iudanet/brainrot/internal/server/mail"
	"github.com/iudanet/brainrot/internal/server/middleware"
	"github.com/iudanet/brainrot/internal/server/storage"
	"github.com/iudanet/brainrot/internal/server/storage/postgres"
	"github.com/iudanet/brainrot/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// serverStorage объединяет все storage интерфейсы одного бэкенда
type serverStorage interface {
	storage.UserStorage
	storage.ClipStorage
	Close() error
}

func main() {
	// Show version and exit if requested
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" {
			printVersion()
			return
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Выбираем storage бэкенд по формату DATABASE_URI
	var store serverStorage
	if cfg.IsPostgres() {
		store, err = postgres.New(ctx, cfg.DatabaseURI)
	} else {
		store, err = sqlite.New(ctx, cfg.DatabaseURI)
	}
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", slog.Any("error", err))
		}
	}()

	jwtConfig := handlers.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.TokenTTL,
	}

	mailer := mail.NewClient(mail.DefaultBaseURL, cfg.ResendAPIKey, cfg.FromEmail)
	gen := generator.New(cfg.AIServiceURL, generator.DefaultTimeout)

	authHandler := handlers.NewAuthHandler(logger, store, mailer, jwtConfig, cfg.ResetURLBase)
	clipsHandler := handlers.NewClipsHandler(logger, store, gen)
	healthHandler := handlers.NewHealthHandler(logger, Version)

	authMW := middleware.AuthMiddleware(logger, jwtConfig)
	// Лимит на чувствительные auth эндпоинты: перебор паролей и спам
	// reset письмами
	rateMW := middleware.RateLimitMiddleware(10, time.Minute, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", healthHandler.Health)

	mux.Handle("POST /api/auth/signup", rateMW(http.HandlerFunc(authHandler.Signup)))
	// Часть фронтендов зовет этот же эндпоинт register
	mux.Handle("POST /api/auth/register", rateMW(http.HandlerFunc(authHandler.Signup)))
	mux.Handle("POST /api/auth/login", rateMW(http.HandlerFunc(authHandler.Login)))
	mux.Handle("POST /api/auth/forgot-password", rateMW(http.HandlerFunc(authHandler.ForgotPassword)))
	mux.Handle("POST /api/auth/reset-password/{token}", rateMW(http.HandlerFunc(authHandler.ResetPassword)))

	mux.Handle("GET /api/auth/verify", authMW(http.HandlerFunc(authHandler.Me)))
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PATCH /api/auth/user/username", authMW(http.HandlerFunc(authHandler.UpdateUsername)))
	mux.Handle("PATCH /api/auth/user/password", authMW(http.HandlerFunc(authHandler.UpdatePassword)))

	mux.HandleFunc("GET /api/clips", clipsHandler.ListAll)
	mux.Handle("GET /api/clips/my-clips", authMW(http.HandlerFunc(clipsHandler.ListMine)))
	mux.Handle("POST /api/clips/generate", authMW(http.HandlerFunc(clipsHandler.Generate)))

	handler := middleware.RecoveryMiddleware(logger)(
		middleware.LoggingMiddleware(logger)(
			middleware.CORSMiddleware(cfg.CORSOrigin)(mux)))

	srv := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		// WriteTimeout не задан: generate держит соединение до двух минут
	}

	errC := make(chan error, 1)
	go func() {
		logger.Info("brainrot backend starting",
			slog.String("address", cfg.RunAddress),
			slog.String("ai_service", cfg.AIServiceURL),
			slog.String("version", Version))
		errC <- srv.ListenAndServe()
	}()

	select {
	case err := <-errC:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	return nil
}

func printVersion() {
	fmt.Printf("Brainrot Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
