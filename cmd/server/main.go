package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/portcullis-auth/portcullis/internal/api"
	"github.com/portcullis-auth/portcullis/internal/api/handler"
	"github.com/portcullis-auth/portcullis/internal/api/middleware"
	"github.com/portcullis-auth/portcullis/internal/auth"
	"github.com/portcullis-auth/portcullis/internal/config"
	"github.com/portcullis-auth/portcullis/internal/oauth"
	"github.com/portcullis-auth/portcullis/internal/storage"
	"github.com/portcullis-auth/portcullis/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	keys, err := token.LoadKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath)
	if err != nil {
		slog.Error("failed to load signing keys", "error", err)
		os.Exit(1)
	}

	if cfg.DBAdapter == "postgres" {
		if err := storage.ApplyMigrations(cfg.MigrationsDir, cfg.DatabaseURL); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "error", err, "adapter", cfg.DBAdapter)
		os.Exit(1)
	}
	defer store.Close()

	codec := token.NewCodec(keys, cfg.Issuer)
	authService := auth.NewService(store.Users, store.Apps, codec, cfg.UserTokenTTL, cfg.BcryptCost)
	oauthService := oauth.NewService(store.Apps, codec, cfg.AppTokenTTL)

	router := api.NewRouter(api.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		User:        handler.NewUserHandler(store.Users, authService),
		Application: handler.NewApplicationHandler(store.Apps),
		OAuth:       handler.NewOAuthHandler(oauthService),
		Health:      handler.NewHealthHandler(cfg.Version, store.Ping),
	}, authService, middleware.NewRateLimiter(cfg.RateLimitPerMinute))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting portcullis server", "port", cfg.Port, "version", cfg.Version, "adapter", cfg.DBAdapter)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
