package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	cacheadmin "github.com/huykn/cache-admin"
	"github.com/huykn/cache-admin/auth"
	"github.com/huykn/cache-admin/cache"
	"github.com/huykn/cache-admin/httpapi"
)

func runServe(configPath string) error {
	ctx, cancel := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM,
	)
	defer cancel()

	fc, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	slogger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel(fc.LogLevel),
	}))
	slog.SetDefault(slogger)
	logger := cache.NewSlogLogger(slogger)

	cfg := fc.systemConfig()
	cfg.Logger = logger
	cfg.OnError = func(err error) {
		slogger.Warn("background operation failed", "error", err)
	}

	sys, err := cacheadmin.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = sys.Close() }()

	authenticator := auth.NewBearerAuthenticator(auth.BearerConfig{
		SigningKey: []byte(fc.SigningKey),
	})

	handler := httpapi.NewHandler(sys.Service, logger)

	apiMux := http.NewServeMux()
	handler.Register(apiMux)

	rootMux := http.NewServeMux()
	handler.RegisterHealth(rootMux)
	rootMux.Handle("/cache-management/", httpapi.Authenticated(authenticator, logger, apiMux))

	server := &http.Server{
		Addr:              fc.Listen,
		Handler:           rootMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slogger.Info("listening", "addr", fc.Listen)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	slogger.Info("shut down")
	return nil
}

func slogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
