package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/app"
	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/config"
	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/logging"
	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/web"
)

func main() {
	// Overload lets .env win over inherited variables.
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx := context.Background()
	a, err := app.Open(ctx, cfg, false)
	if err != nil {
		slog.Error("failed to start import service", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if a.Store != nil && cfg.Database.AutoMigrate {
		if err := a.Store.EnsureSchema(ctx); err != nil {
			slog.Error("failed to apply database schema", "error", err)
			os.Exit(1)
		}
		slog.Info("database schema ready")
	}

	slog.Info("import types registered", "types", a.Service.ImportTypes())

	server := web.NewServer(a.Service, cfg)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if active := a.Service.Limiter().Status().Active; active > 0 {
			slog.Info("waiting for imports to complete", "active", active)
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("shutdown did not complete cleanly", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
