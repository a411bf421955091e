// Package app wires configuration, schemas, storage and the import service
// for the server and CLI entry points.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/config"
	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/core"
	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/store"
)

// ErrNoDatabase is returned when a database is required but DATABASE_URL is unset.
var ErrNoDatabase = errors.New("DATABASE_URL is not set")

// App is a wired import service. Pool and Store are nil in read-only mode.
type App struct {
	Service *core.Service
	Store   *store.Store
	Pool    *pgxpool.Pool
}

// Open builds an App from cfg. With requireDB unset and no DATABASE_URL the
// service is read-only: template and preview work, execute returns
// core.ErrReadOnly.
func Open(ctx context.Context, cfg *config.Config, requireDB bool) (*App, error) {
	registry, err := Registry(cfg.Import)
	if err != nil {
		return nil, err
	}

	a := &App{}
	if cfg.Database.URL == "" {
		if requireDB {
			return nil, ErrNoDatabase
		}
		slog.Warn("DATABASE_URL not set, running read-only")
		a.Service = core.NewService(registry, nil, nil, ServiceOptions(cfg.Import))
		return a, nil
	}

	poolCfg, err := PoolConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	a.Pool, err = store.Connect(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	a.Store, err = store.New(a.Pool, registry)
	if err != nil {
		a.Pool.Close()
		return nil, err
	}
	a.Service = core.NewService(registry, a.Store, a.Store, ServiceOptions(cfg.Import))
	return a, nil
}

// Close releases the database pool, if any.
func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
}

// Registry returns the built-in schemas with the optional alias overlay applied.
func Registry(cfg config.ImportConfig) (*core.Registry, error) {
	registry := core.DefaultRegistry()
	if cfg.SchemaFile == "" {
		return registry, nil
	}
	overlay, err := core.LoadSchemaOverlay(cfg.SchemaFile)
	if err != nil {
		return nil, err
	}
	if err := overlay.Apply(registry); err != nil {
		return nil, err
	}
	slog.Info("schema overlay applied", "file", cfg.SchemaFile)
	return registry, nil
}

// PoolConfig parses the database URL and applies pool sizing.
func PoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	return poolCfg, nil
}

// ServiceOptions maps import settings onto core.Options.
func ServiceOptions(cfg config.ImportConfig) core.Options {
	return core.Options{
		MaxFileSize:   cfg.MaxFileSize,
		MaxRows:       cfg.MaxRows,
		PreviewRows:   cfg.PreviewRows,
		MaxErrors:     cfg.MaxErrors,
		MaxConcurrent: cfg.MaxConcurrent,
		QueueTimeout:  cfg.QueueTimeout,
	}
}
