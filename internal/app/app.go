// Package app wires a Hub from configuration: the on-device store, the
// backend selected by backend.kind and the matching auth provider.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/meltforce/kinetic/internal/auth"
	"github.com/meltforce/kinetic/internal/config"
	"github.com/meltforce/kinetic/internal/gateway"
	"github.com/meltforce/kinetic/internal/hosted"
	"github.com/meltforce/kinetic/internal/localstore"
	"github.com/meltforce/kinetic/internal/models"
	"github.com/meltforce/kinetic/internal/state"
	"github.com/meltforce/kinetic/internal/storage"
)

// App is a running Hub and the resources it holds open.
type App struct {
	Hub *state.Hub

	store localstore.Store
	db    *storage.DB
	log   *slog.Logger
}

// Options tweak Open.
type Options struct {
	// MigrationsPath is the directory golang-migrate reads for the
	// postgres backend. Empty skips migrations.
	MigrationsPath string
}

// Open builds the store, backend and auth provider for cfg and starts a Hub
// over them. Close releases everything Open acquired.
func Open(ctx context.Context, cfg *config.Config, opts Options, log *slog.Logger) (*App, error) {
	store, err := localstore.Open(localstore.Options{
		Driver:        cfg.Local.Driver,
		Dir:           cfg.Local.Dir,
		RedisAddr:     cfg.Local.RedisAddr,
		RedisPassword: cfg.Local.RedisPassword,
		RedisDB:       cfg.Local.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}
	log.Info("local store opened", "driver", cfg.Local.Driver)

	a := &App{store: store, log: log}

	var (
		backend gateway.Backend
		prov    auth.Provider
	)
	switch cfg.Backend.Kind {
	case config.BackendSupabase:
		c, err := hosted.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, cfg.Supabase.Schema)
		if err != nil {
			a.Close()
			return nil, err
		}
		backend = hosted.NewBackend(c)
		prov = hosted.NewAuth(c, cfg.Supabase.AnonKey)
	case config.BackendPostgres:
		dsn := cfg.Database.DSN()
		if opts.MigrationsPath != "" {
			if err := storage.RunMigrations(dsn, opts.MigrationsPath); err != nil {
				a.Close()
				return nil, fmt.Errorf("migrating: %w", err)
			}
			log.Info("migrations applied")
		}
		db, err := storage.New(ctx, dsn)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connecting database: %w", err)
		}
		a.db = db
		backend = db
		prov = devAuth(cfg)
	case config.BackendMemory:
		backend = gateway.NewMemory()
		prov = devAuth(cfg)
	default:
		a.Close()
		return nil, fmt.Errorf("unknown backend kind %q", cfg.Backend.Kind)
	}
	log.Info("backend ready", "kind", cfg.Backend.Kind)

	a.Hub = state.New(ctx, state.Options{
		Store:         store,
		Backend:       backend,
		Auth:          prov,
		TimerInterval: cfg.Timer.Interval,
		Log:           log,
	})
	return a, nil
}

func devAuth(cfg *config.Config) auth.Provider {
	id := cfg.DevUser.ID
	if id == "" {
		id = cfg.DevUser.Email
	}
	return auth.NewStatic(
		models.Identity{ID: id, Email: cfg.DevUser.Email},
		cfg.DevUser.Password,
		[]byte(cfg.DevUser.Secret),
	)
}

// Close stops the Hub, then closes the database and the local store.
func (a *App) Close() {
	if a.Hub != nil {
		a.Hub.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Error("closing local store", "error", err)
		}
	}
}
