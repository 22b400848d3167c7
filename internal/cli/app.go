package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/hearth/internal/config"
	"github.com/roach88/hearth/internal/cqltable"
	"github.com/roach88/hearth/internal/entity"
	"github.com/roach88/hearth/internal/household"
	"github.com/roach88/hearth/internal/kv"
	"github.com/roach88/hearth/internal/sqltable"
	"github.com/roach88/hearth/internal/store"
)

// StorageWarning is shown once per run when a local write fails.
const StorageWarning = "Speicher voll! Änderungen konnten nicht gespeichert werden."

// App is one opened household: config, backends, bound collections and
// the controller on top.
type App struct {
	Config      *config.Config
	Factory     *store.Factory
	Collections *household.Collections
	Controller  *household.Controller
	Registry    *prometheus.Registry

	// SQL is set when the remote driver is sqlite.
	SQL *sqltable.DB

	closers []func() error
}

// openApp loads the config named by opts and wires every layer. A remote
// store that cannot be reached is logged and left out, so every kind binds
// locally for this run.
func openApp(ctx context.Context, opts *RootOptions, warn io.Writer) (*App, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err).WithCode(CodeConfig)
	}

	app := &App{Config: cfg, Registry: prometheus.NewRegistry()}
	ok := false
	defer func() {
		if !ok {
			app.Close()
		}
	}()

	local, err := openLocal(ctx, cfg.Local)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open local store", err).WithCode(CodeStorage)
	}
	app.closers = append(app.closers, local.Close)

	remote, err := app.openRemote(ctx, cfg.Remote)
	if err != nil {
		slog.Error("remote store unavailable, using local storage", "driver", cfg.Remote.Driver, "error", err)
	}

	notifier := store.NewOnceNotifier(store.NotifierFunc(func(kind entity.Kind, err error) {
		fmt.Fprintln(warn, StorageWarning)
	}))
	app.Factory, err = store.NewFactory(store.FactoryConfig{
		Local:  local,
		Remote: remote,
		Tables: cfg.TableMap(),
	},
		store.WithLogger(slog.Default()),
		store.WithMetrics(store.NewMetrics(app.Registry)),
		store.WithNotifier(notifier),
	)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to create store factory", err).WithCode(CodeConfig)
	}

	app.Collections, err = household.BindCollections(ctx, app.Factory, time.Now())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to bind collections", err).WithCode(CodeStorage)
	}
	app.Controller = household.NewController(app.Collections,
		household.WithLogger(slog.Default()),
		household.WithPersistContext(context.WithoutCancel(ctx)),
	)
	ok = true
	return app, nil
}

func openLocal(ctx context.Context, cfg config.LocalConfig) (kv.Store, error) {
	switch cfg.Backend {
	case config.BackendFile:
		slog.Debug("opening local store", "backend", cfg.Backend, "dir", cfg.Dir)
		return kv.NewFileStore(cfg.Dir)
	case config.BackendRedis:
		slog.Debug("opening local store", "backend", cfg.Backend, "addr", cfg.Addr)
		return kv.NewRedisStore(ctx, cfg.Addr, cfg.Password, cfg.DB, cfg.Prefix)
	case config.BackendMemory:
		return kv.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown local backend %q", cfg.Backend)
	}
}

// openRemote connects the configured remote driver. It returns a nil
// opener when no remote is configured.
func (a *App) openRemote(ctx context.Context, cfg config.RemoteConfig) (store.TableOpener, error) {
	switch cfg.Driver {
	case config.DriverNone:
		return nil, nil
	case config.DriverSQLite:
		slog.Debug("opening remote store", "driver", cfg.Driver, "dsn", cfg.DSN)
		db, err := sqltable.Open(cfg.DSN)
		if err != nil {
			return nil, err
		}
		a.SQL = db
		a.closers = append(a.closers, db.Close)
		return store.TableOpenerFunc(func(ctx context.Context, name string, info entity.KindInfo) (store.Table, error) {
			t, err := db.OpenTable(ctx, name, info)
			if err != nil {
				return nil, err
			}
			return t, nil
		}), nil
	case config.DriverCassandra:
		slog.Debug("opening remote store", "driver", cfg.Driver, "hosts", cfg.Hosts, "keyspace", cfg.Keyspace)
		cluster, err := cqltable.Connect(cqltable.Options{
			Hosts:          cfg.Hosts,
			Keyspace:       cfg.Keyspace,
			Consistency:    cfg.Consistency,
			ConnectTimeout: cfg.ConnectTimeout,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, cluster.Close)
		return store.TableOpenerFunc(func(ctx context.Context, name string, info entity.KindInfo) (store.Table, error) {
			t, err := cluster.OpenTable(ctx, name, info)
			if err != nil {
				return nil, err
			}
			return t, nil
		}), nil
	default:
		return nil, fmt.Errorf("unknown remote driver %q", cfg.Driver)
	}
}

// Close waits for in-flight writes, then closes backends in reverse order.
func (a *App) Close() error {
	if a.Controller != nil {
		a.Controller.Wait()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Error("error closing store", "error", err)
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// withApp opens the app for one command and closes it afterwards.
func withApp(ctx context.Context, opts *RootOptions, warn io.Writer, fn func(app *App) error) error {
	app, err := openApp(ctx, opts, warn)
	if err != nil {
		return err
	}
	defer func() {
		app.Close()
		if opts.Metrics {
			if err := writeMetrics(warn, app.Registry); err != nil {
				slog.Error("failed to write metrics", "error", err)
			}
		}
	}()
	return fn(app)
}
