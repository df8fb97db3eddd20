// Package main is the entry point of the student roster console.
//
// Start-up order: configuration, logging, roster store, audit sinks, then the
// interactive console. The roster is saved when the console exits or the
// process is interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alem-hub/roster/config"
	"github.com/alem-hub/roster/internal/application/persistence"
	"github.com/alem-hub/roster/internal/domain/shared"
	"github.com/alem-hub/roster/internal/domain/student"
	"github.com/alem-hub/roster/internal/infrastructure/audit"
	"github.com/alem-hub/roster/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/roster/internal/infrastructure/persistence/redis"
	"github.com/alem-hub/roster/internal/infrastructure/persistence/sqlite"
	"github.com/alem-hub/roster/internal/interface/cli"
	"github.com/alem-hub/roster/pkg/circuitbreaker"
	"github.com/alem-hub/roster/pkg/logger"
	"github.com/alem-hub/roster/pkg/retry"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─────────────────────────────────────────────────────────────────────────
	// 1. Configuration and logging
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	baseLog, closeLog, err := logger.OpenFile(cfg.Observability.LogFile, logger.ParseLevel(cfg.Observability.LogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		return 1
	}
	defer closeLog()

	log := baseLog.With(
		logger.String("app", cfg.App.Name),
		logger.String("version", cfg.App.Version),
		logger.String("env", string(cfg.App.Environment)),
	)
	log.Info("starting", logger.String("storage", cfg.Storage.Driver))

	// ─────────────────────────────────────────────────────────────────────────
	// 2. Roster store
	// ─────────────────────────────────────────────────────────────────────────
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open roster store", logger.Err(err))
		fmt.Fprintf(os.Stderr, "failed to open roster store: %s\n", shared.Message(err))
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("failed to close roster store", logger.Err(err))
		}
	}()

	roster := persistence.LoadRoster(ctx, store, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. Audit sinks
	// ─────────────────────────────────────────────────────────────────────────
	sessionID := audit.NewSessionID()
	log = log.With(logger.SessionID(sessionID))

	trail := audit.NewFanout(log)
	trail.Add("log", audit.NewLogSink(log))

	if cfg.Redis.Enabled {
		stream, closeStream := openAuditStream(ctx, cfg, sessionID, log)
		if stream != nil {
			trail.Add("redis", stream)
			defer closeStream()
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. Console
	// ─────────────────────────────────────────────────────────────────────────
	auth, err := cli.NewAuthenticator(cfg.Auth.AdminUsername, cfg.Auth.AdminPasswordHash, cfg.Auth.AdminPassword, cfg.Auth.MaxAttempts)
	if err != nil {
		log.Error("invalid admin credentials", logger.Err(err))
		fmt.Fprintf(os.Stderr, "invalid admin credentials: %v\n", err)
		return 1
	}

	out, color := cli.Stdout(cfg.UI.Color)
	app := cli.NewApp(cli.Config{
		In:     os.Stdin,
		Out:    out,
		Color:  color,
		Roster: roster,
		Store:  store,
		Audit:  trail,
		Auth:   auth,
		OpenSession: func(username string) (cli.Session, error) {
			sess, err := audit.OpenSessionLog(cfg.Audit.SessionsDir, sessionID, username, nil)
			if err != nil {
				return nil, err
			}
			return sess, nil
		},
		Log: log,
	})

	// An interrupt performs the same save as choosing Exit.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		sig := <-sigCh
		log.Info("interrupted, saving", logger.String("signal", sig.String()))
		cancel()
		_ = app.Shutdown(context.Background())
		_ = store.Close()
		_ = closeLog()
		os.Exit(0)
	}()

	err = app.Run(ctx)
	switch {
	case errors.Is(err, shared.ErrUnauthorized):
		log.Warn("console closed after failed login")
	case err != nil:
		log.Error("console stopped", logger.Err(err))
		return 1
	default:
		log.Info("console closed")
	}
	return 0
}

// openStore opens the configured roster store and applies its migrations.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (student.Store, error) {
	if !cfg.UsesPostgres() {
		store, err := sqlite.Open(ctx, cfg.Storage.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	pgCfg := postgres.DefaultConfig()
	pgCfg.URL = cfg.Storage.PostgresURL
	pgCfg.MaxConns = cfg.Storage.MaxConns
	pgCfg.ConnectTimeout = cfg.Storage.ConnectTimeout

	retrier := retry.ConnectRetrier(cfg.Storage.ConnectAttempts, func(attempt int, err error, delay time.Duration) {
		log.Warn("database connection failed, retrying",
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.Err(err),
		)
	})
	conn, err := retry.DoWithData(ctx, retrier, func(ctx context.Context) (*postgres.Connection, error) {
		return postgres.NewConnection(ctx, pgCfg)
	})
	if err != nil {
		return nil, shared.WrapIOError("storage", "Open", "failed to connect to database", err)
	}

	migrator := postgres.NewMigrator(conn)
	if err := migrator.Migrate(ctx); err != nil {
		conn.Close()
		return nil, shared.WrapIOError("storage", "Open", "failed to run migrations", err)
	}
	if status, err := migrator.Status(ctx); err == nil {
		applied := 0
		for _, m := range status {
			if m.IsApplied {
				applied++
			}
		}
		log.Info("migrations completed", logger.Int("applied", applied), logger.Int("total", len(status)))
	}

	return postgres.NewRosterRepository(conn, cfg.Storage.QueryTimeout), nil
}

// openAuditStream connects the remote audit stream. It returns nil when
// Redis is unreachable; the console then runs with local audit only.
func openAuditStream(ctx context.Context, cfg *config.Config, sessionID string, log *logger.Logger) (*audit.Guarded, func()) {
	rcfg := redis.DefaultConfig()
	rcfg.Host = cfg.Redis.Host
	rcfg.Port = cfg.Redis.Port
	rcfg.Password = cfg.Redis.Password
	rcfg.DB = cfg.Redis.DB
	rcfg.PoolSize = cfg.Redis.PoolSize
	rcfg.DialTimeout = cfg.Redis.DialTimeout
	rcfg.ReadTimeout = cfg.Redis.ReadTimeout
	rcfg.WriteTimeout = cfg.Redis.WriteTimeout

	cache, err := redis.NewCache(ctx, rcfg)
	if err != nil {
		log.Warn("redis unavailable, remote audit disabled", logger.String("addr", rcfg.Addr()), logger.Err(err))
		return nil, func() {}
	}

	stream := redis.NewAuditStream(cache, sessionID, cfg.Redis.AuditTTL, nil)
	breaker := circuitbreaker.AuditSinkBreaker("redis-audit", cfg.Audit.BreakerThreshold, cfg.Audit.BreakerTimeout,
		func(name string, from, to circuitbreaker.State) {
			log.Warn("audit sink state changed",
				logger.String("sink", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		})

	log.Info("remote audit enabled", logger.String("key", stream.Key()))
	return audit.NewGuarded(stream, breaker), func() {
		if err := stream.Close(); err != nil {
			log.Warn("failed to close redis", logger.Err(err))
		}
	}
}
