// Command server runs the hydrolog backend.
//
// Configuration is layered: built-in defaults, then a YAML config file
// (-config flag, HYDROLOG_CONFIG, ./config.yaml, /etc/hydrolog/config.yaml),
// then HYDROLOG_* environment overrides. auth.secret_key is the only
// required setting.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/hydrolog/hydrolog/pkg/auth/credentials"
	"github.com/hydrolog/hydrolog/pkg/auth/token"
	"github.com/hydrolog/hydrolog/pkg/config"
	"github.com/hydrolog/hydrolog/pkg/storage"
	"github.com/hydrolog/hydrolog/pkg/storage/memory"
	"github.com/hydrolog/hydrolog/pkg/storage/postgres"
	"github.com/hydrolog/hydrolog/pkg/transport"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.Logging.Level)
	slog.SetDefault(logger)

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	creds := credentials.New(store)
	tokens := token.New(token.Config{
		Secret:   cfg.Auth.SecretKey,
		Lifetime: cfg.Auth.TokenLifetime(),
	}, store)

	handler := transport.NewHandler(store, creds, tokens)

	srv := transport.NewServer(handler, tokens,
		transport.WithAddr(":"+strconv.Itoa(cfg.Server.Port)),
		transport.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		transport.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		transport.WithMaxBodySize(cfg.Server.MaxBodySize),
		transport.WithMetrics(cfg.Observability.Metrics.Enabled, cfg.Observability.Metrics.Path),
		transport.WithLogger(logger),
	)

	logger.Info("hydrolog starting",
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Type,
		"token_lifetime", cfg.Auth.TokenLifetime(),
	)
	return srv.ListenAndServe()
}

// openStore constructs the configured storage backend.
func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Type {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return postgres.New(ctx, postgres.Config{
			DSN:             cfg.Storage.Postgres.DSN,
			MaxConns:        cfg.Storage.Postgres.MaxConns,
			MinConns:        cfg.Storage.Postgres.MinConns,
			MaxConnLifetime: cfg.Storage.Postgres.MaxConnLifetime,
			MigrateOnStart:  cfg.Storage.Postgres.MigrateOnStart,
		})
	default:
		slog.Warn("using in-memory storage, data will not survive restarts")
		return memory.New(), nil
	}
}

// newLogger builds the text logger at the configured level.
func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
