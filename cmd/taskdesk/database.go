package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/phrazzld/taskdesk/internal/config"
	"github.com/phrazzld/taskdesk/internal/redact"
	"github.com/sethvargo/go-retry"
)

// pingBackoffBase is the first wait between startup pings.
const pingBackoffBase = 500 * time.Millisecond

type pinger interface {
	PingContext(ctx context.Context) error
}

// setupAppDatabase opens the pool and waits for the database to answer.
func setupAppDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(max(cfg.MaxOpenConns/2, 1))
	db.SetConnMaxLifetime(5 * time.Minute)

	timeout := time.Duration(cfg.PingTimeoutSeconds) * time.Second
	if err := pingWithRetry(ctx, db, timeout, cfg.ConnectRetries, pingBackoffBase, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("database connection established")
	return db, nil
}

// pingWithRetry pings db with exponential backoff, giving up after retries
// additional attempts. Each attempt is bounded by timeout.
func pingWithRetry(
	ctx context.Context,
	db pinger,
	timeout time.Duration,
	retries uint64,
	base time.Duration,
	logger *slog.Logger,
) error {
	attempt := 0
	backoff := retry.WithMaxRetries(retries, retry.NewExponential(base))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := db.PingContext(pingCtx); err != nil {
			logger.Warn("database not reachable yet",
				slog.Int("attempt", attempt),
				redact.Attr("error", err))
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to ping database after %d attempts: %w", attempt, err)
	}
	return nil
}
