package db

import (
	"context"
	"fmt"
	"fxsync/internal/config"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const (
	applicationName = "fxsync"
	pingAttempts    = 5
	pingBackoff     = time.Second
)

// CreatePoolAndPing opens the pool and pings it, retrying a few times until ctx is done.
func CreatePoolAndPing(ctx context.Context, cfg config.DbServer) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.GetConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("invalid db config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.RuntimeParams["application_name"] = applicationName

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		if err = pool.Ping(ctx); err == nil {
			return pool, nil
		}
		if attempt == pingAttempts {
			break
		}
		logrus.WithError(err).Warnf("db ping attempt %d/%d failed", attempt, pingAttempts)
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, fmt.Errorf("db ping aborted: %w", ctx.Err())
		case <-time.After(pingBackoff):
		}
	}
	pool.Close()
	return nil, fmt.Errorf("db ping failed after %d attempts: %w", pingAttempts, err)
}
