package redis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sphuta/tmsmail/pkg/health"
	"github.com/sphuta/tmsmail/pkg/logger"
)

// Pinger is the subset of a client used for health checks.
type Pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// Connect opens a client for cfg and pings it, retrying with a linearly growing
// pause between attempts. Both redis:// and rediss:// URLs are accepted.
func Connect(ctx context.Context, cfg Config, log *slog.Logger) (*redis.Client, error) {
	if log == nil {
		log = logger.NewNope()
	}

	opts, err := parseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}

	attempts := max(cfg.ConnectAttempts, 1)
	var lastErr error
	for i := range attempts {
		client := redis.NewClient(opts)
		lastErr = client.Ping(ctx).Err()
		if lastErr == nil {
			log.InfoContext(ctx, "redis connected", slog.String("addr", opts.Addr), slog.Int("db", opts.DB))
			return client, nil
		}
		_ = client.Close()

		if i == attempts-1 {
			break
		}
		log.WarnContext(ctx, "redis ping failed, retrying",
			slog.Int("attempt", i+1),
			slog.String("error", lastErr.Error()),
		)
		if err := wait(ctx, time.Duration(i+1)*cfg.RetryInterval); err != nil {
			return nil, errors.Join(ErrConnectionFailed, err)
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrConnectionFailed, attempts, lastErr)
}

func parseURL(url string) (*redis.Options, error) {
	if url == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, ErrFailedToParseURL
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}
	return opts, nil
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Healthcheck returns a readiness check that pings client.
func Healthcheck(client Pinger) health.CheckFunc {
	return func(ctx context.Context) error {
		if client == nil {
			return ErrUnavailable
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrUnavailable, err)
		}
		return nil
	}
}

// Shutdown returns a shutdown hook that closes client.
func Shutdown(client io.Closer) func(context.Context) error {
	return func(context.Context) error {
		if err := client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			return fmt.Errorf("redis: close: %w", err)
		}
		return nil
	}
}
