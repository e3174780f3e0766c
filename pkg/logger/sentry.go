package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	Release     string `env:"SENTRY_RELEASE"`
}

// NewFromConfig builds the service logger: JSON on stdout, plus Sentry when a DSN
// is configured. Error records become Sentry issues; warnings are kept as logs.
// A Sentry init failure is reported on stdout and logging continues without it.
func NewFromConfig(cfg Config, extractors ...ContextExtractor) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	stdout := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	if cfg.Sentry.DSN == "" {
		return slog.New(WithExtractors(stdout, extractors...)), nil
	}

	err = sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		Release:     cfg.Sentry.Release,
		EnableLogs:  true,
	})
	if err != nil {
		slog.New(stdout).Error("failed to initialize sentry", slog.String("error", err.Error()))
		return slog.New(WithExtractors(stdout, extractors...)), nil
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
	}.NewSentryHandler(context.Background())

	return slog.New(WithExtractors(fanout{stdout, sentryHandler}, extractors...)), nil
}

// FlushSentry returns a shutdown hook that waits for buffered Sentry events.
// It is a no-op when Sentry was never initialized.
func FlushSentry(timeout time.Duration) func(context.Context) error {
	return func(ctx context.Context) error {
		if sentry.CurrentHub().Client() == nil {
			return nil
		}
		if d, ok := ctx.Deadline(); ok && time.Until(d) < timeout {
			timeout = time.Until(d)
		}
		if !sentry.Flush(timeout) {
			return fmt.Errorf("logger: sentry flush timed out after %s", timeout)
		}
		return nil
	}
}
