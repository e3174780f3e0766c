package server

import (
	"context"
	"log/slog"
	"time"
)

const (
	defaultAddress           = ":8080"
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 60 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20
	defaultShutdownTimeout   = 30 * time.Second
)

// Hook is a lifecycle callback.
type Hook func(ctx context.Context) error

// Option configures Run.
type Option func(*config)

type config struct {
	address         string
	logger          *slog.Logger
	shutdownTimeout time.Duration
	startHooks      []Hook
	shutdownHooks   []Hook
}

// Address sets the HTTP listen address. Defaults to ":8080".
func Address(addr string) Option {
	return func(c *config) {
		if addr != "" {
			c.address = addr
		}
	}
}

// Logger sets the server logger.
func Logger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// ShutdownTimeout bounds the HTTP drain and all shutdown hooks together.
// Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.shutdownTimeout = d
		}
	}
}

// StartHook runs fn after the listener is open and before requests are served.
// A failing start hook aborts Run.
func StartHook(fn Hook) Option {
	return func(c *config) {
		if fn != nil {
			c.startHooks = append(c.startHooks, fn)
		}
	}
}

// ShutdownHook registers a cleanup function, called in registration order after
// the HTTP server has drained.
//
// Example:
//
//	server.ShutdownHook(scheduler.Stop)
func ShutdownHook(fn Hook) Option {
	return func(c *config) {
		if fn != nil {
			c.shutdownHooks = append(c.shutdownHooks, fn)
		}
	}
}
