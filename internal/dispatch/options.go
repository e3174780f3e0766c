package dispatch

import (
	"log/slog"
	"time"
)

const (
	defaultRenderTimeout  = 10 * time.Second
	defaultDeliverTimeout = 30 * time.Second
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithRenderTimeout bounds each render call. Non-positive values keep the default.
func WithRenderTimeout(t time.Duration) Option {
	return func(d *Dispatcher) {
		if t > 0 {
			d.renderTimeout = t
		}
	}
}

// WithDeliverTimeout bounds each delivery call. Non-positive values keep the default.
func WithDeliverTimeout(t time.Duration) Option {
	return func(d *Dispatcher) {
		if t > 0 {
			d.deliverTimeout = t
		}
	}
}
