// Package logsender provides a mailer.Sender that writes messages to a structured
// logger instead of delivering them. It is the default transport for local runs.
package logsender

import (
	"context"
	"log/slog"

	"github.com/sphuta/tmsmail/pkg/mailer"
)

// Sender logs every email it is asked to send.
type Sender struct {
	logger   *slog.Logger
	withBody bool
}

// Option configures a Sender.
type Option func(*Sender)

// WithBody includes the plain text body in the log record.
func WithBody() Option {
	return func(s *Sender) { s.withBody = true }
}

// New creates a log sender. A nil logger falls back to slog.Default().
func New(logger *slog.Logger, opts ...Option) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Sender{logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if err := mailer.Validate(email); err != nil {
		return err
	}

	attrs := []slog.Attr{
		slog.String("to", email.To),
		slog.String("subject", email.Subject),
		slog.Int("html_bytes", len(email.HTML)),
	}
	if len(email.Tags) > 0 {
		args := make([]any, 0, len(email.Tags))
		for k, v := range email.Tags {
			args = append(args, slog.String(k, v))
		}
		attrs = append(attrs, slog.Group("tags", args...))
	}
	if s.withBody {
		attrs = append(attrs, slog.String("text", email.Text))
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "email logged instead of sent", attrs...)
	return nil
}
