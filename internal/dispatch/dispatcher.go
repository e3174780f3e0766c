package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sphuta/tmsmail/pkg/logger"
	"github.com/sphuta/tmsmail/pkg/mailer"
	"github.com/sphuta/tmsmail/pkg/reminder"
)

// Renderer produces email content for a template identifier and its variables.
// A nil content with a nil error is treated as a broken renderer.
type Renderer interface {
	Render(ctx context.Context, templateID string, vars map[string]string) (*mailer.Content, error)
}

// Outcome is the terminal state of a successful dispatch.
type Outcome int

const (
	// Delivered means the sender accepted the message.
	Delivered Outcome = iota + 1
	// Skipped means the recipient was blank and nothing was sent.
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result describes a dispatch that was not rejected.
type Result struct {
	ID         uuid.UUID
	Type       reminder.Type
	TemplateID string
	Recipient  string
	Subject    string
	Outcome    Outcome
}

// Dispatcher runs the reminder pipeline: resolve the code, resolve the template,
// shape the payload, render, assemble and deliver.
// It holds no per-call state and is safe for concurrent use.
type Dispatcher struct {
	renderer       Renderer
	sender         mailer.Sender
	logger         *slog.Logger
	renderTimeout  time.Duration
	deliverTimeout time.Duration
}

// New creates a dispatcher.
func New(renderer Renderer, sender mailer.Sender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		renderer:       renderer,
		sender:         sender,
		logger:         logger.NewNope(),
		renderTimeout:  defaultRenderTimeout,
		deliverTimeout: defaultDeliverTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch sends reminder number code using the raw payload.
//
// Steps run strictly in order and the first failure aborts the rest: nothing is
// rendered for a rejected request and nothing is delivered after a render failure.
// A blank recipient ends the dispatch as Skipped without an error.
// Errors are *Error values; use KindOf or errors.Is with the package sentinels.
func (d *Dispatcher) Dispatch(ctx context.Context, code int, raw reminder.Payload) (*Result, error) {
	res := &Result{ID: uuid.New()}
	log := d.logger.With(slog.String("dispatch_id", res.ID.String()), slog.Int("code", code))

	typ, err := reminder.Resolve(code)
	if err != nil {
		return nil, d.reject(ctx, log, fail(KindUnsupportedCode, err))
	}
	res.Type = typ
	log = log.With(slog.String("type", typ.String()))

	templateID, err := reminder.TemplateFor(typ)
	if err != nil {
		return nil, d.reject(ctx, log, fail(KindTemplateMissing, err))
	}
	res.TemplateID = templateID
	log = log.With(slog.String("template", templateID))

	msg, err := reminder.Shape(typ, raw)
	if err != nil {
		return nil, d.reject(ctx, log, fail(KindInvalidPayload, err))
	}

	content, err := callWithTimeout(ctx, d.renderTimeout, func(ctx context.Context) (*mailer.Content, error) {
		return d.renderer.Render(ctx, templateID, msg.Vars())
	})
	if err != nil {
		return nil, d.reject(ctx, log, fail(KindRenderFailure, fmt.Errorf("render %s: %w", templateID, err)))
	}

	email, err := Assemble(msg, content)
	if err != nil {
		var de *Error
		if !errors.As(err, &de) {
			de = fail(KindRenderFailure, err)
		}
		return nil, d.reject(ctx, log, de)
	}
	email.Headers = map[string]string{"X-Dispatch-ID": res.ID.String()}
	res.Recipient = email.To
	res.Subject = email.Subject

	if email.To == "" {
		res.Outcome = Skipped
		log.WarnContext(ctx, "recipient missing, delivery skipped")
		return res, nil
	}

	_, err = callWithTimeout(ctx, d.deliverTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, d.sender.Send(ctx, email)
	})
	if err != nil {
		return nil, d.reject(ctx, log, fail(KindDeliveryFailure, fmt.Errorf("deliver to %s: %w", email.To, err)))
	}

	res.Outcome = Delivered
	log.InfoContext(ctx, "reminder delivered",
		slog.String("to", email.To),
		slog.Bool("has_subject", email.Subject != ""),
	)
	return res, nil
}

func (d *Dispatcher) reject(ctx context.Context, log *slog.Logger, err *Error) error {
	level := slog.LevelError
	if err.Kind.Rejected() {
		level = slog.LevelWarn
	}
	log.Log(ctx, level, "dispatch failed",
		slog.String("kind", err.Kind.String()),
		slog.String("error", err.Error()),
	)
	return err
}

// callWithTimeout runs fn under a deadline. A collaborator that ignores its context
// is abandoned when the deadline passes; a panic inside fn is returned as an error.
func callWithTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		v, err := fn(ctx)
		done <- result{val: v, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
