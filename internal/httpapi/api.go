package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sphuta/tmsmail/internal/dispatch"
	"github.com/sphuta/tmsmail/internal/schedule"
	"github.com/sphuta/tmsmail/pkg/health"
	"github.com/sphuta/tmsmail/pkg/logger"
	"github.com/sphuta/tmsmail/pkg/reminder"
)

const maxBodyBytes = 1 << 20

// Dispatcher sends a reminder synchronously.
type Dispatcher interface {
	Dispatch(ctx context.Context, code int, raw reminder.Payload) (*dispatch.Result, error)
}

// RuleRunner exposes configured schedule rules for manual runs.
type RuleRunner interface {
	Rules() []schedule.Rule
	RunNow(name string) error
}

// HandlerFunc is a handler that reports failures by returning an error.
// The error is mapped to a status and a plain text body.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// API serves the reminder endpoints.
type API struct {
	dispatcher Dispatcher
	rules      RuleRunner
	checks     health.Checks
	logger     *slog.Logger
}

// Option configures an API.
type Option func(*API)

// WithLogger sets the API logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *API) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithRuleRunner enables the schedule endpoints.
func WithRuleRunner(r RuleRunner) Option {
	return func(a *API) { a.rules = r }
}

// WithReadinessCheck adds a named check to the readiness probe.
func WithReadinessCheck(name string, fn health.CheckFunc) Option {
	return func(a *API) { a.checks[name] = fn }
}

// New creates the API.
func New(d Dispatcher, opts ...Option) *API {
	a := &API{
		dispatcher: d,
		checks:     make(health.Checks),
		logger:     logger.NewNope(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Routes builds the router.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID, Recover(a.logger), AccessLog(a.logger))

	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler(a.checks, health.WithLogger(a.logger)))

	r.Route("/api", func(r chi.Router) {
		r.Post("/mail/send/{reminderNumber}", a.handle(a.sendReminder))
		r.Get("/mail/reminders", a.handle(a.listReminders))

		if a.rules != nil {
			r.Get("/schedule/rules", a.handle(a.listRules))
			r.Post("/schedule/rules/{name}/run", a.handle(a.runRule))
		}
	})

	return r
}

func (a *API) handle(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			status, msg := statusAndMessage(err)
			if status >= http.StatusInternalServerError {
				a.logger.ErrorContext(r.Context(), "request failed", slog.Int("status", status), slog.String("error", err.Error()))
			}
			writeText(w, status, msg)
		}
	}
}

func (a *API) sendReminder(w http.ResponseWriter, r *http.Request) error {
	code, err := strconv.Atoi(chi.URLParam(r, "reminderNumber"))
	if err != nil {
		return badRequest(errNotInteger)
	}

	payload, err := decodePayload(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return err
	}

	res, err := a.dispatcher.Dispatch(r.Context(), code, payload)
	if err != nil {
		return err
	}

	w.Header().Set("X-Dispatch-ID", res.ID.String())
	w.Header().Set("X-Dispatch-Outcome", res.Outcome.String())
	writeText(w, http.StatusOK, fmt.Sprintf("Triggered reminder %d", code))
	return nil
}

// decodePayload reads a JSON object body. A literal null yields a nil payload.
func decodePayload(body io.Reader) (reminder.Payload, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &Error{
				Status: http.StatusRequestEntityTooLarge,
				Err:    fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit),
			}
		}
		return nil, badRequest(err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, badRequest(errNoBody)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, badRequest(fmt.Errorf("malformed JSON: %w", err))
	}
	if dec.More() {
		return nil, badRequest(errors.New("malformed JSON: trailing data"))
	}

	switch p := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return p, nil
	default:
		return nil, badRequest(errNotObject)
	}
}

type reminderView struct {
	Type     string `json:"type"`
	Tier     string `json:"tier"`
	Name     string `json:"name"`
	Template string `json:"template"`
	Code     int    `json:"code"`
}

func (a *API) listReminders(w http.ResponseWriter, _ *http.Request) error {
	bindings := reminder.Bindings()
	out := make([]reminderView, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, reminderView{
			Code:     b.Type.Code(),
			Type:     b.Type.String(),
			Tier:     string(b.Type.Tier()),
			Name:     b.DisplayName,
			Template: b.TemplateID,
		})
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

type ruleView struct {
	Name      string `json:"name"`
	At        string `json:"at"`
	Recipient string `json:"to"`
	Code      int    `json:"code"`
}

func (a *API) listRules(w http.ResponseWriter, _ *http.Request) error {
	rules := a.rules.Rules()
	out := make([]ruleView, 0, len(rules))
	for _, r := range rules {
		out = append(out, ruleView{Name: r.Name, At: r.At, Code: r.Code, Recipient: r.Recipient})
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

func (a *API) runRule(w http.ResponseWriter, r *http.Request) error {
	name := chi.URLParam(r, "name")
	if err := a.rules.RunNow(name); err != nil {
		return err
	}
	a.logger.InfoContext(r.Context(), "schedule rule triggered manually", slog.String("rule", name))
	writeText(w, http.StatusAccepted, "Triggered rule "+name)
	return nil
}
