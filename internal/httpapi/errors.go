package httpapi

import (
	"errors"
	"net/http"

	"github.com/sphuta/tmsmail/internal/dispatch"
	"github.com/sphuta/tmsmail/internal/schedule"
)

// Error is an HTTP error with a status code and a client-facing message prefix.
type Error struct {
	Err    error
	Status int
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

func badRequest(err error) *Error {
	return &Error{Status: http.StatusBadRequest, Err: err}
}

var (
	errNotInteger = errors.New("reminder number must be an integer")
	errNoBody     = errors.New("request body is required")
	errNotObject  = errors.New("request body must be a JSON object")
)

// statusAndMessage maps an error to the response status and body.
func statusAndMessage(err error) (int, string) {
	var he *Error
	if errors.As(err, &he) {
		return he.Status, prefix(he.Status) + he.Err.Error()
	}

	if errors.Is(err, schedule.ErrUnknownRule) {
		return http.StatusNotFound, "Not found: " + err.Error()
	}

	switch kind := dispatch.KindOf(err); {
	case kind.Rejected():
		return http.StatusBadRequest, "Invalid request: " + err.Error()
	case kind == dispatch.KindRenderFailure, kind == dispatch.KindDeliveryFailure:
		return http.StatusInternalServerError, "Failed to send email: " + err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error: " + err.Error()
	}
}

func prefix(status int) string {
	switch {
	case status == http.StatusNotFound:
		return "Not found: "
	case status >= 400 && status < 500:
		return "Invalid request: "
	default:
		return "Internal server error: "
	}
}
