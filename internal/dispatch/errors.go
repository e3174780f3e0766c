package dispatch

import (
	"errors"
)

var (
	// ErrUnsupportedCode indicates the reminder code is not in the catalog.
	ErrUnsupportedCode = errors.New("unsupported reminder code")

	// ErrTemplateMissing indicates the catalog names a template the renderer cannot find.
	ErrTemplateMissing = errors.New("template missing")

	// ErrInvalidPayload indicates a required variable is missing from the payload.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrRenderFailure indicates the template was found but could not be rendered.
	ErrRenderFailure = errors.New("render failure")

	// ErrDeliveryFailure indicates the sender failed to hand the message off.
	ErrDeliveryFailure = errors.New("delivery failure")
)

// Kind classifies a failed dispatch.
type Kind int

const (
	// KindNone is the kind of a nil error.
	KindNone Kind = iota
	// KindUnsupportedCode matches ErrUnsupportedCode.
	KindUnsupportedCode
	// KindTemplateMissing matches ErrTemplateMissing.
	KindTemplateMissing
	// KindInvalidPayload matches ErrInvalidPayload.
	KindInvalidPayload
	// KindRenderFailure matches ErrRenderFailure.
	KindRenderFailure
	// KindDeliveryFailure matches ErrDeliveryFailure.
	KindDeliveryFailure
	// KindUnknown is any error that did not come from Dispatch.
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUnsupportedCode:
		return "unsupported_code"
	case KindTemplateMissing:
		return "template_missing"
	case KindInvalidPayload:
		return "invalid_payload"
	case KindRenderFailure:
		return "render_failure"
	case KindDeliveryFailure:
		return "delivery_failure"
	default:
		return "unknown"
	}
}

// Rejected reports whether the kind is a caller-side rejection rather than an
// infrastructure failure.
func (k Kind) Rejected() bool {
	return k == KindUnsupportedCode || k == KindTemplateMissing || k == KindInvalidPayload
}

func (k Kind) sentinel() error {
	switch k {
	case KindUnsupportedCode:
		return ErrUnsupportedCode
	case KindTemplateMissing:
		return ErrTemplateMissing
	case KindInvalidPayload:
		return ErrInvalidPayload
	case KindRenderFailure:
		return ErrRenderFailure
	case KindDeliveryFailure:
		return ErrDeliveryFailure
	default:
		return nil
	}
}

// Error is returned by Dispatch. Its message is the underlying cause verbatim;
// it matches the sentinel of its Kind with errors.Is.
type Error struct {
	Err  error
	Kind Kind
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

func fail(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the kind of a dispatch error: KindNone for nil, KindUnknown for
// errors not produced by Dispatch.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}
