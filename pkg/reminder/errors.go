package reminder

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedCode is returned when a dispatch code is not registered.
	ErrUnsupportedCode = errors.New("unsupported reminder number")

	// ErrTemplateNotConfigured is returned when a reminder type has no template binding.
	// It indicates the binding table drifted from the type table.
	ErrTemplateNotConfigured = errors.New("template not configured for reminder type")

	// ErrInvalidPayload is the sentinel every ShapeError matches.
	ErrInvalidPayload = errors.New("invalid payload")
)

// ShapeError reports a payload that cannot be converted into a reminder message.
type ShapeError struct {
	Field  string
	Reason string
	Type   Type
}

func (e *ShapeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("failed to convert payload for type %s: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("failed to convert payload for type %s: field %q %s", e.Type, e.Field, e.Reason)
}

// Is makes ShapeError match ErrInvalidPayload.
func (e *ShapeError) Is(target error) bool {
	return target == ErrInvalidPayload
}
