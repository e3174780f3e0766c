package schedule

import "errors"

var (
	// ErrUnknownRule is returned by RunNow for a name no rule carries.
	ErrUnknownRule = errors.New("schedule: unknown rule")

	// ErrInvalidRule indicates a rule with a missing field, a bad predicate or a duplicate name.
	ErrInvalidRule = errors.New("schedule: invalid rule")

	// ErrRulesFile indicates the rules file could not be read or parsed.
	ErrRulesFile = errors.New("schedule: failed to load rules file")
)
