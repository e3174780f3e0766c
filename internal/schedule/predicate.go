package schedule

import "time"

// Predicate decides whether a rule fires on the calendar day of t.
type Predicate func(t time.Time) bool

// LastBusinessDay returns the last weekday of the month. A month ending on a
// Saturday yields the day before, one ending on a Sunday the day two before.
func LastBusinessDay(year int, month time.Month, loc *time.Location) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
	switch last.Weekday() {
	case time.Saturday:
		return last.AddDate(0, 0, -1)
	case time.Sunday:
		return last.AddDate(0, 0, -2)
	default:
		return last
	}
}

// IsLastBusinessDayOfMonth reports whether t falls on the last business day of its month.
func IsLastBusinessDayOfMonth(t time.Time) bool {
	return t.Day() == LastBusinessDay(t.Year(), t.Month(), t.Location()).Day()
}

// OnWeekday fires on the given day of the week.
func OnWeekday(day time.Weekday) Predicate {
	return func(t time.Time) bool { return t.Weekday() == day }
}

// OnDayOfMonth fires on the given day of the month.
func OnDayOfMonth(day int) Predicate {
	return func(t time.Time) bool { return t.Day() == day }
}

// Always fires every day.
func Always(time.Time) bool { return true }
