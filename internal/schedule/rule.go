package schedule

import (
	"maps"
	"time"

	"github.com/sphuta/tmsmail/pkg/reminder"
)

const (
	defaultMemberName = "Team Member"
	defaultMessage    = "Automated Reminder from Scheduler"
)

// Rule binds a cron tick and a calendar predicate to a reminder dispatch.
type Rule struct {
	When      Predicate
	Payload   reminder.Payload // extra fields merged over the synthesized payload
	Name      string
	At        string // five-field cron spec evaluated in the scheduler's time zone
	Recipient string
	Code      int
}

// payload synthesizes the dispatch payload for a firing on day.
func (r Rule) payload(day time.Time) reminder.Payload {
	p := reminder.Payload{
		"to":           r.Recipient,
		"name":         defaultMemberName,
		"message":      defaultMessage,
		"employeeName": defaultMemberName,
		"weekDate":     day.Format(time.DateOnly),
	}
	maps.Copy(p, r.Payload)
	return p
}

// DefaultRules returns the built-in calendar: month-end reminders on the last
// business day, week-end final reminders on Fridays and mid-month missed
// deadline notices on the 15th.
func DefaultRules(cfg Config) []Rule {
	return []Rule{
		{
			Name:      "month-end",
			At:        "0 10 * * *",
			When:      IsLastBusinessDayOfMonth,
			Code:      reminder.EmployeeReminder.Code(),
			Recipient: cfg.MonthEndTo,
		},
		{
			Name:      "week-end",
			At:        "0 17 * * *",
			When:      OnWeekday(time.Friday),
			Code:      reminder.EmployeeFinalReminder.Code(),
			Recipient: cfg.WeekEndTo,
		},
		{
			Name:      "mid-month",
			At:        "0 10 * * *",
			When:      OnDayOfMonth(15),
			Code:      reminder.EmployeeMissedDeadline.Code(),
			Recipient: cfg.MidMonthTo,
		},
	}
}
