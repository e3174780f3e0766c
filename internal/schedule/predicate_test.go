package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sphuta/tmsmail/internal/schedule"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func TestLastBusinessDay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		year  int
		month time.Month
		want  int
	}{
		{name: "ends on sunday", year: 2025, month: time.August, want: 29},
		{name: "ends on saturday", year: 2025, month: time.May, want: 30},
		{name: "ends on friday", year: 2025, month: time.January, want: 31},
		{name: "leap february on thursday", year: 2024, month: time.February, want: 29},
		{name: "november ending saturday", year: 2024, month: time.November, want: 29},
		{name: "march ending sunday", year: 2024, month: time.March, want: 29},
		{name: "december rolls year", year: 2025, month: time.December, want: 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := schedule.LastBusinessDay(tt.year, tt.month, time.UTC)
			assert.Equal(t, tt.year, got.Year())
			assert.Equal(t, tt.month, got.Month())
			assert.Equal(t, tt.want, got.Day())
			assert.NotEqual(t, time.Saturday, got.Weekday())
			assert.NotEqual(t, time.Sunday, got.Weekday())
		})
	}
}

func TestIsLastBusinessDayOfMonth(t *testing.T) {
	t.Parallel()

	assert.True(t, schedule.IsLastBusinessDayOfMonth(date(2025, time.August, 29)))
	assert.False(t, schedule.IsLastBusinessDayOfMonth(date(2025, time.August, 31)))
	assert.False(t, schedule.IsLastBusinessDayOfMonth(date(2025, time.August, 30)))

	assert.True(t, schedule.IsLastBusinessDayOfMonth(date(2025, time.May, 30)))
	assert.False(t, schedule.IsLastBusinessDayOfMonth(date(2025, time.May, 31)))

	assert.True(t, schedule.IsLastBusinessDayOfMonth(date(2025, time.January, 31)))
	assert.False(t, schedule.IsLastBusinessDayOfMonth(date(2025, time.January, 30)))
}

func TestIsLastBusinessDayOfMonth_FiresOncePerMonth(t *testing.T) {
	t.Parallel()

	for m := time.January; m <= time.December; m++ {
		hits := 0
		for d := date(2025, m, 1); d.Month() == m; d = d.AddDate(0, 0, 1) {
			if schedule.IsLastBusinessDayOfMonth(d) {
				hits++
			}
		}
		assert.Equal(t, 1, hits, m.String())
	}
}

func TestOnWeekday(t *testing.T) {
	t.Parallel()

	friday := schedule.OnWeekday(time.Friday)
	assert.True(t, friday(date(2024, time.January, 19)))
	assert.False(t, friday(date(2024, time.January, 18)))
}

func TestOnDayOfMonth(t *testing.T) {
	t.Parallel()

	mid := schedule.OnDayOfMonth(15)
	assert.True(t, mid(date(2025, time.January, 15)))
	assert.False(t, mid(date(2025, time.January, 14)))
	assert.True(t, schedule.Always(date(2025, time.January, 14)))
}
