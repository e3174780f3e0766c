package schedule_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sphuta/tmsmail/internal/dispatch"
	"github.com/sphuta/tmsmail/internal/schedule"
	"github.com/sphuta/tmsmail/pkg/reminder"
)

type call struct {
	payload reminder.Payload
	code    int
}

type fakeDispatcher struct {
	fail  map[int]error
	block chan struct{}
	calls []call
	mu    sync.Mutex
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, code int, raw reminder.Payload) (*dispatch.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{code: code, payload: raw})
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.fail[code]; err != nil {
		return nil, err
	}
	if code == 99 {
		panic("boom")
	}
	return &dispatch.Result{ID: uuid.New(), Outcome: dispatch.Delivered}, nil
}

func (f *fakeDispatcher) codes() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.code
	}
	sort.Ints(out)
	return out
}

func defaultConfig() schedule.Config {
	return schedule.Config{
		MonthEndTo: "accounts@example.com",
		WeekEndTo:  "team@example.com",
		MidMonthTo: "hr@example.com",
	}
}

func newScheduler(t *testing.T, d schedule.Dispatcher, rules []schedule.Rule) *schedule.Scheduler {
	t.Helper()

	s, err := schedule.New(d, rules, schedule.WithLocation(time.UTC))
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})
	return s
}

func at(y int, m time.Month, d, hour, minute int) time.Time {
	return time.Date(y, m, d, hour, minute, 0, 0, time.UTC)
}

func TestScheduler_Evaluate_DefaultRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		now   time.Time
		fired []string
		codes []int
	}{
		{name: "month end on friday before sunday", now: at(2025, time.August, 29, 10, 0), fired: []string{"month-end"}, codes: []int{1}},
		{name: "friday evening", now: at(2025, time.August, 29, 17, 0), fired: []string{"week-end"}, codes: []int{2}},
		{name: "mid month morning", now: at(2025, time.January, 15, 10, 0), fired: []string{"mid-month"}, codes: []int{3}},
		{name: "mid month friday evening", now: at(2025, time.August, 15, 17, 0), fired: []string{"week-end"}, codes: []int{2}},
		{name: "month end and mid month never overlap", now: at(2025, time.January, 31, 10, 0), fired: []string{"month-end"}, codes: []int{1}},
		{name: "calendar end on sunday does not fire", now: at(2025, time.August, 31, 10, 0)},
		{name: "wrong minute", now: at(2025, time.August, 29, 10, 1)},
		{name: "thursday evening", now: at(2025, time.August, 28, 17, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := &fakeDispatcher{}
			s := newScheduler(t, d, schedule.DefaultRules(defaultConfig()))

			fired := s.Evaluate(context.Background(), tt.now)
			s.Wait()

			assert.Equal(t, tt.fired, fired)
			if tt.codes == nil {
				assert.Empty(t, d.codes())
			} else {
				assert.Equal(t, tt.codes, d.codes())
			}
		})
	}
}

func TestScheduler_SyntheticPayload(t *testing.T) {
	t.Parallel()

	d := &fakeDispatcher{}
	s := newScheduler(t, d, schedule.DefaultRules(defaultConfig()))

	s.Evaluate(context.Background(), at(2025, time.May, 30, 10, 0))
	s.Wait()

	require.Len(t, d.calls, 1)
	assert.Equal(t, 1, d.calls[0].code)
	assert.Equal(t, reminder.Payload{
		"to":           "accounts@example.com",
		"name":         "Team Member",
		"message":      "Automated Reminder from Scheduler",
		"employeeName": "Team Member",
		"weekDate":     "2025-05-30",
	}, d.calls[0].payload)
}

func TestScheduler_RulePayloadOverrides(t *testing.T) {
	t.Parallel()

	d := &fakeDispatcher{}
	s := newScheduler(t, d, []schedule.Rule{{
		Name:      "nightly",
		At:        "5 23 * * *",
		When:      schedule.Always,
		Code:      8,
		Recipient: "hr@example.com",
		Payload:   reminder.Payload{"hrContactName": "Dana", "employeeName": "Bob"},
	}})

	s.Evaluate(context.Background(), at(2025, time.March, 3, 23, 5))
	s.Wait()

	require.Len(t, d.calls, 1)
	assert.Equal(t, "Dana", d.calls[0].payload["hrContactName"])
	assert.Equal(t, "Bob", d.calls[0].payload["employeeName"])
	assert.Equal(t, "hr@example.com", d.calls[0].payload["to"])
}

func TestScheduler_GuardPreventsDoubleFire(t *testing.T) {
	t.Parallel()

	d := &fakeDispatcher{}
	s := newScheduler(t, d, schedule.DefaultRules(defaultConfig()))

	now := at(2025, time.August, 29, 10, 0)
	assert.Equal(t, []string{"month-end"}, s.Evaluate(context.Background(), now))
	assert.Empty(t, s.Evaluate(context.Background(), now))
	s.Wait()

	assert.Equal(t, []int{1}, d.codes())
}

func TestScheduler_RepeatedFiringsSameDay(t *testing.T) {
	t.Parallel()

	d := &fakeDispatcher{}
	rules := []schedule.Rule{
		{Name: "twice", At: "0 9,17 * * *", When: schedule.Always, Code: 1, Recipient: "team@example.com"},
	}
	s := newScheduler(t, d, rules)

	assert.Equal(t, []string{"twice"}, s.Evaluate(context.Background(), at(2025, time.March, 3, 9, 0)))
	assert.Empty(t, s.Evaluate(context.Background(), at(2025, time.March, 3, 9, 0)), "same minute is claimed once")
	assert.Equal(t, []string{"twice"}, s.Evaluate(context.Background(), at(2025, time.March, 3, 17, 0)))
	s.Wait()

	assert.Equal(t, []int{1, 1}, d.codes())
}

type brokenGuard struct{}

func (brokenGuard) Claim(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}

func TestScheduler_GuardErrorFailsOpen(t *testing.T) {
	t.Parallel()

	d := &fakeDispatcher{}
	s, err := schedule.New(d, schedule.DefaultRules(defaultConfig()),
		schedule.WithLocation(time.UTC),
		schedule.WithGuard(brokenGuard{}),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"mid-month"}, s.Evaluate(context.Background(), at(2025, time.January, 15, 10, 0)))
	s.Wait()
	assert.Equal(t, []int{3}, d.codes())
}

func TestScheduler_RuleIsolation(t *testing.T) {
	t.Parallel()

	d := &fakeDispatcher{fail: map[int]error{1: errors.New("smtp down")}}
	rules := []schedule.Rule{
		{Name: "failing", At: "0 10 * * *", When: schedule.Always, Code: 1, Recipient: "a@x.com"},
		{Name: "panicking", At: "0 10 * * *", When: schedule.Always, Code: 99, Recipient: "b@x.com"},
		{Name: "healthy", At: "0 10 * * *", When: schedule.Always, Code: 2, Recipient: "c@x.com"},
	}
	s := newScheduler(t, d, rules)

	fired := s.Evaluate(context.Background(), at(2025, time.March, 3, 10, 0))
	s.Wait()

	assert.Equal(t, []string{"failing", "panicking", "healthy"}, fired)
	assert.Equal(t, []int{1, 2, 99}, d.codes())
}

func TestScheduler_SlowDispatchDoesNotBlockEvaluation(t *testing.T) {
	t.Parallel()

	d := &fakeDispatcher{block: make(chan struct{})}
	s := newScheduler(t, d, schedule.DefaultRules(defaultConfig()))

	done := make(chan []string, 1)
	go func() {
		done <- s.Evaluate(context.Background(), at(2025, time.August, 29, 10, 0))
	}()

	select {
	case fired := <-done:
		assert.Equal(t, []string{"month-end"}, fired)
	case <-time.After(time.Second):
		t.Fatal("evaluate blocked on a running dispatch")
	}
	close(d.block)
	s.Wait()
}

func TestScheduler_RunNow(t *testing.T) {
	t.Parallel()

	d := &fakeDispatcher{}
	s := newScheduler(t, d, schedule.DefaultRules(defaultConfig()))

	require.NoError(t, s.RunNow("mid-month"))
	require.NoError(t, s.RunNow("mid-month"), "manual runs bypass the guard")
	s.Wait()
	assert.Equal(t, []int{3, 3}, d.codes())

	require.ErrorIs(t, s.RunNow("nope"), schedule.ErrUnknownRule)
}

func TestScheduler_StopCancelsStuckDispatch(t *testing.T) {
	t.Parallel()

	d := &fakeDispatcher{block: make(chan struct{})}
	s, err := schedule.New(d, schedule.DefaultRules(defaultConfig()), schedule.WithLocation(time.UTC))
	require.NoError(t, err)
	s.Start()

	require.NoError(t, s.RunNow("week-end"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, s.Stop(ctx), context.DeadlineExceeded)

	s.Wait()
	assert.Equal(t, []int{2}, d.codes())
}

func TestNew_InvalidRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rules []schedule.Rule
	}{
		{name: "bad spec", rules: []schedule.Rule{{Name: "x", At: "whenever", When: schedule.Always, Code: 1}}},
		{name: "no predicate", rules: []schedule.Rule{{Name: "x", At: "0 10 * * *", Code: 1}}},
		{name: "no name", rules: []schedule.Rule{{At: "0 10 * * *", When: schedule.Always, Code: 1}}},
		{name: "duplicate", rules: []schedule.Rule{
			{Name: "x", At: "0 10 * * *", When: schedule.Always, Code: 1},
			{Name: "x", At: "0 11 * * *", When: schedule.Always, Code: 2},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := schedule.New(&fakeDispatcher{}, tt.rules)
			require.ErrorIs(t, err, schedule.ErrInvalidRule)
		})
	}
}

func TestScheduler_Rules(t *testing.T) {
	t.Parallel()

	s := newScheduler(t, &fakeDispatcher{}, schedule.DefaultRules(defaultConfig()))

	names := make([]string, 0, 3)
	for _, r := range s.Rules() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"month-end", "week-end", "mid-month"}, names)
}
