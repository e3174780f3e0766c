package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sphuta/tmsmail/internal/dispatch"
	"github.com/sphuta/tmsmail/pkg/logger"
	"github.com/sphuta/tmsmail/pkg/reminder"
)

const (
	defaultGuardTTL = time.Hour

	// fireKeyLayout keys a claim by firing minute, so a rule may fire several
	// times a day while replicas still agree on each firing.
	fireKeyLayout = "2006-01-02T15:04"
)

// Dispatcher is the part of dispatch.Dispatcher the scheduler needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, code int, raw reminder.Payload) (*dispatch.Result, error)
}

// Scheduler fires rules on their cron ticks. Each firing runs in its own goroutine,
// so a slow or failing dispatch never delays another rule or the next tick.
type Scheduler struct {
	dispatcher Dispatcher
	guard      Guard
	logger     *slog.Logger
	loc        *time.Location
	now        func() time.Time
	cron       *cron.Cron
	rules      []scheduledRule
	byName     map[string]int
	guardTTL   time.Duration

	// base is the parent context of every dispatch; cancelled when Stop gives up waiting.
	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type scheduledRule struct {
	Rule
	schedule cron.Schedule
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the scheduler logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLocation sets the time zone rules are evaluated in. Default: time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithGuard sets the fire guard. Default: an in-memory guard.
func WithGuard(g Guard) Option {
	return func(s *Scheduler) {
		if g != nil {
			s.guard = g
		}
	}
}

// WithGuardTTL sets how long a claimed firing stays claimed. It only needs to
// outlast clock skew between replicas. Default: 1h.
func WithGuardTTL(ttl time.Duration) Option {
	return func(s *Scheduler) {
		if ttl > 0 {
			s.guardTTL = ttl
		}
	}
}

// WithClock overrides the clock used when a cron tick fires.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a scheduler for rules. Rule names must be unique and every At spec
// must parse as a five-field cron expression.
func New(d Dispatcher, rules []Rule, opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		dispatcher: d,
		guard:      NewMemoryGuard(),
		logger:     logger.NewNope(),
		loc:        time.Local,
		now:        time.Now,
		byName:     make(map[string]int, len(rules)),
		guardTTL:   defaultGuardTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.base, s.cancel = context.WithCancel(context.Background())

	s.cron = cron.New(
		cron.WithLocation(s.loc),
		cron.WithParser(specParser),
		cron.WithChain(cron.Recover(cronLogger{s.logger})),
		cron.WithLogger(cronLogger{s.logger}),
	)

	for _, r := range rules {
		if r.Name == "" || r.When == nil {
			return nil, fmt.Errorf("%w: rule %q needs a name and a predicate", ErrInvalidRule, r.Name)
		}
		if _, dup := s.byName[r.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidRule, r.Name)
		}
		sched, err := specParser.Parse(r.At)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %q: cron %q: %v", ErrInvalidRule, r.Name, r.At, err)
		}

		idx := len(s.rules)
		s.rules = append(s.rules, scheduledRule{Rule: r, schedule: sched})
		s.byName[r.Name] = idx
		s.cron.Schedule(sched, cron.FuncJob(func() {
			s.tick(s.base, idx, s.now())
		}))
	}

	return s, nil
}

// Rules returns the configured rules in registration order.
func (s *Scheduler) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	for i, r := range s.rules {
		out[i] = r.Rule
	}
	return out
}

// Start begins firing rules on their cron ticks.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", slog.Int("rules", len(s.rules)), slog.String("timezone", s.loc.String()))
}

// Stop halts the cron ticks and waits for in-flight dispatches. When ctx ends
// first the remaining dispatches are cancelled and ctx's error is returned.
func (s *Scheduler) Stop(ctx context.Context) error {
	cronDone := s.cron.Stop()

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		s.cancel()
		return fmt.Errorf("schedule: stop: %w", ctx.Err())
	}
}

// Evaluate fires every rule whose cron spec matches the minute of now and whose
// predicate holds for its day. It returns the names of the rules it started.
func (s *Scheduler) Evaluate(ctx context.Context, now time.Time) []string {
	now = now.In(s.loc).Truncate(time.Minute)

	var fired []string
	for i, r := range s.rules {
		if !r.schedule.Next(now.Add(-time.Second)).Equal(now) {
			continue
		}
		if s.tick(ctx, i, now) {
			fired = append(fired, r.Name)
		}
	}
	return fired
}

// RunNow fires the named rule immediately, skipping its predicate and the guard.
func (s *Scheduler) RunNow(name string) error {
	idx, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRule, name)
	}
	s.fire(s.base, s.rules[idx].Rule, s.now().In(s.loc))
	return nil
}

// Wait blocks until every dispatch started so far has finished.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// tick evaluates one rule for now and starts its dispatch when due.
func (s *Scheduler) tick(ctx context.Context, idx int, now time.Time) bool {
	r := s.rules[idx].Rule
	now = now.In(s.loc)
	log := s.logger.With(slog.String("rule", r.Name))

	if !r.When(now) {
		log.DebugContext(ctx, "rule not due today", slog.String("date", now.Format(time.DateOnly)))
		return false
	}

	key := r.Name + ":" + now.Format(fireKeyLayout)
	claimed, err := s.guard.Claim(ctx, key, s.guardTTL)
	if err != nil {
		log.WarnContext(ctx, "fire guard unavailable, firing anyway", slog.String("error", err.Error()))
		claimed = true
	}
	if !claimed {
		log.InfoContext(ctx, "rule already fired", slog.String("key", key))
		return false
	}

	s.fire(ctx, r, now)
	return true
}

// fire dispatches r in its own goroutine. Failures and panics are logged, never returned.
func (s *Scheduler) fire(ctx context.Context, r Rule, now time.Time) {
	ctx = context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log := s.logger.With(slog.String("rule", r.Name), slog.Int("code", r.Code))
		defer func() {
			if rec := recover(); rec != nil {
				log.ErrorContext(ctx, "scheduled dispatch panicked",
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()

		dctx, cancel := mergeCancel(ctx, s.base)
		defer cancel()

		res, err := s.dispatcher.Dispatch(dctx, r.Code, r.payload(now))
		if err != nil {
			log.ErrorContext(ctx, "scheduled dispatch failed",
				slog.String("kind", dispatch.KindOf(err).String()),
				slog.String("error", err.Error()),
			)
			return
		}
		log.InfoContext(ctx, "scheduled dispatch finished",
			slog.String("dispatch_id", res.ID.String()),
			slog.String("outcome", res.Outcome.String()),
		)
	}()
}

// mergeCancel returns ctx's values with a cancellation tied to base.
func mergeCancel(ctx, base context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(base, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append(keysAndValues, slog.String("error", err.Error()))...)
}
