package schedule

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/sphuta/tmsmail/pkg/reminder"
)

// Rule kinds accepted in a rules file.
const (
	KindMonthEnd   = "month_end"
	KindWeekday    = "weekday"
	KindDayOfMonth = "day_of_month"
	KindDaily      = "daily"
)

var specParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

type rulesFile struct {
	Rules []ruleSpec `yaml:"rules"`
}

type ruleSpec struct {
	Payload map[string]any `yaml:"payload"`
	Name    string         `yaml:"name"`
	Kind    string         `yaml:"kind"`
	At      string         `yaml:"at"`
	Cron    string         `yaml:"cron"`
	To      string         `yaml:"to"`
	Weekday string         `yaml:"weekday"`
	Day     int            `yaml:"day"`
	Code    int            `yaml:"code"`
}

// LoadRulesFile reads rules from a YAML file on disk.
func LoadRulesFile(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrRulesFile, err)
	}
	defer f.Close()

	rules, err := LoadRules(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// LoadRules parses a YAML rules document:
//
//	rules:
//	  - name: week-end
//	    kind: weekday
//	    weekday: friday
//	    at: "17:00"
//	    code: 2
//	    to: team@example.com
//
// Every rule needs a unique name, a registered reminder code, a recipient and
// either "at" (HH:MM) or a five-field "cron" spec.
func LoadRules(r io.Reader) ([]Rule, error) {
	var doc rulesFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrRulesFile, err)
	}

	rules := make([]Rule, 0, len(doc.Rules))
	seen := make(map[string]bool, len(doc.Rules))
	for i, spec := range doc.Rules {
		rule, err := spec.rule()
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i+1, spec.Name, err)
		}
		if seen[rule.Name] {
			return nil, fmt.Errorf("rule %d: %w: duplicate name %q", i+1, ErrInvalidRule, rule.Name)
		}
		seen[rule.Name] = true
		rules = append(rules, rule)
	}
	return rules, nil
}

func (s ruleSpec) rule() (Rule, error) {
	if strings.TrimSpace(s.Name) == "" {
		return Rule{}, fmt.Errorf("%w: name is required", ErrInvalidRule)
	}
	if _, err := reminder.Resolve(s.Code); err != nil {
		return Rule{}, errors.Join(ErrInvalidRule, err)
	}
	if strings.TrimSpace(s.To) == "" {
		return Rule{}, fmt.Errorf("%w: recipient is required", ErrInvalidRule)
	}

	at, err := s.spec()
	if err != nil {
		return Rule{}, err
	}

	when, err := s.predicate()
	if err != nil {
		return Rule{}, err
	}

	return Rule{
		Name:      s.Name,
		At:        at,
		When:      when,
		Code:      s.Code,
		Recipient: strings.TrimSpace(s.To),
		Payload:   s.Payload,
	}, nil
}

func (s ruleSpec) spec() (string, error) {
	switch {
	case s.Cron != "" && s.At != "":
		return "", fmt.Errorf("%w: set either at or cron, not both", ErrInvalidRule)
	case s.Cron != "":
		if _, err := specParser.Parse(s.Cron); err != nil {
			return "", fmt.Errorf("%w: cron %q: %v", ErrInvalidRule, s.Cron, err)
		}
		return s.Cron, nil
	case s.At != "":
		t, err := time.Parse("15:04", s.At)
		if err != nil {
			return "", fmt.Errorf("%w: at %q must be HH:MM", ErrInvalidRule, s.At)
		}
		return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
	default:
		return "", fmt.Errorf("%w: at or cron is required", ErrInvalidRule)
	}
}

func (s ruleSpec) predicate() (Predicate, error) {
	switch s.Kind {
	case KindMonthEnd:
		return IsLastBusinessDayOfMonth, nil
	case KindWeekday:
		day, ok := weekdays[strings.ToLower(strings.TrimSpace(s.Weekday))]
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q", ErrInvalidRule, s.Weekday)
		}
		return OnWeekday(day), nil
	case KindDayOfMonth:
		if s.Day < 1 || s.Day > 31 {
			return nil, fmt.Errorf("%w: day %d out of range", ErrInvalidRule, s.Day)
		}
		return OnDayOfMonth(s.Day), nil
	case KindDaily, "":
		return Always, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidRule, s.Kind)
	}
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}
