package schedule

import "time"

// Config holds scheduler configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Enabled    bool          `env:"SCHEDULE_ENABLED" envDefault:"true"`
	Timezone   string        `env:"SCHEDULE_TIMEZONE" envDefault:"Local"`
	RulesFile  string        `env:"SCHEDULE_RULES_FILE"`
	MonthEndTo string        `env:"SCHEDULE_MONTH_END_TO" envDefault:"accounts@example.com"`
	WeekEndTo  string        `env:"SCHEDULE_WEEK_END_TO" envDefault:"team@example.com"`
	MidMonthTo string        `env:"SCHEDULE_MID_MONTH_TO" envDefault:"hr@example.com"`
	GuardTTL   time.Duration `env:"SCHEDULE_GUARD_TTL" envDefault:"1h"`
}

// Location resolves the configured time zone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
