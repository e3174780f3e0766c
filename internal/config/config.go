package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/sphuta/tmsmail/internal/schedule"
	"github.com/sphuta/tmsmail/pkg/logger"
	"github.com/sphuta/tmsmail/pkg/mailer"
	"github.com/sphuta/tmsmail/pkg/mailer/resend"
	"github.com/sphuta/tmsmail/pkg/mailer/smtp"
	"github.com/sphuta/tmsmail/pkg/redis"
)

// ErrInvalid is returned when the loaded configuration cannot run the service.
var ErrInvalid = errors.New("config: invalid")

// HTTP holds listener settings.
type HTTP struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Dispatch holds pipeline timeouts.
type Dispatch struct {
	RenderTimeout  time.Duration `env:"DISPATCH_RENDER_TIMEOUT" envDefault:"10s"`
	DeliverTimeout time.Duration `env:"DISPATCH_DELIVER_TIMEOUT" envDefault:"30s"`
}

// Config is the full service configuration.
type Config struct {
	HTTP     HTTP
	Dispatch Dispatch
	Log      logger.Config
	Mail     mailer.Config
	SMTP     smtp.Config
	Resend   resend.Config
	Schedule schedule.Config
	Redis    redis.Config
}

// Load reads an optional .env file and then parses the process environment.
// Variables already set in the environment win over the file.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field requirements that struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	switch c.Mail.Transport {
	case mailer.TransportLog:
	case mailer.TransportSMTP:
		if c.SMTP.Host == "" {
			errs = append(errs, errors.New("SMTP_HOST is required for the smtp transport"))
		}
		if c.SMTP.From == "" {
			errs = append(errs, errors.New("SMTP_FROM is required for the smtp transport"))
		}
	case mailer.TransportResend:
		if c.Resend.APIKey == "" {
			errs = append(errs, errors.New("RESEND_API_KEY is required for the resend transport"))
		}
		if c.Resend.From == "" {
			errs = append(errs, errors.New("RESEND_FROM_EMAIL is required for the resend transport"))
		}
	default:
		errs = append(errs, fmt.Errorf("MAIL_TRANSPORT %q is not one of smtp, resend, log", c.Mail.Transport))
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Schedule.Enabled {
		if _, err := c.Schedule.Location(); err != nil {
			errs = append(errs, fmt.Errorf("SCHEDULE_TIMEZONE: %w", err))
		}
	}
	if c.Dispatch.RenderTimeout <= 0 || c.Dispatch.DeliverTimeout <= 0 {
		errs = append(errs, errors.New("dispatch timeouts must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
