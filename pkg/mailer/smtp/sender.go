package smtp

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/sphuta/tmsmail/pkg/mailer"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Sender implements mailer.Sender over SMTP.
// Each Send opens its own connection, so a Sender is safe for concurrent use.
type Sender struct {
	dialer dialer
	config Config
}

// New creates a new SMTP sender.
func New(cfg Config) *Sender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.SSL
	return &Sender{dialer: d, config: cfg}
}

// Send implements mailer.Sender.
// gomail has no context support; when ctx ends first the dial is abandoned
// and Send returns the context error.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if err := mailer.Validate(email); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := s.message(email)
	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp: %w: %w", mailer.ErrSendFailed, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp: %w: %w", mailer.ErrSendFailed, ctx.Err())
	}
}

func (s *Sender) message(email *mailer.Email) *gomail.Message {
	from := email.From
	if from == "" {
		from = mailer.Address(s.config.FromName, s.config.From)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", email.To)
	if email.Subject != "" {
		m.SetHeader("Subject", email.Subject)
	}
	if email.ReplyTo != "" {
		m.SetHeader("Reply-To", email.ReplyTo)
	}
	for k, v := range email.Headers {
		m.SetHeader(k, v)
	}

	if email.Text != "" {
		m.SetBody("text/plain", email.Text)
		m.AddAlternative("text/html", email.HTML)
	} else {
		m.SetBody("text/html", email.HTML)
	}
	return m
}
