package resend

import (
	"context"
	"fmt"
	"sort"

	"github.com/resend/resend-go/v3"

	"github.com/sphuta/tmsmail/pkg/mailer"
)

// Sender implements mailer.Sender using the Resend API.
type Sender struct {
	client *resend.Client
	config Config
}

// New creates a new Resend sender. An unparsable BaseURL is ignored and the
// default endpoint is used.
func New(cfg Config) *Sender {
	client := resend.NewClient(cfg.APIKey)
	if u, err := cfg.baseURL(); err == nil && u != nil {
		client.BaseURL = u
	}
	return &Sender{client: client, config: cfg}
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if err := mailer.Validate(email); err != nil {
		return err
	}

	_, err := s.client.Emails.SendWithContext(ctx, s.request(email))
	if err != nil {
		return fmt.Errorf("resend: %w: %w", mailer.ErrSendFailed, err)
	}
	return nil
}

func (s *Sender) request(email *mailer.Email) *resend.SendEmailRequest {
	from := email.From
	if from == "" {
		from = mailer.Address(s.config.FromName, s.config.From)
	}

	return &resend.SendEmailRequest{
		From:    from,
		To:      []string{email.To},
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
		Headers: email.Headers,
		Tags:    convertTags(email.Tags),
	}
}

// convertTags maps tags to Resend's name-value pairs, sorted by name.
func convertTags(tags mailer.Tags) []resend.Tag {
	if len(tags) == 0 {
		return nil
	}
	result := make([]resend.Tag, 0, len(tags))
	for name, value := range tags {
		if value == "" {
			value = "true"
		}
		result = append(result, resend.Tag{Name: name, Value: value})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
