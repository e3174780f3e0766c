package dispatch

import (
	"errors"
	"strings"

	"github.com/sphuta/tmsmail/pkg/mailer"
	"github.com/sphuta/tmsmail/pkg/reminder"
)

var errNoContent = errors.New("renderer returned no content")

// Assemble turns a shaped message and its rendered content into an outgoing email.
//
// The subject is the message's own subject when set, else the first subject marker
// in the rendered HTML, else empty. Markers are always stripped from the body.
// The recipient is copied as is; a blank To is for the caller to treat as a skip.
func Assemble(msg reminder.Message, content *mailer.Content) (*mailer.Email, error) {
	if content == nil {
		return nil, fail(KindRenderFailure, errNoContent)
	}

	subject := msg.SubjectOverride()
	if subject == "" {
		subject, _ = mailer.ExtractSubject(content.HTML)
	}

	html := mailer.StripSubjectMarkers(content.HTML)
	text := strings.TrimSpace(content.Text)
	if text == "" {
		text = mailer.PlainText(html)
	}

	typ := msg.Type()
	return &mailer.Email{
		To:      strings.TrimSpace(msg.Recipient()),
		Subject: subject,
		HTML:    html,
		Text:    text,
		Tags: mailer.Tags{
			"reminder": typ.String(),
			"tier":     string(typ.Tier()),
		},
	}, nil
}
