package mailer

import "fmt"

// Tags are key-value labels attached to an outgoing email.
// Providers that do not support tags ignore them.
type Tags map[string]string

// Address formats a name and email into RFC 5322 address format.
// Returns "Name <email>" if name is provided, otherwise just email.
func Address(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Email represents a fully-prepared email message ready for sending.
type Email struct {
	Headers map[string]string // Custom headers
	Tags    Tags              // Provider-specific tags
	To      string            // Recipient address
	Subject string            // Empty means the message goes out without a subject
	HTML    string            // HTML body content
	Text    string            // Plain text alternative
	From    string            // Override default sender (if provider allows)
	ReplyTo string            // Reply-to address
}

// Validate reports whether the email carries the minimum a provider needs.
func Validate(e *Email) error {
	if e == nil || e.To == "" {
		return ErrNoRecipient
	}
	if e.HTML == "" {
		return ErrNoContent
	}
	return nil
}

// Content is a rendered message body before it is assembled into an Email.
// HTML may still contain the subject marker emitted by the layout.
type Content struct {
	HTML string
	Text string
}
