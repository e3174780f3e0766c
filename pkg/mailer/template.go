package mailer

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

var fence = []byte("---")

// Template is a markdown email template split into its frontmatter and body.
type Template struct {
	Metadata map[string]any
	Body     string
}

// Subject returns the subject line declared in the frontmatter, if any.
// Both "Subject" and "subject" keys are accepted.
func (t *Template) Subject() string {
	for _, key := range []string{"Subject", "subject"} {
		if s, ok := t.Metadata[key].(string); ok {
			return s
		}
	}
	return ""
}

// ParseTemplate splits raw template content into YAML frontmatter and markdown body.
// Content without a leading "---" fence is treated as body only.
func ParseTemplate(content []byte) (*Template, error) {
	if !bytes.HasPrefix(content, fence) {
		return &Template{Metadata: map[string]any{}, Body: string(content)}, nil
	}

	rest := bytes.TrimLeft(content[len(fence):], "\r\n")
	if len(rest) == 0 {
		return nil, fmt.Errorf("%w: no content after opening delimiter", ErrInvalidFrontmatter)
	}

	head, body, found := bytes.Cut(rest, fence)
	if !found {
		return nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
	}
	if after, ok := bytes.CutPrefix(body, []byte("\r\n")); ok {
		body = after
	} else {
		body = bytes.TrimPrefix(body, []byte("\n"))
	}

	metadata := map[string]any{}
	if len(bytes.TrimSpace(head)) > 0 {
		if err := yaml.Unmarshal(head, &metadata); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
		}
	}

	return &Template{Metadata: metadata, Body: string(body)}, nil
}
