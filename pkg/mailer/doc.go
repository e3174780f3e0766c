// Package mailer renders markdown email templates and hands finished messages to a
// pluggable delivery provider.
//
// # Architecture
//
//   - Sender: interface that delivery providers implement (see the smtp, resend
//     and logsender subpackages)
//   - Renderer: converts markdown templates with YAML frontmatter to HTML inside a layout
//   - ExtractSubject / StripSubjectMarkers: read and remove the subject marker a
//     layout embeds in rendered HTML
//
// # Templates
//
// Templates are markdown files with optional YAML frontmatter, addressed by a
// logical identifier without extension:
//
//	---
//	Subject: Timesheet reminder for {{.weekDate}}
//	---
//
//	Hi {{.employeeName}},
//
//	[!button|Open timesheet]({{.timesheetLink}})
//
// The Subject value is a Go template executed with the same data as the body.
// Layouts receive .Content, .Subject and .Metadata. A layout that wants the
// subject to travel with the body embeds it as a marker:
//
//	<head>{{with .Subject}}<meta name="subject" content="{{.}}">{{end}}</head>
//
// # Usage
//
//	renderer := mailer.NewRendererWithConfig(templates.FS, mailer.RendererConfig{
//		DefaultLayout: "base.html",
//	})
//
//	content, err := renderer.Render(ctx, "emails/employee/timesheet-reminder", vars)
//	if err != nil {
//		return err
//	}
//	subject, _ := mailer.ExtractSubject(content.HTML)
//
//	err = sender.Send(ctx, &mailer.Email{
//		To:      "john@example.com",
//		Subject: subject,
//		HTML:    mailer.StripSubjectMarkers(content.HTML),
//		Text:    content.Text,
//	})
//
// # Errors
//
//   - ErrNoRecipient: no recipient specified
//   - ErrNoContent: no HTML content provided
//   - ErrTemplateNotFound: template file not found
//   - ErrLayoutNotFound: layout file not found
//   - ErrRenderFailed: template rendering failed
//   - ErrSendFailed: email sending failed
//   - ErrInvalidFrontmatter: invalid YAML frontmatter
package mailer
