package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
)

// Renderer turns markdown templates with YAML frontmatter into HTML wrapped in a layout.
//
// Templates are addressed by a logical identifier such as
// "emails/employee/timesheet-reminder"; the renderer appends the configured
// extension and reads the file from its filesystem. The frontmatter Subject is
// itself a template, executed against the same data as the body, and handed to
// the layout as .Subject so the layout can embed it as a subject marker.
type Renderer struct {
	fs fs.FS
	md goldmark.Markdown

	// Parsed structure only, never rendered output.
	templateCache map[string]*cachedTemplate
	layoutCache   map[string]*template.Template

	templateDir   string
	layoutDir     string
	extension     string
	defaultLayout string

	mu sync.RWMutex
}

type cachedTemplate struct {
	metadata map[string]any
	body     *texttemplate.Template
	subject  *texttemplate.Template // nil when the frontmatter has no subject
}

// RendererConfig configures the renderer.
type RendererConfig struct {
	TemplateDir   string // Default: "."
	LayoutDir     string // Default: "layouts"
	Extension     string // Default: ".md"
	DefaultLayout string // Default: "base.html"
	ButtonClass   string // Default: "button"
}

// NewRenderer creates a new renderer with default config.
func NewRenderer(filesystem fs.FS) *Renderer {
	return NewRendererWithConfig(filesystem, RendererConfig{})
}

// NewRendererWithConfig creates a new renderer with custom config.
func NewRendererWithConfig(filesystem fs.FS, opts RendererConfig) *Renderer {
	if opts.TemplateDir == "" {
		opts.TemplateDir = "."
	}
	if opts.LayoutDir == "" {
		opts.LayoutDir = "layouts"
	}
	if opts.Extension == "" {
		opts.Extension = ".md"
	}
	if opts.DefaultLayout == "" {
		opts.DefaultLayout = "base.html"
	}

	return &Renderer{
		fs:            filesystem,
		templateDir:   opts.TemplateDir,
		layoutDir:     opts.LayoutDir,
		extension:     opts.Extension,
		defaultLayout: opts.DefaultLayout,
		md: goldmark.New(
			goldmark.WithExtensions(NewButtonExtension(opts.ButtonClass)),
		),
		templateCache: make(map[string]*cachedTemplate),
		layoutCache:   make(map[string]*template.Template),
	}
}

// RenderResult contains the rendered HTML, plain text, subject and metadata.
type RenderResult struct {
	Metadata map[string]any
	Subject  string
	HTML     string
	Text     string // processed markdown, before HTML conversion
}

// Render renders the template identified by templateID with the default layout.
// It satisfies the rendering contract used by the dispatch pipeline.
func (r *Renderer) Render(ctx context.Context, templateID string, vars map[string]string) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := r.RenderLayout(r.defaultLayout, templateID, vars)
	if err != nil {
		return nil, err
	}
	return &Content{HTML: res.HTML, Text: res.Text}, nil
}

// RenderLayout renders the template identified by templateID inside the named layout.
func (r *Renderer) RenderLayout(layout, templateID string, data any) (*RenderResult, error) {
	cached, err := r.getTemplate(templateID)
	if err != nil {
		return nil, err
	}

	var processed bytes.Buffer
	if err := cached.body.Execute(&processed, data); err != nil {
		return nil, fmt.Errorf("%w: %s: failed to execute template: %v", ErrRenderFailed, templateID, err)
	}

	var subject string
	if cached.subject != nil {
		var buf bytes.Buffer
		if err := cached.subject.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("%w: %s: failed to execute subject: %v", ErrRenderFailed, templateID, err)
		}
		subject = buf.String()
	}

	var body bytes.Buffer
	if err := r.md.Convert(processed.Bytes(), &body); err != nil {
		return nil, fmt.Errorf("%w: %s: failed to convert markdown: %v", ErrRenderFailed, templateID, err)
	}

	layoutTmpl, err := r.getLayout(layout)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	err = layoutTmpl.Execute(&out, map[string]any{
		"Content":  template.HTML(body.String()),
		"Subject":  subject,
		"Metadata": cached.metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: failed to execute layout: %v", ErrRenderFailed, layout, err)
	}

	return &RenderResult{
		Metadata: cached.metadata,
		Subject:  subject,
		HTML:     out.String(),
		Text:     processed.String(),
	}, nil
}

// Preload parses the default layout and the given templates so that missing or
// malformed files surface at startup instead of on the first dispatch.
func (r *Renderer) Preload(templateIDs ...string) error {
	if _, err := r.getLayout(r.defaultLayout); err != nil {
		return err
	}
	for _, id := range templateIDs {
		if _, err := r.getTemplate(id); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) getTemplate(id string) (*cachedTemplate, error) {
	r.mu.RLock()
	if cached, ok := r.templateCache[id]; ok {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.templateCache[id]; ok {
		return cached, nil
	}

	content, err := fs.ReadFile(r.fs, path.Join(r.templateDir, id+r.extension))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, id, err)
	}

	parsed, err := ParseTemplate(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, id, err)
	}

	body, err := texttemplate.New(id).Parse(parsed.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: failed to parse template body: %v", ErrRenderFailed, id, err)
	}

	cached := &cachedTemplate{metadata: parsed.Metadata, body: body}
	if s := parsed.Subject(); s != "" {
		cached.subject, err = texttemplate.New(id + ":subject").Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: failed to parse subject: %v", ErrRenderFailed, id, err)
		}
	}

	r.templateCache[id] = cached
	return cached, nil
}

func (r *Renderer) getLayout(name string) (*template.Template, error) {
	r.mu.RLock()
	if cached, ok := r.layoutCache[name]; ok {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.layoutCache[name]; ok {
		return cached, nil
	}

	content, err := fs.ReadFile(r.fs, path.Join(r.layoutDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayoutNotFound, name, err)
	}

	layoutTmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: failed to parse layout: %v", ErrRenderFailed, name, err)
	}

	r.layoutCache[name] = layoutTmpl
	return layoutTmpl, nil
}
