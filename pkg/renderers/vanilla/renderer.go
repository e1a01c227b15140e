// Package vanilla renders a template as plain, dependency-free HTML. Field
// controls are built directly; the surrounding form chrome comes from an
// embedded template so integrators can restyle it without touching code.
package vanilla

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/peterkingsmesn/listingkit/pkg/form"
	"github.com/peterkingsmesn/listingkit/pkg/render"
	"github.com/peterkingsmesn/listingkit/pkg/render/template"
	"github.com/peterkingsmesn/listingkit/pkg/render/template/gotemplate"
	"github.com/peterkingsmesn/listingkit/pkg/schema"
)

const formTemplateName = "form"

// Renderer implements render.Renderer with HTML output.
type Renderer struct {
	templates template.TemplateRenderer
}

// Option customises the renderer.
type Option func(*Renderer)

// WithTemplateRenderer swaps the chrome template engine, e.g. to point at a
// themed template directory.
func WithTemplateRenderer(templates template.TemplateRenderer) Option {
	return func(r *Renderer) {
		r.templates = templates
	}
}

// New constructs the renderer with the embedded chrome templates.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.templates == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(TemplatesFS()))
		if err != nil {
			return nil, fmt.Errorf("vanilla: build template engine: %w", err)
		}
		r.templates = engine
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string { return "vanilla" }

// ContentType reports the output media type.
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render produces the full form markup: one fieldset per section (including
// the implicit "other" section), controls prefilled from options.Values and
// annotated with options.Errors.
func (r *Renderer) Render(ctx context.Context, tpl schema.Template, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if tpl.Kind == schema.KindImport {
		return nil, errors.New("vanilla: import templates carry no renderable fields")
	}

	sections := make([]map[string]any, 0, len(tpl.Sections)+1)
	for _, group := range tpl.Grouped() {
		var markup strings.Builder
		for i, field := range group.Fields {
			if i > 0 {
				markup.WriteByte('\n')
			}
			value, _ := form.Lookup(options.Values, field.Name)
			markup.WriteString(renderField(field, value, options.Errors[field.Name]))
		}
		sections = append(sections, map[string]any{
			"id":     group.Section.ID,
			"title":  group.Section.Title,
			"layout": group.Section.Layout,
			"markup": markup.String(),
		})
	}

	out, err := r.templates.RenderTemplate(formTemplateName, map[string]any{
		"template_id":      tpl.ID,
		"template_version": tpl.Version,
		"sections":         sections,
		"theme_css":        themeCSS(options),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla: render form %q: %w", tpl.ID, err)
	}
	return []byte(out), nil
}

// themeCSS flattens resolved go-theme CSS variables into a :root block.
func themeCSS(options render.RenderOptions) string {
	cfg := options.Theme
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(cfg.CSSVars))
	for key := range cfg.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(cfg.CSSVars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
