// Package orchestrator wires templates, renderers, and theming into one
// entry point: resolve a template, seed it with values, and hand it to the
// requested renderer.
package orchestrator

import (
	"context"
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/peterkingsmesn/listingkit/pkg/render"
	"github.com/peterkingsmesn/listingkit/pkg/renderers/vanilla"
	"github.com/peterkingsmesn/listingkit/pkg/schema"
)

const defaultRendererName = "vanilla"

// ThemeResolver resolves a theme/variant pair into renderer configuration.
// go-theme providers satisfy this through a small adapter at the call site.
type ThemeResolver interface {
	Resolve(themeName, variant string) (*theme.RendererConfig, error)
}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithTemplates registers templates at construction time, replacing any
// earlier registration under the same id. Templates must already be loaded
// (and therefore integrity-checked).
func WithTemplates(templates ...schema.Template) Option {
	return func(o *Orchestrator) {
		for _, tpl := range templates {
			o.templates.Put(tpl.ID, tpl)
		}
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithThemeResolver registers a resolver so requests carrying a theme name
// reach renderers with resolved tokens and CSS variables.
func WithThemeResolver(resolver ThemeResolver) Option {
	return func(o *Orchestrator) {
		o.themes = resolver
	}
}

// Orchestrator resolves templates and renderers for generation requests.
type Orchestrator struct {
	templates       *render.Store[schema.Template]
	registry        *render.Registry
	defaultRenderer string
	themes          ThemeResolver
}

// New constructs an orchestrator. Without options it carries an empty
// template store and the vanilla renderer.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		templates:       render.NewStore[schema.Template]("orchestrator: template"),
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt != nil {
			opt(o)
		}
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		if html, err := vanilla.New(); err == nil {
			o.registry.MustRegister(html)
		}
	}
	return o
}

// Register adds a template after construction. Registering an id twice is an
// error; use WithTemplates to overwrite deliberately.
func (o *Orchestrator) Register(tpl schema.Template) error {
	return o.templates.Add(tpl.ID, tpl)
}

// Template looks a registered template up by id.
func (o *Orchestrator) Template(id string) (schema.Template, bool) {
	return o.templates.Lookup(id)
}

// Templates returns the registered template ids, sorted.
func (o *Orchestrator) Templates() []string {
	return o.templates.Names()
}

// Request describes one generation call.
type Request struct {
	// TemplateID selects a registered template.
	TemplateID string
	// Renderer names the renderer; empty means the configured default.
	Renderer string
	// Values seeds the rendered form on top of template defaults.
	Values map[string]any
	// Errors carries validation feedback for re-display.
	Errors map[string]string
	// Theme and Variant select styling when a theme resolver is configured.
	Theme   string
	Variant string
}

// Generate renders a registered template with the requested renderer.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tpl, ok := o.templates.Lookup(req.TemplateID)
	if !ok {
		return nil, fmt.Errorf("orchestrator: template %q not registered (available: %v)", req.TemplateID, o.Templates())
	}

	rendererName := req.Renderer
	if rendererName == "" {
		rendererName = o.defaultRenderer
	}
	renderer, err := o.registry.Get(rendererName)
	if err != nil {
		return nil, err
	}

	options := render.RenderOptions{
		Values: tpl.SeedValues(req.Values),
		Errors: req.Errors,
	}
	if o.themes != nil && req.Theme != "" {
		resolved, err := o.themes.Resolve(req.Theme, req.Variant)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: resolve theme %q: %w", req.Theme, err)
		}
		options.Theme = resolved
	}

	return renderer.Render(ctx, tpl, options)
}
