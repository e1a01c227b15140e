package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"

	"github.com/peterkingsmesn/listingkit/pkg/render"
	"github.com/peterkingsmesn/listingkit/pkg/schema"
)

// captureRenderer records the template and options it was handed.
type captureRenderer struct {
	name    string
	tpl     schema.Template
	options render.RenderOptions
}

func (c *captureRenderer) Name() string        { return c.name }
func (c *captureRenderer) ContentType() string { return "text/plain" }

func (c *captureRenderer) Render(_ context.Context, tpl schema.Template, options render.RenderOptions) ([]byte, error) {
	c.tpl = tpl
	c.options = options
	return []byte(c.name + ":" + tpl.ID), nil
}

type staticThemeResolver struct {
	cfg *theme.RendererConfig
	err error
}

func (s staticThemeResolver) Resolve(string, string) (*theme.RendererConfig, error) {
	return s.cfg, s.err
}

func testTemplate(t *testing.T) schema.Template {
	t.Helper()
	tpl := schema.Template{
		ID:      "condo",
		Version: 1,
		Fields: []schema.FieldSchema{
			{Name: "title", Type: schema.FieldTypeText, Required: true},
			{Name: "furnishing", Type: schema.FieldTypeSelect, Options: []schema.Option{
				{Value: "bare", Label: "Bare"},
				{Value: "full", Label: "Full"},
			}},
		},
		Defaults: map[string]any{"furnishing": "bare"},
	}
	if err := schema.Finalize(&tpl); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return tpl
}

func newTestOrchestrator(t *testing.T, renderer *captureRenderer, extra ...Option) *Orchestrator {
	t.Helper()
	registry := render.NewRegistry()
	registry.MustRegister(renderer)
	options := append([]Option{
		WithTemplates(testTemplate(t)),
		WithRegistry(registry),
		WithDefaultRenderer(renderer.Name()),
	}, extra...)
	return New(options...)
}

func TestGenerate(t *testing.T) {
	renderer := &captureRenderer{name: "capture"}
	o := newTestOrchestrator(t, renderer)

	out, err := o.Generate(context.Background(), Request{
		TemplateID: "condo",
		Values:     map[string]any{"title": "Cozy 2BR"},
		Errors:     map[string]string{"title": "too short"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(out) != "capture:condo" {
		t.Fatalf("output = %q", out)
	}
	if renderer.tpl.ID != "condo" {
		t.Fatalf("renderer saw template %q", renderer.tpl.ID)
	}

	// Request values overlay the template defaults.
	wantValues := map[string]any{"title": "Cozy 2BR", "furnishing": "bare"}
	if diff := cmp.Diff(wantValues, renderer.options.Values); diff != "" {
		t.Fatalf("seeded values mismatch (-want +got):\n%s", diff)
	}
	if renderer.options.Errors["title"] != "too short" {
		t.Fatalf("errors not passed through: %v", renderer.options.Errors)
	}
}

func TestGenerate_UnknownTemplate(t *testing.T) {
	o := newTestOrchestrator(t, &captureRenderer{name: "capture"})

	_, err := o.Generate(context.Background(), Request{TemplateID: "ghost"})
	if err == nil {
		t.Fatal("expected error for unknown template")
	}
	// The error lists what is registered so operators can self-serve.
	if !strings.Contains(err.Error(), "condo") {
		t.Fatalf("error does not list available templates: %v", err)
	}
}

func TestGenerate_UnknownRenderer(t *testing.T) {
	o := newTestOrchestrator(t, &captureRenderer{name: "capture"})

	_, err := o.Generate(context.Background(), Request{TemplateID: "condo", Renderer: "hologram"})
	if err == nil || !strings.Contains(err.Error(), "hologram") {
		t.Fatalf("expected renderer lookup failure, got %v", err)
	}
}

func TestGenerate_ThemeResolution(t *testing.T) {
	renderer := &captureRenderer{name: "capture"}
	cfg := &theme.RendererConfig{Theme: "brutalist", CSSVars: map[string]string{"--a": "1"}}
	o := newTestOrchestrator(t, renderer, WithThemeResolver(staticThemeResolver{cfg: cfg}))

	if _, err := o.Generate(context.Background(), Request{TemplateID: "condo", Theme: "brutalist"}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if renderer.options.Theme != cfg {
		t.Fatalf("theme config not passed to renderer: %+v", renderer.options.Theme)
	}

	// A failing resolver fails the request.
	o = newTestOrchestrator(t, renderer, WithThemeResolver(staticThemeResolver{err: errors.New("no such theme")}))
	if _, err := o.Generate(context.Background(), Request{TemplateID: "condo", Theme: "ghost"}); err == nil {
		t.Fatal("expected theme resolution failure")
	}

	// Requests without a theme never touch the resolver output.
	renderer.options = render.RenderOptions{}
	o = newTestOrchestrator(t, renderer, WithThemeResolver(staticThemeResolver{cfg: cfg}))
	if _, err := o.Generate(context.Background(), Request{TemplateID: "condo"}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if renderer.options.Theme != nil {
		t.Fatal("theme resolved without a requested theme")
	}
}

func TestRegister(t *testing.T) {
	o := New()

	tpl := testTemplate(t)
	if err := o.Register(tpl); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := o.Register(tpl); err == nil {
		t.Fatal("expected duplicate registration error")
	}
	if err := o.Register(schema.Template{}); err == nil {
		t.Fatal("expected error for template without id")
	}

	if diff := cmp.Diff([]string{"condo"}, o.Templates()); diff != "" {
		t.Fatalf("template ids mismatch (-want +got):\n%s", diff)
	}
	if _, ok := o.Template("condo"); !ok {
		t.Fatal("registered template not retrievable")
	}
}

func TestNew_DefaultRegistryHasVanilla(t *testing.T) {
	o := New(WithTemplates(testTemplate(t)))

	out, err := o.Generate(context.Background(), Request{TemplateID: "condo"})
	if err != nil {
		t.Fatalf("generate with default registry: %v", err)
	}
	if !strings.Contains(string(out), `data-template="condo"`) {
		t.Fatalf("default vanilla renderer produced unexpected output:\n%s", out)
	}
}
