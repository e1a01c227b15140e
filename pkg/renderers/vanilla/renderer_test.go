package vanilla

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/peterkingsmesn/listingkit/pkg/render"
	"github.com/peterkingsmesn/listingkit/pkg/schema"
)

func testTemplate(t *testing.T) schema.Template {
	t.Helper()
	tpl := schema.Template{
		ID:      "condo",
		Version: 2,
		Fields: []schema.FieldSchema{
			{Name: "title", Type: schema.FieldTypeText, Label: "Listing Title", Required: true},
			{Name: "price", Type: schema.FieldTypeNumber, Min: floatPtr(1000), Max: floatPtr(100000)},
			{Name: "furnishing", Type: schema.FieldTypeSelect, Options: []schema.Option{
				{Value: "bare", Label: "Bare"},
				{Value: "full", Label: "Fully Furnished"},
			}},
			{Name: "amenities", Type: schema.FieldTypeCheckbox, Options: []schema.Option{
				{Value: "wifi", Label: "WiFi"},
				{Value: "parking", Label: "Parking"},
			}},
			{Name: "available_from", Type: schema.FieldTypeDate},
			{Name: "photos", Type: schema.FieldTypeFile},
			{Name: "description", Type: schema.FieldTypeTextarea},
		},
		Sections: []schema.Section{
			{ID: "basic", Title: "Basics", Fields: []string{"title", "price"}},
			{ID: "details", Title: "Details", Layout: "grid", Fields: []string{"furnishing", "amenities"}},
		},
	}
	if err := schema.Finalize(&tpl); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return tpl
}

func renderToString(t *testing.T, tpl schema.Template, options render.RenderOptions) string {
	t.Helper()
	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), tpl, options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRender_FormChrome(t *testing.T) {
	got := renderToString(t, testTemplate(t), render.RenderOptions{})

	for _, want := range []string{
		`data-template="condo"`,
		`data-version="2"`,
		`data-section="basic"`,
		`<legend>Basics</legend>`,
		`data-layout="grid"`,
		// Unsectioned fields land in the implicit trailing group.
		`data-section="other"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}
}

func TestRender_Controls(t *testing.T) {
	got := renderToString(t, testTemplate(t), render.RenderOptions{})

	for _, want := range []string{
		`<input type="text" id="field-title" name="title" required>`,
		`<input type="number" id="field-price" name="price" min="1000" max="100000">`,
		`<select id="field-furnishing" name="furnishing">`,
		`<option value="full">Fully Furnished</option>`,
		`data-affordance="checkbox-group"`,
		`<input type="checkbox" id="field-amenities-0" name="amenities" value="wifi">`,
		`<input type="date" id="field-available_from" name="available_from">`,
		`<input type="file" id="field-photos" name="photos" multiple>`,
		`<textarea id="field-description" name="description"></textarea>`,
		`Listing Title<span class="required" aria-hidden="true">*</span>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}
}

func TestRender_ValuesAndErrors(t *testing.T) {
	got := renderToString(t, testTemplate(t), render.RenderOptions{
		Values: map[string]any{
			"title":      "2BR <Condo>",
			"furnishing": "full",
			"amenities":  []any{"parking"},
		},
		Errors: map[string]string{
			"price": "Price must be at least 1000",
		},
	})

	for _, want := range []string{
		`value="2BR &lt;Condo&gt;"`,
		`<option value="full" selected>`,
		`value="parking" checked>`,
		`data-field="price" data-affordance="number-input" data-invalid="true"`,
		`<p class="field-error">Price must be at least 1000</p>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}
	if strings.Contains(got, `value="wifi" checked`) {
		t.Error("unchecked option rendered as checked")
	}
}

func TestRender_NestedValues(t *testing.T) {
	tpl := schema.Template{
		ID: "contact-card",
		Fields: []schema.FieldSchema{
			{Name: "contact.whatsapp", Type: schema.FieldTypeText, Label: "WhatsApp"},
		},
	}
	if err := schema.Finalize(&tpl); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	cases := []struct {
		name   string
		values map[string]any
	}{
		{
			name:   "nested bag",
			values: map[string]any{"contact": map[string]any{"whatsapp": "0917 123 4567"}},
		},
		{
			name:   "flat dotted key",
			values: map[string]any{"contact.whatsapp": "0917 123 4567"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := renderToString(t, tpl, render.RenderOptions{Values: tc.values})
			if !strings.Contains(got, `value="0917 123 4567"`) {
				t.Fatalf("prefill lost for %s:\n%s", tc.name, got)
			}
		})
	}
}

func TestRender_ThemeCSS(t *testing.T) {
	got := renderToString(t, testTemplate(t), render.RenderOptions{
		Theme: &theme.RendererConfig{
			CSSVars: map[string]string{
				"--lk-accent": "#0a7",
				"--lk-radius": "4px",
			},
		},
	})

	if !strings.Contains(got, "<style>:root {\n--lk-accent: #0a7;\n--lk-radius: 4px;\n}</style>") {
		t.Fatalf("theme CSS not emitted:\n%s", got)
	}
}

func TestRender_RejectsImportTemplates(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	_, err = renderer.Render(context.Background(), schema.Template{ID: "imp", Kind: schema.KindImport}, render.RenderOptions{})
	if err == nil {
		t.Fatal("expected an error for import templates")
	}
}

func floatPtr(v float64) *float64 { return &v }
