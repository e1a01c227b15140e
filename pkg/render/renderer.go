// Package render defines the contracts renderers implement and the registry
// the orchestrator resolves them through. Renderers are presentation only:
// which affordance a field gets is decided by pkg/form, renderers decide what
// that affordance looks like in their medium.
package render

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/peterkingsmesn/listingkit/pkg/schema"
)

// Renderer converts a template plus per-request options into a byte
// representation (HTML, prompt-session JSON, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, tpl schema.Template, options RenderOptions) ([]byte, error)
}

// RenderOptions carries per-request data renderers may use without touching
// the template itself.
type RenderOptions struct {
	// Values pre-populates controls, keyed by dotted field name.
	Values map[string]any
	// Errors surfaces validation feedback keyed by field name, rendered as
	// inline per-field text.
	Errors map[string]string
	// Theme optionally carries resolved go-theme output (tokens, CSS vars,
	// partial overrides) for renderers that style their markup.
	Theme *theme.RendererConfig
}
