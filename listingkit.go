// Package listingkit turns unstructured rental listings (pasted social-media
// posts) into structured, schema-validated records. It bundles a
// pattern-driven extraction pipeline, declarative form templates with a
// validating edit engine, and pluggable renderers behind one convenience API.
package listingkit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	internalopenapi "github.com/peterkingsmesn/listingkit/internal/openapi"
	"github.com/peterkingsmesn/listingkit/pkg/extract"
	"github.com/peterkingsmesn/listingkit/pkg/form"
	"github.com/peterkingsmesn/listingkit/pkg/orchestrator"
	"github.com/peterkingsmesn/listingkit/pkg/schema"
)

var (
	parserOnce sync.Once
	parser     *extract.Parser
	parserErr  error
)

func builtinParser() (*extract.Parser, error) {
	parserOnce.Do(func() {
		rules, err := ImportPatterns()
		if err != nil {
			parserErr = err
			return
		}
		parser = extract.NewParser(rules)
	})
	return parser, parserErr
}

// ParseText runs the full extractor suite over raw post text using the
// built-in Facebook import rule table. The call is deterministic: the same
// input always yields the same result.
func ParseText(text string) (extract.Result, error) {
	p, err := builtinParser()
	if err != nil {
		return extract.Result{}, err
	}
	return p.ParseAll(text), nil
}

// Draft wraps an extraction result for the human review workflow, stamping
// identity and capture time on top of the pure extraction output.
type Draft struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	Result    extract.Result `json:"result"`
}

// NewDraft parses raw post text into a review-ready draft record.
func NewDraft(text string) (Draft, error) {
	result, err := ParseText(text)
	if err != nil {
		return Draft{}, err
	}
	return Draft{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Result:    result,
	}, nil
}

// NewFormSession starts an edit session against a built-in template, seeded
// from template defaults overlaid with the caller's initial values (typically
// a reviewed draft).
func NewFormSession(templateID string, initial map[string]any) (*form.Engine, error) {
	tpl, err := BuiltinTemplate(templateID)
	if err != nil {
		return nil, err
	}
	return form.NewEngine(tpl, form.WithValues(initial)), nil
}

// Request aliases the orchestrator request for callers wiring everything
// through the root package.
type Request = orchestrator.Request

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module. Without explicit templates it registers the built-in bundle.
func NewOrchestrator(options ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	templates, err := BuiltinTemplates()
	if err != nil {
		return nil, err
	}
	base := []orchestrator.Option{orchestrator.WithTemplates(templates...)}
	return orchestrator.New(append(base, options...)...), nil
}

// TemplateFromOpenAPI derives a form template from the request schema of one
// operation in an OpenAPI document.
func TemplateFromOpenAPI(ctx context.Context, document []byte, operationID string) (schema.Template, error) {
	return internalopenapi.TemplateFromDocument(ctx, document, operationID)
}
