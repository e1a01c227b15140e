// Package tui renders a template as an interactive terminal session: one
// prompt per field, answers collected into a form engine, validation errors
// fed back as re-prompts. Output is the JSON-encoded data bag.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/peterkingsmesn/listingkit/pkg/form"
	"github.com/peterkingsmesn/listingkit/pkg/render"
	"github.com/peterkingsmesn/listingkit/pkg/schema"
)

// maxValidationPasses bounds the re-prompt loop so a misbehaving driver (or a
// rule no answer can satisfy) cannot spin the session forever.
const maxValidationPasses = 3

// Renderer implements render.Renderer over a PromptDriver.
type Renderer struct {
	driver PromptDriver
}

// Option customises the renderer.
type Option func(*Renderer)

// WithDriver swaps the prompt driver, e.g. for a scripted fake in tests.
func WithDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		r.driver = driver
	}
}

// New constructs a TUI renderer; the default driver speaks to the terminal
// through survey.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = newSurveyDriver()
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string { return "tui" }

// ContentType reports the serialization of the collected values.
func (r *Renderer) ContentType() string { return "application/json" }

// Render walks the template section by section, prompting for every field,
// then validates. Fields that fail validation are re-prompted with the rule
// message shown; after the pass budget is exhausted the remaining errors ride
// along in the payload instead of failing the session.
func (r *Renderer) Render(ctx context.Context, tpl schema.Template, options render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if tpl.Kind == schema.KindImport {
		return nil, errors.New("tui: import templates carry no promptable fields")
	}

	session := form.NewEngine(tpl, form.WithValues(options.Values))

	for _, group := range tpl.Grouped() {
		if group.Section.Title != "" {
			if err := r.driver.Info(ctx, "== "+group.Section.Title+" =="); err != nil {
				return nil, err
			}
		}
		for _, field := range group.Fields {
			if err := r.promptField(ctx, session, field, ""); err != nil {
				return nil, err
			}
		}
	}

	for pass := 0; pass < maxValidationPasses; pass++ {
		if session.Validate() {
			break
		}
		clean := true
		for _, field := range tpl.Fields {
			message, failed := session.Error(field.Name)
			if !failed {
				continue
			}
			clean = false
			if err := r.promptField(ctx, session, field, message); err != nil {
				return nil, err
			}
		}
		if clean {
			break
		}
	}

	payload := struct {
		Values map[string]any    `json:"values"`
		Errors map[string]string `json:"errors,omitempty"`
	}{Values: session.Values()}
	if !session.Validate() {
		payload.Errors = session.Errors()
	}

	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("tui: encode session: %w", err)
	}
	return encoded, nil
}

func (r *Renderer) promptField(ctx context.Context, session *form.Engine, field schema.FieldSchema, errText string) error {
	message := promptMessage(field)
	if errText != "" {
		message = fmt.Sprintf("%s (%s)", message, errText)
	}

	switch form.AffordanceFor(field.Type) {
	case form.AffordanceTextInput, form.AffordanceDateInput, form.AffordanceFileUpload:
		answer, err := r.driver.Input(ctx, InputConfig{Message: message, Default: currentString(session, field.Name)})
		if err != nil {
			return err
		}
		r.storeText(session, field, answer)
	case form.AffordanceNumberInput:
		answer, err := r.driver.Input(ctx, InputConfig{Message: message, Default: currentString(session, field.Name)})
		if err != nil {
			return err
		}
		r.storeNumber(session, field, answer)
	case form.AffordanceTextArea:
		answer, err := r.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: currentString(session, field.Name)})
		if err != nil {
			return err
		}
		r.storeText(session, field, answer)
	case form.AffordanceSelect, form.AffordanceRadioGroup:
		labels, values := optionLists(field)
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      labels,
			DefaultIndex: indexOf(values, currentString(session, field.Name)),
		})
		if err != nil {
			return err
		}
		if idx >= 0 && idx < len(values) {
			session.SetValue(field.Name, values[idx])
		}
	case form.AffordanceCheckboxGroup:
		labels, values := optionLists(field)
		picked, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  labels,
			Defaults: memberIndexes(session, field.Name, values),
		})
		if err != nil {
			return err
		}
		members := make([]any, 0, len(picked))
		for _, idx := range picked {
			if idx >= 0 && idx < len(values) {
				members = append(members, values[idx])
			}
		}
		session.SetValue(field.Name, members)
	}
	return nil
}

func (r *Renderer) storeText(session *form.Engine, field schema.FieldSchema, answer string) {
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		session.Unset(field.Name)
		return
	}
	session.SetValue(field.Name, trimmed)
}

func (r *Renderer) storeNumber(session *form.Engine, field schema.FieldSchema, answer string) {
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		session.Unset(field.Name)
		return
	}
	if number, err := strconv.ParseFloat(trimmed, 64); err == nil {
		session.SetValue(field.Name, number)
		return
	}
	// Keep the raw answer; validation will surface the problem.
	session.SetValue(field.Name, trimmed)
}

func promptMessage(field schema.FieldSchema) string {
	label := field.Label
	if label == "" {
		label = field.Name
	}
	if field.Required {
		return label + " *"
	}
	return label
}

func optionLists(field schema.FieldSchema) (labels, values []string) {
	labels = make([]string, 0, len(field.Options))
	values = make([]string, 0, len(field.Options))
	for _, option := range field.Options {
		label := option.Label
		if label == "" {
			label = option.Value
		}
		labels = append(labels, label)
		values = append(values, option.Value)
	}
	return labels, values
}

func currentString(session *form.Engine, name string) string {
	value, ok := session.Value(name)
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}
	return ""
}

func indexOf(values []string, target string) int {
	for i, value := range values {
		if value == target {
			return i
		}
	}
	return 0
}

func memberIndexes(session *form.Engine, name string, values []string) []int {
	raw, ok := session.Value(name)
	if !ok {
		return nil
	}
	members, ok := raw.([]any)
	if !ok {
		return nil
	}
	var indexes []int
	for i, value := range values {
		for _, member := range members {
			if text, ok := member.(string); ok && text == value {
				indexes = append(indexes, i)
				break
			}
		}
	}
	return indexes
}
