// Package form drives one in-progress edit session against a declarative
// template: a mutable data bag addressed by dotted field names, plus the
// per-field error state produced by validation. An Engine belongs to a single
// editor; concurrent sessions each get their own.
package form

import (
	"strconv"
	"strings"

	"github.com/peterkingsmesn/listingkit/pkg/schema"
)

const defaultRequiredMessage = "This field is required"

// Engine holds the data bag and error map for one edit session.
type Engine struct {
	template        schema.Template
	bag             map[string]any
	errors          map[string]string
	requiredMessage string
}

// Option customises an Engine at construction time.
type Option func(*Engine)

// WithValues overlays initial values (dotted names allowed) on top of the
// template defaults.
func WithValues(values map[string]any) Option {
	return func(e *Engine) {
		for name, value := range values {
			setPath(e.bag, splitPath(name), value)
		}
	}
}

// WithRequiredMessage overrides the message recorded for missing required
// fields, e.g. with a localized string.
func WithRequiredMessage(message string) Option {
	return func(e *Engine) {
		if strings.TrimSpace(message) != "" {
			e.requiredMessage = message
		}
	}
}

// NewEngine starts a session seeded from the template's default values.
func NewEngine(tpl schema.Template, options ...Option) *Engine {
	engine := &Engine{
		template:        tpl,
		bag:             make(map[string]any),
		errors:          make(map[string]string),
		requiredMessage: defaultRequiredMessage,
	}
	for name, value := range tpl.Defaults {
		setPath(engine.bag, splitPath(name), value)
	}
	for _, opt := range options {
		if opt != nil {
			opt(engine)
		}
	}
	return engine
}

// Template returns the template the session is editing against.
func (e *Engine) Template() schema.Template {
	return e.template
}

// Value resolves a dotted field name against the bag. The second return
// value is false when any segment along the path is absent.
func (e *Engine) Value(name string) (any, bool) {
	return getPath(e.bag, splitPath(name))
}

// SetValue writes a field, lazily creating intermediate maps for dotted
// names. Editing a field clears its current error.
func (e *Engine) SetValue(name string, value any) {
	setPath(e.bag, splitPath(name), value)
	delete(e.errors, name)
}

// Unset removes a field's value and clears its error.
func (e *Engine) Unset(name string) {
	deletePath(e.bag, splitPath(name))
	delete(e.errors, name)
}

// Toggle flips membership of an option value in a checkbox field's array.
// Checking appends, unchecking removes; the field's error clears either way.
func (e *Engine) Toggle(name, option string, checked bool) {
	var current []any
	if raw, ok := e.Value(name); ok {
		if list, ok := raw.([]any); ok {
			current = list
		}
	}

	next := make([]any, 0, len(current)+1)
	for _, member := range current {
		if member == any(option) {
			continue
		}
		next = append(next, member)
	}
	if checked {
		next = append(next, option)
	}
	e.SetValue(name, next)
}

// Validate runs two passes over the session and reports whether it is clean.
// Pass one records the required message for every required field whose value
// is empty. Pass two evaluates the template's validation rules in declared
// order against fields that hold a present value; a later failing rule
// overwrites the message an earlier one recorded. Failures are collected,
// never returned as errors.
func (e *Engine) Validate() bool {
	e.errors = make(map[string]string)

	for _, field := range e.template.Fields {
		if !field.Required {
			continue
		}
		value, ok := e.Value(field.Name)
		if !ok || isEmpty(value) {
			e.errors[field.Name] = e.requiredMessage
		}
	}

	for _, rule := range e.template.Rules {
		value, ok := e.Value(rule.Field)
		if !ok || isEmpty(value) {
			continue
		}
		if violates(rule, value) {
			e.errors[rule.Field] = rule.Message
		}
	}

	return len(e.errors) == 0
}

// Errors returns a copy of the current field→message map.
func (e *Engine) Errors() map[string]string {
	out := make(map[string]string, len(e.errors))
	for name, message := range e.errors {
		out[name] = message
	}
	return out
}

// Error returns the message recorded for one field, if any.
func (e *Engine) Error(name string) (string, bool) {
	message, ok := e.errors[name]
	return message, ok
}

// Values returns a deep copy of the data bag, suitable for handing to a
// persistence collaborator once Validate has passed.
func (e *Engine) Values() map[string]any {
	return copyBag(e.bag)
}

func copyBag(bag map[string]any) map[string]any {
	out := make(map[string]any, len(bag))
	for name, value := range bag {
		switch v := value.(type) {
		case map[string]any:
			out[name] = copyBag(v)
		case []any:
			out[name] = append([]any(nil), v...)
		default:
			out[name] = value
		}
	}
	return out
}

func violates(rule schema.ValidationRule, value any) bool {
	switch rule.Kind {
	case schema.RuleMin:
		number, ok := toNumber(value)
		return ok && number < rule.Bound()
	case schema.RuleMax:
		number, ok := toNumber(value)
		return ok && number > rule.Bound()
	case schema.RulePattern:
		re := rule.Regexp()
		return re != nil && !re.MatchString(toString(value))
	}
	return false
}

// isEmpty is the required-check notion of absence: nil, blank strings, false,
// numeric zero, and empty collections all count as missing.
func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case bool:
		return !v
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		number, ok := toNumber(value)
		return ok && number == 0
	}
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case string:
		number, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return number, err == nil
	case *float64:
		if v == nil {
			return 0, false
		}
		return *v, true
	case *int:
		if v == nil {
			return 0, false
		}
		return float64(*v), true
	}
	return 0, false
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}
