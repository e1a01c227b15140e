// Package schema models the declarative templates that drive form rendering
// and validation: typed fields, grouping sections, and cross-field validation
// rules. Templates are opaque configuration to the rest of the system; they
// are validated once at load time and never mutated after.
package schema

import (
	"regexp"

	"github.com/peterkingsmesn/listingkit/pkg/patterns"
)

// FieldType is the closed set of input kinds a template may declare. Every
// consumer switches exhaustively over these tags.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeDate     FieldType = "date"
	FieldTypeFile     FieldType = "file"
	FieldTypeTextarea FieldType = "textarea"
)

// Valid reports whether the tag names a known field type.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeSelect, FieldTypeCheckbox,
		FieldTypeRadio, FieldTypeDate, FieldTypeFile, FieldTypeTextarea:
		return true
	}
	return false
}

// Choice reports whether the type draws its value from declared options.
func (t FieldType) Choice() bool {
	switch t {
	case FieldTypeSelect, FieldTypeCheckbox, FieldTypeRadio:
		return true
	}
	return false
}

// Option is one value/label pair for a choice field.
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// FieldSchema describes a single input. Names are unique within a template
// and may be dotted paths into nested data (e.g. "contact.whatsapp").
type FieldSchema struct {
	Name        string    `yaml:"name" json:"name"`
	Type        FieldType `yaml:"type" json:"type"`
	Label       string    `yaml:"label,omitempty" json:"label,omitempty"`
	Placeholder string    `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Required    bool      `yaml:"required,omitempty" json:"required"`
	Min         *float64  `yaml:"min,omitempty" json:"min,omitempty"`
	Max         *float64  `yaml:"max,omitempty" json:"max,omitempty"`
	MaxLength   *int      `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	Step        *float64  `yaml:"step,omitempty" json:"step,omitempty"`
	Options     []Option  `yaml:"options,omitempty" json:"options,omitempty"`
	Section     string    `yaml:"section,omitempty" json:"section,omitempty"`
}

// RuleKind is the closed set of validation comparisons.
type RuleKind string

const (
	RuleMin     RuleKind = "min"
	RuleMax     RuleKind = "max"
	RulePattern RuleKind = "pattern"
)

// ValidationRule is one comparison against one field, with the human message
// to surface when it fails. Rules are evaluated in declared order; when a
// field fails several rules the message of the last failing rule wins.
type ValidationRule struct {
	Field   string   `yaml:"field" json:"field"`
	Kind    RuleKind `yaml:"kind" json:"kind"`
	Value   string   `yaml:"value" json:"value"`
	Message string   `yaml:"message" json:"message"`

	// resolved at load time
	bound    float64
	compiled *regexp.Regexp
}

// Bound returns the numeric threshold of a min/max rule.
func (r ValidationRule) Bound() float64 { return r.bound }

// Regexp returns the compiled expression of a pattern rule, nil otherwise.
func (r ValidationRule) Regexp() *regexp.Regexp { return r.compiled }

// Section groups fields for layout. The Fields list is the section's display
// order; a field belongs to at most one section.
type Section struct {
	ID     string   `yaml:"id" json:"id"`
	Title  string   `yaml:"title,omitempty" json:"title,omitempty"`
	Layout string   `yaml:"layout,omitempty" json:"layout,omitempty"`
	Fields []string `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// OtherSectionID is the implicit section that collects fields no declared
// section owns.
const OtherSectionID = "other"

// Template kinds: conventional field templates and import templates that
// carry a pattern rule table instead.
const (
	KindForm   = "form"
	KindImport = "import"
)

// Template is a named, versioned bundle of either a field schema (property
// type templates) or a pattern rule table (import templates).
type Template struct {
	ID       string            `yaml:"id" json:"id"`
	Version  int               `yaml:"version" json:"version"`
	Title    string            `yaml:"title,omitempty" json:"title,omitempty"`
	Kind     string            `yaml:"kind,omitempty" json:"kind,omitempty"`
	Fields   []FieldSchema     `yaml:"fields,omitempty" json:"fields,omitempty"`
	Rules    []ValidationRule  `yaml:"rules,omitempty" json:"rules,omitempty"`
	Sections []Section         `yaml:"sections,omitempty" json:"sections,omitempty"`
	Defaults map[string]any    `yaml:"defaults,omitempty" json:"defaults,omitempty"`
	Metadata map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`

	// Import carries the extraction rule table of an import template.
	Import *patterns.Config `yaml:"import,omitempty" json:"import,omitempty"`
}

// FieldByName looks a field up by its (possibly dotted) name.
func (t Template) FieldByName(name string) (FieldSchema, bool) {
	for _, field := range t.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldSchema{}, false
}

// SectionGroup pairs a section with the fields it owns, in display order.
type SectionGroup struct {
	Section Section
	Fields  []FieldSchema
}

// Grouped returns the template's fields arranged by section, in declared
// section order. Fields no section owns land in the implicit "other" group at
// the end.
func (t Template) Grouped() []SectionGroup {
	owned := make(map[string]bool, len(t.Fields))
	groups := make([]SectionGroup, 0, len(t.Sections)+1)

	for _, section := range t.Sections {
		group := SectionGroup{Section: section}
		for _, name := range section.Fields {
			if field, ok := t.FieldByName(name); ok {
				group.Fields = append(group.Fields, field)
				owned[name] = true
			}
		}
		groups = append(groups, group)
	}

	var rest []FieldSchema
	for _, field := range t.Fields {
		if !owned[field.Name] {
			rest = append(rest, field)
		}
	}
	if len(rest) > 0 {
		groups = append(groups, SectionGroup{
			Section: Section{ID: OtherSectionID, Title: "Other"},
			Fields:  rest,
		})
	}
	return groups
}

// SeedValues builds an initial data bag from template defaults overlaid with
// caller-supplied values. Neither input map is mutated.
func (t Template) SeedValues(initial map[string]any) map[string]any {
	seeded := make(map[string]any, len(t.Defaults)+len(initial))
	for name, value := range t.Defaults {
		seeded[name] = value
	}
	for name, value := range initial {
		seeded[name] = value
	}
	return seeded
}
