package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/peterkingsmesn/listingkit/pkg/patterns"
)

var (
	errTemplateIDMissing = errors.New("schema: template id is required")
	errNoFields          = errors.New("schema: form template declares no fields")
	errNoImportRules     = errors.New("schema: import template declares no rule table")
)

// Load decodes a YAML template and runs the integrity checks. Any defect it
// reports indicates a configuration bug and should stop template
// registration; validation of user data never happens here.
func Load(raw []byte) (Template, error) {
	var tpl Template
	if err := yaml.Unmarshal(raw, &tpl); err != nil {
		return Template{}, fmt.Errorf("schema: decode template: %w", err)
	}
	if err := Finalize(&tpl); err != nil {
		return Template{}, err
	}
	return tpl, nil
}

// Finalize validates a template and resolves its rule thresholds and
// patterns. Callers constructing templates in code (rather than from YAML)
// must run it before handing the template to an engine.
func Finalize(tpl *Template) error {
	if strings.TrimSpace(tpl.ID) == "" {
		return errTemplateIDMissing
	}
	if tpl.Kind == "" {
		tpl.Kind = KindForm
		if tpl.Import != nil {
			tpl.Kind = KindImport
		}
	}

	switch tpl.Kind {
	case KindImport:
		return finalizeImport(tpl)
	case KindForm:
		return finalizeForm(tpl)
	default:
		return fmt.Errorf("schema: template %q: unknown kind %q", tpl.ID, tpl.Kind)
	}
}

func finalizeImport(tpl *Template) error {
	if tpl.Import == nil {
		return errNoImportRules
	}
	// Compile once to surface bad patterns at load time; engines compile
	// their own Set from the config afterwards.
	if _, err := patterns.Compile(*tpl.Import); err != nil {
		return fmt.Errorf("schema: template %q: %w", tpl.ID, err)
	}
	return nil
}

func finalizeForm(tpl *Template) error {
	if len(tpl.Fields) == 0 {
		return errNoFields
	}

	sections := make(map[string]*Section, len(tpl.Sections))
	for i := range tpl.Sections {
		section := &tpl.Sections[i]
		if section.ID == "" {
			return fmt.Errorf("schema: template %q: section without id", tpl.ID)
		}
		if _, dup := sections[section.ID]; dup {
			return fmt.Errorf("schema: template %q: duplicate section %q", tpl.ID, section.ID)
		}
		sections[section.ID] = section
	}

	fields := make(map[string]*FieldSchema, len(tpl.Fields))
	for i := range tpl.Fields {
		field := &tpl.Fields[i]
		if strings.TrimSpace(field.Name) == "" {
			return fmt.Errorf("schema: template %q: field without name", tpl.ID)
		}
		if _, dup := fields[field.Name]; dup {
			return fmt.Errorf("schema: template %q: duplicate field %q", tpl.ID, field.Name)
		}
		if !field.Type.Valid() {
			return fmt.Errorf("schema: template %q: field %q: unknown type %q", tpl.ID, field.Name, field.Type)
		}
		if field.Type.Choice() && len(field.Options) == 0 {
			return fmt.Errorf("schema: template %q: field %q: %s field needs options", tpl.ID, field.Name, field.Type)
		}
		if field.Section != "" {
			if _, ok := sections[field.Section]; !ok {
				return fmt.Errorf("schema: template %q: field %q references unknown section %q", tpl.ID, field.Name, field.Section)
			}
		}
		fields[field.Name] = field
	}

	if err := reconcileOwnership(tpl, sections, fields); err != nil {
		return err
	}

	for i := range tpl.Rules {
		if err := resolveRule(&tpl.Rules[i], fields); err != nil {
			return fmt.Errorf("schema: template %q: %w", tpl.ID, err)
		}
	}
	return nil
}

// reconcileOwnership makes field.Section and section.Fields agree: section
// lists are the ordering authority, field annotations are appended to their
// section's list when missing, and double ownership is a defect.
func reconcileOwnership(tpl *Template, sections map[string]*Section, fields map[string]*FieldSchema) error {
	owner := make(map[string]string)
	for i := range tpl.Sections {
		section := &tpl.Sections[i]
		for _, name := range section.Fields {
			field, ok := fields[name]
			if !ok {
				return fmt.Errorf("schema: template %q: section %q lists unknown field %q", tpl.ID, section.ID, name)
			}
			if prev, claimed := owner[name]; claimed && prev != section.ID {
				return fmt.Errorf("schema: template %q: field %q owned by sections %q and %q", tpl.ID, name, prev, section.ID)
			}
			owner[name] = section.ID
			field.Section = section.ID
		}
	}
	for _, field := range fields {
		if field.Section == "" {
			continue
		}
		if _, claimed := owner[field.Name]; claimed {
			continue
		}
		section := sections[field.Section]
		section.Fields = append(section.Fields, field.Name)
		owner[field.Name] = section.ID
	}
	return nil
}

func resolveRule(rule *ValidationRule, fields map[string]*FieldSchema) error {
	if _, ok := fields[rule.Field]; !ok {
		return fmt.Errorf("rule %s references unknown field %q", rule.Kind, rule.Field)
	}
	if strings.TrimSpace(rule.Message) == "" {
		return fmt.Errorf("rule %s on field %q has no message", rule.Kind, rule.Field)
	}
	switch rule.Kind {
	case RuleMin, RuleMax:
		bound, err := strconv.ParseFloat(strings.TrimSpace(rule.Value), 64)
		if err != nil {
			return fmt.Errorf("rule %s on field %q: bound %q is not numeric", rule.Kind, rule.Field, rule.Value)
		}
		rule.bound = bound
	case RulePattern:
		compiled, err := regexp.Compile(rule.Value)
		if err != nil {
			return fmt.Errorf("rule pattern on field %q: %w", rule.Field, err)
		}
		rule.compiled = compiled
	default:
		return fmt.Errorf("rule on field %q: unknown kind %q", rule.Field, rule.Kind)
	}
	return nil
}
