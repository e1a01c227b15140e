// Package patterns holds the rule tables that drive text extraction: ordered,
// case-insensitive pattern lists per field, an alias map for location
// canonicalization, and amenity tagging rules. Tables are plain configuration
// values compiled into an immutable Set and injected into extractors, so
// multiple template versions can coexist.
package patterns

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// MatchPolicy selects how a field consumes its pattern list.
type MatchPolicy string

const (
	// PolicyFirstMatch stops at the first pattern that yields a valid value.
	PolicyFirstMatch MatchPolicy = "first_match"
	// PolicyAggregate scans every pattern and accumulates all hits.
	PolicyAggregate MatchPolicy = "aggregate"
)

// Canonical field names used to key pattern lists.
const (
	FieldPrice     = "price"
	FieldLocation  = "location"
	FieldBedrooms  = "bedrooms"
	FieldBathrooms = "bathrooms"
	FieldArea      = "area"
	FieldContacts  = "contacts"
	FieldType      = "type"
)

// AmenityRule tags listings with a canonical amenity when any of its patterns
// match. Amenities always aggregate; they never stop at the first hit.
type AmenityRule struct {
	Tag      string   `yaml:"tag"`
	Patterns []string `yaml:"patterns"`
}

// Config is the declarative (YAML) shape of an import template's rule table.
type Config struct {
	Fields    map[string][]string    `yaml:"fields"`
	Policies  map[string]MatchPolicy `yaml:"policies"`
	Aliases   map[string]string      `yaml:"aliases"`
	Regions   []string               `yaml:"regions"`
	Amenities []AmenityRule          `yaml:"amenities"`
}

// Amenity is a compiled AmenityRule.
type Amenity struct {
	Tag      string
	Patterns []*regexp.Regexp
}

// Set is a compiled, immutable rule table.
type Set struct {
	fields    map[string][]*regexp.Regexp
	policies  map[string]MatchPolicy
	aliases   map[string]string
	regions   []string
	amenities []Amenity
}

var errNoRules = errors.New("patterns: config declares no field rules")

// Compile validates and compiles a Config. Pattern lists keep their declared
// order; every pattern is compiled case-insensitively. A pattern that fails to
// compile is a configuration error, not a runtime condition.
func Compile(cfg Config) (*Set, error) {
	if len(cfg.Fields) == 0 && len(cfg.Amenities) == 0 {
		return nil, errNoRules
	}

	set := &Set{
		fields:   make(map[string][]*regexp.Regexp, len(cfg.Fields)),
		policies: make(map[string]MatchPolicy, len(cfg.Policies)),
		aliases:  make(map[string]string, len(cfg.Aliases)),
		regions:  append([]string(nil), cfg.Regions...),
	}

	for field, sources := range cfg.Fields {
		compiled := make([]*regexp.Regexp, 0, len(sources))
		for _, source := range sources {
			re, err := compilePattern(source)
			if err != nil {
				return nil, fmt.Errorf("patterns: field %q: %w", field, err)
			}
			compiled = append(compiled, re)
		}
		set.fields[field] = compiled
	}

	for field, policy := range cfg.Policies {
		switch policy {
		case PolicyFirstMatch, PolicyAggregate:
			set.policies[field] = policy
		default:
			return nil, fmt.Errorf("patterns: field %q: unknown match policy %q", field, policy)
		}
	}

	for raw, canonical := range cfg.Aliases {
		set.aliases[strings.ToLower(strings.TrimSpace(raw))] = strings.ToLower(strings.TrimSpace(canonical))
	}
	for i, region := range set.regions {
		set.regions[i] = strings.ToLower(strings.TrimSpace(region))
	}

	for _, rule := range cfg.Amenities {
		if strings.TrimSpace(rule.Tag) == "" {
			return nil, errors.New("patterns: amenity rule is missing a tag")
		}
		amenity := Amenity{Tag: rule.Tag, Patterns: make([]*regexp.Regexp, 0, len(rule.Patterns))}
		for _, source := range rule.Patterns {
			re, err := compilePattern(source)
			if err != nil {
				return nil, fmt.Errorf("patterns: amenity %q: %w", rule.Tag, err)
			}
			amenity.Patterns = append(amenity.Patterns, re)
		}
		set.amenities = append(set.amenities, amenity)
	}

	return set, nil
}

// Parse decodes a YAML rule table and compiles it.
func Parse(raw []byte) (*Set, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("patterns: decode config: %w", err)
	}
	return Compile(cfg)
}

func compilePattern(source string) (*regexp.Regexp, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return nil, errors.New("empty pattern")
	}
	re, err := regexp.Compile("(?i)" + trimmed)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", trimmed, err)
	}
	return re, nil
}

// Field returns the compiled pattern list for a field in priority order.
func (s *Set) Field(name string) []*regexp.Regexp {
	return s.fields[name]
}

// PolicyFor reports how a field consumes its pattern list. Fields without an
// explicit entry use first-match.
func (s *Set) PolicyFor(name string) MatchPolicy {
	if policy, ok := s.policies[name]; ok {
		return policy
	}
	return PolicyFirstMatch
}

// Amenities returns the compiled amenity tagging rules.
func (s *Set) Amenities() []Amenity {
	return s.amenities
}

// Canonical maps a raw location token to a canonical region code. It first
// consults the alias map, then falls back to substring membership against the
// canonical region list. The second return value is false when the token
// resolves to nothing.
func (s *Set) Canonical(token string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(token))
	if normalized == "" {
		return "", false
	}
	if canonical, ok := s.aliases[normalized]; ok {
		return canonical, true
	}
	for _, region := range s.regions {
		if strings.Contains(normalized, region) {
			return region, true
		}
	}
	return "", false
}
