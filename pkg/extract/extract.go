// Package extract turns unstructured listing text into a structured draft
// record. Every extractor is a pure function over the input text and an
// injected pattern rule table; absence of a field is a value, never an error.
package extract

import (
	"github.com/peterkingsmesn/listingkit/pkg/patterns"
)

// Result is the structured best-effort draft produced from one piece of raw
// text. Numeric fields are nil when nothing matched or every match fell
// outside its domain bounds; the raw input rides along for audit and review.
type Result struct {
	Price       *float64 `json:"price"`
	Location    string   `json:"location,omitempty"`
	Bedrooms    *int     `json:"bedrooms"`
	Bathrooms   *int     `json:"bathrooms"`
	Area        *float64 `json:"area"`
	Contacts    Contacts `json:"contacts"`
	Type        string   `json:"type"`
	Amenities   []string `json:"amenities,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Raw         string   `json:"raw"`
}

// Parser runs the full extractor suite over raw text. It is stateless per
// call: the same input always yields the same Result, and independent inputs
// may be parsed concurrently.
type Parser struct {
	rules *patterns.Set
}

// NewParser builds a Parser around a compiled rule table.
func NewParser(rules *patterns.Set) *Parser {
	return &Parser{rules: rules}
}

// ParseAll runs every field extractor plus the normalizer and assembles the
// draft. It never fails; a field no pattern could recover stays nil or empty.
// Property type consults the bedroom count as its fallback input, every other
// extractor is independent.
func (p *Parser) ParseAll(text string) Result {
	bedrooms := Bedrooms(text, p.rules)
	bathrooms := Bathrooms(text, p.rules)
	location := Location(text, p.rules)
	propertyType := PropertyType(text, p.rules, bedrooms)

	return Result{
		Price:       Price(text, p.rules),
		Location:    location,
		Bedrooms:    bedrooms,
		Bathrooms:   bathrooms,
		Area:        Area(text, p.rules),
		Contacts:    ContactSheet(text, p.rules),
		Type:        propertyType,
		Amenities:   Amenities(text, p.rules),
		Title:       GenerateTitle(intValue(bedrooms), intValue(bathrooms), location, propertyType),
		Description: CleanDescription(text, p.rules),
		Raw:         text,
	}
}

func intValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
