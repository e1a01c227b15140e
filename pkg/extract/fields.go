package extract

import (
	"sort"
	"strconv"
	"strings"

	"github.com/peterkingsmesn/listingkit/pkg/patterns"
)

// Domain bounds for numeric fields. A match outside these bounds is treated
// exactly like no match: the extractor moves on to the next pattern.
const (
	minRooms = 1
	maxRooms = 10
	maxArea  = 10000
)

// scan applies a field's patterns in declared order, honoring the field's
// match policy: under first-match the scan stops at the first capture that
// accept reports valid, under aggregate every pattern runs and the last valid
// capture wins. accept receives the trimmed capture and reports validity.
func scan(text string, rules *patterns.Set, field string, accept func(raw string) bool) {
	stopEarly := rules.PolicyFor(field) == patterns.PolicyFirstMatch
	for _, re := range rules.Field(field) {
		match := re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		if accept(strings.TrimSpace(pick(match))) && stopEarly {
			return
		}
	}
}

// Price extracts a monthly price. Comma-grouped digits and a trailing k/K
// shorthand (multiply by 1000) are supported; non-positive results are
// rejected.
func Price(text string, rules *patterns.Set) *float64 {
	var price *float64
	scan(text, rules, patterns.FieldPrice, func(raw string) bool {
		value, ok := parsePrice(raw)
		if !ok {
			return false
		}
		price = &value
		return true
	})
	return price
}

func parsePrice(raw string) (float64, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	multiplier := 1.0
	if strings.HasSuffix(cleaned, "k") {
		cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, "k"))
		multiplier = 1000
	}
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value * multiplier, true
}

// Location extracts a canonical region code. Each pattern's capture is
// lowercased and resolved through the alias map, then by substring membership
// against the canonical region list; a capture that resolves to nothing sends
// the extractor on to the next pattern, never out as a raw substring.
func Location(text string, rules *patterns.Set) string {
	var region string
	scan(text, rules, patterns.FieldLocation, func(raw string) bool {
		canonical, ok := rules.Canonical(raw)
		if !ok {
			return false
		}
		region = canonical
		return true
	})
	return region
}

// Bedrooms extracts a bedroom count in [1,10].
func Bedrooms(text string, rules *patterns.Set) *int {
	return boundedCount(text, rules, patterns.FieldBedrooms)
}

// Bathrooms extracts a bathroom count in [1,10].
func Bathrooms(text string, rules *patterns.Set) *int {
	return boundedCount(text, rules, patterns.FieldBathrooms)
}

func boundedCount(text string, rules *patterns.Set, field string) *int {
	var count *int
	scan(text, rules, field, func(raw string) bool {
		value, err := strconv.Atoi(raw)
		if err != nil || value < minRooms || value > maxRooms {
			return false
		}
		count = &value
		return true
	})
	return count
}

// Area extracts a floor area in square meters, bounded to (0, 10000].
func Area(text string, rules *patterns.Set) *float64 {
	var area *float64
	scan(text, rules, patterns.FieldArea, func(raw string) bool {
		value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil || value <= 0 || value > maxArea {
			return false
		}
		area = &value
		return true
	})
	return area
}

// Contacts holds the contact handles recovered from a listing. The field's
// match policy decides what a repeated kind means: under aggregate the later
// mention overrides the earlier one, under first-match the first mention
// sticks.
type Contacts struct {
	WhatsApp string `json:"whatsapp,omitempty"`
	Telegram string `json:"telegram,omitempty"`
	Email    string `json:"email,omitempty"`
}

// ContactSheet scans every contact pattern and classifies each hit by shape:
// +63/09-prefixed digits are WhatsApp-style phones, @-prefixed tokens are
// Telegram handles, and anything with both @ and a dot is an email address.
func ContactSheet(text string, rules *patterns.Set) Contacts {
	var sheet Contacts
	keepLatest := rules.PolicyFor(patterns.FieldContacts) == patterns.PolicyAggregate
	assign := func(slot *string, raw string) {
		if *slot == "" || keepLatest {
			*slot = raw
		}
	}
	for _, re := range rules.Field(patterns.FieldContacts) {
		for _, match := range re.FindAllStringSubmatch(text, -1) {
			raw := strings.TrimSpace(pick(match))
			switch {
			case strings.HasPrefix(raw, "+63"), strings.HasPrefix(raw, "09"):
				assign(&sheet.WhatsApp, raw)
			case strings.HasPrefix(raw, "@"):
				assign(&sheet.Telegram, raw)
			case strings.Contains(raw, "@") && strings.Contains(raw, "."):
				assign(&sheet.Email, raw)
			}
		}
	}
	return sheet
}

// PropertyType classifies the listing as "condo" or "house" from type
// keywords, falling back to a bedroom-count heuristic when no keyword is
// present: three or more bedrooms reads as a house, anything else as a condo.
func PropertyType(text string, rules *patterns.Set, bedrooms *int) string {
	var kind string
	scan(text, rules, patterns.FieldType, func(raw string) bool {
		canonical := canonicalType(raw)
		if canonical == "" {
			return false
		}
		kind = canonical
		return true
	})
	if kind != "" {
		return kind
	}
	if bedrooms != nil && *bedrooms >= 3 {
		return "house"
	}
	return "condo"
}

func canonicalType(keyword string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(keyword), " "))
	switch normalized {
	case "studio", "condo", "condominium", "apartment", "flat":
		return "condo"
	case "house", "villa", "townhouse", "duplex":
		return "house"
	case "room", "bed space", "bedspace", "dormitory", "boarding":
		return "house"
	}
	return ""
}

// Amenities tags the listing with every canonical amenity whose rule matches.
// Unlike the other fields this aggregates across all rules; the result is a
// deduplicated, sorted slice so extraction stays deterministic.
func Amenities(text string, rules *patterns.Set) []string {
	seen := make(map[string]struct{})
	for _, amenity := range rules.Amenities() {
		for _, re := range amenity.Patterns {
			if re.MatchString(text) {
				seen[amenity.Tag] = struct{}{}
				break
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// pick returns the last non-empty capture group, or the whole match when the
// pattern captures nothing. This lets rule authors anchor patterns with extra
// groups without changing extractor code.
func pick(match []string) string {
	for i := len(match) - 1; i > 0; i-- {
		if match[i] != "" {
			return match[i]
		}
	}
	return match[0]
}
