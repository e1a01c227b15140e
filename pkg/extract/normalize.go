package extract

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/peterkingsmesn/listingkit/pkg/patterns"
)

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy

	hashtagPattern    = regexp.MustCompile(`#\w+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// textPolicy strips every markup element; pasted posts frequently carry
// fragments of the page they were copied from.
func textPolicy() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		markupPolicy = bluemonday.StrictPolicy()
	})
	return markupPolicy
}

// CleanDescription produces a display-ready description from raw post text:
// markup, hashtags, contact handles, and price mentions are removed, then
// whitespace runs collapse to single spaces. Cleaning is idempotent. The
// sanitizer entity-escapes the text it keeps, so its output is decoded back
// to plain text before the removal passes; "water & electricity" survives
// cleaning unchanged.
func CleanDescription(text string, rules *patterns.Set) string {
	out := html.UnescapeString(textPolicy().Sanitize(text))
	out = hashtagPattern.ReplaceAllString(out, " ")
	for _, re := range rules.Field(patterns.FieldContacts) {
		out = re.ReplaceAllString(out, " ")
	}
	for _, re := range rules.Field(patterns.FieldPrice) {
		out = re.ReplaceAllString(out, " ")
	}
	out = whitespacePattern.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// GenerateTitle builds a short human title from whatever was extracted, e.g.
// "Condo 2BR/1Bath in Manila". With no bedrooms and no location it falls back
// to "<Type> for Rent", or "Property for Rent" when the type is unknown too.
func GenerateTitle(bedrooms, bathrooms int, location, propertyType string) string {
	if bedrooms <= 0 && location == "" {
		if propertyType != "" {
			return titleCase(propertyType) + " for Rent"
		}
		return "Property for Rent"
	}

	var b strings.Builder
	if propertyType != "" {
		b.WriteString(titleCase(propertyType))
	}
	if bedrooms > 0 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%dBR", bedrooms)
		if bathrooms > 0 {
			fmt.Fprintf(&b, "/%dBath", bathrooms)
		}
	}
	if location != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("in ")
		b.WriteString(titleCase(location))
	}
	return b.String()
}

func titleCase(word string) string {
	lowered := strings.ToLower(strings.TrimSpace(word))
	if lowered == "" {
		return ""
	}
	return strings.ToUpper(lowered[:1]) + lowered[1:]
}
