package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const samplePost = `For Rent! 2BR/1Bath condo located in BGC, 35 sqm,
fully furnished with aircon and wifi. PHP 25,000 per month.
Contact 0917 123 4567 or juan.rentals@gmail.com #condoforrent`

func TestParseAll(t *testing.T) {
	parser := NewParser(testRules(t))

	got := parser.ParseAll(samplePost)

	if got.Price == nil || *got.Price != 25000 {
		t.Errorf("price = %v, want 25000", got.Price)
	}
	if got.Location != "manila" {
		t.Errorf("location = %q, want manila", got.Location)
	}
	if got.Bedrooms == nil || *got.Bedrooms != 2 {
		t.Errorf("bedrooms = %v, want 2", got.Bedrooms)
	}
	if got.Bathrooms == nil || *got.Bathrooms != 1 {
		t.Errorf("bathrooms = %v, want 1", got.Bathrooms)
	}
	if got.Area == nil || *got.Area != 35 {
		t.Errorf("area = %v, want 35", got.Area)
	}
	if got.Type != "condo" {
		t.Errorf("type = %q, want condo", got.Type)
	}
	wantContacts := Contacts{WhatsApp: "0917 123 4567", Email: "juan.rentals@gmail.com"}
	if diff := cmp.Diff(wantContacts, got.Contacts); diff != "" {
		t.Errorf("contacts mismatch (-want +got):\n%s", diff)
	}
	wantAmenities := []string{"aircon", "furnished", "wifi"}
	if diff := cmp.Diff(wantAmenities, got.Amenities); diff != "" {
		t.Errorf("amenities mismatch (-want +got):\n%s", diff)
	}
	if got.Title != "Condo 2BR/1Bath in Manila" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Raw != samplePost {
		t.Errorf("raw input not preserved")
	}
}

func TestParseAll_Deterministic(t *testing.T) {
	parser := NewParser(testRules(t))

	first := parser.ParseAll(samplePost)
	second := parser.ParseAll(samplePost)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated parses disagree (-first +second):\n%s", diff)
	}
}

func TestParseAll_EmptyInput(t *testing.T) {
	parser := NewParser(testRules(t))

	got := parser.ParseAll("")
	if got.Price != nil || got.Bedrooms != nil || got.Bathrooms != nil || got.Area != nil {
		t.Errorf("empty input produced numeric fields: %+v", got)
	}
	if got.Location != "" || got.Amenities != nil {
		t.Errorf("empty input produced location or amenities: %+v", got)
	}
	// The bedroom fallback still classifies, and the title falls back too.
	if got.Type != "condo" {
		t.Errorf("type = %q, want condo", got.Type)
	}
	if got.Title != "Condo for Rent" {
		t.Errorf("title = %q, want fallback", got.Title)
	}
	if got.Description != "" {
		t.Errorf("description = %q, want empty", got.Description)
	}
}
