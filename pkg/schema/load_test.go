package schema

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const validFormYAML = `
id: studio
version: 2
title: Studio Listing
fields:
  - name: title
    type: text
    required: true
  - name: price
    type: number
    required: true
  - name: furnishing
    type: select
    options:
      - {value: bare, label: Bare}
      - {value: full, label: Fully Furnished}
  - name: notes
    type: textarea
sections:
  - id: basic
    title: Basics
    fields: [title, price]
  - id: details
    title: Details
    fields: [furnishing]
rules:
  - {field: price, kind: min, value: "1000", message: Too cheap}
  - {field: price, kind: max, value: "100000", message: Too expensive}
defaults:
  furnishing: bare
`

func TestLoad_ValidForm(t *testing.T) {
	tpl, err := Load([]byte(validFormYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tpl.Kind != KindForm {
		t.Fatalf("kind = %q, want inferred form", tpl.Kind)
	}
	if len(tpl.Fields) != 4 || len(tpl.Rules) != 2 {
		t.Fatalf("unexpected shape: %d fields, %d rules", len(tpl.Fields), len(tpl.Rules))
	}
	if tpl.Rules[0].Bound() != 1000 || tpl.Rules[1].Bound() != 100000 {
		t.Fatalf("rule bounds not resolved: %v, %v", tpl.Rules[0].Bound(), tpl.Rules[1].Bound())
	}
	// Ownership reconciliation must have stamped the section back onto fields.
	if field, _ := tpl.FieldByName("price"); field.Section != "basic" {
		t.Fatalf("price section = %q, want basic", field.Section)
	}
}

func TestLoad_IntegrityFailures(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing id",
			yaml:    "fields:\n  - {name: a, type: text}",
			wantErr: "template id is required",
		},
		{
			name:    "no fields",
			yaml:    "id: t",
			wantErr: "no fields",
		},
		{
			name:    "unknown field type",
			yaml:    "id: t\nfields:\n  - {name: a, type: slider}",
			wantErr: `unknown type "slider"`,
		},
		{
			name:    "duplicate field",
			yaml:    "id: t\nfields:\n  - {name: a, type: text}\n  - {name: a, type: text}",
			wantErr: `duplicate field "a"`,
		},
		{
			name:    "choice without options",
			yaml:    "id: t\nfields:\n  - {name: a, type: select}",
			wantErr: "needs options",
		},
		{
			name:    "unknown section reference",
			yaml:    "id: t\nfields:\n  - {name: a, type: text, section: ghost}",
			wantErr: `unknown section "ghost"`,
		},
		{
			name:    "duplicate section",
			yaml:    "id: t\nfields:\n  - {name: a, type: text}\nsections:\n  - {id: s}\n  - {id: s}",
			wantErr: `duplicate section "s"`,
		},
		{
			name:    "section lists unknown field",
			yaml:    "id: t\nfields:\n  - {name: a, type: text}\nsections:\n  - {id: s, fields: [ghost]}",
			wantErr: `unknown field "ghost"`,
		},
		{
			name:    "double ownership",
			yaml:    "id: t\nfields:\n  - {name: a, type: text}\nsections:\n  - {id: s1, fields: [a]}\n  - {id: s2, fields: [a]}",
			wantErr: "owned by sections",
		},
		{
			name:    "rule on unknown field",
			yaml:    "id: t\nfields:\n  - {name: a, type: text}\nrules:\n  - {field: ghost, kind: min, value: \"1\", message: m}",
			wantErr: `references unknown field "ghost"`,
		},
		{
			name:    "rule without message",
			yaml:    "id: t\nfields:\n  - {name: a, type: number}\nrules:\n  - {field: a, kind: min, value: \"1\"}",
			wantErr: "has no message",
		},
		{
			name:    "rule bound not numeric",
			yaml:    "id: t\nfields:\n  - {name: a, type: number}\nrules:\n  - {field: a, kind: min, value: lots, message: m}",
			wantErr: "is not numeric",
		},
		{
			name:    "rule pattern invalid",
			yaml:    "id: t\nfields:\n  - {name: a, type: text}\nrules:\n  - {field: a, kind: pattern, value: '([', message: m}",
			wantErr: "pattern",
		},
		{
			name:    "rule kind unknown",
			yaml:    "id: t\nfields:\n  - {name: a, type: text}\nrules:\n  - {field: a, kind: between, value: \"1\", message: m}",
			wantErr: `unknown kind "between"`,
		},
		{
			name:    "import without rule table",
			yaml:    "id: t\nkind: import",
			wantErr: "no rule table",
		},
		{
			name:    "import with bad pattern",
			yaml:    "id: t\nkind: import\nimport:\n  fields:\n    price: ['([']",
			wantErr: "price",
		},
		{
			name:    "unknown kind",
			yaml:    "id: t\nkind: wizard",
			wantErr: `unknown kind "wizard"`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected a load error")
			}
			if !strings.HasPrefix(err.Error(), "schema:") {
				t.Errorf("error not schema-prefixed: %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestGrouped(t *testing.T) {
	tpl, err := Load([]byte(validFormYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	groups := tpl.Grouped()
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want basic, details, other", len(groups))
	}

	var shape []string
	for _, group := range groups {
		names := make([]string, 0, len(group.Fields))
		for _, field := range group.Fields {
			names = append(names, field.Name)
		}
		shape = append(shape, group.Section.ID+":"+strings.Join(names, ","))
	}
	want := []string{"basic:title,price", "details:furnishing", "other:notes"}
	if diff := cmp.Diff(want, shape); diff != "" {
		t.Fatalf("grouping mismatch (-want +got):\n%s", diff)
	}
}

func TestGrouped_NoSections(t *testing.T) {
	tpl := Template{
		ID: "flat",
		Fields: []FieldSchema{
			{Name: "a", Type: FieldTypeText},
			{Name: "b", Type: FieldTypeNumber},
		},
	}
	if err := Finalize(&tpl); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	groups := tpl.Grouped()
	if len(groups) != 1 || groups[0].Section.ID != OtherSectionID {
		t.Fatalf("expected a single %q group, got %+v", OtherSectionID, groups)
	}
	if len(groups[0].Fields) != 2 {
		t.Fatalf("other group has %d fields, want 2", len(groups[0].Fields))
	}
}

func TestReconcileOwnership_AnnotationAppended(t *testing.T) {
	tpl := Template{
		ID: "t",
		Fields: []FieldSchema{
			{Name: "a", Type: FieldTypeText},
			{Name: "b", Type: FieldTypeText, Section: "s"},
		},
		Sections: []Section{{ID: "s", Fields: []string{"a"}}},
	}
	if err := Finalize(&tpl); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	want := []string{"a", "b"}
	if diff := cmp.Diff(want, tpl.Sections[0].Fields); diff != "" {
		t.Fatalf("section list mismatch (-want +got):\n%s", diff)
	}
}

func TestSeedValues(t *testing.T) {
	tpl := Template{
		ID:       "t",
		Fields:   []FieldSchema{{Name: "a", Type: FieldTypeText}},
		Defaults: map[string]any{"a": "default", "b": "kept"},
	}
	if err := Finalize(&tpl); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	initial := map[string]any{"a": "override"}
	got := tpl.SeedValues(initial)
	want := map[string]any{"a": "override", "b": "kept"}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("seed mismatch (-want +got):\n%s", diff)
	}
	if initial["a"] != "override" || tpl.Defaults["a"] != "default" {
		t.Fatal("SeedValues mutated an input map")
	}
}
