package form

import "github.com/peterkingsmesn/listingkit/pkg/schema"

// Affordance names the input control a field type renders as. The mapping is
// the deterministic contract every renderer follows; renderers decide markup
// or prompt style, never which affordance a type gets.
type Affordance string

const (
	AffordanceTextInput     Affordance = "text-input"
	AffordanceNumberInput   Affordance = "number-input"
	AffordanceSelect        Affordance = "select"
	AffordanceCheckboxGroup Affordance = "checkbox-group"
	AffordanceRadioGroup    Affordance = "radio-group"
	AffordanceDateInput     Affordance = "date-input"
	AffordanceFileUpload    Affordance = "file-upload"
	AffordanceTextArea      Affordance = "text-area"
)

// ValueShape describes what an affordance stores in the data bag.
type ValueShape int

const (
	// ShapeScalar is a single value (text, number, select, radio, date).
	ShapeScalar ValueShape = iota
	// ShapeArray is a toggled membership list (checkbox groups).
	ShapeArray
	// ShapeFiles is a list of opaque file handles.
	ShapeFiles
)

// AffordanceFor maps a field type to its input affordance. The switch is
// exhaustive over the closed FieldType set; unknown tags cannot reach here
// because templates reject them at load time.
func AffordanceFor(t schema.FieldType) Affordance {
	switch t {
	case schema.FieldTypeText:
		return AffordanceTextInput
	case schema.FieldTypeNumber:
		return AffordanceNumberInput
	case schema.FieldTypeSelect:
		return AffordanceSelect
	case schema.FieldTypeCheckbox:
		return AffordanceCheckboxGroup
	case schema.FieldTypeRadio:
		return AffordanceRadioGroup
	case schema.FieldTypeDate:
		return AffordanceDateInput
	case schema.FieldTypeFile:
		return AffordanceFileUpload
	case schema.FieldTypeTextarea:
		return AffordanceTextArea
	}
	return AffordanceTextInput
}

// Shape reports how the affordance stores its value.
func (a Affordance) Shape() ValueShape {
	switch a {
	case AffordanceCheckboxGroup:
		return ShapeArray
	case AffordanceFileUpload:
		return ShapeFiles
	}
	return ShapeScalar
}
