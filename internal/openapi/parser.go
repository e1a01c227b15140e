// Package openapi derives listing templates from OpenAPI documents, for
// callers whose listing API already describes its request bodies. Only the
// raw document bytes cross the boundary; fetching them is the caller's job.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/peterkingsmesn/listingkit/pkg/schema"
)

// TemplateFromDocument builds a form template from the request schema of one
// operation. Nested objects flatten into dotted field names; numeric bounds
// and patterns become validation rules so the form engine enforces what the
// API declares.
func TemplateFromDocument(ctx context.Context, raw []byte, operationID string) (schema.Template, error) {
	if len(raw) == 0 {
		return schema.Template{}, errors.New("openapi: document payload is empty")
	}
	if strings.TrimSpace(operationID) == "" {
		return schema.Template{}, errors.New("openapi: operation id is required")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return schema.Template{}, fmt.Errorf("openapi: load document: %w", err)
	}

	operation := findOperation(doc, operationID)
	if operation == nil {
		return schema.Template{}, fmt.Errorf("openapi: operation %q not found", operationID)
	}

	body := requestSchema(operation)
	if body == nil {
		return schema.Template{}, fmt.Errorf("openapi: operation %q declares no request schema", operationID)
	}

	tpl := schema.Template{
		ID:    operationID,
		Kind:  schema.KindForm,
		Title: operation.Summary,
	}
	collectFields(&tpl, "", body, nil)
	if len(tpl.Fields) == 0 {
		return schema.Template{}, fmt.Errorf("openapi: operation %q request schema has no usable properties", operationID)
	}

	if err := schema.Finalize(&tpl); err != nil {
		return schema.Template{}, err
	}
	return tpl, nil
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	if doc.Paths == nil {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range []*openapi3.Operation{
			item.Get, item.Put, item.Post, item.Delete, item.Patch,
		} {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestSchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	content := operation.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

// collectFields walks an object schema depth-first, flattening nested objects
// into dotted names. Property order is alphabetized because kin-openapi hands
// properties back as a map.
func collectFields(tpl *schema.Template, prefix string, src *openapi3.Schema, required []string) {
	names := make([]string, 0, len(src.Properties))
	for name := range src.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	requiredSet := make(map[string]bool, len(src.Required)+len(required))
	for _, name := range src.Required {
		requiredSet[name] = true
	}
	for _, name := range required {
		requiredSet[name] = true
	}

	for _, name := range names {
		ref := src.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		property := ref.Value
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}

		if typeIs(property, "object") {
			collectFields(tpl, path, property, nil)
			continue
		}

		field := schema.FieldSchema{
			Name:     path,
			Type:     fieldTypeFor(property),
			Label:    property.Title,
			Required: requiredSet[name],
		}
		applyConstraints(tpl, &field, property)
		tpl.Fields = append(tpl.Fields, field)
	}
}

func typeIs(src *openapi3.Schema, kind string) bool {
	return src.Type != nil && src.Type.Is(kind)
}

func fieldTypeFor(src *openapi3.Schema) schema.FieldType {
	switch {
	case typeIs(src, "integer"), typeIs(src, "number"):
		return schema.FieldTypeNumber
	case typeIs(src, "boolean"):
		return schema.FieldTypeRadio
	case typeIs(src, "array"):
		return schema.FieldTypeCheckbox
	case typeIs(src, "string") && src.Format == "date":
		return schema.FieldTypeDate
	case typeIs(src, "string") && src.Format == "binary":
		return schema.FieldTypeFile
	case typeIs(src, "string") && len(src.Enum) > 0:
		return schema.FieldTypeSelect
	case typeIs(src, "string") && src.Format == "textarea":
		return schema.FieldTypeTextarea
	default:
		return schema.FieldTypeText
	}
}

func applyConstraints(tpl *schema.Template, field *schema.FieldSchema, src *openapi3.Schema) {
	switch field.Type {
	case schema.FieldTypeRadio:
		field.Options = []schema.Option{{Value: "true", Label: "Yes"}, {Value: "false", Label: "No"}}
	case schema.FieldTypeSelect:
		field.Options = optionsFromEnum(src.Enum)
	case schema.FieldTypeCheckbox:
		if src.Items != nil && src.Items.Value != nil {
			field.Options = optionsFromEnum(src.Items.Value.Enum)
		}
		if len(field.Options) == 0 {
			// Without an enum there is nothing to toggle; degrade to text.
			field.Type = schema.FieldTypeText
		}
	}

	if src.Default != nil {
		if tpl.Defaults == nil {
			tpl.Defaults = make(map[string]any)
		}
		tpl.Defaults[field.Name] = src.Default
	}

	if src.Min != nil {
		value := *src.Min
		field.Min = &value
		tpl.Rules = append(tpl.Rules, schema.ValidationRule{
			Field:   field.Name,
			Kind:    schema.RuleMin,
			Value:   formatBound(value),
			Message: fmt.Sprintf("Must be at least %s", formatBound(value)),
		})
	}
	if src.Max != nil {
		value := *src.Max
		field.Max = &value
		tpl.Rules = append(tpl.Rules, schema.ValidationRule{
			Field:   field.Name,
			Kind:    schema.RuleMax,
			Value:   formatBound(value),
			Message: fmt.Sprintf("Must be at most %s", formatBound(value)),
		})
	}
	if src.MaxLength != nil {
		length := int(*src.MaxLength)
		field.MaxLength = &length
	}
	if src.Pattern != "" {
		tpl.Rules = append(tpl.Rules, schema.ValidationRule{
			Field:   field.Name,
			Kind:    schema.RulePattern,
			Value:   src.Pattern,
			Message: "Invalid format",
		})
	}
}

func optionsFromEnum(enum []any) []schema.Option {
	options := make([]schema.Option, 0, len(enum))
	for _, value := range enum {
		text := fmt.Sprintf("%v", value)
		options = append(options, schema.Option{Value: text})
	}
	return options
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
