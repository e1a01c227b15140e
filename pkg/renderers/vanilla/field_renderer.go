package vanilla

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/peterkingsmesn/listingkit/pkg/form"
	"github.com/peterkingsmesn/listingkit/pkg/schema"
)

// renderField produces the markup for one field: wrapper, label, control, and
// inline error text. The control is chosen through the form package's
// affordance mapping so HTML output and other renderers stay in agreement.
func renderField(field schema.FieldSchema, value any, errText string) string {
	affordance := form.AffordanceFor(field.Type)

	var b strings.Builder
	b.Grow(256)

	b.WriteString(`    <div class="form-field" data-field="`)
	b.WriteString(html.EscapeString(field.Name))
	b.WriteString(`" data-affordance="`)
	b.WriteString(string(affordance))
	b.WriteString(`"`)
	if errText != "" {
		b.WriteString(` data-invalid="true"`)
	}
	b.WriteString(">\n")

	if label := labelFor(field); label != "" && affordance != form.AffordanceCheckboxGroup && affordance != form.AffordanceRadioGroup {
		fmt.Fprintf(&b, "      <label for=%q>%s%s</label>\n", controlID(field.Name), html.EscapeString(label), requiredMark(field))
	}

	switch affordance {
	case form.AffordanceTextInput:
		writeInput(&b, field, "text", value)
	case form.AffordanceNumberInput:
		writeInput(&b, field, "number", value)
	case form.AffordanceDateInput:
		writeInput(&b, field, "date", value)
	case form.AffordanceTextArea:
		writeTextArea(&b, field, value)
	case form.AffordanceSelect:
		writeSelect(&b, field, value)
	case form.AffordanceRadioGroup:
		writeChoiceGroup(&b, field, value, "radio")
	case form.AffordanceCheckboxGroup:
		writeChoiceGroup(&b, field, value, "checkbox")
	case form.AffordanceFileUpload:
		writeFileInput(&b, field)
	}

	if errText != "" {
		fmt.Fprintf(&b, "      <p class=\"field-error\">%s</p>\n", html.EscapeString(errText))
	}

	b.WriteString("    </div>")
	return b.String()
}

func writeInput(b *strings.Builder, field schema.FieldSchema, inputType string, value any) {
	fmt.Fprintf(b, "      <input type=%q id=%q name=%q", inputType, controlID(field.Name), field.Name)
	if text := scalarString(value); text != "" {
		fmt.Fprintf(b, " value=%q", html.EscapeString(text))
	}
	if field.Placeholder != "" {
		fmt.Fprintf(b, " placeholder=%q", html.EscapeString(field.Placeholder))
	}
	if field.Min != nil {
		fmt.Fprintf(b, " min=%q", floatAttr(*field.Min))
	}
	if field.Max != nil {
		fmt.Fprintf(b, " max=%q", floatAttr(*field.Max))
	}
	if field.Step != nil {
		fmt.Fprintf(b, " step=%q", floatAttr(*field.Step))
	}
	if field.MaxLength != nil {
		fmt.Fprintf(b, " maxlength=\"%d\"", *field.MaxLength)
	}
	if field.Required {
		b.WriteString(" required")
	}
	b.WriteString(">\n")
}

func writeTextArea(b *strings.Builder, field schema.FieldSchema, value any) {
	fmt.Fprintf(b, "      <textarea id=%q name=%q", controlID(field.Name), field.Name)
	if field.Placeholder != "" {
		fmt.Fprintf(b, " placeholder=%q", html.EscapeString(field.Placeholder))
	}
	if field.MaxLength != nil {
		fmt.Fprintf(b, " maxlength=\"%d\"", *field.MaxLength)
	}
	if field.Required {
		b.WriteString(" required")
	}
	b.WriteString(">")
	b.WriteString(html.EscapeString(scalarString(value)))
	b.WriteString("</textarea>\n")
}

func writeSelect(b *strings.Builder, field schema.FieldSchema, value any) {
	selected := scalarString(value)
	fmt.Fprintf(b, "      <select id=%q name=%q", controlID(field.Name), field.Name)
	if field.Required {
		b.WriteString(" required")
	}
	b.WriteString(">\n")
	b.WriteString("        <option value=\"\"></option>\n")
	for _, option := range field.Options {
		fmt.Fprintf(b, "        <option value=%q", html.EscapeString(option.Value))
		if option.Value == selected {
			b.WriteString(" selected")
		}
		fmt.Fprintf(b, ">%s</option>\n", html.EscapeString(optionLabel(option)))
	}
	b.WriteString("      </select>\n")
}

func writeChoiceGroup(b *strings.Builder, field schema.FieldSchema, value any, inputType string) {
	fmt.Fprintf(b, "      <div class=\"choice-group\" role=\"group\" aria-label=%q>\n", html.EscapeString(labelFor(field)))
	for i, option := range field.Options {
		id := fmt.Sprintf("%s-%d", controlID(field.Name), i)
		fmt.Fprintf(b, "        <label for=%q><input type=%q id=%q name=%q value=%q", id, inputType, id, field.Name, html.EscapeString(option.Value))
		if choiceChecked(inputType, value, option.Value) {
			b.WriteString(" checked")
		}
		fmt.Fprintf(b, "> %s</label>\n", html.EscapeString(optionLabel(option)))
	}
	b.WriteString("      </div>\n")
}

func writeFileInput(b *strings.Builder, field schema.FieldSchema) {
	fmt.Fprintf(b, "      <input type=\"file\" id=%q name=%q multiple", controlID(field.Name), field.Name)
	if field.Required {
		b.WriteString(" required")
	}
	b.WriteString(">\n")
}

// choiceChecked: radio/select compare against a scalar, checkboxes test
// membership of the stored array.
func choiceChecked(inputType string, value any, option string) bool {
	if inputType == "checkbox" {
		switch list := value.(type) {
		case []any:
			for _, member := range list {
				if scalarString(member) == option {
					return true
				}
			}
		case []string:
			for _, member := range list {
				if member == option {
					return true
				}
			}
		}
		return false
	}
	return scalarString(value) == option
}

func labelFor(field schema.FieldSchema) string {
	if field.Label != "" {
		return field.Label
	}
	segments := strings.Split(field.Name, ".")
	last := segments[len(segments)-1]
	last = strings.ReplaceAll(last, "_", " ")
	if last == "" {
		return field.Name
	}
	return strings.ToUpper(last[:1]) + last[1:]
}

func optionLabel(option schema.Option) string {
	if option.Label != "" {
		return option.Label
	}
	return option.Value
}

func requiredMark(field schema.FieldSchema) string {
	if field.Required {
		return `<span class="required" aria-hidden="true">*</span>`
	}
	return ""
}

func controlID(name string) string {
	return "field-" + strings.ReplaceAll(name, ".", "-")
}

func scalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprintf("%v", value)
}

func floatAttr(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
