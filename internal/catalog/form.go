package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/JaimeStill/steward/pkg/validation"
)

// Field types accepted in a form definition.
const (
	FieldText     = "text"
	FieldTextarea = "textarea"
	FieldNumber   = "number"
	FieldSelect   = "select"
	FieldCheckbox = "checkbox"
	FieldDate     = "date"
	FieldEmail    = "email"
)

var fieldTypes = map[string]bool{
	FieldText:     true,
	FieldTextarea: true,
	FieldNumber:   true,
	FieldSelect:   true,
	FieldCheckbox: true,
	FieldDate:     true,
	FieldEmail:    true,
}

// Field is a single input of a catalog item's request form.
type Field struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Options     []string `json:"options,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// Form is the definition a client renders to collect a ticket's form data.
type Form struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// DefaultForm is served when an item's stored form cannot be used.
func DefaultForm() Form {
	return Form{
		Title: "Service Request",
		Fields: []Field{
			{
				Name:     "description",
				Label:    "Description",
				Type:     FieldTextarea,
				Required: true,
			},
		},
	}
}

// ParseForm decodes stored form JSON. Empty or malformed input, or a form
// without fields, yields DefaultForm.
func ParseForm(raw []byte) Form {
	if len(raw) == 0 {
		return DefaultForm()
	}

	var f Form
	if err := json.Unmarshal(raw, &f); err != nil || len(f.Fields) == 0 {
		return DefaultForm()
	}
	return f
}

// Validate checks a form definition strictly: every field needs a unique
// name and a known type, and select fields need options.
func (f Form) Validate() error {
	fields := make(map[string]string)

	if len(f.Fields) == 0 {
		fields["form.fields"] = "must contain at least one field"
	}

	seen := make(map[string]bool, len(f.Fields))
	for i, field := range f.Fields {
		key := fmt.Sprintf("form.fields[%d]", i)
		name := strings.TrimSpace(field.Name)

		switch {
		case name == "":
			fields[key+".name"] = "is required"
		case seen[name]:
			fields[key+".name"] = "duplicates " + strconv.Quote(name)
		}
		seen[name] = true

		if !fieldTypes[field.Type] {
			fields[key+".type"] = "must be one of: text textarea number select checkbox date email"
		}

		if field.Type == FieldSelect && len(field.Options) == 0 {
			fields[key+".options"] = "are required for select fields"
		}
	}

	if len(fields) > 0 {
		return &validation.Error{Fields: fields}
	}
	return nil
}

// CheckData validates submitted form data against the form. Required fields
// must be present and non-empty, values must match their field type, and
// keys not defined by the form are rejected.
func (f Form) CheckData(data map[string]any) error {
	fields := make(map[string]string)
	defined := make(map[string]Field, len(f.Fields))

	for _, field := range f.Fields {
		defined[field.Name] = field

		value, ok := data[field.Name]
		if !ok || isEmpty(value) {
			if field.Required {
				fields[field.Name] = "is required"
			}
			continue
		}

		if msg := checkValue(field, value); msg != "" {
			fields[field.Name] = msg
		}
	}

	for key := range data {
		if _, ok := defined[key]; !ok {
			fields[key] = "is not a field of this form"
		}
	}

	if len(fields) > 0 {
		return &validation.Error{Fields: fields}
	}
	return nil
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

func checkValue(field Field, value any) string {
	switch field.Type {
	case FieldNumber:
		switch v := value.(type) {
		case float64, int, int64, json.Number:
			return ""
		case string:
			if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return ""
			}
		}
		return "must be a number"

	case FieldCheckbox:
		if _, ok := value.(bool); !ok {
			return "must be true or false"
		}

	case FieldDate:
		s, ok := value.(string)
		if !ok {
			return "must be a date (YYYY-MM-DD)"
		}
		if _, err := time.Parse(time.DateOnly, s); err != nil {
			return "must be a date (YYYY-MM-DD)"
		}

	case FieldEmail:
		s, ok := value.(string)
		if !ok || validation.Var(s, "email") != nil {
			return "must be a valid email address"
		}

	case FieldSelect:
		s, ok := value.(string)
		if !ok {
			return "must be one of the listed options"
		}
		for _, opt := range field.Options {
			if s == opt {
				return ""
			}
		}
		return "must be one of the listed options"

	default:
		if _, ok := value.(string); !ok {
			return "must be text"
		}
	}

	return ""
}
