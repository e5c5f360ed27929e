package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/steward/internal/catalog"
	"github.com/JaimeStill/steward/pkg/validation"
)

func TestParseFormFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"malformed", `{"title": "x", "fields": [`},
		{"no fields", `{"title":"Laptop","fields":[]}`},
		{"wrong shape", `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := catalog.ParseForm([]byte(tt.raw))
			assert.Equal(t, catalog.DefaultForm(), f)
			assert.Equal(t, "Service Request", f.Title)
			require.Len(t, f.Fields, 1)
			assert.Equal(t, "description", f.Fields[0].Name)
			assert.Equal(t, "Description", f.Fields[0].Label)
			assert.Equal(t, catalog.FieldTextarea, f.Fields[0].Type)
			assert.True(t, f.Fields[0].Required)
		})
	}
}

func TestParseForm(t *testing.T) {
	raw := `{"title":"Laptop","fields":[{"name":"model","label":"Model","type":"select","required":true,"options":["13in","15in"]}]}`

	f := catalog.ParseForm([]byte(raw))

	assert.Equal(t, "Laptop", f.Title)
	require.Len(t, f.Fields, 1)
	assert.Equal(t, []string{"13in", "15in"}, f.Fields[0].Options)
}

func TestFormValidate(t *testing.T) {
	tests := []struct {
		name   string
		form   catalog.Form
		fields []string
	}{
		{
			name: "valid",
			form: catalog.Form{Title: "Access", Fields: []catalog.Field{
				{Name: "system", Type: catalog.FieldText, Required: true},
				{Name: "level", Type: catalog.FieldSelect, Options: []string{"read", "write"}},
			}},
		},
		{
			name:   "no fields",
			form:   catalog.Form{Title: "Empty"},
			fields: []string{"form.fields"},
		},
		{
			name: "duplicate names",
			form: catalog.Form{Fields: []catalog.Field{
				{Name: "a", Type: catalog.FieldText},
				{Name: "a", Type: catalog.FieldNumber},
			}},
			fields: []string{"form.fields[1].name"},
		},
		{
			name: "blank name and unknown type",
			form: catalog.Form{Fields: []catalog.Field{
				{Name: " ", Type: "slider"},
			}},
			fields: []string{"form.fields[0].name", "form.fields[0].type"},
		},
		{
			name: "select without options",
			form: catalog.Form{Fields: []catalog.Field{
				{Name: "size", Type: catalog.FieldSelect},
			}},
			fields: []string{"form.fields[0].options"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}

			var verr *validation.Error
			require.ErrorAs(t, err, &verr)
			for _, f := range tt.fields {
				assert.Contains(t, verr.Fields, f)
			}
			assert.Len(t, verr.Fields, len(tt.fields))
		})
	}
}

func TestFormCheckData(t *testing.T) {
	form := catalog.Form{Fields: []catalog.Field{
		{Name: "reason", Type: catalog.FieldTextarea, Required: true},
		{Name: "count", Type: catalog.FieldNumber},
		{Name: "urgent", Type: catalog.FieldCheckbox},
		{Name: "needed_by", Type: catalog.FieldDate},
		{Name: "contact", Type: catalog.FieldEmail},
		{Name: "size", Type: catalog.FieldSelect, Options: []string{"S", "M", "L"}},
	}}

	tests := []struct {
		name   string
		data   map[string]any
		fields []string
	}{
		{
			name: "all valid",
			data: map[string]any{
				"reason":    "new hire",
				"count":     float64(2),
				"urgent":    true,
				"needed_by": "2026-11-02",
				"contact":   "ops@example.com",
				"size":      "M",
			},
		},
		{
			name: "numeric string accepted",
			data: map[string]any{"reason": "x", "count": "3.5"},
		},
		{
			name:   "required missing",
			data:   map[string]any{},
			fields: []string{"reason"},
		},
		{
			name:   "required blank",
			data:   map[string]any{"reason": "   "},
			fields: []string{"reason"},
		},
		{
			name: "type mismatches",
			data: map[string]any{
				"reason":    "x",
				"count":     "many",
				"urgent":    "yes",
				"needed_by": "11/02/2026",
				"contact":   "not-an-email",
				"size":      "XL",
			},
			fields: []string{"count", "urgent", "needed_by", "contact", "size"},
		},
		{
			name:   "unknown key",
			data:   map[string]any{"reason": "x", "color": "red"},
			fields: []string{"color"},
		},
		{
			name: "optional null",
			data: map[string]any{"reason": "x", "contact": nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := form.CheckData(tt.data)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}

			var verr *validation.Error
			require.ErrorAs(t, err, &verr)
			assert.Len(t, verr.Fields, len(tt.fields))
			for _, f := range tt.fields {
				assert.Contains(t, verr.Fields, f)
			}
		})
	}
}
