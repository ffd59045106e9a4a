// Package validation checks entity form values against their schema before
// anything is sent over the network. The same rules run in the controller,
// the API server, and the dashboard so all three agree on what is valid.
package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-storeadmin/pkg/model"
)

// Result captures validation outcomes. Fields holds one entry per violated
// field; Values holds the submitted values coerced to their schema types.
type Result struct {
	Fields map[string][]string
	Values map[string]any
}

// Valid reports whether every field satisfied its rules.
func (r Result) Valid() bool {
	return len(r.Fields) == 0
}

// FieldNames returns the violated field names in sorted order.
func (r Result) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Error renders the violations as a single line.
func (r Result) Error() string {
	if r.Valid() {
		return ""
	}
	parts := make([]string, 0, len(r.Fields))
	for _, name := range r.FieldNames() {
		parts = append(parts, fmt.Sprintf("%s %s", name, strings.Join(r.Fields[name], ", ")))
	}
	return "validation: " + strings.Join(parts, "; ")
}

// Validate checks values against every field of form. Values for fields not
// declared in the schema are dropped from Result.Values. A missing value is
// treated as the field's empty default.
func Validate(form model.FormModel, values map[string]any) Result {
	result := Result{
		Fields: make(map[string][]string),
		Values: make(map[string]any, len(form.Fields)),
	}

	for _, field := range form.Fields {
		raw, ok := values[field.Name]
		if !ok || raw == nil {
			raw = model.EmptyDefault(field)
		}
		coerced, err := Coerce(field, raw)
		if err != nil {
			result.Fields[field.Name] = []string{err.Error()}
			result.Values[field.Name] = raw
			continue
		}
		result.Values[field.Name] = coerced
		if err := check(field, coerced); err != nil {
			result.Fields[field.Name] = []string{err.Error()}
		}
	}

	if len(result.Fields) == 0 {
		result.Fields = nil
	}
	return result
}

func check(field model.Field, value any) error {
	r := compile(field)
	switch field.Type {
	case model.FieldTypeInteger:
		return r.validateNumber(float64(value.(int64)))
	case model.FieldTypeNumber:
		return r.validateNumber(value.(float64))
	case model.FieldTypeBoolean:
		return nil
	default:
		s := value.(string)
		if !r.required && isBlank(s) {
			return nil
		}
		return r.validateString(s)
	}
}

// Coerce converts raw input (typically strings from an HTML form or a prompt)
// into the Go type matching the field: string, int64, float64, or bool.
func Coerce(field model.Field, raw any) (any, error) {
	switch field.Type {
	case model.FieldTypeInteger:
		return coerceInt(field, raw)
	case model.FieldTypeNumber:
		return coerceFloat(field, raw)
	case model.FieldTypeBoolean:
		return coerceBool(raw)
	default:
		switch v := raw.(type) {
		case string:
			return v, nil
		case []string:
			if len(v) == 0 {
				return "", nil
			}
			return v[0], nil
		default:
			return fmt.Sprint(v), nil
		}
	}
}

func coerceFloat(field model.Field, raw any) (any, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			if field.Required {
				return nil, errRequired
			}
			return float64(0), nil
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, fmt.Errorf("must be a number")
		}
		return f, nil
	default:
		return nil, fmt.Errorf("must be a number")
	}
}

func coerceInt(field model.Field, raw any) (any, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		if v != float64(int64(v)) {
			return nil, fmt.Errorf("must be a whole number")
		}
		return int64(v), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			if field.Required {
				return nil, errRequired
			}
			return int64(0), nil
		}
		i, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("must be a whole number")
		}
		return i, nil
	default:
		return nil, fmt.Errorf("must be a whole number")
	}
}

func coerceBool(raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "on":
			return true, nil
		case "", "false", "0", "no", "off":
			return false, nil
		}
	case []string:
		// Checkbox inputs paired with a hidden "false" post both values.
		for _, item := range v {
			if b, err := coerceBool(item); err == nil && b.(bool) {
				return true, nil
			}
		}
		return false, nil
	}
	return nil, fmt.Errorf("must be true or false")
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
