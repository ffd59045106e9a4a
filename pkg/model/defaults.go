package model

import (
	"strconv"
)

// EmptyDefault returns the value a fresh form shows for a field: the declared
// Default when present, otherwise the zero value of the field type ("" for
// text, 0 for numbers, false for booleans).
func EmptyDefault(field Field) any {
	if field.Default != nil {
		return field.Default
	}
	switch field.Type {
	case FieldTypeInteger:
		return int64(0)
	case FieldTypeNumber:
		return float64(0)
	case FieldTypeBoolean:
		return false
	default:
		return ""
	}
}

// DefaultValues seeds a value map for create mode.
func DefaultValues(form FormModel) map[string]any {
	values := make(map[string]any, len(form.Fields))
	for _, field := range form.Fields {
		values[field.Name] = EmptyDefault(field)
	}
	return values
}

// ValuesFromRecord seeds a value map for edit mode. Only schema fields are
// copied; fields missing from the record fall back to their empty default.
func ValuesFromRecord(form FormModel, record Record) map[string]any {
	values := make(map[string]any, len(form.Fields))
	for _, field := range form.Fields {
		if v, ok := record.Value(field.Name); ok && v != nil {
			values[field.Name] = v
			continue
		}
		values[field.Name] = EmptyDefault(field)
	}
	return values
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func ftoa(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
