package render

import (
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-storeadmin/pkg/model"
)

// ErrorMapping is a server error payload split between form fields and the
// banner above the form.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors appends extras to existing, trimmed and without repeats.
func MergeFormErrors(existing []string, extras ...string) []string {
	return cleanMessages(append(slices.Clone(existing), extras...))
}

// MapErrorPayload attaches server messages to the fields of form. A key may
// be the field name ("imageUrl"), its column ("image_url"), a JSON pointer
// ("/body/imageUrl") or a dotted path ("data[0].imageUrl"). Keys naming no
// field land in Form. Keys are visited in sorted order so the result is
// stable.
func MapErrorPayload(form model.FormModel, payload map[string][]string) ErrorMapping {
	var mapping ErrorMapping
	if len(payload) == 0 {
		return mapping
	}

	names := fieldNames(form)
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		messages := cleanMessages(payload[key])
		if len(messages) == 0 {
			continue
		}
		name, ok := resolveKey(key, names)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[name] = cleanMessages(append(mapping.Fields[name], messages...))
	}
	mapping.Form = cleanMessages(mapping.Form)
	return mapping
}

// envelopeSegments wrap the field name in payloads from other frameworks.
var envelopeSegments = map[string]bool{
	"body": true, "request": true, "payload": true, "data": true, "errors": true,
}

// formKeys address the whole form rather than a field.
var formKeys = map[string]bool{
	"form": true, "error": true, "__all__": true, "non_field_errors": true, "non-field-errors": true,
}

// resolveKey walks the segments of key past envelopes and array indexes
// and looks the first remaining one up in names.
func resolveKey(key string, names map[string]string) (string, bool) {
	segments := strings.FieldsFunc(key, func(r rune) bool {
		switch r {
		case '.', '/', '[', ']', '#', '$':
			return true
		}
		return false
	})
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		segment = strings.NewReplacer("~1", "/", "~0", "~").Replace(segment)
		lower := strings.ToLower(segment)
		if _, err := strconv.Atoi(segment); segment == "" || err == nil || envelopeSegments[lower] {
			continue
		}
		if formKeys[lower] {
			return "", false
		}
		name, ok := names[segment]
		return name, ok
	}
	return "", false
}

// fieldNames indexes every field under its name and its column.
func fieldNames(form model.FormModel) map[string]string {
	out := make(map[string]string, 2*len(form.Fields))
	for _, field := range form.Fields {
		if field.Name == "" {
			continue
		}
		out[field.Name] = field.Name
		out[model.ColumnName(field.Name)] = field.Name
	}
	return out
}

// cleanMessages trims messages and drops blanks and repeats, keeping order.
// It returns nil when nothing is left.
func cleanMessages(messages []string) []string {
	var out []string
	for _, message := range messages {
		message = strings.TrimSpace(message)
		if message != "" && !slices.Contains(out, message) {
			out = append(out, message)
		}
	}
	return out
}
