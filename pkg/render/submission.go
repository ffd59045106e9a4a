package render

import (
	"net/http"
	"net/url"
	"strings"
)

// MethodOverrideField carries the real verb of a form that browsers can only
// submit as POST.
const MethodOverrideField = "_method"

// HiddenField is a hidden input rendered alongside the visible fields.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// MethodFields returns the hidden inputs a form needs to reach method.
// GET and POST need none.
func MethodFields(method string) []HiddenField {
	method = strings.ToUpper(strings.TrimSpace(method))
	if !tunnelled(method) {
		return nil
	}
	return []HiddenField{{Name: MethodOverrideField, Value: method}}
}

// RequestMethod resolves the method a posted form asked for. Only PATCH,
// PUT and DELETE may be tunnelled through POST.
func RequestMethod(method string, form url.Values) string {
	if method != http.MethodPost {
		return method
	}
	if override := strings.ToUpper(strings.TrimSpace(form.Get(MethodOverrideField))); tunnelled(override) {
		return override
	}
	return method
}

func tunnelled(method string) bool {
	switch method {
	case http.MethodPatch, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}
