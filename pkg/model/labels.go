package model

import (
	"strings"
	"unicode"
)

// HumanLabel turns a field name into a label: "imageUrl" becomes
// "Image Url".
func HumanLabel(name string) string {
	parts := words(name)
	for i, w := range parts {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

// ColumnName is the storage column of a field: "imageUrl" becomes
// "image_url".
func ColumnName(name string) string {
	parts := words(name)
	for i, w := range parts {
		parts[i] = strings.ToLower(w)
	}
	return strings.Join(parts, "_")
}

// words splits name on separators, lower-to-upper case changes and
// letter/digit changes.
func words(name string) []string {
	var (
		out  []string
		cur  []rune
		prev rune
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
			prev = 0
			continue
		case len(cur) > 0 && unicode.IsLower(prev) && unicode.IsUpper(r),
			len(cur) > 0 && unicode.IsLetter(prev) != unicode.IsLetter(r) && (unicode.IsDigit(prev) || unicode.IsDigit(r)):
			flush()
		}
		cur = append(cur, r)
		prev = r
	}
	flush()
	return out
}
