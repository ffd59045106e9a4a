package render

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// Page template names.
const (
	TemplateForm     = "form"
	TemplateTable    = "table"
	TemplateOverview = "overview"
	TemplateSetup    = "setup"
	TemplateError    = "error"
)

// Templates returns the embedded page templates.
func Templates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
