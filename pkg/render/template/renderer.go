package template

import "io"

// Renderer executes the dashboard's named templates. Page data is passed per
// call; brand and theme are shared through GlobalContext.
type Renderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}

// Parser renders inline template content, used for one-off snippets and
// template overrides under test.
type Parser interface {
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
}

// FilterRegistry accepts custom template filters such as currency.
type FilterRegistry interface {
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
}

// Engine is a Renderer that also parses inline content and takes filters.
type Engine interface {
	Renderer
	Parser
	FilterRegistry
}
