// Package render builds the HTML pages of the store dashboard.
//
// Page builders (BuildForm, BuildTable, BuildOverview) turn controller
// snapshots and records into plain view models; Dashboard feeds those into
// a template engine. The default engine is pongo2 over the templates
// embedded in this package, which callers can shadow file by file:
//
//	pages, err := render.New(
//		render.WithTemplates(os.DirFS("./templates")),
//		render.WithAPIBase("https://shop.example.com"),
//	)
package render
