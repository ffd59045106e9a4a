package render

import (
	"io/fs"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-storeadmin/pkg/entity"
	"github.com/goliatone/go-storeadmin/pkg/render/template"
)

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithEngine replaces the template engine. The engine must know the page
// templates listed in Templates.
func WithEngine(engine template.Renderer) Option {
	return func(d *Dashboard) {
		if engine != nil {
			d.engine = engine
		}
	}
}

// WithTemplates shadows embedded page templates with files from fsys.
func WithTemplates(fsys fs.FS) Option {
	return func(d *Dashboard) {
		if fsys != nil {
			d.overrides = append(d.overrides, fsys)
		}
	}
}

// WithCatalog sets the catalog the navigation is built from.
func WithCatalog(catalog *entity.Catalog) Option {
	return func(d *Dashboard) {
		if catalog != nil {
			d.catalog = catalog
		}
	}
}

// WithTheme applies a resolved go-theme configuration.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(d *Dashboard) {
		if cfg != nil {
			d.theme = ThemeFromConfig(cfg)
		}
	}
}

// WithBrand sets the product name shown in the header and page titles.
func WithBrand(brand string) Option {
	return func(d *Dashboard) {
		if trimmed := strings.TrimSpace(brand); trimmed != "" {
			d.brand = trimmed
		}
	}
}

// WithAPIBase sets the public API origin printed in the API reference.
func WithAPIBase(base string) Option {
	return func(d *Dashboard) {
		d.apiBase = strings.TrimRight(strings.TrimSpace(base), "/")
	}
}
