package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// StylesheetAsset is the manifest asset key of the optional stylesheet.
const StylesheetAsset = "dashboard.stylesheet"

// Theme is the resolved look of the dashboard as the layout consumes it.
type Theme struct {
	Name       string `json:"name,omitempty"`
	Variant    string `json:"variant,omitempty"`
	CSS        string `json:"css,omitempty"`
	Stylesheet string `json:"stylesheet,omitempty"`
}

// DefaultManifest is the built-in neutral theme with a dark variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "storeadmin",
		Version: "1.0.0",
		Tokens: map[string]string{
			"background":  "#ffffff",
			"foreground":  "#0a0a0a",
			"muted":       "#737373",
			"border":      "#e5e5e5",
			"primary":     "#171717",
			"destructive": "#dc2626",
			"success":     "#16a34a",
			"radius":      "0.5rem",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"background": "#0a0a0a",
					"foreground": "#fafafa",
					"border":     "#262626",
					"primary":    "#fafafa",
				},
			},
		},
	}
}

// ThemeConfig resolves a manifest and variant into a renderer config. The
// manifest is checked by registering it with a go-theme registry first.
func ThemeConfig(manifest *theme.Manifest, variant string) (*theme.RendererConfig, error) {
	if manifest == nil {
		return nil, errors.New("render: theme manifest is nil")
	}
	registry := theme.NewRegistry()
	if err := registry.Register(manifest); err != nil {
		return nil, fmt.Errorf("render: register theme %q: %w", manifest.Name, err)
	}

	tokens := copyStrings(manifest.Tokens)
	files := copyStrings(manifest.Assets.Files)
	partials := copyStrings(manifest.Templates)
	prefix := manifest.Assets.Prefix

	variant = strings.TrimSpace(variant)
	if variant != "" {
		v, ok := manifest.Variants[variant]
		if !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", manifest.Name, variant)
		}
		mergeStrings(tokens, v.Tokens)
		mergeStrings(files, v.Assets.Files)
		mergeStrings(partials, v.Templates)
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		// Values end up inside a <style> element.
		if strings.ContainsAny(key+value, "<>{};") {
			continue
		}
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    manifest.Name,
		Variant:  variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if prefix == "" || strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
				return file
			}
			return path.Join(prefix, file)
		},
	}, nil
}

// SelectTheme asks a go-theme selector for a theme and resolves it.
func SelectTheme(selector theme.ThemeSelector, name, variant string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, errors.New("render: theme selector is nil")
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("render: select theme %q: %w", name, err)
	}
	if selection == nil || selection.Manifest == nil {
		return nil, fmt.Errorf("render: theme %q not found", name)
	}
	return ThemeConfig(selection.Manifest, selection.Variant)
}

// ThemeSet is a theme.ThemeSelector over a fixed list of manifests. An
// empty name selects the first one.
type ThemeSet struct {
	order     []string
	manifests map[string]*theme.Manifest
}

var _ theme.ThemeSelector = (*ThemeSet)(nil)

// NewThemeSet indexes manifests by name. Later manifests replace earlier
// ones with the same name but keep their position.
func NewThemeSet(manifests ...*theme.Manifest) *ThemeSet {
	set := &ThemeSet{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, m := range manifests {
		if m == nil || m.Name == "" {
			continue
		}
		if _, seen := set.manifests[m.Name]; !seen {
			set.order = append(set.order, m.Name)
		}
		set.manifests[m.Name] = m
	}
	return set
}

// Names lists the themes in the set.
func (s *ThemeSet) Names() []string {
	return append([]string(nil), s.order...)
}

func (s *ThemeSet) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		if len(s.order) == 0 {
			return nil, errors.New("render: no themes")
		}
		name = s.order[0]
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("render: unknown theme %q, have %s", name, strings.Join(s.order, ", "))
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// ThemeFromConfig flattens a renderer config for the layout template.
func ThemeFromConfig(cfg *theme.RendererConfig) Theme {
	if cfg == nil {
		return Theme{}
	}
	out := Theme{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		CSS:     cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		out.Stylesheet = cfg.AssetURL(StylesheetAsset)
	}
	return out
}

type themeFile struct {
	Name       string                       `json:"name" yaml:"name"`
	Version    string                       `json:"version" yaml:"version"`
	Tokens     map[string]string            `json:"tokens" yaml:"tokens"`
	Stylesheet string                       `json:"stylesheet" yaml:"stylesheet"`
	Variants   map[string]map[string]string `json:"variants" yaml:"variants"`
}

// ParseManifest reads a small JSON or YAML theme file:
//
//	name: acme
//	version: 1.0.0
//	tokens: {primary: "#123456"}
//	variants: {dark: {primary: "#654321"}}
func ParseManifest(data []byte, source string) (*theme.Manifest, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("render: theme %s is empty", source)
	}
	var doc themeFile
	if err := json.Unmarshal(data, &doc); err != nil {
		if yerr := yaml.Unmarshal(data, &doc); yerr != nil {
			return nil, fmt.Errorf("render: parse theme %s: invalid JSON or YAML", source)
		}
	}
	if strings.TrimSpace(doc.Name) == "" {
		return nil, fmt.Errorf("render: theme %s has no name", source)
	}

	manifest := &theme.Manifest{
		Name:    doc.Name,
		Version: doc.Version,
		Tokens:  doc.Tokens,
	}
	if manifest.Version == "" {
		manifest.Version = "0.0.0"
	}
	if doc.Stylesheet != "" {
		manifest.Assets = theme.Assets{Files: map[string]string{StylesheetAsset: doc.Stylesheet}}
	}
	if len(doc.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(doc.Variants))
		for name, tokens := range doc.Variants {
			manifest.Variants[name] = theme.Variant{Tokens: tokens}
		}
	}
	return manifest, nil
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func copyStrings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func mergeStrings(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}
