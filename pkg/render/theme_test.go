package render_test

import (
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-storeadmin/pkg/render"
)

func TestThemeConfig_MergesVariant(t *testing.T) {
	cfg, err := render.ThemeConfig(render.DefaultManifest(), "dark")
	if err != nil {
		t.Fatalf("theme config: %v", err)
	}
	if cfg.Theme != "storeadmin" || cfg.Variant != "dark" {
		t.Fatalf("unexpected selection %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.CSSVars["--background"] != "#0a0a0a" {
		t.Fatalf("variant token not applied: %q", cfg.CSSVars["--background"])
	}
	if cfg.CSSVars["--destructive"] != "#dc2626" {
		t.Fatalf("base token lost: %q", cfg.CSSVars["--destructive"])
	}

	flat := render.ThemeFromConfig(cfg)
	if !strings.HasPrefix(flat.CSS, ":root {\n") || !strings.Contains(flat.CSS, "--background: #0a0a0a;") {
		t.Fatalf("unexpected css %q", flat.CSS)
	}
}

func TestThemeConfig_UnknownVariant(t *testing.T) {
	if _, err := render.ThemeConfig(render.DefaultManifest(), "sepia"); err == nil {
		t.Fatalf("expected unknown variant error")
	}
}

func TestParseManifest_YAMLWithStylesheet(t *testing.T) {
	manifest, err := render.ParseManifest([]byte(`
name: acme
tokens:
  primary: "#123456"
  evil: "red;} body{display:none"
stylesheet: /assets/acme.css
variants:
  dark:
    primary: "#654321"
`), "acme.yaml")
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}

	cfg, err := render.ThemeConfig(manifest, "dark")
	if err != nil {
		t.Fatalf("theme config: %v", err)
	}
	if cfg.CSSVars["--primary"] != "#654321" {
		t.Fatalf("variant not applied: %q", cfg.CSSVars["--primary"])
	}
	if _, ok := cfg.CSSVars["--evil"]; ok {
		t.Fatalf("unsafe token must not become a css var")
	}
	if got := render.ThemeFromConfig(cfg).Stylesheet; got != "/assets/acme.css" {
		t.Fatalf("unexpected stylesheet %q", got)
	}
}

func TestParseManifest_Rejects(t *testing.T) {
	for name, data := range map[string]string{
		"empty":   "  ",
		"no name": `{"tokens": {"primary": "#000"}}`,
		"garbage": "::: not yaml :::",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := render.ParseManifest([]byte(data), name); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestSelectTheme(t *testing.T) {
	acme := &theme.Manifest{Name: "acme", Version: "1.0.0", Tokens: map[string]string{"primary": "#123456"}}
	set := render.NewThemeSet(acme, render.DefaultManifest(), nil)

	if diff := cmp.Diff([]string{"acme", "storeadmin"}, set.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	cfg, err := render.SelectTheme(set, "", "")
	if err != nil {
		t.Fatalf("select default: %v", err)
	}
	if cfg.Theme != "acme" || cfg.CSSVars["--primary"] != "#123456" {
		t.Fatalf("empty name should select the first theme, got %+v", cfg)
	}

	cfg, err = render.SelectTheme(set, "storeadmin", "dark")
	if err != nil {
		t.Fatalf("select dark: %v", err)
	}
	if cfg.Variant != "dark" || cfg.CSSVars["--background"] != "#0a0a0a" {
		t.Fatalf("unexpected dark config %+v", cfg)
	}

	if _, err := render.SelectTheme(set, "missing", ""); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
	if _, err := render.SelectTheme(set, "acme", "dark"); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
	if _, err := render.SelectTheme(stubSelector{}, "any", ""); err == nil {
		t.Fatalf("expected error for empty selection")
	}
}

type stubSelector struct {
	selection *theme.Selection
}

func (s stubSelector) Select(_, _ string, _ ...theme.QueryOption) (*theme.Selection, error) {
	return s.selection, nil
}
