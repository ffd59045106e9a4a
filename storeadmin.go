// Package storeadmin wires the public packages together for callers that
// want the store dashboard without assembling it piece by piece.
package storeadmin

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	internalLoader "github.com/goliatone/go-storeadmin/internal/openapi/loader"
	internalParser "github.com/goliatone/go-storeadmin/internal/openapi/parser"
	"github.com/goliatone/go-storeadmin/pkg/entity"
	"github.com/goliatone/go-storeadmin/pkg/model"
	pkgopenapi "github.com/goliatone/go-storeadmin/pkg/openapi"
	"github.com/goliatone/go-storeadmin/pkg/render"
)

// NewLoader constructs a loader using the internal implementation while
// keeping the concrete type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	return internalLoader.New(pkgopenapi.NewLoadConfig(options...))
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	return internalParser.New(pkgopenapi.NewParseConfig(options...))
}

// EmbeddedTemplates exposes the built-in dashboard templates so callers can
// copy or extend them.
func EmbeddedTemplates() fs.FS {
	return render.Templates()
}

// NewCatalog returns the built-in entity catalog with the override files in
// dir applied. An empty dir yields the built-ins.
func NewCatalog(dir string) (*entity.Catalog, error) {
	catalog := entity.Default()
	if strings.TrimSpace(dir) == "" {
		return catalog, nil
	}
	overrides, err := entity.LoadOverrides(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	if err := catalog.Apply(overrides); err != nil {
		return nil, err
	}
	return catalog, nil
}

// Drift is one disagreement between an API document and the catalog.
type Drift struct {
	Collection string
	Field      string
	Problem    string
}

func (d Drift) String() string {
	if d.Field == "" {
		return d.Collection + ": " + d.Problem
	}
	return d.Collection + "." + d.Field + ": " + d.Problem
}

// CheckDocument parses doc and reports where its request schemas disagree
// with the catalog forms. The results come back sorted.
func CheckDocument(ctx context.Context, doc pkgopenapi.Document, catalog *entity.Catalog, options ...pkgopenapi.ParserOption) ([]Drift, error) {
	if catalog == nil {
		catalog = entity.Default()
	}
	forms, err := NewParser(options...).Forms(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("storeadmin: parse %s: %w", doc.Location(), err)
	}

	var drift []Drift
	for plural, form := range forms {
		def, ok := catalog.LookupPlural(plural)
		if !ok {
			drift = append(drift, Drift{Collection: plural, Problem: "no entity serves this collection"})
			continue
		}
		drift = append(drift, compareForms(plural, def.Form, form)...)
	}
	for _, def := range catalog.Scoped() {
		if def.ReadOnly || def.EditOnly {
			continue
		}
		if _, ok := forms[def.Plural]; !ok {
			drift = append(drift, Drift{Collection: def.Plural, Problem: "missing from document"})
		}
	}

	sort.Slice(drift, func(i, j int) bool {
		a, b := drift[i], drift[j]
		if a.Collection != b.Collection {
			return a.Collection < b.Collection
		}
		if a.Field != b.Field {
			return a.Field < b.Field
		}
		return a.Problem < b.Problem
	})
	return drift, nil
}

func compareForms(plural string, want, got model.FormModel) []Drift {
	var out []Drift
	for _, field := range want.Fields {
		other, ok := got.Field(field.Name)
		if !ok {
			out = append(out, Drift{Collection: plural, Field: field.Name, Problem: "missing from document"})
			continue
		}
		if other.Type != field.Type {
			out = append(out, Drift{Collection: plural, Field: field.Name, Problem: fmt.Sprintf("type %s, catalog has %s", other.Type, field.Type)})
		}
		if other.Required != field.Required {
			out = append(out, Drift{Collection: plural, Field: field.Name, Problem: fmt.Sprintf("required=%t, catalog has %t", other.Required, field.Required)})
		}
		if relKind(other) != relKind(field) {
			out = append(out, Drift{Collection: plural, Field: field.Name, Problem: fmt.Sprintf("relationship %q, catalog has %q", relKind(other), relKind(field))})
		}
	}
	for _, field := range got.Fields {
		if _, ok := want.Field(field.Name); !ok {
			out = append(out, Drift{Collection: plural, Field: field.Name, Problem: "not in catalog"})
		}
	}
	return out
}

func relKind(field model.Field) string {
	if field.Relationship == nil {
		return ""
	}
	return field.Relationship.Kind
}
