package parser_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-storeadmin/internal/openapi/parser"
	"github.com/goliatone/go-storeadmin/pkg/entity"
	"github.com/goliatone/go-storeadmin/pkg/model"
	pkgopenapi "github.com/goliatone/go-storeadmin/pkg/openapi"
)

type fieldShape struct {
	Name         string
	Type         model.FieldType
	Required     bool
	Validations  []model.ValidationRule
	Relationship *model.Relationship
}

func shapes(form model.FormModel) []fieldShape {
	out := make([]fieldShape, 0, len(form.Fields))
	for _, f := range form.Fields {
		out = append(out, fieldShape{
			Name:         f.Name,
			Type:         f.Type,
			Required:     f.Required,
			Validations:  f.Validations,
			Relationship: f.Relationship,
		})
	}
	return out
}

func parseEmbedded(t *testing.T) map[string]model.FormModel {
	t.Helper()
	p := parser.New(pkgopenapi.NewParseConfig())
	forms, err := p.Forms(context.Background(), pkgopenapi.StoreAPI())
	if err != nil {
		t.Fatalf("parse embedded document: %v", err)
	}
	return forms
}

func TestEmbeddedDocumentMatchesCatalog(t *testing.T) {
	forms := parseEmbedded(t)
	catalog := entity.Default()

	want := []string{"billboards", "categories", "colors", "products", "sizes", "stores"}
	var got []string
	for _, plural := range want {
		if _, ok := forms[plural]; ok {
			got = append(got, plural)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("collections mismatch (-want +got):\n%s", diff)
	}
	if len(forms) != len(want) {
		t.Fatalf("unexpected extra collections: %d", len(forms))
	}

	for plural, form := range forms {
		def, ok := catalog.LookupPlural(plural)
		if !ok {
			t.Fatalf("catalog has no entity for %q", plural)
		}
		if diff := cmp.Diff(shapes(def.Form), shapes(form)); diff != "" {
			t.Errorf("%s schema drift (-catalog +document):\n%s", plural, diff)
		}
	}
}

func TestFormsReadsLabelsAndRelationships(t *testing.T) {
	forms := parseEmbedded(t)

	category := forms["categories"]
	field, ok := category.Field("billboardId")
	if !ok {
		t.Fatalf("billboardId missing")
	}
	if field.Label != "Billboard" {
		t.Fatalf("label = %q", field.Label)
	}
	if diff := cmp.Diff(&model.Relationship{Kind: "billboard", LabelField: "label"}, field.Relationship); diff != "" {
		t.Fatalf("relationship mismatch (-want +got):\n%s", diff)
	}

	product := forms["products"]
	featured, _ := product.Field("isFeatured")
	if featured.Default != false || featured.Type != model.FieldTypeBoolean {
		t.Fatalf("isFeatured = %+v", featured)
	}
}

func TestFormsOrdersUnlistedFieldsByName(t *testing.T) {
	const document = `openapi: 3.0.3
info: {title: Test, version: "1"}
paths:
  /api/{storeId}/widgets:
    parameters:
      - {name: storeId, in: path, required: true, schema: {type: string}}
    post:
      requestBody:
        content:
          application/json:
            schema:
              type: object
              x-field-order: [zeta]
              properties:
                zeta: {type: string}
                beta: {type: integer, maximum: 9}
                alpha: {type: string, maxLength: 3}
      responses:
        "201": {description: created}
`
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFS("widgets.yaml"), []byte(document))
	forms, err := parser.New(pkgopenapi.NewParseConfig()).Forms(context.Background(), doc)
	if err != nil {
		t.Fatalf("forms: %v", err)
	}
	widgets := forms["widgets"]
	if diff := cmp.Diff([]string{"zeta", "alpha", "beta"}, widgets.FieldNames()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	beta, _ := widgets.Field("beta")
	if beta.Type != model.FieldTypeInteger || len(beta.Validations) != 1 || beta.Validations[0].Kind != model.ValidationRuleMax {
		t.Fatalf("beta = %+v", beta)
	}
}

func TestFormsRejectsEmptyDocument(t *testing.T) {
	const document = `openapi: 3.0.3
info: {title: Empty, version: "1"}
paths: {}
`
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFS("empty.yaml"), []byte(document))
	if _, err := parser.New(pkgopenapi.NewParseConfig()).Forms(context.Background(), doc); err == nil {
		t.Fatalf("expected error for document without paths")
	}
	partial := parser.New(pkgopenapi.NewParseConfig(pkgopenapi.WithPartialDocuments(true)))
	forms, err := partial.Forms(context.Background(), doc)
	if err != nil || len(forms) != 0 {
		t.Fatalf("partial forms = %v, %v", forms, err)
	}
}
