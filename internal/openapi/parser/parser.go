package parser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-storeadmin/pkg/model"
	pkgopenapi "github.com/goliatone/go-storeadmin/pkg/openapi"
)

// Parser implements pkgopenapi.Parser using kin-openapi.
type Parser struct {
	cfg pkgopenapi.ParseConfig
}

var _ pkgopenapi.Parser = (*Parser)(nil)

// New builds a Parser from a resolved config.
func New(cfg pkgopenapi.ParseConfig) *Parser {
	return &Parser{cfg: cfg}
}

// Forms converts every POST collection operation into a FormModel keyed by
// the entity plural.
func (p *Parser) Forms(ctx context.Context, doc pkgopenapi.Document) (map[string]model.FormModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: false,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}

	if spec.Paths == nil || spec.Paths.Len() == 0 {
		if !p.cfg.Partial {
			return nil, errors.New("openapi parser: document does not contain any paths")
		}
		return map[string]model.FormModel{}, nil
	}

	if p.cfg.Validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}

	forms := make(map[string]model.FormModel)
	for path, item := range spec.Paths.Map() {
		if item == nil || item.Post == nil {
			continue
		}
		plural := entityPlural(path)
		if plural == "" {
			continue
		}
		schema := requestSchema(item.Post.RequestBody)
		if schema == nil {
			return nil, fmt.Errorf("openapi parser: %s %s has no request schema", http.MethodPost, path)
		}
		form, err := convertObject(plural, schema)
		if err != nil {
			return nil, fmt.Errorf("openapi parser: %s %s: %w", http.MethodPost, path, err)
		}
		form.Summary = item.Post.Summary
		form.Description = item.Post.Description
		if _, exists := forms[plural]; exists {
			return nil, fmt.Errorf("openapi parser: duplicate collection %q", plural)
		}
		forms[plural] = form
	}

	if len(forms) == 0 && !p.cfg.Partial {
		return nil, errors.New("openapi parser: no collection operations found")
	}
	return forms, nil
}

// entityPlural returns the last static segment of path.
func entityPlural(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	last := segments[len(segments)-1]
	if last == "" || strings.HasPrefix(last, "{") {
		return ""
	}
	return last
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded"} {
		if mt, ok := body.Value.Content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func convertObject(plural string, schema *openapi3.Schema) (model.FormModel, error) {
	if t := firstSchemaType(schema.Type); t != "" && t != "object" {
		return model.FormModel{}, fmt.Errorf("request schema must be an object, got %q", t)
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	form := model.FormModel{Entity: plural}
	for _, name := range fieldOrder(schema) {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field, err := convertField(name, ref.Value, required[name])
		if err != nil {
			return model.FormModel{}, err
		}
		form.Fields = append(form.Fields, field)
	}
	return form, nil
}

// fieldOrder honours x-field-order and appends the remaining properties in
// name order.
func fieldOrder(schema *openapi3.Schema) []string {
	seen := make(map[string]bool, len(schema.Properties))
	var order []string
	if raw, ok := schema.Extensions[pkgopenapi.FieldOrderExtension].([]any); ok {
		for _, item := range raw {
			name, ok := item.(string)
			if !ok || seen[name] {
				continue
			}
			if _, exists := schema.Properties[name]; !exists {
				continue
			}
			seen[name] = true
			order = append(order, name)
		}
	}
	rest := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func convertField(name string, src *openapi3.Schema, required bool) (model.Field, error) {
	field := model.Field{
		Name:        name,
		Required:    required,
		Description: src.Description,
		Default:     src.Default,
		Label:       stringExtension(src.Extensions, pkgopenapi.LabelExtension),
		Placeholder: stringExtension(src.Extensions, pkgopenapi.PlaceholderExtension),
	}

	switch t := firstSchemaType(src.Type); t {
	case "string", "":
		field.Type = model.FieldTypeString
	case "integer":
		field.Type = model.FieldTypeInteger
	case "number":
		field.Type = model.FieldTypeNumber
	case "boolean":
		field.Type = model.FieldTypeBoolean
	default:
		return model.Field{}, fmt.Errorf("field %q: unsupported type %q", name, t)
	}

	if src.MinLength != 0 {
		field.Validations = append(field.Validations, model.MinLength(int(src.MinLength)))
	}
	if src.MaxLength != nil {
		field.Validations = append(field.Validations, model.MaxLength(int(*src.MaxLength)))
	}
	if src.Pattern != "" {
		field.Validations = append(field.Validations, model.Pattern(src.Pattern))
	}
	if src.Min != nil {
		field.Validations = append(field.Validations, model.Min(*src.Min))
	}
	if src.Max != nil {
		field.Validations = append(field.Validations, model.Max(*src.Max))
	}

	if rel := relationship(src.Extensions); rel != nil {
		field.Relationship = rel
	}
	return field, nil
}

func relationship(ext map[string]any) *model.Relationship {
	raw, ok := ext[pkgopenapi.RelationshipExtension].(map[string]any)
	if !ok {
		return nil
	}
	target, _ := raw["target"].(string)
	if target == "" {
		return nil
	}
	label, _ := raw["labelField"].(string)
	return &model.Relationship{Kind: target, LabelField: label}
}

func stringExtension(ext map[string]any, key string) string {
	if v, ok := ext[key].(string); ok {
		return v
	}
	return ""
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}
