package model

import (
	"strings"
	"time"
)

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
)

const (
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
)

// ValidationRule represents a single validation constraint applied to a field.
// Numeric bounds and length limits encode their threshold in Params["value"]
// while pattern rules preserve the original expression in Params["pattern"].
type ValidationRule struct {
	Kind   string            `json:"kind" yaml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// MinLength builds a minLength rule.
func MinLength(n int) ValidationRule {
	return ValidationRule{Kind: ValidationRuleMinLength, Params: map[string]string{"value": itoa(n)}}
}

// MaxLength builds a maxLength rule.
func MaxLength(n int) ValidationRule {
	return ValidationRule{Kind: ValidationRuleMaxLength, Params: map[string]string{"value": itoa(n)}}
}

// Min builds a numeric lower bound.
func Min(n float64) ValidationRule {
	return ValidationRule{Kind: ValidationRuleMin, Params: map[string]string{"value": ftoa(n)}}
}

// Max builds a numeric upper bound.
func Max(n float64) ValidationRule {
	return ValidationRule{Kind: ValidationRuleMax, Params: map[string]string{"value": ftoa(n)}}
}

// Pattern builds a regular expression rule.
func Pattern(expr string) ValidationRule {
	return ValidationRule{Kind: ValidationRulePattern, Params: map[string]string{"pattern": expr}}
}

// Relationship points a field at another entity kind whose records provide the
// selectable options. Value is always the related record id; LabelField names
// the related value shown to the user.
type Relationship struct {
	Kind       string `json:"kind" yaml:"kind"`
	LabelField string `json:"labelField,omitempty" yaml:"labelField,omitempty"`
}

// Field models an individual input inside an entity form.
type Field struct {
	Name         string           `json:"name" yaml:"name"`
	Type         FieldType        `json:"type" yaml:"type"`
	Required     bool             `json:"required" yaml:"required"`
	Label        string           `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder  string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description  string           `json:"description,omitempty" yaml:"description,omitempty"`
	Default      any              `json:"default,omitempty" yaml:"default,omitempty"`
	Validations  []ValidationRule `json:"validations,omitempty" yaml:"validations,omitempty"`
	Relationship *Relationship    `json:"relationship,omitempty" yaml:"relationship,omitempty"`
}

// DisplayLabel returns the configured label or one derived from the name.
func (f Field) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return HumanLabel(f.Name)
}

// FormModel is the schema of one entity form: the ordered field set plus the
// entity it belongs to. It is fixed per entity type.
type FormModel struct {
	Entity      string  `json:"entity"`
	Summary     string  `json:"summary,omitempty"`
	Description string  `json:"description,omitempty"`
	Fields      []Field `json:"fields"`
}

// Field looks up a field by name.
func (f FormModel) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// FieldNames returns the field names in declaration order.
func (f FormModel) FieldNames() []string {
	names := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		names = append(names, field.Name)
	}
	return names
}

// Clone returns a deep copy so catalog definitions can be customised without
// sharing slices.
func (f FormModel) Clone() FormModel {
	out := f
	out.Fields = make([]Field, len(f.Fields))
	for i, field := range f.Fields {
		clone := field
		if len(field.Validations) > 0 {
			clone.Validations = make([]ValidationRule, len(field.Validations))
			for j, rule := range field.Validations {
				clone.Validations[j] = ValidationRule{Kind: rule.Kind, Params: cloneParams(rule.Params)}
			}
		}
		if field.Relationship != nil {
			rel := *field.Relationship
			clone.Relationship = &rel
		}
		out.Fields[i] = clone
	}
	return out
}

// Record is one persisted entity instance. Records are treated as immutable;
// writes produce a new Record rather than mutating the loaded one. On the
// wire a record is a flat JSON object holding id, createdAt, updatedAt and
// the entity values side by side.
type Record struct {
	ID        string
	Values    map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Value returns the value stored under name.
func (r Record) Value(name string) (any, bool) {
	if r.Values == nil {
		return nil, false
	}
	v, ok := r.Values[name]
	return v, ok
}

// Clone returns a copy that does not share the values map.
func (r Record) Clone() Record {
	out := r
	out.Values = CloneValues(r.Values)
	return out
}

// CloneValues copies a flat value map.
func CloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func cloneParams(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
