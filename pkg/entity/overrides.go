package entity

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FieldOverride relabels a form field.
type FieldOverride struct {
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Override customises one entity without code changes. Empty values keep
// the built-in text.
type Override struct {
	Singular    string                   `json:"singular,omitempty" yaml:"singular,omitempty"`
	Title       string                   `json:"title,omitempty" yaml:"title,omitempty"`
	Description string                   `json:"description,omitempty" yaml:"description,omitempty"`
	Messages    Messages                 `json:"messages,omitempty" yaml:"messages,omitempty"`
	Fields      map[string]FieldOverride `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Overrides maps entity kinds to their overrides.
type Overrides map[Kind]Override

// ParseOverrides decodes a JSON or YAML overrides document.
func ParseOverrides(data []byte, source string) (Overrides, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("entity: overrides %s is empty", source)
	}

	var doc Overrides
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return nil, fmt.Errorf("entity: parse %s: invalid JSON or YAML", source)
}

// LoadOverrides reads every .json/.yaml/.yml file in fsys and merges them.
// A kind defined in more than one file is rejected.
func LoadOverrides(fsys fs.FS) (Overrides, error) {
	out := Overrides{}
	if fsys == nil {
		return out, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isOverrideFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("entity: read %s: %w", path, err)
		}
		doc, err := ParseOverrides(data, path)
		if err != nil {
			return err
		}
		for kind, override := range doc {
			if _, exists := out[kind]; exists {
				return fmt.Errorf("entity: duplicate override for %q (file %s)", kind, path)
			}
			out[kind] = override
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Apply merges overrides into the catalog. Unknown kinds or fields are
// reported together so a typo does not silently do nothing.
func (c *Catalog) Apply(overrides Overrides) error {
	var problems []string
	kinds := make([]string, 0, len(overrides))
	for kind := range overrides {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)

	for _, name := range kinds {
		kind := Kind(name)
		def, ok := c.byKind[kind]
		if !ok {
			problems = append(problems, fmt.Sprintf("unknown kind %q", kind))
			continue
		}
		override := overrides[kind]
		def = def.Clone()
		def.Singular = pick(override.Singular, def.Singular)
		def.Title = pick(override.Title, def.Title)
		def.Description = pick(override.Description, def.Description)
		def.Messages = mergeMessages(def.Messages, override.Messages)

		for fieldName, fo := range override.Fields {
			idx := -1
			for i, field := range def.Form.Fields {
				if field.Name == fieldName {
					idx = i
					break
				}
			}
			if idx < 0 {
				problems = append(problems, fmt.Sprintf("%s: unknown field %q", kind, fieldName))
				continue
			}
			field := &def.Form.Fields[idx]
			field.Label = pick(fo.Label, field.Label)
			field.Placeholder = pick(fo.Placeholder, field.Placeholder)
			field.Description = pick(fo.Description, field.Description)
		}
		c.byKind[kind] = def
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("entity: overrides: %s", strings.Join(problems, "; "))
	}
	return nil
}

func mergeMessages(base, override Messages) Messages {
	return Messages{
		Created:        pick(override.Created, base.Created),
		Updated:        pick(override.Updated, base.Updated),
		Deleted:        pick(override.Deleted, base.Deleted),
		SaveFailed:     pick(override.SaveFailed, base.SaveFailed),
		DeleteConflict: pick(override.DeleteConflict, base.DeleteConflict),
	}
}

func pick(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func isOverrideFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
