package model

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	keyID        = "id"
	keyCreatedAt = "createdAt"
	keyUpdatedAt = "updatedAt"
)

// Flatten returns the record as a single map, the shape used by the API.
func (r Record) Flatten() map[string]any {
	out := make(map[string]any, len(r.Values)+3)
	for k, v := range r.Values {
		out[k] = v
	}
	out[keyID] = r.ID
	if !r.CreatedAt.IsZero() {
		out[keyCreatedAt] = r.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !r.UpdatedAt.IsZero() {
		out[keyUpdatedAt] = r.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

// RecordFromMap is the inverse of Flatten.
func RecordFromMap(m map[string]any) (Record, error) {
	rec := Record{Values: make(map[string]any, len(m))}
	for k, v := range m {
		switch k {
		case keyID:
			id, ok := v.(string)
			if !ok {
				return Record{}, fmt.Errorf("model: record id must be a string, got %T", v)
			}
			rec.ID = id
		case keyCreatedAt, keyUpdatedAt:
			ts, err := parseTime(v)
			if err != nil {
				return Record{}, fmt.Errorf("model: record %s: %w", k, err)
			}
			if k == keyCreatedAt {
				rec.CreatedAt = ts
			} else {
				rec.UpdatedAt = ts
			}
		default:
			rec.Values[k] = v
		}
	}
	return rec, nil
}

// MarshalJSON encodes the flat wire shape.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Flatten())
}

// UnmarshalJSON decodes the flat wire shape.
func (r *Record) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	rec, err := RecordFromMap(m)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

func parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return t, nil
	case string:
		if t == "" {
			return time.Time{}, nil
		}
		return time.Parse(time.RFC3339, t)
	default:
		return time.Time{}, fmt.Errorf("unexpected type %T", v)
	}
}
