// Package model defines the typed entity form schema shared by the controller,
// validators, renderers, and storage. A FormModel is fixed per entity type and
// lists its fields in display order. Validation rules expose canonical
// identifiers (min/max, minLength/maxLength, pattern) with string parameters
// so the same schema can drive local validation, server-side checks, and HTML
// attributes. Records are immutable snapshots of persisted entities.
package model
