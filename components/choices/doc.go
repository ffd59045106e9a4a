// Package choices serves the selectable records of a relationship as JSON,
// for form selects and API consumers.
//
// A Handler answers GET and HEAD with a bare array of client.Choice values,
// filtered by the q parameter and capped by limit. Choices come from a
// Source, usually the records of the related entity in the current store.
package choices
