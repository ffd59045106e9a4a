// Package entity describes the store entities managed by the dashboard:
// their form schemas, canonical REST endpoints, notification texts,
// navigation targets and table columns.
package entity
