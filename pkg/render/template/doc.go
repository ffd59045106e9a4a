// Package template defines the engine contract the dashboard renders
// through. The pongo subpackage provides the default implementation.
package template
