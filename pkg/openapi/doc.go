// Package openapi describes the store REST API as an OpenAPI 3 document and
// defines the contracts for loading such documents and deriving entity form
// schemas from them. Implementations live under internal/openapi; the root
// storeadmin package exposes constructors.
package openapi
