package openapi

import (
	_ "embed"
)

//go:embed storeapi.yaml
var storeAPI []byte

// EmbeddedLocation names the built-in document.
const EmbeddedLocation = "storeapi.yaml"

// StoreAPI returns the embedded description of the store REST API.
func StoreAPI() Document {
	return MustNewDocument(SourceFromFS(EmbeddedLocation), storeAPI)
}

// StoreAPIBytes returns the raw embedded YAML, as served by the API.
func StoreAPIBytes() []byte {
	return append([]byte(nil), storeAPI...)
}
