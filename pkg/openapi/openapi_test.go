package openapi_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/goliatone/go-storeadmin/pkg/openapi"
)

func TestSourceFor(t *testing.T) {
	cases := []struct {
		arg      string
		kind     openapi.SourceKind
		location string
		wantErr  bool
	}{
		{arg: "https://shop.test/api.yaml", kind: openapi.SourceKindURL, location: "https://shop.test/api.yaml"},
		{arg: "./docs/../api.yaml", kind: openapi.SourceKindFile, location: "api.yaml"},
		{arg: "  ", wantErr: true},
		{arg: "http://%zz", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.arg, func(t *testing.T) {
			src, err := openapi.SourceFor(tc.arg)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", src)
				}
				return
			}
			if err != nil {
				t.Fatalf("source: %v", err)
			}
			if src.Kind() != tc.kind || src.Location() != tc.location {
				t.Fatalf("got %s %q", src.Kind(), src.Location())
			}
		})
	}
}

func TestNewDocument(t *testing.T) {
	src := openapi.SourceFromFS("api.json")
	if _, err := openapi.NewDocument(src, []byte(" \n ")); err == nil {
		t.Fatalf("whitespace payload must be rejected")
	}
	if _, err := openapi.NewDocument(nil, []byte("{}")); err == nil {
		t.Fatalf("nil source must be rejected")
	}

	raw := []byte(` {"openapi":"3.0.3"}`)
	doc, err := openapi.NewDocument(src, raw)
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	raw[1] = 'X'
	if doc.Raw()[1] != '{' {
		t.Fatalf("document must own its bytes")
	}
	if doc.MediaType() != "application/json" || doc.Location() != "api.json" {
		t.Fatalf("unexpected document %s %s", doc.MediaType(), doc.Location())
	}
}

func TestStoreAPI(t *testing.T) {
	doc := openapi.StoreAPI()
	if doc.Location() != openapi.EmbeddedLocation || doc.MediaType() != "application/yaml" {
		t.Fatalf("unexpected embedded document %s %s", doc.Location(), doc.MediaType())
	}
	if string(openapi.StoreAPIBytes()) != string(doc.Raw()) {
		t.Fatalf("embedded bytes differ")
	}
}

func TestLoadConfig_HTTPClient(t *testing.T) {
	if openapi.NewLoadConfig().HTTPClient() != nil {
		t.Fatalf("remote loading must be off by default")
	}

	fallback := openapi.NewLoadConfig(openapi.WithHTTPFallback(3 * time.Second)).HTTPClient()
	if fallback == nil || fallback.Timeout != 3*time.Second {
		t.Fatalf("unexpected fallback client %+v", fallback)
	}

	own := &http.Client{}
	cfg := openapi.NewLoadConfig(openapi.WithHTTPClient(own), openapi.WithHTTPFallback(time.Second))
	got := cfg.HTTPClient()
	if got == own || got.Timeout != time.Second || own.Timeout != 0 {
		t.Fatalf("supplied client must be copied with the timeout filled in")
	}
}

func TestNewParseConfig(t *testing.T) {
	if cfg := openapi.NewParseConfig(); !cfg.Validate || cfg.Partial {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	cfg := openapi.NewParseConfig(openapi.WithValidation(false), openapi.WithPartialDocuments(true), nil)
	if cfg.Validate || !cfg.Partial {
		t.Fatalf("options not applied %+v", cfg)
	}
}
