package openapi

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-storeadmin/pkg/model"
)

// Loader reads a Document from a Source.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// Parser turns a Document into entity forms keyed by collection plural.
// Every collection path with a POST operation yields one form.
type Parser interface {
	Forms(ctx context.Context, doc Document) (map[string]model.FormModel, error)
}

// Schema extensions read by the parser. x-relationship takes
// {target: billboard, labelField: label}; x-field-order on an object fixes
// the order of its fields.
const (
	RelationshipExtension = "x-relationship"
	LabelExtension        = "x-label"
	PlaceholderExtension  = "x-placeholder"
	FieldOrderExtension   = "x-field-order"
)

// LoadConfig is the resolved form of the loader options.
type LoadConfig struct {
	// Files serves SourceKindFS locations.
	Files fs.FS
	// Client fetches URL sources. With no client and Remote unset, URL
	// sources are refused.
	Client *http.Client
	Remote bool
	// Timeout bounds each remote fetch.
	Timeout time.Duration
}

// HTTPClient returns the client URL sources are fetched with, or nil when
// remote documents are disabled. A supplied client is copied so the
// timeout can be filled in without touching the caller's value.
func (c LoadConfig) HTTPClient() *http.Client {
	switch {
	case c.Client != nil:
		hc := *c.Client
		if hc.Timeout == 0 {
			hc.Timeout = c.Timeout
		}
		return &hc
	case c.Remote:
		return &http.Client{Timeout: c.Timeout}
	}
	return nil
}

// LoaderOption adjusts a LoadConfig.
type LoaderOption func(*LoadConfig)

// WithFileSystem sets the filesystem fs sources are read from.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(c *LoadConfig) {
		c.Files = files
	}
}

// WithHTTPClient enables URL sources over hc.
func WithHTTPClient(hc *http.Client) LoaderOption {
	return func(c *LoadConfig) {
		c.Client = hc
	}
}

// WithHTTPFallback enables URL sources over a default client with the
// given timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(c *LoadConfig) {
		c.Remote = true
		c.Timeout = timeout
	}
}

// NewLoadConfig applies options over the zero config.
func NewLoadConfig(options ...LoaderOption) LoadConfig {
	var cfg LoadConfig
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// ParseConfig is the resolved form of the parser options.
type ParseConfig struct {
	// Validate runs the kin-openapi validator first. On by default.
	Validate bool
	// Partial accepts documents with no paths or no forms.
	Partial bool
}

// ParserOption adjusts a ParseConfig.
type ParserOption func(*ParseConfig)

// WithValidation toggles document validation.
func WithValidation(enabled bool) ParserOption {
	return func(c *ParseConfig) {
		c.Validate = enabled
	}
}

// WithPartialDocuments accepts component-only documents.
func WithPartialDocuments(enabled bool) ParserOption {
	return func(c *ParseConfig) {
		c.Partial = enabled
	}
}

// NewParseConfig applies options over the defaults.
func NewParseConfig(options ...ParserOption) ParseConfig {
	cfg := ParseConfig{Validate: true}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
