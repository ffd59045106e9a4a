package client

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-storeadmin/pkg/entity"
)

// DefaultChoicesTTL bounds how long relationship options are cached.
const DefaultChoicesTTL = 30 * time.Second

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient swaps the transport. The client applies no timeout of its
// own; configure one on the supplied http.Client when needed.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTracerProvider sets the provider used for request spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		if tp != nil {
			c.tracer = tp.Tracer(instrumentationName)
		}
	}
}

// WithCatalog sets the catalog used to resolve relationship kinds.
func WithCatalog(catalog *entity.Catalog) Option {
	return func(c *Client) {
		if catalog != nil {
			c.catalog = catalog
		}
	}
}

// WithChoicesTTL sets the relationship option cache lifetime. Values <= 0
// keep the default.
func WithChoicesTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.choicesTTL = ttl
		}
	}
}
