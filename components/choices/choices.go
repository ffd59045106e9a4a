package choices

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-storeadmin/pkg/client"
)

// Default limits applied to every query.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// DefaultSegment is the path segment appended to the mount prefix.
const DefaultSegment = "options"

// Source lists every choice available to a request.
type Source interface {
	Choices(r *http.Request) ([]client.Choice, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(r *http.Request) ([]client.Choice, error)

// Choices implements Source.
func (f SourceFunc) Choices(r *http.Request) ([]client.Choice, error) { return f(r) }

// Guard rejects a request before the source runs. An error carrying a
// status (client.HTTPError) sets the response code; others become 403.
type Guard func(r *http.Request) error

type config struct {
	source       Source
	guard        Guard
	segment      string
	defaultLimit int
	maxLimit     int
	logger       zerolog.Logger
}

// Option configures a Handler.
type Option func(*config)

// WithSource sets where choices come from.
func WithSource(source Source) Option {
	return func(c *config) {
		c.source = source
	}
}

// WithGuard installs a request check.
func WithGuard(guard Guard) Option {
	return func(c *config) {
		c.guard = guard
	}
}

// WithStatic serves a fixed list.
func WithStatic(list []client.Choice) Option {
	fixed := append([]client.Choice(nil), list...)
	return WithSource(SourceFunc(func(*http.Request) ([]client.Choice, error) {
		return append([]client.Choice(nil), fixed...), nil
	}))
}

// WithSegment changes the path segment the handler is mounted on.
func WithSegment(segment string) Option {
	return func(c *config) {
		if segment != "" {
			c.segment = segment
		}
	}
}

// WithLimits overrides the default and maximum number of results.
func WithLimits(defaultLimit, maxLimit int) Option {
	return func(c *config) {
		if defaultLimit > 0 {
			c.defaultLimit = defaultLimit
		}
		if maxLimit > 0 {
			c.maxLimit = maxLimit
		}
	}
}

// WithLogger records source failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func newConfig(opts []Option) config {
	c := config{
		segment:      DefaultSegment,
		defaultLimit: DefaultLimit,
		maxLimit:     MaxLimit,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	if c.defaultLimit > c.maxLimit {
		c.defaultLimit = c.maxLimit
	}
	return c
}
