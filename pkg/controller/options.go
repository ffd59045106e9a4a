package controller

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-storeadmin/pkg/client"
	"github.com/goliatone/go-storeadmin/pkg/model"
	"github.com/goliatone/go-storeadmin/pkg/notify"
)

// Sender dispatches a mutation. *client.Client satisfies it.
type Sender interface {
	Send(ctx context.Context, m client.Mutation) (model.Record, error)
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, m client.Mutation) (model.Record, error)

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, m client.Mutation) (model.Record, error) {
	return f(ctx, m)
}

// Refresher re-runs the current screen's data fetch.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshFunc adapts a function to Refresher.
type RefreshFunc func(ctx context.Context) error

// Refresh calls f.
func (f RefreshFunc) Refresh(ctx context.Context) error { return f(ctx) }

// Navigator moves the user to another route.
type Navigator interface {
	Navigate(ctx context.Context, path string) error
}

// NavigateFunc adapts a function to Navigator.
type NavigateFunc func(ctx context.Context, path string) error

// Navigate calls f.
func (f NavigateFunc) Navigate(ctx context.Context, path string) error { return f(ctx, path) }

// Option customises a Controller.
type Option func(*Controller)

// WithSender sets the transport.
func WithSender(s Sender) Option {
	return func(c *Controller) {
		if s != nil {
			c.sender = s
		}
	}
}

// WithRefresher sets the view refresh collaborator.
func WithRefresher(r Refresher) Option {
	return func(c *Controller) {
		if r != nil {
			c.refresher = r
		}
	}
}

// WithNavigator sets the navigation collaborator.
func WithNavigator(n Navigator) Option {
	return func(c *Controller) {
		if n != nil {
			c.navigator = n
		}
	}
}

// WithNotifier sets where notifications go.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithTracerProvider sets the provider used for operation spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Controller) {
		if tp != nil {
			c.tracer = tp.Tracer(instrumentationName)
		}
	}
}
