package tui

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-storeadmin/pkg/client"
	"github.com/goliatone/go-storeadmin/pkg/entity"
	"github.com/goliatone/go-storeadmin/pkg/model"
)

// Theme holds the prefixes printed before informational and error lines.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// ChoiceSource lists the selectable records of a relationship field.
// *client.Client satisfies it.
type ChoiceSource interface {
	Choices(ctx context.Context, rel model.Relationship, scope entity.Scope) ([]client.Choice, error)
}

// ChoiceFunc adapts a function to ChoiceSource.
type ChoiceFunc func(ctx context.Context, rel model.Relationship, scope entity.Scope) ([]client.Choice, error)

// Choices implements ChoiceSource.
func (f ChoiceFunc) Choices(ctx context.Context, rel model.Relationship, scope entity.Scope) ([]client.Choice, error) {
	return f(ctx, rel, scope)
}

// Option configures a Session.
type Option func(*Session)

// WithPrompter replaces the survey prompter.
func WithPrompter(p Prompter) Option {
	return func(s *Session) {
		if p != nil {
			s.prompter = p
		}
	}
}

// WithChoices sets where relationship options come from. Without it
// relationship fields are prompted as plain text ids.
func WithChoices(source ChoiceSource) Option {
	return func(s *Session) {
		s.choices = source
	}
}

// WithOutput sets where the survey prompter prints messages.
func WithOutput(w io.Writer) Option {
	return func(s *Session) {
		if w != nil {
			s.out = w
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}

// WithRetries caps how many times a failed request is offered again.
func WithRetries(n int) Option {
	return func(s *Session) {
		if n >= 0 {
			s.retries = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}
