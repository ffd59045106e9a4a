package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-storeadmin/pkg/controller"
	"github.com/goliatone/go-storeadmin/pkg/entity"
	"github.com/goliatone/go-storeadmin/pkg/model"
	"github.com/goliatone/go-storeadmin/pkg/notify"
	"github.com/goliatone/go-storeadmin/pkg/validation"
)

const noneOption = "(none)"

// Session drives a form controller from terminal prompts. One session can
// serve any number of controllers; it keeps no per-form state.
type Session struct {
	prompter Prompter
	choices  ChoiceSource
	out      io.Writer
	theme    Theme
	retries  int
	logger   zerolog.Logger
}

// New builds a session that prompts through survey on stdout and offers
// one retry after a failed request.
func New(options ...Option) *Session {
	s := &Session{
		out:     os.Stdout,
		retries: 1,
		logger:  zerolog.Nop(),
		theme:   Theme{ErrorPrefix: "! "},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.prompter == nil {
		s.prompter = NewSurveyPrompter(s.out)
	}
	return s
}

// Notifier prints controller notifications on the terminal. Pass it to
// controller.WithNotifier.
func (s *Session) Notifier() notify.Notifier {
	return notify.NotifierFunc(func(n notify.Notification) {
		if n.Message == "" {
			return
		}
		prefix := s.theme.InfoPrefix
		if n.Level == notify.LevelError {
			prefix = s.theme.ErrorPrefix
		}
		_ = s.prompter.Say(context.Background(), prefix+n.Message)
	})
}

// Edit prompts every field, then submits. Fields rejected by validation,
// local or server side, are prompted again until the save succeeds. After a
// request failure the user may retry the same values. The saved record is
// returned.
func (s *Session) Edit(ctx context.Context, ctrl *controller.Controller) (model.Record, error) {
	if ctx == nil {
		return model.Record{}, errors.New("tui: context is required")
	}
	def := ctrl.Definition()
	if def.ReadOnly {
		return model.Record{}, controller.ErrReadOnly
	}

	if err := s.info(ctx, def.FormTitle(ctrl.State().Mode.IsEdit())); err != nil {
		return model.Record{}, err
	}

	pending := def.Form.Fields
	attempts := 0
	for {
		values, err := s.promptFields(ctx, ctrl.Scope(), pending, ctrl.State())
		if err != nil {
			return model.Record{}, err
		}

		err = ctrl.Submit(ctx, values)
		if err == nil {
			state := ctrl.State()
			if state.Record == nil {
				return model.Record{}, controller.ErrNoRecord
			}
			return *state.Record, nil
		}

		var ctrlErr *controller.Error
		if !errors.As(err, &ctrlErr) {
			return model.Record{}, err
		}
		if ctrlErr.Kind == controller.KindValidationFailed {
			if pending = fieldsNamed(def.Form, ctrlErr.Fields); len(pending) > 0 {
				s.logger.Debug().Str("entity", string(def.Kind)).Int("fields", len(pending)).Msg("re-prompting invalid fields")
				continue
			}
		}

		retry, promptErr := s.offerRetry(ctx, &attempts)
		if promptErr != nil {
			return model.Record{}, promptErr
		}
		if !retry {
			return model.Record{}, err
		}
		pending = nil
	}
}

// Delete asks for confirmation and deletes the controller's record. A
// declined confirmation returns ErrCancelled and leaves the form untouched.
// Integrity conflicts are final; network failures may be retried.
func (s *Session) Delete(ctx context.Context, ctrl *controller.Controller) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	attempts := 0
	for {
		if err := ctrl.RequestDelete(); err != nil {
			return err
		}
		ok, err := s.prompter.Confirm(ctx, Prompt{
			Label: "Are you sure?",
			Help:  "This action cannot be undone.",
		})
		if err != nil || !ok {
			if cancelErr := ctrl.CancelDelete(); cancelErr != nil {
				s.logger.Warn().Err(cancelErr).Msg("cancel delete failed")
			}
			if err != nil {
				return err
			}
			return ErrCancelled
		}

		err = ctrl.ConfirmDelete(ctx)
		if err == nil {
			return nil
		}
		if kind, _ := controller.KindOf(err); kind == controller.KindIntegrityConflict {
			return err
		}
		retry, promptErr := s.offerRetry(ctx, &attempts)
		if promptErr != nil {
			return promptErr
		}
		if !retry {
			return err
		}
	}
}

func (s *Session) offerRetry(ctx context.Context, attempts *int) (bool, error) {
	if *attempts >= s.retries {
		return false, nil
	}
	*attempts++
	return s.prompter.Confirm(ctx, Prompt{Label: "Try again?", Yes: true})
}

func (s *Session) promptFields(ctx context.Context, scope entity.Scope, fields []model.Field, state controller.State) (map[string]any, error) {
	values := make(map[string]any, len(fields))
	for _, field := range fields {
		for _, message := range state.Errors[field.Name] {
			if err := s.fail(ctx, field.DisplayLabel()+" "+message); err != nil {
				return nil, err
			}
		}
		value, err := s.promptField(ctx, scope, field, state.Values[field.Name])
		if err != nil {
			return nil, err
		}
		values[field.Name] = value
	}
	return values, nil
}

func (s *Session) promptField(ctx context.Context, scope entity.Scope, field model.Field, current any) (any, error) {
	if field.Relationship != nil && s.choices != nil {
		value, err := s.promptRelationship(ctx, scope, field, current)
		if !errors.Is(err, errChoicesUnavailable) {
			return value, err
		}
	}
	if field.Type == model.FieldTypeBoolean {
		return s.promptBoolean(ctx, field, current)
	}
	return s.promptInput(ctx, field, current)
}

var errChoicesUnavailable = errors.New("tui: choices unavailable")

func (s *Session) promptRelationship(ctx context.Context, scope entity.Scope, field model.Field, current any) (any, error) {
	choices, err := s.choices.Choices(ctx, *field.Relationship, scope)
	if err != nil {
		s.logger.Warn().Err(err).Str("field", field.Name).Msg("relationship options unavailable; falling back to text input")
		return nil, errChoicesUnavailable
	}

	var options, values []string
	if !field.Required {
		options = append(options, noneOption)
		values = append(values, "")
	}
	for _, choice := range choices {
		options = append(options, choice.Label)
		values = append(values, choice.Value)
	}
	if len(options) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoOptions, field.DisplayLabel())
	}

	selected := slices.Index(values, stringify(current))
	for {
		idx, err := s.prompter.Choose(ctx, Prompt{
			Label:    field.DisplayLabel(),
			Help:     field.Description,
			Options:  options,
			Selected: selected,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(values) {
			if err := s.fail(ctx, fmt.Sprintf("Invalid %s selection", field.DisplayLabel())); err != nil {
				return nil, err
			}
			continue
		}
		return values[idx], nil
	}
}

func (s *Session) promptBoolean(ctx context.Context, field model.Field, current any) (any, error) {
	def, _ := validation.Coerce(field, current)
	checked, _ := def.(bool)
	return s.prompter.Confirm(ctx, Prompt{
		Label: field.DisplayLabel(),
		Help:  field.Description,
		Yes:   checked,
	})
}

func (s *Session) promptInput(ctx context.Context, field model.Field, current any) (any, error) {
	defaultVal := stringify(current)
	for {
		response, err := s.prompter.Text(ctx, Prompt{
			Label:   field.DisplayLabel(),
			Help:    helpText(field),
			Default: defaultVal,
			Check:   func(raw string) error { return checkField(field, raw) },
		})
		if err != nil {
			return nil, err
		}
		if err := checkField(field, response); err != nil {
			if err := s.fail(ctx, fmt.Sprintf("%s %v", field.DisplayLabel(), err)); err != nil {
				return nil, err
			}
			continue
		}
		return validation.Coerce(field, response)
	}
}

// checkField runs the local rules of a single field so bad answers are
// caught before the whole form is submitted.
func checkField(field model.Field, raw string) error {
	result := validation.Validate(model.FormModel{Fields: []model.Field{field}}, map[string]any{field.Name: raw})
	if messages := result.Fields[field.Name]; len(messages) > 0 {
		return errors.New(messages[0])
	}
	return nil
}

func helpText(field model.Field) string {
	if field.Description != "" {
		return field.Description
	}
	if field.Placeholder != "" {
		return "e.g. " + field.Placeholder
	}
	return ""
}

func fieldsNamed(form model.FormModel, errs map[string][]string) []model.Field {
	var out []model.Field
	for _, field := range form.Fields {
		if _, ok := errs[field.Name]; ok {
			out = append(out, field)
		}
	}
	return out
}

func (s *Session) info(ctx context.Context, msg string) error {
	return s.prompter.Say(ctx, s.theme.InfoPrefix+msg)
}

func (s *Session) fail(ctx context.Context, msg string) error {
	return s.prompter.Say(ctx, s.theme.ErrorPrefix+msg)
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprint(val)
	}
}
