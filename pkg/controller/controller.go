package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-storeadmin/pkg/client"
	"github.com/goliatone/go-storeadmin/pkg/entity"
	"github.com/goliatone/go-storeadmin/pkg/model"
	"github.com/goliatone/go-storeadmin/pkg/notify"
	"github.com/goliatone/go-storeadmin/pkg/validation"
)

const instrumentationName = "github.com/goliatone/go-storeadmin/pkg/controller"

const (
	opSubmit = "submit"
	opDelete = "delete"
)

// State is a snapshot of the form state. It shares nothing with the
// controller.
type State struct {
	Phase            Phase
	Mode             Mode
	Values           map[string]any
	Errors           map[string][]string
	Submitting       bool
	ConfirmingDelete bool
	Record           *model.Record
}

// Controller is safe for concurrent use. The lock is not held while a
// request is in flight, so State observes Submitting during the call.
type Controller struct {
	def   entity.Definition
	scope entity.Scope

	sender    Sender
	refresher Refresher
	navigator Navigator
	notifier  notify.Notifier
	logger    zerolog.Logger
	tracer    trace.Tracer

	mu               sync.Mutex
	phase            Phase
	resume           Phase
	mode             Mode
	record           *model.Record
	values           map[string]any
	errors           map[string][]string
	submitting       bool
	confirmingDelete bool
}

// New initialises a controller for one screen visit. A nil record selects
// Create mode with empty defaults; otherwise the form starts from the
// record's values in Edit mode.
func New(def entity.Definition, scope entity.Scope, record *model.Record, opts ...Option) (*Controller, error) {
	c := &Controller{
		def:      def.Clone(),
		scope:    scope,
		notifier: notify.Discard,
		logger:   zerolog.Nop(),
		tracer:   otel.Tracer(instrumentationName),
		phase:    PhaseIdle,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.sender == nil {
		return nil, ErrNoSender
	}
	if record == nil && def.EditOnly {
		return nil, fmt.Errorf("%w: %s is edit-only", ErrNoRecord, def.Kind)
	}

	if record != nil {
		rec := record.Clone()
		c.record = &rec
		c.mode = EditMode(rec.ID)
		c.values = model.ValuesFromRecord(c.def.Form, rec)
	} else {
		c.mode = CreateMode()
		c.values = model.DefaultValues(c.def.Form)
	}
	c.errors = map[string][]string{}
	return c, nil
}

// Definition returns the entity definition the controller was built for.
func (c *Controller) Definition() entity.Definition {
	return c.def.Clone()
}

// Scope returns the route scope.
func (c *Controller) Scope() entity.Scope {
	return c.scope
}

// State returns a snapshot of the current form state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() State {
	s := State{
		Phase:            c.phase,
		Mode:             c.mode,
		Values:           model.CloneValues(c.values),
		Errors:           cloneErrors(c.errors),
		Submitting:       c.submitting,
		ConfirmingDelete: c.confirmingDelete,
	}
	if c.record != nil {
		rec := c.record.Clone()
		s.Record = &rec
	}
	return s
}

// SetValue updates one field. Unknown fields are rejected.
func (c *Controller) SetValue(name string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ready(); err != nil {
		return err
	}
	if _, ok := c.def.Form.Field(name); !ok {
		return fmt.Errorf("controller: unknown field %q", name)
	}
	c.values[name] = value
	if c.phase == PhaseIdle {
		c.phase = PhaseEditing
	}
	return nil
}

// Reload replaces the record with freshly fetched data. It is typically
// called from a Refresher after a successful save.
func (c *Controller) Reload(record model.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ready(); err != nil {
		return err
	}
	rec := record.Clone()
	c.record = &rec
	c.mode = EditMode(rec.ID)
	c.values = model.ValuesFromRecord(c.def.Form, rec)
	c.errors = map[string][]string{}
	return nil
}

// Submit validates values and, when they pass, creates or updates the
// record. A nil values map submits the current values; otherwise the
// supplied schema fields replace the current ones first. Validation
// failures issue no request.
func (c *Controller) Submit(ctx context.Context, values map[string]any) error {
	c.mu.Lock()
	if err := c.ready(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.def.ReadOnly {
		c.mu.Unlock()
		return ErrReadOnly
	}
	for _, field := range c.def.Form.Fields {
		if v, ok := values[field.Name]; ok {
			c.values[field.Name] = v
		}
	}

	result := validation.Validate(c.def.Form, c.values)
	if !result.Valid() {
		c.errors = cloneErrors(result.Fields)
		c.phase = PhaseEditing
		c.mu.Unlock()
		c.logger.Debug().Str("entity", string(c.def.Kind)).Strs("fields", result.FieldNames()).Msg("submit rejected by validation")
		return &Error{Kind: KindValidationFailed, Op: opSubmit, Fields: result.Fields}
	}

	mutation, err := c.saveMutation(result.Values)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	mode := c.mode
	c.errors = map[string][]string{}
	c.phase = PhaseSubmitting
	c.submitting = true
	c.mu.Unlock()

	ctx, span := c.tracer.Start(ctx, "controller.Submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("storeadmin.kind", string(c.def.Kind)),
		attribute.String("storeadmin.mode", mode.String()),
	)

	record, sendErr := c.send(ctx, mutation)
	if sendErr == nil && record.ID == "" && mode.IsCreate() {
		sendErr = ErrMissingID
	}

	c.mu.Lock()
	c.submitting = false
	c.phase = PhaseEditing
	if sendErr != nil {
		ctrlErr := c.saveError(sendErr)
		if ctrlErr.Fields != nil {
			c.errors = cloneErrors(ctrlErr.Fields)
		}
		c.mu.Unlock()
		span.RecordError(sendErr)
		span.SetStatus(codes.Error, string(ctrlErr.Kind))
		c.logger.Warn().Err(sendErr).Str("entity", string(c.def.Kind)).Str("mode", mode.String()).Msg("save failed")
		c.notifier.Notify(notify.Failure(ctrlErr.Message))
		return ctrlErr
	}

	if record.ID == "" {
		record.ID = mode.RecordID()
	}
	rec := record.Clone()
	c.record = &rec
	c.mode = EditMode(rec.ID)
	c.values = model.ValuesFromRecord(c.def.Form, rec)
	c.mu.Unlock()

	c.logger.Info().Str("entity", string(c.def.Kind)).Str("id", rec.ID).Str("mode", mode.String()).Msg("saved")

	c.refresh(ctx)
	message, redirect := c.def.Messages.Updated, c.def.Navigation.SaveRedirect
	if mode.IsCreate() {
		message, redirect = c.def.Messages.Created, c.def.Navigation.CreateRedirect
	}
	c.notifier.Notify(notify.Success(message))
	c.navigate(ctx, redirect, rec.ID)
	return nil
}

// RequestDelete opens the delete confirmation. It makes no request.
func (c *Controller) RequestDelete() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseConfirmingDelete {
		return nil
	}
	if err := c.ready(); err != nil {
		return err
	}
	if c.def.ReadOnly {
		return ErrReadOnly
	}
	if c.mode.IsCreate() {
		return ErrNoRecord
	}
	c.resume = c.phase
	c.phase = PhaseConfirmingDelete
	c.confirmingDelete = true
	return nil
}

// CancelDelete closes the confirmation and restores the state that
// preceded RequestDelete.
func (c *Controller) CancelDelete() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseConfirmingDelete {
		return ErrNotConfirming
	}
	c.phase = c.resume
	c.confirmingDelete = false
	return nil
}

// ConfirmDelete deletes the record. On success the screen is terminated and
// the user is sent to the entity's safe route.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.phase == PhaseTerminated:
		c.mu.Unlock()
		return ErrTerminated
	case c.phase.busy():
		c.mu.Unlock()
		return ErrBusy
	case c.phase != PhaseConfirmingDelete:
		c.mu.Unlock()
		return ErrNotConfirming
	}
	id := c.mode.RecordID()
	path, err := c.def.ItemPath(c.scope, id)
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("controller: delete: %w", err)
	}
	c.phase = PhaseDeleting
	c.submitting = true
	c.mu.Unlock()

	ctx, span := c.tracer.Start(ctx, "controller.ConfirmDelete")
	defer span.End()
	span.SetAttributes(
		attribute.String("storeadmin.kind", string(c.def.Kind)),
		attribute.String("storeadmin.id", id),
	)

	_, sendErr := c.send(ctx, client.Mutation{
		Method:   http.MethodDelete,
		Path:     path,
		Kind:     c.def.Kind,
		StoreID:  c.scope.StoreID,
		RecordID: id,
	})

	c.mu.Lock()
	c.submitting = false
	c.confirmingDelete = false
	if sendErr != nil {
		c.phase = PhaseEditing
		c.mu.Unlock()
		ctrlErr := c.deleteError(sendErr)
		span.RecordError(sendErr)
		span.SetStatus(codes.Error, string(ctrlErr.Kind))
		c.logger.Warn().Err(sendErr).Str("entity", string(c.def.Kind)).Str("id", id).Msg("delete failed")
		c.notifier.Notify(notify.Failure(ctrlErr.Message))
		return ctrlErr
	}
	c.phase = PhaseTerminated
	c.mu.Unlock()

	c.logger.Info().Str("entity", string(c.def.Kind)).Str("id", id).Msg("deleted")
	c.refresh(ctx)
	c.notifier.Notify(notify.Success(c.def.Messages.Deleted))
	c.navigate(ctx, c.def.Navigation.DeleteRedirect, id)
	return nil
}

// send releases the in-flight state before re-raising a panic from the
// sender, so the controller never stays busy.
func (c *Controller) send(ctx context.Context, m client.Mutation) (model.Record, error) {
	defer func() {
		if r := recover(); r != nil {
			c.mu.Lock()
			c.submitting = false
			c.confirmingDelete = false
			c.phase = PhaseEditing
			c.mu.Unlock()
			panic(r)
		}
	}()
	return c.sender.Send(ctx, m)
}

// ready must be called with the lock held.
func (c *Controller) ready() error {
	switch {
	case c.phase == PhaseTerminated:
		return ErrTerminated
	case c.phase.busy():
		return ErrBusy
	case c.phase == PhaseConfirmingDelete:
		return ErrConfirming
	}
	return nil
}

func (c *Controller) saveMutation(values map[string]any) (client.Mutation, error) {
	m := client.Mutation{
		Kind:    c.def.Kind,
		StoreID: c.scope.StoreID,
		Values:  values,
	}
	var err error
	if c.mode.IsCreate() {
		m.Method = http.MethodPost
		m.Path, err = c.def.CollectionPath(c.scope)
	} else {
		m.Method = http.MethodPatch
		m.RecordID = c.mode.RecordID()
		m.Path, err = c.def.ItemPath(c.scope, m.RecordID)
	}
	if err != nil {
		return client.Mutation{}, fmt.Errorf("controller: submit: %w", err)
	}
	return m, nil
}

func (c *Controller) saveError(err error) *Error {
	out := &Error{Kind: KindNetworkFailure, Op: opSubmit, Message: c.def.Messages.SaveFailed, Err: err}
	var statusErr *client.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode() == http.StatusUnprocessableEntity && len(statusErr.Fields) > 0 {
		out.Kind = KindValidationFailed
		out.Fields = cloneErrors(statusErr.Fields)
	}
	return out
}

func (c *Controller) deleteError(err error) *Error {
	out := &Error{Kind: KindNetworkFailure, Op: opDelete, Message: c.def.Messages.DeleteConflict, Err: err}
	var httpErr client.HTTPError
	if errors.As(err, &httpErr) {
		out.Kind = KindIntegrityConflict
	}
	return out
}

func (c *Controller) refresh(ctx context.Context) {
	if c.refresher == nil {
		return
	}
	if err := c.refresher.Refresh(ctx); err != nil {
		c.logger.Warn().Err(err).Str("entity", string(c.def.Kind)).Msg("refresh failed")
	}
}

func (c *Controller) navigate(ctx context.Context, template, id string) {
	if c.navigator == nil || template == "" {
		return
	}
	path, err := c.def.Redirect(template, c.scope, id)
	if err != nil {
		c.logger.Warn().Err(err).Str("template", template).Msg("redirect expansion failed")
		return
	}
	if err := c.navigator.Navigate(ctx, path); err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("navigation failed")
	}
}

func cloneErrors(src map[string][]string) map[string][]string {
	out := make(map[string][]string, len(src))
	for k, v := range src {
		out[k] = append([]string(nil), v...)
	}
	return out
}
