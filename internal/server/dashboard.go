package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/goliatone/go-storeadmin/pkg/client"
	"github.com/goliatone/go-storeadmin/pkg/controller"
	"github.com/goliatone/go-storeadmin/pkg/entity"
	"github.com/goliatone/go-storeadmin/pkg/modal"
	"github.com/goliatone/go-storeadmin/pkg/model"
	"github.com/goliatone/go-storeadmin/pkg/render"
)

// visit carries the per-request collaborators of a dashboard screen.
type visit struct {
	key      string
	redirect string
}

func (v *visit) navigate(_ context.Context, path string) error {
	v.redirect = path
	return nil
}

// flashKey returns the browser's flash key, issuing a cookie on first use.
func (s *Server) flashKey(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(s.flashCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	key := s.flash.NewKey()
	http.SetCookie(w, &http.Cookie{
		Name:     s.flashCookie,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return key
}

func (s *Server) chrome(ctx context.Context, key string, scope entity.Scope, path string) (render.Chrome, error) {
	stores, err := s.storage.List(ctx, entity.KindStore, "")
	if err != nil {
		return render.Chrome{}, err
	}
	return render.Chrome{
		Stores: stores,
		Scope:  scope,
		Path:   path,
		Flash:  s.flash.Pop(key),
	}, nil
}

func (s *Server) controllerFor(def entity.Definition, scope entity.Scope, record *model.Record, v *visit) (*controller.Controller, error) {
	return controller.New(def, scope, record,
		controller.WithSender(localSender{server: s}),
		controller.WithNotifier(s.flash.Notifier(v.key)),
		controller.WithNavigator(controller.NavigateFunc(v.navigate)),
		controller.WithLogger(s.logger),
		controller.WithTracerProvider(s.tp),
	)
}

// page buffers a render so a template failure still yields a clean 500.
func (s *Server) page(w http.ResponseWriter, status int, fn func(buf *bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		s.logger.Error().Err(err).Msg("render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.pages.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) pageError(w http.ResponseWriter, r *http.Request, key string, scope entity.Scope, err error) {
	status := statusOf(err).StatusCode()
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("dashboard error")
	}
	chrome, chromeErr := s.chrome(r.Context(), key, scope, r.URL.Path)
	if chromeErr != nil {
		chrome = render.Chrome{}
	}
	s.page(w, status, func(buf *bytes.Buffer) error {
		return s.pages.Error(buf, render.ErrorPage{Chrome: chrome, Status: status})
	})
}

func (s *Server) pageRoot(w http.ResponseWriter, r *http.Request) {
	key := s.flashKey(w, r)
	stores, err := s.storage.List(r.Context(), entity.KindStore, "")
	if err != nil {
		s.pageError(w, r, key, entity.Scope{}, err)
		return
	}
	if r.URL.Query().Get("setup") == "close" {
		s.setup.Close()
	}
	if len(stores) == 0 {
		s.setup.EnsureOpen()
	}
	if !s.setup.IsOpen() {
		http.Redirect(w, r, render.OverviewPath(entity.Scope{StoreID: stores[0].ID}), http.StatusSeeOther)
		return
	}
	s.renderSetup(w, r, key, nil, http.StatusOK)
}

// storeMenu serves the "new store" entry of the store switcher. It may only
// open the setup dialog.
type storeMenu struct {
	dialog modal.Opener
}

func (m storeMenu) newStore(w http.ResponseWriter, r *http.Request) {
	m.dialog.Open()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// renderSetup shows the store dialog owned by the server. The root keeps it
// open while no store exists.
func (s *Server) renderSetup(w http.ResponseWriter, r *http.Request, key string, ctrl *controller.Controller, status int) {
	if ctrl == nil {
		def, err := s.catalog.Get(entity.KindStore)
		if err != nil {
			s.pageError(w, r, key, entity.Scope{}, err)
			return
		}
		ctrl, err = s.controllerFor(def, entity.Scope{}, nil, &visit{key: key})
		if err != nil {
			s.pageError(w, r, key, entity.Scope{}, err)
			return
		}
	}
	s.page(w, status, func(buf *bytes.Buffer) error {
		return s.pages.Setup(buf, render.SetupPage{
			Open:  s.setup.IsOpen(),
			State: ctrl.State(),
			Flash: s.flash.Pop(key),
		})
	})
}

func (s *Server) pageCreateStore(w http.ResponseWriter, r *http.Request) {
	key := s.flashKey(w, r)
	def, err := s.catalog.Get(entity.KindStore)
	if err != nil {
		s.pageError(w, r, key, entity.Scope{}, err)
		return
	}
	v := &visit{key: key}
	ctrl, err := s.controllerFor(def, entity.Scope{}, nil, v)
	if err != nil {
		s.pageError(w, r, key, entity.Scope{}, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.pageError(w, r, key, entity.Scope{}, &client.StatusError{Code: http.StatusBadRequest})
		return
	}
	if err := ctrl.Submit(r.Context(), formValues(def, r.PostForm)); err != nil {
		s.renderSetup(w, r, key, ctrl, failureStatus(err))
		return
	}
	s.setup.Close()
	http.Redirect(w, r, firstPath(v.redirect, "/"), http.StatusSeeOther)
}

func (s *Server) pageOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := s.flashKey(w, r)
	scope := entity.Scope{StoreID: r.PathValue("storeId")}

	store, err := s.storage.Get(ctx, entity.KindStore, "", scope.StoreID)
	if err != nil {
		s.pageError(w, r, key, entity.Scope{}, err)
		return
	}
	revenue, err := s.storage.Revenue(ctx, scope.StoreID)
	if err != nil {
		s.pageError(w, r, key, scope, err)
		return
	}
	summary, err := s.storage.Summary(ctx, scope.StoreID)
	if err != nil {
		s.pageError(w, r, key, scope, err)
		return
	}
	chrome, err := s.chrome(ctx, key, scope, r.URL.Path)
	if err != nil {
		s.pageError(w, r, key, scope, err)
		return
	}
	s.page(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return s.pages.Overview(buf, render.OverviewPage{
			Chrome:  chrome,
			Store:   store,
			Revenue: revenue,
			Sales:   summary.Sales,
			Stock:   summary.Stock,
		})
	})
}

func (s *Server) pageList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := s.flashKey(w, r)
	def, scope, err := s.screen(ctx, r)
	if err != nil {
		s.pageError(w, r, key, scope, err)
		return
	}
	if def.EditOnly {
		s.showForm(w, r, key, def, scope, scope.StoreID)
		return
	}

	records, err := s.storage.List(ctx, def.Kind, scope.StoreID)
	if err != nil {
		s.pageError(w, r, key, scope, err)
		return
	}
	lookups, err := s.lookups(ctx, def, scope)
	if err != nil {
		s.pageError(w, r, key, scope, err)
		return
	}
	chrome, err := s.chrome(ctx, key, scope, r.URL.Path)
	if err != nil {
		s.pageError(w, r, key, scope, err)
		return
	}
	s.page(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return s.pages.Table(buf, render.TablePage{
			Chrome:     chrome,
			Definition: def,
			Records:    records,
			Lookups:    lookups,
			Query:      r.URL.Query().Get("q"),
		})
	})
}

func (s *Server) pageForm(w http.ResponseWriter, r *http.Request) {
	key := s.flashKey(w, r)
	def, scope, err := s.screen(r.Context(), r)
	if err == nil && (def.EditOnly || def.ReadOnly) {
		err = entity.ErrUnknownKind
	}
	if err != nil {
		s.pageError(w, r, key, scope, err)
		return
	}
	s.showForm(w, r, key, def, scope, r.PathValue("id"))
}

func (s *Server) showForm(w http.ResponseWriter, r *http.Request, key string, def entity.Definition, scope entity.Scope, id string) {
	record, err := s.record(r.Context(), def, scope, id)
	if err != nil {
		s.pageError(w, r, key, scope, err)
		return
	}
	ctrl, err := s.controllerFor(def, scope, record, &visit{key: key})
	if err != nil {
		s.pageError(w, r, key, scope, err)
		return
	}
	if record != nil && r.URL.Query().Get("confirm") == "delete" {
		if err := ctrl.RequestDelete(); err != nil {
			s.logger.Debug().Err(err).Str("entity", string(def.Kind)).Msg("delete confirmation unavailable")
		}
	}
	s.renderForm(w, r, key, ctrl, http.StatusOK)
}

func (s *Server) pageSubmitSingle(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, "")
}

func (s *Server) pageSubmit(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, r.PathValue("id"))
}

// submit runs a posted form through a fresh controller. Successful saves
// and deletes answer 303 to the navigation target; failures re-render the
// form with the controller's field errors.
func (s *Server) submit(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()
	key := s.flashKey(w, r)
	def, scope, err := s.screen(ctx, r)
	if err == nil && (def.ReadOnly || (def.EditOnly != (id == ""))) {
		err = entity.ErrUnknownKind
	}
	if err != nil {
		s.pageError(w, r, key, scope, err)
		return
	}
	if def.EditOnly {
		id = scope.StoreID
	}
	if err := r.ParseForm(); err != nil {
		s.pageError(w, r, key, scope, &client.StatusError{Code: http.StatusBadRequest})
		return
	}

	record, err := s.record(ctx, def, scope, id)
	if err != nil {
		s.pageError(w, r, key, scope, err)
		return
	}
	v := &visit{key: key}
	ctrl, err := s.controllerFor(def, scope, record, v)
	if err != nil {
		s.pageError(w, r, key, scope, err)
		return
	}

	if render.RequestMethod(r.Method, r.PostForm) == http.MethodDelete {
		err = ctrl.RequestDelete()
		if err == nil {
			err = ctrl.ConfirmDelete(ctx)
		}
	} else {
		err = ctrl.Submit(ctx, formValues(def, r.PostForm))
	}
	if err != nil {
		if _, ok := controller.KindOf(err); !ok {
			s.pageError(w, r, key, scope, err)
			return
		}
		s.renderForm(w, r, key, ctrl, failureStatus(err))
		return
	}
	http.Redirect(w, r, firstPath(v.redirect, r.URL.Path), http.StatusSeeOther)
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, key string, ctrl *controller.Controller, status int) {
	ctx := r.Context()
	def, scope := ctrl.Definition(), ctrl.Scope()
	choices, err := s.relationshipChoices(ctx, def, scope)
	if err != nil {
		s.pageError(w, r, key, scope, err)
		return
	}
	chrome, err := s.chrome(ctx, key, scope, r.URL.Path)
	if err != nil {
		s.pageError(w, r, key, scope, err)
		return
	}
	// Errors keyed by something other than a field show above the form.
	state := ctrl.State()
	mapped := render.MapErrorPayload(def.Form, state.Errors)
	state.Errors = mapped.Fields
	s.page(w, status, func(buf *bytes.Buffer) error {
		return s.pages.Form(buf, render.FormPage{
			Chrome:     chrome,
			Definition: def,
			State:      state,
			Choices:    choices,
			FormErrors: render.MergeFormErrors(nil, mapped.Form...),
		})
	})
}

// screen resolves the store and entity of a dashboard route.
func (s *Server) screen(ctx context.Context, r *http.Request) (entity.Definition, entity.Scope, error) {
	scope := entity.Scope{StoreID: r.PathValue("storeId")}
	if err := s.requireStore(ctx, scope.StoreID); err != nil {
		return entity.Definition{}, entity.Scope{}, err
	}
	def, ok := s.catalog.LookupPlural(r.PathValue("plural"))
	if !ok || !def.Scoped {
		return entity.Definition{}, scope, entity.ErrUnknownKind
	}
	return def, scope, nil
}

// record loads the record a form edits. The create segment yields nil.
func (s *Server) record(ctx context.Context, def entity.Definition, scope entity.Scope, id string) (*model.Record, error) {
	if !def.EditOnly && (id == "" || id == render.NewSegment) {
		return nil, nil
	}
	record, err := s.storage.Get(ctx, def.Kind, scope.StoreID, id)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// relationshipChoices lists the selectable records of every relationship
// field, labelled by the field's label column.
func (s *Server) relationshipChoices(ctx context.Context, def entity.Definition, scope entity.Scope) (map[string][]client.Choice, error) {
	out := map[string][]client.Choice{}
	for _, field := range def.Form.Fields {
		if field.Relationship == nil {
			continue
		}
		records, err := s.storage.List(ctx, entity.Kind(field.Relationship.Kind), scope.StoreID)
		if err != nil {
			return nil, err
		}
		out[field.Name] = toChoices(records, field.Relationship.LabelField)
	}
	return out, nil
}

// lookups resolves the related labels shown by a table.
func (s *Server) lookups(ctx context.Context, def entity.Definition, scope entity.Scope) (render.Lookups, error) {
	labelFields := map[entity.Kind]string{}
	for _, field := range def.Form.Fields {
		if field.Relationship != nil {
			labelFields[entity.Kind(field.Relationship.Kind)] = field.Relationship.LabelField
		}
	}
	var lookups render.Lookups
	for _, col := range def.Columns {
		if col.Lookup == "" {
			continue
		}
		if _, done := lookups[col.Lookup]; done {
			continue
		}
		records, err := s.storage.List(ctx, col.Lookup, scope.StoreID)
		if err != nil {
			return nil, err
		}
		lookups = render.LookupsFromChoices(col.Lookup, toChoices(records, labelFields[col.Lookup]), lookups)
	}
	return lookups, nil
}

func toChoices(records []model.Record, labelField string) []client.Choice {
	out := make([]client.Choice, 0, len(records))
	for _, record := range records {
		label := record.ID
		if value, ok := record.Value(labelField); ok {
			if text := render.PlainText(fmt.Sprint(value)); value != nil && text != "" {
				label = text
			}
		}
		out = append(out, client.Choice{Value: record.ID, Label: label})
	}
	return out
}

// formValues picks the schema fields out of a posted form. Checkboxes post
// a hidden "false" beside the checked value, so booleans keep every value.
func formValues(def entity.Definition, form url.Values) map[string]any {
	out := make(map[string]any, len(def.Form.Fields))
	for _, field := range def.Form.Fields {
		values, ok := form[field.Name]
		if !ok {
			continue
		}
		if field.Type == model.FieldTypeBoolean {
			out[field.Name] = append([]string(nil), values...)
			continue
		}
		out[field.Name] = form.Get(field.Name)
	}
	return out
}

// failureStatus picks the status of a re-rendered form.
func failureStatus(err error) int {
	kind, _ := controller.KindOf(err)
	switch {
	case kind == controller.KindValidationFailed:
		return http.StatusUnprocessableEntity
	case kind == controller.KindIntegrityConflict:
		return http.StatusConflict
	case errors.Is(err, controller.ErrReadOnly):
		return http.StatusMethodNotAllowed
	default:
		return http.StatusBadGateway
	}
}

func firstPath(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return "/"
}
