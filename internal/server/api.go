package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goliatone/go-storeadmin/internal/storage/sqlite"
	"github.com/goliatone/go-storeadmin/pkg/client"
	"github.com/goliatone/go-storeadmin/pkg/entity"
	"github.com/goliatone/go-storeadmin/pkg/model"
	"github.com/goliatone/go-storeadmin/pkg/validation"
)

const maxBody = 1 << 20

// Aggregate resources served beside the entity collections of a store.
const (
	resourceRevenue = "revenue"
	resourceSummary = "summary"
)

const errMissingReference = "does not exist"

func (s *Server) apiOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", s.openapi.MediaType())
	_, _ = w.Write(s.openapi.Raw())
}

func (s *Server) apiListStores(w http.ResponseWriter, r *http.Request) {
	records, err := s.storage.List(r.Context(), entity.KindStore, "")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) apiCreateStore(w http.ResponseWriter, r *http.Request) {
	s.create(w, r, entity.KindStore, "")
}

func (s *Server) apiGetStore(w http.ResponseWriter, r *http.Request) {
	record, err := s.storage.Get(r.Context(), entity.KindStore, "", r.PathValue("storeId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) apiUpdateStore(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("storeId")
	s.update(w, r, entity.KindStore, id, id)
}

func (s *Server) apiDeleteStore(w http.ResponseWriter, r *http.Request) {
	s.remove(w, r, entity.KindStore, "", r.PathValue("storeId"))
}

func (s *Server) apiList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	storeID := r.PathValue("storeId")
	if err := s.requireStore(ctx, storeID); err != nil {
		s.writeError(w, r, err)
		return
	}

	switch plural := r.PathValue("plural"); plural {
	case resourceRevenue:
		points, err := s.storage.Revenue(ctx, storeID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, points)
	case resourceSummary:
		summary, err := s.storage.Summary(ctx, storeID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	default:
		def, err := s.scopedDefinition(plural)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		records, err := s.storage.List(ctx, def.Kind, storeID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func (s *Server) apiCreate(w http.ResponseWriter, r *http.Request) {
	storeID := r.PathValue("storeId")
	if err := s.requireStore(r.Context(), storeID); err != nil {
		s.writeError(w, r, err)
		return
	}
	def, err := s.scopedDefinition(r.PathValue("plural"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if def.Kind == entity.KindOrder {
		s.checkout(w, r, storeID)
		return
	}
	s.create(w, r, def.Kind, storeID)
}

func (s *Server) apiGet(w http.ResponseWriter, r *http.Request) {
	def, err := s.scopedDefinition(r.PathValue("plural"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	record, err := s.storage.Get(r.Context(), def.Kind, r.PathValue("storeId"), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) apiUpdate(w http.ResponseWriter, r *http.Request) {
	def, err := s.scopedDefinition(r.PathValue("plural"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.update(w, r, def.Kind, r.PathValue("storeId"), r.PathValue("id"))
}

func (s *Server) apiDelete(w http.ResponseWriter, r *http.Request) {
	def, err := s.scopedDefinition(r.PathValue("plural"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.remove(w, r, def.Kind, r.PathValue("storeId"), r.PathValue("id"))
}

func (s *Server) create(w http.ResponseWriter, r *http.Request, kind entity.Kind, storeID string) {
	values, err := decodeValues(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	record, err := s.createRecord(r.Context(), kind, storeID, values)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request, kind entity.Kind, storeID, id string) {
	values, err := decodeValues(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	record, err := s.updateRecord(r.Context(), kind, storeID, id, values)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request, kind entity.Kind, storeID, id string) {
	record, err := s.storage.Get(r.Context(), kind, storeID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.storage.Delete(r.Context(), kind, storeID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request, storeID string) {
	var order sqlite.Order
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&order); err != nil {
		s.writeError(w, r, &client.StatusError{Code: http.StatusBadRequest, Message: "invalid JSON body"})
		return
	}
	record, err := s.storage.CreateOrder(r.Context(), storeID, order)
	if err != nil {
		if errors.Is(err, sqlite.ErrInvalidReference) {
			err = &client.StatusError{
				Code:    http.StatusUnprocessableEntity,
				Message: "invalid reference",
				Fields:  map[string][]string{"productIds": {errMissingReference}},
			}
		}
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// createRecord validates values against the entity form, checks that every
// relationship resolves inside the store and inserts the record.
func (s *Server) createRecord(ctx context.Context, kind entity.Kind, storeID string, values map[string]any) (model.Record, error) {
	def, err := s.catalog.Get(kind)
	if err != nil {
		return model.Record{}, err
	}
	clean, err := s.validate(ctx, def, storeID, values)
	if err != nil {
		return model.Record{}, err
	}
	return s.storage.Create(ctx, kind, storeID, clean)
}

// updateRecord merges values over the stored record so partial payloads
// validate against the full form.
func (s *Server) updateRecord(ctx context.Context, kind entity.Kind, storeID, id string, values map[string]any) (model.Record, error) {
	def, err := s.catalog.Get(kind)
	if err != nil {
		return model.Record{}, err
	}
	if def.ReadOnly {
		return model.Record{}, fmt.Errorf("%w: update %s", sqlite.ErrUnsupported, kind)
	}
	existing, err := s.storage.Get(ctx, kind, storeID, id)
	if err != nil {
		return model.Record{}, err
	}
	merged := model.ValuesFromRecord(def.Form, existing)
	for name, value := range values {
		merged[name] = value
	}
	clean, err := s.validate(ctx, def, storeID, merged)
	if err != nil {
		return model.Record{}, err
	}
	return s.storage.Update(ctx, kind, storeID, id, clean)
}

func (s *Server) validate(ctx context.Context, def entity.Definition, storeID string, values map[string]any) (map[string]any, error) {
	result := validation.Validate(def.Form, values)
	if result.Fields == nil {
		result.Fields = map[string][]string{}
	}
	for _, field := range def.Form.Fields {
		if field.Relationship == nil || len(result.Fields[field.Name]) > 0 {
			continue
		}
		id, _ := result.Values[field.Name].(string)
		if id == "" {
			continue
		}
		_, err := s.storage.Get(ctx, entity.Kind(field.Relationship.Kind), storeID, id)
		if errors.Is(err, sqlite.ErrNotFound) {
			result.Fields[field.Name] = []string{errMissingReference}
			continue
		}
		if err != nil {
			return nil, err
		}
	}
	if len(result.Fields) > 0 {
		return nil, result
	}
	return result.Values, nil
}

func (s *Server) requireStore(ctx context.Context, storeID string) error {
	_, err := s.storage.Get(ctx, entity.KindStore, "", storeID)
	return err
}

// scopedDefinition resolves a collection segment to a store-scoped entity
// with its own records. Settings are served by the store routes.
func (s *Server) scopedDefinition(plural string) (entity.Definition, error) {
	def, ok := s.catalog.LookupPlural(plural)
	if !ok || !def.Scoped || def.EditOnly {
		return entity.Definition{}, fmt.Errorf("%w: %s", entity.ErrUnknownKind, plural)
	}
	return def, nil
}

func decodeValues(r *http.Request) (map[string]any, error) {
	values := map[string]any{}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, &client.StatusError{Code: http.StatusBadRequest, Message: "invalid JSON body"}
	}
	return values, nil
}
