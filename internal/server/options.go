package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-storeadmin/pkg/client"
)

// optionGuard rejects option lookups outside an existing store.
func (s *Server) optionGuard(r *http.Request) error {
	if err := s.requireStore(r.Context(), r.PathValue("storeId")); err != nil {
		return statusOf(err)
	}
	return nil
}

// optionSource lists the records of a collection as select options. The
// label query parameter picks the labelling field; it defaults to the
// entity's search column.
func (s *Server) optionSource(r *http.Request) ([]client.Choice, error) {
	def, err := s.scopedDefinition(r.PathValue("plural"))
	if err != nil {
		return nil, &client.StatusError{Code: http.StatusNotFound, Message: err.Error()}
	}
	records, err := s.storage.List(r.Context(), def.Kind, r.PathValue("storeId"))
	if err != nil {
		return nil, statusOf(err)
	}

	labelField := strings.TrimSpace(r.URL.Query().Get("label"))
	if labelField == "" {
		labelField = def.SearchKey
	}
	out := make([]client.Choice, 0, len(records))
	for _, record := range records {
		label := record.ID
		if value, ok := record.Value(labelField); ok && value != nil {
			if text := fmt.Sprint(value); text != "" {
				label = text
			}
		}
		out = append(out, client.Choice{Value: record.ID, Label: label})
	}
	return out, nil
}
