package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goliatone/go-storeadmin/internal/storage/sqlite"
	"github.com/goliatone/go-storeadmin/pkg/client"
	"github.com/goliatone/go-storeadmin/pkg/entity"
	"github.com/goliatone/go-storeadmin/pkg/validation"
)

// errorBody is the JSON error payload of the API. The client package
// decodes the same shape.
type errorBody struct {
	Error  string              `json:"error"`
	Errors map[string][]string `json:"errors,omitempty"`
}

// statusOf maps storage and validation failures onto a status error.
func statusOf(err error) *client.StatusError {
	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		return statusErr
	}
	var result validation.Result
	if errors.As(err, &result) {
		return &client.StatusError{Code: http.StatusUnprocessableEntity, Message: "validation failed", Fields: result.Fields}
	}

	out := &client.StatusError{Code: http.StatusInternalServerError, Message: http.StatusText(http.StatusInternalServerError)}
	switch {
	case errors.Is(err, sqlite.ErrNotFound), errors.Is(err, entity.ErrUnknownKind):
		out.Code, out.Message = http.StatusNotFound, "not found"
	case errors.Is(err, sqlite.ErrConflict):
		out.Code, out.Message = http.StatusConflict, "record is still in use"
	case errors.Is(err, sqlite.ErrInvalidReference):
		out.Code, out.Message = http.StatusUnprocessableEntity, "invalid reference"
	case errors.Is(err, sqlite.ErrEmptyOrder):
		out.Code, out.Message = http.StatusBadRequest, "order has no products"
	case errors.Is(err, sqlite.ErrUnsupported):
		out.Code, out.Message = http.StatusMethodNotAllowed, "operation not allowed"
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	event := s.logger.Debug()
	if status.StatusCode() >= http.StatusInternalServerError {
		event = s.logger.Error()
	}
	event.Err(err).Str("path", r.URL.Path).Int("status", status.StatusCode()).Msg("api error")
	writeJSON(w, status.StatusCode(), errorBody{Error: status.Message, Errors: status.Fields})
}
