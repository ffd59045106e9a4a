package choices

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-storeadmin/pkg/client"
)

// Mux is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Handler builds the choices endpoint.
func Handler(opts ...Option) http.Handler {
	return handler(newConfig(opts))
}

// RegisterRoutes mounts the handler for GET (and so HEAD) at
// prefix + "/" + segment and returns that path. prefix may hold ServeMux
// wildcards such as {storeId}.
func RegisterRoutes(mux Mux, prefix string, opts ...Option) (string, error) {
	if mux == nil {
		return "", errors.New("choices: missing mux")
	}
	cfg := newConfig(opts)
	if cfg.source == nil {
		return "", errors.New("choices: missing source")
	}
	path := MountPath(prefix, cfg.segment)
	mux.Handle(http.MethodGet+" "+path, handler(cfg))
	return path, nil
}

// MountPath joins prefix and segment with exactly one slash between them.
func MountPath(prefix, segment string) string {
	prefix = "/" + strings.Trim(strings.TrimSpace(prefix), "/")
	segment = strings.Trim(strings.TrimSpace(segment), "/")
	if segment == "" {
		segment = DefaultSegment
	}
	if prefix == "/" {
		return prefix + segment
	}
	return prefix + "/" + segment
}

func handler(cfg config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			writeError(w, &client.StatusError{Code: http.StatusMethodNotAllowed}, http.StatusMethodNotAllowed)
			return
		}
		if cfg.guard != nil {
			if err := cfg.guard(r); err != nil {
				writeError(w, err, http.StatusForbidden)
				return
			}
		}

		var all []client.Choice
		if cfg.source != nil {
			loaded, err := cfg.source.Choices(r)
			if err != nil {
				cfg.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("choices source failed")
				writeError(w, err, http.StatusInternalServerError)
				return
			}
			all = loaded
		}

		query := r.URL.Query()
		results := Filter(all, query.Get("q"), cfg.limit(query.Get("limit")))

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_ = json.NewEncoder(w).Encode(results)
	})
}

// limit parses the limit parameter. Missing or malformed values use the
// default; large ones are capped.
func (c config) limit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return c.defaultLimit
	}
	return min(n, c.maxLimit)
}

func writeError(w http.ResponseWriter, err error, fallback int) {
	code := fallback
	var httpErr client.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.StatusCode()
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = fmt.Fprintf(w, "{\"error\":%q}\n", http.StatusText(code))
}
