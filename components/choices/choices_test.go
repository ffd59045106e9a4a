package choices

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-storeadmin/pkg/client"
)

var colors = []client.Choice{
	{Value: "k1", Label: "Red"},
	{Value: "k2", Label: "Dark red"},
	{Value: "k3", Label: "Blue"},
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) []client.Choice {
	t.Helper()
	var payload []client.Choice
	if err := json.NewDecoder(rec.Result().Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return payload
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestFilter_PrefixMatchesFirst(t *testing.T) {
	got := Filter(colors, "RED", 10)
	want := []client.Choice{{Value: "k1", Label: "Red"}, {Value: "k2", Label: "Dark red"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
}

func TestFilter_EmptyQueryKeepsOrder(t *testing.T) {
	if diff := cmp.Diff(colors[:2], Filter(colors, " ", 2)); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
	if got := Filter(nil, "", 5); got == nil || len(got) != 0 {
		t.Fatalf("expected an empty, non-nil result, got %#v", got)
	}
	if got := Filter(colors, "", 0); len(got) != 0 {
		t.Fatalf("zero limit returns nothing, got %#v", got)
	}
}

func TestHandler_FiltersSource(t *testing.T) {
	rec := serve(Handler(WithStatic(colors)), http.MethodGet, "/options?q=blu")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}
	if diff := cmp.Diff([]client.Choice{{Value: "k3", Label: "Blue"}}, decode(t, rec)); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_EmptyArray(t *testing.T) {
	rec := serve(Handler(WithStatic(nil)), http.MethodGet, "/options?q=x")
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Fatalf("expected empty array, got %q", body)
	}
}

func TestHandler_Limits(t *testing.T) {
	h := Handler(WithStatic(colors), WithLimits(2, 1))

	if got := decode(t, serve(h, http.MethodGet, "/options")); len(got) != 1 {
		t.Fatalf("default limit is capped by the maximum, got %d", len(got))
	}
	h = Handler(WithStatic(colors), WithLimits(1, 10))
	if got := decode(t, serve(h, http.MethodGet, "/options?limit=abc")); len(got) != 1 {
		t.Fatalf("malformed limit uses the default, got %d", len(got))
	}
	if got := decode(t, serve(h, http.MethodGet, "/options?limit=3")); len(got) != 3 {
		t.Fatalf("explicit limit applies, got %d", len(got))
	}
}

func TestHandler_SourceStatus(t *testing.T) {
	h := Handler(WithSource(SourceFunc(func(*http.Request) ([]client.Choice, error) {
		return nil, &client.StatusError{Code: http.StatusNotFound, Message: "unknown store"}
	})))
	if rec := serve(h, http.MethodGet, "/options"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}

	h = Handler(WithSource(SourceFunc(func(*http.Request) ([]client.Choice, error) {
		return nil, errors.New("boom")
	})))
	rec := serve(h, http.MethodGet, "/options")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error":"Internal Server Error"`) {
		t.Fatalf("unexpected error body %q", rec.Body.String())
	}
}

func TestHandler_GuardRejects(t *testing.T) {
	h := Handler(
		WithStatic(colors),
		WithGuard(func(*http.Request) error { return &client.StatusError{Code: http.StatusUnauthorized} }),
	)
	if rec := serve(h, http.MethodGet, "/options"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	h = Handler(WithStatic(colors), WithGuard(func(*http.Request) error { return errors.New("no") }))
	if rec := serve(h, http.MethodGet, "/options"); rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	rec := serve(Handler(WithStatic(colors)), http.MethodPost, "/options")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, HEAD" {
		t.Fatalf("unexpected Allow header %q", allow)
	}
}

func TestHandler_HeadHasNoBody(t *testing.T) {
	rec := serve(Handler(WithStatic(colors)), http.MethodHead, "/options")
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Fatalf("unexpected HEAD response %d %q", rec.Code, rec.Body.String())
	}
}

func TestMountPath(t *testing.T) {
	cases := map[string]struct{ prefix, segment, want string }{
		"wildcards":     {"/api/{storeId}/colors", "", "/api/{storeId}/colors/options"},
		"bare prefix":   {"api/", "choices", "/api/choices"},
		"root":          {"/", "/options/", "/options"},
		"empty segment": {"", " ", "/options"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := MountPath(tc.prefix, tc.segment); got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestRegisterRoutes_UsesWildcards(t *testing.T) {
	mux := http.NewServeMux()
	var seen string
	path, err := RegisterRoutes(mux, "/api/{storeId}/{plural}", WithSource(SourceFunc(func(r *http.Request) ([]client.Choice, error) {
		seen = r.PathValue("storeId") + "/" + r.PathValue("plural")
		return colors, nil
	})))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if path != "/api/{storeId}/{plural}/options" {
		t.Fatalf("unexpected registered path: %q", path)
	}

	rec := serve(mux, http.MethodGet, "/api/s1/colors/options?limit=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if seen != "s1/colors" {
		t.Fatalf("wildcards not resolved: %q", seen)
	}
	if got := decode(t, rec); len(got) != 1 {
		t.Fatalf("expected limit to apply, got %#v", got)
	}
}

func TestRegisterRoutes_RequiresSource(t *testing.T) {
	if _, err := RegisterRoutes(http.NewServeMux(), "/api"); err == nil {
		t.Fatalf("expected missing source error")
	}
	if _, err := RegisterRoutes(nil, "/api", WithStatic(colors)); err == nil {
		t.Fatalf("expected missing mux error")
	}
}
