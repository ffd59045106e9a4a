package render_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-storeadmin/pkg/render"
)

func TestMethodFields(t *testing.T) {
	if diff := cmp.Diff([]render.HiddenField{{Name: "_method", Value: "PATCH"}}, render.MethodFields(" patch ")); diff != "" {
		t.Fatalf("patch mismatch (-want +got):\n%s", diff)
	}
	for _, method := range []string{http.MethodGet, http.MethodPost, ""} {
		if got := render.MethodFields(method); got != nil {
			t.Fatalf("%q needs no override, got %+v", method, got)
		}
	}
}

func TestRequestMethod(t *testing.T) {
	cases := []struct {
		name   string
		method string
		form   url.Values
		want   string
	}{
		{"plain post", http.MethodPost, url.Values{}, http.MethodPost},
		{"patch override", http.MethodPost, url.Values{"_method": {"patch"}}, http.MethodPatch},
		{"delete override", http.MethodPost, url.Values{"_method": {"DELETE"}}, http.MethodDelete},
		{"get cannot be tunnelled", http.MethodPost, url.Values{"_method": {"GET"}}, http.MethodPost},
		{"only post is overridden", http.MethodGet, url.Values{"_method": {"DELETE"}}, http.MethodGet},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := render.RequestMethod(tc.method, tc.form); got != tc.want {
				t.Fatalf("want %s, got %s", tc.want, got)
			}
		})
	}
}
