// Package testsupport holds fixtures shared by package tests.
package testsupport

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-storeadmin/pkg/entity"
	"github.com/goliatone/go-storeadmin/pkg/model"
)

// FixedTime is the timestamp stamped on fixture records.
var FixedTime = time.Date(2024, time.March, 3, 10, 30, 0, 0, time.UTC)

// Record builds a fixture record stamped with FixedTime.
func Record(id string, values map[string]any) model.Record {
	return model.Record{
		ID:        id,
		Values:    model.CloneValues(values),
		CreatedAt: FixedTime,
		UpdatedAt: FixedTime,
	}
}

// Definition returns a built-in entity definition or fails the test.
func Definition(t testing.TB, kind entity.Kind) entity.Definition {
	t.Helper()
	def, err := entity.Default().Get(kind)
	if err != nil {
		t.Fatalf("definition %s: %v", kind, err)
	}
	return def
}

// Golden compares got with the file at path. With UPDATE_GOLDENS set the
// file is rewritten instead.
func Golden(t testing.TB, path, got string) {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(got), 0o644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
		return
	}
	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	if got != string(want) {
		t.Fatalf("%s mismatch\nwant: %q\n got: %q", filepath.Base(path), want, got)
	}
}

// Capture runs render against a buffer and returns both the returned string
// and what was written. The two must agree for writer-aware renderers.
func Capture(t testing.TB, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()
	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out, buf.String()
}
