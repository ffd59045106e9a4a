package openapi

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// SourceKind tells a Loader how to read a Source.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Source names where a document comes from.
type Source interface {
	Kind() SourceKind
	Location() string
}

type source struct {
	kind     SourceKind
	location string
}

func (s source) Kind() SourceKind { return s.kind }
func (s source) Location() string { return s.location }
func (s source) String() string   { return string(s.kind) + ":" + s.location }

// SourceFromFile points at a document on disk.
func SourceFromFile(path string) Source {
	return source{kind: SourceKindFile, location: filepath.Clean(path)}
}

// SourceFromFS names a document inside the loader's fs.FS.
func SourceFromFS(name string) Source {
	return source{kind: SourceKindFS, location: name}
}

// SourceFromURL points at a remote document.
func SourceFromURL(raw string) (Source, error) {
	if raw == "" {
		return nil, errors.New("openapi: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return nil, fmt.Errorf("openapi: invalid URL %q: %w", raw, err)
	}
	return source{kind: SourceKindURL, location: raw}, nil
}

// SourceFor treats http and https arguments as URLs and anything else as a
// file path, the way the command line accepts documents.
func SourceFor(arg string) (Source, error) {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return SourceFromURL(arg)
	}
	if strings.TrimSpace(arg) == "" {
		return nil, errors.New("openapi: empty source")
	}
	return SourceFromFile(arg), nil
}

// Document is a store API description and its origin. The bytes are copied
// in and out, so a Document is safe to share.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument wraps raw, which must be non-empty.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("openapi: source is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, fmt.Errorf("openapi: %s is empty", src.Location())
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// MustNewDocument is NewDocument for documents known at build time.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

func (d Document) Source() Source { return d.source }

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// MediaType reports application/json for JSON payloads and
// application/yaml otherwise.
func (d Document) MediaType() string {
	if trimmed := bytes.TrimSpace(d.raw); len(trimmed) > 0 && trimmed[0] == '{' {
		return "application/json"
	}
	return "application/yaml"
}
