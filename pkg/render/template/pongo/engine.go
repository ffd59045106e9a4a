// Package pongo implements template.Engine on top of pongo2.
package pongo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-storeadmin/pkg/render/template"
)

// Extension is appended to template names that lack it.
const Extension = ".tpl"

// Filter is a template filter: {{ value|name:param }}.
type Filter func(input any, param any) (any, error)

// Option configures an Engine.
type Option func(*Engine)

// WithFS adds a template filesystem. Filesystems added first win, so
// callers shadow the embedded pages by passing theirs before them.
func WithFS(files fs.FS) Option {
	return func(e *Engine) {
		if files != nil {
			e.loaders = append(e.loaders, pongo2.NewFSLoader(files))
		}
	}
}

// WithFilters registers filters when the engine is built. Names pongo2
// already knows are kept as they are.
func WithFilters(filters map[string]Filter) Option {
	return func(e *Engine) {
		for name, fn := range filters {
			e.filters[strings.TrimSpace(name)] = fn
		}
	}
}

// Engine renders templates from its filesystems. Parsed templates are
// cached by pongo2; it is safe for concurrent use.
type Engine struct {
	loaders []pongo2.TemplateLoader
	filters map[string]Filter

	// guards set.Globals, which every execution reads
	mu  sync.RWMutex
	set *pongo2.TemplateSet
}

var _ template.Engine = (*Engine)(nil)

var builtins sync.Once

// New builds an Engine. At least one WithFS is required.
func New(options ...Option) (*Engine, error) {
	e := &Engine{filters: map[string]Filter{}}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	if len(e.loaders) == 0 {
		return nil, errors.New("pongo: no template filesystem")
	}
	e.set = pongo2.NewSet("storeadmin", e.loaders...)
	e.set.Globals = pongo2.Context{}

	builtins.Do(func() {
		_ = pongo2.RegisterFilter("trim", filterTrim)
		_ = pongo2.RegisterFilter("initial", filterInitial)
	})
	for name, fn := range e.filters {
		if pongo2.FilterExists(name) {
			continue
		}
		if err := e.RegisterFilter(name, fn); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// RenderTemplate executes the named template, adding Extension when the
// name has none. The output is returned and copied to every writer in out.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if !strings.HasSuffix(name, Extension) {
		name += Extension
	}
	tmpl, err := e.set.FromCache(name)
	if err != nil {
		return "", fmt.Errorf("pongo: load %q: %w", name, err)
	}
	return e.execute(tmpl, name, data, out)
}

// RenderString parses and executes inline template content.
func (e *Engine) RenderString(content string, data any, out ...io.Writer) (string, error) {
	tmpl, err := e.set.FromString(content)
	if err != nil {
		return "", fmt.Errorf("pongo: parse inline template: %w", err)
	}
	return e.execute(tmpl, "inline template", data, out)
}

func (e *Engine) execute(tmpl *pongo2.Template, name string, data any, out []io.Writer) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("pongo: %s data: %w", name, err)
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(ctx, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("pongo: execute %s: %w", name, err)
	}

	for _, w := range out {
		if _, err := w.Write(buf.Bytes()); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// RegisterFilter adds a filter to pongo2. Filters are process wide, so an
// existing name is an error.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("pongo: filter needs a name and a function")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("pongo: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, func(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil {
			arg = param.Interface()
		}
		result, err := fn(in.Interface(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

// GlobalContext merges data into the values every template sees.
func (e *Engine) GlobalContext(data any) error {
	if data == nil {
		return nil
	}
	ctx, err := toContext(data)
	if err != nil {
		return fmt.Errorf("pongo: global data: %w", err)
	}
	e.mu.Lock()
	e.set.Globals.Update(ctx)
	e.mu.Unlock()
	return nil
}

// toContext turns view data into a pongo2 context. Structs are addressed
// by their JSON names, so they go through encoding/json first.
func toContext(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}
	v, err := normalize(data)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("view data must be an object, got %T", data)
	}
	ctx := make(pongo2.Context, len(m))
	for key, value := range m {
		if key = strings.TrimSpace(key); key != "" {
			ctx[key] = value
		}
	}
	return ctx, nil
}

func normalize(value any) (any, error) {
	switch v := value.(type) {
	case nil, string, bool, int, int64:
		return v, nil
	case float64:
		// JSON numbers come back as floats; whole ones print as ints.
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return int(v), nil
		}
		return v, nil
	case pongo2.Context:
		return normalize(map[string]any(v))
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}
	if reflect.ValueOf(value).Kind() == reflect.Func {
		return value, nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	return normalize(decoded)
}

func filterTrim(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterInitial returns the upper-cased first letter, used for store
// avatars in the switcher.
func filterInitial(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	s := strings.TrimSpace(in.String())
	if s == "" {
		return pongo2.AsValue(""), nil
	}
	r, _ := utf8.DecodeRuneInString(s)
	return pongo2.AsValue(string(unicode.ToUpper(r))), nil
}
