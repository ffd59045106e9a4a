// Package client talks to the store REST API: it sends the create, update
// and delete mutations issued by form controllers and fetches records and
// relationship options.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-storeadmin/pkg/entity"
	"github.com/goliatone/go-storeadmin/pkg/model"
)

const instrumentationName = "github.com/goliatone/go-storeadmin/pkg/client"

// Mutation is one create, update or delete request against an entity
// endpoint. Path is already expanded.
type Mutation struct {
	Method   string
	Path     string
	Kind     entity.Kind
	StoreID  string
	RecordID string
	Values   map[string]any
}

// Choice is one selectable related record.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Client is safe for concurrent use.
type Client struct {
	base       *url.URL
	http       *http.Client
	logger     zerolog.Logger
	tracer     trace.Tracer
	catalog    *entity.Catalog
	choicesTTL time.Duration
	choices    *cache.Cache
}

// New builds a client rooted at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("client: base url %q must be absolute", baseURL)
	}

	c := &Client{
		base:       base,
		http:       http.DefaultClient,
		logger:     zerolog.Nop(),
		tracer:     otel.Tracer(instrumentationName),
		catalog:    entity.Default(),
		choicesTTL: DefaultChoicesTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.choices = cache.New(c.choicesTTL, 2*c.choicesTTL)
	return c, nil
}

// Send issues m. A 2xx response yields the returned record; delete accepts
// any 2xx body. Other statuses yield a *StatusError.
func (c *Client) Send(ctx context.Context, m Mutation) (model.Record, error) {
	switch m.Method {
	case http.MethodPost, http.MethodPatch, http.MethodDelete:
	default:
		return model.Record{}, fmt.Errorf("client: unsupported mutation method %q", m.Method)
	}

	var body io.Reader
	if m.Method != http.MethodDelete {
		payload, err := json.Marshal(m.Values)
		if err != nil {
			return model.Record{}, fmt.Errorf("client: encode values: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	data, err := c.do(ctx, m.Method, m.Path, body, attribute.String("storeadmin.kind", string(m.Kind)))
	if err != nil {
		return model.Record{}, err
	}
	// Related options may now be stale.
	c.choices.Flush()

	if m.Method == http.MethodDelete {
		var record model.Record
		if json.Unmarshal(data, &record) != nil {
			record = model.Record{ID: m.RecordID}
		}
		return record, nil
	}

	var record model.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return model.Record{}, fmt.Errorf("client: decode record: %w", err)
	}
	return record, nil
}

// Get fetches one record.
func (c *Client) Get(ctx context.Context, path string) (model.Record, error) {
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return model.Record{}, err
	}
	var record model.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return model.Record{}, fmt.Errorf("client: decode record: %w", err)
	}
	return record, nil
}

// List fetches a collection. The API answers with a bare array.
func (c *Client) List(ctx context.Context, path string) ([]model.Record, error) {
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var records []model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("client: decode records: %w", err)
	}
	return records, nil
}

// Choices returns the selectable records for a relationship field. Results
// are cached per collection path until the TTL passes or a mutation
// succeeds.
func (c *Client) Choices(ctx context.Context, rel model.Relationship, scope entity.Scope) ([]Choice, error) {
	def, err := c.catalog.Get(entity.Kind(rel.Kind))
	if err != nil {
		return nil, fmt.Errorf("client: choices: %w", err)
	}
	path, err := def.CollectionPath(scope)
	if err != nil {
		return nil, fmt.Errorf("client: choices: %w", err)
	}

	key := path + "#" + rel.LabelField
	if cached, ok := c.choices.Get(key); ok {
		return cached.([]Choice), nil
	}

	records, err := c.List(ctx, path)
	if err != nil {
		return nil, err
	}
	out := make([]Choice, 0, len(records))
	for _, record := range records {
		label := record.ID
		if v, ok := record.Value(rel.LabelField); ok && v != nil {
			if s := fmt.Sprint(v); s != "" {
				label = s
			}
		}
		out = append(out, Choice{Value: record.ID, Label: label})
	}
	c.choices.SetDefault(key, out)
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, attrs ...attribute.KeyValue) ([]byte, error) {
	target := c.resolve(path)

	ctx, span := c.tracer.Start(ctx, "client "+method, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(append(attrs,
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
	)...)

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("client: request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return nil, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := statusError(resp.StatusCode, data)
		span.SetStatus(codes.Error, statusErr.Error())
		c.logger.Debug().Int("status", resp.StatusCode).Str("method", method).Str("path", path).Msg("request rejected")
		return nil, statusErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("client: read body: %w", err)
	}
	return data, nil
}

func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(c.base.String(), "/") + "/" + strings.TrimLeft(path, "/")
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode() == code
}
