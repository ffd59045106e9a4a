// Package server exposes the store REST API and the server-rendered
// dashboard over one storage backend.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-storeadmin/components/choices"
	"github.com/goliatone/go-storeadmin/internal/storage/sqlite"
	"github.com/goliatone/go-storeadmin/pkg/entity"
	"github.com/goliatone/go-storeadmin/pkg/modal"
	"github.com/goliatone/go-storeadmin/pkg/model"
	"github.com/goliatone/go-storeadmin/pkg/notify"
	"github.com/goliatone/go-storeadmin/pkg/openapi"
	"github.com/goliatone/go-storeadmin/pkg/render"
)

const instrumentationName = "github.com/goliatone/go-storeadmin/internal/server"

// DefaultFlashCookie names the cookie holding the flash key of a browser.
const DefaultFlashCookie = "storeadmin_flash"

// Storage is the persistence the server needs. *sqlite.Store implements it.
type Storage interface {
	Create(ctx context.Context, kind entity.Kind, storeID string, values map[string]any) (model.Record, error)
	Update(ctx context.Context, kind entity.Kind, storeID, id string, values map[string]any) (model.Record, error)
	Delete(ctx context.Context, kind entity.Kind, storeID, id string) error
	Get(ctx context.Context, kind entity.Kind, storeID, id string) (model.Record, error)
	List(ctx context.Context, kind entity.Kind, storeID string) ([]model.Record, error)
	CreateOrder(ctx context.Context, storeID string, order sqlite.Order) (model.Record, error)
	Revenue(ctx context.Context, storeID string) ([]model.RevenuePoint, error)
	Summary(ctx context.Context, storeID string) (sqlite.Summary, error)
}

var _ Storage = (*sqlite.Store)(nil)

// Mux is the minimal interface required to register handlers. It is
// satisfied by *http.ServeMux, whose pattern syntax the routes use.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Server is safe for concurrent use.
type Server struct {
	storage     Storage
	catalog     *entity.Catalog
	pages       render.Pages
	flash       *notify.FlashStore
	logger      zerolog.Logger
	tracer      trace.Tracer
	tp          trace.TracerProvider
	openapi     openapi.Document
	flashCookie string
	setup       *modal.Modal
}

// Option configures a Server.
type Option func(*Server)

// WithCatalog selects the entity definitions served.
func WithCatalog(catalog *entity.Catalog) Option {
	return func(s *Server) {
		if catalog != nil {
			s.catalog = catalog
		}
	}
}

// WithPages overrides the dashboard renderer.
func WithPages(pages render.Pages) Option {
	return func(s *Server) {
		if pages != nil {
			s.pages = pages
		}
	}
}

// WithFlashStore shares a flash store, e.g. across handlers in tests.
func WithFlashStore(store *notify.FlashStore) Option {
	return func(s *Server) {
		if store != nil {
			s.flash = store
		}
	}
}

// WithFlashCookie renames the flash cookie.
func WithFlashCookie(name string) Option {
	return func(s *Server) {
		if name != "" {
			s.flashCookie = name
		}
	}
}

// WithOpenAPI replaces the served API description.
func WithOpenAPI(doc openapi.Document) Option {
	return func(s *Server) {
		if doc.Source() != nil {
			s.openapi = doc
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithTracerProvider sets the provider used for request spans. Form
// controllers created by the dashboard share it.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) {
		if tp != nil {
			s.tp = tp
			s.tracer = tp.Tracer(instrumentationName)
		}
	}
}

// New builds a server over storage.
func New(storage Storage, opts ...Option) (*Server, error) {
	if storage == nil {
		return nil, fmt.Errorf("server: storage is required")
	}
	s := &Server{
		storage:     storage,
		catalog:     entity.Default(),
		flash:       notify.NewFlashStore(),
		logger:      zerolog.Nop(),
		tracer:      otel.Tracer(instrumentationName),
		tp:          otel.GetTracerProvider(),
		openapi:     openapi.StoreAPI(),
		flashCookie: DefaultFlashCookie,
		setup:       modal.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.setup.OnChange(func(open bool) {
		s.logger.Debug().Bool("open", open).Msg("setup dialog")
	})
	if s.pages == nil {
		pages, err := render.New(render.WithCatalog(s.catalog))
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.pages = pages
	}
	return s, nil
}

// Handler returns a mux serving the API and the dashboard.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if err := s.RegisterRoutes(mux); err != nil {
		s.logger.Error().Err(err).Msg("route registration failed")
	}
	return mux
}

// RegisterRoutes mounts every route on mux.
func (s *Server) RegisterRoutes(mux Mux) error {
	if mux == nil {
		return fmt.Errorf("server: missing mux")
	}
	routes := []struct {
		pattern string
		handler http.HandlerFunc
	}{
		{"GET /api/openapi.yaml", s.apiOpenAPI},
		{"GET /api/stores", s.apiListStores},
		{"POST /api/stores", s.apiCreateStore},
		{"GET /api/stores/{storeId}", s.apiGetStore},
		{"PATCH /api/stores/{storeId}", s.apiUpdateStore},
		{"DELETE /api/stores/{storeId}", s.apiDeleteStore},
		{"GET /api/{storeId}/{plural}", s.apiList},
		{"POST /api/{storeId}/{plural}", s.apiCreate},
		{"GET /api/{storeId}/{plural}/{id}", s.apiGet},
		{"PATCH /api/{storeId}/{plural}/{id}", s.apiUpdate},
		{"DELETE /api/{storeId}/{plural}/{id}", s.apiDelete},

		{"GET /{$}", s.pageRoot},
		{"GET /stores/new", storeMenu{dialog: s.setup}.newStore},
		{"POST /stores/new", s.pageCreateStore},
		{"GET /{storeId}", s.pageOverview},
		{"GET /{storeId}/{plural}", s.pageList},
		{"POST /{storeId}/{plural}", s.pageSubmitSingle},
		{"GET /{storeId}/{plural}/{id}", s.pageForm},
		{"POST /{storeId}/{plural}/{id}", s.pageSubmit},
	}
	for _, route := range routes {
		mux.Handle(route.pattern, s.instrument(route.pattern, route.handler))
	}

	_, err := choices.RegisterRoutes(mux, "/api/{storeId}/{plural}",
		choices.WithSource(choices.SourceFunc(s.optionSource)),
		choices.WithGuard(s.optionGuard),
		choices.WithLogger(s.logger),
	)
	if err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument wraps a route with a span and an access log line.
func (s *Server) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, span := s.tracer.Start(r.Context(), route, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		span.SetAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", rec.status),
		)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
