// Package sqlite persists dashboard entities in SQLite. Foreign keys are
// enforced, so a parent with dependents cannot be deleted and a write that
// points at a missing record is rejected.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/goliatone/go-storeadmin/internal/storage/sqlite/migrations"
	"github.com/goliatone/go-storeadmin/pkg/entity"
)

var (
	// ErrNotFound is returned when no record matches the id and store.
	ErrNotFound = errors.New("sqlite: record not found")
	// ErrConflict is returned when a delete is blocked by dependent records.
	ErrConflict = errors.New("sqlite: record is still referenced")
	// ErrInvalidReference is returned when a write points at a record that
	// does not exist.
	ErrInvalidReference = errors.New("sqlite: invalid reference")
	// ErrUnsupported is returned for operations an entity does not allow,
	// such as creating settings or writing orders through the generic path.
	ErrUnsupported = errors.New("sqlite: operation not supported")
	// ErrEmptyOrder is returned when an order has no products.
	ErrEmptyOrder = errors.New("sqlite: order has no products")
)

// Store persists entities in SQLite.
type Store struct {
	db      *sql.DB
	catalog *entity.Catalog
	logger  zerolog.Logger
	now     func() time.Time
	newID   func() string
}

// Option configures a Store.
type Option func(*Store)

// WithCatalog selects the entity definitions whose forms map to columns.
func WithCatalog(catalog *entity.Catalog) Option {
	return func(s *Store) {
		if catalog != nil {
			s.catalog = catalog
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how record ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// Open opens the database at path and applies the embedded migrations.
func Open(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite: storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	s := &Store{
		db:      db,
		catalog: entity.Default(),
		logger:  zerolog.Nop(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if err := applyMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	s.logger.Debug().Str("path", path).Msg("storage ready")
	return s, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyMigrations(db *sql.DB) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("sqlite: migration source: %w", err)
	}
	driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		return fmt.Errorf("sqlite: migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}
	// m.Close would close db through the driver; only the source is released.
	defer src.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("sqlite: migrate up: %w", err)
	}
	return nil
}

func (s *Store) timestamp() int64 {
	return s.now().UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed")
}
