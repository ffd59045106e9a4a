package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-storeadmin/pkg/entity"
	"github.com/goliatone/go-storeadmin/pkg/model"
)

// Create inserts a record of kind. storeID is ignored for stores. Values for
// fields outside the form are dropped; missing fields take their empty
// default.
func (s *Store) Create(ctx context.Context, kind entity.Kind, storeID string, values map[string]any) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return model.Record{}, err
	}
	t, err := s.table(kind)
	if err != nil {
		return model.Record{}, err
	}
	if t.readOnly || kind == entity.KindSettings {
		return model.Record{}, fmt.Errorf("%w: create %s", ErrUnsupported, kind)
	}

	id := s.newID()
	now := s.timestamp()
	cols := []string{"id"}
	args := []any{id}
	if t.byStore {
		cols = append(cols, "store_id")
		args = append(args, storeID)
	}
	for _, col := range t.columns {
		value, ok := values[col.field.Name]
		if !ok || value == nil {
			value = model.EmptyDefault(col.field)
		}
		cols = append(cols, col.name)
		args = append(args, toColumn(col.field.Type, value))
	}
	cols = append(cols, "created_at", "updated_at")
	args = append(args, now, now)

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.name, strings.Join(cols, ", "), placeholders(len(cols)))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return model.Record{}, fmt.Errorf("%w: create %s", ErrInvalidReference, kind)
		}
		return model.Record{}, fmt.Errorf("sqlite: create %s: %w", kind, err)
	}
	s.logger.Debug().Str("entity", string(kind)).Str("id", id).Msg("record created")
	return s.Get(ctx, kind, storeID, id)
}

// Update overwrites the supplied form fields of one record. Settings are the
// store itself, so their id is the store id.
func (s *Store) Update(ctx context.Context, kind entity.Kind, storeID, id string, values map[string]any) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return model.Record{}, err
	}
	t, err := s.table(kind)
	if err != nil {
		return model.Record{}, err
	}
	if t.readOnly {
		return model.Record{}, fmt.Errorf("%w: update %s", ErrUnsupported, kind)
	}
	if kind == entity.KindSettings {
		id = storeID
	}

	var sets []string
	var args []any
	for _, col := range t.columns {
		value, ok := values[col.field.Name]
		if !ok {
			continue
		}
		sets = append(sets, col.name+" = ?")
		args = append(args, toColumn(col.field.Type, value))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, s.timestamp())

	where, whereArgs := t.scope(storeID, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s", t.name, strings.Join(sets, ", "), where)
	res, err := s.db.ExecContext(ctx, query, append(args, whereArgs...)...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.Record{}, fmt.Errorf("%w: update %s %s", ErrInvalidReference, kind, id)
		}
		return model.Record{}, fmt.Errorf("sqlite: update %s %s: %w", kind, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.Record{}, fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	return s.Get(ctx, kind, storeID, id)
}

// Delete removes one record. Records that others still reference are kept
// and ErrConflict is returned.
func (s *Store) Delete(ctx context.Context, kind entity.Kind, storeID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t, err := s.table(kind)
	if err != nil {
		return err
	}
	if kind == entity.KindSettings {
		id = storeID
	}

	where, args := t.scope(storeID, id)
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+t.name+" WHERE "+where, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s %s", ErrConflict, kind, id)
		}
		return fmt.Errorf("sqlite: delete %s %s: %w", kind, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	s.logger.Debug().Str("entity", string(kind)).Str("id", id).Msg("record deleted")
	return nil
}

// Get loads one record.
func (s *Store) Get(ctx context.Context, kind entity.Kind, storeID, id string) (model.Record, error) {
	t, err := s.table(kind)
	if err != nil {
		return model.Record{}, err
	}
	if kind == entity.KindSettings {
		id = storeID
	}
	where, args := t.scope(storeID, id)
	rec, err := t.scan(s.db.QueryRowContext(ctx, t.selectSQL(where), args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Record{}, fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	if err != nil {
		return model.Record{}, fmt.Errorf("sqlite: get %s %s: %w", kind, id, err)
	}
	return rec, nil
}

// List returns the records of kind in a store, newest first. Stores are
// listed in creation order so the first store stays first.
func (s *Store) List(ctx context.Context, kind entity.Kind, storeID string) ([]model.Record, error) {
	t, err := s.table(kind)
	if err != nil {
		return nil, err
	}
	where, args := "1 = 1", []any(nil)
	order := " ORDER BY created_at ASC, rowid ASC"
	if t.byStore {
		where, args = "store_id = ?", []any{storeID}
		order = " ORDER BY created_at DESC, rowid DESC"
	}

	rows, err := s.db.QueryContext(ctx, t.selectSQL(where)+order, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list %s: %w", kind, err)
	}
	defer rows.Close()

	out := []model.Record{}
	for rows.Next() {
		rec, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list %s: %w", kind, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list %s: %w", kind, err)
	}
	return out, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
