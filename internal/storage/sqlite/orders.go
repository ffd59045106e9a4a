package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-storeadmin/pkg/entity"
	"github.com/goliatone/go-storeadmin/pkg/model"
)

// Order is a checkout: the products bought plus contact details.
type Order struct {
	ProductIDs []string `json:"productIds"`
	Phone      string   `json:"phone"`
	Address    string   `json:"address"`
	IsPaid     bool     `json:"isPaid"`
}

// Summary holds the overview counters of a store.
type Summary struct {
	Sales int `json:"sales"`
	Stock int `json:"stock"`
}

// CreateOrder records an order and its items in one transaction.
func (s *Store) CreateOrder(ctx context.Context, storeID string, order Order) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return model.Record{}, err
	}
	var productIDs []string
	for _, id := range order.ProductIDs {
		if id = strings.TrimSpace(id); id != "" {
			productIDs = append(productIDs, id)
		}
	}
	if len(productIDs) == 0 {
		return model.Record{}, ErrEmptyOrder
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Record{}, fmt.Errorf("sqlite: begin order: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id := s.newID()
	now := s.timestamp()
	paid := toColumn(model.FieldTypeBoolean, order.IsPaid)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO orders (id, store_id, is_paid, phone, address, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, storeID, paid, strings.TrimSpace(order.Phone), strings.TrimSpace(order.Address), now, now,
	); err != nil {
		return model.Record{}, orderError(err)
	}

	for _, productID := range productIDs {
		// Products of another store must not be sold here.
		var owner string
		err := tx.QueryRowContext(ctx, "SELECT store_id FROM products WHERE id = ?", productID).Scan(&owner)
		if err != nil || owner != storeID {
			return model.Record{}, fmt.Errorf("%w: product %s", ErrInvalidReference, productID)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO order_items (id, order_id, product_id) VALUES (?, ?, ?)",
			s.newID(), id, productID,
		); err != nil {
			return model.Record{}, orderError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Record{}, fmt.Errorf("sqlite: commit order: %w", err)
	}
	s.logger.Debug().Str("store", storeID).Str("id", id).Int("items", len(productIDs)).Msg("order created")
	return s.Get(ctx, entity.KindOrder, storeID, id)
}

func orderError(err error) error {
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: order", ErrInvalidReference)
	}
	return fmt.Errorf("sqlite: create order: %w", err)
}

// Revenue sums paid orders per calendar month, January first. Orders of
// every year fall into the same twelve buckets.
func (s *Store) Revenue(ctx context.Context, storeID string) ([]model.RevenuePoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT o.created_at, COALESCE(SUM(p.price), 0)
		   FROM orders o
		   JOIN order_items oi ON oi.order_id = o.id
		   JOIN products p ON p.id = oi.product_id
		  WHERE o.store_id = ? AND o.is_paid = 1
		  GROUP BY o.id`,
		storeID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: revenue: %w", err)
	}
	defer rows.Close()

	var totals [12]float64
	for rows.Next() {
		var createdAt int64
		var total any
		if err := rows.Scan(&createdAt, &total); err != nil {
			return nil, fmt.Errorf("sqlite: revenue: %w", err)
		}
		totals[fromMillis(createdAt).Month()-1] += toFloat(total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: revenue: %w", err)
	}

	out := make([]model.RevenuePoint, 12)
	for i := range out {
		out[i] = model.RevenuePoint{Name: time.Month(i + 1).String()[:3], Total: totals[i]}
	}
	return out, nil
}

// Summary counts paid orders and products still on sale.
func (s *Store) Summary(ctx context.Context, storeID string) (Summary, error) {
	var out Summary
	err := s.db.QueryRowContext(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM orders WHERE store_id = ? AND is_paid = 1),
		   (SELECT COUNT(*) FROM products WHERE store_id = ? AND is_archived = 0)`,
		storeID, storeID,
	).Scan(&out.Sales, &out.Stock)
	if err != nil {
		return Summary{}, fmt.Errorf("sqlite: summary: %w", err)
	}
	return out, nil
}
