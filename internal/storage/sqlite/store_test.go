package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-storeadmin/pkg/entity"
	"github.com/goliatone/go-storeadmin/pkg/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	seq := 0
	clock := time.Date(2024, time.March, 3, 10, 0, 0, 0, time.UTC)
	store, err := Open(filepath.Join(t.TempDir(), "store.db"),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
		WithClock(func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

type catalogue struct {
	store, billboard, category, size, color, product string
}

func seed(t *testing.T, s *Store) catalogue {
	t.Helper()
	ctx := context.Background()
	create := func(kind entity.Kind, storeID string, values map[string]any) string {
		rec, err := s.Create(ctx, kind, storeID, values)
		require.NoError(t, err, "create %s", kind)
		return rec.ID
	}
	var c catalogue
	c.store = create(entity.KindStore, "", map[string]any{"name": "Main Street"})
	c.billboard = create(entity.KindBillboard, c.store, map[string]any{"label": "Sale", "imageUrl": "sale.png"})
	c.category = create(entity.KindCategory, c.store, map[string]any{"name": "Shirts", "billboardId": c.billboard})
	c.size = create(entity.KindSize, c.store, map[string]any{"name": "Large", "value": "L"})
	c.color = create(entity.KindColor, c.store, map[string]any{"name": "Red", "value": "#ff0000"})
	c.product = create(entity.KindProduct, c.store, map[string]any{
		"name": "Shirt", "price": 19.5, "categoryId": c.category, "sizeId": c.size, "colorId": c.color,
		"isFeatured": true, "isArchived": false,
	})
	return c
}

func TestOpen_MigratesTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestCreateAndGet(t *testing.T) {
	s := openTestStore(t)
	c := seed(t, s)

	rec, err := s.Get(context.Background(), entity.KindProduct, c.store, c.product)
	require.NoError(t, err)
	assert.Equal(t, c.product, rec.ID)
	assert.Equal(t, map[string]any{
		"name":       "Shirt",
		"price":      19.5,
		"categoryId": c.category,
		"sizeId":     c.size,
		"colorId":    c.color,
		"isFeatured": true,
		"isArchived": false,
	}, rec.Values)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.Equal(t, rec.CreatedAt, rec.UpdatedAt)
}

func TestGet_ScopedToStore(t *testing.T) {
	s := openTestStore(t)
	c := seed(t, s)

	_, err := s.Get(context.Background(), entity.KindBillboard, "other", c.billboard)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreate_InvalidReference(t *testing.T) {
	s := openTestStore(t)
	c := seed(t, s)

	_, err := s.Create(context.Background(), entity.KindCategory, c.store, map[string]any{"name": "Hats", "billboardId": "missing"})
	require.ErrorIs(t, err, ErrInvalidReference)

	_, err = s.Create(context.Background(), entity.KindSize, "no-store", map[string]any{"name": "S", "value": "S"})
	require.ErrorIs(t, err, ErrInvalidReference)
}

func TestCreate_Unsupported(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Create(context.Background(), entity.KindOrder, "s", nil)
	require.ErrorIs(t, err, ErrUnsupported)
	_, err = s.Create(context.Background(), entity.KindSettings, "s", nil)
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestUpdate(t *testing.T) {
	s := openTestStore(t)
	c := seed(t, s)
	ctx := context.Background()

	rec, err := s.Update(ctx, entity.KindBillboard, c.store, c.billboard, map[string]any{"label": "Winter"})
	require.NoError(t, err)
	assert.Equal(t, "Winter", rec.Values["label"])
	assert.Equal(t, "sale.png", rec.Values["imageUrl"], "fields not supplied are kept")
	assert.True(t, rec.UpdatedAt.After(rec.CreatedAt))

	_, err = s.Update(ctx, entity.KindBillboard, c.store, "missing", map[string]any{"label": "x"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.Update(ctx, entity.KindProduct, c.store, c.product, map[string]any{"colorId": "missing"})
	require.ErrorIs(t, err, ErrInvalidReference)
}

func TestUpdate_SettingsTargetsStore(t *testing.T) {
	s := openTestStore(t)
	c := seed(t, s)

	rec, err := s.Update(context.Background(), entity.KindSettings, c.store, "", map[string]any{"name": "Outlet"})
	require.NoError(t, err)
	assert.Equal(t, c.store, rec.ID)

	store, err := s.Get(context.Background(), entity.KindStore, "", c.store)
	require.NoError(t, err)
	assert.Equal(t, "Outlet", store.Values["name"])
}

func TestDelete_RestrictedByDependents(t *testing.T) {
	s := openTestStore(t)
	c := seed(t, s)
	ctx := context.Background()

	require.ErrorIs(t, s.Delete(ctx, entity.KindBillboard, c.store, c.billboard), ErrConflict)
	require.ErrorIs(t, s.Delete(ctx, entity.KindStore, "", c.store), ErrConflict)
	require.ErrorIs(t, s.Delete(ctx, entity.KindSettings, c.store, ""), ErrConflict)

	_, err := s.Get(ctx, entity.KindBillboard, c.store, c.billboard)
	require.NoError(t, err, "blocked delete keeps the record")

	require.NoError(t, s.Delete(ctx, entity.KindProduct, c.store, c.product))
	require.NoError(t, s.Delete(ctx, entity.KindCategory, c.store, c.category))
	require.NoError(t, s.Delete(ctx, entity.KindBillboard, c.store, c.billboard))
	require.ErrorIs(t, s.Delete(ctx, entity.KindBillboard, c.store, c.billboard), ErrNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	s := openTestStore(t)
	c := seed(t, s)
	ctx := context.Background()

	_, err := s.Create(ctx, entity.KindSize, c.store, map[string]any{"name": "Small", "value": "S"})
	require.NoError(t, err)

	sizes, err := s.List(ctx, entity.KindSize, c.store)
	require.NoError(t, err)
	require.Len(t, sizes, 2)
	assert.Equal(t, "Small", sizes[0].Values["name"])
	assert.Equal(t, "Large", sizes[1].Values["name"])

	empty, err := s.List(ctx, entity.KindSize, "other")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = s.Create(ctx, entity.KindStore, "", map[string]any{"name": "Outlet"})
	require.NoError(t, err)
	stores, err := s.List(ctx, entity.KindStore, "")
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, c.store, stores[0].ID, "stores keep creation order")
}

func TestOrders(t *testing.T) {
	s := openTestStore(t)
	c := seed(t, s)
	ctx := context.Background()

	hat, err := s.Create(ctx, entity.KindProduct, c.store, map[string]any{
		"name": "Hat", "price": 5.5, "categoryId": c.category, "sizeId": c.size, "colorId": c.color, "isArchived": true,
	})
	require.NoError(t, err)

	order, err := s.CreateOrder(ctx, c.store, Order{ProductIDs: []string{c.product, hat.ID}, Phone: "555", Address: "Main St", IsPaid: true})
	require.NoError(t, err)
	assert.Equal(t, "Shirt, Hat", order.Values["products"])
	assert.Equal(t, 25.0, order.Values["totalPrice"])
	assert.Equal(t, true, order.Values["isPaid"])

	_, err = s.CreateOrder(ctx, c.store, Order{ProductIDs: []string{hat.ID}})
	require.NoError(t, err)

	orders, err := s.List(ctx, entity.KindOrder, c.store)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, 5.5, orders[0].Values["totalPrice"])

	require.ErrorIs(t, s.Delete(ctx, entity.KindProduct, c.store, hat.ID), ErrConflict, "sold products are kept")

	revenue, err := s.Revenue(ctx, c.store)
	require.NoError(t, err)
	require.Len(t, revenue, 12)
	assert.Equal(t, model.RevenuePoint{Name: "Jan", Total: 0}, revenue[0])
	assert.Equal(t, model.RevenuePoint{Name: "Mar", Total: 25}, revenue[2])

	summary, err := s.Summary(ctx, c.store)
	require.NoError(t, err)
	assert.Equal(t, Summary{Sales: 1, Stock: 1}, summary)

	_, err = s.Update(ctx, entity.KindOrder, c.store, order.ID, map[string]any{"phone": "1"})
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestCreateOrder_Rejects(t *testing.T) {
	s := openTestStore(t)
	c := seed(t, s)
	ctx := context.Background()

	_, err := s.CreateOrder(ctx, c.store, Order{ProductIDs: []string{" "}})
	require.ErrorIs(t, err, ErrEmptyOrder)

	_, err = s.CreateOrder(ctx, c.store, Order{ProductIDs: []string{"missing"}})
	require.ErrorIs(t, err, ErrInvalidReference)

	other, err := s.Create(ctx, entity.KindStore, "", map[string]any{"name": "Outlet"})
	require.NoError(t, err)
	_, err = s.CreateOrder(ctx, other.ID, Order{ProductIDs: []string{c.product}})
	require.ErrorIs(t, err, ErrInvalidReference)

	orders, err := s.List(ctx, entity.KindOrder, other.ID)
	require.NoError(t, err)
	assert.Empty(t, orders, "failed orders roll back")
}

func TestUnknownKind(t *testing.T) {
	s := openTestStore(t)
	_, err := s.List(context.Background(), entity.Kind("widget"), "s")
	require.ErrorIs(t, err, entity.ErrUnknownKind)
}
