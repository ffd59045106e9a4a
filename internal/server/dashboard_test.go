package server

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-storeadmin/pkg/entity"
)

func flashCookie(t *testing.T, f *fixture) *http.Cookie {
	t.Helper()
	rec := f.get(t, "/")
	for _, c := range rec.Result().Cookies() {
		if c.Name == DefaultFlashCookie {
			return c
		}
	}
	t.Fatalf("flash cookie not issued")
	return nil
}

func TestDashboard_SetupUntilStoreExists(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Create store")
	assert.NotEmpty(t, rec.Result().Cookies())

	rec = f.get(t, "/stores/new")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = f.get(t, "/?setup=close")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Create store", "dialog stays open without a store")
	assert.True(t, f.server.setup.IsOpen())
}

func TestDashboard_SetupDialogFromStoreMenu(t *testing.T) {
	f := newFixture(t)
	shop := f.create(t, entity.KindStore, "", map[string]any{"name": "Main Street"})

	var changes []bool
	f.server.setup.OnChange(func(open bool) { changes = append(changes, open) })

	rec := f.get(t, "/")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/"+shop, rec.Header().Get("Location"))

	rec = f.get(t, "/"+shop)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/stores/new"`)

	rec = f.get(t, "/stores/new")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = f.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Create store")
	assert.Contains(t, body, `href="/?setup=close"`)

	rec = f.get(t, "/?setup=close")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/"+shop, rec.Header().Get("Location"))

	rec = f.get(t, "/stores/new")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = f.post(t, "/stores/new", url.Values{"name": {"Outlet"}})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.False(t, f.server.setup.IsOpen(), "a created store closes the dialog")

	assert.Equal(t, []bool{true, false, true, false}, changes)
}

func TestDashboard_CreateStore(t *testing.T) {
	f := newFixture(t)
	cookie := flashCookie(t, f)

	rec := f.post(t, "/stores/new", url.Values{"name": {""}}, cookie)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Name is required")

	rec = f.post(t, "/stores/new", url.Values{"name": {"Main Street"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/id-1", rec.Header().Get("Location"))

	rec = f.get(t, "/", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/id-1", rec.Header().Get("Location"))

	rec = f.get(t, "/id-1", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Current Store: Main Street")
	assert.Contains(t, body, "Store created")
}

func TestDashboard_TableAndForm(t *testing.T) {
	f := newFixture(t)
	c := f.seed(t)

	rec := f.get(t, "/"+c.store+"/billboards")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Billboards (1)")

	rec = f.get(t, "/"+c.store+"/products")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Shirts", "category ids resolve to names")

	rec = f.get(t, "/"+c.store+"/products/new")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Create Product")
	assert.Contains(t, body, `value="`+c.category+`"`)

	rec = f.get(t, "/"+c.store+"/billboards/"+c.billboard+"?confirm=delete")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Are you sure?")
}

func TestDashboard_SubmitForm(t *testing.T) {
	f := newFixture(t)
	c := f.seed(t)
	cookie := flashCookie(t, f)
	target := "/" + c.store + "/billboards/new"

	rec := f.post(t, target, url.Values{"label": {"Summer"}, "imageUrl": {""}}, cookie)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Background image is required")

	rec = f.post(t, target, url.Values{"label": {"Summer"}, "imageUrl": {"summer.png"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/"+c.store+"/billboards", rec.Header().Get("Location"))

	rec = f.get(t, "/"+c.store+"/billboards", cookie)
	body := rec.Body.String()
	assert.Contains(t, body, "Billboards (2)")
	assert.Contains(t, body, "Billboard created")
}

func TestDashboard_UpdateProductFlags(t *testing.T) {
	f := newFixture(t)
	c := f.seed(t)

	rec := f.post(t, "/"+c.store+"/products/"+c.product, url.Values{
		"_method":    {"PATCH"},
		"name":       {"Shirt"},
		"price":      {"25"},
		"categoryId": {c.category},
		"sizeId":     {c.size},
		"colorId":    {c.color},
		"isFeatured": {"false", "true"},
		"isArchived": {"false"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	product, err := f.store.Get(context.Background(), entity.KindProduct, c.store, c.product)
	require.NoError(t, err)
	assert.Equal(t, 25.0, product.Values["price"])
	assert.Equal(t, true, product.Values["isFeatured"])
}

func TestDashboard_DeleteConflictKeepsRecord(t *testing.T) {
	f := newFixture(t)
	c := f.seed(t)
	cookie := flashCookie(t, f)

	rec := f.post(t, "/"+c.store+"/billboards/"+c.billboard, url.Values{"_method": {"DELETE"}}, cookie)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Make sure you removed all categories using this billboard first.")

	_, err := f.store.Get(context.Background(), entity.KindBillboard, c.store, c.billboard)
	require.NoError(t, err)
}

func TestDashboard_Delete(t *testing.T) {
	f := newFixture(t)
	c := f.seed(t)
	id := f.create(t, entity.KindSize, c.store, map[string]any{"name": "Small", "value": "S"})

	rec := f.post(t, "/"+c.store+"/sizes/"+id, url.Values{"_method": {"DELETE"}})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/"+c.store+"/sizes", rec.Header().Get("Location"))
}

func TestDashboard_Settings(t *testing.T) {
	f := newFixture(t)
	c := f.seed(t)

	rec := f.get(t, "/"+c.store+"/settings")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Main Street"`)

	rec = f.post(t, "/"+c.store+"/settings", url.Values{"_method": {"PATCH"}, "name": {"Outlet"}})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/"+c.store+"/settings", rec.Header().Get("Location"))

	store, err := f.store.Get(context.Background(), entity.KindStore, "", c.store)
	require.NoError(t, err)
	assert.Equal(t, "Outlet", store.Values["name"])
}

func TestDashboard_NotFound(t *testing.T) {
	f := newFixture(t)
	c := f.seed(t)

	for _, target := range []string{
		"/missing",
		"/missing/billboards",
		"/" + c.store + "/widgets",
		"/" + c.store + "/orders/anything",
		"/" + c.store + "/billboards/missing",
	} {
		t.Run(target, func(t *testing.T) {
			rec := f.get(t, target)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}
