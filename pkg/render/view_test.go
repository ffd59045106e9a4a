package render_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-storeadmin/pkg/client"
	"github.com/goliatone/go-storeadmin/pkg/controller"
	"github.com/goliatone/go-storeadmin/pkg/entity"
	"github.com/goliatone/go-storeadmin/pkg/model"
	"github.com/goliatone/go-storeadmin/pkg/render"
	"github.com/goliatone/go-storeadmin/pkg/testsupport"
)

var scope = entity.Scope{StoreID: "s1"}

func mustDef(t *testing.T, kind entity.Kind) entity.Definition {
	t.Helper()
	return testsupport.Definition(t, kind)
}

func TestBuildForm_CreateMode(t *testing.T) {
	def := mustDef(t, entity.KindBillboard)
	state := controller.State{
		Mode:   controller.CreateMode(),
		Values: model.DefaultValues(def.Form),
		Errors: map[string][]string{"imageUrl": {"is required"}},
	}

	view := render.BuildForm(def, scope, state, nil, nil)

	if view.Title != "Create Billboard" || view.Submit != "Create" {
		t.Fatalf("unexpected texts: %q / %q", view.Title, view.Submit)
	}
	if view.Action != "/s1/billboards/new" {
		t.Fatalf("unexpected action %q", view.Action)
	}
	if view.CanDelete || len(view.Hidden) != 0 {
		t.Fatalf("create form must not offer delete or method override: %+v", view)
	}
	if len(view.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(view.Fields))
	}
	image := view.Fields[1]
	if image.Name != "imageUrl" || image.Label != "Background image" {
		t.Fatalf("unexpected field %+v", image)
	}
	if diff := cmp.Diff([]string{"is required"}, image.Errors); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildForm_EditModeWithRelationships(t *testing.T) {
	def := mustDef(t, entity.KindProduct)
	state := controller.State{
		Mode: controller.EditMode("p1"),
		Values: map[string]any{
			"name":       "Shirt",
			"price":      19.5,
			"categoryId": "c2",
			"sizeId":     "",
			"colorId":    "",
			"isFeatured": true,
			"isArchived": false,
		},
		ConfirmingDelete: true,
	}
	choices := map[string][]client.Choice{
		"categoryId": {{Value: "c1", Label: "Hats"}, {Value: "c2", Label: "<b>Shirts</b>"}},
	}

	view := render.BuildForm(def, scope, state, choices, []string{"Something went wrong.", " "})

	if view.Action != "/s1/products/p1" || view.Submit != "Save changes" {
		t.Fatalf("unexpected action/submit %q %q", view.Action, view.Submit)
	}
	if diff := cmp.Diff([]render.HiddenField{{Name: "_method", Value: "PATCH"}}, view.Hidden); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}
	if !view.CanDelete || view.DeleteURL != "/s1/products/p1?confirm=delete" || !view.ConfirmingDelete {
		t.Fatalf("unexpected delete state %+v", view)
	}
	if diff := cmp.Diff([]render.HiddenField{{Name: "_method", Value: "DELETE"}}, view.DeleteHidden); diff != "" {
		t.Fatalf("delete hidden mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Something went wrong."}, view.Errors); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}

	byName := map[string]render.FieldView{}
	for _, f := range view.Fields {
		byName[f.Name] = f
	}
	if byName["price"].Input != render.InputNumber || byName["price"].Value != "19.5" {
		t.Fatalf("unexpected price field %+v", byName["price"])
	}
	if !byName["isFeatured"].Checked || byName["isArchived"].Checked {
		t.Fatalf("unexpected checkbox state")
	}
	wantOptions := []render.OptionView{
		{Value: "c1", Label: "Hats"},
		{Value: "c2", Label: "Shirts", Selected: true},
	}
	if diff := cmp.Diff(wantOptions, byName["categoryId"].Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildForm_SettingsIsSinglePage(t *testing.T) {
	def := mustDef(t, entity.KindSettings)
	state := controller.State{Mode: controller.EditMode("s1"), Values: map[string]any{"name": "Main"}}

	view := render.BuildForm(def, scope, state, nil, nil)
	if view.Action != "/s1/settings" || view.DeleteURL != "/s1/settings?confirm=delete" {
		t.Fatalf("unexpected settings paths %q %q", view.Action, view.DeleteURL)
	}
	if view.Title != "Settings" {
		t.Fatalf("unexpected title %q", view.Title)
	}
}

func TestBuildTable_FormatsAndFilters(t *testing.T) {
	def := mustDef(t, entity.KindProduct)
	records := []model.Record{
		testsupport.Record("p1", map[string]any{
			"name": "Shirt", "price": 1234.5, "isFeatured": true, "isArchived": false,
			"categoryId": "c1", "sizeId": "z1", "colorId": "k1",
		}),
		testsupport.Record("p2", map[string]any{
			"name": "Hat", "price": 5, "isFeatured": false, "isArchived": true,
			"categoryId": "missing", "sizeId": "z1", "colorId": "k2",
		}),
	}
	lookups := render.Lookups{
		entity.KindCategory: {"c1": "Tops"},
		entity.KindSize:     {"z1": "Large"},
		entity.KindColor:    {"k1": "#ff0000", "k2": "red;}"},
	}

	view := render.BuildTable(def, scope, records, lookups, "SHI")

	if view.Title != "Products (2)" {
		t.Fatalf("heading must count all records, got %q", view.Title)
	}
	if view.NewURL != "/s1/products/new" || !view.Editable || view.Span != len(def.Columns)+1 {
		t.Fatalf("unexpected table chrome %+v", view)
	}
	if len(view.Rows) != 1 {
		t.Fatalf("expected one filtered row, got %d", len(view.Rows))
	}

	row := view.Rows[0]
	if row.URL != "/s1/products/p1" {
		t.Fatalf("unexpected row url %q", row.URL)
	}
	want := []render.CellView{
		{Text: "Shirt"},
		{Text: "No"},
		{Text: "Yes"},
		{Text: "$1,234.50"},
		{Text: "Tops"},
		{Text: "Large"},
		{Text: "#ff0000", Swatch: "#ff0000"},
		{Text: "March 3rd, 2024"},
	}
	if diff := cmp.Diff(want, row.Cells); diff != "" {
		t.Fatalf("cells mismatch (-want +got):\n%s", diff)
	}

	all := render.BuildTable(def, scope, records, lookups, "")
	hat := all.Rows[1].Cells
	if hat[4].Text != "missing" {
		t.Fatalf("unresolved lookup should show the id, got %q", hat[4].Text)
	}
	if hat[6].Swatch != "" {
		t.Fatalf("invalid colour must not become a swatch: %+v", hat[6])
	}
}

func TestBuildTable_ReadOnlyOrders(t *testing.T) {
	def := mustDef(t, entity.KindOrder)
	records := []model.Record{
		testsupport.Record("o1", map[string]any{
			"products": "Shirt, Hat", "phone": "555", "address": "Main St",
			"totalPrice": 25.0, "isPaid": true,
		}),
	}

	view := render.BuildTable(def, scope, records, nil, "hat")
	if view.NewURL != "" || view.Editable || view.Rows[0].URL != "" {
		t.Fatalf("orders must be read-only: %+v", view)
	}
	if view.SearchLabel != "Products" || len(view.Rows) != 1 {
		t.Fatalf("expected search on products, got %+v", view)
	}
	if got := view.Rows[0].Cells[3].Text; got != "$25.00" {
		t.Fatalf("unexpected total %q", got)
	}
}

func TestAPIEndpoints(t *testing.T) {
	got := render.APIEndpoints(mustDef(t, entity.KindBillboard), scope, "http://localhost:8080/")
	want := []render.Endpoint{
		{Method: "GET", URL: "http://localhost:8080/api/s1/billboards", Access: "public"},
		{Method: "GET", URL: "http://localhost:8080/api/s1/billboards/{billboardId}", Access: "public"},
		{Method: "POST", URL: "http://localhost:8080/api/s1/billboards", Access: "admin"},
		{Method: "PATCH", URL: "http://localhost:8080/api/s1/billboards/{billboardId}", Access: "admin"},
		{Method: "DELETE", URL: "http://localhost:8080/api/s1/billboards/{billboardId}", Access: "admin"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("endpoints mismatch (-want +got):\n%s", diff)
	}
	if render.APIEndpoints(mustDef(t, entity.KindOrder), scope, "http://x") != nil {
		t.Fatalf("orders expose no write API")
	}
}

func TestBuildOverview(t *testing.T) {
	store := testsupport.Record("s1", map[string]any{"name": "Main <i>Street</i>"})
	revenue := []model.RevenuePoint{{Name: "Jan", Total: 50}, {Name: "Feb", Total: 200}, {Name: "Mar"}}

	view := render.BuildOverview(store, revenue, 3, 7)

	if view.Store != "Main Street" || view.TotalRevenue != "$250.00" || view.Sales != 3 || view.Stock != 7 {
		t.Fatalf("unexpected overview %+v", view)
	}
	want := []render.BarView{
		{Name: "Jan", Total: "$50.00", Percent: 25},
		{Name: "Feb", Total: "$200.00", Percent: 100},
		{Name: "Mar", Total: "$0.00", Percent: 0},
	}
	if diff := cmp.Diff(want, view.Bars); diff != "" {
		t.Fatalf("bars mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatters(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"currency large", render.FormatCurrency(1234567.891), "$1,234,567.89"},
		{"currency string", render.FormatCurrency("9.9"), "$9.90"},
		{"currency negative", render.FormatCurrency(-3), "-$3.00"},
		{"currency invalid", render.FormatCurrency("abc"), ""},
		{"date first", render.FormatDate(time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)), "July 1st, 2023"},
		{"date teens", render.FormatDate(time.Date(2023, 7, 12, 0, 0, 0, 0, time.UTC)), "July 12th, 2023"},
		{"date string", render.FormatDate("2023-07-22T10:00:00Z"), "July 22nd, 2023"},
		{"date zero", render.FormatDate(time.Time{}), ""},
		{"bool true", render.FormatBool(true), "Yes"},
		{"bool string", render.FormatBool("false"), "No"},
		{"swatch short", render.Swatch("#fff"), "#fff"},
		{"swatch invalid", render.Swatch("#12345"), ""},
		{"plaintext", render.PlainText(" <script>x</script>Tom & Jerry "), "Tom & Jerry"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, tc.got)
			}
		})
	}
}
