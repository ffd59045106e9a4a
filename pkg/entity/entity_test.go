package entity_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-storeadmin/pkg/entity"
)

func TestDefinitionPaths(t *testing.T) {
	catalog := entity.Default()
	scope := entity.Scope{StoreID: "s1"}

	cases := []struct {
		kind       entity.Kind
		id         string
		collection string
		item       string
	}{
		{kind: entity.KindStore, id: "", collection: "/api/stores", item: "/api/stores/s1"},
		{kind: entity.KindBillboard, id: "b1", collection: "/api/s1/billboards", item: "/api/s1/billboards/b1"},
		{kind: entity.KindCategory, id: "c 1", collection: "/api/s1/categories", item: "/api/s1/categories/c%201"},
		{kind: entity.KindProduct, id: "p1", collection: "/api/s1/products", item: "/api/s1/products/p1"},
	}
	for _, tc := range cases {
		def, err := catalog.Get(tc.kind)
		if err != nil {
			t.Fatalf("get %s: %v", tc.kind, err)
		}
		collection, err := def.CollectionPath(scope)
		if err != nil {
			t.Fatalf("%s collection: %v", tc.kind, err)
		}
		item, err := def.ItemPath(scope, tc.id)
		if err != nil {
			t.Fatalf("%s item: %v", tc.kind, err)
		}
		if collection != tc.collection || item != tc.item {
			t.Errorf("%s paths = %q, %q; want %q, %q", tc.kind, collection, item, tc.collection, tc.item)
		}
	}
}

func TestSettingsTargetsEnclosingStore(t *testing.T) {
	def, err := entity.Default().Get(entity.KindSettings)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if !def.EditOnly {
		t.Fatalf("settings should be edit-only")
	}
	path, err := def.ItemPath(entity.Scope{StoreID: "s1"}, "s1")
	if err != nil {
		t.Fatalf("item path: %v", err)
	}
	if path != "/api/stores/s1" {
		t.Fatalf("settings path = %q", path)
	}
	if _, err := def.CollectionPath(entity.Scope{StoreID: "s1"}); err == nil {
		t.Fatalf("expected settings to have no collection endpoint")
	}
}

func TestItemPathRequiresParameters(t *testing.T) {
	def, _ := entity.Default().Get(entity.KindBillboard)
	if _, err := def.ItemPath(entity.Scope{}, "b1"); !errors.Is(err, entity.ErrMissingScope) {
		t.Fatalf("expected ErrMissingScope for missing store, got %v", err)
	}
	if _, err := def.ItemPath(entity.Scope{StoreID: "s1"}, ""); !errors.Is(err, entity.ErrMissingScope) {
		t.Fatalf("expected ErrMissingScope for missing id, got %v", err)
	}
}

func TestRedirects(t *testing.T) {
	catalog := entity.Default()
	scope := entity.Scope{StoreID: "s1"}

	store, _ := catalog.Get(entity.KindStore)
	got, err := store.Redirect(store.Navigation.CreateRedirect, scope, "s2")
	if err != nil || got != "/s2" {
		t.Fatalf("store create redirect = %q, %v", got, err)
	}
	got, _ = store.Redirect(store.Navigation.SaveRedirect, scope, "s1")
	if got != "" {
		t.Fatalf("store save should not redirect, got %q", got)
	}

	billboard, _ := catalog.Get(entity.KindBillboard)
	got, _ = billboard.Redirect(billboard.Navigation.DeleteRedirect, scope, "b1")
	if got != "/s1/billboards" {
		t.Fatalf("billboard delete redirect = %q", got)
	}
}

func TestFormTexts(t *testing.T) {
	def, _ := entity.Default().Get(entity.KindBillboard)
	got := []string{
		def.FormTitle(false), def.FormDescription(false), def.ActionLabel(false),
		def.FormTitle(true), def.ActionLabel(true), def.ListTitle(3),
	}
	want := []string{
		"Create Billboard", "Add a new billboard", "Create",
		"Edit Billboard", "Save changes", "Billboards (3)",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("texts mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalogLookups(t *testing.T) {
	catalog := entity.Default()

	if def, ok := catalog.LookupPlural("categories"); !ok || def.Kind != entity.KindCategory {
		t.Fatalf("LookupPlural(categories) = %v, %v", def.Kind, ok)
	}
	if def, err := catalog.Resolve("Product"); err != nil || def.Kind != entity.KindProduct {
		t.Fatalf("Resolve(Product) = %v, %v", def.Kind, err)
	}
	if _, err := catalog.Get("coupon"); !errors.Is(err, entity.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}

	var scoped []entity.Kind
	for _, def := range catalog.Scoped() {
		scoped = append(scoped, def.Kind)
	}
	want := []entity.Kind{
		entity.KindSettings, entity.KindBillboard, entity.KindCategory,
		entity.KindSize, entity.KindColor, entity.KindProduct, entity.KindOrder,
	}
	if diff := cmp.Diff(want, scoped); diff != "" {
		t.Fatalf("scoped kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalogGetReturnsCopies(t *testing.T) {
	catalog := entity.Default()
	def, _ := catalog.Get(entity.KindBillboard)
	def.Form.Fields[0].Label = "Changed"
	def.Columns[0].Header = "Changed"

	again, _ := catalog.Get(entity.KindBillboard)
	if again.Form.Fields[0].Label != "Label" || again.Columns[0].Header != "Label" {
		t.Fatalf("catalog definition was mutated through a copy")
	}
}

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	def := entity.Definition{Kind: "thing", Plural: "things"}
	if _, err := entity.NewCatalog(def, def); err == nil {
		t.Fatalf("expected duplicate kind error")
	}
}

func TestLoadOverridesAndApply(t *testing.T) {
	fsys := fstest.MapFS{
		"entities.yaml": &fstest.MapFile{Data: []byte(`
billboard:
  singular: Banner
  messages:
    deleteConflict: Remove categories first.
  fields:
    label:
      label: Headline
`)},
		"colors.json": &fstest.MapFile{Data: []byte(`{"color":{"fields":{"value":{"placeholder":"#ffffff"}}}}`)},
		"README.md":   &fstest.MapFile{Data: []byte("ignored")},
	}

	overrides, err := entity.LoadOverrides(fsys)
	if err != nil {
		t.Fatalf("load overrides: %v", err)
	}
	catalog := entity.Default()
	if err := catalog.Apply(overrides); err != nil {
		t.Fatalf("apply: %v", err)
	}

	billboard, _ := catalog.Get(entity.KindBillboard)
	if billboard.Singular != "Banner" || billboard.Form.Fields[0].Label != "Headline" {
		t.Fatalf("billboard override not applied: %+v", billboard.Form.Fields[0])
	}
	if billboard.Messages.DeleteConflict != "Remove categories first." {
		t.Fatalf("delete conflict = %q", billboard.Messages.DeleteConflict)
	}
	if billboard.Messages.Created != "Billboard created" {
		t.Fatalf("unset message should keep built-in text, got %q", billboard.Messages.Created)
	}
	color, _ := catalog.Get(entity.KindColor)
	if color.Form.Fields[1].Placeholder != "#ffffff" {
		t.Fatalf("color placeholder = %q", color.Form.Fields[1].Placeholder)
	}
}

func TestApplyReportsUnknownTargets(t *testing.T) {
	err := entity.Default().Apply(entity.Overrides{
		"coupon":    {Title: "Coupons"},
		"billboard": {Fields: map[string]entity.FieldOverride{"missing": {Label: "x"}}},
	})
	if err == nil {
		t.Fatalf("expected error for unknown kind and field")
	}
	want := `entity: overrides: billboard: unknown field "missing"; unknown kind "coupon"`
	if err.Error() != want {
		t.Fatalf("error = %q, want %q", err.Error(), want)
	}
}
