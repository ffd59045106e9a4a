package entity

import "github.com/goliatone/go-storeadmin/pkg/model"

const saveFailed = "Error saving stored data."

func requiredText(name, label, placeholder string) model.Field {
	return model.Field{
		Name:        name,
		Type:        model.FieldTypeString,
		Required:    true,
		Label:       label,
		Placeholder: placeholder,
		Validations: []model.ValidationRule{model.MinLength(1)},
	}
}

func reference(name, label string, kind Kind, labelField string) model.Field {
	field := requiredText(name, label, "Select a "+string(kind))
	field.Relationship = &model.Relationship{Kind: string(kind), LabelField: labelField}
	return field
}

func flag(name, label, description string) model.Field {
	return model.Field{
		Name:        name,
		Type:        model.FieldTypeBoolean,
		Label:       label,
		Description: description,
		Default:     false,
	}
}

var createdColumn = Column{Key: "createdAt", Header: "Date", Format: FormatDate}

func storeForm(entity string) model.FormModel {
	return model.FormModel{
		Entity: entity,
		Fields: []model.Field{requiredText("name", "Name", "E-Commerce")},
	}
}

func builtins() []Definition {
	return []Definition{
		{
			Kind:        KindStore,
			Singular:    "Store",
			Plural:      "stores",
			Title:       "Stores",
			Description: "Add a new store to manage products and categories",
			Form:        storeForm("stores"),
			Collection:  "/api/stores",
			Item:        "/api/stores/{storeId}",
			Messages: Messages{
				Created:        "Store created.",
				Updated:        "Store updated successfully.",
				Deleted:        "Store deleted successfully.",
				SaveFailed:     "Something went wrong.",
				DeleteConflict: "Make sure you removed all products and categories first!",
			},
			Navigation: Navigation{
				CreateRedirect: "/{id}",
				DeleteRedirect: "/",
			},
			Columns:   []Column{{Key: "name", Header: "Name"}, createdColumn},
			SearchKey: "name",
		},
		{
			Kind:        KindSettings,
			Singular:    "Settings",
			Plural:      "settings",
			Title:       "Settings",
			Description: "Manage settings",
			Form:        storeForm("stores"),
			Item:        "/api/stores/{storeId}",
			Scoped:      true,
			EditOnly:    true,
			Messages: Messages{
				Updated:        "Store updated successfully.",
				Deleted:        "Store deleted successfully.",
				SaveFailed:     saveFailed,
				DeleteConflict: "Make sure you removed all products and categories first!",
			},
			Navigation: Navigation{
				DeleteRedirect: "/",
			},
		},
		{
			Kind:        KindBillboard,
			Singular:    "Billboard",
			Plural:      "billboards",
			Title:       "Billboards",
			Description: "Manage billboards for your store",
			Form: model.FormModel{
				Entity: "billboards",
				Fields: []model.Field{
					requiredText("label", "Label", "Billboard label"),
					requiredText("imageUrl", "Background image", "https://"),
				},
			},
			Collection: "/api/{storeId}/billboards",
			Item:       "/api/{storeId}/billboards/{id}",
			Scoped:     true,
			Messages: Messages{
				Created:        "Billboard created",
				Updated:        "Billboard updated",
				Deleted:        "Billboard deleted.",
				SaveFailed:     saveFailed,
				DeleteConflict: "Make sure you removed all categories using this billboard first.",
			},
			Navigation: scopedNavigation("billboards"),
			Columns:    []Column{{Key: "label", Header: "Label"}, createdColumn},
			SearchKey:  "label",
		},
		{
			Kind:        KindCategory,
			Singular:    "Category",
			Plural:      "categories",
			Title:       "Categories",
			Description: "Manage categories for your store",
			Form: model.FormModel{
				Entity: "categories",
				Fields: []model.Field{
					requiredText("name", "Name", "Category name"),
					reference("billboardId", "Billboard", KindBillboard, "label"),
				},
			},
			Collection: "/api/{storeId}/categories",
			Item:       "/api/{storeId}/categories/{id}",
			Scoped:     true,
			Messages: Messages{
				Created:        "Category created",
				Updated:        "Category updated",
				Deleted:        "Category deleted.",
				SaveFailed:     saveFailed,
				DeleteConflict: "Make sure you removed all products using this category first.",
			},
			Navigation: scopedNavigation("categories"),
			Columns: []Column{
				{Key: "name", Header: "Name"},
				{Key: "billboardId", Header: "Billboard", Lookup: KindBillboard},
				createdColumn,
			},
			SearchKey: "name",
		},
		{
			Kind:        KindSize,
			Singular:    "Size",
			Plural:      "sizes",
			Title:       "Sizes",
			Description: "Manage sizes for your store",
			Form: model.FormModel{
				Entity: "sizes",
				Fields: []model.Field{
					requiredText("name", "Name", "Size name"),
					requiredText("value", "Value", "Size value"),
				},
			},
			Collection: "/api/{storeId}/sizes",
			Item:       "/api/{storeId}/sizes/{id}",
			Scoped:     true,
			Messages: Messages{
				Created:        "Size created",
				Updated:        "Size updated",
				Deleted:        "Size deleted.",
				SaveFailed:     saveFailed,
				DeleteConflict: "Make sure you removed all products using this size first.",
			},
			Navigation: scopedNavigation("sizes"),
			Columns: []Column{
				{Key: "name", Header: "Name"},
				{Key: "value", Header: "Value"},
				createdColumn,
			},
			SearchKey: "name",
		},
		{
			Kind:        KindColor,
			Singular:    "Color",
			Plural:      "colors",
			Title:       "Colors",
			Description: "Manage colors for your store",
			Form: model.FormModel{
				Entity: "colors",
				Fields: []model.Field{
					requiredText("name", "Name", "Color name"),
					{
						Name:        "value",
						Type:        model.FieldTypeString,
						Required:    true,
						Label:       "Value",
						Placeholder: "#000000",
						Description: "Hex code starting with #",
						Validations: []model.ValidationRule{model.MinLength(4), model.Pattern("^#")},
					},
				},
			},
			Collection: "/api/{storeId}/colors",
			Item:       "/api/{storeId}/colors/{id}",
			Scoped:     true,
			Messages: Messages{
				Created:        "Color created",
				Updated:        "Color updated",
				Deleted:        "Color deleted.",
				SaveFailed:     saveFailed,
				DeleteConflict: "Make sure you removed all products using this color first.",
			},
			Navigation: scopedNavigation("colors"),
			Columns: []Column{
				{Key: "name", Header: "Name"},
				{Key: "value", Header: "Value", Format: FormatSwatch},
				createdColumn,
			},
			SearchKey: "name",
		},
		{
			Kind:        KindProduct,
			Singular:    "Product",
			Plural:      "products",
			Title:       "Products",
			Description: "Manage products for your store",
			Form: model.FormModel{
				Entity: "products",
				Fields: []model.Field{
					requiredText("name", "Name", "Product name"),
					{
						Name:        "price",
						Type:        model.FieldTypeNumber,
						Required:    true,
						Label:       "Price",
						Placeholder: "9.99",
						Validations: []model.ValidationRule{model.Min(1)},
					},
					reference("categoryId", "Category", KindCategory, "name"),
					reference("sizeId", "Size", KindSize, "name"),
					reference("colorId", "Color", KindColor, "value"),
					flag("isFeatured", "Featured", "This product will appear on the home page"),
					flag("isArchived", "Archived", "This product will not appear anywhere in the store"),
				},
			},
			Collection: "/api/{storeId}/products",
			Item:       "/api/{storeId}/products/{id}",
			Scoped:     true,
			Messages: Messages{
				Created:        "Product created",
				Updated:        "Product updated",
				Deleted:        "Product deleted.",
				SaveFailed:     saveFailed,
				DeleteConflict: "Make sure you removed all orders using this product first.",
			},
			Navigation: scopedNavigation("products"),
			Columns: []Column{
				{Key: "name", Header: "Name"},
				{Key: "isArchived", Header: "Archived", Format: FormatBool},
				{Key: "isFeatured", Header: "Featured", Format: FormatBool},
				{Key: "price", Header: "Price", Format: FormatCurrency},
				{Key: "categoryId", Header: "Category", Lookup: KindCategory},
				{Key: "sizeId", Header: "Size", Lookup: KindSize},
				{Key: "colorId", Header: "Color", Format: FormatSwatch, Lookup: KindColor},
				createdColumn,
			},
			SearchKey: "name",
		},
		{
			Kind:        KindOrder,
			Singular:    "Order",
			Plural:      "orders",
			Title:       "Orders",
			Description: "Manage orders for your store",
			Form: model.FormModel{
				Entity: "orders",
				Fields: []model.Field{
					{Name: "phone", Type: model.FieldTypeString, Label: "Phone"},
					{Name: "address", Type: model.FieldTypeString, Label: "Address"},
					flag("isPaid", "Paid", ""),
				},
			},
			Collection: "/api/{storeId}/orders",
			Item:       "/api/{storeId}/orders/{id}",
			Scoped:     true,
			ReadOnly:   true,
			Columns: []Column{
				{Key: "products", Header: "Products"},
				{Key: "phone", Header: "Phone"},
				{Key: "address", Header: "Address"},
				{Key: "totalPrice", Header: "Total price", Format: FormatCurrency},
				{Key: "isPaid", Header: "Paid", Format: FormatBool},
				createdColumn,
			},
			SearchKey: "products",
		},
	}
}

func scopedNavigation(plural string) Navigation {
	list := "/{storeId}/" + plural
	return Navigation{SaveRedirect: list, CreateRedirect: list, DeleteRedirect: list}
}
