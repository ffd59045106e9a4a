package render

import (
	"net/url"
	"strings"

	"github.com/goliatone/go-storeadmin/pkg/entity"
)

// NewSegment is the path segment of a create form.
const NewSegment = "new"

// NewStorePath is the store switcher entry that opens the setup dialog.
const NewStorePath = "/stores/new"

// CloseSetupPath dismisses the setup dialog.
const CloseSetupPath = "/?setup=close"

// ConfirmDeleteQuery is appended to a form path to open the delete dialog.
const ConfirmDeleteQuery = "confirm=delete"

// OverviewPath is the dashboard home of a store.
func OverviewPath(scope entity.Scope) string {
	return "/" + url.PathEscape(scope.StoreID)
}

// ListPath is the data table page of an entity. Stores have no table; their
// list path is the dashboard root.
func ListPath(def entity.Definition, scope entity.Scope) string {
	if !def.Scoped {
		return "/" + def.Plural
	}
	return OverviewPath(scope) + "/" + def.Plural
}

// FormPath is the create or edit page of an entity. Edit-only entities have
// a single page per store.
func FormPath(def entity.Definition, scope entity.Scope, id string) string {
	if def.EditOnly {
		return ListPath(def, scope)
	}
	if strings.TrimSpace(id) == "" {
		id = NewSegment
	}
	return ListPath(def, scope) + "/" + url.PathEscape(id)
}

// ConfirmDeletePath opens the delete dialog of a form page.
func ConfirmDeletePath(def entity.Definition, scope entity.Scope, id string) string {
	return FormPath(def, scope, id) + "?" + ConfirmDeleteQuery
}
