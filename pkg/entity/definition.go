package entity

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-storeadmin/pkg/model"
)

// Kind identifies an entity type managed by the dashboard.
type Kind string

const (
	KindStore     Kind = "store"
	KindSettings  Kind = "settings"
	KindBillboard Kind = "billboard"
	KindCategory  Kind = "category"
	KindSize      Kind = "size"
	KindColor     Kind = "color"
	KindProduct   Kind = "product"
	KindOrder     Kind = "order"
)

var (
	// ErrUnknownKind is returned when a kind or plural is not registered.
	ErrUnknownKind = errors.New("entity: unknown kind")
	// ErrMissingScope is returned when an endpoint needs a store id or record
	// id that was not supplied.
	ErrMissingScope = errors.New("entity: missing path parameter")
)

// Scope carries the route parameters shared by every screen of a store.
type Scope struct {
	StoreID string
}

// Messages are the user-facing notification texts for one entity.
type Messages struct {
	Created        string `json:"created,omitempty" yaml:"created,omitempty"`
	Updated        string `json:"updated,omitempty" yaml:"updated,omitempty"`
	Deleted        string `json:"deleted,omitempty" yaml:"deleted,omitempty"`
	SaveFailed     string `json:"saveFailed,omitempty" yaml:"saveFailed,omitempty"`
	DeleteConflict string `json:"deleteConflict,omitempty" yaml:"deleteConflict,omitempty"`
}

// Navigation holds route templates visited after a successful mutation. An
// empty template means the screen stays where it is. Templates accept the
// {storeId} and {id} placeholders.
type Navigation struct {
	CreateRedirect string
	SaveRedirect   string
	DeleteRedirect string
}

// Column formats.
const (
	FormatText     = ""
	FormatDate     = "date"
	FormatCurrency = "currency"
	FormatSwatch   = "swatch"
	FormatBool     = "bool"
)

// Column describes one data table column. When Lookup is set the value is a
// related record id and the table shows that record's label instead.
type Column struct {
	Key    string
	Header string
	Format string
	Lookup Kind
}

// Definition is the static description of one entity kind: its form schema,
// endpoints, texts and navigation targets.
type Definition struct {
	Kind        Kind
	Singular    string
	Plural      string
	Title       string
	Description string
	Form        model.FormModel
	Collection  string
	Item        string
	Scoped      bool
	EditOnly    bool
	ReadOnly    bool
	Messages    Messages
	Navigation  Navigation
	Columns     []Column
	SearchKey   string
}

// Clone returns a copy that shares no slices with d.
func (d Definition) Clone() Definition {
	out := d
	out.Form = d.Form.Clone()
	out.Columns = append([]Column(nil), d.Columns...)
	return out
}

// CollectionPath expands the create endpoint for scope.
func (d Definition) CollectionPath(scope Scope) (string, error) {
	if d.Collection == "" {
		return "", fmt.Errorf("entity: %s has no collection endpoint", d.Kind)
	}
	return expand(d.Collection, scope, "")
}

// ItemPath expands the update/delete endpoint for a record.
func (d Definition) ItemPath(scope Scope, id string) (string, error) {
	if d.Item == "" {
		return "", fmt.Errorf("entity: %s has no item endpoint", d.Kind)
	}
	return expand(d.Item, scope, id)
}

// Redirect expands a navigation template. It returns "" for an empty
// template.
func (d Definition) Redirect(template string, scope Scope, id string) (string, error) {
	if template == "" {
		return "", nil
	}
	return expand(template, scope, id)
}

// FormTitle returns the page heading for the form.
func (d Definition) FormTitle(editing bool) string {
	if d.EditOnly {
		return d.Title
	}
	if editing {
		return "Edit " + d.Singular
	}
	return "Create " + d.Singular
}

// FormDescription returns the sub-heading for the form.
func (d Definition) FormDescription(editing bool) string {
	if d.EditOnly {
		return d.Description
	}
	if editing {
		return "Edit " + d.Singular
	}
	return "Add a new " + strings.ToLower(d.Singular)
}

// ActionLabel is the submit button text.
func (d Definition) ActionLabel(editing bool) string {
	if editing {
		return "Save changes"
	}
	return "Create"
}

// ListTitle is the data table heading, e.g. "Billboards (3)".
func (d Definition) ListTitle(count int) string {
	return fmt.Sprintf("%s (%d)", d.Title, count)
}

func expand(template string, scope Scope, id string) (string, error) {
	out := template
	if strings.Contains(out, "{storeId}") {
		if scope.StoreID == "" {
			return "", fmt.Errorf("%w: storeId", ErrMissingScope)
		}
		out = strings.ReplaceAll(out, "{storeId}", url.PathEscape(scope.StoreID))
	}
	if strings.Contains(out, "{id}") {
		if id == "" {
			return "", fmt.Errorf("%w: id", ErrMissingScope)
		}
		out = strings.ReplaceAll(out, "{id}", url.PathEscape(id))
	}
	return out, nil
}
