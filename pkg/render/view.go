package render

import (
	"math"
	"net/http"
	"strings"

	"github.com/goliatone/go-storeadmin/pkg/client"
	"github.com/goliatone/go-storeadmin/pkg/controller"
	"github.com/goliatone/go-storeadmin/pkg/entity"
	"github.com/goliatone/go-storeadmin/pkg/model"
)

// Input kinds rendered by the form template.
const (
	InputText     = "text"
	InputNumber   = "number"
	InputCheckbox = "checkbox"
	InputSelect   = "select"
)

// FormView is the template model of a create or edit form.
type FormView struct {
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Action           string        `json:"action"`
	Submit           string        `json:"submit"`
	Editing          bool          `json:"editing"`
	Disabled         bool          `json:"disabled"`
	Fields           []FieldView   `json:"fields"`
	Hidden           []HiddenField `json:"hidden,omitempty"`
	Errors           []string      `json:"errors,omitempty"`
	CanDelete        bool          `json:"can_delete"`
	DeleteURL        string        `json:"delete_url,omitempty"`
	DeleteHidden     []HiddenField `json:"delete_hidden,omitempty"`
	ConfirmingDelete bool          `json:"confirming_delete"`
	CancelURL        string        `json:"cancel_url"`
}

// FieldView is one rendered input.
type FieldView struct {
	Name        string       `json:"name"`
	Label       string       `json:"label"`
	Input       string       `json:"input"`
	Value       string       `json:"value"`
	Checked     bool         `json:"checked"`
	Placeholder string       `json:"placeholder,omitempty"`
	Description string       `json:"description,omitempty"`
	Required    bool         `json:"required"`
	Errors      []string     `json:"errors,omitempty"`
	Options     []OptionView `json:"options,omitempty"`
}

// OptionView is one entry of a relationship select.
type OptionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// BuildForm turns a controller snapshot into the form template model.
// choices holds the selectable records of each relationship field.
func BuildForm(def entity.Definition, scope entity.Scope, state controller.State, choices map[string][]client.Choice, formErrors []string) FormView {
	editing := state.Mode.IsEdit()
	id := state.Mode.RecordID()

	view := FormView{
		Title:            def.FormTitle(editing),
		Description:      def.FormDescription(editing),
		Action:           FormPath(def, scope, id),
		Submit:           def.ActionLabel(editing),
		Editing:          editing,
		Disabled:         state.Submitting || def.ReadOnly,
		Errors:           cleanMessages(formErrors),
		ConfirmingDelete: state.ConfirmingDelete,
		CancelURL:        FormPath(def, scope, id),
	}
	if editing {
		view.Hidden = MethodFields(http.MethodPatch)
	}
	if editing && !def.ReadOnly {
		view.CanDelete = true
		view.DeleteURL = ConfirmDeletePath(def, scope, id)
		view.DeleteHidden = MethodFields(http.MethodDelete)
	}

	view.Fields = make([]FieldView, 0, len(def.Form.Fields))
	for _, field := range def.Form.Fields {
		view.Fields = append(view.Fields, buildField(field, state, choices[field.Name]))
	}
	return view
}

func buildField(field model.Field, state controller.State, choices []client.Choice) FieldView {
	value := state.Values[field.Name]
	out := FieldView{
		Name:        field.Name,
		Label:       field.DisplayLabel(),
		Input:       inputKind(field),
		Placeholder: field.Placeholder,
		Description: field.Description,
		Required:    field.Required,
		Errors:      append([]string(nil), state.Errors[field.Name]...),
	}

	switch out.Input {
	case InputCheckbox:
		out.Checked = FormatBool(value) == "Yes"
	case InputSelect:
		out.Value = stringify(value)
		out.Options = make([]OptionView, 0, len(choices))
		for _, choice := range choices {
			out.Options = append(out.Options, OptionView{
				Value:    choice.Value,
				Label:    PlainText(choice.Label),
				Selected: choice.Value == out.Value,
			})
		}
	default:
		out.Value = stringify(value)
	}
	return out
}

func inputKind(field model.Field) string {
	if field.Relationship != nil {
		return InputSelect
	}
	switch field.Type {
	case model.FieldTypeBoolean:
		return InputCheckbox
	case model.FieldTypeNumber, model.FieldTypeInteger:
		return InputNumber
	default:
		return InputText
	}
}

// Lookups resolves related record ids to display labels per kind.
type Lookups map[entity.Kind]map[string]string

// LookupsFromChoices indexes relationship choices by kind.
func LookupsFromChoices(kind entity.Kind, choices []client.Choice, into Lookups) Lookups {
	if into == nil {
		into = Lookups{}
	}
	labels := into[kind]
	if labels == nil {
		labels = make(map[string]string, len(choices))
		into[kind] = labels
	}
	for _, choice := range choices {
		labels[choice.Value] = choice.Label
	}
	return into
}

// TableView is the template model of an entity data table.
type TableView struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	NewURL      string     `json:"new_url,omitempty"`
	Query       string     `json:"query"`
	SearchKey   string     `json:"search_key"`
	SearchLabel string     `json:"search_label"`
	Columns     []string   `json:"columns"`
	Rows        []RowView  `json:"rows"`
	Editable    bool       `json:"editable"`
	Span        int        `json:"span"`
	API         []Endpoint `json:"api,omitempty"`
}

// RowView is one table row. URL is empty for read-only entities.
type RowView struct {
	ID    string     `json:"id"`
	URL   string     `json:"url,omitempty"`
	Cells []CellView `json:"cells"`
}

// CellView is one formatted table cell.
type CellView struct {
	Text   string `json:"text"`
	Swatch string `json:"swatch,omitempty"`
}

// BuildTable formats records for the data table. The heading counts every
// record; query filters rows on the search column, ignoring case.
func BuildTable(def entity.Definition, scope entity.Scope, records []model.Record, lookups Lookups, query string) TableView {
	view := TableView{
		Title:       def.ListTitle(len(records)),
		Description: def.Description,
		Query:       strings.TrimSpace(query),
		SearchKey:   def.SearchKey,
		Editable:    !def.ReadOnly,
	}
	if !def.ReadOnly {
		view.NewURL = FormPath(def, scope, "")
	}

	searchCol := -1
	view.Columns = make([]string, 0, len(def.Columns))
	for i, col := range def.Columns {
		view.Columns = append(view.Columns, col.Header)
		if col.Key == def.SearchKey {
			searchCol = i
			view.SearchLabel = col.Header
		}
	}
	view.Span = len(view.Columns)
	if view.Editable {
		view.Span++
	}

	needle := strings.ToLower(view.Query)
	view.Rows = make([]RowView, 0, len(records))
	for _, record := range records {
		row := RowView{ID: record.ID}
		if view.Editable {
			row.URL = FormPath(def, scope, record.ID)
		}
		row.Cells = make([]CellView, 0, len(def.Columns))
		for _, col := range def.Columns {
			row.Cells = append(row.Cells, buildCell(col, record, lookups))
		}
		if needle != "" && searchCol >= 0 && !strings.Contains(strings.ToLower(row.Cells[searchCol].Text), needle) {
			continue
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

func buildCell(col entity.Column, record model.Record, lookups Lookups) CellView {
	var raw any
	switch col.Key {
	case "id":
		raw = record.ID
	case "createdAt":
		raw = record.CreatedAt
	case "updatedAt":
		raw = record.UpdatedAt
	default:
		raw, _ = record.Value(col.Key)
	}

	if col.Lookup != "" {
		id := stringify(raw)
		if label, ok := lookups[col.Lookup][id]; ok {
			raw = label
		} else {
			raw = id
		}
	}

	switch col.Format {
	case entity.FormatDate:
		return CellView{Text: FormatDate(raw)}
	case entity.FormatCurrency:
		return CellView{Text: FormatCurrency(raw)}
	case entity.FormatBool:
		return CellView{Text: FormatBool(raw)}
	case entity.FormatSwatch:
		text := PlainText(stringify(raw))
		return CellView{Text: text, Swatch: Swatch(text)}
	default:
		return CellView{Text: PlainText(stringify(raw))}
	}
}

// Endpoint is one row of the API reference shown under a table.
type Endpoint struct {
	Method string `json:"method"`
	URL    string `json:"url"`
	Access string `json:"access"`
}

// APIEndpoints lists the REST calls of an entity relative to base, the
// public origin of the API. Read-only entities expose none.
func APIEndpoints(def entity.Definition, scope entity.Scope, base string) []Endpoint {
	if def.ReadOnly || def.Collection == "" || def.Item == "" {
		return nil
	}
	base = strings.TrimRight(base, "/")
	collection, err := def.CollectionPath(scope)
	if err != nil {
		return nil
	}
	item := strings.ReplaceAll(def.Item, "{storeId}", scope.StoreID)
	item = strings.ReplaceAll(item, "{id}", "{"+string(def.Kind)+"Id}")

	return []Endpoint{
		{Method: http.MethodGet, URL: base + collection, Access: "public"},
		{Method: http.MethodGet, URL: base + item, Access: "public"},
		{Method: http.MethodPost, URL: base + collection, Access: "admin"},
		{Method: http.MethodPatch, URL: base + item, Access: "admin"},
		{Method: http.MethodDelete, URL: base + item, Access: "admin"},
	}
}

// OverviewView is the template model of the store home page.
type OverviewView struct {
	Store        string    `json:"store"`
	TotalRevenue string    `json:"total_revenue"`
	Sales        int       `json:"sales"`
	Stock        int       `json:"stock"`
	Bars         []BarView `json:"bars"`
}

// BarView is one month of the revenue chart. Percent is relative to the
// best month.
type BarView struct {
	Name    string `json:"name"`
	Total   string `json:"total"`
	Percent int    `json:"percent"`
}

// BuildOverview formats the store summary and revenue chart.
func BuildOverview(store model.Record, revenue []model.RevenuePoint, sales, stock int) OverviewView {
	name, _ := store.Value("name")
	view := OverviewView{
		Store: PlainText(stringify(name)),
		Sales: sales,
		Stock: stock,
	}

	var total, peak float64
	for _, point := range revenue {
		total += point.Total
		peak = math.Max(peak, point.Total)
	}
	view.TotalRevenue = FormatCurrency(total)

	view.Bars = make([]BarView, 0, len(revenue))
	for _, point := range revenue {
		bar := BarView{Name: point.Name, Total: FormatCurrency(point.Total)}
		if peak > 0 {
			bar.Percent = int(math.Round(point.Total / peak * 100))
		}
		view.Bars = append(view.Bars, bar)
	}
	return view
}
