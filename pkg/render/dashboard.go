package render

import (
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/goliatone/go-storeadmin/pkg/client"
	"github.com/goliatone/go-storeadmin/pkg/controller"
	"github.com/goliatone/go-storeadmin/pkg/entity"
	"github.com/goliatone/go-storeadmin/pkg/model"
	"github.com/goliatone/go-storeadmin/pkg/notify"
	"github.com/goliatone/go-storeadmin/pkg/render/template"
	"github.com/goliatone/go-storeadmin/pkg/render/template/pongo"
)

// ContentTypeHTML is the content type of every dashboard page.
const ContentTypeHTML = "text/html; charset=utf-8"

// Chrome is what every page inside a store shares: the store switcher, the
// navigation and pending notifications.
type Chrome struct {
	Stores []model.Record
	Scope  entity.Scope
	Path   string
	Flash  []notify.Notification
}

// FormPage renders a create or edit form from a controller snapshot.
type FormPage struct {
	Chrome
	Definition entity.Definition
	State      controller.State
	Choices    map[string][]client.Choice
	FormErrors []string
}

// TablePage renders the data table of an entity.
type TablePage struct {
	Chrome
	Definition entity.Definition
	Records    []model.Record
	Lookups    Lookups
	Query      string
}

// OverviewPage renders the store home.
type OverviewPage struct {
	Chrome
	Store   model.Record
	Revenue []model.RevenuePoint
	Sales   int
	Stock   int
}

// SetupPage renders the store setup modal shown until a store exists.
type SetupPage struct {
	Open       bool
	State      controller.State
	FormErrors []string
	Flash      []notify.Notification
}

// ErrorPage renders a not-found or failure page.
type ErrorPage struct {
	Chrome
	Status  int
	Message string
}

// Dashboard renders the admin pages through a template engine. It is safe
// for concurrent use once built.
type Dashboard struct {
	engine    template.Renderer
	overrides []fs.FS
	catalog   *entity.Catalog
	theme     Theme
	brand     string
	apiBase   string
}

// New builds a Dashboard over the embedded templates unless WithEngine
// supplies another engine.
func New(opts ...Option) (*Dashboard, error) {
	d := &Dashboard{
		catalog: entity.Default(),
		brand:   "Store Admin",
	}
	if cfg, err := ThemeConfig(DefaultManifest(), ""); err == nil {
		d.theme = ThemeFromConfig(cfg)
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	if d.engine == nil {
		engineOpts := make([]pongo.Option, 0, len(d.overrides)+2)
		for _, fsys := range d.overrides {
			engineOpts = append(engineOpts, pongo.WithFS(fsys))
		}
		engineOpts = append(engineOpts,
			pongo.WithFS(Templates()),
			pongo.WithFilters(map[string]pongo.Filter{
				"currency":  func(in any, _ any) (any, error) { return FormatCurrency(in), nil },
				"plaintext": func(in any, _ any) (any, error) { return PlainText(stringify(in)), nil },
			}),
		)
		engine, err := pongo.New(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("render: build engine: %w", err)
		}
		d.engine = engine
	}

	if err := d.engine.GlobalContext(map[string]any{
		"brand": d.brand,
		"theme": d.theme,
	}); err != nil {
		return nil, fmt.Errorf("render: global context: %w", err)
	}
	return d, nil
}

// ContentType reports the media type the pages are written in.
func (d *Dashboard) ContentType() string {
	return ContentTypeHTML
}

// Form writes a create or edit page.
func (d *Dashboard) Form(w io.Writer, page FormPage) error {
	def := page.Definition
	form := BuildForm(def, page.Scope, page.State, page.Choices, page.FormErrors)
	data := d.layout(page.Chrome, form.Title)
	data["form"] = form
	if def.EditOnly && def.Kind == entity.KindSettings && d.apiBase != "" {
		data["api_base"] = d.apiBase + "/api/" + page.Scope.StoreID
	}
	return d.render(w, TemplateForm, data)
}

// Table writes an entity list page.
func (d *Dashboard) Table(w io.Writer, page TablePage) error {
	def := page.Definition
	table := BuildTable(def, page.Scope, page.Records, page.Lookups, page.Query)
	if d.apiBase != "" {
		table.API = APIEndpoints(def, page.Scope, d.apiBase)
	}
	data := d.layout(page.Chrome, def.Title)
	data["table"] = table
	return d.render(w, TemplateTable, data)
}

// Overview writes the store home page.
func (d *Dashboard) Overview(w io.Writer, page OverviewPage) error {
	data := d.layout(page.Chrome, "Dashboard")
	data["overview"] = BuildOverview(page.Store, page.Revenue, page.Sales, page.Stock)
	return d.render(w, TemplateOverview, data)
}

// Setup writes the store setup page.
func (d *Dashboard) Setup(w io.Writer, page SetupPage) error {
	def, err := d.catalog.Get(entity.KindStore)
	if err != nil {
		return fmt.Errorf("render: setup: %w", err)
	}
	form := BuildForm(def, entity.Scope{}, page.State, nil, page.FormErrors)
	form.Title = "Create store"
	form.Description = def.Description
	form.Submit = "Continue"
	form.CancelURL = CloseSetupPath

	data := d.layout(Chrome{Flash: page.Flash}, form.Title)
	data["form"] = form
	data["open"] = page.Open
	return d.render(w, TemplateSetup, data)
}

// Error writes a failure page.
func (d *Dashboard) Error(w io.Writer, page ErrorPage) error {
	status := page.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	message := strings.TrimSpace(page.Message)
	if message == "" {
		message = http.StatusText(status)
	}
	data := d.layout(page.Chrome, http.StatusText(status))
	data["status"] = status
	data["message"] = message
	return d.render(w, TemplateError, data)
}

func (d *Dashboard) render(w io.Writer, name string, data map[string]any) error {
	if _, err := d.engine.RenderTemplate(name, data, w); err != nil {
		return fmt.Errorf("render: %s page: %w", name, err)
	}
	return nil
}

type storeLink struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Current bool   `json:"current"`
}

type navLink struct {
	Label  string `json:"label"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

type flashView struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func (d *Dashboard) layout(chrome Chrome, title string) map[string]any {
	data := map[string]any{
		"title": title,
		"path":  chrome.Path,
	}

	flash := make([]flashView, 0, len(chrome.Flash))
	for _, n := range chrome.Flash {
		flash = append(flash, flashView{Level: string(n.Level), Message: PlainText(n.Message)})
	}
	data["flash"] = flash

	if chrome.Scope.StoreID == "" {
		return data
	}

	stores := make([]storeLink, 0, len(chrome.Stores))
	for _, record := range chrome.Stores {
		name, _ := record.Value("name")
		link := storeLink{
			ID:      record.ID,
			Name:    PlainText(stringify(name)),
			URL:     OverviewPath(entity.Scope{StoreID: record.ID}),
			Current: record.ID == chrome.Scope.StoreID,
		}
		if link.Current {
			data["current"] = link
		}
		stores = append(stores, link)
	}
	data["stores"] = stores
	data["new_store_url"] = NewStorePath
	data["nav"] = d.navigation(chrome)
	return data
}

// navigation lists the overview, every store entity with a table, then the
// edit-only pages.
func (d *Dashboard) navigation(chrome Chrome) []navLink {
	overview := OverviewPath(chrome.Scope)
	links := []navLink{{Label: "Overview", URL: overview, Active: chrome.Path == overview}}

	var trailing []navLink
	for _, def := range d.catalog.Scoped() {
		url := ListPath(def, chrome.Scope)
		link := navLink{
			Label:  def.Title,
			URL:    url,
			Active: chrome.Path == url || strings.HasPrefix(chrome.Path, url+"/"),
		}
		if def.EditOnly {
			trailing = append(trailing, link)
			continue
		}
		links = append(links, link)
	}
	return append(links, trailing...)
}
