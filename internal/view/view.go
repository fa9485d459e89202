// Package view renders the console's HTML pages from embedded templates.
//
// Each page template defines "content" and is parsed together with
// layout.html, which supplies the navigation, the toast and the shared
// "form" and "daterange" widgets.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/tool-lending-admin/internal/notify"
	"github.com/aanand-mishra/tool-lending-admin/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names accepted by Renderer.Render.
const (
	PageList  = "list"
	PageFines = "fines"
	PageAudit = "audit"
)

// NavItem is one entry in the top navigation.
type NavItem struct {
	Label   string
	Path    string
	Current bool
}

// Page is the data handed to the layout.
type Page struct {
	Title   string
	Nav     []NavItem
	Toast   *notify.Toast
	Content any
}

// Option is one choice of a select field.
type Option struct {
	Value    string
	Label    string
	Selected bool
	// Inactive options are only offered when they are the current value.
	Inactive bool
}

// Field is one form input. Type is an HTML input type, or "textarea" or
// "select".
type Field struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Step     string
	Required bool
	Options  []Option
	Error    string
}

// Form is a create or edit form.
type Form struct {
	Title  string
	Action string
	Submit string
	Fields []Field
}

// Confirm is the modal alert shown before a soft delete or restore.
type Confirm struct {
	Action  string
	Message string
	Value   string
}

// Row is one table row of a list page.
type Row struct {
	ID     int64
	Cells  []string
	Active bool
}

// ListPage is the content of every CRUD screen.
type ListPage struct {
	Path    string
	Columns []string
	Rows    []Row
	Create  Form
	Edit    *Form
	Confirm *Confirm
}

// DateRange is the state of the from/to picker.
type DateRange struct {
	Action string
	From   string
	To     string
	Error  string
}

// FineRow is one fine formatted for display.
type FineRow struct {
	Date        string
	User        string
	Config      string
	Description string
	Status      string
	Amount      string
}

// FinesPage is the content of the recent fines screen.
type FinesPage struct {
	Range     DateRange
	Rows      []FineRow
	Total     string
	ExportURL string
}

// AuditPage is the content of the audit log screen.
type AuditPage struct {
	Entries []types.AuditEntry
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

var funcs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
}

// New parses every embedded page.
func New(logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{pages: make(map[string]*template.Template), logger: logger}
	for _, name := range []string{PageList, PageFines, PageAudit} {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("view.New: parse %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render executes page into a buffer first, so a template error never
// leaves a half-written page behind a 200 status.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) {
	tmpl, ok := r.pages[name]
	if !ok {
		r.logger.Error("unknown page", slog.String("page", name))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		r.logger.Error("render page", slog.String("page", name), slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Navigation lists the console screens, marking the one at current.
func Navigation(current string) []NavItem {
	items := []NavItem{
		{Label: "Categories", Path: "/categories"},
		{Label: "Subcategories", Path: "/subcategories"},
		{Label: "Roles", Path: "/roles"},
		{Label: "Users", Path: "/users"},
		{Label: "Damage types", Path: "/damage-types"},
		{Label: "Fines config", Path: "/fine-configs"},
		{Label: "Recent fines", Path: "/fines"},
		{Label: "Audit log", Path: "/audit"},
	}
	for i := range items {
		items[i].Current = items[i].Path == current
	}
	return items
}
