package view

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/tool-lending-admin/internal/notify"
	"github.com/aanand-mishra/tool-lending-admin/internal/types"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(nil)
	require.NoError(t, err)
	return r
}

func TestRenderListPage(t *testing.T) {
	r := newRenderer(t)
	toast := notify.Success("Category created")
	rec := httptest.NewRecorder()

	r.Render(rec, http.StatusOK, PageList, Page{
		Title: "Categories",
		Nav:   Navigation("/categories"),
		Toast: &toast,
		Content: ListPage{
			Path:    "/categories",
			Columns: []string{"Name", "Description"},
			Rows: []Row{
				{ID: 1, Cells: []string{"Drills", "<b>cordless</b>"}, Active: true},
				{ID: 2, Cells: []string{"Saws", ""}, Active: false},
			},
			Create: Form{
				Action: "/categories",
				Submit: "Create",
				Fields: []Field{{Name: "name", Label: "Name", Type: "text", Required: true, Error: "is required"}},
			},
			Confirm: &Confirm{Action: "/categories/1/active", Message: "Deactivate Drills?", Value: "false"},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, body, "Category created")
	assert.Contains(t, body, `aria-current="page"`)
	assert.Contains(t, body, "&lt;b&gt;cordless&lt;/b&gt;", "cells are escaped")
	assert.Contains(t, body, `href="/categories?edit=1"`)
	assert.Contains(t, body, "Activate</a>")
	assert.Contains(t, body, "Deactivate Drills?")
	assert.Contains(t, body, `name="is_active" value="false"`)
	assert.Contains(t, body, "is required")
}

func TestRenderEmptyList(t *testing.T) {
	r := newRenderer(t)
	rec := httptest.NewRecorder()

	r.Render(rec, http.StatusOK, PageList, Page{
		Title:   "Roles",
		Content: ListPage{Path: "/roles", Columns: []string{"Name"}},
	})

	assert.Contains(t, rec.Body.String(), `colspan="3"`)
	assert.Contains(t, rec.Body.String(), "No records.")
}

func TestRenderFinesAndAudit(t *testing.T) {
	r := newRenderer(t)

	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusOK, PageFines, Page{
		Title: "Recent fines",
		Content: FinesPage{
			Range:     DateRange{Action: "/fines", From: "2026-10-01", To: "2026-10-19"},
			Rows:      []FineRow{{Date: "2026-10-02", User: "Ana Pérez", Amount: "12.50"}},
			Total:     "12.50",
			ExportURL: "/fines/export.xlsx?from=2026-10-01&to=2026-10-19",
		},
	})
	body := rec.Body.String()
	assert.Contains(t, body, `value="2026-10-01"`)
	assert.Contains(t, body, "Ana Pérez")
	assert.Contains(t, body, "total 12.50")

	rec = httptest.NewRecorder()
	r.Render(rec, http.StatusOK, PageAudit, Page{
		Title: "Audit log",
		Content: AuditPage{Entries: []types.AuditEntry{{
			Resource:  "roles",
			Action:    "create",
			Outcome:   types.OutcomeOK,
			CreatedAt: time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC),
		}}},
	})
	assert.Contains(t, rec.Body.String(), "2026-10-19 08:30:00")
}

func TestRenderUnknownPage(t *testing.T) {
	rec := httptest.NewRecorder()
	newRenderer(t).Render(rec, http.StatusOK, "missing", Page{})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
