package crud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/tool-lending-admin/internal/api"
	"github.com/aanand-mishra/tool-lending-admin/internal/notify"
	"github.com/aanand-mishra/tool-lending-admin/internal/requestctx"
	"github.com/aanand-mishra/tool-lending-admin/internal/types"
	"github.com/aanand-mishra/tool-lending-admin/internal/validation"
	"github.com/aanand-mishra/tool-lending-admin/internal/view"
)

type fakeStore struct {
	records  []types.Category
	err      error
	created  []any
	updated  map[int64]any
	toggled  map[int64]bool
	listHits int
}

func newFakeStore(records ...types.Category) *fakeStore {
	return &fakeStore{records: records, updated: map[int64]any{}, toggled: map[int64]bool{}}
}

func (f *fakeStore) List(context.Context, url.Values) ([]types.Category, error) {
	f.listHits++
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func (f *fakeStore) Create(_ context.Context, payload any) (types.Category, string, error) {
	if f.err != nil {
		return types.Category{}, "", f.err
	}
	f.created = append(f.created, payload)
	p := payload.(types.CategoryPayload)
	return types.Category{ID: 42, Name: p.Name, Description: p.Description, IsActive: true}, "", nil
}

func (f *fakeStore) Update(_ context.Context, id int64, payload any) (types.Category, string, error) {
	if f.err != nil {
		return types.Category{}, "", f.err
	}
	f.updated[id] = payload
	p := payload.(types.CategoryPayload)
	return types.Category{ID: id, Name: p.Name, Description: p.Description, IsActive: true}, "Category saved", nil
}

func (f *fakeStore) SetActive(_ context.Context, id int64, active bool) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.toggled[id] = active
	return "", nil
}

type fakeAudit struct {
	entries []types.AuditEntry
	err     error
}

func (f *fakeAudit) RecordAudit(_ context.Context, e types.AuditEntry) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.entries = append(f.entries, e)
	return int64(len(f.entries)), nil
}

func (f *fakeAudit) ListAudit(context.Context, int) ([]types.AuditEntry, error) {
	return f.entries, nil
}

func (f *fakeAudit) Close() error { return nil }

func categoryBinding(store Store[types.Category]) Binding[types.Category, types.CategoryPayload] {
	return Binding[types.Category, types.CategoryPayload]{
		Resource: "categories",
		Title:    "Categories",
		Noun:     "Category",
		Columns:  []string{"Name", "Description"},
		Fields: []FieldSpec{
			{Name: "name", Label: "Name", Type: "text", Required: true},
			{Name: "description", Label: "Description", Type: "textarea"},
		},
		Store:  store,
		ID:     func(c types.Category) int64 { return c.ID },
		Active: func(c types.Category) bool { return c.IsActive },
		Label:  func(c types.Category) string { return c.Name },
		Cells:  func(c types.Category) []string { return []string{c.Name, c.Description} },
		Values: func(c types.Category) url.Values {
			return url.Values{"name": {c.Name}, "description": {c.Description}}
		},
		Decode: func(v url.Values) (types.CategoryPayload, validation.FieldErrors) {
			return types.CategoryPayload{Name: v.Get("name"), Description: v.Get("description")}, nil
		},
	}
}

type harness struct {
	mux   *http.ServeMux
	store *fakeStore
	audit *fakeAudit
	flash notify.Flasher
}

func newHarness(t *testing.T, store *fakeStore) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	renderer, err := view.New(logger)
	require.NoError(t, err)

	h := &harness{
		mux:   http.NewServeMux(),
		store: store,
		audit: &fakeAudit{},
		flash: notify.Flasher{CookieName: "toast"},
	}
	Register(h.mux, Deps{Renderer: renderer, Flash: h.flash, Audit: h.audit, Logger: logger}, categoryBinding(store))
	return h
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.mux.ServeHTTP(rec, req)
	return rec
}

func (h *harness) toast(t *testing.T, rec *httptest.ResponseRecorder) notify.Toast {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	toast, ok := h.flash.Pop(httptest.NewRecorder(), req)
	require.True(t, ok, "expected a flash toast")
	return toast
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postJSON(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req
}

func TestListPage(t *testing.T) {
	h := newHarness(t, newFakeStore(
		types.Category{ID: 1, Name: "Power tools", Description: "Drills and saws", IsActive: true},
		types.Category{ID: 2, Name: "Garden", IsActive: false},
	))

	rec := h.do(httptest.NewRequest(http.MethodGet, "/categories", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Power tools")
	assert.Contains(t, body, "Drills and saws")
	assert.Contains(t, body, `class="inactive"`)
	assert.Contains(t, body, "New category")
	assert.NotContains(t, body, "<dialog")
}

func TestListEditAndConfirmDialogs(t *testing.T) {
	h := newHarness(t, newFakeStore(types.Category{ID: 1, Name: "Power tools", IsActive: true}))

	rec := h.do(httptest.NewRequest(http.MethodGet, "/categories?edit=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Edit category")
	assert.Contains(t, rec.Body.String(), `action="/categories/1"`)

	rec = h.do(httptest.NewRequest(http.MethodGet, "/categories?confirm=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `role="alertdialog"`)
	assert.Contains(t, body, `action="/categories/1/active"`)
	assert.Contains(t, body, `value="false"`)

	rec = h.do(httptest.NewRequest(http.MethodGet, "/categories?edit=99", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "no longer exists")
}

func TestListJSON(t *testing.T) {
	h := newHarness(t, newFakeStore(types.Category{ID: 1, Name: "Power tools", IsActive: true}))

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	req.Header.Set("Accept", "application/json")
	rec := h.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Success bool             `json:"success"`
		Data    []types.Category `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "Power tools", env.Data[0].Name)
}

func TestListBackendError(t *testing.T) {
	store := newFakeStore()
	store.err = &api.APIError{Status: http.StatusServiceUnavailable, Message: "down", Method: "GET", Path: "/categories"}
	h := newHarness(t, store)

	rec := h.do(httptest.NewRequest(http.MethodGet, "/categories", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Server error")

	store.err = errors.New("dial tcp: connection refused")
	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	req.Header.Set("Accept", "application/json")
	rec = h.do(req)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not be reached")
}

func TestCreateForm(t *testing.T) {
	h := newHarness(t, newFakeStore())

	req := postForm("/categories", url.Values{"name": {"  Hand tools "}, "description": {"Hammers"}})
	req = req.WithContext(requestctx.WithRequestID(req.Context(), "req-1"))
	rec := h.do(req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/categories", rec.Header().Get("Location"))
	require.Len(t, h.store.created, 1)
	assert.Equal(t, types.CategoryPayload{Name: "Hand tools", Description: "Hammers"}, h.store.created[0])

	toast := h.toast(t, rec)
	assert.Equal(t, notify.SeveritySuccess, toast.Severity)
	assert.Equal(t, "Category created", toast.Detail)

	require.Len(t, h.audit.entries, 1)
	entry := h.audit.entries[0]
	assert.Equal(t, "categories", entry.Resource)
	assert.Equal(t, "create", entry.Action)
	assert.Equal(t, int64(42), entry.RecordID)
	assert.Equal(t, types.OutcomeOK, entry.Outcome)
	assert.Equal(t, "req-1", entry.RequestID)
}

func TestCreateValidation(t *testing.T) {
	h := newHarness(t, newFakeStore())

	rec := h.do(postForm("/categories", url.Values{"name": {"ab"}, "description": {"ok"}}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, h.store.created)
	assert.Empty(t, h.audit.entries)
	body := rec.Body.String()
	assert.Contains(t, body, "Invalid data")
	assert.Contains(t, body, `class="field invalid"`)
	// The rejected value is shown again.
	assert.Contains(t, body, `value="ab"`)
}

func TestCreateJSON(t *testing.T) {
	h := newHarness(t, newFakeStore())

	rec := h.do(postJSON(http.MethodPost, "/categories", `{"name":"Ladders","description":""}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":42`)
	assert.Contains(t, rec.Body.String(), `"message":"Category created"`)

	rec = h.do(postJSON(http.MethodPost, "/categories", `{"description":"no name"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var env struct {
		Success bool              `json:"success"`
		Errors  map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "is required", env.Errors["name"])

	rec = h.do(postJSON(http.MethodPost, "/categories", ``))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "request body is empty")
}

func TestCreateBackendConflict(t *testing.T) {
	store := newFakeStore()
	store.err = &api.APIError{Status: http.StatusConflict, Message: "category already exists", Method: "POST", Path: "/categories"}
	h := newHarness(t, store)

	rec := h.do(postForm("/categories", url.Values{"name": {"Ladders"}}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	toast := h.toast(t, rec)
	assert.Equal(t, "Conflict", toast.Summary)
	assert.Equal(t, "category already exists", toast.Detail)

	require.Len(t, h.audit.entries, 1)
	assert.Equal(t, types.OutcomeError, h.audit.entries[0].Outcome)
	assert.Contains(t, h.audit.entries[0].Message, "category already exists")
}

func TestUpdate(t *testing.T) {
	h := newHarness(t, newFakeStore(types.Category{ID: 5, Name: "Garden", IsActive: true}))

	rec := h.do(postForm("/categories/5", url.Values{"name": {"Garden tools"}}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, types.CategoryPayload{Name: "Garden tools"}, h.store.updated[5])
	assert.Equal(t, "Category saved", h.toast(t, rec).Detail)

	rec = h.do(postJSON(http.MethodPut, "/categories/5", `{"name":"Yard"}`))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.CategoryPayload{Name: "Yard"}, h.store.updated[5])

	rec = h.do(postForm("/categories/abc", url.Values{"name": {"Yard"}}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "Invalid data", h.toast(t, rec).Summary)

	rec = h.do(postForm("/categories/5", url.Values{"name": {""}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Edit category")
}

func TestSetActive(t *testing.T) {
	h := newHarness(t, newFakeStore(types.Category{ID: 3, Name: "Garden", IsActive: true}))

	rec := h.do(postForm("/categories/3/active", url.Values{"is_active": {"false"}}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	active, ok := h.store.toggled[3]
	require.True(t, ok)
	assert.False(t, active)
	assert.Equal(t, "Category deactivated", h.toast(t, rec).Detail)

	rec = h.do(postJSON(http.MethodPost, "/categories/3/active", `{"is_active":true}`))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, h.store.toggled[3])
	assert.Contains(t, rec.Body.String(), "Category activated")

	require.Len(t, h.audit.entries, 2)
	assert.Equal(t, "deactivate", h.audit.entries[0].Action)
	assert.Equal(t, "activate", h.audit.entries[1].Action)

	for _, body := range []string{`{}`, `{"active":true}`, `{"is_active":null}`} {
		rec = h.do(postJSON(http.MethodPost, "/categories/3/active", body))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, rec.Body.String(), "is_active is required", body)
	}
	require.Len(t, h.audit.entries, 2, "rejected toggles never reach the backend")
	assert.True(t, h.store.toggled[3])

	rec = h.do(postForm("/categories/3/active", url.Values{"is_active": {"maybe"}}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "is_active must be true or false", h.toast(t, rec).Detail)
}

func TestAuditFailureDoesNotFailRequest(t *testing.T) {
	h := newHarness(t, newFakeStore())
	h.audit.err = errors.New("disk full")

	rec := h.do(postForm("/categories", url.Values{"name": {"Ladders"}}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, notify.SeveritySuccess, h.toast(t, rec).Severity)
}
