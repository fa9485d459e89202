package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/tool-lending-admin/internal/types"
	"github.com/aanand-mishra/tool-lending-admin/internal/view"
)

type fakeStorage struct {
	entries []types.AuditEntry
	err     error
	limit   int
}

func (f *fakeStorage) RecordAudit(_ context.Context, e types.AuditEntry) (int64, error) {
	f.entries = append(f.entries, e)
	return int64(len(f.entries)), nil
}

func (f *fakeStorage) ListAudit(_ context.Context, limit int) ([]types.AuditEntry, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func (f *fakeStorage) Close() error { return nil }

func serve(t *testing.T, store *fakeStorage, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	renderer, err := view.New(logger)
	require.NoError(t, err)

	mux := http.NewServeMux()
	Register(mux, Deps{Storage: store, Renderer: renderer, Logger: logger})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestListLimit(t *testing.T) {
	testCases := []struct {
		query string
		want  int
	}{
		{"", DefaultLimit},
		{"?limit=10", 10},
		{"?limit=100000", MaxLimit},
	}

	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			store := &fakeStorage{}
			rec := serve(t, store, httptest.NewRequest(http.MethodGet, "/audit"+tc.query, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.want, store.limit)
			assert.Contains(t, rec.Body.String(), "Nothing recorded yet.")
		})
	}
}

func TestListInvalidLimit(t *testing.T) {
	for _, q := range []string{"abc", "0", "-3"} {
		store := &fakeStorage{}
		req := httptest.NewRequest(http.MethodGet, "/audit?limit="+q, nil)
		req.Header.Set("Accept", "application/json")
		rec := serve(t, store, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.Zero(t, store.limit, q)
	}
}

func TestListEntries(t *testing.T) {
	store := &fakeStorage{entries: []types.AuditEntry{{
		ID:        7,
		RequestID: "4b7d8c6e-4c1f-4c57-9a0e-8f9d3c2b1a00",
		Resource:  "categories",
		Action:    "deactivate",
		RecordID:  3,
		Outcome:   types.OutcomeOK,
		CreatedAt: time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC),
	}}}

	rec := serve(t, store, httptest.NewRequest(http.MethodGet, "/audit", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "2026-10-19 09:30:00")
	assert.Contains(t, body, "deactivate")
	assert.Contains(t, body, "4b7d8c6e-4c1f-4c57-9a0e-8f9d3c2b1a00")

	req := httptest.NewRequest(http.MethodGet, "/audit", nil)
	req.Header.Set("Accept", "application/json")
	rec = serve(t, store, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Success bool               `json:"success"`
		Data    []types.AuditEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "categories", env.Data[0].Resource)
}

func TestListStorageError(t *testing.T) {
	store := &fakeStorage{err: errors.New("database is locked")}

	rec := serve(t, store, httptest.NewRequest(http.MethodGet, "/audit", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not be read")
}
