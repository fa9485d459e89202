package api

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/aanand-mishra/tool-lending-admin/internal/types"
)

// Resource is one REST collection such as /categories. T is the record
// type the backend returns for it.
type Resource[T any] struct {
	client *Client
	path   string
}

// NewResource binds a collection path to a client.
func NewResource[T any](client *Client, path string) *Resource[T] {
	return &Resource[T]{client: client, path: path}
}

func (r *Resource[T]) itemPath(id int64) string {
	return r.path + "/" + strconv.FormatInt(id, 10)
}

// List fetches the collection. query may be nil.
func (r *Resource[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	items := make([]T, 0)
	if _, err := r.client.Get(ctx, r.path, query, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches one record by id.
func (r *Resource[T]) Get(ctx context.Context, id int64) (T, error) {
	var item T
	_, err := r.client.Get(ctx, r.itemPath(id), nil, &item)
	return item, err
}

// Create posts payload to the collection and returns the created record
// together with the backend's message.
func (r *Resource[T]) Create(ctx context.Context, payload any) (T, string, error) {
	var item T
	msg, err := r.client.Post(ctx, r.path, payload, &item)
	return item, msg, err
}

// Update replaces the record's editable fields with payload.
func (r *Resource[T]) Update(ctx context.Context, id int64, payload any) (T, string, error) {
	var item T
	msg, err := r.client.Put(ctx, r.itemPath(id), payload, &item)
	return item, msg, err
}

// SetActive soft-deletes (active=false) or restores (active=true) a record.
func (r *Resource[T]) SetActive(ctx context.Context, id int64, active bool) (string, error) {
	return r.client.Put(ctx, r.itemPath(id), types.ActivePayload{IsActive: active}, nil)
}

// FinesResource adds the date-window query used by the recent fines screen.
type FinesResource struct {
	*Resource[types.Fine]
}

// Recent lists fines issued between from and to, both inclusive.
func (f FinesResource) Recent(ctx context.Context, from, to time.Time) ([]types.Fine, error) {
	query := url.Values{}
	query.Set("from", from.Format(types.DateLayout))
	query.Set("to", to.Format(types.DateLayout))
	return f.List(ctx, query)
}

// Backend groups every collection the console manages.
type Backend struct {
	Categories    *Resource[types.Category]
	Subcategories *Resource[types.Subcategory]
	Roles         *Resource[types.Role]
	Users         *Resource[types.User]
	DamageTypes   *Resource[types.DamageType]
	FinesConfigs  *Resource[types.FinesConfig]
	Fines         FinesResource
}

// NewBackend wires every collection to client.
func NewBackend(client *Client) *Backend {
	return &Backend{
		Categories:    NewResource[types.Category](client, "/categories"),
		Subcategories: NewResource[types.Subcategory](client, "/subcategories"),
		Roles:         NewResource[types.Role](client, "/roles"),
		Users:         NewResource[types.User](client, "/users"),
		DamageTypes:   NewResource[types.DamageType](client, "/damage-types"),
		FinesConfigs:  NewResource[types.FinesConfig](client, "/fine-configs"),
		Fines:         FinesResource{NewResource[types.Fine](client, "/fines")},
	}
}
