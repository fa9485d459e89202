package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels that APIError matches with errors.Is, grouped by how the
// console reacts to them.
var (
	ErrBadRequest   = errors.New("invalid data")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("conflict")
	ErrServer       = errors.New("server error")
)

// APIError is a backend reply with a non-2xx status or success=false.
type APIError struct {
	Status  int
	Message string
	Method  string
	Path    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

// Is lets callers write errors.Is(err, api.ErrNotFound) instead of
// comparing status codes.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrBadRequest:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrConflict:
		return e.Status == http.StatusConflict
	case ErrServer:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}
