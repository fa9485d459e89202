// Package notify turns operation outcomes into toasts and carries a toast
// across a post/redirect/get cycle in a short-lived cookie.
package notify

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aanand-mishra/tool-lending-admin/internal/api"
	"github.com/aanand-mishra/tool-lending-admin/internal/validation"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarn    Severity = "warn"
	SeverityError   Severity = "error"
)

// Toast is a transient notification shown at the top of the next page.
type Toast struct {
	Severity Severity `json:"severity"`
	Summary  string   `json:"summary"`
	Detail   string   `json:"detail,omitempty"`
}

// Success builds the toast shown after a completed operation.
func Success(detail string) Toast {
	return Toast{Severity: SeveritySuccess, Summary: "Success", Detail: detail}
}

// FromError maps a failed operation to the toast the user sees.
func FromError(err error) Toast {
	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		return Toast{Severity: SeverityWarn, Summary: "Invalid data", Detail: "Check the highlighted fields."}
	}

	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		return Toast{Severity: SeverityError, Summary: "Server error", Detail: "The lending service could not be reached."}
	}

	switch {
	case errors.Is(err, api.ErrBadRequest):
		return Toast{Severity: SeverityWarn, Summary: "Invalid data", Detail: apiErr.Message}
	case errors.Is(err, api.ErrUnauthorized):
		return Toast{Severity: SeverityError, Summary: "Unauthorized", Detail: "You are not allowed to perform this action."}
	case errors.Is(err, api.ErrNotFound):
		return Toast{Severity: SeverityWarn, Summary: "Not found", Detail: "The record no longer exists."}
	case errors.Is(err, api.ErrConflict):
		return Toast{Severity: SeverityWarn, Summary: "Conflict", Detail: apiErr.Message}
	case errors.Is(err, api.ErrServer):
		return Toast{Severity: SeverityError, Summary: "Server error", Detail: "The lending service failed. Try again later."}
	}
	return Toast{Severity: SeverityError, Summary: "Error", Detail: apiErr.Message}
}

// Status is the status the console answers with for a failed backend
// call: the backend's own status, or 502 when it was never reached.
func Status(err error) int {
	if status := api.StatusOf(err); status != 0 {
		return status
	}
	return http.StatusBadGateway
}

// Flasher stores one toast in a cookie until the next page reads it.
type Flasher struct {
	CookieName string
	Secure     bool
}

// Set writes t to the flash cookie.
func (f Flasher) Set(w http.ResponseWriter, t Toast) {
	raw, err := json.Marshal(t)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     f.CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   f.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop reads and clears the flash cookie. ok is false when there is no
// toast or the cookie was tampered with.
func (f Flasher) Pop(w http.ResponseWriter, r *http.Request) (t Toast, ok bool) {
	c, err := r.Cookie(f.CookieName)
	if err != nil {
		return Toast{}, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     f.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   f.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return Toast{}, false
	}
	if err := json.Unmarshal(raw, &t); err != nil || t.Summary == "" {
		return Toast{}, false
	}
	return t, true
}
