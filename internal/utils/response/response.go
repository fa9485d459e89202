// Package response writes the console's JSON replies.
//
// JSON callers get the same envelope the lending backend uses, so a
// script can talk to either one the same way:
//
//	{ "success": false, "message": "Invalid data", "errors": { "name": "is required" } }
package response

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aanand-mishra/tool-lending-admin/internal/notify"
	"github.com/aanand-mishra/tool-lending-admin/internal/validation"
)

// Response is the envelope written for every JSON reply.
type Response struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// WriteJSON writes data as JSON with the given HTTP status code.
// Header() must be set before WriteHeader(), which must precede the body.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// OK wraps a successful result.
func OK(data any, message string) Response {
	return Response{Success: true, Data: data, Message: message}
}

// GeneralError wraps any failure message into the envelope.
func GeneralError(message string) Response {
	return Response{Success: false, Message: message}
}

// ValidationError reports per-field failures.
func ValidationError(errs validation.FieldErrors) Response {
	return Response{
		Success: false,
		Message: "Invalid data",
		Errors:  errs,
	}
}

// BackendError reports a failed backend call with the same wording the
// toast would use, under notify.Status.
func BackendError(w http.ResponseWriter, err error) error {
	t := notify.FromError(err)
	msg := t.Summary
	if t.Detail != "" {
		msg += ": " + t.Detail
	}
	return WriteJSON(w, notify.Status(err), GeneralError(msg))
}

// WantsJSON reports whether the caller asked for JSON rather than a page.
func WantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") {
		return true
	}
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
