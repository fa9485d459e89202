// Package audit serves the log of mutations made through the console.
package audit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/tool-lending-admin/internal/notify"
	"github.com/aanand-mishra/tool-lending-admin/internal/storage"
	"github.com/aanand-mishra/tool-lending-admin/internal/types"
	"github.com/aanand-mishra/tool-lending-admin/internal/utils/response"
	"github.com/aanand-mishra/tool-lending-admin/internal/view"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Deps are the collaborators of the audit screen.
type Deps struct {
	Storage  storage.Storage
	Renderer *view.Renderer
	Logger   *slog.Logger
}

// Register wires GET /audit into mux.
func Register(mux *http.ServeMux, deps Deps) {
	mux.HandleFunc("GET /audit", List(deps))
}

// List handles GET /audit?limit=N.
func List(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := DefaultLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				if response.WantsJSON(r) {
					response.WriteJSON(w, http.StatusBadRequest, response.GeneralError("limit must be a positive integer"))
					return
				}
				toast := notify.Toast{Severity: notify.SeverityWarn, Summary: "Invalid data", Detail: "limit must be a positive integer"}
				render(w, deps, http.StatusBadRequest, nil, &toast)
				return
			}
			limit = min(n, MaxLimit)
		}

		entries, err := deps.Storage.ListAudit(r.Context(), limit)
		if err != nil {
			deps.Logger.Error("audit list failed", slog.String("error", err.Error()))
			if response.WantsJSON(r) {
				response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError("audit log unavailable"))
				return
			}
			toast := notify.Toast{Severity: notify.SeverityError, Summary: "Server error", Detail: "The audit log could not be read."}
			render(w, deps, http.StatusInternalServerError, nil, &toast)
			return
		}
		if entries == nil {
			entries = []types.AuditEntry{}
		}

		if response.WantsJSON(r) {
			response.WriteJSON(w, http.StatusOK, response.OK(entries, ""))
			return
		}
		render(w, deps, http.StatusOK, entries, nil)
	}
}

func render(w http.ResponseWriter, deps Deps, status int, entries []types.AuditEntry, toast *notify.Toast) {
	deps.Renderer.Render(w, status, view.PageAudit, view.Page{
		Title:   "Audit log",
		Nav:     view.Navigation("/audit"),
		Toast:   toast,
		Content: view.AuditPage{Entries: entries},
	})
}
