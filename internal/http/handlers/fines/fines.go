// Package fines serves the read-only recent fines report and its
// spreadsheet export.
package fines

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aanand-mishra/tool-lending-admin/internal/daterange"
	"github.com/aanand-mishra/tool-lending-admin/internal/money"
	"github.com/aanand-mishra/tool-lending-admin/internal/notify"
	"github.com/aanand-mishra/tool-lending-admin/internal/report"
	"github.com/aanand-mishra/tool-lending-admin/internal/types"
	"github.com/aanand-mishra/tool-lending-admin/internal/utils/response"
	"github.com/aanand-mishra/tool-lending-admin/internal/view"
)

const path = "/fines"

// Source fetches fines issued between two days, inclusive.
type Source interface {
	Recent(ctx context.Context, from, to time.Time) ([]types.Fine, error)
}

// Deps are the collaborators of the fines screens.
type Deps struct {
	Source   Source
	Renderer *view.Renderer
	Flash    notify.Flasher
	Logger   *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Summary is the JSON shape of the report.
type Summary struct {
	From  string       `json:"from"`
	To    string       `json:"to"`
	Count int          `json:"count"`
	Total float64      `json:"total"`
	Fines []types.Fine `json:"fines"`
}

// Register wires the report page and its export into mux.
func Register(mux *http.ServeMux, deps Deps) {
	mux.HandleFunc("GET "+path, List(deps))
	mux.HandleFunc("GET "+path+"/export.xlsx", Export(deps))
}

// List handles GET /fines?from=YYYY-MM-DD&to=YYYY-MM-DD.
func List(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		picker := view.DateRange{Action: path, From: q.Get("from"), To: q.Get("to")}

		// A failed export redirects here with a flash. Consume it on every
		// page so it is not shown again later; a fresh failure wins.
		var flashed *notify.Toast
		if !response.WantsJSON(r) {
			if t, ok := deps.Flash.Pop(w, r); ok {
				flashed = &t
			}
		}

		rng, err := daterange.Parse(q.Get("from"), q.Get("to"), now(deps))
		if err != nil {
			if response.WantsJSON(r) {
				response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err.Error()))
				return
			}
			picker.Error = err.Error()
			toast := notify.Toast{Severity: notify.SeverityWarn, Summary: "Invalid data", Detail: err.Error()}
			render(w, deps, http.StatusBadRequest, view.FinesPage{Range: picker, Total: money.Format(0)}, &toast)
			return
		}
		picker.From = rng.From.Format(types.DateLayout)
		picker.To = rng.To.Format(types.DateLayout)

		fines, err := fetch(r.Context(), deps, rng)
		if err != nil {
			deps.Logger.Error("recent fines failed", slog.String("range", rng.String()), slog.String("error", err.Error()))
			if response.WantsJSON(r) {
				response.BackendError(w, err)
				return
			}
			toast := notify.FromError(err)
			render(w, deps, notify.Status(err), view.FinesPage{Range: picker, Total: money.Format(0)}, &toast)
			return
		}

		amounts := make([]float64, len(fines))
		for i, f := range fines {
			amounts[i] = f.Amount
		}
		total := money.Sum(amounts...)

		if response.WantsJSON(r) {
			response.WriteJSON(w, http.StatusOK, response.OK(Summary{
				From:  picker.From,
				To:    picker.To,
				Count: len(fines),
				Total: total,
				Fines: fines,
			}, ""))
			return
		}

		page := view.FinesPage{
			Range:     picker,
			Rows:      rows(fines),
			Total:     money.Format(total),
			ExportURL: path + "/export.xlsx?" + rng.Query().Encode(),
		}
		render(w, deps, http.StatusOK, page, flashed)
	}
}

// Export handles GET /fines/export.xlsx with the same query as List.
func Export(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		back := path
		if len(q) > 0 {
			back += "?" + url.Values{"from": {q.Get("from")}, "to": {q.Get("to")}}.Encode()
		}

		rng, err := daterange.Parse(q.Get("from"), q.Get("to"), now(deps))
		if err != nil {
			deps.Flash.Set(w, notify.Toast{Severity: notify.SeverityWarn, Summary: "Invalid data", Detail: err.Error()})
			http.Redirect(w, r, back, http.StatusSeeOther)
			return
		}

		fines, err := fetch(r.Context(), deps, rng)
		if err != nil {
			deps.Logger.Error("fines export failed", slog.String("range", rng.String()), slog.String("error", err.Error()))
			deps.Flash.Set(w, notify.FromError(err))
			http.Redirect(w, r, back, http.StatusSeeOther)
			return
		}

		raw, err := report.FinesXLSX(fines, rng, deps.Logger)
		if err != nil {
			deps.Logger.Error("fines export failed", slog.String("error", err.Error()))
			deps.Flash.Set(w, notify.Toast{Severity: notify.SeverityError, Summary: "Server error", Detail: "The export could not be built."})
			http.Redirect(w, r, back, http.StatusSeeOther)
			return
		}

		w.Header().Set("Content-Type", report.ContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+report.FileName(rng)+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(raw)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(raw)
	}
}

// fetch asks the backend for rng and drops anything it returned outside it.
func fetch(ctx context.Context, deps Deps, rng daterange.Range) ([]types.Fine, error) {
	fines, err := deps.Source.Recent(ctx, rng.From, rng.To)
	if err != nil {
		return nil, err
	}
	out := make([]types.Fine, 0, len(fines))
	for _, f := range fines {
		if f.FineDate.IsZero() || rng.Contains(f.FineDate.Time) {
			out = append(out, f)
		}
	}
	return out, nil
}

func rows(fines []types.Fine) []view.FineRow {
	out := make([]view.FineRow, 0, len(fines))
	for _, f := range fines {
		out = append(out, view.FineRow{
			Date:        f.FineDate.String(),
			User:        f.UserName,
			Config:      f.ConfigName,
			Description: f.Description,
			Status:      f.Status,
			Amount:      money.Format(f.Amount),
		})
	}
	return out
}

func render(w http.ResponseWriter, deps Deps, status int, page view.FinesPage, toast *notify.Toast) {
	deps.Renderer.Render(w, status, view.PageFines, view.Page{
		Title:   "Recent fines",
		Nav:     view.Navigation(path),
		Toast:   toast,
		Content: page,
	})
}

func now(deps Deps) time.Time {
	if deps.Now != nil {
		return deps.Now()
	}
	return time.Now()
}
