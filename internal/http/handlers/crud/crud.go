// Package crud serves the list/create/update/toggle screens every managed
// resource shares. A resource package supplies a Binding describing its
// columns and form fields; this package does the rest.
//
// Route table for a resource at /{res}:
//
//	GET  /{res}              list page (?edit={id} opens the edit dialog,
//	                         ?confirm={id} the activate/deactivate modal)
//	POST /{res}              create
//	POST /{res}/{id}         update (PUT is accepted for JSON callers)
//	POST /{res}/{id}/active  soft delete or restore (is_active=true|false)
//
// Every route answers with the JSON envelope when the caller sends
// Accept: application/json, and with a page or redirect otherwise.
package crud

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aanand-mishra/tool-lending-admin/internal/notify"
	"github.com/aanand-mishra/tool-lending-admin/internal/requestctx"
	"github.com/aanand-mishra/tool-lending-admin/internal/storage"
	"github.com/aanand-mishra/tool-lending-admin/internal/types"
	"github.com/aanand-mishra/tool-lending-admin/internal/utils/response"
	"github.com/aanand-mishra/tool-lending-admin/internal/validation"
	"github.com/aanand-mishra/tool-lending-admin/internal/view"
)

// Store is the part of a backend resource the screens need.
type Store[T any] interface {
	List(ctx context.Context, query url.Values) ([]T, error)
	Create(ctx context.Context, payload any) (T, string, error)
	Update(ctx context.Context, id int64, payload any) (T, string, error)
	SetActive(ctx context.Context, id int64, active bool) (string, error)
}

// FieldSpec describes one form input.
type FieldSpec struct {
	Name     string
	Label    string
	Type     string
	Step     string
	Required bool
}

// Binding adapts one resource to the generic screens. T is the record the
// backend returns, P the payload it accepts.
type Binding[T any, P any] struct {
	// Resource is the URL segment and audit name, e.g. "fine-configs".
	Resource string
	Title    string
	// Noun is used in toasts and dialogs, e.g. "Fines config".
	Noun    string
	Columns []string
	Fields  []FieldSpec

	Store Store[T]

	ID     func(T) int64
	Active func(T) bool
	Label  func(T) string
	Cells  func(T) []string
	// Values fills the edit form from a record.
	Values func(T) url.Values
	// Decode maps submitted form values to a payload. Errors it returns are
	// parse failures (e.g. a non-numeric amount); rule checks run after.
	Decode func(url.Values) (P, validation.FieldErrors)
	// CreateRules adds checks that only apply on create. Optional.
	CreateRules func(P) validation.FieldErrors
	// Lookups returns select options keyed by field name. Optional.
	Lookups func(ctx context.Context) (map[string][]view.Option, error)
}

// Deps are shared by every resource.
type Deps struct {
	Renderer *view.Renderer
	Flash    notify.Flasher
	Audit    storage.Storage
	Logger   *slog.Logger
}

// Register wires the resource routes into mux.
func Register[T any, P any](mux *http.ServeMux, deps Deps, b Binding[T, P]) {
	base := "/" + b.Resource
	mux.HandleFunc("GET "+base, List(deps, b))
	mux.HandleFunc("POST "+base, Create(deps, b))
	mux.HandleFunc("POST "+base+"/{id}", Update(deps, b))
	mux.HandleFunc("PUT "+base+"/{id}", Update(deps, b))
	mux.HandleFunc("POST "+base+"/{id}/active", SetActive(deps, b))
}

// List handles GET /{res}.
func List[T any, P any](deps Deps, b Binding[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := b.Store.List(r.Context(), nil)
		if err != nil {
			deps.Logger.Error("list failed", slog.String("resource", b.Resource), slog.String("error", err.Error()))
		}

		if response.WantsJSON(r) {
			if err != nil {
				response.BackendError(w, err)
				return
			}
			response.WriteJSON(w, http.StatusOK, response.OK(records, ""))
			return
		}

		var toast *notify.Toast
		if t, ok := deps.Flash.Pop(w, r); ok {
			toast = &t
		}
		status := http.StatusOK
		if err != nil {
			t := notify.FromError(err)
			toast = &t
			status = notify.Status(err)
		}

		s := newScreen(r.Context(), deps, b, records)
		if s.lookupErr != nil && toast == nil {
			t := notify.FromError(s.lookupErr)
			toast = &t
		}

		page := s.listPage(url.Values{}, nil)
		if id, ok := queryID(r, "edit"); ok {
			if rec, found := s.find(id); found {
				page.Edit = s.editForm(id, b.Values(rec), nil)
			} else if toast == nil {
				toast = &notify.Toast{Severity: notify.SeverityWarn, Summary: "Not found", Detail: b.Noun + " no longer exists."}
			}
		}
		if id, ok := queryID(r, "confirm"); ok {
			if rec, found := s.find(id); found {
				page.Confirm = s.confirm(rec)
			}
		}

		s.render(w, status, page, toast)
	}
}

// Create handles POST /{res}.
func Create[T any, P any](deps Deps, b Binding[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, values, ferrs, err := decodePayload(r, b, true)
		if err != nil {
			badRequest(w, r, deps, b, err)
			return
		}
		if len(ferrs) > 0 {
			invalid(w, r, deps, b, ferrs, func(s *screen[T, P], page *view.ListPage) {
				page.Create = s.createForm(values, ferrs)
			})
			return
		}

		deps.Logger.Info("creating record", slog.String("resource", b.Resource))
		item, msg, err := b.Store.Create(r.Context(), payload)
		id := int64(0)
		if err == nil {
			id = b.ID(item)
		}
		audit(r.Context(), deps, b.Resource, "create", id, err)

		if err != nil {
			fail(w, r, deps, b, err)
			return
		}
		if msg == "" {
			msg = b.Noun + " created"
		}
		if response.WantsJSON(r) {
			response.WriteJSON(w, http.StatusCreated, response.OK(item, msg))
			return
		}
		deps.Flash.Set(w, notify.Success(msg))
		http.Redirect(w, r, "/"+b.Resource, http.StatusSeeOther)
	}
}

// Update handles POST and PUT /{res}/{id}.
func Update[T any, P any](deps Deps, b Binding[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			badRequest(w, r, deps, b, err)
			return
		}

		payload, values, ferrs, err := decodePayload(r, b, false)
		if err != nil {
			badRequest(w, r, deps, b, err)
			return
		}
		if len(ferrs) > 0 {
			invalid(w, r, deps, b, ferrs, func(s *screen[T, P], page *view.ListPage) {
				page.Edit = s.editForm(id, values, ferrs)
			})
			return
		}

		deps.Logger.Info("updating record", slog.String("resource", b.Resource), slog.Int64("id", id))
		item, msg, err := b.Store.Update(r.Context(), id, payload)
		audit(r.Context(), deps, b.Resource, "update", id, err)

		if err != nil {
			fail(w, r, deps, b, err)
			return
		}
		if msg == "" {
			msg = b.Noun + " updated"
		}
		if response.WantsJSON(r) {
			response.WriteJSON(w, http.StatusOK, response.OK(item, msg))
			return
		}
		deps.Flash.Set(w, notify.Success(msg))
		http.Redirect(w, r, "/"+b.Resource, http.StatusSeeOther)
	}
}

// SetActive handles POST /{res}/{id}/active.
func SetActive[T any, P any](deps Deps, b Binding[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			badRequest(w, r, deps, b, err)
			return
		}

		active, err := decodeActive(r)
		if err != nil {
			badRequest(w, r, deps, b, err)
			return
		}

		action := "deactivate"
		if active {
			action = "activate"
		}
		deps.Logger.Info("toggling record", slog.String("resource", b.Resource), slog.Int64("id", id), slog.Bool("active", active))
		msg, err := b.Store.SetActive(r.Context(), id, active)
		audit(r.Context(), deps, b.Resource, action, id, err)

		if err != nil {
			fail(w, r, deps, b, err)
			return
		}
		if msg == "" {
			if active {
				msg = b.Noun + " activated"
			} else {
				msg = b.Noun + " deactivated"
			}
		}
		if response.WantsJSON(r) {
			response.WriteJSON(w, http.StatusOK, response.OK(types.ActivePayload{IsActive: active}, msg))
			return
		}
		deps.Flash.Set(w, notify.Success(msg))
		http.Redirect(w, r, "/"+b.Resource, http.StatusSeeOther)
	}
}

// decodePayload reads a JSON body or a form post into P and validates it.
// values holds the submitted form fields so a failed form can be shown again.
func decodePayload[T any, P any](r *http.Request, b Binding[T, P], creating bool) (P, url.Values, validation.FieldErrors, error) {
	var (
		payload P
		values  url.Values
		ferrs   = validation.FieldErrors{}
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		err := json.NewDecoder(r.Body).Decode(&payload)
		if errors.Is(err, io.EOF) {
			return payload, nil, nil, errors.New("request body is empty")
		}
		if err != nil {
			return payload, nil, nil, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return payload, nil, nil, err
		}
		values = trimValues(r.PostForm)

		var parseErrs validation.FieldErrors
		payload, parseErrs = b.Decode(values)
		merge(ferrs, parseErrs)
	}

	// Parse failures win over rule failures for the same field.
	merge(ferrs, asFieldErrors(validation.Struct(payload)))
	if creating && b.CreateRules != nil {
		merge(ferrs, b.CreateRules(payload))
	}
	return payload, values, ferrs, nil
}

func merge(dst, src validation.FieldErrors) {
	for k, v := range src {
		if _, seen := dst[k]; !seen {
			dst[k] = v
		}
	}
}

func asFieldErrors(err error) validation.FieldErrors {
	if err == nil {
		return nil
	}
	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		return fe
	}
	return validation.FieldErrors{"_": err.Error()}
}

func decodeActive(r *http.Request) (bool, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var p struct {
			IsActive *bool `json:"is_active"`
		}
		err := json.NewDecoder(r.Body).Decode(&p)
		if errors.Is(err, io.EOF) {
			return false, errors.New("request body is empty")
		}
		if err != nil {
			return false, err
		}
		if p.IsActive == nil {
			return false, errors.New("is_active is required")
		}
		return *p.IsActive, nil
	}
	if err := r.ParseForm(); err != nil {
		return false, err
	}
	active, err := strconv.ParseBool(strings.TrimSpace(r.PostForm.Get("is_active")))
	if err != nil {
		return false, errors.New("is_active must be true or false")
	}
	return active, nil
}

func trimValues(in url.Values) url.Values {
	out := make(url.Values, len(in))
	for k, vs := range in {
		for _, v := range vs {
			out.Add(k, strings.TrimSpace(v))
		}
	}
	return out
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id: must be a positive integer")
	}
	return id, nil
}

func queryID(r *http.Request, key string) (int64, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}

// invalid answers a submission that failed validation: a 400 envelope for
// JSON callers, or the list page re-rendered with the offending form.
func invalid[T any, P any](w http.ResponseWriter, r *http.Request, deps Deps, b Binding[T, P], ferrs validation.FieldErrors, place func(*screen[T, P], *view.ListPage)) {
	if response.WantsJSON(r) {
		response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ferrs))
		return
	}

	records, err := b.Store.List(r.Context(), nil)
	if err != nil {
		deps.Logger.Error("list failed", slog.String("resource", b.Resource), slog.String("error", err.Error()))
	}
	s := newScreen(r.Context(), deps, b, records)
	page := s.listPage(url.Values{}, nil)
	place(s, &page)

	toast := notify.FromError(ferrs)
	s.render(w, http.StatusBadRequest, page, &toast)
}

func badRequest[T any, P any](w http.ResponseWriter, r *http.Request, deps Deps, b Binding[T, P], err error) {
	if response.WantsJSON(r) {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err.Error()))
		return
	}
	deps.Flash.Set(w, notify.Toast{Severity: notify.SeverityWarn, Summary: "Invalid data", Detail: err.Error()})
	http.Redirect(w, r, "/"+b.Resource, http.StatusSeeOther)
}

// fail surfaces a backend failure; the operation is abandoned.
func fail[T any, P any](w http.ResponseWriter, r *http.Request, deps Deps, b Binding[T, P], err error) {
	deps.Logger.Error("backend call failed", slog.String("resource", b.Resource), slog.String("error", err.Error()))
	if response.WantsJSON(r) {
		response.BackendError(w, err)
		return
	}
	deps.Flash.Set(w, notify.FromError(err))
	http.Redirect(w, r, "/"+b.Resource, http.StatusSeeOther)
}

func audit(ctx context.Context, deps Deps, resource, action string, id int64, err error) {
	if deps.Audit == nil {
		return
	}
	entry := types.AuditEntry{
		RequestID: requestctx.RequestIDFromContext(ctx),
		Resource:  resource,
		Action:    action,
		RecordID:  id,
		Outcome:   types.OutcomeOK,
	}
	if err != nil {
		entry.Outcome = types.OutcomeError
		entry.Message = err.Error()
	}
	// The mutation already happened; a lost audit row is logged, not returned.
	if _, aerr := deps.Audit.RecordAudit(context.WithoutCancel(ctx), entry); aerr != nil {
		deps.Logger.Error("audit write failed",
			slog.String("resource", resource),
			slog.String("action", action),
			slog.String("error", aerr.Error()))
	}
}
