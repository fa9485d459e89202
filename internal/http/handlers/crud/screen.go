package crud

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aanand-mishra/tool-lending-admin/internal/notify"
	"github.com/aanand-mishra/tool-lending-admin/internal/validation"
	"github.com/aanand-mishra/tool-lending-admin/internal/view"
)

// screen builds the view model of one list page.
type screen[T any, P any] struct {
	deps      Deps
	b         Binding[T, P]
	records   []T
	options   map[string][]view.Option
	lookupErr error
}

func newScreen[T any, P any](ctx context.Context, deps Deps, b Binding[T, P], records []T) *screen[T, P] {
	s := &screen[T, P]{deps: deps, b: b, records: records}
	if b.Lookups != nil {
		s.options, s.lookupErr = b.Lookups(ctx)
	}
	return s
}

func (s *screen[T, P]) base() string { return "/" + s.b.Resource }

func (s *screen[T, P]) find(id int64) (T, bool) {
	for _, rec := range s.records {
		if s.b.ID(rec) == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

func (s *screen[T, P]) listPage(createValues url.Values, createErrs validation.FieldErrors) view.ListPage {
	rows := make([]view.Row, 0, len(s.records))
	for _, rec := range s.records {
		rows = append(rows, view.Row{
			ID:     s.b.ID(rec),
			Cells:  s.b.Cells(rec),
			Active: s.b.Active(rec),
		})
	}
	return view.ListPage{
		Path:    s.base(),
		Columns: s.b.Columns,
		Rows:    rows,
		Create:  s.createForm(createValues, createErrs),
	}
}

func (s *screen[T, P]) createForm(values url.Values, errs validation.FieldErrors) view.Form {
	return view.Form{
		Title:  "New " + lower(s.b.Noun),
		Action: s.base(),
		Submit: "Create",
		Fields: s.fields(values, errs, true),
	}
}

func (s *screen[T, P]) editForm(id int64, values url.Values, errs validation.FieldErrors) *view.Form {
	return &view.Form{
		Title:  "Edit " + lower(s.b.Noun),
		Action: s.base() + "/" + strconv.FormatInt(id, 10),
		Submit: "Save",
		Fields: s.fields(values, errs, false),
	}
}

func (s *screen[T, P]) fields(values url.Values, errs validation.FieldErrors, creating bool) []view.Field {
	out := make([]view.Field, 0, len(s.b.Fields))
	for _, spec := range s.b.Fields {
		f := view.Field{
			Name:     spec.Name,
			Label:    spec.Label,
			Type:     spec.Type,
			Step:     spec.Step,
			Required: spec.Required,
			Error:    errs[spec.Name],
		}
		// Passwords are never echoed back, and only required when creating.
		if spec.Type == "password" {
			f.Required = spec.Required && creating
		} else {
			f.Value = values.Get(spec.Name)
		}
		if spec.Type == "select" {
			f.Options = selectOptions(s.options[spec.Name], f.Value)
		}
		out = append(out, f)
	}
	return out
}

func (s *screen[T, P]) confirm(rec T) *view.Confirm {
	id := s.b.ID(rec)
	next := !s.b.Active(rec)
	verb := "Deactivate"
	if next {
		verb = "Activate"
	}
	return &view.Confirm{
		Action:  fmt.Sprintf("%s/%d/active", s.base(), id),
		Message: fmt.Sprintf("%s %s %q?", verb, lower(s.b.Noun), s.b.Label(rec)),
		Value:   strconv.FormatBool(next),
	}
}

func (s *screen[T, P]) render(w http.ResponseWriter, status int, content view.ListPage, toast *notify.Toast) {
	s.deps.Renderer.Render(w, status, view.PageList, view.Page{
		Title:   s.b.Title,
		Nav:     view.Navigation(s.base()),
		Toast:   toast,
		Content: content,
	})
}

// selectOptions offers the active options plus the current value, even
// when it points at an inactive or unknown record. Without it a required
// select would silently submit its first option.
func selectOptions(all []view.Option, current string) []view.Option {
	var out []view.Option
	found := current == ""
	for _, opt := range all {
		opt.Selected = opt.Value == current
		if opt.Selected {
			found = true
		}
		if opt.Inactive {
			if !opt.Selected {
				continue
			}
			opt.Label += " (inactive)"
		}
		out = append(out, opt)
	}
	if !found {
		out = append([]view.Option{{Value: current, Label: "#" + current + " (unavailable)", Selected: true, Inactive: true}}, out...)
	}
	return out
}

func lower(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] += 'a' - 'A'
	}
	return string(r)
}
