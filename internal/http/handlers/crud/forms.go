package crud

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/aanand-mishra/tool-lending-admin/internal/validation"
	"github.com/aanand-mishra/tool-lending-admin/internal/view"
)

// Int reads a required integer select or input. An empty value decodes to
// zero and is left for the "required" rule to report.
func Int(values url.Values, name string, errs validation.FieldErrors) int64 {
	raw := values.Get(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		errs[name] = "must be a whole number"
		return 0
	}
	return n
}

// OptionalInt reads an integer that may be left blank.
func OptionalInt(values url.Values, name string, errs validation.FieldErrors) *int64 {
	if values.Get(name) == "" {
		return nil
	}
	n := Int(values, name, errs)
	if _, bad := errs[name]; bad {
		return nil
	}
	return &n
}

// Float reads a decimal amount. With a '.' present, commas are thousands
// separators ("1,234.50"); otherwise a single comma is the decimal
// separator ("12,50").
func Float(values url.Values, name string, errs validation.FieldErrors) float64 {
	raw := values.Get(name)
	if raw == "" {
		return 0
	}
	switch {
	case strings.Contains(raw, "."):
		raw = strings.ReplaceAll(raw, ",", "")
	case strings.Count(raw, ",") == 1:
		raw = strings.Replace(raw, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		errs[name] = "must be a number"
		return 0
	}
	return f
}

// Options turns lookup records into select options. Inactive records are
// kept but flagged, so an edit form can still show a current value that
// was deactivated.
func Options[T any](records []T, id func(T) int64, label func(T) string, active func(T) bool) []view.Option {
	out := make([]view.Option, 0, len(records))
	for _, rec := range records {
		out = append(out, view.Option{
			Value:    strconv.FormatInt(id(rec), 10),
			Label:    label(rec),
			Inactive: !active(rec),
		})
	}
	return out
}
