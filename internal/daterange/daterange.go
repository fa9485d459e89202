// Package daterange parses the date picker and date range inputs used by
// the reporting screens. Dates are calendar days in UTC; both ends of a
// range are inclusive.
package daterange

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aanand-mishra/tool-lending-admin/internal/types"
)

const (
	// DefaultSpan is used when one or both ends are missing.
	DefaultSpan = 30 * 24 * time.Hour
	// MaxDays bounds a range so a single report stays small.
	MaxDays = 366
)

var (
	ErrInvertedRange = errors.New("start date must not be after end date")
	ErrRangeTooLong  = fmt.Errorf("range must not exceed %d days", MaxDays)
)

// Range is an inclusive span of calendar days.
type Range struct {
	From time.Time
	To   time.Time
}

// ParseDate reads a YYYY-MM-DD picker value.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(types.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// Parse builds a Range from optional from/to inputs.
//
//   - neither set: the DefaultSpan ending today
//   - only from:   from..today
//   - only to:     the DefaultSpan ending at to
func Parse(fromStr, toStr string, now time.Time) (Range, error) {
	today := Day(now)
	fromStr, toStr = strings.TrimSpace(fromStr), strings.TrimSpace(toStr)

	var r Range
	var err error

	switch {
	case fromStr == "" && toStr == "":
		r = Range{From: today.Add(-DefaultSpan), To: today}
	case toStr == "":
		if r.From, err = ParseDate(fromStr); err != nil {
			return Range{}, err
		}
		r.To = today
	case fromStr == "":
		if r.To, err = ParseDate(toStr); err != nil {
			return Range{}, err
		}
		r.From = r.To.Add(-DefaultSpan)
	default:
		if r.From, err = ParseDate(fromStr); err != nil {
			return Range{}, err
		}
		if r.To, err = ParseDate(toStr); err != nil {
			return Range{}, err
		}
	}

	if r.From.After(r.To) {
		return Range{}, ErrInvertedRange
	}
	if r.Days() > MaxDays {
		return Range{}, ErrRangeTooLong
	}
	return r, nil
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Days counts the calendar days in r, both ends included.
func (r Range) Days() int {
	return int(r.To.Sub(r.From)/(24*time.Hour)) + 1
}

// Contains reports whether t falls on a day inside r. The day is read in
// t's own location, the same way the date is displayed.
func (r Range) Contains(t time.Time) bool {
	y, m, dd := t.Date()
	d := time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
	return !d.Before(r.From) && !d.After(r.To)
}

// Query renders r as from/to query values for links and backend calls.
func (r Range) Query() url.Values {
	q := url.Values{}
	q.Set("from", r.From.Format(types.DateLayout))
	q.Set("to", r.To.Format(types.DateLayout))
	return q
}

func (r Range) String() string {
	return r.From.Format(types.DateLayout) + " .. " + r.To.Format(types.DateLayout)
}
