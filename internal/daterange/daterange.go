// Package daterange holds the closed calendar-date interval used for stays,
// bookings and unavailable ranges, together with the overlap rule shared by
// room filtering and booking conflict detection.
package daterange

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Layout is the wire format of a calendar date.
const Layout = "2006-01-02"

// ErrInvalidRange is returned for a requested range whose From is after its To.
var ErrInvalidRange = errors.New("invalid date range: from is after to")

// DateRange is a closed interval of calendar dates, inclusive on both ends.
// Both bounds are normalized to midnight UTC.
type DateRange struct {
	From time.Time
	To   time.Time
}

// New builds a validated range for a requested stay.
func New(from, to time.Time) (DateRange, error) {
	r := DateRange{From: Day(from), To: Day(to)}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// Parse builds a validated range from two YYYY-MM-DD strings.
func Parse(from, to string) (DateRange, error) {
	f, err := ParseDate(from)
	if err != nil {
		return DateRange{}, err
	}
	t, err := ParseDate(to)
	if err != nil {
		return DateRange{}, err
	}
	return New(f, t)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	return d, nil
}

// Day truncates t to its calendar date at midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Validate reports ErrInvalidRange when From is after To.
func (r DateRange) Validate() error {
	if Day(r.From).After(Day(r.To)) {
		return ErrInvalidRange
	}
	return nil
}

// Nights returns the number of nights covered by the range.
func (r DateRange) Nights() int {
	return int(Day(r.To).Sub(Day(r.From)).Hours() / 24)
}

func (r DateRange) String() string {
	return r.From.Format(Layout) + ".." + r.To.Format(Layout)
}

// Overlaps reports whether two closed ranges share at least one date:
// a.From <= b.To && b.From <= a.To.
func Overlaps(a, b DateRange) bool {
	return !Day(a.From).After(Day(b.To)) && !Day(b.From).After(Day(a.To))
}

// OverlapsAny reports whether candidate overlaps at least one member of existing.
func OverlapsAny(candidate DateRange, existing []DateRange) bool {
	for _, r := range existing {
		if Overlaps(candidate, r) {
			return true
		}
	}
	return false
}

type wireRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (r DateRange) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(wireRange{From: r.From.Format(Layout), To: r.To.Format(Layout)})
}

// UnmarshalJSON accepts {"from":"YYYY-MM-DD","to":"YYYY-MM-DD"}. It does not
// validate ordering; callers decide whether a range is a requested stay.
func (r *DateRange) UnmarshalJSON(data []byte) error {
	var w wireRange
	if err := jsoniter.Unmarshal(data, &w); err != nil {
		return err
	}
	from, err := ParseDate(w.From)
	if err != nil {
		return err
	}
	to, err := ParseDate(w.To)
	if err != nil {
		return err
	}
	r.From, r.To = from, to
	return nil
}
