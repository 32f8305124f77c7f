package domain

import (
	"fmt"
	"strings"
	"time"
)

// Date is a calendar date with no time-of-day and no timezone. It crosses the
// API boundary as a YYYY-MM-DD string; keeping it free of clock semantics
// avoids off-by-one night counts across timezones.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	// Some backends hand dates back as full timestamps; only the calendar
	// portion is meaningful here.
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.utc().Before(other.utc())
}

func (d Date) utc() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	p, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = p
	return nil
}

// StayRange is a check-in / check-out pair. A valid range has check-out
// strictly after check-in.
type StayRange struct {
	CheckIn  Date `json:"checkInDate"`
	CheckOut Date `json:"checkOutDate"`
}

// Nights returns the number of calendar days between check-in and check-out.
// It returns 0 for a missing or inverted range; callers must treat 0 as
// invalid and block submission.
func (r StayRange) Nights() int {
	if r.CheckIn.IsZero() || r.CheckOut.IsZero() {
		return 0
	}
	d := r.CheckOut.utc().Sub(r.CheckIn.utc())
	if d <= 0 {
		return 0
	}
	// Calendar dates anchor to midnight UTC, so d is an exact multiple of 24h.
	return int(d / (24 * time.Hour))
}

// Price returns nights * nightlyRate. The rate is assumed non-negative by
// precondition and is not re-validated here.
func Price(nights int, nightlyRate float64) float64 {
	if nights <= 0 {
		return 0
	}
	return float64(nights) * nightlyRate
}
