package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var ErrInvalidRange = errors.New("check-out must be after check-in")

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns the calendar day at
// midnight UTC. RFC3339 values keep the calendar day written in their own offset.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return StartOfDay(t), nil
}

// StartOfDay keeps the calendar day of t and drops the clock and offset.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateRange is a half-open stay interval [Start, End) of UTC calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func ParseDateRange(checkIn, checkOut string) (DateRange, error) {
	start, err := ParseDate(checkIn)
	if err != nil {
		return DateRange{}, fmt.Errorf("check-in: %w", err)
	}
	end, err := ParseDate(checkOut)
	if err != nil {
		return DateRange{}, fmt.Errorf("check-out: %w", err)
	}
	r := DateRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

func (r DateRange) Validate() error {
	if !r.Start.Before(r.End) {
		return ErrInvalidRange
	}
	return nil
}

// Overlaps is the occupancy predicate: two stays conflict iff each starts
// before the other ends. Touching ranges (checkout == next check-in) do not.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.Before(other.End) && r.End.After(other.Start)
}

func (r DateRange) Nights() int {
	return int(StartOfDay(r.End).Sub(StartOfDay(r.Start)).Hours() / 24)
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + "/" + r.End.Format(DateLayout)
}
