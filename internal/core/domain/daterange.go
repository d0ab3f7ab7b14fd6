package domain

import (
	"fmt"
	"time"
)

// Range presets accepted by ParseDateRange.
const (
	RangeToday       = "today"
	RangeLastWeek    = "last_week"
	RangeLastMonth   = "last_month"
	RangeLast3Months = "last_3_months"
	RangeLast6Months = "last_6_months"
	RangeLastYear    = "last_year"
)

// RangePresets returns every accepted preset name.
func RangePresets() []string {
	return []string{RangeToday, RangeLastWeek, RangeLastMonth, RangeLast3Months, RangeLast6Months, RangeLastYear}
}

// IsValidRange returns true if name is a known preset.
func IsValidRange(name string) bool {
	for _, p := range RangePresets() {
		if p == name {
			return true
		}
	}
	return false
}

// DateRange bounds post publication times. A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t lies within the range, bounds inclusive.
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// ParseDateRange resolves the range query of a post listing. Explicit from and
// to (RFC 3339) take precedence over presets; when both are empty the preset
// named by rangeParam, or defaultRange when that is empty, opens the range at
// midnight UTC of the matching day relative to now.
func ParseDateRange(rangeParam, from, to, defaultRange string, now time.Time) (DateRange, error) {
	if from != "" || to != "" {
		var r DateRange
		var err error
		if from != "" {
			if r.From, err = time.Parse(time.RFC3339, from); err != nil {
				return DateRange{}, fmt.Errorf("invalid 'from' parameter %q: %w", from, ErrInvalidInput)
			}
		}
		if to != "" {
			if r.To, err = time.Parse(time.RFC3339, to); err != nil {
				return DateRange{}, fmt.Errorf("invalid 'to' parameter %q: %w", to, ErrInvalidInput)
			}
		}
		return r, nil
	}

	preset := rangeParam
	if preset == "" {
		preset = defaultRange
	}

	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var start time.Time
	switch preset {
	case RangeToday:
		start = today
	case RangeLastWeek:
		start = today.AddDate(0, 0, -7)
	case RangeLastMonth:
		start = subtractMonths(today, 1)
	case RangeLast3Months:
		start = subtractMonths(today, 3)
	case RangeLast6Months:
		start = subtractMonths(today, 6)
	case RangeLastYear:
		start = subtractMonths(today, 12)
	default:
		return DateRange{}, fmt.Errorf("invalid range %q: %w", preset, ErrInvalidInput)
	}
	return DateRange{From: start}, nil
}

// subtractMonths moves t back by months, clamping the day to the length of
// the target month (March 31 minus one month is February 28 or 29).
func subtractMonths(t time.Time, months int) time.Time {
	total := t.Year()*12 + int(t.Month()) - 1 - months
	year, month := total/12, time.Month(total%12+1)

	day := t.Day()
	if last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day(); day > last {
		day = last
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
