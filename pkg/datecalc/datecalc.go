// Package datecalc implements pure date arithmetic used by the date_calc
// tool. Every function takes explicit inputs and returns a value plus an
// error; nothing here touches the clock, the filesystem, or global state.
package datecalc

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical calendar-date format accepted and produced by
// this package.
const DateLayout = "2006-01-02"

var errEmptyDate = errors.New("datecalc: date is empty")

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, errEmptyDate
	}
	t, err := time.ParseInLocation(DateLayout, trimmed, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("datecalc: parse %q: %w", trimmed, err)
	}
	return t, nil
}

// AddDays returns date shifted by days (negative values subtract),
// formatted as YYYY-MM-DD.
func AddDays(date string, days int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, days).Format(DateLayout), nil
}

// AddMonths returns date shifted by whole months, formatted as YYYY-MM-DD.
// Overflow follows time.AddDate semantics (Jan 31 + 1 month = Mar 2/3).
func AddMonths(date string, months int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, months, 0).Format(DateLayout), nil
}

// DaysBetween returns the signed number of whole days from a to b.
// A positive result means b is after a.
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseDate(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDate(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// Weekday returns the English weekday name of date.
func Weekday(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.Weekday().String(), nil
}
