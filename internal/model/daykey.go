package model

import (
	"fmt"
	"sort"
	"time"
)

// DayKey identifies a calendar day independent of year, formatted as "MM-DD".
//
// Month and day are always zero-padded to two digits, so keys sort in
// calendar order:
//
//	model.NewDayKey(3, 5)   // "03-05"
//	model.NewDayKey(12, 25) // "12-25"
type DayKey string

// NewDayKey builds the key for the given month and day.
//
// No calendar validation is performed; callers validate the date first.
func NewDayKey(month, day int) DayKey {
	return DayKey(fmt.Sprintf("%02d-%02d", month, day))
}

// ParseDayKey splits a key back into month and day.
//
// Returns an error if the key is not of the form "MM-DD" or names a day that
// does not exist in a leap year (so "02-29" is accepted, "02-30" is not).
func ParseDayKey(s string) (month, day int, err error) {
	if len(s) != 5 || s[2] != '-' {
		return 0, 0, fmt.Errorf("invalid day key %q", s)
	}
	if _, err := fmt.Sscanf(s, "%02d-%02d", &month, &day); err != nil {
		return 0, 0, fmt.Errorf("invalid day key %q: %w", s, err)
	}
	if !IsValidDate(2024, month, day) {
		return 0, 0, fmt.Errorf("invalid day key %q: no such date", s)
	}
	return month, day, nil
}

// Month returns the month component, or 0 if the key is malformed.
func (k DayKey) Month() int {
	m, _, err := ParseDayKey(string(k))
	if err != nil {
		return 0
	}
	return m
}

// IsValidDate reports whether (year, month, day) is a real calendar date.
//
// time.Date normalizes out-of-range values (April 31 becomes May 1), so the
// date is valid only when the components survive the round trip.
func IsValidDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

// ResultMapping accumulates search results per calendar day.
//
// Only days with at least one record are present.
type ResultMapping map[DayKey][]Record

// Days returns the number of day keys present.
func (m ResultMapping) Days() int {
	return len(m)
}

// Songs returns the total number of records across all days.
func (m ResultMapping) Songs() int {
	total := 0
	for _, records := range m {
		total += len(records)
	}
	return total
}

// Keys returns the day keys in calendar order.
func (m ResultMapping) Keys() []DayKey {
	keys := make([]DayKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
