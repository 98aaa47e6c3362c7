// Package calendar converts instants to date and week keys in a single
// fixed reference timezone. All trading-day semantics in the application
// bucket by these keys, so two instants on the same civil day in the
// reference zone must always yield the same key regardless of the clock
// the instants were recorded in.
package calendar

import (
	"fmt"
	"time"
)

const (
	// DateKeyLayout is the YYYY-MM-DD form used for day bucketing.
	DateKeyLayout = "2006-01-02"
	// MonthKeyLayout is the YYYY-MM form used for month bucketing.
	MonthKeyLayout = "2006-01"
)

// Keyer computes date/week keys in its reference timezone.
type Keyer struct {
	loc *time.Location
}

// NewKeyer returns a Keyer anchored to the given reference timezone.
// A nil location falls back to UTC.
func NewKeyer(loc *time.Location) Keyer {
	if loc == nil {
		loc = time.UTC
	}
	return Keyer{loc: loc}
}

// Location returns the reference timezone.
func (k Keyer) Location() *time.Location {
	return k.loc
}

// DateKey returns the civil date of t in the reference timezone as
// YYYY-MM-DD. This is a timezone-correct conversion, not UTC truncation.
func (k Keyer) DateKey(t time.Time) string {
	return t.In(k.loc).Format(DateKeyLayout)
}

// MonthKey returns the YYYY-MM prefix of DateKey(t).
func (k Keyer) MonthKey(t time.Time) string {
	return k.DateKey(t)[:7]
}

// WeekStartKey returns the DateKey of the Monday on or before t's
// reference-timezone date (ISO week, Monday start).
func (k Keyer) WeekStartKey(t time.Time) string {
	local := t.In(k.loc)
	// Sunday=0 .. Saturday=6, so (weekday+6) mod 7 is the distance back
	// to Monday.
	offset := (int(local.Weekday()) + 6) % 7
	key, err := k.AddDays(local.Format(DateKeyLayout), -offset)
	if err != nil {
		// Unreachable: the key was just formatted by us.
		return local.Format(DateKeyLayout)
	}
	return key
}

// ParseKey reconstructs the reference-timezone midnight instant for a
// YYYY-MM-DD key.
func (k Keyer) ParseKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DateKeyLayout, key, k.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// AddDays returns the DateKey n days after key. The shift is applied as
// n*86400s from the key's reference-timezone midnight; the reference zone
// carries no DST so this is exact across month and year boundaries.
func (k Keyer) AddDays(key string, n int) (string, error) {
	t, err := k.ParseKey(key)
	if err != nil {
		return "", err
	}
	return k.DateKey(t.Add(time.Duration(n) * 24 * time.Hour)), nil
}

// MonthKeysBack returns the trailing n calendar month keys ending at the
// month containing now, oldest first.
func (k Keyer) MonthKeysBack(now time.Time, n int) []string {
	local := now.In(k.loc)
	keys := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		m := time.Date(local.Year(), local.Month()-time.Month(i), 1, 0, 0, 0, 0, k.loc)
		keys = append(keys, m.Format(MonthKeyLayout))
	}
	return keys
}
