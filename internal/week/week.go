// Package week implements ISO-8601 week arithmetic for the meal planner.
// A week is identified as "YYYY-Www" and always spans Monday through Sunday.
package week

import (
	"fmt"
	"time"
)

// ID identifies a calendar week in ISO-8601 format, e.g. "2026-W35".
type ID string

// DateLayout is the wire format for slot dates.
const DateLayout = "2006-01-02"

// New builds an ID from an ISO year and week number.
func New(year, wk int) ID {
	return ID(fmt.Sprintf("%04d-W%02d", year, wk))
}

// Parse validates s as an ISO week identifier.
func Parse(s string) (ID, error) {
	var year, wk int
	if _, err := fmt.Sscanf(s, "%4d-W%2d", &year, &wk); err != nil {
		return "", fmt.Errorf("invalid week id %q: %w", s, err)
	}
	if string(New(year, wk)) != s {
		return "", fmt.Errorf("invalid week id %q: want YYYY-Www", s)
	}
	if wk < 1 || wk > WeeksInYear(year) {
		return "", fmt.Errorf("invalid week id %q: year %d has %d weeks", s, year, WeeksInYear(year))
	}
	return New(year, wk), nil
}

// YearWeek splits the ID into its ISO year and week number.
func (id ID) YearWeek() (year, wk int) {
	fmt.Sscanf(string(id), "%4d-W%2d", &year, &wk)
	return year, wk
}

// At returns the week containing t, evaluated in UTC.
func At(t time.Time) ID {
	year, wk := t.UTC().ISOWeek()
	return New(year, wk)
}

// Current returns the week containing now, in the reference timezone (UTC).
func Current() ID {
	return At(time.Now())
}

// Monday returns the first day of the week as a UTC midnight time.
func (id ID) Monday() time.Time {
	year, wk := id.YearWeek()
	// January 4th is always in ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	week1Monday := jan4.AddDate(0, 0, 1-weekday)
	return week1Monday.AddDate(0, 0, (wk-1)*7)
}

// Dates returns the week's seven dates, Monday first, Sunday last.
func (id ID) Dates() []time.Time {
	monday := id.Monday()
	dates := make([]time.Time, 7)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i)
	}
	return dates
}

// Contains reports whether the date string (DateLayout) falls inside the week.
func (id ID) Contains(date string) bool {
	d, err := time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return false
	}
	monday := id.Monday()
	return !d.Before(monday) && d.Before(monday.AddDate(0, 0, 7))
}

// Offset returns the week n weeks after id (n may be negative). Year
// boundaries are normalized through real dates, so 53-week years are handled.
func (id ID) Offset(n int) ID {
	return At(id.Monday().AddDate(0, 0, n*7))
}

// Distance returns the signed number of weeks from a to b. Unlike the naive
// 52-weeks-per-year shortcut, this is exact across year boundaries.
func Distance(a, b ID) int {
	days := b.Monday().Sub(a.Monday()) / (24 * time.Hour)
	return int(days / 7)
}

// WeeksInYear returns 52 or 53 per the ISO rule: December 28th is always in
// the last week of its ISO year.
func WeeksInYear(year int) int {
	_, wk := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return wk
}
