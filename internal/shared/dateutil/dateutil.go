// Package dateutil holds helpers for ISO date keys (YYYY-MM-DD).
// Dates are kept as strings so inclusive range checks compare lexically.
package dateutil

import (
	"fmt"
	"strconv"
	"time"
)

const Layout = "2006-01-02"

func Key(t time.Time) string {
	return t.UTC().Format(Layout)
}

func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(Layout, s, time.UTC)
}

func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Year reads the year of a date key.
func Year(s string) (int, error) {
	t, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return t.Year(), nil
}

// ValidRange reports whether both keys parse and start <= end.
func ValidRange(start, end string) error {
	if !Valid(start) {
		return fmt.Errorf("invalid start date %q", start)
	}
	if !Valid(end) {
		return fmt.Errorf("invalid end date %q", end)
	}
	if start > end {
		return fmt.Errorf("start date %s is after end date %s", start, end)
	}
	return nil
}

// Overlaps is true when [aStart, aEnd] and [bStart, bEnd] share a day.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart <= bEnd && aEnd >= bStart
}

// WeekBounds returns Monday and Sunday of the week containing t.
func WeekBounds(t time.Time) (string, string) {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	monday := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -offset)
	return Key(monday), Key(monday.AddDate(0, 0, 6))
}

// YearBounds returns the first and last day keys of year.
func YearBounds(year int) (string, string) {
	y := strconv.Itoa(year)
	return y + "-01-01", y + "-12-31"
}

const secondsPerDay = 24 * 60 * 60

// BusinessDays counts Monday to Friday days in the inclusive range.
func BusinessDays(start, end string) (int, error) {
	if err := ValidRange(start, end); err != nil {
		return 0, err
	}
	from, _ := Parse(start)
	to, _ := Parse(end)

	// Unix seconds, since time.Duration overflows past ~292 years.
	total := int((to.Unix()-from.Unix())/secondsPerDay) + 1
	count := total / 7 * 5

	wd := from.Weekday()
	for i := 0; i < total%7; i++ {
		if wd != time.Saturday && wd != time.Sunday {
			count++
		}
		wd = (wd + 1) % 7
	}
	return count, nil
}
