package services

import (
	"fmt"
	"strings"
	"time"
)

const isoDayLayout = "2006-01-02"

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FormatDay renders the local calendar fields of t as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(isoDayLayout)
}

func ParseDay(raw string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	parsed, err := time.ParseInLocation(isoDayLayout, strings.TrimSpace(raw), location)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", raw, err)
	}
	return parsed, nil
}

// DaysInMonth lists every day of the month at local midnight, ascending.
func DaysInMonth(year int, month time.Month, location *time.Location) []time.Time {
	if location == nil {
		location = time.UTC
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, location)
	days := make([]time.Time, 0, 31)
	for day := first; day.Month() == first.Month(); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}

// CalendarDaysBetween returns the signed number of calendar days from a to b.
// Only the year/month/day fields are used, so DST shifts and time of day do
// not leak into the count.
func CalendarDaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

func DayDifference(a, b time.Time) int {
	diff := CalendarDaysBetween(a, b)
	if diff < 0 {
		return -diff
	}
	return diff
}

func DayDifferenceISO(a, b string) (int, error) {
	first, err := ParseDay(a, time.UTC)
	if err != nil {
		return 0, err
	}
	second, err := ParseDay(b, time.UTC)
	if err != nil {
		return 0, err
	}
	return DayDifference(first, second), nil
}

// ISOWeekday maps Sunday..Saturday onto 7,1..6 so Monday is 1.
func ISOWeekday(t time.Time) int {
	weekday := int(t.Weekday())
	if weekday == 0 {
		return 7
	}
	return weekday
}

func WeekStart(t time.Time) time.Time {
	day := dateOnly(t)
	return day.AddDate(0, 0, 1-ISOWeekday(day))
}

func sameDay(a, b time.Time) bool {
	return FormatDay(a) == FormatDay(b)
}

func floorDiv(a, b int) int {
	quotient := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		quotient--
	}
	return quotient
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}

// DayRange returns the half-open [start, end) interval covering value's local day.
func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}
