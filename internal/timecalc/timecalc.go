// Package timecalc turns spreadsheet time cells into clock times and splits
// worked time into the payroll hour categories.
package timecalc

import (
	"fmt"
	"time"
)

// WeekRange returns the payroll week holding t: Monday 00:00:00 through
// Sunday 23:59:59, both inclusive.
func WeekRange(t time.Time) (time.Time, time.Time) {
	back := (int(t.Weekday()) + 6) % 7 // days since Monday
	y, m, d := t.AddDate(0, 0, -back).Date()
	monday := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	y, m, d = monday.AddDate(0, 0, 6).Date()
	return monday, time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// DaysInMonth returns the number of days of month in year.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsSunday reports whether t falls on a Sunday.
func IsSunday(t time.Time) bool {
	return t.Weekday() == time.Sunday
}
