package sheet

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// FirstDayColumn is the column index of day 1 in the payroll sheet ("H").
const FirstDayColumn = 8

// ColumnName converts a 1-based column index to its letter code (1 → "A").
func ColumnName(n int) (string, error) {
	return excelize.ColumnNumberToName(n)
}

// ColumnNumber converts a letter code to its 1-based index ("AA" → 27).
func ColumnNumber(name string) (int, error) {
	return excelize.ColumnNameToNumber(strings.TrimSpace(name))
}

// MustColumn is ColumnNumber for constant column codes.
func MustColumn(name string) int {
	n, err := ColumnNumber(name)
	if err != nil {
		panic(err)
	}
	return n
}

// ColumnForDay returns the payroll column of a day of the month: day 1 is
// "H", day 19 is "Z", day 20 is "AA".
func ColumnForDay(day int) (string, error) {
	if day < 1 || day > 31 {
		return "", fmt.Errorf("day %d out of range 1..31", day)
	}
	return ColumnName(FirstDayColumn + day - 1)
}

// DayColumnFunc maps a day of the month to a column code.
type DayColumnFunc func(day int) (string, error)

// ResolveDayColumn asks provider for the column of day and falls back to
// ColumnForDay when the provider is nil, fails, or returns something that is
// not a column code. fallback reports whether the default was used.
func ResolveDayColumn(provider DayColumnFunc, day int) (col string, fallback bool, err error) {
	if provider != nil {
		c, perr := provider(day)
		c = strings.ToUpper(strings.TrimSpace(c))
		if perr == nil && c != "" {
			if _, cerr := ColumnNumber(c); cerr == nil {
				return c, false, nil
			}
		}
	}
	col, err = ColumnForDay(day)
	return col, true, err
}

// weekdayColumns holds the (end of shift + grace, departure) column pair of
// each weekday in the hours source sheet.
var weekdayColumns = map[time.Weekday][2]string{
	time.Monday:    {"C", "D"},
	time.Tuesday:   {"H", "I"},
	time.Wednesday: {"M", "N"},
	time.Thursday:  {"R", "S"},
	time.Friday:    {"W", "X"},
	time.Saturday:  {"AB", "AC"},
	time.Sunday:    {"AG", "AH"},
}

// WeekdayColumns returns the hours-source column pair for a weekday.
func WeekdayColumns(wd time.Weekday) (left, right string) {
	pair := weekdayColumns[wd]
	return pair[0], pair[1]
}
