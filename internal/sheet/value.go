package sheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindTime
	KindDateTime
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	case KindDateTime:
		return "datetime"
	default:
		return "empty"
	}
}

// Value is the content of a single cell. The zero Value is empty.
type Value struct {
	kind Kind
	text string
	num  float64
	t    time.Time
}

// Empty returns the empty cell value.
func Empty() Value { return Value{} }

// Text returns a text value. The empty string is treated as an empty cell.
func Text(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{kind: KindText, text: s}
}

// Number returns a numeric value, e.g. an Excel fraction-of-day or serial date.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// ClockTime returns a time-of-day value without a date.
func ClockTime(hour, minute, second int) Value {
	return Value{kind: KindTime, t: time.Date(0, 1, 1, hour, minute, second, 0, time.UTC)}
}

// DateTime returns a calendar date/time value.
func DateTime(t time.Time) Value { return Value{kind: KindDateTime, t: t} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether the cell holds nothing.
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// Text returns the raw string of a text value.
func (v Value) Text() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// Float returns the number held by a numeric value.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Time returns the time held by a time or datetime value.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindTime && v.kind != KindDateTime {
		return time.Time{}, false
	}
	return v.t, true
}

// String renders the value the way it would read in a cell.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindTime:
		return v.t.Format("15:04:05")
	case KindDateTime:
		return v.t.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// dateLayouts are the text date formats found in roster sheets.
var dateLayouts = []string{
	"2/1/2006",
	"2/1/06",
	"2006-01-02",
}

// Date converts v to a calendar date (midnight UTC). Numbers are read as
// Excel serial dates.
func (v Value) Date() (time.Time, bool) {
	switch v.kind {
	case KindDateTime:
		return time.Date(v.t.Year(), v.t.Month(), v.t.Day(), 0, 0, 0, 0, time.UTC), true
	case KindNumber:
		if v.num < 1 {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(v.num, false)
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	case KindText:
		s := strings.TrimSpace(v.text)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
