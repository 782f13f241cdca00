package timecalc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/orometrisi/internal/sheet"
)

const minutesPerDay = 24 * 60

// RestDayText is the roster text for a scheduled rest day.
const RestDayText = "ΡΕΠΟ"

// Clock is a time of day with minute precision and no zone.
type Clock struct {
	Hour   int
	Minute int
}

// Minutes returns the minutes since midnight.
func (c Clock) Minutes() int { return c.Hour*60 + c.Minute }

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// On places c on the calendar day of d, in UTC.
func (c Clock) On(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour, c.Minute, 0, 0, time.UTC)
}

// invalidTokens are the spreadsheet placeholders that mean "no time",
// compared upper-cased. "#TIMH!" is the Greek-locale #VALUE!.
var invalidTokens = map[string]struct{}{
	"":        {},
	"0":       {},
	"NULL":    {},
	"#NULL":   {},
	"#TIMH!":  {},
	"#VALUE!": {},
	"#DIV/0!": {},
	"#REF!":   {},
	"#NAME?":  {},
	"#N/A":    {},
}

// IsInvalidToken reports whether s is one of the placeholder values that
// stand for a missing time.
func IsInvalidToken(s string) bool {
	_, ok := invalidTokens[strings.ToUpper(strings.TrimSpace(s))]
	return ok
}

// ParseClock converts any cell value to a Clock. Native times and datetimes
// keep their time of day, numbers are fractions of a day (0 is midnight), and
// text goes through ParseClockText. ok is false when there is no usable time.
func ParseClock(v sheet.Value) (Clock, bool) {
	switch v.Kind() {
	case sheet.KindTime, sheet.KindDateTime:
		t, _ := v.Time()
		return Clock{Hour: t.Hour(), Minute: t.Minute()}, true
	case sheet.KindNumber:
		f, _ := v.Float()
		return fromDayFraction(f)
	case sheet.KindText:
		s, _ := v.Text()
		return ParseClockText(s)
	}
	return Clock{}, false
}

// IsValidTime reports whether v holds a usable time. Callers use it to tell
// "no departure recorded" apart from data they can compute with.
func IsValidTime(v sheet.Value) bool {
	_, ok := ParseClock(v)
	return ok
}

// fromDayFraction reads the time of day of an Excel day fraction or serial.
func fromDayFraction(f float64) (Clock, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Clock{}, false
	}
	frac := math.Mod(f, 1)
	if frac < 0 {
		frac++
	}
	m := int(math.RoundToEven(frac*minutesPerDay)) % minutesPerDay
	return Clock{Hour: m / 60, Minute: m % 60}, true
}

// ParseClockText parses "HH:MM" or "HH:MM:SS", with or without zero padding.
// A "." is accepted in place of ":" ("08.30"). Hours wrap at 24 ("24:00" is
// midnight) and minutes are clamped to 59. Placeholder tokens and anything
// else yield ok == false.
func ParseClockText(s string) (Clock, bool) {
	s = strings.TrimSpace(s)
	if IsInvalidToken(s) {
		return Clock{}, false
	}
	parts := strings.Split(strings.ReplaceAll(s, ".", ":"), ":")
	// HH:MM, HH:MM:SS, or HH:MM:SS.fff once "." became ":".
	if len(parts) < 2 || len(parts) > 4 {
		return Clock{}, false
	}
	h, ok := smallInt(parts[0], 2)
	if !ok {
		return Clock{}, false
	}
	m, ok := smallInt(parts[1], 2)
	if !ok {
		return Clock{}, false
	}
	if len(parts) >= 3 {
		if _, ok := smallInt(parts[2], 2); !ok {
			return Clock{}, false
		}
	}
	if len(parts) == 4 {
		if _, ok := smallInt(parts[3], 9); !ok {
			return Clock{}, false
		}
	}
	return Clock{Hour: h % 24, Minute: min(m, 59)}, true
}

// smallInt parses 1..maxDigits ASCII digits.
func smallInt(s string, maxDigits int) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxDigits {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

var dashReplacer = strings.NewReplacer(
	"–", "-", // en dash
	"—", "-", // em dash
	"−", "-", // minus sign
)

// ParseShiftRange parses a roster shift such as "08:00-16:00" or
// "22.00 – 06.00". "ΡΕΠΟ" and blank cells are not shifts; neither is anything
// that does not split into exactly two times.
func ParseShiftRange(text string) (start, end Clock, ok bool) {
	s := strings.TrimSpace(dashReplacer.Replace(text))
	if s == "" || sheet.NormalizeLabel(s) == RestDayText {
		return Clock{}, Clock{}, false
	}
	var parts []string
	for _, p := range strings.Split(s, "-") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) != 2 {
		return Clock{}, Clock{}, false
	}
	start, ok1 := ParseClockText(parts[0])
	end, ok2 := ParseClockText(parts[1])
	if !ok1 || !ok2 {
		return Clock{}, Clock{}, false
	}
	return start, end, true
}

// ShiftHours returns the planned length of a roster shift in hours, rounded
// to 3 decimals. A shift ending before it starts runs past midnight; equal
// ends mean zero hours.
func ShiftHours(text string) (float64, bool) {
	start, end, ok := ParseShiftRange(text)
	if !ok {
		return 0, false
	}
	d := end.Minutes() - start.Minutes()
	if d < 0 {
		d += minutesPerDay
	}
	return roundMinutes(int64(d), 3), true
}
