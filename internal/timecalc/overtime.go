package timecalc

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// regularOvertimeMinutes is the first overtime hour, paid as ΥΠΕΡΕΡΓΑΣΙΑ.
	regularOvertimeMinutes = 60

	nightStartMinute = 22 * 60
	nightLength      = 8 * time.Hour
)

// HourBuckets is a shift's overtime split into pay categories, in hours.
type HourBuckets struct {
	RegularOvertime float64 // ΥΠΕΡΕΡΓΑΣΙΑ
	PremiumOvertime float64 // ΥΠΕΡΩΡΙΑ
	Holiday         float64 // ΑΡΓΙΑ, Sundays only
}

// ShiftWindow is a start and end time anchored on a calendar day.
type ShiftWindow struct {
	Start Clock
	End   Clock
	Date  time.Time
}

// Bounds returns the window as instants. An end at or before the start falls
// on the next day.
func (w ShiftWindow) Bounds() (time.Time, time.Time) {
	start := w.Start.On(w.Date)
	end := w.End.On(w.Date)
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end
}

// Duration is the elapsed time of the window. It is never negative.
func (w ShiftWindow) Duration() time.Duration {
	start, end := w.Bounds()
	return end.Sub(start)
}

// ComputeOvertime splits the time between start (end of shift plus grace)
// and end (departure) on anchor into buckets: up to one hour of regular
// overtime, the remainder premium overtime, and on Sundays their sum as
// holiday hours. Values are rounded half-to-even to 2 decimals.
func ComputeOvertime(start, end Clock, anchor time.Time) HourBuckets {
	minutes := int64(ShiftWindow{Start: start, End: end, Date: anchor}.Duration() / time.Minute)
	if minutes <= 0 {
		return HourBuckets{}
	}

	var regular, premium decimal.Decimal
	if minutes <= regularOvertimeMinutes {
		regular = hoursOf(minutes).RoundBank(2)
		premium = decimal.Zero
	} else {
		regular = decimal.NewFromInt(1)
		premium = hoursOf(minutes - regularOvertimeMinutes).RoundBank(2)
	}

	b := HourBuckets{
		RegularOvertime: regular.InexactFloat64(),
		PremiumOvertime: premium.InexactFloat64(),
	}
	if anchor.Weekday() == time.Sunday {
		b.Holiday = regular.Add(premium).RoundBank(2).InexactFloat64()
	}
	return b
}

// ComputeNightHours returns how much of [start, end) falls inside the night
// window 22:00–06:00 that begins on the start's day, rounded half-to-even to
// 3 decimals.
func ComputeNightHours(start, end Clock) float64 {
	var day time.Time // any fixed day; only the time of day matters
	s, e := ShiftWindow{Start: start, End: end, Date: day}.Bounds()

	nightStart := Clock{Hour: nightStartMinute / 60}.On(day)
	nightEnd := nightStart.Add(nightLength)

	from := s
	if nightStart.After(from) {
		from = nightStart
	}
	to := e
	if nightEnd.Before(to) {
		to = nightEnd
	}
	if !to.After(from) {
		return 0
	}
	return roundMinutes(int64(to.Sub(from)/time.Minute), 3)
}

// HolidayTotal is the ΑΡΓΙΑ value of a worked Sunday: the base hours of the
// work type plus both overtime buckets, rounded half-to-even to 2 decimals.
func HolidayTotal(base float64, b HourBuckets) float64 {
	return decimal.NewFromFloat(base).
		Add(decimal.NewFromFloat(b.RegularOvertime)).
		Add(decimal.NewFromFloat(b.PremiumOvertime)).
		RoundBank(2).
		InexactFloat64()
}

// Round rounds v half-to-even to places decimals.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).RoundBank(places).InexactFloat64()
}

func hoursOf(minutes int64) decimal.Decimal {
	return decimal.NewFromInt(minutes).Div(decimal.NewFromInt(60))
}

func roundMinutes(minutes int64, places int32) float64 {
	return hoursOf(minutes).RoundBank(places).InexactFloat64()
}
