// Package report writes the monthly hour categories of every schedule entry
// into the payroll sheet.
package report

import (
	"errors"
	"log/slog"
	"time"

	"github.com/Tiliavir/orometrisi/internal/locate"
	"github.com/Tiliavir/orometrisi/internal/model"
	"github.com/Tiliavir/orometrisi/internal/progress"
	"github.com/Tiliavir/orometrisi/internal/sheet"
	"github.com/Tiliavir/orometrisi/internal/timecalc"
)

// ErrNoPayrollStore is returned when there is no payroll sheet to write to.
var ErrNoPayrollStore = errors.New("no payroll sheet")

// Outcome is what happened to one schedule entry.
type Outcome string

const (
	OutcomeUpdated    Outcome = "updated"
	OutcomeSkipped    Outcome = "skipped"
	OutcomeNoOvertime Outcome = "no_overtime"
	OutcomeOutOfMonth Outcome = "out_of_month"
	OutcomeRestDay    Outcome = "rest_day"
	OutcomeIgnored    Outcome = "ignored"
)

// Write is one cell written for an entry.
type Write struct {
	Cell   string
	Metric locate.Metric
	Value  float64
}

// Line is the audit record of one schedule entry.
type Line struct {
	Date       time.Time
	EmployeeID string
	Outcome    Outcome
	Reason     string
	EndGrace   string
	Departure  string
	Buckets    timecalc.HourBuckets
	Night      float64
	Writes     []Write
}

// Result summarizes a report run.
type Result struct {
	Processed  int
	Updated    int
	Skipped    int
	NoOvertime int
	OutOfMonth int
	RestDays   int
	Lines      []Line
}

// Add folds o into r.
func (r *Result) Add(o Result) {
	r.Processed += o.Processed
	r.Updated += o.Updated
	r.Skipped += o.Skipped
	r.NoOvertime += o.NoOvertime
	r.OutOfMonth += o.OutOfMonth
	r.RestDays += o.RestDays
	r.Lines = append(r.Lines, o.Lines...)
}

// Input configures Generate.
type Input struct {
	// Payroll is the ΩΡΟΜΕΤΡΗΣΗ sheet results are written to.
	Payroll sheet.Store
	// Hours is the ΥΠΕΡΕΡΓΑΣΙΕΣ-ΥΠΕΡΩΡΙΕΣ sheet holding the end-of-shift
	// plus grace and departure times.
	Hours sheet.Store
	Month time.Month
	// Year is the year of Month. Zero takes the year of the first entry.
	Year      int
	DayColumn sheet.DayColumnFunc
	// PayrollSearch and HoursSearch bound the employee lookups. The zero
	// value scans whole sheets.
	PayrollSearch locate.Options
	HoursSearch   locate.Options
	// Cache is shared by both lookups. Nil uses a fresh cache.
	Cache *locate.Cache
	Sink  progress.Sink
}

type generator struct {
	in      Input
	sink    progress.Sink
	maxDay  int
	columns map[int]int
}

// Generate processes entries in order and writes the overtime, night,
// holiday and Sunday metrics of each into the payroll sheet. Entries that
// cannot be resolved are logged and counted; only a missing payroll sheet is
// an error.
func Generate(entries []model.ScheduleEntry, in Input) (Result, error) {
	sink := progress.OrNop(in.Sink)
	if in.Payroll == nil {
		sink.Log(slog.LevelError, "report needs the payroll sheet")
		return Result{}, ErrNoPayrollStore
	}
	if in.Cache == nil {
		in.Cache = locate.NewCache()
	}
	in.PayrollSearch.Cache = in.Cache
	in.HoursSearch.Cache = in.Cache

	year := in.Year
	if year == 0 {
		if len(entries) > 0 {
			year = entries[0].Date.Year()
		} else {
			year = time.Now().Year()
		}
	}
	g := &generator{
		in:      in,
		sink:    sink,
		maxDay:  timecalc.DaysInMonth(year, in.Month),
		columns: map[int]int{},
	}
	for d := 1; d <= g.maxDay; d++ {
		col, fallback, err := sheet.ResolveDayColumn(in.DayColumn, d)
		if err != nil {
			continue
		}
		if fallback && in.DayColumn != nil {
			sink.Log(slog.LevelDebug, "day column provider unusable, using default", "day", d, "column", col)
		}
		g.columns[d], _ = sheet.ColumnNumber(col)
	}
	sink.Log(slog.LevelDebug, "report month", "year", year, "month", int(in.Month), "days", g.maxDay)
	if in.Hours == nil {
		sink.Log(slog.LevelError, "no hours sheet, overtime cannot be computed")
	}

	var res Result
	for i, e := range entries {
		res.Processed++
		line := g.entry(e)
		sink.Log(slog.LevelDebug, "entry",
			"n", i+1, "of", len(entries),
			"employee", e.EmployeeID, "date", e.Date.Format("2006-01-02"),
			"outcome", string(line.Outcome), "reason", line.Reason)

		switch line.Outcome {
		case OutcomeUpdated:
			res.Updated++
		case OutcomeSkipped:
			res.Skipped++
		case OutcomeNoOvertime:
			res.NoOvertime++
		case OutcomeOutOfMonth:
			res.OutOfMonth++
		case OutcomeRestDay:
			res.RestDays++
		}
		res.Lines = append(res.Lines, line)
	}

	sink.Log(slog.LevelInfo, "report done",
		"processed", res.Processed, "updated", res.Updated, "skipped", res.Skipped,
		"no_overtime", res.NoOvertime, "rest_days", res.RestDays,
		"cached_lookups", in.Cache.Len())
	return res, nil
}

func (g *generator) entry(e model.ScheduleEntry) Line {
	line := Line{Date: e.Date, EmployeeID: e.EmployeeID}
	d := e.Date

	if d.Month() != g.in.Month || (g.in.Year != 0 && d.Year() != g.in.Year) {
		return g.outcome(line, OutcomeOutOfMonth, "outside target month")
	}
	if d.Day() > g.maxDay {
		g.sink.Log(slog.LevelWarn, "day past end of month", "day", d.Day(), "days", g.maxDay)
		return g.outcome(line, OutcomeSkipped, "day past end of month")
	}
	col, ok := g.columns[d.Day()]
	if !ok {
		g.sink.Log(slog.LevelWarn, "no payroll column for day", "day", d.Day())
		return g.outcome(line, OutcomeSkipped, "no payroll column")
	}
	sunday := timecalc.IsSunday(d)

	if e.IsRestDay {
		// Rest days only matter for Sunday pay; the mark itself was written
		// during reconciliation.
		if !sunday {
			return g.outcome(line, OutcomeIgnored, "rest day on a weekday")
		}
		rows := locate.FindRows(g.in.Payroll, e.EmployeeID, g.in.PayrollSearch)
		if len(rows) == 0 {
			g.sink.Log(slog.LevelWarn, "rest day employee not in payroll sheet", "employee", e.EmployeeID)
			return g.outcome(line, OutcomeSkipped, "employee not in payroll sheet")
		}
		block := locate.ResolveBlock(g.in.Payroll, rows[0])
		line.Reason = "rest day, block " + sheet.Ref(block.Anchor, col)
		line.Outcome = OutcomeRestDay
		return line
	}

	base := e.WorkType.BaseHours()

	rows := locate.FindRows(g.in.Payroll, e.EmployeeID, g.in.PayrollSearch)
	if len(rows) == 0 {
		g.sink.Log(slog.LevelWarn, "employee not in payroll sheet", "employee", e.EmployeeID)
		return g.outcome(line, OutcomeSkipped, "employee not in payroll sheet")
	}
	if len(rows) > 1 {
		g.sink.Log(slog.LevelDebug, "employee on several payroll rows, using the first", "employee", e.EmployeeID, "rows", rows)
	}
	block := locate.ResolveBlock(g.in.Payroll, rows[0])

	if g.in.Hours == nil {
		return g.outcome(line, OutcomeSkipped, "no hours sheet")
	}
	anchors := locate.FindRows(g.in.Hours, e.EmployeeID, g.in.HoursSearch)
	if len(anchors) == 0 {
		g.sink.Log(slog.LevelWarn, "employee not in hours sheet", "employee", e.EmployeeID, "sheet", g.in.Hours.Name())
		return g.outcome(line, OutcomeSkipped, "employee not in hours sheet")
	}

	leftCol, rightCol := sheet.WeekdayColumns(d.Weekday())
	hr, leftIdx, rightIdx := anchors[0], sheet.MustColumn(leftCol), sheet.MustColumn(rightCol)
	endRaw := g.in.Hours.Cell(hr, leftIdx)
	depRaw := g.in.Hours.Cell(hr, rightIdx)
	line.EndGrace, line.Departure = endRaw.String(), depRaw.String()
	g.sink.Log(slog.LevelDebug, "time cells",
		"sheet", g.in.Hours.Name(), "weekday", d.Weekday().String(),
		"end_grace_cell", sheet.Ref(hr, leftIdx), "end_grace", endRaw.String(), "end_grace_kind", endRaw.Kind().String(),
		"departure_cell", sheet.Ref(hr, rightIdx), "departure", depRaw.String(), "departure_kind", depRaw.Kind().String())

	departure, ok := timecalc.ParseClock(depRaw)
	if !ok {
		if !sunday {
			return g.outcome(line, OutcomeNoOvertime, "no departure recorded")
		}
		// A worked Sunday without a departure still earns its base hours.
		g.write(&line, block, locate.Holiday, col, timecalc.Round(base, 2))
		g.write(&line, block, locate.SundayCount, col, 1)
		line.Outcome = OutcomeUpdated
		line.Reason = "sunday without departure"
		return line
	}
	line.Departure = departure.String()

	endGrace, ok := timecalc.ParseClock(endRaw)
	if !ok {
		g.sink.Log(slog.LevelWarn, "invalid end of shift time", "employee", e.EmployeeID, "value", endRaw.String())
		return g.outcome(line, OutcomeSkipped, "invalid end of shift time")
	}
	line.EndGrace = endGrace.String()

	b := timecalc.ComputeOvertime(endGrace, departure, d)
	line.Buckets = b

	if sunday {
		if total := timecalc.HolidayTotal(base, b); total > 0 {
			g.write(&line, block, locate.Holiday, col, total)
		}
	} else if b.Holiday > 0 {
		g.write(&line, block, locate.Holiday, col, b.Holiday)
	}
	if b.RegularOvertime > 0 {
		g.write(&line, block, locate.RegularOvertime, col, b.RegularOvertime)
	}
	if b.PremiumOvertime > 0 {
		g.write(&line, block, locate.PremiumOvertime, col, b.PremiumOvertime)
	}
	if sunday {
		g.write(&line, block, locate.SundayCount, col, 1)
	}
	night := timecalc.ComputeNightHours(endGrace, departure)
	line.Night = night
	if night > 0 {
		g.write(&line, block, locate.Night, col, night)
	}

	line.Outcome = OutcomeUpdated
	return line
}

func (g *generator) outcome(line Line, o Outcome, reason string) Line {
	line.Outcome = o
	line.Reason = reason
	return line
}

func (g *generator) write(line *Line, block locate.Block, m locate.Metric, col int, v float64) {
	row := block.Row(m)
	ref := sheet.Ref(row, col)
	if err := g.in.Payroll.SetCell(row, col, sheet.Number(v)); err != nil {
		g.sink.Log(slog.LevelError, "writing metric", "cell", ref, "metric", m.Label(), "err", err)
		return
	}
	line.Writes = append(line.Writes, Write{Cell: ref, Metric: m, Value: v})
	g.sink.Log(slog.LevelDebug, "metric written", "cell", ref, "metric", m.Label(), "value", v)
}
