// Package restday copies the weekly roster's Sunday rest days (ΡΕΠΟ) into the
// payroll sheet as a single "Ρ" mark per employee and flags the matching
// schedule entries.
package restday

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Tiliavir/orometrisi/internal/locate"
	"github.com/Tiliavir/orometrisi/internal/model"
	"github.com/Tiliavir/orometrisi/internal/progress"
	"github.com/Tiliavir/orometrisi/internal/sheet"
	"github.com/Tiliavir/orometrisi/internal/timecalc"
)

// Mark is the rest-day token written to the payroll sheet: Greek capital rho.
const Mark = "Ρ"

// Layout locates the roster and payroll cells reconciliation reads.
type Layout struct {
	// AnchorCell holds the week's Sunday date in the roster.
	AnchorCell string
	// IDColumn and MarkerColumn are the roster's employee id and Sunday columns.
	IDColumn     int
	MarkerColumn int
	FirstRow     int
	LastRow      int
	// StrictIDs skips roster ids that are not exactly nine digits.
	StrictIDs bool

	PayrollIDColumn int
	PayrollFirstRow int
	PayrollLastRow  int
}

// DefaultLayout is the layout of the weekly form and the ΩΡΟΜΕΤΡΗΣΗ sheet.
func DefaultLayout() Layout {
	return Layout{
		AnchorCell:      "I8",
		IDColumn:        1,
		MarkerColumn:    9,
		FirstRow:        10,
		LastRow:         150,
		StrictIDs:       true,
		PayrollIDColumn: 5,
		PayrollFirstRow: 2,
		PayrollLastRow:  200,
	}
}

// Input is one week of reconciliation.
type Input struct {
	Roster sheet.Store
	// Payroll receives the marks. When nil, entries are still flagged.
	Payroll sheet.Store
	Month   time.Month
	// Year, when non-zero, must also match the week's Sunday.
	Year      int
	DayColumn sheet.DayColumnFunc
	Layout    Layout
	Sink      progress.Sink
}

// Result counts what one reconciliation did.
type Result struct {
	// Week is the Sunday read from the roster.
	Week time.Time
	// Ran is false when the week was skipped as a whole.
	Ran bool

	Added      int // synthesized rest-day entries
	Updated    int // existing entries flagged
	Marked     int // "Ρ" written
	Guarded    int // cell already held "Ρ"
	Conflicts  int // another value was overwritten
	NotFound   int // employee missing from the payroll sheet
	Duplicates int // employee on more than one payroll row
	Skipped    int // roster rows not acted on
}

// IsRestDayMarker reports whether a roster cell marks a rest day: "ΡΕΠΟ" or
// "Ρ", ignoring case, accents and whitespace.
func IsRestDayMarker(v sheet.Value) bool {
	n := sheet.NormalizeLabelValue(v)
	return n == timecalc.RestDayText || n == Mark
}

// IsMark reports whether a payroll cell already holds the rest-day mark.
func IsMark(v sheet.Value) bool {
	return sheet.NormalizeLabelValue(v) == Mark
}

// ParseWeek reads the week's Sunday from the roster anchor cell.
func ParseWeek(roster sheet.Store, anchorCell string) (time.Time, error) {
	v, err := sheet.CellAt(roster, anchorCell)
	if err != nil {
		return time.Time{}, err
	}
	d, ok := v.Date()
	if !ok {
		return time.Time{}, fmt.Errorf("week anchor %s: unreadable date %q", anchorCell, v.String())
	}
	if !timecalc.IsSunday(d) {
		return time.Time{}, fmt.Errorf("week anchor %s: %s is a %s, not a Sunday", anchorCell, d.Format("02/01/2006"), d.Weekday())
	}
	return d, nil
}

// rosterID reads the employee id of a roster row: the first token of the
// cell, normalized. ok is false for blank or, in strict mode, malformed ids.
func rosterID(v sheet.Value, strict bool) (id string, ok bool) {
	fields := strings.Fields(v.String())
	if len(fields) == 0 {
		return "", false
	}
	token := fields[0]
	if strict && !locate.IsStrictID(token) {
		return "", false
	}
	id = locate.NormalizeIDText(token)
	return id, id != ""
}

// Reconcile marks the roster's Sunday rest days in the payroll sheet and
// flags the matching entries, synthesizing entries that do not exist yet.
// It writes at most one mark per employee and never rewrites a cell that
// already holds the mark. Problems with single rows are logged and counted;
// a bad week anchor skips the whole week.
func Reconcile(entries []model.ScheduleEntry, in Input) ([]model.ScheduleEntry, Result) {
	sink := progress.OrNop(in.Sink)
	lay := in.Layout
	out := append([]model.ScheduleEntry(nil), entries...)
	var res Result

	if in.Roster == nil {
		sink.Log(slog.LevelError, "no roster sheet for rest days")
		return out, res
	}

	week, err := ParseWeek(in.Roster, lay.AnchorCell)
	if err != nil {
		sink.Log(slog.LevelError, "week skipped", "sheet", in.Roster.Name(), "err", err)
		return out, res
	}
	res.Week = week
	if week.Month() != in.Month || (in.Year != 0 && week.Year() != in.Year) {
		sink.Log(slog.LevelDebug, "week outside target month", "sunday", week.Format("2006-01-02"), "month", int(in.Month))
		return out, res
	}
	res.Ran = true

	col, fallback, err := sheet.ResolveDayColumn(in.DayColumn, week.Day())
	if err != nil {
		sink.Log(slog.LevelError, "no column for day", "day", week.Day(), "err", err)
		res.Ran = false
		return out, res
	}
	if fallback && in.DayColumn != nil {
		sink.Log(slog.LevelDebug, "day column provider unusable, using default", "day", week.Day(), "column", col)
	}
	colIdx, _ := sheet.ColumnNumber(col)

	// Authoritative set: every valid id whose Sunday cell is a rest day.
	restIDs := map[string]bool{}
	for r := lay.FirstRow; r <= lay.LastRow; r++ {
		id, ok := rosterID(in.Roster.Cell(r, lay.IDColumn), lay.StrictIDs)
		if !ok {
			continue
		}
		if IsRestDayMarker(in.Roster.Cell(r, lay.MarkerColumn)) {
			restIDs[id] = true
		}
	}
	sink.Log(slog.LevelDebug, "rest days in roster", "sunday", week.Format("2006-01-02"), "count", len(restIDs))

	byKey := make(map[model.Key]int, len(out))
	for i, e := range out {
		byKey[e.Key()] = i
	}

	var payrollIndex map[string][]int
	if in.Payroll != nil {
		payrollIndex = locate.IndexColumn(in.Payroll, lay.PayrollIDColumn, lay.PayrollFirstRow, lay.PayrollLastRow)
	} else {
		sink.Log(slog.LevelError, "no payroll sheet for rest-day marks")
	}

	handled := map[string]bool{}
	for r := lay.FirstRow; r <= lay.LastRow; r++ {
		raw := in.Roster.Cell(r, lay.IDColumn)
		if raw.IsEmpty() {
			continue
		}
		id, ok := rosterID(raw, lay.StrictIDs)
		if !ok {
			res.Skipped++
			sink.Log(slog.LevelDebug, "invalid employee id", "row", r, "value", raw.String())
			continue
		}
		if !restIDs[id] {
			res.Skipped++
			continue
		}
		if handled[id] {
			res.Skipped++
			sink.Log(slog.LevelDebug, "rest day already handled this week", "employee", id, "row", r)
			continue
		}
		handled[id] = true

		key := model.Key{EmployeeID: id, Date: week.Format("2006-01-02")}
		if i, ok := byKey[key]; ok {
			if !out[i].IsRestDay {
				out[i].IsRestDay = true
				res.Updated++
			}
		} else {
			out = append(out, model.ScheduleEntry{Date: week, EmployeeID: id, IsRestDay: true})
			byKey[key] = len(out) - 1
			res.Added++
		}

		if in.Payroll == nil {
			continue
		}
		rows := payrollIndex[id]
		if len(rows) == 0 {
			res.NotFound++
			sink.Log(slog.LevelDebug, "employee not in payroll sheet", "employee", id, "sheet", in.Payroll.Name())
			continue
		}
		if len(rows) > 1 {
			res.Duplicates++
			sink.Log(slog.LevelWarn, "employee on several payroll rows, using the first", "employee", id, "rows", rows)
		}

		target := locate.ResolveBlock(in.Payroll, rows[0]).Row(locate.EPHours)
		ref := sheet.Ref(target, colIdx)
		existing := in.Payroll.Cell(target, colIdx)
		switch {
		case IsMark(existing):
			res.Guarded++
			sink.Log(slog.LevelDebug, "rest day already marked", "cell", ref)
			continue
		case !existing.IsEmpty():
			res.Conflicts++
			sink.Log(slog.LevelWarn, "overwriting cell with rest day", "cell", ref, "was", existing.String())
		}
		if err := in.Payroll.SetCell(target, colIdx, sheet.Text(Mark)); err != nil {
			sink.Log(slog.LevelError, "writing rest day", "cell", ref, "err", err)
			continue
		}
		res.Marked++
		sink.Log(slog.LevelDebug, "rest day marked", "employee", id, "cell", ref)
	}

	sink.Log(slog.LevelInfo, "rest days reconciled",
		"sunday", week.Format("2006-01-02"),
		"added", res.Added, "updated", res.Updated, "marked", res.Marked,
		"guarded", res.Guarded, "conflicts", res.Conflicts,
		"not_found", res.NotFound, "duplicates", res.Duplicates)
	return out, res
}
