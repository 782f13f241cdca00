// Package schedule reads the weekly roster form (ΦΟΡΜΑ ΚΑΤΑΧΩΡΙΣΗΣ) into
// schedule entries.
package schedule

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Tiliavir/orometrisi/internal/locate"
	"github.com/Tiliavir/orometrisi/internal/model"
	"github.com/Tiliavir/orometrisi/internal/progress"
	"github.com/Tiliavir/orometrisi/internal/sheet"
	"github.com/Tiliavir/orometrisi/internal/timecalc"
)

// Layout locates the roster cells.
type Layout struct {
	FirstRow int
	// LastRow of zero reads to the end of the sheet.
	LastRow        int
	IDColumn       int
	WorkTypeColumn int
	// FirstDayColumn is the Monday column; the week spans seven columns.
	FirstDayColumn int
	DateRow        int
}

// DefaultLayout is the layout of the weekly form: ids in A, work type in B,
// Monday..Sunday shifts in C..I, dates on row 8, employees from row 10.
func DefaultLayout() Layout {
	return Layout{
		FirstRow:       10,
		IDColumn:       1,
		WorkTypeColumn: 2,
		FirstDayColumn: 3,
		DateRow:        8,
	}
}

const daysPerWeek = 7

// Day is one dated column of the roster.
type Day struct {
	Date time.Time
	// Column is the roster column holding the day's shifts.
	Column int
	// EndGraceColumn and DepartureColumn are the day's columns in the hours
	// sheet.
	EndGraceColumn  string
	DepartureColumn string
}

// DayMap maps a day of the month to its roster column.
type DayMap map[int]Day

// BuildDayMap reads the dates of the roster's seven day columns. Undated
// columns are left out, as are columns whose month differs from the first
// dated column, so a week spanning two months maps only the first month.
func BuildDayMap(form sheet.Store, lay Layout) DayMap {
	m := DayMap{}
	var month time.Month
	for c := lay.FirstDayColumn; c < lay.FirstDayColumn+daysPerWeek; c++ {
		d, ok := form.Cell(lay.DateRow, c).Date()
		if !ok {
			continue
		}
		if month == 0 {
			month = d.Month()
		} else if d.Month() != month {
			continue
		}
		left, right := sheet.WeekdayColumns(d.Weekday())
		m[d.Day()] = Day{Date: d, Column: c, EndGraceColumn: left, DepartureColumn: right}
	}
	return m
}

// Sundays returns the mapped days that fall on a Sunday, ascending.
func (m DayMap) Sundays() []int {
	var out []int
	for day, d := range m {
		if timecalc.IsSunday(d.Date) {
			out = append(out, day)
		}
	}
	sort.Ints(out)
	return out
}

// ByColumn returns the mapped days in roster column order.
func (m DayMap) ByColumn() []Day {
	out := make([]Day, 0, len(m))
	for _, d := range m {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Column < out[j].Column })
	return out
}

// Problem is a roster row that could not be read completely.
type Problem struct {
	Row    int
	Value  string
	Reason string
}

func (p Problem) String() string {
	return fmt.Sprintf("row %d (%s): %s", p.Row, p.Value, p.Reason)
}

// Result is the outcome of Ingest.
type Result struct {
	Entries  []model.ScheduleEntry
	Days     DayMap
	Problems []Problem
}

// Ingest reads one entry per employee and dated day that holds a shift
// range. Rest days, blank cells and unparseable cells produce no entry.
// Progress is reported in the parse stage.
func Ingest(form sheet.Store, lay Layout, sink progress.Sink) Result {
	sink = progress.OrNop(sink)
	res := Result{Days: BuildDayMap(form, lay)}
	if len(res.Days) == 0 {
		sink.Log(slog.LevelWarn, "roster has no dated day columns", "sheet", form.Name(), "row", lay.DateRow)
		sink.Progress(progress.StageParse, 100)
		return res
	}
	days := res.Days.ByColumn()

	last := lay.LastRow
	if last < 1 || last > form.MaxRow() {
		last = form.MaxRow()
	}
	total := max(last-lay.FirstRow+1, 1)
	seen := map[model.Key]bool{}

	for r := lay.FirstRow; r <= last; r++ {
		sink.Progress(progress.StageParse, 100*(r-lay.FirstRow)/total)

		raw := form.Cell(r, lay.IDColumn)
		fields := strings.Fields(raw.String())
		if len(fields) == 0 {
			continue
		}
		id := locate.NormalizeIDText(fields[0])
		workType := model.ParseWorkType(form.Cell(r, lay.WorkTypeColumn).String())

		for _, d := range days {
			cell := form.Cell(r, d.Column)
			if cell.IsEmpty() {
				continue
			}
			hours, ok := timecalc.ShiftHours(cell.String())
			if !ok {
				continue
			}
			if id == "" {
				res.Problems = append(res.Problems, Problem{Row: r, Value: raw.String(), Reason: "shift without employee id"})
				break
			}
			e := model.ScheduleEntry{
				Date:           d.Date,
				EmployeeID:     id,
				ScheduledHours: &hours,
				WorkType:       workType,
			}
			if seen[e.Key()] {
				res.Problems = append(res.Problems, Problem{
					Row:    r,
					Value:  raw.String(),
					Reason: "second shift for " + d.Date.Format("02/01/2006"),
				})
				continue
			}
			seen[e.Key()] = true
			res.Entries = append(res.Entries, e)
		}
	}

	sink.Progress(progress.StageParse, 100)
	sink.Log(slog.LevelInfo, "roster read", "sheet", form.Name(), "entries", len(res.Entries), "problems", len(res.Problems))
	return res
}
