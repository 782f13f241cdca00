package report

import (
	"log/slog"
	"strings"
	"time"

	"github.com/Tiliavir/orometrisi/internal/locate"
	"github.com/Tiliavir/orometrisi/internal/progress"
	"github.com/Tiliavir/orometrisi/internal/sheet"
	"github.com/Tiliavir/orometrisi/internal/timecalc"
)

// EmployeeBlock is an employee's metric block in the payroll sheet.
type EmployeeBlock struct {
	EmployeeID string
	Block      locate.Block
}

// Blocks lists the metric block of every employee in the payroll id column,
// ordered by row. Employees listed twice keep their first block.
func Blocks(payroll sheet.Store, idColumn, minRow, maxRow int) []EmployeeBlock {
	index := locate.IndexColumn(payroll, idColumn, minRow, maxRow)
	byRow := map[int]string{}
	for id, rows := range index {
		byRow[rows[0]] = id
	}
	var out []EmployeeBlock
	for r := max(minRow, 1); r <= payroll.MaxRow(); r++ {
		id, ok := byRow[r]
		if !ok {
			continue
		}
		out = append(out, EmployeeBlock{EmployeeID: id, Block: locate.ResolveBlock(payroll, r)})
	}
	return out
}

// SundayCell is a non-empty day cell of a ΠΛΗΘΟΣ ΚΥΡΙΑΚΩΝ row.
type SundayCell struct {
	Column string
	Day    int
	Value  sheet.Value
}

// SundayRow is the content of one employee's ΠΛΗΘΟΣ ΚΥΡΙΑΚΩΝ row.
type SundayRow struct {
	EmployeeID string
	Row        int
	Cells      []SundayCell
}

// Count returns how many Sundays the row records.
func (r SundayRow) Count() int {
	n := 0
	for _, c := range r.Cells {
		if f, ok := c.Value.Float(); ok {
			n += int(f)
		}
	}
	return n
}

// isBlank reports whether a day cell counts as nothing: empty, zero or the
// rest-day mark.
func isBlank(v sheet.Value) bool {
	switch v.Kind() {
	case sheet.KindEmpty:
		return true
	case sheet.KindNumber:
		f, _ := v.Float()
		return f == 0
	case sheet.KindText:
		s, _ := v.Text()
		s = strings.TrimSpace(s)
		return s == "" || s == "0" || sheet.NormalizeLabel(s) == "Ρ"
	}
	return false
}

// InspectSundays reads the ΠΛΗΘΟΣ ΚΥΡΙΑΚΩΝ row of every block across the 31
// day columns and logs the non-empty cells.
func InspectSundays(payroll sheet.Store, blocks []EmployeeBlock, sink progress.Sink) []SundayRow {
	sink = progress.OrNop(sink)
	out := make([]SundayRow, 0, len(blocks))
	for _, eb := range blocks {
		row := SundayRow{EmployeeID: eb.EmployeeID, Row: eb.Block.Row(locate.SundayCount)}
		for day := 1; day <= 31; day++ {
			col := sheet.FirstDayColumn + day - 1
			v := payroll.Cell(row.Row, col)
			if isBlank(v) {
				continue
			}
			name, _ := sheet.ColumnName(col)
			row.Cells = append(row.Cells, SundayCell{Column: name, Day: day, Value: v})
		}
		if len(row.Cells) > 0 {
			parts := make([]string, len(row.Cells))
			for i, c := range row.Cells {
				parts[i] = c.Column + ": " + c.Value.String()
			}
			sink.Log(slog.LevelDebug, "sunday count row", "employee", eb.EmployeeID, "row", row.Row, "cells", strings.Join(parts, ", "))
		}
		out = append(out, row)
	}
	return out
}

// SundaysOf returns the days of month that fall on a Sunday.
func SundaysOf(year int, month time.Month) []int {
	var days []int
	for d := 1; d <= timecalc.DaysInMonth(year, month); d++ {
		if timecalc.IsSunday(time.Date(year, month, d, 0, 0, 0, 0, time.UTC)) {
			days = append(days, d)
		}
	}
	return days
}

// UpdateSundays recomputes the ΠΛΗΘΟΣ ΚΥΡΙΑΚΩΝ row of every block for the
// Sundays of the month: 1 when any other metric row of the block holds a
// value that day, 0 otherwise. It returns the number of cells written.
func UpdateSundays(payroll sheet.Store, blocks []EmployeeBlock, year int, month time.Month) (int, error) {
	written := 0
	for _, day := range SundaysOf(year, month) {
		col := sheet.FirstDayColumn + day - 1
		for _, eb := range blocks {
			worked := false
			for _, r := range eb.Block.Rows()[:locate.SundayCount] {
				if !isBlank(payroll.Cell(r, col)) {
					worked = true
					break
				}
			}
			v := 0.0
			if worked {
				v = 1
			}
			if err := payroll.SetCell(eb.Block.Row(locate.SundayCount), col, sheet.Number(v)); err != nil {
				return written, err
			}
			written++
		}
	}
	return written, nil
}
