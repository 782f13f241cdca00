package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/Tiliavir/orometrisi/internal/locate"
	"github.com/Tiliavir/orometrisi/internal/report"
	"github.com/Tiliavir/orometrisi/internal/timecalc"
)

// employeeTotals sums the hours written for one employee.
type employeeTotals struct {
	EmployeeID string
	Regular    float64
	Premium    float64
	Holiday    float64
	Night      float64
	Sundays    int
}

// totalsByEmployee aggregates the updated lines, ordered by employee id.
func totalsByEmployee(lines []report.Line) []employeeTotals {
	byID := map[string]*employeeTotals{}
	var order []string
	for _, l := range lines {
		if l.Outcome != report.OutcomeUpdated {
			continue
		}
		t, ok := byID[l.EmployeeID]
		if !ok {
			t = &employeeTotals{EmployeeID: l.EmployeeID}
			byID[l.EmployeeID] = t
			order = append(order, l.EmployeeID)
		}
		for _, w := range l.Writes {
			switch w.Metric {
			case locate.RegularOvertime:
				t.Regular += w.Value
			case locate.PremiumOvertime:
				t.Premium += w.Value
			case locate.Holiday:
				t.Holiday += w.Value
			case locate.Night:
				t.Night += w.Value
			case locate.SundayCount:
				t.Sundays++
			}
		}
	}
	sort.Strings(order)

	out := make([]employeeTotals, len(order))
	for i, id := range order {
		t := *byID[id]
		t.Regular = timecalc.Round(t.Regular, 2)
		t.Premium = timecalc.Round(t.Premium, 2)
		t.Holiday = timecalc.Round(t.Holiday, 2)
		t.Night = timecalc.Round(t.Night, 3)
		out[i] = t
	}
	return out
}

// printTotals writes the per-employee totals of the month.
func printTotals(w io.Writer, lines []report.Line, format string) {
	totals := totalsByEmployee(lines)

	var grand employeeTotals
	for _, t := range totals {
		grand.Regular += t.Regular
		grand.Premium += t.Premium
		grand.Holiday += t.Holiday
		grand.Night += t.Night
		grand.Sundays += t.Sundays
	}

	switch format {
	case "csv":
		fmt.Fprintln(w, "employee_id,regular_overtime,premium_overtime,holiday,night,sundays")
		for _, t := range totals {
			fmt.Fprintf(w, "%s,%s,%s,%s,%s,%d\n", t.EmployeeID,
				formatHours(t.Regular), formatHours(t.Premium), formatHours(t.Holiday), formatHours(t.Night), t.Sundays)
		}
	default: // md
		fmt.Fprintf(w, "%-12s%10s%10s%10s%10s%6s\n", "Employee", "ΥΠΕΡΕΡΓ.", "ΥΠΕΡΩΡ.", "ΑΡΓΙΑ", "ΝΥΧΤΑ", "ΚΥΡ.")
		fmt.Fprintln(w, "------------------------------------------------------------")
		for _, t := range totals {
			fmt.Fprintf(w, "%-12s%10.2f%10.2f%10.2f%10.3f%6d\n", t.EmployeeID, t.Regular, t.Premium, t.Holiday, t.Night, t.Sundays)
		}
		fmt.Fprintln(w, "------------------------------------------------------------")
		fmt.Fprintf(w, "%-12s%10.2f%10.2f%10.2f%10.3f%6d\n", "Total", grand.Regular, grand.Premium, grand.Holiday, grand.Night, grand.Sundays)
	}
}
