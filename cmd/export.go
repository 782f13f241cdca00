package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Tiliavir/orometrisi/internal/report"
)

// auditLine is the exported form of report.Line.
type auditLine struct {
	Date       string            `json:"date"`
	EmployeeID string            `json:"employee_id"`
	Outcome    string            `json:"outcome"`
	Reason     string            `json:"reason,omitempty"`
	EndGrace   string            `json:"end_grace,omitempty"`
	Departure  string            `json:"departure,omitempty"`
	Regular    float64           `json:"regular_overtime"`
	Premium    float64           `json:"premium_overtime"`
	Holiday    float64           `json:"holiday"`
	Night      float64           `json:"night"`
	Cells      map[string]string `json:"cells,omitempty"`
}

func toAudit(l report.Line) auditLine {
	a := auditLine{
		Date:       l.Date.Format("2006-01-02"),
		EmployeeID: l.EmployeeID,
		Outcome:    string(l.Outcome),
		Reason:     l.Reason,
		EndGrace:   l.EndGrace,
		Departure:  l.Departure,
		Regular:    l.Buckets.RegularOvertime,
		Premium:    l.Buckets.PremiumOvertime,
		Holiday:    l.Buckets.Holiday,
		Night:      l.Night,
	}
	if len(l.Writes) > 0 {
		a.Cells = map[string]string{}
		for _, w := range l.Writes {
			a.Cells[w.Cell] = formatHours(w.Value)
		}
	}
	return a
}

// writeAudit prints one record per schedule entry in the given format.
func writeAudit(w io.Writer, lines []report.Line, format string) error {
	switch format {
	case "json":
		out := make([]auditLine, len(lines))
		for i, l := range lines {
			out[i] = toAudit(l)
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "md":
		printAuditTable(w, lines)
	default: // csv
		printCSV(w, lines)
	}
	return nil
}

func printCSV(w io.Writer, lines []report.Line) {
	fmt.Fprintln(w, "date,employee_id,outcome,reason,end_grace,departure,regular_overtime,premium_overtime,holiday,night,cells")
	for _, l := range lines {
		a := toAudit(l)
		fmt.Fprintf(w, "%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s\n",
			a.Date,
			csvEscape(a.EmployeeID),
			a.Outcome,
			csvEscape(a.Reason),
			csvEscape(a.EndGrace),
			csvEscape(a.Departure),
			formatHours(a.Regular),
			formatHours(a.Premium),
			formatHours(a.Holiday),
			formatHours(a.Night),
			csvEscape(writtenCells(l)),
		)
	}
}

// printAuditTable prints the lines as a markdown table.
func printAuditTable(w io.Writer, lines []report.Line) {
	fmt.Fprintln(w, "| Date | Employee | Outcome | ΥΠΕΡΕΡΓΑΣΙΑ | ΥΠΕΡΩΡΙΑ | ΑΡΓΙΑ | ΝΥΧΤΑ | Cells |")
	fmt.Fprintln(w, "| --- | --- | --- | ---: | ---: | ---: | ---: | --- |")
	for _, l := range lines {
		a := toAudit(l)
		outcome := a.Outcome
		if a.Reason != "" {
			outcome += " (" + a.Reason + ")"
		}
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			a.Date, a.EmployeeID, mdEscape(outcome),
			formatHours(a.Regular), formatHours(a.Premium), formatHours(a.Holiday), formatHours(a.Night),
			mdEscape(writtenCells(l)))
	}
}

// writtenCells lists the written cells in write order, e.g. "N5=1 N6=0.75".
func writtenCells(l report.Line) string {
	parts := make([]string, len(l.Writes))
	for i, w := range l.Writes {
		parts[i] = w.Cell + "=" + formatHours(w.Value)
	}
	return strings.Join(parts, " ")
}

func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	// Escape internal double quotes by doubling them.
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
