package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/orometrisi/internal/progress"
	"github.com/Tiliavir/orometrisi/internal/report"
	"github.com/Tiliavir/orometrisi/internal/storage"
)

var (
	sundaysPayroll string
	sundaysMonth   int
	sundaysYear    int
	sundaysWrite   bool
	sundaysOut     string
)

var sundaysCmd = &cobra.Command{
	Use:   "sundays",
	Short: "Inspect or recount the ΠΛΗΘΟΣ ΚΥΡΙΑΚΩΝ rows of a payroll workbook",
	Args:  cobra.NoArgs,
	RunE:  runSundays,
}

func init() {
	sundaysCmd.Flags().StringVarP(&sundaysPayroll, "payroll", "p", "", "Payroll workbook (.xlsx)")
	sundaysCmd.Flags().IntVarP(&sundaysMonth, "month", "m", 0, "Month (1-12)")
	sundaysCmd.Flags().IntVarP(&sundaysYear, "year", "y", 0, "Year; defaults to the current year")
	sundaysCmd.Flags().BoolVar(&sundaysWrite, "write", false, "Recount the Sundays and save the workbook")
	sundaysCmd.Flags().StringVarP(&sundaysOut, "out", "o", "", "Output path for --write; defaults to the payroll file itself")
	_ = sundaysCmd.MarkFlagRequired("payroll")
	_ = sundaysCmd.MarkFlagRequired("month")
}

func runSundays(cmd *cobra.Command, args []string) error {
	if sundaysMonth < 1 || sundaysMonth > 12 {
		fmt.Fprintf(os.Stderr, "invalid --month value %d: want 1-12\n", sundaysMonth)
		os.Exit(1)
	}
	year := sundaysYear
	if year == 0 {
		year = time.Now().Year()
	}

	cfg := loadConfig()
	sink := progress.NewLogger(newLogger(os.Stderr, logLevel(cfg.Log.Level, verbose)))
	lay, err := restdayLayout(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	wb, err := storage.Open(sundaysPayroll)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer wb.Close()
	payroll, err := wb.Sheet(cfg.Sheets.Payroll)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	blocks := report.Blocks(payroll, lay.PayrollIDColumn, lay.PayrollFirstRow, lay.PayrollLastRow)
	month := time.Month(sundaysMonth)

	if sundaysWrite {
		n, err := report.UpdateSundays(payroll, blocks, year, month)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		out := sundaysOut
		if out == "" {
			out = sundaysPayroll
		}
		if err := wb.SaveAs(out); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		fmt.Printf("Recounted %d Sunday cells for %d employees; saved %s\n", n, len(blocks), out)
	}

	printSundays(os.Stdout, report.InspectSundays(payroll, blocks, sink), report.SundaysOf(year, month))
	return nil
}

// printSundays lists the Sunday count of every employee.
func printSundays(w io.Writer, rows []report.SundayRow, sundays []int) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No employees found.")
		return
	}
	fmt.Fprintf(w, "Sundays of the month: %v\n", sundays)
	for _, r := range rows {
		fmt.Fprintf(w, "%s  row %d  %d", r.EmployeeID, r.Row, r.Count())
		for _, c := range r.Cells {
			fmt.Fprintf(w, "  %s=%s", c.Column, c.Value.String())
		}
		fmt.Fprintln(w)
	}
}
