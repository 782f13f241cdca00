package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/orometrisi/internal/config"
	"github.com/Tiliavir/orometrisi/internal/report"
	"github.com/Tiliavir/orometrisi/internal/restday"
	"github.com/Tiliavir/orometrisi/internal/storage"
	"github.com/Tiliavir/orometrisi/internal/timecalc"
)

var (
	checkWeekly  []string
	checkPayroll string
	checkMonth   int
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that workbooks have the sheets and dates a run needs",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringArrayVarP(&checkWeekly, "weekly", "w", nil, "Weekly roster workbook; repeatable")
	checkCmd.Flags().StringVarP(&checkPayroll, "payroll", "p", "", "Payroll workbook")
	checkCmd.Flags().IntVarP(&checkMonth, "month", "m", 0, "Month the weeks should fall in (1-12)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	lay, err := restdayLayout(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	failed := 0
	if checkPayroll != "" && !checkPayrollFile(os.Stdout, cfg, lay, checkPayroll) {
		failed++
	}
	for _, path := range checkWeekly {
		if !checkWeeklyFile(os.Stdout, cfg, lay, path, time.Month(checkMonth)) {
			failed++
		}
	}
	if failed > 0 {
		fmt.Printf("%d workbook(s) need attention.\n", failed)
		os.Exit(2)
	}
	fmt.Println("All workbooks look usable.")
	return nil
}

func checkPayrollFile(w io.Writer, cfg config.Config, lay restday.Layout, path string) bool {
	fmt.Fprintln(w, filepath.Base(path))
	wb, err := storage.Open(path)
	if err != nil {
		fmt.Fprintf(w, "  ! %v\n", err)
		return false
	}
	defer wb.Close()

	ok := true
	if wb.ReadOnly() {
		fmt.Fprintln(w, "  ! legacy .xls, results cannot be saved into it")
		ok = false
	}
	payroll, err := wb.Sheet(cfg.Sheets.Payroll)
	if err != nil {
		fmt.Fprintf(w, "  ! %v (sheets: %q)\n", err, wb.SheetNames())
		return false
	}
	blocks := report.Blocks(payroll, lay.PayrollIDColumn, lay.PayrollFirstRow, lay.PayrollLastRow)
	fmt.Fprintf(w, "  ✓ %s: %d employees\n", payroll.Name(), len(blocks))
	if len(blocks) == 0 {
		fmt.Fprintf(w, "  ! no employee ids in column %s, rows %d-%d\n", cfg.Layout.PayrollIDColumn, lay.PayrollFirstRow, lay.PayrollLastRow)
		ok = false
	}
	return ok
}

func checkWeeklyFile(w io.Writer, cfg config.Config, lay restday.Layout, path string, month time.Month) bool {
	fmt.Fprintln(w, filepath.Base(path))
	wb, err := storage.Open(path)
	if err != nil {
		fmt.Fprintf(w, "  ! %v\n", err)
		return false
	}
	defer wb.Close()

	ok := true
	roster, err := wb.Sheet(cfg.Sheets.Roster)
	if err != nil {
		fmt.Fprintf(w, "  ! %v (sheets: %q)\n", err, wb.SheetNames())
		return false
	}
	week, err := restday.ParseWeek(roster, lay.AnchorCell)
	if err != nil {
		fmt.Fprintf(w, "  ! %v\n", err)
		ok = false
	} else {
		from, to := timecalc.WeekRange(week)
		fmt.Fprintf(w, "  ✓ week %s: %s – %s\n", timecalc.ISOWeekLabel(week),
			from.Format("02/01/2006"), to.Format("02/01/2006"))
		if month != 0 && week.Month() != month {
			fmt.Fprintf(w, "  ! week ends in %s, not %s; its rest days will be skipped\n", week.Month(), month)
			ok = false
		}
	}
	if _, err := wb.Sheet(cfg.Sheets.Hours); err != nil {
		fmt.Fprintf(w, "  ! %v, overtime cannot be computed\n", err)
		ok = false
	}
	return ok
}
