package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/orometrisi/internal/config"
	"github.com/Tiliavir/orometrisi/internal/progress"
	"github.com/Tiliavir/orometrisi/internal/report"
	"github.com/Tiliavir/orometrisi/internal/schedule"
	"github.com/Tiliavir/orometrisi/internal/storage"
)

var (
	runWeekly  []string
	runPayroll string
	runMonth   int
	runYear    int
	runOut     string
	runDryRun  bool
	runReport  string
	runTotals  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fill the payroll workbook from weekly rosters",
	Long: `run reads each weekly workbook, marks Sunday rest days (Ρ) and writes the
overtime, night, holiday and Sunday metrics of the month into a copy of the
payroll workbook saved as Payroll_Calculated.xlsx next to it.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringArrayVarP(&runWeekly, "weekly", "w", nil, "Weekly roster workbook (.xlsx or .xls); repeatable")
	runCmd.Flags().StringVarP(&runPayroll, "payroll", "p", "", "Payroll workbook (.xlsx)")
	runCmd.Flags().IntVarP(&runMonth, "month", "m", 0, "Month to fill (1-12)")
	runCmd.Flags().IntVarP(&runYear, "year", "y", 0, "Year of the month; defaults to the current year")
	runCmd.Flags().StringVarP(&runOut, "out", "o", "", "Output path; defaults to the configured file next to the payroll")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Compute everything but do not save")
	runCmd.Flags().StringVar(&runReport, "report", "", "Print the per-entry audit to stdout: csv, md or json")
	runCmd.Flags().StringVar(&runTotals, "totals", "", "Print per-employee totals to stdout: md or csv")
	_ = runCmd.MarkFlagRequired("weekly")
	_ = runCmd.MarkFlagRequired("payroll")
	_ = runCmd.MarkFlagRequired("month")
}

// calcOptions is one payroll calculation.
type calcOptions struct {
	Weekly  []string
	Payroll string
	Out     string
	Month   time.Month
	Year    int
	DryRun  bool
	Config  config.Config
}

// weekSummary is what was read from one weekly workbook.
type weekSummary struct {
	Name     string
	Entries  int
	Problems []string
	Err      error
}

type calcResult struct {
	Output string
	Weeks  []weekSummary
	Run    report.RunResult
}

func runRun(cmd *cobra.Command, args []string) error {
	if runMonth < 1 || runMonth > 12 {
		fmt.Fprintf(os.Stderr, "invalid --month value %d: want 1-12\n", runMonth)
		os.Exit(1)
	}
	switch runReport {
	case "", "csv", "md", "json":
	default:
		fmt.Fprintf(os.Stderr, "invalid --report value %q: want csv, md or json\n", runReport)
		os.Exit(1)
	}
	year := runYear
	if year == 0 {
		year = time.Now().Year()
	}

	cfg := loadConfig()
	level := logLevel(cfg.Log.Level, verbose)
	logger := newLogger(os.Stderr, level)

	// The engine posts to the queue from a worker goroutine; this goroutine
	// renders log lines and the progress bar.
	q := progress.NewQueue(256, level)
	type outcome struct {
		res calcResult
		err error
	}
	done := make(chan outcome, 1)
	start := time.Now()
	go func() {
		defer q.Close()
		res, err := calculate(calcOptions{
			Weekly:  runWeekly,
			Payroll: runPayroll,
			Out:     runOut,
			Month:   time.Month(runMonth),
			Year:    year,
			DryRun:  runDryRun,
			Config:  cfg,
		}, q)
		done <- outcome{res, err}
	}()
	consume(q.Events(), logger, os.Stderr)
	out := <-done

	if out.err != nil {
		fmt.Fprintln(os.Stderr, out.err)
		os.Exit(2)
	}

	printRunSummary(os.Stderr, out.res, time.Since(start))
	if runReport != "" {
		if err := writeAudit(os.Stdout, out.res.Run.Report.Lines, runReport); err != nil {
			fmt.Fprintln(os.Stderr, "error writing report:", err)
			os.Exit(2)
		}
	}
	if runTotals != "" {
		printTotals(os.Stdout, out.res.Run.Report.Lines, runTotals)
	}
	return nil
}

// consume renders queue events until the queue is closed: log events go to
// the logger, progress redraws a single bar line on w.
func consume(events <-chan progress.Event, logger *slog.Logger, w io.Writer) {
	last := -1
	for e := range events {
		switch e.Kind {
		case progress.EventLog:
			if last >= 0 {
				fmt.Fprintln(w)
				last = -1
			}
			logger.Log(context.Background(), e.Level, e.Msg, e.Args...)
		case progress.EventProgress:
			if e.Percent == last {
				continue
			}
			last = e.Percent
			fmt.Fprintf(w, "\r%-7s %s", e.Stage, progressBar(e.Percent, 30))
		}
	}
	if last >= 0 {
		fmt.Fprintln(w)
	}
}

// progressBar draws percent as a bar of width cells followed by the number.
func progressBar(percent, width int) string {
	percent = progress.Clamp(percent)
	filled := percent * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "] " + fmt.Sprintf("%3d%%", percent)
}

// calculate opens the payroll workbook, ingests every weekly workbook,
// reconciles rest days, writes the report and saves the result. A weekly
// workbook that cannot be read is skipped; problems with the payroll
// workbook abort the run.
func calculate(opts calcOptions, sink progress.Sink) (calcResult, error) {
	sink = progress.OrNop(sink)
	var res calcResult
	cfg := opts.Config

	rd, err := restdayLayout(cfg)
	if err != nil {
		return res, err
	}
	sl := scheduleLayout(rd)

	payrollWB, err := storage.Open(opts.Payroll)
	if err != nil {
		return res, err
	}
	defer payrollWB.Close()
	if payrollWB.ReadOnly() && !opts.DryRun {
		return res, fmt.Errorf("payroll %s: %w; save it as .xlsx first", opts.Payroll, storage.ErrReadOnly)
	}
	payroll, err := payrollWB.Sheet(cfg.Sheets.Payroll)
	if err != nil {
		return res, err
	}

	var weeks []report.Week
	n := max(len(opts.Weekly), 1)
	for i, path := range opts.Weekly {
		scaled := progress.Scaled{Sink: sink, Lo: 80 * i / n, Hi: 80 * (i + 1) / n}
		ws := weekSummary{Name: filepath.Base(path)}

		wb, err := storage.Open(path)
		if err != nil {
			ws.Err = err
			sink.Log(slog.LevelError, "skipping weekly workbook", "workbook", ws.Name, "err", err)
			res.Weeks = append(res.Weeks, ws)
			continue
		}
		defer wb.Close()

		roster, err := wb.Sheet(cfg.Sheets.Roster)
		if err != nil {
			ws.Err = err
			sink.Log(slog.LevelError, "skipping weekly workbook", "workbook", ws.Name, "err", err)
			res.Weeks = append(res.Weeks, ws)
			continue
		}
		hours, err := wb.Sheet(cfg.Sheets.Hours)
		if err != nil {
			// Rest days can still be marked; overtime entries are skipped.
			sink.Log(slog.LevelWarn, "weekly workbook has no hours sheet", "workbook", ws.Name, "err", err)
		}

		ing := schedule.Ingest(roster, sl, scaled)
		ws.Entries = len(ing.Entries)
		for _, p := range ing.Problems {
			ws.Problems = append(ws.Problems, p.String())
			sink.Log(slog.LevelWarn, "roster row skipped", "workbook", ws.Name, "problem", p.String())
		}
		res.Weeks = append(res.Weeks, ws)
		weeks = append(weeks, report.Week{Name: ws.Name, Roster: roster, Hours: hours, Entries: ing.Entries})
	}
	if len(weeks) == 0 {
		return res, errors.New("no readable weekly workbook")
	}

	run, err := report.Run(report.RunInput{
		Weeks:   weeks,
		Payroll: payroll,
		Month:   opts.Month,
		Year:    opts.Year,
		Layout:  rd,
		Sink:    sink,
	})
	res.Run = run
	if err != nil {
		return res, err
	}

	if opts.DryRun {
		sink.Log(slog.LevelInfo, "dry run, nothing saved")
		sink.Progress(progress.StageSave, 100)
		return res, nil
	}
	sink.Progress(progress.StageSave, 95)
	res.Output = storage.OutputPath(opts.Payroll, cfg.Output.FileName, opts.Out)
	if err := payrollWB.SaveAs(res.Output); err != nil {
		return res, err
	}
	sink.Log(slog.LevelInfo, "payroll saved", "path", res.Output)
	sink.Progress(progress.StageSave, 100)
	return res, nil
}

func printRunSummary(w io.Writer, res calcResult, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Weeks:")
	for _, ws := range res.Weeks {
		if ws.Err != nil {
			fmt.Fprintf(w, "  ! %s: %v\n", ws.Name, ws.Err)
			continue
		}
		fmt.Fprintf(w, "  ✓ %s: %d entries", ws.Name, ws.Entries)
		if len(ws.Problems) > 0 {
			fmt.Fprintf(w, ", %d rows skipped", len(ws.Problems))
		}
		fmt.Fprintln(w)
	}

	rd := res.Run.Reconciled()
	rep := res.Run.Report
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  %d rest days marked (%d already marked, %d overwritten, %d not in payroll)\n",
		rd.Marked, rd.Guarded, rd.Conflicts, rd.NotFound)
	fmt.Fprintf(w, "  %d entries processed\n", rep.Processed)
	fmt.Fprintf(w, "  %d updated\n", rep.Updated)
	fmt.Fprintf(w, "  %d without overtime\n", rep.NoOvertime)
	fmt.Fprintf(w, "  %d Sunday rest days\n", rep.RestDays)
	fmt.Fprintf(w, "  %d outside the month\n", rep.OutOfMonth)
	if rep.Skipped > 0 {
		fmt.Fprintf(w, "  %d skipped\n", rep.Skipped)
	}
	if res.Output != "" {
		fmt.Fprintf(w, "Saved %s in %s\n", res.Output, formatElapsed(int64(elapsed.Seconds())))
	} else {
		fmt.Fprintf(w, "Not saved (dry run). Took %s\n", formatElapsed(int64(elapsed.Seconds())))
	}
}

func formatElapsed(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
