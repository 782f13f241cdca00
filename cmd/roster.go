package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/orometrisi/internal/model"
	"github.com/Tiliavir/orometrisi/internal/schedule"
	"github.com/Tiliavir/orometrisi/internal/storage"
	"github.com/Tiliavir/orometrisi/internal/timecalc"
)

var rosterCmd = &cobra.Command{
	Use:   "roster <weekly-workbook>",
	Short: "List the shifts read from a weekly roster",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoster,
}

func runRoster(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	lay, err := restdayLayout(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	wb, err := storage.Open(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer wb.Close()
	form, err := wb.Sheet(cfg.Sheets.Roster)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	res := schedule.Ingest(form, scheduleLayout(lay), nil)
	printList(os.Stdout, res)
	return nil
}

// printList groups entries by date and prints them, followed by the rows
// that could not be read.
func printList(w io.Writer, res schedule.Result) {
	if len(res.Entries) == 0 {
		fmt.Fprintln(w, "No entries found.")
	} else {
		fmt.Fprintf(w, "Week %s\n", timecalc.ISOWeekLabel(res.Entries[0].Date))
	}

	entries := append([]model.ScheduleEntry(nil), res.Entries...)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })

	var currentDay string
	for _, e := range entries {
		day := e.Date.Format("2006-01-02 Mon")
		if day != currentDay {
			fmt.Fprintln(w, day)
			currentDay = day
		}
		fmt.Fprintf(w, "  %s  %-8s%s\n", e.EmployeeID, e.WorkType, plannedHours(e))
	}

	if len(res.Problems) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Skipped rows:")
		for _, p := range res.Problems {
			fmt.Fprintf(w, "  ! %s\n", p)
		}
	}
}

func plannedHours(e model.ScheduleEntry) string {
	if e.ScheduledHours == nil {
		return ""
	}
	return fmt.Sprintf("  %sh", formatHours(*e.ScheduledHours))
}
