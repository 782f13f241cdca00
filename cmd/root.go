package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/orometrisi/internal/config"
	"github.com/Tiliavir/orometrisi/internal/restday"
	"github.com/Tiliavir/orometrisi/internal/schedule"
	"github.com/Tiliavir/orometrisi/internal/sheet"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "oro",
	Short: "oro – monthly payroll hours from weekly rosters",
	Long: `oro reads weekly roster workbooks and fills the overtime, night, holiday
and Sunday rows of the monthly payroll workbook (ΩΡΟΜΕΤΡΗΣΗ).
Settings live in ~/.oro/config.json.`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every entry (debug level)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sundaysCmd)
	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(onedriveCmd)
}

// loadConfig reads the config file. A broken file is reported and the
// defaults are used.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	return cfg
}

// logLevel maps the configured level name; verbose forces debug.
func logLevel(name string, verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// restdayLayout converts the configured layout to column numbers.
func restdayLayout(cfg config.Config) (restday.Layout, error) {
	lay := restday.DefaultLayout()
	l := cfg.Layout
	cols := []struct {
		name string
		dst  *int
	}{
		{l.RosterIDColumn, &lay.IDColumn},
		{l.MarkerColumn, &lay.MarkerColumn},
		{l.PayrollIDColumn, &lay.PayrollIDColumn},
	}
	for _, c := range cols {
		n, err := sheet.ColumnNumber(strings.ToUpper(strings.TrimSpace(c.name)))
		if err != nil {
			return lay, fmt.Errorf("invalid column %q in config: %w", c.name, err)
		}
		*c.dst = n
	}
	if _, _, err := sheet.ParseRef(l.AnchorCell); err != nil {
		return lay, fmt.Errorf("invalid anchor cell %q in config: %w", l.AnchorCell, err)
	}
	lay.AnchorCell = l.AnchorCell
	lay.FirstRow, lay.LastRow = l.RosterFirstRow, l.RosterLastRow
	lay.PayrollFirstRow, lay.PayrollLastRow = l.PayrollFirstRow, l.PayrollLastRow
	return lay, nil
}

// scheduleLayout places the roster rows the same way reconciliation does.
func scheduleLayout(rd restday.Layout) schedule.Layout {
	lay := schedule.DefaultLayout()
	lay.FirstRow = rd.FirstRow
	lay.LastRow = rd.LastRow
	lay.IDColumn = rd.IDColumn
	return lay
}
