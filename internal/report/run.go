package report

import (
	"log/slog"
	"time"

	"github.com/Tiliavir/orometrisi/internal/locate"
	"github.com/Tiliavir/orometrisi/internal/model"
	"github.com/Tiliavir/orometrisi/internal/progress"
	"github.com/Tiliavir/orometrisi/internal/restday"
	"github.com/Tiliavir/orometrisi/internal/sheet"
)

// Week is one weekly workbook: its roster, its hours sheet and the entries
// ingested from it.
type Week struct {
	Name    string
	Roster  sheet.Store
	Hours   sheet.Store
	Entries []model.ScheduleEntry
}

// RunInput configures Run.
type RunInput struct {
	Weeks     []Week
	Payroll   sheet.Store
	Month     time.Month
	Year      int
	DayColumn sheet.DayColumnFunc
	Layout    restday.Layout
	Sink      progress.Sink
}

// RunResult is the outcome of Run.
type RunResult struct {
	RestDays []restday.Result
	Report   Result
}

// Reconciled sums the rest-day counters of all weeks.
func (r RunResult) Reconciled() restday.Result {
	var sum restday.Result
	for _, w := range r.RestDays {
		sum.Added += w.Added
		sum.Updated += w.Updated
		sum.Marked += w.Marked
		sum.Guarded += w.Guarded
		sum.Conflicts += w.Conflicts
		sum.NotFound += w.NotFound
		sum.Duplicates += w.Duplicates
		sum.Skipped += w.Skipped
	}
	return sum
}

// Run reconciles the rest days of every week and then generates the report
// for its entries, all against the one payroll sheet. Progress moves through
// the report stage from 80 to 95 percent.
func Run(in RunInput) (RunResult, error) {
	sink := progress.OrNop(in.Sink)
	var out RunResult
	if in.Payroll == nil {
		return out, ErrNoPayrollStore
	}
	cache := locate.NewCache()
	sink.Progress(progress.StageReport, 80)

	for i, w := range in.Weeks {
		sink.Log(slog.LevelInfo, "processing week", "workbook", w.Name, "entries", len(w.Entries))

		entries, rd := restday.Reconcile(w.Entries, restday.Input{
			Roster:    w.Roster,
			Payroll:   in.Payroll,
			Month:     in.Month,
			Year:      in.Year,
			DayColumn: in.DayColumn,
			Layout:    in.Layout,
			Sink:      sink,
		})
		out.RestDays = append(out.RestDays, rd)

		res, err := Generate(entries, Input{
			Payroll:       in.Payroll,
			Hours:         w.Hours,
			Month:         in.Month,
			Year:          in.Year,
			DayColumn:     in.DayColumn,
			PayrollSearch: locate.Options{MinRow: in.Layout.PayrollFirstRow, MaxRow: in.Layout.PayrollLastRow},
			Cache:         cache,
			Sink:          sink,
		})
		if err != nil {
			return out, err
		}
		out.Report.Add(res)
		sink.Progress(progress.StageReport, 80+15*(i+1)/len(in.Weeks))
	}
	sink.Progress(progress.StageReport, 95)
	return out, nil
}
