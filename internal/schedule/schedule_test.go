package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/orometrisi/internal/model"
	"github.com/Tiliavir/orometrisi/internal/schedule"
	"github.com/Tiliavir/orometrisi/internal/sheet"
)

func set(t *testing.T, s sheet.Store, ref string, v sheet.Value) {
	t.Helper()
	require.NoError(t, sheet.SetCellAt(s, ref, v))
}

// week writes the dates of the week Monday 2025-07-07 .. Sunday 2025-07-13
// into row 8, mixing the cell kinds a roster can hold.
func week(t *testing.T) *sheet.Memory {
	form := sheet.NewMemory("ΦΟΡΜΑ ΚΑΤΑΧΩΡΙΣΗΣ")
	set(t, form, "C8", sheet.DateTime(time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC)))
	set(t, form, "D8", sheet.Number(45846)) // 2025-07-08
	set(t, form, "E8", sheet.Text("09/07/2025"))
	set(t, form, "F8", sheet.Text("10/07/25"))
	set(t, form, "G8", sheet.Text("2025-07-11"))
	set(t, form, "H8", sheet.DateTime(time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC)))
	set(t, form, "I8", sheet.DateTime(time.Date(2025, 7, 13, 0, 0, 0, 0, time.UTC)))
	return form
}

func TestBuildDayMap(t *testing.T) {
	m := schedule.BuildDayMap(week(t), schedule.DefaultLayout())

	require.Len(t, m, 7)
	assert.Equal(t, 3, m[7].Column)
	assert.Equal(t, "C", m[7].EndGraceColumn)
	assert.Equal(t, "D", m[7].DepartureColumn)
	assert.Equal(t, 4, m[8].Column)
	assert.Equal(t, "H", m[8].EndGraceColumn)
	assert.Equal(t, "AG", m[13].EndGraceColumn)
	assert.Equal(t, "AH", m[13].DepartureColumn)
	assert.Equal(t, []int{13}, m.Sundays())

	cols := m.ByColumn()
	require.Len(t, cols, 7)
	assert.Equal(t, 9, cols[6].Column)
}

func TestBuildDayMapKeepsFirstMonth(t *testing.T) {
	form := sheet.NewMemory("ΦΟΡΜΑ ΚΑΤΑΧΩΡΙΣΗΣ")
	start := time.Date(2025, 7, 28, 0, 0, 0, 0, time.UTC) // Monday
	for i := 0; i < 7; i++ {
		require.NoError(t, form.SetCell(8, 3+i, sheet.DateTime(start.AddDate(0, 0, i))))
	}
	set(t, form, "E8", sheet.Text("not a date"))

	m := schedule.BuildDayMap(form, schedule.DefaultLayout())

	assert.Len(t, m, 3) // 28, 29 (30 unreadable), 31
	_, ok := m[30]
	assert.False(t, ok)
	_, ok = m[1]
	assert.False(t, ok, "August days are dropped")
	assert.Empty(t, m.Sundays())
}

func TestIngest(t *testing.T) {
	form := week(t)
	set(t, form, "A10", sheet.Text("123456789 ΠΑΠΑΔΟΠΟΥΛΟΣ ΓΙΑΝΝΗΣ"))
	set(t, form, "B10", sheet.Text("6ΗΜΕΡΟΣ"))
	set(t, form, "C10", sheet.Text("08:00-16:00"))
	set(t, form, "D10", sheet.Text("ΡΕΠΟ"))
	set(t, form, "E10", sheet.Text("22:00 – 06:00"))
	set(t, form, "I10", sheet.Text("09:00-15:40"))

	set(t, form, "A11", sheet.Number(987654321))
	set(t, form, "B11", sheet.Text("5ΗΜΕΡΟΣ"))
	set(t, form, "F11", sheet.Text("ΑΔΕΙΑ"))
	set(t, form, "G11", sheet.Text("07:00-15:00"))

	set(t, form, "A12", sheet.Text("ΣΥΝΟΛΟ"))
	set(t, form, "C12", sheet.Text("08:00-16:00"))

	set(t, form, "A13", sheet.Text("123456789"))
	set(t, form, "C13", sheet.Text("12:00-20:00"))

	res := schedule.Ingest(form, schedule.DefaultLayout(), nil)

	require.Len(t, res.Entries, 4)
	first := res.Entries[0]
	assert.Equal(t, "123456789", first.EmployeeID)
	assert.Equal(t, time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, model.SixDay, first.WorkType)
	require.NotNil(t, first.ScheduledHours)
	assert.Equal(t, 8.0, *first.ScheduledHours)
	assert.False(t, first.IsRestDay)

	assert.Equal(t, 9, res.Entries[1].Date.Day())
	assert.Equal(t, 8.0, *res.Entries[1].ScheduledHours)
	assert.Equal(t, 13, res.Entries[2].Date.Day())
	assert.Equal(t, 6.667, *res.Entries[2].ScheduledHours)

	assert.Equal(t, "987654321", res.Entries[3].EmployeeID)
	assert.Equal(t, model.FiveDay, res.Entries[3].WorkType)
	assert.Equal(t, 11, res.Entries[3].Date.Day())

	require.Len(t, res.Problems, 2)
	assert.Equal(t, 12, res.Problems[0].Row)
	assert.Equal(t, 13, res.Problems[1].Row)
	assert.Contains(t, res.Problems[1].String(), "second shift for 07/07/2025")
}

func TestIngestWithoutDates(t *testing.T) {
	form := sheet.NewMemory("ΦΟΡΜΑ ΚΑΤΑΧΩΡΙΣΗΣ")
	set(t, form, "A10", sheet.Text("123456789"))
	set(t, form, "C10", sheet.Text("08:00-16:00"))

	res := schedule.Ingest(form, schedule.DefaultLayout(), nil)
	assert.Empty(t, res.Entries)
	assert.Empty(t, res.Days)
}
