package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/orometrisi/internal/locate"
	"github.com/Tiliavir/orometrisi/internal/report"
	"github.com/Tiliavir/orometrisi/internal/sheet"
)

func TestSundaysOf(t *testing.T) {
	assert.Equal(t, []int{6, 13, 20, 27}, report.SundaysOf(2025, time.July))
	assert.Equal(t, []int{1, 8, 15, 22}, report.SundaysOf(2026, time.February))
}

func TestBlocks(t *testing.T) {
	payroll, _ := sheets(t)
	require.NoError(t, payroll.SetCell(20, 5, sheet.Text("123456789")))

	blocks := report.Blocks(payroll, 5, 2, 200)

	assert.Equal(t, []report.EmployeeBlock{
		{EmployeeID: "123456789", Block: locate.BlockAt(2)},
		{EmployeeID: "987654321", Block: locate.BlockAt(8)},
		{EmployeeID: "111111111", Block: locate.BlockAt(14)},
	}, blocks)
}

func TestUpdateAndInspectSundays(t *testing.T) {
	payroll, _ := sheets(t)
	// Sunday 6th is column M, the 13th is T, the 20th AA.
	set(t, payroll, "M2", sheet.Number(6.67)) // worked
	set(t, payroll, "T9", sheet.Number(1.5))  // night hours
	set(t, payroll, "T2", sheet.Text("Ρ"))    // rest day only
	set(t, payroll, "AA3", sheet.Text("0"))   // placeholder
	set(t, payroll, "AA7", sheet.Number(1))   // stale count
	set(t, payroll, "AA18", sheet.Number(2))  // premium overtime, last metric row

	blocks := report.Blocks(payroll, 5, 2, 200)
	n, err := report.UpdateSundays(payroll, blocks, 2025, time.July)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	assert.Equal(t, 1.0, num(t, payroll, "M7"))
	assert.Equal(t, 0.0, num(t, payroll, "T7"))
	assert.Equal(t, 0.0, num(t, payroll, "AA7"))
	assert.Equal(t, 1.0, num(t, payroll, "T13"))
	assert.Equal(t, 0.0, num(t, payroll, "M13"))
	assert.Equal(t, 1.0, num(t, payroll, "AA19"))

	rows := report.InspectSundays(payroll, blocks, nil)
	require.Len(t, rows, 3)
	assert.Equal(t, 7, rows[0].Row)
	assert.Equal(t, 1, rows[0].Count())
	require.Len(t, rows[0].Cells, 1)
	assert.Equal(t, "M", rows[0].Cells[0].Column)
	assert.Equal(t, 6, rows[0].Cells[0].Day)
	assert.Equal(t, 1, rows[1].Count())
	assert.Equal(t, 1, rows[2].Count())
}
