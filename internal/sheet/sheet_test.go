package sheet_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/orometrisi/internal/sheet"
)

func TestColumnForDay(t *testing.T) {
	tests := []struct {
		day  int
		want string
	}{
		{1, "H"},
		{2, "I"},
		{19, "Z"},
		{20, "AA"},
		{24, "AE"},
		{31, "AL"},
	}
	for _, tt := range tests {
		got, err := sheet.ColumnForDay(tt.day)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "day %d", tt.day)
	}

	_, err := sheet.ColumnForDay(0)
	assert.Error(t, err)
	_, err = sheet.ColumnForDay(32)
	assert.Error(t, err)
}

func TestResolveDayColumn(t *testing.T) {
	col, fallback, err := sheet.ResolveDayColumn(nil, 3)
	require.NoError(t, err)
	assert.Equal(t, "J", col)
	assert.True(t, fallback)

	custom := func(day int) (string, error) { return " k ", nil }
	col, fallback, err = sheet.ResolveDayColumn(custom, 3)
	require.NoError(t, err)
	assert.Equal(t, "K", col)
	assert.False(t, fallback)

	failing := func(day int) (string, error) { return "", errors.New("boom") }
	col, fallback, err = sheet.ResolveDayColumn(failing, 20)
	require.NoError(t, err)
	assert.Equal(t, "AA", col)
	assert.True(t, fallback)

	garbage := func(day int) (string, error) { return "12", nil }
	col, _, err = sheet.ResolveDayColumn(garbage, 1)
	require.NoError(t, err)
	assert.Equal(t, "H", col)
}

func TestWeekdayColumns(t *testing.T) {
	left, right := sheet.WeekdayColumns(time.Monday)
	assert.Equal(t, "C", left)
	assert.Equal(t, "D", right)

	left, right = sheet.WeekdayColumns(time.Sunday)
	assert.Equal(t, "AG", left)
	assert.Equal(t, "AH", right)
}

func TestColumnCodec(t *testing.T) {
	n, err := sheet.ColumnNumber("aa")
	require.NoError(t, err)
	assert.Equal(t, 27, n)

	name, err := sheet.ColumnName(34)
	require.NoError(t, err)
	assert.Equal(t, "AH", name)

	assert.Equal(t, "H12", sheet.Ref(12, 8))
	assert.Equal(t, "?", sheet.Ref(0, 8))
}

func TestMemoryStore(t *testing.T) {
	m := sheet.NewMemory("ΩΡΟΜΕΤΡΗΣΗ")
	assert.Equal(t, "ΩΡΟΜΕΤΡΗΣΗ", m.Name())
	assert.True(t, m.Cell(1, 1).IsEmpty())

	require.NoError(t, sheet.SetCellAt(m, "C5", sheet.Text("x")))
	v, err := sheet.CellAt(m, "C5")
	require.NoError(t, err)
	assert.Equal(t, "x", v.String())
	assert.Equal(t, 5, m.MaxRow())
	assert.Equal(t, 3, m.MaxColumn())

	require.NoError(t, m.SetCell(5, 3, sheet.Empty()))
	assert.True(t, m.Cell(5, 3).IsEmpty())

	assert.ErrorIs(t, m.SetCell(0, 1, sheet.Text("x")), sheet.ErrBadCoordinates)

	other := sheet.NewMemory("ΩΡΟΜΕΤΡΗΣΗ")
	assert.NotEqual(t, m.ID(), other.ID())
}

func TestValueDate(t *testing.T) {
	want := time.Date(2025, 7, 6, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		v    sheet.Value
		ok   bool
	}{
		{"datetime", sheet.DateTime(time.Date(2025, 7, 6, 13, 45, 0, 0, time.UTC)), true},
		{"slash four digit year", sheet.Text("06/07/2025"), true},
		{"slash two digit year", sheet.Text("6/7/25"), true},
		{"iso", sheet.Text(" 2025-07-06 "), true},
		{"excel serial", sheet.Number(45844), true},
		{"fraction is not a date", sheet.Number(0.5), false},
		{"time is not a date", sheet.ClockTime(8, 0, 0), false},
		{"garbage", sheet.Text("Κυριακή"), false},
		{"empty", sheet.Empty(), false},
	}
	for _, tt := range tests {
		got, ok := tt.v.Date()
		assert.Equal(t, tt.ok, ok, tt.name)
		if tt.ok {
			assert.True(t, want.Equal(got), "%s: got %v", tt.name, got)
		}
	}
}

func TestValueAccessors(t *testing.T) {
	assert.True(t, sheet.Text("").IsEmpty())
	assert.Equal(t, "123456789", sheet.Number(123456789).String())
	assert.Equal(t, "08:30:00", sheet.ClockTime(8, 30, 0).String())

	f, ok := sheet.Number(0.25).Float()
	assert.True(t, ok)
	assert.Equal(t, 0.25, f)

	_, ok = sheet.Text("0.25").Float()
	assert.False(t, ok)

	s, ok := sheet.Text("ΡΕΠΟ").Text()
	assert.True(t, ok)
	assert.Equal(t, "ΡΕΠΟ", s)
	assert.Equal(t, sheet.KindText, sheet.Text("ΡΕΠΟ").Kind())
}
