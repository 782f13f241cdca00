package locate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tiliavir/orometrisi/internal/locate"
	"github.com/Tiliavir/orometrisi/internal/sheet"
)

func TestAnchor(t *testing.T) {
	tests := []struct{ row, want int }{
		{2, 2}, {3, 2}, {7, 2}, {8, 8}, {13, 8}, {14, 14}, {1, 1},
	}
	for _, tt := range tests {
		if got := locate.Anchor(tt.row); got != tt.want {
			t.Errorf("Anchor(%d) = %d, want %d", tt.row, got, tt.want)
		}
	}
}

func TestBlockRows(t *testing.T) {
	b := locate.BlockAt(8)
	assert.Equal(t, []int{8, 9, 10, 11, 12, 13}, b.Rows())
	assert.Equal(t, 8, b.Row(locate.EPHours))
	assert.Equal(t, 9, b.Row(locate.Night))
	assert.Equal(t, 10, b.Row(locate.Holiday))
	assert.Equal(t, 11, b.Row(locate.RegularOvertime))
	assert.Equal(t, 12, b.Row(locate.PremiumOvertime))
	assert.Equal(t, 13, b.Row(locate.SundayCount))
	assert.Equal(t, "ΠΛΗΘΟΣ ΚΥΡΙΑΚΩΝ", locate.SundayCount.Label())
}

func TestFindLabelRow(t *testing.T) {
	s := sheet.NewMemory("ΩΡΟΜΕΤΡΗΣΗ")
	set(t, s, "AM9", sheet.Text(" επ. ωρες "))
	set(t, s, "F10", sheet.Text("ΝΥΧΤΑ"))

	row, ok := locate.FindLabelRow(s, 8, "ΕΠ.ΩΡΕΣ")
	assert.True(t, ok)
	assert.Equal(t, 9, row)

	row, ok = locate.FindLabelRow(s, 8, "ΝΥΧΤΑ")
	assert.True(t, ok)
	assert.Equal(t, 10, row)

	_, ok = locate.FindLabelRow(s, 14, "ΕΠ.ΩΡΕΣ")
	assert.False(t, ok)
}

func TestResolveBlock(t *testing.T) {
	s := sheet.NewMemory("ΩΡΟΜΕΤΡΗΣΗ")
	set(t, s, "F9", sheet.Text("ΕΠ.ΩΡΕΣ"))

	// Label found inside the band.
	assert.Equal(t, locate.BlockAt(9), locate.ResolveBlock(s, 11))
	// No label: arithmetic anchor.
	assert.Equal(t, locate.BlockAt(14), locate.ResolveBlock(s, 17))
}
