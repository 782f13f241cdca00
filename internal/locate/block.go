package locate

import (
	"github.com/Tiliavir/orometrisi/internal/sheet"
)

// Metric is a row of an employee's metric block.
type Metric int

const (
	EPHours Metric = iota
	Night
	Holiday
	RegularOvertime
	PremiumOvertime
	SundayCount
)

// BlockSize is the number of rows in a metric block.
const BlockSize = 6

// FirstBlockRow is the anchor of the first employee block in the payroll sheet.
const FirstBlockRow = 2

var metricLabels = [BlockSize]string{
	EPHours:         "ΕΠ.ΩΡΕΣ",
	Night:           "ΝΥΧΤΑ",
	Holiday:         "ΑΡΓΙΑ",
	RegularOvertime: "ΥΠΕΡΕΡΓΑΣΙΑ",
	PremiumOvertime: "ΥΠΕΡΩΡΙΑ",
	SundayCount:     "ΠΛΗΘΟΣ ΚΥΡΙΑΚΩΝ",
}

// Label returns the sheet label of the metric row.
func (m Metric) Label() string {
	if m < 0 || int(m) >= BlockSize {
		return ""
	}
	return metricLabels[m]
}

func (m Metric) String() string { return m.Label() }

// Block is an employee's six consecutive metric rows.
type Block struct {
	Anchor int
}

// Row returns the sheet row of metric m.
func (b Block) Row(m Metric) int { return b.Anchor + int(m) }

// Rows returns all six rows of the block.
func (b Block) Rows() []int {
	rows := make([]int, BlockSize)
	for i := range rows {
		rows[i] = b.Anchor + i
	}
	return rows
}

// Anchor returns the first row of the block containing row. Blocks repeat
// every six rows from row 2; rows above the first block are their own anchor.
func Anchor(row int) int {
	if row < FirstBlockRow {
		return row
	}
	return row - (row-FirstBlockRow)%BlockSize
}

// BlockAt is the block starting at anchor.
func BlockAt(anchor int) Block { return Block{Anchor: anchor} }

// FindLabelRow searches the six rows from anchor, each from the rightmost
// column to the left, for a cell whose normalized text equals label.
func FindLabelRow(store sheet.Store, anchor int, label string) (int, bool) {
	want := sheet.NormalizeLabel(label)
	if want == "" {
		return 0, false
	}
	for r := max(anchor, 1); r < anchor+BlockSize; r++ {
		for c := store.MaxColumn(); c >= 1; c-- {
			if sheet.NormalizeLabelValue(store.Cell(r, c)) == want {
				return r, true
			}
		}
	}
	return 0, false
}

// ResolveBlock returns the metric block of the employee found at row: the
// ΕΠ.ΩΡΕΣ label row inside the band of Anchor(row), or the arithmetic anchor
// when the label is missing.
func ResolveBlock(store sheet.Store, row int) Block {
	anchor := Anchor(row)
	if r, ok := FindLabelRow(store, anchor, EPHours.Label()); ok {
		return BlockAt(r)
	}
	return BlockAt(anchor)
}
