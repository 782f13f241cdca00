// Package sheet defines the tabular store the payroll engine reads from and
// writes to, together with the cell value variant and column addressing.
package sheet

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/xuri/excelize/v2"
)

// ErrBadCoordinates is returned when a row or column is outside the sheet.
var ErrBadCoordinates = errors.New("cell coordinates out of range")

// StoreID identifies one store for the lifetime of the process. It is the
// store half of every cache key.
type StoreID uint64

var lastStoreID atomic.Uint64

// NewStoreID allocates a fresh StoreID.
func NewStoreID() StoreID {
	return StoreID(lastStoreID.Add(1))
}

// Store is a single worksheet addressed by 1-based row and column.
type Store interface {
	ID() StoreID
	Name() string
	Cell(row, col int) Value
	SetCell(row, col int, v Value) error
	MaxRow() int
	MaxColumn() int
}

// ParseRef splits an A1-style reference such as "H12" into row and column.
func ParseRef(ref string) (row, col int, err error) {
	col, row, err = excelize.CellNameToCoordinates(ref)
	if err != nil {
		return 0, 0, fmt.Errorf("cell %q: %w", ref, err)
	}
	return row, col, nil
}

// CellAt reads the cell at an A1-style reference.
func CellAt(s Store, ref string) (Value, error) {
	row, col, err := ParseRef(ref)
	if err != nil {
		return Value{}, err
	}
	return s.Cell(row, col), nil
}

// SetCellAt writes the cell at an A1-style reference.
func SetCellAt(s Store, ref string, v Value) error {
	row, col, err := ParseRef(ref)
	if err != nil {
		return err
	}
	return s.SetCell(row, col, v)
}

// Ref renders 1-based coordinates as an A1-style reference. Invalid
// coordinates render as "?".
func Ref(row, col int) string {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "?"
	}
	return ref
}
