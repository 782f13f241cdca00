package storage

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"

	"github.com/Tiliavir/orometrisi/internal/sheet"
)

// maxXLSColumns is the BIFF8 column limit.
const maxXLSColumns = 256

// readOnlySheet is a loaded .xls sheet. Writes fail with ErrReadOnly.
type readOnlySheet struct {
	*sheet.Memory
}

func (readOnlySheet) SetCell(int, int, sheet.Value) error { return ErrReadOnly }

func openXLS(path string) (*Workbook, error) {
	book, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("storage error opening %s: %w", path, err)
	}
	if book == nil {
		return nil, fmt.Errorf("storage error opening %s: not an xls workbook", path)
	}
	wb := &Workbook{path: path, sheets: map[string]sheet.Store{}}
	for i := 0; i < book.NumSheets(); i++ {
		ws := book.GetSheet(i)
		if ws == nil {
			continue
		}
		mem, err := loadXLSSheet(ws)
		if err != nil {
			return nil, fmt.Errorf("storage error reading sheet %q of %s: %w", ws.Name, path, err)
		}
		wb.names = append(wb.names, ws.Name)
		wb.sheets[ws.Name] = readOnlySheet{mem}
	}
	return wb, nil
}

func loadXLSSheet(ws *xls.WorkSheet) (*sheet.Memory, error) {
	mem := sheet.NewMemory(ws.Name)
	for r := 0; r <= int(ws.MaxRow); r++ {
		row := xlsRow(ws, r)
		if row == nil {
			continue
		}
		for c := 0; c < maxXLSColumns; c++ {
			v := decodeXLS(row.Col(c))
			if v.IsEmpty() {
				continue
			}
			if err := mem.SetCell(r+1, c+1, v); err != nil {
				return nil, err
			}
		}
	}
	return mem, nil
}

// xlsRow returns row i, or nil when the sheet has no such row. The reader
// dereferences missing rows, so the panic is turned into nil.
func xlsRow(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}

// decodeXLS reads the string form the legacy reader gives every cell.
// Numbers come back numeric, dates with a custom format as RFC 3339, and
// formulas only as a placeholder without their cached result.
func decodeXLS(s string) sheet.Value {
	s = strings.TrimSpace(s)
	switch {
	case s == "", s == "FormulaCol":
		return sheet.Empty()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return sheet.Number(f)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return sheet.DateTime(t)
	}
	return sheet.Text(s)
}
