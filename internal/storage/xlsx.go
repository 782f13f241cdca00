package storage

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Tiliavir/orometrisi/internal/sheet"
)

// xlsxSheet is a sheet.Store over one worksheet of an excelize file. Reads
// and writes go straight to the file.
type xlsxSheet struct {
	id     sheet.StoreID
	f      *excelize.File
	name   string
	maxRow int
	maxCol int
}

func newXLSXSheet(f *excelize.File, name string) (*xlsxSheet, error) {
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	s := &xlsxSheet{id: sheet.NewStoreID(), f: f, name: name, maxRow: len(rows)}
	for _, r := range rows {
		s.maxCol = max(s.maxCol, len(r))
	}
	return s, nil
}

func (s *xlsxSheet) ID() sheet.StoreID { return s.id }
func (s *xlsxSheet) Name() string      { return s.name }
func (s *xlsxSheet) MaxRow() int       { return s.maxRow }
func (s *xlsxSheet) MaxColumn() int    { return s.maxCol }

func (s *xlsxSheet) Cell(row, col int) sheet.Value {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return sheet.Empty()
	}
	typ, err := s.f.GetCellType(s.name, ref)
	if err != nil {
		return sheet.Empty()
	}
	raw, err := s.f.GetCellValue(s.name, ref, excelize.Options{RawCellValue: true})
	if err != nil || raw == "" {
		return sheet.Empty()
	}
	return decodeCell(typ, raw)
}

// decodeCell turns a raw excelize cell into a Value. Numbers, including
// dates and times, stay numeric; the engine reads them as Excel serials and
// day fractions.
func decodeCell(typ excelize.CellType, raw string) sheet.Value {
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError, excelize.CellTypeBool:
		return sheet.Text(raw)
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return sheet.Number(f)
	}
	return sheet.Text(raw)
}

func (s *xlsxSheet) SetCell(row, col int, v sheet.Value) error {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return sheet.ErrBadCoordinates
	}
	switch v.Kind() {
	case sheet.KindEmpty:
		err = s.f.SetCellValue(s.name, ref, nil)
	case sheet.KindText:
		text, _ := v.Text()
		err = s.f.SetCellStr(s.name, ref, text)
	case sheet.KindNumber:
		f, _ := v.Float()
		err = s.f.SetCellFloat(s.name, ref, f, -1, 64)
	case sheet.KindTime:
		t, _ := v.Time()
		frac := float64(t.Hour()*3600+t.Minute()*60+t.Second()) / 86400
		err = s.f.SetCellFloat(s.name, ref, frac, -1, 64)
	case sheet.KindDateTime:
		t, _ := v.Time()
		err = s.f.SetCellValue(s.name, ref, t)
	}
	if err != nil {
		return err
	}
	if !v.IsEmpty() {
		s.maxRow = max(s.maxRow, row)
		s.maxCol = max(s.maxCol, col)
	}
	return nil
}
