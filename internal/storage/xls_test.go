package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/Tiliavir/orometrisi/internal/sheet"
)

func TestDecodeXLS(t *testing.T) {
	cases := []struct {
		in   string
		kind sheet.Kind
	}{
		{"", sheet.KindEmpty},
		{"  ", sheet.KindEmpty},
		{"FormulaCol", sheet.KindEmpty},
		{"45846", sheet.KindNumber},
		{"0.75", sheet.KindNumber},
		{"2025-07-13T00:00:00Z", sheet.KindDateTime},
		{"08:00-16:00", sheet.KindText},
		{"ΡΕΠΟ", sheet.KindText},
	}
	for _, c := range cases {
		if got := decodeXLS(c.in); got.Kind() != c.kind {
			t.Errorf("decodeXLS(%q) kind = %s, want %s", c.in, got.Kind(), c.kind)
		}
	}

	d, ok := decodeXLS("2025-07-13T00:00:00Z").Date()
	if !ok || !d.Equal(time.Date(2025, 7, 13, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v (%v)", d, ok)
	}
}

func TestReadOnlySheet(t *testing.T) {
	mem := sheet.NewMemory("ΦΟΡΜΑ ΚΑΤΑΧΩΡΙΣΗΣ")
	if err := mem.SetCell(1, 1, sheet.Text("x")); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	var s sheet.Store = readOnlySheet{mem}
	if err := s.SetCell(1, 1, sheet.Text("y")); !errors.Is(err, ErrReadOnly) {
		t.Errorf("SetCell err = %v, want ErrReadOnly", err)
	}
	if got := s.Cell(1, 1).String(); got != "x" {
		t.Errorf("Cell = %q, want x", got)
	}

	wb := &Workbook{path: "week.xls"}
	if err := wb.SaveAs("out.xlsx"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("SaveAs err = %v, want ErrReadOnly", err)
	}
	if !wb.ReadOnly() {
		t.Error("ReadOnly = false")
	}
}
