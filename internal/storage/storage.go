// Package storage opens payroll and roster workbooks as sheet stores and
// saves them back.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Tiliavir/orometrisi/internal/sheet"
)

var (
	// ErrSheetNotFound is returned when none of the requested sheet names exist.
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrReadOnly is returned when writing to a legacy .xls workbook.
	ErrReadOnly = errors.New("workbook is read-only")
)

// Sheet names used by the weekly and payroll workbooks. The roster sheet is
// sometimes saved with a trailing space.
const (
	RosterSheet  = "ΦΟΡΜΑ ΚΑΤΑΧΩΡΙΣΗΣ"
	HoursSheet   = "ΥΠΕΡΕΡΓΑΣΙΕΣ-ΥΠΕΡΩΡΙΕΣ"
	PayrollSheet = "ΩΡΟΜΕΤΡΗΣΗ"
)

// DefaultOutputName is the file the calculated payroll is saved as.
const DefaultOutputName = "Payroll_Calculated.xlsx"

// BaseDir returns the root data directory (~/.oro).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".oro"), nil
}

// Workbook is an opened spreadsheet file.
type Workbook struct {
	path   string
	file   *excelize.File // nil for .xls
	names  []string
	sheets map[string]sheet.Store
}

// Open loads the workbook at path. Files ending in .xls are read with the
// legacy reader and cannot be saved; everything else goes through excelize.
func Open(path string) (*Workbook, error) {
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		return openXLS(path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("storage error opening %s: %w", path, err)
	}
	return fromExcelize(path, f)
}

// New wraps an in-memory excelize file, e.g. one built with
// excelize.NewFile. path is where SaveAs defaults to.
func New(path string, f *excelize.File) (*Workbook, error) {
	return fromExcelize(path, f)
}

func fromExcelize(path string, f *excelize.File) (*Workbook, error) {
	wb := &Workbook{path: path, file: f, sheets: map[string]sheet.Store{}}
	for _, name := range f.GetSheetList() {
		s, err := newXLSXSheet(f, name)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("storage error reading sheet %q of %s: %w", name, path, err)
		}
		wb.names = append(wb.names, name)
		wb.sheets[name] = s
	}
	return wb, nil
}

// Path returns the file the workbook was opened from.
func (w *Workbook) Path() string { return w.path }

// SheetNames lists the sheets in workbook order.
func (w *Workbook) SheetNames() []string { return append([]string(nil), w.names...) }

// ReadOnly reports whether the workbook cannot be written.
func (w *Workbook) ReadOnly() bool { return w.file == nil }

// Sheet returns the first sheet whose name is one of candidates. Exact names
// win; failing that, names are compared with surrounding spaces trimmed.
func (w *Workbook) Sheet(candidates ...string) (sheet.Store, error) {
	for _, c := range candidates {
		if s, ok := w.sheets[c]; ok {
			return s, nil
		}
	}
	trimmed := make(map[string]string, len(w.names))
	for _, n := range w.names {
		trimmed[strings.TrimSpace(n)] = n
	}
	for _, c := range candidates {
		if n, ok := trimmed[strings.TrimSpace(c)]; ok {
			return w.sheets[n], nil
		}
	}
	return nil, fmt.Errorf("%w: none of %q in %s", ErrSheetNotFound, candidates, filepath.Base(w.path))
}

// SaveAs atomically writes the workbook to path: it is written to a
// temporary file in the same directory, then renamed.
func (w *Workbook) SaveAs(path string) error {
	if w.file == nil {
		return fmt.Errorf("%s: %w", w.path, ErrReadOnly)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".oro-*.xlsx")
	if err != nil {
		return fmt.Errorf("storage error creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := w.file.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	if w.file == nil {
		return nil
	}
	return w.file.Close()
}

// OutputPath returns where the calculated payroll is saved: override when
// set, otherwise name next to the payroll input.
func OutputPath(payrollPath, name, override string) string {
	if override != "" {
		return override
	}
	if name == "" {
		name = DefaultOutputName
	}
	return filepath.Join(filepath.Dir(payrollPath), name)
}
