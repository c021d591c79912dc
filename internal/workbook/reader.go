// backend-go/internal/workbook/reader.go
package workbook

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook wraps an open spreadsheet file.
type Workbook struct {
	f *excelize.File
}

// Open opens the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Workbook{f: f}, nil
}

// New wraps an already-open excelize file (used by tests that build
// workbooks in memory).
func New(f *excelize.File) *Workbook {
	return &Workbook{f: f}
}

func (w *Workbook) Close() error {
	return w.f.Close()
}

// HasSheet reports whether a sheet with exactly this name exists. Matching
// is case- and diacritic-sensitive on purpose: the export's sheet names are
// part of its contract.
func (w *Workbook) HasSheet(name string) bool {
	idx, err := w.f.GetSheetIndex(name)
	return err == nil && idx >= 0
}

// Sheet returns a handle for the named sheet.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	if !w.HasSheet(name) {
		return nil, fmt.Errorf("sheet %q not found", name)
	}
	return &Sheet{f: w.f, name: name}, nil
}

// Sheet is a handle on one worksheet.
type Sheet struct {
	f    *excelize.File
	name string
}

func (s *Sheet) Name() string { return s.name }

// Width returns the number of columns in the sheet's used range, or 0 when
// the dimension is unknown.
func (s *Sheet) Width() int {
	dim, err := s.f.GetSheetDimension(s.name)
	if err != nil || dim == "" {
		return 0
	}
	parts := strings.Split(dim, ":")
	col, _, err := excelize.CellNameToCoordinates(parts[len(parts)-1])
	if err != nil {
		return 0
	}
	return col
}

// Rows returns a lazy forward-only iterator over the sheet's rows, skipping
// the first skip header rows. The iterator is not restartable.
func (s *Sheet) Rows(skip int) (*RowIter, error) {
	rows, err := s.f.Rows(s.name)
	if err != nil {
		return nil, fmt.Errorf("stream sheet %q: %w", s.name, err)
	}
	it := &RowIter{rows: rows}
	for i := 0; i < skip; i++ {
		if !it.Next() {
			break
		}
	}
	return it, nil
}

// AllRows materializes every row of the sheet. Used by the fixed-row rollup
// mappers that address absolute row indices.
func (s *Sheet) AllRows() ([]Row, error) {
	raw, err := s.f.GetRows(s.name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", s.name, err)
	}
	out := make([]Row, len(raw))
	for i, r := range raw {
		out[i] = Row(r)
	}
	return out, nil
}

// RowIter streams rows from a sheet.
type RowIter struct {
	rows *excelize.Rows
	cur  Row
	err  error
}

func (it *RowIter) Next() bool {
	if it.err != nil || !it.rows.Next() {
		return false
	}
	cols, err := it.rows.Columns()
	if err != nil {
		it.err = err
		return false
	}
	it.cur = Row(cols)
	return true
}

func (it *RowIter) Row() Row { return it.cur }

func (it *RowIter) Err() error { return it.err }

func (it *RowIter) Close() error { return it.rows.Close() }

// Row is a fixed-order list of raw cell values. All accessors degrade to the
// field default when the row is shorter than the requested column.
type Row []string

// Raw returns the untouched cell value, or "" past the end of the row.
func (r Row) Raw(i int) string {
	if i >= 0 && i < len(r) {
		return r[i]
	}
	return ""
}

func (r Row) Text(i int) string    { return Text(r.Raw(i)) }
func (r Row) Number(i int) float64 { return Number(r.Raw(i)) }
func (r Row) Date(i int) string    { return DateSerial(r.Raw(i)) }
func (r Row) Code(i int) string    { return CanonicalCode(r.Raw(i)) }
