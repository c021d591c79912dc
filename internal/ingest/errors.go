// backend-go/internal/ingest/errors.go
package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrSheetMissing is returned when a required sheet is absent from the
	// workbook.
	ErrSheetMissing = errors.New("required sheet missing")

	// ErrRowOutOfRange is returned when a fixed-row rollup addresses a row
	// beyond the sheet's bounds. Defaulting here would silently corrupt
	// aggregate KPIs, so the run aborts instead.
	ErrRowOutOfRange = errors.New("fixed row beyond sheet bounds")

	// ErrSchemaDrift is returned when a sheet is narrower than its column
	// map's highest referenced index.
	ErrSchemaDrift = errors.New("sheet narrower than mapped columns")
)

// SheetError ties an ingest failure to its sheet, and to a row when the
// failure is row-specific.
type SheetError struct {
	Sheet string
	Row   int // 1-based; 0 when not row-specific
	Err   error
}

func (e *SheetError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("sheet %q row %d: %v", e.Sheet, e.Row, e.Err)
	}
	return fmt.Sprintf("sheet %q: %v", e.Sheet, e.Err)
}

func (e *SheetError) Unwrap() error { return e.Err }
