// backend-go/internal/workbook/coerce.go
package workbook

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// dateEpoch is the spreadsheet serial-date anchor. The nominal 1900 epoch is
// shifted back two days to absorb the engine's phantom 1900 leap day, so
// serial arithmetic lands on the same dates as the existing records.
var dateEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Number coerces a raw cell value to a float64, defaulting to 0 for absent
// or unparseable cells.
func Number(v string) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// Text trims a raw cell value. The empty string is the explicit absent value.
func Text(v string) string {
	return strings.TrimSpace(v)
}

// CanonicalCode normalizes a dealer/document code cell to one canonical
// string: integer-valued floats ("1024.0") collapse to their integer form,
// anything else is trimmed verbatim.
func CanonicalCode(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return v
	}
	if f != math.Trunc(f) {
		return v
	}
	return strconv.FormatInt(int64(f), 10)
}

// DateSerial decodes a spreadsheet date-serial cell into DD/MM/YYYY. String
// cells that are not numeric pass through unchanged (already-formatted
// dates).
func DateSerial(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return v
	}
	return dateEpoch.AddDate(0, 0, int(f)).Format("02/01/2006")
}

// DateSortKey derives a sortable yyyymmdd integer from a DD/MM/YYYY display
// date. Dots and dashes are accepted as separators. Unparseable input yields
// 0 so malformed dates sort last under a descending order.
func DateSortKey(display string) int {
	display = strings.TrimSpace(display)
	if display == "" {
		return 0
	}
	normalized := strings.NewReplacer(".", "/", "-", "/").Replace(display)
	parts := strings.Split(normalized, "/")
	if len(parts) != 3 {
		return 0
	}
	day, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		return 0
	}
	return year*10000 + month*100 + day
}
