// backend-go/internal/workbook/fold.go
package workbook

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// turkishFold maps Turkish letters to their closest ASCII base letter before
// the generic case fold. The dotted capital İ and dotless ı must be handled
// here: strings.ToLower turns İ into "i" plus a combining dot, which would
// break idempotence.
var turkishFold = strings.NewReplacer(
	"ç", "c", "Ç", "c",
	"ğ", "g", "Ğ", "g",
	"ı", "i", "İ", "i", "I", "i",
	"ö", "o", "Ö", "o",
	"ş", "s", "Ş", "s",
	"ü", "u", "Ü", "u",
)

// Fold case-folds s and strips diacritics so that searches are case- and
// accent-insensitive. Fold is idempotent; it is not reversible.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	s = turkishFold.Replace(s)
	s = strings.ToLower(s)

	strip := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(strip, s)
	if err != nil {
		return s
	}
	return folded
}
