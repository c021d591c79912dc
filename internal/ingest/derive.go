// backend-go/internal/ingest/derive.go
package ingest

import (
	"strconv"
	"strings"

	"github.com/bayidash/backend-go/internal/domain"
)

// GrowthPercent returns the growth of curr over prior in percent. A prior of
// zero or less yields 0: there is no baseline to report growth against.
func GrowthPercent(curr, prior float64) float64 {
	if prior <= 0 {
		return 0
	}
	return (curr - prior) / prior * 100
}

// DebtLabel renders a balance for display: the no-debt sentinel at or below
// zero, otherwise a grouped one-decimal amount.
func DebtLabel(balance float64) string {
	if balance <= 0 {
		return domain.DebtNone
	}
	s := strconv.FormatFloat(balance, 'f', 1, 64)
	dot := strings.IndexByte(s, '.')
	return groupDigits(s[:dot]) + s[dot:] + " TL"
}

func groupDigits(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	rem := len(s) % 3
	if rem > 0 {
		b.WriteString(s[:rem])
	}
	for i := rem; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

type channelRule struct {
	prefix  string
	channel string
}

// channelRules is an ordered prefix-match table over the first two
// characters of the dealer type code. First match wins.
var channelRules = []channelRule{
	{"08", domain.ChannelMilitary},
	{"09", domain.ChannelPrisonCanteen},
	{"10", domain.ChannelLocalChain},
	{"11", domain.ChannelFuelStation},
	{"01", domain.ChannelTraditional},
	{"02", domain.ChannelTraditional},
	{"03", domain.ChannelGeneral},
	{"04", domain.ChannelGeneral},
	{"05", domain.ChannelGeneral},
	{"06", domain.ChannelGeneral},
	{"07", domain.ChannelGeneral},
}

// ChannelOf classifies a dealer type code into a named channel. Unknown
// prefixes map to the unclassified channel, never an error.
func ChannelOf(typeCode string) string {
	code := strings.TrimSpace(typeCode)
	for _, r := range channelRules {
		if strings.HasPrefix(code, r.prefix) {
			return r.channel
		}
	}
	return domain.ChannelUnclassified
}

var weekdayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// VisitDays maps seven Monday-first positional flags to the ordered subset
// of weekday names whose cell equals 1.
func VisitDays(flags [7]float64) []string {
	days := make([]string, 0, 7)
	for i, f := range flags {
		if f == 1 {
			days = append(days, weekdayNames[i])
		}
	}
	return days
}
