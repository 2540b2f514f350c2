package live

import (
	"fmt"
	"strconv"
	"strings"
)

// Placeholder is rendered for missing or non-positive values.
const Placeholder = "—"

// FormatCentiseconds renders a duration in hundredths of a second as
// "S.cc" or "M:SS.cc". Values at or below zero render as Placeholder.
func FormatCentiseconds(cs int64) string {
	if cs <= 0 {
		return Placeholder
	}
	seconds := cs / 100
	hundredths := cs % 100
	if seconds >= 60 {
		return fmt.Sprintf("%d:%02d.%02d", seconds/60, seconds%60, hundredths)
	}
	return fmt.Sprintf("%d.%02d", seconds, hundredths)
}

func FormatRanking(ranking *int) string {
	if ranking == nil {
		return Placeholder
	}
	return strconv.Itoa(*ranking)
}

// FlagEmoji turns an ISO 3166-1 alpha-2 code into its regional indicator pair.
func FlagEmoji(iso2 string) string {
	code := strings.ToUpper(strings.TrimSpace(iso2))
	if len(code) != 2 {
		return ""
	}
	var b strings.Builder
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + (r - 'A'))
	}
	return b.String()
}
