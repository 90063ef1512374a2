package ledger

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// shortSuffixes are the idle-game magnitude suffixes used on every pane.
var shortSuffixes = []string{"", "K", "M", "B", "T", "Qa", "Qi"}

// FormatShort renders a quantity with game-style magnitude suffixes:
// 1.23K, 4.56M, and so on. Rounding happens here, at presentation time
// only; stored quantities are never rounded.
func FormatShort(value float64) string {
	if value < 0 {
		return "-" + FormatShort(-value)
	}
	v := value
	for _, suffix := range shortSuffixes {
		if v < 1000 {
			switch {
			case v < 10:
				return fmt.Sprintf("%.2f%s", v, suffix)
			case v < 100:
				return fmt.Sprintf("%.1f%s", v, suffix)
			default:
				return fmt.Sprintf("%.0f%s", v, suffix)
			}
		}
		v /= 1000
	}
	return fmt.Sprintf("%.2e", value)
}

// FormatCount renders an integer counter with thousands separators
// (tick counts, tasks completed).
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

// Label returns the short display label for a resource kind.
func Label(k Kind) string {
	switch k {
	case Compute:
		return "CPU"
	case Bandwidth:
		return "BW"
	case Storage:
		return "SSD"
	case Reputation:
		return "REP"
	case Crypto:
		return "COIN"
	}
	return string(k)
}
