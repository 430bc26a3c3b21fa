package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatInt renders an integer with thousands separators (1234567 -> "1,234,567").
func FormatInt(n int64) string {
	s := strconv.FormatInt(n, 10)

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if negative {
		return "-" + b.String()
	}
	return b.String()
}

// FormatKRW renders a KRW amount as "₩<int>" with separators.
// KRW has no fractional unit, so the value is rounded to the nearest won.
func FormatKRW(amount float64) string {
	return "₩" + FormatInt(int64(amount+0.5))
}

// FormatUSD renders a USD amount as "$<2dp>".
func FormatUSD(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// FormatPercent renders a ratio already expressed in percent points,
// e.g. FormatPercent(12.345, 2) -> "12.35%".
func FormatPercent(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 2
	}
	return strconv.FormatFloat(v, 'f', decimals, 64) + "%"
}
