package formatter

import (
	"fmt"
	"math"
	"strings"
)

// FormatRate renders a signed per-minute rate with up to two decimals,
// trailing zeros trimmed. Nonzero rates always carry an explicit sign so
// production and consumption read apart in a column: "+30", "-7.5", "0".
func FormatRate(rate float64) string {
	if rate == 0 {
		return "0"
	}
	s := trimZeros(fmt.Sprintf("%.2f", math.Abs(rate)))
	// Rounding can collapse a tiny rate to zero; keep the sign so the
	// direction stays visible.
	if rate > 0 {
		return "+" + s
	}
	return "-" + s
}

// StyledRate renders FormatRate colored by sign.
func StyledRate(rate float64) string {
	return RateStyle(rate).Render(FormatRate(rate))
}

// FormatPower renders signed net megawatts: "+75 MW", "-9.6 MW".
func FormatPower(mw float64) string {
	return FormatRate(mw) + " MW"
}

// StyledPower renders FormatPower colored by sign.
func StyledPower(mw float64) string {
	return RateStyle(mw).Render(FormatPower(mw))
}

// FormatClock renders a clock speed percentage without trailing zeros:
// "100%", "62.5%".
func FormatClock(percent float64) string {
	return trimZeros(fmt.Sprintf("%.2f", percent)) + "%"
}

// FormatCount renders a copy count multiplier: "×3", "×2.5".
func FormatCount(copies float64) string {
	return "×" + trimZeros(fmt.Sprintf("%.2f", copies))
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	return strings.TrimRight(strings.TrimRight(s, "0"), ".")
}
