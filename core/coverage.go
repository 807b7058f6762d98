package core

import (
	"math"
	"strconv"
	"strings"
)

// MaxPercentage is the coverage of a subject with nothing to cover.
const MaxPercentage = 100.0

// exactDigits is enough fractional digits to print any float64 exactly.
const exactDigits = 1074

// CoverageRatio returns the percentage of covered lines.
// A subject with no lines to cover is fully covered. Inconsistent counters
// (uncovered above linesToCover, or negative) are not clamped.
func CoverageRatio(linesToCover, uncoveredLines int) float64 {
	if linesToCover == 0 {
		return MaxPercentage
	}
	return (1 - float64(uncoveredLines)/float64(linesToCover)) * MaxPercentage
}

// FormatPercentage renders v with exactly one decimal digit, rounding half-up.
// The decimal separator is always '.'.
//
// Rounding is applied to the exact binary value of v: 0.15 is stored as
// 0.1499... and renders as "0.1".
func FormatPercentage(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}

	s := strconv.FormatFloat(v, 'f', exactDigits, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")
	digits := []byte(intPart + frac[:1])
	if frac[1] >= '5' {
		digits = incrementDecimal(digits)
	}
	n := len(digits)
	return sign + string(digits[:n-1]) + "." + string(digits[n-1:])
}

// incrementDecimal adds one to the unsigned decimal number held in digits.
func incrementDecimal(digits []byte) []byte {
	for i := len(digits) - 1; i >= 0; i-- {
		if digits[i] < '9' {
			digits[i]++
			return digits
		}
		digits[i] = '0'
	}
	return append([]byte{'1'}, digits...)
}

// RoundedGreaterThan reports whether previous is strictly greater than current
// at the one-decimal resolution the remote server exposes.
func RoundedGreaterThan(previous, current float64) bool {
	return previous > current && FormatPercentage(previous) != FormatPercentage(current)
}
