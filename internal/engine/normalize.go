package engine

import (
	"math"
	"strconv"
	"strings"
)

// normalize fits v to the display. It returns the value to commit together
// with the buffer that shows it. Values whose integer part needs more than
// MaxDigitCount digits become signed infinity; values with too many
// fractional digits are rounded (half to even on the exact binary value).
// Non-finite results come back with an empty buffer.
func normalize(v float64) (float64, InputBuffer) {
	if !isFinite(v) {
		return overflow(v)
	}

	s := formatAbs(v)
	intDigits, allDigits := countDigits(s)
	if intDigits > MaxDigitCount {
		return overflow(v)
	}

	if allDigits > MaxDigitCount {
		rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', MaxDigitCount-intDigits, 64), 64)
		if err != nil {
			return overflow(v)
		}
		v = rounded
		s = formatAbs(v)
		if intDigits, _ = countDigits(s); intDigits > MaxDigitCount {
			return overflow(v)
		}
	}

	return v, bufferFromDecimal(s, v < 0)
}

func overflow(v float64) (float64, InputBuffer) {
	return v * math.Inf(1), NewInputBuffer()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// formatAbs renders |v| as the shortest decimal that round-trips, without an
// exponent.
func formatAbs(v float64) string {
	return strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
}

// countDigits returns the digits left of the separator and the digits
// overall.
func countDigits(s string) (intDigits, allDigits int) {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return len(s), len(s)
	}
	return dot, len(s) - 1
}

// FormatNumber renders v the way the display and history show it.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
