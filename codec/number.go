package codec

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders f the way JavaScript's Number#toString does:
// plain decimal notation for 1e-6 <= |f| < 1e21, exponent notation
// otherwise, and the literals NaN, Infinity and -Infinity.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}

// ParseNumber parses a trimmed decimal or exponent literal, including the
// JavaScript spellings Infinity and -Infinity.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	}
	return strconv.ParseFloat(s, 64)
}
