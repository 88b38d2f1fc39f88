package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"salesdash/domain/dataset"

	"github.com/dustin/go-humanize"
	"github.com/montanaflynn/stats"
)

// Plain renders a number the way a JavaScript String(n) would: shortest
// decimal, switching to exponent form below 1e-6 and from 1e21.
func Plain(n dataset.Number) string {
	v, ok := n.Value()
	if !ok {
		return dataset.AbsentMarker
	}
	abs := math.Abs(v)
	if abs >= 1e21 || (abs != 0 && abs < 1e-6) {
		return jsExponent(strconv.FormatFloat(v, 'e', -1, 64))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Fixed renders a number with exactly places decimals
func Fixed(n dataset.Number, places int) string {
	v, ok := n.Value()
	if !ok {
		return dataset.AbsentMarker
	}
	rounded, err := stats.Round(v, places)
	if err != nil {
		rounded = v
	}
	return strconv.FormatFloat(rounded, 'f', places, 64)
}

// Locale renders a number with thousands separators and at most three
// decimals
func Locale(n dataset.Number) string {
	v, ok := n.Value()
	if !ok {
		return dataset.AbsentMarker
	}
	rounded, err := stats.Round(v, 3)
	if err != nil {
		rounded = v
	}
	if rounded == math.Trunc(rounded) && math.Abs(rounded) < 1<<53 {
		return humanize.Comma(int64(rounded))
	}
	return humanize.Commaf(rounded)
}

// Percent renders a plain number with a percent sign
func Percent(n dataset.Number) string {
	if !n.Valid() {
		return dataset.AbsentMarker
	}
	return Plain(n) + "%"
}

// Currency renders a rupee amount without decimals
func Currency(n dataset.Number) string {
	if !n.Valid() {
		return dataset.AbsentMarker
	}
	return "₹" + Fixed(n, 0)
}

// Exponential renders scientific notation with digits fraction digits, in
// the JavaScript toExponential form: 0.0023 -> "2.30e-3".
func Exponential(n dataset.Number, digits int) string {
	v, ok := n.Value()
	if !ok {
		return dataset.AbsentMarker
	}
	return jsExponent(strconv.FormatFloat(v, 'e', digits, 64))
}

// jsExponent rewrites Go's "2.30e-03" exponent into "2.30e-3"
func jsExponent(s string) string {
	mantissa, exp, found := strings.Cut(s, "e")
	if !found {
		return s
	}
	e, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%se%+d", mantissa, e)
}
