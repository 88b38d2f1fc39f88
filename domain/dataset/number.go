package dataset

import (
	"encoding/json"
	"math"
	"strconv"
)

// AbsentMarker is displayed wherever a numeric field could not be resolved
const AbsentMarker = "N/A"

// Number is a display-safe numeric value: either finite or explicitly absent.
// It never holds NaN or an infinity.
type Number struct {
	value float64
	valid bool
}

// Some wraps v. NaN and infinities become Absent.
func Some(v float64) Number {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}
	}
	return Number{value: v, valid: true}
}

// Absent is the unresolved number
func Absent() Number {
	return Number{}
}

// Valid reports whether the number resolved
func (n Number) Valid() bool {
	return n.valid
}

// Value returns the number and whether it resolved
func (n Number) Value() (float64, bool) {
	return n.value, n.valid
}

// Float returns the number, or 0 when absent
func (n Number) Float() float64 {
	return n.value
}

// String renders the shortest exact decimal form, or the absent marker
func (n Number) String() string {
	if !n.valid {
		return AbsentMarker
	}
	return strconv.FormatFloat(n.value, 'f', -1, 64)
}

// MarshalJSON emits the number, or the absent marker as a string
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return json.Marshal(AbsentMarker)
	}
	return json.Marshal(n.value)
}
