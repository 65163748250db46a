package validation

import (
	"math"
	"strings"
)

// Violations maps a form field to a translation code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 || math.IsNaN(val) || math.IsInf(val, 0) {
		v[field] = "must_be_positive"
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 || math.IsNaN(val) || math.IsInf(val, 0) {
		v[field] = "must_not_be_negative"
	}
}
