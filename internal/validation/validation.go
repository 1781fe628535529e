package validation

import (
	"strconv"
	"strings"
)

// Violations collects per-field validation errors keyed by form field name.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

// Float coerces a form value into a float64, recording a violation when the
// value is missing or not a number. Returns 0 on failure.
func Float(field, value string, v Violations) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		v[field] = "required"
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		v[field] = "not_a_number"
		return 0
	}
	return f
}

// Int coerces a form value into an int, recording a violation when the value
// is missing or not an integer. Returns 0 on failure.
func Int(field, value string, v Violations) int {
	value = strings.TrimSpace(value)
	if value == "" {
		v[field] = "required"
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		v[field] = "not_an_integer"
		return 0
	}
	return n
}
