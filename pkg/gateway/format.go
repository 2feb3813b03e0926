package gateway

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// FormatResult converts an evaluator value to its display text.
//
// Integers print in base 10. Floats are rounded to precision significant
// digits and printed in plain decimal when 1e-7 <= |v| < 1e21, otherwise in
// exponent form ("1e+21", "1.5e-8"). Infinities print as "Infinity" and
// "-Infinity", NaN as "NaN".
func FormatResult(value any, precision int) string {
	if s, ok := value.(fmt.Stringer); ok {
		return s.String()
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return formatFloat(rv.Float(), precision)
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.String:
		return rv.String()
	}
	return fmt.Sprint(value)
}

func formatFloat(f float64, precision int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	if precision > 0 {
		if r, err := strconv.ParseFloat(strconv.FormatFloat(f, 'g', precision, 64), 64); err == nil {
			f = r
		}
	}
	if f == 0 {
		return "0" // also folds -0
	}

	if abs := math.Abs(f); abs >= 1e-7 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return trimExponent(strconv.FormatFloat(f, 'g', -1, 64))
}

// trimExponent turns "1.5e-08" into "1.5e-8".
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 > len(s) {
		return s
	}
	mantissa, sign, digits := s[:i], s[i+1:i+2], strings.TrimLeft(s[i+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + sign + digits
}
