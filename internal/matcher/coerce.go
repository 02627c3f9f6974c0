package matcher

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Stringify renders a value the way diagnostics and substring matching
// need it: whole floats without a trailing fraction, lists joined with
// commas.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = Stringify(e)
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(t, ", ")
	default:
		return fmt.Sprintf("%v", t)
	}
}

// asInt reports whether v coerces to an integer: native integer types,
// whole floats, and string-looking integers all qualify.
func asInt(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		return int64(t), true
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return int64(t), true
		}
	case float32:
		f := float64(t)
		if f == math.Trunc(f) {
			return int64(f), true
		}
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err == nil {
			return n, true
		}
	}
	return 0, false
}

// equalValues tests exact-strategy equality after numeric/string
// coercion. A list expected value matches when the actual equals any
// element, or element-wise when both are lists.
func equalValues(expected, actual any) bool {
	if exp, ok := expected.([]any); ok {
		if act, ok := actual.([]any); ok {
			if len(exp) != len(act) {
				return false
			}
			for i := range exp {
				if !equalScalar(exp[i], act[i]) {
					return false
				}
			}
			return true
		}
		for _, e := range exp {
			if equalScalar(e, actual) {
				return true
			}
		}
		return false
	}
	return equalScalar(expected, actual)
}

func equalScalar(expected, actual any) bool {
	if en, ok := asInt(expected); ok {
		if an, ok := asInt(actual); ok {
			return en == an
		}
	}
	return Stringify(expected) == Stringify(actual)
}
