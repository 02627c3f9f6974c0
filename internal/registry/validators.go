package registry

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/eval-cli/internal/model"
)

// builtinValidators maps validator names used in baseline fixture files
// to their implementations.
var builtinValidators = map[string]model.ValidatorFunc{
	"non_empty":    validateNonEmpty,
	"url":          validateURL,
	"year":         validateYear,
	"positive_int": validatePositiveInt,
	"one_of":       validateOneOf,
}

// ValidatorByName resolves a named custom validator declared in a
// baseline fixture.
func ValidatorByName(name string) (model.ValidatorFunc, error) {
	v, ok := builtinValidators[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		names := make([]string, 0, len(builtinValidators))
		for n := range builtinValidators {
			names = append(names, n)
		}
		return nil, eris.Errorf("registry: unknown validator %q (known: %s)", name, strings.Join(names, ", "))
	}
	return v, nil
}

func validateNonEmpty(actual, _ any) (bool, string, error) {
	s := fmt.Sprintf("%v", actual)
	if strings.TrimSpace(s) == "" || actual == nil {
		return false, "value is empty", nil
	}
	return true, "", nil
}

func validateURL(actual, _ any) (bool, string, error) {
	s, ok := actual.(string)
	if !ok {
		return false, fmt.Sprintf("expected a URL string, got %T", actual), nil
	}
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false, "", eris.Wrapf(err, "parse url %q", s)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false, fmt.Sprintf("url %q missing http(s) scheme", s), nil
	}
	if u.Host == "" {
		return false, fmt.Sprintf("url %q missing host", s), nil
	}
	return true, "", nil
}

func validateYear(actual, _ any) (bool, string, error) {
	n, ok := coerceInt(actual)
	if !ok {
		return false, fmt.Sprintf("%v is not a year", actual), nil
	}
	maxYear := int64(time.Now().Year() + 1)
	if n < 1800 || n > maxYear {
		return false, fmt.Sprintf("year %d outside [1800,%d]", n, maxYear), nil
	}
	return true, "", nil
}

func validatePositiveInt(actual, _ any) (bool, string, error) {
	n, ok := coerceInt(actual)
	if !ok || n <= 0 {
		return false, fmt.Sprintf("%v is not a positive integer", actual), nil
	}
	return true, "", nil
}

func validateOneOf(actual, expected any) (bool, string, error) {
	opts, ok := expected.([]any)
	if !ok {
		return false, "", eris.New("one_of validator requires a list expected value")
	}
	got := strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", actual)))
	for _, o := range opts {
		if strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", o))) == got {
			return true, "", nil
		}
	}
	return false, fmt.Sprintf("%v not among allowed values", actual), nil
}

func coerceInt(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		return int64(t), t == float64(int64(t))
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	}
	return 0, false
}
