// Package matcher compares extracted field values against baseline
// expectations. Match is a pure function: identical inputs always
// produce identical results, so scores are comparable across backends.
package matcher

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sells-group/eval-cli/internal/model"
)

// Match evaluates one expectation against the actual extracted value and
// returns the per-field result with a [0,1] confidence. It never panics
// and never returns an error; validator failures surface as diagnostics.
func Match(exp *model.FieldExpectation, actual any) model.FieldMatchResult {
	res := model.FieldMatchResult{
		FieldName:     exp.FieldName,
		ExpectedValue: exp.ExpectedValue,
		ActualValue:   actual,
		Strategy:      exp.Strategy,
	}

	if isMissing(actual) {
		if exp.Required {
			res.Diagnostic = "required field missing"
			return res
		}
		// Optional fields contribute zero score without counting as
		// failures.
		res.Matched = true
		return res
	}

	switch exp.Strategy {
	case model.StrategyExact:
		res.Matched, res.Confidence, res.Diagnostic = matchExact(exp, actual)
	case model.StrategyKeyword:
		res.Matched, res.Confidence, res.Diagnostic = matchKeyword(exp, actual)
	case model.StrategyFuzzy:
		res.Matched, res.Confidence, res.Diagnostic = matchFuzzy(exp, actual)
	case model.StrategyRegex:
		res.Matched, res.Confidence, res.Diagnostic = matchRegex(exp, actual)
	case model.StrategyCustom:
		res.Matched, res.Confidence, res.Diagnostic = matchCustom(exp, actual)
	default:
		res.Diagnostic = fmt.Sprintf("unknown strategy %q", exp.Strategy)
	}

	return res
}

// isMissing applies the missing-value rule: nil, or a string that is
// empty or whitespace-only.
func isMissing(actual any) bool {
	if actual == nil {
		return true
	}
	if s, ok := actual.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func matchExact(exp *model.FieldExpectation, actual any) (bool, float64, string) {
	if equalValues(exp.ExpectedValue, actual) {
		return true, 1.0, ""
	}
	return false, 0.0, fmt.Sprintf("expected %v, got %v", Stringify(exp.ExpectedValue), Stringify(actual))
}

func matchKeyword(exp *model.FieldExpectation, actual any) (bool, float64, string) {
	haystack := strings.ToLower(Stringify(actual))

	found := 0
	for _, kw := range exp.Keywords {
		if strings.Contains(haystack, strings.ToLower(kw)) {
			found++
		}
	}

	confidence := float64(found) / float64(len(exp.Keywords))
	if confidence > 0 {
		return true, confidence, ""
	}
	return false, 0.0, fmt.Sprintf("none of keywords [%s] found in %q", strings.Join(exp.Keywords, ", "), Stringify(actual))
}

func matchRegex(exp *model.FieldExpectation, actual any) (bool, float64, string) {
	re := exp.CompiledPattern
	if re == nil {
		if exp.RegexPattern == "" {
			return false, 0.0, "no regex pattern configured"
		}
		var err error
		re, err = regexp.Compile("(?i)" + exp.RegexPattern)
		if err != nil {
			return false, 0.0, fmt.Sprintf("invalid pattern %q: %v", exp.RegexPattern, err)
		}
	}

	if re.MatchString(Stringify(actual)) {
		return true, 1.0, ""
	}
	return false, 0.0, fmt.Sprintf("pattern %q not found in %q", exp.RegexPattern, Stringify(actual))
}

func matchCustom(exp *model.FieldExpectation, actual any) (bool, float64, string) {
	if exp.Validator == nil {
		return false, 0.0, "no custom validator configured"
	}

	ok, detail, err := exp.Validator(actual, exp.ExpectedValue)
	if err != nil {
		return false, 0.0, fmt.Sprintf("validator error: %v", err)
	}
	if ok {
		return true, 1.0, ""
	}
	if detail == "" {
		detail = fmt.Sprintf("custom validation failed for %v", Stringify(actual))
	}
	return false, 0.0, detail
}
