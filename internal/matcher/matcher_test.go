package matcher

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/eval-cli/internal/model"
)

func exactExp(name string, expected any, required bool) *model.FieldExpectation {
	return &model.FieldExpectation{
		FieldName:     name,
		ExpectedValue: expected,
		Strategy:      model.StrategyExact,
		Required:      required,
	}
}

func TestMatch_ExactIntAgainstInt(t *testing.T) {
	res := Match(exactExp("founded_year", 2013, true), 2013)
	assert.True(t, res.Matched)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Empty(t, res.Diagnostic)
}

func TestMatch_ExactIntAgainstString(t *testing.T) {
	res := Match(exactExp("founded_year", 2013, true), "2013")
	assert.True(t, res.Matched)
	assert.Equal(t, 1.0, res.Confidence)
}

func TestMatch_ExactStringAgainstFloat(t *testing.T) {
	// JSON numbers decode as float64.
	res := Match(exactExp("founded_year", "2013", true), float64(2013))
	assert.True(t, res.Matched)
}

func TestMatch_ExactMismatch(t *testing.T) {
	res := Match(exactExp("founded_year", 2013, true), 2014)
	assert.False(t, res.Matched)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Contains(t, res.Diagnostic, "expected 2013")
	assert.Contains(t, res.Diagnostic, "got 2014")
}

func TestMatch_ExactListMembership(t *testing.T) {
	exp := exactExp("hq", []any{"San Francisco", "SF"}, true)
	assert.True(t, Match(exp, "SF").Matched)
	assert.False(t, Match(exp, "Oakland").Matched)
}

func TestMatch_KeywordPartial(t *testing.T) {
	exp := &model.FieldExpectation{
		FieldName: "industry",
		Strategy:  model.StrategyKeyword,
		Required:  true,
		Keywords:  []string{"video", "streaming"},
	}

	res := Match(exp, "Video Technology / SaaS")
	assert.True(t, res.Matched)
	assert.Equal(t, 0.5, res.Confidence)

	res = Match(exp, "Video Streaming Infrastructure")
	assert.True(t, res.Matched)
	assert.Equal(t, 1.0, res.Confidence)

	res = Match(exp, "Software Company")
	assert.False(t, res.Matched)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Contains(t, res.Diagnostic, "video")
	assert.Contains(t, res.Diagnostic, "Software Company")
}

func TestMatch_RegexCaseInsensitive(t *testing.T) {
	exp := &model.FieldExpectation{
		FieldName:    "website",
		Strategy:     model.StrategyRegex,
		Required:     true,
		RegexPattern: `mux\.com`,
	}
	require.NoError(t, exp.Validate())

	res := Match(exp, "https://WWW.MUX.COM")
	assert.True(t, res.Matched)
	assert.Equal(t, 1.0, res.Confidence)

	res = Match(exp, "https://vimeo.com")
	assert.False(t, res.Matched)
	assert.NotEmpty(t, res.Diagnostic)
}

func TestMatch_RegexNoPatternConfigured(t *testing.T) {
	exp := &model.FieldExpectation{
		FieldName: "website",
		Strategy:  model.StrategyRegex,
	}
	res := Match(exp, "https://mux.com")
	assert.False(t, res.Matched)
	assert.Contains(t, res.Diagnostic, "no regex pattern")
}

func TestMatch_CustomValidatorBool(t *testing.T) {
	exp := &model.FieldExpectation{
		FieldName: "employee_count",
		Strategy:  model.StrategyCustom,
		Required:  true,
		Validator: func(actual, expected any) (bool, string, error) {
			n, ok := asInt(actual)
			return ok && n > 0, "not a positive count", nil
		},
	}

	res := Match(exp, 120)
	assert.True(t, res.Matched)
	assert.Equal(t, 1.0, res.Confidence)

	res = Match(exp, "lots")
	assert.False(t, res.Matched)
	assert.Equal(t, "not a positive count", res.Diagnostic)
}

func TestMatch_CustomValidatorError(t *testing.T) {
	exp := &model.FieldExpectation{
		FieldName: "website",
		Strategy:  model.StrategyCustom,
		Required:  true,
		Validator: func(actual, expected any) (bool, string, error) {
			return false, "", eris.New("boom")
		},
	}

	res := Match(exp, "https://mux.com")
	assert.False(t, res.Matched)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Contains(t, res.Diagnostic, "validator error")
	assert.Contains(t, res.Diagnostic, "boom")
}

func TestMatch_RequiredMissing(t *testing.T) {
	res := Match(exactExp("name", "Mux", true), nil)
	assert.False(t, res.Matched)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Equal(t, "required field missing", res.Diagnostic)

	res = Match(exactExp("name", "Mux", true), "")
	assert.False(t, res.Matched)
	assert.NotEmpty(t, res.Diagnostic)

	res = Match(exactExp("name", "Mux", true), "   ")
	assert.False(t, res.Matched)
}

func TestMatch_OptionalMissing(t *testing.T) {
	res := Match(exactExp("funding", "$175M", false), nil)
	assert.True(t, res.Matched)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Empty(t, res.Diagnostic)
}

func TestMatch_Idempotent(t *testing.T) {
	exp := &model.FieldExpectation{
		FieldName:     "employee_count",
		ExpectedValue: "51-200 employees",
		Strategy:      model.StrategyFuzzy,
		Required:      true,
	}

	first := Match(exp, "100-250 employees")
	second := Match(exp, "100-250 employees")
	assert.Equal(t, first, second)
	assert.Equal(t, first.Confidence, second.Confidence)
}
