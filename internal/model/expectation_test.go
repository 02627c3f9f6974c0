package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldExpectation_ValidateExact(t *testing.T) {
	e := FieldExpectation{FieldName: "company_name", ExpectedValue: "Mux", Strategy: StrategyExact}
	assert.NoError(t, e.Validate())
}

func TestFieldExpectation_EmptyName(t *testing.T) {
	e := FieldExpectation{Strategy: StrategyExact}
	assert.Error(t, e.Validate())
}

func TestFieldExpectation_UnknownStrategy(t *testing.T) {
	e := FieldExpectation{FieldName: "x", Strategy: MatchStrategy("wild")}
	err := e.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")
}

func TestFieldExpectation_KeywordRequiresKeywords(t *testing.T) {
	e := FieldExpectation{FieldName: "industry", Strategy: StrategyKeyword}
	assert.Error(t, e.Validate())

	e.Keywords = []string{"video"}
	assert.NoError(t, e.Validate())
}

func TestFieldExpectation_RegexRequiresPattern(t *testing.T) {
	e := FieldExpectation{FieldName: "website", Strategy: StrategyRegex}
	assert.Error(t, e.Validate())

	e.RegexPattern = `mux\.com`
	require.NoError(t, e.Validate())
	require.NotNil(t, e.CompiledPattern)
	assert.True(t, e.CompiledPattern.MatchString("MUX.COM"), "pattern compiles case-insensitive")
}

func TestFieldExpectation_RegexBadPattern(t *testing.T) {
	e := FieldExpectation{FieldName: "website", Strategy: StrategyRegex, RegexPattern: "("}
	assert.Error(t, e.Validate())
}

func TestFieldExpectation_CustomRequiresValidator(t *testing.T) {
	e := FieldExpectation{FieldName: "year", Strategy: StrategyCustom}
	assert.Error(t, e.Validate())

	e.Validator = func(actual, expected any) (bool, string, error) { return true, "", nil }
	assert.NoError(t, e.Validate())
}

func TestFieldExpectation_ToleranceBounds(t *testing.T) {
	bad := 1.5
	e := FieldExpectation{FieldName: "count", Strategy: StrategyFuzzy, FuzzyTolerance: &bad}
	assert.Error(t, e.Validate())

	ok := 0.3
	e.FuzzyTolerance = &ok
	assert.NoError(t, e.Validate())
}

func TestMatchStrategy_Valid(t *testing.T) {
	for _, s := range []MatchStrategy{StrategyExact, StrategyKeyword, StrategyFuzzy, StrategyRegex, StrategyCustom} {
		assert.True(t, s.Valid())
	}
	assert.False(t, MatchStrategy("").Valid())
	assert.False(t, MatchStrategy("other").Valid())
}
