package model

import (
	"regexp"

	"github.com/rotisserie/eris"
)

// MatchStrategy selects the comparison algorithm applied to a field.
type MatchStrategy string

const (
	StrategyExact   MatchStrategy = "exact"
	StrategyKeyword MatchStrategy = "keyword"
	StrategyFuzzy   MatchStrategy = "fuzzy"
	StrategyRegex   MatchStrategy = "regex"
	StrategyCustom  MatchStrategy = "custom"
)

// Valid reports whether s is one of the known strategies.
func (s MatchStrategy) Valid() bool {
	switch s {
	case StrategyExact, StrategyKeyword, StrategyFuzzy, StrategyRegex, StrategyCustom:
		return true
	}
	return false
}

// ValidatorFunc is the capability injected for custom-strategy fields.
// It returns whether the actual value is acceptable plus an optional
// detail string shown in diagnostics. A non-nil error is captured at the
// matcher boundary and never propagated as a crash.
type ValidatorFunc func(actual, expected any) (bool, string, error)

// FieldExpectation describes how a single extracted field is expected to
// look and how it should be compared. Immutable once validated.
type FieldExpectation struct {
	FieldName      string        `json:"field_name"`
	ExpectedValue  any           `json:"expected_value,omitempty"`
	Strategy       MatchStrategy `json:"strategy"`
	Required       bool          `json:"required"`
	FuzzyTolerance *float64      `json:"fuzzy_tolerance,omitempty"`
	Keywords       []string      `json:"keywords,omitempty"`
	RegexPattern   string        `json:"regex_pattern,omitempty"`
	Description    string        `json:"description,omitempty"`

	// Validator backs the custom strategy. Resolved by name when
	// baselines are loaded from fixture files.
	Validator ValidatorFunc `json:"-"`

	// CompiledPattern is pre-compiled (case-insensitive) from
	// RegexPattern during Validate.
	CompiledPattern *regexp.Regexp `json:"-"`
}

// Validate checks the per-strategy invariants and pre-compiles the regex
// pattern. Malformed expectations fail here, at construction time, never
// at match time.
func (e *FieldExpectation) Validate() error {
	if e.FieldName == "" {
		return eris.New("expectation: empty field name")
	}
	if !e.Strategy.Valid() {
		return eris.Errorf("expectation %q: unknown strategy %q", e.FieldName, e.Strategy)
	}
	if e.FuzzyTolerance != nil && (*e.FuzzyTolerance < 0 || *e.FuzzyTolerance > 1) {
		return eris.Errorf("expectation %q: fuzzy tolerance %v outside [0,1]", e.FieldName, *e.FuzzyTolerance)
	}

	switch e.Strategy {
	case StrategyKeyword:
		if len(e.Keywords) == 0 {
			return eris.Errorf("expectation %q: keyword strategy requires keywords", e.FieldName)
		}
	case StrategyRegex:
		if e.RegexPattern == "" {
			return eris.Errorf("expectation %q: regex strategy requires a pattern", e.FieldName)
		}
		re, err := regexp.Compile("(?i)" + e.RegexPattern)
		if err != nil {
			return eris.Wrapf(err, "expectation %q: compile pattern", e.FieldName)
		}
		e.CompiledPattern = re
	case StrategyCustom:
		if e.Validator == nil {
			return eris.Errorf("expectation %q: custom strategy requires a validator", e.FieldName)
		}
	}

	return nil
}
