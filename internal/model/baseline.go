package model

import (
	"github.com/rotisserie/eris"
)

// TestBaseline is the versioned expectation set for one test subject.
// Constructed once at load time, immutable afterwards; the registry owns
// all instances for the life of the process.
type TestBaseline struct {
	TestName       string             `json:"test_name"`
	Aliases        []string           `json:"aliases,omitempty"`
	SubjectName    string             `json:"subject_name"`
	Description    string             `json:"description,omitempty"`
	RequiredFields []FieldExpectation `json:"required_fields"`
	OptionalFields []FieldExpectation `json:"optional_fields"`
	Metadata       map[string]any     `json:"metadata,omitempty"`
}

// Validate checks baseline invariants: non-empty name, unique field names
// across required+optional, and per-expectation strategy invariants. It
// also normalizes the Required flag to match the list each expectation
// sits in.
func (b *TestBaseline) Validate() error {
	if b.TestName == "" {
		return eris.New("baseline: empty test name")
	}
	if b.SubjectName == "" {
		return eris.Errorf("baseline %q: empty subject name", b.TestName)
	}

	seen := make(map[string]bool, len(b.RequiredFields)+len(b.OptionalFields))

	for i := range b.RequiredFields {
		e := &b.RequiredFields[i]
		e.Required = true
		if err := e.Validate(); err != nil {
			return eris.Wrapf(err, "baseline %q", b.TestName)
		}
		if seen[e.FieldName] {
			return eris.Errorf("baseline %q: duplicate field %q", b.TestName, e.FieldName)
		}
		seen[e.FieldName] = true
	}

	for i := range b.OptionalFields {
		e := &b.OptionalFields[i]
		e.Required = false
		if err := e.Validate(); err != nil {
			return eris.Wrapf(err, "baseline %q", b.TestName)
		}
		if seen[e.FieldName] {
			return eris.Errorf("baseline %q: duplicate field %q", b.TestName, e.FieldName)
		}
		seen[e.FieldName] = true
	}

	return nil
}

// Expectations returns required fields followed by optional fields, in
// baseline order.
func (b *TestBaseline) Expectations() []FieldExpectation {
	out := make([]FieldExpectation, 0, len(b.RequiredFields)+len(b.OptionalFields))
	out = append(out, b.RequiredFields...)
	out = append(out, b.OptionalFields...)
	return out
}

// FieldNames returns every field name in baseline order.
func (b *TestBaseline) FieldNames() []string {
	exps := b.Expectations()
	names := make([]string, len(exps))
	for i, e := range exps {
		names[i] = e.FieldName
	}
	return names
}
