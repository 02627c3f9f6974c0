package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/eval-cli/internal/model"
)

// fieldSpec is the on-disk shape of one field expectation. Custom
// validators are referenced by name and resolved against the built-in
// table at load time.
type fieldSpec struct {
	Field       string   `yaml:"field" json:"field"`
	Expected    any      `yaml:"expected,omitempty" json:"expected,omitempty"`
	Strategy    string   `yaml:"strategy" json:"strategy"`
	Tolerance   *float64 `yaml:"tolerance,omitempty" json:"tolerance,omitempty"`
	Keywords    []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Pattern     string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Validator   string   `yaml:"validator,omitempty" json:"validator,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
}

// baselineSpec is the on-disk shape of one baseline file.
type baselineSpec struct {
	Test        string         `yaml:"test" json:"test"`
	Aliases     []string       `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Subject     string         `yaml:"subject" json:"subject"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Required    []fieldSpec    `yaml:"required" json:"required"`
	Optional    []fieldSpec    `yaml:"optional,omitempty" json:"optional,omitempty"`
	Metadata    map[string]any `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// LoadBaselineFile reads a single baseline definition (YAML or JSON by
// extension) and converts it to a validated TestBaseline.
func LoadBaselineFile(path string) (*model.TestBaseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "registry: read baseline file")
	}

	var spec baselineSpec
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &spec); err != nil {
			return nil, eris.Wrapf(err, "registry: unmarshal baseline %s", path)
		}
	default:
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return nil, eris.Wrapf(err, "registry: unmarshal baseline %s", path)
		}
	}

	return specToBaseline(spec)
}

// LoadDir loads every *.yaml, *.yml, and *.json baseline under dir into
// r. Files are loaded in lexical order so registration order is stable.
func LoadDir(r *Registry, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return eris.Wrapf(err, "registry: read baseline dir %s", dir)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".json":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	for _, p := range paths {
		b, err := LoadBaselineFile(p)
		if err != nil {
			return err
		}
		if err := r.Register(b); err != nil {
			return err
		}
		zap.L().Debug("registry: baseline loaded",
			zap.String("file", p),
			zap.String("test", b.TestName),
		)
	}

	return nil
}

func specToBaseline(spec baselineSpec) (*model.TestBaseline, error) {
	b := &model.TestBaseline{
		TestName:    spec.Test,
		Aliases:     spec.Aliases,
		SubjectName: spec.Subject,
		Description: spec.Description,
		Metadata:    spec.Metadata,
	}

	var err error
	b.RequiredFields, err = specFields(spec.Test, spec.Required, true)
	if err != nil {
		return nil, err
	}
	b.OptionalFields, err = specFields(spec.Test, spec.Optional, false)
	if err != nil {
		return nil, err
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func specFields(test string, specs []fieldSpec, required bool) ([]model.FieldExpectation, error) {
	out := make([]model.FieldExpectation, 0, len(specs))
	for _, fs := range specs {
		exp := model.FieldExpectation{
			FieldName:      fs.Field,
			ExpectedValue:  fs.Expected,
			Strategy:       model.MatchStrategy(strings.ToLower(fs.Strategy)),
			Required:       required,
			FuzzyTolerance: fs.Tolerance,
			Keywords:       fs.Keywords,
			RegexPattern:   fs.Pattern,
			Description:    fs.Description,
		}

		if fs.Validator != "" {
			v, err := ValidatorByName(fs.Validator)
			if err != nil {
				return nil, eris.Wrapf(err, "baseline %q field %q", test, fs.Field)
			}
			exp.Validator = v
		}

		out = append(out, exp)
	}
	return out, nil
}
