package runner

import (
	"github.com/sells-group/eval-cli/internal/model"
)

const (
	requiredWeight = 0.7
	optionalWeight = 0.3
)

// scoreBackend fills the two-tier scores on res from its field results.
// Required fields average over all required expectations; optional
// fields count their confidence only when a non-null actual value was
// present, but still divide by the total optional count.
func scoreBackend(baseline *model.TestBaseline, res *model.BackendTestResult) {
	res.RequiredScore = 1.0
	if n := len(baseline.RequiredFields); n > 0 {
		sum := 0.0
		for _, exp := range baseline.RequiredFields {
			if fr, ok := res.FieldResults[exp.FieldName]; ok {
				sum += fr.Confidence
			}
		}
		res.RequiredScore = sum / float64(n)
	}

	res.OptionalScore = 0.0
	if n := len(baseline.OptionalFields); n > 0 {
		sum := 0.0
		for _, exp := range baseline.OptionalFields {
			fr, ok := res.FieldResults[exp.FieldName]
			if !ok || fr.ActualValue == nil {
				continue
			}
			sum += fr.Confidence
		}
		res.OptionalScore = sum / float64(n)
	}

	res.OverallScore = requiredWeight*res.RequiredScore + optionalWeight*res.OptionalScore
}

// aggregate computes the mean overall score and the best backend, ties
// broken by first occurrence in input order.
func aggregate(results []model.BackendTestResult) (float64, string) {
	if len(results) == 0 {
		return 0.0, ""
	}

	sum := 0.0
	best := 0
	for i, r := range results {
		sum += r.OverallScore
		if r.OverallScore > results[best].OverallScore {
			best = i
		}
	}

	return sum / float64(len(results)), results[best].BackendName
}
