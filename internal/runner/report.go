package runner

import (
	"fmt"
	"strings"

	"github.com/sells-group/eval-cli/internal/matcher"
	"github.com/sells-group/eval-cli/internal/model"
)

const (
	maxDiagnosticLen  = 120
	maxFailedListed   = 15
	maxActualValueLen = 60
)

// FormatReport renders a human-readable evaluation report, grouped by
// backend, with per-field pass/fail indicators.
func FormatReport(baseline *model.TestBaseline, res *model.TestExecutionResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Evaluation Report: %s\n", res.TestName)
	fmt.Fprintf(&b, "Subject: %s\n", res.SubjectName)
	fmt.Fprintf(&b, "Run ID: %s\n\n", res.ID)

	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Backends evaluated: %d\n", len(res.BackendResults))
	fmt.Fprintf(&b, "- Mean overall score: %.3f\n", res.MeanOverallScore)
	if res.BestBackend != "" {
		fmt.Fprintf(&b, "- Best backend: %s\n", res.BestBackend)
	}
	fmt.Fprintf(&b, "- Total wall time: %.1fs\n\n", res.TotalWallTime)

	for _, br := range res.BackendResults {
		fmt.Fprintf(&b, "## Backend: %s (%s)\n", br.BackendName, br.ProviderID)
		if br.Error != "" {
			fmt.Fprintf(&b, "❌ execution failed: %s\n\n", truncate(br.Error, maxDiagnosticLen))
			continue
		}

		status := "✅"
		if !br.Succeeded {
			status = "❌"
		}
		fmt.Fprintf(&b, "%s succeeded=%t wall=%.1fs iterations=%d\n", status, br.Succeeded, br.WallTime, br.IterationCount)
		fmt.Fprintf(&b, "Scores: required=%.3f optional=%.3f overall=%.3f\n", br.RequiredScore, br.OptionalScore, br.OverallScore)

		failed := 0
		for _, exp := range baseline.Expectations() {
			fr, ok := br.FieldResults[exp.FieldName]
			if !ok {
				continue
			}
			if fr.Matched {
				fmt.Fprintf(&b, "  ✅ %s (%s) conf=%.2f\n", fr.FieldName, fr.Strategy, fr.Confidence)
				continue
			}
			failed++
			if failed > maxFailedListed {
				continue
			}
			fmt.Fprintf(&b, "  ❌ %s (%s): %s [got %s]\n",
				fr.FieldName, fr.Strategy,
				truncate(fr.Diagnostic, maxDiagnosticLen),
				truncate(matcher.Stringify(fr.ActualValue), maxActualValueLen),
			)
		}
		if failed > maxFailedListed {
			fmt.Fprintf(&b, "  … and %d more failed fields\n", failed-maxFailedListed)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
