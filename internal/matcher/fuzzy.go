package matcher

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/sells-group/eval-cli/internal/model"
)

const (
	// defaultRangeTolerance pads numeric range-overlap comparisons.
	defaultRangeTolerance = 0.3
	// defaultSimilarityTolerance gates the bigram-Jaccard fallback when
	// the actual value carries no numbers. Deliberately tighter than the
	// range tolerance.
	defaultSimilarityTolerance = 0.2
)

var intPattern = regexp.MustCompile(`\d+`)

// extractInts scans s for non-negative integers, left to right.
func extractInts(s string) []int64 {
	raw := intPattern.FindAllString(s, -1)
	out := make([]int64, 0, len(raw))
	for _, r := range raw {
		n, err := strconv.ParseInt(r, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

func minMax(nums []int64) (int64, int64) {
	lo, hi := nums[0], nums[0]
	for _, n := range nums[1:] {
		if n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	return lo, hi
}

// bigramJaccard computes Jaccard similarity over character bigram sets.
// Inputs shorter than two runes compare by equality.
func bigramJaccard(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ar, br := []rune(a), []rune(b)
	if len(ar) < 2 || len(br) < 2 {
		return 0.0
	}
	set := func(rs []rune) map[string]bool {
		m := make(map[string]bool, len(rs))
		for i := 0; i+1 < len(rs); i++ {
			m[string(rs[i:i+2])] = true
		}
		return m
	}
	as, bs := set(ar), set(br)
	inter := 0
	for g := range as {
		if bs[g] {
			inter++
		}
	}
	union := len(as) + len(bs) - inter
	if union == 0 {
		return 0.0
	}
	return float64(inter) / float64(union)
}

// matchFuzzy compares numeric ranges expressed in free text, e.g.
// "51-200 employees" against "100-250 employees". Ranges match when they
// overlap within a tolerance-padded margin; confidence is the overlap
// fraction. When the actual value carries no numbers at all, a bigram
// similarity fallback on the lower-cased strings applies instead.
func matchFuzzy(exp *model.FieldExpectation, actual any) (bool, float64, string) {
	expectedStr := Stringify(exp.ExpectedValue)
	actualStr := Stringify(actual)

	actualNums := extractInts(actualStr)
	if len(actualNums) == 0 {
		tol := defaultSimilarityTolerance
		if exp.FuzzyTolerance != nil {
			tol = *exp.FuzzyTolerance
		}
		sim := bigramJaccard(strings.ToLower(expectedStr), strings.ToLower(actualStr))
		if sim >= 1.0-tol {
			return true, sim, ""
		}
		return false, sim, fmt.Sprintf("similarity %.2f below %.2f: expected %q, got %q", sim, 1.0-tol, expectedStr, actualStr)
	}

	expectedNums := extractInts(expectedStr)
	if len(expectedNums) == 0 {
		return false, 0.0, fmt.Sprintf("expected value %q has no extractable numbers", expectedStr)
	}

	tol := defaultRangeTolerance
	if exp.FuzzyTolerance != nil {
		tol = *exp.FuzzyTolerance
	}

	expMin, expMax := minMax(expectedNums)
	actMin, actMax := minMax(actualNums)
	pad := tol * float64(expMax-expMin)

	if float64(actMax) < float64(expMin)-pad || float64(actMin) > float64(expMax)+pad {
		return false, 0.0, fmt.Sprintf("range mismatch: expected [%d,%d], got [%d,%d]", expMin, expMax, actMin, actMax)
	}

	overlap := math.Min(float64(actMax), float64(expMax)+pad) - math.Max(float64(actMin), float64(expMin)-pad)
	if overlap < 0 {
		overlap = 0
	}
	totalRange := math.Max(float64(actMax-actMin), float64(expMax-expMin))

	confidence := 1.0
	if totalRange > 0 {
		confidence = math.Min(overlap/totalRange, 1.0)
	}
	return true, confidence, ""
}
