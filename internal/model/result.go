package model

import "time"

// BackendConfig identifies one interchangeable execution target being
// evaluated against a baseline. Opaque to the matching core beyond
// naming the backend for reporting.
type BackendConfig struct {
	Name             string         `json:"name"`
	ProviderID       string         `json:"provider_id"`
	ConnectionParams map[string]any `json:"connection_params,omitempty"`
}

// Param returns a string connection parameter, or fallback when absent.
func (c BackendConfig) Param(key, fallback string) string {
	if v, ok := c.ConnectionParams[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

// FieldMatchResult is the outcome of matching one expectation against one
// backend's output. Diagnostic is always present when Matched is false.
type FieldMatchResult struct {
	FieldName     string        `json:"field_name"`
	Matched       bool          `json:"matched"`
	Confidence    float64       `json:"confidence"`
	ExpectedValue any           `json:"expected_value,omitempty"`
	ActualValue   any           `json:"actual_value,omitempty"`
	Diagnostic    string        `json:"diagnostic,omitempty"`
	Strategy      MatchStrategy `json:"strategy"`
}

// BackendTestResult aggregates all field results for one backend run.
type BackendTestResult struct {
	BackendName    string                      `json:"backend_name"`
	ProviderID     string                      `json:"provider_id"`
	Succeeded      bool                        `json:"succeeded"`
	WallTime       float64                     `json:"wall_time_secs"`
	IterationCount int                         `json:"iteration_count"`
	FieldResults   map[string]FieldMatchResult `json:"field_results"`
	RequiredScore  float64                     `json:"required_score"`
	OptionalScore  float64                     `json:"optional_score"`
	OverallScore   float64                     `json:"overall_score"`
	RawOutput      string                      `json:"raw_output,omitempty"`
	Error          string                      `json:"error,omitempty"`
}

// TestExecutionResult is the top-level output of one full evaluation run
// across all configured backends. Immutable once produced; the caller
// owns it.
type TestExecutionResult struct {
	ID               string              `json:"id"`
	TestName         string              `json:"test_name"`
	SubjectName      string              `json:"subject_name"`
	BackendResults   []BackendTestResult `json:"backend_results"`
	TotalWallTime    float64             `json:"total_wall_time_secs"`
	BestBackend      string              `json:"best_backend,omitempty"`
	MeanOverallScore float64             `json:"mean_overall_score"`
	StartedAt        time.Time           `json:"started_at"`
}
