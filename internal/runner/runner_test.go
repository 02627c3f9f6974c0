package runner

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/eval-cli/internal/model"
)

func muxBaseline(t *testing.T) *model.TestBaseline {
	t.Helper()
	b := &model.TestBaseline{
		TestName:    "mux_video",
		SubjectName: "Mux",
		RequiredFields: []model.FieldExpectation{
			{FieldName: "company_name", ExpectedValue: "Mux", Strategy: model.StrategyExact},
			{FieldName: "industry", Strategy: model.StrategyKeyword, Keywords: []string{"video", "streaming"}},
		},
		OptionalFields: []model.FieldExpectation{
			{FieldName: "founded_year", ExpectedValue: 2016, Strategy: model.StrategyExact},
			{FieldName: "headquarters", ExpectedValue: "San Francisco", Strategy: model.StrategyExact},
		},
	}
	require.NoError(t, b.Validate())
	return b
}

func backend(name string) model.BackendConfig {
	return model.BackendConfig{Name: name, ProviderID: "anthropic"}
}

func TestRun_SingleBackendScoring(t *testing.T) {
	// Required: company_name conf 1.0, industry conf 0.5 → required 0.75.
	// Optional: founded_year conf 1.0 present, headquarters absent →
	// optional (1.0+0)/2 = 0.5. Overall 0.7*0.75 + 0.3*0.5 = 0.675.
	exec := &mockExecutor{}
	exec.On("Execute", mock.Anything, mock.Anything, "Mux", 10, false).Return(profileOutput(map[string]any{
		"company_name": "Mux",
		"industry":     "Video Technology / SaaS",
		"founded_year": 2016,
	}), nil)

	res, err := New(exec).Run(context.Background(), muxBaseline(t), []model.BackendConfig{backend("haiku")}, Options{})
	require.NoError(t, err)
	require.Len(t, res.BackendResults, 1)

	br := res.BackendResults[0]
	assert.True(t, br.Succeeded)
	assert.InDelta(t, 0.75, br.RequiredScore, 1e-9)
	assert.InDelta(t, 0.5, br.OptionalScore, 1e-9)
	assert.InDelta(t, 0.675, br.OverallScore, 1e-9)
	assert.Len(t, br.FieldResults, 4)

	assert.Equal(t, "haiku", res.BestBackend)
	assert.InDelta(t, 0.675, res.MeanOverallScore, 1e-9)
	exec.AssertExpectations(t)
}

func TestRun_FailureIsolation(t *testing.T) {
	exec := &mockExecutor{}
	good := profileOutput(map[string]any{
		"company_name": "Mux",
		"industry":     "Video Streaming Infrastructure",
		"founded_year": 2016,
		"headquarters": "San Francisco",
	})

	exec.On("Execute", mock.Anything, backend("a"), "Mux", 10, false).Return(good, nil)
	exec.On("Execute", mock.Anything, backend("b"), "Mux", 10, false).Return(nil, eris.New("model overloaded"))
	exec.On("Execute", mock.Anything, backend("c"), "Mux", 10, false).Return(good, nil)

	backends := []model.BackendConfig{backend("a"), backend("b"), backend("c")}
	res, err := New(exec).Run(context.Background(), muxBaseline(t), backends, Options{})
	require.NoError(t, err)
	require.Len(t, res.BackendResults, 3)

	assert.True(t, res.BackendResults[0].Succeeded)
	assert.InDelta(t, 1.0, res.BackendResults[0].OverallScore, 1e-9)

	failed := res.BackendResults[1]
	assert.False(t, failed.Succeeded)
	assert.Contains(t, failed.Error, "model overloaded")
	assert.Empty(t, failed.FieldResults)
	assert.Equal(t, 0.0, failed.OverallScore)
	assert.Equal(t, 0.0, failed.RequiredScore)

	assert.True(t, res.BackendResults[2].Succeeded)
	assert.InDelta(t, 1.0, res.BackendResults[2].OverallScore, 1e-9)

	assert.Equal(t, "a", res.BestBackend, "tie between a and c breaks to input order")
}

func TestRun_NilProfileZeroFill(t *testing.T) {
	exec := &mockExecutor{}
	exec.On("Execute", mock.Anything, mock.Anything, "Mux", 10, false).Return(&model.ResearchOutput{
		Succeeded:      true,
		WallTime:       2.0,
		IterationCount: 5,
		RawOutput:      "empty response",
	}, nil)

	res, err := New(exec).Run(context.Background(), muxBaseline(t), []model.BackendConfig{backend("haiku")}, Options{})
	require.NoError(t, err)

	br := res.BackendResults[0]
	assert.False(t, br.Succeeded, "nominal success without structured output is not success")
	assert.Empty(t, br.Error)
	require.Len(t, br.FieldResults, 4)
	for _, fr := range br.FieldResults {
		assert.False(t, fr.Matched)
		assert.Equal(t, 0.0, fr.Confidence)
		assert.Equal(t, "no structured output returned", fr.Diagnostic)
	}
	assert.Equal(t, 0.0, br.OverallScore)
}

func TestRun_EmptyBackends(t *testing.T) {
	exec := &mockExecutor{}
	res, err := New(exec).Run(context.Background(), muxBaseline(t), nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, res.BackendResults)
	assert.Equal(t, 0.0, res.MeanOverallScore)
	assert.Empty(t, res.BestBackend)
}

func TestRun_NilBaseline(t *testing.T) {
	_, err := New(&mockExecutor{}).Run(context.Background(), nil, nil, Options{})
	assert.Error(t, err)
}

func TestRun_OptionsForwarded(t *testing.T) {
	exec := &mockExecutor{}
	exec.On("Execute", mock.Anything, mock.Anything, "Mux", 25, true).Return(profileOutput(nil), nil)

	_, err := New(exec).Run(context.Background(), muxBaseline(t), []model.BackendConfig{backend("x")}, Options{
		MaxIterations: 25,
		Verbose:       true,
	})
	require.NoError(t, err)
	exec.AssertExpectations(t)
}

func TestRun_MissingFieldsReadAsNull(t *testing.T) {
	exec := &mockExecutor{}
	exec.On("Execute", mock.Anything, mock.Anything, "Mux", 10, false).Return(profileOutput(map[string]any{
		"company_name": "Mux",
	}), nil)

	res, err := New(exec).Run(context.Background(), muxBaseline(t), []model.BackendConfig{backend("x")}, Options{})
	require.NoError(t, err)

	br := res.BackendResults[0]
	industry := br.FieldResults["industry"]
	assert.False(t, industry.Matched)
	assert.Equal(t, "required field missing", industry.Diagnostic)

	founded := br.FieldResults["founded_year"]
	assert.True(t, founded.Matched, "missing optional field is not a failure")
	assert.Equal(t, 0.0, founded.Confidence)
}
