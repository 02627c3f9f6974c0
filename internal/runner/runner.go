// Package runner executes a baseline evaluation across multiple model
// backends and aggregates confidence-weighted scores. Backend runs are
// independent: one backend failing never aborts the others.
package runner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/eval-cli/internal/matcher"
	"github.com/sells-group/eval-cli/internal/model"
)

// Executor is the backend-execution primitive: run one backend's
// research agent for the subject and return its structured output. This
// is the sole boundary with the agent subsystem; it is the only call in
// the runner that blocks on I/O.
type Executor interface {
	Execute(ctx context.Context, backend model.BackendConfig, subject string, maxIterations int, verbose bool) (*model.ResearchOutput, error)
}

// Options tunes one evaluation run. The iteration ceiling and verbosity
// are forwarded opaquely to the Executor.
type Options struct {
	MaxIterations  int
	Verbose        bool
	Concurrency    int
	BackendTimeout time.Duration
}

func (o Options) withDefaults(backends int) Options {
	if o.MaxIterations < 1 {
		o.MaxIterations = 10
	}
	if o.Concurrency < 1 {
		o.Concurrency = backends
	}
	return o
}

// Runner evaluates baselines over an injected Executor.
type Runner struct {
	exec Executor
}

// New creates a Runner.
func New(exec Executor) *Runner {
	return &Runner{exec: exec}
}

// Run executes every configured backend against the baseline and returns
// the aggregated result. It fails only on malformed input; per-backend
// failures are recorded in the result, never propagated.
func (r *Runner) Run(ctx context.Context, baseline *model.TestBaseline, backends []model.BackendConfig, opts Options) (*model.TestExecutionResult, error) {
	if baseline == nil {
		return nil, eris.New("runner: nil baseline")
	}
	opts = opts.withDefaults(len(backends))

	start := time.Now()
	results := make([]model.BackendTestResult, len(backends))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, backend := range backends {
		g.Go(func() error {
			results[i] = r.runBackend(gctx, baseline, backend, opts)
			return nil
		})
	}
	// Join before aggregation; runBackend never returns an error.
	_ = g.Wait()

	res := &model.TestExecutionResult{
		ID:             uuid.NewString(),
		TestName:       baseline.TestName,
		SubjectName:    baseline.SubjectName,
		BackendResults: results,
		TotalWallTime:  time.Since(start).Seconds(),
		StartedAt:      start.UTC(),
	}
	res.MeanOverallScore, res.BestBackend = aggregate(results)

	zap.L().Info("runner: evaluation complete",
		zap.String("test", baseline.TestName),
		zap.Int("backends", len(backends)),
		zap.Float64("mean_overall_score", res.MeanOverallScore),
		zap.String("best_backend", res.BestBackend),
	)

	return res, nil
}

// runBackend executes one backend and matches its output against every
// expectation. All failure modes collapse into the returned result.
func (r *Runner) runBackend(ctx context.Context, baseline *model.TestBaseline, backend model.BackendConfig, opts Options) model.BackendTestResult {
	log := zap.L().With(
		zap.String("test", baseline.TestName),
		zap.String("backend", backend.Name),
	)

	res := model.BackendTestResult{
		BackendName:  backend.Name,
		ProviderID:   backend.ProviderID,
		FieldResults: make(map[string]model.FieldMatchResult),
	}

	if opts.BackendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.BackendTimeout)
		defer cancel()
	}

	out, err := r.exec.Execute(ctx, backend, baseline.SubjectName, opts.MaxIterations, opts.Verbose)
	if err != nil {
		// Failed backends record zero scores and empty field results.
		log.Warn("runner: backend execution failed", zap.Error(err))
		res.Error = err.Error()
		return res
	}

	res.WallTime = out.WallTime
	res.IterationCount = out.IterationCount
	res.RawOutput = out.RawOutput

	if out.Profile == nil {
		// Nominal success with no structured payload scores zero across
		// the board instead of erroring.
		for _, exp := range baseline.Expectations() {
			res.FieldResults[exp.FieldName] = model.FieldMatchResult{
				FieldName:     exp.FieldName,
				ExpectedValue: exp.ExpectedValue,
				Strategy:      exp.Strategy,
				Diagnostic:    "no structured output returned",
			}
		}
		scoreBackend(baseline, &res)
		return res
	}

	for _, exp := range baseline.Expectations() {
		actual := out.Profile.Field(exp.FieldName)
		res.FieldResults[exp.FieldName] = matcher.Match(&exp, actual)
	}

	res.Succeeded = out.Succeeded
	scoreBackend(baseline, &res)

	log.Debug("runner: backend scored",
		zap.Bool("succeeded", res.Succeeded),
		zap.Float64("overall_score", res.OverallScore),
	)

	return res
}
