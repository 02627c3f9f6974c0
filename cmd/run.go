package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/eval-cli/internal/agent"
	"github.com/sells-group/eval-cli/internal/export"
	"github.com/sells-group/eval-cli/internal/model"
	"github.com/sells-group/eval-cli/internal/registry"
	"github.com/sells-group/eval-cli/internal/runner"
	anthropicpkg "github.com/sells-group/eval-cli/pkg/anthropic"
	"github.com/sells-group/eval-cli/pkg/perplexity"
)

var (
	runBaseline   string
	runBackends   []string
	runIterations int
	runVerbose    bool
	runJSON       bool
	runSave       bool
	runExportPath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate backends against one baseline",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		reg := registry.New()
		if err := registry.LoadDir(reg, cfg.Eval.BaselineDir); err != nil {
			return eris.Wrap(err, "load baselines")
		}

		baseline, err := reg.Lookup(runBaseline)
		if err != nil {
			return err
		}

		backends, err := selectBackends(runBackends)
		if err != nil {
			return err
		}

		claudeClient := anthropicpkg.NewClient(cfg.Anthropic.Key,
			anthropicpkg.WithRateLimit(cfg.Anthropic.RatePerSec))
		pplxOpts := []perplexity.Option{
			perplexity.WithModel(cfg.Perplexity.Model),
			perplexity.WithRateLimit(cfg.Perplexity.RatePerSec),
		}
		if cfg.Perplexity.BaseURL != "" {
			pplxOpts = append(pplxOpts, perplexity.WithBaseURL(cfg.Perplexity.BaseURL))
		}
		pplxClient := perplexity.NewClient(cfg.Perplexity.Key, pplxOpts...)

		exec := agent.New(claudeClient, pplxClient, baseline.FieldNames())
		r := runner.New(exec)

		iterations := runIterations
		if iterations == 0 {
			iterations = cfg.Eval.MaxIterations
		}

		result, err := r.Run(ctx, baseline, backends, runner.Options{
			MaxIterations:  iterations,
			Verbose:        runVerbose,
			Concurrency:    cfg.Eval.Concurrency,
			BackendTimeout: time.Duration(cfg.Eval.BackendTimeoutSecs) * time.Second,
		})
		if err != nil {
			return eris.Wrap(err, "evaluation run")
		}

		zap.L().Info("evaluation complete",
			zap.String("test", result.TestName),
			zap.String("best_backend", result.BestBackend),
			zap.Float64("mean_score", result.MeanOverallScore),
		)

		if runSave {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate store")
			}
			if err := st.SaveRun(ctx, result); err != nil {
				return eris.Wrap(err, "save run")
			}
			zap.L().Info("run saved", zap.String("id", result.ID))
		}

		if runExportPath != "" {
			if err := export.WriteWorkbook(result, runExportPath); err != nil {
				return err
			}
			zap.L().Info("workbook written", zap.String("path", runExportPath))
		}

		if runJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		fmt.Print(runner.FormatReport(baseline, result))
		return nil
	},
}

// selectBackends returns the configured backends, optionally filtered by
// name. An unknown name is an error rather than a silent no-op.
func selectBackends(names []string) ([]model.BackendConfig, error) {
	all := cfg.BackendConfigs()
	if len(names) == 0 {
		return all, nil
	}

	byName := make(map[string]model.BackendConfig, len(all))
	for _, b := range all {
		byName[b.Name] = b
	}

	out := make([]model.BackendConfig, 0, len(names))
	for _, n := range names {
		b, ok := byName[n]
		if !ok {
			return nil, eris.Errorf("unknown backend %q", n)
		}
		out = append(out, b)
	}
	return out, nil
}

func init() {
	runCmd.Flags().StringVar(&runBaseline, "baseline", "", "baseline test name (required)")
	runCmd.Flags().StringSliceVar(&runBackends, "backend", nil, "restrict to named backends (repeatable)")
	runCmd.Flags().IntVar(&runIterations, "iterations", 0, "research iteration ceiling (default from config)")
	runCmd.Flags().BoolVar(&runVerbose, "verbose", false, "log per-iteration agent progress")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the full result as JSON")
	runCmd.Flags().BoolVar(&runSave, "save", false, "persist the result to the store")
	runCmd.Flags().StringVar(&runExportPath, "export", "", "write a comparison workbook to this path")
	_ = runCmd.MarkFlagRequired("baseline")
	rootCmd.AddCommand(runCmd)
}
