// Package agent implements the research side of an evaluation: for each
// backend it gathers web research context and extracts a structured
// company profile from it, iterating until the requested fields are
// populated or the iteration ceiling is hit.
package agent

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/eval-cli/internal/model"
	"github.com/sells-group/eval-cli/pkg/anthropic"
	"github.com/sells-group/eval-cli/pkg/perplexity"
)

// Provider identifiers dispatched on BackendConfig.ProviderID.
const (
	ProviderAnthropic  = "anthropic"
	ProviderPerplexity = "perplexity"
)

// Agent runs company research for one baseline's field set. It
// satisfies the runner's Executor capability.
type Agent struct {
	claude anthropic.Client
	pplx   perplexity.Client
	fields []string
}

// New creates an Agent researching the given profile fields. Both
// clients are required: the anthropic provider uses Perplexity for web
// search context before Claude extraction.
func New(claude anthropic.Client, pplx perplexity.Client, fields []string) *Agent {
	return &Agent{claude: claude, pplx: pplx, fields: fields}
}

// Execute researches the subject on one backend and returns structured
// output. A nil Profile with a nil error means the backend ran but
// produced nothing parseable.
func (a *Agent) Execute(ctx context.Context, backend model.BackendConfig, subject string, maxIterations int, verbose bool) (*model.ResearchOutput, error) {
	if maxIterations < 1 {
		maxIterations = 1
	}

	start := time.Now()
	var (
		out *model.ResearchOutput
		err error
	)

	switch backend.ProviderID {
	case ProviderAnthropic:
		out, err = a.runAnthropic(ctx, backend, subject, maxIterations, verbose)
	case ProviderPerplexity:
		out, err = a.runPerplexity(ctx, backend, subject, maxIterations, verbose)
	default:
		return nil, eris.Errorf("agent: unknown provider %q for backend %q", backend.ProviderID, backend.Name)
	}

	if err != nil {
		return nil, err
	}

	out.WallTime = time.Since(start).Seconds()
	return out, nil
}

// runAnthropic gathers research context through Perplexity, then asks
// Claude for the structured profile. Later iterations re-search only the
// unresolved fields and extend the context.
func (a *Agent) runAnthropic(ctx context.Context, backend model.BackendConfig, subject string, maxIterations int, verbose bool) (*model.ResearchOutput, error) {
	log := zap.L().With(zap.String("backend", backend.Name), zap.String("subject", subject))
	claudeModel := backend.Param("model", defaultClaudeModel)
	searchModel := backend.Param("search_model", defaultPerplexityModel)

	var (
		research strings.Builder
		profile  *model.CompanyProfile
		rawOut   string
	)
	missing := a.fields

	iterations := 0
	for i := 0; i < maxIterations; i++ {
		iterations = i + 1

		query := searchPrompt(subject)
		if i > 0 {
			query = refinePrompt(subject, missing)
		}

		searchResp, err := a.pplx.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
			Model:    searchModel,
			Messages: []perplexity.Message{{Role: "user", Content: query}},
		})
		if err != nil {
			return nil, eris.Wrap(err, "agent: research search")
		}
		if len(searchResp.Choices) > 0 {
			research.WriteString(searchResp.Choices[0].Message.Content)
			research.WriteString("\n\n")
		}

		resp, err := a.claude.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     claudeModel,
			MaxTokens: extractMaxTokens,
			System:    systemPrompt,
			Messages: []anthropic.Message{{
				Role:    "user",
				Content: extractPrompt(subject, a.fields, missing, research.String()),
			}},
		})
		if err != nil {
			return nil, eris.Wrap(err, "agent: profile extraction")
		}
		rawOut = resp.Text

		parsed, err := ParseProfile(resp.Text)
		if err != nil {
			if verbose {
				log.Warn("unparseable extraction output", zap.Int("iteration", iterations), zap.Error(err))
			}
			continue
		}

		profile = mergeProfiles(profile, parsed)
		missing = unresolvedFields(a.fields, profile)
		if verbose {
			log.Info("iteration complete",
				zap.Int("iteration", iterations),
				zap.Int("unresolved", len(missing)))
		}
		if len(missing) == 0 {
			break
		}
	}

	return &model.ResearchOutput{
		Succeeded:      profile != nil,
		IterationCount: iterations,
		RawOutput:      rawOut,
		Profile:        profile,
	}, nil
}

// runPerplexity does single-provider search+extract: one chat completion
// per iteration that both researches and emits the JSON profile.
func (a *Agent) runPerplexity(ctx context.Context, backend model.BackendConfig, subject string, maxIterations int, verbose bool) (*model.ResearchOutput, error) {
	log := zap.L().With(zap.String("backend", backend.Name), zap.String("subject", subject))
	mdl := backend.Param("model", defaultPerplexityModel)

	var (
		profile *model.CompanyProfile
		rawOut  string
	)
	missing := a.fields

	iterations := 0
	for i := 0; i < maxIterations; i++ {
		iterations = i + 1

		prompt := extractPrompt(subject, a.fields, missing, "Use your own web search results as research context.")
		resp, err := a.pplx.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
			Model: mdl,
			Messages: []perplexity.Message{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: prompt},
			},
		})
		if err != nil {
			return nil, eris.Wrap(err, "agent: search extraction")
		}
		if len(resp.Choices) == 0 {
			continue
		}
		rawOut = resp.Choices[0].Message.Content

		parsed, err := ParseProfile(rawOut)
		if err != nil {
			if verbose {
				log.Warn("unparseable extraction output", zap.Int("iteration", iterations), zap.Error(err))
			}
			continue
		}

		profile = mergeProfiles(profile, parsed)
		missing = unresolvedFields(a.fields, profile)
		if verbose {
			log.Info("iteration complete",
				zap.Int("iteration", iterations),
				zap.Int("unresolved", len(missing)))
		}
		if len(missing) == 0 {
			break
		}
	}

	return &model.ResearchOutput{
		Succeeded:      profile != nil,
		IterationCount: iterations,
		RawOutput:      rawOut,
		Profile:        profile,
	}, nil
}

// mergeProfiles overlays next onto base, keeping earlier non-nil values
// when a later iteration regresses a field to null.
func mergeProfiles(base, next *model.CompanyProfile) *model.CompanyProfile {
	if base == nil {
		return next
	}
	if next == nil {
		return base
	}
	if base.Fields == nil {
		base.Fields = make(map[string]any, len(next.Fields))
	}
	for k, v := range next.Fields {
		if v == nil {
			continue
		}
		base.Fields[k] = v
	}
	return base
}

// unresolvedFields returns the requested fields whose profile value is
// still nil or absent.
func unresolvedFields(fields []string, profile *model.CompanyProfile) []string {
	var missing []string
	for _, f := range fields {
		v := profile.Field(f)
		if v == nil {
			missing = append(missing, f)
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}
