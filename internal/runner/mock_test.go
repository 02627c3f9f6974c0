package runner

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/eval-cli/internal/model"
)

// mockExecutor implements Executor for testing.
type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) Execute(ctx context.Context, backend model.BackendConfig, subject string, maxIterations int, verbose bool) (*model.ResearchOutput, error) {
	args := m.Called(ctx, backend, subject, maxIterations, verbose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ResearchOutput), args.Error(1)
}

func profileOutput(fields map[string]any) *model.ResearchOutput {
	return &model.ResearchOutput{
		Succeeded:      true,
		WallTime:       1.5,
		IterationCount: 3,
		RawOutput:      "raw",
		Profile:        &model.CompanyProfile{Fields: fields},
	}
}
