// Package tracking is the boundary to the experiment-tracking system. Sink
// failures degrade gracefully: they surface as TrackingError, get logged and
// never block an evaluation response.
package tracking

import (
	"context"

	"github.com/julpayne/eval-hub/internal/spec"
)

type Sink interface {
	CreateExperiment(ctx context.Context, req *spec.EvaluationRequest) (string, error)
	StartRun(ctx context.Context, experimentID string, eval *spec.EvaluationSpec, backendName, benchmarkName string) (string, error)
	LogParameters(ctx context.Context, runID string, params map[string]string) error
	LogResult(ctx context.Context, runID string, result *spec.EvaluationResult) error
	ExperimentURL(experimentID string) string
}

// NoopSink satisfies Sink without a tracking server, for tests and for
// deployments that run without one.
type NoopSink struct{}

func (NoopSink) CreateExperiment(context.Context, *spec.EvaluationRequest) (string, error) {
	return "", nil
}

func (NoopSink) StartRun(context.Context, string, *spec.EvaluationSpec, string, string) (string, error) {
	return "", nil
}

func (NoopSink) LogParameters(context.Context, string, map[string]string) error { return nil }

func (NoopSink) LogResult(context.Context, string, *spec.EvaluationResult) error { return nil }

func (NoopSink) ExperimentURL(string) string { return "" }
