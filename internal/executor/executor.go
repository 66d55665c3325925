// Package executor defines the boundary to the engines that actually run
// benchmarks. The hub only submits units, polls handles and cancels; engine
// internals stay opaque.
package executor

import (
	"context"

	"github.com/google/uuid"
	"github.com/julpayne/eval-hub/internal/spec"
)

// Unit is one resolved (evaluation, backend, benchmark) work item.
type Unit struct {
	EvaluationID       uuid.UUID          `json:"evaluation_id"`
	ModelName          string             `json:"model_name"`
	ModelConfiguration map[string]any     `json:"model_configuration,omitempty"`
	Backend            spec.BackendSpec   `json:"backend"`
	Benchmark          spec.BenchmarkSpec `json:"benchmark"`
}

// Handle identifies a submitted unit within its executor.
type Handle string

// Result is what an executor reports back for one unit. Metrics hold the
// flattened numeric-or-string values; Artifacts map artifact names to
// locations.
type Result struct {
	Metrics   map[string]any
	Artifacts map[string]string
}

// Executor runs units. Submit hands a unit over, Poll reports progress
// (done=false means still running) and Cancel is best-effort.
type Executor interface {
	Submit(ctx context.Context, unit Unit) (Handle, error)
	Poll(ctx context.Context, handle Handle) (result *Result, done bool, err error)
	Cancel(ctx context.Context, handle Handle) error
}
