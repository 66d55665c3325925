package spec

import (
	"time"

	"github.com/google/uuid"
)

type RiskCategory string

const (
	RiskLow      RiskCategory = "low"
	RiskMedium   RiskCategory = "medium"
	RiskHigh     RiskCategory = "high"
	RiskCritical RiskCategory = "critical"
)

type BackendKind string

const (
	KindLMEval        BackendKind = "lm-evaluation-harness"
	KindGuideLLM      BackendKind = "guidellm"
	KindNemoEvaluator BackendKind = "nemo-evaluator"
	KindCustom        BackendKind = "custom"
)

type BenchmarkSpec struct {
	Name       string         `json:"name"`
	Tasks      []string       `json:"tasks"`
	NumFewshot *int           `json:"num_fewshot,omitempty"`
	BatchSize  *int           `json:"batch_size,omitempty"`
	Limit      *int           `json:"limit,omitempty"`
	Device     string         `json:"device,omitempty"`
	Config     map[string]any `json:"config,omitempty"`
}

type BackendSpec struct {
	Name       string          `json:"name"`
	Type       BackendKind     `json:"type"`
	Endpoint   string          `json:"endpoint,omitempty"`
	Config     map[string]any  `json:"config,omitempty"`
	Benchmarks []BenchmarkSpec `json:"benchmarks"`
}

type EvaluationSpec struct {
	ID                 uuid.UUID      `json:"id"`
	Name               string         `json:"name,omitempty"`
	Description        string         `json:"description,omitempty"`
	ModelName          string         `json:"model_name"`
	ModelConfiguration map[string]any `json:"model_configuration,omitempty"`
	Backends           []BackendSpec  `json:"backends,omitempty"`
	RiskCategory       RiskCategory   `json:"risk_category,omitempty"`
	Priority           int            `json:"priority"`
	TimeoutMinutes     int            `json:"timeout_minutes"`
	RetryAttempts      *int           `json:"retry_attempts,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
}

type EvaluationRequest struct {
	RequestID      uuid.UUID         `json:"request_id"`
	Evaluations    []EvaluationSpec  `json:"evaluations"`
	ExperimentName string            `json:"experiment_name,omitempty"`
	Tags           map[string]string `json:"tags,omitempty"`
	AsyncMode      *bool             `json:"async_mode,omitempty"`
	CallbackURL    string            `json:"callback_url,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// Async reports the effective async flag; requests default to asynchronous
// execution when the field is absent.
func (r *EvaluationRequest) Async() bool {
	if r.AsyncMode == nil {
		return true
	}
	return *r.AsyncMode
}

// SingleBenchmarkRequest is the convenience payload for running one benchmark
// against one model. The benchmark name comes from the URL path.
type SingleBenchmarkRequest struct {
	ModelName          string            `json:"model_name"`
	ModelConfiguration map[string]any    `json:"model_configuration,omitempty"`
	TimeoutMinutes     int               `json:"timeout_minutes"`
	RetryAttempts      *int              `json:"retry_attempts,omitempty"`
	Limit              *int              `json:"limit,omitempty"`
	NumFewshot         *int              `json:"num_fewshot,omitempty"`
	ExperimentName     string            `json:"experiment_name,omitempty"`
	Tags               map[string]string `json:"tags,omitempty"`
}

type EvaluationResult struct {
	EvaluationID    uuid.UUID         `json:"evaluation_id"`
	BackendName     string            `json:"backend_name"`
	BenchmarkName   string            `json:"benchmark_name"`
	Status          EvaluationStatus  `json:"status"`
	Metrics         map[string]any    `json:"metrics,omitempty"`
	Artifacts       map[string]string `json:"artifacts,omitempty"`
	ErrorMessage    string            `json:"error_message,omitempty"`
	StartedAt       *time.Time        `json:"started_at,omitempty"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
	DurationSeconds *float64          `json:"duration_seconds,omitempty"`
	MLFlowRunID     string            `json:"mlflow_run_id,omitempty"`
}

type EvaluationResponse struct {
	RequestID            uuid.UUID          `json:"request_id"`
	Status               EvaluationStatus   `json:"status"`
	TotalEvaluations     int                `json:"total_evaluations"`
	CompletedEvaluations int                `json:"completed_evaluations"`
	FailedEvaluations    int                `json:"failed_evaluations"`
	Results              []EvaluationResult `json:"results"`
	AggregatedMetrics    map[string]float64 `json:"aggregated_metrics,omitempty"`
	ExperimentURL        string             `json:"experiment_url,omitempty"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
	EstimatedCompletion  *time.Time         `json:"estimated_completion,omitempty"`
	ProgressPercentage   float64            `json:"progress_percentage"`
}
