package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/julpayne/eval-hub/internal/spec"
)

// RiskProfile maps a risk category onto the benchmark set it expands into.
// A nil Limit means the full sample set is evaluated.
type RiskProfile struct {
	Benchmarks []string `yaml:"benchmarks" validate:"min=1"`
	NumFewshot *int     `yaml:"num_fewshot"`
	Limit      *int     `yaml:"limit"`
}

type MLflowSettings struct {
	TrackingURI      string `yaml:"tracking_uri" validate:"required"`
	ExperimentPrefix string `yaml:"experiment_prefix"`
	ArtifactLocation string `yaml:"artifact_location"`
}

type CallbackSettings struct {
	TimeoutSeconds int `yaml:"timeout_seconds" validate:"gte=1"`
	RetryAttempts  int `yaml:"retry_attempts" validate:"gte=0"`
}

// Settings is the explicit configuration object handed to every component at
// construction time. Nothing reads process-global state after startup;
// tests build their own Settings via Default().
type Settings struct {
	AppName string `yaml:"app_name"`
	Version string `yaml:"version"`

	MaxConcurrentEvaluations int `yaml:"max_concurrent_evaluations" validate:"gte=1"`
	DefaultTimeoutMinutes    int `yaml:"default_timeout_minutes" validate:"gte=1"`
	MaxRetryAttempts         int `yaml:"max_retry_attempts" validate:"gte=0"`

	// BackendConfigs holds the per-backend default configuration overlaid
	// under caller-supplied config. Its key set is also the set of known
	// backend names.
	BackendConfigs map[string]map[string]any `yaml:"backend_configs" validate:"min=1"`

	// BackendKinds classifies backend names for risk-category expansion.
	// Names absent from the table fall back to the load-generator kind.
	BackendKinds map[string]spec.BackendKind `yaml:"backend_kinds"`

	RiskCategoryBenchmarks map[spec.RiskCategory]RiskProfile `yaml:"risk_category_benchmarks" validate:"min=1"`

	MLflow   MLflowSettings   `yaml:"mlflow"`
	Callback CallbackSettings `yaml:"callback"`
}

func intPtr(v int) *int { return &v }

// Default returns the compiled-in settings. They mirror the service's
// shipped configuration and are the baseline every load path overlays.
func Default() *Settings {
	return &Settings{
		AppName:                  "eval-hub",
		Version:                  "0.1.0",
		MaxConcurrentEvaluations: 10,
		DefaultTimeoutMinutes:    60,
		MaxRetryAttempts:         3,
		BackendConfigs: map[string]map[string]any{
			"lm-evaluation-harness": {
				"image":     "eval-harness:latest",
				"resources": map[string]any{"cpu": "2", "memory": "4Gi"},
				"timeout":   3600,
			},
			"guidellm": {
				"image":     "guidellm:latest",
				"resources": map[string]any{"cpu": "1", "memory": "2Gi"},
				"timeout":   1800,
			},
		},
		BackendKinds: map[string]spec.BackendKind{
			"lm-evaluation-harness": spec.KindLMEval,
			"guidellm":              spec.KindGuideLLM,
		},
		RiskCategoryBenchmarks: map[spec.RiskCategory]RiskProfile{
			spec.RiskLow: {
				Benchmarks: []string{"hellaswag", "arc_easy"},
				NumFewshot: intPtr(5),
				Limit:      intPtr(100),
			},
			spec.RiskMedium: {
				Benchmarks: []string{"hellaswag", "arc_easy", "arc_challenge", "winogrande"},
				NumFewshot: intPtr(5),
				Limit:      intPtr(500),
			},
			spec.RiskHigh: {
				Benchmarks: []string{"hellaswag", "arc_easy", "arc_challenge", "winogrande", "mmlu"},
				NumFewshot: intPtr(5),
				Limit:      intPtr(1000),
			},
			spec.RiskCritical: {
				Benchmarks: []string{"hellaswag", "arc_easy", "arc_challenge", "winogrande", "mmlu", "gsm8k"},
				NumFewshot: intPtr(5),
			},
		},
		MLflow: MLflowSettings{
			TrackingURI:      "http://localhost:5000",
			ExperimentPrefix: "eval-hub",
		},
		Callback: CallbackSettings{
			TimeoutSeconds: 30,
			RetryAttempts:  3,
		},
	}
}

// KnownBackends lists the backend names the service is configured for,
// used in validation error messages.
func (s *Settings) KnownBackends() []string {
	names := make([]string, 0, len(s.BackendConfigs))
	for name := range s.BackendConfigs {
		names = append(names, name)
	}
	return names
}

// KindOf classifies a backend name for risk-category expansion.
func (s *Settings) KindOf(backendName string) spec.BackendKind {
	if kind, ok := s.BackendKinds[backendName]; ok {
		return kind
	}
	return spec.KindGuideLLM
}

func (s *Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}
