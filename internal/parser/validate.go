package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julpayne/eval-hub/internal/apperr"
	"github.com/julpayne/eval-hub/internal/spec"
)

const maxEvaluationsPerRequest = 100

// validateRequest is a pure function of the request; the first violation
// aborts further processing with the exact offending field path.
func (p *Parser) validateRequest(req *spec.EvaluationRequest) error {
	if len(req.Evaluations) == 0 {
		return apperr.NewValidation("request must contain at least one evaluation")
	}
	if len(req.Evaluations) > maxEvaluationsPerRequest {
		return apperr.NewValidation(fmt.Sprintf("request cannot contain more than %d evaluations", maxEvaluationsPerRequest))
	}

	for i := range req.Evaluations {
		path := fmt.Sprintf("evaluations[%d]", i)
		if err := p.validateEvaluation(&req.Evaluations[i], path); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) validateEvaluation(eval *spec.EvaluationSpec, path string) error {
	if eval.ModelName == "" {
		return apperr.NewValidationAt(path, "model_name is required")
	}
	if len(eval.Backends) == 0 && eval.RiskCategory == "" {
		return apperr.NewValidationAt(path, "must specify either backends or risk_category")
	}
	if eval.TimeoutMinutes <= 0 {
		return apperr.NewValidationAt(path, "timeout_minutes must be positive")
	}
	if eval.RetryAttempts != nil && *eval.RetryAttempts < 0 {
		return apperr.NewValidationAt(path, "retry_attempts cannot be negative")
	}

	seen := make(map[string]bool, len(eval.Backends))
	for j := range eval.Backends {
		backendPath := fmt.Sprintf("%s.backends[%d]", path, j)
		if name := eval.Backends[j].Name; seen[name] {
			return apperr.NewValidationAt(backendPath, fmt.Sprintf("duplicate backend name %q", name))
		} else if name != "" {
			seen[name] = true
		}
		if err := p.validateBackend(&eval.Backends[j], backendPath); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) validateBackend(backend *spec.BackendSpec, path string) error {
	if backend.Name == "" {
		return apperr.NewValidationAt(path, "name is required")
	}
	if len(backend.Benchmarks) == 0 {
		return apperr.NewValidationAt(path, "must specify at least one benchmark")
	}

	if backend.Type != spec.KindCustom {
		if _, known := p.settings.BackendConfigs[backend.Name]; !known {
			supported := p.settings.KnownBackends()
			sort.Strings(supported)
			return apperr.NewValidationAt(path, fmt.Sprintf(
				"unsupported backend %q, supported backends: [%s]",
				backend.Name, strings.Join(supported, ", ")))
		}
	}

	seen := make(map[string]bool, len(backend.Benchmarks))
	for k := range backend.Benchmarks {
		benchPath := fmt.Sprintf("%s.benchmarks[%d]", path, k)
		if name := backend.Benchmarks[k].Name; seen[name] {
			return apperr.NewValidationAt(benchPath, fmt.Sprintf("duplicate benchmark name %q", name))
		} else if name != "" {
			seen[name] = true
		}
		if err := validateBenchmark(&backend.Benchmarks[k], benchPath); err != nil {
			return err
		}
	}
	return nil
}

func validateBenchmark(benchmark *spec.BenchmarkSpec, path string) error {
	if benchmark.Name == "" {
		return apperr.NewValidationAt(path, "name is required")
	}
	if len(benchmark.Tasks) == 0 {
		return apperr.NewValidationAt(path, "must specify at least one task")
	}
	if benchmark.NumFewshot != nil && *benchmark.NumFewshot < 0 {
		return apperr.NewValidationAt(path, "num_fewshot cannot be negative")
	}
	if benchmark.BatchSize != nil && *benchmark.BatchSize <= 0 {
		return apperr.NewValidationAt(path, "batch_size must be positive")
	}
	if benchmark.Limit != nil && *benchmark.Limit <= 0 {
		return apperr.NewValidationAt(path, "limit must be positive")
	}
	return nil
}
