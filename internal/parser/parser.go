// Package parser turns a raw evaluation request into a fully resolved one:
// it validates the payload, expands risk categories into concrete backends
// and overlays the configured defaults. The pipeline is pure transformation
// over a clone of the request; caller structures are never mutated.
package parser

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/julpayne/eval-hub/internal/config"
	"github.com/julpayne/eval-hub/internal/spec"
)

type Parser struct {
	settings *config.Settings
}

func New(settings *config.Settings) *Parser {
	return &Parser{settings: settings}
}

// Parse validates req and returns a resolved copy with generated IDs,
// expanded backends and defaulted configuration.
func (p *Parser) Parse(req *spec.EvaluationRequest) (*spec.EvaluationRequest, error) {
	resolved := req.Clone()
	p.normalize(&resolved)

	if err := p.validateRequest(&resolved); err != nil {
		return nil, err
	}

	for i := range resolved.Evaluations {
		eval := &resolved.Evaluations[i]

		if len(eval.Backends) == 0 && eval.RiskCategory != "" {
			backends, err := p.ExpandRiskCategory(eval.RiskCategory, eval.ModelName)
			if err != nil {
				return nil, err
			}
			eval.Backends = backends
			slog.Info("Generated backends from risk category",
				"evaluation_id", eval.ID,
				"risk_category", eval.RiskCategory,
				"backend_count", len(backends))
		}

		for j := range eval.Backends {
			eval.Backends[j] = p.ApplyDefaults(eval.Backends[j])
		}
	}

	slog.Info("Parsed evaluation request",
		"request_id", resolved.RequestID,
		"evaluation_count", len(resolved.Evaluations),
		"benchmark_count", TotalBenchmarkCount(&resolved))

	return &resolved, nil
}

// normalize fills generated identifiers and absent-field defaults before
// validation. CreatedAt is immutable once set.
func (p *Parser) normalize(req *spec.EvaluationRequest) {
	if req.RequestID == uuid.Nil {
		req.RequestID = uuid.New()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	for i := range req.Evaluations {
		eval := &req.Evaluations[i]
		if eval.ID == uuid.Nil {
			eval.ID = uuid.New()
		}
		if eval.TimeoutMinutes == 0 {
			eval.TimeoutMinutes = p.settings.DefaultTimeoutMinutes
		}
		if eval.RetryAttempts == nil {
			attempts := p.settings.MaxRetryAttempts
			eval.RetryAttempts = &attempts
		}
	}
}
