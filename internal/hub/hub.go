// Package hub ties the pipeline together: it parses incoming requests,
// fans the resolved evaluations out to the dispatcher and turns tracker
// state into response snapshots callers can poll.
package hub

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julpayne/eval-hub/internal/aggregate"
	"github.com/julpayne/eval-hub/internal/callback"
	"github.com/julpayne/eval-hub/internal/config"
	"github.com/julpayne/eval-hub/internal/dispatch"
	"github.com/julpayne/eval-hub/internal/executor"
	"github.com/julpayne/eval-hub/internal/parser"
	"github.com/julpayne/eval-hub/internal/spec"
	"github.com/julpayne/eval-hub/internal/storage"
	"github.com/julpayne/eval-hub/internal/tracker"
	"github.com/julpayne/eval-hub/internal/tracking"
)

// ErrFinished is returned when a cancel hits a request that already
// reached a terminal state.
var ErrFinished = errors.New("evaluation request already finished")

type Option func(*Hub)

type Hub struct {
	settings   *config.Settings
	parser     *parser.Parser
	store      storage.Store
	sink       tracking.Sink
	notifier   *callback.Notifier
	dispatcher *dispatch.Dispatcher
	factory    dispatch.ExecutorFactory

	runsLock sync.RWMutex
	runs     map[uuid.UUID]*run
}

// run is a request still in flight. Terminal requests live in the store
// only.
type run struct {
	tracker       *tracker.Tracker
	cancel        context.CancelFunc
	experimentID  string
	experimentURL string
	createdAt     time.Time
	estimated     time.Time
	total         int
}

func New(settings *config.Settings, store storage.Store, sink tracking.Sink, notifier *callback.Notifier, opts ...Option) *Hub {
	h := &Hub{
		settings:   settings,
		parser:     parser.New(settings),
		store:      store,
		sink:       sink,
		notifier:   notifier,
		dispatcher: dispatch.New(settings.MaxConcurrentEvaluations),
		runs:       make(map[uuid.UUID]*run),
	}
	h.factory = func(backend spec.BackendSpec) (executor.Executor, error) {
		return executor.ForBackend(backend)
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func WithDispatcher(d *dispatch.Dispatcher) Option {
	return func(h *Hub) {
		h.dispatcher = d
	}
}

func WithExecutorFactory(factory dispatch.ExecutorFactory) Option {
	return func(h *Hub) {
		h.factory = factory
	}
}

// Submit validates and resolves the request, then runs it. Async requests
// return a pending snapshot immediately; sync requests block until every
// unit is terminal and return the final response.
func (h *Hub) Submit(ctx context.Context, req *spec.EvaluationRequest) (*spec.EvaluationResponse, error) {
	parsed, err := h.parser.Parse(req)
	if err != nil {
		return nil, err
	}

	keys, works := h.resolveWork(parsed)
	tr := tracker.New(parsed.RequestID, keys)

	experimentID, err := h.sink.CreateExperiment(ctx, parsed)
	if err != nil {
		slog.Warn("Tracking sink rejected experiment, continuing without tracking",
			"request_id", parsed.RequestID, "error", err)
		experimentID = ""
	}

	createdAt := parsed.CreatedAt
	estimated := createdAt.Add(time.Duration(h.parser.EstimateCompletionMinutes(parsed)) * time.Minute)

	runCtx, cancelRun := context.WithCancel(context.WithoutCancel(ctx))
	r := &run{
		tracker:       tr,
		cancel:        cancelRun,
		experimentID:  experimentID,
		experimentURL: h.sink.ExperimentURL(experimentID),
		createdAt:     createdAt,
		estimated:     estimated,
		total:         len(keys),
	}
	h.runsLock.Lock()
	h.runs[parsed.RequestID] = r
	h.runsLock.Unlock()

	slog.Info("Accepted evaluation request",
		"request_id", parsed.RequestID,
		"evaluations", len(parsed.Evaluations),
		"units", len(keys),
		"async", parsed.Async())

	if parsed.Async() {
		snap := h.snapshot(parsed.RequestID, r)
		if err := h.store.Save(ctx, snap); err != nil {
			slog.Warn("Failed to persist initial snapshot", "request_id", parsed.RequestID, "error", err)
		}
		go h.execute(runCtx, parsed, r, works)
		return snap, nil
	}

	return h.execute(runCtx, parsed, r, works), nil
}

// SubmitBenchmark wraps a single benchmark into a one-unit synchronous
// request against the evaluation harness backend.
func (h *Hub) SubmitBenchmark(ctx context.Context, benchmarkName string, req *spec.SingleBenchmarkRequest) (*spec.EvaluationResponse, error) {
	syncMode := false
	full := &spec.EvaluationRequest{
		ExperimentName: req.ExperimentName,
		Tags:           req.Tags,
		AsyncMode:      &syncMode,
		Evaluations: []spec.EvaluationSpec{
			{
				Name:               benchmarkName,
				ModelName:          req.ModelName,
				ModelConfiguration: req.ModelConfiguration,
				TimeoutMinutes:     req.TimeoutMinutes,
				RetryAttempts:      req.RetryAttempts,
				Backends: []spec.BackendSpec{
					{
						Name: string(spec.KindLMEval),
						Type: spec.KindLMEval,
						Benchmarks: []spec.BenchmarkSpec{
							{
								Name:       benchmarkName,
								Tasks:      []string{benchmarkName},
								NumFewshot: req.NumFewshot,
								Limit:      req.Limit,
							},
						},
					},
				},
			},
		},
	}
	return h.Submit(ctx, full)
}

// Get returns the current snapshot for a request, live or persisted.
func (h *Hub) Get(ctx context.Context, requestID uuid.UUID) (*spec.EvaluationResponse, error) {
	h.runsLock.RLock()
	r, live := h.runs[requestID]
	h.runsLock.RUnlock()
	if live {
		return h.snapshot(requestID, r), nil
	}
	return h.store.Get(ctx, requestID)
}

// Cancel stops a live request. Units already terminal keep their state;
// everything else flips to cancelled.
func (h *Hub) Cancel(ctx context.Context, requestID uuid.UUID) (*spec.EvaluationResponse, error) {
	h.runsLock.RLock()
	r, live := h.runs[requestID]
	h.runsLock.RUnlock()
	if !live {
		if _, err := h.store.Get(ctx, requestID); err != nil {
			return nil, err
		}
		return nil, ErrFinished
	}

	r.tracker.CancelAll()
	r.cancel()
	slog.Info("Cancelled evaluation request", "request_id", requestID)
	return h.snapshot(requestID, r), nil
}

// execute runs the dispatcher to completion and returns the final
// response. The snapshot is authoritative even when persisting it fails.
func (h *Hub) execute(ctx context.Context, parsed *spec.EvaluationRequest, r *run, works []dispatch.Work) *spec.EvaluationResponse {
	h.dispatcher.Run(ctx, works, r.tracker, h.factory, h.sink, r.experimentID)

	final := h.snapshot(parsed.RequestID, r)
	if err := h.store.Save(context.WithoutCancel(ctx), final); err != nil {
		slog.Error("Failed to persist final response", "request_id", parsed.RequestID, "error", err)
	}

	h.runsLock.Lock()
	delete(h.runs, parsed.RequestID)
	h.runsLock.Unlock()

	slog.Info("Evaluation request finished",
		"request_id", parsed.RequestID,
		"status", final.Status,
		"completed", final.CompletedEvaluations,
		"failed", final.FailedEvaluations)

	if parsed.CallbackURL != "" {
		if err := h.notifier.Notify(context.WithoutCancel(ctx), parsed.CallbackURL, final); err != nil {
			slog.Error("Callback delivery failed", "request_id", parsed.RequestID, "error", err)
		}
	}
	return final
}

// resolveWork flattens the parsed request into tracker keys and dispatch
// work items. Higher priority evaluations are handed to the dispatcher
// first so they reach the admission gate ahead of the rest.
func (h *Hub) resolveWork(parsed *spec.EvaluationRequest) ([]tracker.UnitKey, []dispatch.Work) {
	var keys []tracker.UnitKey
	var works []dispatch.Work
	for i := range parsed.Evaluations {
		eval := &parsed.Evaluations[i]
		timeout := time.Duration(eval.TimeoutMinutes) * time.Minute
		budget := 0
		if eval.RetryAttempts != nil {
			budget = *eval.RetryAttempts
		}
		for _, backend := range eval.Backends {
			for _, benchmark := range backend.Benchmarks {
				key := tracker.UnitKey{
					EvaluationID: eval.ID,
					Backend:      backend.Name,
					Benchmark:    benchmark.Name,
				}
				keys = append(keys, key)
				works = append(works, dispatch.Work{
					Key: key,
					Unit: executor.Unit{
						EvaluationID:       eval.ID,
						ModelName:          eval.ModelName,
						ModelConfiguration: eval.ModelConfiguration,
						Backend:            backend,
						Benchmark:          benchmark,
					},
					Eval:        eval,
					Timeout:     timeout,
					RetryBudget: budget,
				})
			}
		}
	}
	sort.SliceStable(works, func(a, b int) bool {
		return works[a].Eval.Priority > works[b].Eval.Priority
	})
	return keys, works
}

func (h *Hub) snapshot(requestID uuid.UUID, r *run) *spec.EvaluationResponse {
	status := r.tracker.Status()
	total, completed, failed := r.tracker.Counts()
	results := r.tracker.Results()

	resp := &spec.EvaluationResponse{
		RequestID:            requestID,
		Status:               status,
		TotalEvaluations:     total,
		CompletedEvaluations: completed,
		FailedEvaluations:    failed,
		Results:              results,
		ExperimentURL:        r.experimentURL,
		CreatedAt:            r.createdAt,
		UpdatedAt:            time.Now().UTC(),
		ProgressPercentage:   r.tracker.Progress(),
	}
	if status.Terminal() {
		resp.AggregatedMetrics = aggregateCompleted(results)
	} else {
		estimated := r.estimated
		resp.EstimatedCompletion = &estimated
	}
	return resp
}

// aggregateCompleted summarizes metrics across completed units only.
func aggregateCompleted(results []spec.EvaluationResult) map[string]float64 {
	completed := make([]spec.EvaluationResult, 0, len(results))
	for _, r := range results {
		if r.Status == spec.StatusCompleted {
			completed = append(completed, r)
		}
	}
	return aggregate.Aggregate(completed)
}
