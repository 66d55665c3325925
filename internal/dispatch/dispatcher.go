// Package dispatch runs resolved evaluation units through their executors.
// A global admission gate bounds how many units are in flight at once; units
// beyond the ceiling wait in pending. Each unit runs independently: failures,
// timeouts and retries never touch sibling units.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/julpayne/eval-hub/internal/apperr"
	"github.com/julpayne/eval-hub/internal/executor"
	"github.com/julpayne/eval-hub/internal/spec"
	"github.com/julpayne/eval-hub/internal/tracker"
	"github.com/julpayne/eval-hub/internal/tracking"
)

// Work is one unit plus its execution policy.
type Work struct {
	Key         tracker.UnitKey
	Unit        executor.Unit
	Eval        *spec.EvaluationSpec
	Timeout     time.Duration
	RetryBudget int
}

// ExecutorFactory resolves the executor for a backend. Returning an error
// fails the unit without touching its siblings.
type ExecutorFactory func(backend spec.BackendSpec) (executor.Executor, error)

type Option func(*Dispatcher)

type Dispatcher struct {
	gate         chan struct{}
	pollInterval time.Duration
	metrics      *Metrics
}

func New(maxConcurrent int, opts ...Option) *Dispatcher {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	d := &Dispatcher{
		gate:         make(chan struct{}, maxConcurrent),
		pollInterval: 2 * time.Second,
		metrics:      NewMetrics(prometheus.NewRegistry()),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func WithPollInterval(interval time.Duration) Option {
	return func(d *Dispatcher) {
		d.pollInterval = interval
	}
}

func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// Run executes every unit and blocks until all of them are terminal or ctx
// is cancelled. Cancellation is cooperative: the caller flips unit states
// via the tracker and Run signals executors best-effort.
func (d *Dispatcher) Run(
	ctx context.Context,
	works []Work,
	tr *tracker.Tracker,
	factory ExecutorFactory,
	sink tracking.Sink,
	experimentID string,
) {
	var wg sync.WaitGroup
	for _, work := range works {
		wg.Add(1)
		go func(work Work) {
			defer wg.Done()
			d.runUnit(ctx, work, tr, factory, sink, experimentID)
		}(work)
	}
	wg.Wait()
}

func (d *Dispatcher) runUnit(
	ctx context.Context,
	work Work,
	tr *tracker.Tracker,
	factory ExecutorFactory,
	sink tracking.Sink,
	experimentID string,
) {
	exec, err := factory(work.Unit.Backend)
	if err != nil {
		d.failUnit(tr, work.Key, fmt.Sprintf("no executor for backend %s: %v", work.Unit.Backend.Name, err))
		return
	}

	var deadline time.Time
	for attempt := 0; ; attempt++ {
		select {
		case d.gate <- struct{}{}:
		case <-ctx.Done():
			return
		}

		retryable, errMsg := d.attempt(ctx, work, tr, exec, sink, experimentID, &deadline)
		<-d.gate

		if errMsg == "" || ctx.Err() != nil {
			return
		}
		if retryable && attempt < work.RetryBudget {
			if err := tr.Requeue(work.Key); err != nil {
				return
			}
			d.metrics.Retries.Inc()
			slog.Warn("Requeued unit after executor failure",
				"unit", work.Key.String(),
				"attempt", attempt+1,
				"retry_budget", work.RetryBudget,
				"error", errMsg)
			continue
		}
		d.failUnit(tr, work.Key, errMsg)
		return
	}
}

// attempt runs one execution of the unit. It returns the failure message
// (empty on success or when the unit reached a non-failed terminal state)
// and whether that failure counts against the retry budget.
func (d *Dispatcher) attempt(
	ctx context.Context,
	work Work,
	tr *tracker.Tracker,
	exec executor.Executor,
	sink tracking.Sink,
	experimentID string,
	deadline *time.Time,
) (retryable bool, errMsg string) {
	d.metrics.InFlight.Inc()
	defer d.metrics.InFlight.Dec()

	if err := tr.Dispatch(work.Key); err != nil {
		// the unit went terminal while queued, nothing to run
		return false, ""
	}
	// the wall-clock deadline runs from the first dispatch; retries do not
	// extend it
	if deadline.IsZero() {
		*deadline = time.Now().Add(work.Timeout)
	}

	runID := d.startTracking(ctx, work, sink, experimentID)

	handle, err := exec.Submit(ctx, work.Unit)
	if err != nil {
		return true, err.Error()
	}
	if err := tr.Acknowledge(work.Key); err != nil {
		_ = exec.Cancel(context.WithoutCancel(ctx), handle)
		return false, ""
	}

	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = exec.Cancel(context.WithoutCancel(ctx), handle)
			d.metrics.Units.WithLabelValues("cancelled").Inc()
			return false, ""
		case <-ticker.C:
		}

		if time.Now().After(*deadline) {
			_ = exec.Cancel(context.WithoutCancel(ctx), handle)
			if err := tr.Timeout(work.Key); err == nil {
				d.metrics.Units.WithLabelValues("timeout").Inc()
			}
			return false, ""
		}

		result, done, err := exec.Poll(ctx, handle)
		if err != nil {
			var ee *apperr.ExecutionError
			if errors.As(err, &ee) {
				return true, ee.Error()
			}
			return true, err.Error()
		}
		if !done {
			continue
		}

		if err := tr.Completing(work.Key); err != nil {
			return false, ""
		}
		d.persist(ctx, work, tr, sink, runID, result)
		return false, ""
	}
}

func (d *Dispatcher) persist(
	ctx context.Context,
	work Work,
	tr *tracker.Tracker,
	sink tracking.Sink,
	runID string,
	result *executor.Result,
) {
	unitResult := &spec.EvaluationResult{
		EvaluationID:  work.Key.EvaluationID,
		BackendName:   work.Key.Backend,
		BenchmarkName: work.Key.Benchmark,
		Metrics:       result.Metrics,
		Artifacts:     result.Artifacts,
		MLFlowRunID:   runID,
	}

	if err := tr.Complete(work.Key, unitResult); err != nil {
		return
	}
	d.metrics.Units.WithLabelValues("completed").Inc()

	if runID != "" {
		if err := sink.LogResult(context.WithoutCancel(ctx), runID, unitResult); err != nil {
			slog.Warn("Tracking sink rejected result", "unit", work.Key.String(), "error", err)
		}
	}
}

func (d *Dispatcher) startTracking(ctx context.Context, work Work, sink tracking.Sink, experimentID string) string {
	if experimentID == "" {
		return ""
	}

	runID, err := sink.StartRun(ctx, experimentID, work.Eval, work.Key.Backend, work.Key.Benchmark)
	if err != nil {
		slog.Warn("Tracking sink rejected run", "unit", work.Key.String(), "error", err)
		return ""
	}

	params := map[string]string{
		"model_name":      work.Eval.ModelName,
		"timeout_minutes": strconv.Itoa(work.Eval.TimeoutMinutes),
		"tasks":           strconv.Itoa(len(work.Unit.Benchmark.Tasks)),
	}
	if work.Unit.Benchmark.NumFewshot != nil {
		params["num_fewshot"] = strconv.Itoa(*work.Unit.Benchmark.NumFewshot)
	}
	if work.Unit.Benchmark.BatchSize != nil {
		params["batch_size"] = strconv.Itoa(*work.Unit.Benchmark.BatchSize)
	}
	if work.Unit.Benchmark.Limit != nil {
		params["limit"] = strconv.Itoa(*work.Unit.Benchmark.Limit)
	}
	if err := sink.LogParameters(ctx, runID, params); err != nil {
		slog.Warn("Tracking sink rejected parameters", "unit", work.Key.String(), "error", err)
	}
	return runID
}

func (d *Dispatcher) failUnit(tr *tracker.Tracker, key tracker.UnitKey, message string) {
	if err := tr.Fail(key, message); err != nil {
		return
	}
	d.metrics.Units.WithLabelValues("failed").Inc()
	slog.Error("Unit failed", "unit", key.String(), "error", message)
}
