// Package tracker maintains the lifecycle state of every execution unit of a
// request and derives the request-level aggregate from it. All mutation goes
// through one mutex per request, so concurrent unit completions never race on
// the aggregate counters.
package tracker

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/julpayne/eval-hub/internal/spec"
)

// UnitKey identifies one (evaluation, backend, benchmark) execution unit.
type UnitKey struct {
	EvaluationID uuid.UUID
	Backend      string
	Benchmark    string
}

func (k UnitKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.EvaluationID, k.Backend, k.Benchmark)
}

type Unit struct {
	Key           UnitKey
	Status        spec.EvaluationStatus
	StartedAt     *time.Time
	InitializedAt *time.Time
	CompletedAt   *time.Time
	ErrorMessage  string
}

type Tracker struct {
	mu sync.RWMutex

	requestID uuid.UUID
	order     []UnitKey
	units     map[UnitKey]*Unit
	results   map[UnitKey]*spec.EvaluationResult
	cancelled bool
	now       func() time.Time
}

func New(requestID uuid.UUID, keys []UnitKey) *Tracker {
	t := &Tracker{
		requestID: requestID,
		order:     append([]UnitKey(nil), keys...),
		units:     make(map[UnitKey]*Unit, len(keys)),
		results:   make(map[UnitKey]*spec.EvaluationResult, len(keys)),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, key := range keys {
		t.units[key] = &Unit{Key: key, Status: spec.StatusPending}
	}
	return t
}

// allowed lists the accepted transitions out of each non-terminal state.
// Failed and cancelled are reachable from any non-terminal state and are
// checked separately.
var allowed = map[spec.EvaluationStatus][]spec.EvaluationStatus{
	spec.StatusPending:      {spec.StatusInitializing},
	spec.StatusInitializing: {spec.StatusRunning, spec.StatusPending},
	spec.StatusRunning:      {spec.StatusCompleting, spec.StatusTimeout, spec.StatusPending},
	spec.StatusCompleting:   {spec.StatusCompleted, spec.StatusPending},
}

func (t *Tracker) transition(key UnitKey, to spec.EvaluationStatus) error {
	unit, ok := t.units[key]
	if !ok {
		return fmt.Errorf("unknown unit %s", key)
	}
	if unit.Status.Terminal() {
		return fmt.Errorf("unit %s is %s, no further transitions accepted", key, unit.Status)
	}

	if to != spec.StatusFailed && to != spec.StatusCancelled {
		legal := false
		for _, next := range allowed[unit.Status] {
			if next == to {
				legal = true
				break
			}
		}
		if !legal {
			return fmt.Errorf("illegal transition %s -> %s for unit %s", unit.Status, to, key)
		}
	}

	now := t.now()
	switch to {
	case spec.StatusInitializing:
		if unit.StartedAt == nil {
			unit.StartedAt = &now
		}
		unit.InitializedAt = &now
	case spec.StatusCompleted, spec.StatusFailed, spec.StatusCancelled, spec.StatusTimeout:
		unit.CompletedAt = &now
	}
	unit.Status = to
	return nil
}

// Dispatch marks a pending unit handed to an executor.
func (t *Tracker) Dispatch(key UnitKey) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.transition(key, spec.StatusInitializing)
}

// Acknowledge records the first executor heartbeat.
func (t *Tracker) Acknowledge(key UnitKey) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.transition(key, spec.StatusRunning)
}

// Completing records receipt of raw results, before persistence.
func (t *Tracker) Completing(key UnitKey) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.transition(key, spec.StatusCompleting)
}

// Complete records successful persistence of results and stores the result.
func (t *Tracker) Complete(key UnitKey, result *spec.EvaluationResult) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.transition(key, spec.StatusCompleted); err != nil {
		return err
	}
	t.setResult(key, spec.StatusCompleted, result)
	return nil
}

// Fail moves a non-terminal unit to failed and records the error text.
func (t *Tracker) Fail(key UnitKey, message string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.transition(key, spec.StatusFailed); err != nil {
		return err
	}
	t.units[key].ErrorMessage = message
	t.setResult(key, spec.StatusFailed, nil)
	return nil
}

// Timeout marks a running unit that exceeded its wall-clock deadline. Kept
// distinct from failed so callers can tell "ran out of time" from "errored".
func (t *Tracker) Timeout(key UnitKey) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.transition(key, spec.StatusTimeout); err != nil {
		return err
	}
	t.units[key].ErrorMessage = "evaluation timed out"
	t.setResult(key, spec.StatusTimeout, nil)
	return nil
}

// Requeue returns a unit to pending after a retryable executor failure.
func (t *Tracker) Requeue(key UnitKey) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.transition(key, spec.StatusPending)
}

// CancelAll flips every non-terminal unit to cancelled. Units already in a
// terminal state are unaffected.
func (t *Tracker) CancelAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelled = true
	for _, key := range t.order {
		unit := t.units[key]
		if unit.Status.Terminal() {
			continue
		}
		_ = t.transition(key, spec.StatusCancelled)
		t.setResult(key, spec.StatusCancelled, nil)
	}
}

// Cancelled reports whether the request was cancelled.
func (t *Tracker) Cancelled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cancelled
}

func (t *Tracker) setResult(key UnitKey, status spec.EvaluationStatus, result *spec.EvaluationResult) {
	unit := t.units[key]
	if result == nil {
		existing := t.results[key]
		result = &spec.EvaluationResult{
			EvaluationID:  key.EvaluationID,
			BackendName:   key.Backend,
			BenchmarkName: key.Benchmark,
		}
		if existing != nil {
			*result = *existing
		}
	}
	result.Status = status
	result.ErrorMessage = unit.ErrorMessage
	result.StartedAt = unit.StartedAt
	result.CompletedAt = unit.CompletedAt
	if unit.StartedAt != nil && unit.CompletedAt != nil {
		duration := unit.CompletedAt.Sub(*unit.StartedAt).Seconds()
		result.DurationSeconds = &duration
	}
	t.results[key] = result
}

// Unit returns a snapshot of one unit.
func (t *Tracker) Unit(key UnitKey) (Unit, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	unit, ok := t.units[key]
	if !ok {
		return Unit{}, false
	}
	return *unit, true
}

// Status returns the derived aggregate status. It is never stored.
func (t *Tracker) Status() spec.EvaluationStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.aggregateLocked()
}

func (t *Tracker) aggregateLocked() spec.EvaluationStatus {
	var pending, inFlight, completed, failed, cancelled int
	for _, unit := range t.units {
		switch unit.Status {
		case spec.StatusPending:
			pending++
		case spec.StatusCompleted:
			completed++
		case spec.StatusFailed, spec.StatusTimeout:
			failed++
		case spec.StatusCancelled:
			cancelled++
		default:
			inFlight++
		}
	}

	total := len(t.units)
	switch {
	case total == 0:
		return spec.StatusPending
	case inFlight > 0 || (pending > 0 && pending < total):
		return spec.StatusRunning
	case pending == total:
		return spec.StatusPending
	case completed == total:
		return spec.StatusCompleted
	case failed > 0:
		return spec.StatusFailed
	default:
		return spec.StatusCancelled
	}
}

// Progress returns the terminal share of units as a percentage. It is
// monotonically non-decreasing until the aggregate reaches a terminal state.
func (t *Tracker) Progress() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.units) == 0 {
		return 0
	}
	terminal := 0
	for _, unit := range t.units {
		if unit.Status.Terminal() {
			terminal++
		}
	}
	return float64(terminal) / float64(len(t.units)) * 100
}

// Counts returns total, completed and failed unit counts; failed includes
// timed-out units.
func (t *Tracker) Counts() (total, completed, failed int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	total = len(t.units)
	for _, unit := range t.units {
		switch unit.Status {
		case spec.StatusCompleted:
			completed++
		case spec.StatusFailed, spec.StatusTimeout:
			failed++
		}
	}
	return total, completed, failed
}

// Results returns the recorded results in unit order.
func (t *Tracker) Results() []spec.EvaluationResult {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]spec.EvaluationResult, 0, len(t.results))
	for _, key := range t.order {
		if result, ok := t.results[key]; ok {
			out = append(out, *result)
		}
	}
	return out
}
