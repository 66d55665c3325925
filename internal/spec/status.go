package spec

type EvaluationStatus string

const (
	StatusPending      EvaluationStatus = "pending"
	StatusInitializing EvaluationStatus = "initializing"
	StatusRunning      EvaluationStatus = "running"
	StatusCompleting   EvaluationStatus = "completing"
	StatusCompleted    EvaluationStatus = "completed"
	StatusFailed       EvaluationStatus = "failed"
	StatusCancelled    EvaluationStatus = "cancelled"
	StatusTimeout      EvaluationStatus = "timeout"
)

// Terminal reports whether no further transitions are accepted from s.
func (s EvaluationStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled, StatusTimeout:
		return true
	}
	return false
}
