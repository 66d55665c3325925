package apperr

// ValidationError reports malformed caller input. Path points at the
// offending field using indexed notation, e.g.
// "evaluations[2].backends[0].benchmarks[1]".
type ValidationError struct {
	Path    string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationAt(path, msg string) *ValidationError {
	return &ValidationError{Path: path, Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// ConfigurationError reports server-side misconfiguration, such as an
// unmapped risk category. Surfaced as a 5xx; not retryable by the caller.
type ConfigurationError struct {
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func NewConfiguration(msg string) *ConfigurationError {
	return &ConfigurationError{Message: msg}
}

// ExecutionError reports a failure of the external executor for a single
// evaluation unit. It is scoped to that unit and consumed against the unit's
// retry budget; it never aborts sibling units.
type ExecutionError struct {
	Message string
	Err     error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func NewExecution(msg string) *ExecutionError {
	return &ExecutionError{Message: msg}
}

func NewExecutionWrap(msg string, err error) *ExecutionError {
	return &ExecutionError{Message: msg, Err: err}
}

// TrackingError reports a tracking-sink failure. Logged and swallowed;
// execution and aggregation proceed without the sink.
type TrackingError struct {
	Message string
	Err     error
}

func (e *TrackingError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TrackingError) Unwrap() error {
	return e.Err
}

func NewTrackingWrap(msg string, err error) *TrackingError {
	return &TrackingError{Message: msg, Err: err}
}
