// Package callback delivers the final response payload to the caller's
// callback target once a request reaches a terminal aggregate state.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/julpayne/eval-hub/internal/config"
	"github.com/julpayne/eval-hub/internal/spec"
)

type Option func(*Notifier)

type Notifier struct {
	attempts int
	timeout  time.Duration
	backoff  time.Duration
	http     *http.Client
}

func New(cfg config.CallbackSettings, opts ...Option) *Notifier {
	n := &Notifier{
		attempts: cfg.RetryAttempts,
		timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		backoff:  2 * time.Second,
		http:     &http.Client{},
	}
	if n.attempts < 1 {
		n.attempts = 1
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func WithHTTPClient(client *http.Client) Option {
	return func(n *Notifier) {
		n.http = client
	}
}

func WithBackoff(d time.Duration) Option {
	return func(n *Notifier) {
		n.backoff = d
	}
}

// Notify POSTs response to target, retrying up to the configured attempt
// budget with a per-attempt timeout. Persistent failure is returned to the
// caller to record; it never reopens the request.
func (n *Notifier) Notify(ctx context.Context, target string, response *spec.EvaluationResponse) error {
	payload, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("marshal callback payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= n.attempts; attempt++ {
		lastErr = n.deliver(ctx, target, payload)
		if lastErr == nil {
			slog.Info("Delivered completion callback",
				"request_id", response.RequestID,
				"target", target,
				"attempt", attempt)
			return nil
		}

		slog.Warn("Callback delivery failed",
			"request_id", response.RequestID,
			"target", target,
			"attempt", attempt,
			"error", lastErr)

		if attempt < n.attempts {
			select {
			case <-time.After(n.backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("callback to %s failed after %d attempts: %w", target, n.attempts, lastErr)
}

func (n *Notifier) deliver(ctx context.Context, target string, payload []byte) error {
	attemptCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}
