package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/julpayne/eval-hub/internal/aggregate"
	"github.com/julpayne/eval-hub/internal/apperr"
)

const defaultTimeout = 60 * time.Second

type HTTPOption func(*HTTPExecutor)

// HTTPExecutor talks to a backend engine exposing the job API:
// POST /v1/jobs, GET /v1/jobs/{id}, DELETE /v1/jobs/{id}.
type HTTPExecutor struct {
	base url.URL
	http *http.Client
}

func NewHTTPExecutor(baseURL string, opts ...HTTPOption) (*HTTPExecutor, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	e := &HTTPExecutor{
		base: *base,
		http: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func WithHTTPClient(client *http.Client) HTTPOption {
	return func(e *HTTPExecutor) {
		e.http = client
	}
}

type submitResponse struct {
	JobID string `json:"job_id"`
}

type jobResponse struct {
	Status    string                `json:"status"`
	Metrics   map[string]any        `json:"metrics,omitempty"`
	Groups    *aggregate.MetricNode `json:"groups,omitempty"`
	Artifacts map[string]string     `json:"artifacts,omitempty"`
	Error     string                `json:"error,omitempty"`
}

func (e *HTTPExecutor) Submit(ctx context.Context, unit Unit) (Handle, error) {
	var resp submitResponse
	if err := e.do(ctx, http.MethodPost, "/v1/jobs", unit, &resp); err != nil {
		return "", apperr.NewExecutionWrap("submit unit", err)
	}
	if resp.JobID == "" {
		return "", apperr.NewExecution("executor returned no job id")
	}
	return Handle(resp.JobID), nil
}

func (e *HTTPExecutor) Poll(ctx context.Context, handle Handle) (*Result, bool, error) {
	var resp jobResponse
	if err := e.do(ctx, http.MethodGet, "/v1/jobs/"+string(handle), nil, &resp); err != nil {
		return nil, false, apperr.NewExecutionWrap("poll unit", err)
	}

	switch resp.Status {
	case "pending", "running":
		return nil, false, nil
	case "completed":
		metrics := make(map[string]any, len(resp.Metrics))
		for k, v := range resp.Metrics {
			metrics[k] = v
		}
		// nested group results flatten into path-keyed metrics
		for k, v := range aggregate.Flatten(resp.Groups) {
			metrics[k] = v
		}
		return &Result{Metrics: metrics, Artifacts: resp.Artifacts}, true, nil
	case "failed":
		msg := resp.Error
		if msg == "" {
			msg = "executor reported failure"
		}
		return nil, true, apperr.NewExecution(msg)
	default:
		return nil, true, apperr.NewExecution(fmt.Sprintf("unknown job status %q", resp.Status))
	}
}

func (e *HTTPExecutor) Cancel(ctx context.Context, handle Handle) error {
	if err := e.do(ctx, http.MethodDelete, "/v1/jobs/"+string(handle), nil, nil); err != nil {
		return apperr.NewExecutionWrap("cancel unit", err)
	}
	return nil
}

func (e *HTTPExecutor) do(ctx context.Context, method, path string, reqData, respData any) error {
	var body io.Reader
	if reqData != nil {
		reqBytes, err := json.Marshal(reqData)
		if err != nil {
			return err
		}
		body = bytes.NewReader(reqBytes)
	}

	reqURL := e.base.JoinPath(path)
	request, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	resp, err := e.http.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(respBody))
	}

	if respData == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, respData); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
