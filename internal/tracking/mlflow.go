package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/julpayne/eval-hub/internal/apperr"
	"github.com/julpayne/eval-hub/internal/config"
	"github.com/julpayne/eval-hub/internal/spec"
)

const defaultTimeout = 30 * time.Second

type MLflowOption func(*MLflowSink)

// MLflowSink implements Sink against the MLflow 2.0 REST API.
type MLflowSink struct {
	base     url.URL
	prefix   string
	location string
	http     *http.Client
}

func NewMLflowSink(cfg config.MLflowSettings, opts ...MLflowOption) (*MLflowSink, error) {
	base, err := url.Parse(cfg.TrackingURI)
	if err != nil {
		return nil, fmt.Errorf("parse tracking URI: %w", err)
	}

	s := &MLflowSink{
		base:     *base,
		prefix:   cfg.ExperimentPrefix,
		location: cfg.ArtifactLocation,
		http:     &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func WithHTTPClient(client *http.Client) MLflowOption {
	return func(s *MLflowSink) {
		s.http = client
	}
}

type kv struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *MLflowSink) experimentName(req *spec.EvaluationRequest) string {
	suffix := req.ExperimentName
	if suffix == "" {
		suffix = req.RequestID.String()
	}
	if s.prefix == "" {
		return suffix
	}
	return s.prefix + "-" + suffix
}

func (s *MLflowSink) CreateExperiment(ctx context.Context, req *spec.EvaluationRequest) (string, error) {
	name := s.experimentName(req)

	createReq := map[string]any{
		"name": name,
		"tags": []kv{
			{Key: "request_id", Value: req.RequestID.String()},
			{Key: "evaluation_count", Value: strconv.Itoa(len(req.Evaluations))},
			{Key: "created_at", Value: req.CreatedAt.Format(time.RFC3339)},
		},
	}
	if s.location != "" {
		createReq["artifact_location"] = s.location
	}

	var created struct {
		ExperimentID string `json:"experiment_id"`
	}
	err := s.post(ctx, "/api/2.0/mlflow/experiments/create", createReq, &created)
	if err == nil {
		return created.ExperimentID, nil
	}
	if !strings.Contains(err.Error(), "RESOURCE_ALREADY_EXISTS") {
		return "", apperr.NewTrackingWrap("create experiment", err)
	}

	// reuse the existing experiment of the same name
	var got struct {
		Experiment struct {
			ExperimentID string `json:"experiment_id"`
		} `json:"experiment"`
	}
	getURL := "/api/2.0/mlflow/experiments/get-by-name?experiment_name=" + url.QueryEscape(name)
	if err := s.get(ctx, getURL, &got); err != nil {
		return "", apperr.NewTrackingWrap("get experiment", err)
	}
	return got.Experiment.ExperimentID, nil
}

func (s *MLflowSink) StartRun(ctx context.Context, experimentID string, eval *spec.EvaluationSpec, backendName, benchmarkName string) (string, error) {
	tags := []kv{
		{Key: "evaluation_id", Value: eval.ID.String()},
		{Key: "model_name", Value: eval.ModelName},
		{Key: "backend_name", Value: backendName},
		{Key: "benchmark_name", Value: benchmarkName},
		{Key: "priority", Value: strconv.Itoa(eval.Priority)},
	}
	if eval.RiskCategory != "" {
		tags = append(tags, kv{Key: "risk_category", Value: string(eval.RiskCategory)})
	}

	var created struct {
		Run struct {
			Info struct {
				RunID string `json:"run_id"`
			} `json:"info"`
		} `json:"run"`
	}
	err := s.post(ctx, "/api/2.0/mlflow/runs/create", map[string]any{
		"experiment_id": experimentID,
		"run_name":      fmt.Sprintf("%s_%s_%s", eval.ModelName, backendName, benchmarkName),
		"start_time":    time.Now().UnixMilli(),
		"tags":          tags,
	}, &created)
	if err != nil {
		return "", apperr.NewTrackingWrap("start run", err)
	}
	return created.Run.Info.RunID, nil
}

func (s *MLflowSink) LogParameters(ctx context.Context, runID string, params map[string]string) error {
	batch := make([]kv, 0, len(params))
	for key, value := range params {
		batch = append(batch, kv{Key: key, Value: value})
	}
	err := s.post(ctx, "/api/2.0/mlflow/runs/log-batch", map[string]any{
		"run_id": runID,
		"params": batch,
	}, nil)
	if err != nil {
		return apperr.NewTrackingWrap("log parameters", err)
	}
	return nil
}

type metricEntry struct {
	Key       string  `json:"key"`
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
}

func (s *MLflowSink) LogResult(ctx context.Context, runID string, result *spec.EvaluationResult) error {
	now := time.Now().UnixMilli()

	var metrics []metricEntry
	for key, value := range result.Metrics {
		switch v := value.(type) {
		case float64:
			metrics = append(metrics, metricEntry{Key: key, Value: v, Timestamp: now})
		case int:
			metrics = append(metrics, metricEntry{Key: key, Value: float64(v), Timestamp: now})
		}
	}
	tags := []kv{{Key: "status", Value: string(result.Status)}}
	for name, location := range result.Artifacts {
		tags = append(tags, kv{Key: "artifact." + name, Value: location})
	}

	if err := s.post(ctx, "/api/2.0/mlflow/runs/log-batch", map[string]any{
		"run_id":  runID,
		"metrics": metrics,
		"tags":    tags,
	}, nil); err != nil {
		return apperr.NewTrackingWrap("log result", err)
	}

	runStatus := "FINISHED"
	if result.Status != spec.StatusCompleted {
		runStatus = "FAILED"
	}
	if err := s.post(ctx, "/api/2.0/mlflow/runs/update", map[string]any{
		"run_id":   runID,
		"status":   runStatus,
		"end_time": now,
	}, nil); err != nil {
		return apperr.NewTrackingWrap("finish run", err)
	}
	return nil
}

func (s *MLflowSink) ExperimentURL(experimentID string) string {
	if experimentID == "" {
		return ""
	}
	u := s.base
	u.Fragment = "/experiments/" + experimentID
	return u.String()
}

func (s *MLflowSink) post(ctx context.Context, path string, reqData, respData any) error {
	reqBytes, err := json.Marshal(reqData)
	if err != nil {
		return err
	}
	return s.do(ctx, http.MethodPost, path, bytes.NewReader(reqBytes), respData)
}

func (s *MLflowSink) get(ctx context.Context, path string, respData any) error {
	return s.do(ctx, http.MethodGet, path, nil, respData)
}

func (s *MLflowSink) do(ctx context.Context, method, path string, body io.Reader, respData any) error {
	reqURL := s.base.JoinPath(strings.SplitN(path, "?", 2)[0])
	if i := strings.Index(path, "?"); i >= 0 {
		reqURL.RawQuery = path[i+1:]
	}

	request, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
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
