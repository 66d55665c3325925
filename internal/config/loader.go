package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load builds Settings from the compiled defaults, an optional YAML file and
// environment overrides, in that order. Pass an empty path to skip the file.
func Load(path string) (*Settings, error) {
	s := Default()

	if path != "" {
		if err := mergeFile(s, path); err != nil {
			return nil, err
		}
	}
	mergeEnv(s)

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func mergeFile(s *Settings, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("parse settings YAML: %w", err)
	}
	return nil
}

func mergeEnv(s *Settings) {
	if v := os.Getenv("MLFLOW_TRACKING_URI"); v != "" {
		s.MLflow.TrackingURI = v
	}
	if v := os.Getenv("MLFLOW_EXPERIMENT_PREFIX"); v != "" {
		s.MLflow.ExperimentPrefix = v
	}
	if v := os.Getenv("MAX_CONCURRENT_EVALUATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.MaxConcurrentEvaluations = n
		}
	}
	if v := os.Getenv("DEFAULT_TIMEOUT_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.DefaultTimeoutMinutes = n
		}
	}
}
