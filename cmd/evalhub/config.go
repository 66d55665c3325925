package main

import (
	"fmt"
	"os"

	"github.com/julpayne/eval-hub/internal/config"
	"github.com/julpayne/eval-hub/internal/storage/factory"
)

type AppConfig struct {
	Settings *config.Settings
	Storage  *factory.StorageConfig
}

// LoadAppConfig resolves pipeline settings from CONFIG_PATH (compiled-in
// defaults when unset) and the storage backend from the environment.
func LoadAppConfig() (*AppConfig, error) {
	settings, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	return &AppConfig{
		Settings: settings,
		Storage:  storageCfg,
	}, nil
}
