package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration for the detector process. A missing
// file is not an error; defaults apply.
type Config struct {
	ModelPath     string `yaml:"model_path"`
	MaxFeatures   int    `yaml:"max_features"`
	TrendStore    string `yaml:"trend_store"` // memory, sqlite or postgres
	TrendDBPath   string `yaml:"trend_db_path"`
	PostgresDSN   string `yaml:"postgres_dsn"`
	TrendQueue    int    `yaml:"trend_queue"`
	BatchWorkers  int    `yaml:"batch_workers"`
	MaxBatchItems int    `yaml:"max_batch_items"`
}

func Default() Config {
	return Config{
		ModelPath:     "model.json",
		MaxFeatures:   5000,
		TrendStore:    "memory",
		TrendDBPath:   "trends.db",
		TrendQueue:    256,
		BatchWorkers:  4,
		MaxBatchItems: 50,
	}
}

func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	switch cfg.TrendStore {
	case "", "memory", "sqlite", "postgres":
	default:
		return cfg, fmt.Errorf("unknown trend_store %q", cfg.TrendStore)
	}
	return cfg, nil
}
