package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing config must not fail: %v", err)
	}
	def := Default()
	if cfg != def {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fnd.yaml")
	content := `
model_path: /var/lib/fnd/model.json
trend_store: sqlite
trend_db_path: /var/lib/fnd/trends.db
batch_workers: 8
max_batch_items: 25
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ModelPath != "/var/lib/fnd/model.json" {
		t.Fatalf("unexpected model path: %s", cfg.ModelPath)
	}
	if cfg.TrendStore != "sqlite" || cfg.TrendDBPath != "/var/lib/fnd/trends.db" {
		t.Fatalf("unexpected trend store settings: %+v", cfg)
	}
	if cfg.BatchWorkers != 8 || cfg.MaxBatchItems != 25 {
		t.Fatalf("unexpected batch settings: %+v", cfg)
	}
	// untouched keys keep their defaults
	if cfg.MaxFeatures != Default().MaxFeatures {
		t.Fatalf("expected default max_features, got %d", cfg.MaxFeatures)
	}
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fnd.yaml")
	if err := os.WriteFile(path, []byte("trend_store: cassandra\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown trend_store")
	}
}
