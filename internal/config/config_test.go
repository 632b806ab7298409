package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"batch-bench/internal/bench"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	return path
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
harness:
  name: nightly
  shard: 2
  domain: perf1.scloud.host
  bucket: nightly_bucket
  corpus_size: 5000
  batch_size: 100
  flush_remainder: true
  seed_corpus: false
  seed: 42
  request_timeout: 30s
  plan: [[batch, sequential], [sequential, batch]]
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Harness.Name != "nightly" {
		t.Errorf("expected name 'nightly', got '%s'", cfg.Harness.Name)
	}
	if cfg.Harness.Shard == nil || *cfg.Harness.Shard != 2 {
		t.Errorf("expected shard 2, got %v", cfg.Harness.Shard)
	}
	if cfg.Harness.FlushRemainder == nil || !*cfg.Harness.FlushRemainder {
		t.Error("expected flush_remainder to be true")
	}
	if len(cfg.Harness.Plan) != 2 || cfg.Harness.Plan[0][0] != "batch" {
		t.Errorf("unexpected plan: %v", cfg.Harness.Plan)
	}

	hc, err := cfg.ToHarnessConfig()
	if err != nil {
		t.Fatalf("failed to convert config: %v", err)
	}
	if hc.RequestTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", hc.RequestTimeout)
	}
	if hc.SeedCorpus {
		t.Error("expected seed corpus to be disabled")
	}
	if err := hc.Validate(); err != nil {
		t.Errorf("expected valid harness config: %v", err)
	}
}

func TestLoadFileJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
  "harness": {
    "name": "json-test",
    "corpus_size": 200,
    "batch_size": 20
  }
}`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Harness.Name != "json-test" {
		t.Errorf("expected name 'json-test', got '%s'", cfg.Harness.Name)
	}
	if cfg.Harness.BatchSize != 20 {
		t.Errorf("expected batch size 20, got %d", cfg.Harness.BatchSize)
	}
	if cfg.Harness.SeedCorpus != nil {
		t.Error("expected seed_corpus to be unset")
	}
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := LoadFile("/nonexistent/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadFileUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "config.txt", "test")

	_, err := LoadFile(path)
	if err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestLoadFileInvalidYAML(t *testing.T) {
	path := writeFile(t, "config.yml", "harness: [unterminated")

	_, err := LoadFile(path)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestToHarnessConfigDefaults(t *testing.T) {
	cfg := &FileConfig{}

	hc, err := cfg.ToHarnessConfig()
	if err != nil {
		t.Fatalf("failed to convert config: %v", err)
	}

	if hc.Bucket != "rust_batch_test_bucket" {
		t.Errorf("expected default bucket, got %s", hc.Bucket)
	}
	if hc.Shard != 1 || hc.BatchSize != 50 || hc.CorpusSize != 10000 {
		t.Errorf("unexpected defaults: shard %d, batch %d, corpus %d", hc.Shard, hc.BatchSize, hc.CorpusSize)
	}
	if !hc.SeedCorpus {
		t.Error("expected seed corpus by default")
	}
	if hc.FlushRemainder {
		t.Error("expected no remainder flush by default")
	}
}

func TestToHarnessConfigOverrides(t *testing.T) {
	cfg := &FileConfig{
		Harness: HarnessConfig{
			Name:           "test",
			Service:        "_kv",
			Proto:          "_udp",
			Shard:          intPtr(0),
			Domain:         "example.com",
			Bucket:         "b",
			CorpusSize:     intPtr(0),
			BatchSize:      10,
			FlushRemainder: boolPtr(true),
			SeedCorpus:     boolPtr(false),
			Seed:           9,
			Plan:           [][]string{{" Sequential "}, {"BATCH"}},
		},
	}

	hc, err := cfg.ToHarnessConfig()
	if err != nil {
		t.Fatalf("failed to convert config: %v", err)
	}

	if hc.Name != "test" || hc.Service != "_kv" || hc.Proto != "_udp" {
		t.Errorf("unexpected identity: %+v", hc)
	}
	if hc.Shard != 0 {
		t.Errorf("expected explicit shard 0, got %d", hc.Shard)
	}
	if hc.CorpusSize != 0 {
		t.Errorf("expected explicit corpus size 0, got %d", hc.CorpusSize)
	}
	if !hc.FlushRemainder || hc.SeedCorpus {
		t.Error("expected boolean overrides to apply")
	}
	if hc.Seed != 9 {
		t.Errorf("expected seed 9, got %d", hc.Seed)
	}
	if hc.Plan[0][0] != bench.StrategySequential || hc.Plan[1][0] != bench.StrategyBatch {
		t.Errorf("expected normalized plan, got %v", hc.Plan)
	}
}

func TestToHarnessConfigPreset(t *testing.T) {
	cfg := &FileConfig{Harness: HarnessConfig{Preset: "quick", BatchSize: 5}}

	hc, err := cfg.ToHarnessConfig()
	if err != nil {
		t.Fatalf("failed to convert config: %v", err)
	}
	if hc.Name != "quick" {
		t.Errorf("expected quick preset, got %s", hc.Name)
	}
	if hc.BatchSize != 5 {
		t.Errorf("expected batch size override, got %d", hc.BatchSize)
	}

	cfg.Harness.Preset = "nonexistent"
	if _, err := cfg.ToHarnessConfig(); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestToHarnessConfigInvalidTimeout(t *testing.T) {
	cfg := &FileConfig{Harness: HarnessConfig{RequestTimeout: "soon"}}

	_, err := cfg.ToHarnessConfig()
	if err == nil {
		t.Error("expected error for invalid request timeout")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		config   FileConfig
		hasError bool
	}{
		{
			name:     "valid config",
			config:   FileConfig{},
			hasError: false,
		},
		{
			name:     "negative shard",
			config:   FileConfig{Harness: HarnessConfig{Shard: intPtr(-1)}},
			hasError: true,
		},
		{
			name:     "negative corpus size",
			config:   FileConfig{Harness: HarnessConfig{CorpusSize: intPtr(-1)}},
			hasError: true,
		},
		{
			name:     "negative batch size",
			config:   FileConfig{Harness: HarnessConfig{BatchSize: -1}},
			hasError: true,
		},
		{
			name:     "empty plan round",
			config:   FileConfig{Harness: HarnessConfig{Plan: [][]string{{"batch"}, {}}}},
			hasError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.hasError && err == nil {
				t.Error("expected validation error")
			}
			if !tt.hasError && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
