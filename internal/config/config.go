// Package config はYAML/JSONの設定ファイルを読み込む。
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"batch-bench/internal/harness"

	"gopkg.in/yaml.v3"
)

// FileConfig は設定ファイルの構造
type FileConfig struct {
	Harness HarnessConfig `yaml:"harness" json:"harness"`
}

// HarnessConfig はハーネス設定
// 省略された項目はプリセット（既定はdefault）の値を使う
type HarnessConfig struct {
	Preset      string `yaml:"preset" json:"preset"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`

	Service string `yaml:"service" json:"service"`
	Proto   string `yaml:"proto" json:"proto"`
	Shard   *int   `yaml:"shard" json:"shard"`
	Domain  string `yaml:"domain" json:"domain"`

	Bucket         string     `yaml:"bucket" json:"bucket"`
	CorpusSize     *int       `yaml:"corpus_size" json:"corpus_size"`
	BatchSize      int        `yaml:"batch_size" json:"batch_size"`
	FlushRemainder *bool      `yaml:"flush_remainder" json:"flush_remainder"`
	SeedCorpus     *bool      `yaml:"seed_corpus" json:"seed_corpus"`
	Seed           int64      `yaml:"seed" json:"seed"`
	RequestTimeout string     `yaml:"request_timeout" json:"request_timeout"`
	Plan           [][]string `yaml:"plan" json:"plan"`
}

// LoadFile は設定ファイルを読み込む
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config FileConfig
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	return &config, nil
}

// ToHarnessConfig はFileConfigをharness.Configに変換する
func (f *FileConfig) ToHarnessConfig() (harness.Config, error) {
	hc := f.Harness

	config := harness.DefaultConfig()
	if hc.Preset != "" {
		preset, ok := harness.GetPreset(hc.Preset)
		if !ok {
			return config, fmt.Errorf("unknown preset: %s", hc.Preset)
		}
		config = preset
	}

	if hc.Name != "" {
		config.Name = hc.Name
	}
	if hc.Description != "" {
		config.Description = hc.Description
	}

	// 接続設定
	if hc.Service != "" {
		config.Service = hc.Service
	}
	if hc.Proto != "" {
		config.Proto = hc.Proto
	}
	if hc.Shard != nil {
		config.Shard = *hc.Shard
	}
	if hc.Domain != "" {
		config.Domain = hc.Domain
	}

	// 書き込み設定
	if hc.Bucket != "" {
		config.Bucket = hc.Bucket
	}
	if hc.CorpusSize != nil {
		config.CorpusSize = *hc.CorpusSize
	}
	if hc.BatchSize > 0 {
		config.BatchSize = hc.BatchSize
	}
	if hc.FlushRemainder != nil {
		config.FlushRemainder = *hc.FlushRemainder
	}
	if hc.SeedCorpus != nil {
		config.SeedCorpus = *hc.SeedCorpus
	}
	if hc.Seed != 0 {
		config.Seed = hc.Seed
	}
	if hc.RequestTimeout != "" {
		d, err := time.ParseDuration(hc.RequestTimeout)
		if err != nil {
			return config, fmt.Errorf("invalid request timeout: %w", err)
		}
		config.RequestTimeout = d
	}
	if len(hc.Plan) > 0 {
		config.Plan = normalizePlan(hc.Plan)
	}

	return config, nil
}

// normalizePlan は戦略名を小文字に揃える
func normalizePlan(plan [][]string) [][]string {
	out := make([][]string, len(plan))
	for i, round := range plan {
		out[i] = make([]string, len(round))
		for j, name := range round {
			out[i][j] = strings.ToLower(strings.TrimSpace(name))
		}
	}
	return out
}

// Validate は設定を検証する
func (f *FileConfig) Validate() error {
	hc := f.Harness

	var errs []error
	if hc.Shard != nil && *hc.Shard < 0 {
		errs = append(errs, errors.New("shard must be non-negative"))
	}
	if hc.CorpusSize != nil && *hc.CorpusSize < 0 {
		errs = append(errs, errors.New("corpus_size must be non-negative"))
	}
	if hc.BatchSize < 0 {
		errs = append(errs, errors.New("batch_size must be non-negative"))
	}
	for i, round := range hc.Plan {
		if len(round) == 0 {
			errs = append(errs, fmt.Errorf("plan round %d is empty", i+1))
		}
	}
	return errors.Join(errs...)
}
