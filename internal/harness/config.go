package harness

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"batch-bench/internal/bench"
	"batch-bench/internal/discovery"
	"batch-bench/internal/store"
)

// Config はハーネスの設定
type Config struct {
	Name        string // 計画名
	Description string // 説明

	// 接続設定
	Service string // SRVサービスラベル
	Proto   string // SRVプロトコルラベル
	Shard   int    // シャード番号
	Domain  string // ベースドメイン

	// 書き込み設定
	Bucket         string        // 書き込み先バケット
	CorpusSize     int           // 生成するオブジェクト数
	BatchSize      int           // バッチの閾値
	FlushRemainder bool          // 閾値未満の残りをフラッシュするか
	SeedCorpus     bool          // 計測前に元のコーパスを書き込むか
	Seed           int64         // 乱数シード（0で時刻から生成）
	RequestTimeout time.Duration // 呼び出しごとのタイムアウト（0で無制限）

	// Plan はラウンドごとの戦略名の並び
	Plan [][]string
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{
		Name:           "default",
		Description:    "Sequential then batch, then batch then sequential",
		Service:        store.DefaultService,
		Proto:          store.DefaultProto,
		Shard:          1,
		Domain:         "perf2.scloud.host",
		Bucket:         "rust_batch_test_bucket",
		CorpusSize:     10000,
		BatchSize:      50,
		FlushRemainder: false,
		SeedCorpus:     true,
		Plan:           DefaultPlan(),
	}
}

// DefaultPlan は順序効果を見るための2ラウンド4パスの計画を返す
func DefaultPlan() [][]string {
	return [][]string{
		{bench.StrategySequential, bench.StrategyBatch},
		{bench.StrategyBatch, bench.StrategySequential},
	}
}

// Validate は設定を検証する
func (c Config) Validate() error {
	var errs []error
	if c.Shard < 0 {
		errs = append(errs, fmt.Errorf("shard must not be negative: %d", c.Shard))
	}
	if c.Domain == "" {
		errs = append(errs, errors.New("domain is required"))
	}
	if c.Bucket == "" {
		errs = append(errs, errors.New("bucket is required"))
	}
	if c.CorpusSize < 0 {
		errs = append(errs, fmt.Errorf("corpus size must not be negative: %d", c.CorpusSize))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch size must be positive: %d", c.BatchSize))
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("request timeout must not be negative: %v", c.RequestTimeout))
	}
	if c.PassCount() == 0 {
		errs = append(errs, errors.New("plan has no passes"))
	}
	for i, round := range c.Plan {
		for _, name := range round {
			if _, err := bench.ParseStrategy(name, c.Batched()); err != nil {
				errs = append(errs, fmt.Errorf("plan round %d: %w", i+1, err))
			}
		}
	}
	return errors.Join(errs...)
}

// PassCount は計画に含まれるパス数を返す
func (c Config) PassCount() int {
	n := 0
	for _, round := range c.Plan {
		n += len(round)
	}
	return n
}

// Batched はバッチ戦略を返す
func (c Config) Batched() bench.Batched {
	return bench.Batched{
		Threshold:      c.BatchSize,
		FlushRemainder: c.FlushRemainder,
	}
}

// Factory はこの設定のサービスラベルで接続するファクトリを返す
// resolverがnilならシステムのリゾルバを使う
func (c Config) Factory(resolver discovery.Resolver, rng *rand.Rand) store.Factory {
	return store.Factory{
		Locator: discovery.NewLocator(resolver, rng),
		Service: c.Service,
		Proto:   c.Proto,
	}
}
