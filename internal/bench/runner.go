package bench

import (
	"context"
	"fmt"
	"sort"
	"time"

	"batch-bench/internal/logger"
	"batch-bench/internal/metrics"
	"batch-bench/internal/store"
)

// Writer はRunnerが使う書き込み操作
type Writer interface {
	PutObject(ctx context.Context, bucket, key string, value store.Value, opts store.MethodOptions) (*store.Record, error)
	Batch(ctx context.Context, requests []store.BatchRequest, opts store.MethodOptions) ([]store.Record, error)
}

// Config はRunnerの設定
type Config struct {
	Bucket    string              // 書き込み先バケット
	Options   store.MethodOptions // 各呼び出しのオプション
	Collector *metrics.Collector  // nilなら記録しない
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{
		Bucket: "rust_batch_test_bucket",
	}
}

// PassResult は1パスの結果
type PassResult struct {
	Ordinal   int
	Strategy  string
	Elapsed   time.Duration
	Written   int // 書き込まれたオブジェクト数
	Batches   int // Batch呼び出し回数
	Dropped   int // 書き込まれなかった残り
	OpsPerSec float64
	Calls     metrics.Snapshot
}

// Runner はパスを実行して計測する
type Runner struct {
	writer  Writer
	config  Config
	metrics *metrics.Metrics
}

// New は新しいRunnerを作成する
func New(w Writer, config Config) *Runner {
	return &Runner{
		writer:  w,
		config:  config,
		metrics: metrics.New(),
	}
}

// Run は戦略に従って values を全て書き込み、経過時間を計測する
func (r *Runner) Run(ctx context.Context, s Strategy, ordinal int, values map[string]store.Value) (*PassResult, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r.metrics.Reset()
	res := &PassResult{
		Ordinal:  ordinal,
		Strategy: s.Name(),
	}

	start := time.Now()
	err := s.write(ctx, r, keys, values, res)
	elapsed := time.Since(start)
	if err != nil {
		if r.config.Collector != nil {
			r.config.Collector.ObserveFailure(s.Name())
		}
		return nil, fmt.Errorf("%s pass %d: %w", s.Name(), ordinal, err)
	}

	res.Elapsed = elapsed
	res.OpsPerSec = metrics.Throughput(res.Written, elapsed)
	res.Calls = r.metrics.Snapshot()

	logger.Info("bench", "%s pass %d took %d ms (written: %d, batches: %d, dropped: %d)",
		res.Strategy, ordinal, elapsed.Milliseconds(), res.Written, res.Batches, res.Dropped)

	if r.config.Collector != nil {
		r.config.Collector.ObservePass(metrics.PassObservation{
			Strategy: res.Strategy,
			Ordinal:  ordinal,
			Elapsed:  elapsed,
			Written:  res.Written,
			Batches:  res.Batches,
			Dropped:  res.Dropped,
		})
	}
	return res, nil
}

// flush は保留中のリクエストを1回のBatchで書き込む
func (r *Runner) flush(ctx context.Context, pending []store.BatchRequest, res *PassResult) error {
	start := time.Now()
	_, err := r.writer.Batch(ctx, pending, r.config.Options)
	latency := time.Since(start)
	if err != nil {
		r.metrics.RecordFailure(latency)
		return fmt.Errorf("batch %d: %w", res.Batches+1, err)
	}
	r.metrics.RecordSuccess(latency, len(pending))
	res.Batches++
	res.Written += len(pending)
	return nil
}
