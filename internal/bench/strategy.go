package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"batch-bench/internal/store"
)

// 戦略名
const (
	StrategySequential = "sequential"
	StrategyBatch      = "batch"
)

// ErrInvalidThreshold はバッチ閾値が不正な場合のエラー
var ErrInvalidThreshold = errors.New("batch threshold must be positive")

// Strategy は1パス分の書き込み方法
type Strategy interface {
	Name() string
	write(ctx context.Context, r *Runner, keys []string, values map[string]store.Value, res *PassResult) error
}

// Sequential は1件ずつ書き込む戦略
type Sequential struct{}

// Name は戦略名を返す
func (Sequential) Name() string { return StrategySequential }

func (Sequential) write(ctx context.Context, r *Runner, keys []string, values map[string]store.Value, res *PassResult) error {
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		_, err := r.writer.PutObject(ctx, r.config.Bucket, key, values[key], r.config.Options)
		latency := time.Since(start)
		if err != nil {
			r.metrics.RecordFailure(latency)
			return fmt.Errorf("put %s: %w", key, err)
		}
		r.metrics.RecordSuccess(latency, 1)
		res.Written++
	}
	return nil
}

// Batched は閾値ごとにまとめて書き込む戦略
type Batched struct {
	Threshold      int  // 1回のバッチに含める件数
	FlushRemainder bool // 閾値に満たない残りを最後に書き込むか
}

// Name は戦略名を返す
func (Batched) Name() string { return StrategyBatch }

func (b Batched) write(ctx context.Context, r *Runner, keys []string, values map[string]store.Value, res *PassResult) error {
	if b.Threshold <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidThreshold, b.Threshold)
	}

	pending := make([]store.BatchRequest, 0, b.Threshold)
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}

		pending = append(pending, store.NewPut(r.config.Bucket, key, values[key], r.config.Options))
		if len(pending) == b.Threshold {
			if err := r.flush(ctx, pending, res); err != nil {
				return err
			}
			pending = make([]store.BatchRequest, 0, b.Threshold)
		}
	}

	if len(pending) == 0 {
		return nil
	}
	if !b.FlushRemainder {
		res.Dropped = len(pending)
		return nil
	}
	return r.flush(ctx, pending, res)
}

// ParseStrategy は戦略名から戦略を作成する
func ParseStrategy(name string, batch Batched) (Strategy, error) {
	switch name {
	case StrategySequential:
		return Sequential{}, nil
	case StrategyBatch:
		return batch, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}
