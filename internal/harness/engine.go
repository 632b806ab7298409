package harness

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"batch-bench/internal/bench"
	"batch-bench/internal/corpus"
	"batch-bench/internal/events"
	"batch-bench/internal/logger"
	"batch-bench/internal/metrics"
	"batch-bench/internal/store"

	"github.com/rs/xid"
)

// ErrAlreadyRunning は実行中のEngineを再度実行しようとした場合のエラー
var ErrAlreadyRunning = errors.New("harness is already running")

// ClientFactory はシャードへの接続を作成する
type ClientFactory interface {
	Connect(ctx context.Context, shard int, domain string) (store.Client, error)
}

// Ensure store.Factory implements ClientFactory
var _ ClientFactory = store.Factory{}

// Engine はベンチマーク実行エンジン
type Engine struct {
	config    Config
	factory   ClientFactory
	eventBus  *events.Bus
	collector *metrics.Collector

	mu      sync.RWMutex
	running bool
	state   State
	pass    int
	runID   string
}

// New は新しいEngineを作成する
func New(config Config, factory ClientFactory) *Engine {
	return &Engine{
		config:  config,
		factory: factory,
	}
}

// SetEventBus はイベントバスを設定する
func (e *Engine) SetEventBus(bus *events.Bus) {
	e.eventBus = bus
}

// SetCollector はPrometheusコレクタを設定する
func (e *Engine) SetCollector(c *metrics.Collector) {
	e.collector = c
}

// State は現在の状態と実行中のパス番号を返す
func (e *Engine) State() (State, int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state, e.pass
}

// IsRunning は実行中かどうかを返す
func (e *Engine) IsRunning() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running
}

// Run は計画の全パスを実行する
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if err := e.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	e.running = true
	e.runID = xid.New().String()
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	seed := e.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	result := &Result{
		RunID:     e.runID,
		Name:      e.config.Name,
		Shard:     e.config.Shard,
		Domain:    e.config.Domain,
		Bucket:    e.config.Bucket,
		BatchSize: e.config.BatchSize,
		Flush:     e.config.FlushRemainder,
		Seed:      seed,
		StartTime: time.Now(),
	}

	logger.Info("harness", "=== Run '%s' (%s) started, seed %d ===", e.config.Name, e.runID, seed)

	if err := e.run(ctx, rng, result); err != nil {
		e.transition(StateFailed, 0)
		return nil, err
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	e.transition(StateDone, 0)

	logger.Info("harness", "=== Run '%s' completed in %v ===", e.config.Name, result.Duration.Round(time.Millisecond))
	return result, nil
}

func (e *Engine) run(ctx context.Context, rng *rand.Rand, result *Result) error {
	e.transition(StateDiscover, 0)
	client, err := e.factory.Connect(ctx, e.config.Shard, e.config.Domain)
	if err != nil {
		return fmt.Errorf("connect to shard %d: %w", e.config.Shard, err)
	}
	defer func() { _ = client.Close() }()
	e.transition(StateClientReady, 0)

	opts := store.MethodOptions{Timeout: e.config.RequestTimeout}
	e.ensureBucket(ctx, client, opts)
	e.transition(StateBucketEnsured, 0)

	baseline := corpus.NewGenerator(rng).Generate(e.config.CorpusSize)
	result.CorpusSize = len(baseline)
	logger.Info("harness", "Generated corpus of %d objects", len(baseline))
	e.transition(StateCorpusReady, 0)

	runner := bench.New(client, bench.Config{
		Bucket:    e.config.Bucket,
		Options:   opts,
		Collector: e.collector,
	})

	if e.config.SeedCorpus {
		values, err := baseline.Serialize()
		if err != nil {
			return fmt.Errorf("serialize corpus: %w", err)
		}
		res, err := runner.Run(ctx, bench.Sequential{}, 0, values)
		if err != nil {
			e.publish(events.NewPassFailedEvent(e.runID, bench.StrategySequential, 0, err))
			return fmt.Errorf("seed corpus: %w", err)
		}
		result.SeedPass = res
		e.transition(StateSeeded, 0)
	}

	mutator := corpus.NewMutator(rng)
	ordinal := 0
	for _, round := range e.config.Plan {
		for _, name := range round {
			strategy, err := bench.ParseStrategy(name, e.config.Batched())
			if err != nil {
				return err
			}

			ordinal++
			e.transition(StatePass, ordinal)

			values, _, err := mutator.Mutate(baseline)
			if err != nil {
				return fmt.Errorf("mutate corpus for pass %d: %w", ordinal, err)
			}

			res, err := runner.Run(ctx, strategy, ordinal, values)
			if err != nil {
				e.publish(events.NewPassFailedEvent(e.runID, strategy.Name(), ordinal, err))
				return err
			}
			e.publish(events.NewPassCompleteEvent(e.runID, res.Strategy, ordinal, res.Elapsed, res.Written, res.Dropped))
			result.Passes = append(result.Passes, *res)
		}
	}
	return nil
}

// ensureBucket はバケットが無ければ作成する。作成の失敗は記録のみ
func (e *Engine) ensureBucket(ctx context.Context, client store.Client, opts store.MethodOptions) {
	_, err := client.GetBucket(ctx, e.config.Bucket, opts)
	if err == nil {
		logger.Info("harness", "Bucket %s exists", e.config.Bucket)
		return
	}
	logger.Debug("harness", "GetBucket %s: %v", e.config.Bucket, err)

	logger.Info("harness", "Creating bucket %s", e.config.Bucket)
	if err = client.CreateBucket(ctx, e.config.Bucket, store.DefaultSchema(), opts); err != nil {
		logger.Error("harness", "Failed to create bucket %s: %v", e.config.Bucket, err)
	}
}

func (e *Engine) transition(s State, pass int) {
	e.mu.Lock()
	e.state = s
	e.pass = pass
	runID := e.runID
	e.mu.Unlock()

	name := s.String()
	if s == StatePass {
		name = fmt.Sprintf("pass%d", pass)
	}
	logger.Debug("harness", "State -> %s", name)
	e.publish(events.NewStateChangeEvent(runID, name))
}

func (e *Engine) publish(ev events.Event) {
	if e.eventBus != nil {
		e.eventBus.Publish(ev)
	}
}
