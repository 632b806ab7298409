package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics はストア呼び出しのメトリクスを収集する
type Metrics struct {
	totalCalls     atomic.Uint64
	successCalls   atomic.Uint64
	failedCalls    atomic.Uint64
	objectsWritten atomic.Uint64
	totalLatencyNs atomic.Uint64

	mu                sync.RWMutex
	startTime         time.Time
	latencies         []time.Duration
	maxLatencySamples int
}

// Config はMetricsの設定
type Config struct {
	MaxLatencySamples int // P99計算に使うサンプル数の上限
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{
		MaxLatencySamples: 10000,
	}
}

// New は新しいメトリクスを作成する
func New() *Metrics {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig は設定を指定してメトリクスを作成する
func NewWithConfig(config Config) *Metrics {
	if config.MaxLatencySamples <= 0 {
		config.MaxLatencySamples = DefaultConfig().MaxLatencySamples
	}
	return &Metrics{
		startTime:         time.Now(),
		latencies:         make([]time.Duration, 0, min(config.MaxLatencySamples, 1024)),
		maxLatencySamples: config.MaxLatencySamples,
	}
}

// RecordSuccess は objects 件を書き込んだ成功呼び出しを記録する
func (m *Metrics) RecordSuccess(latency time.Duration, objects int) {
	m.totalCalls.Add(1)
	m.successCalls.Add(1)
	m.objectsWritten.Add(uint64(objects))
	m.totalLatencyNs.Add(uint64(latency.Nanoseconds()))

	m.mu.Lock()
	if len(m.latencies) < m.maxLatencySamples {
		m.latencies = append(m.latencies, latency)
	}
	m.mu.Unlock()
}

// RecordFailure は失敗した呼び出しを記録する
func (m *Metrics) RecordFailure(latency time.Duration) {
	m.totalCalls.Add(1)
	m.failedCalls.Add(1)
	m.totalLatencyNs.Add(uint64(latency.Nanoseconds()))
}

// TotalCalls は総呼び出し数を返す
func (m *Metrics) TotalCalls() uint64 {
	return m.totalCalls.Load()
}

// SuccessCalls は成功呼び出し数を返す
func (m *Metrics) SuccessCalls() uint64 {
	return m.successCalls.Load()
}

// FailedCalls は失敗呼び出し数を返す
func (m *Metrics) FailedCalls() uint64 {
	return m.failedCalls.Load()
}

// ObjectsWritten は書き込まれたオブジェクト数を返す
func (m *Metrics) ObjectsWritten() uint64 {
	return m.objectsWritten.Load()
}

// AverageLatency は平均レイテンシを返す
func (m *Metrics) AverageLatency() time.Duration {
	total := m.totalCalls.Load()
	if total == 0 {
		return 0
	}
	return time.Duration(m.totalLatencyNs.Load() / total)
}

// P99Latency はP99レイテンシを返す（サンプルベース）
func (m *Metrics) P99Latency() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.latencies) == 0 {
		return 0
	}

	sorted := make([]time.Duration, len(m.latencies))
	copy(sorted, m.latencies)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	idx := int(float64(len(sorted)) * 0.99)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// ErrorRate はエラー率を返す（0.0〜1.0）
func (m *Metrics) ErrorRate() float64 {
	total := m.totalCalls.Load()
	if total == 0 {
		return 0
	}
	return float64(m.failedCalls.Load()) / float64(total)
}

// Reset は全てのメトリクスをリセットする
func (m *Metrics) Reset() {
	m.totalCalls.Store(0)
	m.successCalls.Store(0)
	m.failedCalls.Store(0)
	m.objectsWritten.Store(0)
	m.totalLatencyNs.Store(0)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.startTime = time.Now()
	m.latencies = m.latencies[:0]
}

// Snapshot はメトリクスのスナップショット
type Snapshot struct {
	TotalCalls     uint64
	SuccessCalls   uint64
	FailedCalls    uint64
	ObjectsWritten uint64
	AverageLatency time.Duration
	P99Latency     time.Duration
	ErrorRate      float64
	Elapsed        time.Duration
}

// Snapshot は現在のメトリクスのスナップショットを返す
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	start := m.startTime
	m.mu.RUnlock()

	return Snapshot{
		TotalCalls:     m.TotalCalls(),
		SuccessCalls:   m.SuccessCalls(),
		FailedCalls:    m.FailedCalls(),
		ObjectsWritten: m.ObjectsWritten(),
		AverageLatency: m.AverageLatency(),
		P99Latency:     m.P99Latency(),
		ErrorRate:      m.ErrorRate(),
		Elapsed:        time.Since(start),
	}
}

// Throughput は経過時間あたりの書き込みオブジェクト数を返す
func Throughput(objects int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(objects) / elapsed.Seconds()
}
