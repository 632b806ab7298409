package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew(t *testing.T) {
	m := New()

	if m.TotalCalls() != 0 {
		t.Errorf("expected 0 total calls, got %d", m.TotalCalls())
	}
	if m.ObjectsWritten() != 0 {
		t.Errorf("expected 0 objects, got %d", m.ObjectsWritten())
	}
}

func TestRecordSuccess(t *testing.T) {
	m := New()

	m.RecordSuccess(10*time.Millisecond, 1)
	m.RecordSuccess(20*time.Millisecond, 50)
	m.RecordSuccess(30*time.Millisecond, 50)

	if m.TotalCalls() != 3 {
		t.Errorf("expected 3 total calls, got %d", m.TotalCalls())
	}
	if m.SuccessCalls() != 3 {
		t.Errorf("expected 3 success calls, got %d", m.SuccessCalls())
	}
	if m.FailedCalls() != 0 {
		t.Errorf("expected 0 failed calls, got %d", m.FailedCalls())
	}
	if m.ObjectsWritten() != 101 {
		t.Errorf("expected 101 objects, got %d", m.ObjectsWritten())
	}
}

func TestRecordFailure(t *testing.T) {
	m := New()

	m.RecordFailure(10 * time.Millisecond)
	m.RecordSuccess(20*time.Millisecond, 1)

	if m.TotalCalls() != 2 {
		t.Errorf("expected 2 total calls, got %d", m.TotalCalls())
	}
	if m.FailedCalls() != 1 {
		t.Errorf("expected 1 failed call, got %d", m.FailedCalls())
	}
	if m.ObjectsWritten() != 1 {
		t.Errorf("failed calls must not count objects, got %d", m.ObjectsWritten())
	}
}

func TestAverageLatency(t *testing.T) {
	m := New()

	m.RecordSuccess(10*time.Millisecond, 1)
	m.RecordSuccess(20*time.Millisecond, 1)
	m.RecordSuccess(30*time.Millisecond, 1)

	if avg := m.AverageLatency(); avg != 20*time.Millisecond {
		t.Errorf("expected average latency 20ms, got %v", avg)
	}
}

func TestErrorRate(t *testing.T) {
	m := New()

	m.RecordSuccess(10*time.Millisecond, 1)
	m.RecordFailure(10 * time.Millisecond)

	if rate := m.ErrorRate(); rate != 0.5 {
		t.Errorf("expected error rate 0.5, got %f", rate)
	}
}

func TestP99Latency(t *testing.T) {
	m := New()

	for i := 1; i <= 100; i++ {
		m.RecordSuccess(time.Duration(i)*time.Millisecond, 1)
	}

	p99 := m.P99Latency()
	if p99 < 99*time.Millisecond || p99 > 100*time.Millisecond {
		t.Errorf("expected P99 around 99-100ms, got %v", p99)
	}
}

func TestLatencySampleLimit(t *testing.T) {
	m := NewWithConfig(Config{MaxLatencySamples: 10})

	for j := 0; j < 20; j++ {
		m.RecordSuccess(time.Millisecond, 1)
	}

	if m.TotalCalls() != 20 {
		t.Errorf("expected 20 calls, got %d", m.TotalCalls())
	}
	if m.P99Latency() != time.Millisecond {
		t.Errorf("expected P99 1ms, got %v", m.P99Latency())
	}
}

func TestReset(t *testing.T) {
	m := New()

	m.RecordSuccess(10*time.Millisecond, 5)
	m.RecordFailure(20 * time.Millisecond)

	m.Reset()

	snap := m.Snapshot()
	if snap.TotalCalls != 0 || snap.ObjectsWritten != 0 || snap.FailedCalls != 0 {
		t.Errorf("expected zeroed counters after reset, got %+v", snap)
	}
	if snap.P99Latency != 0 {
		t.Errorf("expected no latency samples after reset, got %v", snap.P99Latency)
	}
}

func TestConcurrent(t *testing.T) {
	m := New()
	var wg sync.WaitGroup

	for j := 0; j < 100; j++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < 100; k++ {
				m.RecordSuccess(time.Millisecond, 1)
			}
		}()
	}

	wg.Wait()

	if m.TotalCalls() != 10000 {
		t.Errorf("expected 10000 calls, got %d", m.TotalCalls())
	}
	if m.ObjectsWritten() != 10000 {
		t.Errorf("expected 10000 objects, got %d", m.ObjectsWritten())
	}
}

func TestSnapshot(t *testing.T) {
	m := New()

	m.RecordSuccess(10*time.Millisecond, 50)
	m.RecordFailure(20 * time.Millisecond)

	snap := m.Snapshot()

	if snap.TotalCalls != 2 {
		t.Errorf("expected 2 total, got %d", snap.TotalCalls)
	}
	if snap.SuccessCalls != 1 {
		t.Errorf("expected 1 success, got %d", snap.SuccessCalls)
	}
	if snap.FailedCalls != 1 {
		t.Errorf("expected 1 failed, got %d", snap.FailedCalls)
	}
	if snap.ObjectsWritten != 50 {
		t.Errorf("expected 50 objects, got %d", snap.ObjectsWritten)
	}
}

func TestThroughput(t *testing.T) {
	if got := Throughput(100, 2*time.Second); got != 50 {
		t.Errorf("expected 50 ops/s, got %f", got)
	}
	if got := Throughput(100, 0); got != 0 {
		t.Errorf("expected 0 for zero elapsed, got %f", got)
	}
}

func TestCollectorObservePass(t *testing.T) {
	c := NewCollector()

	c.ObservePass(PassObservation{Strategy: "batch", Ordinal: 2, Elapsed: time.Second, Written: 100, Batches: 2})
	c.ObservePass(PassObservation{Strategy: "batch", Ordinal: 3, Elapsed: time.Second, Written: 100, Batches: 2, Dropped: 20})
	c.ObservePass(PassObservation{Strategy: "sequential", Ordinal: 1, Elapsed: 2 * time.Second, Written: 120})

	if got := testutil.ToFloat64(c.objects.WithLabelValues("batch")); got != 200 {
		t.Errorf("expected 200 batch objects, got %f", got)
	}
	if got := testutil.ToFloat64(c.batches.WithLabelValues("batch")); got != 4 {
		t.Errorf("expected 4 batches, got %f", got)
	}
	if got := testutil.ToFloat64(c.dropped.WithLabelValues("batch")); got != 20 {
		t.Errorf("expected 20 dropped, got %f", got)
	}
	if got := testutil.ToFloat64(c.throughput.WithLabelValues("sequential", "1")); got != 60 {
		t.Errorf("expected 60 ops/s, got %f", got)
	}
	if got := testutil.CollectAndCount(c.passDuration); got != 2 {
		t.Errorf("expected 2 duration series, got %d", got)
	}
}

func TestCollectorObserveFailure(t *testing.T) {
	c := NewCollector()

	c.ObserveFailure("sequential")
	c.ObserveFailure("sequential")

	if got := testutil.ToFloat64(c.failures.WithLabelValues("sequential")); got != 2 {
		t.Errorf("expected 2 failures, got %f", got)
	}
}

func TestServerHandler(t *testing.T) {
	c := NewCollector()
	c.ObservePass(PassObservation{Strategy: "batch", Ordinal: 2, Elapsed: time.Second, Written: 50, Batches: 1})

	ts := httptest.NewServer(NewServer("", c).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 from /healthz, got %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if !strings.Contains(string(body), `batchbench_objects_written_total{strategy="batch"} 50`) {
		t.Errorf("expected objects counter in exposition, got:\n%s", body)
	}
}

func TestServerStartClose(t *testing.T) {
	srv := NewServer("127.0.0.1:0", NewCollector())
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	resp, err := http.Get("http://" + srv.Addr() + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Close(ctx); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := NewServer("127.0.0.1:0", NewCollector()).Close(ctx); err != nil {
		t.Errorf("Close on unstarted server: %v", err)
	}
}
