// Package metrics collects write-call statistics for benchmark passes.
//
// Metrics records the latency of every store call made during a pass (one
// put, or one batch execution) along with the number of objects each call
// wrote. It reports totals, average and P99 latency, and throughput.
//
// # Basic Usage
//
//	m := metrics.New()
//
//	start := time.Now()
//	// ... one store call writing n objects ...
//	m.RecordSuccess(time.Since(start), n)
//
//	snap := m.Snapshot()
//	fmt.Printf("Calls: %d, Objects: %d, P99: %v\n",
//	    snap.TotalCalls, snap.ObjectsWritten, snap.P99Latency)
//
// # Prometheus
//
// Collector mirrors pass results into a private Prometheus registry. Server
// exposes that registry on /metrics when a listen address is configured:
//
//	c := metrics.NewCollector()
//	srv := metrics.NewServer(":9090", c)
//	_ = srv.Start()
//	defer srv.Close(ctx)
//
// # Thread Safety
//
// Counters are atomic and all operations are safe for concurrent access, so
// the exposition server can read while a pass is running.
package metrics
