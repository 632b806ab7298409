package harness

import (
	"fmt"
	"strings"
	"time"

	"batch-bench/internal/bench"

	"github.com/dustin/go-humanize"
)

// Result はハーネス実行結果
type Result struct {
	RunID     string
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// 対象
	Shard  int
	Domain string
	Bucket string

	// 書き込み設定
	CorpusSize int
	BatchSize  int
	Flush      bool
	Seed       int64

	// パス結果
	SeedPass *bench.PassResult
	Passes   []bench.PassResult
}

// StrategySummary は戦略ごとの集計
type StrategySummary struct {
	Strategy    string
	Passes      int
	Written     int
	Dropped     int
	MeanElapsed time.Duration
}

// Summary は戦略ごとの集計を計画に現れた順で返す
func (r *Result) Summary() []StrategySummary {
	var out []StrategySummary
	index := make(map[string]int)
	total := make(map[string]time.Duration)

	for _, p := range r.Passes {
		i, ok := index[p.Strategy]
		if !ok {
			i = len(out)
			index[p.Strategy] = i
			out = append(out, StrategySummary{Strategy: p.Strategy})
		}
		out[i].Passes++
		out[i].Written += p.Written
		out[i].Dropped += p.Dropped
		total[p.Strategy] += p.Elapsed
	}
	for i := range out {
		out[i].MeanElapsed = total[out[i].Strategy] / time.Duration(out[i].Passes)
	}
	return out
}

// Report は結果をフォーマットして返す
func (r *Result) Report() string {
	var b strings.Builder

	fmt.Fprintf(&b, `
================================================================================
                         BENCHMARK REPORT: %s
================================================================================

EXECUTION SUMMARY
-----------------
  Run ID:         %s
  Start Time:     %s
  End Time:       %s
  Duration:       %v
  Seed:           %d

TARGET
------
  Shard:          %d.moray.%s
  Bucket:         %s
  Corpus Size:    %s objects
  Batch Size:     %d (flush remainder: %t)
`,
		r.Name,
		r.RunID,
		r.StartTime.Format("2006-01-02 15:04:05"),
		r.EndTime.Format("2006-01-02 15:04:05"),
		r.Duration.Round(time.Millisecond),
		r.Seed,
		r.Shard, r.Domain,
		r.Bucket,
		humanize.Comma(int64(r.CorpusSize)),
		r.BatchSize, r.Flush,
	)

	if r.SeedPass != nil {
		fmt.Fprintf(&b, `
SEED PASS
---------
  Written:        %s objects in %v
`,
			humanize.Comma(int64(r.SeedPass.Written)),
			r.SeedPass.Elapsed.Round(time.Millisecond),
		)
	}

	b.WriteString(`
PASSES
------
`)
	fmt.Fprintf(&b, "  %-5s %-12s %12s %10s %8s %8s %14s\n", "Pass", "Strategy", "Elapsed", "Written", "Batches", "Dropped", "Objects/s")
	for _, p := range r.Passes {
		fmt.Fprintf(&b, "  %-5d %-12s %12v %10s %8d %8d %14s\n",
			p.Ordinal,
			p.Strategy,
			p.Elapsed.Round(time.Millisecond),
			humanize.Comma(int64(p.Written)),
			p.Batches,
			p.Dropped,
			humanize.CommafWithDigits(p.OpsPerSec, 1),
		)
	}

	b.WriteString(`
STRATEGY SUMMARY
----------------
`)
	for _, s := range r.Summary() {
		fmt.Fprintf(&b, "  %-12s passes: %d, mean: %v, written: %s, dropped: %s\n",
			s.Strategy+":",
			s.Passes,
			s.MeanElapsed.Round(time.Millisecond),
			humanize.Comma(int64(s.Written)),
			humanize.Comma(int64(s.Dropped)),
		)
	}

	b.WriteString("\n================================================================================")
	return b.String()
}
