package harness

import (
	"sort"

	"batch-bench/internal/bench"
)

// SequentialPreset は逐次書き込みのみを2回計測する
func SequentialPreset() Config {
	c := DefaultConfig()
	c.Name = "sequential"
	c.Description = "Sequential writes only"
	c.Plan = [][]string{{bench.StrategySequential}, {bench.StrategySequential}}
	return c
}

// BatchPreset はバッチ書き込みのみを2回計測する
func BatchPreset() Config {
	c := DefaultConfig()
	c.Name = "batch"
	c.Description = "Batched writes only"
	c.Plan = [][]string{{bench.StrategyBatch}, {bench.StrategyBatch}}
	return c
}

// FlushPreset は閾値未満の残りもフラッシュする
func FlushPreset() Config {
	c := DefaultConfig()
	c.Name = "flush"
	c.Description = "Default plan with the trailing partial batch flushed"
	c.FlushRemainder = true
	return c
}

// QuickPreset は動作確認用の小さな計画
func QuickPreset() Config {
	c := DefaultConfig()
	c.Name = "quick"
	c.Description = "Quick test for verification"
	c.CorpusSize = 500
	c.SeedCorpus = false
	return c
}

var presets = map[string]func() Config{
	"default":    DefaultConfig,
	"sequential": SequentialPreset,
	"batch":      BatchPreset,
	"flush":      FlushPreset,
	"quick":      QuickPreset,
}

// GetPreset は名前からプリセットを取得する
func GetPreset(name string) (Config, bool) {
	if fn, ok := presets[name]; ok {
		return fn(), true
	}
	return Config{}, false
}

// ListPresets は利用可能なプリセット名を返す
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
