package main

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"batch-bench/internal/config"
	"batch-bench/internal/harness"
	"batch-bench/internal/logger"
	"batch-bench/internal/metrics"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "BATCHBENCH"

// newRootCommand はハーネスを実行するルートコマンドを作成する
func newRootCommand() *cobra.Command {
	return newRootCommandWith(viper.New())
}

func newRootCommandWith(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "batch-bench",
		Short:         "batch-bench compares sequential and batched writes against a Moray shard",
		SilenceErrors: true,
		Example: `
  # Default plan against shard 1 of perf2.scloud.host
  batch-bench

  # Quick verification run
  batch-bench --preset quick

  # Load settings from a file and flush the trailing partial batch
  batch-bench --config bench.yaml --flush-remainder

  # Environment variables work too
  BATCHBENCH_SHARD=3 BATCHBENCH_BATCH_SIZE=100 batch-bench
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			level, err := logger.ParseLevel(v.GetString("log-level"))
			if err != nil {
				return err
			}
			logger.Default.SetLevel(level)

			cfg, err := buildConfig(v)
			if err != nil {
				return err
			}
			return runHarness(cmd.Context(), cmd, cfg, strings.TrimSpace(v.GetString("metrics-listen")))
		},
	}

	defaults := harness.DefaultConfig()
	flags := cmd.Flags()
	flags.StringP("config", "c", "", "config file path (YAML/JSON)")
	flags.String("preset", "", "preset plan name ("+strings.Join(harness.ListPresets(), ", ")+")")
	flags.Int("shard", defaults.Shard, "shard number")
	flags.String("domain", defaults.Domain, "base domain; the shard name is {shard}.moray.{domain}")
	flags.String("service", defaults.Service, "SRV service label")
	flags.String("proto", defaults.Proto, "SRV protocol label")
	flags.String("bucket", defaults.Bucket, "target bucket")
	flags.Int("corpus-size", defaults.CorpusSize, "number of objects to generate")
	flags.Int("batch-size", defaults.BatchSize, "put requests per batch")
	flags.Bool("flush-remainder", defaults.FlushRemainder, "flush the trailing partial batch")
	flags.Int64("seed", 0, "random seed (0 derives one from the clock)")
	flags.Bool("seed-corpus", defaults.SeedCorpus, "write the unmodified corpus before the timed passes")
	flags.Duration("request-timeout", 0, "per-call timeout (0 disables)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("metrics-listen", "", "serve Prometheus metrics on this address (e.g. :9090)")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	flags.VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil {
			panic(err)
		}
	})

	cmd.AddCommand(newPresetsCommand(), newVersionCommand())
	return cmd
}

// buildConfig はプリセット、設定ファイル、環境変数とフラグの順に重ねて設定を構築する
func buildConfig(v *viper.Viper) (harness.Config, error) {
	cfg := harness.DefaultConfig()

	if name := strings.TrimSpace(v.GetString("preset")); name != "" {
		preset, ok := harness.GetPreset(name)
		if !ok {
			return cfg, fmt.Errorf("unknown preset: %s (available: %v)", name, harness.ListPresets())
		}
		cfg = preset
	}

	if path := strings.TrimSpace(v.GetString("config")); path != "" {
		fileConfig, err := config.LoadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := fileConfig.Validate(); err != nil {
			return cfg, fmt.Errorf("invalid config file: %w", err)
		}
		if fileConfig.Harness.Preset == "" && v.IsSet("preset") {
			fileConfig.Harness.Preset = v.GetString("preset")
		}
		cfg, err = fileConfig.ToHarnessConfig()
		if err != nil {
			return cfg, err
		}
	}

	// 明示的に指定された値のみ上書きする
	if v.IsSet("shard") {
		cfg.Shard = v.GetInt("shard")
	}
	if v.IsSet("domain") {
		cfg.Domain = v.GetString("domain")
	}
	if v.IsSet("service") {
		cfg.Service = v.GetString("service")
	}
	if v.IsSet("proto") {
		cfg.Proto = v.GetString("proto")
	}
	if v.IsSet("bucket") {
		cfg.Bucket = v.GetString("bucket")
	}
	if v.IsSet("corpus-size") {
		cfg.CorpusSize = v.GetInt("corpus-size")
	}
	if v.IsSet("batch-size") {
		cfg.BatchSize = v.GetInt("batch-size")
	}
	if v.IsSet("flush-remainder") {
		cfg.FlushRemainder = v.GetBool("flush-remainder")
	}
	if v.IsSet("seed") {
		cfg.Seed = v.GetInt64("seed")
	}
	if v.IsSet("seed-corpus") {
		cfg.SeedCorpus = v.GetBool("seed-corpus")
	}
	if v.IsSet("request-timeout") {
		cfg.RequestTimeout = v.GetDuration("request-timeout")
	}

	return cfg, cfg.Validate()
}

// runHarness はハーネスを実行してレポートを出力する
func runHarness(ctx context.Context, cmd *cobra.Command, cfg harness.Config, metricsAddr string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "batch-bench - Sequential vs Batched Write Benchmark")
	fmt.Fprintln(out, "====================================================")
	fmt.Fprintf(out, "Plan: %s (%d passes)\n", cfg.Name, cfg.PassCount())
	fmt.Fprintf(out, "Shard: %d.moray.%s, Bucket: %s\n", cfg.Shard, cfg.Domain, cfg.Bucket)
	fmt.Fprintf(out, "Corpus: %d, Batch: %d, Flush remainder: %v\n", cfg.CorpusSize, cfg.BatchSize, cfg.FlushRemainder)
	fmt.Fprintln(out, "====================================================")
	fmt.Fprintln(out)

	engine := harness.New(cfg, cfg.Factory(nil, rand.New(rand.NewSource(time.Now().UnixNano()))))

	if metricsAddr != "" {
		collector := metrics.NewCollector()
		engine.SetCollector(collector)

		srv := metrics.NewServer(metricsAddr, collector)
		if err := srv.Start(); err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Close(shutdownCtx)
		}()
	}

	result, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, result.Report())
	return nil
}
