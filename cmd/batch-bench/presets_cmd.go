package main

import (
	"fmt"

	"batch-bench/internal/harness"

	"github.com/spf13/cobra"
)

func newPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the available preset plans",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "利用可能なプリセット:")
			fmt.Fprintln(out)
			for _, name := range harness.ListPresets() {
				p, _ := harness.GetPreset(name)
				fmt.Fprintf(out, "  %-12s %s (corpus %d, batch %d, %d passes)\n",
					name, p.Description, p.CorpusSize, p.BatchSize, p.PassCount())
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "使用例: batch-bench --preset quick")
			return nil
		},
	}
}
