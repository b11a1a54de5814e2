package main

import (
	"github.com/spf13/cobra"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run native benchmarks, then bridged benchmarks on a fresh release artifact",
	Long: `Run the native benchmark suite, rebuild the release portable target,
and time the artifact through the bridge. The native/bridged comparison
is diagnostic output, not a pass/fail gate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cmd)
		if err != nil {
			return err
		}

		report, runErr := p.Benchmark(cmd.Context())
		cmd.Print(renderBenchReport(report))
		return runErr
	},
}

func init() {
	rootCmd.AddCommand(benchCmd)
}
