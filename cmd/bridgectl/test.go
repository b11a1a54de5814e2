package main

import (
	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run the native suite, then the host suite through the bridge",
	Long: `Run the native test suite against the native build, then the host
suite against the portable artifact via the bridge. The two results are
reported separately: they exercise different compilation paths, and a
divergence between them is itself a defect signal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cmd)
		if err != nil {
			return err
		}

		report, runErr := p.Test(cmd.Context())
		cmd.Print(renderTestReport(report))
		return runErr
	},
}

func init() {
	rootCmd.AddCommand(testCmd)
}
