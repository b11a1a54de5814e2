package main

import (
	"github.com/spf13/cobra"

	"github.com/wippyai/wasm-bridge/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the native engine",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd, false)
	},
}

var buildPortableCmd = &cobra.Command{
	Use:   "build-portable",
	Short: "Build the portable artifact: cross-compile, optimize, generate bindings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd, true)
	},
}

func runBuild(cmd *cobra.Command, portable bool) error {
	mode, err := modeFlag(cmd)
	if err != nil {
		return err
	}
	p, err := newPipeline(cmd)
	if err != nil {
		return err
	}

	target := pipeline.Target{Portable: portable, Mode: mode}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		plan, err := p.BuildPlan(target)
		if err != nil {
			return err
		}
		cmd.Printf("Stages for %s:\n", target)
		for _, id := range plan.StageIDs() {
			cmd.Printf("  %s\n", id)
		}
		return nil
	}

	return p.Build(cmd.Context(), target)
}

func init() {
	for _, c := range []*cobra.Command{buildCmd, buildPortableCmd} {
		c.Flags().String("mode", "debug", "Build mode: debug or release")
		c.Flags().Bool("dry-run", false, "Print the resolved stage order without running")
		rootCmd.AddCommand(c)
	}
}
