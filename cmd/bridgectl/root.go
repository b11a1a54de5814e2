package main

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-bridge/bindgen"
	"github.com/wippyai/wasm-bridge/bridge"
	"github.com/wippyai/wasm-bridge/engine"
	"github.com/wippyai/wasm-bridge/errors"
	"github.com/wippyai/wasm-bridge/pipeline"
)

var rootCmd = &cobra.Command{
	Use:   "bridgectl",
	Short: "Build, test, and inspect the portable engine artifact",
	Long: `bridgectl - Orchestrate the native and portable build pipelines.

The native path compiles and tests the engine with the native toolchain.
The portable path cross-compiles the engine to a WebAssembly artifact,
runs the size optimizer over it, and generates the host-binding surface
from the optimized binary. Test and bench runs exercise both paths and
report their results separately.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI. The process exit status is the first failing
// sub-step's status, surfaced unchanged.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var toolErr *errors.Error
		if stderrors.As(err, &toolErr) && toolErr.ExitCode != 0 {
			os.Exit(toolErr.ExitCode)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("project", "C", ".", "Project root directory")
	rootCmd.PersistentFlags().String("out", "pkg", "Artifact output directory, relative to the project root")
	rootCmd.PersistentFlags().String("artifact", bridge.DefaultArtifactName, "Artifact filename")
	rootCmd.PersistentFlags().String("smoke", "", "Exported function the bridged suites invoke after loading")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return zap.NewNop(), nil
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	engine.SetLogger(log)
	return log, nil
}

func newPipeline(cmd *cobra.Command) (*pipeline.Pipeline, error) {
	project, _ := cmd.Flags().GetString("project")
	out, _ := cmd.Flags().GetString("out")
	artifact, _ := cmd.Flags().GetString("artifact")
	smoke, _ := cmd.Flags().GetString("smoke")

	root, err := filepath.Abs(project)
	if err != nil {
		return nil, err
	}
	outDir := filepath.Join(root, out)
	artifactPath := filepath.Join(outDir, artifact)

	log, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}

	return pipeline.New(pipeline.Config{
		RootDir:      root,
		OutDir:       outDir,
		ArtifactName: artifact,
		NativeCompile: map[pipeline.Mode]pipeline.Command{
			pipeline.Debug:   {Path: "cargo", Args: []string{"build"}},
			pipeline.Release: {Path: "cargo", Args: []string{"build", "--release"}},
		},
		NativeTest:  pipeline.Command{Path: "cargo", Args: []string{"test"}},
		NativeBench: pipeline.Command{Path: "cargo", Args: []string{"bench"}},
		CrossCompile: map[pipeline.Mode]pipeline.Command{
			pipeline.Debug:   {Path: "wasm-pack", Args: []string{"build", "--dev", "--out-dir", outDir}},
			pipeline.Release: {Path: "wasm-pack", Args: []string{"build", "--release", "--out-dir", outDir}},
		},
		Optimize:    pipeline.Command{Path: "wasm-opt", Args: []string{"-Oz", "-o", artifactPath, artifactPath}},
		Bindings:    bindgen.Options{ArtifactName: artifact},
		SmokeExport: smoke,
		Logger:      log,
	})
}

func modeFlag(cmd *cobra.Command) (pipeline.Mode, error) {
	raw, _ := cmd.Flags().GetString("mode")
	return pipeline.ParseMode(raw)
}
