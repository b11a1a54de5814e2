package pipeline_test

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/wippyai/wasm-bridge/errors"
	"github.com/wippyai/wasm-bridge/pipeline"
)

// These exercise the real runner, so they need a shell.
func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
}

func TestExecRunnerPreservesExitStatus(t *testing.T) {
	requireShell(t)

	p, err := pipeline.New(pipeline.Config{
		RootDir: t.TempDir(),
		NativeCompile: map[pipeline.Mode]pipeline.Command{
			pipeline.Debug: {Path: "sh", Args: []string{"-c", "exit 7"}},
		},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	err = p.Build(context.Background(), pipeline.NativeDebug)
	if err == nil {
		t.Fatal("expected build error")
	}

	var toolErr *errors.Error
	if !stderrors.As(err, &toolErr) {
		t.Fatalf("error type = %T", err)
	}
	if toolErr.ExitCode != 7 {
		t.Errorf("exit code = %d, want 7", toolErr.ExitCode)
	}
}

func TestExecRunnerRunsInRootDir(t *testing.T) {
	requireShell(t)

	root := t.TempDir()
	p, err := pipeline.New(pipeline.Config{
		RootDir: root,
		NativeCompile: map[pipeline.Mode]pipeline.Command{
			pipeline.Release: {Path: "sh", Args: []string{"-c", "pwd > marker.txt"}},
		},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := p.Build(context.Background(), pipeline.NativeRelease); err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "marker.txt")); err != nil {
		t.Errorf("tool did not run in RootDir: %v", err)
	}
}

func TestExecRunnerRejectsUnconfiguredCommand(t *testing.T) {
	p, err := pipeline.New(pipeline.Config{RootDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	// No native compile command configured for debug.
	err = p.Build(context.Background(), pipeline.NativeDebug)
	if err == nil {
		t.Fatal("expected error for unconfigured command")
	}
	var structured *errors.Error
	if !stderrors.As(err, &structured) || structured.Kind != errors.KindInvalidInput {
		t.Errorf("got %v, want invalid_input", err)
	}
}
