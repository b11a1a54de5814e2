package pipeline_test

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wippyai/wasm-bridge/errors"
	"github.com/wippyai/wasm-bridge/hostfunc"
	"github.com/wippyai/wasm-bridge/internal/wasmtest"
	"github.com/wippyai/wasm-bridge/pipeline"
)

// fakeRunner records stage invocations and fails the configured ones.
// The optional effect hook stands in for a tool's side effects, like
// the cross compiler writing the artifact file.
type fakeRunner struct {
	stages []string
	fail   map[string]int // stage -> exit status
	effect map[string]func() error
}

func (r *fakeRunner) Run(ctx context.Context, stage string, cmd pipeline.Command) error {
	r.stages = append(r.stages, stage)
	if code, ok := r.fail[stage]; ok {
		return errors.Tool(stage, code, stderrors.New("tool failed"))
	}
	if fn, ok := r.effect[stage]; ok {
		return fn()
	}
	return nil
}

func newPipeline(t *testing.T, cfg pipeline.Config, runner pipeline.Runner) *pipeline.Pipeline {
	t.Helper()
	if cfg.RootDir == "" {
		cfg.RootDir = t.TempDir()
	}
	cfg.Runner = runner
	p, err := pipeline.New(cfg)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	return p
}

func TestBuildNativeRunsSingleStage(t *testing.T) {
	runner := &fakeRunner{}
	p := newPipeline(t, pipeline.Config{}, runner)

	if err := p.Build(context.Background(), pipeline.NativeDebug); err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(runner.stages) != 1 || runner.stages[0] != "compile-native" {
		t.Errorf("stages = %v, want [compile-native]", runner.stages)
	}
}

func TestBuildPortableStageOrder(t *testing.T) {
	out := t.TempDir()
	artifact := filepath.Join(out, "engine_bg.wasm")

	runner := &fakeRunner{
		effect: map[string]func() error{
			"compile-portable": func() error {
				return os.WriteFile(artifact, wasmtest.ConstModule("answer", 42), 0o644)
			},
		},
	}
	p := newPipeline(t, pipeline.Config{OutDir: out}, runner)

	if err := p.Build(context.Background(), pipeline.PortableRelease); err != nil {
		t.Fatalf("build: %v", err)
	}

	// Optimizer strictly after compilation, bindings strictly after the
	// optimizer.
	want := []string{"compile-portable", "optimize"}
	if len(runner.stages) != 2 || runner.stages[0] != want[0] || runner.stages[1] != want[1] {
		t.Fatalf("tool stages = %v, want %v", runner.stages, want)
	}

	generated, err := os.ReadFile(filepath.Join(out, "bindings.gen.go"))
	if err != nil {
		t.Fatalf("bindings not generated: %v", err)
	}
	if !strings.Contains(string(generated), `ExportAnswer = "answer"`) {
		t.Errorf("bindings missing export constant:\n%s", generated)
	}
}

func TestBuildPlanOrderInspectable(t *testing.T) {
	p := newPipeline(t, pipeline.Config{}, &fakeRunner{})

	plan, err := p.BuildPlan(pipeline.PortableDebug)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	ids := plan.StageIDs()
	want := []string{"compile-portable", "optimize", "generate-bindings"}
	if len(ids) != len(want) {
		t.Fatalf("stage ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("stage ids = %v, want %v", ids, want)
		}
	}
}

func TestBuildFailureAbortsDownstreamStages(t *testing.T) {
	runner := &fakeRunner{fail: map[string]int{"compile-portable": 101}}
	p := newPipeline(t, pipeline.Config{}, runner)

	err := p.Build(context.Background(), pipeline.PortableDebug)
	if err == nil {
		t.Fatal("expected build error")
	}

	var toolErr *errors.Error
	if !stderrors.As(err, &toolErr) {
		t.Fatalf("error type = %T", err)
	}
	if toolErr.ExitCode != 101 {
		t.Errorf("exit code = %d, want 101 (surfaced unchanged)", toolErr.ExitCode)
	}
	if len(runner.stages) != 1 {
		t.Errorf("stages = %v, want only the failing stage", runner.stages)
	}
}

func TestOptimizeFailureSkipsBindings(t *testing.T) {
	out := t.TempDir()
	runner := &fakeRunner{
		fail: map[string]int{"optimize": 2},
		effect: map[string]func() error{
			"compile-portable": func() error {
				return os.WriteFile(filepath.Join(out, "engine_bg.wasm"),
					wasmtest.ConstModule("answer", 1), 0o644)
			},
		},
	}
	p := newPipeline(t, pipeline.Config{OutDir: out}, runner)

	if err := p.Build(context.Background(), pipeline.PortableDebug); err == nil {
		t.Fatal("expected build error")
	}

	if _, err := os.Stat(filepath.Join(out, "bindings.gen.go")); !os.IsNotExist(err) {
		t.Error("bindings generated from a known-bad artifact")
	}
}

func TestTestReportsTwoIndependentResults(t *testing.T) {
	out := t.TempDir()
	if err := os.WriteFile(filepath.Join(out, "engine_bg.wasm"),
		wasmtest.ConstModule("answer", 42), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	runner := &fakeRunner{}
	p := newPipeline(t, pipeline.Config{
		OutDir:      out,
		Imports:     hostfunc.Empty(),
		SmokeExport: "answer",
	}, runner)

	report, err := p.Test(context.Background())
	if err != nil {
		t.Fatalf("test: %v", err)
	}

	if !report.Native.Passed || report.Native.Name != "native" {
		t.Errorf("native result = %+v", report.Native)
	}
	if !report.Bridged.Passed || report.Bridged.Name != "bridged" {
		t.Errorf("bridged result = %+v", report.Bridged)
	}
	if runner.stages[0] != "test-native" {
		t.Errorf("stages = %v", runner.stages)
	}
}

func TestNativeTestFailureSkipsBridged(t *testing.T) {
	runner := &fakeRunner{fail: map[string]int{"test-native": 1}}
	p := newPipeline(t, pipeline.Config{}, runner)

	report, err := p.Test(context.Background())
	if err == nil {
		t.Fatal("expected test error")
	}

	if report.Native.Passed || report.Native.Err == nil {
		t.Errorf("native result = %+v", report.Native)
	}
	if !report.Bridged.Skipped {
		t.Error("bridged suite ran after a native failure")
	}
}

func TestBridgedFailureReportedDistinctly(t *testing.T) {
	// Native passes, but the artifact requires an import the table
	// does not provide: the failure must be attributed to the bridged
	// suite alone.
	out := t.TempDir()
	if err := os.WriteFile(filepath.Join(out, "engine_bg.wasm"),
		wasmtest.HostCallModule("env", "now", "tick"), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	p := newPipeline(t, pipeline.Config{
		OutDir:  out,
		Imports: hostfunc.Empty(),
	}, &fakeRunner{})

	report, err := p.Test(context.Background())
	if err == nil {
		t.Fatal("expected test error")
	}

	if !report.Native.Passed {
		t.Error("native result polluted by bridged failure")
	}
	if report.Bridged.Passed || report.Bridged.Err == nil {
		t.Errorf("bridged result = %+v", report.Bridged)
	}
	if !stderrors.Is(report.Bridged.Err, errors.Link("", "", "")) {
		t.Errorf("bridged err = %v, want link error", report.Bridged.Err)
	}
}

func TestBenchmarkRebuildsReleasePortable(t *testing.T) {
	out := t.TempDir()
	runner := &fakeRunner{
		effect: map[string]func() error{
			"compile-portable": func() error {
				return os.WriteFile(filepath.Join(out, "engine_bg.wasm"),
					wasmtest.ConstModule("answer", 7), 0o644)
			},
		},
	}
	p := newPipeline(t, pipeline.Config{
		OutDir:          out,
		Imports:         hostfunc.Empty(),
		SmokeExport:     "answer",
		BenchIterations: 3,
	}, runner)

	report, err := p.Benchmark(context.Background())
	if err != nil {
		t.Fatalf("benchmark: %v", err)
	}

	want := []string{"bench-native", "compile-portable", "optimize"}
	if len(runner.stages) != len(want) {
		t.Fatalf("stages = %v, want %v", runner.stages, want)
	}
	for i := range want {
		if runner.stages[i] != want[i] {
			t.Fatalf("stages = %v, want %v", runner.stages, want)
		}
	}

	if report.Bridged.Duration <= 0 {
		t.Errorf("bridged duration not recorded: %+v", report)
	}
	if report.Iterations != 3 {
		t.Errorf("iterations = %d, want 3", report.Iterations)
	}
}

func TestBenchmarkNativeFailureAborts(t *testing.T) {
	runner := &fakeRunner{fail: map[string]int{"bench-native": 3}}
	p := newPipeline(t, pipeline.Config{}, runner)

	report, err := p.Benchmark(context.Background())
	if err == nil {
		t.Fatal("expected benchmark error")
	}
	if !report.Bridged.Skipped {
		t.Error("bridged benchmark ran after native failure")
	}
	if len(runner.stages) != 1 {
		t.Errorf("stages = %v", runner.stages)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    pipeline.Mode
		wantErr bool
	}{
		{"debug", pipeline.Debug, false},
		{"release", pipeline.Release, false},
		{"fast", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := pipeline.ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("mode = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTargetString(t *testing.T) {
	tests := []struct {
		target pipeline.Target
		want   string
	}{
		{pipeline.NativeDebug, "native-debug"},
		{pipeline.NativeRelease, "native-release"},
		{pipeline.PortableDebug, "portable-debug"},
		{pipeline.PortableRelease, "portable-release"},
	}
	for _, tt := range tests {
		if got := tt.target.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
