package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-bridge/bindgen"
	"github.com/wippyai/wasm-bridge/bridge"
	"github.com/wippyai/wasm-bridge/errors"
	"github.com/wippyai/wasm-bridge/hostfunc"
)

// Config declares the external tools and artifact locations for one
// project.
type Config struct {
	// RootDir is the working directory for tool invocations.
	RootDir string

	// OutDir is the fixed output location the portable artifact is
	// written to and the bridge reads from. Defaults to RootDir.
	OutDir string

	// ArtifactName defaults to bridge.DefaultArtifactName.
	ArtifactName string

	// NativeCompile holds the native compiler invocation per mode.
	NativeCompile map[Mode]Command

	// NativeTest runs the native test suite.
	NativeTest Command

	// NativeBench runs the native benchmark suite.
	NativeBench Command

	// CrossCompile holds the portable compiler invocation per mode. It
	// must write the artifact into OutDir under ArtifactName.
	CrossCompile map[Mode]Command

	// Optimize is the size/speed optimizer. It rewrites the artifact in
	// place and always runs after the cross compiler and before binding
	// generation.
	Optimize Command

	// Bindings configures the generated host-binding surface.
	Bindings bindgen.Options

	// BindingsOut is the generated bindings path. Defaults to
	// OutDir/bindings.gen.go.
	BindingsOut string

	// Imports is the table the bridged suites instantiate with.
	Imports *hostfunc.Table

	// SmokeExport optionally names a zero-argument export the bridged
	// suites invoke after loading.
	SmokeExport string

	// BenchIterations is the number of bridged smoke calls timed by
	// Benchmark. Defaults to 50.
	BenchIterations int

	// Logger defaults to a no-op logger.
	Logger *zap.Logger

	// Runner defaults to one that shells out. Tests substitute it.
	Runner Runner
}

// Pipeline drives build, test, and benchmark for both compilation
// paths. Stages within one invocation are sequential dependent steps;
// concurrent invocations are not supported.
type Pipeline struct {
	cfg    Config
	log    *zap.Logger
	runner Runner
}

// New validates cfg and builds a pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.RootDir == "" {
		return nil, errors.InvalidInput(errors.PhaseTool, "RootDir is required")
	}
	if cfg.OutDir == "" {
		cfg.OutDir = cfg.RootDir
	}
	if cfg.ArtifactName == "" {
		cfg.ArtifactName = bridge.DefaultArtifactName
	}
	if cfg.BindingsOut == "" {
		cfg.BindingsOut = filepath.Join(cfg.OutDir, "bindings.gen.go")
	}
	if cfg.BenchIterations <= 0 {
		cfg.BenchIterations = 50
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	runner := cfg.Runner
	if runner == nil {
		runner = &execRunner{
			rootDir: cfg.RootDir,
			stdout:  os.Stdout,
			stderr:  os.Stderr,
			log:     cfg.Logger,
		}
	}

	return &Pipeline{cfg: cfg, log: cfg.Logger, runner: runner}, nil
}

// ArtifactPath returns the portable artifact's output path.
func (p *Pipeline) ArtifactPath() string {
	return filepath.Join(p.cfg.OutDir, p.cfg.ArtifactName)
}

// BuildPlan assembles the stage graph for target. Exposed so callers
// can inspect the resolved order without running anything.
func (p *Pipeline) BuildPlan(target Target) (*Plan, error) {
	if !target.Portable {
		cmd := p.cfg.NativeCompile[target.Mode]
		return newPlan([]Stage{
			{
				ID: "compile-native",
				Run: func(ctx context.Context) error {
					return p.runner.Run(ctx, "compile-native", cmd)
				},
			},
		})
	}

	cmd := p.cfg.CrossCompile[target.Mode]
	optimize := p.cfg.Optimize
	return newPlan([]Stage{
		{
			ID: "compile-portable",
			Run: func(ctx context.Context) error {
				return p.runner.Run(ctx, "compile-portable", cmd)
			},
		},
		{
			ID:    "optimize",
			After: []string{"compile-portable"},
			Run: func(ctx context.Context) error {
				return p.runner.Run(ctx, "optimize", optimize)
			},
		},
		{
			// Bindings are generated from the post-optimizer artifact:
			// the generator inspects the final symbol list.
			ID:    "generate-bindings",
			After: []string{"optimize"},
			Run: func(ctx context.Context) error {
				return bindgen.GenerateFile(p.ArtifactPath(), p.cfg.BindingsOut, p.cfg.Bindings)
			},
		},
	})
}

// Build produces the artifact for target, running every stage of its
// plan in dependency order.
func (p *Pipeline) Build(ctx context.Context, target Target) error {
	p.log.Info("build started", zap.String("target", target.String()))
	plan, err := p.BuildPlan(target)
	if err != nil {
		return err
	}
	if err := plan.run(ctx, p.log); err != nil {
		return err
	}
	p.log.Info("build completed", zap.String("target", target.String()))
	return nil
}

// SuiteResult is the outcome of one test suite run.
type SuiteResult struct {
	Name     string
	Passed   bool
	Skipped  bool
	Err      error
	Duration time.Duration
}

// TestReport carries the native and bridged suite outcomes, always
// reported independently.
type TestReport struct {
	Native  SuiteResult
	Bridged SuiteResult
}

// Test runs the native suite against the native artifact, then the
// host-side suite against the portable artifact through the bridge. A
// native failure aborts the bridged run (reported as skipped); the two
// results are never merged.
func (p *Pipeline) Test(ctx context.Context) (*TestReport, error) {
	report := &TestReport{
		Native:  SuiteResult{Name: "native"},
		Bridged: SuiteResult{Name: "bridged"},
	}

	start := time.Now()
	err := p.runner.Run(ctx, "test-native", p.cfg.NativeTest)
	report.Native.Duration = time.Since(start)
	if err != nil {
		report.Native.Err = err
		report.Bridged.Skipped = true
		return report, err
	}
	report.Native.Passed = true

	start = time.Now()
	err = p.bridgedSmoke(ctx)
	report.Bridged.Duration = time.Since(start)
	if err != nil {
		report.Bridged.Err = err
		return report, err
	}
	report.Bridged.Passed = true

	return report, nil
}

// bridgedSmoke loads the portable artifact through the bridge exactly
// as an embedding host would and exercises its export surface.
func (p *Pipeline) bridgedSmoke(ctx context.Context) error {
	b, err := bridge.New(bridge.Config{
		ArtifactDir:  p.cfg.OutDir,
		ArtifactName: p.cfg.ArtifactName,
		Logger:       p.log,
	})
	if err != nil {
		return err
	}
	defer b.Close(ctx)

	exports, err := b.Load(ctx, p.cfg.Imports)
	if err != nil {
		return err
	}
	if exports.Len() == 0 {
		return errors.New(errors.PhasePublish, errors.KindValidation).
			Detail("artifact exports no functions").
			Build()
	}
	if p.cfg.SmokeExport != "" {
		if _, err := exports.Call(ctx, p.cfg.SmokeExport); err != nil {
			return err
		}
	}
	return nil
}

// BenchResult is the outcome of one benchmark run.
type BenchResult struct {
	Name     string
	Skipped  bool
	Err      error
	Duration time.Duration
}

// BenchReport carries the native and bridged benchmark timings. The
// comparison is diagnostic output, never a pass/fail gate.
type BenchReport struct {
	Native  BenchResult
	Bridged BenchResult

	// Iterations is the number of bridged smoke calls timed.
	Iterations int
}

// Benchmark runs the native benchmarks, rebuilds the release portable
// target, and times the artifact through the bridge.
func (p *Pipeline) Benchmark(ctx context.Context) (*BenchReport, error) {
	report := &BenchReport{
		Native:     BenchResult{Name: "native"},
		Bridged:    BenchResult{Name: "bridged"},
		Iterations: p.cfg.BenchIterations,
	}

	start := time.Now()
	err := p.runner.Run(ctx, "bench-native", p.cfg.NativeBench)
	report.Native.Duration = time.Since(start)
	if err != nil {
		report.Native.Err = err
		report.Bridged.Skipped = true
		return report, err
	}

	// The bridged numbers are only meaningful against the optimized
	// release artifact.
	if err := p.Build(ctx, PortableRelease); err != nil {
		report.Bridged.Skipped = true
		return report, err
	}

	start = time.Now()
	err = p.bridgedBench(ctx)
	report.Bridged.Duration = time.Since(start)
	if err != nil {
		report.Bridged.Err = err
		return report, err
	}

	return report, nil
}

func (p *Pipeline) bridgedBench(ctx context.Context) error {
	b, err := bridge.New(bridge.Config{
		ArtifactDir:  p.cfg.OutDir,
		ArtifactName: p.cfg.ArtifactName,
		Logger:       zap.NewNop(),
	})
	if err != nil {
		return err
	}
	defer b.Close(ctx)

	exports, err := b.Load(ctx, p.cfg.Imports)
	if err != nil {
		return err
	}
	if p.cfg.SmokeExport == "" {
		return nil
	}
	for i := 0; i < p.cfg.BenchIterations; i++ {
		if _, err := exports.Call(ctx, p.cfg.SmokeExport); err != nil {
			return err
		}
	}
	return nil
}
