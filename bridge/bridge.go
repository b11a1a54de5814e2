package bridge

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	wasmbridge "github.com/wippyai/wasm-bridge"
	"github.com/wippyai/wasm-bridge/engine"
	"github.com/wippyai/wasm-bridge/errors"
	"github.com/wippyai/wasm-bridge/hostfunc"
)

// Config holds bridge construction parameters.
type Config struct {
	// ArtifactDir is the directory holding the artifact. Empty means
	// the directory of the running binary (InstallDir).
	ArtifactDir string

	// ArtifactName overrides DefaultArtifactName.
	ArtifactName string

	// Engine is an existing engine to instantiate into. Nil means the
	// bridge creates and owns one.
	Engine *engine.Engine

	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Bridge performs one load sequence and publishes the export table.
// Methods are safe for concurrent use, but the sequence itself runs
// exactly once; overlapping Load calls serialize and all but the first
// fail.
type Bridge struct {
	dir  string
	name string
	log  *zap.Logger

	mu         sync.Mutex
	state      wasmbridge.State
	eng        *engine.Engine
	ownsEngine bool
	compiled   *engine.CompiledArtifact
	instance   *engine.Instance
	exports    *engine.ExportTable
	failure    error
}

// New builds a bridge from cfg. The artifact directory is fixed here;
// resolution afterwards is pure and idempotent.
func New(cfg Config) (*Bridge, error) {
	dir := cfg.ArtifactDir
	if dir == "" {
		var err error
		dir, err = InstallDir()
		if err != nil {
			return nil, err
		}
	}

	name := cfg.ArtifactName
	if name == "" {
		name = DefaultArtifactName
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Bridge{
		dir:        dir,
		name:       name,
		log:        log,
		eng:        cfg.Engine,
		ownsEngine: cfg.Engine == nil,
		state:      wasmbridge.Unloaded,
	}, nil
}

// State returns the current load-sequence state.
func (b *Bridge) State() wasmbridge.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// FailureReason returns the error that moved the bridge to Failed, or
// nil.
func (b *Bridge) FailureReason() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failure
}

// ResolveArtifactPath derives the artifact path from the configured
// directory and filename. Pure: resolving twice yields the same path.
func (b *Bridge) ResolveArtifactPath() (string, error) {
	if b.dir == "" {
		return "", errors.PathResolution("artifact directory is not set", nil)
	}
	return filepath.Join(b.dir, b.name), nil
}

// Load runs resolve, read, compile, instantiate, publish in order and
// returns the published export table. table must be fully constructed
// before the call; a partial table fails linking rather than degrading.
//
// Any failure is terminal: the bridge moves to Failed and stays there.
// A second Load, whatever the outcome of the first, is a state error.
func (b *Bridge) Load(ctx context.Context, table *hostfunc.Table) (*engine.ExportTable, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != wasmbridge.Unloaded {
		return nil, errors.StateViolation(errors.PhaseLoad, "load", b.state.String())
	}

	path, err := b.ResolveArtifactPath()
	if err != nil {
		return nil, b.fail(err)
	}
	b.state = wasmbridge.PathResolved

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, b.fail(errors.IO(path, err))
	}
	b.state = wasmbridge.BytesLoaded
	b.log.Debug("artifact read", zap.String("path", path), zap.Int("size", len(data)))

	if b.eng == nil {
		eng, err := engine.New(ctx)
		if err != nil {
			return nil, b.fail(err)
		}
		b.eng = eng
	}

	compiled, err := b.eng.Compile(ctx, data)
	if err != nil {
		return nil, b.fail(err)
	}
	b.compiled = compiled
	b.state = wasmbridge.Compiled

	if table == nil {
		table = hostfunc.Empty()
	}
	instance, err := compiled.Instantiate(ctx, table)
	if err != nil {
		return nil, b.fail(err)
	}
	b.instance = instance
	b.state = wasmbridge.Instantiated

	b.exports = instance.Exports()
	b.state = wasmbridge.Published
	b.log.Info("artifact published",
		zap.String("path", path),
		zap.Strings("exports", b.exports.Names()))

	return b.exports, nil
}

// fail records the terminal failure. No retry or recovery transition
// exists.
func (b *Bridge) fail(err error) error {
	b.state = wasmbridge.Failed
	b.failure = err
	b.log.Error("bridge load failed", zap.Error(err))
	return err
}

// Exports returns the published export table, the sole channel through
// which the artifact is invoked after a successful load.
func (b *Bridge) Exports() (*engine.ExportTable, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != wasmbridge.Published {
		return nil, errors.StateViolation(errors.PhasePublish, "exports", b.state.String())
	}
	return b.exports, nil
}

// Close releases the instance and, if the bridge created it, the
// engine.
func (b *Bridge) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var first error
	if b.instance != nil {
		if err := b.instance.Close(ctx); err != nil {
			first = err
		}
		b.instance = nil
	}
	if b.ownsEngine && b.eng != nil {
		if err := b.eng.Close(ctx); err != nil && first == nil {
			first = err
		}
		b.eng = nil
	}
	return first
}
