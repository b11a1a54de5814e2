package engine

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"sync"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-bridge/errors"
	"github.com/wippyai/wasm-bridge/hostfunc"
)

// Engine owns a wazero runtime. One engine can compile and instantiate
// any number of artifacts; host namespaces are registered into the
// runtime once and reused by later instantiations.
type Engine struct {
	runtime wazero.Runtime
	mu      sync.Mutex
	bound   map[string]bool
}

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages caps memory per instance in 64KB pages.
	// 0 means the wazero default (65536 pages = 4GB).
	MemoryLimitPages uint32
}

// New creates an engine with default configuration.
func New(ctx context.Context) (*Engine, error) {
	return NewWithConfig(ctx, nil)
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(ctx context.Context, cfg *Config) (*Engine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	return &Engine{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		bound:   make(map[string]bool),
	}, nil
}

// Close releases the runtime and every instance created from it.
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// Compile validates wasmBytes as a structurally well-formed core module
// and produces a reusable compiled representation. Deterministic and
// side-effect-free; malformed bytes fail with a validation error.
func (e *Engine) Compile(ctx context.Context, wasmBytes []byte) (*CompiledArtifact, error) {
	if len(wasmBytes) < 8 {
		return nil, errors.Validation("artifact shorter than wasm header", nil)
	}
	if binary.LittleEndian.Uint32(wasmBytes[0:4]) != wasmMagic {
		return nil, errors.Validation("wrong magic header", nil)
	}
	if binary.LittleEndian.Uint32(wasmBytes[4:8]) != wasmVersion {
		return nil, errors.Validation("unsupported binary version", nil)
	}

	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, errors.Validation("malformed module section", err)
	}

	Logger().Debug("artifact compiled",
		zap.Int("size", len(wasmBytes)),
		zap.Int("imports", len(compiled.ImportedFunctions())))

	return &CompiledArtifact{
		engine:   e,
		compiled: compiled,
		hash:     sha256.Sum256(wasmBytes),
	}, nil
}

// wasm binary header constants, mirrored here so the engine does not
// depend on the codec package for a two-word check.
const (
	wasmMagic   uint32 = 0x6D736100
	wasmVersion uint32 = 0x01
)

// bindHosts instantiates one host module per required namespace, each
// exporting every callable the table holds for it. A namespace already
// present in the runtime is reused as-is: wazero host module names are
// global to the runtime, so the first table to bind a namespace wins.
func (e *Engine) bindHosts(ctx context.Context, table *hostfunc.Table, namespaces []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, ns := range namespaces {
		if e.bound[ns] {
			continue
		}

		builder := e.runtime.NewHostModuleBuilder(ns)
		for _, name := range table.Symbols(ns) {
			fn, _ := table.Lookup(ns, name)
			builder.NewFunctionBuilder().WithFunc(fn).Export(name)
		}
		if _, err := builder.Instantiate(ctx); err != nil {
			return errors.New(errors.PhaseLink, errors.KindLink).
				Detail("bind host namespace %q", ns).
				Cause(err).
				Build()
		}
		e.bound[ns] = true

		Logger().Debug("host namespace bound",
			zap.String("namespace", ns),
			zap.Int("symbols", len(table.Symbols(ns))))
	}
	return nil
}
