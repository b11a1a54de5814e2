package engine

import (
	"context"
	"encoding/hex"
	"sort"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/wasm-bridge/errors"
	"github.com/wippyai/wasm-bridge/hostfunc"
)

// CompiledArtifact is the loadable, reusable compiled representation of
// an artifact. It carries no instance state; Instantiate materializes a
// fresh, isolated instance each call.
type CompiledArtifact struct {
	engine   *Engine
	compiled wazero.CompiledModule
	hash     [32]byte
}

// Hash returns the hex SHA-256 of the artifact bytes, usable as a
// compile-cache key.
func (c *CompiledArtifact) Hash() string {
	return hex.EncodeToString(c.hash[:])
}

// RequiredImports returns the function imports the artifact declares,
// grouped by namespace, each list sorted.
func (c *CompiledArtifact) RequiredImports() map[string][]string {
	out := make(map[string][]string)
	for _, def := range c.compiled.ImportedFunctions() {
		module, name, ok := def.Import()
		if !ok {
			continue
		}
		out[module] = append(out[module], name)
	}
	for _, names := range out {
		sort.Strings(names)
	}
	return out
}

// ExportNames returns the artifact's exported function names, sorted.
func (c *CompiledArtifact) ExportNames() []string {
	exported := c.compiled.ExportedFunctions()
	out := make([]string, 0, len(exported))
	for name := range exported {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Close releases the compiled representation.
func (c *CompiledArtifact) Close(ctx context.Context) error {
	return c.compiled.Close(ctx)
}

// Instantiate binds the artifact's declared imports against table and
// materializes a fresh instance with private linear state.
//
// Missing symbols fail before anything is allocated, and the error
// names every absent import, not just the first. An incompatible host
// signature surfaces from the runtime as a link error.
func (c *CompiledArtifact) Instantiate(ctx context.Context, table *hostfunc.Table) (*Instance, error) {
	if table == nil {
		table = hostfunc.Empty()
	}

	required := c.RequiredImports()

	var missing []string
	namespaces := make([]string, 0, len(required))
	for ns, names := range required {
		namespaces = append(namespaces, ns)
		for _, name := range names {
			if _, ok := table.Lookup(ns, name); !ok {
				missing = append(missing, ns+"."+name)
			}
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewMissingImportsError(missing)
	}
	sort.Strings(namespaces)

	if err := c.engine.bindHosts(ctx, table, namespaces); err != nil {
		return nil, err
	}

	// Anonymous module name so the same artifact can be instantiated
	// repeatedly within one runtime.
	cfg := wazero.NewModuleConfig().WithName("")
	module, err := c.engine.runtime.InstantiateModule(ctx, c.compiled, cfg)
	if err != nil {
		return nil, errors.Instantiation(err)
	}

	return newInstance(module), nil
}
