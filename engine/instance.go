package engine

import (
	"context"
	"sort"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wasm-bridge/errors"
)

// Instance is one isolated instantiation of a compiled artifact. Its
// linear memory and globals are exclusively owned; no instance can
// observe another's state.
type Instance struct {
	module  api.Module
	exports *ExportTable
}

func newInstance(module api.Module) *Instance {
	funcs := make(map[string]api.Function)
	for name := range module.ExportedFunctionDefinitions() {
		if fn := module.ExportedFunction(name); fn != nil {
			funcs[name] = fn
		}
	}
	return &Instance{
		module:  module,
		exports: &ExportTable{funcs: funcs},
	}
}

// Exports publishes the instance's export table. The table is the sole
// channel through which the artifact's functionality is invoked and is
// valid only for this instance's lifetime.
func (i *Instance) Exports() *ExportTable {
	return i.exports
}

// Memory returns the instance's linear memory, or nil if the artifact
// exports none.
func (i *Instance) Memory() api.Memory {
	return i.module.Memory()
}

// Close tears the instance down. The export table is invalid afterwards.
func (i *Instance) Close(ctx context.Context) error {
	return i.module.Close(ctx)
}

// ExportTable maps exported symbol names to callables. The set of
// names is fixed per compiled artifact.
type ExportTable struct {
	funcs map[string]api.Function
}

// Names returns the exported function names, sorted.
func (t *ExportTable) Names() []string {
	out := make([]string, 0, len(t.funcs))
	for name := range t.funcs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Func returns the callable for an exported symbol.
func (t *ExportTable) Func(name string) (api.Function, bool) {
	fn, ok := t.funcs[name]
	return fn, ok
}

// Len returns the number of exported functions.
func (t *ExportTable) Len() int {
	return len(t.funcs)
}

// Call invokes the exported function name with the given raw stack
// parameters. Unknown names fail without touching the instance.
func (t *ExportTable) Call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	fn, ok := t.funcs[name]
	if !ok {
		return nil, errors.New(errors.PhasePublish, errors.KindInvalidInput).
			Detail("no exported function %q", name).
			Build()
	}
	return fn.Call(ctx, params...)
}
