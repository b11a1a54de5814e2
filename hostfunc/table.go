package hostfunc

import (
	"reflect"
	"sort"

	"github.com/wippyai/wasm-bridge/errors"
)

// Table is an immutable mapping from (namespace, symbol) to a
// host-provided callable. Safe for concurrent read-only use.
type Table struct {
	funcs map[string]map[string]any
}

// Builder accumulates host functions before the table is frozen.
// Registration errors are deferred and reported by Build, so call
// chains stay flat.
type Builder struct {
	funcs map[string]map[string]any
	errs  []error
}

// NewBuilder creates an empty import table builder.
func NewBuilder() *Builder {
	return &Builder{
		funcs: make(map[string]map[string]any),
	}
}

// Func registers fn under (namespace, name). fn must be a Go function;
// its signature must match the artifact's declared import signature
// exactly, which is checked at link time.
func (b *Builder) Func(namespace, name string, fn any) *Builder {
	if namespace == "" {
		b.errs = append(b.errs, errors.InvalidInput(errors.PhaseLink, "namespace cannot be empty"))
		return b
	}
	if name == "" {
		b.errs = append(b.errs, errors.InvalidInput(errors.PhaseLink, "symbol name cannot be empty"))
		return b
	}
	if fn == nil || reflect.TypeOf(fn).Kind() != reflect.Func {
		b.errs = append(b.errs, errors.New(errors.PhaseLink, errors.KindInvalidInput).
			Symbol(namespace, name).
			Detail("host callable must be a Go function").
			Build())
		return b
	}
	if _, dup := b.funcs[namespace][name]; dup {
		b.errs = append(b.errs, errors.New(errors.PhaseLink, errors.KindInvalidInput).
			Symbol(namespace, name).
			Detail("symbol registered twice").
			Build())
		return b
	}

	if b.funcs[namespace] == nil {
		b.funcs[namespace] = make(map[string]any)
	}
	b.funcs[namespace][name] = fn
	return b
}

// Build freezes the builder into an immutable Table. The first
// registration error, if any, is returned instead.
func (b *Builder) Build() (*Table, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}

	funcs := make(map[string]map[string]any, len(b.funcs))
	for ns, syms := range b.funcs {
		copied := make(map[string]any, len(syms))
		for name, fn := range syms {
			copied[name] = fn
		}
		funcs[ns] = copied
	}
	return &Table{funcs: funcs}, nil
}

// Empty returns a table with no entries, for artifacts that declare no
// imports.
func Empty() *Table {
	return &Table{funcs: map[string]map[string]any{}}
}

// Lookup returns the callable registered under (namespace, name).
func (t *Table) Lookup(namespace, name string) (any, bool) {
	fn, ok := t.funcs[namespace][name]
	return fn, ok
}

// Namespaces returns the registered namespaces, sorted.
func (t *Table) Namespaces() []string {
	out := make([]string, 0, len(t.funcs))
	for ns := range t.funcs {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// Symbols returns the symbol names registered under namespace, sorted.
func (t *Table) Symbols(namespace string) []string {
	out := make([]string, 0, len(t.funcs[namespace]))
	for name := range t.funcs[namespace] {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the total number of registered callables.
func (t *Table) Len() int {
	n := 0
	for _, syms := range t.funcs {
		n += len(syms)
	}
	return n
}
