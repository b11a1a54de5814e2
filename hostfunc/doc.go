// Package hostfunc builds the import table a compiled artifact is
// linked against.
//
// The table maps (namespace, symbol) to a host-provided Go function and
// is constructed explicitly by the embedding caller:
//
//	table, err := hostfunc.NewBuilder().
//		Func("env", "now", func() int64 { return time.Now().UnixMilli() }).
//		Func("env", "host-log", hostLog).
//		Build()
//
// After Build the table is immutable, so it may be shared read-only
// across multiple instantiations of the same compiled artifact. The
// table must name every symbol the artifact declares as required before
// instantiation is attempted; a partial table always fails linking, it
// never degrades.
package hostfunc
