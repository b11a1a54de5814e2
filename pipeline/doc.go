// Package pipeline orchestrates the native and portable build paths.
//
// A Target selects one of the four build products: native-debug,
// native-release, portable-debug, portable-release. Portable targets
// always pass through the size/speed optimizer and then binding
// generation; native targets never do. The ordering is encoded as
// explicit stage dependencies, not invocation order: binding generation
// declares the optimizer stage as a prerequisite because it inspects
// the final artifact's symbol list.
//
// Stages run sequentially in dependency order within one invocation.
// Any stage failure aborts the remaining stages and surfaces the
// originating tool's exit status unchanged; no partial artifact is
// considered usable.
//
// Test runs the native suite and then the host-side suite through the
// bridge, reporting the two results independently: the suites exercise
// different compilation paths, and a divergence between them is itself
// a defect signal. Benchmark produces a native/bridged comparison as a
// diagnostic, not a pass/fail gate.
package pipeline
