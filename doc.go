// Package wasmbridge packages a precompiled WebAssembly engine artifact
// for a Go host: it locates the artifact next to its install directory,
// compiles and instantiates it against a caller-supplied import table,
// and publishes the resulting export table as the sole call surface.
//
// # Architecture Overview
//
// The module is organized into packages with distinct responsibilities:
//
//	wasmbridge/          Root package with the load-sequence State machine
//	├── bridge/          High-level loader: resolve, read, compile,
//	│                    instantiate, publish
//	├── engine/          Low-level wazero integration
//	├── hostfunc/        Import table construction and lookup
//	├── wasm/            Core WASM binary section codec
//	├── bindgen/         Host-binding surface generation from artifacts
//	├── pipeline/        Build/test/bench orchestration for the native
//	│                    and portable toolchains
//	├── errors/          Structured error types
//	└── cmd/bridgectl/   Orchestrator CLI
//
// # Quick Start
//
// Load the artifact and call an exported function:
//
//	b, err := bridge.New(bridge.Config{ArtifactDir: dir})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close(ctx)
//
//	exports, err := b.Load(ctx, table)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	results, err := exports.Call(ctx, "parse")
//
// The engine's own semantics are opaque to this module: the artifact is
// an external collaborator with a fixed set of imported and exported
// symbols. Every load-path failure is fatal for that load attempt; a
// missing or malformed artifact indicates a broken build, not a
// transient condition, so nothing here retries.
package wasmbridge
