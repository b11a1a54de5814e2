// Package wasm provides a slim codec for core WebAssembly binaries.
//
// It covers exactly what the bridge and the binding generator need:
// header validation, section scanning, and full decoding of the type,
// import, and export sections of an MVP-level module. Function bodies
// and every other section are carried as opaque payloads.
//
// ParseModule validates structure as it reads: a wrong magic header,
// unsupported version, out-of-order section, or truncated payload is a
// hard error. Encode produces a well-formed binary from a Module, which
// is how test fixtures for the loader are built.
package wasm
