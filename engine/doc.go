// Package engine wraps the wazero runtime behind the bridge's
// compile/instantiate contract.
//
// Compile validates a byte sequence as a well-formed binary module and
// produces a reusable CompiledArtifact; it is deterministic and
// side-effect-free, so the result may be cached and instantiated many
// times. Instantiate links a compiled artifact's declared imports
// against a hostfunc.Table and materializes an isolated Instance with
// its own linear memory. Instances of the same artifact never share
// state.
//
// Linking is checked before anything is allocated: a table missing a
// required symbol fails with a link error and no partial instance is
// observable.
package engine
