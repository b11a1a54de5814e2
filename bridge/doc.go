// Package bridge loads the engine artifact and publishes its exports.
//
// A Bridge runs one load sequence per process lifetime, synchronously:
//
//	resolve -> read -> compile -> instantiate -> publish
//
// tracked by the state machine in the root package. Instantiation is
// never attempted before the caller's import table is fully built, and
// any step's failure is terminal for the bridge: the embedding process
// is expected to fail fast at startup rather than degrade, because
// every failure mode here means a broken build artifact or a
// programming error in the import table.
//
// The artifact directory is explicit construction-time configuration.
// Deriving it from the running binary's own location is available as a
// fallback (InstallDir), as is converting a file:// self-reference URI
// (PathFromFileURI), which handles the Windows representation where a
// leading separator must be stripped before the path is usable.
package bridge
