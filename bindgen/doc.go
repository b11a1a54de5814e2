// Package bindgen generates the host-binding surface for an artifact.
//
// The generator parses the final artifact binary, extracts its exported
// and imported function symbol lists, and renders a Go source file of
// symbol constants plus the required-import inventory. Because the
// symbol list is read from the artifact itself, generation must run on
// the binary the loader will actually consume: in the portable build
// pipeline that is the post-optimizer output, never the raw compiler
// output.
package bindgen
