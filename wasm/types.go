package wasm

import "sort"

const (
	// Magic is the WebAssembly binary magic number ("\0asm" in little-endian).
	Magic uint32 = 0x6D736100

	// Version is the supported WebAssembly binary format version.
	Version uint32 = 0x01
)

// Section IDs define the binary identifiers for each module section.
// Non-custom sections must appear in canonical order.
const (
	SectionCustom    byte = 0
	SectionType      byte = 1
	SectionImport    byte = 2
	SectionFunction  byte = 3
	SectionTable     byte = 4
	SectionMemory    byte = 5
	SectionGlobal    byte = 6
	SectionExport    byte = 7
	SectionStart     byte = 8
	SectionElement   byte = 9
	SectionCode      byte = 10
	SectionData      byte = 11
	SectionDataCount byte = 12
	SectionTag       byte = 13
)

// External kinds used by import and export descriptors.
const (
	KindFunc   byte = 0
	KindTable  byte = 1
	KindMemory byte = 2
	KindGlobal byte = 3
)

// ValType represents a WebAssembly value type
type ValType byte

const (
	ValI32 ValType = 0x7F
	ValI64 ValType = 0x7E
	ValF32 ValType = 0x7D
	ValF64 ValType = 0x7C
)

func (v ValType) String() string {
	switch v {
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	case ValF32:
		return "f32"
	case ValF64:
		return "f64"
	}
	return "unknown"
}

// FuncType represents a function signature with parameter and result types.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// Import represents one entry of the import section. TypeIndex is only
// meaningful for function imports.
type Import struct {
	Module    string
	Name      string
	Kind      byte
	TypeIndex uint32
}

// Export represents one entry of the export section.
type Export struct {
	Name  string
	Kind  byte
	Index uint32
}

// Local declares a run of locals of one type in a function body.
type Local struct {
	Count uint32
	Type  ValType
}

// FuncBody holds a declared function's locals and raw instruction bytes.
// Body must end with the 0x0B end opcode.
type FuncBody struct {
	Locals []Local
	Body   []byte
}

// Limits describes memory or table bounds.
type Limits struct {
	Min    uint32
	Max    uint32
	HasMax bool
}

// RawSection carries a section the codec does not decode.
type RawSection struct {
	ID      byte
	Payload []byte
}

// Module represents a parsed WebAssembly module. Sections outside the
// decoded subset are preserved in Raw, in order of appearance.
type Module struct {
	Types    []FuncType
	Imports  []Import
	Funcs    []uint32 // type indices for declared functions
	Memories []Limits
	Exports  []Export
	Code     []FuncBody
	Raw      []RawSection
}

// FuncImports returns the function entries of the import section, in order.
func (m *Module) FuncImports() []Import {
	var out []Import
	for _, imp := range m.Imports {
		if imp.Kind == KindFunc {
			out = append(out, imp)
		}
	}
	return out
}

// ImportNamespaces groups required function import names by module
// namespace, with each name list sorted.
func (m *Module) ImportNamespaces() map[string][]string {
	out := make(map[string][]string)
	for _, imp := range m.FuncImports() {
		out[imp.Module] = append(out[imp.Module], imp.Name)
	}
	for _, names := range out {
		sort.Strings(names)
	}
	return out
}

// ExportedFuncs returns the function entries of the export section, in order.
func (m *Module) ExportedFuncs() []Export {
	var out []Export
	for _, exp := range m.Exports {
		if exp.Kind == KindFunc {
			out = append(out, exp)
		}
	}
	return out
}

// FuncSignature resolves the signature of the function at the given
// index in the combined function index space (imports first, then
// declared functions). The second result is false if the index or its
// type index is out of range.
func (m *Module) FuncSignature(funcIndex uint32) (FuncType, bool) {
	imports := m.FuncImports()
	var typeIndex uint32
	if funcIndex < uint32(len(imports)) {
		typeIndex = imports[funcIndex].TypeIndex
	} else {
		declared := funcIndex - uint32(len(imports))
		if declared >= uint32(len(m.Funcs)) {
			return FuncType{}, false
		}
		typeIndex = m.Funcs[declared]
	}
	if typeIndex >= uint32(len(m.Types)) {
		return FuncType{}, false
	}
	return m.Types[typeIndex], true
}
