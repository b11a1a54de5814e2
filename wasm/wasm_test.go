package wasm_test

import (
	"errors"
	"testing"

	"github.com/wippyai/wasm-bridge/wasm"
)

func sampleModule() *wasm.Module {
	return &wasm.Module{
		Types: []wasm.FuncType{
			{Results: []wasm.ValType{wasm.ValI32}},
			{Params: []wasm.ValType{wasm.ValI32, wasm.ValI32}, Results: []wasm.ValType{wasm.ValI32}},
		},
		Imports: []wasm.Import{
			{Module: "env", Name: "now", Kind: wasm.KindFunc, TypeIndex: 0},
			{Module: "wbg", Name: "add", Kind: wasm.KindFunc, TypeIndex: 1},
		},
		Funcs:    []uint32{0},
		Memories: []wasm.Limits{{Min: 1, Max: 16, HasMax: true}},
		Exports: []wasm.Export{
			{Name: "answer", Kind: wasm.KindFunc, Index: 2},
			{Name: "memory", Kind: wasm.KindMemory, Index: 0},
		},
		Code: []wasm.FuncBody{{Body: []byte{0x41, 0x2A, 0x0B}}},
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	encoded := sampleModule().Encode()

	m, err := wasm.ParseModule(encoded)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(m.Types) != 2 {
		t.Fatalf("types = %d, want 2", len(m.Types))
	}
	if got := m.Types[1].Params; len(got) != 2 || got[0] != wasm.ValI32 {
		t.Errorf("type 1 params = %v", got)
	}
	if len(m.Imports) != 2 || m.Imports[0].Module != "env" || m.Imports[1].Name != "add" {
		t.Errorf("imports = %+v", m.Imports)
	}
	if len(m.Funcs) != 1 || m.Funcs[0] != 0 {
		t.Errorf("funcs = %v", m.Funcs)
	}
	if len(m.Memories) != 1 || m.Memories[0].Max != 16 || !m.Memories[0].HasMax {
		t.Errorf("memories = %+v", m.Memories)
	}
	if len(m.Exports) != 2 || m.Exports[0].Name != "answer" {
		t.Errorf("exports = %+v", m.Exports)
	}
}

func TestParseRejectsBadHeader(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"wrong magic", []byte{0x01, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}, wasm.ErrInvalidMagic},
		{"wrong version", []byte{0x00, 0x61, 0x73, 0x6D, 0x02, 0x00, 0x00, 0x00}, wasm.ErrInvalidVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := wasm.ParseModule(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseRejectsTruncated(t *testing.T) {
	encoded := sampleModule().Encode()

	// Cut the binary mid-section.
	if _, err := wasm.ParseModule(encoded[:len(encoded)-4]); err == nil {
		t.Error("expected error for truncated module")
	}
	if _, err := wasm.ParseModule(encoded[:6]); err == nil {
		t.Error("expected error for truncated header")
	}
}

func TestParseRejectsSectionOrder(t *testing.T) {
	// Export section followed by an import section is out of order.
	exportFirst := (&wasm.Module{
		Types:   []wasm.FuncType{{}},
		Exports: []wasm.Export{{Name: "x", Kind: wasm.KindFunc, Index: 0}},
	}).Encode()
	importSection := (&wasm.Module{
		Imports: []wasm.Import{{Module: "env", Name: "f", Kind: wasm.KindFunc}},
	}).Encode()

	data := append(exportFirst, importSection[8:]...)
	if _, err := wasm.ParseModule(data); !errors.Is(err, wasm.ErrSectionOrder) {
		t.Errorf("got %v, want ErrSectionOrder", err)
	}
}

func TestParseRejectsDuplicateExport(t *testing.T) {
	m := &wasm.Module{
		Types: []wasm.FuncType{{}},
		Funcs: []uint32{0, 0},
		Exports: []wasm.Export{
			{Name: "dup", Kind: wasm.KindFunc, Index: 0},
			{Name: "dup", Kind: wasm.KindFunc, Index: 1},
		},
		Code: []wasm.FuncBody{{Body: []byte{0x0B}}, {Body: []byte{0x0B}}},
	}

	if _, err := wasm.ParseModule(m.Encode()); err == nil {
		t.Error("expected error for duplicate export name")
	}
}

func TestFuncImportsAndNamespaces(t *testing.T) {
	m, err := wasm.ParseModule(sampleModule().Encode())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	imports := m.FuncImports()
	if len(imports) != 2 {
		t.Fatalf("func imports = %d, want 2", len(imports))
	}

	ns := m.ImportNamespaces()
	if len(ns) != 2 || ns["env"][0] != "now" || ns["wbg"][0] != "add" {
		t.Errorf("namespaces = %v", ns)
	}
}

func TestFuncSignature(t *testing.T) {
	m, err := wasm.ParseModule(sampleModule().Encode())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	tests := []struct {
		name      string
		funcIndex uint32
		ok        bool
		results   int
		params    int
	}{
		{"imported env.now", 0, true, 1, 0},
		{"imported wbg.add", 1, true, 1, 2},
		{"declared answer", 2, true, 1, 0},
		{"out of range", 3, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, ok := m.FuncSignature(tt.funcIndex)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if len(sig.Params) != tt.params || len(sig.Results) != tt.results {
				t.Errorf("signature = %d params %d results, want %d/%d",
					len(sig.Params), len(sig.Results), tt.params, tt.results)
			}
		})
	}
}

func TestUndecodedSectionsPreserved(t *testing.T) {
	m, err := wasm.ParseModule(sampleModule().Encode())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	// Code is not decoded; it must survive as a raw section.
	if len(m.Raw) != 1 || m.Raw[0].ID != wasm.SectionCode {
		t.Errorf("raw sections = %+v, want one code section", m.Raw)
	}
}
