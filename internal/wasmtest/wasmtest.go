// Package wasmtest builds tiny artifact binaries for tests.
package wasmtest

import (
	"bytes"

	"github.com/wippyai/wasm-bridge/wasm"
)

// ConstModule returns a module exporting one zero-argument function that
// returns value.
func ConstModule(exportName string, value int32) []byte {
	var body bytes.Buffer
	body.WriteByte(0x41) // i32.const
	wasm.WriteLEB128s(&body, value)
	body.WriteByte(0x0B) // end

	m := &wasm.Module{
		Types:   []wasm.FuncType{{Results: []wasm.ValType{wasm.ValI32}}},
		Funcs:   []uint32{0},
		Exports: []wasm.Export{{Name: exportName, Kind: wasm.KindFunc, Index: 0}},
		Code:    []wasm.FuncBody{{Body: body.Bytes()}},
	}
	return m.Encode()
}

// HostCallModule returns a module that imports one zero-argument
// function returning i32 from (namespace, importName) and exports
// exportName, which forwards to the import.
func HostCallModule(namespace, importName, exportName string) []byte {
	body := []byte{
		0x10, 0x00, // call import 0
		0x0B, // end
	}

	m := &wasm.Module{
		Types: []wasm.FuncType{{Results: []wasm.ValType{wasm.ValI32}}},
		Imports: []wasm.Import{
			{Module: namespace, Name: importName, Kind: wasm.KindFunc, TypeIndex: 0},
		},
		Funcs:   []uint32{0},
		Exports: []wasm.Export{{Name: exportName, Kind: wasm.KindFunc, Index: 1}},
		Code:    []wasm.FuncBody{{Body: body}},
	}
	return m.Encode()
}

// CounterModule returns a module with private linear memory exporting
// one function that increments a counter at address zero and returns
// the new count. Two instances observing independent counts proves
// state isolation.
func CounterModule(exportName string) []byte {
	body := []byte{
		0x41, 0x00, // i32.const 0 (store address)
		0x41, 0x00, // i32.const 0 (load address)
		0x28, 0x02, 0x00, // i32.load align=4 offset=0
		0x41, 0x01, // i32.const 1
		0x6A,             // i32.add
		0x36, 0x02, 0x00, // i32.store align=4 offset=0
		0x41, 0x00, // i32.const 0
		0x28, 0x02, 0x00, // i32.load align=4 offset=0
		0x0B, // end
	}

	m := &wasm.Module{
		Types:    []wasm.FuncType{{Results: []wasm.ValType{wasm.ValI32}}},
		Funcs:    []uint32{0},
		Memories: []wasm.Limits{{Min: 1, Max: 1, HasMax: true}},
		Exports:  []wasm.Export{{Name: exportName, Kind: wasm.KindFunc, Index: 0}},
		Code:     []wasm.FuncBody{{Body: body}},
	}
	return m.Encode()
}
