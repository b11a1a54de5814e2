package wasm

import (
	"bytes"
	"encoding/binary"
)

// Encode serializes the module to the binary format. Sections are
// emitted in canonical order; Raw sections are not re-emitted, so a
// parse/encode round trip preserves only the decoded subset.
func (m *Module) Encode() []byte {
	var out bytes.Buffer

	var header [8]byte
	binary.LittleEndian.PutUint32(header[0:4], Magic)
	binary.LittleEndian.PutUint32(header[4:8], Version)
	out.Write(header[:])

	if len(m.Types) > 0 {
		var sec bytes.Buffer
		WriteLEB128u(&sec, uint32(len(m.Types)))
		for _, ft := range m.Types {
			sec.WriteByte(0x60)
			writeValTypes(&sec, ft.Params)
			writeValTypes(&sec, ft.Results)
		}
		writeSection(&out, SectionType, sec.Bytes())
	}

	if len(m.Imports) > 0 {
		var sec bytes.Buffer
		WriteLEB128u(&sec, uint32(len(m.Imports)))
		for _, imp := range m.Imports {
			writeName(&sec, imp.Module)
			writeName(&sec, imp.Name)
			sec.WriteByte(imp.Kind)
			// Only function imports are supported by the encoder.
			WriteLEB128u(&sec, imp.TypeIndex)
		}
		writeSection(&out, SectionImport, sec.Bytes())
	}

	if len(m.Funcs) > 0 {
		var sec bytes.Buffer
		WriteLEB128u(&sec, uint32(len(m.Funcs)))
		for _, typeIndex := range m.Funcs {
			WriteLEB128u(&sec, typeIndex)
		}
		writeSection(&out, SectionFunction, sec.Bytes())
	}

	if len(m.Memories) > 0 {
		var sec bytes.Buffer
		WriteLEB128u(&sec, uint32(len(m.Memories)))
		for _, limits := range m.Memories {
			writeLimits(&sec, limits)
		}
		writeSection(&out, SectionMemory, sec.Bytes())
	}

	if len(m.Exports) > 0 {
		var sec bytes.Buffer
		WriteLEB128u(&sec, uint32(len(m.Exports)))
		for _, exp := range m.Exports {
			writeName(&sec, exp.Name)
			sec.WriteByte(exp.Kind)
			WriteLEB128u(&sec, exp.Index)
		}
		writeSection(&out, SectionExport, sec.Bytes())
	}

	if len(m.Code) > 0 {
		var sec bytes.Buffer
		WriteLEB128u(&sec, uint32(len(m.Code)))
		for _, body := range m.Code {
			var fb bytes.Buffer
			WriteLEB128u(&fb, uint32(len(body.Locals)))
			for _, local := range body.Locals {
				WriteLEB128u(&fb, local.Count)
				fb.WriteByte(byte(local.Type))
			}
			fb.Write(body.Body)
			WriteLEB128u(&sec, uint32(fb.Len()))
			sec.Write(fb.Bytes())
		}
		writeSection(&out, SectionCode, sec.Bytes())
	}

	return out.Bytes()
}

func writeSection(out *bytes.Buffer, id byte, payload []byte) {
	out.WriteByte(id)
	WriteLEB128u(out, uint32(len(payload)))
	out.Write(payload)
}

func writeValTypes(w *bytes.Buffer, types []ValType) {
	WriteLEB128u(w, uint32(len(types)))
	for _, t := range types {
		w.WriteByte(byte(t))
	}
}

func writeName(w *bytes.Buffer, name string) {
	WriteLEB128u(w, uint32(len(name)))
	w.WriteString(name)
}

func writeLimits(w *bytes.Buffer, l Limits) {
	if l.HasMax {
		w.WriteByte(0x01)
		WriteLEB128u(w, l.Min)
		WriteLEB128u(w, l.Max)
		return
	}
	w.WriteByte(0x00)
	WriteLEB128u(w, l.Min)
}
