package wasm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Parsing errors returned by ParseModule.
var (
	ErrInvalidMagic   = errors.New("invalid wasm magic number")
	ErrInvalidVersion = errors.New("invalid wasm version")
	ErrSectionOrder   = errors.New("section out of canonical order")
)

// ParseModule parses a WebAssembly binary module. Only the type, import,
// function, memory, and export sections are decoded; everything else is
// retained as an opaque RawSection.
func ParseModule(data []byte) (*Module, error) {
	r := bytes.NewReader(data)

	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, wrapSection("header", err)
	}
	if binary.LittleEndian.Uint32(header[0:4]) != Magic {
		return nil, ErrInvalidMagic
	}
	if binary.LittleEndian.Uint32(header[4:8]) != Version {
		return nil, ErrInvalidVersion
	}

	m := &Module{}

	// Track ordering using the canonical section order, not raw IDs:
	// Type, Import, Function, Table, Memory, Tag, Global, Export, Start,
	// Element, DataCount, Code, Data. Custom sections may appear anywhere.
	var lastOrder int

	for {
		id, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, wrapSection("section header", err)
		}

		if id != SectionCustom {
			order := sectionOrder(id)
			if order < 0 {
				return nil, fmt.Errorf("unknown section id %d", id)
			}
			if order <= lastOrder {
				return nil, fmt.Errorf("section id %d: %w", id, ErrSectionOrder)
			}
			lastOrder = order
		}

		size, err := ReadLEB128u(r)
		if err != nil {
			return nil, wrapSection("section size", err)
		}
		payload := make([]byte, size)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, wrapSection("section payload", err)
		}

		switch id {
		case SectionType:
			err = parseTypeSection(payload, m)
		case SectionImport:
			err = parseImportSection(payload, m)
		case SectionFunction:
			err = parseFunctionSection(payload, m)
		case SectionMemory:
			err = parseMemorySection(payload, m)
		case SectionExport:
			err = parseExportSection(payload, m)
		default:
			m.Raw = append(m.Raw, RawSection{ID: id, Payload: payload})
		}
		if err != nil {
			return nil, err
		}
	}

	return m, nil
}

func sectionOrder(id byte) int {
	switch id {
	case SectionType:
		return 1
	case SectionImport:
		return 2
	case SectionFunction:
		return 3
	case SectionTable:
		return 4
	case SectionMemory:
		return 5
	case SectionTag:
		return 6
	case SectionGlobal:
		return 7
	case SectionExport:
		return 8
	case SectionStart:
		return 9
	case SectionElement:
		return 10
	case SectionDataCount:
		return 11
	case SectionCode:
		return 12
	case SectionData:
		return 13
	}
	return -1
}

func wrapSection(section string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%s: truncated: %w", section, io.ErrUnexpectedEOF)
	}
	return fmt.Errorf("%s: %w", section, err)
}

func parseTypeSection(payload []byte, m *Module) error {
	r := bytes.NewReader(payload)
	count, err := ReadLEB128u(r)
	if err != nil {
		return wrapSection("type section", err)
	}
	for i := uint32(0); i < count; i++ {
		form, err := r.ReadByte()
		if err != nil {
			return wrapSection("type section", err)
		}
		if form != 0x60 {
			return fmt.Errorf("type section: entry %d: unsupported type form 0x%02X", i, form)
		}
		ft, err := readFuncType(r)
		if err != nil {
			return wrapSection("type section", err)
		}
		m.Types = append(m.Types, ft)
	}
	return nil
}

func readFuncType(r *bytes.Reader) (FuncType, error) {
	params, err := readValTypes(r)
	if err != nil {
		return FuncType{}, err
	}
	results, err := readValTypes(r)
	if err != nil {
		return FuncType{}, err
	}
	return FuncType{Params: params, Results: results}, nil
}

func readValTypes(r *bytes.Reader) ([]ValType, error) {
	count, err := ReadLEB128u(r)
	if err != nil {
		return nil, err
	}
	types := make([]ValType, 0, count)
	for i := uint32(0); i < count; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		v := ValType(b)
		switch v {
		case ValI32, ValI64, ValF32, ValF64:
		default:
			return nil, fmt.Errorf("unsupported value type 0x%02X", b)
		}
		types = append(types, v)
	}
	return types, nil
}

func parseImportSection(payload []byte, m *Module) error {
	r := bytes.NewReader(payload)
	count, err := ReadLEB128u(r)
	if err != nil {
		return wrapSection("import section", err)
	}
	for i := uint32(0); i < count; i++ {
		module, err := readName(r)
		if err != nil {
			return wrapSection("import section", err)
		}
		name, err := readName(r)
		if err != nil {
			return wrapSection("import section", err)
		}
		kind, err := r.ReadByte()
		if err != nil {
			return wrapSection("import section", err)
		}

		imp := Import{Module: module, Name: name, Kind: kind}
		switch kind {
		case KindFunc:
			imp.TypeIndex, err = ReadLEB128u(r)
		case KindTable:
			err = skipTableType(r)
		case KindMemory:
			_, err = readLimits(r)
		case KindGlobal:
			err = skipGlobalType(r)
		default:
			err = fmt.Errorf("unknown import kind %d", kind)
		}
		if err != nil {
			return wrapSection("import section", err)
		}
		m.Imports = append(m.Imports, imp)
	}
	return nil
}

func parseFunctionSection(payload []byte, m *Module) error {
	r := bytes.NewReader(payload)
	count, err := ReadLEB128u(r)
	if err != nil {
		return wrapSection("function section", err)
	}
	for i := uint32(0); i < count; i++ {
		typeIndex, err := ReadLEB128u(r)
		if err != nil {
			return wrapSection("function section", err)
		}
		m.Funcs = append(m.Funcs, typeIndex)
	}
	return nil
}

func parseMemorySection(payload []byte, m *Module) error {
	r := bytes.NewReader(payload)
	count, err := ReadLEB128u(r)
	if err != nil {
		return wrapSection("memory section", err)
	}
	for i := uint32(0); i < count; i++ {
		limits, err := readLimits(r)
		if err != nil {
			return wrapSection("memory section", err)
		}
		m.Memories = append(m.Memories, limits)
	}
	return nil
}

func parseExportSection(payload []byte, m *Module) error {
	r := bytes.NewReader(payload)
	count, err := ReadLEB128u(r)
	if err != nil {
		return wrapSection("export section", err)
	}
	seen := make(map[string]bool, count)
	for i := uint32(0); i < count; i++ {
		name, err := readName(r)
		if err != nil {
			return wrapSection("export section", err)
		}
		if seen[name] {
			return fmt.Errorf("export section: duplicate export %q", name)
		}
		seen[name] = true

		kind, err := r.ReadByte()
		if err != nil {
			return wrapSection("export section", err)
		}
		index, err := ReadLEB128u(r)
		if err != nil {
			return wrapSection("export section", err)
		}
		m.Exports = append(m.Exports, Export{Name: name, Kind: kind, Index: index})
	}
	return nil
}

func readName(r *bytes.Reader) (string, error) {
	length, err := ReadLEB128u(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readLimits(r *bytes.Reader) (Limits, error) {
	flags, err := r.ReadByte()
	if err != nil {
		return Limits{}, err
	}
	min, err := ReadLEB128u(r)
	if err != nil {
		return Limits{}, err
	}
	l := Limits{Min: min}
	if flags&0x01 != 0 {
		l.Max, err = ReadLEB128u(r)
		if err != nil {
			return Limits{}, err
		}
		l.HasMax = true
	}
	return l, nil
}

func skipTableType(r *bytes.Reader) error {
	if _, err := r.ReadByte(); err != nil { // elem type
		return err
	}
	_, err := readLimits(r)
	return err
}

func skipGlobalType(r *bytes.Reader) error {
	if _, err := r.ReadByte(); err != nil { // valtype
		return err
	}
	_, err := r.ReadByte() // mutability
	return err
}
