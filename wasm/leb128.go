package wasm

import (
	"bytes"
	"errors"
	"io"
)

// ErrLEB128TooLong indicates an encoding longer than the 5-byte maximum
// for 32-bit values.
var ErrLEB128TooLong = errors.New("leb128 value exceeds 32 bits")

// ReadLEB128u reads an unsigned LEB128-encoded 32-bit value.
func ReadLEB128u(r io.ByteReader) (uint32, error) {
	var result uint32
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if shift == 28 && b > 0x0F {
			return 0, ErrLEB128TooLong
		}
		result |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift > 28 {
			return 0, ErrLEB128TooLong
		}
	}
}

// ReadLEB128s reads a signed LEB128-encoded 32-bit value.
func ReadLEB128s(r io.ByteReader) (int32, error) {
	var result int32
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= int32(b&0x7F) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 32 && b&0x40 != 0 {
				result |= -1 << shift
			}
			return result, nil
		}
		if shift > 28 {
			return 0, ErrLEB128TooLong
		}
	}
}

// WriteLEB128u writes v as unsigned LEB128.
func WriteLEB128u(w *bytes.Buffer, v uint32) {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			return
		}
	}
}

// WriteLEB128s writes v as signed LEB128.
func WriteLEB128s(w *bytes.Buffer, v int32) {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		done := (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0)
		if !done {
			b |= 0x80
		}
		w.WriteByte(b)
		if done {
			return
		}
	}
}

// EncodeLEB128u returns the unsigned LEB128 encoding of v.
func EncodeLEB128u(v uint32) []byte {
	var buf bytes.Buffer
	WriteLEB128u(&buf, v)
	return buf.Bytes()
}
