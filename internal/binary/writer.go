// Package binary writes the WebAssembly binary encoding.
package binary

import (
	"bytes"
)

// Value types.
const (
	I32 byte = 0x7F
	I64 byte = 0x7E
)

// Section IDs. Sections must appear in increasing order.
const (
	SectionType     byte = 1
	SectionImport   byte = 2
	SectionFunction byte = 3
	SectionMemory   byte = 5
	SectionExport   byte = 7
	SectionCode     byte = 10
	SectionData     byte = 11
)

// External kinds for imports and exports.
const (
	KindFunc   byte = 0x00
	KindMemory byte = 0x02
)

// Instructions.
const (
	OpUnreachable byte = 0x00
	OpIf          byte = 0x04
	OpEnd         byte = 0x0B
	OpCall        byte = 0x10
	OpDrop        byte = 0x1A
	OpLocalGet    byte = 0x20
	OpLocalSet    byte = 0x21
	OpI32Const    byte = 0x41
	OpI32Ne       byte = 0x47
)

// BlockEmpty is the block type of a block without results.
const BlockEmpty byte = 0x40

const funcType byte = 0x60

// Header is the module preamble: magic "\0asm" and version 1.
var Header = []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}

// Writer provides buffered writing utilities for WASM binary encoding.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Byte writes a single byte.
func (w *Writer) Byte(b ...byte) {
	w.buf.Write(b)
}

// WriteBytes writes a length-prefixed byte vector.
func (w *Writer) WriteBytes(data []byte) {
	w.WriteU32(uint32(len(data)))
	w.buf.Write(data)
}

// WriteU32 writes an unsigned LEB128 encoded uint32.
func (w *Writer) WriteU32(v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.buf.WriteByte(b)
		if v == 0 {
			break
		}
	}
}

// WriteS64 writes a signed LEB128 encoded int64.
func (w *Writer) WriteS64(v int64) {
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && (b&0x40) == 0) || (v == -1 && (b&0x40) != 0) {
			more = false
		} else {
			b |= 0x80
		}
		w.buf.WriteByte(b)
	}
}

// WriteName writes a UTF-8 encoded name (length-prefixed).
func (w *Writer) WriteName(s string) {
	w.WriteU32(uint32(len(s)))
	w.buf.WriteString(s)
}

// FuncType writes a function type entry.
func (w *Writer) FuncType(params, results []byte) {
	w.Byte(funcType)
	w.WriteBytes(params)
	w.WriteBytes(results)
}

// Section writes a section with the given id. body fills the section
// content; its size prefix is computed afterwards.
func (w *Writer) Section(id byte, body func(*Writer)) {
	inner := NewWriter()
	body(inner)
	w.Byte(id)
	w.WriteBytes(inner.Bytes())
}
