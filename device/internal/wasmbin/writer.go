// Package wasmbin encodes the minimal WebAssembly binaries the device arena
// instantiates: a module with one exported linear memory and nothing else.
package wasmbin

import "bytes"

// Writer accumulates a WebAssembly binary.
type Writer struct {
	buf bytes.Buffer
}

func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

func (w *Writer) Len() int {
	return w.buf.Len()
}

func (w *Writer) Byte(b byte) {
	w.buf.WriteByte(b)
}

func (w *Writer) WriteBytes(data []byte) {
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
			return
		}
	}
}

// WriteName writes a length-prefixed UTF-8 name.
func (w *Writer) WriteName(name string) {
	w.WriteU32(uint32(len(name)))
	w.buf.WriteString(name)
}

// Section writes a section id followed by its size-prefixed body.
func (w *Writer) Section(id byte, body []byte) {
	w.Byte(id)
	w.WriteU32(uint32(len(body)))
	w.WriteBytes(body)
}
