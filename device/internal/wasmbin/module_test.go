package wasmbin

import (
	"bytes"
	"testing"
)

func TestWriterWriteU32(t *testing.T) {
	tests := []struct {
		name string
		v    uint32
		want []byte
	}{
		{"zero", 0, []byte{0x00}},
		{"one byte max", 127, []byte{0x7f}},
		{"two bytes", 128, []byte{0x80, 0x01}},
		{"page count", 65536, []byte{0x80, 0x80, 0x04}},
		{"max", 0xffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter()
			w.WriteU32(tt.v)
			if !bytes.Equal(w.Bytes(), tt.want) {
				t.Errorf("WriteU32(%d): got %x, want %x", tt.v, w.Bytes(), tt.want)
			}
		})
	}
}

func TestWriterSection(t *testing.T) {
	w := NewWriter()
	w.Section(0x07, []byte{0xaa, 0xbb})
	want := []byte{0x07, 0x02, 0xaa, 0xbb}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("Section: got %x, want %x", w.Bytes(), want)
	}
	if w.Len() != 4 {
		t.Errorf("Len: got %d, want 4", w.Len())
	}
}

func TestMemoryModule(t *testing.T) {
	maxPages := uint32(16)
	got := MemoryModule("memory", 1, &maxPages)
	want := []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		0x05, 0x04, 0x01, 0x01, 0x01, 0x10,
		0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("MemoryModule:\n got %x\nwant %x", got, want)
	}
}

func TestMemoryModuleUnbounded(t *testing.T) {
	got := MemoryModule("m", 2, nil)
	want := []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		0x05, 0x03, 0x01, 0x00, 0x02,
		0x07, 0x05, 0x01, 0x01, 'm', 0x02, 0x00,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("MemoryModule:\n got %x\nwant %x", got, want)
	}
}
