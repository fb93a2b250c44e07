package dyn

import (
	"unsafe"

	"github.com/wippyai/dyntype/errors"
	"github.com/wippyai/dyntype/internal/abi"
	"github.com/wippyai/dyntype/internal/assert"
	"github.com/wippyai/dyntype/target"
)

// shape is the device layout of a composite, computed once when the
// composite is built or extended.
type shape struct {
	offsets []int // tuple field offsets; nil unless storable
	size    int
	align   int
	payload int // variant payload offset
	ok      bool
}

func (s shape) Size() (int, bool) {
	if !s.ok {
		return 0, false
	}
	return s.size, true
}

// tupleShape lays fields out by C struct rules.
func tupleShape(fields []Type) shape {
	s := shape{align: 1, ok: true}
	offsets := make([]int, len(fields))
	offset := 0
	for i, f := range fields {
		fa := f.Align()
		if fa > s.align {
			s.align = fa
		}
		size, ok := f.Size()
		if !ok {
			s.ok = false
			continue
		}
		offset = abi.AlignTo(offset, fa)
		offsets[i] = offset
		offset = mustAdd(offset, size)
	}
	if s.ok {
		s.size = abi.AlignTo(offset, s.align)
		s.offsets = offsets
	}
	return s
}

// variantShape places an 8-byte tag at offset 0 and a payload region rounded
// to the variant's own alignment, so the union member starts at the same
// offset whichever branch is selected.
func variantShape(components []Type) shape {
	tag := target.Default
	s := shape{align: tag.TagAlign(), ok: len(components) > 0}
	maxSize := 0
	for _, c := range components {
		if a := c.Align(); a > s.align {
			s.align = a
		}
		size, ok := c.Size()
		if !ok {
			s.ok = false
			continue
		}
		if size > maxSize {
			maxSize = size
		}
	}
	s.payload = abi.AlignTo(tag.TagWidth(), s.align)
	if s.ok {
		s.size = mustAdd(s.payload, abi.AlignTo(maxSize, s.align))
	}
	return s
}

func mustAdd(a, b int) int {
	sum, ok := abi.SafeAdd(a, b)
	if !ok {
		errors.Violation(errors.PhaseLayout, errors.KindContract, "composite size overflows int (%d + %d)", a, b)
	}
	return sum
}

// checkBuffer enforces the length contract of Store and Load. Address
// alignment is checked only in debug builds.
func checkBuffer(phase errors.Phase, buf []byte, size, align int) {
	if len(buf) < size {
		panic(errors.OutOfBounds(phase, nil, size, len(buf)))
	}
	if assert.Enabled && size > 0 {
		addr := uintptr(unsafe.Pointer(&buf[0]))
		if addr%uintptr(align) != 0 {
			panic(errors.Misaligned(phase, addr, align))
		}
	}
}
