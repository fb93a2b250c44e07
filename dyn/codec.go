package dyn

import (
	"unsafe"

	"github.com/wippyai/dyntype/errors"
	"github.com/wippyai/dyntype/internal/abi"
)

// NewBuffer returns a zeroed slice of size bytes whose first byte is aligned
// to align. An align below 1 means 1; any other align must be a power of two.
func NewBuffer(size, align int) []byte {
	if align < 1 {
		align = 1
	}
	if !abi.IsPowerOfTwo(align) {
		errors.Violation(errors.PhaseStore, errors.KindContract, "buffer alignment %d is not a power of two", align)
	}
	raw := make([]byte, size+align)
	off := 0
	if rem := int(uintptr(unsafe.Pointer(&raw[0])) % uintptr(align)); rem != 0 {
		off = align - rem
	}
	return raw[off : off+size : off+size]
}

// Encode stores inst into a new buffer of its type's size.
func Encode(inst Instance) ([]byte, error) {
	t := inst.Type()
	size, ok := t.Size()
	if !ok {
		return nil, errors.Unrepresentable(errors.PhaseStore, nil, t.Name())
	}
	buf := NewBuffer(size, t.Align())
	inst.Store(buf)
	return buf, nil
}

// Decode loads an instance of t from src. Short input and types without a
// layout are errors; a corrupt tag still panics. src need not be aligned.
func Decode(t Type, src []byte) (Instance, error) {
	size, ok := t.Size()
	if !ok {
		return nil, errors.Unrepresentable(errors.PhaseLoad, nil, t.Name())
	}
	if len(src) < size {
		return nil, errors.New(errors.PhaseLoad, errors.KindOutOfBounds).
			DeviceType(t.Name()).
			Value(len(src)).
			Detail("need %d bytes, have %d", size, len(src)).
			Build()
	}
	if size > 0 && uintptr(unsafe.Pointer(&src[0]))%uintptr(t.Align()) != 0 {
		buf := NewBuffer(size, t.Align())
		copy(buf, src)
		src = buf
	}
	return t.Load(src), nil
}
