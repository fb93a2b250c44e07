package abi

import (
	"encoding/binary"

	"github.com/wippyai/dyntype/errors"
)

// PutLane writes the low width bytes of v at dst[0:width], little-endian.
// width must be 1, 2, 4 or 8.
func PutLane(dst []byte, width int, v uint64) {
	switch width {
	case 1:
		dst[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(dst, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(dst, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(dst, v)
	default:
		errors.Violation(errors.PhaseStore, errors.KindContract, "invalid lane width %d", width)
	}
}

// Lane reads a width-byte little-endian value from src, zero-extended.
func Lane(src []byte, width int) uint64 {
	switch width {
	case 1:
		return uint64(src[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(src))
	case 4:
		return uint64(binary.LittleEndian.Uint32(src))
	case 8:
		return binary.LittleEndian.Uint64(src)
	default:
		errors.Violation(errors.PhaseLoad, errors.KindContract, "invalid lane width %d", width)
		return 0
	}
}

// SignExtend interprets the low width bytes of v as a two's complement value.
func SignExtend(v uint64, width int) int64 {
	shift := uint(64 - 8*width)
	return int64(v<<shift) >> shift
}
