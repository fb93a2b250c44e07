package abi

import (
	"math"
	"reflect"
)

// AlignTo rounds offset up to the next multiple of align.
// align must be a power of two; zero leaves offset unchanged.
func AlignTo(offset, align int) int {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func SafeAdd(a, b int) (int, bool) {
	if a < 0 || b < 0 || a > math.MaxInt-b {
		return 0, false
	}
	return a + b, true
}

func SafeMul(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if b != 0 && a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// TypeName returns "nil" for nil values, avoiding reflect.TypeOf(nil) panic.
func TypeName(value any) string {
	if value == nil {
		return "nil"
	}
	return reflect.TypeOf(value).String()
}

const (
	CanonicalNaN32 = 0x7fc00000
	CanonicalNaN64 = 0x7ff8000000000000
)

// CanonicalizeF32 returns canonical NaN for any NaN input.
func CanonicalizeF32(bits uint32) uint32 {
	f := math.Float32frombits(bits)
	if f != f {
		return CanonicalNaN32
	}
	return bits
}

// CanonicalizeF64 returns canonical NaN for any NaN input.
func CanonicalizeF64(bits uint64) uint64 {
	f := math.Float64frombits(bits)
	if f != f {
		return CanonicalNaN64
	}
	return bits
}
