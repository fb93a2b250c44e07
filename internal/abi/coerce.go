package abi

import "math"

// CoerceToInt64 handles decoded document numbers (float64) and other numeric types.
func CoerceToInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		if v <= math.MaxInt64 {
			return int64(v), true
		}
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v), true
		}
	case float64:
		if v >= float64(math.MinInt64) && v < float64(math.MaxInt64) && v == float64(int64(v)) {
			return int64(v), true
		}
	case float32:
		if v >= float32(math.MinInt64) && v < float32(math.MaxInt64) && v == float32(int64(v)) {
			return int64(v), true
		}
	}
	return 0, false
}

func CoerceToUint64(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint:
		return uint64(v), true
	case int8:
		if v >= 0 {
			return uint64(v), true
		}
	case int16:
		if v >= 0 {
			return uint64(v), true
		}
	case int32:
		if v >= 0 {
			return uint64(v), true
		}
	case int:
		if v >= 0 {
			return uint64(v), true
		}
	case int64:
		if v >= 0 {
			return uint64(v), true
		}
	case float64:
		if v >= 0 && v < float64(math.MaxUint64) && v == float64(uint64(v)) {
			return uint64(v), true
		}
	case float32:
		if v >= 0 && float64(v) < float64(math.MaxUint64) && v == float32(uint64(v)) {
			return uint64(v), true
		}
	}
	return 0, false
}

// CoerceToFloat64 accepts any numeric value; integers wider than 53 bits may round.
func CoerceToFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}

// FitsSigned reports whether v is representable in width bytes as a signed integer.
func FitsSigned(v int64, width int) bool {
	if width >= 8 {
		return true
	}
	limit := int64(1) << (8*width - 1)
	return v >= -limit && v < limit
}

// FitsUnsigned reports whether v is representable in width bytes as an unsigned integer.
func FitsUnsigned(v uint64, width int) bool {
	if width >= 8 {
		return true
	}
	return v < uint64(1)<<(8*width)
}
