package dyn

import (
	"math"

	"github.com/wippyai/dyntype/errors"
	"github.com/wippyai/dyntype/internal/abi"
)

const maxLanes = 16

// LeafInstance is a scalar or vector value. Lanes hold raw 64-bit patterns:
// two's complement for integers, IEEE double bits for floats.
type LeafInstance struct {
	leaf *Leaf
	bits [maxLanes]uint64
}

// FromValues builds an instance from host numbers. A single value is
// broadcast to every lane; otherwise one value per lane is required.
// Integer leaves reject values that do not fit their width.
func (l *Leaf) FromValues(values ...any) (*LeafInstance, error) {
	if len(values) != 1 && len(values) != l.lanes {
		return nil, errors.New(errors.PhaseBuild, errors.KindInvalidInput).
			DeviceType(l.Name()).
			Detail("expected 1 or %d values, got %d", l.lanes, len(values)).
			Build()
	}
	inst := &LeafInstance{leaf: l}
	for i := 0; i < l.lanes; i++ {
		v := values[0]
		if len(values) > 1 {
			v = values[i]
		}
		bits, err := l.coerce(v)
		if err != nil {
			return nil, err
		}
		inst.bits[i] = l.normalize(bits)
	}
	return inst, nil
}

func (l *Leaf) coerce(v any) (uint64, error) {
	mismatch := func() error {
		return errors.TypeMismatch(errors.PhaseBuild, nil, abi.TypeName(v), l.Name())
	}
	switch {
	case l.code == Bool:
		if b, ok := v.(bool); ok {
			return boolBits(b), nil
		}
		n, ok := abi.CoerceToInt64(v)
		if !ok {
			return 0, mismatch()
		}
		return boolBits(n != 0), nil
	case l.code.IsFloat():
		f, ok := abi.CoerceToFloat64(v)
		if !ok {
			return 0, mismatch()
		}
		return math.Float64bits(f), nil
	case l.code.IsSigned():
		n, ok := abi.CoerceToInt64(v)
		if !ok {
			return 0, mismatch()
		}
		if !abi.FitsSigned(n, l.width) {
			return 0, errors.New(errors.PhaseBuild, errors.KindInvalidData).
				Value(n).
				DeviceType(l.Name()).
				Detail("%d overflows %s", n, l.Name()).
				Build()
		}
		return uint64(n), nil
	default:
		n, ok := abi.CoerceToUint64(v)
		if !ok {
			return 0, mismatch()
		}
		if l.width < 8 && !abi.FitsUnsigned(n, l.width) {
			return 0, errors.New(errors.PhaseBuild, errors.KindInvalidData).
				Value(n).
				DeviceType(l.Name()).
				Detail("%d overflows %s", n, l.Name()).
				Build()
		}
		return n, nil
	}
}

func (v *LeafInstance) Type() Type { return v.leaf }

func (v *LeafInstance) Leaf() *Leaf { return v.leaf }

// Int is lane 0 as a signed integer.
func (v *LeafInstance) Int() int64 {
	if v.leaf.code.IsFloat() {
		return int64(math.Float64frombits(v.bits[0]))
	}
	return int64(v.bits[0])
}

// Uint is lane 0 as an unsigned integer.
func (v *LeafInstance) Uint() uint64 {
	if v.leaf.code.IsFloat() {
		return uint64(math.Float64frombits(v.bits[0]))
	}
	return v.bits[0]
}

// Float is lane 0 as a float.
func (v *LeafInstance) Float() float64 {
	return v.lane(0)
}

// Lanes returns every lane as a float.
func (v *LeafInstance) Lanes() []float64 {
	out := make([]float64, v.leaf.lanes)
	for i := range out {
		out[i] = v.lane(i)
	}
	return out
}

// Bits returns the raw lane patterns.
func (v *LeafInstance) Bits() []uint64 {
	out := make([]uint64, v.leaf.lanes)
	copy(out, v.bits[:v.leaf.lanes])
	return out
}

func (v *LeafInstance) lane(i int) float64 {
	switch {
	case v.leaf.code.IsFloat():
		return math.Float64frombits(v.bits[i])
	case v.leaf.code.IsSigned():
		return float64(int64(v.bits[i]))
	default:
		return float64(v.bits[i])
	}
}

// Store writes each lane little-endian. The padding lane of a 3-lane vector
// is zeroed.
func (v *LeafInstance) Store(dst []byte) {
	l := v.leaf
	l.checkStorable(errors.PhaseStore)
	size, _ := l.Size()
	checkBuffer(errors.PhaseStore, dst, size, l.Align())

	for i := 0; i < storageLanes(l.lanes); i++ {
		l.encodeLane(dst[i*l.width:], v.bits[i])
	}
}
