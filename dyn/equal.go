package dyn

import (
	"github.com/wippyai/dyntype/errors"
)

// Equal reports structural equality of two descriptors.
func Equal(a, b Type) bool {
	switch x := a.(type) {
	case *Leaf:
		y, ok := b.(*Leaf)
		if !ok || x.code != y.code || x.lanes != y.lanes {
			return false
		}
		switch x.code {
		case Real, F64:
			return x.tgt.Precision == y.tgt.Precision
		case SizeT:
			return x.tgt.AddressBits == y.tgt.AddressBits
		}
		return true
	case *Tuple:
		y, ok := b.(*Tuple)
		return ok && equalAll(x.fields, y.fields)
	case *Variant:
		y, ok := b.(*Variant)
		return ok && equalAll(x.components, y.components)
	default:
		return false
	}
}

func equalAll(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// checkSameType panics unless got structurally equals want. Differing
// identities reject without a structural walk.
func checkSameType(got, want Type, path string) {
	if got.ID() == want.ID() && Equal(got, want) {
		return
	}
	panic(errors.TypeMismatch(errors.PhaseBuild, []string{path}, Describe(got), Describe(want)))
}

// EqualInstances reports whether two values have equal types, the same
// selected branch at every level and identical payload bits.
func EqualInstances(a, b Instance) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !Equal(a.Type(), b.Type()) {
		return false
	}
	switch x := a.(type) {
	case *LeafInstance:
		y := b.(*LeafInstance)
		return x.bits == y.bits
	case *TupleInstance:
		y := b.(*TupleInstance)
		for i := range x.fields {
			if !EqualInstances(x.fields[i], y.fields[i]) {
				return false
			}
		}
		return true
	case *VariantInstance:
		y := b.(*VariantInstance)
		xi, xok := x.Selected()
		yi, yok := y.Selected()
		if xok != yok || xi != yi {
			return false
		}
		return !xok || EqualInstances(x.value, y.value)
	default:
		return false
	}
}
