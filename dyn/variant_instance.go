package dyn

import (
	"strconv"

	"github.com/wippyai/dyntype/errors"
	"github.com/wippyai/dyntype/sum"
)

// VariantInstance is a value of a Variant. It is either unset or holds
// exactly one component value together with its index. Changing branch
// requires Take first.
type VariantInstance struct {
	variant *Variant
	value   Instance
	sel     sum.Option[int]
}

func (v *VariantInstance) Type() Type { return v.variant }

func (v *VariantInstance) Variant() *Variant { return v.variant }

func (v *VariantInstance) IsSet() bool { return v.sel.IsSome() }

// Selected returns the selected index, false if unset.
func (v *VariantInstance) Selected() (int, bool) {
	if v.sel.IsNone() {
		return 0, false
	}
	return v.sel.Unwrap(), true
}

// Index returns the selected index. Panics when unset.
func (v *VariantInstance) Index() int {
	v.mustBeSet()
	return v.sel.Unwrap()
}

// Value returns the held value. Panics when unset.
func (v *VariantInstance) Value() Instance {
	v.mustBeSet()
	return v.value
}

// SetValue selects component i with value. The instance must be unset and the
// value's type must structurally equal component i.
func (v *VariantInstance) SetValue(i int, value Instance) {
	if i < 0 || i >= len(v.variant.components) {
		panic(errors.OutOfBounds(errors.PhaseBuild, nil, i, len(v.variant.components)))
	}
	if v.sel.IsSome() {
		errors.Violation(errors.PhaseBuild, errors.KindContract,
			"%s already holds component %d", v.variant.Name(), v.sel.Unwrap())
	}
	checkSameType(value.Type(), v.variant.components[i], "variant"+strconv.Itoa(i))
	v.sel = sum.Some(i)
	v.value = value
}

// Take moves the value out and leaves the instance unset.
func (v *VariantInstance) Take() Instance {
	v.mustBeSet()
	v.sel.Take()
	out := v.value
	v.value = nil
	return out
}

func (v *VariantInstance) mustBeSet() {
	if v.sel.IsNone() {
		errors.Violation(errors.PhaseBuild, errors.KindContract, "%s is unset", v.variant.Name())
	}
}

// Store writes the tag at offset 0 and the value at PayloadOffset. Unused
// payload bytes are zeroed.
func (v *VariantInstance) Store(dst []byte) {
	size := v.variant.checkStorable(errors.PhaseStore)
	checkBuffer(errors.PhaseStore, dst, size, v.variant.Align())
	if v.sel.IsNone() {
		errors.Violation(errors.PhaseStore, errors.KindContract, "store of unset %s", v.variant.Name())
	}

	clear(dst[:size])
	writeTag(dst, uint64(v.sel.Unwrap()))
	v.value.Store(dst[v.variant.shape.payload:])
}

// Load replaces the contents from src. It always ends set to the stored tag.
func (v *VariantInstance) Load(src []byte) {
	size := v.variant.checkStorable(errors.PhaseLoad)
	checkBuffer(errors.PhaseLoad, src, size, v.variant.Align())

	tag := readTag(src)
	if tag >= uint64(len(v.variant.components)) {
		panic(errors.InvalidDiscriminant(errors.PhaseLoad, nil, tag, len(v.variant.components)))
	}
	i := int(tag)
	v.value = v.variant.components[i].Load(src[v.variant.shape.payload:])
	v.sel = sum.Some(i)
}
