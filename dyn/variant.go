package dyn

import (
	"strconv"

	"github.com/wippyai/dyntype/errors"
	"github.com/wippyai/dyntype/internal/abi"
	"github.com/wippyai/dyntype/internal/ident"
	"github.com/wippyai/dyntype/target"
)

// Variant is a dynamic sum type: a tag selecting one of an ordered list of
// components. Component order defines the tag values and the identity.
//
// Device layout:
//
//	typedef struct {
//	    ulong index;
//	    union { T0 variant0; ... } variants;
//	} VariantN;
type Variant struct {
	components []Type
	shape      shape
	id         uint64
}

// NewVariant builds a variant over deep clones of components.
func NewVariant(components ...Type) *Variant {
	v := &Variant{components: make([]Type, 0, len(components))}
	for _, c := range components {
		v.components = append(v.components, c.Clone())
	}
	v.refresh()
	return v
}

// Append adds a clone of c as the last component.
func (v *Variant) Append(c Type) *Variant {
	v.components = append(v.components, c.Clone())
	v.refresh()
	return v
}

func (v *Variant) refresh() {
	ids := make([]uint64, len(v.components))
	for i, c := range v.components {
		ids[i] = c.ID()
	}
	v.id = ident.Combine("variant", ids...)
	v.shape = variantShape(v.components)
}

func (v *Variant) Kind() Kind { return KindVariant }
func (v *Variant) ID() uint64 { return v.id }

// Size is the aligned tag plus the largest component rounded to Align. It is
// absent when any component is absent or there are no components.
func (v *Variant) Size() (int, bool) { return v.shape.Size() }

// Align is the larger of the tag alignment and every component alignment.
func (v *Variant) Align() int { return v.shape.align }

// PayloadOffset is where the selected component is stored.
func (v *Variant) PayloadOffset() int { return v.shape.payload }

func (v *Variant) Len() int { return len(v.components) }

// Component returns the i-th component. The variant owns it; do not modify it.
func (v *Variant) Component(i int) Type {
	return v.components[i]
}

func (v *Variant) Name() string {
	return "Variant" + strconv.FormatUint(v.id, 10)
}

func (v *Variant) Source() string {
	return v.SourceWithNames(defaultFieldName)
}

// SourceWithNames is Source with caller-chosen union member names.
func (v *Variant) SourceWithNames(fieldName func(i int) string) string {
	d := newDefs()
	d.addAll(v.components)
	d.define(v.Name(), func() string { return variantSource(v, fieldName) })
	return d.String()
}

func (v *Variant) Clone() Type {
	c := &Variant{components: make([]Type, len(v.components)), id: v.id, shape: v.shape}
	for i, t := range v.components {
		c.components[i] = t.Clone()
	}
	return c
}

func (v *Variant) sealed() {}

func (v *Variant) checkStorable(phase errors.Phase) int {
	size, ok := v.Size()
	if !ok {
		panic(errors.Unrepresentable(phase, nil, v.Name()))
	}
	return size
}

// Instance returns an unset instance holding its own copy of the components.
func (v *Variant) Instance() *VariantInstance {
	return &VariantInstance{variant: v.Clone().(*Variant)}
}

// Load reads the tag and dispatches to the selected component. A tag outside
// the component range is a broken invariant and panics.
func (v *Variant) Load(src []byte) Instance {
	inst := v.Instance()
	inst.Load(src)
	return inst
}

// The tag is a little-endian device ulong at offset 0.
func readTag(src []byte) uint64 {
	return abi.Lane(src, target.Default.TagWidth())
}

func writeTag(dst []byte, tag uint64) {
	abi.PutLane(dst, target.Default.TagWidth(), tag)
}
