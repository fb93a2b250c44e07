package dyn

import (
	"strconv"

	"github.com/wippyai/dyntype/errors"
	"github.com/wippyai/dyntype/internal/ident"
)

// Tuple is a fixed-arity product laid out as a C struct.
type Tuple struct {
	fields []Type
	shape  shape
	id     uint64
}

// NewTuple builds a tuple over deep clones of fields.
func NewTuple(fields ...Type) *Tuple {
	t := &Tuple{fields: make([]Type, 0, len(fields))}
	for _, f := range fields {
		t.fields = append(t.fields, f.Clone())
	}
	t.refresh()
	return t
}

// Append adds a clone of f as the last field.
func (t *Tuple) Append(f Type) *Tuple {
	t.fields = append(t.fields, f.Clone())
	t.refresh()
	return t
}

func (t *Tuple) refresh() {
	ids := make([]uint64, len(t.fields))
	for i, f := range t.fields {
		ids[i] = f.ID()
	}
	t.id = ident.Combine("tuple", ids...)
	t.shape = tupleShape(t.fields)
}

func (t *Tuple) Kind() Kind        { return KindTuple }
func (t *Tuple) ID() uint64        { return t.id }
func (t *Tuple) Size() (int, bool) { return t.shape.Size() }
func (t *Tuple) Align() int        { return t.shape.align }
func (t *Tuple) Len() int          { return len(t.fields) }

func (t *Tuple) Name() string {
	return "Tuple" + strconv.FormatUint(t.id, 10)
}

// Field returns the i-th field. The tuple owns it; do not modify it.
func (t *Tuple) Field(i int) Type {
	return t.fields[i]
}

// Offsets returns the byte offset of every field, or nil when the tuple has
// no device layout.
func (t *Tuple) Offsets() []int {
	if !t.shape.ok {
		return nil
	}
	out := make([]int, len(t.shape.offsets))
	copy(out, t.shape.offsets)
	return out
}

func (t *Tuple) Source() string {
	d := newDefs()
	d.add(t)
	return d.String()
}

func (t *Tuple) Clone() Type {
	c := &Tuple{fields: make([]Type, len(t.fields)), id: t.id, shape: t.shape}
	for i, f := range t.fields {
		c.fields[i] = f.Clone()
	}
	return c
}

func (t *Tuple) sealed() {}

func (t *Tuple) checkStorable(phase errors.Phase) int {
	size, ok := t.Size()
	if !ok {
		panic(errors.Unrepresentable(phase, nil, t.Name()))
	}
	return size
}

// Instance returns a tuple value with no fields set.
func (t *Tuple) Instance() *TupleInstance {
	c := t.Clone().(*Tuple)
	return &TupleInstance{tuple: c, fields: make([]Instance, len(c.fields))}
}

func (t *Tuple) Load(src []byte) Instance {
	size := t.checkStorable(errors.PhaseLoad)
	checkBuffer(errors.PhaseLoad, src, size, t.Align())

	inst := t.Instance()
	for i, off := range inst.tuple.shape.offsets {
		inst.fields[i] = inst.tuple.fields[i].Load(src[off:])
	}
	return inst
}

// TupleInstance is a tuple value. Fields are set positionally.
type TupleInstance struct {
	tuple  *Tuple
	fields []Instance
}

func (v *TupleInstance) Type() Type { return v.tuple }

func (v *TupleInstance) Tuple() *Tuple { return v.tuple }

// Field returns the i-th value, nil if unset.
func (v *TupleInstance) Field(i int) Instance {
	return v.fields[i]
}

// SetField replaces the i-th value. The value's type must structurally equal
// the field type.
func (v *TupleInstance) SetField(i int, value Instance) {
	if i < 0 || i >= len(v.fields) {
		panic(errors.OutOfBounds(errors.PhaseBuild, nil, i, len(v.fields)))
	}
	checkSameType(value.Type(), v.tuple.fields[i], "field"+strconv.Itoa(i))
	v.fields[i] = value
}

// Store writes every field at its offset and zeroes padding.
func (v *TupleInstance) Store(dst []byte) {
	size := v.tuple.checkStorable(errors.PhaseStore)
	checkBuffer(errors.PhaseStore, dst, size, v.tuple.Align())

	clear(dst[:size])
	for i, off := range v.tuple.shape.offsets {
		if v.fields[i] == nil {
			errors.Violation(errors.PhaseStore, errors.KindContract, "field %d of %s is unset", i, v.tuple.Name())
		}
		v.fields[i].Store(dst[off:])
	}
}
