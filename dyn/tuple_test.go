package dyn

import (
	"math"
	"testing"
	"unsafe"

	"github.com/wippyai/dyntype/errors"
)

func TestTuple_Layout(t *testing.T) {
	tests := []struct {
		name    string
		fields  []string
		offsets []int
		size    int
		align   int
	}{
		{"empty", nil, []int{}, 0, 1},
		{"padded middle", []string{"char", "int", "short"}, []int{0, 4, 8}, 12, 4},
		{"tail padding", []string{"double", "char"}, []int{0, 8}, 16, 8},
		{"vector align", []string{"float3", "float"}, []int{0, 16}, 32, 16},
		{"packed", []string{"uchar", "uchar", "ushort"}, []int{0, 1, 2}, 4, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := make([]Type, len(tt.fields))
			for i, f := range tt.fields {
				fields[i] = leaf(t, f)
			}
			tup := NewTuple(fields...)

			size, ok := tup.Size()
			if !ok || size != tt.size {
				t.Errorf("Size() = %d, %v, want %d", size, ok, tt.size)
			}
			if tup.Align() != tt.align {
				t.Errorf("Align() = %d, want %d", tup.Align(), tt.align)
			}
			offsets := tup.Offsets()
			if len(offsets) != len(tt.offsets) {
				t.Fatalf("Offsets() = %v, want %v", offsets, tt.offsets)
			}
			for i := range offsets {
				if offsets[i] != tt.offsets[i] {
					t.Errorf("Offsets() = %v, want %v", offsets, tt.offsets)
					break
				}
			}
		})
	}
}

func TestTuple_Unstorable(t *testing.T) {
	tup := NewTuple(leaf(t, "int"), leaf(t, "bool"))
	if _, ok := tup.Size(); ok {
		t.Error("tuple with a bool field should have no size")
	}
	if tup.Offsets() != nil {
		t.Error("Offsets() should be nil without a layout")
	}
}

func TestTuple_Source(t *testing.T) {
	tup := NewTuple(leaf(t, "int"), leaf(t, "float2"))
	want := "typedef struct {\n" +
		"    int field0;\n" +
		"    float2 field1;\n" +
		"} " + tup.Name() + ";\n"
	if got := tup.Source(); got != want {
		t.Errorf("Source() =\n%s\nwant\n%s", got, want)
	}

	unit := NewTuple()
	if got := unit.Source(); got != "typedef struct {} "+unit.Name()+";\n" {
		t.Errorf("empty Source() = %q", got)
	}
}

func TestTuple_Append(t *testing.T) {
	a := NewTuple(leaf(t, "int"))
	b := NewTuple()
	b.Append(leaf(t, "int"))
	if a.ID() != b.ID() {
		t.Error("Append should produce the same identity as NewTuple")
	}
	c := a.Clone().(*Tuple)
	c.Append(leaf(t, "char"))
	if a.Len() != 1 || a.ID() == c.ID() {
		t.Error("Append on a clone must not affect the original")
	}
}

func TestTupleInstance_RoundTrip(t *testing.T) {
	tup := NewTuple(leaf(t, "char"), leaf(t, "double"), leaf(t, "int2"))
	inst := tup.Instance()
	inst.SetField(0, leaf(t, "char").NewInt(-5))
	inst.SetField(1, leaf(t, "double").NewFloat(2.25))
	inst.SetField(2, leaf(t, "int2").NewVector(7, 8))

	buf, err := Encode(inst)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(buf) != 24 {
		t.Fatalf("len(buf) = %d, want 24", len(buf))
	}
	back := tup.Load(buf).(*TupleInstance)
	if !EqualInstances(inst, back) {
		t.Error("round trip changed the tuple")
	}
	if got := back.Field(1).(*LeafInstance).Float(); got != 2.25 {
		t.Errorf("field1 = %v, want 2.25", got)
	}
	if back.Type().ID() != tup.ID() {
		t.Error("loaded instance must carry the tuple identity")
	}
}

func TestTupleInstance_Contracts(t *testing.T) {
	tup := NewTuple(leaf(t, "int"), leaf(t, "float"))
	inst := tup.Instance()

	expectPanic(t, errors.KindTypeMismatch, func() {
		inst.SetField(0, leaf(t, "float").NewFloat(1))
	})
	expectPanic(t, errors.KindOutOfBounds, func() {
		inst.SetField(2, leaf(t, "int").NewInt(1))
	})

	inst.SetField(0, leaf(t, "int").NewInt(1))
	expectPanic(t, errors.KindContract, func() {
		inst.Store(NewBuffer(8, 4))
	})
	expectPanic(t, errors.KindOutOfBounds, func() {
		inst.SetField(1, leaf(t, "float").NewFloat(1))
		inst.Store(make([]byte, 4))
	})
}

func TestNewBuffer_Alignment(t *testing.T) {
	for _, align := range []int{0, 1, 8, 32, 128} {
		buf := NewBuffer(24, align)
		if len(buf) != 24 || cap(buf) != 24 {
			t.Errorf("NewBuffer(24, %d): len %d cap %d", align, len(buf), cap(buf))
		}
		if align > 0 && uintptr(unsafe.Pointer(&buf[0]))%uintptr(align) != 0 {
			t.Errorf("NewBuffer(24, %d) is misaligned", align)
		}
	}
	expectPanic(t, errors.KindContract, func() { NewBuffer(24, 12) })
}

func TestShape_SizeOverflow(t *testing.T) {
	if got := mustAdd(40, 24); got != 64 {
		t.Errorf("mustAdd(40, 24) = %d", got)
	}
	expectPanic(t, errors.KindContract, func() { mustAdd(math.MaxInt, 1) })
}
