package dyn

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/wippyai/dyntype/errors"
	"github.com/wippyai/dyntype/target"
)

func intDouble(t *testing.T) (*Variant, *Leaf, *Leaf) {
	i32 := leaf(t, "int")
	f64 := leaf(t, "double")
	return NewVariant(i32, f64), i32, f64
}

// shapeVariant is variant<int, double, tuple<real3, real>>.
func shapeVariant(t *testing.T) *Variant {
	return NewVariant(leaf(t, "int"), leaf(t, "double"), NewTuple(leaf(t, "real3"), leaf(t, "real")))
}

func TestVariant_IntDouble(t *testing.T) {
	v, i32, f64 := intDouble(t)

	size, ok := v.Size()
	if !ok || size != 16 {
		t.Fatalf("Size() = %d, %v, want 16", size, ok)
	}
	if v.Align() != 8 || v.PayloadOffset() != 8 {
		t.Fatalf("Align() = %d, PayloadOffset() = %d, want 8, 8", v.Align(), v.PayloadOffset())
	}

	inst := v.Instance()
	inst.SetValue(0, i32.NewInt(42))
	buf := NewBuffer(16, 8)
	inst.Store(buf)
	if buf[0] != 0 || buf[8] != 42 {
		t.Errorf("buf = %x", buf)
	}

	back := v.Load(buf).(*VariantInstance)
	if back.Index() != 0 {
		t.Errorf("Index() = %d, want 0", back.Index())
	}
	if got := back.Value().(*LeafInstance).Int(); got != 42 {
		t.Errorf("payload = %d, want 42", got)
	}

	inst = v.Instance()
	inst.SetValue(1, f64.NewFloat(3.5))
	inst.Store(buf)
	if buf[0] != 1 {
		t.Errorf("tag byte = %d, want 1", buf[0])
	}
	back = v.Load(buf).(*VariantInstance)
	if back.Index() != 1 {
		t.Errorf("Index() = %d, want 1", back.Index())
	}
	if got := back.Value().(*LeafInstance).Float(); got != 3.5 {
		t.Errorf("payload = %v, want 3.5", got)
	}
}

func TestVariant_Determinism(t *testing.T) {
	a, _, _ := intDouble(t)
	b := NewVariant()
	b.Append(leaf(t, "int")).Append(leaf(t, "double"))

	if a.ID() != b.ID() {
		t.Error("independently built variants should share identity")
	}
	sa, _ := a.Size()
	sb, _ := b.Size()
	if sa != sb || a.Align() != b.Align() {
		t.Error("independently built variants should share layout")
	}
	if !Equal(a, b) {
		t.Error("Equal() = false")
	}
	if Digest(a) != Digest(b) {
		t.Error("Digest() differs")
	}
}

func TestVariant_OrderSensitivity(t *testing.T) {
	v, i32, f64 := intDouble(t)
	swapped := NewVariant(f64, i32)

	if v.ID() == swapped.ID() {
		t.Fatal("swapping components should change identity")
	}
	if Equal(v, swapped) || Digest(v) == Digest(swapped) {
		t.Fatal("swapped variants should differ structurally")
	}

	inst := v.Instance()
	inst.SetValue(0, i32.NewInt(7))
	buf, err := Encode(inst)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back := swapped.Load(buf).(*VariantInstance)
	if !Equal(back.Value().Type(), f64) {
		t.Errorf("tag 0 of the swapped variant should decode as double, got %s", back.Value().Type().Name())
	}
}

func TestVariant_LayoutBound(t *testing.T) {
	tests := []struct {
		name       string
		components []string
		size       int
		align      int
	}{
		{"single char", []string{"char"}, 16, 8},
		{"int double", []string{"int", "double"}, 16, 8},
		{"wide vector", []string{"char", "float4"}, 32, 16},
		{"big vector", []string{"long16"}, 256, 128},
		{"odd payload", []string{"char3"}, 16, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVariant()
			maxSize := 0
			for _, c := range tt.components {
				l := leaf(t, c)
				v.Append(l)
				if s, _ := l.Size(); s > maxSize {
					maxSize = s
				}
			}
			size, ok := v.Size()
			if !ok || size != tt.size || v.Align() != tt.align {
				t.Fatalf("layout = %d/%d, want %d/%d", size, v.Align(), tt.size, tt.align)
			}
			round := func(n int) int { return (n + v.Align() - 1) / v.Align() * v.Align() }
			if size < round(8)+round(maxSize) {
				t.Errorf("Size() = %d below bound", size)
			}
		})
	}
}

func TestVariant_Nested(t *testing.T) {
	shape := shapeVariant(t)
	size, ok := shape.Size()
	if !ok || size != 96 || shape.Align() != 32 || shape.PayloadOffset() != 32 {
		t.Fatalf("layout = %d/%d/%d, want 96/32/32", size, shape.Align(), shape.PayloadOffset())
	}

	body := NewTuple(leaf(t, "real3"), leaf(t, "real")).Instance()
	body.SetField(0, leaf(t, "real3").NewVector(1, 2, 3))
	body.SetField(1, leaf(t, "real").NewFloat(4))
	shapeInst := shape.Instance()
	shapeInst.SetValue(2, body)

	pair := NewTuple(shape, leaf(t, "int"))
	pairInst := pair.Instance()
	pairInst.SetField(0, shapeInst)
	pairInst.SetField(1, leaf(t, "int").NewInt(-7))

	outer := NewVariant(NewTuple(), shape, pair)
	inst := outer.Instance()
	inst.SetValue(2, pairInst)

	buf, err := Encode(inst)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := Decode(outer, buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !EqualInstances(inst, back) {
		t.Error("nested round trip changed the value")
	}
	if back.Type().ID() != outer.ID() {
		t.Error("decoded instance must carry the outer identity")
	}

	unit := outer.Instance()
	unit.SetValue(0, NewTuple().Instance())
	buf, err = Encode(unit)
	if err != nil {
		t.Fatalf("Encode unit: %v", err)
	}
	back, err = Decode(outer, buf)
	if err != nil {
		t.Fatalf("Decode unit: %v", err)
	}
	if back.(*VariantInstance).Index() != 0 {
		t.Error("unit branch should decode to index 0")
	}
}

func TestVariant_RejectsMismatch(t *testing.T) {
	v, i32, f64 := intDouble(t)

	expectPanic(t, errors.KindTypeMismatch, func() {
		v.Instance().SetValue(0, f64.NewFloat(1))
	})
	expectPanic(t, errors.KindOutOfBounds, func() {
		v.Instance().SetValue(2, i32.NewInt(1))
	})
	expectPanic(t, errors.KindContract, func() {
		inst := v.Instance()
		inst.SetValue(0, i32.NewInt(1))
		inst.SetValue(0, i32.NewInt(2))
	})
}

func TestVariant_CorruptTag(t *testing.T) {
	v, _, _ := intDouble(t)
	buf := NewBuffer(16, 8)
	buf[0] = 2

	expectPanic(t, errors.KindInvalidVariant, func() { v.Load(buf) })
	expectPanic(t, errors.KindInvalidVariant, func() { _, _ = Decode(v, buf) })
}

func TestVariantInstance_States(t *testing.T) {
	v, i32, f64 := intDouble(t)
	inst := v.Instance()

	if inst.IsSet() {
		t.Fatal("new instance should be unset")
	}
	if _, ok := inst.Selected(); ok {
		t.Fatal("Selected() should report false when unset")
	}
	expectPanic(t, errors.KindContract, func() { inst.Index() })
	expectPanic(t, errors.KindContract, func() { inst.Take() })
	expectPanic(t, errors.KindContract, func() { inst.Store(NewBuffer(16, 8)) })

	inst.SetValue(1, f64.NewFloat(2))
	if i, ok := inst.Selected(); !ok || i != 1 {
		t.Fatalf("Selected() = %d, %v", i, ok)
	}
	if inst.Type().ID() != v.ID() {
		t.Error("instance identity must match its descriptor")
	}

	out := inst.Take()
	if out.(*LeafInstance).Float() != 2 {
		t.Errorf("Take() = %v", out)
	}
	if inst.IsSet() {
		t.Error("instance should be unset after Take")
	}

	inst.SetValue(0, i32.NewInt(5))
	buf := NewBuffer(16, 8)
	inst.Store(buf)

	other := v.Instance()
	other.Load(buf)
	if other.Index() != 0 || !EqualInstances(inst, other) {
		t.Error("Load should leave the instance set to the stored branch")
	}
}

func TestVariant_InstanceOutlivesDescriptor(t *testing.T) {
	v, i32, _ := intDouble(t)
	inst := v.Instance()
	v.Append(leaf(t, "char"))

	if inst.Variant().Len() != 2 {
		t.Error("instance must keep its own component list")
	}
	inst.SetValue(0, i32.NewInt(1))
	if inst.Type().ID() == v.ID() {
		t.Error("appending to the descriptor must not change existing instances")
	}
}

func TestVariant_Unrepresentable(t *testing.T) {
	single := target.Target{Precision: target.Single, AddressBits: 64}

	tests := []struct {
		name string
		v    *Variant
	}{
		{"empty", NewVariant()},
		{"bool component", NewVariant(leaf(t, "int"), leaf(t, "bool"))},
		{"double without fp64", NewVariant(NewLeaf(F64, 1, single))},
		{"nested", NewVariant(NewTuple(leaf(t, "bool")))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := tt.v.Size(); ok {
				t.Fatal("Size() should be absent")
			}
			_, err := Decode(tt.v, make([]byte, 64))
			e, ok := err.(*errors.Error)
			if !ok || e.Kind != errors.KindUnrepresentable {
				t.Errorf("Decode error = %v, want unrepresentable", err)
			}
		})
	}
}

func TestDecode_Bounds(t *testing.T) {
	v, i32, _ := intDouble(t)
	_, err := Decode(v, make([]byte, 8))
	e, ok := err.(*errors.Error)
	if !ok || e.Kind != errors.KindOutOfBounds || e.Phase != errors.PhaseLoad {
		t.Fatalf("Decode short error = %v", err)
	}

	inst := v.Instance()
	inst.SetValue(0, i32.NewInt(99))
	enc, err := Encode(inst)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	shifted := NewBuffer(17, 8)[1:]
	copy(shifted, enc)
	back, err := Decode(v, shifted)
	if err != nil {
		t.Fatalf("Decode unaligned: %v", err)
	}
	if !EqualInstances(inst, back) {
		t.Error("unaligned decode changed the value")
	}
}

func TestVariant_SourceStable(t *testing.T) {
	a := shapeVariant(t)
	b := a.Clone()
	c := shapeVariant(t)
	if a.Source() != b.Source() || a.Source() != c.Source() {
		t.Error("Source() should be byte identical for equal descriptors")
	}
	if a.Name() != c.Name() {
		t.Error("Name() should be derived from identity")
	}
}

func TestVariant_SourceGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	flat, _, _ := intDouble(t)
	g.Assert(t, "variant_flat", []byte(flat.Source()))

	names := []string{"as_int", "as_double"}
	g.Assert(t, "variant_named", []byte(flat.SourceWithNames(func(i int) string { return names[i] })))

	shape := shapeVariant(t)
	nested := NewVariant(NewTuple(), shape, NewTuple(shape, leaf(t, "int")))
	g.Assert(t, "variant_nested", []byte(nested.Source()))
}

func TestDefinitions_Dedup(t *testing.T) {
	shape := shapeVariant(t)
	nested := NewVariant(NewTuple(), shape, NewTuple(shape, leaf(t, "int")))

	defs := Definitions(nested, shape)
	if len(defs) != 5 {
		t.Fatalf("len(Definitions) = %d, want 5", len(defs))
	}
	if defs[len(defs)-1].Name != nested.Name() {
		t.Error("root should be defined after its dependencies")
	}
	seen := map[string]bool{}
	for _, d := range defs {
		if seen[d.Name] {
			t.Errorf("%s defined twice", d.Name)
		}
		seen[d.Name] = true
	}
}

func TestDescribe(t *testing.T) {
	got := Describe(NewVariant(NewTuple(), shapeVariant(t)))
	want := "variant<tuple<>, variant<int, double, tuple<real3, real>>>"
	if got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
	if len(Children(shapeVariant(t))) != 3 || Children(leaf(t, "int")) != nil {
		t.Error("Children() mismatch")
	}
}

func TestDigest_TargetSensitive(t *testing.T) {
	single := target.Target{Precision: target.Single, AddressBits: 64}
	a := NewVariant(NewLeaf(Real, 1, tgt))
	b := NewVariant(NewLeaf(Real, 1, single))
	if Digest(a) == Digest(b) {
		t.Error("real under different precisions should digest differently")
	}
	if Equal(a, b) {
		t.Error("real under different precisions should not be equal")
	}
}
