package dyn

import (
	"math"
	"strconv"
	"strings"

	"github.com/wippyai/dyntype/errors"
	"github.com/wippyai/dyntype/internal/abi"
	"github.com/wippyai/dyntype/internal/ident"
	"github.com/wippyai/dyntype/target"
)

// Scalar is the element type of a leaf.
type Scalar uint8

const (
	I8 Scalar = iota
	U8
	I16
	U16
	I32
	U32
	I64
	U64
	F32
	F64
	Real // float or double, per target precision
	Bool
	SizeT // 32 or 64 bits, per target address width
)

var scalarNames = [...]string{
	I8:    "char",
	U8:    "uchar",
	I16:   "short",
	U16:   "ushort",
	I32:   "int",
	U32:   "uint",
	I64:   "long",
	U64:   "ulong",
	F32:   "float",
	F64:   "double",
	Real:  "real",
	Bool:  "bool",
	SizeT: "size_t",
}

func (s Scalar) String() string {
	if int(s) < len(scalarNames) {
		return scalarNames[s]
	}
	return "scalar(" + strconv.Itoa(int(s)) + ")"
}

func (s Scalar) valid() bool { return int(s) < len(scalarNames) }

func (s Scalar) IsFloat() bool { return s == F32 || s == F64 || s == Real }

func (s Scalar) IsSigned() bool {
	switch s {
	case I8, I16, I32, I64:
		return true
	}
	return false
}

// width is the byte width of one lane, false when the device cannot store it.
func (s Scalar) width(t target.Target) (int, bool) {
	switch s {
	case I8, U8:
		return 1, true
	case I16, U16:
		return 2, true
	case I32, U32, F32:
		return 4, true
	case I64, U64:
		return 8, true
	case F64:
		return 8, t.HasDouble()
	case Real:
		return t.Precision.RealSize(), true
	case SizeT:
		return t.AddressSize(), true
	default:
		return 0, false
	}
}

// vectorLanes reports whether n is a valid lane count.
func vectorLanes(n int) bool {
	switch n {
	case 1, 2, 3, 4, 8, 16:
		return true
	}
	return false
}

// storageLanes is the number of lanes a vector occupies in memory.
func storageLanes(n int) int {
	if n == 3 {
		return 4
	}
	return n
}

// Leaf is a built-in device scalar or vector type.
type Leaf struct {
	tgt   target.Target
	id    uint64
	width int
	code  Scalar
	lanes int
	ok    bool
}

// NewLeaf describes a scalar (lanes == 1) or vector of code for tgt.
// Lanes must be 1, 2, 3, 4, 8 or 16; bool and size_t have no vector form.
func NewLeaf(code Scalar, lanes int, tgt target.Target) *Leaf {
	if !code.valid() {
		errors.Violation(errors.PhaseBuild, errors.KindContract, "unknown scalar %d", code)
	}
	if err := tgt.Validate(); err != nil {
		errors.New(errors.PhaseBuild, errors.KindContract).
			Cause(err).
			Detail("%s built for invalid target %s", code, tgt).
			Panic()
	}
	if !vectorLanes(lanes) || (lanes > 1 && (code == Bool || code == SizeT)) {
		errors.Violation(errors.PhaseBuild, errors.KindContract, "invalid lane count %d for %s", lanes, code)
	}
	l := &Leaf{code: code, lanes: lanes, tgt: tgt}
	l.width, l.ok = code.width(tgt)

	h := ident.New("leaf")
	h.WriteUint64(uint64(code))
	h.WriteUint64(uint64(lanes))
	switch code {
	case Real, F64:
		h.WriteUint64(uint64(tgt.Precision))
	case SizeT:
		h.WriteUint64(uint64(tgt.AddressBits))
	}
	l.id = h.Sum()
	return l
}

// ParseLeaf resolves a device type name such as "int", "float4" or "real3".
func ParseLeaf(name string, tgt target.Target) (*Leaf, error) {
	base := strings.TrimRightFunc(name, func(r rune) bool { return r >= '0' && r <= '9' })
	lanes := 1
	if digits := name[len(base):]; digits != "" {
		n, err := strconv.Atoi(digits)
		if err != nil || n == 1 || !vectorLanes(n) {
			return nil, errors.New(errors.PhaseBuild, errors.KindInvalidInput).
				Value(name).
				Detail("invalid vector width in %q", name).
				Build()
		}
		lanes = n
	}
	for code, s := range scalarNames {
		if s != base {
			continue
		}
		if lanes > 1 && (Scalar(code) == Bool || Scalar(code) == SizeT) {
			return nil, errors.New(errors.PhaseBuild, errors.KindInvalidInput).
				Value(name).
				Detail("%s has no vector form", base).
				Build()
		}
		return NewLeaf(Scalar(code), lanes, tgt), nil
	}
	return nil, errors.NotFound(errors.PhaseBuild, "leaf type", name)
}

func (l *Leaf) Kind() Kind            { return KindLeaf }
func (l *Leaf) ID() uint64            { return l.id }
func (l *Leaf) Code() Scalar          { return l.code }
func (l *Leaf) Lanes() int            { return l.lanes }
func (l *Leaf) Target() target.Target { return l.tgt }

func (l *Leaf) Size() (int, bool) {
	if !l.ok {
		return 0, false
	}
	return abi.SafeMul(l.width, storageLanes(l.lanes))
}

// Align is the size for storable leaves; vectors are naturally aligned.
func (l *Leaf) Align() int {
	if size, ok := l.Size(); ok {
		return size
	}
	return 1
}

func (l *Leaf) Name() string {
	if l.lanes == 1 {
		return l.code.String()
	}
	return l.code.String() + strconv.Itoa(l.lanes)
}

// Source is empty: leaves are built into the device language.
func (l *Leaf) Source() string { return "" }

func (l *Leaf) Clone() Type {
	c := *l
	return &c
}

func (l *Leaf) sealed() {}

// Load reads lane values, sign-extending signed integers and canonicalizing
// NaNs.
func (l *Leaf) Load(src []byte) Instance {
	l.checkStorable(errors.PhaseLoad)
	size, _ := l.Size()
	checkBuffer(errors.PhaseLoad, src, size, l.Align())

	inst := &LeafInstance{leaf: l}
	for i := 0; i < l.lanes; i++ {
		inst.bits[i] = l.decodeLane(src[i*l.width:])
	}
	return inst
}

func (l *Leaf) checkStorable(phase errors.Phase) {
	if !l.ok {
		panic(errors.Unrepresentable(phase, nil, l.Name()))
	}
}

// float32Lanes reports whether float lanes are narrowed to single precision.
func (l *Leaf) float32Lanes() bool {
	return l.code.IsFloat() && l.width == 4
}

func (l *Leaf) splat(bits uint64) *LeafInstance {
	bits = l.normalize(bits)
	inst := &LeafInstance{leaf: l}
	for i := 0; i < l.lanes; i++ {
		inst.bits[i] = bits
	}
	return inst
}

// NewInt returns an instance with every lane set to v.
func (l *Leaf) NewInt(v int64) *LeafInstance {
	return l.splat(l.fromInt(v))
}

// NewUint returns an instance with every lane set to v.
func (l *Leaf) NewUint(v uint64) *LeafInstance {
	return l.splat(l.fromUint(v))
}

// NewFloat returns an instance with every lane set to v. Integer leaves
// truncate toward zero.
func (l *Leaf) NewFloat(v float64) *LeafInstance {
	return l.splat(l.fromFloat(v))
}

// NewVector returns an instance with one value per lane.
func (l *Leaf) NewVector(values ...float64) *LeafInstance {
	if len(values) != l.lanes {
		errors.Violation(errors.PhaseBuild, errors.KindContract,
			"%s takes %d lanes, got %d", l.Name(), l.lanes, len(values))
	}
	inst := &LeafInstance{leaf: l}
	for i, v := range values {
		inst.bits[i] = l.normalize(l.fromFloat(v))
	}
	return inst
}

func (l *Leaf) fromInt(v int64) uint64 {
	switch {
	case l.code.IsFloat():
		return math.Float64bits(float64(v))
	case l.code == Bool:
		return boolBits(v != 0)
	default:
		return uint64(v)
	}
}

func (l *Leaf) fromUint(v uint64) uint64 {
	switch {
	case l.code.IsFloat():
		return math.Float64bits(float64(v))
	case l.code == Bool:
		return boolBits(v != 0)
	default:
		return v
	}
}

func (l *Leaf) fromFloat(v float64) uint64 {
	switch {
	case l.code.IsFloat():
		return math.Float64bits(v)
	case l.code == Bool:
		return boolBits(v != 0)
	case l.code.IsSigned():
		return uint64(int64(v))
	default:
		return uint64(v)
	}
}

// normalize reduces a lane to what survives a store and load: integers are
// truncated to the lane width, single precision lanes are rounded and NaNs
// are canonical.
func (l *Leaf) normalize(bits uint64) uint64 {
	switch {
	case l.float32Lanes():
		f := float32(math.Float64frombits(bits))
		return abi.CanonicalizeF64(math.Float64bits(float64(f)))
	case l.code.IsFloat():
		return abi.CanonicalizeF64(bits)
	case l.code == Bool || !l.ok || l.width >= 8:
		return bits
	case l.code.IsSigned():
		return uint64(abi.SignExtend(bits, l.width))
	default:
		return bits & (uint64(1)<<(8*l.width) - 1)
	}
}

func boolBits(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func (l *Leaf) encodeLane(dst []byte, bits uint64) {
	if l.float32Lanes() {
		abi.PutLane(dst, 4, uint64(math.Float32bits(float32(math.Float64frombits(bits)))))
		return
	}
	abi.PutLane(dst, l.width, bits)
}

func (l *Leaf) decodeLane(src []byte) uint64 {
	raw := abi.Lane(src, l.width)
	switch {
	case l.float32Lanes():
		return abi.CanonicalizeF64(math.Float64bits(float64(math.Float32frombits(abi.CanonicalizeF32(uint32(raw))))))
	case l.code.IsFloat():
		return abi.CanonicalizeF64(raw)
	case l.code.IsSigned():
		return uint64(abi.SignExtend(raw, l.width))
	default:
		return raw
	}
}
