package dyn

// Kind identifies which of the closed descriptor kinds a Type is.
type Kind uint8

const (
	KindLeaf Kind = iota + 1
	KindTuple
	KindVariant
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindTuple:
		return "tuple"
	case KindVariant:
		return "variant"
	default:
		return "unknown"
	}
}

// Type is a runtime type descriptor.
type Type interface {
	Kind() Kind

	// ID is stable across structurally equal descriptors and order sensitive.
	// It is a deduplication key only: distinct types may collide.
	ID() uint64

	// Size is the byte footprint on the device. false means the type has no
	// device layout.
	Size() (int, bool)

	// Align is a power of two.
	Align() int

	// Name is the identifier used for the type in emitted source.
	Name() string

	// Source is the device definition of the type, preceded by the
	// definitions it depends on. Built-in leaves return "".
	Source() string

	// Clone returns a deep copy.
	Clone() Type

	// Load reconstructs an instance from src. src must be at least Size bytes
	// and aligned to Align.
	Load(src []byte) Instance

	sealed()
}

// Instance is a runtime value of one Type.
type Instance interface {
	Type() Type

	// Store writes the value into dst, which must be at least Type().Size()
	// bytes and aligned to Type().Align().
	Store(dst []byte)
}
