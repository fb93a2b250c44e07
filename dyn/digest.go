package dyn

import (
	"github.com/wippyai/dyntype/internal/ident"
)

const digestDomain = "dyntype/type/v1"

// Digest is a SHA-256 over a canonical structural encoding of t. Unlike ID it
// is collision resistant and its encoding is fixed, so it can key persisted
// artifacts.
func Digest(t Type) [32]byte {
	var c ident.Canon
	canon(&c, t)
	return ident.Digest(digestDomain, c.Bytes())
}

func canon(c *ident.Canon, t Type) {
	switch v := t.(type) {
	case *Leaf:
		c.Byte('L')
		c.Uvarint(uint64(v.code))
		c.Uvarint(uint64(v.lanes))
		switch v.code {
		case Real, F64:
			c.String(v.tgt.Precision.String())
		case SizeT:
			c.Uvarint(uint64(v.tgt.AddressBits))
		}
	case *Tuple:
		c.Byte('T')
		c.Uvarint(uint64(len(v.fields)))
		for _, f := range v.fields {
			canon(c, f)
		}
	case *Variant:
		c.Byte('V')
		c.Uvarint(uint64(len(v.components)))
		for _, comp := range v.components {
			canon(c, comp)
		}
	}
}
