package dyn

import "strings"

// Describe renders t as a readable type expression, e.g.
// "variant<int, tuple<real3, real>>".
func Describe(t Type) string {
	var b strings.Builder
	describe(&b, t)
	return b.String()
}

func describe(b *strings.Builder, t Type) {
	switch v := t.(type) {
	case *Leaf:
		b.WriteString(v.Name())
	case *Tuple:
		b.WriteString("tuple<")
		describeList(b, v.fields)
		b.WriteByte('>')
	case *Variant:
		b.WriteString("variant<")
		describeList(b, v.components)
		b.WriteByte('>')
	}
}

func describeList(b *strings.Builder, ts []Type) {
	for i, t := range ts {
		if i > 0 {
			b.WriteString(", ")
		}
		describe(b, t)
	}
}

// Children returns the direct children of a composite, nil for leaves.
func Children(t Type) []Type {
	switch v := t.(type) {
	case *Tuple:
		return append([]Type(nil), v.fields...)
	case *Variant:
		return append([]Type(nil), v.components...)
	default:
		return nil
	}
}
