package schema

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/wippyai/dyntype/dyn"
	"github.com/wippyai/dyntype/errors"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type parser struct {
	doc *Document
}

func (p *parser) parse(v any, path []string) (dyn.Type, error) {
	switch x := v.(type) {
	case string:
		if t, ok := p.doc.byName[x]; ok {
			return t.Clone(), nil
		}
		l, err := dyn.ParseLeaf(x, p.doc.Target)
		if err != nil {
			return nil, errors.New(errors.PhaseSchema, errors.KindNotFound).
				Path(path...).
				Cause(err).
				Detail("unknown type %q", x).
				Build()
		}
		return l, nil
	case map[string]any:
		if len(x) != 1 {
			return nil, invalid(path, "composite must have exactly one of tuple or variant, got %s", keys(x))
		}
		for kind, body := range x {
			items, ok := body.([]any)
			if body != nil && !ok {
				return nil, invalid(append(path, kind), "expected a list")
			}
			children := make([]dyn.Type, len(items))
			for i, item := range items {
				c, err := p.parse(item, append(append([]string(nil), path...), kind, strconv.Itoa(i)))
				if err != nil {
					return nil, err
				}
				children[i] = c
			}
			switch kind {
			case "tuple":
				return dyn.NewTuple(children...), nil
			case "variant":
				return dyn.NewVariant(children...), nil
			default:
				return nil, invalid(path, "unknown composite %q", kind)
			}
		}
	}
	return nil, invalid(path, "unexpected type expression %v", v)
}

func invalid(path []string, msg string, args ...any) error {
	return errors.New(errors.PhaseSchema, errors.KindInvalidData).
		Path(path...).
		Detail(msg, args...).
		Build()
}

func keys(m map[string]any) string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return "[" + strings.Join(ks, ", ") + "]"
}

// Expr renders t as a type expression. Subtrees structurally equal to one of
// named are written as references to it.
func Expr(t dyn.Type, named []Named) any {
	for _, n := range named {
		if n.Type.ID() == t.ID() && dyn.Equal(n.Type, t) {
			return n.Name
		}
	}
	switch typ := t.(type) {
	case *dyn.Tuple:
		return map[string]any{"tuple": exprList(dyn.Children(typ), named)}
	case *dyn.Variant:
		return map[string]any{"variant": exprList(dyn.Children(typ), named)}
	default:
		return t.Name()
	}
}

func exprList(ts []dyn.Type, named []Named) []any {
	out := make([]any, len(ts))
	for i, t := range ts {
		out[i] = Expr(t, named)
	}
	return out
}
