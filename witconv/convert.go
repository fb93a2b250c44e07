package witconv

import (
	"io"
	"strconv"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/dyntype/dyn"
	"github.com/wippyai/dyntype/errors"
	"github.com/wippyai/dyntype/internal/abi"
	"github.com/wippyai/dyntype/schema"
	"github.com/wippyai/dyntype/target"
)

// Convert maps a WIT type to a descriptor for tgt.
func Convert(t wit.Type, tgt target.Target) (dyn.Type, error) {
	if err := tgt.Validate(); err != nil {
		return nil, errors.Wrap(errors.PhaseConvert, errors.KindInvalidInput, err, "invalid target "+tgt.String())
	}
	c := &converter{tgt: tgt}
	return c.convert(t, nil)
}

type converter struct {
	tgt target.Target
}

func (c *converter) leaf(code dyn.Scalar) dyn.Type {
	return dyn.NewLeaf(code, 1, c.tgt)
}

func (c *converter) unit() dyn.Type {
	return dyn.NewTuple()
}

func (c *converter) convert(t wit.Type, path []string) (dyn.Type, error) {
	switch typ := t.(type) {
	case wit.Bool, wit.U8:
		return c.leaf(dyn.U8), nil
	case wit.S8:
		return c.leaf(dyn.I8), nil
	case wit.U16:
		return c.leaf(dyn.U16), nil
	case wit.S16:
		return c.leaf(dyn.I16), nil
	case wit.U32, wit.Char:
		return c.leaf(dyn.U32), nil
	case wit.S32:
		return c.leaf(dyn.I32), nil
	case wit.U64:
		return c.leaf(dyn.U64), nil
	case wit.S64:
		return c.leaf(dyn.I64), nil
	case wit.F32:
		return c.leaf(dyn.F32), nil
	case wit.F64:
		return c.leaf(dyn.F64), nil
	case wit.String:
		return nil, unsupported(path, "string")
	case *wit.TypeDef:
		return c.convertTypeDef(typ, path)
	default:
		return nil, unsupported(path, typeName(t))
	}
}

func (c *converter) convertTypeDef(td *wit.TypeDef, path []string) (dyn.Type, error) {
	if td.Name != nil && len(path) == 0 {
		path = []string{*td.Name}
	}

	switch kind := td.Kind.(type) {
	case *wit.Record:
		fields := make([]dyn.Type, len(kind.Fields))
		for i, f := range kind.Fields {
			ft, err := c.convert(f.Type, with(path, f.Name))
			if err != nil {
				return nil, err
			}
			fields[i] = ft
		}
		return dyn.NewTuple(fields...), nil

	case *wit.Tuple:
		fields := make([]dyn.Type, len(kind.Types))
		for i, et := range kind.Types {
			ft, err := c.convert(et, with(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			fields[i] = ft
		}
		return dyn.NewTuple(fields...), nil

	case *wit.Variant:
		v := dyn.NewVariant()
		for _, cs := range kind.Cases {
			if cs.Type == nil {
				v.Append(c.unit())
				continue
			}
			ct, err := c.convert(cs.Type, with(path, cs.Name))
			if err != nil {
				return nil, err
			}
			v.Append(ct)
		}
		return v, nil

	case *wit.Enum:
		v := dyn.NewVariant()
		for range kind.Cases {
			v.Append(c.unit())
		}
		return v, nil

	case *wit.Option:
		inner, err := c.convert(kind.Type, with(path, "some"))
		if err != nil {
			return nil, err
		}
		return dyn.NewVariant(c.unit(), inner), nil

	case *wit.Result:
		ok, err := c.optional(kind.OK, with(path, "ok"))
		if err != nil {
			return nil, err
		}
		bad, err := c.optional(kind.Err, with(path, "err"))
		if err != nil {
			return nil, err
		}
		return dyn.NewVariant(ok, bad), nil

	case *wit.List:
		return nil, unsupported(path, "list")
	case *wit.Flags:
		return nil, unsupported(path, "flags")
	case *wit.Own:
		return nil, unsupported(path, "own")
	case *wit.Borrow:
		return nil, unsupported(path, "borrow")
	case wit.Type:
		return c.convert(kind, path)
	default:
		return nil, unsupported(path, typeName(td.Kind))
	}
}

func (c *converter) optional(t wit.Type, path []string) (dyn.Type, error) {
	if t == nil {
		return c.unit(), nil
	}
	return c.convert(t, path)
}

func with(path []string, step string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, step)
}

func unsupported(path []string, what string) error {
	return errors.New(errors.PhaseConvert, errors.KindUnsupported).
		Path(path...).
		HostType(what).
		Detail("%s has no fixed device layout", what).
		Build()
}

func typeName(v any) string {
	s := strings.TrimPrefix(strings.TrimPrefix(abi.TypeName(v), "*"), "wit.")
	return strings.ToLower(s)
}

// ImportJSON reads a resolved WIT package in wasm-tools JSON form and
// converts every named type definition it can. Definitions that cannot be
// represented are reported in skipped rather than failing the import.
func ImportJSON(r io.Reader, tgt target.Target) (types []schema.Named, skipped []error, err error) {
	res, err := wit.DecodeJSON(r)
	if err != nil {
		return nil, nil, errors.Wrap(errors.PhaseConvert, errors.KindInvalidData, err, "decode WIT JSON")
	}
	return Import(res, tgt)
}

// Import converts every named type definition of a resolved WIT package.
func Import(res *wit.Resolve, tgt target.Target) (types []schema.Named, skipped []error, err error) {
	if err := tgt.Validate(); err != nil {
		return nil, nil, errors.Wrap(errors.PhaseConvert, errors.KindInvalidInput, err, "invalid target "+tgt.String())
	}
	seen := make(map[string]bool)
	for _, td := range res.TypeDefs {
		if td.Name == nil {
			continue
		}
		name := Identifier(*td.Name)
		if seen[name] {
			continue
		}
		t, cerr := Convert(td, tgt)
		if cerr != nil {
			skipped = append(skipped, cerr)
			continue
		}
		seen[name] = true
		types = append(types, schema.Named{Name: name, Type: t})
	}
	return types, skipped, nil
}

// Identifier turns a kebab-case WIT name into a C identifier.
func Identifier(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}
