package schema

import (
	"strconv"

	"github.com/wippyai/dyntype/dyn"
	"github.com/wippyai/dyntype/errors"
	"github.com/wippyai/dyntype/internal/abi"
)

// Value is one entry of the document's values list.
type Value struct {
	Instance dyn.Instance
	TypeName string
}

// Values builds an instance for every entry of the values list.
func (d *Document) Values() ([]Value, error) {
	out := make([]Value, 0, len(d.values))
	for i, rv := range d.values {
		path := []string{"values", strconv.Itoa(i)}
		t, ok := d.byName[rv.Type]
		if !ok {
			return nil, errors.New(errors.PhaseSchema, errors.KindNotFound).
				Path(append(path, "type")...).
				Detail("type %q not declared", rv.Type).
				Build()
		}
		v := rv.Value
		if rv.Index != nil {
			v = map[string]any{"index": *rv.Index, "value": rv.Value}
		}
		inst, err := build(t, v, path)
		if err != nil {
			return nil, err
		}
		out = append(out, Value{TypeName: rv.Type, Instance: inst})
	}
	return out, nil
}

// BuildValue builds an instance of t from a decoded value document.
func BuildValue(t dyn.Type, v any) (dyn.Instance, error) {
	return build(t, v, nil)
}

func build(t dyn.Type, v any, path []string) (dyn.Instance, error) {
	switch typ := t.(type) {
	case *dyn.Leaf:
		var (
			inst *dyn.LeafInstance
			err  error
		)
		if list, ok := v.([]any); ok {
			inst, err = typ.FromValues(list...)
		} else {
			inst, err = typ.FromValues(v)
		}
		if err != nil {
			return nil, rephrase(err, path)
		}
		return inst, nil

	case *dyn.Tuple:
		var list []any
		if v != nil {
			var ok bool
			if list, ok = v.([]any); !ok {
				return nil, invalid(path, "%s expects a list", dyn.Describe(t))
			}
		}
		if len(list) != typ.Len() {
			return nil, invalid(path, "%s expects %d values, got %d", dyn.Describe(t), typ.Len(), len(list))
		}
		inst := typ.Instance()
		for i, item := range list {
			field, err := build(typ.Field(i), item, append(append([]string(nil), path...), "field"+strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			inst.SetField(i, field)
		}
		return inst, nil

	case *dyn.Variant:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, invalid(path, "%s expects {index, value}", dyn.Describe(t))
		}
		idx, ok := abi.CoerceToInt64(m["index"])
		if !ok {
			return nil, invalid(append(path, "index"), "index must be an integer")
		}
		if idx < 0 || idx >= int64(typ.Len()) {
			return nil, errors.New(errors.PhaseSchema, errors.KindOutOfBounds).
				Path(append(path, "index")...).
				Value(idx).
				Detail("index %d out of range (%d components)", idx, typ.Len()).
				Build()
		}
		i := int(idx)
		payload, err := build(typ.Component(i), m["value"], append(append([]string(nil), path...), "variant"+strconv.Itoa(i)))
		if err != nil {
			return nil, err
		}
		inst := typ.Instance()
		inst.SetValue(i, payload)
		return inst, nil
	}
	return nil, invalid(path, "unknown type %s", t.Name())
}

// rephrase moves a value construction error into the schema phase at path.
func rephrase(err error, path []string) error {
	e, ok := err.(*errors.Error)
	if !ok {
		return errors.Wrap(errors.PhaseSchema, errors.KindInvalidData, err, "invalid value")
	}
	return errors.New(errors.PhaseSchema, e.Kind).
		Path(path...).
		HostType(e.HostType).
		DeviceType(e.DeviceType).
		Value(e.Value).
		Cause(err).
		Detail("%s", e.Detail).
		Build()
}
