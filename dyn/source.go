package dyn

import (
	"strconv"
	"strings"
)

// Definition is one named type definition in device source.
type Definition struct {
	Name   string
	Source string
}

// Definitions returns the definitions the roots need, dependencies first,
// each name once. Built-in leaves contribute nothing.
func Definitions(roots ...Type) []Definition {
	d := newDefs()
	for _, t := range roots {
		d.add(t)
	}
	return d.list
}

type defs struct {
	seen map[string]bool
	list []Definition
}

func newDefs() *defs {
	return &defs{seen: make(map[string]bool)}
}

func (d *defs) add(t Type) {
	switch v := t.(type) {
	case *Leaf:
	case *Tuple:
		d.addAll(v.fields)
		d.define(v.Name(), func() string { return tupleSource(v) })
	case *Variant:
		d.addAll(v.components)
		d.define(v.Name(), func() string { return variantSource(v, defaultFieldName) })
	}
}

func (d *defs) addAll(ts []Type) {
	for _, t := range ts {
		d.add(t)
	}
}

func (d *defs) define(name string, text func() string) {
	if d.seen[name] {
		return
	}
	d.seen[name] = true
	d.list = append(d.list, Definition{Name: name, Source: text()})
}

func (d *defs) String() string {
	parts := make([]string, len(d.list))
	for i, def := range d.list {
		parts[i] = def.Source
	}
	return strings.Join(parts, "\n")
}

func defaultFieldName(i int) string {
	return "variant" + strconv.Itoa(i)
}

func tupleSource(t *Tuple) string {
	if len(t.fields) == 0 {
		return "typedef struct {} " + t.Name() + ";\n"
	}
	var b strings.Builder
	b.WriteString("typedef struct {\n")
	for i, f := range t.fields {
		b.WriteString("    ")
		b.WriteString(f.Name())
		b.WriteString(" field")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(";\n")
	}
	b.WriteString("} ")
	b.WriteString(t.Name())
	b.WriteString(";\n")
	return b.String()
}

func variantSource(v *Variant, fieldName func(int) string) string {
	var b strings.Builder
	b.WriteString("typedef struct {\n")
	b.WriteString("    ulong index;\n")
	b.WriteString("    union {\n")
	for i, c := range v.components {
		b.WriteString("        ")
		b.WriteString(c.Name())
		b.WriteByte(' ')
		b.WriteString(fieldName(i))
		b.WriteString(";\n")
	}
	b.WriteString("    } variants;\n")
	b.WriteString("} ")
	b.WriteString(v.Name())
	b.WriteString(";\n")
	return b.String()
}
