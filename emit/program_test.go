package emit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/wippyai/dyntype/dyn"
	"github.com/wippyai/dyntype/errors"
	"github.com/wippyai/dyntype/target"
)

var fp32 = target.Target{Precision: target.Single, AddressBits: 32}

func leaf(t *testing.T, name string, tgt target.Target) *dyn.Leaf {
	t.Helper()
	l, err := dyn.ParseLeaf(name, tgt)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func shape(t *testing.T) *dyn.Variant {
	tgt := target.Default
	return dyn.NewVariant(leaf(t, "int", tgt), leaf(t, "double", tgt),
		dyn.NewTuple(leaf(t, "real3", tgt), leaf(t, "real", tgt)))
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestProgram_Checks(t *testing.T) {
	s := shape(t)
	maybe := dyn.NewVariant(dyn.NewTuple(), s)

	p := New(target.Default).WithChecks(true)
	if err := p.Alias("shape", s); err != nil {
		t.Fatal(err)
	}
	if err := p.Alias("maybe_shape", maybe); err != nil {
		t.Fatal(err)
	}
	if got := len(p.Definitions()); got != 4 {
		t.Errorf("definitions = %d, want 4", got)
	}
	golden(t).Assert(t, "program_checks", []byte(p.Source()))
}

func TestProgram_SinglePrecision(t *testing.T) {
	v := dyn.NewVariant(leaf(t, "float2", fp32),
		dyn.NewTuple(leaf(t, "real", fp32), leaf(t, "uchar", fp32)))

	src, err := Source(fp32, v)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(src, "cl_khr_fp64") {
		t.Error("single precision program must not enable fp64")
	}
	golden(t).Assert(t, "program_fp32", []byte(src))
}

func TestProgram_Deterministic(t *testing.T) {
	a, err := Source(target.Default, shape(t))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Source(target.Default, shape(t).Clone())
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("equal descriptors should emit identical programs")
	}
}

func TestProgram_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		t     func() dyn.Type
		kind  errors.Kind
		path  []string
		alias string
	}{
		{
			name: "unstorable",
			t: func() dyn.Type {
				return dyn.NewVariant(leaf(t, "int", target.Default), leaf(t, "bool", target.Default))
			},
			kind: errors.KindUnrepresentable,
			path: []string{"variant1"},
		},
		{
			name: "double on fp32",
			t: func() dyn.Type {
				return dyn.NewTuple(leaf(t, "int", fp32), leaf(t, "double", target.Default))
			},
			kind: errors.KindTypeMismatch,
			path: []string{"field1"},
		},
		{
			name: "size_t width",
			t: func() dyn.Type {
				return dyn.NewVariant(leaf(t, "size_t", target.Default))
			},
			kind: errors.KindTypeMismatch,
			path: []string{"variant0"},
		},
		{
			name:  "bad alias",
			t:     func() dyn.Type { return leaf(t, "int", fp32) },
			kind:  errors.KindInvalidInput,
			alias: "9lives",
		},
		{
			name:  "keyword alias",
			t:     func() dyn.Type { return leaf(t, "int", fp32) },
			kind:  errors.KindInvalidInput,
			alias: "int",
		},
		{
			name:  "real alias",
			t:     func() dyn.Type { return leaf(t, "int", fp32) },
			kind:  errors.KindInvalidInput,
			alias: "real",
		},
		{
			name:  "vector alias",
			t:     func() dyn.Type { return leaf(t, "int", fp32) },
			kind:  errors.KindInvalidInput,
			alias: "ulong4",
		},
		{
			name:  "qualifier alias",
			t:     func() dyn.Type { return leaf(t, "int", fp32) },
			kind:  errors.KindInvalidInput,
			alias: "__kernel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(fp32)
			var err error
			if tt.alias != "" {
				err = p.Alias(tt.alias, tt.t())
			} else {
				err = p.Add(tt.t())
			}
			e, ok := err.(*errors.Error)
			if !ok {
				t.Fatalf("error = %v, want *errors.Error", err)
			}
			if e.Phase != errors.PhaseEmit || e.Kind != tt.kind {
				t.Errorf("got %s/%s, want emit/%s", e.Phase, e.Kind, tt.kind)
			}
			if strings.Join(e.Path, ".") != strings.Join(tt.path, ".") {
				t.Errorf("path = %v, want %v", e.Path, tt.path)
			}
		})
	}
}

func TestProgram_DuplicateAlias(t *testing.T) {
	p := New(target.Default)
	if err := p.Alias("shape", shape(t)); err != nil {
		t.Fatal(err)
	}
	err := p.Alias("shape", shape(t))
	e, ok := err.(*errors.Error)
	if !ok || e.Kind != errors.KindDuplicate {
		t.Errorf("error = %v, want duplicate", err)
	}
}

func TestProgram_WriteTo(t *testing.T) {
	p := New(target.Default)
	if err := p.Add(shape(t)); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	n, err := p.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if int(n) != buf.Len() || buf.String() != p.Source() {
		t.Error("WriteTo should write Source")
	}
}

func TestProgram_NonReservedAlias(t *testing.T) {
	p := New(fp32)
	for _, name := range []string{"int5", "integer", "real_pair", "ulong17"} {
		if err := p.Alias(name, leaf(t, "int", fp32)); err != nil {
			t.Errorf("Alias(%q): %v", name, err)
		}
	}
}

func TestProgram_InvalidTarget(t *testing.T) {
	bad := target.Target{Precision: target.Double}
	p := New(bad)
	err := p.Add(shape(t))
	e, ok := err.(*errors.Error)
	if !ok || e.Phase != errors.PhaseEmit || e.Kind != errors.KindInvalidInput {
		t.Fatalf("Add error = %v, want emit/invalid_input", err)
	}
	if _, err := Source(bad, shape(t)); err == nil {
		t.Error("Source should reject an invalid target")
	}
	if _, err := Source(bad); err == nil {
		t.Error("Source without roots should still reject an invalid target")
	}
}

func TestProgram_BuildOptions(t *testing.T) {
	if got := New(target.Default).BuildOptions(); got != "-D DOUBLE_SUPPORT -D ADDRESS_BITS=64" {
		t.Errorf("default BuildOptions() = %q", got)
	}
	if got := New(fp32).BuildOptions(); got != "-D ADDRESS_BITS=32" {
		t.Errorf("fp32 BuildOptions() = %q", got)
	}
}
