package dyn

import (
	"testing"

	"github.com/wippyai/dyntype/errors"
	"github.com/wippyai/dyntype/target"
)

var tgt = target.Default

func leaf(t *testing.T, name string) *Leaf {
	t.Helper()
	l, err := ParseLeaf(name, tgt)
	if err != nil {
		t.Fatalf("ParseLeaf(%q): %v", name, err)
	}
	return l
}

// expectPanic runs fn and checks it raised an *errors.Error of the given kind.
func expectPanic(t *testing.T, kind errors.Kind, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected %s violation, got none", kind)
		}
		e, ok := errors.IsViolation(r)
		if !ok {
			t.Fatalf("expected *errors.Error, got %T: %v", r, r)
		}
		if e.Kind != kind {
			t.Fatalf("violation kind = %s, want %s (%v)", e.Kind, kind, e)
		}
	}()
	fn()
}
