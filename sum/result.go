package sum

import (
	"github.com/wippyai/dyntype/errors"
	"github.com/wippyai/dyntype/internal/storage"
)

// Result holds either a success value T or an error value E.
// Construct with Ok or Err; the zero Result holds neither.
type Result[T, E any] struct {
	u  storage.Union2[T, E]
	ok bool
}

func Ok[T, E any](v T) Result[T, E] {
	return Result[T, E]{u: storage.Create0[T, E](v), ok: true}
}

func Err[T, E any](e E) Result[T, E] {
	return Result[T, E]{u: storage.Create1[T, E](e)}
}

func (r *Result[T, E]) IsOk() bool { return r.ok }

func (r *Result[T, E]) IsErr() bool { return !r.ok }

// Get aliases the success value. Panics on Err.
func (r *Result[T, E]) Get() *T {
	if !r.ok {
		errors.Violation(errors.PhaseBuild, errors.KindContract, "result holds an error")
	}
	return r.u.Get0()
}

// GetErr aliases the error value. Panics on Ok.
func (r *Result[T, E]) GetErr() *E {
	if r.ok {
		errors.Violation(errors.PhaseBuild, errors.KindContract, "result holds a value")
	}
	return r.u.Get1()
}

func (r *Result[T, E]) Unwrap() T { return *r.Get() }

func (r *Result[T, E]) UnwrapErr() E { return *r.GetErr() }
