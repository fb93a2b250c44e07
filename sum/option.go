package sum

import (
	"github.com/wippyai/dyntype/errors"
	"github.com/wippyai/dyntype/internal/storage"
)

// Option holds either nothing or a value of type T. The zero Option is None.
type Option[T any] struct {
	u    storage.Union2[struct{}, T]
	some bool
}

// None returns an empty Option.
func None[T any]() Option[T] {
	return Option[T]{u: storage.Create0[struct{}, T](struct{}{})}
}

// Some returns an Option holding v.
func Some[T any](v T) Option[T] {
	return Option[T]{u: storage.Create1[struct{}, T](v), some: true}
}

func (o *Option[T]) IsSome() bool { return o.some }

func (o *Option[T]) IsNone() bool { return !o.some }

// Get aliases the held value. Panics on None.
func (o *Option[T]) Get() *T {
	if !o.some {
		errors.Violation(errors.PhaseBuild, errors.KindContract, "option is none")
	}
	return o.u.Get1()
}

// Unwrap returns a copy of the held value. Panics on None.
func (o *Option[T]) Unwrap() T {
	return *o.Get()
}

// UnwrapOr returns the held value, or def on None.
func (o *Option[T]) UnwrapOr(def T) T {
	if !o.some {
		return def
	}
	return *o.u.Get1()
}

// Take moves the value out and leaves the Option None.
func (o *Option[T]) Take() (T, bool) {
	if !o.some {
		var zero T
		return zero, false
	}
	v := o.u.Take1()
	o.u.Put0(struct{}{})
	o.some = false
	return v, true
}
