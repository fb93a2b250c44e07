// Package sum provides closed, statically typed sum types built on the
// internal tagged storage primitive.
//
// Option[T] holds nothing or a T. Result[T, E] holds a success value or an
// error value. Queries never fail; accessing the wrong branch panics with a
// contract violation (*errors.Error, KindContract).
package sum
