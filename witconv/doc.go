// Package witconv imports WebAssembly Interface Type definitions as device
// type descriptors.
//
// Fixed-size WIT types map onto device leaves and composites:
//
//	bool, u8 .. s64, f32, f64   uchar, uchar .. long, float, double
//	char                         uint (a Unicode scalar value)
//	record, tuple                Tuple, fields in declaration order
//	variant                      Variant; cases without payload hold an empty tuple
//	enum                         Variant of empty tuples
//	option<T>                    Variant[tuple<>, T]
//	result<T, E>                 Variant[T, E], absent sides become tuple<>
//
// Types whose size is not fixed or that refer to host state (string, list,
// flags, own, borrow) have no device representation and are rejected with
// KindUnsupported.
package witconv
