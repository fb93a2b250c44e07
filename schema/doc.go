// Package schema reads descriptor trees and values from YAML or JSON
// documents.
//
// A document names a target, declares types in order and optionally lists
// values:
//
//	target: fp64/addr64
//	types:
//	  shape:
//	    variant: [int, double, {tuple: [real3, real]}]
//	  maybe_shape:
//	    variant: [{tuple: []}, shape]
//	values:
//	  - type: shape
//	    index: 1
//	    value: 3.5
//
// A type expression is a leaf name (int, float4, real3, size_t), the name of
// an earlier declared type, {tuple: [...]} or {variant: [...]}. References
// only point backwards, so documents cannot describe cycles.
//
// Values follow the type: a leaf takes a number or one number per lane, a
// tuple takes a list, a variant takes {index: i, value: v}.
package schema
