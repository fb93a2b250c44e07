// Package dyntype describes data types at runtime and shares their values
// with an OpenCL device.
//
// A type is a tree of descriptors built while the program runs: leaves for
// the device scalar and vector types, tuples for C structs and variants for
// tagged unions. Every descriptor knows its device size and alignment, can
// print the device source that declares it and can store and load boxed
// values of itself in device byte order.
//
// # Architecture Overview
//
//	dyntype/
//	├── dyn/        Descriptors (Leaf, Tuple, Variant) and boxed instances
//	├── layout/     Memoized size, alignment and offset reports
//	├── emit/       Complete device translation units with layout checks
//	├── schema/     YAML and JSON documents declaring types and values
//	├── witconv/    WIT type definitions to descriptors
//	├── device/     Buffer transport through a wazero linear memory
//	├── cache/      SQLite store of generated source keyed by type digest
//	├── sum/        Option and Result over tagged storage
//	├── target/     Device precision and address width
//	├── errors/     Structured errors by phase and kind
//	└── cmd/dyntype Command line front end
//
// # Quick Start
//
// Declare a variant over an int and a double, fill it and store it:
//
//	i32, _ := dyn.ParseLeaf("int", target.Default)
//	f64, _ := dyn.ParseLeaf("double", target.Default)
//	v := dyn.NewVariant(i32, f64)
//
//	inst := v.Instance()
//	inst.SetValue(1, f64.NewFloat(3.5))
//	buf, err := dyn.Encode(inst)
//
// The device sees the same bytes through the definition emit produces:
//
//	src, err := emit.Source(target.Default, v)
//
// # Identity
//
// Structurally equal descriptors share an ID, and the ID depends on the
// order of children. IDs are deduplication keys and may collide; equality
// checks fall back to a structural comparison. dyn.Digest is the collision
// resistant form used for anything persisted.
//
// # Thread Safety
//
// Descriptors are immutable once shared and safe for concurrent reads.
// Instances, emit.Program and device.Arena are not thread-safe.
// layout.Calculator and cache.Cache are safe for concurrent use.
//
// # Contract Violations
//
// Misuse that indicates a bug in the caller, such as storing an unset
// variant or loading a corrupt tag, panics with an *errors.Error. Conditions
// that depend on input data are returned as errors.
package dyntype
