// Package dyn describes composite data types at run time and converts boxed
// host values to and from their device byte representation.
//
// A Type is a descriptor: it has an identity, an optional size, an alignment,
// a name, and a textual definition for the device compiler. Descriptors form
// trees. The kind set is closed: leaves (*Leaf), products (*Tuple) and
// dynamic sums (*Variant). Every composite owns deep clones of its children,
// so no descriptor node is ever reachable from two parents.
//
// An Instance is a value conforming to exactly one descriptor. Store writes an
// instance into a buffer laid out as Type.Source declares it; Type.Load
// reconstructs an instance from such a buffer:
//
//	v := dyn.NewVariant(dyn.NewLeaf(dyn.I32, 1, tgt), dyn.NewLeaf(dyn.F64, 1, tgt))
//	inst := v.Instance()
//	inst.SetValue(1, v.Component(1).(*dyn.Leaf).NewFloat(3.5))
//	buf, _ := dyn.Encode(inst)
//	back := v.Load(buf).(*dyn.VariantInstance)
//
// Broken invariants (selecting a branch with a value of the wrong type, an
// out-of-range tag in a buffer, storing an unset variant) panic with an
// *errors.Error. A type without a device layout is the only recoverable
// condition: Size reports false and Encode/Decode return an error.
//
// Descriptors are safe to share read-only once built. Instances are not safe
// for concurrent mutation.
package dyn
