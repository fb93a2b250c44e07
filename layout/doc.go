// Package layout reports device layouts of descriptor trees.
//
// Layout is a pure function of a descriptor, so results are memoized by
// identity. Identities can collide, so a cache hit is confirmed with a
// structural comparison before it is used.
//
// # Layout Rules
//
//   - Leaves: size equals alignment; 3-lane vectors occupy four lanes
//   - Tuples: C struct rules, fields in order with padding for alignment
//   - Variants: 8-byte tag, then one payload region rounded to the
//     variant's alignment, shared by every component
//
// # Usage
//
//	c := layout.NewCalculator()
//	info := c.Calculate(t)
//	tree := c.Tree(t) // per-field offsets for reports
package layout
