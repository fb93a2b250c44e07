// Package abi provides internal layout and encoding utilities shared by every
// descriptor kind.
//
// # Contents
//
//   - align.go: upper-multiple rounding, power-of-two checks, overflow-safe sums
//   - coerce.go: numeric coercion from boxed host values
//   - lanes.go: little-endian fixed-width lane reads and writes
//
// This package is internal to dyntype.
package abi
