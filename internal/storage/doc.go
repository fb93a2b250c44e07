// Package storage provides untagged fixed-alternative storage.
//
// A Union holds at most one live value out of a fixed set of alternatives and
// keeps no record of which one. The enclosing sum type carries the selector.
// In debug builds (-tags dyndebug) an occupancy bit catches a second Put
// without an intervening Take, access to an empty union and releasing an
// occupied union; regular builds perform no checks.
//
// Each alternative has its own typed slot because the Go collector must see
// every pointer-bearing value at its declared type; overlaying them on raw
// bytes is not an option. Take zeroes the slot so references are released.
//
// This package is internal to dyntype. Callers use the sum package.
package storage
