//go:build !dyndebug

package assert

const Enabled = false
