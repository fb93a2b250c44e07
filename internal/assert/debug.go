//go:build dyndebug

package assert

const Enabled = true
