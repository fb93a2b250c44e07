// Package assert holds checks that only run in debug builds.
//
// Build with -tags dyndebug to enable them. In regular builds Enabled is a
// false constant and every call site compiles away.
package assert

import "github.com/wippyai/dyntype/errors"

// That raises a contract violation when cond is false and checks are enabled.
func That(cond bool, phase errors.Phase, msg string, args ...any) {
	if Enabled && !cond {
		errors.Violation(phase, errors.KindContract, msg, args...)
	}
}
