package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLayout  Phase = "layout"  // size/alignment computation
	PhaseEmit    Phase = "emit"    // device source generation
	PhaseStore   Phase = "store"   // host value to buffer
	PhaseLoad    Phase = "load"    // buffer to host value
	PhaseBuild   Phase = "build"   // descriptor and instance construction
	PhaseSchema  Phase = "schema"  // document parsing
	PhaseConvert Phase = "convert" // foreign type import
	PhaseDevice  Phase = "device"  // buffer transport
	PhaseCache   Phase = "cache"   // artifact cache
	PhaseConfig  Phase = "config"  // target configuration
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch    Kind = "type_mismatch"
	KindOutOfBounds     Kind = "out_of_bounds"
	KindInvalidData     Kind = "invalid_data"
	KindUnsupported     Kind = "unsupported"
	KindAllocation      Kind = "allocation"
	KindUnrepresentable Kind = "unrepresentable"
	KindMisaligned      Kind = "misaligned"
	KindInvalidVariant  Kind = "invalid_variant"
	KindContract        Kind = "contract"
	KindNotFound        Kind = "not_found"
	KindDuplicate       Kind = "duplicate"
	KindInvalidInput    Kind = "invalid_input"
	KindClosed          Kind = "closed"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value      any
	Cause      error
	Phase      Phase
	Kind       Kind
	HostType   string
	DeviceType string
	Detail     string
	Path       []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.HostType != "" || e.DeviceType != "" {
		b.WriteString(": ")
		if e.HostType != "" && e.DeviceType != "" {
			b.WriteString("host type ")
			b.WriteString(e.HostType)
			b.WriteString(", device type ")
			b.WriteString(e.DeviceType)
		} else if e.HostType != "" {
			b.WriteString("host type ")
			b.WriteString(e.HostType)
		} else {
			b.WriteString("device type ")
			b.WriteString(e.DeviceType)
		}
	}

	if e.Detail != "" {
		if e.HostType != "" || e.DeviceType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the descriptor path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// HostType sets the host-side type name
func (b *Builder) HostType(t string) *Builder {
	b.err.HostType = t
	return b
}

// DeviceType sets the device-side type name
func (b *Builder) DeviceType(t string) *Builder {
	b.err.DeviceType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Panic raises the constructed error as a contract violation.
func (b *Builder) Panic() {
	panic(&b.err)
}

// Violation reports a broken invariant. It never returns.
func Violation(phase Phase, kind Kind, msg string, args ...any) {
	New(phase, kind).Detail(msg, args...).Panic()
}

// IsViolation reports whether a recovered panic value is a contract violation
// raised by this package.
func IsViolation(r any) (*Error, bool) {
	e, ok := r.(*Error)
	return e, ok
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, hostType, deviceType string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindTypeMismatch,
		Path:       path,
		HostType:   hostType,
		DeviceType: deviceType,
	}
}

// Unrepresentable creates an error for a type without a device layout
func Unrepresentable(phase Phase, path []string, deviceType string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindUnrepresentable,
		Path:       path,
		DeviceType: deviceType,
		Detail:     "type has no device layout",
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// InvalidDiscriminant creates an invalid discriminant error for variants
func InvalidDiscriminant(phase Phase, path []string, disc uint64, count int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidVariant,
		Path:   path,
		Detail: fmt.Sprintf("discriminant %d out of range (%d components)", disc, count),
		Value:  disc,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// Misaligned creates an error for a buffer address that violates a type's alignment
func Misaligned(phase Phase, addr uintptr, align int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMisaligned,
		Detail: fmt.Sprintf("address 0x%x is not %d-byte aligned", addr, align),
		Value:  addr,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Closed creates an error for use of a released resource
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s is closed", what),
	}
}
