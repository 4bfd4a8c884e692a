package volume

import (
	"errors"
	"strings"
)

const (
	// ErrNoName is returned by Create when the name is empty
	ErrNoName validationError = "volume must have a name"
	// ErrInvalidSize is returned by Create when the size is not positive
	ErrInvalidSize validationError = "volume size must be a number of megabytes > 0"
	// ErrInvalidName is returned by Create when the name cannot be a directory name
	ErrInvalidName validationError = "volume name is not valid"
	// ErrAlreadyExists is returned by Create when the name is taken
	ErrAlreadyExists conflictError = "a volume with this name already exists"
	// ErrCreateFailed is returned by Create when the OS utility fails
	ErrCreateFailed failedError = "volume creation failed"
	// ErrEjectFailed is returned by Eject for failures other than busy
	ErrEjectFailed failedError = "volume could not be ejected"
	// ErrNotFound is returned for ids or names that are not registered
	ErrNotFound notFoundError = "no such volume"
	// ErrOperationInProgress is returned when the volume already has an eject,
	// delete or recreate running
	ErrOperationInProgress conflictError = "an operation is already in progress for this volume"
	// ErrConfirmationRequired is returned when a warn-on-eject volume holds files
	// and the caller did not confirm
	ErrConfirmationRequired conflictError = "volume contains files, confirmation required"
)

type validationError string

func (e validationError) Error() string {
	return string(e)
}

func (validationError) InvalidParameter() {}

type conflictError string

func (e conflictError) Error() string {
	return string(e)
}

func (conflictError) Conflict() {}

type notFoundError string

func (e notFoundError) Error() string {
	return string(e)
}

func (notFoundError) NotFound() {}

type failedError string

func (e failedError) Error() string {
	return string(e)
}

// OpErr is the error type returned by registry operations. It describes
// the operation, the volume name, the error kind and the underlying cause.
type OpErr struct {
	// Op is the operation which failed, such as "create" or "eject".
	Op string
	// Name is the volume name.
	Name string
	// Err is one of the Err* kinds of this package.
	Err error
	// Cause is the underlying failure, if any.
	Cause error
}

// Error satisfies the built-in error interface type.
func (e *OpErr) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Name != "" {
		b.WriteString(" " + e.Name)
	}
	b.WriteString(": " + e.Err.Error())
	if e.Cause != nil {
		b.WriteString(": " + e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As
func (e *OpErr) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func opErr(op, name string, kind error, cause error) error {
	return &OpErr{Op: op, Name: name, Err: kind, Cause: cause}
}

// IsNotFound reports whether err means the volume is not registered
func IsNotFound(err error) bool {
	var nf interface{ NotFound() }
	return errors.As(err, &nf)
}

// IsConflict reports whether err is a name conflict, a busy operation
// marker or a missing confirmation
func IsConflict(err error) bool {
	var c interface{ Conflict() }
	return errors.As(err, &c)
}

// IsInvalidParameter reports whether err is a validation failure
func IsInvalidParameter(err error) bool {
	var ip interface{ InvalidParameter() }
	return errors.As(err, &ip)
}
