package identity

import (
	"errors"

	"hostnamed"
)

var (
	// ErrReadOnly rejects every mutation when the engine runs read-only.
	ErrReadOnly = errors.New("hostnamed is in read-only mode")
	// ErrNotAuthorized marks a denial from the Authorizer.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrUnknownAttribute is returned for requests outside the seven attributes.
	ErrUnknownAttribute = errors.New("unknown attribute")
)

// AuthorizationError means the authorization check itself failed, as
// opposed to answering no. Its message is the Authorizer's, verbatim.
type AuthorizationError struct {
	Action string
	Err    error
}

func (e *AuthorizationError) Error() string { return e.Err.Error() }
func (e *AuthorizationError) Unwrap() error { return e.Err }

// PersistError means the config store write failed. Its message is the
// store's, verbatim.
type PersistError struct {
	Attribute hostnamed.Attribute
	Err       error
}

func (e *PersistError) Error() string { return e.Err.Error() }
func (e *PersistError) Unwrap() error { return e.Err }

// ApplyError means the kernel refused the new runtime hostname.
type ApplyError struct {
	Err error
}

func (e *ApplyError) Error() string { return e.Err.Error() }
func (e *ApplyError) Unwrap() error { return e.Err }
