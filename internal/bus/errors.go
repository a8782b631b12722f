package bus

import (
	"errors"

	"hostnamed/internal/identity"

	"github.com/godbus/dbus/v5"
)

const (
	ErrNameNotSupported     = "org.freedesktop.DBus.Error.NotSupported"
	ErrNameFailed           = "org.freedesktop.DBus.Error.Failed"
	ErrNameNotAuthorized    = "org.freedesktop.PolicyKit1.Error.NotAuthorized"
	ErrNameAuthorizationErr = "org.freedesktop.PolicyKit1.Error.Failed"
)

// toDBusError maps an engine error to the bus error the caller sees. The
// body carries the Go message.
func toDBusError(err error) *dbus.Error {
	if err == nil {
		return nil
	}
	name := ErrNameFailed
	var authErr *identity.AuthorizationError
	switch {
	case errors.Is(err, identity.ErrReadOnly):
		name = ErrNameNotSupported
	case errors.As(err, &authErr):
		name = ErrNameAuthorizationErr
	case errors.Is(err, identity.ErrNotAuthorized):
		name = ErrNameNotAuthorized
	}
	return dbus.NewError(name, []interface{}{err.Error()})
}

// fromDBusError maps a bus error received by a client back onto the
// engine's sentinels so callers can use errors.Is.
func fromDBusError(err error) error {
	var dbusErr dbus.Error
	var dbusErrPtr *dbus.Error
	switch {
	case errors.As(err, &dbusErrPtr):
		dbusErr = *dbusErrPtr
	case errors.As(err, &dbusErr):
	default:
		return err
	}
	msg := dbusErr.Error()
	switch dbusErr.Name {
	case ErrNameNotSupported:
		return &remoteError{msg: msg, kind: identity.ErrReadOnly}
	case ErrNameNotAuthorized:
		return &remoteError{msg: msg, kind: identity.ErrNotAuthorized}
	default:
		return err
	}
}

type remoteError struct {
	msg  string
	kind error
}

func (e *remoteError) Error() string { return e.msg }
func (e *remoteError) Unwrap() error { return e.kind }
