// Package polkit asks the system polkit authority whether a bus caller
// may perform an action.
package polkit

import (
	"context"
	"errors"
	"fmt"

	"hostnamed/internal/identity"

	"github.com/godbus/dbus/v5"
)

const (
	busName   = "org.freedesktop.PolicyKit1"
	objPath   = dbus.ObjectPath("/org/freedesktop/PolicyKit1/Authority")
	checkAuth = "org.freedesktop.PolicyKit1.Authority.CheckAuthorization"

	// CheckAuthorizationFlags
	flagNone                 uint32 = 0
	flagAllowUserInteraction uint32 = 1
)

var errInteractionRequired = errors.New("interactive authentication required")

type subject struct {
	Kind    string
	Details map[string]dbus.Variant
}

type authorizationResult struct {
	IsAuthorized bool
	IsChallenge  bool
	Details      map[string]string
}

// caller is the subset of dbus.BusObject used here.
type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Authority implements identity.Authorizer against
// org.freedesktop.PolicyKit1.
type Authority struct {
	obj caller
}

func New(conn *dbus.Conn) *Authority {
	return &Authority{obj: conn.Object(busName, objPath)}
}

// CheckAuthorization returns nil when sender is authorized for action.
// A negative answer wraps identity.ErrNotAuthorized; failing to obtain an
// answer at all returns a plain error.
func (a *Authority) CheckAuthorization(ctx context.Context, sender, action string, interactive bool) error {
	if sender == "" {
		return errors.New("polkit: empty bus sender")
	}
	if action == "" {
		return errors.New("polkit: empty action id")
	}

	flags := flagNone
	if interactive {
		flags = flagAllowUserInteraction
	}
	subj := subject{
		Kind:    "system-bus-name",
		Details: map[string]dbus.Variant{"name": dbus.MakeVariant(sender)},
	}

	call := a.obj.CallWithContext(ctx, checkAuth, 0, subj, action, map[string]string{}, flags, "")
	if call.Err != nil {
		return fmt.Errorf("polkit check for %s: %w", action, call.Err)
	}
	var res authorizationResult
	if err := call.Store(&res); err != nil {
		return fmt.Errorf("polkit check for %s: decode reply: %w", action, err)
	}

	switch {
	case res.IsAuthorized:
		return nil
	case res.IsChallenge:
		return fmt.Errorf("%w: %w", errInteractionRequired, identity.ErrNotAuthorized)
	default:
		return fmt.Errorf("%s: %w", action, identity.ErrNotAuthorized)
	}
}
