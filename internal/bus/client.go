package bus

import (
	"context"
	"fmt"

	"hostnamed"

	"github.com/godbus/dbus/v5"
)

// caller is the subset of dbus.BusObject the client needs.
type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Client talks to a running hostnamed.
type Client struct {
	obj caller
}

func NewClient(conn *dbus.Conn) *Client {
	return &Client{obj: conn.Object(BusName, Path)}
}

// Status reads all seven properties in one GetAll call.
func (c *Client) Status(ctx context.Context) (hostnamed.Snapshot, error) {
	var props map[string]dbus.Variant
	call := c.obj.CallWithContext(ctx, "org.freedesktop.DBus.Properties.GetAll", 0, Interface)
	if err := call.Store(&props); err != nil {
		return hostnamed.Snapshot{}, fmt.Errorf("get %s properties: %w", Interface, err)
	}

	var snap hostnamed.Snapshot
	for _, a := range hostnamed.Attributes() {
		v, ok := props[a.String()]
		if !ok {
			continue
		}
		s, ok := v.Value().(string)
		if !ok {
			return hostnamed.Snapshot{}, fmt.Errorf("property %s has type %s, want string", a, v.Signature())
		}
		snap = snap.Set(a, s)
	}
	return snap, nil
}

// Set calls the Set* method for attr. Read-only and denial errors match
// identity.ErrReadOnly and identity.ErrNotAuthorized with errors.Is.
func (c *Client) Set(ctx context.Context, attr hostnamed.Attribute, value string, interactive bool) error {
	if !attr.Valid() {
		return fmt.Errorf("unknown attribute %d", attr)
	}
	method := Interface + ".Set" + attr.String()
	if call := c.obj.CallWithContext(ctx, method, 0, value, interactive); call.Err != nil {
		return fromDBusError(call.Err)
	}
	return nil
}
