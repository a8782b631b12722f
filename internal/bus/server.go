// Package bus exposes the identity engine on D-Bus as
// org.freedesktop.hostname1 and provides a matching client.
package bus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"hostnamed"
	"hostnamed/internal/identity"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
)

const (
	BusName   = "org.freedesktop.hostname1"
	Interface = "org.freedesktop.hostname1"
	Path      = dbus.ObjectPath("/org/freedesktop/hostname1")
)

var ErrNameTaken = errors.New("bus name already owned")

// Engine is the part of identity.Engine served on the bus.
type Engine interface {
	Set(ctx context.Context, req identity.Request) (identity.Result, error)
	Snapshot() hostnamed.Snapshot
}

// Server owns the exported object. It implements identity.Publisher so
// committed changes become PropertiesChanged signals.
type Server struct {
	conn   *dbus.Conn
	engine Engine
	ctx    context.Context

	mu    sync.Mutex
	props *prop.Properties
	owned bool
}

// NewServer prepares a server. Requests run with ctx, so cancelling it
// aborts outstanding authorization checks.
func NewServer(ctx context.Context, conn *dbus.Conn) *Server {
	return &Server{conn: conn, ctx: ctx}
}

// Export serves engine at Path: methods, properties and introspection
// data. Property values are seeded from the engine's current snapshot.
func (s *Server) Export(engine Engine) error {
	s.engine = engine
	snap := engine.Snapshot()
	attrs := make(map[string]*prop.Prop, len(hostnamed.Attributes()))
	for _, a := range hostnamed.Attributes() {
		attrs[a.String()] = &prop.Prop{
			Value:    snap.Get(a),
			Writable: false,
			Emit:     prop.EmitTrue,
		}
	}
	props, err := prop.Export(s.conn, Path, prop.Map{Interface: attrs})
	if err != nil {
		return fmt.Errorf("export properties: %w", err)
	}

	h := &handler{engine: s.engine, ctx: s.ctx}
	if err := s.conn.Export(h, Path, Interface); err != nil {
		return fmt.Errorf("export methods: %w", err)
	}

	node := &introspect.Node{
		Name: string(Path),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:       Interface,
				Methods:    introspect.Methods(h),
				Properties: props.Introspection(Interface),
			},
		},
	}
	if err := s.conn.Export(introspect.NewIntrospectable(node), Path, "org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("export introspection: %w", err)
	}

	s.mu.Lock()
	s.props = props
	s.mu.Unlock()
	return nil
}

// RequestName claims BusName without queueing behind another owner.
func (s *Server) RequestName() error {
	reply, err := s.conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("request name %s: %w", BusName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("request name %s: %w", BusName, ErrNameTaken)
	}
	s.mu.Lock()
	s.owned = true
	s.mu.Unlock()
	slog.Info("Acquired bus name.", "name", BusName)
	return nil
}

// Publish emits PropertiesChanged for a committed change.
func (s *Server) Publish(change hostnamed.Change) {
	s.mu.Lock()
	props := s.props
	s.mu.Unlock()
	if props == nil {
		return
	}
	props.SetMust(Interface, change.Attribute.String(), change.Value)
}

// WatchName blocks until ctx ends or BusName is taken away from us.
// Losing the name, or the connection, is reported as an error.
func (s *Server) WatchName(ctx context.Context) error {
	if err := s.conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameLost"),
		dbus.WithMatchArg(0, BusName),
	); err != nil {
		return fmt.Errorf("watch name %s: %w", BusName, err)
	}
	signals := make(chan *dbus.Signal, 8)
	s.conn.Signal(signals)
	defer s.conn.RemoveSignal(signals)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, ok := <-signals:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("bus connection closed")
			}
			if sig.Name != "org.freedesktop.DBus.NameLost" || len(sig.Body) == 0 || sig.Body[0] != BusName {
				continue
			}
			s.mu.Lock()
			s.owned = false
			s.mu.Unlock()
			return fmt.Errorf("lost bus name %s", BusName)
		}
	}
}

// Close releases the bus name and stops serving the object.
func (s *Server) Close() error {
	s.mu.Lock()
	owned := s.owned
	s.owned = false
	s.mu.Unlock()

	var errs []error
	if owned {
		if _, err := s.conn.ReleaseName(BusName); err != nil {
			errs = append(errs, fmt.Errorf("release name %s: %w", BusName, err))
		}
	}
	if err := s.conn.Export(nil, Path, Interface); err != nil {
		errs = append(errs, fmt.Errorf("unexport methods: %w", err))
	}
	return errors.Join(errs...)
}

// handler carries the exported methods. godbus fills dbus.Sender with
// the caller's unique name.
type handler struct {
	engine Engine
	ctx    context.Context
}

func (h *handler) set(sender dbus.Sender, attr hostnamed.Attribute, value string, interactive bool) *dbus.Error {
	_, err := h.engine.Set(h.ctx, identity.Request{
		Attribute:   attr,
		Value:       value,
		Sender:      string(sender),
		Interactive: interactive,
	})
	return toDBusError(err)
}

func (h *handler) SetHostname(sender dbus.Sender, name string, interactive bool) *dbus.Error {
	return h.set(sender, hostnamed.Hostname, name, interactive)
}

func (h *handler) SetStaticHostname(sender dbus.Sender, name string, interactive bool) *dbus.Error {
	return h.set(sender, hostnamed.StaticHostname, name, interactive)
}

func (h *handler) SetPrettyHostname(sender dbus.Sender, name string, interactive bool) *dbus.Error {
	return h.set(sender, hostnamed.PrettyHostname, name, interactive)
}

func (h *handler) SetIconName(sender dbus.Sender, name string, interactive bool) *dbus.Error {
	return h.set(sender, hostnamed.IconName, name, interactive)
}

func (h *handler) SetChassis(sender dbus.Sender, name string, interactive bool) *dbus.Error {
	return h.set(sender, hostnamed.Chassis, name, interactive)
}

func (h *handler) SetDeployment(sender dbus.Sender, name string, interactive bool) *dbus.Error {
	return h.set(sender, hostnamed.Deployment, name, interactive)
}

func (h *handler) SetLocation(sender dbus.Sender, name string, interactive bool) *dbus.Error {
	return h.set(sender, hostnamed.Location, name, interactive)
}
