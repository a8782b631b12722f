package bus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/godbus/dbus/v5"
)

const (
	KindSystem  = "system"
	KindSession = "session"

	connectMaxElapsed = 30 * time.Second
)

// Connect opens a private connection to the system or session bus. At
// boot the bus may come up after us, so failures are retried with
// exponential backoff until ctx ends or connectMaxElapsed passes. ctx
// bounds the retries only; the connection lives until Close.
func Connect(ctx context.Context, kind string) (*dbus.Conn, error) {
	var dial func(...dbus.ConnOption) (*dbus.Conn, error)
	switch kind {
	case "", KindSystem:
		dial = dbus.ConnectSystemBus
	case KindSession:
		dial = dbus.ConnectSessionBus
	default:
		return nil, fmt.Errorf("unknown bus kind %q", kind)
	}

	b := backoff.WithContext(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(100*time.Millisecond),
		backoff.WithMaxInterval(2*time.Second),
		backoff.WithMaxElapsedTime(connectMaxElapsed),
	), ctx)

	conn, err := backoff.RetryWithData(func() (*dbus.Conn, error) {
		conn, err := dial()
		if err != nil {
			slog.Debug("Retrying bus connection.", "bus", kind, "err", err)
			return nil, err
		}
		return conn, nil
	}, b)
	if err != nil {
		return nil, fmt.Errorf("connect to %s bus: %w", kindOrDefault(kind), err)
	}
	return conn, nil
}

func kindOrDefault(kind string) string {
	if kind == "" {
		return KindSystem
	}
	return kind
}
