package cmdutil

import (
	"context"
	"fmt"

	"hostnamed/internal/bus"

	"github.com/spf13/cobra"
)

// BusFlags selects the bus hostnamectl talks to.
type BusFlags struct {
	Session bool
}

func (f *BusFlags) Bind(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&f.Session, "session", false, "Connect to the session bus instead of the system bus")
}

func (f *BusFlags) Kind() string {
	if f.Session {
		return bus.KindSession
	}
	return bus.KindSystem
}

// Connect dials the bus and returns a hostnamed client. The caller must
// call close when done.
func Connect(ctx context.Context, flags *BusFlags) (client *bus.Client, closeFn func() error, err error) {
	conn, err := bus.Connect(ctx, flags.Kind())
	if err != nil {
		return nil, nil, fmt.Errorf("connect to hostnamed: %w", err)
	}
	return bus.NewClient(conn), conn.Close, nil
}
