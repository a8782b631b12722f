package statuscmd

import (
	"context"
	"fmt"

	"hostnamed"
	"hostnamed/cmd/hostnamectl/cmdutil"
	"hostnamed/cmd/hostnamectl/ui"

	"github.com/spf13/cobra"
)

// Statuser reads the daemon's current identity.
type Statuser interface {
	Status(ctx context.Context) (hostnamed.Snapshot, error)
}

// Cmd returns the "hostnamectl status" command.
func Cmd(flags *cmdutil.BusFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the machine identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, closeConn, err := cmdutil.Connect(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer closeConn()

			out, err := Render(cmd.Context(), client)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// Render formats every attribute the way hostnamectl status prints it.
func Render(ctx context.Context, s Statuser) (string, error) {
	snap, err := s.Status(ctx)
	if err != nil {
		return "", err
	}
	return ui.KeyValues(
		ui.KV("Static hostname", ui.Value(snap.StaticHostname)),
		ui.KV("Transient hostname", ui.Value(snap.Hostname)),
		ui.KV("Pretty hostname", ui.Value(snap.PrettyHostname)),
		ui.KV("Icon name", ui.Value(snap.IconName)),
		ui.KV("Chassis", ui.Value(snap.Chassis)),
		ui.KV("Deployment", ui.Value(snap.Deployment)),
		ui.KV("Location", ui.Value(snap.Location)),
	), nil
}
