package setcmd

import (
	"context"
	"fmt"
	"io"

	"hostnamed"
	"hostnamed/cmd/hostnamectl/cmdutil"
	"hostnamed/cmd/hostnamectl/ui"

	"github.com/spf13/cobra"
)

// Setter changes one attribute on the daemon and reads back what it
// committed.
type Setter interface {
	Set(ctx context.Context, attr hostnamed.Attribute, value string, interactive bool) error
	Status(ctx context.Context) (hostnamed.Snapshot, error)
}

var commands = []struct {
	use   string
	attr  hostnamed.Attribute
	short string
}{
	{"set-hostname", hostnamed.Hostname, "Set the transient (kernel) hostname"},
	{"set-static-hostname", hostnamed.StaticHostname, "Set the persistent hostname"},
	{"set-pretty-hostname", hostnamed.PrettyHostname, "Set the free-form pretty hostname"},
	{"set-icon-name", hostnamed.IconName, "Set the icon name"},
	{"set-chassis", hostnamed.Chassis, "Set the chassis type"},
	{"set-deployment", hostnamed.Deployment, "Set the deployment environment"},
	{"set-location", hostnamed.Location, "Set the location"},
}

// Cmds returns one set-* command per attribute. Omitting the value sends
// an empty string, which clears machine-info fields and resets hostnames
// to their fallback.
func Cmds(flags *cmdutil.BusFlags) []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(commands))
	for _, c := range commands {
		var interactive bool
		cmd := &cobra.Command{
			Use:   c.use + " [VALUE]",
			Short: c.short,
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				client, closeConn, err := cmdutil.Connect(cmd.Context(), flags)
				if err != nil {
					return err
				}
				defer closeConn()

				return Run(cmd.Context(), cmd.OutOrStdout(), client, c.attr, firstArg(args), interactive)
			},
		}
		cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Allow polkit to ask for a password")
		cmds = append(cmds, cmd)
	}
	return cmds
}

// Run performs one change and reports the committed value on out. The
// daemon may substitute a fallback for an invalid hostname.
func Run(ctx context.Context, out io.Writer, s Setter, attr hostnamed.Attribute, value string, interactive bool) error {
	if err := s.Set(ctx, attr, value, interactive); err != nil {
		return fmt.Errorf("set %s: %w", attr, err)
	}
	snap, err := s.Status(ctx)
	if err != nil {
		fmt.Fprintln(out, ui.SuccessMsg("%s change to %q accepted", attr, value))
		return fmt.Errorf("read back %s: %w", attr, err)
	}
	committed := snap.Get(attr)
	switch {
	case committed == "":
		fmt.Fprintln(out, ui.SuccessMsg("%s reset", attr))
	case committed != value:
		fmt.Fprintln(out, ui.SuccessMsg("%s set to %q %s", attr, committed, ui.Muted(fmt.Sprintf("(requested %q)", value))))
	default:
		fmt.Fprintln(out, ui.SuccessMsg("%s set to %q", attr, committed))
	}
	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
