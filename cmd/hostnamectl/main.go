package main

import (
	"errors"
	"fmt"
	"os"

	"hostnamed/cmd/hostnamectl/cmdutil"
	historycmd "hostnamed/cmd/hostnamectl/history"
	setcmd "hostnamed/cmd/hostnamectl/set"
	statuscmd "hostnamed/cmd/hostnamectl/status"
	"hostnamed/cmd/hostnamectl/ui"
	"hostnamed/internal/buildinfo"
	"hostnamed/internal/identity"
	"hostnamed/internal/logging"

	"github.com/spf13/cobra"
)

func main() {
	var (
		debug   bool
		noColor bool
		flags   cmdutil.BusFlags
	)
	if err := logging.Configure(logging.LevelWarn); err != nil {
		_, _ = os.Stderr.WriteString("configure logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:           "hostnamectl",
		Short:         "Query and change the machine identity",
		Version:       buildinfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ui.ConfigureColor(noColor)
			level := logging.LevelWarn
			if debug {
				level = logging.LevelDebug
			}
			return logging.Configure(level)
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	flags.Bind(root)

	status := statuscmd.Cmd(&flags)
	root.AddCommand(status)
	root.AddCommand(setcmd.Cmds(&flags)...)
	root.AddCommand(historycmd.Cmd())
	// Bare "hostnamectl" shows status.
	root.RunE = status.RunE

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorMsg("%v", err))
		if errors.Is(err, identity.ErrNotAuthorized) {
			fmt.Fprintln(os.Stderr, ui.Muted("  hint: retry with --interactive or as root"))
		}
		os.Exit(1)
	}
}
