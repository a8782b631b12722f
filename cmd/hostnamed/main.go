package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"hostnamed/config"
	daemonruntime "hostnamed/daemon"
	"hostnamed/internal/buildinfo"
	"hostnamed/internal/logging"

	"github.com/spf13/cobra"
)

func main() {
	if err := logging.Configure(logging.LevelInfo); err != nil {
		_, _ = os.Stderr.WriteString("configure logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := rootCmd().Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		debug      bool
		readOnly   bool
		cfg        config.Config
	)

	cmd := &cobra.Command{
		Use:           "hostnamed",
		Short:         "Machine identity daemon (org.freedesktop.hostname1)",
		Version:       buildinfo.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if debug {
				cfg.LogLevel = logging.LevelDebug
			}
			if cmd.Flags().Changed("read-only") {
				cfg.ReadOnly = readOnly
			}
			return logging.ConfigureWith(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return daemonruntime.Run(ctx, cfg)
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&configPath, "config", config.Path(), "Config file path")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Reject every change request")
	return cmd
}
