package historycmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"hostnamed/cmd/hostnamectl/ui"
	"hostnamed/internal/journal"
	"hostnamed/platform"

	"github.com/spf13/cobra"
)

// Lister reads recorded changes, newest first.
type Lister interface {
	List(ctx context.Context, limit int) ([]journal.Entry, error)
}

// Cmd returns the "hostnamectl history" command. It reads the daemon's
// change journal directly, so it needs read access to the database.
func Cmd() *cobra.Command {
	var (
		path  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent identity changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			j, err := journal.Open(path)
			if err != nil {
				return err
			}
			defer j.Close()
			return Render(cmd.Context(), cmd.OutOrStdout(), j, limit)
		},
	}
	cmd.Flags().StringVar(&path, "journal", platform.JournalPath, "Change journal database")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (0 for all)")
	return cmd
}

// Render prints the newest limit entries as a table.
func Render(ctx context.Context, out io.Writer, l Lister, limit int) error {
	entries, err := l.List(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, ui.Muted("No changes recorded."))
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.At.Local().Format(time.DateTime),
			e.Attribute.String(),
			ui.Value(e.Value),
			ui.Value(e.Sender),
		})
	}
	fmt.Fprintln(out, ui.Table([]string{"TIME", "ATTRIBUTE", "VALUE", "SENDER"}, rows))
	return nil
}
