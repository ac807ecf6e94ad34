package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/quill/internal/ports/secondary"
	"github.com/example/quill/internal/wire"
)

// WatchCmd creates the watch command: the long-running engine loop that
// polls the ledger (and reacts to change events, when the backend
// provides them) until interrupted.
func WatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Continuously parse the ledger and print what appears",
		RunE: func(cmd *cobra.Command, args []string) error {
			selector, _ := cmd.Flags().GetString("selector")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return wire.EngineAdapter().Watch(ctx, secondary.Selector(selector))
		},
	}

	cmd.Flags().String("selector", string(secondary.SelectorAll), "Ledger slice: first, last, or all")
	return cmd
}
