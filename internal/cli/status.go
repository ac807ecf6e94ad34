package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/quill/internal/ports/secondary"
	"github.com/example/quill/internal/wire"
)

// StatusCmd creates the status command. The engine is stateless across
// restarts, so status first rebuilds state with one parse pass over the
// ledger, then renders the domain table.
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show accumulated domain state",
		RunE: func(cmd *cobra.Command, args []string) error {
			selector, _ := cmd.Flags().GetString("selector")

			adapter := wire.EngineAdapter()
			if _, err := wire.EngineService().RunParsePass(cmd.Context(), secondary.Selector(selector)); err != nil {
				return err
			}
			return adapter.Status()
		},
	}

	cmd.Flags().String("selector", string(secondary.SelectorAll), "Ledger slice: first, last, or all")
	return cmd
}
