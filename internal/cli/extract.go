package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/quill/internal/ports/secondary"
	"github.com/example/quill/internal/wire"
)

// ExtractCmd creates the extract command: a one-shot tokenization of a
// ledger slice against a single format, for inspecting what the engine
// would see.
func ExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract tokens of one format from the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatName, _ := cmd.Flags().GetString("format")
			selector, _ := cmd.Flags().GetString("selector")

			reg := wire.Registry()
			format, err := reg.Lookup(formatName)
			if err != nil {
				return err
			}

			text, err := wire.LedgerStore().ReadSlice(cmd.Context(), secondary.Selector(selector))
			if err != nil {
				return fmt.Errorf("failed to read ledger: %w", err)
			}

			records, err := reg.Extract(text, formatName)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No tokens found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprint(w, "OFFSET")
			for _, f := range format.Fields {
				fmt.Fprintf(w, "\t%s", f)
			}
			fmt.Fprintln(w)
			for _, rec := range records {
				fmt.Fprintf(w, "%d", rec.SourceOffset)
				for _, f := range format.Fields {
					fmt.Fprintf(w, "\t%s", rec.Field(f))
				}
				fmt.Fprintln(w)
			}
			return w.Flush()
		},
	}

	cmd.Flags().String("format", "", "Format name to extract (required)")
	cmd.Flags().String("selector", string(secondary.SelectorAll), "Ledger slice: first, last, or all")
	cmd.MarkFlagRequired("format")
	return cmd
}
