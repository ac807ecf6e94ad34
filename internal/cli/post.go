package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/quill/internal/wire"
)

// PostCmd creates the post command: merge a board sub-document into the
// pinned ledger slice through the write queue. The command waits for the
// queue to drain before exiting, since a pending write dies with the
// process.
func PostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Merge board content into the pinned ledger slice",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			timeout, _ := cmd.Flags().GetDuration("timeout")

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read board content: %w", err)
			}

			if err := wire.EngineAdapter().Post(cmd.Context(), string(data)); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			if err := wire.QueueService().Flush(ctx); err != nil {
				return fmt.Errorf("write not applied before exit: %w", err)
			}
			fmt.Println("✓ Write applied")
			return nil
		},
	}

	cmd.Flags().String("file", "", "File holding the incoming sub-document text (required)")
	cmd.Flags().Duration("timeout", 30*time.Second, "How long to wait for the write queue to drain")
	cmd.MarkFlagRequired("file")
	return cmd
}
