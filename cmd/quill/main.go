package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/quill/internal/cli"
	"github.com/example/quill/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "quill",
		Short:   "quill - structured state from a generated chat ledger",
		Version: version.String(),
		Long: `quill turns an externally-generated chat transcript (the "ledger") into
structured, deduplicated domain state, and merges structured content back
into the ledger without racing the generator.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.ExtractCmd())
	rootCmd.AddCommand(cli.WatchCmd())
	rootCmd.AddCommand(cli.PostCmd())
	rootCmd.AddCommand(cli.FormatCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
