package cli

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/quill/internal/config"
	"github.com/example/quill/internal/core/markup"
	"github.com/example/quill/internal/wire"
)

// FormatCmd creates the format command group.
func FormatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format",
		Short: "Inspect and manage token formats",
	}
	cmd.AddCommand(formatListCmd())
	cmd.AddCommand(formatAddCmd())
	return cmd
}

func formatListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := wire.Registry()
			names := reg.Names()
			sort.Strings(names)

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFIELDS\tPATTERN")
			for _, name := range names {
				f, err := reg.Lookup(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%d\t%s\n", f.Name, len(f.Fields), f.Pattern)
			}
			return w.Flush()
		},
	}
}

func formatAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Register a custom format and persist it to the config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			pattern, _ := cmd.Flags().GetString("pattern")
			fields, _ := cmd.Flags().GetStringSlice("fields")

			// Validate against a scratch registry before touching the
			// config: a bad pattern must not end up persisted.
			scratch := markup.NewRegistry()
			if err := scratch.Register(name, pattern, fields); err != nil {
				return err
			}

			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve working directory: %w", err)
			}
			cfg, err := config.LoadConfig(cwd)
			if err != nil {
				return fmt.Errorf("not initialized (run 'quill init' first): %w", err)
			}
			for _, f := range cfg.CustomFormats {
				if f.Name == name {
					return fmt.Errorf("custom format %q already exists", name)
				}
			}

			cfg.CustomFormats = append(cfg.CustomFormats, config.FormatDef{
				Name:    name,
				Pattern: pattern,
				Fields:  fields,
			})
			if err := config.SaveConfig(cwd, cfg); err != nil {
				return err
			}
			fmt.Printf("✓ Added format %s (%d fields)\n", name, len(fields))
			return nil
		},
	}

	cmd.Flags().String("pattern", "", "Regular expression with one capture group per field (required)")
	cmd.Flags().StringSlice("fields", nil, "Ordered field names (required)")
	cmd.MarkFlagRequired("pattern")
	cmd.MarkFlagRequired("fields")
	return cmd
}
