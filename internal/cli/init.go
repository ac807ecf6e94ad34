package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/quill/internal/config"
	"github.com/example/quill/internal/db"
)

// InitCmd creates the init command.
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize quill in the current directory",
		Long:  "Create .quill/config.json and, for the sqlite backend, the chat store schema.",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, _ := cmd.Flags().GetString("backend")
			ledgerPath, _ := cmd.Flags().GetString("ledger")
			dbPath, _ := cmd.Flags().GetString("db")

			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve working directory: %w", err)
			}
			if _, err := config.LoadConfig(cwd); err == nil {
				return fmt.Errorf("already initialized: .quill/config.json exists")
			}

			cfg := config.Default()
			switch backend {
			case config.BackendSqlite:
				cfg.DBPath = dbPath
				database, err := db.Open(dbPath)
				if err != nil {
					return err
				}
				database.Close()
			case config.BackendFile:
				if ledgerPath == "" {
					return fmt.Errorf("--ledger is required for the file backend")
				}
				cfg.Backend = config.BackendFile
				cfg.Ledger = ledgerPath
			default:
				return fmt.Errorf("unknown backend %q (want %q or %q)", backend, config.BackendSqlite, config.BackendFile)
			}

			if err := config.SaveConfig(cwd, cfg); err != nil {
				return err
			}
			fmt.Printf("✓ Initialized quill (%s backend)\n", cfg.Backend)
			return nil
		},
	}

	cmd.Flags().String("backend", config.BackendSqlite, "Ledger backend: sqlite or file")
	cmd.Flags().String("ledger", "", "Transcript path (file backend)")
	cmd.Flags().String("db", "", "Chat store path (sqlite backend, default ~/.quill/quill.db)")
	return cmd
}
