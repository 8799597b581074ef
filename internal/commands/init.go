package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gastozen-dev/gastozen/internal/config"
	"github.com/gastozen-dev/gastozen/internal/ledger"
)

func newInitCommand(a *app) *cobra.Command {
	var backend string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config file and seed the default accounts and categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(a.cfgPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", a.cfgPath)
			}
			if err := os.MkdirAll(a.dataDir(), 0o755); err != nil {
				return fmt.Errorf("creating data directory: %w", err)
			}

			cfg := a.cfg
			if cmd.Flags().Changed("backend") {
				cfg.Store.Backend = backend
			}
			if err := config.Save(a.cfgPath, cfg); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			// Persist the seeded defaults so the store is not empty.
			err := a.withEngine(cmd.Context(), func(e *ledger.Engine) error {
				return e.Replace(cmd.Context(), e.Snapshot())
			})
			if err != nil {
				return fmt.Errorf("seeding store: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized GastoZen at %s (%s store)\n", a.dataDir(), cfg.Store.Backend)
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", config.BackendFile, "store backend (file, sqlite, redis, memory)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}
