package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gastozen-dev/gastozen/internal/ledger"
)

func newThemeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Show or set the display theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(ledger.ThemeLight), string(ledger.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd.Context(), func(e *ledger.Engine) error {
				if len(args) == 1 {
					if err := e.SetTheme(cmd.Context(), ledger.Theme(args[0])); err != nil {
						return err
					}
				}
				t, err := e.Theme(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), t)
				return nil
			})
		},
	}
}

func newResetCommand(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all data and restore the default accounts and categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("reset deletes all data; pass --yes to confirm")
			}
			return a.withEngine(cmd.Context(), func(e *ledger.Engine) error {
				if err := e.Reset(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Data reset. Total balance: %s\n", a.money(e.TotalBalance()))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting all data")
	return cmd
}
