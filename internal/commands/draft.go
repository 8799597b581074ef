package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gastozen-dev/gastozen/internal/assistant"
	"github.com/gastozen-dev/gastozen/internal/ledger"
)

func newDraftCommand(a *app) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "draft <text>",
		Short: "Turn a sentence like \"almuerzo 25mil ayer\" into a transaction",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return assistant.ErrEmptyInput
			}
			d, err := a.newDrafter(cmd.Context(), a.cfg.Assistant)
			if err != nil {
				return err
			}

			return a.withEngine(cmd.Context(), func(e *ledger.Engine) error {
				cats, accts := e.Categories(), e.Accounts()
				draft := assistant.Suggest(cmd.Context(), d, a.log, text, cats, accts)
				if draft == nil {
					return fmt.Errorf("%w for %q", assistant.ErrNoDraft, text)
				}
				n := assistant.Normalize(*draft, cats, accts)

				out := cmd.OutOrStdout()
				tw := newTable(out)
				fmt.Fprintf(tw, "Description\t%s\n", n.Description)
				fmt.Fprintf(tw, "Amount\t%s\n", a.money(n.Amount))
				fmt.Fprintf(tw, "Type\t%s\n", n.Type)
				fmt.Fprintf(tw, "Date\t%s\n", n.Date)
				if c, ok := e.Category(n.CategoryID); ok {
					fmt.Fprintf(tw, "Category\t%s\n", c.Name)
				}
				if ac, ok := e.Account(n.AccountID); ok {
					fmt.Fprintf(tw, "Account\t%s\n", ac.Name)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				if !save {
					return nil
				}

				tx, err := e.AddTransaction(cmd.Context(), n)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Recorded %s\n", tx.ID)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "record the drafted transaction")
	return cmd
}
