package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gastozen-dev/gastozen/internal/ledger"
)

func newSummaryCommand(a *app) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show balances, monthly totals and recent transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			year, m, err := parseMonth(month, a.now())
			if err != nil {
				return err
			}
			return a.withEngine(cmd.Context(), func(e *ledger.Engine) error {
				s := e.MonthlySummary(year, m, a.cfg.Display.RecentTransactions)
				out := cmd.OutOrStdout()

				fmt.Fprintf(out, "%s %d\n\n", s.Month, s.Year)
				tw := newTable(out)
				fmt.Fprintf(tw, "Total balance\t%s\n", a.money(s.TotalBalance))
				fmt.Fprintf(tw, "Income\t%s\n", a.money(s.Income))
				fmt.Fprintf(tw, "Expenses\t%s\n", a.money(s.Expenses))
				if err := tw.Flush(); err != nil {
					return err
				}

				if len(s.ExpensesByCategory) > 0 {
					fmt.Fprintln(out, "\nExpenses by category")
					tw = newTable(out)
					for _, ct := range s.ExpensesByCategory {
						fmt.Fprintf(tw, "  %s\t%s\n", ct.Name, a.money(ct.Amount))
					}
					if err := tw.Flush(); err != nil {
						return err
					}
				}

				fmt.Fprintln(out, "\nRecent transactions")
				if len(s.Recent) == 0 {
					fmt.Fprintln(out, "No transactions.")
					return nil
				}
				return a.printTransactions(out, e, s.Recent)
			})
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month to summarize as YYYY-MM (default current)")
	return cmd
}
