package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gastozen-dev/gastozen/internal/ledger"
	"github.com/gastozen-dev/gastozen/internal/model"
)

func newTxCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transaction"},
		Short:   "Record and manage transactions",
	}
	cmd.AddCommand(newTxAddCommand(a))
	cmd.AddCommand(newTxEditCommand(a))
	cmd.AddCommand(newTxDeleteCommand(a))
	cmd.AddCommand(newTxListCommand(a))
	return cmd
}

// txFlags are the form fields shared by tx add and tx edit.
type txFlags struct {
	date     string
	desc     string
	amount   string
	txType   string
	category string
	account  string
	notes    string
}

func (f *txFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&f.desc, "desc", "d", "", "description")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "amount, without sign")
	cmd.Flags().StringVarP(&f.txType, "type", "t", string(model.TransactionTypeExpense), "income or expense")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category ID or name (default first of the type)")
	cmd.Flags().StringVar(&f.account, "account", "", "account ID or name (default first account)")
	cmd.Flags().StringVar(&f.notes, "notes", "", "free-form notes")
}

func newTxAddCommand(a *app) *cobra.Command {
	var f txFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income or expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			amount, err := parseAmount(f.amount)
			if err != nil {
				return err
			}
			if f.date == "" {
				f.date = a.today()
			}
			return a.withEngine(cmd.Context(), func(e *ledger.Engine) error {
				n := ledger.NewTransaction{
					Date:        f.date,
					Description: f.desc,
					Amount:      amount,
					Type:        model.TransactionType(f.txType),
					Notes:       f.notes,
				}
				if n.CategoryID, err = categoryFor(e, f.category, n.Type); err != nil {
					return err
				}
				if n.AccountID, err = accountFor(e, f.account); err != nil {
					return err
				}

				tx, err := e.AddTransaction(cmd.Context(), n)
				if err != nil {
					return err
				}
				acct, _ := e.Account(tx.AccountID)
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s. %s balance: %s\n", tx.ID, a.money(tx.Amount), acct.Name, a.money(acct.Balance))
				return nil
			})
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("desc")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newTxEditCommand(a *app) *cobra.Command {
	var f txFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a transaction; only the given flags are updated",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd.Context(), func(e *ledger.Engine) error {
				tx, ok := e.Transaction(args[0])
				if !ok {
					return fmt.Errorf("%w: %q", ledger.ErrTransactionNotFound, args[0])
				}

				changed := cmd.Flags().Changed
				if changed("date") {
					tx.Date = f.date
				}
				if changed("desc") {
					tx.Description = f.desc
				}
				if changed("amount") {
					amount, err := parseAmount(f.amount)
					if err != nil {
						return err
					}
					tx.Amount = amount
				}
				if changed("type") {
					tx.Type = model.TransactionType(f.txType)
				}
				if changed("notes") {
					tx.Notes = f.notes
				}
				if changed("category") {
					cat, err := resolveCategory(e, f.category, tx.Type)
					if err != nil {
						return err
					}
					tx.CategoryID = cat.ID
				}
				if changed("account") {
					acct, err := resolveAccount(e, f.account)
					if err != nil {
						return err
					}
					tx.AccountID = acct.ID
				}

				if err := e.UpdateTransaction(cmd.Context(), tx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", tx.ID)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newTxDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a transaction and reverse its effect",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd.Context(), func(e *ledger.Engine) error {
				if err := e.DeleteTransaction(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newTxListCommand(a *app) *cobra.Command {
	var limit int
	var month string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List transactions, most recent first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEngine(cmd.Context(), func(e *ledger.Engine) error {
				txs := e.Transactions()
				if month != "" {
					year, m, err := parseMonth(month, a.now())
					if err != nil {
						return err
					}
					var filtered []model.Transaction
					for _, tx := range txs {
						if d, ok := tx.Time(); ok && d.Year() == year && d.Month() == m {
							filtered = append(filtered, tx)
						}
					}
					txs = filtered
				}
				if limit > 0 && len(txs) > limit {
					txs = txs[:limit]
				}
				if len(txs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No transactions.")
					return nil
				}
				return a.printTransactions(cmd.OutOrStdout(), e, txs)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n transactions")
	cmd.Flags().StringVar(&month, "month", "", "only transactions of this month (YYYY-MM)")
	return cmd
}

// categoryFor resolves a category flag, defaulting to the first category of
// type t like the entry form does.
func categoryFor(e *ledger.Engine, ref string, t model.TransactionType) (string, error) {
	if ref != "" {
		cat, err := resolveCategory(e, ref, t)
		if err != nil {
			return "", err
		}
		return cat.ID, nil
	}
	if cats := e.CategoriesByType(t); len(cats) > 0 {
		return cats[0].ID, nil
	}
	return "", nil
}

// accountFor resolves an account flag, defaulting to the first account.
func accountFor(e *ledger.Engine, ref string) (string, error) {
	if ref != "" {
		acct, err := resolveAccount(e, ref)
		if err != nil {
			return "", err
		}
		return acct.ID, nil
	}
	if accts := e.Accounts(); len(accts) > 0 {
		return accts[0].ID, nil
	}
	return "", nil
}
