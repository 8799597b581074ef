package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/gastozen-dev/gastozen/internal/ledger"
	"github.com/gastozen-dev/gastozen/internal/model"
)

func newAccountCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newAccountAddCommand(a))
	cmd.AddCommand(newAccountEditCommand(a))
	cmd.AddCommand(newAccountDeleteCommand(a))
	cmd.AddCommand(newAccountListCommand(a))
	return cmd
}

func newAccountAddCommand(a *app) *cobra.Command {
	var name, acctType, balance, color, icon string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			initial, err := parseAmount(balance)
			if err != nil {
				return err
			}
			return a.withEngine(cmd.Context(), func(e *ledger.Engine) error {
				acct, err := e.AddAccount(cmd.Context(), ledger.NewAccount{
					Name:           name,
					Type:           model.AccountType(acctType),
					Color:          color,
					Icon:           icon,
					InitialBalance: initial,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created account %s (%s) with balance %s\n", acct.Name, acct.ID, a.money(acct.Balance))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "account name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&acctType, "type", string(model.AccountTypeChecking), "checking, savings, credit_card, cash, investment or other")
	cmd.Flags().StringVar(&balance, "balance", "0", "initial balance")
	cmd.Flags().StringVar(&color, "color", "#3B82F6", "display color")
	cmd.Flags().StringVar(&icon, "icon", "", "display icon")
	return cmd
}

func newAccountEditCommand(a *app) *cobra.Command {
	var name, acctType, balance, color, icon string
	cmd := &cobra.Command{
		Use:   "edit <id|name>",
		Short: "Change an account; the balance is set as given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd.Context(), func(e *ledger.Engine) error {
				acct, err := resolveAccount(e, args[0])
				if err != nil {
					return err
				}
				changed := cmd.Flags().Changed
				if changed("name") {
					acct.Name = name
				}
				if changed("type") {
					acct.Type = model.AccountType(acctType)
				}
				if changed("balance") {
					var d decimal.Decimal
					if d, err = parseAmount(balance); err != nil {
						return err
					}
					acct.Balance = d
				}
				if changed("color") {
					acct.Color = color
				}
				if changed("icon") {
					acct.Icon = icon
				}
				if err := e.UpdateAccount(cmd.Context(), acct); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated account %s\n", acct.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "account name")
	cmd.Flags().StringVar(&acctType, "type", "", "account type")
	cmd.Flags().StringVar(&balance, "balance", "", "current balance")
	cmd.Flags().StringVar(&color, "color", "", "display color")
	cmd.Flags().StringVar(&icon, "icon", "", "display icon")
	return cmd
}

func newAccountDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id|name>",
		Aliases: []string{"rm"},
		Short:   "Delete an account without transactions",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd.Context(), func(e *ledger.Engine) error {
				acct, err := resolveAccount(e, args[0])
				if err != nil {
					return err
				}
				if err := e.DeleteAccount(cmd.Context(), acct.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted account %s\n", acct.Name)
				return nil
			})
		},
	}
}

func newAccountListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List accounts and balances",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEngine(cmd.Context(), func(e *ledger.Engine) error {
				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\tNAME\tTYPE\tBALANCE")
				for _, acct := range e.Accounts() {
					fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\n", acct.ID, acct.Icon, acct.Name, acct.Type, a.money(acct.Balance))
				}
				fmt.Fprintf(tw, "\t\tTOTAL\t%s\n", a.money(e.TotalBalance()))
				return tw.Flush()
			})
		},
	}
}
