package ledger

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gastozen-dev/gastozen/internal/model"
)

// DeltaMode selects how ApplyDelta changes a balance.
type DeltaMode int

const (
	DeltaAdd DeltaMode = iota
	DeltaSubtract
	DeltaSet
)

// ApplyDelta changes the balance of accountID within accounts in place.
// It fails with ErrAccountNotFound when no account has that ID.
func ApplyDelta(accounts []model.Account, accountID string, amount decimal.Decimal, mode DeltaMode) error {
	i := model.FindAccount(accounts, accountID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}
	switch mode {
	case DeltaAdd:
		accounts[i].Balance = accounts[i].Balance.Add(amount)
	case DeltaSubtract:
		accounts[i].Balance = accounts[i].Balance.Sub(amount)
	case DeltaSet:
		accounts[i].Balance = amount
	default:
		return fmt.Errorf("unknown delta mode %d", mode)
	}
	return nil
}

// Apply books tx onto its account: +amount for income, -amount for expense.
func Apply(accounts []model.Account, tx model.Transaction) error {
	if tx.Type == model.TransactionTypeIncome {
		return ApplyDelta(accounts, tx.AccountID, tx.Amount, DeltaAdd)
	}
	return ApplyDelta(accounts, tx.AccountID, tx.Amount, DeltaSubtract)
}

// Reverse undoes the effect of tx on its account.
func Reverse(accounts []model.Account, tx model.Transaction) error {
	if tx.Type == model.TransactionTypeIncome {
		return ApplyDelta(accounts, tx.AccountID, tx.Amount, DeltaSubtract)
	}
	return ApplyDelta(accounts, tx.AccountID, tx.Amount, DeltaAdd)
}

// CheckFunds verifies that an expense fits in its account's balance as
// currently held in accounts. Income always passes.
func CheckFunds(accounts []model.Account, tx model.Transaction) error {
	i := model.FindAccount(accounts, tx.AccountID)
	if i < 0 {
		return reject(ErrAccountNotFound, "account %q does not exist", tx.AccountID)
	}
	if tx.Type != model.TransactionTypeExpense {
		return nil
	}
	acct := accounts[i]
	if tx.Amount.GreaterThan(acct.Balance) {
		return reject(ErrInsufficientFunds,
			"insufficient funds in account %q for an expense of %s: current balance is %s",
			acct.Name, tx.Amount.String(), acct.Balance.String())
	}
	return nil
}

// SortByDate orders transactions most recent first. Transactions with the
// same date keep their relative order.
func SortByDate(txs []model.Transaction) {
	slices.SortStableFunc(txs, func(a, b model.Transaction) int {
		return strings.Compare(b.Date, a.Date)
	})
}

// Replay computes balances from base balances plus every transaction that
// references each account.
func Replay(base []model.Account, txs []model.Transaction) []model.Account {
	out := slices.Clone(base)
	for _, tx := range txs {
		i := model.FindAccount(out, tx.AccountID)
		if i < 0 {
			continue
		}
		out[i].Balance = out[i].Balance.Add(tx.Effect())
	}
	return out
}
