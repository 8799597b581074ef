package ledger

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gastozen-dev/gastozen/internal/id"
	"github.com/gastozen-dev/gastozen/internal/model"
)

// NewTransaction holds the fields of a transaction that does not have an ID yet.
type NewTransaction struct {
	Date        string
	Description string
	Amount      decimal.Decimal
	Type        model.TransactionType
	CategoryID  string
	AccountID   string
	Notes       string
}

func (n NewTransaction) withID(txID string) model.Transaction {
	return model.Transaction{
		ID:          txID,
		Date:        n.Date,
		Description: n.Description,
		Amount:      n.Amount,
		Type:        n.Type,
		CategoryID:  n.CategoryID,
		AccountID:   n.AccountID,
		Notes:       n.Notes,
	}
}

// validateFields checks the required-field rules a transaction form applies.
func validateFields(tx model.Transaction) error {
	var missing []string
	if tx.Date == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(tx.Description) == "" {
		missing = append(missing, "description")
	}
	if tx.CategoryID == "" {
		missing = append(missing, "category")
	}
	if tx.AccountID == "" {
		missing = append(missing, "account")
	}
	if len(missing) > 0 {
		return reject(ErrInvalid, "missing required fields: %s", strings.Join(missing, ", "))
	}
	if _, err := time.Parse(model.DateLayout, tx.Date); err != nil {
		return reject(ErrInvalid, "date %q is not in YYYY-MM-DD format", tx.Date)
	}
	if !tx.Type.Valid() {
		return reject(ErrInvalid, "transaction type must be income or expense, got %q", tx.Type)
	}
	if tx.Amount.IsNegative() {
		return reject(ErrInvalid, "amount must not be negative, got %s", tx.Amount.String())
	}
	return nil
}

// AddTransaction records a new transaction and books it onto its account.
// An expense larger than the account balance is rejected.
func (e *Engine) AddTransaction(ctx context.Context, n NewTransaction) (model.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx := n.withID(e.newID(id.Transaction))
	if err := validateFields(tx); err != nil {
		return model.Transaction{}, err
	}

	next := e.current()
	if err := CheckFunds(next.accounts, tx); err != nil {
		return model.Transaction{}, err
	}

	next.transactions = append([]model.Transaction{tx}, next.transactions...)
	SortByDate(next.transactions)
	if err := Apply(next.accounts, tx); err != nil {
		return model.Transaction{}, reject(ErrAccountNotFound, "account %q does not exist", tx.AccountID)
	}

	if err := e.commit(ctx, next); err != nil {
		return model.Transaction{}, err
	}
	return tx, nil
}

// UpdateTransaction replaces a stored transaction. The original's effect is
// reversed first, the new version is validated against the resulting
// balance, and then applied. Reversal and application are always two
// separate adjustments, which matters when the account changes.
func (e *Engine) UpdateTransaction(ctx context.Context, updated model.Transaction) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := model.FindTransaction(e.transactions, updated.ID)
	if idx < 0 {
		e.log.Error("original transaction not found for update", "id", updated.ID)
		return reject(ErrTransactionNotFound, "transaction %q not found", updated.ID)
	}
	if err := validateFields(updated); err != nil {
		return err
	}
	original := e.transactions[idx]
	next := e.current()

	// reverse
	if err := Reverse(next.accounts, original); err != nil {
		if !errors.Is(err, ErrAccountNotFound) {
			return err
		}
		e.log.Warn("original account missing while reversing transaction",
			"id", original.ID, "account", original.AccountID)
	}

	// validate
	if updated.Type == model.TransactionTypeExpense {
		i := model.FindAccount(next.accounts, updated.AccountID)
		if i < 0 {
			e.log.Error("target account not found for updated transaction", "id", updated.ID, "account", updated.AccountID)
			return reject(ErrAccountNotFound, "account %q does not exist", updated.AccountID)
		}
		effective := next.accounts[i].Balance
		if updated.Amount.GreaterThan(effective) {
			return reject(ErrInsufficientFunds,
				"insufficient funds in account %q to update this expense to %s: effective balance after reverting the original transaction is %s",
				next.accounts[i].Name, updated.Amount.String(), effective.String())
		}
	}

	// apply
	if err := Apply(next.accounts, updated); err != nil {
		return reject(ErrAccountNotFound, "account %q does not exist", updated.AccountID)
	}

	next.transactions[idx] = updated
	SortByDate(next.transactions)
	return e.commit(ctx, next)
}

// DeleteTransaction removes a transaction and reverses its effect. Deleting
// an income that would leave its account negative is rejected. Deleting an
// unknown ID is a no-op.
func (e *Engine) DeleteTransaction(ctx context.Context, txID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := model.FindTransaction(e.transactions, txID)
	if idx < 0 {
		return nil
	}
	tx := e.transactions[idx]
	next := e.current()

	if tx.Type == model.TransactionTypeIncome {
		if i := model.FindAccount(next.accounts, tx.AccountID); i >= 0 {
			after := next.accounts[i].Balance.Sub(tx.Amount)
			if after.IsNegative() {
				return reject(ErrNegativeBalance,
					"deleting this income of %s would leave account %q with a negative balance (%s); adjust other expenses or add funds first",
					tx.Amount.String(), next.accounts[i].Name, after.String())
			}
		}
	}

	if err := Reverse(next.accounts, tx); err != nil {
		if !errors.Is(err, ErrAccountNotFound) {
			return err
		}
		e.log.Warn("deleting transaction whose account no longer exists",
			"id", tx.ID, "account", tx.AccountID)
	}

	next.transactions = slices.Delete(next.transactions, idx, idx+1)
	return e.commit(ctx, next)
}
