package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the storage format of Transaction.Date.
const DateLayout = "2006-01-02"

// TransactionType is the direction of a transaction.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is income or expense.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is one income or expense. Amount is always a non-negative
// magnitude; Type carries the direction.
type Transaction struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"` // YYYY-MM-DD
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	CategoryID  string          `json:"categoryId"`
	AccountID   string          `json:"accountId"`
	Notes       string          `json:"notes,omitempty"`
}

// Effect returns the signed change this transaction makes to its account:
// +Amount for income, -Amount for expense.
func (t Transaction) Effect() decimal.Decimal {
	if t.Type == TransactionTypeIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}

// Time parses Date. The zero time is returned with ok=false when Date is not
// in DateLayout.
func (t Transaction) Time() (time.Time, bool) {
	d, err := time.Parse(DateLayout, t.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// FindTransaction returns the index of the transaction with the given ID, or -1.
func FindTransaction(txs []Transaction, id string) int {
	for i := range txs {
		if txs[i].ID == id {
			return i
		}
	}
	return -1
}
