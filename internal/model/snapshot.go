package model

import "github.com/shopspring/decimal"

// Snapshot is the complete persisted dataset.
type Snapshot struct {
	Accounts     []Account
	Categories   []Category
	Transactions []Transaction
}

// Draft is an unvalidated transaction suggested by the drafting assistant.
// CategoryName and AccountName are hints, not references.
type Draft struct {
	Description  string
	Amount       decimal.Decimal
	Type         TransactionType
	CategoryName string
	Date         string
	AccountName  string
}
