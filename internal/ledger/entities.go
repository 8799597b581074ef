package ledger

import (
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gastozen-dev/gastozen/internal/id"
	"github.com/gastozen-dev/gastozen/internal/model"
)

// NewAccount holds the fields of an account to create.
type NewAccount struct {
	Name           string
	Type           model.AccountType
	Color          string
	Icon           string
	InitialBalance decimal.Decimal
}

// NewCategory holds the fields of a category to create.
type NewCategory struct {
	Name  string
	Type  model.TransactionType
	Color string
	Icon  string
}

func validateAccount(a model.Account) error {
	if strings.TrimSpace(a.Name) == "" {
		return reject(ErrInvalid, "account name is required")
	}
	if !a.Type.Valid() {
		return reject(ErrInvalid, "unknown account type %q", a.Type)
	}
	return nil
}

func validateCategory(c model.Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return reject(ErrInvalid, "category name is required")
	}
	if !c.Type.Valid() {
		return reject(ErrInvalid, "category type must be income or expense, got %q", c.Type)
	}
	return nil
}

// AddAccount creates an account. A negative initial balance is clamped to zero.
func (e *Engine) AddAccount(ctx context.Context, n NewAccount) (model.Account, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	acct := model.Account{
		ID:      e.newID(id.Account),
		Name:    n.Name,
		Type:    n.Type,
		Balance: n.InitialBalance,
		Color:   n.Color,
		Icon:    n.Icon,
	}
	if err := validateAccount(acct); err != nil {
		return model.Account{}, err
	}
	if acct.Balance.IsNegative() {
		e.log.Warn("initial balance cannot be negative, using zero",
			"account", acct.Name, "balance", acct.Balance.String())
		acct.Balance = decimal.Zero
	}

	next := e.current()
	next.accounts = append(next.accounts, acct)
	if err := e.commit(ctx, next); err != nil {
		return model.Account{}, err
	}
	return acct, nil
}

// UpdateAccount replaces an account record, balance included. The balance is
// trusted as given except that it may not be negative.
func (e *Engine) UpdateAccount(ctx context.Context, updated model.Account) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := model.FindAccount(e.accounts, updated.ID)
	if idx < 0 {
		return reject(ErrAccountNotFound, "account %q not found", updated.ID)
	}
	if err := validateAccount(updated); err != nil {
		return err
	}
	if updated.Balance.IsNegative() {
		return reject(ErrNegativeBalance,
			"balance of account %q cannot be negative (%s); enter 0 or more",
			updated.Name, updated.Balance.String())
	}

	next := e.current()
	next.accounts[idx] = updated
	return e.commit(ctx, next)
}

// DeleteAccount removes an account that no transaction references.
func (e *Engine) DeleteAccount(ctx context.Context, accountID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if slices.ContainsFunc(e.transactions, func(t model.Transaction) bool { return t.AccountID == accountID }) {
		return reject(ErrInUse, "cannot delete an account with transactions; reassign or delete them first")
	}
	idx := model.FindAccount(e.accounts, accountID)
	if idx < 0 {
		return nil
	}

	next := e.current()
	next.accounts = slices.Delete(next.accounts, idx, idx+1)
	return e.commit(ctx, next)
}

// AddCategory creates a category.
func (e *Engine) AddCategory(ctx context.Context, n NewCategory) (model.Category, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cat := model.Category{
		ID:    e.newID(id.Category),
		Name:  n.Name,
		Type:  n.Type,
		Color: n.Color,
		Icon:  n.Icon,
	}
	if err := validateCategory(cat); err != nil {
		return model.Category{}, err
	}

	next := e.current()
	next.categories = append(next.categories, cat)
	if err := e.commit(ctx, next); err != nil {
		return model.Category{}, err
	}
	return cat, nil
}

// UpdateCategory replaces a category record.
func (e *Engine) UpdateCategory(ctx context.Context, updated model.Category) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := model.FindCategory(e.categories, updated.ID)
	if idx < 0 {
		return reject(ErrCategoryNotFound, "category %q not found", updated.ID)
	}
	if err := validateCategory(updated); err != nil {
		return err
	}

	next := e.current()
	next.categories[idx] = updated
	return e.commit(ctx, next)
}

// DeleteCategory removes a category that no transaction references.
func (e *Engine) DeleteCategory(ctx context.Context, categoryID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if slices.ContainsFunc(e.transactions, func(t model.Transaction) bool { return t.CategoryID == categoryID }) {
		return reject(ErrInUse, "cannot delete a category with transactions; reassign or delete them first")
	}
	idx := model.FindCategory(e.categories, categoryID)
	if idx < 0 {
		return nil
	}

	next := e.current()
	next.categories = slices.Delete(next.categories, idx, idx+1)
	return e.commit(ctx, next)
}
