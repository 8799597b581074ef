// Package ledger keeps account balances consistent with the transaction log.
//
// Every mutation is computed on copies of the collections, written to the
// store in one batch, and only then made visible. A rejected or failed
// operation leaves both memory and the store untouched.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/gastozen-dev/gastozen/internal/id"
	"github.com/gastozen-dev/gastozen/internal/model"
	"github.com/gastozen-dev/gastozen/internal/store"
)

// Theme is the persisted UI theme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Engine owns the accounts, categories and transactions of one data set.
type Engine struct {
	mu    sync.Mutex
	store store.Store
	log   *slog.Logger
	newID id.Generator

	accounts     []model.Account
	categories   []model.Category
	transactions []model.Transaction
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for warnings about inconsistent data.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithIDGenerator overrides how new entity IDs are minted.
func WithIDGenerator(gen id.Generator) Option {
	return func(e *Engine) { e.newID = gen }
}

// Open creates an Engine and loads its state from st. Missing accounts or
// categories are seeded with the defaults.
func Open(ctx context.Context, st store.Store, opts ...Option) (*Engine, error) {
	e := &Engine{
		store: st,
		log:   slog.Default(),
		newID: id.New,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.Reload(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Reload discards in-memory state and reads it again from the store.
func (e *Engine) Reload(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	txs, err := loadKey(ctx, e.store, store.KeyTransactions, []model.Transaction{})
	if err != nil {
		return err
	}
	accts, err := loadKey(ctx, e.store, store.KeyAccounts, DefaultAccounts())
	if err != nil {
		return err
	}
	cats, err := loadKey(ctx, e.store, store.KeyCategories, DefaultCategories())
	if err != nil {
		return err
	}

	e.transactions = txs
	e.accounts = accts
	e.categories = cats
	return nil
}

func loadKey[T any](ctx context.Context, st store.Store, key string, fallback T) (T, error) {
	raw, ok, err := st.Get(ctx, key)
	if err != nil {
		return fallback, fmt.Errorf("loading %s: %w", key, err)
	}
	if !ok {
		return fallback, nil
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return fallback, fmt.Errorf("decoding %s: %w", key, err)
	}
	return v, nil
}

// state is a candidate next version of the three collections.
type state struct {
	accounts     []model.Account
	categories   []model.Category
	transactions []model.Transaction
}

func (e *Engine) current() state {
	return state{
		accounts:     slices.Clone(e.accounts),
		categories:   slices.Clone(e.categories),
		transactions: slices.Clone(e.transactions),
	}
}

// commit persists next in one atomic write and then installs it.
func (e *Engine) commit(ctx context.Context, next state) error {
	values := make(map[string]string, 3)
	for key, v := range map[string]any{
		store.KeyTransactions: nonNil(next.transactions),
		store.KeyAccounts:     nonNil(next.accounts),
		store.KeyCategories:   nonNil(next.categories),
	} {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		values[key] = string(data)
	}
	if err := e.store.SetMany(ctx, values); err != nil {
		return fmt.Errorf("persisting ledger: %w", err)
	}

	e.accounts = next.accounts
	e.categories = next.categories
	e.transactions = next.transactions
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Accounts returns a copy of all accounts.
func (e *Engine) Accounts() []model.Account {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.accounts)
}

// Categories returns a copy of all categories.
func (e *Engine) Categories() []model.Category {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.categories)
}

// CategoriesByType returns the categories a transaction of type t may use.
func (e *Engine) CategoriesByType(t model.TransactionType) []model.Category {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []model.Category
	for _, c := range e.categories {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// Transactions returns a copy of all transactions, most recent first.
func (e *Engine) Transactions() []model.Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.transactions)
}

// Account returns an account by ID.
func (e *Engine) Account(accountID string) (model.Account, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := model.FindAccount(e.accounts, accountID); i >= 0 {
		return e.accounts[i], true
	}
	return model.Account{}, false
}

// Category returns a category by ID.
func (e *Engine) Category(categoryID string) (model.Category, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := model.FindCategory(e.categories, categoryID); i >= 0 {
		return e.categories[i], true
	}
	return model.Category{}, false
}

// Transaction returns a transaction by ID.
func (e *Engine) Transaction(txID string) (model.Transaction, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := model.FindTransaction(e.transactions, txID); i >= 0 {
		return e.transactions[i], true
	}
	return model.Transaction{}, false
}

// TotalBalance sums the balances of all accounts.
func (e *Engine) TotalBalance() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := decimal.Zero
	for _, a := range e.accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// Snapshot returns a copy of the full data set.
func (e *Engine) Snapshot() model.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return model.Snapshot{
		Accounts:     slices.Clone(e.accounts),
		Categories:   slices.Clone(e.categories),
		Transactions: slices.Clone(e.transactions),
	}
}

// Replace overwrites the whole data set with snap, persists it and reloads
// from the store. Used by import; no merge with existing data is attempted.
func (e *Engine) Replace(ctx context.Context, snap model.Snapshot) error {
	e.mu.Lock()
	next := state{
		accounts:     slices.Clone(snap.Accounts),
		categories:   slices.Clone(snap.Categories),
		transactions: slices.Clone(snap.Transactions),
	}
	SortByDate(next.transactions)
	err := e.commit(ctx, next)
	e.mu.Unlock()
	if err != nil {
		return err
	}
	return e.Reload(ctx)
}

// Reset deletes every persisted key, theme included, and reloads the defaults.
func (e *Engine) Reset(ctx context.Context) error {
	if err := e.store.Delete(ctx, store.Keys...); err != nil {
		return fmt.Errorf("resetting store: %w", err)
	}
	return e.Reload(ctx)
}

// Theme returns the persisted theme, light when unset.
func (e *Engine) Theme(ctx context.Context) (Theme, error) {
	t, err := loadKey(ctx, e.store, store.KeyTheme, ThemeLight)
	if err != nil {
		return ThemeLight, err
	}
	if t != ThemeDark {
		return ThemeLight, nil
	}
	return t, nil
}

// SetTheme persists the theme.
func (e *Engine) SetTheme(ctx context.Context, t Theme) error {
	if t != ThemeLight && t != ThemeDark {
		return reject(ErrInvalid, "unknown theme %q: use light or dark", t)
	}
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encoding theme: %w", err)
	}
	if err := e.store.SetMany(ctx, map[string]string{store.KeyTheme: string(data)}); err != nil {
		return fmt.Errorf("persisting theme: %w", err)
	}
	return nil
}
