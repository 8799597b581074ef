// Package importer turns a backup workbook into a consistent dataset and
// writes datasets back out as workbooks.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gastozen-dev/gastozen/internal/id"
	"github.com/gastozen-dev/gastozen/internal/ledger"
	"github.com/gastozen-dev/gastozen/internal/model"
	"github.com/gastozen-dev/gastozen/internal/sheet"
)

// ErrMissingSheet is returned when the workbook lacks one of the three
// required sheets. Nothing is imported.
var ErrMissingSheet = errors.New("workbook is missing a required sheet")

const (
	defaultColor        = "#CCCCCC"
	defaultAccountIcon  = "🏦"
	defaultIncomeIcon   = "💰"
	defaultExpenseIcon  = "📎"
	defaultCategoryName = "Categoría Importada"
	defaultAccountName  = "Cuenta Importada"
	defaultDescription  = "N/A"
)

// Dropped is a transaction row that could not be resolved to both a
// category and an account.
type Dropped struct {
	Row         int // 1-based, header is row 1
	Description string
	Reason      string
}

// Report is the result of reconciling a workbook.
type Report struct {
	Snapshot model.Snapshot
	Dropped  []Dropped
}

// Reconciler normalizes imported rows and recomputes account balances.
type Reconciler struct {
	now   func() time.Time
	newID id.Generator
	log   *slog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithClock sets the source of "today" for unparseable dates.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// WithIDGenerator sets how IDs are minted for rows that lack one.
func WithIDGenerator(gen id.Generator) Option {
	return func(r *Reconciler) { r.newID = gen }
}

// WithLogger sets the logger used to report dropped rows.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) { r.log = l }
}

// NewReconciler creates a Reconciler.
func NewReconciler(opts ...Option) *Reconciler {
	r := &Reconciler{
		now:   time.Now,
		newID: id.New,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load decodes the workbook at path with codec and reconciles it.
func (r *Reconciler) Load(ctx context.Context, codec sheet.Codec, path string) (*Report, error) {
	wb, err := codec.Decode(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return r.Reconcile(wb)
}

// Reconcile builds a dataset from wb. Imported Saldo values are taken as the
// balance before any imported transaction; each account's final balance is
// that base plus its transactions, floored at zero.
func (r *Reconciler) Reconcile(wb *sheet.Workbook) (*Report, error) {
	acctSheet, ok := wb.Sheet(sheet.Accounts)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingSheet, sheet.Accounts)
	}
	catSheet, ok := wb.Sheet(sheet.Categories)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingSheet, sheet.Categories)
	}
	txSheet, ok := wb.Sheet(sheet.Transactions)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingSheet, sheet.Transactions)
	}

	categories := r.categories(catSheet.Rows)
	accounts := r.accounts(acctSheet.Rows)

	report := &Report{}
	today := r.now()
	var txs []model.Transaction
	for i, row := range txSheet.Rows {
		tx, reason := r.transaction(row, categories, accounts, today)
		if reason != "" {
			d := Dropped{Row: i + 2, Description: text(row, colTxDesc...), Reason: reason}
			r.log.Warn("dropping imported transaction", "row", d.Row, "description", d.Description, "reason", reason)
			report.Dropped = append(report.Dropped, d)
			continue
		}
		txs = append(txs, tx)
	}

	final := ledger.Replay(accounts, txs)
	for i := range final {
		if final[i].Balance.IsNegative() {
			final[i].Balance = decimal.Zero
		}
	}
	ledger.SortByDate(txs)

	report.Snapshot = model.Snapshot{
		Accounts:     final,
		Categories:   categories,
		Transactions: txs,
	}
	return report, nil
}

func (r *Reconciler) categories(rows []sheet.Row) []model.Category {
	out := make([]model.Category, 0, len(rows))
	for _, row := range rows {
		c := model.Category{
			ID:    text(row, colCatID...),
			Name:  textOr(row, defaultCategoryName, colCatName...),
			Color: textOr(row, defaultColor, colColor...),
			Type:  model.TransactionTypeExpense,
			Icon:  text(row, colIcon...),
		}
		if c.ID == "" {
			c.ID = r.newID(id.ImportedCategory)
		}
		if isIncome(row, "Tipo_Categoria") {
			c.Type = model.TransactionTypeIncome
		}
		if c.Icon == "" {
			c.Icon = defaultExpenseIcon
			if c.Type == model.TransactionTypeIncome {
				c.Icon = defaultIncomeIcon
			}
		}
		out = append(out, c)
	}
	return out
}

func (r *Reconciler) accounts(rows []sheet.Row) []model.Account {
	out := make([]model.Account, 0, len(rows))
	for _, row := range rows {
		a := model.Account{
			ID:      text(row, colAcctID...),
			Name:    textOr(row, defaultAccountName, colAcctName...),
			Type:    model.AccountType(text(row, colAcctType...)),
			Balance: number(row, colAcctBalance...),
			Color:   textOr(row, defaultColor, colColor...),
			Icon:    textOr(row, defaultAccountIcon, colIcon...),
		}
		if a.ID == "" {
			a.ID = r.newID(id.ImportedAccount)
		}
		if !a.Type.Valid() {
			a.Type = model.AccountTypeOther
		}
		out = append(out, a)
	}
	return out
}

// transaction normalizes one row. A non-empty reason means the row is dropped.
func (r *Reconciler) transaction(row sheet.Row, categories []model.Category, accounts []model.Account, today time.Time) (model.Transaction, string) {
	txType := model.TransactionTypeExpense
	if isIncome(row, "Tipo") {
		txType = model.TransactionTypeIncome
	}

	var date any
	for _, k := range colTxDate {
		if v, ok := row[k]; ok {
			date = v
			break
		}
	}

	categoryID := text(row, colTxCategoryID...)
	if categoryID == "" {
		if name := text(row, colTxCategory...); name != "" {
			for _, c := range categories {
				if c.Name == name && c.Type == txType {
					categoryID = c.ID
					break
				}
			}
		}
	}
	if categoryID == "" || model.FindCategory(categories, categoryID) < 0 {
		categoryID = ""
		if c, ok := model.FallbackCategory(categories, txType); ok {
			categoryID = c.ID
		}
	}

	accountID := text(row, colTxAccountID...)
	if accountID == "" {
		if name := text(row, colTxAccount...); name != "" {
			for _, a := range accounts {
				if a.Name == name {
					accountID = a.ID
					break
				}
			}
		}
	}
	if accountID == "" || model.FindAccount(accounts, accountID) < 0 {
		accountID = ""
		if len(accounts) > 0 {
			accountID = accounts[0].ID
		}
	}

	switch {
	case categoryID == "":
		return model.Transaction{}, fmt.Sprintf("no %s category to assign", txType)
	case accountID == "":
		return model.Transaction{}, "no account to assign"
	}

	tx := model.Transaction{
		ID:          text(row, colTxID...),
		Date:        normalizeDate(date, today),
		Description: textOr(row, defaultDescription, colTxDesc...),
		Amount:      number(row, colTxAmount...).Abs(),
		Type:        txType,
		CategoryID:  categoryID,
		AccountID:   accountID,
		Notes:       text(row, colTxNotes...),
	}
	if tx.ID == "" {
		tx.ID = r.newID(id.ImportedTransaction)
	}
	return tx, ""
}
