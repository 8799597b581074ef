package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gastozen-dev/gastozen/internal/ledger"
	"github.com/gastozen-dev/gastozen/internal/model"
)

const monthLayout = "2006-01"

func (a *app) money(d decimal.Decimal) string {
	return a.cfg.Display.CurrencySymbol + d.String()
}

func (a *app) today() string {
	return a.now().Format(model.DateLayout)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func (a *app) printTransactions(w io.Writer, e *ledger.Engine, txs []model.Transaction) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tDESCRIPTION\tAMOUNT\tCATEGORY\tACCOUNT")
	for _, tx := range txs {
		sign := "-"
		if tx.Type == model.TransactionTypeIncome {
			sign = "+"
		}
		cat, acct := "N/A", "N/A"
		if c, ok := e.Category(tx.CategoryID); ok {
			cat = c.Name
		}
		if ac, ok := e.Account(tx.AccountID); ok {
			acct = ac.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s%s\t%s\t%s\n", tx.ID, tx.Date, tx.Description, sign, a.money(tx.Amount), cat, acct)
	}
	return tw.Flush()
}

// resolveAccount finds an account by ID or, failing that, by case-insensitive
// name.
func resolveAccount(e *ledger.Engine, ref string) (model.Account, error) {
	if acct, ok := e.Account(ref); ok {
		return acct, nil
	}
	for _, acct := range e.Accounts() {
		if strings.EqualFold(acct.Name, ref) {
			return acct, nil
		}
	}
	return model.Account{}, fmt.Errorf("%w: %q", ledger.ErrAccountNotFound, ref)
}

// resolveCategory finds a category by ID or by case-insensitive name among
// categories of type t.
func resolveCategory(e *ledger.Engine, ref string, t model.TransactionType) (model.Category, error) {
	if cat, ok := e.Category(ref); ok {
		return cat, nil
	}
	for _, cat := range e.CategoriesByType(t) {
		if strings.EqualFold(cat.Name, ref) {
			return cat, nil
		}
	}
	return model.Category{}, fmt.Errorf("%w: no %s category %q", ledger.ErrCategoryNotFound, t, ref)
}

func parseMonth(s string, now time.Time) (int, time.Month, error) {
	if s == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("month %q is not in YYYY-MM format", s)
	}
	return t.Year(), t.Month(), nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q is not a number", s)
	}
	return d, nil
}
