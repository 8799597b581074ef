package ledger

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gastozen-dev/gastozen/internal/model"
)

// UncategorizedName labels expenses whose category no longer exists.
const UncategorizedName = "Sin Categoría"

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Name   string
	Amount decimal.Decimal
}

// Summary is the dashboard view of one month.
type Summary struct {
	Year               int
	Month              time.Month
	TotalBalance       decimal.Decimal
	Income             decimal.Decimal
	Expenses           decimal.Decimal
	ExpensesByCategory []CategoryTotal // largest first
	Recent             []model.Transaction
}

// MonthlySummary totals income and expenses for a calendar month and lists
// up to recent of the latest transactions overall.
func (e *Engine) MonthlySummary(year int, month time.Month, recent int) Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Summary{
		Year:         year,
		Month:        month,
		TotalBalance: decimal.Zero,
		Income:       decimal.Zero,
		Expenses:     decimal.Zero,
	}
	for _, a := range e.accounts {
		s.TotalBalance = s.TotalBalance.Add(a.Balance)
	}

	byName := make(map[string]decimal.Decimal)
	var order []string
	for _, tx := range e.transactions {
		d, ok := tx.Time()
		if !ok || d.Year() != year || d.Month() != month {
			continue
		}
		if tx.Type == model.TransactionTypeIncome {
			s.Income = s.Income.Add(tx.Amount)
			continue
		}
		s.Expenses = s.Expenses.Add(tx.Amount)

		name := UncategorizedName
		if i := model.FindCategory(e.categories, tx.CategoryID); i >= 0 {
			name = e.categories[i].Name
		}
		if _, seen := byName[name]; !seen {
			order = append(order, name)
		}
		byName[name] = byName[name].Add(tx.Amount)
	}

	for _, name := range order {
		s.ExpensesByCategory = append(s.ExpensesByCategory, CategoryTotal{Name: name, Amount: byName[name]})
	}
	slices.SortStableFunc(s.ExpensesByCategory, func(a, b CategoryTotal) int {
		return b.Amount.Cmp(a.Amount)
	})

	if recent > len(e.transactions) {
		recent = len(e.transactions)
	}
	if recent > 0 {
		s.Recent = slices.Clone(e.transactions[:recent])
	}
	return s
}
