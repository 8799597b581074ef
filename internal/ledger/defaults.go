package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/gastozen-dev/gastozen/internal/model"
)

// DefaultCategories returns the category set seeded into an empty store.
func DefaultCategories() []model.Category {
	expense := model.TransactionTypeExpense
	income := model.TransactionTypeIncome
	return []model.Category{
		{ID: "cat-food", Name: "Alimentación", Color: "#EF4444", Type: expense, Icon: "🍔"},
		{ID: "cat-groceries", Name: "Supermercado", Color: "#F97316", Type: expense, Icon: "🛒"},
		{ID: "cat-transport", Name: "Transporte", Color: "#F59E0B", Type: expense, Icon: "🚗"},
		{ID: "cat-utilities", Name: "Servicios", Color: "#EAB308", Type: expense, Icon: "💡"},
		{ID: "cat-housing", Name: "Vivienda", Color: "#84CC16", Type: expense, Icon: "🏠"},
		{ID: "cat-health", Name: "Salud", Color: "#22C55E", Type: expense, Icon: "🏥"},
		{ID: "cat-entertainment", Name: "Entretenimiento", Color: "#10B981", Type: expense, Icon: "🎬"},
		{ID: "cat-shopping", Name: "Compras", Color: "#06B6D4", Type: expense, Icon: "🛍️"},
		{ID: "cat-personal", Name: "Cuidado Personal", Color: "#0EA5E9", Type: expense, Icon: "🧴"},
		{ID: "cat-education", Name: "Educación", Color: "#3B82F6", Type: expense, Icon: "📚"},
		{ID: "cat-gifts", Name: "Regalos/Donaciones", Color: "#6366F1", Type: expense, Icon: "🎁"},
		{ID: "cat-travel", Name: "Viajes", Color: "#8B5CF6", Type: expense, Icon: "✈️"},
		{ID: "cat-misc-expense", Name: model.FallbackExpenseCategory, Color: "#A855F7", Type: expense, Icon: "📎"},
		{ID: "cat-salary", Name: "Salario", Color: "#16A34A", Type: income, Icon: "💰"},
		{ID: "cat-freelance", Name: "Freelance/Bonos", Color: "#059669", Type: income, Icon: "💼"},
		{ID: "cat-investments", Name: "Inversiones", Color: "#047857", Type: income, Icon: "📈"},
		{ID: "cat-other-income", Name: model.FallbackIncomeCategory, Color: "#065F46", Type: income, Icon: "🪙"},
	}
}

// DefaultAccounts returns the accounts seeded into an empty store.
func DefaultAccounts() []model.Account {
	return []model.Account{
		{ID: "acc-checking", Name: "Cuenta Principal", Type: model.AccountTypeChecking, Balance: decimal.NewFromInt(1000), Color: "#3B82F6", Icon: "🏛️"},
		{ID: "acc-savings", Name: "Cuenta de Ahorros", Type: model.AccountTypeSavings, Balance: decimal.NewFromInt(5000), Color: "#22C55E", Icon: "🐷"},
		{ID: "acc-credit", Name: "Tarjeta de Crédito", Type: model.AccountTypeCreditCard, Balance: decimal.Zero, Color: "#EF4444", Icon: "💳"},
		{ID: "acc-cash", Name: "Efectivo", Type: model.AccountTypeCash, Balance: decimal.NewFromInt(150), Color: "#F97316", Icon: "💵"},
	}
}
