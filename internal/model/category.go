package model

// Fallback category names used when a transaction's category cannot be resolved.
const (
	FallbackExpenseCategory = "Gasto Diverso"
	FallbackIncomeCategory  = "Otro Ingreso"
)

// Category groups transactions of a single direction.
type Category struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Color string          `json:"color"`
	Type  TransactionType `json:"type"`
	Icon  string          `json:"icon,omitempty"`
}

// FindCategory returns the index of the category with the given ID, or -1.
func FindCategory(categories []Category, id string) int {
	for i := range categories {
		if categories[i].ID == id {
			return i
		}
	}
	return -1
}

// FallbackCategory picks the catch-all category for a transaction type:
// the one named after FallbackExpenseCategory/FallbackIncomeCategory, or else
// the first category of that type.
func FallbackCategory(categories []Category, t TransactionType) (Category, bool) {
	name := FallbackExpenseCategory
	if t == TransactionTypeIncome {
		name = FallbackIncomeCategory
	}
	for _, c := range categories {
		if c.Name == name && c.Type == t {
			return c, true
		}
	}
	for _, c := range categories {
		if c.Type == t {
			return c, true
		}
	}
	return Category{}, false
}
