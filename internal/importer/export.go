package importer

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gastozen-dev/gastozen/internal/model"
	"github.com/gastozen-dev/gastozen/internal/sheet"
)

const missingName = "N/A"

// Export builds the backup workbook for snap. Account balances are written
// floored at zero; references to deleted entities get the name "N/A".
func Export(snap model.Snapshot) *sheet.Workbook {
	catNames := make(map[string]string, len(snap.Categories))
	for _, c := range snap.Categories {
		catNames[c.ID] = c.Name
	}
	acctNames := make(map[string]string, len(snap.Accounts))
	for _, a := range snap.Accounts {
		acctNames[a.ID] = a.Name
	}
	lookup := func(m map[string]string, key string) string {
		if v, ok := m[key]; ok && v != "" {
			return v
		}
		return missingName
	}

	txs := &sheet.Sheet{Name: sheet.Transactions, Columns: sheet.TransactionColumns}
	for _, t := range snap.Transactions {
		txs.Rows = append(txs.Rows, sheet.Row{
			"ID_Transaccion":   t.ID,
			"Fecha":            t.Date,
			"Descripcion":      t.Description,
			"Monto":            t.Amount,
			"Tipo":             typeLabel(t.Type),
			"ID_Categoria":     t.CategoryID,
			"Nombre_Categoria": lookup(catNames, t.CategoryID),
			"ID_Cuenta":        t.AccountID,
			"Nombre_Cuenta":    lookup(acctNames, t.AccountID),
			"Notas":            t.Notes,
		})
	}

	accts := &sheet.Sheet{Name: sheet.Accounts, Columns: sheet.AccountColumns}
	for _, a := range snap.Accounts {
		accts.Rows = append(accts.Rows, sheet.Row{
			"ID_Cuenta":   a.ID,
			"Nombre":      a.Name,
			"Tipo_Cuenta": string(a.Type),
			"Saldo":       decimal.Max(decimal.Zero, a.Balance),
			"Color":       a.Color,
			"Icono":       a.Icon,
		})
	}

	cats := &sheet.Sheet{Name: sheet.Categories, Columns: sheet.CategoryColumns}
	for _, c := range snap.Categories {
		cats.Rows = append(cats.Rows, sheet.Row{
			"ID_Categoria":   c.ID,
			"Nombre":         c.Name,
			"Color":          c.Color,
			"Tipo_Categoria": typeLabel(c.Type),
			"Icono":          c.Icon,
		})
	}

	wb := &sheet.Workbook{}
	wb.Add(txs)
	wb.Add(accts)
	wb.Add(cats)
	return wb
}

// Save exports snap and writes it to path with codec.
func Save(ctx context.Context, codec sheet.Codec, path string, snap model.Snapshot) error {
	if err := codec.Encode(ctx, path, Export(snap)); err != nil {
		return fmt.Errorf("writing backup %s: %w", path, err)
	}
	return nil
}

func typeLabel(t model.TransactionType) string {
	if t == model.TransactionTypeIncome {
		return labelIncome
	}
	return labelExpense
}
