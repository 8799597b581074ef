package importer

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gastozen-dev/gastozen/internal/id"
	"github.com/gastozen-dev/gastozen/internal/ledger"
	"github.com/gastozen-dev/gastozen/internal/model"
	"github.com/gastozen-dev/gastozen/internal/sheet"
	"github.com/gastozen-dev/gastozen/internal/store"
)

var fixedNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

func newReconciler() *Reconciler {
	return NewReconciler(
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(id.Sequence()),
	)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func workbook(accounts, categories, txs []sheet.Row) *sheet.Workbook {
	wb := &sheet.Workbook{}
	wb.Add(&sheet.Sheet{Name: sheet.Transactions, Columns: sheet.TransactionColumns, Rows: txs})
	wb.Add(&sheet.Sheet{Name: sheet.Accounts, Columns: sheet.AccountColumns, Rows: accounts})
	wb.Add(&sheet.Sheet{Name: sheet.Categories, Columns: sheet.CategoryColumns, Rows: categories})
	return wb
}

var baseCategories = []sheet.Row{
	{"ID_Categoria": "cat-food", "Nombre": "Alimentación", "Tipo_Categoria": "Gasto"},
	{"ID_Categoria": "cat-misc", "Nombre": "Gasto Diverso", "Tipo_Categoria": "Gasto"},
	{"ID_Categoria": "cat-salary", "Nombre": "Salario", "Tipo_Categoria": "Ingreso"},
}

func TestReconcile_BaseBalancePlusTransactions(t *testing.T) {
	wb := workbook(
		[]sheet.Row{{"ID_Cuenta": "A", "Nombre": "Banco", "Tipo_Cuenta": "checking", "Saldo": 100.0}},
		baseCategories,
		[]sheet.Row{
			{"Fecha": "2025-01-02", "Descripcion": "Sueldo", "Monto": 50.0, "Tipo": "Ingreso", "ID_Categoria": "cat-salary", "ID_Cuenta": "A"},
			{"Fecha": "2025-01-03", "Descripcion": "Compra", "Monto": 30.0, "Tipo": "Gasto", "ID_Categoria": "cat-food", "ID_Cuenta": "A"},
		},
	)

	report, err := newReconciler().Reconcile(wb)
	require.NoError(t, err)
	require.Len(t, report.Snapshot.Accounts, 1)
	assert.True(t, report.Snapshot.Accounts[0].Balance.Equal(dec("120")))
	assert.Empty(t, report.Dropped)
}

func TestReconcile_ClampsAtZero(t *testing.T) {
	wb := workbook(
		[]sheet.Row{{"ID_Cuenta": "A", "Nombre": "Banco", "Saldo": "10"}},
		baseCategories,
		[]sheet.Row{{"Fecha": "2025-01-03", "Descripcion": "Compra", "Monto": "25", "Tipo": "Gasto", "ID_Categoria": "cat-food", "ID_Cuenta": "A"}},
	)

	report, err := newReconciler().Reconcile(wb)
	require.NoError(t, err)
	assert.True(t, report.Snapshot.Accounts[0].Balance.IsZero())
}

func TestReconcile_MissingSheet(t *testing.T) {
	for _, missing := range []string{sheet.Transactions, sheet.Accounts, sheet.Categories} {
		t.Run(missing, func(t *testing.T) {
			wb := &sheet.Workbook{}
			for _, name := range []string{sheet.Transactions, sheet.Accounts, sheet.Categories} {
				if name != missing {
					wb.Add(&sheet.Sheet{Name: name})
				}
			}
			_, err := newReconciler().Reconcile(wb)
			assert.ErrorIs(t, err, ErrMissingSheet)
			assert.Contains(t, err.Error(), missing)
		})
	}
}

func TestReconcile_Normalization(t *testing.T) {
	wb := workbook(
		[]sheet.Row{
			{"id": "acc-en", "name": "English", "type": "savings", "Saldo": 5.0},
			{"Nombre": "Sin ID", "Tipo_Cuenta": "crypto"},
		},
		[]sheet.Row{
			{"id": "cat-en", "name": "Bonus", "type": "income"},
			{"Nombre": "Suelta"},
		},
		nil,
	)

	report, err := newReconciler().Reconcile(wb)
	require.NoError(t, err)

	accts := report.Snapshot.Accounts
	require.Len(t, accts, 2)
	assert.Equal(t, model.Account{
		ID: "acc-en", Name: "English", Type: model.AccountTypeSavings,
		Balance: accts[0].Balance, Color: "#CCCCCC", Icon: "🏦",
	}, accts[0])
	assert.True(t, accts[0].Balance.Equal(dec("5")))
	assert.Equal(t, "importedAcc-1", accts[1].ID)
	assert.Equal(t, model.AccountTypeOther, accts[1].Type)
	assert.True(t, accts[1].Balance.IsZero())

	cats := report.Snapshot.Categories
	require.Len(t, cats, 2)
	assert.Equal(t, model.Category{ID: "cat-en", Name: "Bonus", Color: "#CCCCCC", Type: model.TransactionTypeIncome, Icon: "💰"}, cats[0])
	assert.Equal(t, model.Category{ID: "importedCat-1", Name: "Suelta", Color: "#CCCCCC", Type: model.TransactionTypeExpense, Icon: "📎"}, cats[1])
}

func TestReconcile_ResolvesReferences(t *testing.T) {
	accounts := []sheet.Row{
		{"ID_Cuenta": "A", "Nombre": "Banco"},
		{"ID_Cuenta": "B", "Nombre": "Efectivo", "Saldo": 1000.0},
	}
	txs := []sheet.Row{
		// by name, both references
		{"ID_Transaccion": "t1", "Fecha": "2025-01-01", "Descripcion": "by name", "Monto": 1.0, "Tipo": "Gasto", "Nombre_Categoria": "Alimentación", "Nombre_Cuenta": "Efectivo"},
		// unknown ids fall back
		{"ID_Transaccion": "t2", "Fecha": "2025-01-02", "Descripcion": "fallback", "Monto": 2.0, "Tipo": "Gasto", "ID_Categoria": "cat-gone", "ID_Cuenta": "Z"},
		// name matches a category of the other type: fallback income category
		{"ID_Transaccion": "t3", "Fecha": "2025-01-03", "Descripcion": "wrong type", "Monto": 3.0, "Tipo": "Ingreso", "Nombre_Categoria": "Alimentación", "ID_Cuenta": "B"},
		// English headers
		{"id": "t4", "date": "2025-01-04", "description": "english", "amount": "4", "type": "income", "categoryId": "cat-salary", "accountId": "B", "notes": "n"},
	}

	report, err := newReconciler().Reconcile(workbook(accounts, baseCategories, txs))
	require.NoError(t, err)
	require.Len(t, report.Snapshot.Transactions, 4)

	byID := map[string]model.Transaction{}
	for _, tx := range report.Snapshot.Transactions {
		byID[tx.ID] = tx
	}
	assert.Equal(t, "cat-food", byID["t1"].CategoryID)
	assert.Equal(t, "B", byID["t1"].AccountID)
	assert.Equal(t, "cat-misc", byID["t2"].CategoryID)
	assert.Equal(t, "A", byID["t2"].AccountID)
	assert.Equal(t, "cat-salary", byID["t3"].CategoryID)
	assert.Equal(t, model.TransactionTypeIncome, byID["t4"].Type)
	assert.Equal(t, "n", byID["t4"].Notes)
	assert.True(t, byID["t4"].Amount.Equal(dec("4")))

	// Sorted most recent first.
	assert.Equal(t, "t4", report.Snapshot.Transactions[0].ID)
}

func TestReconcile_DropsUnresolvableRows(t *testing.T) {
	wb := workbook(
		[]sheet.Row{{"ID_Cuenta": "A", "Nombre": "Banco", "Saldo": 10.0}},
		[]sheet.Row{{"ID_Categoria": "cat-food", "Nombre": "Alimentación", "Tipo_Categoria": "Gasto"}},
		[]sheet.Row{
			{"Fecha": "2025-01-01", "Descripcion": "ok", "Monto": 1.0, "Tipo": "Gasto", "ID_Cuenta": "A"},
			{"Fecha": "2025-01-01", "Descripcion": "no income category", "Monto": 5.0, "Tipo": "Ingreso", "ID_Cuenta": "A"},
		},
	)

	report, err := newReconciler().Reconcile(wb)
	require.NoError(t, err)
	require.Len(t, report.Snapshot.Transactions, 1)
	assert.Equal(t, "cat-food", report.Snapshot.Transactions[0].CategoryID)
	assert.Equal(t, "importedTx-1", report.Snapshot.Transactions[0].ID)

	require.Len(t, report.Dropped, 1)
	assert.Equal(t, 3, report.Dropped[0].Row)
	assert.Equal(t, "no income category", report.Dropped[0].Description)
	assert.True(t, report.Snapshot.Accounts[0].Balance.Equal(dec("9")))

	// No accounts at all: every row is dropped.
	report, err = newReconciler().Reconcile(workbook(nil, baseCategories, []sheet.Row{{"Monto": 1.0}}))
	require.NoError(t, err)
	assert.Empty(t, report.Snapshot.Transactions)
	assert.Len(t, report.Dropped, 1)
}

func TestReconcile_AmountCoercion(t *testing.T) {
	wb := workbook(
		[]sheet.Row{{"ID_Cuenta": "A", "Saldo": "abc"}},
		baseCategories,
		[]sheet.Row{
			{"Descripcion": "text", "Monto": "doce", "Tipo": "Ingreso"},
			{"Descripcion": "negative", "Monto": -7.5, "Tipo": "Ingreso"},
			{"Tipo": "Ingreso"},
		},
	)

	report, err := newReconciler().Reconcile(wb)
	require.NoError(t, err)
	txs := report.Snapshot.Transactions
	require.Len(t, txs, 3)
	assert.True(t, txs[0].Amount.IsZero())
	assert.True(t, txs[1].Amount.Equal(dec("7.5")))
	assert.Equal(t, "N/A", txs[2].Description)
	assert.Equal(t, "2025-06-15", txs[2].Date)
	assert.True(t, report.Snapshot.Accounts[0].Balance.Equal(dec("7.5")))
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"iso", "2025-02-03", "2025-02-03"},
		{"serial", 45658.0, "2025-01-01"},
		{"serial with time", 45658.75, "2025-01-01"},
		{"serial string", "45658", "2025-01-01"},
		{"native", time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC), "2024-12-31"},
		{"rfc3339", "2025-03-04T10:00:00Z", "2025-03-04"},
		{"slashes", "2025/03/04", "2025-03-04"},
		{"us", "03/04/2025", "2025-03-04"},
		{"words", "March 4, 2025", "2025-03-04"},
		{"invalid iso", "2025-13-40", "2025-06-15"},
		{"garbage", "mañana", "2025-06-15"},
		{"nil", nil, "2025-06-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeDate(tt.in, fixedNow))
		})
	}
}

func TestExport(t *testing.T) {
	snap := model.Snapshot{
		Accounts: []model.Account{
			{ID: "A", Name: "Banco", Type: model.AccountTypeChecking, Balance: dec("-5"), Color: "#111111", Icon: "🏛️"},
			{ID: "B", Name: "Caja", Type: model.AccountTypeCash, Balance: dec("12.5"), Color: "#222222"},
		},
		Categories: []model.Category{
			{ID: "cat-food", Name: "Alimentación", Color: "#EF4444", Type: model.TransactionTypeExpense, Icon: "🍔"},
			{ID: "cat-salary", Name: "Salario", Color: "#16A34A", Type: model.TransactionTypeIncome, Icon: "💰"},
		},
		Transactions: []model.Transaction{
			{ID: "t1", Date: "2025-01-02", Description: "Sueldo", Amount: dec("100"), Type: model.TransactionTypeIncome, CategoryID: "cat-salary", AccountID: "B"},
			{ID: "t2", Date: "2025-01-01", Description: "Huérfana", Amount: dec("3"), Type: model.TransactionTypeExpense, CategoryID: "cat-gone", AccountID: "Z", Notes: "x"},
		},
	}

	wb := Export(snap)
	require.Len(t, wb.Sheets, 3)

	txs, _ := wb.Sheet(sheet.Transactions)
	require.Len(t, txs.Rows, 2)
	assert.Equal(t, "Ingreso", txs.Rows[0]["Tipo"])
	assert.Equal(t, "Salario", txs.Rows[0]["Nombre_Categoria"])
	assert.Equal(t, "Caja", txs.Rows[0]["Nombre_Cuenta"])
	assert.Equal(t, "Gasto", txs.Rows[1]["Tipo"])
	assert.Equal(t, "N/A", txs.Rows[1]["Nombre_Categoria"])
	assert.Equal(t, "N/A", txs.Rows[1]["Nombre_Cuenta"])

	accts, _ := wb.Sheet(sheet.Accounts)
	assert.True(t, accts.Rows[0]["Saldo"].(decimal.Decimal).IsZero())
	assert.True(t, accts.Rows[1]["Saldo"].(decimal.Decimal).Equal(dec("12.5")))

	cats, _ := wb.Sheet(sheet.Categories)
	assert.Equal(t, "Ingreso", cats.Rows[1]["Tipo_Categoria"])
}

// Exporting and importing a live dataset treats the exported balance as a
// base and replays the transactions on top of it.
func TestRoundTrip_ReplaysOverExportedBalance(t *testing.T) {
	ctx := context.Background()
	for _, codec := range []sheet.Codec{&sheet.XLSXCodec{}, &sheet.CSVCodec{}} {
		t.Run(codec.Format(), func(t *testing.T) {
			eng, err := ledger.Open(ctx, store.NewMemory(), ledger.WithIDGenerator(id.Sequence()))
			require.NoError(t, err)
			_, err = eng.AddTransaction(ctx, ledger.NewTransaction{
				Date: "2025-01-10", Description: "Sueldo", Amount: dec("200"),
				Type: model.TransactionTypeIncome, CategoryID: "cat-salary", AccountID: "acc-cash",
			})
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), "backup."+codec.Format())
			require.NoError(t, Save(ctx, codec, path, eng.Snapshot()))

			report, err := newReconciler().Load(ctx, codec, path)
			require.NoError(t, err)
			require.NoError(t, eng.Replace(ctx, report.Snapshot))

			// 150 + 200 exported as 350, then +200 replayed.
			acct, ok := eng.Account("acc-cash")
			require.True(t, ok)
			assert.True(t, acct.Balance.Equal(dec("550")), "got %s", acct.Balance)
			assert.Len(t, eng.Categories(), 17)
			require.Len(t, eng.Transactions(), 1)
			assert.Equal(t, "trans-1", eng.Transactions()[0].ID)
			assert.Equal(t, "2025-01-10", eng.Transactions()[0].Date)
		})
	}
}
