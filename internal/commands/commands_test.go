package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gastozen-dev/gastozen/internal/assistant"
	"github.com/gastozen-dev/gastozen/internal/commands"
	"github.com/gastozen-dev/gastozen/internal/config"
	"github.com/gastozen-dev/gastozen/internal/model"
)

var fixedNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

type fakeDrafter struct {
	draft *model.Draft
	err   error
}

func (f fakeDrafter) ParseDraft(_ context.Context, _ string, _ []model.Category, _ []model.Account) (*model.Draft, error) {
	return f.draft, f.err
}

type env struct {
	dir     string
	cfg     string
	drafter assistant.Drafter
	stdin   string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	return &env{dir: dir, cfg: filepath.Join(dir, config.FileName)}
}

func (e *env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := commands.NewRootCommand(
		commands.WithClock(func() time.Time { return fixedNow }),
		commands.WithDrafterFactory(func(context.Context, config.AssistantConfig) (assistant.Drafter, error) {
			if e.drafter == nil {
				return nil, assistant.ErrNotConfigured
			}
			return e.drafter, nil
		}),
	)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(e.stdin))
	root.SetArgs(append([]string{"--config", e.cfg}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, "gastozen %s", strings.Join(args, " "))
	return out
}

var recordedID = regexp.MustCompile(`Recorded (trans-\S+)`)

func (e *env) addTx(t *testing.T, args ...string) string {
	t.Helper()
	out := e.mustRun(t, append([]string{"tx", "add"}, args...)...)
	m := recordedID.FindStringSubmatch(out)
	require.Len(t, m, 2, "no transaction id in %q", out)
	return m[1]
}

func balanceOf(t *testing.T, out, account string) decimal.Decimal {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, account) {
			continue
		}
		fields := strings.Fields(line)
		d, err := decimal.NewFromString(strings.TrimPrefix(fields[len(fields)-1], "₲"))
		require.NoError(t, err)
		return d
	}
	t.Fatalf("account %s not listed in %q", account, out)
	return decimal.Zero
}

func TestInit_CreatesConfigAndStore(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "init")
	assert.Contains(t, out, "Initialized GastoZen")
	assert.Contains(t, out, "file store")

	cfg, err := config.Load(e.cfg)
	require.NoError(t, err)
	assert.Equal(t, config.BackendFile, cfg.Store.Backend)

	_, err = os.Stat(filepath.Join(e.dir, cfg.Store.Path))
	require.NoError(t, err, "store file should be written")
}

func TestInit_RefusesToOverwrite(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "init")

	_, err := e.run(t, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	e.mustRun(t, "init", "--force", "--backend", "sqlite")
	cfg, err := config.Load(e.cfg)
	require.NoError(t, err)
	assert.Equal(t, config.BackendSQLite, cfg.Store.Backend)
}

func TestTx_AddUpdatesBalance(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "init")

	out := e.mustRun(t, "tx", "add", "-d", "Almuerzo", "-a", "200", "-c", "alimentación")
	assert.Contains(t, out, "Cuenta Principal balance: ₲800")

	list := e.mustRun(t, "tx", "list")
	assert.Contains(t, list, "Almuerzo")
	assert.Contains(t, list, "2024-03-15")
	assert.Contains(t, list, "-₲200")
	assert.Contains(t, list, "Alimentación")
}

func TestTx_InsufficientFunds(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "init")

	_, err := e.run(t, "tx", "add", "-d", "Auto", "-a", "2000", "--account", "Efectivo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient funds")

	accts := e.mustRun(t, "account", "list")
	assert.True(t, decimal.NewFromInt(150).Equal(balanceOf(t, accts, "Efectivo")))
}

func TestTx_EditAndDelete(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "init")

	txID := e.addTx(t, "-d", "Sueldo", "-a", "500", "-t", "income", "-c", "Salario", "--account", "Efectivo")
	e.mustRun(t, "tx", "edit", txID, "-a", "300")
	accts := e.mustRun(t, "account", "list")
	assert.True(t, decimal.NewFromInt(450).Equal(balanceOf(t, accts, "Efectivo")))

	e.mustRun(t, "tx", "edit", txID, "--account", "acc-savings")
	accts = e.mustRun(t, "account", "list")
	assert.True(t, decimal.NewFromInt(150).Equal(balanceOf(t, accts, "Efectivo")))
	assert.True(t, decimal.NewFromInt(5300).Equal(balanceOf(t, accts, "Ahorros")))

	out := e.mustRun(t, "tx", "delete", txID)
	assert.Contains(t, out, "Deleted "+txID)
	accts = e.mustRun(t, "account", "list")
	assert.True(t, decimal.NewFromInt(5000).Equal(balanceOf(t, accts, "Ahorros")))
	assert.Contains(t, e.mustRun(t, "tx", "list"), "No transactions.")
}

func TestTx_ListFilters(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "init")
	e.addTx(t, "-d", "Marzo", "-a", "10")
	e.addTx(t, "-d", "Febrero", "-a", "10", "--date", "2024-02-10")
	e.addTx(t, "-d", "Enero", "-a", "10", "--date", "2024-01-10")

	out := e.mustRun(t, "tx", "list", "--month", "2024-02")
	assert.Contains(t, out, "Febrero")
	assert.NotContains(t, out, "Marzo")

	out = e.mustRun(t, "tx", "list", "-n", "1")
	assert.Contains(t, out, "Marzo")
	assert.NotContains(t, out, "Enero")

	_, err := e.run(t, "tx", "list", "--month", "marzo")
	require.Error(t, err)
}

func TestAccount_Lifecycle(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "init")

	out := e.mustRun(t, "account", "add", "--name", "Billetera", "--type", "cash", "--balance", "75")
	assert.Contains(t, out, "Created account Billetera")

	e.addTx(t, "-d", "Café", "-a", "25", "--account", "billetera")
	_, err := e.run(t, "account", "delete", "Billetera")
	require.Error(t, err, "account with transactions cannot be deleted")

	e.mustRun(t, "account", "edit", "Billetera", "--name", "Bolsillo", "--balance", "10")
	accts := e.mustRun(t, "account", "list")
	assert.True(t, decimal.NewFromInt(10).Equal(balanceOf(t, accts, "Bolsillo")))

	_, err = e.run(t, "account", "add", "--name", "Rara", "--type", "crypto")
	require.Error(t, err)
}

func TestCategory_Lifecycle(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "init")

	e.mustRun(t, "category", "add", "--name", "Mascotas", "--icon", "🐶")
	out := e.mustRun(t, "category", "list", "--type", "expense")
	assert.Contains(t, out, "Mascotas")
	assert.NotContains(t, out, "Salario")

	e.mustRun(t, "category", "edit", "mascotas", "--name", "Mascotas y Veterinaria")
	e.mustRun(t, "category", "delete", "Mascotas y Veterinaria")
	assert.NotContains(t, e.mustRun(t, "category", "list"), "Mascotas")

	_, err := e.run(t, "category", "delete", "cat-salary")
	require.NoError(t, err, "unused default category can be deleted")
}

func TestSummary(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "init")
	e.addTx(t, "-d", "Cine", "-a", "40", "-c", "Entretenimiento")
	e.addTx(t, "-d", "Sueldo", "-a", "100", "-t", "income")
	e.addTx(t, "-d", "Viejo", "-a", "5", "--date", "2024-01-02")

	out := e.mustRun(t, "summary")
	assert.Contains(t, out, "March 2024")
	assert.Contains(t, out, "₲6205")
	assert.Contains(t, out, "Entretenimiento")
	assert.Regexp(t, `Income\s+₲100`, out)
	assert.Regexp(t, `Expenses\s+₲40`, out)

	out = e.mustRun(t, "summary", "--month", "2024-01")
	assert.Regexp(t, `Expenses\s+₲5`, out)
}

func TestExportImport_RoundTrip(t *testing.T) {
	for _, target := range []string{"backup.xlsx", "backup"} {
		t.Run(target, func(t *testing.T) {
			e := newEnv(t)
			e.mustRun(t, "init")
			e.addTx(t, "-d", "Taxi", "-a", "50", "--account", "Efectivo", "-c", "Transporte")

			path := filepath.Join(e.dir, target)
			if target == "backup" {
				require.NoError(t, os.MkdirAll(path, 0o755))
			}
			out := e.mustRun(t, "export", path)
			assert.Contains(t, out, "Exported 1 transactions")

			e.mustRun(t, "reset", "--yes")
			out = e.mustRun(t, "import", path, "--yes")
			assert.Contains(t, out, "Read 1 transactions, 4 accounts")

			// The exported balance already includes the taxi expense and is
			// used as the base it is applied to again.
			accts := e.mustRun(t, "account", "list")
			assert.True(t, decimal.NewFromInt(50).Equal(balanceOf(t, accts, "Efectivo")))
			assert.Contains(t, e.mustRun(t, "tx", "list"), "Taxi")
		})
	}
}

func TestImport_DryRunAndCancel(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "init")
	e.addTx(t, "-d", "Pan", "-a", "5")
	path := filepath.Join(e.dir, "backup.xlsx")
	e.mustRun(t, "export", path)
	e.mustRun(t, "reset", "--yes")

	e.mustRun(t, "import", path, "--dry-run")
	assert.Contains(t, e.mustRun(t, "tx", "list"), "No transactions.")

	e.stdin = "n\n"
	out := e.mustRun(t, "import", path)
	assert.Contains(t, out, "Import cancelled.")
	assert.Contains(t, e.mustRun(t, "tx", "list"), "No transactions.")

	e.stdin = "y\n"
	e.mustRun(t, "import", path)
	assert.Contains(t, e.mustRun(t, "tx", "list"), "Pan")
}

func TestExport_UnknownFormat(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "init")
	_, err := e.run(t, "export", filepath.Join(e.dir, "backup.ods"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown")
}

func TestDraft(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "init")
	e.drafter = fakeDrafter{draft: &model.Draft{
		Description:  "Almuerzo",
		Amount:       decimal.NewFromInt(25),
		Type:         model.TransactionTypeExpense,
		CategoryName: "alimentación",
		Date:         "2024-03-14",
		AccountName:  "efectivo",
	}}

	out := e.mustRun(t, "draft", "almuerzo", "25", "ayer")
	assert.Contains(t, out, "Alimentación")
	assert.Contains(t, out, "Efectivo")
	assert.Contains(t, e.mustRun(t, "tx", "list"), "No transactions.")

	out = e.mustRun(t, "draft", "almuerzo 25 ayer", "--save")
	assert.Contains(t, out, "Recorded trans-")
	accts := e.mustRun(t, "account", "list")
	assert.True(t, decimal.NewFromInt(125).Equal(balanceOf(t, accts, "Efectivo")))
}

func TestDraft_Failures(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "init")

	_, err := e.run(t, "draft", "almuerzo")
	require.ErrorIs(t, err, assistant.ErrNotConfigured)

	e.drafter = fakeDrafter{err: assistant.ErrNoDraft}
	_, err = e.run(t, "draft", "almuerzo")
	require.ErrorIs(t, err, assistant.ErrNoDraft)
}

func TestThemeAndReset(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "init")

	assert.Equal(t, "light\n", e.mustRun(t, "theme"))
	assert.Equal(t, "dark\n", e.mustRun(t, "theme", "dark"))
	assert.Equal(t, "dark\n", e.mustRun(t, "theme"))
	_, err := e.run(t, "theme", "blue")
	require.Error(t, err)

	e.addTx(t, "-d", "Pan", "-a", "5")
	_, err = e.run(t, "reset")
	require.Error(t, err)

	out := e.mustRun(t, "reset", "--yes")
	assert.Contains(t, out, "₲6150")
	assert.Equal(t, "light\n", e.mustRun(t, "theme"))
	assert.Contains(t, e.mustRun(t, "tx", "list"), "No transactions.")
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("GASTOZEN_STORE_BACKEND", "sqlite")
	t.Setenv("GASTOZEN_STORE_PATH", "gastozen.db")
	e := newEnv(t)
	out := e.mustRun(t, "tx", "list")
	assert.Contains(t, out, "No transactions.")
	_, err := os.Stat(filepath.Join(e.dir, "gastozen.db"))
	require.NoError(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "--log-level", "verbose", "tx", "list")
	require.Error(t, err)
}
