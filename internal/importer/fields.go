package importer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gastozen-dev/gastozen/internal/model"
	"github.com/gastozen-dev/gastozen/internal/sheet"
)

// Type labels of the Tipo and Tipo_Categoria columns.
const (
	labelIncome  = "Ingreso"
	labelExpense = "Gasto"
)

// Backups written by older versions used English headers. Each field lists
// the Spanish header first.
var (
	colTxID         = []string{"ID_Transaccion", "id"}
	colTxDate       = []string{"Fecha", "date"}
	colTxDesc       = []string{"Descripcion", "description"}
	colTxAmount     = []string{"Monto", "amount"}
	colTxCategoryID = []string{"ID_Categoria", "categoryId"}
	colTxCategory   = []string{"Nombre_Categoria", "categoryName"}
	colTxAccountID  = []string{"ID_Cuenta", "accountId"}
	colTxAccount    = []string{"Nombre_Cuenta", "accountName"}
	colTxNotes      = []string{"Notas", "notes"}
	colAcctID       = []string{"ID_Cuenta", "id"}
	colAcctName     = []string{"Nombre", "name"}
	colAcctType     = []string{"Tipo_Cuenta", "type"}
	colAcctBalance  = []string{"Saldo"}
	colCatID        = []string{"ID_Categoria", "id"}
	colCatName      = []string{"Nombre", "name"}
	colColor        = []string{"Color", "color"}
	colIcon         = []string{"Icono", "icon"}
)

var (
	excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	isoDate    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	freeFormLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006/01/02",
		"2006/1/2",
		"01/02/2006",
		"1/2/2006",
		"Jan 2, 2006",
		"January 2, 2006",
		"2 Jan 2006",
		"2 January 2006",
		"Mon Jan 02 2006",
		time.RFC1123,
		time.RFC1123Z,
	}
)

// text returns the first non-empty value among keys, rendered as a string.
func text(r sheet.Row, keys ...string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(sheet.CellString(r[k])); s != "" {
			return s
		}
	}
	return ""
}

func textOr(r sheet.Row, def string, keys ...string) string {
	if s := text(r, keys...); s != "" {
		return s
	}
	return def
}

// isIncome reports whether a row's type column marks income. Anything else
// is an expense.
func isIncome(r sheet.Row, spanish string) bool {
	return text(r, spanish) == labelIncome || text(r, "type") == string(model.TransactionTypeIncome)
}

// number coerces a cell to a decimal. Non-numeric values become zero.
func number(r sheet.Row, keys ...string) decimal.Decimal {
	for _, k := range keys {
		switch v := r[k].(type) {
		case nil:
			continue
		case float64:
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return decimal.Zero
			}
			return decimal.NewFromFloat(v)
		case decimal.Decimal:
			return v
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			d, err := decimal.NewFromString(s)
			if err != nil {
				return decimal.Zero
			}
			return d
		default:
			return decimal.Zero
		}
	}
	return decimal.Zero
}

// normalizeDate turns a date cell into YYYY-MM-DD. Typed dates are used as
// is, numbers (and numeric strings) are spreadsheet serials, and strings are
// tried against common layouts. Anything else is today.
func normalizeDate(v any, today time.Time) string {
	switch x := v.(type) {
	case time.Time:
		return x.UTC().Format(model.DateLayout)
	case float64:
		return fromSerial(x)
	case string:
		s := strings.TrimSpace(x)
		if isoDate.MatchString(s) {
			if _, err := time.Parse(model.DateLayout, s); err == nil {
				return s
			}
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return fromSerial(f)
		}
		for _, layout := range freeFormLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC().Format(model.DateLayout)
			}
		}
	}
	return today.Format(model.DateLayout)
}

func fromSerial(days float64) string {
	d := time.Duration(math.Round(days * float64(24*time.Hour)))
	return excelEpoch.Add(d).Format(model.DateLayout)
}
