// Package sheet reads and writes the three-sheet backup workbook.
//
// A Workbook is format neutral: decoded cells hold a string, a float64 for
// numeric cells, or a time.Time for typed date cells. Codecs translate it to
// and from a concrete file format.
package sheet

import (
	"context"
	"errors"
)

// Sheet names of the backup workbook.
const (
	Transactions = "Transacciones"
	Accounts     = "Cuentas"
	Categories   = "Categorías"
)

// Column headers written on export, in order.
var (
	TransactionColumns = []string{
		"ID_Transaccion", "Fecha", "Descripcion", "Monto", "Tipo",
		"ID_Categoria", "Nombre_Categoria", "ID_Cuenta", "Nombre_Cuenta", "Notas",
	}
	AccountColumns  = []string{"ID_Cuenta", "Nombre", "Tipo_Cuenta", "Saldo", "Color", "Icono"}
	CategoryColumns = []string{"ID_Categoria", "Nombre", "Color", "Tipo_Categoria", "Icono"}
)

// ErrUnknownFormat is returned when no codec handles a path or format name.
var ErrUnknownFormat = errors.New("unknown workbook format")

// Row maps a column header to its cell value. Empty cells are absent.
type Row map[string]any

// Sheet is one named table with a header row.
type Sheet struct {
	Name    string
	Columns []string
	Rows    []Row
}

// Workbook is an ordered set of sheets.
type Workbook struct {
	Sheets []*Sheet
}

// Sheet returns the sheet called name.
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Add appends s, replacing any sheet with the same name.
func (w *Workbook) Add(s *Sheet) {
	for i, existing := range w.Sheets {
		if existing.Name == s.Name {
			w.Sheets[i] = s
			return
		}
	}
	w.Sheets = append(w.Sheets, s)
}

// Codec converts a Workbook to and from files of one format.
type Codec interface {
	Format() string
	Decode(ctx context.Context, path string) (*Workbook, error)
	Encode(ctx context.Context, path string, wb *Workbook) error
}
