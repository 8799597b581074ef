package sheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatCSV is the format name of CSVCodec.
const FormatCSV = "csv"

const (
	csvExt    = ".csv"
	utf8BOM   = "\ufeff"
	dateValue = "2006-01-02"
)

// CSVCodec stores a workbook as a directory holding one <sheet>.csv per
// sheet. All decoded cells are strings.
type CSVCodec struct{}

// Format returns "csv".
func (c *CSVCodec) Format() string { return FormatCSV }

// Decode reads every .csv file in dir as a sheet named after the file.
func (c *CSVCodec) Decode(ctx context.Context, dir string) (*Workbook, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading workbook dir: %w", err)
	}

	wb := &Workbook{}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), csvExt) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		s, err := readSheet(filepath.Join(dir, e.Name()), name)
		if err != nil {
			return nil, err
		}
		wb.Add(s)
	}
	return wb, nil
}

func readSheet(path, name string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadSheet(f, name)
}

// ReadSheet reads one CSV table with a header row.
func ReadSheet(r io.Reader, name string) (*Sheet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", name, err)
	}

	s := &Sheet{Name: name}
	if len(records) == 0 {
		return s, nil
	}
	for i, h := range records[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		s.Columns = append(s.Columns, strings.TrimSpace(h))
	}
	for _, rec := range records[1:] {
		row := Row{}
		for col, v := range rec {
			if col >= len(s.Columns) || s.Columns[col] == "" || v == "" {
				continue
			}
			row[s.Columns[col]] = v
		}
		if len(row) > 0 {
			s.Rows = append(s.Rows, row)
		}
	}
	return s, nil
}

// Encode writes each sheet of wb to dir/<sheet>.csv, creating dir if needed.
func (c *CSVCodec) Encode(ctx context.Context, dir string, wb *Workbook) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating workbook dir: %w", err)
	}
	for _, s := range wb.Sheets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeSheet(filepath.Join(dir, s.Name+csvExt), s); err != nil {
			return err
		}
	}
	return nil
}

func writeSheet(path string, s *Sheet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteSheet(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteSheet writes s as CSV, header first.
func WriteSheet(w io.Writer, s *Sheet) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(s.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range s.Rows {
		rec := make([]string, len(s.Columns))
		for col, header := range s.Columns {
			rec[col] = CellString(row[header])
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CellString renders a cell value as text.
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case decimal.Decimal:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case time.Time:
		return x.Format(dateValue)
	default:
		return fmt.Sprint(x)
	}
}
