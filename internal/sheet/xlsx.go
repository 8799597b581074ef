package sheet

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// FormatXLSX is the format name of XLSXCodec.
const FormatXLSX = "xlsx"

// XLSXCodec reads and writes Excel workbooks.
type XLSXCodec struct{}

// Format returns "xlsx".
func (c *XLSXCodec) Format() string { return FormatXLSX }

// Decode reads every sheet of the workbook at path. The first row of each
// sheet is the header. Cells are read raw, so numeric dates arrive as their
// serial number.
func (c *XLSXCodec) Decode(ctx context.Context, path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("reading sheet %s: %w", name, err)
		}
		s := &Sheet{Name: name}
		if len(rows) == 0 {
			wb.Add(s)
			continue
		}
		for _, h := range rows[0] {
			s.Columns = append(s.Columns, strings.TrimSpace(h))
		}
		for r, rec := range rows[1:] {
			row := Row{}
			for col, raw := range rec {
				if col >= len(s.Columns) || s.Columns[col] == "" || raw == "" {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(col+1, r+2)
				if err != nil {
					return nil, err
				}
				row[s.Columns[col]] = cellValue(f, name, cell, raw)
			}
			if len(row) > 0 {
				s.Rows = append(s.Rows, row)
			}
		}
		wb.Add(s)
	}
	return wb, nil
}

// cellValue types a raw cell: numbers become float64, ISO date cells become
// time.Time, everything else stays a string.
func cellValue(f *excelize.File, sheet, cell, raw string) any {
	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		return raw
	}
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	case excelize.CellTypeDate:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t
			}
		}
	}
	return raw
}

// Encode writes wb to path, replacing any existing file.
func (c *XLSXCodec) Encode(ctx context.Context, path string, wb *Workbook) error {
	if len(wb.Sheets) == 0 {
		return errors.New("workbook has no sheets")
	}
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range wb.Sheets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				return fmt.Errorf("naming sheet %s: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", s.Name, err)
		}

		for col, header := range s.Columns {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(s.Name, cell, header); err != nil {
				return fmt.Errorf("writing %s!%s: %w", s.Name, cell, err)
			}
		}
		for r, row := range s.Rows {
			for col, header := range s.Columns {
				v, ok := row[header]
				if !ok || v == nil {
					continue
				}
				if d, ok := v.(decimal.Decimal); ok {
					v = d.InexactFloat64()
				}
				cell, err := excelize.CoordinatesToCellName(col+1, r+2)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(s.Name, cell, v); err != nil {
					return fmt.Errorf("writing %s!%s: %w", s.Name, cell, err)
				}
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}
