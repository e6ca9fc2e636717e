package workbook

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// Sheet is one table rendered as a header row plus data rows
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Write renders sheets into an .xlsx workbook on w
func Write(w io.Writer, sheets []Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for _, sheet := range sheets {
		if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet.Name, err)
		}

		if err := writeRow(f, sheet.Name, 1, sheet.Header); err != nil {
			return err
		}
		for i, row := range sheet.Rows {
			if err := writeRow(f, sheet.Name, i+2, row); err != nil {
				return err
			}
		}
	}

	if len(sheets) > 0 && !containsSheet(sheets, defaultSheet) {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("remove default sheet: %w", err)
		}
		if idx, err := f.GetSheetIndex(sheets[0].Name); err == nil {
			f.SetActiveSheet(idx)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, rowNum, err)
	}
	return nil
}

func containsSheet(sheets []Sheet, name string) bool {
	for _, s := range sheets {
		if s.Name == name {
			return true
		}
	}
	return false
}

// Book is a parsed workbook
type Book struct {
	sheets map[string][][]string
	names  []string
}

// Read parses an .xlsx workbook from r
func Read(r io.Reader) (*Book, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	book := &Book{sheets: make(map[string][][]string)}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		book.sheets[name] = rows
		book.names = append(book.names, name)
	}
	return book, nil
}

// SheetNames lists sheets in workbook order
func (b *Book) SheetNames() []string {
	return b.names
}

// Rows returns every row of the named sheet, header included. Trailing empty
// cells are trimmed by the reader so rows may be shorter than the header.
func (b *Book) Rows(name string) ([][]string, bool) {
	rows, ok := b.sheets[name]
	return rows, ok
}
