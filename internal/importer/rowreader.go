package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// RowReader yields spreadsheet rows as string cells. The first row is the
// header row.
type RowReader interface {
	Rows() ([][]string, error)
}

// XLSXReader reads the first sheet of an uploaded .xlsx workbook.
type XLSXReader struct {
	file *excelize.File
}

// NewXLSXReader parses the uploaded workbook.
func NewXLSXReader(r io.Reader) (*XLSXReader, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &XLSXReader{file: file}, nil
}

// Rows returns every row of the first sheet.
func (x *XLSXReader) Rows() ([][]string, error) {
	sheets := x.file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := x.file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// Close releases the underlying workbook.
func (x *XLSXReader) Close() error {
	return x.file.Close()
}
