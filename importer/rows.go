// Package importer loads court registers from CSV or XLSX into typed records.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported import format")
	ErrBadRow            = errors.New("malformed row")
)

// RowReader yields the header once and then data rows until io.EOF.
type RowReader interface {
	Header() []string
	Next() ([]string, error)
	Close() error
}

// Open picks a reader from the file extension of name.
func Open(name string, r io.Reader) (RowReader, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return NewCSVReader(r)
	case ".xlsx", ".xlsm":
		return NewXLSXReader(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

type csvReader struct {
	r      *csv.Reader
	header []string
}

// NewCSVReader reads a comma separated file whose first record is the header.
func NewCSVReader(r io.Reader) (RowReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	return &csvReader{r: cr, header: cleanHeader(header)}, nil
}

func (c *csvReader) Header() []string { return c.header }

func (c *csvReader) Next() ([]string, error) {
	rec, err := c.r.Read()
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return nil, fmt.Errorf("%w: %v", ErrBadRow, perr)
	}
	return rec, err
}

func (c *csvReader) Close() error { return nil }

type xlsxReader struct {
	f      *excelize.File
	rows   *excelize.Rows
	header []string
}

// NewXLSXReader reads the first sheet of a workbook. Cells are returned raw so
// date cells arrive as spreadsheet serial numbers.
func NewXLSXReader(r io.Reader) (RowReader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.Rows(sheets[0])
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	x := &xlsxReader{f: f, rows: rows}
	header, err := x.Next()
	if err != nil {
		x.Close()
		return nil, fmt.Errorf("failed to read xlsx header: %w", err)
	}
	x.header = cleanHeader(header)
	return x, nil
}

func (x *xlsxReader) Header() []string { return x.header }

func (x *xlsxReader) Next() ([]string, error) {
	if !x.rows.Next() {
		if err := x.rows.Error(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	return x.rows.Columns(excelize.Options{RawCellValue: true})
}

func (x *xlsxReader) Close() error {
	if err := x.rows.Close(); err != nil {
		x.f.Close()
		return err
	}
	return x.f.Close()
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}
