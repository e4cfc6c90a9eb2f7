package spreadsheet

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

type xlsxReader struct {
	file   *excelize.File
	rows   *excelize.Rows
	header header
}

func openXLSX(data []byte) (Reader, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		_ = f.Close()
		return nil, ErrNoHeader
	}
	rows, err := f.Rows(sheets[0])
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	x := &xlsxReader{file: f, rows: rows}
	for {
		cells, err := x.nextCells()
		if err != nil {
			_ = x.Close()
			if err == io.EOF {
				return nil, ErrNoHeader
			}
			return nil, err
		}
		if len(cells) == 0 {
			continue
		}
		h, err := newHeader(cells)
		if err != nil {
			_ = x.Close()
			return nil, err
		}
		x.header = h
		return x, nil
	}
}

// nextCells returns the raw (unformatted) values of the next sheet row.
func (x *xlsxReader) nextCells() ([]string, error) {
	if !x.rows.Next() {
		if err := x.rows.Error(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	return x.rows.Columns(excelize.Options{RawCellValue: true})
}

func (x *xlsxReader) Next() (Row, error) {
	for {
		cells, err := x.nextCells()
		if err != nil {
			return nil, err
		}
		if row, ok := x.header.build(cells); ok {
			return row, nil
		}
	}
}

func (x *xlsxReader) Close() error {
	if x.rows != nil {
		_ = x.rows.Close()
	}
	return x.file.Close()
}
