package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

type csvReader struct {
	r      *csv.Reader
	header header
}

func openCSV(data []byte) (Reader, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	first, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	h, err := newHeader(first)
	if err != nil {
		return nil, err
	}
	return &csvReader{r: r, header: h}, nil
}

func (c *csvReader) Next() (Row, error) {
	for {
		record, err := c.r.Read()
		if err != nil {
			return nil, err
		}
		if len(record) > len(c.header) {
			line, _ := c.r.FieldPos(0)
			return nil, fmt.Errorf("expected %d fields in line %d, saw %d", len(c.header), line, len(record))
		}
		if row, ok := c.header.build(record); ok {
			return row, nil
		}
	}
}

func (c *csvReader) Close() error { return nil }
