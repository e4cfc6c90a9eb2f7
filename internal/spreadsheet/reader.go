// Package spreadsheet reads uploaded tabular files (xlsx or csv) row by row.
// The first row is the header; each following row is returned as a map from
// header name to cell text.
package spreadsheet

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither xlsx nor csv.
	ErrUnsupportedFormat = errors.New("unsupported file format: upload an .xlsx or .csv file")
	// ErrNoHeader is returned for files without a header row.
	ErrNoHeader = errors.New("no columns to parse from file")
)

// Row maps header names to normalized cell values. Missing cells are absent.
type Row map[string]string

// Resolve returns the value of the first alias holding a non-empty value, or "".
func (r Row) Resolve(aliases ...string) string {
	for _, a := range aliases {
		if v := r[a]; v != "" {
			return v
		}
	}
	return ""
}

// Reader yields data rows in file order. Next returns io.EOF after the last row.
type Reader interface {
	Next() (Row, error)
	Close() error
}

var zipMagic = []byte("PK\x03\x04")

// Open picks a reader from the file extension, falling back to content sniffing.
func Open(filename string, data []byte) (Reader, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return openXLSX(data)
	case ".csv", ".txt":
		return openCSV(data)
	case ".xls":
		return nil, ErrUnsupportedFormat
	}
	if bytes.HasPrefix(data, zipMagic) {
		return openXLSX(data)
	}
	return nil, ErrUnsupportedFormat
}

// naValues mirrors the strings spreadsheet tools conventionally treat as missing.
var naValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// Normalize maps blank and NaN-like cells to "".
func Normalize(cell string) string {
	if _, ok := naValues[cell]; ok {
		return ""
	}
	return cell
}

// header holds column names by index; unnamed columns are "".
type header []string

func newHeader(cells []string) (header, error) {
	h := make(header, len(cells))
	seen := make(map[string]struct{}, len(cells))
	named := 0
	for i, c := range cells {
		name := Normalize(c)
		if name == "" {
			continue
		}
		// first occurrence of a duplicated name wins
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		h[i] = name
		named++
	}
	if named == 0 {
		return nil, ErrNoHeader
	}
	return h, nil
}

// build maps cells onto the header. It reports false for rows with no content.
func (h header) build(cells []string) (Row, bool) {
	row := make(Row, len(h))
	content := false
	for i, name := range h {
		if i >= len(cells) {
			break
		}
		v := Normalize(cells[i])
		if v != "" {
			content = true
		}
		if name != "" {
			row[name] = v
		}
	}
	for i := len(h); i < len(cells) && !content; i++ {
		content = Normalize(cells[i]) != ""
	}
	return row, content
}
