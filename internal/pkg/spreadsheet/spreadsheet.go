// Package spreadsheet reads tabular uploads into ordered rows of string
// cells keyed by header.
package spreadsheet

import (
	"bufio"
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrUnsupportedFormat is returned for files Read cannot parse.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	// ErrNoHeader is returned when the file has no non-empty row.
	ErrNoHeader = errors.New("spreadsheet has no header row")
)

// Row is one data line. Index is its 1-based position among data rows.
type Row struct {
	Index int
	cells map[string]string
}

// NewRow builds a row from header/value pairs, mainly for tests.
func NewRow(index int, cells map[string]string) Row {
	r := Row{Index: index, cells: make(map[string]string, len(cells))}
	for k, v := range cells {
		r.cells[HeaderKey(k)] = strings.TrimSpace(v)
	}
	return r
}

// Get returns the cell under column, or "" when the column is absent.
func (r Row) Get(column string) string {
	return r.cells[HeaderKey(column)]
}

// Has reports whether the row's sheet carried column.
func (r Row) Has(column string) bool {
	_, ok := r.cells[HeaderKey(column)]
	return ok
}

type Sheet struct {
	Header []string
	Rows   []Row
}

// HasColumn reports whether the header contains column.
func (s *Sheet) HasColumn(column string) bool {
	key := HeaderKey(column)
	for _, h := range s.Header {
		if HeaderKey(h) == key {
			return true
		}
	}
	return false
}

// HeaderKey is the case and whitespace insensitive form of a column name.
func HeaderKey(column string) string {
	return strings.ToLower(strings.TrimSpace(column))
}

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Read parses r as a spreadsheet. Zip containers are read as xlsx whatever
// the name says; legacy BIFF workbooks are rejected. Otherwise the extension
// of name picks the reader, and a name without one is read as an HTML table
// when the content looks like markup.
func Read(name string, r io.Reader) (*Sheet, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(oleMagic))

	switch {
	case bytes.HasPrefix(head, zipMagic):
		return readXLSX(br)
	case bytes.HasPrefix(head, oleMagic):
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q is an Excel 97-2003 workbook, save it as .xlsx", name)
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return readXLSX(br)
	case ".csv":
		return readCSV(br)
	case ".xls", ".html", ".htm":
		return readHTML(br)
	case "":
		if looksLikeMarkup(br) {
			return readHTML(br)
		}
	}
	return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", name)
}

func looksLikeMarkup(br *bufio.Reader) bool {
	head, _ := br.Peek(512)
	head = bytes.TrimSpace(bytes.TrimPrefix(head, utf8BOM))
	return len(head) > 0 && head[0] == '<'
}

// build turns raw records into a Sheet. The first record with content is the
// header; empty records are dropped and every cell is trimmed.
func build(records [][]string) (*Sheet, error) {
	start := -1
	for i, rec := range records {
		if !isEmpty(rec) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, ErrNoHeader
	}

	sheet := &Sheet{}
	for _, h := range records[start] {
		sheet.Header = append(sheet.Header, strings.TrimSpace(h))
	}

	for _, rec := range records[start+1:] {
		if isEmpty(rec) {
			continue
		}

		row := Row{Index: len(sheet.Rows) + 1, cells: make(map[string]string, len(sheet.Header))}
		for col, h := range sheet.Header {
			key := HeaderKey(h)
			if key == "" {
				continue
			}
			if _, dup := row.cells[key]; dup {
				continue
			}
			value := ""
			if col < len(rec) {
				value = strings.TrimSpace(rec[col])
			}
			row.cells[key] = value
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet, nil
}

func isEmpty(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
