package spreadsheet

import (
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const cellDateLayout = "2006-01-02 15:04:05"

// readXLSX reads the first worksheet. Cells keep their raw value, except
// date-formatted serial numbers, which are rendered as cellDateLayout.
func readXLSX(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeader
	}
	name := sheets[0]

	records, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q", name)
	}

	// serials count from 1904-01-01 in workbooks saved with the Mac date system
	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	dates := dateStyles{file: f, known: map[int]bool{}}
	for rowIdx, rec := range records {
		for colIdx, value := range rec {
			if value == "" {
				continue
			}
			serial, err := strconv.ParseFloat(value, 64)
			if err != nil {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				continue
			}
			if !dates.isDate(name, axis) {
				continue
			}
			if t, err := excelize.ExcelDateToTime(serial, date1904); err == nil {
				records[rowIdx][colIdx] = t.Format(cellDateLayout)
			}
		}
	}

	return build(records)
}

// dateStyles caches whether a style index carries a date number format.
type dateStyles struct {
	file  *excelize.File
	known map[int]bool
}

func (d dateStyles) isDate(sheet, axis string) bool {
	idx, err := d.file.GetCellStyle(sheet, axis)
	if err != nil || idx == 0 {
		return false
	}
	if v, ok := d.known[idx]; ok {
		return v
	}

	style, err := d.file.GetStyle(idx)
	isDate := err == nil && style != nil && isDateFormat(style.NumFmt, style.CustomNumFmt)
	d.known[idx] = isDate
	return isDate
}

func isDateFormat(numFmt int, custom *string) bool {
	switch {
	case numFmt >= 14 && numFmt <= 22,
		numFmt >= 27 && numFmt <= 36,
		numFmt >= 45 && numFmt <= 47,
		numFmt >= 50 && numFmt <= 58:
		return true
	}
	if custom == nil {
		return false
	}

	format := strings.ToLower(stripQuoted(*custom))
	if strings.Contains(format, "0.0") || strings.Contains(format, "#") {
		return false
	}
	return strings.Contains(format, "yy") || strings.Contains(format, "dd") || strings.Contains(format, "hh")
}

// stripQuoted drops literal text and escapes from a number format.
func stripQuoted(format string) string {
	var b strings.Builder
	quoted := false
	for i := 0; i < len(format); i++ {
		switch c := format[i]; {
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '\\':
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
