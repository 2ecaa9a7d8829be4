package loader

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"boardroom/domain/core"
	"boardroom/domain/dataset"

	"github.com/xuri/excelize/v2"
)

// readExcel reads the first worksheet. The first row is the header; rows
// wider than it get positional "Unnamed: n" columns. Cells are read raw so
// number formats never leak into values, and date-styled serials become
// timestamps.
func readExcel(data []byte) (*dataset.Dataset, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.ErrEmptyInput
	}
	sheet := sheets[0]
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, core.ErrEmptyInput
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	header := make([]string, width)
	copy(header, rows[0])
	names := dataset.UniqueNames(header)

	dates := newDateStyles(f)
	columns := make([][]dataset.Value, width)
	for j := range columns {
		columns[j] = make([]dataset.Value, len(rows)-1)
	}
	for i, row := range rows[1:] {
		for j := 0; j < width; j++ {
			if j >= len(row) {
				columns[j][i] = dataset.Missing()
				continue
			}
			cell := strings.TrimSpace(row[j])
			v, err := dates.value(sheet, j+1, i+2, cell)
			if err != nil {
				return nil, err
			}
			columns[j][i] = v
		}
	}

	ds := dataset.New()
	for j, name := range names {
		if err := ds.SetColumn(name, columns[j]); err != nil {
			return nil, err
		}
	}
	ds.InferKinds()
	return ds, nil
}

// dateStyles decides per style ID whether a numeric cell holds a date serial
type dateStyles struct {
	f      *excelize.File
	byID   map[int]bool
	date19 bool
}

func newDateStyles(f *excelize.File) *dateStyles {
	d := &dateStyles{f: f, byID: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date19 = *props.Date1904
	}
	return d
}

// value converts one raw cell; numeric cells carrying a date format become
// timestamps, everything else is read as text and promoted later
func (d *dateStyles) value(sheet string, col, row int, raw string) (dataset.Value, error) {
	if dataset.IsMissingMarker(raw) {
		return dataset.Missing(), nil
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return dataset.Text(raw), nil
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return dataset.Value{}, err
	}
	styleID, err := d.f.GetCellStyle(sheet, cell)
	if err != nil || styleID == 0 {
		return dataset.Text(raw), nil
	}
	isDate, ok := d.byID[styleID]
	if !ok {
		if style, err := d.f.GetStyle(styleID); err == nil {
			isDate = isDateFormat(style.NumFmt, style.CustomNumFmt)
		}
		d.byID[styleID] = isDate
	}
	if !isDate {
		return dataset.Text(raw), nil
	}
	t, err := excelize.ExcelDateToTime(serial, d.date19)
	if err != nil {
		return dataset.Text(raw), nil
	}
	return dataset.Timestamp(t), nil
}

// builtinDateFormats are the predefined number format IDs that render dates
// or times
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// isDateFormat reports whether a number format renders a date or time.
// Literal sections of the format never count.
func isDateFormat(id int, custom *string) bool {
	if custom == nil || *custom == "" {
		return builtinDateFormats[id]
	}
	format := strings.ToLower(*custom)
	if format == "general" {
		return false
	}
	inQuote, inBracket := false, false
	for i := 0; i < len(format); i++ {
		ch := format[i]
		switch {
		case inQuote:
			inQuote = ch != '"'
		case inBracket:
			if ch == ']' {
				inBracket = false
			} else if ch == 'h' || ch == 'm' || ch == 's' {
				// elapsed time such as [h]:mm
				return true
			}
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		case ch == '\\' || ch == '_' || ch == '*':
			// escaped, padding and fill characters are literals
			i++
		case ch == 'y' || ch == 'd' || ch == 'm' || ch == 'h' || ch == 's':
			return true
		}
	}
	return false
}

// fromGrid builds a dataset from a header row and data rows, trimming cells
// and widening the header to the widest row
func fromGrid(rows [][]string) *dataset.Dataset {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	header := make([]string, width)
	copy(header, rows[0])
	records := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make([]string, len(row))
		for j, cell := range row {
			rec[j] = strings.TrimSpace(cell)
		}
		records = append(records, rec)
	}
	// no record is wider than the header
	ds, _ := dataset.FromRecords(header, records)
	return ds
}
