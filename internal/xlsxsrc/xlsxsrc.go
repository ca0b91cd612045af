// Package xlsxsrc adapts an excelize workbook sheet to the header and row
// packages' MergedSource interface (spec §4.1/§4.2, xlsx format).
package xlsxsrc

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ledgerflow/statement-engine/internal/engerr"
	"github.com/ledgerflow/statement-engine/internal/model"
)

// Source wraps one worksheet of an opened workbook.
type Source struct {
	f         *excelize.File
	sheetName string
	rows      [][]string
	merges    []excelize.MergeCell
}

// Open reads an xlsx stream and selects the sheet at sheetIndex (0-based).
// All cell values are read raw (excelize.Options{RawCellValue: true}) so
// numeric and date cells come back as their literal underlying text instead
// of excelize's locale-formatted display string, leaving date-vs-number
// disambiguation to the caller (see CellIsDate).
func Open(r io.Reader, parserKey string, sheetIndex int) (*Source, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, engerr.Wrap(engerr.IoFailure, parserKey, model.XLSX, "", err)
	}

	names := f.GetSheetList()
	if sheetIndex < 0 || sheetIndex >= len(names) {
		return nil, engerr.New(engerr.MalformedProfile, parserKey, model.XLSX, "", "sheetIndex out of range")
	}
	sheetName := names[sheetIndex]

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, engerr.Wrap(engerr.IoFailure, parserKey, model.XLSX, "", err)
	}

	merges, err := f.GetMergeCells(sheetName)
	if err != nil {
		return nil, engerr.Wrap(engerr.IoFailure, parserKey, model.XLSX, "", err)
	}

	src := &Source{f: f, sheetName: sheetName, rows: rows, merges: merges}
	return src, nil
}

func (s *Source) Close() error { return s.f.Close() }

func (s *Source) RowCount() int { return len(s.rows) }

func (s *Source) ColCount() int {
	max := 0
	for _, r := range s.rows {
		if len(r) > max {
			max = len(r)
		}
	}
	return max
}

func (s *Source) CellText(row, col int) string {
	if row < 0 || row >= len(s.rows) || col < 0 || col >= len(s.rows[row]) {
		return ""
	}
	return strings.TrimSpace(s.rows[row][col])
}

// MergedRange reports the column extent of the merged region containing
// (row, col), if any.
func (s *Source) MergedRange(row, col int) (int, int, bool) {
	for _, m := range s.merges {
		fromCol, fromRow, toCol, toRow, ok := mergeBounds(m)
		if !ok {
			continue
		}
		if row >= fromRow && row <= toRow && col >= fromCol && col <= toCol {
			return fromCol, toCol, true
		}
	}
	return 0, 0, false
}

func mergeBounds(m excelize.MergeCell) (fromCol, fromRow, toCol, toRow int, ok bool) {
	start, end := m.GetStartAxis(), m.GetEndAxis()
	fc, fr, err1 := excelize.CellNameToCoordinates(start)
	tc, tr, err2 := excelize.CellNameToCoordinates(end)
	if err1 != nil || err2 != nil {
		return 0, 0, 0, 0, false
	}
	return fc - 1, fr - 1, tc - 1, tr - 1, true
}

// CellIsDate reports whether the raw cell at (row, col) carries a
// date/time number format, using the cell's style's NumFmt rather than
// excelize's built-in value formatting (which isn't exposed for raw reads).
// The row package uses this to fall back to excelSerial parsing for a date
// column whose profile didn't declare dateParse.input=excelSerial itself —
// the common case for a workbook column that is genuinely date-typed rather
// than free text.
func (s *Source) CellIsDate(row, col int) bool {
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return false
	}
	styleID, err := s.f.GetCellStyle(s.sheetName, axis)
	if err != nil {
		return false
	}
	style, err := s.f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}

	// Excel reserves built-in format IDs 14-22 and 45-47 for dates/times.
	if n := style.NumFmt; (n >= 14 && n <= 22) || (n >= 45 && n <= 47) {
		return true
	}
	if style.CustomNumFmt == nil {
		return false
	}
	fmtCode := strings.ToLower(*style.CustomNumFmt)
	for _, token := range []string{"y", "m", "d", "h", "s"} {
		if strings.Contains(fmtCode, token) {
			return true
		}
	}
	return false
}
