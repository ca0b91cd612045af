// Package xlssrc adapts a legacy binary (BIFF8) .xls workbook to the
// header and row packages' MergedSource interface (spec §4.1, xls format).
//
// There is no pack example touching the legacy binary spreadsheet format;
// github.com/extrame/xls is a real, maintained ecosystem library chosen
// for it and documented as an ungrounded dependency in DESIGN.md. Its API
// exposes no merged-cell information, so MergedRange never reports a merge
// — bank profiles for xls cannot rely on merged header cells spanning
// several columns.
package xlssrc

import (
	"bytes"
	"io"
	"strings"

	"github.com/extrame/xls"

	"github.com/ledgerflow/statement-engine/internal/engerr"
	"github.com/ledgerflow/statement-engine/internal/model"
)

// Source wraps one sheet of an opened legacy workbook.
type Source struct {
	sheet *xls.WorkSheet
}

// Open reads an xls stream and selects the sheet at sheetIndex (0-based).
// The format requires random access, so the stream is buffered in full
// before parsing.
func Open(r io.Reader, charset string, parserKey string, sheetIndex int) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, engerr.Wrap(engerr.IoFailure, parserKey, model.XLS, "", err)
	}
	if charset == "" {
		charset = "utf-8"
	}

	wb, err := xls.OpenReader(bytes.NewReader(data), charset)
	if err != nil {
		return nil, engerr.Wrap(engerr.IoFailure, parserKey, model.XLS, "", err)
	}

	sheet := wb.GetSheet(sheetIndex)
	if sheet == nil {
		return nil, engerr.New(engerr.MalformedProfile, parserKey, model.XLS, "", "sheetIndex out of range")
	}

	return &Source{sheet: sheet}, nil
}

func (s *Source) RowCount() int { return int(s.sheet.MaxRow) + 1 }

// maxProbeCols bounds the column-width probe: the legacy xls reader
// exposes no direct "last column" accessor, so width is discovered by
// scanning for the rightmost non-blank cell across every row.
const maxProbeCols = 256

func (s *Source) ColCount() int {
	max := 0
	for r := 0; r <= int(s.sheet.MaxRow); r++ {
		row := s.sheet.Row(r)
		if row == nil {
			continue
		}
		for c := maxProbeCols - 1; c > max; c-- {
			if strings.TrimSpace(row.Col(c)) != "" {
				max = c
				break
			}
		}
	}
	return max + 1
}

func (s *Source) CellText(row, col int) string {
	r := s.sheet.Row(row)
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r.Col(col))
}

// MergedRange always reports no merge: the legacy reader exposes no merged-
// region data. Implemented so *Source satisfies header.MergedSource and can
// share the spreadsheet resolution and flexible-read code with xlsx.
func (s *Source) MergedRange(row, col int) (int, int, bool) { return 0, 0, false }

// CellIsDate always reports false: the legacy reader exposes no cell style
// information, so a bank profile targeting xls must set
// dateParse.input=excelSerial explicitly to parse native date cells.
func (s *Source) CellIsDate(row, col int) bool { return false }
