package row

import (
	"github.com/ledgerflow/statement-engine/internal/header"
	"github.com/ledgerflow/statement-engine/internal/model"
	"github.com/ledgerflow/statement-engine/internal/profile"
)

// probeRadius bounds the flexible-read neighbor probe (spec §4.4, "flexible
// read"): when a mapped cell is itself blank, the engine looks up to this
// many columns to either side for the value before giving up.
const probeRadius = 3

// dateCellSource is an optional capability a MergedSource may implement to
// report that a given cell carries a native date/time number format, rather
// than plain text (spec §4.4, "Spreadsheet numeric/date cells"). xlsxsrc.Source
// implements it from cell style; xlssrc.Source always reports false since
// the legacy reader exposes no style information.
type dateCellSource interface {
	CellIsDate(row, col int) bool
}

// MaterializeSpreadsheet runs the row pipeline over a grid source (xls or
// xlsx), starting at dataRowStart, using the header resolution's column
// mapping (spec §4.4, flexible read). Each field's forbidden-neighbor set is
// derived from that mapping alone: other fields' mapped columns are
// excluded, while an unmapped column is probed even when it carries header
// text of its own.
func MaterializeSpreadsheet(src header.MergedSource, dataRowStart int, cols map[model.SemanticField]int, fp *profile.FormatProfile, parserKey string, format model.FormatKind) ([]model.ParsedRow, error) {
	var out []model.ParsedRow

	forbiddenByField := make(map[model.SemanticField]map[int]bool, len(cols))
	for field := range cols {
		forbiddenByField[field] = ForbiddenNeighbors(cols, field)
	}

	dateSrc, _ := src.(dateCellSource)
	dateCol, hasDateCol := cols[model.Date]

	for r := dataRowStart; r < src.RowCount(); r++ {
		rowCells := make([]string, src.ColCount())
		for c := range rowCells {
			rowCells[c] = src.CellText(r, c)
		}

		if StopTriggered(fp.RowStop, rowCells, joinRow(rowCells)) {
			break
		}

		loc := rowLocation(r)
		cell := func(field model.SemanticField) (string, bool) {
			idx, ok := cols[field]
			if !ok {
				return "", false
			}
			return flexibleRead(src, r, idx, forbiddenByField[field]), true
		}

		dateParse := fp.DateParse
		if hasDateCol && dateParse.Input != profile.DateInputExcelSerial &&
			dateSrc != nil && dateSrc.CellIsDate(r, dateCol) {
			dateParse.Input = profile.DateInputExcelSerial
		}

		pr, skip, err := materializeOne(cell, fp, dateParse, parserKey, format, loc)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		out = append(out, pr)
	}

	return out, nil
}

// flexibleRead returns the text at (row, col). When that cell is blank but
// lies inside a merged region, it returns the region's anchor cell instead.
// Failing that, it probes up to probeRadius columns to either side,
// alternating nearest-first, stopping the moment it crosses a forbidden
// column (one mapped to a different semantic field, or a merged region
// reaching such a column).
func flexibleRead(src header.MergedSource, row, col int, forbidden map[int]bool) string {
	if t := src.CellText(row, col); t != "" {
		return t
	}

	if fromCol, _, ok := src.MergedRange(row, col); ok {
		if t := src.CellText(row, fromCol); t != "" {
			return t
		}
	}

	for d := 1; d <= probeRadius; d++ {
		for _, c := range [2]int{col + d, col - d} {
			if c < 0 || c >= src.ColCount() {
				continue
			}
			if forbidden[c] {
				return ""
			}
			if _, toCol, ok := src.MergedRange(row, c); ok {
				crossesForbidden := false
				for mc := c; mc <= toCol; mc++ {
					if forbidden[mc] {
						crossesForbidden = true
						break
					}
				}
				if crossesForbidden {
					return ""
				}
			}
			if t := src.CellText(row, c); t != "" {
				return t
			}
		}
	}
	return ""
}

// ForbiddenNeighbors builds the set of columns the flexible-read probe must
// not cross: every column mapped to some other semantic field.
func ForbiddenNeighbors(cols map[model.SemanticField]int, target model.SemanticField) map[int]bool {
	forbidden := make(map[int]bool, len(cols))
	for field, col := range cols {
		if field != target {
			forbidden[col] = true
		}
	}
	return forbidden
}
