package header

import (
	"strings"

	"github.com/ledgerflow/statement-engine/internal/engerr"
	"github.com/ledgerflow/statement-engine/internal/model"
	"github.com/ledgerflow/statement-engine/internal/profile"
)

// ResolveDelimitedSearch implements SEARCH mode for delimited text: it
// scans cfg.ScanFrom..ScanTo for a band of cfg.MultiRowCount consecutive
// rows whose per-column text, joined with cfg.MergeSeparator, matches every
// expected field by exact equality after normalization (spec §4.2, "Merged
// header, delimited inputs" — unlike the spreadsheet path, which uses
// substring matching to tolerate visually centered merged cells).
func ResolveDelimitedSearch(rows [][]string, cfg profile.HeaderConfig, parserKey string) (Resolution, error) {
	scanTo := cfg.ScanTo
	if scanTo > len(rows)-1 {
		scanTo = len(rows) - 1
	}

	for from := cfg.ScanFrom; from <= scanTo; from++ {
		bandRows := cfg.MultiRowCount
		if from+bandRows-1 > scanTo {
			continue
		}

		cols, ok := matchBandExact(rows, from, bandRows, cfg.MergeSeparator, cfg.Expect)
		if !ok || !profile.Sufficient(cols) {
			continue
		}

		headerRowEnd := from + bandRows - 1
		return Resolution{DataRowStart: headerRowEnd + cfg.RowStartOffset, Columns: cols}, nil
	}

	return Resolution{}, engerr.New(engerr.HeaderNotFound, parserKey, model.CSV, "", "no header band in scan range matched every expected field")
}

// matchBandExact joins each column's non-blank trimmed text across the
// band [from, from+bandRows) with sep, then matches the resulting row by
// exact synonym equality.
func matchBandExact(rows [][]string, from, bandRows int, sep string, expect map[model.SemanticField][]string) (map[model.SemanticField]int, bool) {
	colCount := 0
	for r := from; r < from+bandRows && r < len(rows); r++ {
		if len(rows[r]) > colCount {
			colCount = len(rows[r])
		}
	}

	bandText := make([]string, colCount)
	for c := 0; c < colCount; c++ {
		var parts []string
		for r := from; r < from+bandRows; r++ {
			if r < len(rows) && c < len(rows[r]) {
				if t := strings.TrimSpace(rows[r][c]); t != "" {
					parts = append(parts, t)
				}
			}
		}
		bandText[c] = strings.Join(parts, sep)
	}

	return matchRowExact(bandText, expect)
}

func matchRowExact(row []string, expect map[model.SemanticField][]string) (map[model.SemanticField]int, bool) {
	assigned := make(map[model.SemanticField]int, len(expect))
	for field, synonyms := range expect {
		col, ok := findExact(row, synonyms)
		if !ok {
			return nil, false
		}
		assigned[field] = col
	}
	return assigned, true
}

func findExact(row []string, synonyms []string) (int, bool) {
	for c, cell := range row {
		norm := normalize(cell)
		for _, syn := range synonyms {
			if norm == normalize(syn) {
				return c, true
			}
		}
	}
	return -1, false
}
