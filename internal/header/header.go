// Package header resolves a document's header band into a mapping from
// semantic field to source column index (spec §4.2, Header Resolver).
//
// Two source capabilities are abstracted here so the same SEARCH-mode
// resolution code serves both spreadsheet formats (xls, xlsx) without
// duplicating the synonym-matching and neighbor-probing logic:
//
//	TextSource   — a 2-D grid of cell text, addressed by (row, col).
//	MergedSource — TextSource plus the ability to report whether a cell
//	               sits inside a merged region, and that region's extent.
//
// Delimited text resolves headers over a plain [][]string with its own
// exact-match path (ResolveDelimitedSearch, which also joins multi-row
// bands), and PDF has no header step at all; neither implements these
// interfaces.
package header

import (
	"strings"

	"github.com/ledgerflow/statement-engine/internal/engerr"
	"github.com/ledgerflow/statement-engine/internal/model"
	"github.com/ledgerflow/statement-engine/internal/profile"
)

// TextSource exposes a rectangular grid of cell text.
type TextSource interface {
	RowCount() int
	ColCount() int
	CellText(row, col int) string
}

// MergedSource is a TextSource whose cells may belong to merged regions.
type MergedSource interface {
	TextSource
	// MergedRange reports the extent of the merged region containing
	// (row, col), or ok=false when the cell is not merged.
	MergedRange(row, col int) (fromCol, toCol int, ok bool)
}

// Resolution is the outcome of header resolution: the row transactions
// begin on, and the column each semantic field lives in.
type Resolution struct {
	DataRowStart int
	Columns      map[model.SemanticField]int
}

// ResolveFixed implements FIXED mode: the profile already declares the
// column for every field, so there is nothing to search for.
func ResolveFixed(cfg profile.HeaderConfig) Resolution {
	return Resolution{DataRowStart: cfg.RowStart, Columns: cfg.Columns}
}

// ResolveSearch implements SEARCH mode over a grid source (spreadsheet
// formats). When cfg.HasFixedBand is set it performs a single non-scanning
// band check at cfg.FixedBandFrom ("bounded fixed band", spec §4.3).
// Otherwise it scans cfg.ScanFrom..ScanTo for the row (or band of rows,
// when cfg.MultiRowCount > 1) whose cells match every expected field's
// synonyms, using substring matching with longest-synonym-wins and
// rightward propagation to reconstruct visually merged header bands.
func ResolveSearch(src MergedSource, cfg profile.HeaderConfig, parserKey string, format model.FormatKind) (Resolution, error) {
	if cfg.HasFixedBand {
		return resolveFixedBand(src, cfg, parserKey, format)
	}

	scanTo := cfg.ScanTo
	if scanTo > src.RowCount()-1 {
		scanTo = src.RowCount() - 1
	}

	for from := cfg.ScanFrom; from <= scanTo; from++ {
		bandRows := cfg.MultiRowCount
		if from+bandRows-1 > scanTo {
			continue
		}

		cols, bandTexts, ok := matchBand(src, from, bandRows, cfg.MergeSeparator, cfg.Expect)
		if !ok {
			continue
		}
		if !profile.Sufficient(cols) {
			continue
		}

		headerRowEnd := from + bandRows - 1
		res := Resolution{
			DataRowStart: headerRowEnd + cfg.RowStartOffset,
			Columns:      cols,
		}
		// bandTexts is not part of the Resolution: the row package builds its
		// forbidden-neighbor sets from mapped columns only, so an unmapped
		// column's own header text does not stop the flexible-read probe.
		_ = bandTexts
		return res, nil
	}

	return Resolution{}, engerr.New(engerr.HeaderNotFound, parserKey, format, "", "no header band in scan range matched every expected field")
}

// resolveFixedBand checks a single band at cfg.FixedBandFrom with no
// scanning: the band either matches every expected field or the document's
// header resolution fails outright.
func resolveFixedBand(src MergedSource, cfg profile.HeaderConfig, parserKey string, format model.FormatKind) (Resolution, error) {
	bandRows := cfg.MultiRowCount
	from := cfg.FixedBandFrom

	cols, _, ok := matchBand(src, from, bandRows, cfg.MergeSeparator, cfg.Expect)
	if !ok || !profile.Sufficient(cols) {
		return Resolution{}, engerr.New(engerr.HeaderNotFound, parserKey, format, "", "fixed header band did not match every expected field")
	}

	headerRowEnd := from + bandRows - 1
	return Resolution{DataRowStart: headerRowEnd + cfg.RowStartOffset, Columns: cols}, nil
}

// matchBand tries to match every expected field against the header band
// starting at row `from` spanning `rows` rows. Multi-row bands are joined
// per-column with sep before synonym matching, so a field split across two
// physical rows ("Transaction" / "Date") is matched as "Transaction Date".
// A blank cell inside a merged region reads the region's anchor cell, so a
// merged label contributes to every column it spans.
func matchBand(src MergedSource, from, rows int, sep string, expect map[model.SemanticField][]string) (map[model.SemanticField]int, map[int]string, bool) {
	colCount := src.ColCount()
	bandText := make([]string, colCount)
	for c := 0; c < colCount; c++ {
		parts := make([]string, 0, rows)
		for r := from; r < from+rows; r++ {
			t := strings.TrimSpace(src.CellText(r, c))
			if t == "" {
				if fromCol, _, ok := src.MergedRange(r, c); ok && fromCol < c {
					t = strings.TrimSpace(src.CellText(r, fromCol))
				}
			}
			if t != "" {
				parts = append(parts, t)
			}
		}
		bandText[c] = strings.Join(parts, sep)
	}

	propagateRight(src, from, bandText)

	assigned := make(map[model.SemanticField]int, len(expect))
	texts := make(map[int]string, colCount)
	for c, t := range bandText {
		if t != "" {
			texts[c] = t
		}
	}

	for field, synonyms := range expect {
		col, ok := bestMatch(bandText, synonyms)
		if !ok {
			return nil, nil, false
		}
		assigned[field] = col
	}

	return assigned, texts, true
}

// propagateRight fills blank band cells with the text of the nearest
// non-blank cell to their left within the same merged region, reconstructing
// header text that a merged-cell layout visually centers but only stores
// once (spec §4.2, "propagate-right").
func propagateRight(src MergedSource, row int, bandText []string) {
	last := ""
	for c := range bandText {
		if bandText[c] != "" {
			last = bandText[c]
			continue
		}
		if _, toCol, ok := src.MergedRange(row, c); ok && toCol >= c {
			bandText[c] = last
		}
	}
}

// bestMatch finds the column whose text contains the longest matching
// synonym (substring match, case-insensitive, longest-synonym-wins per
// spec §4.2 so "Date" doesn't shadow "Value Date").
func bestMatch(bandText []string, synonyms []string) (int, bool) {
	bestCol := -1
	bestLen := -1
	for c, t := range bandText {
		norm := normalize(t)
		for _, syn := range synonyms {
			ns := normalize(syn)
			if ns == "" {
				continue
			}
			if strings.Contains(norm, ns) && len(ns) > bestLen {
				bestCol = c
				bestLen = len(ns)
			}
		}
	}
	return bestCol, bestCol >= 0
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
