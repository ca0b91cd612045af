package row

import (
	"strconv"
	"unicode/utf8"

	"github.com/ledgerflow/statement-engine/internal/model"
	"github.com/ledgerflow/statement-engine/internal/profile"
)

// MaterializePDF runs the row pipeline over a PDF's extracted text lines.
// Unlike the grid formats, a PDF has no header band to resolve column
// indices from — each transaction line is matched directly against
// fp.LinePattern's named capture groups (spec §4.2, PDF header resolution
// is a no-op; §4.4, PDF row materialization).
//
// Lines are clipped to the region between fp.StartAfterRegex (exclusive,
// when set) and fp.StopBeforeRegex (exclusive, when set) before matching,
// so statement boilerplate never reaches the pattern.
func MaterializePDF(lines []string, fp *profile.FormatProfile, parserKey string) ([]model.ParsedRow, error) {
	var out []model.ParsedRow

	started := fp.StartAfterRegex == nil
	names := fp.LinePattern.SubexpNames()

	// offset is the character offset of the current line in the text layer
	// (pages' lines joined with "\n"), used as the error location.
	offset := 0
	for _, line := range lines {
		lineStart := offset
		offset += utf8.RuneCountInString(line) + 1
		if !started {
			if fp.StartAfterRegex.MatchString(line) {
				started = true
			}
			continue
		}
		if fp.StopBeforeRegex != nil && fp.StopBeforeRegex.MatchString(line) {
			break
		}
		if StopTriggered(fp.RowStop, []string{line}, line) {
			break
		}

		m := fp.LinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		groups := make(map[string]string, len(names))
		for gi, name := range names {
			if name != "" && gi < len(m) {
				groups[name] = m[gi]
			}
		}

		cell := func(field model.SemanticField) (string, bool) {
			v, ok := groups[string(field)]
			return v, ok
		}

		loc := "offset " + strconv.Itoa(lineStart)
		pr, skip, err := materializeOne(cell, fp, fp.DateParse, parserKey, model.PDF, loc)
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
