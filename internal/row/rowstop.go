package row

import (
	"strings"

	"github.com/ledgerflow/statement-engine/internal/profile"
)

// StopTriggered implements spec §4.4 step 1: whether row emission should
// halt before processing this row. cells is the full raw row for blank-row
// detection; line is the single logical line of text for regex matching
// (equal to strings.Join(cells, " ") for grid sources, or the PDF line
// itself for PDF sources).
func StopTriggered(cfg profile.RowStop, cells []string, line string) bool {
	switch cfg.Mode {
	case profile.RowStopBlankRow:
		return allBlank(cells)
	case profile.RowStopUntilRegex:
		return cfg.Regex != nil && cfg.Regex.MatchString(line)
	default:
		return false
	}
}

func allBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
