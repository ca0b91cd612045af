package row

import (
	"regexp"
	"strings"
)

// Metadata holds the account-level fields a statement banner carries
// alongside its transaction table (supplemental feature: the distilled
// spec scopes per-row fields only, but every format still exposes these
// in its header or footer text, adapted from the original per-bank
// account-number/sort-code sniffing).
type Metadata struct {
	AccountHolder string
	AccountNumber string
	SortCode      string
	StatementFrom string
	StatementTo   string
}

var (
	accountNumberPattern = regexp.MustCompile(`\b(\d{8,18})\b`)
	sortCodePattern      = regexp.MustCompile(`\b(\d{2}-\d{2}-\d{2})\b`)
	dateRangePattern     = regexp.MustCompile(`\b(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\b`)
)

// ExtractMetadata scans free text (a PDF banner, or the rows preceding a
// spreadsheet's header band) for account holder name, account number, sort
// code, and statement period. Any field not found is left empty; callers
// treat an empty Metadata as "no banner metadata available" rather than
// an error, since plenty of delimited exports carry none at all.
func ExtractMetadata(text string, holderLabels []string) Metadata {
	var m Metadata
	m.AccountNumber = accountNumberPattern.FindString(text)
	m.SortCode = sortCodePattern.FindString(text)
	m.AccountHolder = extractNameNearLabel(text, holderLabels)

	// The date pattern also matches a dd-dd-dd sort code; skip that match.
	var dates []string
	for _, d := range dateRangePattern.FindAllString(text, -1) {
		if d != m.SortCode {
			dates = append(dates, d)
		}
	}
	if len(dates) >= 2 {
		m.StatementFrom, m.StatementTo = dates[0], dates[1]
	}

	return m
}

func extractNameNearLabel(text string, labels []string) string {
	for _, line := range strings.Split(text, "\n") {
		lowerLine := strings.ToLower(line)
		for _, label := range labels {
			lowerLabel := strings.ToLower(label)
			idx := strings.Index(lowerLine, lowerLabel)
			if idx < 0 {
				continue
			}
			rest := strings.TrimSpace(line[idx+len(label):])
			rest = strings.TrimPrefix(rest, ":")
			rest = strings.TrimSpace(rest)
			if rest == "" {
				continue
			}
			parts := strings.Split(rest, "  ")
			return strings.TrimSpace(parts[0])
		}
	}
	return ""
}
