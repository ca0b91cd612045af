package row

import (
	"regexp"
	"strings"

	"github.com/ledgerflow/statement-engine/internal/profile"
)

// SplitResult holds the order-id and UTR extracted from a reference string.
type SplitResult struct {
	OrderID *string
	UTR     *string
}

var digitsOnly = regexp.MustCompile(`[^0-9]`)

// SplitReference implements spec §4.4 step 6. When cfg.Splitter is empty
// the reference is never split and both fields are left nil (the UTR
// fallback regex, if any, still runs against the whole string). Otherwise
// the reference is split on the literal splitter and, when the resulting
// part count matches cfg.PartsCount, the configured indices are lifted out
// as order-id and UTR. A part-count mismatch is not an error: it is simply
// treated as "not splittable" and both fields stay nil, falling through to
// the UTR fallback regex like an unsplittable reference would.
func SplitReference(reference string, cfg profile.ReferenceConfig) SplitResult {
	var result SplitResult

	if cfg.Splitter != "" {
		parts := strings.Split(reference, cfg.Splitter)
		if partsCountOK(len(parts), cfg.PartsCount) {
			if cfg.OrderID.Index >= 0 && cfg.OrderID.Index < len(parts) {
				v := extractField(parts[cfg.OrderID.Index], cfg.OrderID)
				result.OrderID = &v
			}
			if cfg.UTR.Index >= 0 && cfg.UTR.Index < len(parts) {
				v := extractField(parts[cfg.UTR.Index], cfg.UTR)
				result.UTR = &v
			}
		}
	}

	if result.UTR == nil && cfg.UTRFallback != nil {
		if m := cfg.UTRFallback.FindString(reference); m != "" {
			result.UTR = &m
		}
	}

	return result
}

func extractField(s string, fx profile.FieldExtract) string {
	s = strings.TrimSpace(s)
	if fx.CleanDigitsOnly {
		s = digitsOnly.ReplaceAllString(s, "")
	}
	return s
}

func partsCountOK(n int, spec profile.PartsCountSpec) bool {
	switch spec.Mode {
	case profile.PartsExact:
		return len(spec.Values) == 1 && n == spec.Values[0]
	case profile.PartsOneOf:
		for _, v := range spec.Values {
			if n == v {
				return true
			}
		}
		return false
	case profile.PartsNone:
		return true
	default:
		return true
	}
}
