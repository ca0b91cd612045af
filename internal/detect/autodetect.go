package detect

import "strings"

// ParserKey guesses a bank's parser key from document text when the caller
// didn't supply one (supplemental feature, adapted from the original
// per-bank identifier sniffing: the distilled spec dropped bank auto-
// detection, but every format still carries enough of a fingerprint in its
// header band or PDF banner to recover it).
func ParserKey(text string, candidates map[string][]string) (string, bool) {
	for key, fingerprints := range candidates {
		if containsAny(text, fingerprints) {
			return key, true
		}
	}
	return "", false
}

func containsAny(text string, needles []string) bool {
	lower := strings.ToLower(text)
	for _, needle := range needles {
		if strings.Contains(lower, strings.ToLower(needle)) {
			return true
		}
	}
	return false
}
