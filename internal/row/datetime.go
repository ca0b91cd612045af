package row

import (
	"strconv"
	"strings"
	"time"

	"github.com/ledgerflow/statement-engine/internal/profile"
)

// excelEpoch is 1899-12-30, the day serial 0 represents under the Lotus
// 1-2-3 leap-year-bug convention every spreadsheet format inherited.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// tokenTranslations maps SimpleDateFormat-style tokens (as authored in bank
// profile YAML, the convention analysts already know from Java-based
// ingestion tooling) to Go's reference-time layout fragments. Longer tokens
// are listed first so replacement doesn't partially consume a longer run.
var tokenTranslations = []struct{ from, to string }{
	{"yyyy", "2006"},
	{"yy", "06"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"MM", "01"},
	{"dd", "02"},
	{"HH", "15"},
	{"hh", "03"},
	{"mm", "04"},
	{"ss", "05"},
	{"a", "PM"},
}

// translateLayout converts a SimpleDateFormat-style pattern to a Go
// reference-time layout in a single left-to-right pass, so text produced by
// one token (e.g. the "a" in "Jan") is never rewritten by a later one.
// Characters with no translation (separators like "/", "-", " ") pass
// through unchanged.
func translateLayout(pattern string) string {
	pairs := make([]string, 0, 2*len(tokenTranslations))
	for _, tt := range tokenTranslations {
		pairs = append(pairs, tt.from, tt.to)
	}
	return strings.NewReplacer(pairs...).Replace(pattern)
}

// ParseDateTime resolves a row's transaction timestamp (spec §4.4 step 5),
// trying three strategies in priority order:
//
//  1. When cfg.Input is excelSerial and dateRaw is a clean floating-point
//     number, it's treated as a spreadsheet serial (integer part = day
//     offset from excelEpoch, fractional part = time of day) and timeRaw is
//     ignored. A non-numeric dateRaw falls through to the next strategy
//     instead of failing outright.
//  2. An ISO local-date-time or local-date string parses directly.
//  3. Otherwise dateRaw is parsed with cfg.Format translated from
//     SimpleDateFormat to Go layout (with locale-variant fallbacks), and —
//     when a separate time column and cfg.TimeFormat are both present —
//     timeRaw is parsed and merged in.
func ParseDateTime(dateRaw, timeRaw string, cfg profile.DateParseConfig) (time.Time, error) {
	dateRaw = strings.TrimSpace(dateRaw)
	timeRaw = strings.TrimSpace(timeRaw)

	if cfg.Input == profile.DateInputExcelSerial {
		if _, ferr := strconv.ParseFloat(dateRaw, 64); ferr == nil {
			return parseExcelSerial(dateRaw)
		}
	}

	if t, ok := parseISOLocal(dateRaw); ok {
		return mergeTimeOfDay(t, timeRaw, cfg), nil
	}

	layout := cfg.Format
	if layout == "" {
		layout = "2006-01-02"
	} else {
		layout = translateLayout(layout)
	}

	t, err := parseWithFallback(dateRaw, layout)
	if err != nil {
		return time.Time{}, err
	}

	return mergeTimeOfDay(t, timeRaw, cfg), nil
}

// isoLayouts are tried, in order, for ISO local-date-time/local-date input
// (spec §4.4 step 5's dedicated second-priority check, before the
// configured format is even consulted).
var isoLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseISOLocal(raw string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func mergeTimeOfDay(t time.Time, timeRaw string, cfg profile.DateParseConfig) time.Time {
	if timeRaw != "" && cfg.TimeFormat != "" {
		tLayout := translateLayout(cfg.TimeFormat)
		if tt, err := time.Parse(tLayout, timeRaw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), tt.Hour(), tt.Minute(), tt.Second(), 0, time.UTC)
		}
	}
	return t
}

// fallbackLayouts are tried, in order, when the profile's own layout fails
// to parse — statement exports frequently drift from their declared format
// on a handful of rows (e.g. a two-digit year slipping in). The ISO
// local-date layout is handled earlier by parseISOLocal, so it isn't
// repeated here.
var fallbackLayouts = []string{
	"02/01/2006",
	"01/02/2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"02 Jan 2006",
}

func parseWithFallback(raw, primary string) (time.Time, error) {
	t, primaryErr := time.Parse(primary, raw)
	if primaryErr == nil {
		return t, nil
	}
	for _, layout := range fallbackLayouts {
		if layout == primary {
			continue
		}
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	// Surface the primary-layout error; it names the configured format.
	return time.Time{}, primaryErr
}

func parseExcelSerial(raw string) (time.Time, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, err
	}
	days := int(f)
	frac := f - float64(days)
	t := excelEpoch.AddDate(0, 0, days)
	seconds := int(frac*86400 + 0.5)
	return t.Add(time.Duration(seconds) * time.Second), nil
}
