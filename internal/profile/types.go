// Package profile holds the BankProfile configuration tree: a named set of
// per-format parsing instructions loaded once from YAML and immutable for
// the engine's lifetime (spec §3, §9 "configuration object with many
// optional leaves").
package profile

import (
	"regexp"

	"github.com/ledgerflow/statement-engine/internal/model"
)

// HeaderMode selects how the Header Resolver locates the header band.
type HeaderMode string

const (
	HeaderFixed  HeaderMode = "FIXED"
	HeaderSearch HeaderMode = "SEARCH"
)

// PartsCountMode governs how a split reference's part count is validated.
type PartsCountMode string

const (
	PartsExact PartsCountMode = "EXACT"
	PartsOneOf PartsCountMode = "ONE_OF"
	PartsNone  PartsCountMode = "NONE"
)

// PayInRuleKind is the discriminated payIn classification rule.
type PayInRuleKind string

const (
	AmountPositive    PayInRuleKind = "AMOUNT_POSITIVE"
	CreditColumn      PayInRuleKind = "CREDIT_COLUMN"
	OrderIDNoSpace    PayInRuleKind = "ORDER_ID_NO_SPACE"
	UTRNoSpace        PayInRuleKind = "UTR_NO_SPACE"
	NarrationContains PayInRuleKind = "NARRATION_CONTAINS"
)

// RowStopMode governs when row emission halts mid-document.
type RowStopMode string

const (
	RowStopNone       RowStopMode = "NONE"
	RowStopBlankRow   RowStopMode = "BLANK_ROW"
	RowStopUntilRegex RowStopMode = "UNTIL_REGEX"
)

// DateInput is a modifier on date parsing; only ExcelSerial is defined.
type DateInput string

const (
	DateInputDefault     DateInput = ""
	DateInputExcelSerial DateInput = "excelSerial"
)

// FieldExtract names the part index (after splitting a reference) that
// holds the order-id or UTR, and whether to strip non-digits from it.
type FieldExtract struct {
	Index           int
	CleanDigitsOnly bool
}

// PartsCountSpec validates the number of parts a split reference produced.
type PartsCountSpec struct {
	Mode   PartsCountMode
	Values []int
}

// ReferenceConfig describes how to split a reference string into an
// order-id and a transaction reference (UTR).
type ReferenceConfig struct {
	Splitter    string // literal; empty means "no split"
	PartsCount  PartsCountSpec
	OrderID     FieldExtract
	UTR         FieldExtract
	UTRFallback *regexp.Regexp // nil when not configured
}

// NumericConfig carries the two localized separators used by decimal
// parsing (spec §4.4 step 3, §9 "polymorphic decimal parsing").
type NumericConfig struct {
	ThousandsSeparator string
	DecimalSeparator   string
}

// DateParseConfig carries the date/time patterns and the excelSerial
// input modifier.
type DateParseConfig struct {
	Format     string
	TimeFormat string
	Input      DateInput
}

// PayInRule is the discriminated credit/debit classification rule.
type PayInRule struct {
	Kind  PayInRuleKind
	AnyOf []string // only meaningful for NarrationContains
}

// RowStop describes when to halt row emission.
type RowStop struct {
	Mode  RowStopMode
	Regex *regexp.Regexp // only set for RowStopUntilRegex
}

// HeaderConfig describes how to locate the header band and map semantic
// fields to source columns.
type HeaderConfig struct {
	Mode HeaderMode

	// FIXED mode
	RowStart int
	Columns  map[model.SemanticField]int

	// SEARCH mode
	ScanFrom        int // 0-based, inclusive
	ScanTo          int // 0-based, inclusive
	HasFixedBand    bool
	FixedBandFrom   int // 0-based
	MultiRowCount   int
	MergeSeparator  string
	RowStartOffset  int
	Expect          map[model.SemanticField][]string
}

// FormatProfile is one bank's instructions for one of the four formats.
// Format-specific options are zero-valued when not applicable.
type FormatProfile struct {
	Enabled bool

	Headers   HeaderConfig
	Numeric   NumericConfig
	DateParse DateParseConfig
	Reference ReferenceConfig
	PayInRule PayInRule
	RowStop   RowStop

	// delimited only
	Charset   string
	Delimiter rune
	SkipRows  int

	// spreadsheet only (xls, xlsx)
	SheetIndex int

	// pdf only
	StartAfterRegex *regexp.Regexp
	StopBeforeRegex *regexp.Regexp
	LinePattern     *regexp.Regexp
}

// BankProfile is one bank's full set of format sub-profiles.
type BankProfile struct {
	Enabled bool
	CSV     *FormatProfile
	XLS     *FormatProfile
	XLSX    *FormatProfile
	PDF     *FormatProfile

	// DetectionPhrases are case-insensitive substrings that, when found in
	// a document's leading bytes, identify it as belonging to this bank
	// (supplemental auto-detection feature; spec.md scopes the parser key
	// as a caller-supplied input, but every format still carries enough
	// free text to recognize the issuing bank without it).
	DetectionPhrases []string
}

// ForFormat returns the sub-profile for a format kind, or nil when the
// bank has none configured for it.
func (b *BankProfile) ForFormat(kind model.FormatKind) *FormatProfile {
	switch kind {
	case model.CSV:
		return b.CSV
	case model.XLS:
		return b.XLS
	case model.XLSX:
		return b.XLSX
	case model.PDF:
		return b.PDF
	default:
		return nil
	}
}

// Sufficient reports whether a header mapping satisfies spec invariant 4:
// it must contain date, reference, and at least one of amount/credit/debit.
func Sufficient(mapping map[model.SemanticField]int) bool {
	_, hasDate := mapping[model.Date]
	_, hasRef := mapping[model.Reference]
	_, hasAmount := mapping[model.Amount]
	_, hasCredit := mapping[model.Credit]
	_, hasDebit := mapping[model.Debit]
	return hasDate && hasRef && (hasAmount || hasCredit || hasDebit)
}
