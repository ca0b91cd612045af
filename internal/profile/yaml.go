package profile

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/ledgerflow/statement-engine/internal/engerr"
	"github.com/ledgerflow/statement-engine/internal/model"
)

// Tree is the immutable profile tree loaded once at startup (spec §3
// "Lifecycles"). Keys are normalized (trimmed, lower-cased) at load time so
// lookups never repeat that work.
type Tree struct {
	banks map[string]*BankProfile
}

// Load decodes a bank-profile YAML document (spec §6) into an immutable
// Tree. Every optional leaf is materialized to its default here, and every
// load-time-checkable invariant (expect non-empty, splitter/partsCount
// consistency, regex legality) is validated here — never at row time
// (spec §9).
func Load(r io.Reader) (*Tree, error) {
	var raw rawRoot
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, engerr.Wrap(engerr.MalformedProfile, "", "", "", fmt.Errorf("decode profile yaml: %w", err))
	}

	tree := &Tree{banks: make(map[string]*BankProfile, len(raw.Banks))}
	for key, rb := range raw.Banks {
		bp, err := rb.toDomain(key)
		if err != nil {
			return nil, err
		}
		tree.banks[normalizeKey(key)] = bp
	}
	return tree, nil
}

// Bank returns the bank profile for a parser key, or nil if absent. Key
// comparison is case-insensitive after trimming (spec §6).
func (t *Tree) Bank(parserKey string) *BankProfile {
	return t.banks[normalizeKey(parserKey)]
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DetectionCandidates returns each enabled bank's parser key mapped to its
// configured detection phrases, for callers that need to recognize a bank
// from document content before a parser key is known.
func (t *Tree) DetectionCandidates() map[string][]string {
	out := make(map[string][]string, len(t.banks))
	for key, bp := range t.banks {
		if bp.Enabled && len(bp.DetectionPhrases) > 0 {
			out[key] = bp.DetectionPhrases
		}
	}
	return out
}

// --- raw YAML shape -------------------------------------------------------

type rawRoot struct {
	Banks map[string]rawBank `yaml:"banks"`
}

type rawBank struct {
	Enabled          *bool      `yaml:"enabled"`
	CSV              *rawFormat `yaml:"csv"`
	XLS              *rawFormat `yaml:"xls"`
	XLSX             *rawFormat `yaml:"xlsx"`
	PDF              *rawFormat `yaml:"pdf"`
	DetectionPhrases []string   `yaml:"detectionPhrases"`
}

type rawFormat struct {
	Enabled *bool  `yaml:"enabled"`
	Charset string `yaml:"charset"`
	// yaml.v2 decodes a bare "," into a string fine; it must be exactly one rune.
	Delimiter string `yaml:"delimiter"`
	SkipRows  int    `yaml:"skipRows"`

	SheetIndex int `yaml:"sheetIndex"`

	StartAfterRegex string `yaml:"startAfterRegex"`
	StopBeforeRegex string `yaml:"stopBeforeRegex"`
	LinePattern     string `yaml:"linePattern"`

	Headers   rawHeaders   `yaml:"headers"`
	Numeric   rawNumeric   `yaml:"numeric"`
	DateParse rawDateParse `yaml:"dateParse"`
	Reference rawReference `yaml:"reference"`
	PayInRule rawPayInRule `yaml:"payInRule"`
	RowStop   rawRowStop   `yaml:"rowStop"`
}

type rawHeaders struct {
	Mode            string           `yaml:"mode"`
	RowStart        int              `yaml:"rowStart"`
	Columns         map[string]int   `yaml:"columns"`
	ScanRange       []int            `yaml:"scanRange"`
	FixedHeaderRows []int            `yaml:"fixedHeaderRows"`
	MultiRowCount   int              `yaml:"multiRowCount"`
	MergeSeparator  string           `yaml:"mergeSeparator"`
	RowStartOffset  *int             `yaml:"rowStartOffset"`
	Expect          map[string][]string `yaml:"expect"`
}

type rawNumeric struct {
	ThousandsSeparator string `yaml:"thousandsSeparator"`
	DecimalSeparator   string `yaml:"decimalSeparator"`
}

type rawDateParse struct {
	Format     string `yaml:"format"`
	TimeFormat string `yaml:"timeFormat"`
	Input      string `yaml:"input"`
}

type rawReference struct {
	Splitter    string          `yaml:"splitter"`
	PartsCount  rawPartsCount   `yaml:"partsCount"`
	OrderID     rawFieldExtract `yaml:"orderId"`
	UTR         rawFieldExtract `yaml:"utr"`
	UTRFallback rawUTRFallback  `yaml:"utrFallback"`
}

type rawPartsCount struct {
	Mode   string `yaml:"mode"`
	Values []int  `yaml:"values"`
}

type rawFieldExtract struct {
	Index           int  `yaml:"index"`
	CleanDigitsOnly bool `yaml:"cleanDigitsOnly"`
}

type rawUTRFallback struct {
	Regex string `yaml:"regex"`
}

type rawPayInRule struct {
	Kind  string   `yaml:"kind"`
	AnyOf []string `yaml:"anyOf"`
}

type rawRowStop struct {
	Mode       string `yaml:"mode"`
	UntilRegex string `yaml:"untilRegex"`
}

// --- raw -> domain conversion, with defaulting and validation ------------

func (rb rawBank) toDomain(parserKey string) (*BankProfile, error) {
	bp := &BankProfile{
		Enabled:          boolDefault(rb.Enabled, true),
		DetectionPhrases: rb.DetectionPhrases,
	}

	for kind, raw := range map[model.FormatKind]*rawFormat{
		model.CSV:  rb.CSV,
		model.XLS:  rb.XLS,
		model.XLSX: rb.XLSX,
		model.PDF:  rb.PDF,
	} {
		if raw == nil {
			continue
		}
		fp, err := raw.toDomain(parserKey, kind)
		if err != nil {
			return nil, err
		}
		switch kind {
		case model.CSV:
			bp.CSV = fp
		case model.XLS:
			bp.XLS = fp
		case model.XLSX:
			bp.XLSX = fp
		case model.PDF:
			bp.PDF = fp
		}
	}
	return bp, nil
}

func (rf *rawFormat) toDomain(parserKey string, kind model.FormatKind) (*FormatProfile, error) {
	fp := &FormatProfile{Enabled: boolDefault(rf.Enabled, true)}

	fail := func(msg string, args ...interface{}) error {
		return engerr.New(engerr.MalformedProfile, parserKey, kind, "", fmt.Sprintf(msg, args...))
	}

	// --- numeric ---
	fp.Numeric = NumericConfig{
		ThousandsSeparator: stringDefault(rf.Numeric.ThousandsSeparator, ","),
		DecimalSeparator:   stringDefault(rf.Numeric.DecimalSeparator, "."),
	}

	// --- headers ---
	headers, err := rf.Headers.toDomain(parserKey, kind)
	if err != nil {
		return nil, err
	}
	fp.Headers = headers

	// --- dateParse ---
	fp.DateParse = DateParseConfig{
		Format:     rf.DateParse.Format,
		TimeFormat: rf.DateParse.TimeFormat,
		Input:      DateInput(rf.DateParse.Input),
	}
	if fp.DateParse.Input != DateInputDefault && fp.DateParse.Input != DateInputExcelSerial {
		return nil, fail("dateParse.input: unknown modifier %q", rf.DateParse.Input)
	}

	// --- reference ---
	ref, err := rf.Reference.toDomain(parserKey, kind)
	if err != nil {
		return nil, err
	}
	fp.Reference = ref

	// --- payInRule ---
	rule, err := rf.PayInRule.toDomain(parserKey, kind)
	if err != nil {
		return nil, err
	}
	fp.PayInRule = rule

	// --- rowStop ---
	stop, err := rf.RowStop.toDomain(parserKey, kind)
	if err != nil {
		return nil, err
	}
	fp.RowStop = stop

	switch kind {
	case model.CSV:
		fp.Charset = stringDefault(rf.Charset, "UTF-8")
		delim := ","
		if rf.Delimiter != "" {
			delim = rf.Delimiter
		}
		r := []rune(delim)
		if len(r) != 1 {
			return nil, fail("delimiter must be a single character, got %q", delim)
		}
		fp.Delimiter = r[0]
		fp.SkipRows = rf.SkipRows
	case model.XLS, model.XLSX:
		fp.SheetIndex = rf.SheetIndex
	case model.PDF:
		if rf.LinePattern == "" {
			return nil, fail("linePattern is required")
		}
		pat, err := regexp.Compile(rf.LinePattern)
		if err != nil {
			return nil, fail("linePattern: %v", err)
		}
		fp.LinePattern = pat
		if rf.StartAfterRegex != "" {
			re, err := regexp.Compile(rf.StartAfterRegex)
			if err != nil {
				return nil, fail("startAfterRegex: %v", err)
			}
			fp.StartAfterRegex = re
		}
		if rf.StopBeforeRegex != "" {
			re, err := regexp.Compile(rf.StopBeforeRegex)
			if err != nil {
				return nil, fail("stopBeforeRegex: %v", err)
			}
			fp.StopBeforeRegex = re
		}
	}

	return fp, nil
}

func (rh rawHeaders) toDomain(parserKey string, kind model.FormatKind) (HeaderConfig, error) {
	fail := func(msg string, args ...interface{}) (HeaderConfig, error) {
		return HeaderConfig{}, engerr.New(engerr.MalformedProfile, parserKey, kind, "", fmt.Sprintf(msg, args...))
	}

	cfg := HeaderConfig{Mode: HeaderMode(strings.ToUpper(rh.Mode))}

	switch cfg.Mode {
	case HeaderFixed:
		cfg.RowStart = rh.RowStart
		cfg.Columns = make(map[model.SemanticField]int, len(rh.Columns))
		for name, idx := range rh.Columns {
			f, ok := semanticField(name)
			if !ok {
				return fail("headers.columns: unknown semantic field %q", name)
			}
			cfg.Columns[f] = idx
		}
		if !Sufficient(cfg.Columns) {
			return HeaderConfig{}, engerr.New(engerr.HeaderMappingInsufficient, parserKey, kind, "", "FIXED header mapping lacks date/reference/amount-or-credit-or-debit")
		}
	case HeaderSearch:
		if len(rh.Expect) == 0 {
			return fail("headers.expect is required in SEARCH mode")
		}
		cfg.Expect = make(map[model.SemanticField][]string, len(rh.Expect))
		for name, syns := range rh.Expect {
			f, ok := semanticField(name)
			if !ok {
				return fail("headers.expect: unknown semantic field %q", name)
			}
			if len(syns) == 0 {
				return fail("headers.expect[%s]: must list at least one synonym", name)
			}
			cfg.Expect[f] = syns
		}
		cfg.MultiRowCount = rh.MultiRowCount
		if cfg.MultiRowCount < 1 {
			cfg.MultiRowCount = 1
		}
		cfg.MergeSeparator = rh.MergeSeparator
		if rh.RowStartOffset != nil {
			cfg.RowStartOffset = *rh.RowStartOffset
		} else {
			cfg.RowStartOffset = 1
		}
		if len(rh.ScanRange) >= 2 {
			// scanRange is authored 1-based inclusive; normalize to 0-based here
			// so downstream resolution code never special-cases the origin
			// (spec §9, Open Questions: "one canonical loader decision").
			cfg.ScanFrom = rh.ScanRange[0] - 1
			cfg.ScanTo = rh.ScanRange[1] - 1
		}
		if len(rh.FixedHeaderRows) >= 1 {
			cfg.HasFixedBand = true
			cfg.FixedBandFrom = rh.FixedHeaderRows[0] - 1
		}
	default:
		return fail("headers.mode must be FIXED or SEARCH, got %q", rh.Mode)
	}

	return cfg, nil
}

func (rr rawReference) toDomain(parserKey string, kind model.FormatKind) (ReferenceConfig, error) {
	fail := func(msg string, args ...interface{}) (ReferenceConfig, error) {
		return ReferenceConfig{}, engerr.New(engerr.MalformedProfile, parserKey, kind, "", fmt.Sprintf(msg, args...))
	}

	cfg := ReferenceConfig{
		Splitter: rr.Splitter,
		OrderID:  FieldExtract{Index: rr.OrderID.Index, CleanDigitsOnly: rr.OrderID.CleanDigitsOnly},
		UTR:      FieldExtract{Index: rr.UTR.Index, CleanDigitsOnly: rr.UTR.CleanDigitsOnly},
	}

	if cfg.Splitter == "" {
		cfg.PartsCount = PartsCountSpec{Mode: PartsNone}
	} else {
		mode := PartsCountMode(strings.ToUpper(rr.PartsCount.Mode))
		switch mode {
		case PartsExact:
			if len(rr.PartsCount.Values) != 1 {
				return fail("reference.partsCount: EXACT requires exactly one value")
			}
		case PartsOneOf:
			if len(rr.PartsCount.Values) == 0 {
				return fail("reference.partsCount: ONE_OF requires at least one value")
			}
		case PartsNone:
			// legal: splitter configured but part count unconstrained
		default:
			return fail("reference.partsCount.mode must be EXACT, ONE_OF, or NONE when splitter is set, got %q", rr.PartsCount.Mode)
		}
		cfg.PartsCount = PartsCountSpec{Mode: mode, Values: rr.PartsCount.Values}
	}

	if rr.UTRFallback.Regex != "" {
		re, err := regexp.Compile(rr.UTRFallback.Regex)
		if err != nil {
			return fail("reference.utrFallback.regex: %v", err)
		}
		cfg.UTRFallback = re
	}

	return cfg, nil
}

func (rp rawPayInRule) toDomain(parserKey string, kind model.FormatKind) (PayInRule, error) {
	k := PayInRuleKind(strings.ToUpper(rp.Kind))
	if k == "" {
		k = AmountPositive
	}
	switch k {
	case AmountPositive, CreditColumn, OrderIDNoSpace, UTRNoSpace:
		return PayInRule{Kind: k}, nil
	case NarrationContains:
		if len(rp.AnyOf) == 0 {
			return PayInRule{}, engerr.New(engerr.MalformedProfile, parserKey, kind, "", "payInRule.anyOf is required for NARRATION_CONTAINS")
		}
		return PayInRule{Kind: k, AnyOf: rp.AnyOf}, nil
	default:
		return PayInRule{}, engerr.New(engerr.MalformedProfile, parserKey, kind, "", fmt.Sprintf("payInRule.kind: unknown rule %q", rp.Kind))
	}
}

func (rs rawRowStop) toDomain(parserKey string, kind model.FormatKind) (RowStop, error) {
	mode := RowStopMode(strings.ToUpper(rs.Mode))
	if mode == "" {
		mode = RowStopNone
	}
	switch mode {
	case RowStopNone, RowStopBlankRow:
		return RowStop{Mode: mode}, nil
	case RowStopUntilRegex:
		if rs.UntilRegex == "" {
			return RowStop{}, engerr.New(engerr.MalformedProfile, parserKey, kind, "", "rowStop.untilRegex is required for UNTIL_REGEX")
		}
		re, err := regexp.Compile(rs.UntilRegex)
		if err != nil {
			return RowStop{}, engerr.New(engerr.MalformedProfile, parserKey, kind, "", fmt.Sprintf("rowStop.untilRegex: %v", err))
		}
		return RowStop{Mode: mode, Regex: re}, nil
	default:
		return RowStop{}, engerr.New(engerr.MalformedProfile, parserKey, kind, "", fmt.Sprintf("rowStop.mode must be NONE, BLANK_ROW, or UNTIL_REGEX, got %q", rs.Mode))
	}
}

func semanticField(name string) (model.SemanticField, bool) {
	f := model.SemanticField(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range model.Fields {
		if known == f {
			return f, true
		}
	}
	return "", false
}

func boolDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func stringDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
