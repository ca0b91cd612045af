package model

// SemanticField is one of the closed vocabulary of column meanings the
// engine understands. Bank profiles map their own header text onto these.
type SemanticField string

const (
	Date      SemanticField = "date"
	Time      SemanticField = "time"
	Reference SemanticField = "reference"
	Credit    SemanticField = "credit"
	Debit     SemanticField = "debit"
	Amount    SemanticField = "amount"
	Balance   SemanticField = "balance"
)

// Fields lists every semantic field the engine recognizes, in a stable
// iteration order (used when tie-breaking synonym matches left-to-right).
var Fields = []SemanticField{Date, Time, Reference, Credit, Debit, Amount, Balance}

// FormatKind is one of the four document shapes the engine can ingest.
type FormatKind string

const (
	CSV  FormatKind = "csv"
	XLS  FormatKind = "xls"
	XLSX FormatKind = "xlsx"
	PDF  FormatKind = "pdf"
)
