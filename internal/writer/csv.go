package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/ledgerflow/statement-engine/internal/model"
	"github.com/ledgerflow/statement-engine/internal/row"
)

// CSVWriter writes normalized transaction rows to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes rows to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, meta row.Metadata, rows []model.ParsedRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, meta, rows)
}

// Write writes rows in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, meta row.Metadata, rows []model.ParsedRow) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if w.IncludeHeader {
		if meta.AccountHolder != "" {
			writer.Write([]string{"# Account Holder", meta.AccountHolder})
		}
		if meta.AccountNumber != "" {
			writer.Write([]string{"# Account Number", meta.AccountNumber})
		}
		if meta.SortCode != "" {
			writer.Write([]string{"# Sort Code", meta.SortCode})
		}
		if meta.StatementFrom != "" && meta.StatementTo != "" {
			writer.Write([]string{"# Statement Period", meta.StatementFrom + " - " + meta.StatementTo})
		}
	}

	header := []string{"Date", "Reference", "OrderID", "UTR", "Type", "Amount", "Balance"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range rows {
		rec := []string{
			r.TransactionDateTime.Format("2006-01-02 15:04:05"),
			r.Reference,
			derefOrEmpty(r.OrderID),
			derefOrEmpty(r.UTR),
			payInType(r.PayIn),
			r.Amount.StringFixed(2),
			nullDecimalString(r.Balance),
		}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func payInType(payIn bool) string {
	if payIn {
		return "credit"
	}
	return "debit"
}

func nullDecimalString(b decimal.NullDecimal) string {
	if !b.Valid {
		return ""
	}
	return b.Decimal.StringFixed(2)
}
