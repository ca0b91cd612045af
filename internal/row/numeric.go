// Package row implements row materialization: turning a resolved column
// mapping plus a raw row of cell text into a model.ParsedRow (spec §4.4,
// Row Materializer).
package row

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerflow/statement-engine/internal/profile"
)

var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// ParseDecimal converts a raw cell string to a decimal.Decimal using the
// profile's localized separators (spec §4.4 step 3):
//   - thousandsSeparator occurrences are stripped
//   - decimalSeparator is swapped to '.'
//   - a value wrapped in parentheses is negative, e.g. "(25.99)" -> -25.99
//   - any remaining non-numeric character is stripped
//
// An empty or whitespace-only input yields a null decimal, not an error,
// since many statement formats leave credit or debit blank on every row.
func ParseDecimal(raw string, cfg profile.NumericConfig) (decimal.NullDecimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	if cfg.ThousandsSeparator != "" {
		s = strings.ReplaceAll(s, cfg.ThousandsSeparator, "")
	}
	if cfg.DecimalSeparator != "" && cfg.DecimalSeparator != "." {
		s = strings.ReplaceAll(s, cfg.DecimalSeparator, ".")
	}
	s = nonNumeric.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	if s == "" || s == "-" {
		return decimal.NullDecimal{}, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	if negative {
		d = d.Neg()
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

// DeriveAmount computes the signed transaction amount from either a direct
// amount column or a credit/debit pair (spec §4.4 step 4): credit minus
// debit, treating a null side as zero. creditOrDebitMapped reports whether
// the profile maps a credit or debit column at all, distinguishing "mapped
// but blank this row" (amount 0, ok) from "not mapped" (ok=false, row must
// be dropped) — both cases parse a blank cell to the same invalid
// NullDecimal, so the caller must pass this distinction in explicitly.
func DeriveAmount(amount, credit, debit decimal.NullDecimal, creditOrDebitMapped bool) (decimal.Decimal, bool) {
	if amount.Valid {
		return amount.Decimal, true
	}
	if !creditOrDebitMapped {
		return decimal.Decimal{}, false
	}
	c := decimal.Zero
	if credit.Valid {
		c = credit.Decimal
	}
	d := decimal.Zero
	if debit.Valid {
		d = debit.Decimal
	}
	return c.Sub(d), true
}
