package row

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ledgerflow/statement-engine/internal/profile"
)

func TestParseDecimal(t *testing.T) {
	cfg := profile.NumericConfig{ThousandsSeparator: ",", DecimalSeparator: "."}
	tests := []struct {
		input string
		want  string
		null  bool
	}{
		{"1,234.56", "1234.56", false},
		{"(25.99)", "-25.99", false},
		{"", "", true},
		{"   ", "", true},
		{"-", "", true},
		{"₹1,234,567.89", "1234567.89", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDecimal(tt.input, cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Valid == tt.null {
				t.Fatalf("Valid = %v, want %v", got.Valid, !tt.null)
			}
			if !tt.null && !got.Decimal.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("got %s, want %s", got.Decimal, tt.want)
			}
		})
	}
}

func TestParseDecimalEuropeanSeparators(t *testing.T) {
	cfg := profile.NumericConfig{ThousandsSeparator: ".", DecimalSeparator: ","}
	got, err := ParseDecimal("1.234,56", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Decimal.Equal(decimal.RequireFromString("1234.56")) {
		t.Errorf("got %s, want 1234.56", got.Decimal)
	}
}

func TestDeriveAmountDirect(t *testing.T) {
	amount := decimal.NullDecimal{Decimal: decimal.RequireFromString("100"), Valid: true}
	got, ok := DeriveAmount(amount, decimal.NullDecimal{}, decimal.NullDecimal{}, false)
	if !ok {
		t.Fatal("expected ok")
	}
	if !got.Equal(decimal.RequireFromString("100")) {
		t.Errorf("got %s, want 100", got)
	}
}

func TestDeriveAmountCreditDebit(t *testing.T) {
	credit := decimal.NullDecimal{Decimal: decimal.RequireFromString("500"), Valid: true}
	debit := decimal.NullDecimal{}
	got, ok := DeriveAmount(decimal.NullDecimal{}, credit, debit, true)
	if !ok {
		t.Fatal("expected ok")
	}
	if !got.Equal(decimal.RequireFromString("500")) {
		t.Errorf("got %s, want 500", got)
	}
}

func TestDeriveAmountCreditDebitBothBlankYieldsZero(t *testing.T) {
	// Credit/debit are mapped but blank on this row: a legitimate zero-value
	// row, not a drop.
	got, ok := DeriveAmount(decimal.NullDecimal{}, decimal.NullDecimal{}, decimal.NullDecimal{}, true)
	if !ok {
		t.Fatal("expected ok when credit/debit are mapped even though both are blank")
	}
	if !got.Equal(decimal.Zero) {
		t.Errorf("got %s, want 0", got)
	}
}

func TestDeriveAmountNeitherMappedDropsRow(t *testing.T) {
	_, ok := DeriveAmount(decimal.NullDecimal{}, decimal.NullDecimal{}, decimal.NullDecimal{}, false)
	if ok {
		t.Error("expected ok=false when no amount source is mapped")
	}
}
