package row

import (
	"testing"
	"time"

	"github.com/ledgerflow/statement-engine/internal/profile"
)

func TestParseDateTimeConfiguredFormat(t *testing.T) {
	cfg := profile.DateParseConfig{Format: "dd/MM/yyyy"}
	got, err := ParseDateTime("15/01/2024", "", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseDateTimeWithSeparateTimeColumn(t *testing.T) {
	cfg := profile.DateParseConfig{Format: "yyyy-MM-dd", TimeFormat: "HH:mm:ss"}
	got, err := ParseDateTime("2024-01-15", "13:45:30", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 1, 15, 13, 45, 30, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseDateTimeExcelSerial(t *testing.T) {
	cfg := profile.DateParseConfig{Input: profile.DateInputExcelSerial}
	// Serial 45000 is 2023-03-15 at midnight.
	got, err := ParseDateTime("45000", "", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseDateTimeExcelSerialWithFraction(t *testing.T) {
	cfg := profile.DateParseConfig{Input: profile.DateInputExcelSerial}
	got, err := ParseDateTime("45000.5", "", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 12 {
		t.Errorf("hour = %d, want 12 (noon)", got.Hour())
	}
}

func TestParseDateTimeExcelSerialFallsThroughOnNonNumeric(t *testing.T) {
	// excelSerial is only attempted when the raw date is a clean float;
	// otherwise it falls through to the configured format instead of
	// failing with a serial-parse error.
	cfg := profile.DateParseConfig{Input: profile.DateInputExcelSerial, Format: "dd/MM/yyyy"}
	got, err := ParseDateTime("15/01/2024", "", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseDateTimeFallsBackOnDrift(t *testing.T) {
	cfg := profile.DateParseConfig{Format: "dd/MM/yyyy"}
	got, err := ParseDateTime("2024-01-15", "", cfg)
	if err != nil {
		t.Fatalf("expected ISO date to parse despite the dd/MM/yyyy format, got error: %v", err)
	}
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseDateTimeUnparseable(t *testing.T) {
	cfg := profile.DateParseConfig{Format: "dd/MM/yyyy"}
	_, err := ParseDateTime("not a date", "", cfg)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestTranslateLayout(t *testing.T) {
	tests := map[string]string{
		"dd/MM/yyyy":       "02/01/2006",
		"yyyy-MM-dd":       "2006-01-02",
		"dd-MMM-yyyy":      "02-Jan-2006",
		"HH:mm:ss":         "15:04:05",
		"dd/MM/yy hh:mm a": "02/01/06 03:04 PM",
	}
	for in, want := range tests {
		if got := translateLayout(in); got != want {
			t.Errorf("translateLayout(%q) = %q, want %q", in, got, want)
		}
	}
}
