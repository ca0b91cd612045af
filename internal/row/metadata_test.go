package row

import "testing"

func TestExtractMetadata(t *testing.T) {
	text := "Account holder: JANE DOE\nAccount number: 123456789012\nSort code: 20-00-00\nStatement period: 01/01/2024 to 31/01/2024\n"
	m := ExtractMetadata(text, []string{"Account holder"})
	if m.AccountHolder != "JANE DOE" {
		t.Errorf("AccountHolder = %q, want JANE DOE", m.AccountHolder)
	}
	if m.AccountNumber != "123456789012" {
		t.Errorf("AccountNumber = %q, want 123456789012", m.AccountNumber)
	}
	if m.SortCode != "20-00-00" {
		t.Errorf("SortCode = %q, want 20-00-00", m.SortCode)
	}
	if m.StatementFrom != "01/01/2024" || m.StatementTo != "31/01/2024" {
		t.Errorf("period = %q..%q, want 01/01/2024..31/01/2024", m.StatementFrom, m.StatementTo)
	}
}

func TestExtractMetadataEmptyWhenAbsent(t *testing.T) {
	m := ExtractMetadata("no metadata in this document at all", []string{"Account holder"})
	if m.AccountHolder != "" || m.AccountNumber != "" || m.SortCode != "" {
		t.Errorf("expected empty Metadata, got %+v", m)
	}
}
