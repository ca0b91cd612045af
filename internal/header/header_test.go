package header

import (
	"testing"

	"github.com/ledgerflow/statement-engine/internal/engerr"
	"github.com/ledgerflow/statement-engine/internal/model"
	"github.com/ledgerflow/statement-engine/internal/profile"
)

// fakeGrid is a minimal MergedSource for tests: rows[r][c] is cell text,
// merges lists [row, fromCol, toCol] triples for merged regions.
type fakeGrid struct {
	rows   [][]string
	merges [][3]int
}

func (g *fakeGrid) RowCount() int { return len(g.rows) }
func (g *fakeGrid) ColCount() int {
	max := 0
	for _, r := range g.rows {
		if len(r) > max {
			max = len(r)
		}
	}
	return max
}
func (g *fakeGrid) CellText(row, col int) string {
	if row < 0 || row >= len(g.rows) || col < 0 || col >= len(g.rows[row]) {
		return ""
	}
	return g.rows[row][col]
}
func (g *fakeGrid) MergedRange(row, col int) (int, int, bool) {
	for _, m := range g.merges {
		if m[0] == row && col >= m[1] && col <= m[2] {
			return m[1], m[2], true
		}
	}
	return 0, 0, false
}

func TestResolveFixed(t *testing.T) {
	cfg := profile.HeaderConfig{
		Mode:     profile.HeaderFixed,
		RowStart: 2,
		Columns:  map[model.SemanticField]int{model.Date: 0, model.Reference: 1, model.Amount: 2},
	}
	res := ResolveFixed(cfg)
	if res.DataRowStart != 2 {
		t.Errorf("DataRowStart = %d, want 2", res.DataRowStart)
	}
	if res.Columns[model.Date] != 0 {
		t.Errorf("Columns[Date] = %d, want 0", res.Columns[model.Date])
	}
}

func TestResolveSearchSingleRow(t *testing.T) {
	grid := &fakeGrid{rows: [][]string{
		{"Statement of Account"},
		{"Txn Date", "Narration", "Amount", "Balance"},
		{"01/01/2024", "UPI/1234", "100.00", "5100.00"},
	}}
	cfg := profile.HeaderConfig{
		Mode:           profile.HeaderSearch,
		ScanFrom:       0,
		ScanTo:         2,
		MultiRowCount:  1,
		RowStartOffset: 1,
		Expect: map[model.SemanticField][]string{
			model.Date:      {"Txn Date", "Value Date"},
			model.Reference: {"Narration"},
			model.Amount:    {"Amount"},
		},
	}
	res, err := ResolveSearch(grid, cfg, "testbank", model.XLSX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DataRowStart != 2 {
		t.Errorf("DataRowStart = %d, want 2", res.DataRowStart)
	}
	if res.Columns[model.Date] != 0 || res.Columns[model.Reference] != 1 || res.Columns[model.Amount] != 2 {
		t.Errorf("unexpected columns: %+v", res.Columns)
	}
}

func TestResolveSearchMultiRowBandWithMerge(t *testing.T) {
	// Row 0 has a merged "Transaction" cell spanning cols 0-1; row 1 splits
	// it into "Date" and "Details". Columns join per-field with a space.
	grid := &fakeGrid{
		rows: [][]string{
			{"Transaction", "", "Amount"},
			{"Date", "Details", ""},
		},
		merges: [][3]int{{0, 0, 1}},
	}
	cfg := profile.HeaderConfig{
		Mode:           profile.HeaderSearch,
		ScanFrom:       0,
		ScanTo:         1,
		MultiRowCount:  2,
		MergeSeparator: " ",
		RowStartOffset: 1,
		Expect: map[model.SemanticField][]string{
			model.Date:      {"Transaction Date"},
			model.Reference: {"Transaction Details"},
			model.Amount:    {"Amount"},
		},
	}
	res, err := ResolveSearch(grid, cfg, "testbank", model.XLSX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DataRowStart != 2 {
		t.Errorf("DataRowStart = %d, want 2", res.DataRowStart)
	}
	if res.Columns[model.Date] != 0 {
		t.Errorf("Columns[Date] = %d, want 0", res.Columns[model.Date])
	}
	if res.Columns[model.Reference] != 1 {
		t.Errorf("Columns[Reference] = %d, want 1", res.Columns[model.Reference])
	}
}

func TestResolveSearchNotFound(t *testing.T) {
	grid := &fakeGrid{rows: [][]string{{"nothing useful here"}}}
	cfg := profile.HeaderConfig{
		Mode: profile.HeaderSearch, ScanFrom: 0, ScanTo: 0, MultiRowCount: 1, RowStartOffset: 1,
		Expect: map[model.SemanticField][]string{
			model.Date: {"Date"}, model.Reference: {"Narration"}, model.Amount: {"Amount"},
		},
	}
	_, err := ResolveSearch(grid, cfg, "testbank", model.XLSX)
	e, ok := err.(*engerr.Error)
	if !ok || e.Kind != engerr.HeaderNotFound {
		t.Errorf("got %v, want HeaderNotFound", err)
	}
}

func TestResolveDelimitedSearchExactMatch(t *testing.T) {
	rows := [][]string{
		{"Txn Date", "Narration", "Amount"},
		{"01/01/2024", "UPI/1234", "100.00"},
	}
	cfg := profile.HeaderConfig{
		ScanFrom: 0, ScanTo: 0, MultiRowCount: 1, RowStartOffset: 1,
		Expect: map[model.SemanticField][]string{
			model.Date:      {"Txn Date"},
			model.Reference: {"Narration"},
			model.Amount:    {"Amount"},
		},
	}
	res, err := ResolveDelimitedSearch(rows, cfg, "testbank")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DataRowStart != 1 {
		t.Errorf("DataRowStart = %d, want 1", res.DataRowStart)
	}
}

func TestResolveDelimitedSearchMultiRowBand(t *testing.T) {
	rows := [][]string{
		{"Transaction", "Transaction", "Amount"},
		{"Date", "Details", ""},
		{"01/01/2024", "UPI/1234", "100.00"},
	}
	cfg := profile.HeaderConfig{
		ScanFrom: 0, ScanTo: 1, MultiRowCount: 2, MergeSeparator: " ", RowStartOffset: 1,
		Expect: map[model.SemanticField][]string{
			model.Date:      {"Transaction Date"},
			model.Reference: {"Transaction Details"},
			model.Amount:    {"Amount"},
		},
	}
	res, err := ResolveDelimitedSearch(rows, cfg, "testbank")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DataRowStart != 2 {
		t.Errorf("DataRowStart = %d, want 2", res.DataRowStart)
	}
	if res.Columns[model.Date] != 0 || res.Columns[model.Reference] != 1 || res.Columns[model.Amount] != 2 {
		t.Errorf("unexpected columns: %+v", res.Columns)
	}
}

func TestResolveSearchFixedBand(t *testing.T) {
	grid := &fakeGrid{rows: [][]string{
		{"Statement of Account"},
		{"Txn Date", "Narration", "Amount"},
		{"01/01/2024", "UPI/1234", "100.00"},
	}}
	cfg := profile.HeaderConfig{
		Mode: profile.HeaderSearch, HasFixedBand: true, FixedBandFrom: 1,
		MultiRowCount: 1, RowStartOffset: 1,
		Expect: map[model.SemanticField][]string{
			model.Date:      {"Txn Date"},
			model.Reference: {"Narration"},
			model.Amount:    {"Amount"},
		},
	}
	res, err := ResolveSearch(grid, cfg, "testbank", model.XLSX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DataRowStart != 2 {
		t.Errorf("DataRowStart = %d, want 2", res.DataRowStart)
	}
}

func TestResolveSearchFixedBandWrongRowFails(t *testing.T) {
	grid := &fakeGrid{rows: [][]string{
		{"Statement of Account"},
		{"Txn Date", "Narration", "Amount"},
	}}
	cfg := profile.HeaderConfig{
		Mode: profile.HeaderSearch, HasFixedBand: true, FixedBandFrom: 0,
		MultiRowCount: 1, RowStartOffset: 1,
		Expect: map[model.SemanticField][]string{
			model.Date:      {"Txn Date"},
			model.Reference: {"Narration"},
			model.Amount:    {"Amount"},
		},
	}
	_, err := ResolveSearch(grid, cfg, "testbank", model.XLSX)
	e, ok := err.(*engerr.Error)
	if !ok || e.Kind != engerr.HeaderNotFound {
		t.Errorf("got %v, want HeaderNotFound (fixed band never scans elsewhere)", err)
	}
}

func TestResolveDelimitedSearchRequiresExactNotSubstring(t *testing.T) {
	// "Transaction Date" should NOT match synonym "Date" under exact rules,
	// unlike the spreadsheet substring path.
	rows := [][]string{{"Transaction Date", "Narration", "Amount"}}
	cfg := profile.HeaderConfig{
		ScanFrom: 0, ScanTo: 0, MultiRowCount: 1, RowStartOffset: 1,
		Expect: map[model.SemanticField][]string{
			model.Date:      {"Date"},
			model.Reference: {"Narration"},
			model.Amount:    {"Amount"},
		},
	}
	_, err := ResolveDelimitedSearch(rows, cfg, "testbank")
	if err == nil {
		t.Fatal("expected HeaderNotFound, got nil (exact match should not accept substrings)")
	}
}
