package row

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ledgerflow/statement-engine/internal/model"
	"github.com/ledgerflow/statement-engine/internal/profile"
)

type fakeGrid struct {
	rows      [][]string
	merges    [][3]int
	dateCells map[[2]int]bool
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
func (g *fakeGrid) CellIsDate(row, col int) bool {
	return g.dateCells[[2]int{row, col}]
}

func basicProfile() *profile.FormatProfile {
	return &profile.FormatProfile{
		Enabled:   true,
		Numeric:   profile.NumericConfig{ThousandsSeparator: ",", DecimalSeparator: "."},
		DateParse: profile.DateParseConfig{Format: "dd/MM/yyyy"},
		PayInRule: profile.PayInRule{Kind: profile.AmountPositive},
	}
}

func TestMaterializeSpreadsheetBasic(t *testing.T) {
	grid := &fakeGrid{rows: [][]string{
		{"Date", "Narration", "Amount"},
		{"15/01/2024", "UPI/ORD1/UTR1", "100.00"},
		{"16/01/2024", "UPI/ORD2/UTR2", "-50.00"},
	}}
	cols := map[model.SemanticField]int{model.Date: 0, model.Reference: 1, model.Amount: 2}
	rows, err := MaterializeSpreadsheet(grid, 1, cols, basicProfile(), "test", model.XLSX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if !rows[0].PayIn {
		t.Error("first row should be payIn (positive amount)")
	}
	if rows[1].PayIn {
		t.Error("second row should not be payIn (negative amount)")
	}
}

func TestMaterializeSpreadsheetFlexibleReadProbe(t *testing.T) {
	// Amount cell at col 2 is blank on row 1; the real value sits one
	// column over at col 3 (a layout quirk the flexible read tolerates).
	grid := &fakeGrid{rows: [][]string{
		{"Date", "Narration", "Amount", ""},
		{"15/01/2024", "UPI/ORD1/UTR1", "", "100.00"},
	}}
	cols := map[model.SemanticField]int{model.Date: 0, model.Reference: 1, model.Amount: 2}
	rows, err := MaterializeSpreadsheet(grid, 1, cols, basicProfile(), "test", model.XLSX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if !rows[0].Amount.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("Amount = %s, want 100.00 (flexible read should find the neighbor cell)", rows[0].Amount)
	}
}

func TestMaterializeSpreadsheetMergedAnchorCell(t *testing.T) {
	// Amount's mapped column (2) is a non-anchor cell of a merge spanning
	// cols 1-2; excelize leaves it blank and stores the value only on the
	// anchor (col 1).
	grid := &fakeGrid{
		rows: [][]string{
			{"Date", "Narration", "Amount"},
			{"15/01/2024", "UPI/ORD1/UTR1", ""},
		},
		merges: [][3]int{{1, 1, 2}},
	}
	grid.rows[1][1] = "100.00"
	cols := map[model.SemanticField]int{model.Date: 0, model.Amount: 2}
	rows, err := MaterializeSpreadsheet(grid, 1, cols, basicProfile(), "test", model.XLSX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if !rows[0].Amount.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("Amount = %s, want 100.00 (merged anchor cell should supply the value)", rows[0].Amount)
	}
}

func TestMaterializeSpreadsheetNativeDateCellFallsBackToExcelSerial(t *testing.T) {
	// Date column holds a bare serial number but the profile never set
	// dateParse.input=excelSerial; CellIsDate should still trigger serial
	// parsing for this cell.
	grid := &fakeGrid{
		rows: [][]string{
			{"Date", "Narration", "Amount"},
			{"45306", "UPI/ORD1/UTR1", "100.00"},
		},
		dateCells: map[[2]int]bool{{1, 0}: true},
	}
	cols := map[model.SemanticField]int{model.Date: 0, model.Reference: 1, model.Amount: 2}
	rows, err := MaterializeSpreadsheet(grid, 1, cols, basicProfile(), "test", model.XLSX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].TransactionDateTime.Year() != 2024 || rows[0].TransactionDateTime.Month() != 1 || rows[0].TransactionDateTime.Day() != 15 {
		t.Errorf("TransactionDateTime = %v, want 2024-01-15", rows[0].TransactionDateTime)
	}
}

func TestMaterializeSpreadsheetFlexibleReadStopsAtForbiddenColumn(t *testing.T) {
	// Amount is blank, and the next column over is mapped to Reference —
	// flexible read must not borrow another field's cell.
	grid := &fakeGrid{rows: [][]string{
		{"Date", "Amount", "Narration"},
		{"15/01/2024", "", "UPI/ORD1/UTR1"},
	}}
	cols := map[model.SemanticField]int{model.Date: 0, model.Amount: 1, model.Reference: 2}
	rows, err := MaterializeSpreadsheet(grid, 1, cols, basicProfile(), "test", model.XLSX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("got %d rows, want 0 (no derivable amount, row dropped)", len(rows))
	}
}
