package row

import (
	"strconv"

	"github.com/ledgerflow/statement-engine/internal/engerr"
	"github.com/ledgerflow/statement-engine/internal/model"
	"github.com/ledgerflow/statement-engine/internal/profile"
)

// MaterializeDelimited runs the row pipeline over already-split delimited
// rows (spec §4.4), starting at dataRowStart, using the header resolution's
// column mapping. Emission stops at the first row-stop trigger or at the
// end of input.
func MaterializeDelimited(rows [][]string, dataRowStart int, cols map[model.SemanticField]int, fp *profile.FormatProfile, parserKey string) ([]model.ParsedRow, error) {
	var out []model.ParsedRow

	for i := dataRowStart; i < len(rows); i++ {
		cells := rows[i]
		loc := rowLocation(i)

		if StopTriggered(fp.RowStop, cells, joinRow(cells)) {
			break
		}

		cell := func(field model.SemanticField) (string, bool) {
			idx, ok := cols[field]
			if !ok {
				return "", false
			}
			if idx >= len(cells) {
				return "", true
			}
			return cells[idx], true
		}

		pr, skip, err := materializeOne(cell, fp, fp.DateParse, parserKey, model.CSV, loc)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		out = append(out, pr)
	}

	return out, nil
}

func joinRow(cells []string) string {
	s := ""
	for i, c := range cells {
		if i > 0 {
			s += " "
		}
		s += c
	}
	return s
}

func rowLocation(i int) string {
	return "row " + strconv.Itoa(i)
}

// materializeOne runs the field-extraction and classification pipeline
// shared by every format once raw cell text has been fetched for each
// semantic field. cell reports both the text at a field and whether the
// profile maps that field at all, so a blank mapped cell (credit/debit both
// present but empty this row) can be told apart from an unmapped one — see
// DeriveAmount. dateParse is passed separately from fp.DateParse so a
// spreadsheet source can override it per-cell for native date cells. skip
// reports that the row had no derivable amount and must be dropped silently
// (spec §4.4 step 4).
func materializeOne(cell func(model.SemanticField) (string, bool), fp *profile.FormatProfile, dateParse profile.DateParseConfig, parserKey string, format model.FormatKind, loc string) (model.ParsedRow, bool, error) {
	amountText, _ := cell(model.Amount)
	amountRaw, err := ParseDecimal(amountText, fp.Numeric)
	if err != nil {
		return model.ParsedRow{}, false, engerr.Wrap(engerr.MalformedProfile, parserKey, format, loc, err)
	}
	creditText, creditMapped := cell(model.Credit)
	creditRaw, err := ParseDecimal(creditText, fp.Numeric)
	if err != nil {
		return model.ParsedRow{}, false, engerr.Wrap(engerr.MalformedProfile, parserKey, format, loc, err)
	}
	debitText, debitMapped := cell(model.Debit)
	debitRaw, err := ParseDecimal(debitText, fp.Numeric)
	if err != nil {
		return model.ParsedRow{}, false, engerr.Wrap(engerr.MalformedProfile, parserKey, format, loc, err)
	}
	balanceText, _ := cell(model.Balance)
	balanceRaw, err := ParseDecimal(balanceText, fp.Numeric)
	if err != nil {
		return model.ParsedRow{}, false, engerr.Wrap(engerr.MalformedProfile, parserKey, format, loc, err)
	}

	amount, ok2 := DeriveAmount(amountRaw, creditRaw, debitRaw, creditMapped || debitMapped)
	if !ok2 {
		return model.ParsedRow{}, true, nil
	}

	dateText, _ := cell(model.Date)
	timeText, _ := cell(model.Time)
	when, err := ParseDateTime(dateText, timeText, dateParse)
	if err != nil {
		return model.ParsedRow{}, false, engerr.Wrap(engerr.MalformedProfile, parserKey, format, loc, err)
	}

	reference, _ := cell(model.Reference)
	split := SplitReference(reference, fp.Reference)

	payIn := ClassifyPayIn(fp.PayInRule, amount, creditRaw, split.OrderID, split.UTR, reference)

	return model.ParsedRow{
		TransactionDateTime: when,
		Amount:              amount,
		Balance:             balanceRaw,
		Reference:           reference,
		OrderID:             split.OrderID,
		UTR:                 split.UTR,
		PayIn:               payIn,
	}, false, nil
}
