package row

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerflow/statement-engine/internal/profile"
)

// ClassifyPayIn implements spec §4.4 step 7's discriminated rule: a row is
// a pay-in (credit) according to exactly one of five configured strategies.
func ClassifyPayIn(rule profile.PayInRule, amount decimal.Decimal, credit decimal.NullDecimal, orderID, utr *string, narration string) bool {
	switch rule.Kind {
	case profile.AmountPositive:
		return amount.IsPositive()
	case profile.CreditColumn:
		return amount.IsPositive()
	case profile.OrderIDNoSpace:
		return amount.IsPositive() && (orderID == nil || !strings.Contains(*orderID, " "))
	case profile.UTRNoSpace:
		return amount.IsPositive() && (utr == nil || !strings.Contains(*utr, " "))
	case profile.NarrationContains:
		lower := strings.ToLower(narration)
		for _, needle := range rule.AnyOf {
			if strings.Contains(lower, strings.ToLower(needle)) {
				return true
			}
		}
		return false
	default:
		return amount.IsPositive()
	}
}
