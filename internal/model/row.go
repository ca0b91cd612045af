package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParsedRow is one normalized transaction, emitted in document order.
// Amount is never null for an emitted row; callers never see a row whose
// amount could not be derived.
type ParsedRow struct {
	TransactionDateTime time.Time
	Amount              decimal.Decimal
	Balance             decimal.NullDecimal
	Reference           string
	OrderID             *string
	UTR                 *string
	PayIn               bool
}
