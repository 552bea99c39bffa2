package categorizer

import (
	"github.com/shopspring/decimal"
)

// Transaction is what the categorizer needs to know about a transaction.
type Transaction struct {
	Description string
	UserID      string
	Amount      decimal.Decimal
}
