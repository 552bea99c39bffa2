// Package currencyutils parses and formats statement amounts.
package currencyutils

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// CurrencyINR is the ISO code of every amount handled by the ledger.
const CurrencyINR = money.INR

// ParseAmount turns an amount fragment such as "₹1,23,456.78" or "-450" into a
// non-negative decimal. Only digits and '.' are kept, so the sign, currency
// symbols and grouping separators are dropped.
// Any failure returns decimal.Zero, which callers treat as "no amount".
func ParseAmount(amountStr string) decimal.Decimal {
	cleaned := StandardizeAmount(amountStr)
	if cleaned == "" {
		return decimal.Zero
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return amount.Abs()
}

// StandardizeAmount keeps only the digits and decimal points of amountStr.
func StandardizeAmount(amountStr string) string {
	var b strings.Builder
	b.Grow(len(amountStr))
	for _, r := range amountStr {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ToMoney converts a rupee amount into a go-money value in paise.
func ToMoney(amount decimal.Decimal) *money.Money {
	return money.New(amount.Shift(2).Round(0).IntPart(), CurrencyINR)
}

// FormatINR renders an amount for people, e.g. "₹1,234.50".
func FormatINR(amount decimal.Decimal) string {
	return ToMoney(amount).Display()
}

// IsPositive checks if an amount is positive
func IsPositive(amount decimal.Decimal) bool {
	return amount.GreaterThan(decimal.Zero)
}
