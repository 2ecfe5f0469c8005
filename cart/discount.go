package cart

import "github.com/shopspring/decimal"

// DisplayPrice applies a percentage discount for presentation, rounded to
// cents. It is never written back to the cart.
func DisplayPrice(amount decimal.Decimal, percentOff int) decimal.Decimal {
	if percentOff <= 0 {
		return amount.Round(2)
	}
	if percentOff >= 100 {
		return decimal.Zero
	}
	factor := decimal.NewFromInt(int64(100 - percentOff)).Div(decimal.NewFromInt(100))
	return amount.Mul(factor).Round(2)
}
