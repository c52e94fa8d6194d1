// Package pricing computes order totals from cart lines and a customer's
// loyalty discount. All arithmetic is decimal; rounding happens once, at the
// end, half-up to two digits.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Threshold is the post-loyalty amount above which the extra volume
	// reduction applies, and above which a first order earns the loyalty
	// upgrade.
	Threshold = decimal.NewFromInt(5000)

	// UpgradeRate is the discount granted by the one-time loyalty upgrade.
	UpgradeRate = decimal.NewFromFloat(0.02)

	volumeFactor = decimal.NewFromFloat(0.95)
	one          = decimal.NewFromInt(1)
)

var ErrInvalidDiscount = errors.New("invalid discount")

type Line struct {
	ProductID uint
	Quantity  uint
	UnitPrice decimal.Decimal
}

// Total returns Σ(price×qty), reduced by the loyalty rate, with an extra 5%
// off when the reduced amount exceeds Threshold. Exactly Threshold gets no
// extra reduction.
func Total(lines []Line, discountRate decimal.Decimal) (decimal.Decimal, error) {
	if discountRate.IsNegative() || discountRate.GreaterThan(one) {
		return decimal.Zero, fmt.Errorf("%w: rate %s outside [0,1]", ErrInvalidDiscount, discountRate)
	}

	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	afterLoyalty := subtotal.Mul(one.Sub(discountRate))

	total := afterLoyalty
	if afterLoyalty.GreaterThan(Threshold) {
		total = afterLoyalty.Mul(volumeFactor)
	}

	return total.Round(2), nil
}

// QualifiesForUpgrade reports whether an order total earns the loyalty
// upgrade for a customer who has none yet.
func QualifiesForUpgrade(total decimal.Decimal) bool {
	return total.GreaterThan(Threshold)
}
