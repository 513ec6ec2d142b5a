package totals

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tillpointhq/tillpoint-backend/internal/cart"
)

// Totals is derived from a cart snapshot plus the raw paid-amount input.
// Discount is informational only; the charged total is never reduced by it.
type Totals struct {
	Total      decimal.Decimal
	Discount   decimal.Decimal
	FinalTotal decimal.Decimal
	Paid       decimal.Decimal
	Remaining  decimal.Decimal
}

// Compute derives the running totals for the active transaction.
func Compute(lines []cart.Line, paidAmount string) Totals {
	total := decimal.Zero
	discount := decimal.Zero

	for _, line := range lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		total = total.Add(line.Price.Mul(qty))

		// Per-item discount floors at zero; selling below cost never
		// produces a negative contribution.
		if line.Price.GreaterThan(line.NetPrice) {
			discount = discount.Add(line.Price.Sub(line.NetPrice).Mul(qty))
		}
	}

	paid := ParsePaid(paidAmount)

	return Totals{
		Total:      total,
		Discount:   discount,
		FinalTotal: total,
		Paid:       paid,
		Remaining:  total.Sub(paid),
	}
}

// ParsePaid reads the operator-entered paid amount, treating anything
// unparseable as zero.
func ParsePaid(raw string) decimal.Decimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero
	}
	paid, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero
	}
	return paid
}

// NetTotal sums net price times quantity across the cart; the margin
// profit policy uses it for the wire payload.
func NetTotal(lines []cart.Line) decimal.Decimal {
	net := decimal.Zero
	for _, line := range lines {
		net = net.Add(line.NetPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return net
}
