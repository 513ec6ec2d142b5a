package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a decimal money value with lenient JSON decoding. Historical
// sale records come back from the shop API with missing, null, or string
// numeric fields; those all decode to zero instead of failing the read.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps a decimal into an Amount.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// AmountFromFloat builds an Amount from a float value.
func AmountFromFloat(f float64) Amount {
	return NewAmount(decimal.NewFromFloat(f))
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		a.Decimal = decimal.Zero
		return nil
	}
	raw = strings.Trim(raw, `"`)
	if raw == "" {
		a.Decimal = decimal.Zero
		return nil
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		a.Decimal = decimal.Zero
		return nil
	}
	a.Decimal = parsed
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// Float returns the nearest float64, used at the wire boundary.
func (a Amount) Float() float64 {
	return a.Decimal.InexactFloat64()
}
