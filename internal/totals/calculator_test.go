package totals

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tillpointhq/tillpoint-backend/internal/cart"
)

func line(id string, price, net int64, qty int) cart.Line {
	return cart.Line{
		ProductID: id,
		Name:      id,
		Price:     decimal.NewFromInt(price),
		NetPrice:  decimal.NewFromInt(net),
		Quantity:  qty,
	}
}

func TestComputeScenario(t *testing.T) {
	lines := []cart.Line{
		line("A", 10, 8, 2),
		line("B", 5, 5, 1),
	}

	got := Compute(lines, "")

	require.True(t, got.Total.Equal(decimal.NewFromInt(25)), "total %s", got.Total)
	require.True(t, got.Discount.Equal(decimal.NewFromInt(4)), "discount %s", got.Discount)
	require.True(t, got.FinalTotal.Equal(got.Total), "discount is informational only")
}

func TestComputePaidAndRemaining(t *testing.T) {
	lines := []cart.Line{line("A", 10, 8, 2), line("B", 5, 5, 1)}

	got := Compute(lines, "15")
	require.True(t, got.Paid.Equal(decimal.NewFromInt(15)))
	require.True(t, got.Remaining.Equal(decimal.NewFromInt(10)))

	// Overpayment drives remaining negative.
	got = Compute(lines, "30")
	require.True(t, got.Remaining.Equal(decimal.NewFromInt(-5)))
}

func TestComputeUnparseablePaidIsZero(t *testing.T) {
	lines := []cart.Line{line("A", 10, 8, 1)}

	for _, raw := range []string{"", "   ", "abc", "12.5.1"} {
		got := Compute(lines, raw)
		require.True(t, got.Paid.IsZero(), "paid for %q should be zero, got %s", raw, got.Paid)
	}
}

func TestDiscountNeverNegative(t *testing.T) {
	// Selling below cost must not offset discount from other lines.
	lines := []cart.Line{
		line("below-cost", 5, 9, 3),
		line("at-cost", 7, 7, 2),
	}

	got := Compute(lines, "")
	require.True(t, got.Discount.IsZero(), "discount %s", got.Discount)
}

func TestComputeExactOverLargeCart(t *testing.T) {
	lines := make([]cart.Line, 0, 1000)
	expected := decimal.Zero
	for i := 0; i < 1000; i++ {
		price := decimal.NewFromFloat(0.1)
		lines = append(lines, cart.Line{
			ProductID: fmt.Sprintf("p-%d", i),
			Price:     price,
			NetPrice:  price,
			Quantity:  3,
		})
		expected = expected.Add(price.Mul(decimal.NewFromInt(3)))
	}

	got := Compute(lines, "")
	require.True(t, got.Total.Equal(expected), "no rounding loss: want %s got %s", expected, got.Total)
	require.True(t, got.Total.Equal(decimal.NewFromInt(300)))
}

func TestNetTotal(t *testing.T) {
	lines := []cart.Line{line("A", 10, 8, 2), line("B", 5, 5, 1)}
	require.True(t, NetTotal(lines).Equal(decimal.NewFromInt(21)))
}
