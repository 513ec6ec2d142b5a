package totals

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tillpointhq/tillpoint-backend/pkg/shopapi"
	"github.com/tillpointhq/tillpoint-backend/pkg/types"
)

func record(admin string, total, profit float64) shopapi.SaleRecord {
	return shopapi.SaleRecord{
		AdminName:  admin,
		TotalPrice: types.AmountFromFloat(total),
		Profit:     types.AmountFromFloat(profit),
	}
}

func TestAggregateScenario(t *testing.T) {
	stats := Aggregate([]shopapi.SaleRecord{
		record("Sara", 100, 30),
		record("Sara", 50, 50),
	})

	require.Equal(t, 2, stats.TotalSales)
	require.True(t, stats.TotalAmount.Equal(decimal.NewFromInt(150)))
	require.True(t, stats.TotalProfit.Equal(decimal.NewFromInt(80)))
	require.True(t, stats.PaidCash.Equal(decimal.NewFromInt(80)))
	require.True(t, stats.OnCredit.Equal(decimal.NewFromInt(70)))

	margin, _ := stats.ProfitMargin.Round(1).Float64()
	require.InDelta(t, 53.3, margin, 0.05)
}

func TestAggregateEmptyHasNoDivisionByZero(t *testing.T) {
	stats := Aggregate(nil)

	require.Equal(t, 0, stats.TotalSales)
	require.True(t, stats.PaidPercentage.IsZero())
	require.True(t, stats.CreditPercentage.IsZero())
	require.True(t, stats.ProfitMargin.IsZero())
	require.True(t, stats.AverageSale.IsZero())
	require.True(t, stats.AverageProfit.IsZero())
}

func TestAggregateZeroAmountRecords(t *testing.T) {
	stats := Aggregate([]shopapi.SaleRecord{record("Sara", 0, 0)})

	require.Equal(t, 1, stats.TotalSales)
	require.True(t, stats.PaidPercentage.IsZero())
	require.True(t, stats.ProfitMargin.IsZero())
}

func TestAggregateCoercesMalformedAmounts(t *testing.T) {
	var records []shopapi.SaleRecord
	payload := `[
		{"admin_name":"Sara","total_price":100,"profit":30},
		{"admin_name":"Sara","total_price":"bogus","profit":null}
	]`
	require.NoError(t, json.Unmarshal([]byte(payload), &records))

	stats := Aggregate(records)
	require.True(t, stats.TotalAmount.Equal(decimal.NewFromInt(100)))
	require.True(t, stats.TotalProfit.Equal(decimal.NewFromInt(30)))
}

func TestAggregateUnknownAdminFallback(t *testing.T) {
	stats := Aggregate([]shopapi.SaleRecord{
		record("", 40, 10),
		record("   ", 10, 5),
	})

	require.Len(t, stats.TopAdmins, 1)
	require.Equal(t, "Unknown", stats.TopAdmins[0].AdminName)
	require.Equal(t, 2, stats.TopAdmins[0].Count)
	require.True(t, stats.TopAdmins[0].Total.Equal(decimal.NewFromInt(50)))
}

func TestAggregateTopAdminsRankedAndCapped(t *testing.T) {
	records := []shopapi.SaleRecord{}
	for i := 0; i < 7; i++ {
		records = append(records, record(fmt.Sprintf("admin-%d", i), float64(10*(i+1)), 1))
	}

	stats := Aggregate(records)
	require.Len(t, stats.TopAdmins, 5)
	require.Equal(t, "admin-6", stats.TopAdmins[0].AdminName)
	require.True(t, stats.TopAdmins[0].Total.Equal(decimal.NewFromInt(70)))
	// Descending by total.
	for i := 1; i < len(stats.TopAdmins); i++ {
		require.True(t, stats.TopAdmins[i-1].Total.GreaterThanOrEqual(stats.TopAdmins[i].Total))
	}
}

func TestAggregateAverages(t *testing.T) {
	stats := Aggregate([]shopapi.SaleRecord{
		record("a", 100, 20),
		record("b", 50, 10),
	})

	require.True(t, stats.AverageSale.Equal(decimal.NewFromInt(75)))
	require.True(t, stats.AverageProfit.Equal(decimal.NewFromInt(15)))
}
