package totals

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tillpointhq/tillpoint-backend/pkg/shopapi"
)

const unknownAdminLabel = "Unknown"

// topAdminCount bounds the per-admin ranking in the stats view.
const topAdminCount = 5

var hundred = decimal.NewFromInt(100)

// AdminTotals is one row of the per-admin rollup.
type AdminTotals struct {
	AdminName string          `json:"admin_name"`
	Count     int             `json:"count"`
	Total     decimal.Decimal `json:"total"`
	Profit    decimal.Decimal `json:"profit"`
}

// Stats is the reporting view over historical sale records. The paid/credit
// split follows the books as recorded: profit is treated as the settled
// portion, the remainder as outstanding credit.
type Stats struct {
	TotalSales       int             `json:"total_sales"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	TotalProfit      decimal.Decimal `json:"total_profit"`
	PaidCash         decimal.Decimal `json:"paid_cash"`
	OnCredit         decimal.Decimal `json:"on_credit"`
	PaidPercentage   decimal.Decimal `json:"paid_percentage"`
	CreditPercentage decimal.Decimal `json:"credit_percentage"`
	ProfitMargin     decimal.Decimal `json:"profit_margin"`
	AverageSale      decimal.Decimal `json:"average_sale"`
	AverageProfit    decimal.Decimal `json:"average_profit"`
	TopAdmins        []AdminTotals   `json:"top_admins"`
}

// Aggregate folds a list of historical sale records into the stats view.
// Malformed numeric fields have already been coerced to zero by the lenient
// amount decoding, so aggregation never fails.
func Aggregate(records []shopapi.SaleRecord) Stats {
	stats := Stats{
		TotalSales:       len(records),
		TotalAmount:      decimal.Zero,
		TotalProfit:      decimal.Zero,
		PaidCash:         decimal.Zero,
		OnCredit:         decimal.Zero,
		PaidPercentage:   decimal.Zero,
		CreditPercentage: decimal.Zero,
		ProfitMargin:     decimal.Zero,
		AverageSale:      decimal.Zero,
		AverageProfit:    decimal.Zero,
	}

	perAdmin := map[string]*AdminTotals{}
	order := []string{}

	for _, record := range records {
		total := record.TotalPrice.Decimal
		profit := record.Profit.Decimal

		stats.TotalAmount = stats.TotalAmount.Add(total)
		stats.TotalProfit = stats.TotalProfit.Add(profit)

		name := strings.TrimSpace(record.AdminName)
		if name == "" {
			name = unknownAdminLabel
		}
		row, ok := perAdmin[name]
		if !ok {
			row = &AdminTotals{AdminName: name, Total: decimal.Zero, Profit: decimal.Zero}
			perAdmin[name] = row
			order = append(order, name)
		}
		row.Count++
		row.Total = row.Total.Add(total)
		row.Profit = row.Profit.Add(profit)
	}

	stats.PaidCash = stats.TotalProfit
	stats.OnCredit = stats.TotalAmount.Sub(stats.TotalProfit)

	if stats.TotalAmount.IsPositive() {
		stats.PaidPercentage = stats.PaidCash.Div(stats.TotalAmount).Mul(hundred)
		stats.CreditPercentage = stats.OnCredit.Div(stats.TotalAmount).Mul(hundred)
		stats.ProfitMargin = stats.TotalProfit.Div(stats.TotalAmount).Mul(hundred)
	}

	if stats.TotalSales > 0 {
		count := decimal.NewFromInt(int64(stats.TotalSales))
		stats.AverageSale = stats.TotalAmount.Div(count)
		stats.AverageProfit = stats.TotalProfit.Div(count)
	}

	rows := make([]AdminTotals, 0, len(order))
	for _, name := range order {
		rows = append(rows, *perAdmin[name])
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total.GreaterThan(rows[j].Total)
	})
	if len(rows) > topAdminCount {
		rows = rows[:topAdminCount]
	}
	stats.TopAdmins = rows

	return stats
}
