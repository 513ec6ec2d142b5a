package checkout

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tillpointhq/tillpoint-backend/internal/cart"
	"github.com/tillpointhq/tillpoint-backend/internal/totals"
	"github.com/tillpointhq/tillpoint-backend/pkg/config"
	"github.com/tillpointhq/tillpoint-backend/pkg/shopapi"
)

// payloadInput carries everything needed to normalize a cart into the wire
// payload, after the precondition gates have passed.
type payloadInput struct {
	Lines         []cart.Line
	AdminName     string
	AdminPhone    string
	PaymentMethod string
	Paid          decimal.Decimal
	ShopID        string
	Branch        int
	Policy        string
	Now           time.Time
}

// buildSubmitRequest normalizes the cart and payment metadata into the
// shop API payload.
//
// Under the legacy profit policy the wire fields reproduce the books as
// the shop has always kept them: profit mirrors total_price and
// total_net_price carries the paid amount. The margin policy derives both
// from the cart instead. The choice is configuration because the legacy
// numbers, odd as they look, are what downstream reporting reconciles
// against.
func buildSubmitRequest(in payloadInput) shopapi.SubmitSaleRequest {
	computed := totals.Compute(in.Lines, "")
	total := computed.Total

	var profit, netTotal decimal.Decimal
	switch in.Policy {
	case config.ProfitPolicyMargin:
		netTotal = totals.NetTotal(in.Lines)
		profit = total.Sub(netTotal)
	default:
		profit = total
		netTotal = in.Paid
	}

	products := make([]shopapi.SaleProduct, 0, len(in.Lines))
	for _, line := range in.Lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		products = append(products, shopapi.SaleProduct{
			ProductName:  line.Name,
			Amount:       line.Price.Mul(qty).InexactFloat64(),
			SellPrice:    line.Price.InexactFloat64(),
			NetPrice:     line.NetPrice.InexactFloat64(),
			ProductID:    line.ProductID,
			SellQuantity: line.Quantity,
			ShopID:       in.ShopID,
		})
	}

	saleTime := in.Now.Format(time.RFC3339)

	return shopapi.SubmitSaleRequest{
		Sale: shopapi.SaleEnvelope{
			AdminNumber:   in.AdminPhone,
			AdminName:     in.AdminName,
			TotalPrice:    total.InexactFloat64(),
			TotalNetPrice: netTotal.InexactFloat64(),
			Profit:        profit.InexactFloat64(),
			SaleTime:      saleTime,
			SaleDay:       in.Now.Day(),
			SalesMonth:    int(in.Now.Month()),
			SalesYear:     in.Now.Year(),
			ShopID:        in.ShopID,
		},
		Products:      products,
		ShopID:        in.ShopID,
		SaleDate:      saleTime,
		PaymentMethod: in.PaymentMethod,
		Branch:        in.Branch,
	}
}
