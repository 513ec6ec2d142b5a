package shopapi

import "github.com/tillpointhq/tillpoint-backend/pkg/types"

// SaleEnvelope is the sale header posted to the shop API.
type SaleEnvelope struct {
	AdminNumber   string  `json:"admin_number"`
	AdminName     string  `json:"admin_name"`
	TotalPrice    float64 `json:"total_price"`
	TotalNetPrice float64 `json:"total_net_price"`
	Profit        float64 `json:"profit"`
	SaleTime      string  `json:"sale_time"`
	SaleDay       int     `json:"sale_day"`
	SalesMonth    int     `json:"sales_month"`
	SalesYear     int     `json:"sales_year"`
	ShopID        string  `json:"shop_id"`
}

// SaleProduct is one itemized line inside a submitted sale.
type SaleProduct struct {
	ProductName  string  `json:"product_name"`
	Amount       float64 `json:"amount"`
	SellPrice    float64 `json:"sell_price"`
	NetPrice     float64 `json:"net_price"`
	ProductID    string  `json:"productid"`
	SellQuantity int     `json:"sell_quantity"`
	ShopID       string  `json:"shop_id"`
}

// SubmitSaleRequest is the full checkout payload.
type SubmitSaleRequest struct {
	Sale          SaleEnvelope  `json:"sale"`
	Products      []SaleProduct `json:"products"`
	ShopID        string        `json:"shop_id"`
	SaleDate      string        `json:"sale_date"`
	PaymentMethod string        `json:"payment_method"`
	Branch        int           `json:"branch"`
}

// SaleRecord is a persisted sale as returned by the shop API. Numeric
// fields use the lenient Amount type because historical records are not
// guaranteed to carry well-formed numbers.
type SaleRecord struct {
	ID            string           `json:"id"`
	AdminName     string           `json:"admin_name"`
	AdminNumber   string           `json:"admin_number"`
	ShopID        string           `json:"shop_id"`
	Branch        int              `json:"branch"`
	PaymentMethod string           `json:"payment_method"`
	TotalPrice    types.Amount     `json:"total_price"`
	TotalNetPrice types.Amount     `json:"total_net_price"`
	Profit        types.Amount     `json:"profit"`
	SaleTime      string           `json:"sale_time"`
	SaleDay       int              `json:"sale_day"`
	SalesMonth    int              `json:"sales_month"`
	SalesYear     int              `json:"sales_year"`
	Products      []RecordedLine   `json:"products,omitempty"`
}

// RecordedLine is an itemized line inside a persisted sale.
type RecordedLine struct {
	ProductName  string       `json:"product_name"`
	SellPrice    types.Amount `json:"sell_price"`
	NetPrice     types.Amount `json:"net_price"`
	ProductID    string       `json:"productid"`
	SellQuantity int          `json:"sell_quantity"`
}

// Product is a catalog entry served to the cashier browse screen.
type Product struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	BrandID      string       `json:"brand_id"`
	SellPrice    types.Amount `json:"sell_price"`
	NetPrice     types.Amount `json:"net_price"`
	Availability int          `json:"availability"`
	ExpireDate   string       `json:"expire_date,omitempty"`
}

// Brand resolves brand ids to display names.
type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
