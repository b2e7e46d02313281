package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Breakdown is the full result of one import-price calculation. Quotes
// snapshot every field so later rate changes never touch a priced quote.
type Breakdown struct {
	BookPrice             decimal.Decimal `json:"book_price"`
	ProfitPercent         decimal.Decimal `json:"profit_percent"`
	Profit                decimal.Decimal `json:"profit"`
	ShippingCost          decimal.Decimal `json:"shipping_cost"`
	ShippingAdjustmentJPY decimal.Decimal `json:"shipping_adjustment_jpy"`
	TotalBRL              decimal.Decimal `json:"total_brl"`
	TotalJPY              int64           `json:"total_jpy"`
	ExchangeRate          decimal.Decimal `json:"exchange_rate"`
	RateSource            string          `json:"rate_source"`
}

// Calculation is the audit record persisted for each calculator run.
type Calculation struct {
	ID           int64     `json:"id"`
	CustomerName string    `json:"customer_name"`
	BookTitle    string    `json:"book_title"`
	Breakdown    Breakdown `json:"breakdown"`
	AdminID      int64     `json:"admin_id"`
	CreatedAt    time.Time `json:"created_at"`
}
