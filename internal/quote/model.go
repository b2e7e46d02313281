package quote

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the quote lifecycle state. pending is the only non-terminal
// state: a quote moves to approved or rejected exactly once and never
// transitions again.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Quote is a priced proposal awaiting an operator decision. All pricing
// fields are snapshots of the calculator output at creation time; later
// rate changes never affect a priced quote.
type Quote struct {
	ID                    int64           `json:"quote_id"`
	CustomerName          string          `json:"customer_name"`
	BookTitle             string          `json:"book_title"`
	BookPrice             decimal.Decimal `json:"book_price"`
	ProfitPercent         decimal.Decimal `json:"profit_percent"`
	Profit                decimal.Decimal `json:"profit"`
	ShippingCost          decimal.Decimal `json:"shipping_cost"`
	ShippingAdjustmentJPY int64           `json:"shipping_adjustment_jpy"`
	TotalBRL              decimal.Decimal `json:"total_brl"`
	TotalJPY              int64           `json:"total_jpy"`
	ExchangeRate          decimal.Decimal `json:"exchange_rate"`
	RateSource            string          `json:"rate_source"`
	Status                Status          `json:"status"`
	AdminID               int64           `json:"admin_id"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// ConversionResult reports what an approval (or direct order) produced.
// AssetCode is nil when the book was not in inventory.
type ConversionResult struct {
	OrderID    int64  `json:"order_id"`
	CustomerID int64  `json:"customer_id"`
	AssetCode  *int64 `json:"asset_code"`
}
