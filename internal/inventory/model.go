package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset is a physical book in stock. Assets are finite: the pricing flow
// looks them up by name but never fabricates one, and a sale through the
// quote path removes the row entirely.
type Asset struct {
	Code       int64           `json:"asset_code"`
	Name       string          `json:"asset_name"`
	RealPrice  decimal.Decimal `json:"real_price"`
	IenesPrice int64           `json:"ienes_price"`
	Black      decimal.Decimal `json:"black"`
	Private    decimal.Decimal `json:"private"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type ListEntry struct {
	Asset
	TimesSold    int64           `json:"times_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}
