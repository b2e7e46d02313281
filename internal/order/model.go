package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a committed sale. Customer and asset references are optional: an
// order can describe a book that was never catalogued, and the name columns
// are historical snapshots that survive renames and asset consumption.
type Order struct {
	ID            int64           `json:"order_id"`
	CustomerID    *int64          `json:"customer_id,omitempty"`
	AssetCode     *int64          `json:"asset_code,omitempty"`
	CustomerName  string          `json:"customer_name"`
	AssetName     string          `json:"asset_name"`
	OrderDate     time.Time       `json:"order_date"`
	OrderReal     decimal.Decimal `json:"order_real"`
	OrderIen      int64           `json:"order_ien"`
	FreteBrasil   decimal.Decimal `json:"frete_brasil"`
	FreteJP       decimal.Decimal `json:"frete_jp"`
	TotalValue    decimal.Decimal `json:"total_value"`
	DeliveryDate  *time.Time      `json:"delivery_date,omitempty"`
	PaymentType   string          `json:"payment_type"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ListFilter narrows and pages the order listing.
type ListFilter struct {
	CustomerName string
	SortOldest   bool
	Page         int
	PerPage      int
}

type ListResult struct {
	Orders     []Order `json:"orders"`
	Page       int     `json:"page"`
	TotalPages int     `json:"total_pages"`
	Total      int64   `json:"total_orders"`
}
