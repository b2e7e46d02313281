package customer

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID                  int64     `json:"customer_id"`
	Name                string    `json:"customer_name"`
	Address             string    `json:"customer_address"`
	Telephone           string    `json:"customer_telephone"`
	DeliveryTimeRequest string    `json:"delivery_time_request"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ListEntry is a customer row joined with order statistics for the
// management listing.
type ListEntry struct {
	Customer
	TotalOrders int64           `json:"total_orders"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	LastOrder   *time.Time      `json:"last_order,omitempty"`
}
