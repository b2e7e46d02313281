package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry. Debits raise what the customer
// owes; payments and credits lower it.
type TransactionType string

const (
	TypeDebit   TransactionType = "debit"
	TypePayment TransactionType = "payment"
	TypeCredit  TransactionType = "credit"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TypeDebit, TypePayment, TypeCredit:
		return true
	}
	return false
}

// Transaction is one append-only entry in a customer's account history.
// Entries are never updated; deletion is allowed as an explicit undo.
type Transaction struct {
	ID              int64           `json:"account_id"`
	CustomerID      int64           `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	Type            TransactionType `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	OrderID         *int64          `json:"order_id,omitempty"`
	TransactionDate time.Time       `json:"transaction_date"`
	AdminID         int64           `json:"admin_id"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Summary aggregates a customer's account. Balance is always derived from
// the transaction log at read time, never stored.
type Summary struct {
	TotalDebt     decimal.Decimal `json:"total_debt"`
	TotalPayments decimal.Decimal `json:"total_payments"`
	TotalCredits  decimal.Decimal `json:"total_credits"`
	Balance       decimal.Decimal `json:"current_balance"`
}
