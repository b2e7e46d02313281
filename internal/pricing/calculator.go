package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ErrInvalidInput rejects calculator input before anything is computed or
// persisted.
var ErrInvalidInput = errors.New("invalid calculator input")

var oneHundred = decimal.NewFromInt(100)

// Input holds the operator-supplied figures for one calculation.
type Input struct {
	BookPrice             decimal.Decimal
	ShippingCost          decimal.Decimal
	ProfitPercent         decimal.Decimal
	ShippingAdjustmentJPY decimal.Decimal
}

// Calculator prices a book import: cost plus margin plus shipping in BRL,
// converted to a whole-yen total. Each run is recorded for audit on a
// best-effort basis.
type Calculator struct {
	rates RateProvider
	calcs CalculationRepository
}

func NewCalculator(rates RateProvider, calcs CalculationRepository) *Calculator {
	return &Calculator{rates: rates, calcs: calcs}
}

// Calculate validates the input, fetches the current exchange rate and
// returns the priced breakdown. The JPY total is rounded half to even, since
// yen carry no fractional unit. A failure to persist the audit record is
// logged and swallowed; it never fails the calculation.
func (c *Calculator) Calculate(ctx context.Context, in Input, customerName, bookTitle string, adminID int64) (*Breakdown, error) {
	if in.BookPrice.IsNegative() {
		return nil, fmt.Errorf("%w: book price cannot be negative", ErrInvalidInput)
	}
	if in.ShippingCost.IsNegative() {
		return nil, fmt.Errorf("%w: shipping cost cannot be negative", ErrInvalidInput)
	}

	profit := in.BookPrice.Mul(in.ProfitPercent).Div(oneHundred)
	totalBRL := in.BookPrice.Add(profit).Add(in.ShippingCost)

	rate, source := c.rates.Rate(ctx)
	totalJPY := totalBRL.Mul(rate).Add(in.ShippingAdjustmentJPY).RoundBank(0).IntPart()

	b := &Breakdown{
		BookPrice:             in.BookPrice,
		ProfitPercent:         in.ProfitPercent,
		Profit:                profit,
		ShippingCost:          in.ShippingCost,
		ShippingAdjustmentJPY: in.ShippingAdjustmentJPY,
		TotalBRL:              totalBRL,
		TotalJPY:              totalJPY,
		ExchangeRate:          rate,
		RateSource:            source,
	}

	if c.calcs != nil {
		calc := &Calculation{
			CustomerName: customerName,
			BookTitle:    bookTitle,
			Breakdown:    *b,
			AdminID:      adminID,
		}
		if err := c.calcs.Create(ctx, calc); err != nil {
			log.Warn().Err(err).Msg("pricing: failed to save calculation audit record")
		}
	}

	return b, nil
}
