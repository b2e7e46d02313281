package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticRates struct {
	rate   decimal.Decimal
	source string
}

func (s *staticRates) Rate(ctx context.Context) (decimal.Decimal, string) {
	return s.rate, s.source
}

type mockCalcRepo struct {
	CreateFunc func(ctx context.Context, calc *Calculation) error
}

func (m *mockCalcRepo) Create(ctx context.Context, calc *Calculation) error {
	return m.CreateFunc(ctx, calc)
}

func (m *mockCalcRepo) ListByAdmin(ctx context.Context, adminID int64, limit int) ([]Calculation, error) {
	return nil, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculator_Calculate(t *testing.T) {
	tests := []struct {
		name         string
		in           Input
		rate         string
		wantProfit   string
		wantTotalBRL string
		wantTotalJPY int64
	}{
		{
			name: "basic pricing",
			in: Input{
				BookPrice:     dec("50"),
				ProfitPercent: dec("20"),
				ShippingCost:  dec("40"),
			},
			rate:         "30",
			wantProfit:   "10",
			wantTotalBRL: "100",
			wantTotalJPY: 3000,
		},
		{
			name: "shipping adjustment added after conversion",
			in: Input{
				BookPrice:             dec("100"),
				ProfitPercent:         dec("10"),
				ShippingCost:          dec("0"),
				ShippingAdjustmentJPY: dec("500"),
			},
			rate:         "30",
			wantProfit:   "10",
			wantTotalBRL: "110",
			wantTotalJPY: 3800,
		},
		{
			name: "half yen rounds to even",
			in: Input{
				BookPrice:     dec("1"),
				ProfitPercent: dec("0"),
				ShippingCost:  dec("0"),
			},
			rate:         "30.5",
			wantProfit:   "0",
			wantTotalBRL: "1",
			wantTotalJPY: 30,
		},
		{
			name: "zero input yields zero total",
			in: Input{
				BookPrice:     dec("0"),
				ProfitPercent: dec("0"),
				ShippingCost:  dec("0"),
			},
			rate:         "30",
			wantProfit:   "0",
			wantTotalBRL: "0",
			wantTotalJPY: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rates := &staticRates{rate: dec(tt.rate), source: "ExchangeRate-API"}
			calc := NewCalculator(rates, nil)

			b, err := calc.Calculate(context.Background(), tt.in, "Alice", "Naruto vol. 1", 1)
			require.NoError(t, err)

			assert.True(t, b.Profit.Equal(dec(tt.wantProfit)), "profit = %s", b.Profit)
			assert.True(t, b.TotalBRL.Equal(dec(tt.wantTotalBRL)), "total BRL = %s", b.TotalBRL)
			assert.Equal(t, tt.wantTotalJPY, b.TotalJPY)
			assert.Equal(t, "ExchangeRate-API", b.RateSource)
		})
	}
}

func TestCalculator_FallbackRateStillPrices(t *testing.T) {
	rates := &staticRates{rate: dec("30"), source: SourceFallback}
	calc := NewCalculator(rates, nil)

	b, err := calc.Calculate(context.Background(), Input{BookPrice: dec("10")}, "Alice", "X", 1)
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, b.RateSource)
	assert.Equal(t, int64(300), b.TotalJPY)
}

func TestCalculator_RejectsNegativeInput(t *testing.T) {
	rates := &staticRates{rate: dec("30"), source: SourceFallback}
	calc := NewCalculator(rates, nil)

	_, err := calc.Calculate(context.Background(), Input{BookPrice: dec("-1")}, "Alice", "X", 1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = calc.Calculate(context.Background(), Input{ShippingCost: dec("-5")}, "Alice", "X", 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCalculator_AuditFailureDoesNotFailCalculation(t *testing.T) {
	rates := &staticRates{rate: dec("30"), source: "ExchangeRate-API"}
	repo := &mockCalcRepo{
		CreateFunc: func(ctx context.Context, calc *Calculation) error {
			return errors.New("connection refused")
		},
	}
	calc := NewCalculator(rates, repo)

	b, err := calc.Calculate(context.Background(), Input{BookPrice: dec("10")}, "Alice", "X", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(300), b.TotalJPY)
}
