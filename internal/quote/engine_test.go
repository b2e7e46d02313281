package quote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sakura-imports/books-backend/internal/customer"
	"github.com/sakura-imports/books-backend/internal/inventory"
	"github.com/sakura-imports/books-backend/internal/ledger"
	"github.com/sakura-imports/books-backend/internal/order"
	"github.com/sakura-imports/books-backend/internal/pricing"
	"github.com/sakura-imports/books-backend/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockQuoteRepo struct {
	CreateFunc       func(ctx context.Context, q *Quote) error
	GetByIDFunc      func(ctx context.Context, id int64) (*Quote, error)
	GetForUpdateFunc func(ctx context.Context, id int64) (*Quote, error)
	ListByStatusFunc func(ctx context.Context, status Status) ([]Quote, error)
	SetStatusFunc    func(ctx context.Context, id int64, status Status) error
}

func (m *mockQuoteRepo) Create(ctx context.Context, q *Quote) error { return m.CreateFunc(ctx, q) }
func (m *mockQuoteRepo) GetByID(ctx context.Context, id int64) (*Quote, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *mockQuoteRepo) GetForUpdate(ctx context.Context, id int64) (*Quote, error) {
	return m.GetForUpdateFunc(ctx, id)
}
func (m *mockQuoteRepo) ListByStatus(ctx context.Context, status Status) ([]Quote, error) {
	return m.ListByStatusFunc(ctx, status)
}
func (m *mockQuoteRepo) SetStatus(ctx context.Context, id int64, status Status) error {
	return m.SetStatusFunc(ctx, id, status)
}

type mockCustomerRepo struct {
	customer.Repository
	ResolveOrCreateFunc func(ctx context.Context, name string) (int64, error)
}

func (m *mockCustomerRepo) ResolveOrCreate(ctx context.Context, name string) (int64, error) {
	return m.ResolveOrCreateFunc(ctx, name)
}

type mockAssetRepo struct {
	inventory.Repository
	ResolveFunc func(ctx context.Context, name string) (*inventory.Asset, error)
	ConsumeFunc func(ctx context.Context, code int64) error
}

func (m *mockAssetRepo) Resolve(ctx context.Context, name string) (*inventory.Asset, error) {
	return m.ResolveFunc(ctx, name)
}
func (m *mockAssetRepo) Consume(ctx context.Context, code int64) error {
	return m.ConsumeFunc(ctx, code)
}

type mockOrderRepo struct {
	order.Repository
	CreateFunc func(ctx context.Context, o *order.Order) error
}

func (m *mockOrderRepo) Create(ctx context.Context, o *order.Order) error {
	return m.CreateFunc(ctx, o)
}

type mockLedgerRepo struct {
	ledger.Repository
	PostFunc func(ctx context.Context, t *ledger.Transaction) error
}

func (m *mockLedgerRepo) Post(ctx context.Context, t *ledger.Transaction) error {
	return m.PostFunc(ctx, t)
}

// fixture wires an engine over mocks and tracks whether the transaction
// committed or rolled back.
type fixture struct {
	quotes     *mockQuoteRepo
	customers  *mockCustomerRepo
	assets     *mockAssetRepo
	orders     *mockOrderRepo
	ledger     *mockLedgerRepo
	committed  bool
	rolledBack bool
}

func newFixture() *fixture {
	return &fixture{
		quotes:    &mockQuoteRepo{},
		customers: &mockCustomerRepo{},
		assets:    &mockAssetRepo{},
		orders:    &mockOrderRepo{},
		ledger:    &mockLedgerRepo{},
	}
}

func (f *fixture) engine() *Engine {
	runTx := func(ctx context.Context, fn func(q store.Querier) error) error {
		err := fn(nil)
		if err != nil {
			f.rolledBack = true
			return err
		}
		f.committed = true
		return nil
	}
	repos := Repos{
		Quotes:    func(store.Querier) Repository { return f.quotes },
		Customers: func(store.Querier) customer.Repository { return f.customers },
		Assets:    func(store.Querier) inventory.Repository { return f.assets },
		Orders:    func(store.Querier) order.Repository { return f.orders },
		Ledger:    func(store.Querier) ledger.Repository { return f.ledger },
	}
	now := func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }
	return NewEngineWith(runTx, repos, now)
}

func pendingQuote() *Quote {
	return &Quote{
		ID:            7,
		CustomerName:  "Alice",
		BookTitle:     "Naruto vol. 1",
		BookPrice:     decimal.NewFromInt(50),
		ProfitPercent: decimal.NewFromInt(20),
		Profit:        decimal.NewFromInt(10),
		ShippingCost:  decimal.NewFromInt(40),
		TotalBRL:      decimal.NewFromInt(100),
		TotalJPY:      3000,
		ExchangeRate:  decimal.NewFromInt(30),
		Status:        StatusPending,
		AdminID:       1,
	}
}

func TestEngine_Approve(t *testing.T) {
	t.Run("converts quote with asset in stock", func(t *testing.T) {
		f := newFixture()
		q := pendingQuote()

		var createdOrder *order.Order
		var postedTxn *ledger.Transaction
		var consumedCode int64
		var finalStatus Status

		f.quotes.GetForUpdateFunc = func(ctx context.Context, id int64) (*Quote, error) {
			assert.Equal(t, int64(7), id)
			return q, nil
		}
		f.quotes.SetStatusFunc = func(ctx context.Context, id int64, status Status) error {
			finalStatus = status
			return nil
		}
		f.customers.ResolveOrCreateFunc = func(ctx context.Context, name string) (int64, error) {
			assert.Equal(t, "Alice", name)
			return 42, nil
		}
		f.assets.ResolveFunc = func(ctx context.Context, name string) (*inventory.Asset, error) {
			return &inventory.Asset{Code: 99, Name: name}, nil
		}
		f.assets.ConsumeFunc = func(ctx context.Context, code int64) error {
			consumedCode = code
			return nil
		}
		f.orders.CreateFunc = func(ctx context.Context, o *order.Order) error {
			o.ID = 500
			createdOrder = o
			return nil
		}
		f.ledger.PostFunc = func(ctx context.Context, txn *ledger.Transaction) error {
			postedTxn = txn
			return nil
		}

		result, err := f.engine().Approve(context.Background(), 7)
		require.NoError(t, err)
		assert.True(t, f.committed)

		assetCode := int64(99)
		want := &ConversionResult{OrderID: 500, CustomerID: 42, AssetCode: &assetCode}
		if diff := cmp.Diff(want, result); diff != "" {
			t.Errorf("conversion result mismatch (-want +got):\n%s", diff)
		}

		require.NotNil(t, createdOrder)
		assert.Equal(t, PaymentTypeQuoteApproved, createdOrder.PaymentType)
		assert.Equal(t, int64(3000), createdOrder.OrderIen)
		assert.True(t, createdOrder.TotalValue.Equal(decimal.NewFromInt(3000)))
		assert.Equal(t, int64(99), consumedCode)

		require.NotNil(t, postedTxn)
		assert.Equal(t, ledger.TypeDebit, postedTxn.Type)
		assert.True(t, postedTxn.Amount.Equal(decimal.NewFromInt(3000)))
		assert.Equal(t, int64(500), *postedTxn.OrderID)
		assert.Equal(t, "Order #500 - Naruto vol. 1", postedTxn.Description)

		assert.Equal(t, StatusApproved, finalStatus)
	})

	t.Run("converts quote when book not in stock", func(t *testing.T) {
		f := newFixture()
		f.quotes.GetForUpdateFunc = func(ctx context.Context, id int64) (*Quote, error) {
			return pendingQuote(), nil
		}
		f.quotes.SetStatusFunc = func(ctx context.Context, id int64, status Status) error { return nil }
		f.customers.ResolveOrCreateFunc = func(ctx context.Context, name string) (int64, error) {
			return 42, nil
		}
		f.assets.ResolveFunc = func(ctx context.Context, name string) (*inventory.Asset, error) {
			return nil, inventory.ErrAssetNotFound
		}
		f.assets.ConsumeFunc = func(ctx context.Context, code int64) error {
			t.Fatal("consume must not be called when asset is missing")
			return nil
		}
		f.orders.CreateFunc = func(ctx context.Context, o *order.Order) error {
			o.ID = 501
			return nil
		}
		f.ledger.PostFunc = func(ctx context.Context, txn *ledger.Transaction) error { return nil }

		result, err := f.engine().Approve(context.Background(), 7)
		require.NoError(t, err)
		assert.Nil(t, result.AssetCode)
		assert.True(t, f.committed)
	})

	t.Run("already approved quote returns conflict", func(t *testing.T) {
		f := newFixture()
		f.quotes.GetForUpdateFunc = func(ctx context.Context, id int64) (*Quote, error) {
			q := pendingQuote()
			q.Status = StatusApproved
			return q, nil
		}

		_, err := f.engine().Approve(context.Background(), 7)
		assert.ErrorIs(t, err, ErrAlreadyProcessed)
		assert.True(t, f.rolledBack)
	})

	t.Run("missing quote", func(t *testing.T) {
		f := newFixture()
		f.quotes.GetForUpdateFunc = func(ctx context.Context, id int64) (*Quote, error) {
			return nil, ErrQuoteNotFound
		}

		_, err := f.engine().Approve(context.Background(), 404)
		assert.ErrorIs(t, err, ErrQuoteNotFound)
	})

	t.Run("ledger failure aborts the whole conversion", func(t *testing.T) {
		f := newFixture()
		var statusSet bool

		f.quotes.GetForUpdateFunc = func(ctx context.Context, id int64) (*Quote, error) {
			return pendingQuote(), nil
		}
		f.quotes.SetStatusFunc = func(ctx context.Context, id int64, status Status) error {
			statusSet = true
			return nil
		}
		f.customers.ResolveOrCreateFunc = func(ctx context.Context, name string) (int64, error) {
			return 42, nil
		}
		f.assets.ResolveFunc = func(ctx context.Context, name string) (*inventory.Asset, error) {
			return nil, inventory.ErrAssetNotFound
		}
		f.orders.CreateFunc = func(ctx context.Context, o *order.Order) error {
			o.ID = 502
			return nil
		}
		f.ledger.PostFunc = func(ctx context.Context, txn *ledger.Transaction) error {
			return errors.New("disk full")
		}

		_, err := f.engine().Approve(context.Background(), 7)
		require.Error(t, err)
		assert.True(t, f.rolledBack)
		assert.False(t, f.committed)
		assert.False(t, statusSet)
	})
}

func TestEngine_Reject(t *testing.T) {
	t.Run("pending quote rejects without side effects", func(t *testing.T) {
		f := newFixture()
		var finalStatus Status

		f.quotes.GetForUpdateFunc = func(ctx context.Context, id int64) (*Quote, error) {
			return pendingQuote(), nil
		}
		f.quotes.SetStatusFunc = func(ctx context.Context, id int64, status Status) error {
			finalStatus = status
			return nil
		}
		f.orders.CreateFunc = func(ctx context.Context, o *order.Order) error {
			t.Fatal("reject must not create an order")
			return nil
		}

		err := f.engine().Reject(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, finalStatus)
	})

	t.Run("terminal quote returns conflict", func(t *testing.T) {
		f := newFixture()
		f.quotes.GetForUpdateFunc = func(ctx context.Context, id int64) (*Quote, error) {
			q := pendingQuote()
			q.Status = StatusRejected
			return q, nil
		}

		err := f.engine().Reject(context.Background(), 7)
		assert.ErrorIs(t, err, ErrAlreadyProcessed)
	})
}

func TestEngine_DirectOrder(t *testing.T) {
	t.Run("creates order without touching inventory or the ledger", func(t *testing.T) {
		f := newFixture()
		var createdOrder *order.Order

		f.customers.ResolveOrCreateFunc = func(ctx context.Context, name string) (int64, error) {
			return 42, nil
		}
		f.assets.ResolveFunc = func(ctx context.Context, name string) (*inventory.Asset, error) {
			return &inventory.Asset{Code: 99, Name: name}, nil
		}
		f.assets.ConsumeFunc = func(ctx context.Context, code int64) error {
			t.Fatal("direct order must not consume the asset")
			return nil
		}
		f.orders.CreateFunc = func(ctx context.Context, o *order.Order) error {
			o.ID = 600
			createdOrder = o
			return nil
		}
		f.ledger.PostFunc = func(ctx context.Context, txn *ledger.Transaction) error {
			t.Fatal("direct order must not post a ledger entry")
			return nil
		}

		result, err := f.engine().DirectOrder(context.Background(), DirectOrderInput{
			CustomerName:  "Bob",
			BookTitle:     "One Piece vol. 3",
			BookPrice:     decimal.NewFromInt(30),
			TotalValueJPY: 1800,
		})
		require.NoError(t, err)

		assert.Equal(t, int64(600), result.OrderID)
		require.NotNil(t, result.AssetCode)
		assert.Equal(t, int64(99), *result.AssetCode)
		assert.Equal(t, PaymentTypeDirectOrder, createdOrder.PaymentType)
		assert.Equal(t, int64(1800), createdOrder.OrderIen)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		f := newFixture()
		_, err := f.engine().DirectOrder(context.Background(), DirectOrderInput{
			CustomerName:  "  ",
			BookTitle:     "X",
			TotalValueJPY: 100,
		})
		assert.ErrorIs(t, err, ErrInvalidQuote)

		_, err = f.engine().DirectOrder(context.Background(), DirectOrderInput{
			CustomerName:  "Bob",
			BookTitle:     "X",
			TotalValueJPY: 0,
		})
		assert.ErrorIs(t, err, ErrInvalidQuote)
	})
}

func TestEngine_CreateQuote(t *testing.T) {
	t.Run("snapshots the breakdown", func(t *testing.T) {
		f := newFixture()
		f.quotes.CreateFunc = func(ctx context.Context, q *Quote) error {
			q.ID = 11
			return nil
		}

		b := &pricing.Breakdown{
			BookPrice:             decimal.NewFromInt(50),
			ProfitPercent:         decimal.NewFromInt(20),
			Profit:                decimal.NewFromInt(10),
			ShippingCost:          decimal.NewFromInt(40),
			ShippingAdjustmentJPY: decimal.NewFromInt(0),
			TotalBRL:              decimal.NewFromInt(100),
			TotalJPY:              3000,
			ExchangeRate:          decimal.NewFromInt(30),
			RateSource:            "ExchangeRate-API",
		}

		q, err := f.engine().CreateQuote(context.Background(), b, " Alice ", "Naruto vol. 1", 1)
		require.NoError(t, err)
		assert.Equal(t, int64(11), q.ID)
		assert.Equal(t, "Alice", q.CustomerName)
		assert.Equal(t, StatusPending, q.Status)
		assert.Equal(t, int64(3000), q.TotalJPY)
	})

	t.Run("rejects missing fields and non-positive totals", func(t *testing.T) {
		f := newFixture()
		b := &pricing.Breakdown{TotalJPY: 3000}

		_, err := f.engine().CreateQuote(context.Background(), b, "", "Naruto vol. 1", 1)
		assert.ErrorIs(t, err, ErrInvalidQuote)

		// A zero total is what the calculator yields for all-zero input;
		// such a quote is never persisted.
		b.TotalJPY = 0
		_, err = f.engine().CreateQuote(context.Background(), b, "Alice", "Naruto vol. 1", 1)
		assert.ErrorIs(t, err, ErrInvalidQuote)
	})
}
