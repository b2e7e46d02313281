package quote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/sakura-imports/books-backend/internal/customer"
	"github.com/sakura-imports/books-backend/internal/inventory"
	"github.com/sakura-imports/books-backend/internal/ledger"
	"github.com/sakura-imports/books-backend/internal/order"
	"github.com/sakura-imports/books-backend/internal/pricing"
	"github.com/sakura-imports/books-backend/internal/store"
	"github.com/shopspring/decimal"
)

// ErrInvalidQuote rejects quote or direct-order input before any store
// mutation.
var ErrInvalidQuote = errors.New("invalid quote input")

// PaymentTypeQuoteApproved and PaymentTypeDirectOrder label which path
// created an order.
const (
	PaymentTypeQuoteApproved = "Quote Approved"
	PaymentTypeDirectOrder   = "Direct Order"
)

// TxRunner executes fn with a Querier scoped to a single transaction,
// committing on nil error and rolling back otherwise.
type TxRunner func(ctx context.Context, fn func(q store.Querier) error) error

// Repos binds per-transaction repositories over a Querier. The engine
// constructs every collaborator on the same transaction so that a failure
// at any step undoes the whole unit.
type Repos struct {
	Quotes    func(store.Querier) Repository
	Customers func(store.Querier) customer.Repository
	Assets    func(store.Querier) inventory.Repository
	Orders    func(store.Querier) order.Repository
	Ledger    func(store.Querier) ledger.Repository
}

// Engine owns the quote state machine and the atomic quote-to-order
// conversion protocol.
type Engine struct {
	runTx TxRunner
	repos Repos
	now   func() time.Time
}

// NewEngine wires the engine over a pgx pool with the production
// repositories.
func NewEngine(pool *pgxpool.Pool) *Engine {
	return &Engine{
		runTx: func(ctx context.Context, fn func(q store.Querier) error) error {
			return store.RunInTx(ctx, pool, func(tx pgx.Tx) error { return fn(tx) })
		},
		repos: Repos{
			Quotes:    NewRepository,
			Customers: customer.NewRepository,
			Assets:    inventory.NewRepository,
			Orders:    order.NewRepository,
			Ledger:    ledger.NewRepository,
		},
		now: time.Now,
	}
}

// NewEngineWith builds an engine from explicit collaborators. Tests use it
// to substitute repositories and the transaction runner.
func NewEngineWith(runTx TxRunner, repos Repos, now func() time.Time) *Engine {
	return &Engine{runTx: runTx, repos: repos, now: now}
}

// CreateQuote persists a pending quote snapshotting the calculator output.
// The total must be positive: the calculator yields a zero total for
// all-zero input, and a quote for nothing is an operator mistake, not a
// proposal anyone can approve.
func (e *Engine) CreateQuote(ctx context.Context, b *pricing.Breakdown, customerName, bookTitle string, adminID int64) (*Quote, error) {
	customerName = strings.TrimSpace(customerName)
	bookTitle = strings.TrimSpace(bookTitle)
	if customerName == "" || bookTitle == "" {
		return nil, fmt.Errorf("%w: customer name and book title are required", ErrInvalidQuote)
	}
	if b.TotalJPY <= 0 {
		return nil, fmt.Errorf("%w: total must be greater than 0", ErrInvalidQuote)
	}

	q := &Quote{
		CustomerName:          customerName,
		BookTitle:             bookTitle,
		BookPrice:             b.BookPrice,
		ProfitPercent:         b.ProfitPercent,
		Profit:                b.Profit,
		ShippingCost:          b.ShippingCost,
		ShippingAdjustmentJPY: b.ShippingAdjustmentJPY.RoundBank(0).IntPart(),
		TotalBRL:              b.TotalBRL,
		TotalJPY:              b.TotalJPY,
		ExchangeRate:          b.ExchangeRate,
		RateSource:            b.RateSource,
		Status:                StatusPending,
		AdminID:               adminID,
	}

	err := e.runTx(ctx, func(db store.Querier) error {
		return e.repos.Quotes(db).Create(ctx, q)
	})
	if err != nil {
		return nil, fmt.Errorf("engine: failed to create quote: %w", err)
	}

	log.Info().Int64("quote_id", q.ID).Str("customer", q.CustomerName).Int64("total_jpy", q.TotalJPY).
		Msg("engine: quote created")
	return q, nil
}

func (e *Engine) GetQuote(ctx context.Context, id int64) (*Quote, error) {
	var q *Quote
	err := e.runTx(ctx, func(db store.Querier) error {
		var err error
		q, err = e.repos.Quotes(db).GetByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrQuoteNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("engine: failed to fetch quote: %w", err)
	}
	return q, nil
}

func (e *Engine) ListQuotes(ctx context.Context, status Status) ([]Quote, error) {
	var quotes []Quote
	err := e.runTx(ctx, func(db store.Querier) error {
		var err error
		quotes, err = e.repos.Quotes(db).ListByStatus(ctx, status)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("engine: failed to list quotes: %w", err)
	}
	return quotes, nil
}

// Approve converts a pending quote into an order as one all-or-nothing
// unit: resolve or create the customer, resolve (never create) the asset,
// create the order, consume the asset if it was in stock, post the debit to
// the customer's account, and flip the quote to approved. Any failure rolls
// the whole unit back, leaving the quote pending and no other row changed.
func (e *Engine) Approve(ctx context.Context, quoteID int64) (*ConversionResult, error) {
	var result ConversionResult

	err := e.runTx(ctx, func(db store.Querier) error {
		quotes := e.repos.Quotes(db)

		q, err := quotes.GetForUpdate(ctx, quoteID)
		if err != nil {
			return err
		}
		if q.Status.Terminal() {
			return ErrAlreadyProcessed
		}

		customerID, err := e.repos.Customers(db).ResolveOrCreate(ctx, q.CustomerName)
		if err != nil {
			return err
		}

		assets := e.repos.Assets(db)
		var assetCode *int64
		asset, err := assets.Resolve(ctx, q.BookTitle)
		if err != nil && !errors.Is(err, inventory.ErrAssetNotFound) {
			return err
		}
		if asset != nil {
			assetCode = &asset.Code
		}

		ord := e.orderFromQuote(q, customerID, assetCode)
		if err := e.repos.Orders(db).Create(ctx, ord); err != nil {
			return err
		}

		// The book is sold: remove it from stock. A lookup miss above means
		// the order simply carries no asset reference; stock is never
		// fabricated to fill a quote.
		if assetCode != nil {
			if err := assets.Consume(ctx, *assetCode); err != nil {
				return err
			}
		}

		debit := &ledger.Transaction{
			CustomerID:      customerID,
			CustomerName:    q.CustomerName,
			Type:            ledger.TypeDebit,
			Amount:          ord.TotalValue,
			Description:     fmt.Sprintf("Order #%d - %s", ord.ID, q.BookTitle),
			OrderID:         &ord.ID,
			TransactionDate: e.now().UTC(),
			AdminID:         q.AdminID,
		}
		if err := e.repos.Ledger(db).Post(ctx, debit); err != nil {
			return err
		}

		if err := quotes.SetStatus(ctx, quoteID, StatusApproved); err != nil {
			return err
		}

		result = ConversionResult{OrderID: ord.ID, CustomerID: customerID, AssetCode: assetCode}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrQuoteNotFound) || errors.Is(err, ErrAlreadyProcessed) {
			return nil, err
		}
		return nil, fmt.Errorf("engine: failed to approve quote %d: %w", quoteID, err)
	}

	log.Info().
		Int64("quote_id", quoteID).
		Int64("order_id", result.OrderID).
		Int64("customer_id", result.CustomerID).
		Msg("engine: quote approved and converted to order")
	return &result, nil
}

// Reject transitions a pending quote to rejected. No other entity is
// touched.
func (e *Engine) Reject(ctx context.Context, quoteID int64) error {
	err := e.runTx(ctx, func(db store.Querier) error {
		quotes := e.repos.Quotes(db)

		q, err := quotes.GetForUpdate(ctx, quoteID)
		if err != nil {
			return err
		}
		if q.Status.Terminal() {
			return ErrAlreadyProcessed
		}

		return quotes.SetStatus(ctx, quoteID, StatusRejected)
	})
	if err != nil {
		if errors.Is(err, ErrQuoteNotFound) || errors.Is(err, ErrAlreadyProcessed) {
			return err
		}
		return fmt.Errorf("engine: failed to reject quote %d: %w", quoteID, err)
	}

	log.Info().Int64("quote_id", quoteID).Msg("engine: quote rejected")
	return nil
}

// DirectOrderInput describes a manual order that bypasses the quote flow.
type DirectOrderInput struct {
	CustomerName          string
	BookTitle             string
	BookPrice             decimal.Decimal
	ShippingCost          decimal.Decimal
	ShippingAdjustmentJPY decimal.Decimal
	TotalValueJPY         int64
}

// DirectOrder creates an order without a quote: the customer is resolved or
// created and the asset resolved exactly as in Approve, but the asset is
// NOT consumed and no ledger entry is posted. The caller posts any debit
// explicitly. This asymmetry with the quote path is long-standing behavior
// that downstream bookkeeping relies on; do not unify it silently.
func (e *Engine) DirectOrder(ctx context.Context, in DirectOrderInput) (*ConversionResult, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.BookTitle = strings.TrimSpace(in.BookTitle)
	if in.CustomerName == "" || in.BookTitle == "" {
		return nil, fmt.Errorf("%w: customer name and book title are required", ErrInvalidQuote)
	}
	if in.TotalValueJPY <= 0 {
		return nil, fmt.Errorf("%w: total must be greater than 0", ErrInvalidQuote)
	}

	var result ConversionResult
	err := e.runTx(ctx, func(db store.Querier) error {
		customerID, err := e.repos.Customers(db).ResolveOrCreate(ctx, in.CustomerName)
		if err != nil {
			return err
		}

		var assetCode *int64
		asset, err := e.repos.Assets(db).Resolve(ctx, in.BookTitle)
		if err != nil && !errors.Is(err, inventory.ErrAssetNotFound) {
			return err
		}
		if asset != nil {
			assetCode = &asset.Code
		}

		total := decimal.NewFromInt(in.TotalValueJPY)
		ord := &order.Order{
			CustomerID:   &customerID,
			AssetCode:    assetCode,
			CustomerName: in.CustomerName,
			AssetName:    in.BookTitle,
			OrderDate:    e.now().UTC().Truncate(24 * time.Hour),
			OrderReal:    in.BookPrice,
			OrderIen:     in.TotalValueJPY,
			FreteBrasil:  in.ShippingCost,
			FreteJP:      in.ShippingAdjustmentJPY,
			TotalValue:   total,
			PaymentType:  PaymentTypeDirectOrder,
		}
		if err := e.repos.Orders(db).Create(ctx, ord); err != nil {
			return err
		}

		result = ConversionResult{OrderID: ord.ID, CustomerID: customerID, AssetCode: assetCode}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("engine: failed to create direct order: %w", err)
	}

	log.Info().Int64("order_id", result.OrderID).Str("customer", in.CustomerName).
		Msg("engine: direct order created")
	return &result, nil
}

func (e *Engine) orderFromQuote(q *Quote, customerID int64, assetCode *int64) *order.Order {
	return &order.Order{
		CustomerID:   &customerID,
		AssetCode:    assetCode,
		CustomerName: q.CustomerName,
		AssetName:    q.BookTitle,
		OrderDate:    e.now().UTC().Truncate(24 * time.Hour),
		OrderReal:    q.BookPrice,
		OrderIen:     q.TotalJPY,
		FreteBrasil:  q.ShippingCost,
		FreteJP:      decimal.NewFromInt(q.ShippingAdjustmentJPY),
		TotalValue:   decimal.NewFromInt(q.TotalJPY),
		PaymentType:  PaymentTypeQuoteApproved,
	}
}
