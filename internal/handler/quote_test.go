package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sakura-imports/books-backend/internal/customer"
	"github.com/sakura-imports/books-backend/internal/inventory"
	"github.com/sakura-imports/books-backend/internal/ledger"
	"github.com/sakura-imports/books-backend/internal/order"
	"github.com/sakura-imports/books-backend/internal/quote"
	"github.com/sakura-imports/books-backend/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type stubQuoteRepo struct {
	quote.Repository
	GetForUpdateFunc func(ctx context.Context, id int64) (*quote.Quote, error)
	SetStatusFunc    func(ctx context.Context, id int64, status quote.Status) error
}

func (s *stubQuoteRepo) GetForUpdate(ctx context.Context, id int64) (*quote.Quote, error) {
	return s.GetForUpdateFunc(ctx, id)
}
func (s *stubQuoteRepo) SetStatus(ctx context.Context, id int64, status quote.Status) error {
	return s.SetStatusFunc(ctx, id, status)
}

type stubCustomerRepo struct {
	customer.Repository
}

func (s *stubCustomerRepo) ResolveOrCreate(ctx context.Context, name string) (int64, error) {
	return 42, nil
}

type stubAssetRepo struct {
	inventory.Repository
}

func (s *stubAssetRepo) Resolve(ctx context.Context, name string) (*inventory.Asset, error) {
	return nil, inventory.ErrAssetNotFound
}

type stubOrderRepo struct {
	order.Repository
}

func (s *stubOrderRepo) Create(ctx context.Context, o *order.Order) error {
	o.ID = 500
	return nil
}

type stubLedgerRepo struct {
	ledger.Repository
}

func (s *stubLedgerRepo) Post(ctx context.Context, t *ledger.Transaction) error { return nil }

func engineWithQuotes(quotes *stubQuoteRepo) *quote.Engine {
	runTx := func(ctx context.Context, fn func(q store.Querier) error) error { return fn(nil) }
	repos := quote.Repos{
		Quotes:    func(store.Querier) quote.Repository { return quotes },
		Customers: func(store.Querier) customer.Repository { return &stubCustomerRepo{} },
		Assets:    func(store.Querier) inventory.Repository { return &stubAssetRepo{} },
		Orders:    func(store.Querier) order.Repository { return &stubOrderRepo{} },
		Ledger:    func(store.Querier) ledger.Repository { return &stubLedgerRepo{} },
	}
	return quote.NewEngineWith(runTx, repos, time.Now)
}

func pendingStub() *quote.Quote {
	return &quote.Quote{
		ID:           7,
		CustomerName: "Alice",
		BookTitle:    "Naruto vol. 1",
		BookPrice:    decimal.NewFromInt(50),
		TotalJPY:     3000,
		Status:       quote.StatusPending,
	}
}

func TestQuoteHandler_Approve(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		getForUpdate   func(ctx context.Context, id int64) (*quote.Quote, error)
		expectedStatus int
	}{
		{
			name: "success",
			id:   "7",
			getForUpdate: func(ctx context.Context, id int64) (*quote.Quote, error) {
				return pendingStub(), nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found",
			id:   "404",
			getForUpdate: func(ctx context.Context, id int64) (*quote.Quote, error) {
				return nil, quote.ErrQuoteNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "already processed",
			id:   "7",
			getForUpdate: func(ctx context.Context, id int64) (*quote.Quote, error) {
				q := pendingStub()
				q.Status = quote.StatusApproved
				return q, nil
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "bad id",
			id:             "abc",
			getForUpdate:   nil,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quotes := &stubQuoteRepo{
				GetForUpdateFunc: tt.getForUpdate,
				SetStatusFunc: func(ctx context.Context, id int64, status quote.Status) error {
					return nil
				},
			}
			h := NewQuoteHandler(engineWithQuotes(quotes))

			r := chi.NewRouter()
			r.Post("/api/quotes/{id}/approve", h.Approve)

			req := httptest.NewRequest(http.MethodPost, "/api/quotes/"+tt.id+"/approve", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"order_id":500`)
				assert.Contains(t, w.Body.String(), `"asset_code":null`)
			}
		})
	}
}

func TestQuoteHandler_Reject(t *testing.T) {
	quotes := &stubQuoteRepo{
		GetForUpdateFunc: func(ctx context.Context, id int64) (*quote.Quote, error) {
			q := pendingStub()
			q.Status = quote.StatusRejected
			return q, nil
		},
	}
	h := NewQuoteHandler(engineWithQuotes(quotes))

	r := chi.NewRouter()
	r.Post("/api/quotes/{id}/reject", h.Reject)

	req := httptest.NewRequest(http.MethodPost, "/api/quotes/7/reject", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}
