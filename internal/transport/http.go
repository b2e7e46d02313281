package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sakura-imports/books-backend/internal/auth"
	"github.com/sakura-imports/books-backend/internal/customer"
	"github.com/sakura-imports/books-backend/internal/dashboard"
	"github.com/sakura-imports/books-backend/internal/handler"
	"github.com/sakura-imports/books-backend/internal/inventory"
	"github.com/sakura-imports/books-backend/internal/ledger"
	"github.com/sakura-imports/books-backend/internal/order"
	"github.com/sakura-imports/books-backend/internal/pricing"
	"github.com/sakura-imports/books-backend/internal/quote"
)

// NewRouter wires repositories, services and handlers over the shared pool
// and returns the API router.
func NewRouter(pool *pgxpool.Pool, rates pricing.RateProvider) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authSvc := auth.NewService(auth.NewRepository(pool))

	calcRepo := pricing.NewCalculationRepository(pool)
	calc := pricing.NewCalculator(rates, calcRepo)

	customerRepo := customer.NewRepository(pool)
	customerSvc := customer.NewService(customerRepo)
	assetSvc := inventory.NewService(inventory.NewRepository(pool))
	orderSvc := order.NewService(order.NewRepository(pool))
	ledgerSvc := ledger.NewService(ledger.NewRepository(pool), customerRepo)
	engine := quote.NewEngine(pool)

	authH := handler.NewAuthHandler(authSvc)
	pricingH := handler.NewPricingHandler(calc, rates, calcRepo)
	quoteH := handler.NewQuoteHandler(engine)
	orderH := handler.NewOrderHandler(orderSvc, engine)
	customerH := handler.NewCustomerHandler(customerSvc, ledgerSvc)
	assetH := handler.NewAssetHandler(assetSvc)
	dashboardH := handler.NewDashboardHandler(dashboard.NewRepository(pool))

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", authH.Login)

		// Everything below requires a session.
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(authSvc))

			r.Post("/logout", authH.Logout)
			// Only an existing admin can create another one.
			r.Post("/register", authH.Register)

			r.Get("/exchange-rate", pricingH.ExchangeRate)
			r.Post("/calculate", pricingH.Calculate)
			r.Get("/calculations", pricingH.ListCalculations)

			r.Route("/quotes", func(r chi.Router) {
				r.Post("/", quoteH.Create)
				r.Get("/", quoteH.List)
				r.Get("/{id}", quoteH.Get)
				r.Post("/{id}/approve", quoteH.Approve)
				r.Post("/{id}/reject", quoteH.Reject)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", orderH.List)
				r.Post("/", orderH.Create)
				r.Post("/direct", orderH.Direct)
				r.Post("/batch-edit", orderH.BatchEdit)
				r.Post("/batch-delete", orderH.BatchDelete)
				r.Put("/{id}", orderH.Update)
				r.Delete("/{id}", orderH.Delete)
			})

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", customerH.List)
				r.Post("/", customerH.Create)
				r.Put("/{id}", customerH.Update)
				r.Delete("/{id}", customerH.Delete)
				r.Get("/{name}/account", customerH.Account)
				r.Post("/{name}/transactions", customerH.PostTransaction)
				r.Delete("/{name}/transactions/{id}", customerH.DeleteTransaction)
			})

			r.Route("/assets", func(r chi.Router) {
				r.Get("/", assetH.List)
				r.Post("/", assetH.Create)
				r.Put("/{id}", assetH.Update)
				r.Delete("/{id}", assetH.Delete)
			})

			r.Get("/dashboard", dashboardH.Stats)
		})
	})

	return r
}
