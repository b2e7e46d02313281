package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/sakura-imports/books-backend/internal/auth"
	"github.com/sakura-imports/books-backend/internal/customer"
	"github.com/sakura-imports/books-backend/internal/ledger"
	"github.com/shopspring/decimal"
)

type CustomerHandler struct {
	svc    customer.Service
	ledger ledger.Service
}

func NewCustomerHandler(svc customer.Service, ledgerSvc ledger.Service) *CustomerHandler {
	return &CustomerHandler{svc: svc, ledger: ledgerSvc}
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListCustomers(r.Context())
	if err != nil {
		log.Info().Msgf("Failed to list customers: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list customers")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type customerRequest struct {
	Name                string `json:"customer_name" validate:"required"`
	Address             string `json:"customer_address"`
	Telephone           string `json:"customer_telephone"`
	DeliveryTimeRequest string `json:"delivery_time_request"`
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !decodeValid(w, r, &req) {
		return
	}

	c := &customer.Customer{
		Name:                req.Name,
		Address:             req.Address,
		Telephone:           req.Telephone,
		DeliveryTimeRequest: req.DeliveryTimeRequest,
	}
	if err := h.svc.CreateCustomer(r.Context(), c); err != nil {
		if errors.Is(err, customer.ErrCustomerExists) {
			writeError(w, http.StatusConflict, "customer already exists")
			return
		}
		log.Info().Msgf("Failed to create customer: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	var req customerRequest
	if !decodeValid(w, r, &req) {
		return
	}

	c := &customer.Customer{
		ID:                  id,
		Name:                req.Name,
		Address:             req.Address,
		Telephone:           req.Telephone,
		DeliveryTimeRequest: req.DeliveryTimeRequest,
	}
	if err := h.svc.UpdateCustomer(r.Context(), c); err != nil {
		switch {
		case errors.Is(err, customer.ErrCustomerNotFound):
			writeError(w, http.StatusNotFound, "customer not found")
		case errors.Is(err, customer.ErrCustomerExists):
			writeError(w, http.StatusConflict, "customer name already taken")
		default:
			log.Info().Msgf("Failed to update customer: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to update customer")
		}
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteCustomer(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, customer.ErrCustomerNotFound):
			writeError(w, http.StatusNotFound, "customer not found")
		case errors.Is(err, customer.ErrCustomerHasOrders):
			writeError(w, http.StatusConflict, err.Error())
		default:
			log.Info().Msgf("Failed to delete customer: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to delete customer")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "customer deleted"})
}

// Account returns the customer's full transaction history plus the derived
// balance summary.
func (h *CustomerHandler) Account(w http.ResponseWriter, r *http.Request) {
	name := customerName(r)

	c, txns, summary, err := h.ledger.Account(r.Context(), name)
	if err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound) {
			writeError(w, http.StatusNotFound, "customer not found")
			return
		}
		log.Info().Msgf("Failed to load account: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load account")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"customer":     c,
		"transactions": txns,
		"summary":      summary,
	})
}

type postTransactionRequest struct {
	Type            string          `json:"transaction_type" validate:"required,oneof=debit payment credit"`
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	Description     string          `json:"description"`
	OrderID         *int64          `json:"order_id"`
	TransactionDate *string         `json:"transaction_date"`
}

func (h *CustomerHandler) PostTransaction(w http.ResponseWriter, r *http.Request) {
	name := customerName(r)

	var req postTransactionRequest
	if !decodeValid(w, r, &req) {
		return
	}

	sess := auth.SessionFrom(r.Context())
	t := &ledger.Transaction{
		Type:        ledger.TransactionType(req.Type),
		Amount:      req.Amount,
		Description: req.Description,
		OrderID:     req.OrderID,
		AdminID:     sess.AdminID,
	}
	if req.TransactionDate != nil {
		date, err := time.Parse("2006-01-02", *req.TransactionDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "transaction_date must be YYYY-MM-DD")
			return
		}
		t.TransactionDate = date
	}

	if err := h.ledger.PostTransaction(r.Context(), name, t); err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, customer.ErrCustomerNotFound):
			writeError(w, http.StatusNotFound, "customer not found")
		default:
			log.Info().Msgf("Failed to post transaction: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to post transaction")
		}
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *CustomerHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	name := customerName(r)
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	if err := h.ledger.DeleteTransaction(r.Context(), name, id); err != nil {
		if errors.Is(err, ledger.ErrTransactionNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		log.Info().Msgf("Failed to delete transaction: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "transaction deleted"})
}

// customerName decodes the {name} path segment. Chi hands back the raw
// segment when the request path carried percent-encoding, so names with
// spaces or non-ASCII characters need an explicit unescape.
func customerName(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}

func customerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return 0, false
	}
	return id, true
}
