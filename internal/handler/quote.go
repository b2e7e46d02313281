package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/sakura-imports/books-backend/internal/auth"
	"github.com/sakura-imports/books-backend/internal/pricing"
	"github.com/sakura-imports/books-backend/internal/quote"
	"github.com/shopspring/decimal"
)

type QuoteHandler struct {
	engine *quote.Engine
}

func NewQuoteHandler(engine *quote.Engine) *QuoteHandler {
	return &QuoteHandler{engine: engine}
}

type createQuoteRequest struct {
	CustomerName          string          `json:"customer_name" validate:"required"`
	BookTitle             string          `json:"book_title" validate:"required"`
	BookPrice             decimal.Decimal `json:"book_price"`
	ProfitPercent         decimal.Decimal `json:"profit_percent"`
	Profit                decimal.Decimal `json:"profit"`
	ShippingCost          decimal.Decimal `json:"shipping_cost"`
	ShippingAdjustmentJPY decimal.Decimal `json:"shipping_adjustment_jpy"`
	TotalBRL              decimal.Decimal `json:"total_brl"`
	TotalJPY              int64           `json:"total_jpy" validate:"required"`
	ExchangeRate          decimal.Decimal `json:"exchange_rate"`
	RateSource            string          `json:"rate_source"`
}

func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createQuoteRequest
	if !decodeValid(w, r, &req) {
		return
	}

	b := &pricing.Breakdown{
		BookPrice:             req.BookPrice,
		ProfitPercent:         req.ProfitPercent,
		Profit:                req.Profit,
		ShippingCost:          req.ShippingCost,
		ShippingAdjustmentJPY: req.ShippingAdjustmentJPY,
		TotalBRL:              req.TotalBRL,
		TotalJPY:              req.TotalJPY,
		ExchangeRate:          req.ExchangeRate,
		RateSource:            req.RateSource,
	}

	sess := auth.SessionFrom(r.Context())
	q, err := h.engine.CreateQuote(r.Context(), b, req.CustomerName, req.BookTitle, sess.AdminID)
	if err != nil {
		if errors.Is(err, quote.ErrInvalidQuote) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Info().Msgf("Failed to create quote: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create quote")
		return
	}

	writeJSON(w, http.StatusCreated, q)
}

func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	status := quote.Status(r.URL.Query().Get("status"))
	if status == "" {
		status = quote.StatusPending
	}

	quotes, err := h.engine.ListQuotes(r.Context(), status)
	if err != nil {
		log.Info().Msgf("Failed to list quotes: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list quotes")
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := quoteID(w, r)
	if !ok {
		return
	}

	q, err := h.engine.GetQuote(r.Context(), id)
	if err != nil {
		if errors.Is(err, quote.ErrQuoteNotFound) {
			writeError(w, http.StatusNotFound, "quote not found")
			return
		}
		log.Info().Msgf("Failed to get quote: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get quote")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *QuoteHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := quoteID(w, r)
	if !ok {
		return
	}

	result, err := h.engine.Approve(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, quote.ErrQuoteNotFound):
			writeError(w, http.StatusNotFound, "quote not found")
		case errors.Is(err, quote.ErrAlreadyProcessed):
			writeError(w, http.StatusConflict, "quote already processed")
		default:
			log.Info().Msgf("Failed to approve quote: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to approve quote")
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *QuoteHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := quoteID(w, r)
	if !ok {
		return
	}

	if err := h.engine.Reject(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, quote.ErrQuoteNotFound):
			writeError(w, http.StatusNotFound, "quote not found")
		case errors.Is(err, quote.ErrAlreadyProcessed):
			writeError(w, http.StatusConflict, "quote already processed")
		default:
			log.Info().Msgf("Failed to reject quote: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to reject quote")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "quote rejected"})
}

func quoteID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid quote id")
		return 0, false
	}
	return id, true
}
