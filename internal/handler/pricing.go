package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/sakura-imports/books-backend/internal/auth"
	"github.com/sakura-imports/books-backend/internal/pricing"
	"github.com/shopspring/decimal"
)

type PricingHandler struct {
	calc  *pricing.Calculator
	rates pricing.RateProvider
	calcs pricing.CalculationRepository
}

func NewPricingHandler(calc *pricing.Calculator, rates pricing.RateProvider, calcs pricing.CalculationRepository) *PricingHandler {
	return &PricingHandler{calc: calc, rates: rates, calcs: calcs}
}

type calculateRequest struct {
	CustomerName          string          `json:"customer_name" validate:"required"`
	BookTitle             string          `json:"book_title" validate:"required"`
	BookPrice             decimal.Decimal `json:"book_price"`
	ShippingCost          decimal.Decimal `json:"shipping_cost"`
	ProfitPercent         decimal.Decimal `json:"profit_percent"`
	ShippingAdjustmentJPY decimal.Decimal `json:"shipping_adjustment_jpy"`
}

func (h *PricingHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if !decodeValid(w, r, &req) {
		return
	}

	in := pricing.Input{
		BookPrice:             req.BookPrice,
		ShippingCost:          req.ShippingCost,
		ProfitPercent:         req.ProfitPercent,
		ShippingAdjustmentJPY: req.ShippingAdjustmentJPY,
	}

	sess := auth.SessionFrom(r.Context())
	b, err := h.calc.Calculate(r.Context(), in, req.CustomerName, req.BookTitle, sess.AdminID)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Info().Msgf("Failed to calculate: %v", err)
		writeError(w, http.StatusInternalServerError, "calculation failed")
		return
	}

	writeJSON(w, http.StatusOK, b)
}

func (h *PricingHandler) ExchangeRate(w http.ResponseWriter, r *http.Request) {
	rate, source := h.rates.Rate(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"rate": rate, "source": source})
}

func (h *PricingHandler) ListCalculations(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFrom(r.Context())
	calcs, err := h.calcs.ListByAdmin(r.Context(), sess.AdminID, 50)
	if err != nil {
		log.Info().Msgf("Failed to list calculations: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list calculations")
		return
	}
	writeJSON(w, http.StatusOK, calcs)
}
