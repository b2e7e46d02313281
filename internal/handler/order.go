package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/sakura-imports/books-backend/internal/order"
	"github.com/sakura-imports/books-backend/internal/quote"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	svc    order.Service
	engine *quote.Engine
}

func NewOrderHandler(svc order.Service, engine *quote.Engine) *OrderHandler {
	return &OrderHandler{svc: svc, engine: engine}
}

type directOrderRequest struct {
	CustomerName          string          `json:"customer_name" validate:"required"`
	BookTitle             string          `json:"book_title" validate:"required"`
	BookPrice             decimal.Decimal `json:"book_price"`
	ShippingCost          decimal.Decimal `json:"shipping_cost"`
	ShippingAdjustmentJPY decimal.Decimal `json:"shipping_adjustment_jpy"`
	TotalValueJPY         int64           `json:"total_value_jpy" validate:"required"`
}

// Direct creates an order outside the quote flow. Unlike an approval it
// leaves inventory and the customer account untouched.
func (h *OrderHandler) Direct(w http.ResponseWriter, r *http.Request) {
	var req directOrderRequest
	if !decodeValid(w, r, &req) {
		return
	}

	result, err := h.engine.DirectOrder(r.Context(), quote.DirectOrderInput{
		CustomerName:          req.CustomerName,
		BookTitle:             req.BookTitle,
		BookPrice:             req.BookPrice,
		ShippingCost:          req.ShippingCost,
		ShippingAdjustmentJPY: req.ShippingAdjustmentJPY,
		TotalValueJPY:         req.TotalValueJPY,
	})
	if err != nil {
		if errors.Is(err, quote.ErrInvalidQuote) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Info().Msgf("Failed to create direct order: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create direct order")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("limit"))

	filter := order.ListFilter{
		CustomerName: q.Get("customer"),
		SortOldest:   q.Get("sort") == "oldest",
		Page:         page,
		PerPage:      perPage,
	}

	res, err := h.svc.ListOrders(r.Context(), filter)
	if err != nil {
		log.Info().Msgf("Failed to list orders: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var o order.Order
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.CreateOrder(r.Context(), &o); err != nil {
		log.Info().Msgf("Failed to create order: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, &o)
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var o order.Order
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	o.ID = id

	if err := h.svc.UpdateOrder(r.Context(), &o); err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Info().Msgf("Failed to update order: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update order")
		return
	}
	writeJSON(w, http.StatusOK, &o)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteOrder(r.Context(), id); err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Info().Msgf("Failed to delete order: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete order")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}

type batchEditRequest struct {
	OrderIDs     []int64 `json:"order_ids" validate:"required,min=1"`
	DeliveryDate *string `json:"delivery_date"`
	PaymentType  *string `json:"payment_type"`
}

func (h *OrderHandler) BatchEdit(w http.ResponseWriter, r *http.Request) {
	var req batchEditRequest
	if !decodeValid(w, r, &req) {
		return
	}

	n, err := h.svc.BatchEdit(r.Context(), req.OrderIDs, req.DeliveryDate, req.PaymentType)
	if err != nil {
		log.Info().Msgf("Failed to batch edit orders: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": n})
}

type batchDeleteRequest struct {
	OrderIDs []int64 `json:"order_ids" validate:"required,min=1"`
}

func (h *OrderHandler) BatchDelete(w http.ResponseWriter, r *http.Request) {
	var req batchDeleteRequest
	if !decodeValid(w, r, &req) {
		return
	}

	n, err := h.svc.BatchDelete(r.Context(), req.OrderIDs)
	if err != nil {
		log.Info().Msgf("Failed to batch delete orders: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to batch delete orders")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

func orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}
