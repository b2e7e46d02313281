package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/sakura-imports/books-backend/internal/inventory"
	"github.com/shopspring/decimal"
)

type AssetHandler struct {
	svc inventory.Service
}

func NewAssetHandler(svc inventory.Service) *AssetHandler {
	return &AssetHandler{svc: svc}
}

func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListAssets(r.Context())
	if err != nil {
		log.Info().Msgf("Failed to list assets: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list assets")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type assetRequest struct {
	Name       string          `json:"asset_name" validate:"required"`
	RealPrice  decimal.Decimal `json:"real_price"`
	IenesPrice int64           `json:"ienes_price"`
	Black      decimal.Decimal `json:"black"`
	Private    decimal.Decimal `json:"private"`
}

func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if !decodeValid(w, r, &req) {
		return
	}

	a := &inventory.Asset{
		Name:       req.Name,
		RealPrice:  req.RealPrice,
		IenesPrice: req.IenesPrice,
		Black:      req.Black,
		Private:    req.Private,
	}
	if err := h.svc.CreateAsset(r.Context(), a); err != nil {
		if errors.Is(err, inventory.ErrAssetExists) {
			writeError(w, http.StatusConflict, "asset already exists")
			return
		}
		log.Info().Msgf("Failed to create asset: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	code, ok := assetCode(w, r)
	if !ok {
		return
	}

	var req assetRequest
	if !decodeValid(w, r, &req) {
		return
	}

	a := &inventory.Asset{
		Code:       code,
		Name:       req.Name,
		RealPrice:  req.RealPrice,
		IenesPrice: req.IenesPrice,
		Black:      req.Black,
		Private:    req.Private,
	}
	if err := h.svc.UpdateAsset(r.Context(), a); err != nil {
		switch {
		case errors.Is(err, inventory.ErrAssetNotFound):
			writeError(w, http.StatusNotFound, "asset not found")
		case errors.Is(err, inventory.ErrAssetExists):
			writeError(w, http.StatusConflict, "asset name already taken")
		default:
			log.Info().Msgf("Failed to update asset: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to update asset")
		}
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code, ok := assetCode(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteAsset(r.Context(), code); err != nil {
		if errors.Is(err, inventory.ErrAssetNotFound) {
			writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		log.Info().Msgf("Failed to delete asset: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete asset")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "asset deleted"})
}

func assetCode(w http.ResponseWriter, r *http.Request) (int64, bool) {
	code, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid asset code")
		return 0, false
	}
	return code, true
}
