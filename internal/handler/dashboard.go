package handler

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/sakura-imports/books-backend/internal/dashboard"
)

type DashboardHandler struct {
	repo dashboard.Repository
}

func NewDashboardHandler(repo dashboard.Repository) *DashboardHandler {
	return &DashboardHandler{repo: repo}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.Stats(r.Context())
	if err != nil {
		log.Info().Msgf("Failed to collect dashboard stats: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to collect dashboard stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
