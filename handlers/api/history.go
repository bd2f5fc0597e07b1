package api

import (
	"net/http"

	"github.com/nijaru/yt-research/middleware"
	"github.com/nijaru/yt-research/models"
	"github.com/nijaru/yt-research/services/history"
)

type HistoryHandler struct {
	service history.Service
}

func NewHistoryHandler(service history.Service) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// HandleList handles GET /api/v1/history
func (h *HistoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	analyses, err := h.service.List(r.Context(), userID(r), r.URL.Query().Get("type"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, analyses)
}

// HandleSave handles POST /api/v1/history
func (h *HistoryHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var req models.SaveAnalysisRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	analysis, err := h.service.Save(r.Context(), userID(r), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, analysis)
}

// HandleGet handles GET /api/v1/history/{id}
func (h *HistoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.service.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, analysis)
}

func userID(r *http.Request) string {
	return r.Header.Get(middleware.UserIDHeader)
}
