package api

import (
	"net/http"
	"strings"

	"github.com/nijaru/yt-research/errors"
	"github.com/nijaru/yt-research/middleware"
	"github.com/nijaru/yt-research/models"
	"github.com/nijaru/yt-research/services/extract"
	"github.com/nijaru/yt-research/validation"
	"github.com/sirupsen/logrus"
)

type ExtractHandler struct {
	service   extract.Service
	validator *validation.Validator
}

func NewExtractHandler(service extract.Service, validator *validation.Validator) *ExtractHandler {
	return &ExtractHandler{
		service:   service,
		validator: validator,
	}
}

// HandleExtract handles POST /api/v1/extract
func (h *ExtractHandler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	const op = "ExtractHandler.HandleExtract"

	if err := h.validator.ValidateRequest(r, validation.RequestValidationOpts{
		MaxContentLength: maxBodyBytes,
		AllowedMethods:   []string{http.MethodPost},
	}); err != nil {
		respondError(w, r, err)
		return
	}

	var req models.ExtractRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	req.URL = strings.TrimSpace(req.URL)

	if err := h.validator.ValidateExtractRequest(&req); err != nil {
		respondError(w, r, err)
		return
	}

	logger := middleware.GetLogger(r.Context()).WithFields(logrus.Fields{
		"operation": op,
		"type":      req.Type,
	})
	logger.Info("Received extract request")

	ctx := r.Context()
	switch req.Type {
	case models.ExtractVideo:
		result, err := h.service.ExtractVideo(ctx, req.URL, req.Options)
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, r, http.StatusOK, result)

	case models.ExtractBulkAnalyze:
		results, err := h.service.AnalyzeMany(ctx, req.URLs, req.Options)
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, r, http.StatusOK, results)

	case models.ExtractChannelList:
		listing, err := h.service.ListChannel(ctx, req.URL)
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondWithMeta(w, r, http.StatusOK, listing.Videos, listing.Meta)

	default:
		respondError(w, r, errors.InvalidInput(op, nil, "Invalid type"))
	}
}
