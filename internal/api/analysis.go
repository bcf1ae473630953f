package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/analysis"
)

type AnalysisHandler struct {
	service *analysis.Service
}

func NewAnalysisHandler(s *analysis.Service) *AnalysisHandler {
	return &AnalysisHandler{service: s}
}

func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analysis.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "content required"})
		return
	}
	if req.ContentType == "" {
		req.ContentType = analysis.ContentPitchDeck
	}

	result, err := h.service.Analyze(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}
