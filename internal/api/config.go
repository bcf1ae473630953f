package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/engine"
	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/store"
)

type ConfigHandler struct {
	store  store.Store
	engine *engine.Engine
}

func NewConfigHandler(s store.Store, e *engine.Engine) *ConfigHandler {
	return &ConfigHandler{store: s, engine: e}
}

func (h *ConfigHandler) Active(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.engine.ActiveConfiguration(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *ConfigHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.store.GetConfigHistory(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if history == nil {
		history = []*store.ScoringConfiguration{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *ConfigHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req store.ConfigVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Reason == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reason required"})
		return
	}
	if req.Actor == "" {
		req.Actor = r.Header.Get("X-User-ID")
	}

	cfg, err := h.engine.CreateConfigVersion(r.Context(), &req)
	var cfgErr *store.InvalidConfigurationError
	if errors.As(err, &cfgErr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": cfgErr.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, cfg)
}

type RevertRequest struct {
	Reason string `json:"reason"`
	Actor  string `json:"actor,omitempty"`
}

func (h *ConfigHandler) Revert(w http.ResponseWriter, r *http.Request) {
	version, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid version"})
		return
	}

	var req RevertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Reason == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reason required"})
		return
	}
	if req.Actor == "" {
		req.Actor = r.Header.Get("X-User-ID")
	}

	cfg, err := h.engine.RevertToVersion(r.Context(), version, req.Reason, req.Actor)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "version not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, cfg)
}

func (h *ConfigHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.store.GetAuditLog(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if entries == nil {
		entries = []*store.AuditLogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *ConfigHandler) Rescore(w http.ResponseWriter, r *http.Request) {
	results, err := h.engine.RescoreAll(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	succeeded, failed := 0, 0
	for _, res := range results {
		if res.Success {
			succeeded++
		} else {
			failed++
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":     len(results),
		"succeeded": succeeded,
		"failed":    failed,
		"results":   results,
	})
}

func (h *ConfigHandler) RescoreOne(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid assessment id"})
		return
	}

	result, err := h.engine.RescoreOne(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "assessment not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": result.Error})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ConfigHandler) Stats(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.engine.ActiveConfiguration(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	history, err := h.store.GetConfigHistory(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"active_config_version": cfg.Version,
		"config_versions":       len(history),
		"cached_results":        h.engine.CachedResults(),
	})
}
