package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/engine"
	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/events"
	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/scoring"
	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/store"
)

type AssessmentsHandler struct {
	store  store.Store
	engine *engine.Engine
	events events.Client
}

func NewAssessmentsHandler(s store.Store, e *engine.Engine, ev events.Client) *AssessmentsHandler {
	return &AssessmentsHandler{store: s, engine: e, events: ev}
}

type CreateAssessmentRequest struct {
	Answers store.AssessmentAnswers `json:"answers"`
}

func (h *AssessmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	answers := scoring.Normalize(req.Answers)
	if _, err := scoring.Evaluate(answers); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	a := &store.Assessment{
		UserID:  r.Header.Get("X-User-ID"),
		Answers: answers,
	}
	if err := h.store.CreateAssessment(r.Context(), a); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectAssessmentCreated(a.ID.String()), events.AssessmentCreatedEvent{
			AssessmentID: a.ID.String(),
			UserID:       a.UserID,
			CreatedAt:    a.CreatedAt,
		})
	}

	writeJSON(w, http.StatusCreated, a)
}

func (h *AssessmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.AssessmentFilter{
		UserID: r.URL.Query().Get("user_id"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	assessments, err := h.store.ListAssessments(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if assessments == nil {
		assessments = []*store.Assessment{}
	}
	writeJSON(w, http.StatusOK, assessments)
}

func (h *AssessmentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid assessment id"})
		return
	}

	a, err := h.store.GetAssessment(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "assessment not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AssessmentsHandler) Score(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid assessment id"})
		return
	}

	result, err := h.engine.ComputeScore(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "assessment not found"})
		return
	}
	var verr *scoring.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": verr.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AssessmentsHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid assessment id"})
		return
	}

	score, err := h.store.GetScore(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "score not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, score)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
