package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/analysis"
	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/engine"
	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/events"
	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/store"
)

func NewRouter(s store.Store, e *engine.Engine, an *analysis.Service, ev events.Client, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	assessments := NewAssessmentsHandler(s, e, ev)
	configs := NewConfigHandler(s, e)
	analyze := NewAnalysisHandler(an)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(UserIDMiddleware)

			r.Post("/assessments", assessments.Create)
			r.Get("/assessments", assessments.List)
			r.Get("/assessments/{id}", assessments.Get)
			r.Post("/assessments/{id}/score", assessments.Score)
			r.Get("/assessments/{id}/score", assessments.GetScore)

			r.Post("/analysis", analyze.Analyze)
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))

			r.Get("/scoring/config", configs.Active)
			r.Get("/scoring/config/history", configs.History)
			r.Post("/scoring/config", configs.Create)
			r.Post("/scoring/config/{version}/revert", configs.Revert)
			r.Get("/scoring/audit", configs.AuditLog)
			r.Post("/scoring/rescore", configs.Rescore)
			r.Post("/assessments/{id}/rescore", configs.RescoreOne)
			r.Get("/stats", configs.Stats)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
