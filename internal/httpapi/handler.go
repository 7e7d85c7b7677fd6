// Package httpapi serves the job board as JSON over HTTP.
//
// Routes:
//
//	GET /health                      → liveness plus snapshot status
//	GET /site                        → site settings for renderers
//	GET /sitemap.xml                 → static, job and browse routes
//	GET /jobs                        → filtered, sorted, paginated listing
//	GET /jobs/types|levels|languages|locations → browse counts
//	GET /jobs/type/{type}            → listing restricted to one type
//	GET /jobs/level/{level}          → listing restricted to one career level
//	GET /jobs/language/{language}    → listing restricted to one language
//	GET /jobs/location/{location}    → listing restricted to remote or a country
//	GET /jobs/{idOrSlug}             → one job plus similar jobs
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"jobmate/board-service/internal/catalog"
	"jobmate/board-service/internal/config"
	"jobmate/board-service/internal/job"
	"jobmate/board-service/internal/query"
)

// Catalog is the read side of *catalog.Catalog.
type Catalog interface {
	Jobs(ctx context.Context) ([]job.Job, error)
	Job(ctx context.Context, idOrSlug string) (job.Job, []job.Job, error)
	Status() catalog.Status
}

// ─── Handler ─────────────────────────────────────────────────────────────────

// Handler holds shared dependencies.
type Handler struct {
	catalog Catalog
	site    *config.Site
	now     func() time.Time
	logger  zerolog.Logger
}

// NewHandler returns a configured Handler.
func NewHandler(cat Catalog, site *config.Site) *Handler {
	return &Handler{
		catalog: cat,
		site:    site,
		now:     time.Now,
		logger:  log.With().Str("component", "http").Logger(),
	}
}

// Router mounts every route behind CORS for the given origins.
func (h *Handler) Router(origins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}).Handler)

	r.Get("/health", h.health)
	r.Get("/site", h.getSite)
	r.Get("/sitemap.xml", h.sitemap)

	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", h.listJobs)
		r.Get("/types", h.listTypes)
		r.Get("/levels", h.listLevels)
		r.Get("/languages", h.listLanguages)
		r.Get("/locations", h.listLocations)
		r.Get("/type/{type}", h.browse("type", query.ByType))
		r.Get("/level/{level}", h.browse("level", query.ByCareerLevel))
		r.Get("/language/{language}", h.browse("language", query.ByLanguage))
		r.Get("/location/{location}", h.browse("location", query.ByLocation))
		r.Get("/{idOrSlug}", h.getJob)
	})
	return r
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// writeError maps domain errors onto status codes.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var verr *query.ValidationError
	switch {
	case errors.As(err, &verr):
		jsonError(w, verr.Msg, http.StatusBadRequest)
	case errors.Is(err, query.ErrNotFound):
		jsonError(w, "job not found", http.StatusNotFound)
	case errors.Is(err, catalog.ErrUnavailable):
		h.logger.Error().Err(err).Msg("job data unavailable")
		jsonError(w, "job data temporarily unavailable", http.StatusServiceUnavailable)
	default:
		h.logger.Error().Err(err).Msg("request failed")
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}
