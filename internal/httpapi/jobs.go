package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"jobmate/board-service/internal/job"
	"jobmate/board-service/internal/query"
)

// ─── Response types ───────────────────────────────────────────────────────────

// JobView is a job plus the fields renderers derive from it.
type JobView struct {
	job.Job
	Slug     string     `json:"slug"`
	Location string     `json:"location"`
	Posted   job.Posted `json:"posted"`
}

// ListResponse is one listing page.
type ListResponse struct {
	Jobs       []JobView         `json:"jobs"`
	TotalCount int               `json:"totalCount"`
	TotalPages int               `json:"totalPages"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	Pages      []query.PageToken `json:"pages"`
	Facets     query.Facets      `json:"facets"`
}

// DetailResponse is one job page.
type DetailResponse struct {
	Job     JobView   `json:"job"`
	Similar []JobView `json:"similar"`
}

// TypeEntry is one row of the job types page.
type TypeEntry struct {
	query.Count
	Description string `json:"description"`
}

func (h *Handler) view(j job.Job) JobView {
	return JobView{
		Job:      j,
		Slug:     job.Slug(j.Title, j.Company),
		Location: job.FormatLocation(&j),
		Posted:   job.FormatPosted(j.Posted, h.now()),
	}
}

func (h *Handler) views(jobs []job.Job) []JobView {
	out := make([]JobView, len(jobs))
	for i, j := range jobs {
		out[i] = h.view(j)
	}
	return out
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, map[string]any{
		"status":   "ok",
		"snapshot": h.catalog.Status(),
	})
}

func (h *Handler) getSite(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, h.site)
}

// listJobs handles GET /jobs
func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.catalog.Jobs(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.list(w, r, jobs)
}

// browse builds the handler of a /jobs/{dimension}/{value} listing. An
// unknown or empty value is a 404.
func (h *Handler) browse(param string, pick func([]job.Job, string) []job.Job) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobs, err := h.catalog.Jobs(r.Context())
		if err != nil {
			h.writeError(w, err)
			return
		}
		subset := pick(jobs, chi.URLParam(r, param))
		if len(subset) == 0 {
			jsonError(w, "no jobs found", http.StatusNotFound)
			return
		}
		h.list(w, r, subset)
	}
}

// list runs the query string against jobs. A page past the end is clamped
// to the last page.
func (h *Handler) list(w http.ResponseWriter, r *http.Request, jobs []job.Job) {
	p, err := query.ParseValues(r.URL.Query())
	if err != nil {
		h.writeError(w, err)
		return
	}

	res := query.Run(jobs, p)
	if clamped := query.ClampPage(p, res.TotalPages); clamped.Page != res.Page {
		res = query.Run(jobs, clamped)
	}

	jsonOK(w, ListResponse{
		Jobs:       h.views(res.Jobs),
		TotalCount: res.TotalCount,
		TotalPages: res.TotalPages,
		Page:       res.Page,
		PageSize:   res.PageSize,
		Pages:      query.PageRange(res.Page, res.TotalPages),
		Facets:     res.Facets,
	})
}

// getJob handles GET /jobs/{idOrSlug}
func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	j, all, err := h.catalog.Job(r.Context(), chi.URLParam(r, "idOrSlug"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	jsonOK(w, DetailResponse{
		Job:     h.view(j),
		Similar: h.views(query.Similar(j, all, query.DefaultSimilarLimit)),
	})
}

func (h *Handler) listTypes(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.catalog.Jobs(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	counts := query.TypeCounts(jobs)
	out := make([]TypeEntry, len(counts))
	for i, c := range counts {
		out[i] = TypeEntry{Count: c, Description: job.TypeDescription(job.Type(c.Value))}
	}
	jsonOK(w, out)
}

func (h *Handler) listLevels(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.catalog.Jobs(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	jsonOK(w, query.CareerLevelCounts(jobs))
}

func (h *Handler) listLanguages(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.catalog.Jobs(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	jsonOK(w, query.LanguageCounts(jobs))
}

func (h *Handler) listLocations(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.catalog.Jobs(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	jsonOK(w, query.LocationCounts(jobs))
}
