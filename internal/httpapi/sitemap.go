package httpapi

import (
	"encoding/xml"
	"net/http"
	"strings"

	"jobmate/board-service/internal/job"
	"jobmate/board-service/internal/query"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	NS      string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

type staticRoute struct {
	path     string
	freq     string
	priority float64
}

var staticRoutes = []staticRoute{
	{"", "daily", 1},
	{"/about", "weekly", 0.8},
	{"/jobs", "daily", 0.8},
	{"/privacy", "monthly", 0.5},
	{"/terms", "monthly", 0.5},
	{"/cookies", "monthly", 0.5},
	{"/changelog", "weekly", 0.6},
}

// sitemap handles GET /sitemap.xml. When jobs cannot be loaded only the
// static routes are listed.
func (h *Handler) sitemap(w http.ResponseWriter, r *http.Request) {
	base := strings.TrimRight(h.site.URL, "/")
	today := h.now().UTC().Format("2006-01-02")

	set := urlSet{NS: sitemapNS}
	for _, s := range staticRoutes {
		set.URLs = append(set.URLs, sitemapURL{Loc: base + s.path, LastMod: today, ChangeFreq: s.freq, Priority: s.priority})
	}

	jobs, err := h.catalog.Jobs(r.Context())
	if err != nil {
		h.logger.Warn().Err(err).Msg("sitemap: listing static routes only")
	}
	set.URLs = append(set.URLs, jobRoutes(base, today, jobs)...)

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml.Header))
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		h.logger.Error().Err(err).Msg("sitemap: encode failed")
	}
}

// jobRoutes lists every job page followed by the type, level and location
// browse pages that have at least one job.
func jobRoutes(base, today string, jobs []job.Job) []sitemapURL {
	var out []sitemapURL
	for i := range jobs {
		j := &jobs[i]
		priority := 0.7
		if j.Featured {
			priority = 0.9
		}
		out = append(out, sitemapURL{
			Loc:        base + "/jobs/" + job.Slug(j.Title, j.Company),
			LastMod:    j.Posted.UTC().Format("2006-01-02"),
			ChangeFreq: "daily",
			Priority:   priority,
		})
	}

	browse := func(prefix string, counts []query.Count) {
		for _, c := range counts {
			out = append(out, sitemapURL{Loc: base + prefix + c.Slug, LastMod: today, ChangeFreq: "daily", Priority: 0.6})
		}
	}
	browse("/jobs/type/", query.TypeCounts(jobs))
	browse("/jobs/level/", query.CareerLevelCounts(jobs))

	locations := query.LocationCounts(jobs)
	if locations.Remote > 0 {
		browse("/jobs/location/", []query.Count{{Slug: "remote"}})
	}
	browse("/jobs/location/", locations.Countries)
	return out
}
