package query

import (
	"cmp"
	"slices"
	"strings"

	"jobmate/board-service/internal/job"
)

// Count is one entry of a browse page: a value, its display label, the
// path segment that lists it and how many jobs carry it.
type Count struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// LocationSummary aggregates where jobs are.
type LocationSummary struct {
	Countries []Count `json:"countries"`
	Cities    []Count `json:"cities"`
	Remote    int     `json:"remote"`
}

// TypeCounts counts jobs per employment type. Jobs without a type are
// skipped.
func TypeCounts(jobs []job.Job) []Count {
	return tally(jobs, func(j *job.Job) []string {
		if j.Type == "" {
			return nil
		}
		return []string{string(j.Type)}
	}, func(v string) Count {
		return Count{Value: v, Label: v, Slug: strings.ToLower(v)}
	})
}

// CareerLevelCounts counts jobs per career level, NotSpecified excluded.
func CareerLevelCounts(jobs []job.Job) []Count {
	return tally(jobs, func(j *job.Job) []string {
		out := make([]string, 0, len(j.CareerLevel))
		for _, l := range j.CareerLevel {
			if l != job.LevelNotSpecified {
				out = append(out, string(l))
			}
		}
		return out
	}, func(v string) Count {
		return Count{Value: v, Label: job.CareerLevelName(job.CareerLevel(v)), Slug: strings.ToLower(v)}
	})
}

// LanguageCounts counts jobs per language code.
func LanguageCounts(jobs []job.Job) []Count {
	return tally(jobs, func(j *job.Job) []string {
		out := make([]string, len(j.Languages))
		for i, l := range j.Languages {
			out[i] = string(l)
		}
		return out
	}, func(v string) Count {
		return Count{Value: v, Label: job.LanguageName(job.Language(v)), Slug: strings.ToLower(v)}
	})
}

// LocationCounts counts remote jobs and jobs per country and city.
func LocationCounts(jobs []job.Job) LocationSummary {
	place := func(v string) Count { return Count{Value: v, Label: v, Slug: job.Slugify(v)} }
	summary := LocationSummary{
		Countries: tally(jobs, func(j *job.Job) []string { return optional(j.WorkplaceCountry) }, place),
		Cities:    tally(jobs, func(j *job.Job) []string { return optional(j.WorkplaceCity) }, place),
	}
	for i := range jobs {
		if isRemote(&jobs[i]) {
			summary.Remote++
		}
	}
	return summary
}

// ByType keeps jobs whose type equals t, ignoring case ("full-time").
func ByType(jobs []job.Job, t string) []job.Job {
	return keep(jobs, func(j *job.Job) bool { return strings.EqualFold(string(j.Type), t) })
}

// ByCareerLevel keeps jobs carrying the level named by slug, which may be
// the enum value ("entrylevel") or the display name ("Entry Level").
func ByCareerLevel(jobs []job.Job, slug string) []job.Job {
	level, ok := job.CareerLevelFromName(slug)
	if !ok {
		for _, l := range job.CareerLevels {
			if strings.EqualFold(string(l), slug) {
				level, ok = l, true
				break
			}
		}
	}
	if !ok || level == job.LevelNotSpecified {
		return []job.Job{}
	}
	return keep(jobs, func(j *job.Job) bool { return j.HasCareerLevel(level) })
}

// ByLanguage keeps jobs requiring the language code, ignoring case.
func ByLanguage(jobs []job.Job, code string) []job.Job {
	lang := job.Language(strings.ToUpper(code))
	return keep(jobs, func(j *job.Job) bool { return j.HasLanguage(lang) })
}

// ByLocation keeps remote jobs for "remote", otherwise jobs whose country
// slug equals location ("united-kingdom").
func ByLocation(jobs []job.Job, location string) []job.Job {
	location = strings.ToLower(location)
	if location == "remote" {
		return keep(jobs, isRemote)
	}
	return keep(jobs, func(j *job.Job) bool {
		return j.WorkplaceCountry != nil && job.Slugify(*j.WorkplaceCountry) == location
	})
}

// DefaultSimilarLimit caps the similar-jobs list of a detail page.
const DefaultSimilarLimit = 5

// Similar returns up to limit other jobs that share a title word longer
// than three letters with current or have the same formatted location.
// Input order is kept.
func Similar(current job.Job, all []job.Job, limit int) []job.Job {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}
	var words []string
	for _, w := range strings.Fields(strings.ToLower(current.Title)) {
		if len([]rune(w)) > 3 {
			words = append(words, w)
		}
	}
	location := job.FormatLocation(&current)

	out := make([]job.Job, 0, limit)
	for i := range all {
		j := &all[i]
		if j.ID == current.ID {
			continue
		}
		title := strings.ToLower(j.Title)
		similar := slices.ContainsFunc(words, func(w string) bool { return strings.Contains(title, w) })
		if similar || job.FormatLocation(j) == location {
			out = append(out, *j)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// Find looks a job up by record id or by its slug.
func Find(jobs []job.Job, idOrSlug string) (job.Job, error) {
	for i := range jobs {
		if jobs[i].ID == idOrSlug {
			return jobs[i], nil
		}
	}
	for i := range jobs {
		if job.Slug(jobs[i].Title, jobs[i].Company) == idOrSlug {
			return jobs[i], nil
		}
	}
	return job.Job{}, ErrNotFound
}

func keep(jobs []job.Job, fn func(j *job.Job) bool) []job.Job {
	out := make([]job.Job, 0)
	for i := range jobs {
		if fn(&jobs[i]) {
			out = append(out, jobs[i])
		}
	}
	return out
}

// tally counts each distinct value once per job and orders the result by
// count descending, then by value.
func tally(jobs []job.Job, values func(j *job.Job) []string, label func(v string) Count) []Count {
	counts := map[string]int{}
	for i := range jobs {
		seen := map[string]bool{}
		for _, v := range values(&jobs[i]) {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			counts[v]++
		}
	}

	out := make([]Count, 0, len(counts))
	for v, n := range counts {
		c := label(v)
		c.Count = n
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
	return out
}

func optional(s *string) []string {
	if s == nil {
		return nil
	}
	return []string{*s}
}
