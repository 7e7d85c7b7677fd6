// Package query filters, sorts and paginates a normalized job collection.
//
// Everything here is a pure function of its inputs: the same jobs and
// params always produce the same Result, and the input slice is never
// modified.
package query

import (
	"cmp"
	"slices"
	"time"

	"jobmate/board-service/internal/job"
)

// Result is one page of a listing plus the counts behind the filter UI.
type Result struct {
	Jobs       []job.Job `json:"jobs"`
	TotalCount int       `json:"totalCount"`
	TotalPages int       `json:"totalPages"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	Facets     Facets    `json:"facets"`
}

// Run applies search, filters, sort and pagination to jobs. A page past
// the end yields an empty Jobs slice; clamping is left to the caller
// (see ClampPage).
func Run(jobs []job.Job, p Params) Result {
	p = p.withDefaults()
	ps := predicates(p)

	facets := newFacets()
	matched := make([]job.Job, 0, len(jobs))
	for i := range jobs {
		j := &jobs[i]
		n, dim := failures(j, ps)
		switch {
		case n == 0:
			matched = append(matched, *j)
			facets.add(j, -1)
		case n == 1 && dim != dimSearch:
			facets.add(j, dim)
		}
	}

	Sort(matched, p.SortBy)

	total := len(matched)
	return Result{
		Jobs:       pageOf(matched, p.Page, p.PageSize),
		TotalCount: total,
		TotalPages: TotalPages(total, p.PageSize),
		Page:       p.Page,
		PageSize:   p.PageSize,
		Facets:     facets,
	}
}

// Sort orders jobs in place: featured jobs first, then by the sort key.
// Equal jobs keep their relative order.
func Sort(jobs []job.Job, by SortBy) {
	slices.SortStableFunc(jobs, func(a, b job.Job) int {
		if a.Featured != b.Featured {
			if a.Featured {
				return -1
			}
			return 1
		}
		switch by {
		case SortOldest:
			return postedAt(&a).Compare(postedAt(&b))
		case SortSalary:
			return cmp.Compare(AnnualSalary(b.Salary), AnnualSalary(a.Salary))
		default:
			return postedAt(&b).Compare(postedAt(&a))
		}
	})
}

// TotalPages is ceil(total/pageSize), 0 for an empty listing.
func TotalPages(total, pageSize int) int {
	if total == 0 || pageSize < 1 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// pageOf returns an empty slice for any page past the end. The bound is
// checked before multiplying so huge page numbers cannot overflow.
func pageOf(jobs []job.Job, page, size int) []job.Job {
	if page < 1 || size < 1 || page-1 >= TotalPages(len(jobs), size) {
		return []job.Job{}
	}
	start := (page - 1) * size
	end := min(start+size, len(jobs))
	return jobs[start:end]
}

// postedAt prefers the parsed timestamp and falls back to parsing the raw
// date for jobs built outside the normalizer.
func postedAt(j *job.Job) time.Time {
	if !j.Posted.IsZero() {
		return j.Posted
	}
	t, _ := job.ParsePostedDate(j.PostedDate)
	return t
}
