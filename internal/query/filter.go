package query

import (
	"slices"
	"strings"

	"jobmate/board-service/internal/job"
)

// dimension identifies one filter stage so facets can skip their own.
type dimension int

const (
	dimSearch dimension = iota
	dimType
	dimCareerLevel
	dimRemote
	dimVisa
	dimSalary
	dimLanguage
)

type predicate struct {
	dim  dimension
	keep func(j *job.Job) bool
}

// predicates returns the active filter stages of p in pipeline order.
func predicates(p Params) []predicate {
	var ps []predicate
	if p.SearchText != "" {
		needle := strings.ToLower(p.SearchText)
		ps = append(ps, predicate{dimSearch, func(j *job.Job) bool { return MatchesSearch(j, needle) }})
	}
	if len(p.Types) > 0 {
		ps = append(ps, predicate{dimType, func(j *job.Job) bool { return slices.Contains(p.Types, j.Type) }})
	}
	if len(p.CareerLevels) > 0 {
		ps = append(ps, predicate{dimCareerLevel, func(j *job.Job) bool {
			return slices.ContainsFunc(p.CareerLevels, j.HasCareerLevel)
		}})
	}
	if p.RemoteOnly {
		ps = append(ps, predicate{dimRemote, isRemote})
	}
	if p.VisaOnly {
		ps = append(ps, predicate{dimVisa, sponsorsVisa})
	}
	if len(p.SalaryRanges) > 0 {
		ps = append(ps, predicate{dimSalary, func(j *job.Job) bool { return inAnyRange(j.Salary, p.SalaryRanges) }})
	}
	if len(p.Languages) > 0 {
		ps = append(ps, predicate{dimLanguage, func(j *job.Job) bool {
			return slices.ContainsFunc(p.Languages, j.HasLanguage)
		}})
	}
	return ps
}

// MatchesSearch reports whether the lower-cased needle occurs in the title,
// the company or the location of j. Each field is tested on its own so a
// match never spans two fields. Jobs without location data have nothing to
// match there; the "Not specified" placeholder is never searched.
func MatchesSearch(j *job.Job, needle string) bool {
	if needle == "" {
		return true
	}
	for _, field := range []string{j.Title, j.Company, job.LocationText(j)} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func isRemote(j *job.Job) bool { return j.WorkplaceType == job.WorkplaceRemote }

func sponsorsVisa(j *job.Job) bool { return j.VisaSponsorship == job.Yes }

// failures returns how many predicates reject j and the dimension of the
// last one that did.
func failures(j *job.Job, ps []predicate) (int, dimension) {
	n, last := 0, dimension(-1)
	for _, p := range ps {
		if !p.keep(j) {
			n++
			last = p.dim
		}
	}
	return n, last
}
