package query

import "jobmate/board-service/internal/job"

// Facets counts, per filter option, the jobs the option would show.
//
// Each dimension is counted over the jobs that pass the search and every
// other active filter, ignoring the dimension's own selection. Ticking an
// extra option in one group therefore never changes that group's badges.
// A job is counted at most once per option, and jobs without a type or
// with only the NotSpecified level do not appear in those groups.
type Facets struct {
	Types        map[job.Type]int        `json:"types"`
	CareerLevels map[job.CareerLevel]int `json:"careerLevels"`
	Remote       int                     `json:"remote"`
	Visa         int                     `json:"visa"`
	SalaryRanges map[SalaryRange]int     `json:"salaryRanges"`
	Languages    map[job.Language]int    `json:"languages"`
}

func newFacets() Facets {
	return Facets{
		Types:        map[job.Type]int{},
		CareerLevels: map[job.CareerLevel]int{},
		SalaryRanges: map[SalaryRange]int{},
		Languages:    map[job.Language]int{},
	}
}

// add counts j into the facet of dimension only, or into every facet when
// only is negative.
func (f *Facets) add(j *job.Job, only dimension) {
	all := only < 0
	if all || only == dimType {
		if j.Type != "" {
			f.Types[j.Type]++
		}
	}
	if all || only == dimCareerLevel {
		seen := make(map[job.CareerLevel]bool, len(j.CareerLevel))
		for _, l := range j.CareerLevel {
			if l == job.LevelNotSpecified || seen[l] {
				continue
			}
			seen[l] = true
			f.CareerLevels[l]++
		}
	}
	if (all || only == dimRemote) && isRemote(j) {
		f.Remote++
	}
	if (all || only == dimVisa) && sponsorsVisa(j) {
		f.Visa++
	}
	if (all || only == dimSalary) && j.Salary != nil {
		annual := AnnualSalary(j.Salary)
		for _, r := range SalaryRanges {
			if r.Contains(annual) {
				f.SalaryRanges[r]++
			}
		}
	}
	if all || only == dimLanguage {
		seen := make(map[job.Language]bool, len(j.Languages))
		for _, l := range j.Languages {
			if seen[l] {
				continue
			}
			seen[l] = true
			f.Languages[l]++
		}
	}
}
