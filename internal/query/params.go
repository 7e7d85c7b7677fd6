package query

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"jobmate/board-service/internal/job"
)

// ErrNotFound is returned when a job lookup matches nothing.
var ErrNotFound = fmt.Errorf("job not found")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// SortBy selects the listing order within the featured partition.
type SortBy string

const (
	SortNewest SortBy = "newest"
	SortOldest SortBy = "oldest"
	SortSalary SortBy = "salary"
)

const DefaultPageSize = 10

// PageSizes are the page sizes a listing may request.
var PageSizes = []int{10, 25, 50, 100}

// Params is one listing request. The zero value lists every job, newest
// first, on page 1 with the default page size.
type Params struct {
	SearchText   string            `json:"searchText,omitempty"`
	Types        []job.Type        `json:"types,omitempty"`
	CareerLevels []job.CareerLevel `json:"careerLevels,omitempty"`
	RemoteOnly   bool              `json:"remoteOnly,omitempty"`
	VisaOnly     bool              `json:"visaOnly,omitempty"`
	SalaryRanges []SalaryRange     `json:"salaryRanges,omitempty"`
	Languages    []job.Language    `json:"languages,omitempty"`
	SortBy       SortBy            `json:"sortBy,omitempty" validate:"omitempty,oneof=newest oldest salary"`
	Page         int               `json:"page,omitempty" validate:"min=0"`
	PageSize     int               `json:"pageSize,omitempty" validate:"omitempty,oneof=10 25 50 100"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		return name
	})
	return v
}

// Validate checks the enumerated fields. Zero values are accepted and
// mean "default".
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return &ValidationError{Msg: fmt.Sprintf("invalid %s %v", fe.Field(), fe.Value())}
		}
		return &ValidationError{Msg: err.Error()}
	}
	for _, r := range p.SalaryRanges {
		if _, ok := ParseSalaryRange(string(r)); !ok {
			return &ValidationError{Msg: fmt.Sprintf("invalid salary range %q", r)}
		}
	}
	return nil
}

// withDefaults fills zero fields so the pipeline never sees them.
func (p Params) withDefaults() Params {
	if p.SortBy == "" {
		p.SortBy = SortNewest
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// ParseValues decodes the listing query string:
//
//	q=engineer&types=Full-time,Contract&roles=Senior,Staff&remote=true
//	&visa=true&salary=$50K - $100K&languages=EN,DE&sort=salary&page=2&per_page=25
//
// Multi-value parameters are comma-joined. Unknown types, roles and languages
// are kept (they simply match nothing); malformed numbers, sort keys, page
// sizes and salary labels are rejected.
func ParseValues(v url.Values) (Params, error) {
	p := Params{
		SearchText: strings.TrimSpace(v.Get("q")),
		RemoteOnly: v.Get("remote") == "true",
		VisaOnly:   v.Get("visa") == "true",
		SortBy:     SortBy(v.Get("sort")),
	}
	for _, s := range splitList(v.Get("types")) {
		p.Types = append(p.Types, job.Type(s))
	}
	for _, s := range splitList(v.Get("roles")) {
		l, ok := job.CareerLevelFromName(s)
		if !ok {
			l = job.CareerLevel(s)
		}
		p.CareerLevels = append(p.CareerLevels, l)
	}
	for _, s := range splitList(v.Get("languages")) {
		p.Languages = append(p.Languages, job.Language(strings.ToUpper(s)))
	}
	for _, s := range splitList(v.Get("salary")) {
		r, ok := ParseSalaryRange(s)
		if !ok {
			return Params{}, &ValidationError{Msg: fmt.Sprintf("invalid salary range %q", s)}
		}
		p.SalaryRanges = append(p.SalaryRanges, r)
	}

	var err error
	if p.Page, err = parsePositive(v.Get("page"), "page"); err != nil {
		return Params{}, err
	}
	if p.PageSize, err = parsePositive(v.Get("per_page"), "per_page"); err != nil {
		return Params{}, err
	}

	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p.withDefaults(), nil
}

// Values is the inverse of ParseValues. Defaults are omitted.
func (p Params) Values() url.Values {
	v := url.Values{}
	if p.SearchText != "" {
		v.Set("q", p.SearchText)
	}
	if len(p.Types) > 0 {
		v.Set("types", joinList(p.Types))
	}
	if len(p.CareerLevels) > 0 {
		v.Set("roles", joinList(p.CareerLevels))
	}
	if p.RemoteOnly {
		v.Set("remote", "true")
	}
	if p.VisaOnly {
		v.Set("visa", "true")
	}
	if len(p.SalaryRanges) > 0 {
		v.Set("salary", joinList(p.SalaryRanges))
	}
	if len(p.Languages) > 0 {
		v.Set("languages", joinList(p.Languages))
	}
	if p.SortBy != "" && p.SortBy != SortNewest {
		v.Set("sort", string(p.SortBy))
	}
	if p.Page > 1 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 && p.PageSize != DefaultPageSize {
		v.Set("per_page", strconv.Itoa(p.PageSize))
	}
	return v
}

// ClampPage moves an out-of-range page onto the last page. Listings with no
// results stay on page 1.
func ClampPage(p Params, totalPages int) Params {
	switch {
	case p.Page < 1 || totalPages == 0:
		p.Page = 1
	case p.Page > totalPages:
		p.Page = totalPages
	}
	return p
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func joinList[T ~string](items []T) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = string(it)
	}
	return strings.Join(parts, ",")
}

func parsePositive(s, name string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, &ValidationError{Msg: fmt.Sprintf("invalid %s %q", name, s)}
	}
	return n, nil
}
