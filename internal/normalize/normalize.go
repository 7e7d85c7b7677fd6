// Package normalize turns raw records of the external Jobs table into
// canonical job.Job values.
//
// Optional columns never fail a record: they fall back to a sentinel
// (NotSpecified, nil, empty list). Only the hard-required columns do, and
// NormalizeAll skips such records instead of failing the batch.
package normalize

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"jobmate/board-service/internal/job"
)

// Record is one raw row: an opaque id plus loosely typed named fields.
type Record struct {
	ID     string
	Fields map[string]any
}

// required holds the hard-required columns. Description is a pointer so an
// empty description passes while a missing one does not.
type required struct {
	Title       string  `field:"title" validate:"required"`
	Company     string  `field:"company" validate:"required"`
	Type        string  `field:"type" validate:"required"`
	Description *string `field:"description" validate:"required"`
	ApplyURL    string  `field:"apply_url" validate:"required"`
	PostedDate  string  `field:"posted_date" validate:"required"`
	Status      string  `field:"status" validate:"required"`
}

var (
	validate     = newValidator()
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("field")
	})
	return v
}

// Normalize maps one record to a Job. It fails only when a hard-required
// column is missing or the posted date cannot be parsed.
func Normalize(rec Record) (job.Job, error) {
	f := rec.Fields
	if f == nil {
		f = map[string]any{}
	}

	req := required{
		Title:      asString(f[fieldTitle]),
		Company:    asString(f[fieldCompany]),
		Type:       asString(f[fieldType]),
		ApplyURL:   asString(f[fieldApplyURL]),
		PostedDate: asString(f[fieldPostedDate]),
		Status:     asString(f[fieldStatus]),
	}
	if d, ok := f[fieldDescription].(string); ok {
		req.Description = &d
	}

	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return job.Job{}, fmt.Errorf("record %s: validate: %w", rec.ID, err)
		}
		missing := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			missing = append(missing, fe.Field())
		}
		return job.Job{}, &MissingFieldsError{RecordID: rec.ID, Fields: missing}
	}

	posted, err := job.ParsePostedDate(req.PostedDate)
	if err != nil {
		return job.Job{}, &MissingFieldsError{RecordID: rec.ID, Fields: []string{fieldPostedDate}}
	}

	workplace := NormalizeWorkplaceType(f[fieldWorkplaceType])
	remoteFriendly := NormalizeRemoteFriendly(f[fieldRemoteFriendly])
	if _, present := f[fieldRemoteFriendly]; !present {
		remoteFriendly = remoteFriendlyFromWorkplace(workplace)
	}

	j := job.Job{
		ID:                   rec.ID,
		Title:                cleanText(req.Title),
		Company:              cleanText(req.Company),
		Type:                 job.Type(req.Type),
		CareerLevel:          NormalizeCareerLevel(f[fieldCareerLevel]),
		WorkplaceType:        workplace,
		RemoteRegion:         NormalizeRemoteRegion(f[fieldRemoteRegion]),
		WorkplaceCity:        optString(f[fieldCity]),
		WorkplaceCountry:     optString(f[fieldCountry]),
		TimezoneRequirements: optString(f[fieldTimezone]),
		Salary: NormalizeSalary(
			f[fieldSalaryMin], f[fieldSalaryMax],
			f[fieldSalaryCurrency], f[fieldSalaryUnit],
		),
		VisaSponsorship: NormalizeRemoteFriendly(f[fieldVisa]),
		RemoteFriendly:  remoteFriendly,
		Languages:       NormalizeLanguages(f[fieldLanguages]),
		Description:     cleanMarkup(*req.Description),
		Benefits:        optString(f[fieldBenefits]),
		ApplyURL:        req.ApplyURL,
		PostedDate:      req.PostedDate,
		Posted:          posted,
		Featured:        truthy(f[fieldFeatured]),
		Status:          job.Status(req.Status),
		LegacyLocation:  asString(f[fieldLocation]),
	}
	return j, nil
}

// NormalizeAll normalizes a batch, logging and skipping records that fail.
func NormalizeAll(recs []Record) []job.Job {
	jobs := make([]job.Job, 0, len(recs))
	for _, rec := range recs {
		j, err := Normalize(rec)
		if err != nil {
			log.Warn().Err(err).Str("record", rec.ID).Msg("skipping job record")
			continue
		}
		jobs = append(jobs, j)
	}
	return jobs
}

// NormalizeCareerLevel always returns at least one level. Display forms are
// mapped to their enum value ("Entry Level" → EntryLevel); anything else has
// its whitespace stripped and passes through.
func NormalizeCareerLevel(raw any) []job.CareerLevel {
	values := asStrings(raw)
	levels := make([]job.CareerLevel, 0, len(values))
	seen := make(map[job.CareerLevel]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		l, ok := job.CareerLevelFromName(v)
		if !ok {
			l = job.CareerLevel(stripSpace(v))
		}
		if seen[l] {
			continue
		}
		seen[l] = true
		levels = append(levels, l)
	}
	if len(levels) == 0 {
		return []job.CareerLevel{job.LevelNotSpecified}
	}
	return levels
}

// NormalizeWorkplaceType passes only the three known literals.
func NormalizeWorkplaceType(raw any) job.WorkplaceType {
	s, _ := raw.(string)
	switch w := job.WorkplaceType(s); w {
	case job.WorkplaceOnSite, job.WorkplaceHybrid, job.WorkplaceRemote:
		return w
	}
	return job.WorkplaceNotSpecified
}

// NormalizeRemoteRegion returns nil for anything outside the eight regions.
func NormalizeRemoteRegion(raw any) *job.RemoteRegion {
	s, _ := raw.(string)
	if !job.IsKnownRemoteRegion(s) {
		return nil
	}
	r := job.RemoteRegion(s)
	return &r
}

// NormalizeSalary returns nil when neither bound is set. Zero counts as
// unset; currency defaults to USD and unit to year.
func NormalizeSalary(rawMin, rawMax, rawCurrency, rawUnit any) *job.Salary {
	lo := nonZero(rawMin)
	hi := nonZero(rawMax)
	if lo == nil && hi == nil {
		return nil
	}

	s := &job.Salary{Min: lo, Max: hi, Currency: job.CurrencyUSD, Unit: job.UnitYear}
	if c := asString(rawCurrency); c != "" {
		s.Currency = job.Currency(c)
	}
	if u := asString(rawUnit); u != "" {
		s.Unit = job.SalaryUnit(u)
	}
	return s
}

// NormalizeRemoteFriendly accepts the Yes/No/Not specified string enum and
// the legacy checkbox boolean. Unknown strings pass through.
func NormalizeRemoteFriendly(raw any) job.YesNo {
	switch v := raw.(type) {
	case bool:
		if v {
			return job.Yes
		}
		return job.No
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return job.YesNo(s)
		}
	}
	return job.NotSpecified
}

// NormalizeLanguages upper-cases and deduplicates language codes. Codes
// x/text recognises are reduced to their base language ("en-US" → "EN").
func NormalizeLanguages(raw any) []job.Language {
	values := asStrings(raw)
	langs := make([]job.Language, 0, len(values))
	seen := make(map[job.Language]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		l := job.Language(strings.ToUpper(v))
		if tag, err := language.Parse(v); err == nil {
			if base, conf := tag.Base(); conf != language.No && base.String() != "und" {
				l = job.Language(strings.ToUpper(base.String()))
			}
		}
		if seen[l] {
			continue
		}
		seen[l] = true
		langs = append(langs, l)
	}
	return langs
}

func remoteFriendlyFromWorkplace(w job.WorkplaceType) job.YesNo {
	switch w {
	case job.WorkplaceRemote, job.WorkplaceHybrid:
		return job.Yes
	case job.WorkplaceOnSite:
		return job.No
	}
	return job.NotSpecified
}

func nonZero(v any) *float64 {
	n, ok := asNumber(v)
	if !ok || n == 0 {
		return nil
	}
	return &n
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// cleanText strips markup from short display strings.
func cleanText(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// cleanMarkup drops unsafe HTML embedded in markdown descriptions. Plain
// markdown is left untouched so blockquotes and entities survive.
func cleanMarkup(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	return ugcPolicy.Sanitize(s)
}
