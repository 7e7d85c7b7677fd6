package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Column names of the Jobs table.
const (
	fieldTitle          = "title"
	fieldCompany        = "company"
	fieldType           = "type"
	fieldCareerLevel    = "career_level"
	fieldWorkplaceType  = "workplace_type"
	fieldRemoteRegion   = "remote_region"
	fieldTimezone       = "timezone_requirements"
	fieldCity           = "workplace_city"
	fieldCountry        = "workplace_country"
	fieldSalaryMin      = "salary_min"
	fieldSalaryMax      = "salary_max"
	fieldSalaryCurrency = "salary_currency"
	fieldSalaryUnit     = "salary_unit"
	fieldVisa           = "visa_sponsorship"
	fieldRemoteFriendly = "remote_friendly"
	fieldLanguages      = "languages"
	fieldDescription    = "description"
	fieldBenefits       = "benefits"
	fieldApplyURL       = "apply_url"
	fieldPostedDate     = "posted_date"
	fieldFeatured       = "featured"
	fieldStatus         = "status"
	fieldLocation       = "location"
)

// asString returns the trimmed string form of v, or "" when v is absent or
// not scalar.
func asString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case json.Number:
		return s.String()
	}
	return ""
}

// optString returns nil for absent or blank values.
func optString(v any) *string {
	s := asString(v)
	if s == "" {
		return nil
	}
	return &s
}

// asStrings accepts a list or a bare scalar.
func asStrings(v any) []string {
	switch s := v.(type) {
	case nil:
		return nil
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	case string:
		return []string{s}
	}
	return nil
}

// asNumber converts JSON numbers and numeric strings.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// truthy follows the loose checkbox semantics of the source table.
func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes", "1", "checked":
			return true
		}
		return false
	}
	if n, ok := asNumber(v); ok {
		return n != 0
	}
	return false
}

// MissingFieldsError reports a record dropped for lacking hard-required
// columns or carrying an unusable value in one of them.
type MissingFieldsError struct {
	RecordID string
	Fields   []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("record %s: missing required fields: %s", e.RecordID, strings.Join(e.Fields, ", "))
}
