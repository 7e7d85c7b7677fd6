package job

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var typeDescriptions = map[Type]string{
	TypeFullTime:  "Permanent positions with standard working hours",
	TypePartTime:  "Positions with reduced or flexible hours",
	TypeContract:  "Fixed-term or project-based positions",
	TypeFreelance: "Self-employed or project-based contractual work",
}

var careerLevelNames = map[CareerLevel]string{
	LevelInternship:     "Internship",
	LevelEntryLevel:     "Entry Level",
	LevelAssociate:      "Associate",
	LevelJunior:         "Junior",
	LevelMidLevel:       "Mid Level",
	LevelSenior:         "Senior",
	LevelStaff:          "Staff",
	LevelPrincipal:      "Principal",
	LevelLead:           "Lead",
	LevelManager:        "Manager",
	LevelSeniorManager:  "Senior Manager",
	LevelDirector:       "Director",
	LevelSeniorDirector: "Senior Director",
	LevelVP:             "VP",
	LevelSVP:            "SVP",
	LevelEVP:            "EVP",
	LevelCLevel:         "C-Level",
	LevelFounder:        "Founder",
	LevelNotSpecified:   "Not Specified",
}

// TypeDescription returns the blurb shown on the job types page, or "" for
// types outside the closed set.
func TypeDescription(t Type) string { return typeDescriptions[t] }

// CareerLevelName returns the display form of l ("Entry Level"). Unknown
// levels are returned as-is.
func CareerLevelName(l CareerLevel) string {
	if name, ok := careerLevelNames[l]; ok {
		return name
	}
	return string(l)
}

// CareerLevelFromName maps a display form back to its level.
func CareerLevelFromName(name string) (CareerLevel, bool) {
	for l, n := range careerLevelNames {
		if strings.EqualFold(n, name) {
			return l, true
		}
	}
	return "", false
}

// LanguageName returns the English name of a language code ("DE" → "German").
// Codes x/text does not recognise are returned unchanged.
func LanguageName(l Language) string {
	tag, err := language.Parse(strings.ToLower(string(l)))
	if err != nil {
		return string(l)
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return string(l)
}
