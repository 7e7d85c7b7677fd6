// Package job defines the canonical job posting shared by the normalizer,
// the query engine and the delivery layers.
//
// A Job is built once per fetch cycle and never mutated afterwards.
package job

import (
	"fmt"
	"time"
)

// Type is the employment type of a posting.
type Type string

const (
	TypeFullTime  Type = "Full-time"
	TypePartTime  Type = "Part-time"
	TypeContract  Type = "Contract"
	TypeFreelance Type = "Freelance"
)

// Types lists the known employment types in display order.
var Types = []Type{TypeFullTime, TypePartTime, TypeContract, TypeFreelance}

// CareerLevel is one seniority tier. A job carries one or more of them.
type CareerLevel string

const (
	LevelInternship     CareerLevel = "Internship"
	LevelEntryLevel     CareerLevel = "EntryLevel"
	LevelAssociate      CareerLevel = "Associate"
	LevelJunior         CareerLevel = "Junior"
	LevelMidLevel       CareerLevel = "MidLevel"
	LevelSenior         CareerLevel = "Senior"
	LevelStaff          CareerLevel = "Staff"
	LevelPrincipal      CareerLevel = "Principal"
	LevelLead           CareerLevel = "Lead"
	LevelManager        CareerLevel = "Manager"
	LevelSeniorManager  CareerLevel = "SeniorManager"
	LevelDirector       CareerLevel = "Director"
	LevelSeniorDirector CareerLevel = "SeniorDirector"
	LevelVP             CareerLevel = "VP"
	LevelSVP            CareerLevel = "SVP"
	LevelEVP            CareerLevel = "EVP"
	LevelCLevel         CareerLevel = "CLevel"
	LevelFounder        CareerLevel = "Founder"
	LevelNotSpecified   CareerLevel = "NotSpecified"
)

// CareerLevels lists every level, sentinel last.
var CareerLevels = []CareerLevel{
	LevelInternship, LevelEntryLevel, LevelAssociate, LevelJunior,
	LevelMidLevel, LevelSenior, LevelStaff, LevelPrincipal, LevelLead,
	LevelManager, LevelSeniorManager, LevelDirector, LevelSeniorDirector,
	LevelVP, LevelSVP, LevelEVP, LevelCLevel, LevelFounder,
	LevelNotSpecified,
}

// WorkplaceType says where the work happens.
type WorkplaceType string

const (
	WorkplaceOnSite       WorkplaceType = "On-site"
	WorkplaceHybrid       WorkplaceType = "Hybrid"
	WorkplaceRemote       WorkplaceType = "Remote"
	WorkplaceNotSpecified WorkplaceType = "Not specified"
)

// RemoteRegion restricts who may apply to a remote or hybrid role.
type RemoteRegion string

const (
	RegionWorldwide    RemoteRegion = "Worldwide"
	RegionAmericasOnly RemoteRegion = "Americas Only"
	RegionEuropeOnly   RemoteRegion = "Europe Only"
	RegionAsiaPacific  RemoteRegion = "Asia-Pacific Only"
	RegionUSOnly       RemoteRegion = "US Only"
	RegionEUOnly       RemoteRegion = "EU Only"
	RegionUKEUOnly     RemoteRegion = "UK/EU Only"
	RegionUSCanadaOnly RemoteRegion = "US/Canada Only"
)

// RemoteRegions lists the eight recognised regions.
var RemoteRegions = []RemoteRegion{
	RegionWorldwide, RegionAmericasOnly, RegionEuropeOnly, RegionAsiaPacific,
	RegionUSOnly, RegionEUOnly, RegionUKEUOnly, RegionUSCanadaOnly,
}

// YesNo is a tri-state answer used for visa sponsorship and remote
// friendliness.
type YesNo string

const (
	Yes          YesNo = "Yes"
	No           YesNo = "No"
	NotSpecified YesNo = "Not specified"
)

// Currency of a salary.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// SalaryUnit is the pay period a salary amount refers to.
type SalaryUnit string

const (
	UnitHour    SalaryUnit = "hour"
	UnitDay     SalaryUnit = "day"
	UnitWeek    SalaryUnit = "week"
	UnitMonth   SalaryUnit = "month"
	UnitYear    SalaryUnit = "year"
	UnitProject SalaryUnit = "project"
)

// Salary is present only when at least one of Min/Max is set.
type Salary struct {
	Min      *float64   `json:"min"`
	Max      *float64   `json:"max"`
	Currency Currency   `json:"currency"`
	Unit     SalaryUnit `json:"unit"`
}

// Language is an upper-case ISO 639-1 code such as "EN".
type Language string

// Status mirrors the status column of the source table.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Job is the canonical, fully typed posting.
type Job struct {
	ID                   string        `json:"id"`
	Title                string        `json:"title"`
	Company              string        `json:"company"`
	Type                 Type          `json:"type"`
	CareerLevel          []CareerLevel `json:"careerLevel"`
	WorkplaceType        WorkplaceType `json:"workplaceType"`
	RemoteRegion         *RemoteRegion `json:"remoteRegion"`
	WorkplaceCity        *string       `json:"workplaceCity"`
	WorkplaceCountry     *string       `json:"workplaceCountry"`
	TimezoneRequirements *string       `json:"timezoneRequirements,omitempty"`
	Salary               *Salary       `json:"salary"`
	VisaSponsorship      YesNo         `json:"visaSponsorship"`
	RemoteFriendly       YesNo         `json:"remoteFriendly"`
	Languages            []Language    `json:"languages"`
	Description          string        `json:"description"`
	Benefits             *string       `json:"benefits,omitempty"`
	ApplyURL             string        `json:"applyUrl"`
	PostedDate           string        `json:"postedDate"`
	Posted               time.Time     `json:"-"`
	Featured             bool          `json:"featured"`
	Status               Status        `json:"status"`
	LegacyLocation       string        `json:"-"`
}

// HasCareerLevel reports whether l is one of the job's levels.
func (j *Job) HasCareerLevel(l CareerLevel) bool {
	for _, v := range j.CareerLevel {
		if v == l {
			return true
		}
	}
	return false
}

// HasLanguage reports whether lang is one of the job's languages.
func (j *Job) HasLanguage(lang Language) bool {
	for _, v := range j.Languages {
		if v == lang {
			return true
		}
	}
	return false
}

// ParsePostedDate accepts RFC 3339 timestamps and bare YYYY-MM-DD dates.
func ParsePostedDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unparseable posted date %q", s)
}

// ParseCareerLevel converts an enum value (not a display name) to a
// CareerLevel, returning an error for unknown values.
func ParseCareerLevel(s string) (CareerLevel, error) {
	for _, l := range CareerLevels {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown career level %q", s)
}

// IsKnownRemoteRegion reports whether r is one of the eight regions.
func IsKnownRemoteRegion(r string) bool {
	for _, v := range RemoteRegions {
		if string(v) == r {
			return true
		}
	}
	return false
}
