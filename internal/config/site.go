package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Link is a labelled navigation target.
type Link struct {
	Label    string `yaml:"label" json:"label"`
	Link     string `yaml:"link" json:"link"`
	External bool   `yaml:"external,omitempty" json:"external,omitempty"`
}

// Site holds the marketing and navigation settings handed to renderers.
// It has no effect on normalization or querying.
type Site struct {
	Badge       string `yaml:"badge" json:"badge"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	URL         string `yaml:"url" json:"url"`

	Nav struct {
		Title   string          `yaml:"title" json:"title"`
		Social  map[string]Link `yaml:"social" json:"social,omitempty"`
		PostJob *Link           `yaml:"post_job" json:"postJob,omitempty"`
		TopMenu []Link          `yaml:"top_menu" json:"topMenu"`
	} `yaml:"nav" json:"nav"`

	Footer struct {
		Description string `yaml:"description" json:"description"`
		Resources   []Link `yaml:"resources" json:"resources"`
		Legal       []Link `yaml:"legal" json:"legal"`
		Copyright   struct {
			StartYear int    `yaml:"start_year" json:"startYear"`
			Text      string `yaml:"text" json:"text"`
		} `yaml:"copyright" json:"copyright"`
	} `yaml:"footer" json:"footer"`
}

// DefaultSite is used when no site file is present.
func DefaultSite() *Site {
	s := &Site{
		Title:       "Job Board",
		Description: "Browse curated opportunities from leading companies.",
		URL:         "http://localhost:8080",
	}
	s.Nav.Title = "Job Board"
	s.Nav.TopMenu = []Link{{Label: "Home", Link: "/"}, {Label: "Jobs", Link: "/jobs"}}
	return s
}

// LoadSite reads the YAML site settings at path. A missing file yields
// DefaultSite; a malformed one is an error. SITE_URL overrides url.
func LoadSite(path string) (*Site, error) {
	site := DefaultSite()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, site); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if u := os.Getenv("SITE_URL"); u != "" {
		site.URL = u
	}
	if site.URL == "" {
		return nil, fmt.Errorf("%s: url is required", path)
	}
	return site, nil
}
