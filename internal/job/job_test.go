package job_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/board-service/internal/job"
)

func str(s string) *string { return &s }

func region(r job.RemoteRegion) *job.RemoteRegion { return &r }

// ── Location ──────────────────────────────────────────────────────────────

func TestFormatLocation(t *testing.T) {
	cases := []struct {
		name string
		j    job.Job
		want string
	}{
		{"remote default region", job.Job{WorkplaceType: job.WorkplaceRemote}, "Remote (Worldwide)"},
		{"remote with region", job.Job{WorkplaceType: job.WorkplaceRemote, RemoteRegion: region(job.RegionUSOnly)}, "Remote (US Only)"},
		{"hybrid with place", job.Job{
			WorkplaceType:    job.WorkplaceHybrid,
			RemoteRegion:     region(job.RegionEUOnly),
			WorkplaceCity:    str("Berlin"),
			WorkplaceCountry: str("Germany"),
		}, "Berlin, Germany, Hybrid (EU Only)"},
		{"hybrid bare", job.Job{WorkplaceType: job.WorkplaceHybrid}, "Hybrid"},
		{"on-site", job.Job{WorkplaceType: job.WorkplaceOnSite, WorkplaceCountry: str("France")}, "France"},
		{"legacy text", job.Job{WorkplaceType: job.WorkplaceNotSpecified, LegacyLocation: "NYC"}, "NYC"},
		{"nothing", job.Job{WorkplaceType: job.WorkplaceNotSpecified}, "Not specified"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, job.FormatLocation(&tc.j))
		})
	}
}

func TestLocationText_NoPlaceholder(t *testing.T) {
	assert.Empty(t, job.LocationText(&job.Job{WorkplaceType: job.WorkplaceNotSpecified}))
	assert.Equal(t, "NYC", job.LocationText(&job.Job{LegacyLocation: "NYC"}))
	assert.Equal(t, "Remote (Worldwide)", job.LocationText(&job.Job{WorkplaceType: job.WorkplaceRemote}))
}

// ── Slugs ─────────────────────────────────────────────────────────────────

func TestSlug(t *testing.T) {
	assert.Equal(t, "senior-go-engineer-at-acme-inc", job.Slug("Senior Go Engineer", "Acme, Inc."))
	assert.Equal(t, "developpeur-at-societe-generale", job.Slug("Développeur", "Société Générale"))
	assert.Equal(t, "c-engineer-at-zurich-labs", job.Slug("  C++ Engineer ", "Zürich Labs"))
	assert.Equal(t, "", job.Slugify("!!!"))
}

// ── Dates ─────────────────────────────────────────────────────────────────

func TestParsePostedDate(t *testing.T) {
	d, err := job.ParsePostedDate("2024-12-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 10, 0, 0, 0, 0, time.UTC), d)

	ts, err := job.ParsePostedDate("2024-12-10T08:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 8, ts.Hour())

	_, err = job.ParsePostedDate("10/12/2024")
	assert.Error(t, err)
}

func TestFormatPosted(t *testing.T) {
	now := time.Date(2024, 12, 31, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{45 * time.Minute, "45 minutes ago"},
		{time.Hour, "1 hour ago"},
		{5 * time.Hour, "5 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{29 * 24 * time.Hour, "29 days ago"},
		{30 * 24 * time.Hour, "Dec 1, 2024"},
	}
	for _, tc := range cases {
		got := job.FormatPosted(now.Add(-tc.ago), now)
		assert.Equal(t, tc.want, got.RelativeTime, "ago %s", tc.ago)
	}
	assert.Equal(t, "Dec 31, 2024", job.FormatPosted(now, now).FullDate)
}

// ── Enums and display names ───────────────────────────────────────────────

func TestParseCareerLevel(t *testing.T) {
	for _, l := range job.CareerLevels {
		got, err := job.ParseCareerLevel(string(l))
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}
	_, err := job.ParseCareerLevel("Entry Level")
	assert.Error(t, err, "display names are not enum values")
}

func TestCareerLevelNames(t *testing.T) {
	assert.Equal(t, "Entry Level", job.CareerLevelName(job.LevelEntryLevel))
	assert.Equal(t, "Wizard", job.CareerLevelName("Wizard"))

	l, ok := job.CareerLevelFromName("c-level")
	assert.True(t, ok)
	assert.Equal(t, job.LevelCLevel, l)

	_, ok = job.CareerLevelFromName("Wizard")
	assert.False(t, ok)
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "English", job.LanguageName("EN"))
	assert.Equal(t, "Japanese", job.LanguageName("ja"))
	assert.Equal(t, "Q1", job.LanguageName("Q1"))
}

func TestJobMembership(t *testing.T) {
	j := job.Job{
		CareerLevel: []job.CareerLevel{job.LevelSenior, job.LevelLead},
		Languages:   []job.Language{"EN"},
	}
	assert.True(t, j.HasCareerLevel(job.LevelLead))
	assert.False(t, j.HasCareerLevel(job.LevelJunior))
	assert.True(t, j.HasLanguage("EN"))
	assert.False(t, j.HasLanguage("DE"))
	assert.True(t, job.IsKnownRemoteRegion("UK/EU Only"))
	assert.False(t, job.IsKnownRemoteRegion("Moon"))
}
