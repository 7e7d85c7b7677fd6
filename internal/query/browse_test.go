package query_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/board-service/internal/job"
	"jobmate/board-service/internal/query"
)

func TestTypeCounts(t *testing.T) {
	jobs := sampleJobs()
	untyped := mkJob("u", "Mystery", "2024-01-01")
	untyped.Type = ""
	jobs = append(jobs, untyped)

	got := query.TypeCounts(jobs)
	require.Len(t, got, 3)
	assert.Equal(t, query.Count{Value: "Full-time", Label: "Full-time", Slug: "full-time", Count: 2}, got[0])
	assert.Equal(t, "Contract", got[1].Value, "ties ordered by value")
	assert.Equal(t, "Part-time", got[2].Value)
}

func TestCareerLevelCounts_ExcludesNotSpecified(t *testing.T) {
	got := query.CareerLevelCounts(sampleJobs())
	require.Len(t, got, 2)
	assert.Equal(t, query.Count{Value: "Senior", Label: "Senior", Slug: "senior", Count: 2}, got[0])
	assert.Equal(t, query.Count{Value: "MidLevel", Label: "Mid Level", Slug: "midlevel", Count: 1}, got[1])
}

func TestLanguageCounts(t *testing.T) {
	got := query.LanguageCounts(sampleJobs())
	require.Len(t, got, 2)
	assert.Equal(t, query.Count{Value: "EN", Label: "English", Slug: "en", Count: 2}, got[0])
	assert.Equal(t, query.Count{Value: "DE", Label: "German", Slug: "de", Count: 1}, got[1])
}

func TestLocationCounts(t *testing.T) {
	got := query.LocationCounts(sampleJobs())
	assert.Equal(t, 2, got.Remote)
	assert.Equal(t, []query.Count{{Value: "Germany", Label: "Germany", Slug: "germany", Count: 1}}, got.Countries)
	assert.Equal(t, []query.Count{{Value: "Berlin", Label: "Berlin", Slug: "berlin", Count: 1}}, got.Cities)
}

func TestBrowseFilters(t *testing.T) {
	jobs := sampleJobs()

	assert.Equal(t, []string{"b"}, ids(query.ByType(jobs, "contract")))
	assert.Equal(t, []string{"a", "b"}, ids(query.ByCareerLevel(jobs, "senior")))
	assert.Equal(t, []string{"b"}, ids(query.ByCareerLevel(jobs, "midlevel")))
	assert.Equal(t, []string{"b"}, ids(query.ByCareerLevel(jobs, "Mid Level")))
	assert.Empty(t, query.ByCareerLevel(jobs, "notspecified"))
	assert.Empty(t, query.ByCareerLevel(jobs, "wizard"))
	assert.Equal(t, []string{"b"}, ids(query.ByLanguage(jobs, "de")))
	assert.Equal(t, []string{"a", "d"}, ids(query.ByLocation(jobs, "remote")))
	assert.Equal(t, []string{"c"}, ids(query.ByLocation(jobs, "Germany")))
	assert.Empty(t, query.ByLocation(jobs, "france"))
}

func TestSimilar(t *testing.T) {
	current := mkJob("cur", "Senior Backend Engineer", "2024-01-10")
	current.WorkplaceType = job.WorkplaceOnSite
	current.WorkplaceCity = ptr("Paris")

	sameWord := mkJob("w", "Backend Developer", "2024-01-09")
	sameWord.WorkplaceType = job.WorkplaceRemote
	samePlace := mkJob("p", "Designer", "2024-01-08")
	samePlace.WorkplaceType = job.WorkplaceOnSite
	samePlace.WorkplaceCity = ptr("Paris")
	unrelated := mkJob("u", "Sr QA", "2024-01-07")
	unrelated.WorkplaceType = job.WorkplaceRemote

	got := query.Similar(current, []job.Job{current, sameWord, samePlace, unrelated}, 0)
	assert.Equal(t, []string{"w", "p"}, ids(got))
}

func TestSimilar_Limit(t *testing.T) {
	current := mkJob("cur", "Engineer", "2024-01-10")
	var all []job.Job
	for _, id := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		all = append(all, mkJob(id, "Engineer", "2024-01-01"))
	}
	assert.Len(t, query.Similar(current, all, 0), query.DefaultSimilarLimit)
	assert.Len(t, query.Similar(current, all, 2), 2)
}

func TestFind(t *testing.T) {
	jobs := sampleJobs()

	j, err := query.Find(jobs, "b")
	require.NoError(t, err)
	assert.Equal(t, "Frontend Developer", j.Title)

	j, err = query.Find(jobs, "site-reliability-engineer-at-acme")
	require.NoError(t, err)
	assert.Equal(t, "d", j.ID)

	_, err = query.Find(jobs, "nope")
	assert.True(t, errors.Is(err, query.ErrNotFound))
}
