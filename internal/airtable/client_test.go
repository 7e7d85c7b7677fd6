package airtable_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/board-service/internal/airtable"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *airtable.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := airtable.NewClient("tok", "appBase", "Jobs")
	c.BaseURL = srv.URL
	return c
}

func TestListActive_FollowsOffset(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/appBase/Jobs", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		q := r.URL.Query()
		assert.Equal(t, "{status} = 'active'", q.Get("filterByFormula"))
		assert.Equal(t, "posted_date", q.Get("sort[0][field]"))
		assert.Equal(t, "desc", q.Get("sort[0][direction]"))
		assert.Equal(t, "100", q.Get("pageSize"))

		w.Header().Set("Content-Type", "application/json")
		switch q.Get("offset") {
		case "":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"records": []map[string]any{{"id": "rec1", "fields": map[string]any{"title": "One"}}},
				"offset":  "page2",
			})
		case "page2":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"records": []map[string]any{{"id": "rec2", "fields": map[string]any{"title": "Two", "salary_min": 1000}}},
			})
		default:
			t.Errorf("unexpected offset %q", q.Get("offset"))
		}
	})

	recs, err := c.ListActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	require.Len(t, recs, 2)
	assert.Equal(t, "rec1", recs[0].ID)
	assert.Equal(t, "Two", recs[1].Fields["title"])
	assert.Equal(t, 1000.0, recs[1].Fields["salary_min"])
}

func TestListActive_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"type":"AUTHENTICATION_REQUIRED","message":"Authentication required"}}`))
	})

	_, err := c.ListActive(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "AUTHENTICATION_REQUIRED")
}

func TestFind(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/appBase/Jobs/rec42" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"id":"rec42","createdTime":"2024-01-01T00:00:00.000Z","fields":{"title":"Found"}}`))
	})

	rec, err := c.Find(context.Background(), "rec42")
	require.NoError(t, err)
	assert.Equal(t, "Found", rec.Fields["title"])

	_, err = c.Find(context.Background(), "recMissing")
	assert.True(t, errors.Is(err, airtable.ErrNotFound))
}

func TestPing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("maxRecords"))
		_, _ = w.Write([]byte(`{"records":[]}`))
	})
	assert.NoError(t, c.Ping(context.Background()))
}

func TestListActive_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"records":[]}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListActive(ctx)
	assert.Error(t, err)
}
