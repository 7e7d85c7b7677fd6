package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/board-service/internal/airtable"
	"jobmate/board-service/internal/catalog"
	"jobmate/board-service/internal/query"
)

const ttl = 5 * time.Minute

// ── Fakes ─────────────────────────────────────────────────────────────────

type fakeSource struct {
	mu    sync.Mutex
	recs  []airtable.Record
	err   error
	calls int
	finds int
	extra map[string]airtable.Record
}

func (f *fakeSource) ListActive(ctx context.Context) ([]airtable.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.recs, f.err
}

func (f *fakeSource) Find(ctx context.Context, id string) (airtable.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finds++
	if rec, ok := f.extra[id]; ok {
		return rec, nil
	}
	return airtable.Record{}, airtable.ErrNotFound
}

func (f *fakeSource) set(recs []airtable.Record, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs, f.err = recs, err
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeSource) findCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.finds
}

type fakeMirror struct {
	saved []airtable.Record
	load  []airtable.Record
	err   error
}

func (m *fakeMirror) Save(ctx context.Context, recs []airtable.Record) error {
	m.saved = recs
	return nil
}

func (m *fakeMirror) Load(ctx context.Context) ([]airtable.Record, error) {
	return m.load, m.err
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func record(id, title, posted string) airtable.Record {
	return airtable.Record{ID: id, Fields: map[string]any{
		"title":       title,
		"company":     "Acme",
		"type":        "Full-time",
		"description": "",
		"apply_url":   "https://acme.test/" + id,
		"posted_date": posted,
		"status":      "active",
	}}
}

func records() []airtable.Record {
	bad := record("recBad", "Broken", "2024-01-01")
	delete(bad.Fields, "title")
	return []airtable.Record{
		record("recA", "Backend Engineer", "2024-01-12"),
		bad,
		record("recB", "Designer", "2024-01-10"),
	}
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

var errSourceDown = errors.New("source down")

// ── Snapshot lifecycle ────────────────────────────────────────────────────

func TestJobs_FetchesOnceWithinTTL(t *testing.T) {
	src := &fakeSource{recs: records()}
	clk := &clock{t: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}
	cat := catalog.New(src, ttl, catalog.WithClock(clk.now))
	ctx := context.Background()

	jobs, err := cat.Jobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2, "record without title is skipped")
	assert.Equal(t, "recA", jobs[0].ID)

	clk.t = clk.t.Add(ttl - time.Second)
	_, err = cat.Jobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, src.callCount())

	clk.t = clk.t.Add(time.Second)
	_, err = cat.Jobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.callCount())

	st := cat.Status()
	assert.Equal(t, 2, st.Count)
	assert.Equal(t, catalog.OriginSource, st.Origin)
}

func TestRefresh_StoresCacheAndPublishes(t *testing.T) {
	mr, rdb := newRedis(t)
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, catalog.EventJobsRefreshed)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	mirror := &fakeMirror{}
	src := &fakeSource{recs: records()}
	cat := catalog.New(src, ttl,
		catalog.WithCache(catalog.NewCache(rdb, ttl)),
		catalog.WithMirror(mirror),
	)
	require.NoError(t, cat.Refresh(ctx))

	assert.True(t, mr.Exists(catalog.CacheKey))
	assert.Equal(t, ttl, mr.TTL(catalog.CacheKey))
	assert.Len(t, mirror.saved, 3, "raw records are mirrored as fetched")

	select {
	case msg := <-sub.Channel():
		var event map[string]any
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		assert.Equal(t, catalog.EventJobsRefreshed, event["type"])
		assert.Equal(t, 2.0, event["count"])
	case <-time.After(2 * time.Second):
		t.Fatal("no refresh event received")
	}
}

func TestJobs_PrefersLiveCacheOverSource(t *testing.T) {
	_, rdb := newRedis(t)
	ctx := context.Background()
	cache := catalog.NewCache(rdb, ttl)
	require.NoError(t, cache.Store(ctx, []airtable.Record{record("recC", "Cached", "2024-01-01")}))

	src := &fakeSource{recs: records()}
	cat := catalog.New(src, ttl, catalog.WithCache(cache))

	jobs, err := cat.Jobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Cached", jobs[0].Title)
	assert.Equal(t, 0, src.callCount())
	assert.Equal(t, catalog.OriginCache, cat.Status().Origin)
}

// ── Fallbacks ─────────────────────────────────────────────────────────────

func TestRefresh_FallsBackToCache(t *testing.T) {
	_, rdb := newRedis(t)
	ctx := context.Background()
	cache := catalog.NewCache(rdb, ttl)
	require.NoError(t, cache.Store(ctx, []airtable.Record{record("recC", "Cached", "2024-01-01")}))

	cat := catalog.New(&fakeSource{err: errSourceDown}, ttl, catalog.WithCache(cache))
	require.NoError(t, cat.Refresh(ctx))

	jobs, err := cat.Jobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, catalog.OriginCache, cat.Status().Origin)
}

func TestRefresh_FallsBackToMirror(t *testing.T) {
	_, rdb := newRedis(t)
	mirror := &fakeMirror{load: []airtable.Record{record("recM", "Mirrored", "2024-01-01")}}
	cat := catalog.New(&fakeSource{err: errSourceDown}, ttl,
		catalog.WithCache(catalog.NewCache(rdb, ttl)),
		catalog.WithMirror(mirror),
	)

	require.NoError(t, cat.Refresh(context.Background()))
	jobs, err := cat.Jobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Mirrored", jobs[0].Title)
	assert.Equal(t, catalog.OriginMirror, cat.Status().Origin)
	assert.Nil(t, mirror.saved, "fallback data is not written back")
}

func TestJobs_UnavailableWithoutAnySnapshot(t *testing.T) {
	cat := catalog.New(&fakeSource{err: errSourceDown}, ttl,
		catalog.WithMirror(&fakeMirror{err: errors.New("db down")}),
	)

	_, err := cat.Jobs(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrUnavailable))
}

func TestJobs_ServesStaleSnapshotWhenRefreshFails(t *testing.T) {
	src := &fakeSource{recs: records()}
	clk := &clock{t: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}
	cat := catalog.New(src, ttl, catalog.WithClock(clk.now))
	ctx := context.Background()

	_, err := cat.Jobs(ctx)
	require.NoError(t, err)

	src.set(nil, errSourceDown)
	clk.t = clk.t.Add(2 * ttl)

	jobs, err := cat.Jobs(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
	assert.Error(t, cat.Refresh(ctx), "forced refresh still reports the failure")
}

// ── Lookups ───────────────────────────────────────────────────────────────

func TestJob_Lookup(t *testing.T) {
	src := &fakeSource{
		recs: records(),
		extra: map[string]airtable.Record{
			"recNew": record("recNew", "Fresh Posting", "2024-02-01"),
		},
	}
	inactive := record("recOld", "Closed", "2023-01-01")
	inactive.Fields["status"] = "inactive"
	src.extra["recOld"] = inactive

	cat := catalog.New(src, ttl)
	ctx := context.Background()

	j, all, err := cat.Job(ctx, "recB")
	require.NoError(t, err)
	assert.Equal(t, "Designer", j.Title)
	assert.Len(t, all, 2)

	j, _, err = cat.Job(ctx, "backend-engineer-at-acme")
	require.NoError(t, err)
	assert.Equal(t, "recA", j.ID)

	j, _, err = cat.Job(ctx, "recNew")
	require.NoError(t, err)
	assert.Equal(t, "Fresh Posting", j.Title)

	for _, missing := range []string{"recOld", "recNope", "no-such-slug"} {
		_, _, err = cat.Job(ctx, missing)
		assert.True(t, errors.Is(err, query.ErrNotFound), missing)
	}
}

func TestJob_MissingIDsAreNotRefetched(t *testing.T) {
	inactive := record("recOld", "Closed", "2023-01-01")
	inactive.Fields["status"] = "inactive"
	src := &fakeSource{recs: records(), extra: map[string]airtable.Record{"recOld": inactive}}
	cat := catalog.New(src, ttl)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := cat.Job(ctx, "recNope")
		assert.True(t, errors.Is(err, query.ErrNotFound))
		_, _, err = cat.Job(ctx, "recOld")
		assert.True(t, errors.Is(err, query.ErrNotFound))
	}
	assert.Equal(t, 2, src.findCount())

	require.NoError(t, cat.Refresh(ctx))
	_, _, err := cat.Job(ctx, "recNope")
	assert.True(t, errors.Is(err, query.ErrNotFound))
	assert.Equal(t, 3, src.findCount(), "a new snapshot forgets earlier misses")
}

func TestJobs_RefreshOutlivesCanceledRequest(t *testing.T) {
	src := &fakeSource{recs: records()}
	cat := catalog.New(src, ttl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs, err := cat.Jobs(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
	assert.Equal(t, 1, src.callCount())
}

func TestJobs_ConcurrentReadersShareOneFetch(t *testing.T) {
	src := &fakeSource{recs: records()}
	cat := catalog.New(src, ttl)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cat.Jobs(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, src.callCount())
}
