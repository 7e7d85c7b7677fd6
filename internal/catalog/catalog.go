// Package catalog owns the current job snapshot.
//
// A refresh pulls raw records from the source, normalizes them and swaps the
// snapshot in one step. Readers always get a complete snapshot; a snapshot
// older than the revalidation interval is refreshed on read. When the source
// fails, the Redis cache and then the Postgres mirror stand in for it.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"jobmate/board-service/internal/airtable"
	"jobmate/board-service/internal/job"
	"jobmate/board-service/internal/normalize"
	"jobmate/board-service/internal/query"
)

// ErrUnavailable is returned when neither the source nor any fallback can
// produce a snapshot.
var ErrUnavailable = errors.New("catalog: job data unavailable")

// refreshTimeout bounds a refresh triggered by a read. The refresh outlives
// the request that triggered it.
const refreshTimeout = 30 * time.Second

// Source lists the active raw records.
type Source interface {
	ListActive(ctx context.Context) ([]airtable.Record, error)
}

// Mirror persists the last good record set.
type Mirror interface {
	Save(ctx context.Context, recs []airtable.Record) error
	Load(ctx context.Context) ([]airtable.Record, error)
}

// Origin says where a snapshot came from.
type Origin string

const (
	OriginSource Origin = "source"
	OriginCache  Origin = "cache"
	OriginMirror Origin = "mirror"
)

// Catalog is safe for concurrent use.
type Catalog struct {
	source Source
	cache  *Cache
	mirror Mirror
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger

	refreshMu sync.Mutex

	mu        sync.RWMutex
	jobs      []job.Job
	fetchedAt time.Time
	origin    Origin
	misses    map[string]bool // ids Find reported missing, reset on swap
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithCache enables the shared Redis cache.
func WithCache(c *Cache) Option { return func(cat *Catalog) { cat.cache = c } }

// WithMirror enables the Postgres fallback.
func WithMirror(m Mirror) Option { return func(cat *Catalog) { cat.mirror = m } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(cat *Catalog) { cat.now = now } }

// New constructs a Catalog refreshing at most every ttl.
func New(src Source, ttl time.Duration, opts ...Option) *Catalog {
	c := &Catalog{
		source: src,
		ttl:    ttl,
		now:    time.Now,
		logger: log.With().Str("component", "catalog").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Jobs returns the current snapshot, refreshing it first when stale. If the
// refresh fails but an older snapshot exists, the older one is served.
// The returned slice must not be modified.
func (c *Catalog) Jobs(ctx context.Context) ([]job.Job, error) {
	if jobs, ok := c.fresh(); ok {
		return jobs, nil
	}

	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
	err := c.refresh(rctx, false)
	cancel()

	c.mu.RLock()
	jobs, have := c.jobs, !c.fetchedAt.IsZero()
	c.mu.RUnlock()

	if err != nil {
		if have {
			c.logger.Warn().Err(err).Msg("refresh failed, serving stale snapshot")
			return jobs, nil
		}
		return nil, err
	}
	return jobs, nil
}

// Finder is implemented by sources that can fetch one record by id.
type Finder interface {
	Find(ctx context.Context, id string) (airtable.Record, error)
}

// Job looks a posting up by record id or slug in the snapshot. Ids missing
// from the snapshot (posted since the last refresh) are fetched from the
// source when it supports single-record lookups; an id the source does not
// return as an active posting is not asked for again until the next
// snapshot. Only active postings are returned.
func (c *Catalog) Job(ctx context.Context, idOrSlug string) (job.Job, []job.Job, error) {
	jobs, err := c.Jobs(ctx)
	if err != nil {
		return job.Job{}, nil, err
	}
	if j, err := query.Find(jobs, idOrSlug); err == nil {
		return j, jobs, nil
	}

	finder, ok := c.source.(Finder)
	if !ok || !looksLikeRecordID(idOrSlug) || c.missed(idOrSlug) {
		return job.Job{}, jobs, query.ErrNotFound
	}
	rec, err := finder.Find(ctx, idOrSlug)
	if errors.Is(err, airtable.ErrNotFound) {
		c.miss(idOrSlug)
		return job.Job{}, jobs, query.ErrNotFound
	}
	if err != nil {
		return job.Job{}, jobs, fmt.Errorf("find %s: %w", idOrSlug, err)
	}
	j, err := normalize.Normalize(normalize.Record{ID: rec.ID, Fields: rec.Fields})
	if err != nil || j.Status != job.StatusActive {
		c.miss(idOrSlug)
		return job.Job{}, jobs, query.ErrNotFound
	}
	return j, jobs, nil
}

func (c *Catalog) missed(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.misses[id]
}

func (c *Catalog) miss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.misses == nil {
		c.misses = map[string]bool{}
	}
	c.misses[id] = true
}

// Refresh fetches from the source now, regardless of staleness.
func (c *Catalog) Refresh(ctx context.Context) error {
	return c.refresh(ctx, true)
}

// Status describes the current snapshot.
type Status struct {
	Count     int       `json:"count"`
	FetchedAt time.Time `json:"fetchedAt"`
	Origin    Origin    `json:"origin"`
}

// Status reports the size, age and origin of the snapshot.
func (c *Catalog) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Status{Count: len(c.jobs), FetchedAt: c.fetchedAt, Origin: c.origin}
}

func (c *Catalog) fresh() ([]job.Job, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.fetchedAt.IsZero() || c.now().Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return c.jobs, true
}

// refresh serialises loads. A non-forced refresh returns early when another
// caller refreshed while it waited, and prefers a live cache entry to the
// source.
func (c *Catalog) refresh(ctx context.Context, force bool) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if !force {
		if _, ok := c.fresh(); ok {
			return nil
		}
		if recs, remaining, err := c.loadCache(ctx); err == nil && remaining > 0 {
			c.swap(recs, OriginCache, c.now().Add(remaining-c.ttl))
			return nil
		}
	}

	recs, err := c.source.ListActive(ctx)
	if err == nil {
		fetchedAt := c.now()
		jobs := c.swap(recs, OriginSource, fetchedAt)
		c.persist(ctx, recs, len(jobs), fetchedAt)
		return nil
	}
	c.logger.Error().Err(err).Msg("source fetch failed")

	if recs, _, cerr := c.loadCache(ctx); cerr == nil {
		c.swap(recs, OriginCache, c.now())
		return nil
	}
	if c.mirror != nil {
		recs, merr := c.mirror.Load(ctx)
		if merr == nil && len(recs) > 0 {
			c.swap(recs, OriginMirror, c.now())
			return nil
		}
		if merr != nil {
			c.logger.Warn().Err(merr).Msg("mirror load failed")
		}
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func (c *Catalog) loadCache(ctx context.Context) ([]airtable.Record, time.Duration, error) {
	if c.cache == nil {
		return nil, 0, ErrCacheMiss
	}
	recs, remaining, err := c.cache.Load(ctx)
	if err != nil && !errors.Is(err, ErrCacheMiss) {
		c.logger.Warn().Err(err).Msg("cache load failed")
	}
	return recs, remaining, err
}

// swap normalizes recs and publishes them as the new snapshot.
func (c *Catalog) swap(recs []airtable.Record, origin Origin, fetchedAt time.Time) []job.Job {
	jobs := normalize.NormalizeAll(toRecords(recs))

	c.mu.Lock()
	c.jobs = jobs
	c.fetchedAt = fetchedAt
	c.origin = origin
	c.misses = nil
	c.mu.Unlock()

	c.logger.Info().
		Int("records", len(recs)).
		Int("jobs", len(jobs)).
		Str("origin", string(origin)).
		Msg("snapshot refreshed")
	return jobs
}

// persist writes a fresh source fetch to the cache and mirror and announces
// it. Failures are logged only.
func (c *Catalog) persist(ctx context.Context, recs []airtable.Record, count int, at time.Time) {
	if c.cache != nil {
		if err := c.cache.Store(ctx, recs); err != nil {
			c.logger.Warn().Err(err).Msg("cache store failed")
		}
		if err := c.cache.PublishRefreshed(ctx, count, at); err != nil {
			c.logger.Warn().Err(err).Msg("publish refresh event failed")
		}
	}
	if c.mirror != nil {
		if err := c.mirror.Save(ctx, recs); err != nil {
			c.logger.Warn().Err(err).Msg("mirror save failed")
		}
	}
}

// looksLikeRecordID matches Airtable ids ("recXXXXXXXXXXXXXX"); slugs always
// contain a dash.
func looksLikeRecordID(s string) bool {
	return strings.HasPrefix(s, "rec") && !strings.ContainsRune(s, '-')
}

func toRecords(recs []airtable.Record) []normalize.Record {
	out := make([]normalize.Record, len(recs))
	for i, r := range recs {
		out[i] = normalize.Record{ID: r.ID, Fields: r.Fields}
	}
	return out
}
