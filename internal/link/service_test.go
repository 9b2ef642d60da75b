package link_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/shortlink/internal/link"
	"github.com/serroba/shortlink/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testURL = "https://example.com/very/long/path"

func newTestService(t *testing.T, repo link.Repository, cache link.Cache) *link.Service {
	t.Helper()

	gen, err := link.NewGenerator(6)
	require.NoError(t, err)

	return link.NewService(repo, cache, gen, zap.NewNop())
}

func timePtr(t time.Time) *time.Time { return &t }

// conflictRepo forces the first n inserts to report a duplicate key, as a
// concurrent create would.
type conflictRepo struct {
	link.Repository

	mu        sync.Mutex
	conflicts int
}

func (r *conflictRepo) Insert(ctx context.Context, l *link.Link) error {
	r.mu.Lock()
	if r.conflicts > 0 {
		r.conflicts--
		r.mu.Unlock()

		return link.ErrDuplicateKey
	}
	r.mu.Unlock()

	return r.Repository.Insert(ctx, l)
}

// failingCache simulates a cache outage or flaky deletes.
type failingCache struct {
	link.Cache

	mu          sync.Mutex
	failGet     bool
	failSet     bool
	failDeletes int
}

var errCacheDown = errors.New("cache down")

func (c *failingCache) Get(ctx context.Context, key link.Code) (string, error) {
	if c.failGet {
		return "", errCacheDown
	}

	return c.Cache.Get(ctx, key)
}

func (c *failingCache) Set(ctx context.Context, key link.Code, url string, ttl time.Duration) error {
	if c.failSet {
		return errCacheDown
	}

	return c.Cache.Set(ctx, key, url, ttl)
}

func (c *failingCache) Delete(ctx context.Context, key link.Code) error {
	c.mu.Lock()
	if c.failDeletes > 0 {
		c.failDeletes--
		c.mu.Unlock()

		return errCacheDown
	}
	c.mu.Unlock()

	return c.Cache.Delete(ctx, key)
}

func TestShorten(t *testing.T) {
	ctx := context.Background()

	t.Run("creates link with generated code and default expiry", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryLinks(), store.NewMemoryCache())

		l, err := svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL})

		require.NoError(t, err)
		assert.Len(t, l.ShortCode, 6)
		assert.Regexp(t, codePattern, l.ShortCode)
		assert.Nil(t, l.CustomAlias)
		require.NotNil(t, l.ExpiresAt)
		assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), *l.ExpiresAt, 2*time.Second)
	})

	t.Run("respects explicit expiry", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryLinks(), store.NewMemoryCache())
		expiry := time.Now().Add(time.Hour)

		l, err := svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL, ExpiresAt: &expiry})

		require.NoError(t, err)
		require.NotNil(t, l.ExpiresAt)
		assert.True(t, l.ExpiresAt.Equal(expiry))
	})

	t.Run("creates link under custom alias", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryLinks(), store.NewMemoryCache())
		alias := "promo"

		l, err := svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL, CustomAlias: &alias})

		require.NoError(t, err)
		assert.Equal(t, "promo", l.ShortCode)
		require.NotNil(t, l.CustomAlias)
		assert.Equal(t, "promo", *l.CustomAlias)
	})

	t.Run("rejects alias colliding with existing code", func(t *testing.T) {
		repo := store.NewMemoryLinks()
		svc := newTestService(t, repo, store.NewMemoryCache())

		first, err := svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL})
		require.NoError(t, err)

		alias := first.ShortCode
		_, err = svc.Shorten(ctx, link.ShortenParams{OriginalURL: "https://other.example", CustomAlias: &alias})

		assert.ErrorIs(t, err, link.ErrAliasTaken)
	})

	t.Run("rejects alias colliding with existing alias", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryLinks(), store.NewMemoryCache())
		alias := "promo"

		_, err := svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL, CustomAlias: &alias})
		require.NoError(t, err)

		_, err = svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL, CustomAlias: &alias})
		assert.ErrorIs(t, err, link.ErrAliasTaken)
	})

	t.Run("retries generated code on duplicate key", func(t *testing.T) {
		repo := &conflictRepo{Repository: store.NewMemoryLinks(), conflicts: 3}
		svc := newTestService(t, repo, store.NewMemoryCache())

		l, err := svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL})

		require.NoError(t, err)
		assert.NotEmpty(t, l.ShortCode)
	})

	t.Run("gives up when every candidate collides", func(t *testing.T) {
		repo := &conflictRepo{Repository: store.NewMemoryLinks(), conflicts: 1000}
		svc := newTestService(t, repo, store.NewMemoryCache())

		_, err := svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL})

		assert.ErrorIs(t, err, link.ErrCodeSpaceExhausted)
	})

	t.Run("concurrent creates never share a code", func(t *testing.T) {
		repo := store.NewMemoryLinks()
		svc := newTestService(t, repo, store.NewMemoryCache())

		const n = 30

		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			codes = make(map[string]bool)
			errs  []error
		)

		for i := 0; i < n; i++ {
			wg.Add(1)

			go func() {
				defer wg.Done()

				l, err := svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL})

				mu.Lock()
				defer mu.Unlock()

				if err != nil {
					errs = append(errs, err)

					return
				}

				codes[l.ShortCode] = true
			}()
		}

		wg.Wait()

		require.Empty(t, errs)
		assert.Len(t, codes, n)
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip returns the original URL", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryLinks(), store.NewMemoryCache())

		l, err := svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL})
		require.NoError(t, err)

		got, err := svc.Resolve(ctx, link.Code(l.ShortCode))

		require.NoError(t, err)
		assert.Equal(t, testURL, got)
	})

	t.Run("unknown code reports not found", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryLinks(), store.NewMemoryCache())

		_, err := svc.Resolve(ctx, "zzzzzz")

		assert.ErrorIs(t, err, link.ErrNotFound)
	})

	t.Run("updates access stats on every resolution", func(t *testing.T) {
		repo := store.NewMemoryLinks()
		svc := newTestService(t, repo, store.NewMemoryCache())

		l, err := svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL})
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			_, err = svc.Resolve(ctx, link.Code(l.ShortCode))
			require.NoError(t, err)
		}

		stats, err := svc.Stats(ctx, link.Code(l.ShortCode))
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.AccessCount)
		require.NotNil(t, stats.LastAccessed)
		assert.WithinDuration(t, time.Now(), *stats.LastAccessed, 2*time.Second)
	})

	t.Run("counts stats on cache hits too", func(t *testing.T) {
		cache := store.NewMemoryCache()
		svc := newTestService(t, store.NewMemoryLinks(), cache)

		l, err := svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL})
		require.NoError(t, err)

		// First resolve populates the cache, second one hits it.
		_, err = svc.Resolve(ctx, link.Code(l.ShortCode))
		require.NoError(t, err)
		_, err = svc.Resolve(ctx, link.Code(l.ShortCode))
		require.NoError(t, err)

		stats, err := svc.Stats(ctx, link.Code(l.ShortCode))
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.AccessCount)
	})

	t.Run("resolves by custom alias", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryLinks(), store.NewMemoryCache())
		alias := "promo"

		_, err := svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL, CustomAlias: &alias})
		require.NoError(t, err)

		got, err := svc.Resolve(ctx, "promo")

		require.NoError(t, err)
		assert.Equal(t, testURL, got)
	})

	t.Run("expired link is never served or cached", func(t *testing.T) {
		cache := store.NewMemoryCache()
		svc := newTestService(t, store.NewMemoryLinks(), cache)

		l, err := svc.Shorten(ctx, link.ShortenParams{
			OriginalURL: testURL,
			ExpiresAt:   timePtr(time.Now().Add(-time.Hour)),
		})
		require.NoError(t, err)

		_, err = svc.Resolve(ctx, link.Code(l.ShortCode))

		assert.ErrorIs(t, err, link.ErrExpired)
		assert.Equal(t, 0, cache.Len())
	})

	t.Run("stale cache entry for expired link is dropped", func(t *testing.T) {
		repo := store.NewMemoryLinks()
		cache := store.NewMemoryCache()
		svc := newTestService(t, repo, cache)

		l, err := svc.Shorten(ctx, link.ShortenParams{
			OriginalURL: testURL,
			ExpiresAt:   timePtr(time.Now().Add(-time.Hour)),
		})
		require.NoError(t, err)

		// Entry planted without TTL, as if cached before expiry by an older
		// deployment.
		require.NoError(t, cache.Set(ctx, link.Code(l.ShortCode), testURL, 0))

		_, err = svc.Resolve(ctx, link.Code(l.ShortCode))

		assert.ErrorIs(t, err, link.ErrExpired)
		assert.Equal(t, 0, cache.Len())
	})

	t.Run("cache entry without backing link is dropped", func(t *testing.T) {
		cache := store.NewMemoryCache()
		svc := newTestService(t, store.NewMemoryLinks(), cache)

		require.NoError(t, cache.Set(ctx, "ghost1", testURL, 0))

		_, err := svc.Resolve(ctx, "ghost1")

		assert.ErrorIs(t, err, link.ErrNotFound)
		assert.Equal(t, 0, cache.Len())
	})

	t.Run("cache outage degrades to store-only resolution", func(t *testing.T) {
		cache := &failingCache{Cache: store.NewMemoryCache(), failGet: true, failSet: true}
		svc := newTestService(t, store.NewMemoryLinks(), cache)

		l, err := svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL})
		require.NoError(t, err)

		got, err := svc.Resolve(ctx, link.Code(l.ShortCode))

		require.NoError(t, err)
		assert.Equal(t, testURL, got)

		// Stats still committed despite the cache being down.
		stats, err := svc.Stats(ctx, link.Code(l.ShortCode))
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.AccessCount)
	})
}

func TestUpdateURL(t *testing.T) {
	ctx := context.Background()

	t.Run("requires matching owner", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryLinks(), store.NewMemoryCache())
		owner := uuid.New()
		stranger := uuid.New()

		l, err := svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL, Owner: &owner})
		require.NoError(t, err)

		_, err = svc.UpdateURL(ctx, link.Code(l.ShortCode), "https://new.example", stranger)
		assert.ErrorIs(t, err, link.ErrForbidden)

		updated, err := svc.UpdateURL(ctx, link.Code(l.ShortCode), "https://new.example", owner)
		require.NoError(t, err)
		assert.Equal(t, "https://new.example", updated.OriginalURL)
	})

	t.Run("anonymous links are not updatable", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryLinks(), store.NewMemoryCache())

		l, err := svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL})
		require.NoError(t, err)

		_, err = svc.UpdateURL(ctx, link.Code(l.ShortCode), "https://new.example", uuid.New())

		assert.ErrorIs(t, err, link.ErrForbidden)
	})

	t.Run("unknown code reports not found", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryLinks(), store.NewMemoryCache())

		_, err := svc.UpdateURL(ctx, "zzzzzz", "https://new.example", uuid.New())

		assert.ErrorIs(t, err, link.ErrNotFound)
	})

	t.Run("resolve after update never returns the old URL", func(t *testing.T) {
		cache := store.NewMemoryCache()
		svc := newTestService(t, store.NewMemoryLinks(), cache)
		owner := uuid.New()

		l, err := svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL, Owner: &owner})
		require.NoError(t, err)

		// Warm the cache with the old URL.
		_, err = svc.Resolve(ctx, link.Code(l.ShortCode))
		require.NoError(t, err)

		_, err = svc.UpdateURL(ctx, link.Code(l.ShortCode), "https://new.example", owner)
		require.NoError(t, err)

		got, err := svc.Resolve(ctx, link.Code(l.ShortCode))
		require.NoError(t, err)
		assert.Equal(t, "https://new.example", got)
	})

	t.Run("invalidation retries once on cache failure", func(t *testing.T) {
		cache := &failingCache{Cache: store.NewMemoryCache(), failDeletes: 1}
		svc := newTestService(t, store.NewMemoryLinks(), cache)
		owner := uuid.New()

		l, err := svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL, Owner: &owner})
		require.NoError(t, err)

		_, err = svc.Resolve(ctx, link.Code(l.ShortCode))
		require.NoError(t, err)

		_, err = svc.UpdateURL(ctx, link.Code(l.ShortCode), "https://new.example", owner)
		require.NoError(t, err)

		got, err := svc.Resolve(ctx, link.Code(l.ShortCode))
		require.NoError(t, err)
		assert.Equal(t, "https://new.example", got)
	})

	t.Run("invalidates alias entry as well", func(t *testing.T) {
		cache := store.NewMemoryCache()
		svc := newTestService(t, store.NewMemoryLinks(), cache)
		owner := uuid.New()
		alias := "promo"

		_, err := svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL, CustomAlias: &alias, Owner: &owner})
		require.NoError(t, err)

		_, err = svc.Resolve(ctx, "promo")
		require.NoError(t, err)

		_, err = svc.UpdateURL(ctx, "promo", "https://new.example", owner)
		require.NoError(t, err)

		got, err := svc.Resolve(ctx, "promo")
		require.NoError(t, err)
		assert.Equal(t, "https://new.example", got)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes, later resolves report not found", func(t *testing.T) {
		cache := store.NewMemoryCache()
		svc := newTestService(t, store.NewMemoryLinks(), cache)
		owner := uuid.New()

		l, err := svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL, Owner: &owner})
		require.NoError(t, err)

		// Warm the cache first.
		_, err = svc.Resolve(ctx, link.Code(l.ShortCode))
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, link.Code(l.ShortCode), owner))

		_, err = svc.Resolve(ctx, link.Code(l.ShortCode))
		assert.ErrorIs(t, err, link.ErrNotFound)
		assert.Equal(t, 0, cache.Len())
	})

	t.Run("non-owner cannot delete", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryLinks(), store.NewMemoryCache())
		owner := uuid.New()

		l, err := svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL, Owner: &owner})
		require.NoError(t, err)

		err = svc.Delete(ctx, link.Code(l.ShortCode), uuid.New())

		assert.ErrorIs(t, err, link.ErrForbidden)
	})

	t.Run("unknown code reports not found", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryLinks(), store.NewMemoryCache())

		err := svc.Delete(ctx, "zzzzzz", uuid.New())

		assert.ErrorIs(t, err, link.ErrNotFound)
	})
}

func TestStats(t *testing.T) {
	ctx := context.Background()

	t.Run("expired links still report stats", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryLinks(), store.NewMemoryCache())

		l, err := svc.Shorten(ctx, link.ShortenParams{
			OriginalURL: testURL,
			ExpiresAt:   timePtr(time.Now().Add(-time.Hour)),
		})
		require.NoError(t, err)

		stats, err := svc.Stats(ctx, link.Code(l.ShortCode))

		require.NoError(t, err)
		assert.Equal(t, testURL, stats.OriginalURL)
	})

	t.Run("unknown code reports not found", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryLinks(), store.NewMemoryCache())

		_, err := svc.Stats(ctx, "zzzzzz")

		assert.ErrorIs(t, err, link.ErrNotFound)
	})
}

func TestSearchByURL(t *testing.T) {
	ctx := context.Background()

	t.Run("returns exact matches only", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryLinks(), store.NewMemoryCache())

		_, err := svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL})
		require.NoError(t, err)
		_, err = svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL})
		require.NoError(t, err)
		_, err = svc.Shorten(ctx, link.ShortenParams{OriginalURL: "https://other.example"})
		require.NoError(t, err)

		links, err := svc.SearchByURL(ctx, testURL)

		require.NoError(t, err)
		assert.Len(t, links, 2)
	})

	t.Run("no matches yields empty result", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryLinks(), store.NewMemoryCache())

		links, err := svc.SearchByURL(ctx, "https://nothing.example")

		require.NoError(t, err)
		assert.Empty(t, links)
	})
}

func TestSweep(t *testing.T) {
	ctx := context.Background()

	t.Run("removes expired links from store and cache", func(t *testing.T) {
		cache := store.NewMemoryCache()
		svc := newTestService(t, store.NewMemoryLinks(), cache)

		expired, err := svc.Shorten(ctx, link.ShortenParams{
			OriginalURL: testURL,
			ExpiresAt:   timePtr(time.Now().Add(-time.Hour)),
		})
		require.NoError(t, err)

		live, err := svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL})
		require.NoError(t, err)

		removed, err := svc.Sweep(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, removed)

		_, err = svc.Resolve(ctx, link.Code(expired.ShortCode))
		assert.ErrorIs(t, err, link.ErrNotFound)

		_, err = svc.Resolve(ctx, link.Code(live.ShortCode))
		assert.NoError(t, err)
	})

	t.Run("nothing expired sweeps zero", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryLinks(), store.NewMemoryCache())

		_, err := svc.Shorten(ctx, link.ShortenParams{OriginalURL: testURL})
		require.NoError(t, err)

		removed, err := svc.Sweep(ctx)

		require.NoError(t, err)
		assert.Zero(t, removed)
	})

	t.Run("expired listing matches what sweep removes", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryLinks(), store.NewMemoryCache())

		_, err := svc.Shorten(ctx, link.ShortenParams{
			OriginalURL: testURL,
			ExpiresAt:   timePtr(time.Now().Add(-time.Minute)),
		})
		require.NoError(t, err)

		expired, err := svc.Expired(ctx)
		require.NoError(t, err)
		assert.Len(t, expired, 1)

		removed, err := svc.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)

		expired, err = svc.Expired(ctx)
		require.NoError(t, err)
		assert.Empty(t, expired)
	})
}
