package link

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements link creation, resolution, mutation, and expiry
// sweeping over a repository and a best-effort cache.
type Service struct {
	repo   Repository
	cache  Cache
	gen    *Generator
	logger *zap.Logger
}

// NewService creates a link service.
func NewService(repo Repository, cache Cache, gen *Generator, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		gen:    gen,
		logger: logger,
	}
}

// ShortenParams are the inputs for creating a link.
type ShortenParams struct {
	OriginalURL string
	CustomAlias *string
	ExpiresAt   *time.Time
	Owner       *uuid.UUID
}

// Shorten creates a link, either under a validated custom alias or under a
// freshly generated code. Links without an explicit expiry default to
// DefaultTTL from creation. The new link is not cached; the cache is
// populated lazily on first resolution.
func (s *Service) Shorten(ctx context.Context, p ShortenParams) (*Link, error) {
	now := time.Now()

	expiresAt := p.ExpiresAt
	if expiresAt == nil {
		t := now.Add(DefaultTTL)
		expiresAt = &t
	}

	l := &Link{
		OriginalURL: p.OriginalURL,
		CustomAlias: p.CustomAlias,
		OwnerID:     p.Owner,
		CreatedAt:   now,
		ExpiresAt:   expiresAt,
	}

	if p.CustomAlias != nil {
		return s.insertWithAlias(ctx, l, *p.CustomAlias)
	}

	return s.insertWithGeneratedCode(ctx, l)
}

func (s *Service) insertWithAlias(ctx context.Context, l *Link, alias string) (*Link, error) {
	_, err := s.repo.FindByKey(ctx, Code(alias))
	if err == nil {
		return nil, ErrAliasTaken
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check alias availability: %w", err)
	}

	l.ShortCode = alias

	if err := s.repo.Insert(ctx, l); err != nil {
		// Lost a race with a concurrent create claiming the same key.
		if errors.Is(err, ErrDuplicateKey) {
			return nil, ErrAliasTaken
		}

		return nil, fmt.Errorf("insert link: %w", err)
	}

	return l, nil
}

func (s *Service) insertWithGeneratedCode(ctx context.Context, l *Link) (*Link, error) {
	for attempt := 0; attempt < s.gen.MaxAttempts(); attempt++ {
		candidate := s.gen.Candidate(attempt)

		_, err := s.repo.FindByKey(ctx, Code(candidate))
		if err == nil {
			continue // candidate taken, try another
		}

		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("check candidate availability: %w", err)
		}

		l.ShortCode = candidate

		err = s.repo.Insert(ctx, l)
		if err == nil {
			return l, nil
		}

		if errors.Is(err, ErrDuplicateKey) {
			s.logger.Debug("generated code collided on insert, retrying",
				zap.String("code", candidate),
				zap.Int("attempt", attempt),
			)

			continue
		}

		return nil, fmt.Errorf("insert link: %w", err)
	}

	return nil, ErrCodeSpaceExhausted
}

// Resolve returns the destination URL for a key. Reads go cache-first, but
// the repository stays authoritative for existence, expiry, and access
// stats: even on a cache hit the backing record is fetched and its counters
// updated. Cache failures degrade to store-only resolution.
func (s *Service) Resolve(ctx context.Context, key Code) (string, error) {
	now := time.Now()

	cached, err := s.cache.Get(ctx, key)
	if err == nil {
		return s.resolveHit(ctx, key, cached, now)
	}

	if !errors.Is(err, ErrNotFound) {
		s.logger.Warn("cache read failed, falling back to store",
			zap.String("code", string(key)),
			zap.Error(err),
		)
	}

	return s.resolveMiss(ctx, key, now)
}

func (s *Service) resolveHit(ctx context.Context, key Code, cached string, now time.Time) (string, error) {
	l, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// The cache entry no longer backs a live link.
			s.invalidate(ctx, key)

			return "", ErrNotFound
		}

		return "", fmt.Errorf("find link: %w", err)
	}

	if l.Expired(now) {
		s.invalidate(ctx, key)

		return "", ErrExpired
	}

	if err := s.touch(ctx, l, now); err != nil {
		return "", err
	}

	return cached, nil
}

func (s *Service) resolveMiss(ctx context.Context, key Code, now time.Time) (string, error) {
	l, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}

		return "", fmt.Errorf("find link: %w", err)
	}

	// Never cache an expired link.
	if l.Expired(now) {
		return "", ErrExpired
	}

	var ttl time.Duration
	if l.ExpiresAt != nil {
		ttl = l.ExpiresAt.Sub(now)
	}

	if err := s.cache.Set(ctx, key, l.OriginalURL, ttl); err != nil {
		s.logger.Warn("cache populate failed",
			zap.String("code", string(key)),
			zap.Error(err),
		)
	}

	// Stats commit even when the cache write failed.
	if err := s.touch(ctx, l, now); err != nil {
		return "", err
	}

	return l.OriginalURL, nil
}

// touch records a successful resolution. Lost increments under concurrent
// resolutions of the same code are tolerated.
func (s *Service) touch(ctx context.Context, l *Link, now time.Time) error {
	l.AccessCount++
	l.LastAccessed = &now

	if err := s.repo.Update(ctx, l); err != nil {
		return fmt.Errorf("update access stats: %w", err)
	}

	return nil
}

// Stats returns the link record, including counters, for a key. Expired
// links still report stats; only resolution refuses them.
func (s *Service) Stats(ctx context.Context, key Code) (*Link, error) {
	l, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("find link: %w", err)
	}

	return l, nil
}

// UpdateURL changes a link's destination. Only the owning principal may
// update; anonymous links are not updatable. The cache entries for every
// key of the link are invalidated synchronously before returning.
func (s *Service) UpdateURL(ctx context.Context, key Code, newURL string, principal uuid.UUID) (*Link, error) {
	l, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("find link: %w", err)
	}

	if !l.OwnedBy(principal) {
		return nil, ErrForbidden
	}

	l.OriginalURL = newURL

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("update link: %w", err)
	}

	for _, k := range l.Keys() {
		s.invalidate(ctx, k)
	}

	return l, nil
}

// Delete removes a link. Only the owning principal may delete. The store
// delete happens first; cache invalidation follows so a failed store delete
// never leaves the cache ahead of the store.
func (s *Service) Delete(ctx context.Context, key Code, principal uuid.UUID) error {
	l, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("find link: %w", err)
	}

	if !l.OwnedBy(principal) {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, l); err != nil {
		return fmt.Errorf("delete link: %w", err)
	}

	for _, k := range l.Keys() {
		s.invalidate(ctx, k)
	}

	return nil
}

// SearchByURL returns all links whose destination matches the URL exactly.
// No matches is an empty result, not an error.
func (s *Service) SearchByURL(ctx context.Context, originalURL string) ([]*Link, error) {
	links, err := s.repo.FindByOriginalURL(ctx, originalURL)
	if err != nil {
		return nil, fmt.Errorf("search links: %w", err)
	}

	return links, nil
}

// Expired lists all links past their expiry.
func (s *Service) Expired(ctx context.Context) ([]*Link, error) {
	links, err := s.repo.FindExpired(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("find expired links: %w", err)
	}

	return links, nil
}

// Sweep removes expired links from cache and store, returning how many were
// deleted. Cache deletes are best-effort; a link whose store delete fails is
// skipped and reported on the next sweep.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	expired, err := s.repo.FindExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("find expired links: %w", err)
	}

	count := 0

	for _, l := range expired {
		for _, k := range l.Keys() {
			if err := s.cache.Delete(ctx, k); err != nil {
				s.logger.Warn("sweep cache delete failed",
					zap.String("code", string(k)),
					zap.Error(err),
				)
			}
		}

		if err := s.repo.Delete(ctx, l); err != nil {
			s.logger.Error("sweep store delete failed",
				zap.String("code", l.ShortCode),
				zap.Error(err),
			)

			continue
		}

		count++
	}

	if count > 0 {
		s.logger.Info("swept expired links", zap.Int("count", count))
	}

	return count, nil
}

// invalidate removes a cache entry, retrying once on failure. A persistent
// failure is logged loudly: the stale entry lives on until its TTL.
func (s *Service) invalidate(ctx context.Context, key Code) {
	err := s.cache.Delete(ctx, key)
	if err == nil {
		return
	}

	s.logger.Warn("cache invalidation failed, retrying",
		zap.String("code", string(key)),
		zap.Error(err),
	)

	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Error("cache invalidation failed after retry, entry stale until TTL",
			zap.String("code", string(key)),
			zap.Error(err),
		)
	}
}
