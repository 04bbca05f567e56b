package hotlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/hotboard/internal/domain"
	"github.com/samvad-hq/hotboard/internal/logger"
	"github.com/samvad-hq/hotboard/internal/storage"
	"github.com/samvad-hq/hotboard/pkg/sources"
)

// DefaultFreshness is how long a cached hot list stays usable.
const DefaultFreshness = 300 * time.Second

// SourceResolver picks the ordered candidate sources for a request.
type SourceResolver interface {
	Resolve(platform, selector string) ([]sources.Source, error)
}

// Cache is the subset of storage.Store the fetcher needs.
type Cache interface {
	Put(platform string, rec storage.Record) error
	Get(platform string) (storage.Record, bool, error)
}

// Result is the outcome of one hot-list request.
type Result struct {
	Platform  string           `json:"platform"`
	Source    string           `json:"source,omitempty"`
	FromCache bool             `json:"from_cache"`
	FetchedAt time.Time        `json:"fetched_at"`
	Items     []domain.HotItem `json:"items"`
}

// Options tunes a Fetcher. Zero values select defaults.
type Options struct {
	Freshness time.Duration
	Now       func() time.Time
	Log       logger.Logger
}

// Fetcher retrieves hot lists with source fallback and a per-platform cache.
type Fetcher struct {
	resolver  SourceResolver
	cache     Cache
	freshness time.Duration
	now       func() time.Time
	log       logger.Logger
}

// NewFetcher wires a fetcher over the given resolver and cache.
func NewFetcher(resolver SourceResolver, cache Cache, opts Options) *Fetcher {
	if opts.Freshness <= 0 {
		opts.Freshness = DefaultFreshness
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Fetcher{
		resolver:  resolver,
		cache:     cache,
		freshness: opts.Freshness,
		now:       opts.Now,
		log:       logger.Ensure(opts.Log),
	}
}

// GetHotList returns the items of Fetch, or an empty list when nothing usable
// was found.
func (f *Fetcher) GetHotList(ctx context.Context, platform, selector string) ([]domain.HotItem, error) {
	res, err := f.Fetch(ctx, platform, selector)
	return res.Items, err
}

// Fetch tries each candidate source once, in order, and returns the first
// non-empty list after caching it. When every source fails it falls back to
// the cached list if that is still fresh. Only an unknown platform or a
// resolver failure is returned as an error.
func (f *Fetcher) Fetch(ctx context.Context, platform, selector string) (Result, error) {
	canonical, ok := sources.NormalizePlatform(platform)
	if !ok {
		f.log.ErrorObj("unsupported platform requested", "hotlist_error", map[string]any{
			"platform": platform,
		})
		return Result{Platform: platform, Items: []domain.HotItem{}}, fmt.Errorf("%w: %q", sources.ErrUnsupportedPlatform, platform)
	}
	if f.resolver == nil {
		return Result{Platform: canonical, Items: []domain.HotItem{}}, errors.New("hotlist fetcher has no source resolver")
	}

	candidates, err := f.resolver.Resolve(canonical, selector)
	if err != nil {
		return Result{Platform: canonical, Items: []domain.HotItem{}}, fmt.Errorf("resolve sources for %s: %w", canonical, err)
	}

	for _, src := range candidates {
		if ctx.Err() != nil {
			break
		}

		items, err := src.Fetch(ctx)
		if err != nil {
			f.log.WarnObj("hot list source failed", "source_error", map[string]any{
				"platform": canonical,
				"source":   src.Name(),
				"error":    err.Error(),
			})
			continue
		}
		if len(items) == 0 {
			continue
		}

		fetchedAt := f.now()
		f.store(canonical, fetchedAt, items)
		f.log.InfoObj("hot list fetched", "hotlist_result", map[string]any{
			"platform": canonical,
			"source":   src.Name(),
			"items":    len(items),
		})
		return Result{
			Platform:  canonical,
			Source:    src.Name(),
			FetchedAt: fetchedAt,
			Items:     items,
		}, nil
	}

	rec, fresh := f.readFresh(canonical)
	res := Result{Platform: canonical, FromCache: true, Items: rec.Items}
	if fresh {
		res.FetchedAt = time.Unix(rec.Timestamp, 0)
	}
	f.log.WarnObj("all hot list sources failed; using cache", "hotlist_fallback", map[string]any{
		"platform":     canonical,
		"candidates":   len(candidates),
		"cached_items": len(res.Items),
	})
	return res, nil
}

// ReadCache returns the platform's cached items if the record is within the
// freshness window, otherwise an empty list.
func (f *Fetcher) ReadCache(platform string) []domain.HotItem {
	canonical, ok := sources.NormalizePlatform(platform)
	if !ok {
		return []domain.HotItem{}
	}
	rec, _ := f.readFresh(canonical)
	return rec.Items
}

func (f *Fetcher) readFresh(platform string) (storage.Record, bool) {
	empty := storage.Record{Items: []domain.HotItem{}}
	if f.cache == nil {
		return empty, false
	}

	rec, ok, err := f.cache.Get(platform)
	if err != nil {
		f.log.ErrorObj("read hot list cache failed", "cache_error", map[string]any{
			"platform": platform,
			"error":    err.Error(),
		})
		return empty, false
	}
	if !ok {
		return empty, false
	}
	if rec.Age(f.now()) > f.freshness {
		f.log.DebugObj("hot list cache stale", "cache_meta", map[string]any{
			"platform":  platform,
			"timestamp": rec.Timestamp,
		})
		return empty, false
	}
	if rec.Items == nil {
		rec.Items = []domain.HotItem{}
	}
	return rec, true
}

func (f *Fetcher) store(platform string, at time.Time, items []domain.HotItem) {
	if f.cache == nil {
		return
	}
	rec := storage.Record{Timestamp: at.Unix(), Items: items}
	if err := f.cache.Put(platform, rec); err != nil {
		f.log.ErrorObj("write hot list cache failed", "cache_error", map[string]any{
			"platform": platform,
			"error":    err.Error(),
		})
	}
}
