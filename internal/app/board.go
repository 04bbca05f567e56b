package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/hotboard/internal/config"
	"github.com/samvad-hq/hotboard/internal/hotlist"
	"github.com/samvad-hq/hotboard/internal/logger"
	"github.com/samvad-hq/hotboard/internal/preview"
	"github.com/samvad-hq/hotboard/internal/refresh"
	"github.com/samvad-hq/hotboard/internal/storage"
	"github.com/samvad-hq/hotboard/pkg/httpclient"
	"github.com/samvad-hq/hotboard/pkg/publishers"
	"github.com/samvad-hq/hotboard/pkg/sources"
)

// Board is the hot-board runtime. It owns the source registry, the cache
// store and the fetch pipeline, and optionally the publishers used by the
// refresh loop.
type Board struct {
	cfg       *config.Config
	sources   *sources.Registry
	store     storage.Store
	fetcher   *hotlist.Fetcher
	refresher *refresh.Refresher
	previewer *preview.Previewer
	fanout    *publishers.Fanout
	service   *refresh.Service
	log       logger.Logger
}

// NewBoard builds the fetch pipeline from cfg. Publishers are attached
// separately by AttachPublishers so one-shot commands never dial sinks.
func NewBoard(cfg *config.Config, log logger.Logger) (*Board, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)

	client := httpclient.NewRestyClient(cfg.HTTPTimeout)
	reg, err := sources.LoadRegistry(cfg.SourcesFile, sources.Options{Client: client})
	if err != nil {
		return nil, fmt.Errorf("load sources registry: %w", err)
	}
	sourceCounts := make(map[string]int, len(sources.KnownPlatforms()))
	for _, p := range sources.KnownPlatforms() {
		srcs, _ := reg.Resolve(p, sources.SelectorAuto)
		sourceCounts[p] = len(srcs)
	}
	log.InfoObj("sources registry loaded", "sources_meta", map[string]any{
		"file":    cfg.SourcesFile,
		"enabled": sourceCounts,
	})

	store, err := storage.NewStore(cfg.CacheType, storage.Options{
		Dir:             cfg.CacheDir,
		Path:            cfg.BBoltPath,
		DigestTTL:       cfg.DedupeTTL,
		CleanupInterval: cfg.DedupeCleanup,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.CacheType,
		"dir":                      cfg.CacheDir,
		"path":                     cfg.BBoltPath,
		"freshness_seconds":        int(cfg.CacheFreshness.Seconds()),
		"dedupe_ttl_seconds":       int(cfg.DedupeTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.DedupeCleanup.Seconds()),
	})

	fetcher := hotlist.NewFetcher(reg, store, hotlist.Options{Freshness: cfg.CacheFreshness, Log: log})

	return &Board{
		cfg:       cfg,
		sources:   reg,
		store:     store,
		fetcher:   fetcher,
		refresher: refresh.NewRefresher(fetcher, log),
		previewer: preview.New(client, log),
		log:       log,
	}, nil
}

// AttachPublishers loads the publishers file and builds the refresh service.
// With no publishers configured, refresh passes only warm the cache.
func (b *Board) AttachPublishers(ctx context.Context) error {
	if b == nil {
		return fmt.Errorf("board is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	publisherReg, err := publishers.LoadRegistry(b.cfg.PublishersFile)
	if err != nil {
		return fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, b.log)
	if err != nil {
		return fmt.Errorf("build publishers: %w", err)
	}
	b.fanout = publishers.NewFanout(pubClients)

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{"id": pubCfg.ID, "type": pubCfg.Type})
	}
	if len(summaries) == 0 {
		b.log.WarnObj("no publishers configured; refresh only warms the cache", "publishers_file", b.cfg.PublishersFile)
	} else {
		b.log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
			"count":      len(summaries),
			"publishers": summaries,
		})
	}

	b.service = refresh.NewService(b.fetcher, b.fanout, b.store, b.cfg.DefaultSource, b.log)
	return nil
}

// Fetcher exposes the hot-list fetcher.
func (b *Board) Fetcher() *hotlist.Fetcher { return b.fetcher }

// Refresher exposes the single-job background refresher.
func (b *Board) Refresher() *refresh.Refresher { return b.refresher }

// Previewer exposes the page previewer.
func (b *Board) Previewer() *preview.Previewer { return b.previewer }

// Sources exposes the loaded source registry.
func (b *Board) Sources() *sources.Registry { return b.sources }

// Run refreshes every configured platform immediately and then once per
// refresh interval until ctx is cancelled. Storage and publishers are closed
// on return.
func (b *Board) Run(ctx context.Context) error {
	if b == nil || b.fetcher == nil {
		return fmt.Errorf("board is not initialized")
	}
	defer b.Close()

	if b.service == nil {
		if err := b.AttachPublishers(ctx); err != nil {
			return err
		}
	}

	platforms := b.cfg.Platforms
	if len(platforms) == 0 {
		b.log.WarnObj("no platforms configured; board idle", "platforms", b.cfg.PlatformsRaw)
		<-ctx.Done()
		return nil
	}

	b.log.InfoObj("refresh loop starting", "board_state", map[string]any{
		"platforms":        platforms,
		"publishers_count": b.fanout.Size(),
		"refresh_interval": b.cfg.RefreshInterval.String(),
	})

	if err := b.RunOnce(ctx); err != nil {
		b.log.ErrorObj("initial refresh failed", "error", err.Error())
	}

	ticker := time.NewTicker(b.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.log.InfoObj("refresh loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := b.RunOnce(ctx); err != nil {
				b.log.ErrorObj("scheduled refresh failed", "error", err.Error())
			}
		}
	}
}

// RunOnce performs a single refresh pass across the configured platforms.
func (b *Board) RunOnce(ctx context.Context) error {
	if b.service == nil {
		return fmt.Errorf("publishers not attached")
	}
	start := time.Now()
	b.log.InfoObj("refresh started", "refresh_meta", map[string]any{
		"platforms":  b.cfg.Platforms,
		"started_at": start.UTC(),
	})
	if err := b.service.Run(ctx, b.cfg.Platforms); err != nil {
		return err
	}
	b.log.InfoObj("refresh completed", "refresh_meta", map[string]any{
		"platforms":  b.cfg.Platforms,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

// Close stops the active job and releases publishers and storage.
func (b *Board) Close() error {
	if b == nil {
		return nil
	}
	if b.refresher != nil {
		b.refresher.Stop()
	}

	var errs []error
	if err := b.fanout.Close(); err != nil {
		errs = append(errs, err)
	}
	b.fanout = nil
	if b.store != nil {
		if err := b.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
		b.store = nil
	}
	if err := errors.Join(errs...); err != nil {
		b.log.ErrorObj("board close failed", "error", err.Error())
		return err
	}
	return nil
}
