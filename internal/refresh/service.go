package refresh

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/samvad-hq/hotboard/internal/domain"
	"github.com/samvad-hq/hotboard/internal/logger"
	"github.com/samvad-hq/hotboard/pkg/publishers"
)

// Service runs refresh passes across platforms and publishes new snapshots.
type Service struct {
	fetcher   HotListFetcher
	publisher EventPublisher
	deduper   Deduper
	selector  string
	log       logger.Logger
}

// NewService wires a refresh service. publisher and deduper may be nil.
func NewService(fetcher HotListFetcher, publisher EventPublisher, deduper Deduper, selector string, log logger.Logger) *Service {
	return &Service{
		fetcher:   fetcher,
		publisher: publisher,
		deduper:   deduper,
		selector:  selector,
		log:       logger.Ensure(log),
	}
}

// Run refreshes every platform once. Per-platform failures are joined and do
// not stop the pass; a cancelled context ends it early without error.
func (s *Service) Run(ctx context.Context, platforms []string) error {
	if s == nil || s.fetcher == nil {
		return fmt.Errorf("refresh service is not initialized")
	}
	if len(platforms) == 0 {
		return fmt.Errorf("no platforms configured for refresh")
	}

	errs := s.runAll(ctx, platforms)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (s *Service) runAll(ctx context.Context, platforms []string) []error {
	errs := make([]error, 0, len(platforms))

	for _, platform := range platforms {
		if ctx.Err() != nil {
			break
		}
		if err := s.runPlatform(ctx, platform); err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("platform refresh failed", "refresh_error", map[string]any{
				"platform": platform,
				"error":    err.Error(),
			})
		}
	}

	return errs
}

func (s *Service) runPlatform(ctx context.Context, platform string) error {
	res, err := s.fetcher.Fetch(ctx, platform, s.selector)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", platform, err)
	}
	if len(res.Items) == 0 {
		s.log.WarnObj("platform refresh produced no items", "refresh_result", map[string]any{
			"platform": res.Platform,
		})
		return nil
	}

	key := Digest(res.Platform, res.Items)
	if s.alreadyPublished(res.Platform, key) {
		s.log.DebugObj("snapshot unchanged; skipping publish", "refresh_result", map[string]any{
			"platform": res.Platform,
			"digest":   key,
		})
		return nil
	}

	published := 0
	var pubErr error
	if s.publisher != nil {
		evt := publishers.NewEvent(res.Platform, res.Source, res.FromCache, res.Items, res.FetchedAt)
		published, pubErr = s.publisher.Publish(ctx, evt)
		if pubErr != nil && published == 0 {
			return fmt.Errorf("publish %s snapshot: %w", res.Platform, pubErr)
		}
	}

	if s.deduper != nil {
		if err := s.deduper.MarkDigest(key); err != nil {
			pubErr = errors.Join(pubErr, fmt.Errorf("mark %s digest: %w", res.Platform, err))
		}
	}

	s.log.InfoObj("platform refresh completed", "refresh_result", map[string]any{
		"platform":   res.Platform,
		"source":     res.Source,
		"from_cache": res.FromCache,
		"items":      len(res.Items),
		"published":  published,
	})
	if pubErr != nil {
		return fmt.Errorf("publish %s snapshot: %w", res.Platform, pubErr)
	}
	return nil
}

// alreadyPublished treats lookup errors as unseen so a snapshot is never lost.
func (s *Service) alreadyPublished(platform, key string) bool {
	if s.deduper == nil {
		return false
	}
	seen, err := s.deduper.SeenDigest(key)
	if err != nil {
		s.log.WarnObj("digest lookup failed", "dedupe_error", map[string]any{
			"platform": platform,
			"error":    err.Error(),
		})
		return false
	}
	return seen
}

// Digest identifies a snapshot by platform and the ordered titles and URLs of
// its items. Hot values and timestamps are ignored.
func Digest(platform string, items []domain.HotItem) string {
	h := sha256.New()
	h.Write([]byte(platform))
	for _, it := range items {
		h.Write([]byte{0})
		h.Write([]byte(it.Title))
		h.Write([]byte{0x1f})
		h.Write([]byte(it.URL))
	}
	return platform + ":" + hex.EncodeToString(h.Sum(nil)[:16])
}
