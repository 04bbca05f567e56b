package refresh

import (
	"context"

	"github.com/samvad-hq/hotboard/internal/hotlist"
	"github.com/samvad-hq/hotboard/pkg/publishers"
)

// HotListFetcher retrieves a platform's hot list with fallback.
type HotListFetcher interface {
	Fetch(ctx context.Context, platform, selector string) (hotlist.Result, error)
}

// EventPublisher publishes refreshed snapshots downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers which snapshots were already published.
type Deduper interface {
	SeenDigest(key string) (bool, error)
	MarkDigest(key string) error
}
