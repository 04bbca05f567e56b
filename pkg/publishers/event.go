package publishers

import (
	"time"

	"github.com/google/uuid"

	"github.com/samvad-hq/hotboard/internal/domain"
)

// Event is one hot-list snapshot published downstream.
type Event struct {
	ID        string           `json:"id"`
	Platform  string           `json:"platform"`
	Source    string           `json:"source"`
	FromCache bool             `json:"from_cache"`
	Items     []domain.HotItem `json:"items"`
	FetchedAt time.Time        `json:"fetched_at"`
}

// NewEvent wraps a refreshed list in an Event with a fresh id.
// A zero fetchedAt is replaced with the current time.
func NewEvent(platform, source string, fromCache bool, items []domain.HotItem, fetchedAt time.Time) Event {
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}
	if items == nil {
		items = []domain.HotItem{}
	}
	return Event{
		ID:        uuid.NewString(),
		Platform:  platform,
		Source:    source,
		FromCache: fromCache,
		Items:     items,
		FetchedAt: fetchedAt.UTC(),
	}
}
