// Package storage provides the local hot-list cache and the digest store used
// to skip republishing unchanged snapshots.
package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/hotboard/internal/domain"
)

// Record is one platform's cached hot list. It is always written in full.
type Record struct {
	Timestamp int64            `json:"timestamp"`
	Items     []domain.HotItem `json:"data"`
}

// Age reports how old the record is relative to now, in whole seconds to
// match the stored timestamp.
func (r Record) Age(now time.Time) time.Duration {
	return time.Duration(now.Unix()-r.Timestamp) * time.Second
}

// Store persists cache records per platform and tracks published digests.
type Store interface {
	Close() error
	Put(platform string, rec Record) error
	Get(platform string) (Record, bool, error)
	SeenDigest(key string) (bool, error)
	MarkDigest(key string) error
}

// Options controls where and how long concrete store implementations keep data.
type Options struct {
	Dir             string
	Path            string
	DigestTTL       time.Duration
	CleanupInterval time.Duration
}

const (
	TypeFile  = "file"
	TypeBBolt = "bbolt"
	TypeNone  = "none"

	defaultDigestTTL       = time.Hour
	defaultCleanupInterval = 10 * time.Minute
)

// NewStore creates the configured storage backend.
func NewStore(typ string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", TypeNone, "disabled":
		return noopStore{}, nil
	case TypeFile:
		if strings.TrimSpace(opts.Dir) == "" {
			return nil, fmt.Errorf("file storage requires a directory")
		}
		return openFile(opts.Dir, opts)
	case TypeBBolt:
		if strings.TrimSpace(opts.Path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(opts.Path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.DigestTTL <= 0 {
		opts.DigestTTL = defaultDigestTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

func validPlatformKey(platform string) error {
	if strings.TrimSpace(platform) == "" {
		return fmt.Errorf("platform key is empty")
	}
	if strings.ContainsAny(platform, `/\`) || strings.Contains(platform, "..") {
		return fmt.Errorf("invalid platform key %q", platform)
	}
	return nil
}

type noopStore struct{}

func (noopStore) Close() error                     { return nil }
func (noopStore) Put(string, Record) error         { return nil }
func (noopStore) Get(string) (Record, bool, error) { return Record{}, false, nil }
func (noopStore) SeenDigest(string) (bool, error)  { return false, nil }
func (noopStore) MarkDigest(string) error          { return nil }
