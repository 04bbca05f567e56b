package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// fileStore keeps one JSON document per platform under dir. Digests live in
// memory only, so a restart republishes the first snapshot of each platform.
type fileStore struct {
	dir       string
	digestTTL time.Duration

	mu      sync.Mutex
	digests map[string]time.Time
	now     func() time.Time
}

func openFile(dir string, opts Options) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &fileStore{
		dir:       dir,
		digestTTL: opts.DigestTTL,
		digests:   make(map[string]time.Time),
		now:       time.Now,
	}, nil
}

func (f *fileStore) Close() error { return nil }

func (f *fileStore) path(platform string) string {
	return filepath.Join(f.dir, platform+".json")
}

// Put overwrites the platform's cache file. The write goes through a temp file
// and a rename so readers never observe a half-written record.
func (f *fileStore) Put(platform string, rec Record) error {
	if err := validPlatformKey(platform); err != nil {
		return err
	}

	payload, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache record: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, platform+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmpName, f.path(platform)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}

// Get reads the platform's cache file. A missing file is reported as absent.
func (f *fileStore) Get(platform string) (Record, bool, error) {
	if err := validPlatformKey(platform); err != nil {
		return Record{}, false, err
	}

	raw, err := os.ReadFile(f.path(platform))
	if errors.Is(err, fs.ErrNotExist) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("read cache file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, false, fmt.Errorf("decode cache file: %w", err)
	}
	return rec, true, nil
}

func (f *fileStore) SeenDigest(key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	for k, expiry := range f.digests {
		if !expiry.After(now) {
			delete(f.digests, k)
		}
	}
	_, ok := f.digests[key]
	return ok, nil
}

func (f *fileStore) MarkDigest(key string) error {
	f.mu.Lock()
	f.digests[key] = f.now().Add(f.digestTTL)
	f.mu.Unlock()
	return nil
}
