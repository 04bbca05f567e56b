package hotlist

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvad-hq/hotboard/internal/domain"
	"github.com/samvad-hq/hotboard/internal/storage"
	"github.com/samvad-hq/hotboard/pkg/httpclient"
	"github.com/samvad-hq/hotboard/pkg/sources"
)

var baseNow = time.Date(2025, time.November, 17, 10, 0, 0, 0, time.UTC)

type stubSource struct {
	name  string
	items []domain.HotItem
	err   error
	calls int
}

func (s *stubSource) Name() string     { return s.name }
func (s *stubSource) Platform() string { return sources.PlatformWeibo }
func (s *stubSource) Fetch(context.Context) ([]domain.HotItem, error) {
	s.calls++
	return s.items, s.err
}

type stubResolver struct {
	srcs []sources.Source
	err  error
}

func (r stubResolver) Resolve(string, string) ([]sources.Source, error) { return r.srcs, r.err }

type memCache struct {
	mu      sync.Mutex
	records map[string]storage.Record
	putErr  error
	getErr  error
	puts    int
}

func newMemCache() *memCache { return &memCache{records: map[string]storage.Record{}} }

func (m *memCache) Put(platform string, rec storage.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.records[platform] = rec
	return nil
}

func (m *memCache) Get(platform string) (storage.Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return storage.Record{}, false, m.getErr
	}
	rec, ok := m.records[platform]
	return rec, ok, nil
}

func newTestFetcher(resolver SourceResolver, cache Cache) *Fetcher {
	return NewFetcher(resolver, cache, Options{Now: func() time.Time { return baseNow }})
}

func TestReadCacheHonoursFreshnessWindow(t *testing.T) {
	store, err := storage.NewStore(storage.TypeFile, storage.Options{Dir: t.TempDir()})
	require.NoError(t, err)
	f := newTestFetcher(stubResolver{}, store)

	assert.Empty(t, f.ReadCache("weibo"), "missing cache file yields empty list")

	items := []domain.HotItem{{Title: "one", Rank: 1}, {Title: "two", Rank: 2}}
	require.NoError(t, store.Put("weibo", storage.Record{Timestamp: baseNow.Unix() - 100, Items: items}))
	got := f.ReadCache("weibo")
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].Title)
	assert.Equal(t, "two", got[1].Title)

	assert.Equal(t, got, f.ReadCache("微博"), "reads are idempotent and accept aliases")

	require.NoError(t, store.Put("weibo", storage.Record{Timestamp: baseNow.Unix() - 300, Items: items}))
	assert.Len(t, f.ReadCache("weibo"), 2, "record exactly at the window edge is still fresh")

	require.NoError(t, store.Put("weibo", storage.Record{Timestamp: baseNow.Unix() - 400, Items: items}))
	got = f.ReadCache("weibo")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReadCacheComparesWholeSeconds(t *testing.T) {
	cache := newMemCache()
	now := baseNow.Add(500 * time.Millisecond)
	f := NewFetcher(stubResolver{}, cache, Options{Now: func() time.Time { return now }})

	cache.records["weibo"] = storage.Record{Timestamp: now.Unix() - 300, Items: []domain.HotItem{{Title: "edge"}}}
	got := f.ReadCache("weibo")
	require.Len(t, got, 1, "300 whole seconds old is fresh mid-second too")
	assert.Equal(t, "edge", got[0].Title)

	cache.records["weibo"] = storage.Record{Timestamp: now.Unix() - 301, Items: []domain.HotItem{{Title: "old"}}}
	assert.Empty(t, f.ReadCache("weibo"))
}

func TestReadCacheTreatsReadErrorsAsMiss(t *testing.T) {
	cache := newMemCache()
	cache.getErr = errors.New("corrupt")
	f := newTestFetcher(stubResolver{}, cache)

	assert.Empty(t, f.ReadCache("zhihu"))
	assert.Empty(t, f.ReadCache("unknown"))
}

func TestFetchFallsBackAcrossSources(t *testing.T) {
	failing := &stubSource{name: "first", err: errors.New("dial tcp: connection refused")}
	empty := &stubSource{name: "second"}
	winner := &stubSource{name: "third", items: []domain.HotItem{{Title: "A", URL: "u", Rank: 1}}}
	unused := &stubSource{name: "fourth", items: []domain.HotItem{{Title: "B"}}}
	cache := newMemCache()

	f := newTestFetcher(stubResolver{srcs: []sources.Source{failing, empty, winner, unused}}, cache)
	res, err := f.Fetch(context.Background(), "weibo", "auto")
	require.NoError(t, err)

	assert.Equal(t, "weibo", res.Platform)
	assert.Equal(t, "third", res.Source)
	assert.False(t, res.FromCache)
	assert.Equal(t, baseNow, res.FetchedAt)
	assert.Equal(t, winner.items, res.Items)

	assert.Equal(t, 1, failing.calls, "each source is tried once")
	assert.Equal(t, 1, empty.calls)
	assert.Equal(t, 0, unused.calls, "sources after the winner are not contacted")

	rec, ok, _ := cache.Get("weibo")
	require.True(t, ok)
	assert.Equal(t, baseNow.Unix(), rec.Timestamp)
	assert.Equal(t, winner.items, rec.Items)
}

func TestFetchReturnsFreshCacheWhenAllSourcesFail(t *testing.T) {
	cache := newMemCache()
	cached := []domain.HotItem{{Title: "cached", Rank: 1}}
	cache.records["zhihu"] = storage.Record{Timestamp: baseNow.Unix() - 60, Items: cached}

	f := newTestFetcher(stubResolver{srcs: []sources.Source{
		&stubSource{name: "zhihu", err: errors.New("status 403")},
		&stubSource{name: "vvhan"},
	}}, cache)

	res, err := f.Fetch(context.Background(), "知乎", "")
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, cached, res.Items)
	assert.Equal(t, baseNow.Unix()-60, res.FetchedAt.Unix())
	assert.Equal(t, 0, cache.puts, "fallback never rewrites the cache")
}

func TestFetchReturnsEmptyWhenCacheIsStale(t *testing.T) {
	cache := newMemCache()
	cache.records["bilibili"] = storage.Record{Timestamp: baseNow.Unix() - 400, Items: []domain.HotItem{{Title: "old"}}}

	f := newTestFetcher(stubResolver{srcs: []sources.Source{&stubSource{name: "bilibili", err: errors.New("boom")}}}, cache)
	items, err := f.GetHotList(context.Background(), "b站", "")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestFetchIgnoresCacheWriteFailure(t *testing.T) {
	cache := newMemCache()
	cache.putErr = errors.New("disk full")
	items := []domain.HotItem{{Title: "A"}}

	f := newTestFetcher(stubResolver{srcs: []sources.Source{&stubSource{name: "ok", items: items}}}, cache)
	res, err := f.Fetch(context.Background(), "toutiao", "")
	require.NoError(t, err)
	assert.Equal(t, items, res.Items)
	assert.Equal(t, 1, cache.puts)
}

func TestFetchRejectsUnsupportedPlatform(t *testing.T) {
	f := newTestFetcher(stubResolver{}, newMemCache())

	res, err := f.Fetch(context.Background(), "douyin", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, sources.ErrUnsupportedPlatform)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)

	items, err := f.GetHotList(context.Background(), "douyin", "")
	assert.ErrorIs(t, err, sources.ErrUnsupportedPlatform)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Empty(t, f.ReadCache("douyin"))
}

func TestFetchSurfacesResolverErrors(t *testing.T) {
	f := newTestFetcher(stubResolver{err: errors.New("registry closed")}, newMemCache())

	_, err := f.Fetch(context.Background(), "weibo", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry closed")
}

func TestFetchStopsTryingSourcesOnceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &stubSource{name: "never", items: []domain.HotItem{{Title: "A"}}}

	f := newTestFetcher(stubResolver{srcs: []sources.Source{src}}, newMemCache())
	res, err := f.Fetch(ctx, "weibo", "")
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, 0, src.calls)
}

type routeResponse struct {
	body   []byte
	status int
}

func (r routeResponse) Body() []byte    { return r.body }
func (r routeResponse) StatusCode() int { return r.status }

// routeClient answers by URL prefix and fails anything unrouted.
type routeClient struct {
	routes map[string]string
	errs   map[string]error
}

func (c routeClient) Get(_ context.Context, url string, _ map[string]string) (httpclient.Response, error) {
	for prefix, err := range c.errs {
		if strings.HasPrefix(url, prefix) {
			return nil, err
		}
	}
	for prefix, body := range c.routes {
		if strings.HasPrefix(url, prefix) {
			return routeResponse{body: []byte(body), status: http.StatusOK}, nil
		}
	}
	return nil, errors.New("no route for " + url)
}

func TestFetchWeiboAutoUsesBuiltinFallbackOrder(t *testing.T) {
	client := routeClient{
		errs: map[string]error{
			"https://api.vvhan.com/": errors.New("network unreachable"),
		},
		routes: map[string]string{
			"https://api.oioweb.cn/": `{"code":200,"result":[{"title":"A","url":"u"}]}`,
		},
	}
	reg, err := sources.LoadRegistry("", sources.Options{Client: client, Now: func() time.Time { return baseNow }})
	require.NoError(t, err)

	store, err := storage.NewStore(storage.TypeFile, storage.Options{Dir: t.TempDir()})
	require.NoError(t, err)

	f := newTestFetcher(reg, store)
	res, err := f.Fetch(context.Background(), "weibo", "自动切换")
	require.NoError(t, err)
	assert.Equal(t, "oioweb", res.Source)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "A", res.Items[0].Title)
	assert.Equal(t, "u", res.Items[0].URL)

	rec, ok, err := store.Get("weibo")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, baseNow.Unix(), rec.Timestamp)
	require.Len(t, rec.Items, 1)
	assert.Equal(t, "A", rec.Items[0].Title)
	assert.True(t, rec.Items[0].Time.Equal(baseNow))
}

func TestFetchNamedSourceIsTriedAlone(t *testing.T) {
	client := routeClient{
		errs: map[string]error{"https://api.vvhan.com/": errors.New("timeout")},
		routes: map[string]string{
			"https://api.oioweb.cn/": `{"code":200,"result":[{"title":"A","url":"u"}]}`,
		},
	}
	reg, err := sources.LoadRegistry("", sources.Options{Client: client})
	require.NoError(t, err)

	f := newTestFetcher(reg, newMemCache())
	res, err := f.Fetch(context.Background(), "weibo", "vvhan")
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Empty(t, res.Items)
}
