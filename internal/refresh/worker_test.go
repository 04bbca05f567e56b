package refresh

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvad-hq/hotboard/internal/domain"
	"github.com/samvad-hq/hotboard/internal/hotlist"
	"github.com/samvad-hq/hotboard/internal/storage"
	"github.com/samvad-hq/hotboard/pkg/sources"
)

// blockingFetcher waits for release or cancellation before answering.
type blockingFetcher struct {
	started chan string
	release chan struct{}
	result  hotlist.Result
	err     error
}

func newBlockingFetcher() *blockingFetcher {
	return &blockingFetcher{started: make(chan string, 4), release: make(chan struct{})}
}

func (b *blockingFetcher) Fetch(ctx context.Context, platform, _ string) (hotlist.Result, error) {
	b.started <- platform
	select {
	case <-b.release:
		res := b.result
		res.Platform = platform
		return res, b.err
	case <-ctx.Done():
		return hotlist.Result{Platform: platform, FromCache: true}, nil
	}
}

func waitOutcome(t *testing.T, job *Job) (Outcome, bool) {
	t.Helper()
	select {
	case out, ok := <-job.Done():
		return out, ok
	case <-time.After(2 * time.Second):
		t.Fatalf("job for %s did not finish", job.Platform)
		return Outcome{}, false
	}
}

func TestRefresherDeliversOutcomeAndProgress(t *testing.T) {
	fetcher := newBlockingFetcher()
	fetcher.result = hotlist.Result{Source: "zhihu", Items: []domain.HotItem{{Title: "A", Rank: 1}}}
	r := NewRefresher(fetcher, nil)

	job := r.Start(context.Background(), "zhihu", "auto")
	assert.Equal(t, "zhihu", <-fetcher.started)
	assert.Same(t, job, r.Active())
	close(fetcher.release)

	out, ok := waitOutcome(t, job)
	require.True(t, ok)
	require.NoError(t, out.Err)
	assert.Equal(t, "zhihu", out.Platform)
	assert.Len(t, out.Result.Items, 1)

	var lines []string
	for line := range job.Progress() {
		lines = append(lines, line)
	}
	assert.Equal(t, []string{"fetching zhihu hot list", "fetched 1 items from zhihu"}, lines)

	_, open := <-job.Done()
	assert.False(t, open, "done is closed after the single outcome")
	assert.Eventually(t, func() bool { return r.Active() == nil }, time.Second, 10*time.Millisecond)
}

func TestRefresherReportsFetchError(t *testing.T) {
	fetcher := newBlockingFetcher()
	fetcher.err = errors.New("unsupported platform")
	close(fetcher.release)

	job := NewRefresher(fetcher, nil).Start(context.Background(), "douyin", "")
	out, ok := waitOutcome(t, job)
	require.True(t, ok)
	assert.EqualError(t, out.Err, "unsupported platform")
}

func TestStartStopsPreviousJob(t *testing.T) {
	fetcher := newBlockingFetcher()
	r := NewRefresher(fetcher, nil)

	first := r.Start(context.Background(), "weibo", "")
	<-fetcher.started
	second := r.Start(context.Background(), "toutiao", "")
	<-fetcher.started

	assert.True(t, first.Stopped())
	assert.False(t, second.Stopped())
	assert.Same(t, second, r.Active())

	close(fetcher.release)
	_, ok := waitOutcome(t, first)
	assert.False(t, ok, "a stopped job never reports an outcome")

	out, ok := waitOutcome(t, second)
	require.True(t, ok)
	assert.Equal(t, "toutiao", out.Platform)
}

func TestJobStopIsIdempotent(t *testing.T) {
	fetcher := newBlockingFetcher()
	r := NewRefresher(fetcher, nil)

	job := r.Start(context.Background(), "bilibili", "")
	<-fetcher.started
	job.Stop()
	job.Stop()
	r.Stop()

	_, ok := waitOutcome(t, job)
	assert.False(t, ok)
	assert.Nil(t, r.Active())
}

// gatedSource answers once released, or fails when its context is cancelled.
type gatedSource struct {
	started chan struct{}
	release chan struct{}
}

func (g *gatedSource) Name() string     { return "gated" }
func (g *gatedSource) Platform() string { return sources.PlatformWeibo }
func (g *gatedSource) Fetch(ctx context.Context) ([]domain.HotItem, error) {
	close(g.started)
	select {
	case <-g.release:
		return []domain.HotItem{{Title: "A", URL: "u", Rank: 1}}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type singleResolver struct{ src sources.Source }

func (r singleResolver) Resolve(string, string) ([]sources.Source, error) {
	return []sources.Source{r.src}, nil
}

func TestStoppedJobStillWarmsCache(t *testing.T) {
	src := &gatedSource{started: make(chan struct{}), release: make(chan struct{})}
	store, err := storage.NewStore(storage.TypeFile, storage.Options{Dir: t.TempDir()})
	require.NoError(t, err)
	r := NewRefresher(hotlist.NewFetcher(singleResolver{src: src}, store, hotlist.Options{}), nil)

	job := r.Start(context.Background(), "weibo", "")
	<-src.started
	job.Stop()
	close(src.release)

	_, ok := waitOutcome(t, job)
	assert.False(t, ok, "a stopped job never reports an outcome")

	rec, found, err := store.Get("weibo")
	require.NoError(t, err)
	require.True(t, found, "the in-flight fetch completes and is cached")
	require.Len(t, rec.Items, 1)
	assert.Equal(t, "A", rec.Items[0].Title)
}

func TestRefresherStopCancelsInFlightFetch(t *testing.T) {
	src := &gatedSource{started: make(chan struct{}), release: make(chan struct{})}
	store, err := storage.NewStore(storage.TypeFile, storage.Options{Dir: t.TempDir()})
	require.NoError(t, err)
	r := NewRefresher(hotlist.NewFetcher(singleResolver{src: src}, store, hotlist.Options{}), nil)

	job := r.Start(context.Background(), "weibo", "")
	<-src.started
	r.Stop()

	_, ok := waitOutcome(t, job)
	assert.False(t, ok)
	assert.True(t, job.Stopped())

	_, found, err := store.Get("weibo")
	require.NoError(t, err)
	assert.False(t, found, "an aborted fetch leaves the cache untouched")
}
