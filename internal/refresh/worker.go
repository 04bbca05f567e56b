package refresh

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/samvad-hq/hotboard/internal/hotlist"
	"github.com/samvad-hq/hotboard/internal/logger"
)

const progressBuffer = 8

// Outcome is the single completion message of a job.
type Outcome struct {
	Platform string
	Result   hotlist.Result
	Err      error
}

// Job is one background hot-list fetch.
type Job struct {
	Platform string
	Selector string

	cancel   context.CancelFunc
	stopped  atomic.Bool
	done     chan Outcome
	progress chan string
}

func newJob(platform, selector string, cancel context.CancelFunc) *Job {
	return &Job{
		Platform: platform,
		Selector: selector,
		cancel:   cancel,
		done:     make(chan Outcome, 1),
		progress: make(chan string, progressBuffer),
	}
}

// Stop marks the job so it finishes without reporting. The fetch already in
// flight still completes and updates the cache. It is safe to call more than
// once and from any goroutine.
func (j *Job) Stop() {
	if j == nil {
		return
	}
	j.stopped.Store(true)
}

// abort stops the job and cancels its in-flight fetch.
func (j *Job) abort() {
	if j == nil {
		return
	}
	j.stopped.Store(true)
	j.cancel()
}

// Stopped reports whether Stop was called.
func (j *Job) Stopped() bool { return j != nil && j.stopped.Load() }

// Done yields at most one Outcome and is then closed. A stopped job closes it
// without sending.
func (j *Job) Done() <-chan Outcome { return j.done }

// Progress yields human-readable status lines. Lines are dropped when nobody
// is reading.
func (j *Job) Progress() <-chan string { return j.progress }

func (j *Job) report(msg string) {
	select {
	case j.progress <- msg:
	default:
	}
}

// Refresher runs at most one active fetch job at a time.
type Refresher struct {
	fetcher HotListFetcher
	log     logger.Logger

	mu     sync.Mutex
	active *Job
}

// NewRefresher builds a Refresher over fetcher.
func NewRefresher(fetcher HotListFetcher, log logger.Logger) *Refresher {
	return &Refresher{fetcher: fetcher, log: logger.Ensure(log)}
}

// Start launches a fetch for platform. Any job still running is stopped first.
func (r *Refresher) Start(ctx context.Context, platform, selector string) *Job {
	if ctx == nil {
		ctx = context.Background()
	}
	jobCtx, cancel := context.WithCancel(ctx)
	job := newJob(platform, selector, cancel)

	r.mu.Lock()
	prev := r.active
	r.active = job
	r.mu.Unlock()

	if prev != nil {
		prev.Stop()
	}

	go r.run(jobCtx, job)
	return job
}

// Active returns the running job, if any.
func (r *Refresher) Active() *Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Stop aborts the active job, if any, cancelling its fetch. Used on shutdown.
func (r *Refresher) Stop() {
	r.mu.Lock()
	job := r.active
	r.active = nil
	r.mu.Unlock()
	job.abort()
}

func (r *Refresher) run(ctx context.Context, job *Job) {
	defer func() {
		job.cancel()
		close(job.progress)
		close(job.done)
		r.release(job)
	}()

	job.report(fmt.Sprintf("fetching %s hot list", job.Platform))
	res, err := r.fetcher.Fetch(ctx, job.Platform, job.Selector)
	if job.Stopped() {
		r.log.DebugObj("refresh job stopped", "refresh_job", map[string]any{
			"platform": job.Platform,
		})
		return
	}

	switch {
	case err != nil:
		job.report(fmt.Sprintf("fetch failed: %v", err))
	case res.FromCache:
		job.report(fmt.Sprintf("all sources failed, %d cached items", len(res.Items)))
	default:
		job.report(fmt.Sprintf("fetched %d items from %s", len(res.Items), res.Source))
	}
	job.done <- Outcome{Platform: job.Platform, Result: res, Err: err}
}

func (r *Refresher) release(job *Job) {
	r.mu.Lock()
	if r.active == job {
		r.active = nil
	}
	r.mu.Unlock()
}
