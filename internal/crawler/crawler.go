// Package crawler implements a bounded-depth, BFS-like fetch loop: a
// fixed-size worker pool walks a single host starting from one URL,
// normalizing and deduplicating links, invoking the Indexer on every
// successfully fetched page, and stopping once the crawl cap is reached.
package crawler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/muhlenberg/searchengine/internal/indexer"
)

// Config controls one crawl run.
type Config struct {
	Workers    int           // worker pool size, default 4
	CrawlCap   int           // max pages indexed, default 5000
	Domain     string        // substring every enqueued link must contain
	Timeout    time.Duration // per-fetch timeout, default 10s
	DrainGrace time.Duration // grace period for in-flight tasks on shutdown, default 10s
}

func (cfg *Config) setDefaults() {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.CrawlCap <= 0 {
		cfg.CrawlCap = 5000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.DrainGrace <= 0 {
		cfg.DrainGrace = 10 * time.Second
	}
}

// Crawler owns the visited set, the crawl counter, and the worker pool
// for a single run. It is built once per crawl and discarded afterward;
// the visited set lives only in memory and is never persisted.
type Crawler struct {
	cfg        Config
	ix         *indexer.Indexer
	log        *slog.Logger
	httpClient *http.Client

	mu      sync.Mutex
	visited map[string]struct{}
	crawled atomic.Int64

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// New builds a Crawler. ix performs the indexing side effect of every
// successfully fetched page.
func New(cfg Config, ix *indexer.Indexer, log *slog.Logger) *Crawler {
	cfg.setDefaults()
	if log == nil {
		log = slog.Default()
	}
	return &Crawler{
		cfg:        cfg,
		ix:         ix,
		log:        log,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		visited:    make(map[string]struct{}),
		shutdownCh: make(chan struct{}),
	}
}

// CrawledCount returns the number of pages successfully processed so far.
func (c *Crawler) CrawledCount() int {
	return int(c.crawled.Load())
}

// reserveSlot mints the next docID via a compare-and-swap loop, admitting
// at most CrawlCap successful reservations regardless of how many workers
// finish a fetch concurrently right at the cap boundary. This is what
// makes the cap a hard ceiling on Document records rather than a racy
// approximation.
func (c *Crawler) reserveSlot() (docID int64, ok bool) {
	for {
		cur := c.crawled.Load()
		if cur >= int64(c.cfg.CrawlCap) {
			return 0, false
		}
		if c.crawled.CompareAndSwap(cur, cur+1) {
			return cur + 1, true
		}
	}
}

// Run starts the crawl at startURL and returns a channel closed once the
// crawl finishes: either the cap was reached and every in-flight task has
// drained (or been cancelled after the grace period), or the frontier was
// exhausted naturally. Run does not block.
func (c *Crawler) Run(parent context.Context, startURL string) <-chan struct{} {
	ctx, cancel := context.WithCancel(parent)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)

	done := make(chan struct{})

	g.Go(func() error { return c.crawlOne(gctx, g, startURL) })

	go func() {
		g.Wait()
		cancel()
		close(done)
	}()

	go c.watchShutdown(done, cancel)

	return done
}

// watchShutdown enforces the termination protocol: once a shutdown is
// requested (cap reached, or an external Shutdown call), in-flight tasks
// get up to DrainGrace to finish naturally before the pool's context is
// cancelled outright.
func (c *Crawler) watchShutdown(done <-chan struct{}, cancel context.CancelFunc) {
	select {
	case <-done:
		return
	case <-c.shutdownCh:
	}
	select {
	case <-done:
	case <-time.After(c.cfg.DrainGrace):
		cancel()
	}
}

func (c *Crawler) requestShutdown() {
	c.shutdownOnce.Do(func() { close(c.shutdownCh) })
}

// Shutdown is the external teardown entry: it requests the same
// cap-reached drain-then-cancel sequence Run's watcher performs, for use
// by a process-exit hook or the lifecycle collaborator.
func (c *Crawler) Shutdown(ctx context.Context) error {
	c.requestShutdown()
	return nil
}

// crawlOne is the per-URL task: Pending -> Fetching -> Parsing ->
// Indexing -> Enqueuing -> Done, collapsing directly to Done on any
// error. It never returns a non-nil error itself (fetch/index failures
// are swallowed here) so one bad page never aborts sibling tasks in the
// errgroup.
func (c *Crawler) crawlOne(ctx context.Context, g *errgroup.Group, rawURL string) error {
	if ctx.Err() != nil {
		return nil
	}

	if int(c.crawled.Load()) >= c.cfg.CrawlCap {
		c.requestShutdown()
		return nil
	}

	key := normalizeURL(rawURL)
	c.mu.Lock()
	if _, seen := c.visited[key]; seen {
		c.mu.Unlock()
		return nil
	}
	c.visited[key] = struct{}{}
	c.mu.Unlock()

	p, err := c.fetch(ctx, rawURL)
	if err != nil {
		c.log.Warn("fetch failed, dropping url", "url", rawURL, "err", err)
		return nil
	}

	n, ok := c.reserveSlot()
	if !ok {
		c.requestShutdown()
		return nil
	}
	docID := strconv.FormatInt(n, 10)
	if err := c.ix.Index(ctx, docID, rawURL, p.title, p.text); err != nil {
		c.log.Error("indexing failed, dropping page", "docID", docID, "url", rawURL, "err", err)
	}

	for _, link := range p.links {
		if !cleanLink(link, c.cfg.Domain) {
			continue
		}
		link := link
		g.Go(func() error { return c.crawlOne(ctx, g, link) })
	}

	return nil
}
