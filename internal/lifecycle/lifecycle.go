// Package lifecycle runs an already-built Crawler, exposes
// the typed events an out-of-scope UI collaborator would subscribe to,
// and performs teardown on normal exit or unexpected termination.
//
// The core never imports a UI package: it only publishes events on
// these channels.
package lifecycle

import (
	"context"
	"log/slog"

	"github.com/muhlenberg/searchengine/internal/apperror"
	"github.com/muhlenberg/searchengine/internal/crawler"
	"github.com/muhlenberg/searchengine/internal/store"
)

// StatusError carries one fatal or non-fatal error to the UI collaborator,
// keyed by the status code the error dialog expects.
type StatusError struct {
	Code    int
	Message string
	Fatal   bool
}

// Events is the typed surface the core publishes on. A UI collaborator
// subscribes to these channels instead of the core calling back into it.
type Events struct {
	// Waiting carries true when the crawl starts and false once it
	// finishes (crawlFinished).
	Waiting chan bool
	// Errors carries every reported error, fatal or not.
	Errors chan StatusError
	// CrawlDone is closed exactly once, when the crawl finishes.
	CrawlDone chan struct{}
}

// New allocates an Events with reasonably buffered channels so a slow or
// absent subscriber never blocks the crawl.
func New() *Events {
	return &Events{
		Waiting:   make(chan bool, 4),
		Errors:    make(chan StatusError, 16),
		CrawlDone: make(chan struct{}),
	}
}

// ReportError publishes err as a StatusError derived via apperror.StatusCode/Fatal.
func (e *Events) ReportError(err error) {
	e.Errors <- StatusError{
		Code:    apperror.StatusCode(err),
		Message: err.Error(),
		Fatal:   apperror.Fatal(err),
	}
}

// RunCrawl raises Waiting(true), starts c, and lowers Waiting(false) plus
// closes CrawlDone once the crawl finishes.
func (e *Events) RunCrawl(ctx context.Context, c *crawler.Crawler, startURL string, log *slog.Logger) {
	e.Waiting <- true
	done := c.Run(ctx, startURL)
	go func() {
		<-done
		e.Waiting <- false
		close(e.CrawlDone)
		if log != nil {
			log.Info("crawl finished", "pagesCrawled", c.CrawledCount())
		}
	}()
}

// Teardown closes the store and requests crawler shutdown. It is invoked
// on normal exit and on any fatal error.
func (e *Events) Teardown(ctx context.Context, s store.Store, c *crawler.Crawler) error {
	if c != nil {
		if err := c.Shutdown(ctx); err != nil {
			return err
		}
	}
	if s != nil {
		return s.Close()
	}
	return nil
}
