package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/muhlenberg/searchengine/internal/indexer"
	"github.com/muhlenberg/searchengine/internal/store"
	"github.com/muhlenberg/searchengine/internal/textpipeline"
)

// newTestServer serves a small fan-out graph: "/" links to /a and /b,
// /a links to /b and /c, /b links to /c and /keyword/skip, /c is a leaf.
// /b and /c are reachable from "/" along more than one path, so the graph
// exercises both dedup and cap enforcement.
func newTestServer() *httptest.Server {
	mux := http.NewServeMux()
	page := func(title, body string, links ...string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			html := fmt.Sprintf("<html><head><title>%s</title></head><body><p>%s</p>", title, body)
			for _, l := range links {
				html += fmt.Sprintf(`<a href="%s">link</a>`, l)
			}
			html += "</body></html>"
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, html)
		}
	}
	mux.HandleFunc("/", page("Home", "welcome to the site", "/a", "/b"))
	mux.HandleFunc("/a", page("Page A", "alpha content alpha", "/b", "/c"))
	mux.HandleFunc("/b", page("Page B", "bravo content bravo", "/c", "/keyword/skip"))
	mux.HandleFunc("/c", page("Page C", "charlie content charlie"))
	mux.HandleFunc("/keyword/skip", page("Skip Me", "should never be fetched"))
	return httptest.NewServer(mux)
}

func TestCrawlCapEnforcement(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	p := textpipeline.NewWithStopwords(nil)
	s := store.NewMemStore()
	ix := indexer.New(p, s, nil)

	domain := srv.Listener.Addr().String()
	c := New(Config{Workers: 4, CrawlCap: 3, Domain: domain, Timeout: 2 * time.Second}, ix, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := c.Run(ctx, srv.URL+"/")
	<-done

	assert.LessOrEqual(t, c.CrawledCount(), 3)

	terms, err := s.DistinctTerms(ctx)
	assert.NoError(t, err)
	docCount := 0
	for term := range terms {
		rec, _, _ := s.FindTerm(ctx, term)
		seen := map[string]struct{}{}
		for docID := range rec.Index {
			seen[docID] = struct{}{}
		}
		if len(seen) > docCount {
			docCount = len(seen)
		}
	}
	assert.LessOrEqual(t, docCount, 3)
}

func TestCrawlNeverFetchesKeywordLinks(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	p := textpipeline.NewWithStopwords(nil)
	s := store.NewMemStore()
	ix := indexer.New(p, s, nil)

	domain := srv.Listener.Addr().String()
	c := New(Config{Workers: 4, CrawlCap: 100, Domain: domain, Timeout: 2 * time.Second}, ix, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := c.Run(ctx, srv.URL+"/")
	<-done

	for i := 0; i < c.CrawledCount(); i++ {
		doc, ok, _ := s.FindDoc(ctx, fmt.Sprintf("%d", i+1))
		if ok {
			assert.NotContains(t, doc.URL, "keyword")
		}
	}
}

func TestCrawlDedupesRevisitedURLs(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	p := textpipeline.NewWithStopwords(nil)
	s := store.NewMemStore()
	ix := indexer.New(p, s, nil)

	domain := srv.Listener.Addr().String()
	c := New(Config{Workers: 4, CrawlCap: 100, Domain: domain, Timeout: 2 * time.Second}, ix, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := c.Run(ctx, srv.URL+"/")
	<-done

	// The graph has 4 reachable non-keyword pages (/, /a, /b, /c); every
	// edge into an already-visited page must not re-trigger a fetch.
	assert.LessOrEqual(t, c.CrawledCount(), 4)
}
