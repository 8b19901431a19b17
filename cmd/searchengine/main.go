// Command searchengine crawls one domain, builds a TF-IDF inverted
// index over it in a document store, and serves ranked queries from an
// interactive prompt.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/muhlenberg/searchengine/internal/apperror"
	appconfig "github.com/muhlenberg/searchengine/internal/config"
	"github.com/muhlenberg/searchengine/internal/crawler"
	"github.com/muhlenberg/searchengine/internal/indexer"
	"github.com/muhlenberg/searchengine/internal/lifecycle"
	"github.com/muhlenberg/searchengine/internal/retriever"
	"github.com/muhlenberg/searchengine/internal/store"
	"github.com/muhlenberg/searchengine/internal/textpipeline"
)

func main() {
	log := newLogger()

	cfg, err := appconfig.Parse(os.Args[1:])
	if err != nil {
		log.Error("configuration error", "err", err)
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("fatal error", "status", apperror.StatusCode(err), "err", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func run(ctx context.Context, cfg appconfig.Config, log *slog.Logger) error {
	log.Info("starting search engine", "db", cfg.DBName)

	pipeline, err := textpipeline.New(cfg.Stopwords)
	if err != nil {
		return err
	}

	s, err := store.Open(ctx, cfg.StoreURI, cfg.DBName)
	if err != nil {
		return err
	}

	events := lifecycle.New()
	c := buildCrawler(cfg, pipeline, s, log)

	defer func() {
		if err := events.Teardown(ctx, s, c); err != nil {
			log.Warn("teardown error", "err", err)
		}
	}()

	if cfg.RunCrawler {
		log.Info("crawling", "start", cfg.StartURL, "domain", cfg.Domain, "cap", cfg.CrawlCap)
		start := time.Now()
		events.RunCrawl(ctx, c, cfg.StartURL, log)
		<-events.CrawlDone
		log.Info("crawl complete", "pages", c.CrawledCount(), "elapsed", time.Since(start))
	}

	r, err := retriever.New(ctx, s, pipeline)
	if err != nil {
		return err
	}

	return runInteractiveSearch(ctx, r, cfg.PageSize, log)
}

func buildCrawler(cfg appconfig.Config, p *textpipeline.Pipeline, s store.Store, log *slog.Logger) *crawler.Crawler {
	ix := indexer.New(p, s, log)
	return crawler.New(crawler.Config{
		Workers:  cfg.Workers,
		CrawlCap: cfg.CrawlCap,
		Domain:   cfg.Domain,
		Timeout:  cfg.Timeout,
	}, ix, log)
}

// runInteractiveSearch runs a readline-driven query loop, printing
// "title: url" lines for each result until the user exits.
func runInteractiveSearch(ctx context.Context, r *retriever.Retriever, pageSize int, log *slog.Logger) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     ".search_history.tmp",
		InterruptPrompt: "^C\n",
		EOFPrompt:       "exit\n",
		HistoryLimit:    100,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	fmt.Println("\nEnter your search query (press Ctrl+C or type 'exit' to quit):")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				fmt.Println("\nExiting...")
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) || strings.TrimSpace(line) == "exit" {
			fmt.Println("\nExiting...")
			return nil
		}

		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}

		results, err := r.Search(ctx, query)
		if err != nil {
			log.Warn("search failed", "query", query, "err", err)
			fmt.Println("Search failed; please try again.")
			continue
		}
		printResults(results, pageSize)
	}
}

// printResults paginates results pageSize at a time, prompting before
// showing the next page.
func printResults(results []retriever.Result, pageSize int) {
	if len(results) == 0 {
		fmt.Println("No matches found.")
		return
	}

	reader := bufio.NewReader(os.Stdin)
	start := 0
	for {
		end := min(start+pageSize, len(results))
		for i := start; i < end; i++ {
			fmt.Printf("%s: %s\n", results[i].Title, results[i].URL)
		}
		start = end
		if start >= len(results) {
			return
		}
		remaining := len(results) - start
		fmt.Printf("\nPress Enter for next %d result(s) (%d remaining), or any other key to stop...\n", min(remaining, pageSize), remaining)
		input, _ := reader.ReadString('\n')
		if input != "\n" && input != "\r\n" {
			return
		}
	}
}
