// Package config parses the flags cmd/searchengine starts from and
// validates the required store connection pair.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/muhlenberg/searchengine/internal/apperror"
)

// Config holds every flag-derived value the program needs.
type Config struct {
	StoreURI   string
	DBName     string
	StartURL   string
	RunCrawler bool
	Workers    int
	CrawlCap   int
	Domain     string
	Timeout    time.Duration
	Stopwords  string
	PageSize   int
}

// Parse reads flags from args (os.Args[1:] in production, a literal slice
// in tests) and validates the store URI/database-name pair.
func Parse(args []string) (Config, error) {
	fs := flag.NewFlagSet("searchengine", flag.ContinueOnError)

	var cfg Config
	fs.StringVar(&cfg.StoreURI, "store", "", "store connection URI (required)")
	fs.StringVar(&cfg.DBName, "db", "", "database name (required)")
	fs.StringVar(&cfg.StartURL, "start", "", "start URL for the crawl")
	fs.BoolVar(&cfg.RunCrawler, "crawl", true, "run the crawler before accepting queries")
	fs.IntVar(&cfg.Workers, "workers", 4, "worker pool size")
	fs.IntVar(&cfg.CrawlCap, "cap", 5000, "crawl cap")
	fs.StringVar(&cfg.Domain, "domain", "", "domain substring every enqueued link must contain")
	fs.DurationVar(&cfg.Timeout, "timeout", 10*time.Second, "per-fetch timeout")
	fs.StringVar(&cfg.Stopwords, "stopwords", "stopwords.txt", "path to stopwords file")
	fs.IntVar(&cfg.PageSize, "n", 5, "results per page when printing")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.StoreURI == "" || cfg.DBName == "" {
		return Config{}, fmt.Errorf("%w: -store and -db are both required", apperror.ErrInvalidStoreConfig)
	}
	if cfg.RunCrawler && (cfg.StartURL == "" || cfg.Domain == "") {
		return Config{}, fmt.Errorf("%w: -start and -domain are required when -crawl is set", apperror.ErrInvalidStoreConfig)
	}

	return cfg, nil
}
