package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/muhlenberg/searchengine/internal/apperror"
)

func TestParseRequiresStoreAndDB(t *testing.T) {
	_, err := Parse([]string{"-start", "https://example.edu/"})
	assert.True(t, errors.Is(err, apperror.ErrInvalidStoreConfig))
}

func TestParseRequiresDomainWhenCrawling(t *testing.T) {
	_, err := Parse([]string{"-store", "laura://localhost:8080", "-db", "crawldb", "-start", "https://example.edu/"})
	assert.True(t, errors.Is(err, apperror.ErrInvalidStoreConfig))
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]string{
		"-store", "laura://localhost:8080",
		"-db", "crawldb",
		"-crawl=false",
	})
	assert.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 5000, cfg.CrawlCap)
	assert.Equal(t, "stopwords.txt", cfg.Stopwords)
	assert.Equal(t, 5, cfg.PageSize)
}
