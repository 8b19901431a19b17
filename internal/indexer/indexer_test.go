package indexer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/muhlenberg/searchengine/internal/store"
	"github.com/muhlenberg/searchengine/internal/textpipeline"
)

func TestIndexSingleDocumentTitleBoost(t *testing.T) {
	ctx := context.Background()
	p := textpipeline.NewWithStopwords(nil)
	s := store.NewMemStore()
	ix := New(p, s, nil)

	err := ix.Index(ctx, "1", "https://example.muhlenberg.edu/", "Hello World", "hello hello world")
	assert.NoError(t, err)

	doc, ok, err := s.FindDoc(ctx, "1")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2.0, doc.MaxFrequency)
	assert.Equal(t, "https://example.muhlenberg.edu/", doc.URL)

	hello, ok, err := s.FindTerm(ctx, "hello")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4.0, hello.Index["1"]) // body 2 + title boost 2

	world, ok, err := s.FindTerm(ctx, "world")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3.0, world.Index["1"]) // body 1 + title boost 2
}

func TestIndexAppendsPostingAcrossDocuments(t *testing.T) {
	ctx := context.Background()
	p := textpipeline.NewWithStopwords(nil)
	s := store.NewMemStore()
	ix := New(p, s, nil)

	assert.NoError(t, ix.Index(ctx, "1", "u1", "", "donut glass"))
	assert.NoError(t, ix.Index(ctx, "2", "u2", "", "donut donut"))

	rec, ok, err := s.FindTerm(ctx, "donut")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[string]float64{"1": 1, "2": 2}, rec.Index)
}

func TestIndexEveryDocIDHasDocumentRecord(t *testing.T) {
	ctx := context.Background()
	p := textpipeline.NewWithStopwords(nil)
	s := store.NewMemStore()
	ix := New(p, s, nil)

	for i, text := range []string{"alpha beta", "beta gamma", "alpha gamma delta"} {
		docID := string(rune('1' + i))
		assert.NoError(t, ix.Index(ctx, docID, "u"+docID, "", text))
	}

	terms, err := s.DistinctTerms(ctx)
	assert.NoError(t, err)
	for term := range terms {
		rec, _, _ := s.FindTerm(ctx, term)
		for docID := range rec.Index {
			_, ok, _ := s.FindDoc(ctx, docID)
			assert.True(t, ok, "docID %s referenced by term %s must exist", docID, term)
			assert.Greater(t, rec.Index[docID], 0.0)
		}
	}
}

func TestIndexEmptyBodyRecordsSentinelMaxFrequency(t *testing.T) {
	ctx := context.Background()
	p := textpipeline.NewWithStopwords(nil)
	s := store.NewMemStore()
	ix := New(p, s, nil)

	assert.NoError(t, ix.Index(ctx, "1", "u1", "", ""))
	doc, ok, _ := s.FindDoc(ctx, "1")
	assert.True(t, ok)
	assert.True(t, doc.MaxFrequency < 0)
}
