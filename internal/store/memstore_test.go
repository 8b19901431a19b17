package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/muhlenberg/searchengine/internal/apperror"
)

func TestMemStoreInsertAndFindDoc(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	doc := Document{ID: "1", URL: "https://example.muhlenberg.edu/", Title: "Hello", MaxFrequency: 2}
	assert.NoError(t, s.InsertDoc(ctx, doc))

	got, ok, err := s.FindDoc(ctx, "1")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, doc, got)

	_, ok, err = s.FindDoc(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestMemStoreInsertDocDuplicate(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	doc := Document{ID: "1"}
	assert.NoError(t, s.InsertDoc(ctx, doc))
	err := s.InsertDoc(ctx, doc)
	assert.True(t, errors.Is(err, apperror.ErrDuplicateKey))
}

func TestMemStoreTermLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	err := s.InsertTerm(ctx, IndexRecord{Term: "cat", Index: map[string]float64{"1": 2}})
	assert.NoError(t, err)

	err = s.UpdateTermIndex(ctx, "cat", map[string]float64{"1": 2, "2": 1})
	assert.NoError(t, err)

	rec, ok, err := s.FindTerm(ctx, "cat")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[string]float64{"1": 2, "2": 1}, rec.Index)

	terms, err := s.DistinctTerms(ctx)
	assert.NoError(t, err)
	assert.Contains(t, terms, "cat")

	n, err := s.CountTerms(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemStoreFindTermReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	assert.NoError(t, s.InsertTerm(ctx, IndexRecord{Term: "dog", Index: map[string]float64{"1": 1}}))

	rec, _, _ := s.FindTerm(ctx, "dog")
	rec.Index["2"] = 99

	again, _, _ := s.FindTerm(ctx, "dog")
	assert.NotContains(t, again.Index, "2")
}
