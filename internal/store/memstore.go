package store

import (
	"context"
	"sync"

	"github.com/muhlenberg/searchengine/internal/apperror"
)

// MemStore is an in-memory Store, guarded by a single RWMutex shared by
// both collections. It backs unit tests for the Indexer and Retriever so the
// store's documented concurrency contract (concurrent single-document
// operations are safe) can be exercised without a network dependency.
type MemStore struct {
	mu    sync.RWMutex
	docs  map[string]Document
	terms map[string]IndexRecord
}

// NewMemStore returns an empty in-memory Store.
func NewMemStore() *MemStore {
	return &MemStore{
		docs:  make(map[string]Document),
		terms: make(map[string]IndexRecord),
	}
}

func (s *MemStore) InsertDoc(ctx context.Context, d Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[d.ID]; exists {
		return apperror.ErrDuplicateKey
	}
	s.docs[d.ID] = d
	return nil
}

func (s *MemStore) InsertTerm(ctx context.Context, r IndexRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.terms[r.Term]; exists {
		return apperror.ErrDuplicateKey
	}
	posting := make(map[string]float64, len(r.Index))
	for k, v := range r.Index {
		posting[k] = v
	}
	s.terms[r.Term] = IndexRecord{Term: r.Term, Index: posting}
	return nil
}

func (s *MemStore) UpdateTermIndex(ctx context.Context, term string, postings map[string]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make(map[string]float64, len(postings))
	for k, v := range postings {
		copied[k] = v
	}
	s.terms[term] = IndexRecord{Term: term, Index: copied}
	return nil
}

func (s *MemStore) FindDoc(ctx context.Context, id string) (Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[id]
	return d, ok, nil
}

func (s *MemStore) FindTerm(ctx context.Context, term string) (IndexRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.terms[term]
	if !ok {
		return IndexRecord{}, false, nil
	}
	posting := make(map[string]float64, len(r.Index))
	for k, v := range r.Index {
		posting[k] = v
	}
	return IndexRecord{Term: r.Term, Index: posting}, true, nil
}

func (s *MemStore) DistinctTerms(ctx context.Context) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := make(map[string]struct{}, len(s.terms))
	for term := range s.terms {
		set[term] = struct{}{}
	}
	return set, nil
}

func (s *MemStore) CountTerms(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.terms), nil
}

func (s *MemStore) Close() error {
	return nil
}

var _ Store = (*MemStore)(nil)
