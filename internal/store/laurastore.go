package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/muhlenberg/searchengine/internal/apperror"
)

// Collection names inside the named database.
const (
	docsCollection  = "CrawlerDocs"
	indexCollection = "InvertedIndex"
)

// LauraStore is a Store backed by a laura-db-style document store reached
// over HTTP: one collection of Document records, one of IndexRecord
// records, addressed by a "laura://" or "mongodb://" connection URI plus
// a database name.
type LauraStore struct {
	docs  *collection
	terms *collection
}

// Open parses uri and dbName, dials the store, and ensures both
// collections exist. Returns apperror.ErrInvalidStoreConfig for a
// malformed URI/name pair, apperror.ErrStoreConnectFailed if the dial
// fails, or apperror.ErrCollectionCreateFailed if collection setup fails.
func Open(ctx context.Context, uri, dbName string) (*LauraStore, error) {
	cs, err := parseConnString(uri, dbName)
	if err != nil {
		return nil, err
	}

	client := newHTTPClient(cs)

	s := &LauraStore{
		docs:  &collection{client: client, name: docsCollection},
		terms: &collection{client: client, name: indexCollection},
	}

	if err := s.ensureCollections(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureCollections issues a cheap count on each collection; a store that
// has never seen either name creates it lazily on first write, matching
// InvertedIndex's lazy-creation semantics.
func (s *LauraStore) ensureCollections(ctx context.Context) error {
	if _, err := s.docs.count(ctx); err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrCollectionCreateFailed, err)
	}
	if _, err := s.terms.count(ctx); err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrCollectionCreateFailed, err)
	}
	return nil
}

func (s *LauraStore) InsertDoc(ctx context.Context, d Document) error {
	return s.docs.insertWithID(ctx, d.ID, d)
}

func (s *LauraStore) InsertTerm(ctx context.Context, r IndexRecord) error {
	return s.terms.insertWithID(ctx, r.Term, r)
}

func (s *LauraStore) UpdateTermIndex(ctx context.Context, term string, postings map[string]float64) error {
	return s.terms.updateOne(ctx, term, map[string]any{"index": postings})
}

func (s *LauraStore) FindDoc(ctx context.Context, id string) (Document, bool, error) {
	raw, ok, err := s.docs.findOne(ctx, id)
	if err != nil || !ok {
		return Document{}, ok, err
	}
	var d Document
	if err := json.Unmarshal(raw, &d); err != nil {
		return Document{}, false, fmt.Errorf("%w: %v", apperror.ErrStoreReadFailed, err)
	}
	return d, true, nil
}

func (s *LauraStore) FindTerm(ctx context.Context, term string) (IndexRecord, bool, error) {
	raw, ok, err := s.terms.findOne(ctx, term)
	if err != nil || !ok {
		return IndexRecord{}, ok, err
	}
	var r IndexRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return IndexRecord{}, false, fmt.Errorf("%w: %v", apperror.ErrStoreReadFailed, err)
	}
	return r, true, nil
}

func (s *LauraStore) DistinctTerms(ctx context.Context) (map[string]struct{}, error) {
	ids, err := s.terms.distinctIDs(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (s *LauraStore) CountTerms(ctx context.Context) (int, error) {
	n, err := s.terms.count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperror.ErrStoreReadFailed, err)
	}
	return n, nil
}

func (s *LauraStore) Close() error {
	return nil
}

var _ Store = (*LauraStore)(nil)
