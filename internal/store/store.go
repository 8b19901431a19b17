// Package store abstracts the persistence layer behind two logical
// collections, Documents and InvertedIndex. The concrete backing store is
// an external collaborator; this package defines the interface the
// Indexer and Retriever program against, a concrete implementation
// (LauraStore) backed by a laura-db-style HTTP document store, and an
// in-memory implementation (MemStore) for tests.
package store

import "context"

// Document is one record in the Documents collection: one per
// successfully fetched and parsed page. Created exactly once per docID,
// never mutated afterward.
type Document struct {
	ID           string  `json:"id"`
	URL          string  `json:"url"`
	Title        string  `json:"title"`
	MaxFrequency float64 `json:"maxFrequency"`
}

// IndexRecord is one record in the InvertedIndex collection: the posting
// map for a single stemmed, lowercased term.
type IndexRecord struct {
	Term  string             `json:"term"`
	Index map[string]float64 `json:"index"`
}

// Store is the persistence contract the Indexer and Retriever require.
// Implementations need not provide single-writer semantics for
// UpdateTermIndex: the Indexer layers its own merge protocol on top (see
// internal/indexer), and concurrent updates may lose postings — this is
// an accepted looseness, not a bug to fix here.
type Store interface {
	// InsertDoc inserts a new Document record. Returns apperror.ErrDuplicateKey
	// if ID is already present; the caller treats that as non-fatal.
	InsertDoc(ctx context.Context, d Document) error

	// InsertTerm inserts a new IndexRecord. Returns apperror.ErrDuplicateKey
	// if Term is already present.
	InsertTerm(ctx context.Context, r IndexRecord) error

	// UpdateTermIndex replaces the entire posting map for term.
	UpdateTermIndex(ctx context.Context, term string, postings map[string]float64) error

	// FindDoc looks up a Document by ID. ok is false if no such document exists.
	FindDoc(ctx context.Context, id string) (doc Document, ok bool, err error)

	// FindTerm looks up an IndexRecord by Term. ok is false if absent.
	FindTerm(ctx context.Context, term string) (rec IndexRecord, ok bool, err error)

	// DistinctTerms returns a snapshot set of every Term currently indexed.
	DistinctTerms(ctx context.Context) (map[string]struct{}, error)

	// CountTerms returns the number of distinct terms, used as the corpus
	// size constant N in IDF.
	CountTerms(ctx context.Context) (int, error)

	// Close releases any underlying connection resources.
	Close() error
}
