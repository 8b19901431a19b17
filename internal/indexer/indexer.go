// Package indexer implements the insert/merge protocol against the
// document store: given a crawled page's title and body, it computes the
// title-boosted frequency map and writes a Document record plus one
// InvertedIndex posting per term.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/muhlenberg/searchengine/internal/apperror"
	"github.com/muhlenberg/searchengine/internal/store"
	"github.com/muhlenberg/searchengine/internal/textpipeline"
)

// Indexer applies the title-boosted insert/merge protocol against the
// document store. A single Indexer is shared by every crawl worker; Store
// implementations are assumed safe for concurrent single-document
// operations (see internal/store).
type Indexer struct {
	pipeline *textpipeline.Pipeline
	store    store.Store
	log      *slog.Logger
}

// New builds an Indexer over the given pipeline and store.
func New(p *textpipeline.Pipeline, s store.Store, log *slog.Logger) *Indexer {
	if log == nil {
		log = slog.Default()
	}
	return &Indexer{pipeline: p, store: s, log: log}
}

// Index tokenizes title and body, builds the title-boosted frequency map,
// writes the Document record, and merges each term's posting into
// InvertedIndex. Per-term and per-document write failures are logged and
// swallowed; only a read failure surfacing from the merge step is
// returned to the caller.
func (ix *Indexer) Index(ctx context.Context, docID, url, title, body string) error {
	bodyTokens := ix.pipeline.Normalize(body)
	titleTokens := ix.pipeline.Normalize(title)

	freq := make(map[string]float64, len(bodyTokens))
	for _, tok := range bodyTokens {
		freq[tok]++
	}

	maxFreq := math.Inf(-1)
	for _, count := range freq {
		if count > maxFreq {
			maxFreq = count
		}
	}

	// Title boost: each title token's entry gains the body's max
	// frequency, including for terms absent from the body. When the body
	// was empty, maxFreq is -Inf and this still applies unconditionally;
	// see DESIGN.md for the open question this sentinel value resolves.
	for _, tok := range titleTokens {
		freq[tok] += maxFreq
	}

	doc := store.Document{ID: docID, URL: url, Title: title, MaxFrequency: maxFreq}
	if err := ix.store.InsertDoc(ctx, doc); err != nil && !errors.Is(err, apperror.ErrDuplicateKey) {
		ix.log.Warn("document write failed, dropping", "docID", docID, "err", err)
	}

	for term, count := range freq {
		if err := ix.mergeTerm(ctx, term, docID, count); err != nil {
			return err
		}
	}
	return nil
}

// mergeTerm looks up term's posting map and either inserts a new
// IndexRecord or appends docID to the existing one. A read failure is
// propagated; a write failure on the insert/update is logged and
// swallowed so one bad write never aborts the crawl.
func (ix *Indexer) mergeTerm(ctx context.Context, term, docID string, freq float64) error {
	rec, ok, err := ix.store.FindTerm(ctx, term)
	if err != nil {
		return fmt.Errorf("%w: term %q: %v", apperror.ErrStoreReadFailed, term, err)
	}

	if !ok {
		err := ix.store.InsertTerm(ctx, store.IndexRecord{
			Term:  term,
			Index: map[string]float64{docID: freq},
		})
		if err != nil && !errors.Is(err, apperror.ErrDuplicateKey) {
			ix.log.Warn("term insert failed, dropping", "term", term, "err", err)
		}
		return nil
	}

	postings := make(map[string]float64, len(rec.Index)+1)
	for k, v := range rec.Index {
		postings[k] = v
	}
	postings[docID] = freq

	if err := ix.store.UpdateTermIndex(ctx, term, postings); err != nil {
		ix.log.Warn("term update failed, dropping", "term", term, "err", err)
	}
	return nil
}
