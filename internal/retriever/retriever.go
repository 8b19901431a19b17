// Package retriever implements ranked retrieval over the document store:
// TF-IDF query weighting and cosine similarity against per-document
// vectors, returning the top 25 (URL, Title) pairs.
package retriever

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/muhlenberg/searchengine/internal/apperror"
	"github.com/muhlenberg/searchengine/internal/store"
	"github.com/muhlenberg/searchengine/internal/textpipeline"
)

// maxResults caps the number of ranked results returned from a query.
const maxResults = 25

// Result is one ranked hit.
type Result struct {
	URL   string
	Title string
}

// Retriever answers queries against a Store snapshot. indexSize is
// captured once at construction and used as the corpus-size constant N
// in every IDF computation for this Retriever's lifetime.
type Retriever struct {
	s         store.Store
	pipeline  *textpipeline.Pipeline
	indexSize int
}

// New snapshots the store's distinct-term count and returns a Retriever.
func New(ctx context.Context, s store.Store, p *textpipeline.Pipeline) (*Retriever, error) {
	n, err := s.CountTerms(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrStoreReadFailed, err)
	}
	return &Retriever{s: s, pipeline: p, indexSize: n}, nil
}

type accumulator struct {
	num float64
	den float64
}

// Search cleans the query, retains terms present in the index, scores
// every document that shares a retained term by cosine similarity
// against the query's TF-IDF vector, and returns up to 25 ranked results.
func (r *Retriever) Search(ctx context.Context, query string) ([]Result, error) {
	queryWords := r.pipeline.CleanQuery(query)
	if len(queryWords) == 0 {
		return nil, nil
	}

	distinct, err := r.s.DistinctTerms(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrStoreReadFailed, err)
	}

	type termWeight struct {
		term string
		idf  float64
		qw   float64
	}
	var retained []termWeight
	queryNormSq := 0.0

	terms := make([]string, 0, len(queryWords))
	for term := range queryWords {
		terms = append(terms, term)
	}
	sort.Strings(terms) // deterministic encounter order for the stable sort below

	for _, term := range terms {
		tf := queryWords[term]
		if _, ok := distinct[term]; !ok {
			continue
		}
		rec, ok, err := r.s.FindTerm(ctx, term)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperror.ErrStoreReadFailed, err)
		}
		if !ok || len(rec.Index) == 0 {
			continue
		}
		idf := math.Log10(float64(r.indexSize) / float64(len(rec.Index)))
		qw := tf * idf
		retained = append(retained, termWeight{term: term, idf: idf, qw: qw})
		queryNormSq += qw * qw
	}

	if len(retained) == 0 {
		return nil, nil
	}
	queryNorm := math.Sqrt(queryNormSq)

	accum := make(map[string]*accumulator)

	for _, tw := range retained {
		rec, ok, err := r.s.FindTerm(ctx, tw.term)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperror.ErrStoreReadFailed, err)
		}
		if !ok {
			continue
		}
		docIDs := make([]string, 0, len(rec.Index))
		for docID := range rec.Index {
			docIDs = append(docIDs, docID)
		}
		sort.Strings(docIDs) // deterministic encounter order, independent of map iteration

		for _, docID := range docIDs {
			rawFreq := rec.Index[docID]
			doc, ok, err := r.s.FindDoc(ctx, docID)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", apperror.ErrStoreReadFailed, err)
			}
			if !ok || doc.MaxFrequency == 0 {
				continue
			}
			tf := rawFreq / doc.MaxFrequency
			dw := tf * tw.idf

			a, seen := accum[docID]
			if !seen {
				a = &accumulator{}
				accum[docID] = a
			}
			a.num += dw * tw.qw
			a.den += dw * dw
		}
	}

	order := make([]string, 0, len(accum))
	for docID := range accum {
		order = append(order, docID)
	}
	sort.Strings(order)

	type scored struct {
		docID string
		cos   float64
	}
	results := make([]scored, 0, len(order))
	for _, docID := range order {
		a := accum[docID]
		denom := math.Sqrt(a.den) * queryNorm
		if denom == 0 {
			continue
		}
		results = append(results, scored{docID: docID, cos: a.num / denom})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].cos > results[j].cos
	})
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	out := make([]Result, 0, len(results))
	for _, sc := range results {
		doc, ok, err := r.s.FindDoc(ctx, sc.docID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperror.ErrStoreReadFailed, err)
		}
		if !ok || doc.URL == "" {
			continue
		}
		out = append(out, Result{URL: doc.URL, Title: doc.Title})
	}
	return out, nil
}
