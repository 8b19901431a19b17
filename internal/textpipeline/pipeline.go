// Package textpipeline implements the deterministic normalizer shared by
// the indexer and the retriever: lowercase, strip non-alphanumerics,
// split, drop stopwords, stem.
package textpipeline

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	snowballeng "github.com/kljensen/snowball/english"

	"github.com/muhlenberg/searchengine/internal/apperror"
)

// maxTokenLength is the longest stemmed token kept when accumulating
// frequencies. Query cleaning does not apply this cap.
const maxTokenLength = 30

// Pipeline holds the stopword set loaded once at construction. It carries
// no other state and is safe for concurrent use by multiple goroutines
// once built, since every method only reads p.stopwords.
type Pipeline struct {
	stopwords map[string]struct{}
}

// New reads stopwords from path (one lowercase token per line) and builds
// a Pipeline. It is the only place stopwords.txt is read; callers
// construct one Pipeline at startup and share it.
func New(stopwordsPath string) (*Pipeline, error) {
	f, err := os.Open(stopwordsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrStopwordsMissing, err)
	}
	defer f.Close()

	stopwords := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		stopwords[strings.ToLower(word)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrStopwordsMissing, err)
	}

	return &Pipeline{stopwords: stopwords}, nil
}

// NewWithStopwords builds a Pipeline from an in-memory stopword set,
// bypassing the file read. Used by tests and by callers that already
// have the set in hand.
func NewWithStopwords(stopwords map[string]struct{}) *Pipeline {
	if stopwords == nil {
		stopwords = make(map[string]struct{})
	}
	return &Pipeline{stopwords: stopwords}
}

// isKept reports whether r belongs in a token: lowercase letters, digits,
// or whitespace. Everything else becomes a space during normalization.
func isKept(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// Normalize lowercases text, replaces every character outside [a-z0-9\s]
// with a single space, splits on whitespace runs, drops stopwords, and
// stems what remains. Tokens longer than 30 characters after stemming are
// dropped here but not by CleanQuery.
func (p *Pipeline) Normalize(text string) []string {
	return p.normalize(text, true)
}

func (p *Pipeline) normalize(text string, capLength bool) []string {
	lower := strings.ToLower(text)

	cleaned := make([]rune, 0, len(lower))
	for _, r := range lower {
		if isKept(r) {
			cleaned = append(cleaned, r)
		} else {
			cleaned = append(cleaned, ' ')
		}
	}

	fields := strings.Fields(string(cleaned))
	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if tok == "" {
			continue
		}
		if _, stop := p.stopwords[tok]; stop {
			continue
		}
		stemmed := snowballeng.Stem(tok, false)
		if capLength && len(stemmed) > maxTokenLength {
			continue
		}
		tokens = append(tokens, stemmed)
	}
	return tokens
}

// CleanQuery normalizes text (without the 30-character accumulation cap)
// and returns each stemmed term mapped to its normalized frequency: raw
// occurrence count divided by the total token count, so the result sums
// to 1 whenever at least one token survives.
func (p *Pipeline) CleanQuery(text string) map[string]float64 {
	tokens := p.normalize(text, false)
	if len(tokens) == 0 {
		return map[string]float64{}
	}

	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}

	total := float64(len(tokens))
	freqs := make(map[string]float64, len(counts))
	for term, count := range counts {
		freqs[term] = float64(count) / total
	}
	return freqs
}
