package textpipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func emptyPipeline() *Pipeline {
	return NewWithStopwords(nil)
}

func stopwordPipeline(words ...string) *Pipeline {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return NewWithStopwords(set)
}

func TestNormalizeLowercasesAndStrips(t *testing.T) {
	p := emptyPipeline()
	tokens := p.Normalize("Hello, World! 123")
	assert.Equal(t, []string{"hello", "world", "123"}, tokens)
}

func TestNormalizeDropsStopwords(t *testing.T) {
	p := stopwordPipeline("the", "a")
	tokens := p.Normalize("the cat sat on a mat")
	assert.Equal(t, []string{"cat", "sat", "on", "mat"}, tokens)
}

func TestNormalizeStems(t *testing.T) {
	p := emptyPipeline()
	tokens := p.Normalize("fishing fished fishes")
	for _, tok := range tokens {
		assert.Equal(t, "fish", tok)
	}
}

func TestNormalizeDropsLongTokens(t *testing.T) {
	p := emptyPipeline()
	long := "supercalifragilisticexpialidocioussuffix" // > 30 chars after stem
	tokens := p.Normalize(long + " ok")
	assert.Equal(t, []string{"ok"}, tokens)
}

func TestCleanQueryReturnsDistribution(t *testing.T) {
	p := stopwordPipeline("the", "a")
	freqs := p.CleanQuery("the A quick")
	assert.Len(t, freqs, 1)
	assert.InDelta(t, 1.0, freqs["quick"], 1e-9)
}

func TestCleanQuerySumsToOne(t *testing.T) {
	p := emptyPipeline()
	freqs := p.CleanQuery("dog cat dog")
	sum := 0.0
	for _, v := range freqs {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestCleanQueryEmpty(t *testing.T) {
	p := stopwordPipeline("the")
	freqs := p.CleanQuery("the")
	assert.Empty(t, freqs)
}

func TestCleanQueryIgnoresLengthCap(t *testing.T) {
	p := emptyPipeline()
	long := "pneumonoultramicroscopicsilicovolcanoconiosisword"
	freqs := p.CleanQuery(long)
	assert.Len(t, freqs, 1)
}

func TestNormalizeIdempotentUpToStopwordDrop(t *testing.T) {
	p := emptyPipeline()
	once := p.Normalize("Running runners ran")
	twice := p.Normalize(joinTokens(once))
	assert.Equal(t, once, twice)
}

func joinTokens(tokens []string) string {
	out := ""
	for i, t := range tokens {
		if i > 0 {
			out += " "
		}
		out += t
	}
	return out
}
