// Package affinity scores how closely a game's summary text resembles the
// summaries of games the user has demonstrably enjoyed. It is a small
// TF-IDF model over the liked-game corpus, with cosine similarity against
// every document and the mean of the best matches as the final score.
package affinity

import (
	"math"
	"sort"
	"sync"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/registry"
)

// minDocuments is the smallest corpus worth training on. Below this the
// model stays untrained and every score is zero.
const minDocuments = 6

// topMatches is how many closest documents feed the final score.
const topMatches = 5

// Model is a trained text-affinity model. The zero value is untrained and
// scores everything 0. Train and Score are safe for concurrent use.
type Model struct {
	analyzer analysis.Analyzer

	mu   sync.RWMutex
	idf  map[string]float64
	docs []map[string]float64 // l2-normalized tf-idf vectors
}

// New creates an untrained model using the English analyzer for
// tokenization (lowercasing, stop word removal, stemming).
func New() (*Model, error) {
	cache := registry.NewCache()
	analyzer, err := cache.AnalyzerNamed(en.AnalyzerName)
	if err != nil {
		return nil, err
	}
	return &Model{analyzer: analyzer}, nil
}

// Trained reports whether the model has a usable corpus.
func (m *Model) Trained() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs) > 0
}

// termCounts tokenizes text into raw term frequencies.
func (m *Model) termCounts(text string) map[string]float64 {
	counts := make(map[string]float64)
	for _, token := range m.analyzer.Analyze([]byte(text)) {
		counts[string(token.Term)] += 1
	}
	return counts
}

// Train fits the model on the summaries of liked games. Corpora smaller
// than minDocuments leave the model untrained. The replacement corpus is
// built off to the side and swapped in under the lock, so in-flight Score
// calls see either the old model or the new one, never a half-built one.
func (m *Model) Train(summaries []string) {
	if len(summaries) < minDocuments {
		m.mu.Lock()
		m.idf = nil
		m.docs = nil
		m.mu.Unlock()
		return
	}

	termDocs := make([]map[string]float64, 0, len(summaries))
	df := make(map[string]float64)
	for _, text := range summaries {
		counts := m.termCounts(text)
		termDocs = append(termDocs, counts)
		for term := range counts {
			df[term]++
		}
	}

	// Smoothed idf: ln((1+n)/(1+df)) + 1, never negative, never zero.
	n := float64(len(termDocs))
	idf := make(map[string]float64, len(df))
	for term, count := range df {
		idf[term] = math.Log((1+n)/(1+count)) + 1
	}

	docs := make([]map[string]float64, 0, len(termDocs))
	for _, counts := range termDocs {
		docs = append(docs, vectorize(counts, idf))
	}

	m.mu.Lock()
	m.idf = idf
	m.docs = docs
	m.mu.Unlock()
}

// vectorize turns raw term counts into an l2-normalized tf-idf vector,
// dropping terms outside the training vocabulary.
func vectorize(counts, idf map[string]float64) map[string]float64 {
	vec := make(map[string]float64, len(counts))
	var norm float64
	for term, count := range counts {
		weight, ok := idf[term]
		if !ok {
			continue
		}
		w := count * weight
		vec[term] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for term := range vec {
			vec[term] /= norm
		}
	}
	return vec
}

// Score returns how strongly text resembles the liked-game corpus, in
// [0, 1]. Untrained models and empty text score 0.
func (m *Model) Score(text string) float64 {
	if text == "" {
		return 0.0
	}
	counts := m.termCounts(text)

	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.docs) == 0 {
		return 0.0
	}

	vec := vectorize(counts, m.idf)
	if len(vec) == 0 {
		return 0.0
	}

	sims := make([]float64, 0, len(m.docs))
	for _, doc := range m.docs {
		// Both vectors are unit length, so the dot product is the
		// cosine similarity.
		var dot float64
		for term, w := range vec {
			dot += w * doc[term]
		}
		sims = append(sims, dot)
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(sims)))
	top := sims
	if len(top) > topMatches {
		top = top[:topMatches]
	}

	var sum float64
	for _, s := range top {
		sum += s
	}
	return sum / float64(len(top))
}
