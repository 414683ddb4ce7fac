// Package tfidf provides an in-process term-frequency-inverse-document-
// frequency index over small corpora. It backs the catalog relevance search:
// the whole active catalog (a few hundred documents) is indexed once at
// startup and queried on every search, so everything stays in memory and
// scoring is a linear scan over the documents containing a query term.
package tfidf

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/shopassist-labs/shopassist/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.RelevanceIndex = (*Index)(nil)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Index is an append-only TF-IDF index. Documents are identified by their
// insertion ordinal. Safe for concurrent use; writes only happen during
// catalog load.
type Index struct {
	mu sync.RWMutex

	// termFreqs[i] maps term -> occurrence count within document i.
	termFreqs []map[string]int

	// docFreq maps term -> number of documents containing it.
	docFreq map[string]int
}

// New creates an empty index.
func New() *Index {
	return &Index{
		docFreq: make(map[string]int),
	}
}

// Add appends one document at the next ordinal.
func (x *Index) Add(text string) {
	counts := termCounts(text)

	x.mu.Lock()
	defer x.mu.Unlock()

	x.termFreqs = append(x.termFreqs, counts)
	for term := range counts {
		x.docFreq[term]++
	}
}

// Len returns the number of documents added so far.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.termFreqs)
}

// Rank scores every document against the query.
//
// Score(q, d) = sum over distinct query terms t of tf(t, d) * idf(t), with
// tf the raw in-document count and idf(t) = ln(N / (1 + df(t))) + 1. This is
// the weighting the catalog search has always used; changing it changes
// result order for existing shops.
//
// Documents sharing no term with the query score zero and are excluded.
// Ordering is by descending score, ties broken by ascending ordinal so
// results are reproducible across runs.
func (x *Index) Rank(query string) []driven.IndexHit {
	queryCounts := termCounts(query)
	if len(queryCounts) == 0 {
		return nil
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	n := float64(len(x.termFreqs))
	if n == 0 {
		return nil
	}

	idf := make(map[string]float64, len(queryCounts))
	for term := range queryCounts {
		df, ok := x.docFreq[term]
		if !ok {
			continue
		}
		idf[term] = math.Log(n/(1+float64(df))) + 1
	}
	if len(idf) == 0 {
		return nil
	}

	hits := make([]driven.IndexHit, 0, len(x.termFreqs))
	for ordinal, counts := range x.termFreqs {
		score := 0.0
		for term, weight := range idf {
			if tf, ok := counts[term]; ok {
				score += float64(tf) * weight
			}
		}
		if score > 0 {
			hits = append(hits, driven.IndexHit{Ordinal: ordinal, Score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	return hits
}

// termCounts tokenizes text (lowercase alphanumeric runs) into a term
// frequency map.
func termCounts(text string) map[string]int {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)
	if len(tokens) == 0 {
		return nil
	}
	counts := make(map[string]int, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	return counts
}
