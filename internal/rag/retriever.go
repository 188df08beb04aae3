package rag

import (
	"math"
	"sort"
	"strings"
)

// DefaultTopK caps how many providers feed the generation prompt.
const DefaultTopK = 5

// CosineSimilarity returns the cosine of the angle between two vectors,
// or 0 when either has zero magnitude or the dimensions disagree.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// TopKBySimilarity ranks providers against the query vector and returns at
// most k of them, descending by score. Ties keep the original corpus order.
// Providers whose vector has zero magnitude are excluded rather than scored.
// vecs[i] is the embedding of providers[i]; the two slices are parallel.
func TopKBySimilarity(queryVec []float32, providers []Provider, vecs [][]float32, k int) []ScoredProvider {
	if k <= 0 {
		k = DefaultTopK
	}

	scored := make([]ScoredProvider, 0, len(providers))
	for i, p := range providers {
		if i >= len(vecs) || zeroMagnitude(vecs[i]) {
			continue
		}
		scored = append(scored, ScoredProvider{
			Provider: p,
			Score:    CosineSimilarity(queryVec, vecs[i]),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	for i := range scored {
		scored[i].Rank = i + 1
	}

	return scored
}

// KeywordMatch is the degraded retriever: providers whose summary contains
// any query token are selected in first-match order, up to k. The score is
// the number of matching tokens.
func KeywordMatch(question string, providers []Provider, k int) []ScoredProvider {
	if k <= 0 {
		k = DefaultTopK
	}

	tokens := queryTokens(question)

	var scored []ScoredProvider
	for _, p := range providers {
		summary := strings.ToLower(Summary(p))
		hits := 0
		for _, tok := range tokens {
			if strings.Contains(summary, tok) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		scored = append(scored, ScoredProvider{
			Provider: p,
			Score:    float64(hits),
			Rank:     len(scored) + 1,
		})
		if len(scored) == k {
			break
		}
	}

	return scored
}

// stop words that would otherwise match every summary
var stopTokens = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "which": true,
	"what": true, "where": true, "have": true, "has": true, "are": true,
	"how": true, "much": true, "does": true, "near": true, "within": true,
}

func queryTokens(question string) []string {
	raw := wordPattern.FindAllString(strings.ToLower(question), -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.Trim(t, ".")
		if len(t) < 3 || stopTokens[t] {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

func zeroMagnitude(vec []float32) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}
