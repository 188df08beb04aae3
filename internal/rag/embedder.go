package rag

import (
	"context"
	"fmt"
	"time"
)

const embedTimeout = 10 * time.Second

// Summary renders the retrieval-relevant fields of a provider into one
// deterministic line. The same provider always serializes to the same
// string, so cached vectors stay valid for a fixed corpus.
func Summary(p Provider) string {
	return fmt.Sprintf("%s (%s, %s, %s) DRG %d rating %d/10 avg payment $%.0f",
		p.ProviderName,
		p.ProviderCity,
		p.ProviderState,
		p.ProviderZipCode,
		p.MSDRGDefinition,
		p.StarRating,
		p.AverageTotalPayments,
	)
}

// Embedder produces embedding vectors for queries and provider summaries,
// consulting the cache before the external call.
type Embedder struct {
	ai    EmbeddingsClient
	cache EmbeddingCache
}

func NewEmbedder(ai EmbeddingsClient, cache EmbeddingCache) *Embedder {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Embedder{ai: ai, cache: cache}
}

func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := e.cache.Get(ctx, text); ok {
		return vec, nil
	}

	ectx, cancel := context.WithTimeout(ctx, embedTimeout)
	defer cancel()

	vec, err := e.ai.Embed(ectx, text)
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}

	e.cache.Put(ctx, text, vec)
	return vec, nil
}
