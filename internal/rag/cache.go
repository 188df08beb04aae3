package rag

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// EmbeddingCache keys vectors by their input text. Since summaries are
// deterministic, a cache hit returns exactly the vector the external model
// produced for that text; the cache can never change answer content.
type EmbeddingCache interface {
	Get(ctx context.Context, text string) ([]float32, bool)
	Put(ctx context.Context, text string, vec []float32)
}

type memoryCache struct {
	mu   sync.Mutex
	vecs map[string][]float32
}

// NewMemoryCache returns an in-process embedding cache.
func NewMemoryCache() EmbeddingCache {
	return &memoryCache{vecs: make(map[string][]float32)}
}

func (c *memoryCache) Get(_ context.Context, text string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	vec, ok := c.vecs[text]
	return vec, ok
}

func (c *memoryCache) Put(_ context.Context, text string, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vecs[text] = vec
}

type redisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache returns a Redis-backed embedding cache so concurrent API
// instances share one. Cache errors degrade to misses.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) EmbeddingCache {
	return &redisCache{rdb: rdb, ttl: ttl}
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "emb:" + hex.EncodeToString(sum[:])
}

func (c *redisCache) Get(ctx context.Context, text string) ([]float32, bool) {
	data, err := c.rdb.Get(ctx, cacheKey(text)).Bytes()
	if err != nil {
		return nil, false
	}
	var vec []float32
	if err := json.Unmarshal(data, &vec); err != nil {
		return nil, false
	}
	return vec, true
}

func (c *redisCache) Put(ctx context.Context, text string, vec []float32) {
	data, err := json.Marshal(vec)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, cacheKey(text), data, c.ttl).Err()
}
