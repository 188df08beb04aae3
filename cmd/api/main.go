package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/josinaldojr/providers-rag/internal/config"
	"github.com/josinaldojr/providers-rag/internal/db"
	"github.com/josinaldojr/providers-rag/internal/geo"
	apphttp "github.com/josinaldojr/providers-rag/internal/http"
	"github.com/josinaldojr/providers-rag/internal/llm"
	"github.com/josinaldojr/providers-rag/internal/rag"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()
	pool := db.NewPool(cfg.DatabaseURL)
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	repo := rag.NewPgRepository(pool)
	geocoder := geo.NewNominatim(cfg.NominatimURL)

	// capability probe: decided once here, never re-checked per request
	var ai rag.AIClient
	if cfg.AIEnabled() {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Printf("Gemini client unavailable, running in fallback mode: %v", err)
		} else {
			ai = geminiClient
		}
	} else {
		log.Printf("no Gemini API key configured, running in fallback mode")
	}

	var cache rag.EmbeddingCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		cache = rag.NewRedisCache(rdb, 24*time.Hour)
		log.Printf("embedding cache on redis at %s", cfg.RedisAddr)
	}

	ragService := rag.NewService(repo, geocoder, ai, cache, rag.DefaultOptions())

	h := apphttp.NewHandler(ragService)
	router := apphttp.NewRouter(h)

	handler := corsMiddleware(router)

	addr := ":" + cfg.Port
	log.Printf("API listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin == "http://localhost:3000" || origin == "http://127.0.0.1:3000" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
