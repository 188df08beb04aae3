package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/josinaldojr/providers-rag/internal/rag"
)

type Handler struct {
	ragService *rag.Service
}

func NewHandler(ragService *rag.Service) *Handler {
	return &Handler{ragService: ragService}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ask answers one question. An unreadable body still gets 400; once a
// question string is in hand the endpoint always returns an answer unless
// the provider corpus itself is unreachable.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req rag.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	resp, err := h.ragService.Ask(ctx, req)
	if err != nil {
		http.Error(w, "provider data unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Providers lists the corpus, with optional drg, zip and radius_km query
// parameters.
func (h *Handler) Providers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var drg *int
	if v := strings.TrimSpace(q.Get("drg")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid drg", http.StatusBadRequest)
			return
		}
		drg = &n
	}

	radiusKm := 0.0
	if v := strings.TrimSpace(q.Get("radius_km")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			http.Error(w, "invalid radius_km", http.StatusBadRequest)
			return
		}
		radiusKm = f
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	providers, err := h.ragService.Providers(ctx, drg, strings.TrimSpace(q.Get("zip")), radiusKm)
	if err != nil {
		http.Error(w, "provider data unavailable", http.StatusServiceUnavailable)
		return
	}
	if providers == nil {
		providers = []rag.Provider{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(providers)
}
