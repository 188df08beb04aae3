package rag

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/josinaldojr/providers-rag/internal/geo"
)

// Geocoder resolves a zip code to coordinates at request time.
type Geocoder interface {
	GeocodeZip(ctx context.Context, zip string) (lat, lon float64, err error)
}

// Options are the tuning values of the pipeline.
type Options struct {
	TopK           int
	MaxQuestionLen int
}

func DefaultOptions() Options {
	return Options{
		TopK:           DefaultTopK,
		MaxQuestionLen: 2000,
	}
}

// Service runs the question-answering pipeline: relevance check, corpus
// snapshot, similarity retrieval, context assembly, answer generation.
// Stateless across requests; safe for concurrent use.
type Service struct {
	repo       Repository
	geocoder   Geocoder
	classifier *Classifier
	embedder   *Embedder
	generator  *Generator
	opts       Options
}

// NewService wires the pipeline. ai may be nil: the service then runs every
// stage in fallback mode. cache may be nil for an in-process cache.
func NewService(repo Repository, geocoder Geocoder, ai AIClient, cache EmbeddingCache, opts Options) *Service {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.MaxQuestionLen <= 0 {
		opts.MaxQuestionLen = DefaultOptions().MaxQuestionLen
	}

	s := &Service{
		repo:      repo,
		geocoder:  geocoder,
		opts:      opts,
		generator: NewGenerator(nil),
	}
	if ai != nil {
		s.classifier = NewClassifier(ai)
		s.embedder = NewEmbedder(ai, cache)
		s.generator = NewGenerator(ai)
	} else {
		s.classifier = NewClassifier(nil)
	}

	return s
}

// Ask answers one question. The only error it returns is a corpus read
// failure; everything else degrades to a well-formed answer.
func (s *Service) Ask(ctx context.Context, req AskRequest) (*AskResponse, error) {
	q := strings.TrimSpace(req.Question)
	if len(q) > s.opts.MaxQuestionLen {
		q = strings.ToValidUTF8(q[:s.opts.MaxQuestionLen], "")
	}

	if q == "" || !s.classifier.Relevant(ctx, q) {
		return &AskResponse{Answer: Refusal}, nil
	}

	filters := ExtractFilters(q)

	// one snapshot per request
	providers, err := s.repo.ListProviders(ctx, filters.DRG)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	providers = s.filterByRadius(ctx, providers, filters)

	scored, ok := s.retrieveByEmbedding(ctx, q, providers)
	if !ok {
		scored = KeywordMatch(q, providers, s.opts.TopK)
	}

	contextBlock := AssembleContext(scored)
	answer := s.generator.Answer(ctx, q, contextBlock, scored)

	return &AskResponse{Answer: answer}, nil
}

// Providers serves the plain listing endpoint: the corpus, optionally
// filtered by DRG and by radius around a zip, cost-ascending.
func (s *Service) Providers(ctx context.Context, drg *int, zip string, radiusKm float64) ([]Provider, error) {
	providers, err := s.repo.ListProviders(ctx, drg)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	return s.filterByRadius(ctx, providers, QueryFilters{Zip: zip, RadiusKm: radiusKm}), nil
}

// retrieveByEmbedding embeds the query and every provider summary, then
// ranks by cosine similarity. Reports !ok when the capability is absent or
// the query embedding fails, so the caller can switch to keyword retrieval.
// A per-record embedding failure only drops that record.
func (s *Service) retrieveByEmbedding(ctx context.Context, question string, providers []Provider) ([]ScoredProvider, bool) {
	if s.embedder == nil {
		return nil, false
	}

	queryVec, err := s.embedder.EmbedText(ctx, question)
	if err != nil {
		log.Printf("query embedding failed, using keyword retrieval: %v", err)
		return nil, false
	}

	vecs := make([][]float32, len(providers))
	for i, p := range providers {
		vec, err := s.embedder.EmbedText(ctx, Summary(p))
		if err != nil {
			// skipped by the ranker as a degenerate embedding
			continue
		}
		vecs[i] = vec
	}

	return TopKBySimilarity(queryVec, providers, vecs, s.opts.TopK), true
}

// filterByRadius keeps providers within the requested radius of the named
// zip. Providers without coordinates are dropped. A zip that cannot be
// geocoded yields an empty set, which downstream answers as "no matching
// providers" rather than failing the request.
func (s *Service) filterByRadius(ctx context.Context, providers []Provider, filters QueryFilters) []Provider {
	if filters.Zip == "" {
		return providers
	}
	if s.geocoder == nil {
		return providers
	}

	lat, lon, err := s.geocoder.GeocodeZip(ctx, filters.Zip)
	if err != nil {
		log.Printf("could not geocode zip %s: %v", filters.Zip, err)
		return nil
	}

	filtered := providers[:0:0]
	for _, p := range providers {
		if p.Latitude == nil || p.Longitude == nil {
			continue
		}
		if geo.WithinRadius(lat, lon, *p.Latitude, *p.Longitude, filters.RadiusKm) {
			filtered = append(filtered, p)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].AverageTotalPayments < filtered[j].AverageTotalPayments
	})

	return filtered
}
