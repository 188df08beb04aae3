package rag

import (
	"context"
	"log"
	"strings"
	"time"
)

// Refusal is returned verbatim for every question that is not about
// healthcare providers, costs or quality.
const Refusal = "I can only help with hospital pricing and quality information. Please ask about medical procedures, costs or hospital ratings."

// healthcareKeywords drives the fallback relevance judgment. Tuning value,
// not an invariant.
var healthcareKeywords = []string{
	"hospital", "medical", "doctor", "surgery", "treatment", "procedure",
	"health", "medicine", "patient", "clinic", "provider", "rating",
	"cost", "payment", "diagnosis", "disease", "heart", "cardiac",
	"cancer", "emergency", "specialist", "nurse", "drg",
}

const classifyTimeout = 8 * time.Second

// Classifier decides whether a question is in-domain before any retrieval
// work is spent. With an AI capability it asks for a binary judgment and
// fails closed on malformed output; without one, or when the call fails,
// it falls back to keyword matching.
type Classifier struct {
	ai RelevanceClient
}

func NewClassifier(ai RelevanceClient) *Classifier {
	return &Classifier{ai: ai}
}

func (c *Classifier) Relevant(ctx context.Context, question string) bool {
	q := strings.TrimSpace(question)
	if q == "" {
		return false
	}

	if c.ai != nil {
		cctx, cancel := context.WithTimeout(ctx, classifyTimeout)
		defer cancel()

		relevant, err := c.ai.ClassifyRelevance(cctx, q)
		if err == nil {
			return relevant
		}
		log.Printf("relevance check failed, using keywords: %v", err)
	}

	return ContainsHealthcareKeyword(q)
}

// ContainsHealthcareKeyword reports whether the question mentions any
// domain keyword, case-insensitively.
func ContainsHealthcareKeyword(question string) bool {
	q := strings.ToLower(question)
	for _, kw := range healthcareKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
