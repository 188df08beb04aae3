package rag

import "context"

// RelevanceClient asks the external model for a binary in-domain judgment.
type RelevanceClient interface {
	ClassifyRelevance(ctx context.Context, question string) (bool, error)
}

// EmbeddingsClient converts text to a fixed-dimension vector.
type EmbeddingsClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CompletionClient generates the final answer from the question and the
// assembled provider context. lang is a two-letter hint for the answer
// language.
type CompletionClient interface {
	GenerateAnswer(ctx context.Context, question, context, lang string) (string, error)
}

// AIClient is the full external capability. A nil AIClient switches the
// pipeline to fallback mode; the decision is made once at startup.
type AIClient interface {
	RelevanceClient
	EmbeddingsClient
	CompletionClient
}
