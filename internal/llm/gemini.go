package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/josinaldojr/providers-rag/internal/rag"
	"google.golang.org/genai"
)

const (
	embeddingModel = "models/text-embedding-004"
	ragChatModel   = "gemini-2.5-flash"
	embedDim       = 768
)

const classifySystemPrompt = `You are a filter that determines if a user question is related to healthcare, medical procedures, hospital information, medical costs, or provider ratings.

Return only 'YES' if the question is about:
- Medical procedures, treatments, or surgeries
- Hospital information, ratings, or quality
- Healthcare costs, pricing, or payments
- Provider comparisons or recommendations
- Medical conditions or diagnoses
- Healthcare facility locations or services

Return only 'NO' for any non-medical topic such as weather, sports, politics, technology, entertainment, food or travel.

Respond with only 'YES' or 'NO'.`

const answerSystemPrompt = `You are a helpful healthcare information assistant. Provide concise, accurate information about providers based on the data provided.
Focus on ratings, costs, and location information. Keep responses brief and informative.
Answer ONLY from the provided provider data; if it does not contain the answer, say so.
If the user provides a DRG code, use it to narrow down the relevant providers.`

type GeminiClient struct {
	client *genai.Client
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing Gemini API key")
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiClient{client: c}, nil
}

// ClassifyRelevance asks the model for a binary in-domain judgment.
// Anything other than a clear YES counts as not relevant.
func (g *GeminiClient) ClassifyRelevance(ctx context.Context, question string) (bool, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.Text(classifySystemPrompt)[0],
		Temperature:       genai.Ptr(float32(0)),
	}

	resp, err := g.client.Models.GenerateContent(ctx, ragChatModel, genai.Text(question), cfg)
	if err != nil {
		return false, fmt.Errorf("gemini classify error: %w", err)
	}
	if resp == nil {
		return false, fmt.Errorf("empty response from gemini")
	}

	verdict := strings.ToUpper(strings.TrimSpace(resp.Text()))
	return verdict == "YES", nil
}

func (g *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	clean := normalizeWhitespace(text)
	if clean == "" {
		return nil, fmt.Errorf("empty text for embedding")
	}

	resp, err := g.client.Models.EmbedContent(
		ctx,
		embeddingModel,
		genai.Text(clean),
		&genai.EmbedContentConfig{
			OutputDimensionality: genai.Ptr(int32(embedDim)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini embed error: %w", err)
	}

	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	values := resp.Embeddings[0].Values
	if len(values) != embedDim {
		return nil, fmt.Errorf("unexpected embedding size %d (expected %d)", len(values), embedDim)
	}

	out := make([]float32, embedDim)
	copy(out, values)
	return out, nil
}

// GenerateAnswer builds the instruction prompt around the question and the
// assembled provider context and returns the model text verbatim (trimmed).
func (g *GeminiClient) GenerateAnswer(ctx context.Context, question, contextBlock, lang string) (string, error) {
	target := map[string]string{
		"en": "English",
		"es": "Spanish",
		"pt": "Brazilian Portuguese",
	}[lang]
	if target == "" {
		target = "English"
	}

	sys := answerSystemPrompt + "\nAnswer in " + target + "."

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.Text(sys)[0],
	}

	userContent := fmt.Sprintf(
		"Context:\n%s\n\nQuestion: %s",
		contextBlock,
		strings.TrimSpace(question),
	)

	resp, err := g.client.Models.GenerateContent(ctx, ragChatModel, genai.Text(userContent), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generateContent error: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("empty response from gemini")
	}

	txt := strings.TrimSpace(resp.Text())
	if txt == "" {
		return "", fmt.Errorf("model returned empty text")
	}

	return txt, nil
}

// -------- helpers --------

func normalizeWhitespace(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
			if !space {
				b.WriteRune(' ')
				space = true
			}
		} else {
			b.WriteRune(r)
			space = false
		}
	}
	return b.String()
}

var _ rag.AIClient = (*GeminiClient)(nil)
