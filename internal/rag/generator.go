package rag

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	wl "github.com/abadojack/whatlanggo"
)

const generateTimeout = 15 * time.Second

// NoMatchAnswer covers relevant questions the corpus has nothing for.
const NoMatchAnswer = "I couldn't find any relevant provider information for your query. Please try rephrasing your question about medical procedures, costs or hospital ratings."

// Generator produces the final answer: the external completion when the
// capability is available, the deterministic template otherwise or on any
// transport failure.
type Generator struct {
	ai CompletionClient
}

func NewGenerator(ai CompletionClient) *Generator {
	return &Generator{ai: ai}
}

// Answer never fails; a broken external call degrades to the template.
func (g *Generator) Answer(ctx context.Context, question, contextBlock string, scored []ScoredProvider) string {
	if g.ai != nil {
		gctx, cancel := context.WithTimeout(ctx, generateTimeout)
		defer cancel()

		txt, err := g.ai.GenerateAnswer(gctx, question, contextBlock, detectLang(question))
		if err == nil {
			if answer := strings.TrimSpace(txt); answer != "" {
				return answer
			}
		} else {
			log.Printf("answer generation failed, using template: %v", err)
		}
	}

	return FallbackAnswer(scored)
}

// FallbackAnswer is the deterministic template: the matched providers with
// their location, cost figures and rating, or the no-match text.
func FallbackAnswer(scored []ScoredProvider) string {
	if len(scored) == 0 {
		return NoMatchAnswer
	}

	var b strings.Builder
	b.WriteString("Based on the available data, here are the top providers for your query:\n\n")

	for i, s := range scored {
		p := s.Provider
		fmt.Fprintf(&b, "%d. %s (%s, %s, %s)\n", i+1, p.ProviderName, p.ProviderCity, p.ProviderState, p.ProviderZipCode)
		fmt.Fprintf(&b, "   DRG: %d, Rating: %d/10\n", p.MSDRGDefinition, p.StarRating)
		fmt.Fprintf(&b, "   Avg Total Payment: $%.2f, Avg Medicare Payment: $%.2f\n", p.AverageTotalPayments, p.AverageMedicarePayments)
	}

	return strings.TrimRight(b.String(), "\n")
}

func detectLang(s string) string {
	info := wl.Detect(s)
	switch wl.LangToString(info.Lang) {
	case "spa":
		return "es"
	case "por":
		return "pt"
	default:
		return "en"
	}
}
