package rag

import (
	"fmt"
	"strings"
)

const (
	// NoProvidersMarker replaces an empty context block so downstream
	// generation always has defined input.
	NoProvidersMarker = "No relevant providers found."

	maxContextChars = 4000
)

// AssembleContext renders the selected providers into the context block of
// the generation prompt: one numbered entry per provider in descending
// score order, capped at maxContextChars. Entries that would cross the cap
// are dropped whole so the block never ends mid-line.
func AssembleContext(scored []ScoredProvider) string {
	if len(scored) == 0 {
		return NoProvidersMarker
	}

	var b strings.Builder
	b.WriteString("Relevant providers:\n")

	for i, s := range scored {
		p := s.Provider
		entry := fmt.Sprintf(
			"%d. %s (%s, %s, %s)\n   DRG: %d, Rating: %d/10\n   Avg Covered Charge: $%.2f, Avg Medicare Payment: $%.2f\n",
			i+1,
			p.ProviderName,
			p.ProviderCity,
			p.ProviderState,
			p.ProviderZipCode,
			p.MSDRGDefinition,
			p.StarRating,
			p.AverageCoveredCharges,
			p.AverageMedicarePayments,
		)
		if b.Len()+len(entry) > maxContextChars {
			break
		}
		b.WriteString(entry)
	}

	return strings.TrimRight(b.String(), "\n")
}
