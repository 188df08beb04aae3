package rag

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/josinaldojr/providers-rag/internal/geo"
)

// DefaultRadiusKm applies when a question names a zip code but no radius.
const DefaultRadiusKm = 40.0

var (
	zipPattern  = regexp.MustCompile(`\b\d{4,5}\b`)
	wordPattern = regexp.MustCompile(`[a-z0-9.]+`)
)

// ExtractFilters pulls structured tokens out of a free-text question:
// a DRG code (standalone number of up to three digits), a zip code
// (4-5 digit token, left-padded to five) and a radius in km (a number
// next to a radius keyword, "within 25 km").
func ExtractFilters(question string) QueryFilters {
	f := QueryFilters{RadiusKm: DefaultRadiusKm}

	lower := strings.ToLower(question)
	words := wordPattern.FindAllString(lower, -1)

	for _, w := range words {
		if len(w) <= 3 && isDigits(w) {
			n, err := strconv.Atoi(w)
			if err == nil {
				f.DRG = &n
				break
			}
		}
	}

	if m := zipPattern.FindString(question); m != "" {
		f.Zip = geo.PadZip(m)
	}

	for i, w := range words {
		v, err := strconv.ParseFloat(w, 64)
		if err != nil {
			continue
		}
		next := ""
		if i+1 < len(words) {
			next = words[i+1]
		}
		prev := ""
		if i > 0 {
			prev = words[i-1]
		}
		if strings.HasPrefix(next, "km") || strings.HasPrefix(next, "kilometer") ||
			prev == "within" || prev == "radius" {
			f.RadiusKm = v
			break
		}
	}

	return f
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
