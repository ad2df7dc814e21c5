package recall

import (
	"math"
	"strings"
)

// termVector builds a term-frequency vector over lowercased tokens.
// Local-only ranking: no embedding service round trip.
func termVector(text string) map[string]float64 {
	vec := map[string]float64{}
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,;:!?()[]{}\"'")
		if len(tok) < 2 {
			continue
		}
		vec[tok]++
	}
	return vec
}

// cosine computes cosine similarity between two term vectors.
func cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for tok, av := range a {
		normA += av * av
		if bv, ok := b[tok]; ok {
			dot += av * bv
		}
	}
	for _, bv := range b {
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// excerpt truncates content to at most max characters, preferring a
// paragraph boundary so the cut does not land mid-sentence.
func excerpt(content string, max int) string {
	if len(content) <= max {
		return content
	}
	cut := content[:max]
	if idx := strings.LastIndex(cut, "\n\n"); idx >= max/2 {
		return strings.TrimSpace(cut[:idx]) + "..."
	}
	return cut + "..."
}
