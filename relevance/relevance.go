// Package relevance scores how central a keyword is to the text around its
// mentions.
package relevance

import (
	"context"
	"fmt"

	"keyword-trends/embedding"
)

// Neutral is returned when there is nothing to compare against.
const Neutral = 50.0

type Scorer struct {
	embedder embedding.Embedder
}

func NewScorer(e embedding.Embedder) *Scorer {
	return &Scorer{embedder: e}
}

// Score embeds keyword and snippets with the same model, averages the
// keyword-to-snippet cosine similarity and rescales [-1, 1] to [0, 100].
// No snippets yields Neutral.
func (s *Scorer) Score(ctx context.Context, keyword string, snippets []string) (float64, error) {
	if len(snippets) == 0 {
		return Neutral, nil
	}
	texts := make([]string, 0, len(snippets)+1)
	texts = append(texts, keyword)
	texts = append(texts, snippets...)

	vecs, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("relevance: embed: %w", err)
	}
	if len(vecs) != len(texts) {
		return 0, fmt.Errorf("relevance: embedder returned %d vectors for %d texts", len(vecs), len(texts))
	}

	var sum float64
	for _, v := range vecs[1:] {
		sum += embedding.Cosine(vecs[0], v)
	}
	mean := sum / float64(len(snippets))
	return Rescale(mean), nil
}

// Rescale maps a similarity in [-1, 1] onto [0, 100].
func Rescale(sim float64) float64 {
	score := (sim + 1) / 2 * 100
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	}
	return score
}
