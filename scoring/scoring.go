// Package scoring holds the statistical component scorers and the weighted
// importance calculator. Every function here is pure: degenerate inputs
// resolve to defined defaults instead of errors.
package scoring

import "math"

// floor keeps logarithms finite for zero or negative inputs.
const floor = 1e-6

// Clamp bounds v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FrequencyInput describes a keyword's mentions relative to its batch.
type FrequencyInput struct {
	Count        int // mentions of the keyword in the batch
	CorpusSize   int // total keyword mention slots in the batch
	TotalDocs    int // documents in the batch
	DocsWithTerm int // documents mentioning the keyword
}

// Frequency is a log-normalised TF-IDF score in [0, 100].
func Frequency(in FrequencyInput) float64 {
	if in.Count <= 0 || in.CorpusSize <= 0 {
		return 0
	}
	tf := float64(in.Count) / float64(in.CorpusSize)
	idf := math.Log(float64(in.TotalDocs+1) / float64(in.DocsWithTerm+1))
	raw := tf * idf * 1000
	return Clamp((1+math.Log(math.Max(raw, floor)))*20, 0, 100)
}

// Diversity scores the number of distinct sources against the largest
// source count seen in the batch, with diminishing returns.
func Diversity(sources, maxSources int) float64 {
	if sources <= 0 {
		return 0
	}
	normalized := float64(sources) / float64(max(maxSources, 1))
	return Clamp((1+math.Log(math.Max(normalized*10, floor)))*30, 0, 100)
}
