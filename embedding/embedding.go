// Package embedding maps text into fixed-size dense vectors.
package embedding

import (
	"context"
	"errors"
	"math"

	"github.com/viterin/vek/vek32"
)

const DefaultDimension = 256

var ErrDimension = errors.New("embedding: dimension must be positive")

// Embedder encodes text. Implementations must be deterministic and safe for
// concurrent use; returned vectors are shared and must not be modified.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// Cosine returns the cosine similarity of a and b, or 0 when either vector
// has zero length or the dimensions differ.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	na := math.Sqrt(float64(vek32.Dot(a, a)))
	nb := math.Sqrt(float64(vek32.Dot(b, b)))
	if na == 0 || nb == 0 {
		return 0
	}
	sim := float64(vek32.Dot(a, b)) / (na * nb)
	return math.Max(-1, math.Min(1, sim))
}
