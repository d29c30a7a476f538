package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const (
	tokenWeight  = 0.6
	ngramWeight  = 0.4
	tokenProbes  = 8
	ngramProbes  = 4
	ngramSize    = 3
	minTokenSize = 2
)

// HashEmbedder is a local feature-hashing embedder over word tokens and
// character trigrams. It needs no model files, so it cannot fail to load.
type HashEmbedder struct {
	dimension int
}

func NewHashEmbedder(dimension int) (*HashEmbedder, error) {
	if dimension <= 0 {
		return nil, ErrDimension
	}
	return &HashEmbedder{dimension: dimension}, nil
}

func (h *HashEmbedder) Dimension() int { return h.dimension }

func (h *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h.embed(text), nil
}

func (h *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = h.embed(text)
	}
	return out, nil
}

func (h *HashEmbedder) embed(text string) []float32 {
	vec := make([]float32, h.dimension)
	tokens := tokenize(text)
	h.addFeatures(vec, tokens, tokenWeight, tokenProbes)
	h.addFeatures(vec, trigrams(tokens), ngramWeight, ngramProbes)
	normalize(vec)
	return vec
}

func (h *HashEmbedder) addFeatures(vec []float32, feats []string, weight float64, probes int) {
	if len(feats) == 0 {
		return
	}
	w := float32(weight / math.Sqrt(float64(len(feats))))
	for _, f := range feats {
		sum := fnvHash(f)
		for p := 0; p < probes; p++ {
			mixed := mix(sum, uint64(p))
			idx := int(mixed % uint64(h.dimension))
			if mixed>>63 == 1 {
				vec[idx] -= w
			} else {
				vec[idx] += w
			}
		}
	}
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= minTokenSize {
			out = append(out, f)
		}
	}
	return out
}

// trigrams are taken per token with boundary markers so that inflected
// forms of a word stay close.
func trigrams(tokens []string) []string {
	var grams []string
	for _, tok := range tokens {
		r := []rune("<" + tok + ">")
		for i := 0; i+ngramSize <= len(r); i++ {
			grams = append(grams, string(r[i:i+ngramSize]))
		}
	}
	return grams
}

func fnvHash(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// mix is the splitmix64 finalizer, used to derive independent probes.
func mix(x, salt uint64) uint64 {
	x += 0x9e3779b97f4a7c15 * (salt + 1)
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range vec {
		vec[i] *= inv
	}
}
