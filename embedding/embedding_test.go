package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHash(t *testing.T) *HashEmbedder {
	t.Helper()
	h, err := NewHashEmbedder(DefaultDimension)
	require.NoError(t, err)
	return h
}

func TestHashEmbedderDeterministic(t *testing.T) {
	h := newHash(t)
	ctx := context.Background()

	a, err := h.Embed(ctx, "federal regulation of banks")
	require.NoError(t, err)
	b, err := h.Embed(ctx, "federal regulation of banks")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, DefaultDimension)
}

func TestHashEmbedderUnitLength(t *testing.T) {
	h := newHash(t)
	v, err := h.Embed(context.Background(), "semiconductor export controls")
	require.NoError(t, err)

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestHashEmbedderSimilarity(t *testing.T) {
	h := newHash(t)
	ctx := context.Background()

	kw, _ := h.Embed(ctx, "federal regulation")
	related, _ := h.Embed(ctx, "the new federal regulation on lending takes effect")
	unrelated, _ := h.Embed(ctx, "striker scores twice in cup final")

	assert.Greater(t, Cosine(kw, related), Cosine(kw, unrelated))
	assert.Greater(t, Cosine(kw, related), 0.0)
}

func TestNewHashEmbedderRejectsDimension(t *testing.T) {
	_, err := NewHashEmbedder(0)
	assert.ErrorIs(t, err, ErrDimension)
}

func TestEmbedHonoursCancellation(t *testing.T) {
	h := newHash(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Embed(ctx, "anything")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = h.EmbedBatch(ctx, []string{"a", "b"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCosineDegenerate(t *testing.T) {
	assert.Equal(t, 0.0, Cosine(nil, nil))
	assert.Equal(t, 0.0, Cosine([]float32{1, 0}, []float32{1}))
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 0}))
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2}, []float32{2, 4}), 1e-6)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-1, 0}), 1e-6)
}

func TestCachedEmbedder(t *testing.T) {
	h := newHash(t)
	c, err := NewCached(h, 8)
	require.NoError(t, err)
	ctx := context.Background()

	vecs, err := c.EmbedBatch(ctx, []string{"alpha", "beta", "alpha"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Equal(t, vecs[0], vecs[2])
	assert.Equal(t, 2, c.Len())

	direct, err := h.Embed(ctx, "beta")
	require.NoError(t, err)
	cached, err := c.Embed(ctx, "beta")
	require.NoError(t, err)
	assert.Equal(t, direct, cached)
	assert.Equal(t, h.Dimension(), c.Dimension())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}
