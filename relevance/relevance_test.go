package relevance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyword-trends/embedding"
)

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("boom")
}

func (failingEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("boom")
}

func (failingEmbedder) Dimension() int { return 1 }

func newScorer(t *testing.T) *Scorer {
	t.Helper()
	h, err := embedding.NewHashEmbedder(embedding.DefaultDimension)
	require.NoError(t, err)
	return NewScorer(h)
}

func TestScoreNoSnippets(t *testing.T) {
	s := newScorer(t)
	score, err := s.Score(context.Background(), "tariffs", nil)
	require.NoError(t, err)
	assert.Equal(t, Neutral, score)
}

func TestScoreRanksContext(t *testing.T) {
	s := newScorer(t)
	ctx := context.Background()

	onTopic, err := s.Score(ctx, "interest rates", []string{
		"the central bank raised interest rates again",
		"interest rates are expected to stay high",
	})
	require.NoError(t, err)
	offTopic, err := s.Score(ctx, "interest rates", []string{
		"the goalkeeper saved a late penalty",
	})
	require.NoError(t, err)

	assert.Greater(t, onTopic, offTopic)
	assert.Greater(t, onTopic, Neutral)
	assert.LessOrEqual(t, onTopic, 100.0)
	assert.GreaterOrEqual(t, offTopic, 0.0)
}

func TestScoreEmbedFailure(t *testing.T) {
	_, err := NewScorer(failingEmbedder{}).Score(context.Background(), "x", []string{"x"})
	assert.Error(t, err)
}

func TestRescale(t *testing.T) {
	assert.Equal(t, 0.0, Rescale(-1))
	assert.Equal(t, 50.0, Rescale(0))
	assert.Equal(t, 100.0, Rescale(1))
	assert.Equal(t, 100.0, Rescale(1.5))
}
