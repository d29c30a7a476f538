package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestFrequency(t *testing.T) {
	tests := []struct {
		name string
		in   FrequencyInput
		want float64
	}{
		{name: "zero count", in: FrequencyInput{Count: 0, CorpusSize: 100, TotalDocs: 10, DocsWithTerm: 0}, want: 0},
		{name: "zero corpus", in: FrequencyInput{Count: 5, CorpusSize: 0, TotalDocs: 10, DocsWithTerm: 2}, want: 0},
		{name: "in every document", in: FrequencyInput{Count: 10, CorpusSize: 100, TotalDocs: 10, DocsWithTerm: 10}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Frequency(tt.in))
		})
	}
}

func TestFrequencyFormula(t *testing.T) {
	in := FrequencyInput{Count: 45, CorpusSize: 900, TotalDocs: 25, DocsWithTerm: 18}
	tf := 45.0 / 900.0
	idf := math.Log(26.0 / 19.0)
	want := (1 + math.Log(tf*idf*1000)) * 20

	assert.InDelta(t, want, Frequency(in), 1e-9)
}

func TestFrequencyBounded(t *testing.T) {
	huge := Frequency(FrequencyInput{Count: 1_000_000, CorpusSize: 1_000_000, TotalDocs: 1_000_000, DocsWithTerm: 1})
	assert.Equal(t, 100.0, huge)

	rare := Frequency(FrequencyInput{Count: 1, CorpusSize: 1_000_000, TotalDocs: 2, DocsWithTerm: 2})
	assert.GreaterOrEqual(t, rare, 0.0)
}

func TestDiversity(t *testing.T) {
	assert.Equal(t, 0.0, Diversity(0, 5))

	// a keyword seen in every source the batch knows of
	top := Diversity(6, 6)
	assert.InDelta(t, (1+math.Log(10))*30, top, 1e-9)

	// diminishing returns
	low, mid := Diversity(1, 6), Diversity(3, 6)
	assert.Less(t, low, mid)
	assert.Less(t, mid, top)
	assert.Less(t, mid-low, (top-low)*0.8)

	// zero ceiling is treated as one
	assert.InDelta(t, Diversity(1, 1), Diversity(1, 0), 1e-12)
}

func TestVelocity(t *testing.T) {
	assert.Equal(t, 0.0, Velocity(0, 0))
	assert.False(t, math.IsNaN(Velocity(0, 0)))
	assert.Equal(t, 100.0, Velocity(3, 0))
	assert.InDelta(t, 50.0, Velocity(45, 30), 1e-9)
	assert.InDelta(t, -50.0, Velocity(15, 30), 1e-9)
}

func TestTemporalScenario(t *testing.T) {
	trailing := []float64{30, 30, 30, 30, 30, 30, 30}
	res := Temporal(TemporalInput{Current: 45, Trailing: trailing, PreviousVelocity: ptr(20)})

	assert.InDelta(t, 50.0, res.Velocity, 1e-9)
	assert.InDelta(t, 30.0, res.Acceleration, 1e-9)
	assert.InDelta(t, 81.0, res.Score, 1e-9)
}

func TestTemporalBrandNew(t *testing.T) {
	res := Temporal(TemporalInput{Current: 1})
	assert.Equal(t, 100.0, res.Velocity)
	assert.Equal(t, 0.0, res.Acceleration)
	assert.Equal(t, 100.0, res.Score)
}

func TestTemporalSilent(t *testing.T) {
	res := Temporal(TemporalInput{Current: 0, Trailing: []float64{0, 0}})
	assert.Equal(t, 0.0, res.Velocity)
	assert.Equal(t, 50.0, res.Score)
}

func TestTemporalFalling(t *testing.T) {
	res := Temporal(TemporalInput{Current: 1, Trailing: []float64{100}, PreviousVelocity: ptr(100)})
	assert.InDelta(t, -99.0, res.Velocity, 1e-9)
	assert.Equal(t, 0.0, res.Score)
}

func TestWeights(t *testing.T) {
	w := DefaultWeights()
	require.NoError(t, w.Validate())
	assert.InDelta(t, 1.0, w.Sum(), 1e-12)

	bad := w
	bad.Frequency = 0.5
	assert.ErrorIs(t, bad.Validate(), ErrInvalidWeights)

	neg := w
	neg.Frequency, neg.Contextual = -0.05, 0.5
	assert.ErrorIs(t, neg.Validate(), ErrInvalidWeights)

	nan := w
	nan.Entity = math.NaN()
	assert.ErrorIs(t, nan.Validate(), ErrInvalidWeights)

	several := w
	several.Sentiment, several.Contextual, several.Temporal = -1, math.Inf(1), -2
	for i := 0; i < 20; i++ {
		err := several.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "contextual")
	}
}

func TestImportance(t *testing.T) {
	w := DefaultWeights()

	all := Components{100, 100, 100, 100, 100, 100}
	assert.InDelta(t, 100.0, Importance(all, w), 1e-9)
	assert.Equal(t, 0.0, Importance(Components{}, w))

	c := Components{Frequency: 40, Contextual: 60, Entity: 85, Temporal: 81, Diversity: 70, Sentiment: 30}
	want := 40*0.25 + 60*0.20 + 85*0.15 + 81*0.20 + 70*0.10 + 30*0.10
	assert.InDelta(t, want, Importance(c, w), 1e-9)

	over := Components{Frequency: 1000}
	assert.Equal(t, 100.0, Importance(over, w))
}

func TestImportanceComponentwise(t *testing.T) {
	w := DefaultWeights()
	base := Components{50, 50, 50, 50, 50, 50}
	for name, bump := range map[string]Components{
		"frequency":  {60, 50, 50, 50, 50, 50},
		"contextual": {50, 60, 50, 50, 50, 50},
		"entity":     {50, 50, 60, 50, 50, 50},
		"temporal":   {50, 50, 50, 60, 50, 50},
		"diversity":  {50, 50, 50, 50, 60, 50},
		"sentiment":  {50, 50, 50, 50, 50, 60},
	} {
		delta := Importance(bump, w) - Importance(base, w)
		assert.InDelta(t, 10*w.Map()[name], delta, 1e-9, name)
	}
}

func TestSentimentComponent(t *testing.T) {
	assert.Equal(t, 0.0, SentimentComponent(0))
	assert.InDelta(t, 55.0, SentimentComponent(0.55), 1e-9)
	assert.Equal(t, 100.0, SentimentComponent(1.2))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(math.NaN(), 0, 100))
	assert.Equal(t, 100.0, Clamp(math.Inf(1), 0, 100))
	assert.Equal(t, 0.0, Clamp(math.Inf(-1), 0, 100))
}
