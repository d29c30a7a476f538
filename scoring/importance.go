package scoring

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidWeights is wrapped by Weights.Validate.
var ErrInvalidWeights = errors.New("invalid importance weights")

const weightTolerance = 0.01

// Weights for the six components. They are read-only for the duration of a
// run.
type Weights struct {
	Frequency  float64 `yaml:"frequency" json:"frequency"`
	Contextual float64 `yaml:"contextual" json:"contextual"`
	Entity     float64 `yaml:"entity" json:"entity"`
	Temporal   float64 `yaml:"temporal" json:"temporal"`
	Diversity  float64 `yaml:"diversity" json:"diversity"`
	Sentiment  float64 `yaml:"sentiment" json:"sentiment"`
}

func DefaultWeights() Weights {
	return Weights{
		Frequency:  0.25,
		Contextual: 0.20,
		Entity:     0.15,
		Temporal:   0.20,
		Diversity:  0.10,
		Sentiment:  0.10,
	}
}

func (w Weights) Sum() float64 {
	return w.Frequency + w.Contextual + w.Entity + w.Temporal + w.Diversity + w.Sentiment
}

// ComponentNames lists the components in their reporting order.
var ComponentNames = []string{"frequency", "contextual", "entity", "temporal", "diversity", "sentiment"}

// Validate requires non-negative, finite weights summing to 1. The first
// bad weight in ComponentNames order is reported.
func (w Weights) Validate() error {
	m := w.Map()
	for _, name := range ComponentNames {
		v := m[name]
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s = %v", ErrInvalidWeights, name, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: weights sum to %.4f, want 1", ErrInvalidWeights, sum)
	}
	return nil
}

// Map returns the weights keyed by component name.
func (w Weights) Map() map[string]float64 {
	return map[string]float64{
		"frequency":  w.Frequency,
		"contextual": w.Contextual,
		"entity":     w.Entity,
		"temporal":   w.Temporal,
		"diversity":  w.Diversity,
		"sentiment":  w.Sentiment,
	}
}

// Components are the six inputs, each on a 0-100 scale. Sentiment is the
// sentiment magnitude scaled by 100: strength of opinion, not its sign.
type Components struct {
	Frequency  float64 `json:"frequency"`
	Contextual float64 `json:"contextual"`
	Entity     float64 `json:"entity"`
	Temporal   float64 `json:"temporal"`
	Diversity  float64 `json:"diversity"`
	Sentiment  float64 `json:"sentiment"`
}

// Contributions returns each component multiplied by its weight.
func Contributions(c Components, w Weights) Components {
	return Components{
		Frequency:  c.Frequency * w.Frequency,
		Contextual: c.Contextual * w.Contextual,
		Entity:     c.Entity * w.Entity,
		Temporal:   c.Temporal * w.Temporal,
		Diversity:  c.Diversity * w.Diversity,
		Sentiment:  c.Sentiment * w.Sentiment,
	}
}

// Importance is the weighted sum of the components clamped to [0, 100].
func Importance(c Components, w Weights) float64 {
	p := Contributions(c, w)
	return Clamp(p.Frequency+p.Contextual+p.Entity+p.Temporal+p.Diversity+p.Sentiment, 0, 100)
}

// SentimentComponent scales a 0-1 magnitude to the 0-100 component range.
func SentimentComponent(magnitude float64) float64 {
	return Clamp(magnitude*100, 0, 100)
}
