package engine

import (
	"errors"
	"fmt"
	"runtime"

	"keyword-trends/scoring"
	"keyword-trends/snippet"
	"keyword-trends/timeseries"
)

// ErrInvalidOptions is wrapped by Options.Validate.
var ErrInvalidOptions = errors.New("invalid engine options")

type Options struct {
	Weights scoring.Weights
	// GroupWeights optionally overrides Weights for individual groups.
	GroupWeights      map[string]scoring.Weights
	TrailingDays      int
	SnippetWindow     int
	MaxMentions       int
	MaxContentIDs     int
	EmergingThreshold float64
	TrendTolerance    float64
	Workers           int
	Retry             RetryPolicy
}

func DefaultOptions() Options {
	return Options{
		Weights:           scoring.DefaultWeights(),
		TrailingDays:      7,
		SnippetWindow:     snippet.DefaultWindow,
		MaxMentions:       snippet.DefaultMax,
		MaxContentIDs:     50,
		EmergingThreshold: timeseries.DefaultEmergingThreshold,
		TrendTolerance:    timeseries.DefaultTolerance,
		Workers:           runtime.NumCPU(),
		Retry:             DefaultRetryPolicy(),
	}
}

func (o Options) Validate() error {
	if err := o.Weights.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	for group, w := range o.GroupWeights {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("%w: group %q: %w", ErrInvalidOptions, group, err)
		}
	}
	switch {
	case o.TrailingDays <= 0:
		return fmt.Errorf("%w: trailing days must be positive", ErrInvalidOptions)
	case o.SnippetWindow <= 0:
		return fmt.Errorf("%w: snippet window must be positive", ErrInvalidOptions)
	case o.MaxMentions <= 0:
		return fmt.Errorf("%w: max mentions must be positive", ErrInvalidOptions)
	case o.MaxContentIDs <= 0:
		return fmt.Errorf("%w: max content ids must be positive", ErrInvalidOptions)
	case o.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidOptions)
	case o.TrendTolerance < 0:
		return fmt.Errorf("%w: trend tolerance must not be negative", ErrInvalidOptions)
	case o.Retry.MaxAttempts < 0:
		return fmt.Errorf("%w: retry attempts must not be negative", ErrInvalidOptions)
	}
	return nil
}

// WeightsFor returns the group's override when one exists, the defaults
// otherwise.
func (o Options) WeightsFor(groupID string) scoring.Weights {
	if w, ok := o.GroupWeights[groupID]; ok {
		return w
	}
	return o.Weights
}

func (o Options) seriesOptions() timeseries.Options {
	return timeseries.Options{
		EmergingThreshold: o.EmergingThreshold,
		Tolerance:         o.TrendTolerance,
	}
}
