package engine

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy drives backoff for writes at the orchestrator boundary.
type RetryPolicy struct {
	// MaxAttempts is the number of retries after the first try.
	MaxAttempts   int           `yaml:"max_attempts"`
	InitialDelay  time.Duration `yaml:"initial_delay"`
	MaxDelay      time.Duration `yaml:"max_delay"`
	Multiplier    float64       `yaml:"multiplier"`
	JitterPercent float64       `yaml:"jitter_percent"`
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		Multiplier:    2.0,
		JitterPercent: 0.1,
	}
}

// Delay is initial * multiplier^attempt, capped at MaxDelay, before jitter.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	m := p.Multiplier
	if m <= 0 {
		m = 2.0
	}
	d := time.Duration(float64(p.InitialDelay) * math.Pow(m, float64(attempt)))
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

func (p RetryPolicy) jittered(attempt int) time.Duration {
	d := p.Delay(attempt)
	if p.JitterPercent <= 0 || d <= 0 {
		return d
	}
	offset := (rand.Float64()*2 - 1) * float64(d) * p.JitterPercent
	if d += time.Duration(offset); d < 0 {
		return 0
	}
	return d
}

// retry runs op until it succeeds, the policy is exhausted or ctx ends.
// Context errors are returned immediately and never retried.
func retry(ctx context.Context, p RetryPolicy, op func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if attempt >= p.MaxAttempts {
			return err
		}
		t := time.NewTimer(p.jittered(attempt))
		select {
		case <-ctx.Done():
			t.Stop()
			return errors.Join(err, ctx.Err())
		case <-t.C:
		}
	}
}
