package scoring

import "gonum.org/v1/gonum/stat"

// TemporalInput is a keyword's count today plus its recorded history.
type TemporalInput struct {
	Current int
	// Trailing holds the counts recorded inside the trailing window. Days
	// without a record are absent, not zero.
	Trailing []float64
	// PreviousVelocity is yesterday's velocity; nil when there is no record
	// for yesterday.
	PreviousVelocity *float64
}

type TemporalResult struct {
	Velocity     float64
	Acceleration float64
	Score        float64
}

// Velocity is the percent change of current against the trailing mean.
// A zero mean yields 100 for any mention today and 0 otherwise.
func Velocity(current, trailingMean float64) float64 {
	if trailingMean == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - trailingMean) / trailingMean * 100
}

// Temporal computes velocity, acceleration and a 0-100 score that favours
// rising and accelerating keywords. A keyword with no history scores 100.
func Temporal(in TemporalInput) TemporalResult {
	var mean float64
	if len(in.Trailing) > 0 {
		mean = stat.Mean(in.Trailing, nil)
	}
	v := Velocity(float64(in.Current), mean)

	var accel float64
	if in.PreviousVelocity != nil {
		accel = v - *in.PreviousVelocity
	}
	return TemporalResult{
		Velocity:     v,
		Acceleration: accel,
		Score:        Clamp(50+v/2+accel/5, 0, 100),
	}
}
