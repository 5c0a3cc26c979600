// Package series computes statistics of a power time series, such as the
// frequency-integrated output of a waterfall.
package series

import (
	"math"

	"github.com/cwbudde/algo-waterfall/dsp/core"
)

// Stats holds time-series statistics. Power values are linear.
//
//nolint:revive
type Stats struct {
	Length   int
	Mean     float64
	Mean_dB  float64
	Max      float64
	MaxPos   int
	Min      float64
	MinPos   int
	Variance float64
	StdDev   float64
	Skewness float64
	Kurtosis float64 // excess kurtosis
	// ModulationIndex is StdDev / Mean, the usual scintillation measure.
	ModulationIndex float64
}

// Calculate computes all statistics in a single pass using Welford's online
// algorithm for the higher-order moments.
func Calculate(power []float64) Stats {
	n := len(power)
	if n == 0 {
		return Stats{Mean_dB: math.Inf(-1)}
	}

	s := Stats{
		Length: n,
		Max:    power[0],
		Min:    power[0],
	}
	for i, x := range power {
		if x > s.Max {
			s.Max = x
			s.MaxPos = i
		}
		if x < s.Min {
			s.Min = x
			s.MinPos = i
		}
	}

	s.Mean, s.Variance, s.Skewness, s.Kurtosis = Moments(power)
	s.Mean_dB = core.LinearPowerToDB(s.Mean)
	s.StdDev = math.Sqrt(s.Variance)
	if s.Mean != 0 {
		s.ModulationIndex = s.StdDev / s.Mean
	}
	return s
}

// Moments returns the mean, population variance, skewness and excess
// kurtosis of a power time series in one pass over the samples. Skewness
// and kurtosis are zero for a constant series.
func Moments(power []float64) (mean, variance, skewness, kurtosis float64) {
	n := len(power)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var m2, m3, m4 float64

	for i, x := range power {
		ni := float64(i + 1)
		delta := x - mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(i)

		// M4 must be updated before M3, and M3 before M2.
		m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*m2 - 4*deltaN*m3
		m3 += term1*deltaN*(float64(i)-1) - 3*deltaN*m2
		m2 += term1
		mean += deltaN
	}

	nf := float64(n)

	variance = m2 / nf
	if variance > 0 {
		skewness = (m3 / nf) / (variance * math.Sqrt(variance))
		kurtosis = (m4/nf)/(variance*variance) - 3
	}

	return mean, variance, skewness, kurtosis
}
