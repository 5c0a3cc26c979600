package spectrum

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-waterfall/dsp/core"
	"gonum.org/v1/gonum/floats"
)

var (
	errEmpty          = errors.New("spectrum must not be empty")
	errLengthMismatch = errors.New("power and frequency axes must have the same length")
)

// Stats holds statistics of a power spectrum.
//
//nolint:revive
type Stats struct {
	BinCount int
	Sum      float64
	Mean     float64
	Mean_dB  float64
	Max      float64
	Max_dB   float64
	MaxBin   int
	MaxFreq  float64 // frequency of the strongest channel
	Min      float64
	Min_dB   float64
	MinBin   int
	MinFreq  float64
	// PeakToMean_dB is the peak power relative to the mean power.
	PeakToMean_dB float64
	// Spectral shape descriptors
	Centroid  float64 // power-weighted mean frequency
	Spread    float64 // power-weighted standard deviation around the centroid
	Flatness  float64 // geometric / arithmetic mean, 0..1
	Bandwidth float64 // 3 dB (half power) width around the peak
}

// Calculate computes all statistics of power sampled at freqs.
func Calculate(power, freqs []float64) (Stats, error) {
	if err := validate(power, freqs); err != nil {
		return Stats{}, err
	}

	var s Stats
	s.BinCount = len(power)
	s.Sum = floats.Sum(power)
	s.Mean = s.Sum / float64(len(power))
	s.Mean_dB = core.LinearPowerToDB(s.Mean)

	s.MaxBin = floats.MaxIdx(power)
	s.Max = power[s.MaxBin]
	s.Max_dB = core.LinearPowerToDB(s.Max)
	s.MaxFreq = freqs[s.MaxBin]

	s.MinBin = floats.MinIdx(power)
	s.Min = power[s.MinBin]
	s.Min_dB = core.LinearPowerToDB(s.Min)
	s.MinFreq = freqs[s.MinBin]

	if s.Mean > 0 {
		s.PeakToMean_dB = core.LinearPowerToDB(s.Max / s.Mean)
	}

	s.Centroid = centroid(power, freqs, s.Sum)
	s.Spread = spread(power, freqs, s.Centroid, s.Sum)
	s.Flatness = flatness(power)
	s.Bandwidth = bandwidth(power, freqs, s.MaxBin)

	return s, nil
}

func validate(power, freqs []float64) error {
	if len(power) == 0 {
		return errEmpty
	}
	if len(power) != len(freqs) {
		return fmt.Errorf("%w: %d != %d", errLengthMismatch, len(power), len(freqs))
	}
	return nil
}

// Centroid returns the power-weighted mean frequency.
//
//	centroid = sum(f_i * P_i) / sum(P_i)
func Centroid(power, freqs []float64) (float64, error) {
	if err := validate(power, freqs); err != nil {
		return 0, err
	}
	return centroid(power, freqs, floats.Sum(power)), nil
}

func centroid(power, freqs []float64, sum float64) float64 {
	if sum == 0 {
		return 0
	}
	return floats.Dot(freqs, power) / sum
}

func spread(power, freqs []float64, cent, sum float64) float64 {
	if len(power) < 2 || sum == 0 {
		return 0
	}
	weightedSqSum := 0.0
	for i, p := range power {
		diff := freqs[i] - cent
		weightedSqSum += diff * diff * p
	}
	return math.Sqrt(weightedSqSum / sum)
}

// Flatness returns the spectral flatness (Wiener entropy) in the range 0..1.
// Any zero channel makes the geometric mean, and so the flatness, zero.
func Flatness(power []float64) float64 {
	return flatness(power)
}

func flatness(power []float64) float64 {
	n := len(power)
	if n == 0 {
		return 0
	}

	sumLog := 0.0
	for _, p := range power {
		if p <= 0 {
			return 0
		}
		sumLog += math.Log(p)
	}

	mean := floats.Sum(power) / float64(n)
	return math.Exp(sumLog/float64(n)) / mean
}

// Bandwidth returns the width between the half-power points around the
// strongest channel, interpolating linearly between channels. The result
// is non-negative for both ascending and descending axes.
func Bandwidth(power, freqs []float64) (float64, error) {
	if err := validate(power, freqs); err != nil {
		return 0, err
	}
	return bandwidth(power, freqs, floats.MaxIdx(power)), nil
}

func bandwidth(power, freqs []float64, peakBin int) float64 {
	n := len(power)
	if n < 2 || power[peakBin] <= 0 {
		return 0
	}

	threshold := power[peakBin] / 2

	lower := freqs[0]
	for i := peakBin; i >= 1; i-- {
		if power[i-1] <= threshold && power[i] > threshold {
			lower = interpFreq(freqs[i-1], freqs[i], power[i-1], power[i], threshold)
			break
		}
	}

	upper := freqs[n-1]
	for i := peakBin; i < n-1; i++ {
		if power[i+1] <= threshold && power[i] > threshold {
			upper = interpFreq(freqs[i], freqs[i+1], power[i], power[i+1], threshold)
			break
		}
	}

	return math.Abs(upper - lower)
}

// interpFreq finds the frequency between fa and fb where power crosses
// threshold.
func interpFreq(fa, fb, pa, pb, threshold float64) float64 {
	denom := pb - pa
	if denom == 0 {
		return (fa + fb) / 2
	}
	t := (threshold - pa) / denom
	return fa + t*(fb-fa)
}
