package core

import "math"

const defaultEpsilon = 1e-12

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// Arange returns evenly spaced values in the half-open interval [start, stop).
//
// The length is ceil((stop-start)/step) and element i is start + i*step, so a
// negative step yields a descending sequence. Because the length is derived
// from a floating-point quotient, a stop that lands on a step boundary can
// gain or lose the final element depending on rounding. Returns nil for an
// empty interval or a zero, NaN or infinite step.
func Arange(start, stop, step float64) []float64 {
	if step == 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return nil
	}

	span := math.Ceil((stop - start) / step)
	if !(span > 0) || math.IsInf(span, 0) {
		return nil
	}

	n := int(span)
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}

	return out
}

// DBPowerToLinear converts dB to linear power (10*log10 convention).
func DBPowerToLinear(db float64) float64 {
	return math.Pow(10, db/10)
}

// LinearPowerToDB converts linear power to dB (10*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearPowerToDB(power float64) float64 {
	if power < 0 {
		return math.NaN()
	}

	if power == 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(power)
}
