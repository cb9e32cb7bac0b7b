package core

import "math"

const defaultEpsilon = 1e-12

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

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

// FlushDenormals converts tiny denormal-like values to exact zero.
// This can reduce denormal-related CPU slowdowns in hot DSP loops.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
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

// TimeConstantCoeff converts a time constant in milliseconds to a one-pole
// smoothing coefficient alpha = exp(-1 / (timeMs/1000 * sampleRate)).
// Times at or below 0.1 ms collapse to 0 (instantaneous), per the envelope
// follower contract used by the compressor and limiter.
func TimeConstantCoeff(timeMs, sampleRate float64) float64 {
	if timeMs <= 0.1 {
		return 0
	}

	return math.Exp(-1 / (timeMs / 1000 * sampleRate))
}

// OnePole applies a single one-pole smoothing step: state moves toward
// target by (1-coeff), and the new state is returned.
func OnePole(state, target, coeff float64) float64 {
	return coeff*state + (1-coeff)*target
}

// SoftKnee computes the quadratic soft-knee interpolation of gain reduction
// (in dB) used by the compressor's gain computer. overshoot is level-minus-
// threshold in dB; halfWidth is half the knee width in dB. Below
// -halfWidth the result is 0; above +halfWidth the result is overshoot
// itself (the caller then applies the ratio); inside the knee it is the
// continuous quadratic blend between the two.
func SoftKnee(overshoot, halfWidth float64) float64 {
	if halfWidth <= 0 {
		if overshoot <= 0 {
			return 0
		}

		return overshoot
	}

	switch {
	case overshoot <= -halfWidth:
		return 0
	case overshoot >= halfWidth:
		return overshoot
	default:
		x := overshoot + halfWidth
		return (x * x) / (4 * halfWidth)
	}
}
