package filterdesign

import "github.com/cwbudde/xover-engine/dsp/biquad"

// LinkwitzRileyLP designs a lowpass Linkwitz-Riley cascade of the given
// order, constructed as two cascaded Butterworth filters of order/2. This
// produces -6.02 dB at the crossover frequency and a squared-Butterworth
// magnitude response.
//
// Order must be a positive even integer. Returns nil for invalid
// parameters (odd order, order <= 0, invalid frequency).
func LinkwitzRileyLP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 || order%2 != 0 {
		return nil
	}

	if sampleRate <= 0 || freq <= 0 || freq >= sampleRate/2 {
		return nil
	}

	halfOrder := order / 2

	bw := ButterworthLP(freq, halfOrder, sampleRate)
	if bw == nil {
		return nil
	}

	sections := make([]biquad.Coefficients, 0, 2*len(bw))
	sections = append(sections, bw...)
	sections = append(sections, bw...)

	return sections
}

// LinkwitzRileyHP designs a highpass Linkwitz-Riley cascade of the given
// order, constructed as two cascaded Butterworth filters of order/2.
//
// For orders divisible by 4 (LR4, LR8, ...) this output is in phase with
// [LinkwitzRileyLP] at the crossover and their sum is allpass. For orders
// ≡ 2 mod 4 (LR2, LR6, ...) the highpass output is 180 degrees out of
// phase at the crossover; use [LinkwitzRileyHPInverted] or check
// [LinkwitzRileyNeedsHPInvert] before summing.
func LinkwitzRileyHP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 || order%2 != 0 {
		return nil
	}

	if sampleRate <= 0 || freq <= 0 || freq >= sampleRate/2 {
		return nil
	}

	halfOrder := order / 2

	bw := ButterworthHP(freq, halfOrder, sampleRate)
	if bw == nil {
		return nil
	}

	sections := make([]biquad.Coefficients, 0, 2*len(bw))
	sections = append(sections, bw...)
	sections = append(sections, bw...)

	return sections
}

// LinkwitzRileyHPInverted designs a highpass Linkwitz-Riley cascade with
// inverted polarity, for orders ≡ 2 mod 4 where the standard HP output is
// 180 degrees out of phase with the LP at the crossover. Inverting the HP
// ensures LP + HP_inv sums to an allpass response.
func LinkwitzRileyHPInverted(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	sections := LinkwitzRileyHP(freq, order, sampleRate)
	if sections == nil {
		return nil
	}

	// Negating one section's numerator is sufficient since the gain is
	// multiplicative across the cascade.
	sections[0].B0 = -sections[0].B0
	sections[0].B1 = -sections[0].B1
	sections[0].B2 = -sections[0].B2

	return sections
}

// LinkwitzRileyNeedsHPInvert reports whether the given Linkwitz-Riley
// order requires HP polarity inversion for allpass summation with the LP
// branch: true for orders ≡ 2 mod 4 (LR2, LR6, LR10, ...).
func LinkwitzRileyNeedsHPInvert(order int) bool {
	return order > 0 && order%4 == 2
}

// NextEvenOrder rounds a requested Linkwitz-Riley order up to the next
// even value, since the family is only defined for even orders.
func NextEvenOrder(order int) int {
	if order <= 0 {
		return 2
	}

	if order%2 != 0 {
		return order + 1
	}

	return order
}
