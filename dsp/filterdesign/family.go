package filterdesign

import "github.com/cwbudde/xover-engine/dsp/biquad"

// Family identifies a crossover filter family.
type Family int

const (
	Butterworth Family = iota
	LinkwitzRiley
	Bessel
)

// String returns the family's display name.
func (f Family) String() string {
	switch f {
	case Butterworth:
		return "Butterworth"
	case LinkwitzRiley:
		return "LinkwitzRiley"
	case Bessel:
		return "Bessel"
	default:
		return "Unknown"
	}
}

// NormalizeOrder rounds order to a value the given family can realize:
// Linkwitz-Riley requires an even order; the other families accept any
// positive order.
func (f Family) NormalizeOrder(order int) int {
	if f == LinkwitzRiley {
		return NextEvenOrder(order)
	}

	if order <= 0 {
		return 1
	}

	return order
}

// DesignLP derives the lowpass cascade for the given family, order and
// corner frequency. The order is first normalized via NormalizeOrder.
func (f Family) DesignLP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	order = f.NormalizeOrder(order)

	switch f {
	case LinkwitzRiley:
		return LinkwitzRileyLP(freq, order, sampleRate)
	case Bessel:
		return BesselLP(freq, order, sampleRate)
	default:
		return ButterworthLP(freq, order, sampleRate)
	}
}

// DesignHP derives the highpass cascade for the given family, order and
// corner frequency, applying the Linkwitz-Riley polarity-inversion rule
// automatically so LP+HP sums flat at the crossover. The order is first
// normalized via NormalizeOrder.
func (f Family) DesignHP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	order = f.NormalizeOrder(order)

	switch f {
	case LinkwitzRiley:
		if LinkwitzRileyNeedsHPInvert(order) {
			return LinkwitzRileyHPInverted(freq, order, sampleRate)
		}

		return LinkwitzRileyHP(freq, order, sampleRate)
	case Bessel:
		return BesselHP(freq, order, sampleRate)
	default:
		return ButterworthHP(freq, order, sampleRate)
	}
}
