package crossover

import (
	"github.com/cwbudde/xover-engine/dsp/biquad"
	"github.com/cwbudde/xover-engine/dsp/core"
	"github.com/cwbudde/xover-engine/dsp/filterdesign"
)

// Mode selects which cascade(s) a Band routes a sample through.
type Mode int

const (
	// Bypass passes the input through unprocessed (aside from band gain).
	Bypass Mode = iota
	// LowPass routes the input through the low-pass cascade only.
	LowPass
	// HighPass routes the input through the high-pass cascade only.
	HighPass
	// BandPass routes the input through the high-pass cascade, then the
	// low-pass cascade: y = G * LP(HP(x)).
	BandPass
)

func (m Mode) String() string {
	switch m {
	case Bypass:
		return "Bypass"
	case LowPass:
		return "LowPass"
	case HighPass:
		return "HighPass"
	case BandPass:
		return "BandPass"
	default:
		return "Unknown"
	}
}

// legalSlopes enumerates the legal crossover slopes in dB/octave, each mapping
// to a cascade order of slope/6.
var legalSlopes = [...]int{6, 12, 18, 24, 36, 48}

// SlopeToOrder converts a dB/octave slope to a filter order. Returns false
// if the slope is not one of the legal values.
func SlopeToOrder(slopeDBPerOct int) (int, bool) {
	for _, s := range legalSlopes {
		if s == slopeDBPerOct {
			return s / 6, true
		}
	}

	return 0, false
}

// OrderToSlope converts a filter order to its dB/octave slope.
func OrderToSlope(order int) int {
	return order * 6
}

// NearestLegalSlope rounds an arbitrary slope up to the next legal value,
// clamping to the table bounds.
func NearestLegalSlope(slopeDBPerOct int) int {
	for _, s := range legalSlopes {
		if slopeDBPerOct <= s {
			return s
		}
	}

	return legalSlopes[len(legalSlopes)-1]
}

const (
	minCrossoverFreq = 20.0
	maxCrossoverFreq = 20000.0
)

// Params describes a crossover band's configuration. Freq is the sole
// corner for LowPass/HighPass; for BandPass, Freq is the lower (high-pass)
// corner and FreqHigh is the upper (low-pass) corner.
type Params struct {
	Mode          Mode
	Freq          float64
	FreqHigh      float64
	Family        filterdesign.Family
	SlopeDBPerOct int
	GainDB        float64
	Enabled       bool
}

// DefaultParams returns a band configured as an enabled, flat-gain bypass.
func DefaultParams() Params {
	return Params{
		Mode:          Bypass,
		Freq:          1000,
		FreqHigh:      2000,
		Family:        filterdesign.LinkwitzRiley,
		SlopeDBPerOct: 24,
		GainDB:        0,
		Enabled:       true,
	}
}

// Band is a single output channel's crossover stage.
type Band struct {
	params     Params
	sampleRate float64
	gain       float64
	lp         *biquad.Chain
	hp         *biquad.Chain
}

// NewBand creates a crossover band for the given sample rate, defaulted to
// an enabled bypass.
func NewBand(sampleRate float64) *Band {
	b := &Band{sampleRate: sampleRate}
	_, _ = b.Configure(DefaultParams())

	return b
}

// clampFreqRange returns the legal crossover frequency range for the
// band's sample rate: [20, min(20000, fs/2 - 1)].
func (b *Band) clampFreqRange() (lo, hi float64) {
	nyquistMargin := b.sampleRate/2 - 1

	hi = maxCrossoverFreq
	if nyquistMargin < hi {
		hi = nyquistMargin
	}

	return minCrossoverFreq, hi
}

// Configure validates and clamps p, rebuilds the cascades, and commits
// them atomically. On success it returns the adopted (clamped/rounded)
// parameters. On failure (e.g. BandPass with freq >= freqHigh after
// clamping) it returns ErrInvalidMode and leaves the band unchanged.
func (b *Band) Configure(p Params) (Params, error) {
	lo, hi := b.clampFreqRange()
	p.Freq = core.Clamp(p.Freq, lo, hi)
	p.FreqHigh = core.Clamp(p.FreqHigh, lo, hi)

	order, ok := SlopeToOrder(p.SlopeDBPerOct)
	if !ok {
		order, _ = SlopeToOrder(NearestLegalSlope(p.SlopeDBPerOct))
	}

	order = p.Family.NormalizeOrder(order)
	p.SlopeDBPerOct = OrderToSlope(order)

	if p.Mode == BandPass && !(p.Freq < p.FreqHigh) {
		return b.params, ErrInvalidMode
	}

	var lp, hp []biquad.Coefficients

	switch p.Mode {
	case LowPass:
		lp = p.Family.DesignLP(p.Freq, order, b.sampleRate)
	case HighPass:
		hp = p.Family.DesignHP(p.Freq, order, b.sampleRate)
	case BandPass:
		hp = p.Family.DesignHP(p.Freq, order, b.sampleRate)
		lp = p.Family.DesignLP(p.FreqHigh, order, b.sampleRate)
	case Bypass:
		// No cascades needed.
	default:
		return b.params, ErrInvalidMode
	}

	if p.Mode == LowPass && lp == nil {
		return b.params, ErrInvalidMode
	}

	if p.Mode == HighPass && hp == nil {
		return b.params, ErrInvalidMode
	}

	if p.Mode == BandPass && (lp == nil || hp == nil) {
		return b.params, ErrInvalidMode
	}

	var lpChain, hpChain *biquad.Chain
	if lp != nil {
		lpChain = biquad.NewChain(lp)
	}

	if hp != nil {
		hpChain = biquad.NewChain(hp)
	}

	// Commit: the new cascades are fully built before any field is
	// replaced. The assignments take no lock, so they are not synchronised
	// with a ProcessSample call running on another goroutine.
	b.params = p
	b.gain = core.DBToLinear(p.GainDB)
	b.lp = lpChain
	b.hp = hpChain

	return b.params, nil
}

// ProcessSample filters one sample according to the band's mode and
// applies its gain. Disabled bands output silence.
func (b *Band) ProcessSample(x float64) float64 {
	if !b.params.Enabled {
		return 0
	}

	var y float64

	switch b.params.Mode {
	case Bypass:
		y = x
	case LowPass:
		y = b.lp.ProcessSample(x)
	case HighPass:
		y = b.hp.ProcessSample(x)
	case BandPass:
		y = b.lp.ProcessSample(b.hp.ProcessSample(x))
	}

	return b.gain * y
}

// ProcessBlock filters buf in place.
func (b *Band) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = b.ProcessSample(x)
	}
}

// Reset clears the internal filter states of both cascades.
func (b *Band) Reset() {
	if b.lp != nil {
		b.lp.Reset()
	}

	if b.hp != nil {
		b.hp.Reset()
	}
}

// Params returns the currently committed (adopted, clamped) parameters.
func (b *Band) Params() Params {
	return b.params
}

// Response returns the band's complex transfer function at freqHz,
// including gain, for whichever cascade(s) the current mode routes through.
// A disabled band has no meaningful frequency response and returns 0.
func (b *Band) Response(freqHz float64) complex128 {
	if !b.params.Enabled {
		return 0
	}

	var h complex128 = complex(b.gain, 0)

	switch b.params.Mode {
	case Bypass:
		// h already carries the band gain alone.
	case LowPass:
		h *= b.lp.Response(freqHz, b.sampleRate)
	case HighPass:
		h *= b.hp.Response(freqHz, b.sampleRate)
	case BandPass:
		h *= b.hp.Response(freqHz, b.sampleRate) * b.lp.Response(freqHz, b.sampleRate)
	}

	return h
}

// SetSampleRate updates the sample rate and rebuilds the cascades from the
// current parameters. Intended for an explicit engine-wide sample-rate
// change, never from the audio path.
func (b *Band) SetSampleRate(sampleRate float64) (Params, error) {
	b.sampleRate = sampleRate

	return b.Configure(b.params)
}
