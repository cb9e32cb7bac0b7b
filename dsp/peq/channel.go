package peq

import (
	"github.com/cwbudde/xover-engine/dsp/biquad"
	"github.com/cwbudde/xover-engine/dsp/core"
	"github.com/cwbudde/xover-engine/dsp/filterdesign"
)

// NumBands is the fixed number of PEQ bands per output channel.
const NumBands = 5

// Kind selects a PEQ band's filter response.
type Kind int

const (
	Bell Kind = iota
	LowShelf
	HighShelf
	LowPass
	HighPass
	AllPass
	Notch
	BandPass
)

func (k Kind) String() string {
	switch k {
	case Bell:
		return "Bell"
	case LowShelf:
		return "LowShelf"
	case HighShelf:
		return "HighShelf"
	case LowPass:
		return "LowPass"
	case HighPass:
		return "HighPass"
	case AllPass:
		return "AllPass"
	case Notch:
		return "Notch"
	case BandPass:
		return "BandPass"
	default:
		return "Unknown"
	}
}

const (
	minFreq  = 20.0
	maxFreq  = 20000.0
	minGain  = -12.0
	maxGain  = 12.0
	minQ     = 0.1
	maxQ     = 10.0
	maxPreDb = 24.0
	minPreDb = -24.0
)

// BandParams describes a single PEQ band's configuration.
type BandParams struct {
	Kind    Kind
	Freq    float64
	GainDB  float64
	Q       float64
	Enabled bool
}

// DefaultBandParams returns a disabled, unity bell band at 1 kHz.
func DefaultBandParams() BandParams {
	return BandParams{
		Kind:    Bell,
		Freq:    1000,
		GainDB:  0,
		Q:       1,
		Enabled: false,
	}
}

type band struct {
	params  BandParams
	section *biquad.Section
}

// Channel is a fixed five-band PEQ processor for one output channel.
type Channel struct {
	bands      [NumBands]band
	preGain    float64
	sampleRate float64
}

// NewChannel creates a PEQ channel for the given sample rate with all
// bands disabled and unity pre-gain.
func NewChannel(sampleRate float64) *Channel {
	c := &Channel{sampleRate: sampleRate, preGain: 1}
	for i := range c.bands {
		c.bands[i].params = DefaultBandParams()
		c.bands[i].section = biquad.NewSection(biquad.Coefficients{B0: 1})
	}

	return c
}

// freqRange returns the legal PEQ frequency range for the channel's sample
// rate: [20, min(20000, fs/2 - 1)].
func (c *Channel) freqRange() (lo, hi float64) {
	nyquistMargin := c.sampleRate/2 - 1

	hi = maxFreq
	if nyquistMargin < hi {
		hi = nyquistMargin
	}

	return minFreq, hi
}

// ConfigureBand validates, clamps, and commits params for band index b,
// rebuilding its biquad coefficients. Returns the adopted parameters.
// Returns InvalidBand if b is out of [0, NumBands).
func (c *Channel) ConfigureBand(b int, params BandParams) (BandParams, error) {
	if b < 0 || b >= NumBands {
		return BandParams{}, ErrInvalidBand
	}

	lo, hi := c.freqRange()
	params.Freq = core.Clamp(params.Freq, lo, hi)
	params.GainDB = core.Clamp(params.GainDB, minGain, maxGain)
	params.Q = core.Clamp(params.Q, minQ, maxQ)

	var coeffs biquad.Coefficients

	switch params.Kind {
	case Bell:
		coeffs = filterdesign.Peak(params.Freq, params.GainDB, params.Q, c.sampleRate)
	case LowShelf:
		coeffs = filterdesign.LowShelf(params.Freq, params.GainDB, params.Q, c.sampleRate)
	case HighShelf:
		coeffs = filterdesign.HighShelf(params.Freq, params.GainDB, params.Q, c.sampleRate)
	case LowPass:
		coeffs = filterdesign.Lowpass(params.Freq, params.Q, c.sampleRate)
	case HighPass:
		coeffs = filterdesign.Highpass(params.Freq, params.Q, c.sampleRate)
	case AllPass:
		coeffs = filterdesign.Allpass(params.Freq, params.Q, c.sampleRate)
	case Notch:
		coeffs = filterdesign.Notch(params.Freq, params.Q, c.sampleRate)
	case BandPass:
		coeffs = filterdesign.Bandpass(params.Freq, params.Q, c.sampleRate)
	default:
		return c.bands[b].params, ErrInvalidParameter
	}

	if coeffs == (biquad.Coefficients{}) {
		return c.bands[b].params, ErrInvalidParameter
	}

	c.bands[b].params = params
	c.bands[b].section.SetCoefficients(coeffs)

	return params, nil
}

// BandParams returns band b's currently committed parameters.
func (c *Channel) BandParams(b int) (BandParams, error) {
	if b < 0 || b >= NumBands {
		return BandParams{}, ErrInvalidBand
	}

	return c.bands[b].params, nil
}

// SetPreGain sets the channel's input trim in dB, clamped to [-24, 24].
func (c *Channel) SetPreGain(db float64) {
	db = core.Clamp(db, minPreDb, maxPreDb)
	c.preGain = core.DBToLinear(db)
}

// PreGainDB returns the channel's currently committed input trim in dB.
func (c *Channel) PreGainDB() float64 {
	return core.LinearToDB(c.preGain)
}

// ProcessSample runs x through pre-gain and the five enabled bands, in
// strict index order. Disabled bands are skipped, not processed as an
// identity filter.
func (c *Channel) ProcessSample(x float64) float64 {
	y := x * c.preGain

	for i := range c.bands {
		if !c.bands[i].params.Enabled {
			continue
		}

		y = c.bands[i].section.ProcessSample(y)
	}

	return y
}

// ProcessBlock runs buf in place through ProcessSample.
func (c *Channel) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = c.ProcessSample(x)
	}
}

// ResetBand clears band b's filter state only; its coefficients survive.
func (c *Channel) ResetBand(b int) error {
	if b < 0 || b >= NumBands {
		return ErrInvalidBand
	}

	c.bands[b].section.Reset()

	return nil
}

// Reset clears all five bands' filter states; coefficients survive.
func (c *Channel) Reset() {
	for i := range c.bands {
		c.bands[i].section.Reset()
	}
}

// Response returns the channel's complex transfer function at freqHz,
// including pre-gain, as the product of every enabled band's response in
// index order. Disabled bands are skipped, matching ProcessSample.
func (c *Channel) Response(freqHz float64) complex128 {
	h := complex(c.preGain, 0)

	for i := range c.bands {
		if !c.bands[i].params.Enabled {
			continue
		}

		h *= c.bands[i].section.Response(freqHz, c.sampleRate)
	}

	return h
}

// SetSampleRate updates the sample rate and rebuilds every band's
// coefficients from its current parameters. Intended for an explicit
// engine-wide sample-rate change, never from the audio path.
func (c *Channel) SetSampleRate(sampleRate float64) {
	c.sampleRate = sampleRate

	for i := range c.bands {
		if _, err := c.ConfigureBand(i, c.bands[i].params); err != nil {
			continue
		}
	}
}
