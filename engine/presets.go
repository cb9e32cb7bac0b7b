package engine

import (
	"github.com/cwbudde/xover-engine/dsp/crossover"
	"github.com/cwbudde/xover-engine/dsp/filterdesign"
)

// Preset identifies one of the factory crossover arrangements. Applying a
// preset overwrites every channel's crossover params in one atomic pass;
// PEQ, compressor, delay, routing and limiter settings are untouched.
type Preset int

const (
	TwoWayStereo Preset = iota
	ThreeWayStereo
	SubPlusFull
	BiAmp
	TriAmp
)

func (p Preset) String() string {
	switch p {
	case TwoWayStereo:
		return "2-way stereo"
	case ThreeWayStereo:
		return "3-way stereo"
	case SubPlusFull:
		return "Sub+Full"
	case BiAmp:
		return "Bi-amp"
	case TriAmp:
		return "Tri-amp"
	default:
		return "Unknown"
	}
}

// presetBand describes one channel's crossover configuration within a
// factory preset.
type presetBand struct {
	mode     crossover.Mode
	freq     float64
	freqHigh float64
	family   filterdesign.Family
	slope    int
}

func hp(freq float64, family filterdesign.Family, slope int) presetBand {
	return presetBand{mode: crossover.HighPass, freq: freq, family: family, slope: slope}
}

func lp(freq float64, family filterdesign.Family, slope int) presetBand {
	return presetBand{mode: crossover.LowPass, freq: freq, family: family, slope: slope}
}

func bp(freqLo, freqHi float64, family filterdesign.Family, slope int) presetBand {
	return presetBand{mode: crossover.BandPass, freq: freqLo, freqHigh: freqHi, family: family, slope: slope}
}

// presetTable mirrors the factory presets table: four per-channel band
// configurations, OUT1..OUT4 in order.
var presetTable = map[Preset][NumChannels]presetBand{
	TwoWayStereo: {
		hp(80, filterdesign.LinkwitzRiley, 24),
		hp(80, filterdesign.LinkwitzRiley, 24),
		lp(80, filterdesign.LinkwitzRiley, 24),
		lp(80, filterdesign.LinkwitzRiley, 24),
	},
	ThreeWayStereo: {
		hp(2500, filterdesign.LinkwitzRiley, 24),
		hp(2500, filterdesign.LinkwitzRiley, 24),
		bp(250, 2500, filterdesign.LinkwitzRiley, 24),
		bp(250, 2500, filterdesign.LinkwitzRiley, 24),
	},
	SubPlusFull: {
		hp(80, filterdesign.Butterworth, 12),
		hp(80, filterdesign.Butterworth, 12),
		lp(80, filterdesign.Butterworth, 24),
		lp(80, filterdesign.Butterworth, 24),
	},
	BiAmp: {
		hp(1200, filterdesign.LinkwitzRiley, 24),
		hp(1200, filterdesign.LinkwitzRiley, 24),
		lp(1200, filterdesign.LinkwitzRiley, 24),
		lp(1200, filterdesign.LinkwitzRiley, 24),
	},
	TriAmp: {
		hp(3000, filterdesign.LinkwitzRiley, 24),
		bp(500, 3000, filterdesign.LinkwitzRiley, 24),
		bp(80, 500, filterdesign.LinkwitzRiley, 24),
		lp(80, filterdesign.LinkwitzRiley, 24),
	},
}

// ApplyPreset overwrites every channel's crossover band with the factory
// arrangement for id, leaving gain at 0dB and the band enabled. Returns
// ErrInvalidPreset for an unrecognised id; the engine is left unchanged on
// failure.
func (e *Engine) ApplyPreset(id Preset) error {
	bands, ok := presetTable[id]
	if !ok {
		return ErrInvalidPreset
	}

	for ch := range e.channels {
		p := crossover.DefaultParams()
		p.Mode = bands[ch].mode
		p.Freq = bands[ch].freq
		p.FreqHigh = bands[ch].freqHigh
		p.Family = bands[ch].family
		p.SlopeDBPerOct = bands[ch].slope
		p.GainDB = 0
		p.Enabled = true

		if _, err := e.channels[ch].crossover.Configure(p); err != nil {
			return err
		}
	}

	return nil
}
