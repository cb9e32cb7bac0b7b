package dynamics

import (
	"math"

	"github.com/cwbudde/xover-engine/dsp/core"
)

// Detection selects how the compressor measures input level.
type Detection int

const (
	// Peak uses |x| converted to dB, per sample.
	Peak Detection = iota
	// RMS uses a moving 32-sample window of squared samples.
	RMS
)

// Knee selects the gain computer's knee shape.
type Knee int

const (
	// Hard applies the ratio abruptly at the threshold.
	Hard Knee = iota
	// Soft quadratically blends gain reduction across KneeWidthDb.
	Soft
)

const (
	minThresholdDB = -60.0
	maxThresholdDB = 0.0
	minRatio       = 1.0
	maxRatio       = 20.0
	minAttackMs    = 0.1
	maxAttackMs    = 100.0
	minReleaseMs   = 10.0
	maxReleaseMs   = 1000.0
	minKneeWidthDB = 0.0
	maxKneeWidthDB = 12.0
	minMakeupDB    = 0.0
	maxMakeupDB    = 24.0

	peakFloorDB        = -120.0
	rmsWindowSize      = 32
	gainSmoothingCoeff = 0.9995

	minGainBeforeMakeupDB = -60.0
	maxGainBeforeMakeupDB = 0.0
)

// Config describes a compressor's parameters.
type Config struct {
	ThresholdDB float64
	Ratio       float64
	AttackMs    float64
	ReleaseMs   float64
	KneeWidthDB float64
	MakeupDB    float64
	Detection   Detection
	KneeType    Knee
	Enabled     bool
}

// DefaultConfig returns a disabled compressor at unity ratio.
func DefaultConfig() Config {
	return Config{
		ThresholdDB: 0,
		Ratio:       1,
		AttackMs:    10,
		ReleaseMs:   100,
		KneeWidthDB: 0,
		MakeupDB:    0,
		Detection:   Peak,
		KneeType:    Hard,
		Enabled:     false,
	}
}

// Compressor is a single-channel feed-forward peak/RMS compressor.
type Compressor struct {
	cfg        Config
	sampleRate float64

	attackCoeff  float64
	releaseCoeff float64

	envelopeDB     float64
	smoothedGainDB float64

	rmsSquares [rmsWindowSize]float64
	rmsIndex   int
	rmsFilled  int
	rmsSum     float64

	gainReductionDB float64
	inputLevelDB    float64
}

// New creates a disabled compressor for the given sample rate.
func New(sampleRate float64) *Compressor {
	c := &Compressor{sampleRate: sampleRate}
	c.Configure(DefaultConfig())

	return c
}

// Configure validates and clamps cfg, recomputes derived coefficients, and
// returns the adopted configuration. Numeric parameters are silently
// clamped to their legal ranges rather than rejected.
func (c *Compressor) Configure(cfg Config) Config {
	cfg.ThresholdDB = core.Clamp(cfg.ThresholdDB, minThresholdDB, maxThresholdDB)
	cfg.Ratio = core.Clamp(cfg.Ratio, minRatio, maxRatio)
	cfg.AttackMs = core.Clamp(cfg.AttackMs, minAttackMs, maxAttackMs)
	cfg.ReleaseMs = core.Clamp(cfg.ReleaseMs, minReleaseMs, maxReleaseMs)
	cfg.KneeWidthDB = core.Clamp(cfg.KneeWidthDB, minKneeWidthDB, maxKneeWidthDB)
	cfg.MakeupDB = core.Clamp(cfg.MakeupDB, minMakeupDB, maxMakeupDB)

	if cfg.Detection != RMS {
		cfg.Detection = Peak
	}

	if cfg.KneeType != Soft {
		cfg.KneeType = Hard
	}

	c.cfg = cfg
	c.attackCoeff = core.TimeConstantCoeff(cfg.AttackMs, c.sampleRate)
	c.releaseCoeff = core.TimeConstantCoeff(cfg.ReleaseMs, c.sampleRate)

	return c.cfg
}

// Params returns the currently committed configuration.
func (c *Compressor) Params() Config {
	return c.cfg
}

// ProcessSample compresses one sample, updating the gain-reduction and
// input-level meters. Disabled compressors pass the signal through
// unchanged.
func (c *Compressor) ProcessSample(x float64) float64 {
	if !c.cfg.Enabled {
		c.gainReductionDB = 0
		c.inputLevelDB = peakFloorDB

		return x
	}

	levelDB := c.detectLevel(x)
	c.inputLevelDB = levelDB

	if levelDB > c.envelopeDB {
		c.envelopeDB = core.OnePole(c.envelopeDB, levelDB, c.attackCoeff)
	} else {
		c.envelopeDB = core.OnePole(c.envelopeDB, levelDB, c.releaseCoeff)
	}

	gr := c.gainReduction(c.envelopeDB)
	c.gainReductionDB = gr

	gainDB := core.Clamp(-gr, minGainBeforeMakeupDB, maxGainBeforeMakeupDB) + c.cfg.MakeupDB
	c.smoothedGainDB = core.OnePole(c.smoothedGainDB, gainDB, gainSmoothingCoeff)

	return x * core.DBToLinear(c.smoothedGainDB)
}

// ProcessBlock compresses buf in place.
func (c *Compressor) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = c.ProcessSample(x)
	}
}

// detectLevel returns the current detector output in dB, floored at -120dB.
func (c *Compressor) detectLevel(x float64) float64 {
	switch c.cfg.Detection {
	case RMS:
		mean := c.updateRMS(x * x)
		if mean <= 0 {
			return peakFloorDB
		}

		db := 10 * math.Log10(mean)
		if db < peakFloorDB {
			return peakFloorDB
		}

		return db
	default:
		abs := math.Abs(x)
		if abs <= 0 {
			return peakFloorDB
		}

		db := core.LinearToDB(abs)
		if db < peakFloorDB {
			return peakFloorDB
		}

		return db
	}
}

func (c *Compressor) updateRMS(square float64) float64 {
	if c.rmsFilled == rmsWindowSize {
		c.rmsSum -= c.rmsSquares[c.rmsIndex]
	} else {
		c.rmsFilled++
	}

	c.rmsSquares[c.rmsIndex] = square
	c.rmsSum += square

	c.rmsIndex++
	if c.rmsIndex >= rmsWindowSize {
		c.rmsIndex = 0
	}

	return c.rmsSum / rmsWindowSize
}

// gainReduction returns GR in dB (a non-negative magnitude) for the given
// envelope level.
func (c *Compressor) gainReduction(envDB float64) float64 {
	ratioFactor := 1 - 1/c.cfg.Ratio
	overshoot := envDB - c.cfg.ThresholdDB

	if c.cfg.KneeType == Hard || c.cfg.KneeWidthDB <= 0 {
		if overshoot <= 0 {
			return 0
		}

		return overshoot * ratioFactor
	}

	return core.SoftKnee(overshoot, c.cfg.KneeWidthDB/2) * ratioFactor
}

// Reset clears envelope, RMS window, and smoothed gain state. The
// configuration survives.
func (c *Compressor) Reset() {
	c.envelopeDB = peakFloorDB
	c.smoothedGainDB = 0
	c.gainReductionDB = 0
	c.inputLevelDB = peakFloorDB

	c.rmsIndex = 0
	c.rmsFilled = 0
	c.rmsSum = 0

	for i := range c.rmsSquares {
		c.rmsSquares[i] = 0
	}
}

// GainReductionDB returns the most recent gain-reduction meter value
// (a non-negative number of dB of reduction).
func (c *Compressor) GainReductionDB() float64 {
	return c.gainReductionDB
}

// InputLevelDB returns the most recent detector level meter value.
func (c *Compressor) InputLevelDB() float64 {
	return c.inputLevelDB
}

// SetSampleRate updates the sample rate and recomputes the attack/release
// coefficients from the current configuration. Intended for an explicit
// engine-wide sample-rate change, never from the audio path.
func (c *Compressor) SetSampleRate(sampleRate float64) Config {
	c.sampleRate = sampleRate

	return c.Configure(c.cfg)
}
