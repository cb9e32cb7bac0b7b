package limiter

import (
	"math"

	"github.com/cwbudde/xover-engine/dsp/core"
)

const (
	minThresholdDB = -24.0
	maxThresholdDB = 0.0
	minCeilingDB   = -6.0
	maxCeilingDB   = 0.0
	minAttackMs    = 0.01
	maxAttackMs    = 50.0
	minReleaseMs   = 1.0
	maxReleaseMs   = 2000.0
	minLookaheadMs = 0.0
	maxLookaheadMs = 50.0

	// maxLookaheadSamples bounds the ring buffer regardless of sample rate.
	maxLookaheadSamples = 50 * 192 // 50ms at a 192kHz worst case.

	holdSamples = 50

	gainReductionFloorDB = -24.0

	ispRisingMargin = 1.05
	ispCrossMargin  = 1.15
)

// Config describes a limiter's parameters.
type Config struct {
	ThresholdDB     float64
	CeilingDB       float64
	AttackMs        float64
	ReleaseMs       float64
	LookaheadMs     float64
	AdaptiveRelease bool
	ISPEstimation   bool
	Enabled         bool
}

// DefaultConfig returns a disabled limiter with conservative defaults.
func DefaultConfig() Config {
	return Config{
		ThresholdDB: -0.1,
		CeilingDB:   -0.1,
		AttackMs:    0.1,
		ReleaseMs:   100,
		LookaheadMs: 3,
		Enabled:     false,
	}
}

// Limiter is a single-channel peak limiter with optional lookahead and
// inter-sample-peak estimation.
type Limiter struct {
	cfg        Config
	sampleRate float64

	attackCoeff  float64
	releaseCoeff float64

	envelope  float64
	holdCount int

	prevSample float64

	lookaheadBuf []float64
	writePos     int

	currentGain     float64
	gainReductionDB float64
	peakLevel       float64
}

// New creates a disabled limiter for the given sample rate.
func New(sampleRate float64) *Limiter {
	l := &Limiter{sampleRate: sampleRate, currentGain: 1.0}
	l.Configure(DefaultConfig())

	return l
}

// Configure validates and clamps cfg, rebuilds the lookahead buffer and
// envelope coefficients, and returns the adopted configuration.
func (l *Limiter) Configure(cfg Config) Config {
	cfg.ThresholdDB = core.Clamp(cfg.ThresholdDB, minThresholdDB, maxThresholdDB)
	cfg.CeilingDB = core.Clamp(cfg.CeilingDB, minCeilingDB, maxCeilingDB)
	cfg.AttackMs = core.Clamp(cfg.AttackMs, minAttackMs, maxAttackMs)
	cfg.ReleaseMs = core.Clamp(cfg.ReleaseMs, minReleaseMs, maxReleaseMs)
	cfg.LookaheadMs = core.Clamp(cfg.LookaheadMs, minLookaheadMs, maxLookaheadMs)

	l.cfg = cfg
	l.attackCoeff = core.TimeConstantCoeff(cfg.AttackMs, l.sampleRate)
	l.releaseCoeff = core.TimeConstantCoeff(cfg.ReleaseMs, l.sampleRate)

	l.rebuildLookahead()

	return l.cfg
}

func (l *Limiter) rebuildLookahead() {
	n := int(math.Floor(l.cfg.LookaheadMs * l.sampleRate / 1000.0))
	if n < 0 {
		n = 0
	}

	if n > maxLookaheadSamples {
		n = maxLookaheadSamples
	}

	size := n + 1
	if size < 1 {
		size = 1
	}

	l.lookaheadBuf = make([]float64, size)
	l.writePos = 0
}

// Params returns the currently committed configuration.
func (l *Limiter) Params() Config {
	return l.cfg
}

// ProcessSample limits one sample, updating the gain-reduction, peak and
// active meters. Disabled limiters pass the signal through unchanged.
func (l *Limiter) ProcessSample(x float64) float64 {
	if !l.cfg.Enabled {
		l.gainReductionDB = 0
		l.currentGain = 1.0
		l.peakLevel = math.Abs(x)
		l.prevSample = x

		return x
	}

	detectorMag := l.detectMagnitude(x)
	l.prevSample = x

	if detectorMag > l.envelope {
		l.envelope = core.OnePole(l.envelope, detectorMag, l.attackCoeff)
		l.holdCount = holdSamples
	} else if l.holdCount > 0 {
		l.holdCount--
	} else {
		releaseCoeff := l.releaseCoeff
		if l.cfg.AdaptiveRelease {
			scale := 1 + 5*(1-l.currentGain)
			releaseCoeff = core.Clamp(releaseCoeff*scale, 0, 1)
		}

		l.envelope = core.OnePole(l.envelope, detectorMag, releaseCoeff)
	}

	l.peakLevel = l.envelope

	thresholdLinear := core.DBToLinear(l.cfg.ThresholdDB)

	targetGain := 1.0
	if l.envelope > thresholdLinear && l.envelope > 0 {
		targetGain = thresholdLinear / l.envelope
	}

	floorGain := core.DBToLinear(gainReductionFloorDB)
	if targetGain < floorGain {
		targetGain = floorGain
	}

	l.currentGain = targetGain
	l.gainReductionDB = -core.LinearToDB(targetGain)
	if l.gainReductionDB < 0 {
		l.gainReductionDB = 0
	}

	delayed := l.pushLookahead(x)
	out := delayed * targetGain

	ceiling := core.DBToLinear(l.cfg.CeilingDB)
	if out > ceiling {
		out = ceiling
	} else if out < -ceiling {
		out = -ceiling
	}

	return out
}

// ProcessBlock limits buf in place.
func (l *Limiter) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = l.ProcessSample(x)
	}
}

// detectMagnitude returns the level fed to the envelope follower: either
// |x| directly, or the inter-sample-peak estimate when enabled.
func (l *Limiter) detectMagnitude(x float64) float64 {
	if !l.cfg.ISPEstimation {
		return math.Abs(x)
	}

	prev, curr := l.prevSample, x
	sameSign := (prev >= 0) == (curr >= 0)
	absPrev, absCurr := math.Abs(prev), math.Abs(curr)

	switch {
	case sameSign && absCurr > absPrev:
		return absCurr * ispRisingMargin
	case !sameSign:
		denom := absPrev + absCurr
		if denom <= 0 {
			return absCurr
		}

		t := absPrev / denom
		blended := absPrev*(1-t) + absCurr*t

		return blended * ispCrossMargin
	default:
		return absCurr
	}
}

// pushLookahead writes x into the lookahead ring and returns the delayed
// sample (the program path running behind the detector).
func (l *Limiter) pushLookahead(x float64) float64 {
	buf := l.lookaheadBuf
	if len(buf) == 0 {
		return x
	}

	buf[l.writePos] = x
	readPos := l.writePos + 1
	if readPos >= len(buf) {
		readPos = 0
	}

	delayed := buf[readPos]
	l.writePos = readPos

	return delayed
}

// Reset clears envelope, lookahead buffer and hold state. The configuration
// survives.
func (l *Limiter) Reset() {
	l.envelope = 0
	l.holdCount = 0
	l.prevSample = 0
	l.currentGain = 1.0
	l.gainReductionDB = 0
	l.peakLevel = 0

	for i := range l.lookaheadBuf {
		l.lookaheadBuf[i] = 0
	}

	l.writePos = 0
}

// GainReductionDB returns the most recent gain-reduction meter value (a
// non-negative number of dB of reduction).
func (l *Limiter) GainReductionDB() float64 {
	return l.gainReductionDB
}

// PeakLevel returns the most recent envelope peak level (linear).
func (l *Limiter) PeakLevel() float64 {
	return l.peakLevel
}

// IsActive reports whether the limiter is currently reducing gain by more
// than 0.5dB.
func (l *Limiter) IsActive() bool {
	return l.gainReductionDB > 0.5
}

// SetSampleRate updates the sample rate, rebuilding envelope coefficients
// and the lookahead buffer from the current configuration. Intended for an
// explicit engine-wide sample-rate change, never from the audio path.
func (l *Limiter) SetSampleRate(sampleRate float64) Config {
	l.sampleRate = sampleRate

	return l.Configure(l.cfg)
}
