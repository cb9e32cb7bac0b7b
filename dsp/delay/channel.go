package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/xover-engine/dsp/core"
	"github.com/cwbudde/xover-engine/dsp/interp"
)

const (
	paddingSamples     = 16
	referenceTempC     = 20.0
	defaultSmoothingMs = 5.0
	cmPerInch          = 2.54
)

// SpeedOfSound returns the speed of sound in air (m/s) at the given
// temperature in Celsius.
func SpeedOfSound(tempC float64) float64 {
	return 331.3 * math.Sqrt(1+tempC/273.15)
}

var referenceSpeed = SpeedOfSound(referenceTempC)

// Channel is a single delay line with temperature-compensated time control,
// phase invert, wet/dry mix and one-pole output smoothing. Its ring buffer
// is sized once at construction from maxDelayMs and never reallocated.
type Channel struct {
	line       *Line
	sampleRate float64
	maxDelayMs float64

	logicalMs float64 // delay time at the reference temperature (20C)
	tempC     float64

	phaseInvert bool
	mix         float64
	enabled     bool

	smoothingCoeff float64
	smoothedSample float64

	delaySamples float64
}

// NewChannel creates a delay channel sized to hold maxDelayMs of audio at
// sampleRate, plus a fixed interpolation padding.
func NewChannel(sampleRate, maxDelayMs float64) (*Channel, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("delay: sample rate must be > 0: %v", sampleRate)
	}

	if maxDelayMs <= 0 {
		return nil, fmt.Errorf("delay: maxDelayMs must be > 0: %v", maxDelayMs)
	}

	size := int(math.Ceil(maxDelayMs*sampleRate/1000)) + paddingSamples

	line, err := New(size)
	if err != nil {
		return nil, err
	}

	c := &Channel{
		line:           line,
		sampleRate:     sampleRate,
		maxDelayMs:     maxDelayMs,
		tempC:          referenceTempC,
		mix:            1.0,
		enabled:        true,
		smoothingCoeff: core.TimeConstantCoeff(defaultSmoothingMs, sampleRate),
	}
	c.recompute()

	return c, nil
}

// SetMode changes the interpolation mode (linear or Hermite cubic).
func (c *Channel) SetMode(m interp.Mode) {
	c.line.SetMode(m)
}

// SetTimeMs sets the delay time in milliseconds, measured at the reference
// temperature of 20C. Clamped to [0, maxDelayMs].
func (c *Channel) SetTimeMs(ms float64) float64 {
	c.logicalMs = core.Clamp(ms, 0, c.maxDelayMs)
	c.recompute()

	return c.logicalMs
}

// SetDistanceCm sets the delay time from a physical distance in
// centimeters, converted via the speed of sound at the reference
// temperature and stored as the logical ms; the effective delay is then
// re-derived from it on every temperature change.
func (c *Channel) SetDistanceCm(cm float64) float64 {
	if cm < 0 {
		cm = 0
	}

	meters := cm / 100
	ms := meters / referenceSpeed * 1000
	c.logicalMs = core.Clamp(ms, 0, c.maxDelayMs)
	c.recompute()

	return c.logicalMs
}

// SetDistanceIn sets the delay time from a physical distance in inches.
func (c *Channel) SetDistanceIn(inches float64) float64 {
	return c.SetDistanceCm(inches * cmPerInch)
}

// UpdateTemperature recomputes the effective delay time from the stored
// logical ms value and the new temperature's speed of sound.
func (c *Channel) UpdateTemperature(tempC float64) {
	c.tempC = tempC
	c.recompute()
}

func (c *Channel) recompute() {
	factor := referenceSpeed / SpeedOfSound(c.tempC)
	effectiveMs := core.Clamp(c.logicalMs*factor, 0, c.maxDelayMs)
	c.delaySamples = effectiveMs * c.sampleRate / 1000
}

// SetPolarity sets whether the delayed signal is phase-inverted.
func (c *Channel) SetPolarity(invert bool) {
	c.phaseInvert = invert
}

// SetMix sets the wet/dry blend, clamped to [0, 1]. 1.0 is fully wet.
func (c *Channel) SetMix(mix float64) float64 {
	c.mix = core.Clamp(mix, 0, 1)

	return c.mix
}

// Enable enables or disables the channel. A disabled channel passes the
// input through unchanged but keeps writing into the delay buffer so it
// resumes seamlessly when re-enabled.
func (c *Channel) Enable(enabled bool) {
	c.enabled = enabled
}

// ProcessSample writes x into the delay line, reads back the delayed,
// interpolated, phase-adjusted and smoothed sample, and blends it with
// the dry signal.
func (c *Channel) ProcessSample(x float64) float64 {
	c.line.Write(x)

	if !c.enabled {
		return x
	}

	y := c.line.ReadFractional(c.delaySamples + 1)
	if c.phaseInvert {
		y = -y
	}

	c.smoothedSample = core.OnePole(c.smoothedSample, y, c.smoothingCoeff)

	return c.mix*c.smoothedSample + (1-c.mix)*x
}

// ProcessBlock processes buf in place.
func (c *Channel) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = c.ProcessSample(x)
	}
}

// Flush zeros the delay buffer and smoothing history and resets the write
// index. Logical time, temperature and mix settings survive.
func (c *Channel) Flush() {
	c.line.Reset()
	c.smoothedSample = 0
}

// TimeMs returns the logical delay time in milliseconds (at the reference
// temperature).
func (c *Channel) TimeMs() float64 {
	return c.logicalMs
}

// DelaySamples returns the current temperature-compensated fractional
// delay in samples.
func (c *Channel) DelaySamples() float64 {
	return c.delaySamples
}

// Mix returns the current wet/dry blend.
func (c *Channel) Mix() float64 {
	return c.mix
}

// Enabled reports whether the channel is currently enabled.
func (c *Channel) Enabled() bool {
	return c.enabled
}

// Polarity reports whether the delayed signal is phase-inverted.
func (c *Channel) Polarity() bool {
	return c.phaseInvert
}

// Temperature returns the ambient temperature last set via UpdateTemperature.
func (c *Channel) Temperature() float64 {
	return c.tempC
}

// SetSampleRate rebuilds the delay line for a new sample rate, preserving
// the logical time, temperature, polarity and mix settings. Intended for
// an explicit engine-wide sample-rate change, never from the audio path.
func (c *Channel) SetSampleRate(sampleRate float64) error {
	size := int(math.Ceil(c.maxDelayMs*sampleRate/1000)) + paddingSamples

	mode := c.line.Mode()

	line, err := New(size, WithMode(mode))
	if err != nil {
		return err
	}

	c.line = line
	c.sampleRate = sampleRate
	c.smoothingCoeff = core.TimeConstantCoeff(defaultSmoothingMs, sampleRate)
	c.smoothedSample = 0
	c.recompute()

	return nil
}
