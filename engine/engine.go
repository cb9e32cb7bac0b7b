package engine

import (
	"github.com/cwbudde/xover-engine/dsp/core"
	"github.com/cwbudde/xover-engine/dsp/crossover"
	"github.com/cwbudde/xover-engine/dsp/dynamics"
	"github.com/cwbudde/xover-engine/dsp/limiter"
	"github.com/cwbudde/xover-engine/dsp/peq"
	"github.com/cwbudde/xover-engine/dsp/routing"
)

// NumChannels is the fixed number of output channels (OUT1..OUT4).
const NumChannels = routing.NumOutputs

// NumInputs is the fixed number of input channels (IN1, IN2).
const NumInputs = routing.NumInputs

// Engine is the top-level crossover/PEQ/dynamics/delay/limiter orchestrator
// for one stereo-in, four-channel-out processing graph. The zero value is
// not usable; construct with New.
type Engine struct {
	sampleRate float64
	maxDelayMs float64
	blockSize  int

	routing  *routing.Matrix
	channels [NumChannels]*channel

	scratch [NumChannels][]float64
}

// New allocates a fully initialised engine: all delay, block-scratch and
// filter state is sized up front from sampleRate/blockSize/maxDelayMs, so
// Process never allocates. sampleRate and blockSize must both be positive;
// opts then layer on top of them through a core.ProcessorConfig (the
// teacher's functional-options idiom) and may override either via
// core.WithSampleRate/core.WithBlockSize — e.g. a host that builds its
// options uniformly across several processors can pass
// New(48000, 64, maxDelayMs, core.WithBlockSize(128)) to run this engine
// at a different block size than its positional default. All channels
// start as enabled flat-gain bypass crossovers (see
// crossover.DefaultParams), disabled compressor, disabled limiter at the
// default ceiling, an enabled fully wet delay at 0ms, and every routing output silent
// (see routing.DefaultOutputConfig) until the host applies a preset or
// configures routing explicitly.
func New(sampleRate float64, blockSize int, maxDelayMs float64, opts ...core.ProcessorOption) (*Engine, error) {
	if sampleRate <= 0 || blockSize <= 0 || maxDelayMs <= 0 {
		return nil, ErrAllocationFailure
	}

	cfg := core.ApplyProcessorOptions(append([]core.ProcessorOption{
		core.WithSampleRate(sampleRate),
		core.WithBlockSize(blockSize),
	}, opts...)...)

	if cfg.SampleRate <= 0 || cfg.BlockSize <= 0 {
		return nil, ErrAllocationFailure
	}

	e := &Engine{
		sampleRate: cfg.SampleRate,
		maxDelayMs: maxDelayMs,
		blockSize:  cfg.BlockSize,
		routing:    routing.New(),
	}

	e.routing.Prepare(cfg.BlockSize)

	for i := range e.channels {
		ch, err := newChannel(cfg.SampleRate, maxDelayMs)
		if err != nil {
			return nil, ErrAllocationFailure
		}

		e.channels[i] = ch
		e.scratch[i] = core.EnsureLen(nil, cfg.BlockSize)
	}

	return e, nil
}

func (e *Engine) checkChannel(ch int) error {
	if ch < 0 || ch >= NumChannels {
		return ErrInvalidChannel
	}

	return nil
}

// Process runs one block: routes in1/in2 into the four channel scratch
// buffers, then pipes each through crossover, PEQ, compressor, delay and
// limiter in order, writing the result into outputs. inputs and outputs
// must each have length >= the engine's configured block size; only the
// first blockSize samples of each are processed. Never returns an error:
// any stage that produces a non-finite sample substitutes zero and
// continues (see the component packages' overflow policy).
func (e *Engine) Process(in1, in2 []float64, outputs [NumChannels][]float64) {
	n := e.blockSize
	if len(in1) < n {
		n = len(in1)
	}

	if len(in2) < n {
		n = len(in2)
	}

	var outs [NumChannels][]float64
	for ch := range e.channels {
		buf := e.scratch[ch][:n]
		outs[ch] = buf
	}

	e.routing.ProcessBlock(in1[:n], in2[:n], outs)

	for ch := range e.channels {
		buf := outs[ch]
		e.channels[ch].process(buf)

		core.CopyInto(outputs[ch], buf)
	}
}

// UpdateSampleRate re-derives every channel's filter coefficients, envelope
// coefficients and delay-line allocation for a new sample rate. Intended
// for an explicit, infrequent host call (e.g. codec reconfiguration), never
// from the audio path.
func (e *Engine) UpdateSampleRate(sampleRate float64) error {
	if sampleRate <= 0 {
		return ErrAllocationFailure
	}

	e.sampleRate = sampleRate

	for _, ch := range e.channels {
		if err := ch.setSampleRate(sampleRate); err != nil {
			return err
		}
	}

	return nil
}

// UpdateTemperature recomputes every channel's temperature-compensated
// delay time from its stored logical ms value and the new speed of sound.
func (e *Engine) UpdateTemperature(tempC float64) {
	for _, ch := range e.channels {
		ch.delay.UpdateTemperature(tempC)
	}
}

// --- Crossover ---

// SetBand configures channel ch's crossover stage. Returns the adopted
// (clamped) params.
func (e *Engine) SetBand(ch int, p crossover.Params) (crossover.Params, error) {
	if err := e.checkChannel(ch); err != nil {
		return crossover.Params{}, err
	}

	return e.channels[ch].crossover.Configure(p)
}

// BandParams returns channel ch's currently committed crossover params.
func (e *Engine) BandParams(ch int) (crossover.Params, error) {
	if err := e.checkChannel(ch); err != nil {
		return crossover.Params{}, err
	}

	return e.channels[ch].crossover.Params(), nil
}

// EnableCrossover enables or disables channel ch's crossover stage. A
// disabled crossover band outputs silence (see crossover.Band.ProcessSample).
func (e *Engine) EnableCrossover(ch int, enabled bool) error {
	if err := e.checkChannel(ch); err != nil {
		return err
	}

	p := e.channels[ch].crossover.Params()
	p.Enabled = enabled
	_, err := e.channels[ch].crossover.Configure(p)

	return err
}

// --- PEQ ---

// ConfigureBand configures channel ch's PEQ band b.
func (e *Engine) ConfigureBand(ch, b int, p peq.BandParams) (peq.BandParams, error) {
	if err := e.checkChannel(ch); err != nil {
		return peq.BandParams{}, err
	}

	return e.channels[ch].peq.ConfigureBand(b, p)
}

// ResetPEQBand clears channel ch's PEQ band b's filter state.
func (e *Engine) ResetPEQBand(ch, b int) error {
	if err := e.checkChannel(ch); err != nil {
		return err
	}

	return e.channels[ch].peq.ResetBand(b)
}

// SetPreGain sets channel ch's PEQ input trim in dB.
func (e *Engine) SetPreGain(ch int, db float64) error {
	if err := e.checkChannel(ch); err != nil {
		return err
	}

	e.channels[ch].peq.SetPreGain(db)

	return nil
}

// --- Compressor ---

// ConfigureCompressor configures channel ch's compressor.
func (e *Engine) ConfigureCompressor(ch int, cfg dynamics.Config) (dynamics.Config, error) {
	if err := e.checkChannel(ch); err != nil {
		return dynamics.Config{}, err
	}

	return e.channels[ch].compressor.Configure(cfg), nil
}

// CompressorGainReductionDB returns channel ch's most recent compressor
// gain-reduction meter value.
func (e *Engine) CompressorGainReductionDB(ch int) (float64, error) {
	if err := e.checkChannel(ch); err != nil {
		return 0, err
	}

	return e.channels[ch].compressor.GainReductionDB(), nil
}

// --- Delay ---

// SetDelayTimeMs sets channel ch's delay time in milliseconds.
func (e *Engine) SetDelayTimeMs(ch int, ms float64) (float64, error) {
	if err := e.checkChannel(ch); err != nil {
		return 0, err
	}

	return e.channels[ch].delay.SetTimeMs(ms), nil
}

// DelayTimeMs returns channel ch's currently committed logical delay time
// in milliseconds.
func (e *Engine) DelayTimeMs(ch int) (float64, error) {
	if err := e.checkChannel(ch); err != nil {
		return 0, err
	}

	return e.channels[ch].delay.TimeMs(), nil
}

// SetDelayDistanceCm sets channel ch's delay time from a distance in cm.
func (e *Engine) SetDelayDistanceCm(ch int, cm float64) (float64, error) {
	if err := e.checkChannel(ch); err != nil {
		return 0, err
	}

	return e.channels[ch].delay.SetDistanceCm(cm), nil
}

// SetDelayDistanceIn sets channel ch's delay time from a distance in inches.
func (e *Engine) SetDelayDistanceIn(ch int, inches float64) (float64, error) {
	if err := e.checkChannel(ch); err != nil {
		return 0, err
	}

	return e.channels[ch].delay.SetDistanceIn(inches), nil
}

// SetDelayPolarity sets channel ch's delay phase invert.
func (e *Engine) SetDelayPolarity(ch int, invert bool) error {
	if err := e.checkChannel(ch); err != nil {
		return err
	}

	e.channels[ch].delay.SetPolarity(invert)

	return nil
}

// SetDelayMix sets channel ch's delay wet/dry mix.
func (e *Engine) SetDelayMix(ch int, mix float64) (float64, error) {
	if err := e.checkChannel(ch); err != nil {
		return 0, err
	}

	return e.channels[ch].delay.SetMix(mix), nil
}

// EnableDelay enables or disables channel ch's delay stage.
func (e *Engine) EnableDelay(ch int, enabled bool) error {
	if err := e.checkChannel(ch); err != nil {
		return err
	}

	e.channels[ch].delay.Enable(enabled)

	return nil
}

// FlushDelay zeros channel ch's delay buffer.
func (e *Engine) FlushDelay(ch int) error {
	if err := e.checkChannel(ch); err != nil {
		return err
	}

	e.channels[ch].delay.Flush()

	return nil
}

// --- Limiter ---

// ConfigureLimiter configures channel ch's limiter.
func (e *Engine) ConfigureLimiter(ch int, cfg limiter.Config) (limiter.Config, error) {
	if err := e.checkChannel(ch); err != nil {
		return limiter.Config{}, err
	}

	return e.channels[ch].limiter.Configure(cfg), nil
}

// SetLimiterBypass enables or disables channel ch's limiter.
func (e *Engine) SetLimiterBypass(ch int, bypass bool) error {
	if err := e.checkChannel(ch); err != nil {
		return err
	}

	cfg := e.channels[ch].limiter.Params()
	cfg.Enabled = !bypass
	e.channels[ch].limiter.Configure(cfg)

	return nil
}

// LimiterGainReductionDB returns channel ch's most recent limiter
// gain-reduction meter value.
func (e *Engine) LimiterGainReductionDB(ch int) (float64, error) {
	if err := e.checkChannel(ch); err != nil {
		return 0, err
	}

	return e.channels[ch].limiter.GainReductionDB(), nil
}

// LimiterIsActive reports whether channel ch's limiter is currently
// reducing gain audibly.
func (e *Engine) LimiterIsActive(ch int) (bool, error) {
	if err := e.checkChannel(ch); err != nil {
		return false, err
	}

	return e.channels[ch].limiter.IsActive(), nil
}

// LimiterPeakLevel returns channel ch's most recent limiter peak-level
// meter value (linear).
func (e *Engine) LimiterPeakLevel(ch int) (float64, error) {
	if err := e.checkChannel(ch); err != nil {
		return 0, err
	}

	return e.channels[ch].limiter.PeakLevel(), nil
}

// --- Routing ---

// SetSource sets output ch's routing source.
func (e *Engine) SetSource(ch int, src routing.Source) (routing.Source, error) {
	return e.routing.SetSource(ch, src)
}

// SetInputGain sets input ch's gain.
func (e *Engine) SetInputGain(ch int, gain float64) (float64, error) {
	return e.routing.SetInputGain(ch, gain)
}

// SetMixLevel sets output ch's In1Plus2 mix level.
func (e *Engine) SetMixLevel(ch int, level float64) (float64, error) {
	return e.routing.SetMixLevel(ch, level)
}

// SetMute sets output ch's mute state.
func (e *Engine) SetMute(ch int, mute bool) error {
	return e.routing.SetMute(ch, mute)
}

// SetStereoLink links or unlinks routing pair.
func (e *Engine) SetStereoLink(pair int, linked bool) error {
	return e.routing.SetStereoLink(pair, linked)
}

// SetMonoSum enables or disables input mono-summing.
func (e *Engine) SetMonoSum(enabled bool) {
	e.routing.SetMonoSum(enabled)
}
