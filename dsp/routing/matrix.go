package routing

import (
	"github.com/cwbudde/xover-engine/dsp/blockops"
	"github.com/cwbudde/xover-engine/dsp/core"
)

const (
	// NumInputs is the number of physical inputs.
	NumInputs = 2
	// NumOutputs is the number of routed outputs.
	NumOutputs = 4
	// NumPairs is the number of stereo-linkable output pairs.
	NumPairs = NumOutputs / 2

	minGain = 0.0
	maxGain = 4.0
)

// OutputConfig describes one output's routing.
type OutputConfig struct {
	Source   Source
	MixLevel float64
	Mute     bool
}

// DefaultOutputConfig returns an unmuted, silent (source None) output with
// an even 0.5 In1Plus2 mix level.
func DefaultOutputConfig() OutputConfig {
	return OutputConfig{Source: None, MixLevel: 0.5, Mute: false}
}

// Matrix is the input/output routing matrix: per-input gain and mono-sum,
// per-output source/mix/mute, and stereo-link propagation between output
// pairs (0,1) and (2,3).
type Matrix struct {
	inputGains [NumInputs]float64
	monoSum    bool

	outputs    [NumOutputs]OutputConfig
	stereoLink [NumPairs]bool

	// scratchA/scratchB hold the gain-and-mono-summed inputs for a block;
	// sized once by Prepare so ProcessBlock never allocates.
	scratchA []float64
	scratchB []float64
}

// New returns a matrix with unity input gains, all outputs silent and
// unmuted, mono-sum disabled, and stereo-link disabled on every pair.
func New() *Matrix {
	m := &Matrix{}

	for i := range m.inputGains {
		m.inputGains[i] = 1.0
	}

	for i := range m.outputs {
		m.outputs[i] = DefaultOutputConfig()
	}

	return m
}

// Prepare sizes the block-processing scratch buffers. Call once at engine
// construction (or on a block-size change); ProcessBlock does not allocate.
func (m *Matrix) Prepare(blockSize int) {
	m.scratchA = make([]float64, blockSize)
	m.scratchB = make([]float64, blockSize)
}

// SetInputGain sets input ch's gain, clamped to [0, 4].
func (m *Matrix) SetInputGain(ch int, gain float64) (float64, error) {
	if ch < 0 || ch >= NumInputs {
		return 0, ErrInvalidInput
	}

	m.inputGains[ch] = core.Clamp(gain, minGain, maxGain)

	return m.inputGains[ch], nil
}

// SetMonoSum enables or disables the global mono-sum: when enabled, every
// input sample is replaced by the mean across inputs before routing.
func (m *Matrix) SetMonoSum(enabled bool) {
	m.monoSum = enabled
}

// InputGain returns input ch's current gain.
func (m *Matrix) InputGain(ch int) (float64, error) {
	if ch < 0 || ch >= NumInputs {
		return 0, ErrInvalidInput
	}

	return m.inputGains[ch], nil
}

// MonoSum reports whether the global mono-sum is enabled.
func (m *Matrix) MonoSum() bool {
	return m.monoSum
}

// StereoLink reports whether the given output pair is stereo-linked.
func (m *Matrix) StereoLink(pair int) (bool, error) {
	if pair < 0 || pair >= NumPairs {
		return false, ErrInvalidPair
	}

	return m.stereoLink[pair], nil
}

func (m *Matrix) pairIndex(ch int) int {
	return ch / 2
}

func (m *Matrix) mate(ch int) int {
	return ch ^ 1
}

// SetSource sets output ch's source. If ch belongs to a stereo-linked pair,
// its mate's source is updated to the mirrored value.
func (m *Matrix) SetSource(ch int, src Source) (Source, error) {
	if ch < 0 || ch >= NumOutputs {
		return 0, ErrInvalidOutput
	}

	m.outputs[ch].Source = src

	if m.stereoLink[m.pairIndex(ch)] {
		m.outputs[m.mate(ch)].Source = src.Mirror()
	}

	return src, nil
}

// SetMixLevel sets output ch's mix level, clamped to [0, 1]. If ch belongs
// to a stereo-linked pair, its mate's mix level is copied identically.
func (m *Matrix) SetMixLevel(ch int, level float64) (float64, error) {
	if ch < 0 || ch >= NumOutputs {
		return 0, ErrInvalidOutput
	}

	level = core.Clamp(level, 0, 1)
	m.outputs[ch].MixLevel = level

	if m.stereoLink[m.pairIndex(ch)] {
		m.outputs[m.mate(ch)].MixLevel = level
	}

	return level, nil
}

// SetMute mutes or unmutes output ch. If ch belongs to a stereo-linked
// pair, its mate's mute state is copied identically.
func (m *Matrix) SetMute(ch int, mute bool) error {
	if ch < 0 || ch >= NumOutputs {
		return ErrInvalidOutput
	}

	m.outputs[ch].Mute = mute

	if m.stereoLink[m.pairIndex(ch)] {
		m.outputs[m.mate(ch)].Mute = mute
	}

	return nil
}

// SetStereoLink enables or disables stereo-link propagation for the given
// pair (0 covers outputs 0/1, 1 covers outputs 2/3).
func (m *Matrix) SetStereoLink(pair int, linked bool) error {
	if pair < 0 || pair >= NumPairs {
		return ErrInvalidPair
	}

	m.stereoLink[pair] = linked

	return nil
}

// OutputParams returns output ch's current configuration.
func (m *Matrix) OutputParams(ch int) (OutputConfig, error) {
	if ch < 0 || ch >= NumOutputs {
		return OutputConfig{}, ErrInvalidOutput
	}

	return m.outputs[ch], nil
}

// ProcessSample applies input gain and mono-sum to in1/in2, then returns
// the routed sample for every output.
func (m *Matrix) ProcessSample(in1, in2 float64, out *[NumOutputs]float64) {
	a := in1 * m.inputGains[0]
	b := in2 * m.inputGains[1]

	if m.monoSum {
		mean := (a + b) * 0.5
		a, b = mean, mean
	}

	for ch := 0; ch < NumOutputs; ch++ {
		cfg := m.outputs[ch]
		if cfg.Mute {
			out[ch] = 0
			continue
		}

		out[ch] = m.routeSample(cfg, a, b)
	}
}

func (m *Matrix) routeSample(cfg OutputConfig, a, b float64) float64 {
	switch cfg.Source {
	case None:
		return 0
	case In1, In1L, In1R:
		return a
	case In2, In2L, In2R:
		return b
	case In1Plus2:
		return cfg.MixLevel*a + (1-cfg.MixLevel)*b
	default:
		return 0
	}
}

// ProcessBlock applies the routing matrix across a block. in1, in2 and
// every slice in outs must share the same length, no greater than the size
// last passed to Prepare.
func (m *Matrix) ProcessBlock(in1, in2 []float64, outs [NumOutputs][]float64) {
	n := len(in1)
	a := m.scratchA[:n]
	b := m.scratchB[:n]

	blockops.ScaleBlockTo(a, in1, m.inputGains[0])
	blockops.ScaleBlockTo(b, in2, m.inputGains[1])

	if m.monoSum {
		blockops.AverageBlock(a, a, b)
		copy(b, a)
	}

	for ch := 0; ch < NumOutputs; ch++ {
		cfg := m.outputs[ch]
		dst := outs[ch]

		if cfg.Mute {
			blockops.ZeroBlock(dst)
			continue
		}

		switch cfg.Source {
		case None:
			blockops.ZeroBlock(dst)
		case In1, In1L, In1R:
			copy(dst, a)
		case In2, In2L, In2R:
			copy(dst, b)
		case In1Plus2:
			blockops.ScaleBlockTo(dst, a, cfg.MixLevel)
			blockops.MixBlock(dst, b, 1-cfg.MixLevel)
		default:
			blockops.ZeroBlock(dst)
		}
	}
}
