package engine

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/cwbudde/xover-engine/dsp/crossover"
	"github.com/cwbudde/xover-engine/dsp/delay"
	"github.com/cwbudde/xover-engine/dsp/dynamics"
	"github.com/cwbudde/xover-engine/dsp/filterdesign"
	"github.com/cwbudde/xover-engine/dsp/limiter"
	"github.com/cwbudde/xover-engine/dsp/peq"
	"github.com/cwbudde/xover-engine/dsp/routing"
)

// stateVersion is bumped whenever the persisted layout below changes shape.
const stateVersion uint32 = 1

// Save packs routing, then every channel's crossover, PEQ, compressor,
// delay and limiter configuration, in that order, into a little-endian,
// version-tagged byte slice suitable for EEPROM/flash storage. Meters and
// filter delay-line state are not persisted; Load starts every stage's
// internal state fresh.
func (e *Engine) Save() []byte {
	var buf bytes.Buffer

	writeU32(&buf, stateVersion)
	saveRouting(&buf, e.routing)

	for _, ch := range e.channels {
		saveCrossover(&buf, ch.crossover.Params())
	}

	for _, ch := range e.channels {
		savePEQ(&buf, ch.peq)
	}

	for _, ch := range e.channels {
		saveCompressor(&buf, ch.compressor.Params())
	}

	for _, ch := range e.channels {
		saveDelay(&buf, ch.delay)
	}

	for _, ch := range e.channels {
		saveLimiter(&buf, ch.limiter.Params())
	}

	return buf.Bytes()
}

// Load replaces the engine's full configuration (routing plus every
// channel's crossover/PEQ/compressor/delay/limiter settings) from a blob
// produced by Save. Sample rate, block size and max delay are unaffected:
// the engine must already be constructed for the target sample rate. On
// any error the engine is left unchanged.
func (e *Engine) Load(data []byte) error {
	r := bytes.NewReader(data)

	version, err := readU32(r)
	if err != nil {
		return ErrInvalidState
	}

	if version != stateVersion {
		return fmt.Errorf("%w: got version %d, want %d", ErrInvalidState, version, stateVersion)
	}

	rt, err := loadRouting(r)
	if err != nil {
		return ErrInvalidState
	}

	var xoParams [NumChannels]crossover.Params
	for i := range xoParams {
		if xoParams[i], err = loadCrossover(r); err != nil {
			return ErrInvalidState
		}

		if _, err := crossover.NewBand(e.sampleRate).Configure(xoParams[i]); err != nil {
			return err
		}
	}

	peqStates := make([]peqState, NumChannels)
	for i := range peqStates {
		if peqStates[i], err = loadPEQ(r); err != nil {
			return ErrInvalidState
		}
	}

	var compCfgs [NumChannels]dynamics.Config
	for i := range compCfgs {
		if compCfgs[i], err = loadCompressor(r); err != nil {
			return ErrInvalidState
		}
	}

	delayStates := make([]delayState, NumChannels)
	for i := range delayStates {
		if delayStates[i], err = loadDelay(r); err != nil {
			return ErrInvalidState
		}
	}

	var limCfgs [NumChannels]limiter.Config
	for i := range limCfgs {
		if limCfgs[i], err = loadLimiter(r); err != nil {
			return ErrInvalidState
		}
	}

	if r.Len() != 0 {
		return ErrInvalidState
	}

	// Every sub-load succeeded: commit atomically.
	applyRouting(e.routing, rt)

	for i, ch := range e.channels {
		if _, err := ch.crossover.Configure(xoParams[i]); err != nil {
			return err
		}

		applyPEQ(ch.peq, peqStates[i])
		ch.compressor.Configure(compCfgs[i])
		applyDelay(ch.delay, delayStates[i])
		ch.limiter.Configure(limCfgs[i])

		ch.peq.Reset()
		ch.compressor.Reset()
		ch.delay.Flush()
		ch.limiter.Reset()
	}

	return nil
}

// --- routing ---

type routingState struct {
	inputGains [routing.NumInputs]float64
	monoSum    bool
	outputs    [routing.NumOutputs]routing.OutputConfig
	links      [routing.NumPairs]bool
}

func saveRouting(buf *bytes.Buffer, m *routing.Matrix) {
	for ch := 0; ch < routing.NumInputs; ch++ {
		gain, _ := m.InputGain(ch)
		writeF32(buf, gain)
	}

	writeBool(buf, m.MonoSum())

	for ch := 0; ch < routing.NumOutputs; ch++ {
		cfg, _ := m.OutputParams(ch)
		writeI32(buf, int32(cfg.Source))
		writeF32(buf, cfg.MixLevel)
		writeBool(buf, cfg.Mute)
	}

	for pair := 0; pair < routing.NumPairs; pair++ {
		linked, _ := m.StereoLink(pair)
		writeBool(buf, linked)
	}
}

func loadRouting(r *bytes.Reader) (routingState, error) {
	var s routingState

	var err error

	for ch := 0; ch < routing.NumInputs; ch++ {
		if s.inputGains[ch], err = readF32(r); err != nil {
			return s, err
		}
	}

	if s.monoSum, err = readBool(r); err != nil {
		return s, err
	}

	for ch := 0; ch < routing.NumOutputs; ch++ {
		src, err := readI32(r)
		if err != nil {
			return s, err
		}

		mix, err := readF32(r)
		if err != nil {
			return s, err
		}

		mute, err := readBool(r)
		if err != nil {
			return s, err
		}

		s.outputs[ch] = routing.OutputConfig{Source: routing.Source(src), MixLevel: mix, Mute: mute}
	}

	for pair := 0; pair < routing.NumPairs; pair++ {
		if s.links[pair], err = readBool(r); err != nil {
			return s, err
		}
	}

	return s, nil
}

func applyRouting(m *routing.Matrix, s routingState) {
	for ch := 0; ch < routing.NumInputs; ch++ {
		m.SetInputGain(ch, s.inputGains[ch])
	}

	m.SetMonoSum(s.monoSum)

	for pair := 0; pair < routing.NumPairs; pair++ {
		m.SetStereoLink(pair, s.links[pair])
	}

	for ch := 0; ch < routing.NumOutputs; ch++ {
		m.SetSource(ch, s.outputs[ch].Source)
		m.SetMixLevel(ch, s.outputs[ch].MixLevel)
		m.SetMute(ch, s.outputs[ch].Mute)
	}
}

// --- crossover ---

func saveCrossover(buf *bytes.Buffer, p crossover.Params) {
	writeI32(buf, int32(p.Mode))
	writeF32(buf, p.Freq)
	writeF32(buf, p.FreqHigh)
	writeI32(buf, int32(p.Family))
	writeI32(buf, int32(p.SlopeDBPerOct))
	writeF32(buf, p.GainDB)
	writeBool(buf, p.Enabled)
}

func loadCrossover(r *bytes.Reader) (crossover.Params, error) {
	var p crossover.Params

	mode, err := readI32(r)
	if err != nil {
		return p, err
	}

	p.Mode = crossover.Mode(mode)

	if p.Freq, err = readF32(r); err != nil {
		return p, err
	}

	if p.FreqHigh, err = readF32(r); err != nil {
		return p, err
	}

	family, err := readI32(r)
	if err != nil {
		return p, err
	}

	p.Family = filterdesign.Family(family)

	slope, err := readI32(r)
	if err != nil {
		return p, err
	}

	p.SlopeDBPerOct = int(slope)

	if p.GainDB, err = readF32(r); err != nil {
		return p, err
	}

	if p.Enabled, err = readBool(r); err != nil {
		return p, err
	}

	return p, nil
}

// --- PEQ ---

type peqState struct {
	preGainDB float64
	bands     [peq.NumBands]peq.BandParams
}

func savePEQ(buf *bytes.Buffer, c *peq.Channel) {
	writeF32(buf, c.PreGainDB())

	for b := 0; b < peq.NumBands; b++ {
		p, _ := c.BandParams(b)
		writeI32(buf, int32(p.Kind))
		writeF32(buf, p.Freq)
		writeF32(buf, p.GainDB)
		writeF32(buf, p.Q)
		writeBool(buf, p.Enabled)
	}
}

func loadPEQ(r *bytes.Reader) (peqState, error) {
	var s peqState

	var err error
	if s.preGainDB, err = readF32(r); err != nil {
		return s, err
	}

	for b := 0; b < peq.NumBands; b++ {
		kind, err := readI32(r)
		if err != nil {
			return s, err
		}

		freq, err := readF32(r)
		if err != nil {
			return s, err
		}

		gain, err := readF32(r)
		if err != nil {
			return s, err
		}

		q, err := readF32(r)
		if err != nil {
			return s, err
		}

		enabled, err := readBool(r)
		if err != nil {
			return s, err
		}

		s.bands[b] = peq.BandParams{Kind: peq.Kind(kind), Freq: freq, GainDB: gain, Q: q, Enabled: enabled}
	}

	return s, nil
}

func applyPEQ(c *peq.Channel, s peqState) {
	c.SetPreGain(s.preGainDB)

	for b := 0; b < peq.NumBands; b++ {
		c.ConfigureBand(b, s.bands[b])
	}
}

// --- compressor ---

func saveCompressor(buf *bytes.Buffer, cfg dynamics.Config) {
	writeF32(buf, cfg.ThresholdDB)
	writeF32(buf, cfg.Ratio)
	writeF32(buf, cfg.AttackMs)
	writeF32(buf, cfg.ReleaseMs)
	writeF32(buf, cfg.KneeWidthDB)
	writeF32(buf, cfg.MakeupDB)
	writeI32(buf, int32(cfg.Detection))
	writeI32(buf, int32(cfg.KneeType))
	writeBool(buf, cfg.Enabled)
}

func loadCompressor(r *bytes.Reader) (dynamics.Config, error) {
	var cfg dynamics.Config

	var err error
	if cfg.ThresholdDB, err = readF32(r); err != nil {
		return cfg, err
	}

	if cfg.Ratio, err = readF32(r); err != nil {
		return cfg, err
	}

	if cfg.AttackMs, err = readF32(r); err != nil {
		return cfg, err
	}

	if cfg.ReleaseMs, err = readF32(r); err != nil {
		return cfg, err
	}

	if cfg.KneeWidthDB, err = readF32(r); err != nil {
		return cfg, err
	}

	if cfg.MakeupDB, err = readF32(r); err != nil {
		return cfg, err
	}

	detection, err := readI32(r)
	if err != nil {
		return cfg, err
	}

	cfg.Detection = dynamics.Detection(detection)

	kneeType, err := readI32(r)
	if err != nil {
		return cfg, err
	}

	cfg.KneeType = dynamics.Knee(kneeType)

	if cfg.Enabled, err = readBool(r); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// --- delay ---

type delayState struct {
	timeMs      float64
	tempC       float64
	phaseInvert bool
	mix         float64
	enabled     bool
}

func saveDelay(buf *bytes.Buffer, c *delay.Channel) {
	writeF32(buf, c.TimeMs())
	writeF32(buf, c.Temperature())
	writeBool(buf, c.Polarity())
	writeF32(buf, c.Mix())
	writeBool(buf, c.Enabled())
}

func loadDelay(r *bytes.Reader) (delayState, error) {
	var s delayState

	var err error
	if s.timeMs, err = readF32(r); err != nil {
		return s, err
	}

	if s.tempC, err = readF32(r); err != nil {
		return s, err
	}

	if s.phaseInvert, err = readBool(r); err != nil {
		return s, err
	}

	if s.mix, err = readF32(r); err != nil {
		return s, err
	}

	if s.enabled, err = readBool(r); err != nil {
		return s, err
	}

	return s, nil
}

func applyDelay(c *delay.Channel, s delayState) {
	c.SetTimeMs(s.timeMs)
	c.UpdateTemperature(s.tempC)
	c.SetPolarity(s.phaseInvert)
	c.SetMix(s.mix)
	c.Enable(s.enabled)
}

// --- limiter ---

func saveLimiter(buf *bytes.Buffer, cfg limiter.Config) {
	writeF32(buf, cfg.ThresholdDB)
	writeF32(buf, cfg.CeilingDB)
	writeF32(buf, cfg.AttackMs)
	writeF32(buf, cfg.ReleaseMs)
	writeF32(buf, cfg.LookaheadMs)
	writeBool(buf, cfg.AdaptiveRelease)
	writeBool(buf, cfg.ISPEstimation)
	writeBool(buf, cfg.Enabled)
}

func loadLimiter(r *bytes.Reader) (limiter.Config, error) {
	var cfg limiter.Config

	var err error
	if cfg.ThresholdDB, err = readF32(r); err != nil {
		return cfg, err
	}

	if cfg.CeilingDB, err = readF32(r); err != nil {
		return cfg, err
	}

	if cfg.AttackMs, err = readF32(r); err != nil {
		return cfg, err
	}

	if cfg.ReleaseMs, err = readF32(r); err != nil {
		return cfg, err
	}

	if cfg.LookaheadMs, err = readF32(r); err != nil {
		return cfg, err
	}

	if cfg.AdaptiveRelease, err = readBool(r); err != nil {
		return cfg, err
	}

	if cfg.ISPEstimation, err = readBool(r); err != nil {
		return cfg, err
	}

	if cfg.Enabled, err = readBool(r); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// --- primitive codecs ---

func writeU32(buf *bytes.Buffer, v uint32) { _ = binary.Write(buf, binary.LittleEndian, v) }
func writeI32(buf *bytes.Buffer, v int32)  { _ = binary.Write(buf, binary.LittleEndian, v) }
func writeF32(buf *bytes.Buffer, v float64) {
	_ = binary.Write(buf, binary.LittleEndian, float32(v))
}

func writeBool(buf *bytes.Buffer, v bool) {
	var b uint8
	if v {
		b = 1
	}

	buf.WriteByte(b)
}

func readU32(r *bytes.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.LittleEndian, &v)

	return v, err
}

func readI32(r *bytes.Reader) (int32, error) {
	var v int32
	err := binary.Read(r, binary.LittleEndian, &v)

	return v, err
}

func readF32(r *bytes.Reader) (float64, error) {
	var v float32
	err := binary.Read(r, binary.LittleEndian, &v)

	return float64(v), err
}

func readBool(r *bytes.Reader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}

	return b != 0, nil
}
