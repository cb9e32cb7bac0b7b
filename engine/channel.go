package engine

import (
	"github.com/cwbudde/xover-engine/dsp/crossover"
	"github.com/cwbudde/xover-engine/dsp/delay"
	"github.com/cwbudde/xover-engine/dsp/dynamics"
	"github.com/cwbudde/xover-engine/dsp/limiter"
	"github.com/cwbudde/xover-engine/dsp/peq"
)

// channel bundles one output's full processing chain, in the order
// Process runs them: crossover, PEQ, compressor, delay, limiter. Routing
// happens one level up, in Engine.Process, since it mixes across channels
// rather than within one.
type channel struct {
	crossover  *crossover.Band
	peq        *peq.Channel
	compressor *dynamics.Compressor
	delay      *delay.Channel
	limiter    *limiter.Limiter
}

func newChannel(sampleRate, maxDelayMs float64) (*channel, error) {
	dl, err := delay.NewChannel(sampleRate, maxDelayMs)
	if err != nil {
		return nil, err
	}

	return &channel{
		crossover:  crossover.NewBand(sampleRate),
		peq:        peq.NewChannel(sampleRate),
		compressor: dynamics.New(sampleRate),
		delay:      dl,
		limiter:    limiter.New(sampleRate),
	}, nil
}

// process runs buf through the channel's chain in place, in pipeline
// order: crossover, PEQ, compressor, delay, limiter.
func (c *channel) process(buf []float64) {
	c.crossover.ProcessBlock(buf)
	c.peq.ProcessBlock(buf)
	c.compressor.ProcessBlock(buf)
	c.delay.ProcessBlock(buf)
	c.limiter.ProcessBlock(buf)
}

func (c *channel) setSampleRate(sampleRate float64) error {
	if _, err := c.crossover.SetSampleRate(sampleRate); err != nil {
		return err
	}

	c.peq.SetSampleRate(sampleRate)
	c.compressor.SetSampleRate(sampleRate)
	c.limiter.SetSampleRate(sampleRate)

	return c.delay.SetSampleRate(sampleRate)
}
