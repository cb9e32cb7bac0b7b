// Package crossover implements the per-output-channel crossover band: a
// configurable Bypass/LowPass/HighPass/BandPass stage built from a pair of
// dsp/filterdesign cascades, processed through dsp/biquad chains.
//
// Each [Band] owns its own low-pass and high-pass [biquad.Chain]; BandPass
// routes a sample through the high-pass cascade followed by the low-pass
// cascade. Configure rebuilds both cascades from scratch and then swaps
// them in; the swap takes no lock and is not synchronised with a
// ProcessSample call running on another goroutine.
package crossover
